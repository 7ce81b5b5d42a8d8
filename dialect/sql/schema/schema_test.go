package schema

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	"ariga.io/atlas/sql/postgres"
	"ariga.io/atlas/sql/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/syssam/specgen/compiler/gen"
	"github.com/syssam/specgen/dialect"
	"github.com/syssam/specgen/schema/field"
)

func petSpec() *gen.Spec {
	return &gen.Spec{Tables: []*gen.Table{
		{
			Name: "Pet",
			Columns: []*gen.Column{
				{Name: "id", Type: field.Primitive(field.KindInteger), PrimaryKey: true},
				{Name: "name", Type: field.Primitive(field.KindString)},
				{Name: "tag", Type: field.Primitive(field.KindString), Nullable: true},
				{Name: "weight", Type: field.Primitive(field.KindNumber), Nullable: true},
				{Name: "born at", Type: field.Primitive(field.KindDateTime), Nullable: true},
				{Name: "photo_urls", Type: field.ArrayOf(field.Primitive(field.KindString)), Nullable: true},
				{Name: "owner", Type: field.RefTo("Owner"), Nullable: true},
			},
		},
	}}
}

func TestNewPlanner(t *testing.T) {
	_, err := NewPlanner("mysql")
	require.Error(t, err)

	p, err := NewPlanner(dialect.Postgres)
	require.NoError(t, err)
	assert.Equal(t, dialect.Postgres, p.Dialect())
	assert.Equal(t, "public", p.DefaultSchema())

	p, err = NewPlanner(dialect.SQLite)
	require.NoError(t, err)
	assert.Equal(t, "main", p.DefaultSchema())
}

func TestSchema(t *testing.T) {
	p, err := NewPlanner(dialect.Postgres)
	require.NoError(t, err)
	s, err := p.Schema("public", petSpec())
	require.NoError(t, err)
	require.Len(t, s.Tables, 1)

	tbl := s.Tables[0]
	assert.Equal(t, "Pet", tbl.Name)
	assert.Same(t, s, tbl.Schema)
	names := make([]string, 0, len(tbl.Columns))
	for _, c := range tbl.Columns {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"id", "name", "tag", "weight", "born_at", "photo_urls", "owner"}, names)
	require.NotNil(t, tbl.PrimaryKey)
	require.Len(t, tbl.PrimaryKey.Parts, 1)
	assert.Equal(t, "id", tbl.PrimaryKey.Parts[0].C.Name)

	photos, ok := tbl.Column("photo_urls")
	require.True(t, ok)
	arr, ok := photos.Type.Type.(*postgres.ArrayType)
	require.True(t, ok)
	assert.Equal(t, "character varying[]", arr.T)
	assert.True(t, photos.Type.Null)

	owner, ok := tbl.Column("owner")
	require.True(t, ok)
	assert.Equal(t, &schema.JSONType{T: "jsonb"}, owner.Type.Type)
}

func TestPlanOffline(t *testing.T) {
	ctx := context.Background()

	t.Run("Postgres", func(t *testing.T) {
		p, err := NewPlanner(dialect.Postgres)
		require.NoError(t, err)
		res, err := p.Plan(ctx, petSpec(), nil)
		require.NoError(t, err)
		require.Len(t, res.Changes, 1)
		assert.IsType(t, &schema.AddTable{}, res.Changes[0])
		assert.Equal(t, PlanName, res.Plan.Name)

		stmts := res.Statements()
		require.Len(t, stmts, 1)
		stmt := stmts[0]
		assert.True(t, strings.HasPrefix(stmt, `CREATE TABLE "Pet"`), stmt)
		assert.Contains(t, stmt, `"id" integer NOT NULL`)
		assert.Contains(t, stmt, `"name" character varying NOT NULL`)
		assert.Contains(t, stmt, `"tag" character varying NULL`)
		assert.Contains(t, stmt, `"weight" double precision NULL`)
		assert.Contains(t, stmt, `"photo_urls" character varying[] NULL`)
		assert.Contains(t, stmt, `"owner" jsonb NULL`)
		assert.Contains(t, stmt, `PRIMARY KEY ("id")`)
		assert.False(t, res.Validation.HasErrors())
	})

	t.Run("SQLite", func(t *testing.T) {
		p, err := NewPlanner(dialect.SQLite)
		require.NoError(t, err)
		res, err := p.Plan(ctx, petSpec(), nil)
		require.NoError(t, err)
		stmts := res.Statements()
		require.Len(t, stmts, 1)
		assert.True(t, strings.HasPrefix(stmts[0], "CREATE TABLE `Pet`"), stmts[0])
		assert.Contains(t, stmts[0], "`id` integer NOT NULL")
		assert.Contains(t, stmts[0], "`photo_urls` json NULL")
		assert.Contains(t, stmts[0], "PRIMARY KEY (`id`)")
	})

	t.Run("Empty", func(t *testing.T) {
		p, err := NewPlanner(dialect.Postgres)
		require.NoError(t, err)
		res, err := p.Plan(ctx, &gen.Spec{}, nil)
		require.NoError(t, err)
		assert.Empty(t, res.Statements())
	})
}

func TestPlanLive(t *testing.T) {
	db, err := sql.Open(dialect.SQLite, filepath.Join(t.TempDir(), "live.db"))
	require.NoError(t, err)
	defer db.Close()
	_, err = db.Exec("CREATE TABLE `legacy` (`id` integer NOT NULL, PRIMARY KEY (`id`))")
	require.NoError(t, err)

	ctx := context.Background()
	p, err := NewPlanner(dialect.SQLite)
	require.NoError(t, err)
	res, err := p.Plan(ctx, petSpec(), db)
	require.NoError(t, err)

	plan := strings.Join(res.Statements(), "\n")
	assert.Contains(t, plan, "CREATE TABLE `Pet`")
	assert.Contains(t, plan, "DROP TABLE `legacy`")
	require.True(t, res.Validation.HasErrors())
	assert.Equal(t, "legacy", res.Validation.Errors[0].Table)

	p, err = NewPlanner(dialect.SQLite, AllowDropTable())
	require.NoError(t, err)
	res, err = p.Plan(ctx, petSpec(), db)
	require.NoError(t, err)
	assert.False(t, res.Validation.HasErrors())
	assert.True(t, res.Validation.HasBreakingChanges())
}
