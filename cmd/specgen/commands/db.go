package commands

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/syssam/specgen/compiler"
	"github.com/syssam/specgen/compiler/gen"
	gensql "github.com/syssam/specgen/compiler/gen/sql"
	"github.com/syssam/specgen/dialect"
	"github.com/syssam/specgen/dialect/sql"
	"github.com/syssam/specgen/dialect/sql/schema"
)

func dbFlags(cmd *cobra.Command) {
	cmd.Flags().String("dialect", "", fmt.Sprintf("Database dialect: one of %v (default postgres)", dialect.Dialects))
	cmd.Flags().String("dsn", "", "Database connection string")
}

func (a *app) newPlanCommand() *cobra.Command {
	var allowDrop bool
	cmd := &cobra.Command{
		Use:   "plan [input]",
		Short: "Print the statements migrating a database to the document's tables",
		Long: `Plan the migration of a database to the tables of an OpenAPI document.

Without --dsn the plan targets an empty database. With --dsn the live
schema is inspected and only the difference is printed. Dropping tables or
columns fails unless --allow-drop is set.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := a.compilerConfig(args)
			if err != nil {
				return err
			}
			spec, _, err := compiler.Load(cc)
			if err != nil {
				return err
			}
			var opts []schema.ValidateOption
			if allowDrop {
				opts = append(opts, schema.AllowDropTable(), schema.AllowDropColumn())
			}
			p, err := schema.NewPlanner(a.cfg.Dialect, opts...)
			if err != nil {
				return err
			}
			var res *schema.Result
			if a.cfg.DSN == "" {
				res, err = p.Plan(cmd.Context(), spec, nil)
			} else {
				drv, oerr := sql.Open(a.cfg.Dialect, a.cfg.DSN)
				if oerr != nil {
					return oerr
				}
				defer drv.Close()
				res, err = p.Plan(cmd.Context(), spec, drv.DB())
			}
			if err != nil {
				return err
			}
			for _, w := range res.Validation.Warnings {
				pterm.Warning.Println(w.Error())
			}
			if res.Validation.HasErrors() {
				return fmt.Errorf("plan has destructive changes:\n%s", res.Validation)
			}
			out := cmd.OutOrStdout()
			for _, stmt := range res.Statements() {
				if _, err := fmt.Fprintln(out, stmt+";"); err != nil {
					return err
				}
			}
			return nil
		},
	}
	dbFlags(cmd)
	cmd.Flags().BoolVar(&allowDrop, "allow-drop", false, "Allow dropping tables and columns")
	return cmd
}

func (a *app) newApplyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply [input]",
		Short: "Execute the generated table and function DDL against a database",
		Long: `Execute the generated table statements, then the function statements,
in one transaction. Any failure rolls the transaction back. Function
statements and tables without columns are skipped on SQLite. After the
commit every applied table must be listed by the database.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := a.compilerConfig(args)
			if err != nil {
				return err
			}
			if a.cfg.DSN == "" {
				return fmt.Errorf("apply requires a connection string: pass --dsn or set SPECGEN_DSN")
			}
			spec, gcfg, err := compiler.Load(cc)
			if err != nil {
				return err
			}
			drv, err := sql.Open(a.cfg.Dialect, a.cfg.DSN)
			if err != nil {
				return err
			}
			defer drv.Close()
			spec, empty := storable(spec, drv.Dialect())
			for _, name := range empty {
				pterm.Warning.Printfln("table %s skipped: %s does not support tables without columns", name, drv.Dialect())
			}
			backend := gensql.NewBackend(gcfg.Mapper())
			tables, functions := backend.Statements(spec)
			sd := sql.NewStatsDriver(drv)
			res, err := sql.Apply(cmd.Context(), sd, tables, functions)
			if err != nil {
				return err
			}
			want := make([]string, 0, len(spec.Tables))
			for _, t := range spec.Tables {
				want = append(want, string(backend.Table(t).Name))
			}
			missing, err := sql.MissingTables(cmd.Context(), sd, want)
			if err != nil {
				return err
			}
			if len(missing) > 0 {
				return fmt.Errorf("tables missing after apply: %s", strings.Join(missing, ", "))
			}
			pterm.Success.Printfln("Applied %d tables and %d functions (%s)", res.Tables, res.Functions, sd.QueryStats().Stats())
			if res.Skipped > 0 {
				pterm.Warning.Printfln("%d functions skipped: %s does not support stored functions", res.Skipped, sd.Dialect())
			}
			return nil
		},
	}
	dbFlags(cmd)
	return cmd
}

// storable returns spec without the tables the dialect cannot create, and
// the names of the tables left out. SQLite rejects a table without columns.
func storable(spec *gen.Spec, name string) (*gen.Spec, []string) {
	if name != dialect.SQLite {
		return spec, nil
	}
	var (
		kept  = make([]*gen.Table, 0, len(spec.Tables))
		empty []string
	)
	for _, t := range spec.Tables {
		if len(t.Columns) == 0 {
			empty = append(empty, t.Name)
			continue
		}
		kept = append(kept, t)
	}
	out := *spec
	out.Tables = kept
	return &out, empty
}
