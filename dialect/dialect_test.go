package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(Postgres))
	require.NoError(t, Validate(SQLite))
	err := Validate("mysql")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported dialect "mysql"`)
}

func TestSupportsFunctions(t *testing.T) {
	assert.True(t, SupportsFunctions(Postgres))
	assert.False(t, SupportsFunctions(SQLite))
}
