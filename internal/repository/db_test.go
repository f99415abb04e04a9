package repository

import (
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewDatabase_PlaceholdersFollowDialect(t *testing.T) {
	cases := map[Dialect]string{
		DialectPostgres: "SELECT id FROM documents WHERE id = $1",
		DialectSQLite:   "SELECT id FROM documents WHERE id = ?",
	}
	for dialect, want := range cases {
		t.Run(string(dialect), func(t *testing.T) {
			d := NewDatabase(nil, dialect, zap.NewNop())
			query, args, err := d.sb.Select("id").From("documents").Where(squirrel.Eq{"id": "doc-1"}).ToSql()
			require.NoError(t, err)
			assert.Equal(t, want, query)
			assert.Equal(t, []any{"doc-1"}, args)
		})
	}
}
