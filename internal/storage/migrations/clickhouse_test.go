package migrations

import (
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitStatements(t *testing.T) {
	sql := `
-- first
CREATE TABLE a (x UInt8) ENGINE = Memory;

-- second
CREATE TABLE b (y UInt8) ENGINE = Memory;
`
	stmts := splitStatements(sql)
	require.Len(t, stmts, 2)
	assert.Equal(t, "CREATE TABLE a (x UInt8) ENGINE = Memory", stmts[0])
	assert.Equal(t, "CREATE TABLE b (y UInt8) ENGINE = Memory", stmts[1])
}

func TestValidateNoSemicolonInStrings(t *testing.T) {
	assert.NoError(t, validateNoSemicolonInStrings(`SELECT 'it''s'; SELECT 1;`))
	assert.Error(t, validateNoSemicolonInStrings(`SELECT 'a;b'`))
}

func TestDatabaseFromDSN(t *testing.T) {
	db, err := databaseFromDSN("clickhouse://localhost:9000/massa")
	require.NoError(t, err)
	assert.Equal(t, "massa", db)

	_, err = databaseFromDSN("clickhouse://localhost:9000")
	assert.Error(t, err)

	_, err = databaseFromDSN("clickhouse://localhost:9000/bad`name")
	assert.Error(t, err)
}

func TestEmbeddedMigrationsAreValid(t *testing.T) {
	for _, dir := range []struct {
		fsys fs.FS
		name string
	}{{PostgresFS, "postgres"}, {ClickhouseFS, "clickhouse"}} {
		files, err := load(dir.fsys, dir.name)
		require.NoError(t, err)
		require.NotEmpty(t, files, dir.name)

		for _, m := range files {
			assert.NoError(t, validateNoSemicolonInStrings(m.sql), m.name)
			assert.NotEmpty(t, splitStatements(m.sql), m.name)
		}
	}
}

func TestLoad_SortsAndSkipsEmpty(t *testing.T) {
	fsys := fstest.MapFS{
		"m/002_b.sql":  {Data: []byte("SELECT 2;")},
		"m/001_a.sql":  {Data: []byte("SELECT 1;")},
		"m/003_c.sql":  {Data: []byte("  \n")},
		"m/README.txt": {Data: []byte("not sql")},
	}

	files, err := load(fsys, "m")
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "001_a.sql", files[0].name)
	assert.Equal(t, "002_b.sql", files[1].name)
}
