package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDB_CreatesTables(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "", "")
	require.NoError(t, err, "InitDB should not return an error")
	defer teardown()

	for _, table := range []string{"players", "matches", "partnerships", "imported_matches"} {
		var name string
		err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, "Querying for %s table should not produce an error", table)
		assert.Equal(t, table, name)
	}
}

func TestInitDB_PlayerNamesAreUnique(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "", "")
	require.NoError(t, err)
	defer teardown()

	_, err = db.Exec(`INSERT INTO players (name, created_at) VALUES ('Obi', 0)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO players (name, created_at) VALUES ('Obi', 0)`)
	assert.Error(t, err)
	_, err = db.Exec(`INSERT INTO players (name, created_at) VALUES ('obi', 0)`)
	assert.NoError(t, err, "names are case-sensitive")
}

func TestInitDB_IsRepeatable(t *testing.T) {
	path := t.TempDir() + "/league.db"

	_, teardown, err := InitDB(path, "", "")
	require.NoError(t, err)
	teardown()

	db, teardown, err := InitDB(path, "", "")
	require.NoError(t, err)
	defer teardown()

	var rating int
	_, err = db.Exec(`INSERT INTO players (name, created_at) VALUES ('Jack', 0)`)
	require.NoError(t, err)
	require.NoError(t, db.QueryRow(`SELECT elo FROM players WHERE name = 'Jack'`).Scan(&rating))
	assert.Equal(t, 1500, rating)
}
