package database_test

import (
	"testing"

	"campus-election-backend/auth"
	"campus-election-backend/config"
	"campus-election-backend/database"
	"campus-election-backend/models"
	"campus-election-backend/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func rows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestSeed(t *testing.T) {
	db := testutil.NewTestDB(t)

	require.NoError(t, database.Seed(db))
	assert.Equal(t, int64(6), rows(t, db, &models.Position{}))
	assert.Equal(t, int64(16), rows(t, db, &models.Candidate{}))

	// a second run leaves existing data alone
	require.NoError(t, database.Seed(db))
	assert.Equal(t, int64(6), rows(t, db, &models.Position{}))
	assert.Equal(t, int64(16), rows(t, db, &models.Candidate{}))
}

func TestResetSampleData(t *testing.T) {
	db := testutil.NewTestDB(t)
	custom := testutil.CreatePosition(t, db, "Archivist", 7, true)
	candidate := testutil.CreateCandidate(t, db, custom, "Dan", true)
	user := testutil.CreateUser(t, db, "2024001", false)
	testutil.CastVote(t, db, user, candidate)

	require.NoError(t, database.ResetSampleData(db))

	assert.Equal(t, int64(0), rows(t, db, &models.Vote{}))
	assert.Equal(t, int64(6), rows(t, db, &models.Position{}))
	assert.Equal(t, int64(16), rows(t, db, &models.Candidate{}))
	assert.Equal(t, int64(1), rows(t, db, &models.User{}))

	var president models.Position
	require.NoError(t, db.Where("name = ?", "President").First(&president).Error)
	assert.True(t, president.IsActive)
	assert.Equal(t, 1, president.Order)
}

func TestSeedUsers(t *testing.T) {
	db := testutil.NewTestDB(t)
	testutil.CreateUser(t, db, database.SampleUsers[0].StudentID, false)

	created, err := database.SeedUsers(db)
	require.NoError(t, err)
	assert.Equal(t, len(database.SampleUsers)-1, created)

	var bob models.User
	require.NoError(t, db.Preload("Profile").Where("username = ?", "2024002").First(&bob).Error)
	assert.Equal(t, "bob@test.com", bob.Profile.Email)
	assert.True(t, auth.CheckPassword(bob.PasswordHash, database.SampleUsers[1].Password))

	created, err = database.SeedUsers(db)
	require.NoError(t, err)
	assert.Equal(t, 0, created)
}

func TestDialector(t *testing.T) {
	_, err := database.Dialector(config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"})
	assert.NoError(t, err)

	_, err = database.Dialector(config.DatabaseConfig{Driver: "mysql", DSN: "u:p@tcp(localhost:3306)/db"})
	assert.NoError(t, err)

	_, err = database.Dialector(config.DatabaseConfig{Driver: "postgres"})
	assert.Error(t, err)
}
