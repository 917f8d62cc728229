// Package testutil provides an in-memory database and fixtures for tests.
package testutil

import (
	"fmt"
	"testing"

	"campus-election-backend/auth"
	"campus-election-backend/database"
	"campus-election-backend/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestPassword is the plain-text password of every fixture user.
const TestPassword = "orange-kite-77"

// NewTestDB opens a private in-memory SQLite database with the full schema.
// Each call gets its own database so tests can run in parallel.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := database.Connect(sqlite.Open(dsn), logger.Silent)
	if err != nil {
		t.Fatalf("Failed to connect to in-memory database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get database handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}

// CreateUser inserts a student with a profile. studentID doubles as username.
func CreateUser(t *testing.T, db *gorm.DB, studentID string, staff bool) *models.User {
	t.Helper()

	hash, err := auth.HashPassword(TestPassword)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	user := &models.User{
		Username:     studentID,
		PasswordHash: hash,
		IsStaff:      staff,
		Profile: models.Profile{
			StudentID: studentID,
			Nickname:  "Student " + studentID,
			Email:     studentID + "@campus.test",
		},
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", studentID, err)
	}
	return user
}

// CreatePosition inserts a position.
func CreatePosition(t *testing.T, db *gorm.DB, name string, order int, active bool) *models.Position {
	t.Helper()

	position := &models.Position{Name: name, Description: name + " of the student council", Order: order, IsActive: active}
	if err := db.Create(position).Error; err != nil {
		t.Fatalf("Failed to create position %s: %v", name, err)
	}
	return position
}

// CreateCandidate inserts a candidate for position.
func CreateCandidate(t *testing.T, db *gorm.DB, position *models.Position, name string, active bool) *models.Candidate {
	t.Helper()

	candidate := &models.Candidate{PositionID: position.ID, Name: name, Bio: name + " for " + position.Name, IsActive: active}
	if err := db.Omit("Position").Create(candidate).Error; err != nil {
		t.Fatalf("Failed to create candidate %s: %v", name, err)
	}
	return candidate
}

// CastVote inserts a vote directly, bypassing the business rules.
func CastVote(t *testing.T, db *gorm.DB, user *models.User, candidate *models.Candidate) *models.Vote {
	t.Helper()

	vote := &models.Vote{UserID: user.ID, CandidateID: candidate.ID, PositionID: candidate.PositionID}
	if err := db.Omit("User", "Candidate", "Position").Create(vote).Error; err != nil {
		t.Fatalf("Failed to cast vote: %v", err)
	}
	return vote
}
