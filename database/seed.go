package database

import (
	"fmt"
	"log/slog"

	"campus-election-backend/auth"
	"campus-election-backend/models"

	"gorm.io/gorm"
)

type samplePosition struct {
	Name        string
	Description string
	Order       int
	Candidates  []sampleCandidate
}

type sampleCandidate struct {
	Name string
	Bio  string
}

var samplePositions = []samplePosition{
	{
		Name: "President", Description: "Lead the student body and represent all students", Order: 1,
		Candidates: []sampleCandidate{
			{"John Anderson", "Senior with 3 years of leadership experience. Focused on student welfare and campus improvements."},
			{"Sarah Williams", "Passionate about environmental sustainability and student mental health initiatives."},
			{"Michael Chen", "Former VP with proven track record in organizing successful campus events."},
		},
	},
	{
		Name: "Vice President", Description: "Assist the President and oversee committees", Order: 2,
		Candidates: []sampleCandidate{
			{"Emily Johnson", "Dedicated to improving student-faculty communication and academic support."},
			{"David Martinez", "Experienced in coordinating large-scale student projects and initiatives."},
			{"Lisa Thompson", "Advocate for diversity and inclusion programs on campus."},
		},
	},
	{
		Name: "Secretary", Description: "Manage records and communications", Order: 3,
		Candidates: []sampleCandidate{
			{"Robert Brown", "Detail-oriented with excellent organizational and communication skills."},
			{"Jennifer Davis", "Former newsletter editor with strong writing and documentation abilities."},
		},
	},
	{
		Name: "Treasurer", Description: "Handle finances and budget planning", Order: 4,
		Candidates: []sampleCandidate{
			{"James Wilson", "Economics major with experience in budget management and financial planning."},
			{"Amanda Garcia", "Accounting background with transparent and efficient fund management approach."},
			{"Christopher Lee", "Business student committed to maximizing student organization funding."},
		},
	},
	{
		Name: "Public Relations Officer", Description: "Manage external communications and events", Order: 5,
		Candidates: []sampleCandidate{
			{"Sophia Rodriguez", "Social media expert with creative marketing and outreach strategies."},
			{"Daniel White", "Communications major focused on building strong community partnerships."},
		},
	},
	{
		Name: "Sports Director", Description: "Organize sports activities and tournaments", Order: 6,
		Candidates: []sampleCandidate{
			{"Ryan Taylor", "Varsity athlete dedicated to promoting sports and fitness for all students."},
			{"Michelle Adams", "Former team captain with experience organizing intramural tournaments."},
			{"Kevin Harris", "PE major committed to inclusive sports programs and wellness initiatives."},
		},
	},
}

// SampleUser is a ready-made student account for local testing.
type SampleUser struct {
	StudentID string
	Email     string
	Nickname  string
	Password  string
}

var SampleUsers = []SampleUser{
	{StudentID: "2024001", Email: "alice@test.com", Nickname: "Alice", Password: "ballot-alice"},
	{StudentID: "2024002", Email: "bob@test.com", Nickname: "Bob", Password: "ballot-bob1"},
	{StudentID: "2024003", Email: "charlie@test.com", Nickname: "Charlie", Password: "ballot-charlie"},
}

// Seed loads the sample ballot when no position exists yet.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Position{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count positions: %w", err)
	}
	if count > 0 {
		slog.Info("positions already present, skipping sample data")
		return nil
	}
	return createSampleBallot(db)
}

// ResetSampleData wipes votes, candidates and positions and reloads the
// sample ballot. Users are kept.
func ResetSampleData(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		// order matters due to foreign keys
		for _, table := range []any{&models.Vote{}, &models.Candidate{}, &models.Position{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(table).Error; err != nil {
				return fmt.Errorf("failed to clear %T: %w", table, err)
			}
		}
		return createSampleBallot(tx)
	})
}

func createSampleBallot(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, sp := range samplePositions {
			position := models.Position{
				Name:        sp.Name,
				Description: sp.Description,
				Order:       sp.Order,
				IsActive:    true,
			}
			if err := tx.Create(&position).Error; err != nil {
				return fmt.Errorf("failed to create position %s: %w", sp.Name, err)
			}

			for _, sc := range sp.Candidates {
				candidate := models.Candidate{
					PositionID: position.ID,
					Name:       sc.Name,
					Bio:        sc.Bio,
					IsActive:   true,
				}
				if err := tx.Create(&candidate).Error; err != nil {
					return fmt.Errorf("failed to create candidate %s: %w", sc.Name, err)
				}
			}
			slog.Info("created sample position", "position", sp.Name, "candidates", len(sp.Candidates))
		}
		return nil
	})
}

// SeedUsers creates the sample accounts, skipping any that already exist.
// It returns how many were created.
func SeedUsers(db *gorm.DB) (int, error) {
	created := 0
	for _, su := range SampleUsers {
		var count int64
		if err := db.Model(&models.User{}).Where("username = ?", su.StudentID).Count(&count).Error; err != nil {
			return created, fmt.Errorf("failed to look up user %s: %w", su.StudentID, err)
		}
		if count > 0 {
			slog.Info("sample user already exists, skipping", "student_id", su.StudentID)
			continue
		}

		hash, err := auth.HashPassword(su.Password)
		if err != nil {
			return created, err
		}

		user := models.User{
			Username:     su.StudentID,
			PasswordHash: hash,
			Profile: models.Profile{
				StudentID: su.StudentID,
				Email:     su.Email,
				Nickname:  su.Nickname,
			},
		}
		if err := db.Create(&user).Error; err != nil {
			return created, fmt.Errorf("failed to create user %s: %w", su.StudentID, err)
		}
		created++
	}
	return created, nil
}
