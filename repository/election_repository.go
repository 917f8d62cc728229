package repository

import (
	"context"
	"fmt"

	"campus-election-backend/models"

	"gorm.io/gorm"
)

// ElectionRepository is the data access interface for positions, candidates
// and votes.
type ElectionRepository interface {
	// positions
	ListPositions(ctx context.Context, activeOnly bool) ([]models.Position, error)
	GetPosition(ctx context.Context, id uint) (*models.Position, error)
	CreatePosition(ctx context.Context, position *models.Position) error
	UpdatePosition(ctx context.Context, id uint, fields map[string]any) (*models.Position, error)

	// candidates
	ListCandidates(ctx context.Context, activeOnly bool, positionID *uint) ([]models.Candidate, error)
	GetCandidate(ctx context.Context, id uint) (*models.Candidate, error)
	CreateCandidate(ctx context.Context, candidate *models.Candidate) error
	UpdateCandidate(ctx context.Context, id uint, fields map[string]any) (*models.Candidate, error)

	// votes
	HasUserVoted(ctx context.Context, userID, positionID uint) (bool, error)
	CreateVote(ctx context.Context, vote *models.Vote) error
	DeleteVote(ctx context.Context, id uint) error
	ListVotesByUser(ctx context.Context, userID uint) ([]models.Vote, error)
	VotedPositionIDs(ctx context.Context, userID uint) (map[uint]bool, error)

	// statistics
	CandidateVoteCounts(ctx context.Context) (map[uint]int64, error)
	PositionVoteCounts(ctx context.Context) (map[uint]int64, error)
	CountUsers(ctx context.Context) (int64, error)
	CountDistinctVoters(ctx context.Context) (int64, error)
	CountVotes(ctx context.Context) (int64, error)
}

// GormElectionRepository implements ElectionRepository on top of GORM.
type GormElectionRepository struct {
	db *gorm.DB
}

func NewElectionRepository(db *gorm.DB) *GormElectionRepository {
	return &GormElectionRepository{db: db}
}

// ListPositions returns positions in display order with their candidates
// preloaded by name. Inactive candidates are included; filtering is left to
// the caller so tallies can still see them.
func (r *GormElectionRepository) ListPositions(ctx context.Context, activeOnly bool) ([]models.Position, error) {
	var positions []models.Position
	q := r.db.WithContext(ctx).
		Preload("Candidates", func(db *gorm.DB) *gorm.DB {
			return db.Order("name ASC")
		}).
		Order("display_order ASC").Order("name ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Find(&positions).Error; err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}
	return positions, nil
}

func (r *GormElectionRepository) GetPosition(ctx context.Context, id uint) (*models.Position, error) {
	var position models.Position
	err := r.db.WithContext(ctx).
		Preload("Candidates", func(db *gorm.DB) *gorm.DB {
			return db.Order("name ASC")
		}).
		First(&position, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &position, nil
}

func (r *GormElectionRepository) CreatePosition(ctx context.Context, position *models.Position) error {
	return translate(r.db.WithContext(ctx).Omit("Candidates").Create(position).Error)
}

// UpdatePosition applies column updates and returns the reloaded row.
func (r *GormElectionRepository) UpdatePosition(ctx context.Context, id uint, fields map[string]any) (*models.Position, error) {
	if _, err := r.GetPosition(ctx, id); err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		err := r.db.WithContext(ctx).Model(&models.Position{}).Where("id = ?", id).Updates(fields).Error
		if err != nil {
			return nil, translate(err)
		}
	}
	return r.GetPosition(ctx, id)
}

// ListCandidates returns candidates ordered by position then name.
func (r *GormElectionRepository) ListCandidates(ctx context.Context, activeOnly bool, positionID *uint) ([]models.Candidate, error) {
	var candidates []models.Candidate
	q := r.db.WithContext(ctx).Preload("Position").Order("position_id ASC").Order("name ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if positionID != nil {
		q = q.Where("position_id = ?", *positionID)
	}
	if err := q.Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	return candidates, nil
}

func (r *GormElectionRepository) GetCandidate(ctx context.Context, id uint) (*models.Candidate, error) {
	var candidate models.Candidate
	if err := r.db.WithContext(ctx).Preload("Position").First(&candidate, id).Error; err != nil {
		return nil, translate(err)
	}
	return &candidate, nil
}

func (r *GormElectionRepository) CreateCandidate(ctx context.Context, candidate *models.Candidate) error {
	return translate(r.db.WithContext(ctx).Omit("Position").Create(candidate).Error)
}

func (r *GormElectionRepository) UpdateCandidate(ctx context.Context, id uint, fields map[string]any) (*models.Candidate, error) {
	if _, err := r.GetCandidate(ctx, id); err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		err := r.db.WithContext(ctx).Model(&models.Candidate{}).Where("id = ?", id).Updates(fields).Error
		if err != nil {
			return nil, translate(err)
		}
	}
	return r.GetCandidate(ctx, id)
}

func (r *GormElectionRepository) HasUserVoted(ctx context.Context, userID, positionID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Vote{}).
		Where("user_id = ? AND position_id = ?", userID, positionID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check existing vote: %w", err)
	}
	return count > 0, nil
}

// CreateVote inserts the vote. A second vote for the same position surfaces
// as ErrDuplicate from the (user_id, position_id) unique index.
func (r *GormElectionRepository) CreateVote(ctx context.Context, vote *models.Vote) error {
	err := r.db.WithContext(ctx).Omit("User", "Candidate", "Position").Create(vote).Error
	return translate(err)
}

func (r *GormElectionRepository) DeleteVote(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Vote{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete vote: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListVotesByUser returns the user's votes newest first with candidate,
// position and profile preloaded.
func (r *GormElectionRepository) ListVotesByUser(ctx context.Context, userID uint) ([]models.Vote, error) {
	var votes []models.Vote
	err := r.db.WithContext(ctx).
		Preload("Candidate").
		Preload("Position").
		Preload("User.Profile").
		Where("user_id = ?", userID).
		Order("timestamp DESC").Order("id DESC").
		Find(&votes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}
	return votes, nil
}

func (r *GormElectionRepository) VotedPositionIDs(ctx context.Context, userID uint) (map[uint]bool, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Vote{}).
		Where("user_id = ?", userID).
		Pluck("position_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list voted positions: %w", err)
	}

	voted := make(map[uint]bool, len(ids))
	for _, id := range ids {
		voted[id] = true
	}
	return voted, nil
}

type countRow struct {
	ID    uint
	Total int64
}

func (r *GormElectionRepository) groupCount(ctx context.Context, column string) (map[uint]int64, error) {
	var rows []countRow
	err := r.db.WithContext(ctx).Model(&models.Vote{}).
		Select(column + " AS id, COUNT(*) AS total").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count votes by %s: %w", column, err)
	}

	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.ID] = row.Total
	}
	return counts, nil
}

// CandidateVoteCounts maps candidate ID to votes received.
func (r *GormElectionRepository) CandidateVoteCounts(ctx context.Context) (map[uint]int64, error) {
	return r.groupCount(ctx, "candidate_id")
}

// PositionVoteCounts maps position ID to votes cast for it.
func (r *GormElectionRepository) PositionVoteCounts(ctx context.Context) (map[uint]int64, error) {
	return r.groupCount(ctx, "position_id")
}

func (r *GormElectionRepository) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

func (r *GormElectionRepository) CountDistinctVoters(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Vote{}).Distinct("user_id").Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count voters: %w", err)
	}
	return count, nil
}

func (r *GormElectionRepository) CountVotes(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Vote{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count votes: %w", err)
	}
	return count, nil
}
