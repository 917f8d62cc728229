package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"campus-election-backend/cache"
	"campus-election-backend/models"
	"campus-election-backend/repository"
)

const voteLockExpiry = 5 * time.Second

// Locker serialises work under a named mutex.
type Locker interface {
	WithLock(ctx context.Context, name string, expiry time.Duration, action func() error) error
}

// VoteService casts votes and reports on a user's own ballot.
type VoteService interface {
	CastVote(ctx context.Context, user *models.User, candidateID, positionID uint) (*models.VoteView, error)
	MyVotes(ctx context.Context, user *models.User) ([]models.VoteView, error)
	VotingStatus(ctx context.Context, user *models.User) (*models.VotingStatus, error)
}

type VoteServiceImpl struct {
	repo    repository.ElectionRepository
	locks   Locker
	results *cache.ResultsCache
}

// NewVoteService creates the vote service. locks and results may be nil.
func NewVoteService(repo repository.ElectionRepository, locks Locker, results *cache.ResultsCache) VoteService {
	if locks == nil {
		locks = (*cache.LockService)(nil)
	}
	return &VoteServiceImpl{repo: repo, locks: locks, results: results}
}

// CastVote records user's choice of candidateID for positionID. Business rule
// violations come back as *VoteError.
func (s *VoteServiceImpl) CastVote(ctx context.Context, user *models.User, candidateID, positionID uint) (*models.VoteView, error) {
	position, err := s.repo.GetPosition(ctx, positionID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrPositionNotFound
	}
	if err != nil {
		return nil, err
	}

	candidate, err := s.repo.GetCandidate(ctx, candidateID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrCandidateNotFound
	}
	if err != nil {
		return nil, err
	}

	var vote *models.Vote
	cast := func() error {
		v, err := s.insertVote(ctx, user.ID, candidate, position)
		vote = v
		return err
	}

	lockName := fmt.Sprintf("vote:%d:%d", user.ID, position.ID)
	err = s.locks.WithLock(ctx, lockName, voteLockExpiry, cast)
	if errors.Is(err, cache.ErrLockNotAcquired) {
		// the unique index still guards the insert
		err = cast()
	}
	if err != nil {
		var vErr *VoteError
		if errors.As(err, &vErr) {
			slog.Info("vote rejected", "user_id", user.ID, "position_id", position.ID, "candidate_id", candidate.ID, "reason", vErr.Message)
		}
		return nil, err
	}

	s.results.Invalidate(ctx)
	slog.Info("vote cast", "vote_id", vote.ID, "user_id", user.ID, "position_id", position.ID, "candidate_id", candidate.ID)

	vote.Candidate = *candidate
	vote.Position = *position
	view := voteView(*vote, user.Profile.Nickname)
	return &view, nil
}

// insertVote applies the vote rules in order and inserts the row.
func (s *VoteServiceImpl) insertVote(ctx context.Context, userID uint, candidate *models.Candidate, position *models.Position) (*models.Vote, error) {
	duplicate := newVoteError(ErrDuplicateVote, fmt.Sprintf("You have already voted for %s.", position.Name))

	voted, err := s.repo.HasUserVoted(ctx, userID, position.ID)
	if err != nil {
		return nil, err
	}
	if voted {
		return nil, duplicate
	}
	if candidate.PositionID != position.ID {
		return nil, newVoteError(ErrCandidateMismatch, "Candidate does not belong to the selected position.")
	}
	if !candidate.IsActive {
		return nil, newVoteError(ErrInactiveCandidate, "This candidate is no longer active.")
	}
	if !position.IsActive {
		return nil, newVoteError(ErrClosedPosition, "Voting for this position is currently closed.")
	}

	vote := &models.Vote{UserID: userID, CandidateID: candidate.ID, PositionID: position.ID}
	if err := s.repo.CreateVote(ctx, vote); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, duplicate
		}
		return nil, fmt.Errorf("failed to save vote: %w", err)
	}
	return vote, nil
}

// MyVotes returns the user's votes, newest first.
func (s *VoteServiceImpl) MyVotes(ctx context.Context, user *models.User) ([]models.VoteView, error) {
	votes, err := s.repo.ListVotesByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	views := make([]models.VoteView, 0, len(votes))
	for _, v := range votes {
		views = append(views, voteView(v, v.User.Profile.Nickname))
	}
	return views, nil
}

// VotingStatus reports, for every active position, whether user has voted.
func (s *VoteServiceImpl) VotingStatus(ctx context.Context, user *models.User) (*models.VotingStatus, error) {
	positions, err := s.repo.ListPositions(ctx, true)
	if err != nil {
		return nil, err
	}
	voted, err := s.repo.VotedPositionIDs(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	status := &models.VotingStatus{
		VotingStatus:   make([]models.PositionStatus, 0, len(positions)),
		TotalPositions: len(positions),
		VotedCount:     len(voted),
	}
	for _, p := range positions {
		status.VotingStatus = append(status.VotingStatus, models.PositionStatus{
			PositionID:   p.ID,
			PositionName: p.Name,
			HasVoted:     voted[p.ID],
		})
	}
	return status, nil
}

func voteView(v models.Vote, nickname string) models.VoteView {
	return models.VoteView{
		ID:            v.ID,
		Candidate:     v.CandidateID,
		Position:      v.PositionID,
		Timestamp:     v.Timestamp,
		UserNickname:  nickname,
		CandidateName: v.Candidate.Name,
		PositionName:  v.Position.Name,
	}
}
