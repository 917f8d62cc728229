package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"campus-election-backend/cache"
	"campus-election-backend/models"
	"campus-election-backend/repository"
)

// PositionInput creates a position. IsActive defaults to true when nil.
type PositionInput struct {
	Name        string
	Description string
	Order       int
	IsActive    *bool
}

// PositionPatch updates a position; nil fields are left alone.
type PositionPatch struct {
	Description *string
	Order       *int
	IsActive    *bool
}

// CandidateInput creates a candidate. IsActive defaults to true when nil.
type CandidateInput struct {
	PositionID uint
	Name       string
	Bio        string
	PhotoURL   string
	IsActive   *bool
}

// CandidatePatch updates a candidate; nil fields are left alone.
type CandidatePatch struct {
	Bio      *string
	PhotoURL *string
	IsActive *bool
}

// AdminService manages the ballot. Every mutation invalidates cached results.
type AdminService interface {
	CreatePosition(ctx context.Context, in PositionInput) (*models.Position, error)
	UpdatePosition(ctx context.Context, id uint, patch PositionPatch) (*models.Position, error)
	CreateCandidate(ctx context.Context, in CandidateInput) (*models.Candidate, error)
	UpdateCandidate(ctx context.Context, id uint, patch CandidatePatch) (*models.Candidate, error)
	DeleteVote(ctx context.Context, id uint) error
}

type AdminServiceImpl struct {
	repo    repository.ElectionRepository
	results *cache.ResultsCache
}

func NewAdminService(repo repository.ElectionRepository, results *cache.ResultsCache) AdminService {
	return &AdminServiceImpl{repo: repo, results: results}
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

func (s *AdminServiceImpl) CreatePosition(ctx context.Context, in PositionInput) (*models.Position, error) {
	position := &models.Position{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Order:       in.Order,
		IsActive:    boolOr(in.IsActive, true),
	}
	if err := s.repo.CreatePosition(ctx, position); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, FieldErrors{"name": {"Position with this name already exists."}}
		}
		return nil, err
	}

	s.results.Invalidate(ctx)
	slog.Info("position created", "position_id", position.ID, "name", position.Name)
	return position, nil
}

func (s *AdminServiceImpl) UpdatePosition(ctx context.Context, id uint, patch PositionPatch) (*models.Position, error) {
	fields := map[string]any{}
	if patch.Description != nil {
		fields["description"] = *patch.Description
	}
	if patch.Order != nil {
		fields["display_order"] = *patch.Order
	}
	if patch.IsActive != nil {
		fields["is_active"] = *patch.IsActive
	}

	position, err := s.repo.UpdatePosition(ctx, id, fields)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrPositionNotFound
	}
	if err != nil {
		return nil, err
	}

	s.results.Invalidate(ctx)
	slog.Info("position updated", "position_id", id, "fields", len(fields))
	return position, nil
}

func (s *AdminServiceImpl) CreateCandidate(ctx context.Context, in CandidateInput) (*models.Candidate, error) {
	if _, err := s.repo.GetPosition(ctx, in.PositionID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, FieldErrors{"position": {"Position does not exist."}}
		}
		return nil, err
	}

	candidate := &models.Candidate{
		PositionID: in.PositionID,
		Name:       strings.TrimSpace(in.Name),
		Bio:        in.Bio,
		PhotoURL:   in.PhotoURL,
		IsActive:   boolOr(in.IsActive, true),
	}
	if err := s.repo.CreateCandidate(ctx, candidate); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, FieldErrors{"name": {"A candidate with this name already runs for this position."}}
		}
		return nil, err
	}

	s.results.Invalidate(ctx)
	slog.Info("candidate created", "candidate_id", candidate.ID, "position_id", candidate.PositionID)
	return candidate, nil
}

func (s *AdminServiceImpl) UpdateCandidate(ctx context.Context, id uint, patch CandidatePatch) (*models.Candidate, error) {
	fields := map[string]any{}
	if patch.Bio != nil {
		fields["bio"] = *patch.Bio
	}
	if patch.PhotoURL != nil {
		fields["photo_url"] = *patch.PhotoURL
	}
	if patch.IsActive != nil {
		fields["is_active"] = *patch.IsActive
	}

	candidate, err := s.repo.UpdateCandidate(ctx, id, fields)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrCandidateNotFound
	}
	if err != nil {
		return nil, err
	}

	s.results.Invalidate(ctx)
	slog.Info("candidate updated", "candidate_id", id, "fields", len(fields))
	return candidate, nil
}

// DeleteVote removes a vote. Votes are otherwise immutable.
func (s *AdminServiceImpl) DeleteVote(ctx context.Context, id uint) error {
	if err := s.repo.DeleteVote(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrVoteNotFound
		}
		return err
	}

	s.results.Invalidate(ctx)
	slog.Warn("vote deleted by admin", "vote_id", id)
	return nil
}
