package service

import (
	"context"
	"errors"
	"fmt"

	"campus-election-backend/cache"
	"campus-election-backend/models"
	"campus-election-backend/repository"
	"campus-election-backend/tally"
)

// ResultsService computes tallies and statistics from the store.
type ResultsService interface {
	AllResults(ctx context.Context) ([]models.PositionResult, error)
	PositionResult(ctx context.Context, id uint) (*models.PositionResult, error)
	Stats(ctx context.Context) (*models.VotingStats, error)
	ActivePositions(ctx context.Context) ([]models.PositionView, error)
	ActiveCandidates(ctx context.Context, positionID *uint) ([]models.CandidateView, error)
	VotingData(ctx context.Context) (*models.VotingData, error)
}

type ResultsServiceImpl struct {
	repo  repository.ElectionRepository
	cache *cache.ResultsCache
}

// NewResultsService creates the results service. results may be nil.
func NewResultsService(repo repository.ElectionRepository, results *cache.ResultsCache) ResultsService {
	return &ResultsServiceImpl{repo: repo, cache: results}
}

// snapshot loads every position with its candidates and vote counts.
func (s *ResultsServiceImpl) snapshot(ctx context.Context) ([]tally.Position, []models.Position, error) {
	positions, err := s.repo.ListPositions(ctx, false)
	if err != nil {
		return nil, nil, err
	}
	byCandidate, err := s.repo.CandidateVoteCounts(ctx)
	if err != nil {
		return nil, nil, err
	}
	byPosition, err := s.repo.PositionVoteCounts(ctx)
	if err != nil {
		return nil, nil, err
	}

	snap := make([]tally.Position, 0, len(positions))
	for _, p := range positions {
		snap = append(snap, toTally(p, byCandidate, byPosition))
	}
	return snap, positions, nil
}

func toTally(p models.Position, byCandidate, byPosition map[uint]int64) tally.Position {
	tp := tally.Position{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Order:       p.Order,
		IsActive:    p.IsActive,
		Total:       byPosition[p.ID],
		Candidates:  make([]tally.Candidate, 0, len(p.Candidates)),
	}
	for _, c := range p.Candidates {
		tp.Candidates = append(tp.Candidates, tally.Candidate{
			ID:       c.ID,
			Name:     c.Name,
			Bio:      c.Bio,
			IsActive: c.IsActive,
			Votes:    byCandidate[c.ID],
		})
	}
	return tp
}

// AllResults returns results for every position, active or not, in
// display order.
func (s *ResultsServiceImpl) AllResults(ctx context.Context) ([]models.PositionResult, error) {
	return cache.Fetch(ctx, s.cache, "all", func(ctx context.Context) ([]models.PositionResult, error) {
		snap, _, err := s.snapshot(ctx)
		if err != nil {
			return nil, err
		}
		results := make([]models.PositionResult, 0, len(snap))
		for _, p := range snap {
			results = append(results, tally.Result(p))
		}
		return results, nil
	})
}

func (s *ResultsServiceImpl) PositionResult(ctx context.Context, id uint) (*models.PositionResult, error) {
	name := fmt.Sprintf("position:%d", id)
	res, err := cache.Fetch(ctx, s.cache, name, func(ctx context.Context) (models.PositionResult, error) {
		position, err := s.repo.GetPosition(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return models.PositionResult{}, ErrPositionNotFound
		}
		if err != nil {
			return models.PositionResult{}, err
		}
		byCandidate, err := s.repo.CandidateVoteCounts(ctx)
		if err != nil {
			return models.PositionResult{}, err
		}
		byPosition, err := s.repo.PositionVoteCounts(ctx)
		if err != nil {
			return models.PositionResult{}, err
		}
		return tally.Result(toTally(*position, byCandidate, byPosition)), nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Stats returns the dashboard aggregates.
func (s *ResultsServiceImpl) Stats(ctx context.Context) (*models.VotingStats, error) {
	stats, err := cache.Fetch(ctx, s.cache, "stats", s.loadStats)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *ResultsServiceImpl) loadStats(ctx context.Context) (models.VotingStats, error) {
	users, err := s.repo.CountUsers(ctx)
	if err != nil {
		return models.VotingStats{}, err
	}
	voters, err := s.repo.CountDistinctVoters(ctx)
	if err != nil {
		return models.VotingStats{}, err
	}
	votes, err := s.repo.CountVotes(ctx)
	if err != nil {
		return models.VotingStats{}, err
	}
	snap, _, err := s.snapshot(ctx)
	if err != nil {
		return models.VotingStats{}, err
	}

	stats := models.VotingStats{
		TotalRegisteredUsers:   users,
		TotalVoters:            voters,
		TotalVotesCast:         votes,
		VoterTurnoutPercentage: tally.Turnout(voters, users),
		CandidatesCount:        tally.ActiveCandidateCount(snap),
		VotesByPosition:        []models.PositionVotes{},
	}
	for _, p := range snap {
		if !p.IsActive {
			continue
		}
		stats.PositionsCount++
		stats.VotesByPosition = append(stats.VotesByPosition, models.PositionVotes{
			PositionName:    p.Name,
			VoteCount:       p.Total,
			CandidatesCount: int64(len(p.Candidates)),
		})
	}
	if best := tally.MostCompetitive(snap); best != nil {
		name := best.Name
		stats.MostCompetitivePosition = &name
	}
	return stats, nil
}

// ActivePositions returns the ballot: active positions with their active
// candidates and live counts. candidates_count includes retired candidates.
func (s *ResultsServiceImpl) ActivePositions(ctx context.Context) ([]models.PositionView, error) {
	return cache.Fetch(ctx, s.cache, "positions", func(ctx context.Context) ([]models.PositionView, error) {
		snap, positions, err := s.snapshot(ctx)
		if err != nil {
			return nil, err
		}

		views := make([]models.PositionView, 0, len(positions))
		for i, p := range positions {
			if !p.IsActive {
				continue
			}
			view := models.PositionView{
				ID:              p.ID,
				Name:            p.Name,
				Description:     p.Description,
				Order:           p.Order,
				IsActive:        p.IsActive,
				TotalVotes:      snap[i].Total,
				CandidatesCount: int64(len(p.Candidates)),
				CreatedAt:       p.CreatedAt,
				Candidates:      []models.CandidateView{},
			}
			for j, c := range p.Candidates {
				if !c.IsActive {
					continue
				}
				c.Position = p
				view.Candidates = append(view.Candidates, candidateView(c, snap[i].Candidates[j].Votes, snap[i].Total))
			}
			views = append(views, view)
		}
		return views, nil
	})
}

// ActiveCandidates lists active candidates, optionally for one position.
func (s *ResultsServiceImpl) ActiveCandidates(ctx context.Context, positionID *uint) ([]models.CandidateView, error) {
	candidates, err := s.repo.ListCandidates(ctx, true, positionID)
	if err != nil {
		return nil, err
	}
	byCandidate, err := s.repo.CandidateVoteCounts(ctx)
	if err != nil {
		return nil, err
	}
	byPosition, err := s.repo.PositionVoteCounts(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]models.CandidateView, 0, len(candidates))
	for _, c := range candidates {
		views = append(views, candidateView(c, byCandidate[c.ID], byPosition[c.PositionID]))
	}
	return views, nil
}

// VotingData condenses the election into the snapshot given to the
// narrative generator.
func (s *ResultsServiceImpl) VotingData(ctx context.Context) (*models.VotingData, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return nil, err
	}
	snap, _, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	data := &models.VotingData{
		OverallStats: models.OverallStats{
			TotalRegistered:   stats.TotalRegisteredUsers,
			TotalVoters:       stats.TotalVoters,
			TotalVotes:        stats.TotalVotesCast,
			TurnoutPercentage: stats.VoterTurnoutPercentage,
		},
		Positions: []models.PositionData{},
	}
	for _, p := range snap {
		if !p.IsActive {
			continue
		}
		pd := models.PositionData{Position: p.Name, TotalVotes: p.Total, Candidates: []models.CandidateData{}}
		for _, c := range tally.Rank(p) {
			pd.Candidates = append(pd.Candidates, models.CandidateData{
				Name:       c.Name,
				Votes:      c.VoteCount,
				Percentage: c.Percentage,
			})
		}
		data.Positions = append(data.Positions, pd)
	}
	return data, nil
}

func candidateView(c models.Candidate, votes, positionTotal int64) models.CandidateView {
	return models.CandidateView{
		ID:             c.ID,
		Name:           c.Name,
		Bio:            c.Bio,
		PhotoURL:       c.PhotoURL,
		Position:       c.PositionID,
		PositionName:   c.Position.Name,
		VoteCount:      votes,
		VotePercentage: tally.Percentage(votes, positionTotal),
		IsActive:       c.IsActive,
		CreatedAt:      c.CreatedAt,
	}
}
