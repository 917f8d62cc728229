// Package tally turns raw vote counts into rankings, percentages and
// aggregate statistics. Everything here is a pure function over a snapshot;
// loading the snapshot is the caller's job.
package tally

import (
	"math"
	"sort"

	"campus-election-backend/models"
)

// Candidate is a candidate together with the number of votes it received.
type Candidate struct {
	ID       uint
	Name     string
	Bio      string
	IsActive bool
	Votes    int64
}

// Position is a position together with its candidates and the number of
// votes cast for it. Total counts every vote for the position, including
// votes for candidates that were later deactivated.
type Position struct {
	ID          uint
	Name        string
	Description string
	Order       int
	IsActive    bool
	Total       int64
	Candidates  []Candidate
}

// Round2 rounds to two decimal places, half to even.
func Round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}

// Percentage is votes as a share of total, 0 when nothing was cast.
func Percentage(votes, total int64) float64 {
	if total <= 0 {
		return 0.0
	}
	return Round2(float64(votes) / float64(total) * 100)
}

// Turnout is the share of registered users who voted at least once.
func Turnout(distinctVoters, registeredUsers int64) float64 {
	if registeredUsers <= 0 {
		return 0
	}
	return Round2(float64(distinctVoters) / float64(registeredUsers) * 100)
}

// Rank returns the active candidates of p ordered by votes descending.
// Equal counts are ordered by candidate ID ascending so the outcome never
// depends on storage order.
func Rank(p Position) []models.CandidateResult {
	ranked := make([]models.CandidateResult, 0, len(p.Candidates))
	for _, c := range p.Candidates {
		if !c.IsActive {
			continue
		}
		ranked = append(ranked, models.CandidateResult{
			ID:         c.ID,
			Name:       c.Name,
			Bio:        c.Bio,
			VoteCount:  c.Votes,
			Percentage: Percentage(c.Votes, p.Total),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].VoteCount != ranked[j].VoteCount {
			return ranked[i].VoteCount > ranked[j].VoteCount
		}
		return ranked[i].ID < ranked[j].ID
	})
	return ranked
}

// Winner picks the leader of an already ranked slice. total is the
// position's vote count, inactive candidates included; nothing wins
// until it is positive.
func Winner(ranked []models.CandidateResult, total int64) *models.CandidateResult {
	if len(ranked) == 0 || total <= 0 {
		return nil
	}
	w := ranked[0]
	return &w
}

// Result builds the full per-position result.
func Result(p Position) models.PositionResult {
	ranked := Rank(p)
	return models.PositionResult{
		PositionID:          p.ID,
		PositionName:        p.Name,
		PositionDescription: p.Description,
		TotalVotes:          p.Total,
		Candidates:          ranked,
		Winner:              Winner(ranked, p.Total),
	}
}

// Margin is the vote gap between the top two active candidates. ok is false
// when fewer than two active candidates exist.
func Margin(p Position) (margin int64, ok bool) {
	ranked := Rank(p)
	if len(ranked) < 2 {
		return 0, false
	}
	return ranked[0].VoteCount - ranked[1].VoteCount, true
}

// MostCompetitive returns the active position with the smallest margin
// between its top two candidates, or nil when no position qualifies.
// Ties go to the lower display order, then to the lower position ID.
func MostCompetitive(positions []Position) *Position {
	var (
		best       *Position
		bestMargin int64
	)
	for i := range positions {
		p := &positions[i]
		if !p.IsActive {
			continue
		}
		m, ok := Margin(*p)
		if !ok {
			continue
		}
		if best == nil || m < bestMargin || (m == bestMargin && before(p, best)) {
			best, bestMargin = p, m
		}
	}
	return best
}

func before(a, b *Position) bool {
	if a.Order != b.Order {
		return a.Order < b.Order
	}
	return a.ID < b.ID
}

// ActiveCandidateCount counts active candidates across all positions.
func ActiveCandidateCount(positions []Position) int64 {
	var n int64
	for _, p := range positions {
		for _, c := range p.Candidates {
			if c.IsActive {
				n++
			}
		}
	}
	return n
}
