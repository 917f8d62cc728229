package tally

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func secretary() Position {
	return Position{
		ID:       3,
		Name:     "Secretary",
		Order:    3,
		IsActive: true,
		Total:    5,
		Candidates: []Candidate{
			{ID: 7, Name: "B", IsActive: true, Votes: 2},
			{ID: 8, Name: "A", IsActive: true, Votes: 3},
		},
	}
}

func TestResult_SecretaryScenario(t *testing.T) {
	res := Result(secretary())

	assert.Equal(t, int64(5), res.TotalVotes)
	require.Len(t, res.Candidates, 2)
	assert.Equal(t, "A", res.Candidates[0].Name)
	assert.Equal(t, 60.0, res.Candidates[0].Percentage)
	assert.Equal(t, "B", res.Candidates[1].Name)
	assert.Equal(t, 40.0, res.Candidates[1].Percentage)

	require.NotNil(t, res.Winner)
	assert.Equal(t, "A", res.Winner.Name)
	assert.Equal(t, 60.0, res.Winner.Percentage)
}

func TestResult_NoVotesOrNoCandidates(t *testing.T) {
	tests := []struct {
		name string
		pos  Position
	}{
		{
			name: "no candidates",
			pos:  Position{ID: 1, Name: "Treasurer", IsActive: true},
		},
		{
			name: "no votes",
			pos: Position{ID: 2, Name: "Treasurer", IsActive: true, Candidates: []Candidate{
				{ID: 1, Name: "X", IsActive: true},
				{ID: 2, Name: "Y", IsActive: true},
			}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := Result(tc.pos)
			assert.Nil(t, res.Winner)
			for _, c := range res.Candidates {
				assert.Equal(t, 0.0, c.Percentage)
			}
		})
	}
}

func TestRank_TieBreakByID(t *testing.T) {
	p := Position{Total: 4, Candidates: []Candidate{
		{ID: 9, Name: "late", IsActive: true, Votes: 2},
		{ID: 4, Name: "early", IsActive: true, Votes: 2},
	}}

	ranked := Rank(p)
	require.Len(t, ranked, 2)
	assert.Equal(t, uint(4), ranked[0].ID)
	assert.Equal(t, uint(9), ranked[1].ID)
	assert.Equal(t, uint(4), Winner(ranked, p.Total).ID)
}

func TestRank_SkipsInactive(t *testing.T) {
	p := Position{Total: 10, Candidates: []Candidate{
		{ID: 1, Name: "in", IsActive: true, Votes: 6},
		{ID: 2, Name: "out", IsActive: false, Votes: 4},
	}}

	ranked := Rank(p)
	require.Len(t, ranked, 1)
	assert.Equal(t, 60.0, ranked[0].Percentage)
}

func TestResult_VotesOnlyForInactiveCandidate(t *testing.T) {
	p := Position{ID: 4, Name: "Treasurer", IsActive: true, Total: 2, Candidates: []Candidate{
		{ID: 1, Name: "A", IsActive: true},
		{ID: 2, Name: "Gone", IsActive: false, Votes: 2},
	}}

	res := Result(p)
	assert.Equal(t, int64(2), res.TotalVotes)
	require.Len(t, res.Candidates, 1)
	require.NotNil(t, res.Winner)
	assert.Equal(t, "A", res.Winner.Name)
	assert.Equal(t, int64(0), res.Winner.VoteCount)
	assert.Equal(t, 0.0, res.Winner.Percentage)
}

func TestRound2_HalfToEven(t *testing.T) {
	assert.Equal(t, 0.12, Round2(0.125))
	assert.Equal(t, 0.38, Round2(0.375))
	assert.Equal(t, 12.5, Round2(12.5))
	assert.Equal(t, 33.33, Round2(100.0/3))
}

func TestPercentageInvariants(t *testing.T) {
	positions := []Position{
		secretary(),
		{Total: 3, Candidates: []Candidate{
			{ID: 1, IsActive: true, Votes: 1},
			{ID: 2, IsActive: true, Votes: 1},
			{ID: 3, IsActive: true, Votes: 1},
		}},
		{Total: 7, Candidates: []Candidate{
			{ID: 1, IsActive: true, Votes: 5},
			{ID: 2, IsActive: false, Votes: 2},
		}},
	}

	for _, p := range positions {
		var votes int64
		for _, c := range p.Candidates {
			votes += c.Votes
		}
		assert.Equal(t, p.Total, votes)

		sum := 0.0
		for _, c := range Rank(p) {
			assert.GreaterOrEqual(t, c.Percentage, 0.0)
			assert.LessOrEqual(t, c.Percentage, 100.0)
			sum += c.Percentage
		}
		// Rounding to two decimals can push three thirds to 99.99.
		assert.LessOrEqual(t, sum, 100.0+1e-9)
	}
}

func TestTurnout(t *testing.T) {
	assert.Equal(t, 40.0, Turnout(4, 10))
	assert.Equal(t, 0.0, Turnout(0, 0))
	assert.Equal(t, 33.33, Turnout(1, 3))
	assert.Equal(t, 66.67, Turnout(2, 3))
}

func TestMostCompetitive(t *testing.T) {
	landslide := Position{ID: 1, Name: "President", Order: 1, IsActive: true, Total: 10, Candidates: []Candidate{
		{ID: 1, IsActive: true, Votes: 9},
		{ID: 2, IsActive: true, Votes: 1},
	}}
	tight := Position{ID: 2, Name: "Vice President", Order: 2, IsActive: true, Total: 9, Candidates: []Candidate{
		{ID: 3, IsActive: true, Votes: 5},
		{ID: 4, IsActive: true, Votes: 4},
	}}
	single := Position{ID: 3, Name: "Sports Director", Order: 3, IsActive: true, Total: 1, Candidates: []Candidate{
		{ID: 5, IsActive: true, Votes: 1},
	}}
	closed := Position{ID: 4, Name: "Archivist", Order: 0, IsActive: false, Candidates: []Candidate{
		{ID: 6, IsActive: true},
		{ID: 7, IsActive: true},
	}}

	best := MostCompetitive([]Position{landslide, tight, single, closed})
	require.NotNil(t, best)
	assert.Equal(t, "Vice President", best.Name)

	assert.Nil(t, MostCompetitive([]Position{single, closed}))
	assert.Nil(t, MostCompetitive(nil))
}

func TestMostCompetitive_TieUsesDisplayOrder(t *testing.T) {
	a := Position{ID: 10, Name: "Treasurer", Order: 4, IsActive: true, Candidates: []Candidate{
		{ID: 1, IsActive: true}, {ID: 2, IsActive: true},
	}}
	b := Position{ID: 11, Name: "Secretary", Order: 3, IsActive: true, Candidates: []Candidate{
		{ID: 3, IsActive: true}, {ID: 4, IsActive: true},
	}}

	best := MostCompetitive([]Position{a, b})
	require.NotNil(t, best)
	assert.Equal(t, "Secretary", best.Name)
}

func TestActiveCandidateCount(t *testing.T) {
	positions := []Position{secretary(), {Candidates: []Candidate{{IsActive: false}, {IsActive: true}}}}
	assert.Equal(t, int64(3), ActiveCandidateCount(positions))
}
