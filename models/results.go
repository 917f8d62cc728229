package models

import "time"

// CandidateResult is one row of a tally, as served by the results endpoints.
type CandidateResult struct {
	ID         uint    `json:"id"`
	Name       string  `json:"name"`
	Bio        string  `json:"bio"`
	VoteCount  int64   `json:"vote_count"`
	Percentage float64 `json:"percentage"`
}

// PositionResult holds the ranked candidates of one position.
type PositionResult struct {
	PositionID          uint              `json:"position_id"`
	PositionName        string            `json:"position_name"`
	PositionDescription string            `json:"position_description"`
	TotalVotes          int64             `json:"total_votes"`
	Candidates          []CandidateResult `json:"candidates"`
	Winner              *CandidateResult  `json:"winner"`
}

// PositionVotes is one entry of VotingStats.VotesByPosition.
type PositionVotes struct {
	PositionName    string `json:"position_name"`
	VoteCount       int64  `json:"vote_count"`
	CandidatesCount int64  `json:"candidates_count"`
}

// VotingStats is the analytics dashboard payload.
type VotingStats struct {
	TotalRegisteredUsers    int64           `json:"total_registered_users"`
	TotalVoters             int64           `json:"total_voters"`
	TotalVotesCast          int64           `json:"total_votes_cast"`
	VoterTurnoutPercentage  float64         `json:"voter_turnout_percentage"`
	PositionsCount          int64           `json:"positions_count"`
	CandidatesCount         int64           `json:"candidates_count"`
	MostCompetitivePosition *string         `json:"most_competitive_position"`
	VotesByPosition         []PositionVotes `json:"votes_by_position"`
}

// CandidateView is a candidate with its live tally, nested under PositionView.
type CandidateView struct {
	ID             uint      `json:"id"`
	Name           string    `json:"name"`
	Bio            string    `json:"bio"`
	PhotoURL       string    `json:"photo_url"`
	Position       uint      `json:"position"`
	PositionName   string    `json:"position_name"`
	VoteCount      int64     `json:"vote_count"`
	VotePercentage float64   `json:"vote_percentage"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

// PositionView is what the ballot page renders.
type PositionView struct {
	ID              uint            `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Order           int             `json:"order"`
	IsActive        bool            `json:"is_active"`
	Candidates      []CandidateView `json:"candidates"`
	TotalVotes      int64           `json:"total_votes"`
	CandidatesCount int64           `json:"candidates_count"`
	CreatedAt       time.Time       `json:"created_at"`
}

// VoteView is a cast vote with denormalized names.
type VoteView struct {
	ID            uint      `json:"id"`
	Candidate     uint      `json:"candidate"`
	Position      uint      `json:"position"`
	Timestamp     time.Time `json:"timestamp"`
	UserNickname  string    `json:"user_nickname"`
	CandidateName string    `json:"candidate_name"`
	PositionName  string    `json:"position_name"`
}

// PositionStatus tells the caller whether they already voted for a position.
type PositionStatus struct {
	PositionID   uint   `json:"position_id"`
	PositionName string `json:"position_name"`
	HasVoted     bool   `json:"has_voted"`
}

type VotingStatus struct {
	VotingStatus   []PositionStatus `json:"voting_status"`
	TotalPositions int              `json:"total_positions"`
	VotedCount     int              `json:"voted_count"`
}

// OverallStats is the headline section of VotingData.
type OverallStats struct {
	TotalRegistered   int64   `json:"total_registered"`
	TotalVoters       int64   `json:"total_voters"`
	TotalVotes        int64   `json:"total_votes"`
	TurnoutPercentage float64 `json:"turnout_percentage"`
}

type CandidateData struct {
	Name       string  `json:"name"`
	Votes      int64   `json:"votes"`
	Percentage float64 `json:"percentage"`
}

type PositionData struct {
	Position   string          `json:"position"`
	TotalVotes int64           `json:"total_votes"`
	Candidates []CandidateData `json:"candidates"`
}

// VotingData is the condensed snapshot handed to the narrative generator.
type VotingData struct {
	OverallStats OverallStats   `json:"overall_stats"`
	Positions    []PositionData `json:"positions"`
}
