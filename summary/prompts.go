package summary

import (
	"fmt"
	"strconv"
	"strings"

	"campus-election-backend/models"
)

// pct prints a percentage with at least one decimal, e.g. 40.0 or 33.33.
func pct(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// SummaryPrompt asks for a short overview of the whole election.
func SummaryPrompt(data *models.VotingData) string {
	o := data.OverallStats
	var b strings.Builder

	b.WriteString("You are an election analyst. Provide a brief, professional summary of this voting data.\n\n")
	b.WriteString("Overall Statistics:\n")
	fmt.Fprintf(&b, "- Total Registered Users: %d\n", o.TotalRegistered)
	fmt.Fprintf(&b, "- Total Voters: %d\n", o.TotalVoters)
	fmt.Fprintf(&b, "- Voter Turnout: %s%%\n", pct(o.TurnoutPercentage))
	fmt.Fprintf(&b, "- Total Votes Cast: %d\n\n", o.TotalVotes)
	b.WriteString("Position Results:\n")

	for _, p := range data.Positions {
		fmt.Fprintf(&b, "\n%s (%d votes):\n", p.Position, p.TotalVotes)
		for i, c := range p.Candidates {
			fmt.Fprintf(&b, "  %d. %s: %d votes (%s%%)\n", i+1, c.Name, c.Votes, pct(c.Percentage))
		}
	}

	b.WriteString(`
Task: Provide a 3-4 sentence summary highlighting:
1. Overall voter turnout assessment
2. Most competitive races
3. Clear winners and their margins
4. Any notable patterns

Keep it concise, factual, and suitable for an academic project dashboard.
`)
	return b.String()
}

// PredictionPrompt asks how likely each leader is to win and how close
// each race is.
func PredictionPrompt(data *models.VotingData) string {
	var b strings.Builder

	b.WriteString("You are an election analyst. Analyze the competitiveness and winner likelihood for each position.\n\n")
	b.WriteString("Voting Data:\n")

	for _, p := range data.Positions {
		fmt.Fprintf(&b, "\n%s:\n", p.Position)
		for _, c := range p.Candidates {
			fmt.Fprintf(&b, "  - %s: %d votes (%s%%)\n", c.Name, c.Votes, pct(c.Percentage))
		}
	}

	b.WriteString(`
Task: For each position, provide:
1. Winner likelihood explanation (clear winner vs. close race)
2. Competitiveness level (landslide, competitive, very close)
3. Brief interpretation of vote distribution

Format your response as a clear, structured analysis suitable for students. Keep it concise (3-4 sentences per position).
`)
	return b.String()
}

// TurnoutPrompt asks for an interpretation of participation.
func TurnoutPrompt(data *models.VotingData) string {
	o := data.OverallStats
	return fmt.Sprintf(`Analyze voter turnout for this election:

Total Registered: %d
Total Voted: %d
Turnout Rate: %s%%

Provide a brief (2-3 sentence) interpretation:
1. Is this turnout rate good, average, or concerning?
2. What might this indicate about student engagement?
3. Any actionable insights?

Keep it professional and suitable for an academic dashboard.
`, o.TotalRegistered, o.TotalVoters, pct(o.TurnoutPercentage))
}
