package summary

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"campus-election-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleData() *models.VotingData {
	return &models.VotingData{
		OverallStats: models.OverallStats{TotalRegistered: 10, TotalVoters: 4, TotalVotes: 7, TurnoutPercentage: 40},
		Positions: []models.PositionData{
			{Position: "Secretary", TotalVotes: 5, Candidates: []models.CandidateData{
				{Name: "A", Votes: 3, Percentage: 60},
				{Name: "B", Votes: 2, Percentage: 40},
			}},
			{Position: "Treasurer", TotalVotes: 2, Candidates: []models.CandidateData{
				{Name: "C", Votes: 2, Percentage: 100},
			}},
		},
	}
}

type fakeCompleter struct {
	reply  string
	err    error
	system string
	user   string
}

func (f *fakeCompleter) Complete(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	f.system, f.user = systemPrompt, userPrompt
	return f.reply, f.err
}

func TestPrompts(t *testing.T) {
	data := sampleData()

	s := SummaryPrompt(data)
	assert.Contains(t, s, "- Voter Turnout: 40.0%")
	assert.Contains(t, s, "Secretary (5 votes):")
	assert.Contains(t, s, "  1. A: 3 votes (60.0%)")
	assert.Contains(t, s, "  2. B: 2 votes (40.0%)")

	p := PredictionPrompt(data)
	assert.Contains(t, p, "Treasurer:\n  - C: 2 votes (100.0%)")
	assert.Contains(t, p, "Competitiveness level")

	tp := TurnoutPrompt(data)
	assert.Contains(t, tp, "Total Registered: 10")
	assert.Contains(t, tp, "Total Voted: 4")
	assert.Contains(t, tp, "Turnout Rate: 40.0%")
}

func TestPct(t *testing.T) {
	assert.Equal(t, "40.0", pct(40))
	assert.Equal(t, "33.33", pct(33.33))
	assert.Equal(t, "0.0", pct(0))
}

func TestGenerator_NotConfigured(t *testing.T) {
	g := NewGenerator(nil, "llama-3.1-8b-instant", time.Second)

	n := g.Summary(context.Background(), sampleData())
	assert.True(t, n.Degraded)
	assert.Equal(t, ReasonNotConfigured, n.Reason)
	assert.Equal(t, "AI analysis unavailable: Groq API key not configured. Please set GROQ_API_KEY in your .env file.", n.Text)
	assert.Equal(t, "llama-3.1-8b-instant", g.Model())
}

func TestGenerator_Failure(t *testing.T) {
	fake := &fakeCompleter{err: errors.New("rate limited")}
	g := NewGenerator(fake, "m", time.Second)

	n := g.Prediction(context.Background(), sampleData())
	assert.True(t, n.Degraded)
	assert.Equal(t, ReasonRequestFailed, n.Reason)
	assert.Equal(t, "AI analysis error: rate limited", n.Text)
}

func TestGenerator_Success(t *testing.T) {
	fake := &fakeCompleter{reply: "Turnout is average."}
	g := NewGenerator(fake, "m", time.Second)

	n := g.Turnout(context.Background(), sampleData())
	assert.False(t, n.Degraded)
	assert.Empty(t, n.Reason)
	assert.Equal(t, "Turnout is average.", n.Text)
	assert.Equal(t, SystemPrompt, fake.system)
	assert.Contains(t, fake.user, "Turnout Rate: 40.0%")
}

func TestOpenAICompleter(t *testing.T) {
	var got struct {
		Model       string  `json:"model"`
		Temperature float64 `json:"temperature"`
		MaxTokens   int     `json:"max_tokens"`
		Messages    []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"  A leads.  "},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	c := NewOpenAICompleter("key", srv.URL, "llama-3.1-8b-instant")
	text, err := c.Complete(context.Background(), "sys", "usr")
	require.NoError(t, err)
	assert.Equal(t, "A leads.", text)

	assert.Equal(t, "llama-3.1-8b-instant", got.Model)
	assert.InDelta(t, 0.3, got.Temperature, 1e-6)
	assert.Equal(t, 500, got.MaxTokens)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "usr", got.Messages[1].Content)
}

func TestOpenAICompleter_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid API Key","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	c := NewOpenAICompleter("bad", srv.URL, "m")
	_, err := c.Complete(context.Background(), "sys", "usr")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid API Key")
}
