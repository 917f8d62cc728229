package summary

import (
	"context"
	"log/slog"
	"time"

	"campus-election-backend/models"
)

const (
	ReasonNotConfigured = "not_configured"
	ReasonRequestFailed = "request_failed"

	notConfiguredText = "AI analysis unavailable: Groq API key not configured. Please set GROQ_API_KEY in your .env file."
)

// Narrative is the outcome of a generation. A degraded narrative carries a
// human-readable explanation in Text instead of analysis.
type Narrative struct {
	Text     string
	Degraded bool
	Reason   string
}

// Generator turns voting data into narratives. It never fails: problems
// with the completion API come back as a degraded Narrative.
type Generator struct {
	completer Completer
	model     string
	timeout   time.Duration
}

// NewGenerator builds a generator. completer may be nil when no API key is
// configured.
func NewGenerator(completer Completer, model string, timeout time.Duration) *Generator {
	return &Generator{completer: completer, model: model, timeout: timeout}
}

// Model is the configured model name, reported alongside every narrative.
func (g *Generator) Model() string {
	return g.model
}

func (g *Generator) generate(ctx context.Context, kind, prompt string) Narrative {
	if g.completer == nil {
		return Narrative{Text: notConfiguredText, Degraded: true, Reason: ReasonNotConfigured}
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	text, err := g.completer.Complete(ctx, SystemPrompt, prompt)
	if err != nil {
		slog.Warn("ai analysis degraded", "kind", kind, "model", g.model, "error", err)
		return Narrative{Text: "AI analysis error: " + err.Error(), Degraded: true, Reason: ReasonRequestFailed}
	}
	return Narrative{Text: text}
}

// Summary is a short overview of the whole election.
func (g *Generator) Summary(ctx context.Context, data *models.VotingData) Narrative {
	return g.generate(ctx, "summary", SummaryPrompt(data))
}

// Prediction explains winner likelihood and competitiveness per position.
func (g *Generator) Prediction(ctx context.Context, data *models.VotingData) Narrative {
	return g.generate(ctx, "prediction", PredictionPrompt(data))
}

// Turnout interprets the participation rate.
func (g *Generator) Turnout(ctx context.Context, data *models.VotingData) Narrative {
	return g.generate(ctx, "turnout", TurnoutPrompt(data))
}
