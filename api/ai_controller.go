package api

import (
	"net/http"

	"campus-election-backend/handlers"
	"campus-election-backend/models"
	"campus-election-backend/service"
	"campus-election-backend/summary"

	"github.com/gin-gonic/gin"
)

// AIController serves generated narratives about the running election.
// A failing or unconfigured model still answers 200 with degraded set.
type AIController struct {
	resultsService service.ResultsService
	generator      *summary.Generator
}

func NewAIController(resultsService service.ResultsService, generator *summary.Generator) *AIController {
	return &AIController{resultsService: resultsService, generator: generator}
}

func (c *AIController) RegisterRoutes(rg *gin.RouterGroup) {
	ai := rg.Group("/ai")
	{
		ai.GET("/summary", c.Summary)
		ai.GET("/prediction", c.Prediction)
		ai.GET("/turnout", c.Turnout)
	}
}

func (c *AIController) votingData(ctx *gin.Context, failure string) (*models.VotingData, bool) {
	data, err := c.resultsService.VotingData(ctx.Request.Context())
	if err != nil {
		handlers.Logger(ctx).Error("loading voting data failed", "error", err)
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{Error: failure})
		return nil, false
	}
	return data, true
}

// Summary describes the current standings.
// @Summary AI summary
// @Tags ai
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} ErrorResponse
// @Router /api/ai/summary [get]
func (c *AIController) Summary(ctx *gin.Context) {
	data, ok := c.votingData(ctx, "Failed to generate AI summary")
	if !ok {
		return
	}

	n := c.generator.Summary(ctx.Request.Context(), data)
	ctx.JSON(http.StatusOK, gin.H{
		"summary":  n.Text,
		"data":     data,
		"model":    c.generator.Model(),
		"degraded": n.Degraded,
	})
}

func (c *AIController) Prediction(ctx *gin.Context) {
	data, ok := c.votingData(ctx, "Failed to generate predictions")
	if !ok {
		return
	}

	n := c.generator.Prediction(ctx.Request.Context(), data)
	ctx.JSON(http.StatusOK, gin.H{
		"prediction": n.Text,
		"data":       data,
		"model":      c.generator.Model(),
		"degraded":   n.Degraded,
	})
}

func (c *AIController) Turnout(ctx *gin.Context) {
	data, ok := c.votingData(ctx, "Failed to analyze turnout")
	if !ok {
		return
	}

	n := c.generator.Turnout(ctx.Request.Context(), data)
	ctx.JSON(http.StatusOK, gin.H{
		"turnout_analysis": n.Text,
		"turnout_rate":     data.OverallStats.TurnoutPercentage,
		"voters":           data.OverallStats.TotalVoters,
		"registered":       data.OverallStats.TotalRegistered,
		"degraded":         n.Degraded,
	})
}
