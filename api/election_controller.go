package api

import (
	"net/http"
	"strconv"

	"campus-election-backend/service"

	"github.com/gin-gonic/gin"
)

// ElectionController serves the ballot and the published results.
type ElectionController struct {
	resultsService service.ResultsService
}

func NewElectionController(resultsService service.ResultsService) *ElectionController {
	return &ElectionController{resultsService: resultsService}
}

func (c *ElectionController) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/positions", c.ListPositions)
	rg.GET("/candidates", c.ListCandidates)

	rg.GET("/results", c.AllResults)
	rg.GET("/results/:position_id", c.PositionResult)
	rg.GET("/analytics/stats", c.Stats)
}

// ListPositions returns active positions with their active candidates.
// @Summary Ballot
// @Tags election
// @Produce json
// @Success 200 {array} models.PositionView
// @Router /api/positions [get]
func (c *ElectionController) ListPositions(ctx *gin.Context) {
	positions, err := c.resultsService.ActivePositions(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, positions)
}

func (c *ElectionController) ListCandidates(ctx *gin.Context) {
	var positionID *uint
	if raw := ctx.Query("position"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, service.FieldErrors{"position": {"A valid integer is required."}})
			return
		}
		pid := uint(id)
		positionID = &pid
	}

	candidates, err := c.resultsService.ActiveCandidates(ctx.Request.Context(), positionID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, candidates)
}

// AllResults returns the ranked tally of every position.
// @Summary Election results
// @Tags results
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/results [get]
func (c *ElectionController) AllResults(ctx *gin.Context) {
	results, err := c.resultsService.AllResults(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"results":   results,
		"timestamp": absoluteURL(ctx.Request),
	})
}

// absoluteURL rebuilds the URL the client requested. It depends only on
// the request, so repeated reads of unchanged results are identical.
func absoluteURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}

// PositionResult returns the tally for one position.
// @Summary Position result
// @Tags results
// @Produce json
// @Param position_id path int true "Position ID"
// @Success 200 {object} models.PositionResult
// @Failure 404 {object} ErrorResponse
// @Router /api/results/{position_id} [get]
func (c *ElectionController) PositionResult(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("position_id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusNotFound, ErrorResponse{Error: "Position not found"})
		return
	}

	result, err := c.resultsService.PositionResult(ctx.Request.Context(), uint(id))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

func (c *ElectionController) Stats(ctx *gin.Context) {
	stats, err := c.resultsService.Stats(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, stats)
}
