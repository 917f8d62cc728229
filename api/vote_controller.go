package api

import (
	"errors"
	"fmt"
	"net/http"

	"campus-election-backend/models"
	"campus-election-backend/service"

	"github.com/gin-gonic/gin"
)

// VoteController handles ballot casting and the caller's vote history.
type VoteController struct {
	voteService service.VoteService
}

func NewVoteController(voteService service.VoteService) *VoteController {
	useJSONFieldNames()
	return &VoteController{voteService: voteService}
}

func (c *VoteController) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/vote", c.CastVote)
	rg.GET("/votes/my-votes", c.MyVotes)
	rg.GET("/votes/status", c.VotingStatus)
}

type voteRequest struct {
	Candidate uint `json:"candidate" binding:"required"`
	Position  uint `json:"position" binding:"required"`
}

type VoteResponse struct {
	Message string          `json:"message"`
	Vote    models.VoteView `json:"vote"`
}

// CastVote records the caller's vote.
// @Summary Cast a vote
// @Description One vote per user per position. Rule violations are 400 with a reason code in detail.
// @Tags votes
// @Accept json
// @Produce json
// @Success 201 {object} VoteResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/vote [post]
func (c *VoteController) CastVote(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req voteRequest
	if !bindJSON(ctx, &req) {
		return
	}

	vote, err := c.voteService.CastVote(ctx.Request.Context(), user, req.Candidate, req.Position)
	switch {
	case errors.Is(err, service.ErrPositionNotFound):
		ctx.JSON(http.StatusBadRequest, service.FieldErrors{"position": {invalidPK(req.Position)}})
		return
	case errors.Is(err, service.ErrCandidateNotFound):
		ctx.JSON(http.StatusBadRequest, service.FieldErrors{"candidate": {invalidPK(req.Candidate)}})
		return
	case err != nil:
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, VoteResponse{Message: "Vote cast successfully", Vote: *vote})
}

func invalidPK(id uint) string {
	return fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id)
}

func (c *VoteController) MyVotes(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	votes, err := c.voteService.MyVotes(ctx.Request.Context(), user)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, votes)
}

func (c *VoteController) VotingStatus(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	status, err := c.voteService.VotingStatus(ctx.Request.Context(), user)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, status)
}
