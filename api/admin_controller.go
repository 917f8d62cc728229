package api

import (
	"net/http"
	"strconv"

	"campus-election-backend/service"

	"github.com/gin-gonic/gin"
)

// AdminController manages positions, candidates and votes for staff.
type AdminController struct {
	adminService service.AdminService
}

func NewAdminController(adminService service.AdminService) *AdminController {
	useJSONFieldNames()
	return &AdminController{adminService: adminService}
}

// RegisterRoutes mounts the admin endpoints on rg, which must already
// require staff.
func (c *AdminController) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/positions", c.CreatePosition)
	rg.PATCH("/positions/:id", c.UpdatePosition)
	rg.POST("/candidates", c.CreateCandidate)
	rg.PATCH("/candidates/:id", c.UpdateCandidate)
	rg.DELETE("/votes/:id", c.DeleteVote)
}

type positionRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
	Order       int    `json:"order"`
	IsActive    *bool  `json:"is_active"`
}

type positionPatchRequest struct {
	Description *string `json:"description"`
	Order       *int    `json:"order"`
	IsActive    *bool   `json:"is_active"`
}

type candidateRequest struct {
	Position uint   `json:"position" binding:"required"`
	Name     string `json:"name" binding:"required,max=100"`
	Bio      string `json:"bio"`
	PhotoURL string `json:"photo_url" binding:"omitempty,url,max=500"`
	IsActive *bool  `json:"is_active"`
}

type candidatePatchRequest struct {
	Bio      *string `json:"bio"`
	PhotoURL *string `json:"photo_url" binding:"omitempty,url,max=500"`
	IsActive *bool   `json:"is_active"`
}

func pathID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid ID"})
		return 0, false
	}
	return uint(id), true
}

// CreatePosition adds a position to the ballot.
// @Summary Create a position
// @Tags admin
// @Accept json
// @Produce json
// @Success 201 {object} models.Position
// @Failure 400 {object} service.FieldErrors
// @Failure 403 {object} ErrorResponse
// @Router /api/admin/positions [post]
func (c *AdminController) CreatePosition(ctx *gin.Context) {
	var req positionRequest
	if !bindJSON(ctx, &req) {
		return
	}

	position, err := c.adminService.CreatePosition(ctx.Request.Context(), service.PositionInput{
		Name:        req.Name,
		Description: req.Description,
		Order:       req.Order,
		IsActive:    req.IsActive,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, position)
}

func (c *AdminController) UpdatePosition(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	var req positionPatchRequest
	if !bindJSON(ctx, &req) {
		return
	}

	position, err := c.adminService.UpdatePosition(ctx.Request.Context(), id, service.PositionPatch{
		Description: req.Description,
		Order:       req.Order,
		IsActive:    req.IsActive,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, position)
}

func (c *AdminController) CreateCandidate(ctx *gin.Context) {
	var req candidateRequest
	if !bindJSON(ctx, &req) {
		return
	}

	candidate, err := c.adminService.CreateCandidate(ctx.Request.Context(), service.CandidateInput{
		PositionID: req.Position,
		Name:       req.Name,
		Bio:        req.Bio,
		PhotoURL:   req.PhotoURL,
		IsActive:   req.IsActive,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, candidate)
}

func (c *AdminController) UpdateCandidate(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	var req candidatePatchRequest
	if !bindJSON(ctx, &req) {
		return
	}

	candidate, err := c.adminService.UpdateCandidate(ctx.Request.Context(), id, service.CandidatePatch{
		Bio:      req.Bio,
		PhotoURL: req.PhotoURL,
		IsActive: req.IsActive,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, candidate)
}

// DeleteVote removes a single vote.
// @Summary Delete a vote
// @Tags admin
// @Param id path int true "Vote ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /api/admin/votes/{id} [delete]
func (c *AdminController) DeleteVote(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	if err := c.adminService.DeleteVote(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
