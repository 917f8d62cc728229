package api

import (
	"net/http"
	"time"

	"campus-election-backend/auth"
	"campus-election-backend/models"
	"campus-election-backend/service"

	"github.com/gin-gonic/gin"
)

// AuthController handles registration, login and token refresh.
type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	useJSONFieldNames()
	return &AuthController{authService: authService}
}

// RegisterRoutes mounts the public endpoints on public and the profile
// endpoint on protected. Both groups are rooted at /auth.
func (c *AuthController) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.POST("/register", c.Register)
	public.POST("/login", c.Login)
	public.POST("/token/refresh", c.Refresh)

	protected.GET("/profile", c.Profile)
}

type registerRequest struct {
	StudentID       string `json:"student_id" binding:"required,len=7,number"`
	Email           string `json:"email" binding:"required,email,max=254"`
	Nickname        string `json:"nickname" binding:"required,max=50"`
	Password        string `json:"password" binding:"required"`
	PasswordConfirm string `json:"password_confirm" binding:"required"`
}

type loginRequest struct {
	StudentID string `json:"student_id" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

type refreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// UserResponse is the flat user shape returned by register and login.
type UserResponse struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	StudentID string `json:"student_id"`
	Nickname  string `json:"nickname"`
	Email     string `json:"email"`
}

type ProfileResponse struct {
	StudentID string    `json:"student_id"`
	Nickname  string    `json:"nickname"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type AccountResponse struct {
	ID       uint            `json:"id"`
	Username string          `json:"username"`
	IsStaff  bool            `json:"is_staff"`
	Profile  ProfileResponse `json:"profile"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Message string         `json:"message"`
	User    UserResponse   `json:"user"`
	Tokens  auth.TokenPair `json:"tokens"`
}

func userResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		StudentID: u.Profile.StudentID,
		Nickname:  u.Profile.Nickname,
		Email:     u.Profile.Email,
	}
}

// Register creates a student account and logs it in.
// @Summary Register a student
// @Tags auth
// @Accept json
// @Produce json
// @Success 201 {object} AuthResponse
// @Failure 400 {object} service.FieldErrors
// @Router /api/auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req registerRequest
	if !bindJSON(ctx, &req) {
		return
	}

	user, tokens, err := c.authService.Register(ctx.Request.Context(), service.RegisterInput{
		StudentID:       req.StudentID,
		Email:           req.Email,
		Nickname:        req.Nickname,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, AuthResponse{
		Message: "Registration successful",
		User:    userResponse(user),
		Tokens:  tokens,
	})
}

// Login exchanges credentials for a token pair.
// @Summary Log in with student ID and password
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} AuthResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req loginRequest
	if !bindJSON(ctx, &req) {
		return
	}

	user, tokens, err := c.authService.Login(ctx.Request.Context(), req.StudentID, req.Password)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, AuthResponse{
		Message: "Login successful",
		User:    userResponse(user),
		Tokens:  tokens,
	})
}

func (c *AuthController) Refresh(ctx *gin.Context) {
	var req refreshRequest
	if !bindJSON(ctx, &req) {
		return
	}

	access, err := c.authService.Refresh(ctx.Request.Context(), req.Refresh)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"access": access})
}

func (c *AuthController) Profile(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, AccountResponse{
		ID:       user.ID,
		Username: user.Username,
		IsStaff:  user.IsStaff,
		Profile: ProfileResponse{
			StudentID: user.Profile.StudentID,
			Nickname:  user.Profile.Nickname,
			Email:     user.Profile.Email,
			CreatedAt: user.Profile.CreatedAt,
		},
	})
}
