package api

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"campus-election-backend/handlers"
	"campus-election-backend/models"
	"campus-election-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// ErrorResponse is the body of every non-field error.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

var registerTagName sync.Once

// useJSONFieldNames makes validation errors report JSON field names.
func useJSONFieldNames() {
	registerTagName.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

func fieldMessage(fe validator.FieldError) string {
	if fe.Field() == "student_id" {
		switch fe.Tag() {
		case "len":
			return "Student ID must be exactly 7 digits."
		case "number":
			return "Student ID must contain only digits."
		}
	}

	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "min":
		return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "len":
		return fmt.Sprintf("Ensure this field has exactly %s characters.", fe.Param())
	case "email":
		return "Enter a valid email address."
	case "url":
		return "Enter a valid URL."
	default:
		return "Invalid value."
	}
}

// bindJSON decodes the body into req. On failure it writes a 400 and
// returns false. Validation failures come back as field errors.
func bindJSON(ctx *gin.Context, req any) bool {
	err := ctx.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := service.FieldErrors{}
		for _, fe := range verrs {
			fields.Add(fe.Field(), fieldMessage(fe))
		}
		ctx.JSON(http.StatusBadRequest, fields)
		return false
	}

	ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
	return false
}

func voteErrorCode(err error) string {
	switch {
	case errors.Is(err, service.ErrDuplicateVote):
		return "duplicate_vote"
	case errors.Is(err, service.ErrCandidateMismatch):
		return "candidate_mismatch"
	case errors.Is(err, service.ErrInactiveCandidate):
		return "inactive_candidate"
	case errors.Is(err, service.ErrClosedPosition):
		return "position_closed"
	default:
		return "vote_rejected"
	}
}

// respondError maps a service error to a status code and body. Anything
// unrecognised is logged and reported as a bare 500.
func respondError(ctx *gin.Context, err error) {
	var (
		voteErr *service.VoteError
		fields  service.FieldErrors
	)

	switch {
	case errors.As(err, &voteErr):
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: voteErr.Message, Detail: voteErrorCode(err)})
	case errors.As(err, &fields):
		ctx.JSON(http.StatusBadRequest, fields)
	case errors.Is(err, service.ErrInvalidCredentials):
		ctx.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid student ID or password"})
	case errors.Is(err, service.ErrInvalidToken):
		ctx.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Token is invalid or expired"})
	case errors.Is(err, service.ErrPositionNotFound):
		ctx.JSON(http.StatusNotFound, ErrorResponse{Error: "Position not found"})
	case errors.Is(err, service.ErrCandidateNotFound):
		ctx.JSON(http.StatusNotFound, ErrorResponse{Error: "Candidate not found"})
	case errors.Is(err, service.ErrVoteNotFound):
		ctx.JSON(http.StatusNotFound, ErrorResponse{Error: "Vote not found"})
	case errors.Is(err, service.ErrUserNotFound):
		ctx.JSON(http.StatusNotFound, ErrorResponse{Error: "User not found"})
	default:
		handlers.Logger(ctx).Error("request failed", "path", ctx.FullPath(), "error", err)
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
	}
}

// currentUser fetches the authenticated user or aborts with 401.
func currentUser(ctx *gin.Context) (*models.User, bool) {
	user := handlers.CurrentUser(ctx)
	if user == nil {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication credentials were not provided."})
		return nil, false
	}
	return user, true
}
