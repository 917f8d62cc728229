package api_test

import (
	"fmt"
	"net/http"
	"testing"

	"campus-election-backend/models"
	"campus-election-backend/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdmin_RequiresStaff(t *testing.T) {
	env := setupTestEnvironment(t, noLimits)
	token := env.token(t, env.student)

	w := env.do(http.MethodPost, "/api/admin/positions", token, map[string]any{"name": "Treasurer"})
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"You do not have permission to perform this action."}`, w.Body.String())

	w = env.do(http.MethodGet, "/api/admin/status", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(http.MethodGet, "/api/admin/status", env.token(t, env.staff), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdmin_Positions(t *testing.T) {
	env := setupTestEnvironment(t, noLimits)
	staff := env.token(t, env.staff)

	w := env.do(http.MethodPost, "/api/admin/positions", staff, map[string]any{
		"name":        "Treasurer",
		"description": "Keeps the books",
		"order":       4,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created models.Position
	decode(t, w, &created)
	assert.Equal(t, "Treasurer", created.Name)
	assert.True(t, created.IsActive)

	w = env.do(http.MethodPost, "/api/admin/positions", staff, map[string]any{"name": "Treasurer"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"name":["Position with this name already exists."]}`, w.Body.String())

	w = env.do(http.MethodPost, "/api/admin/positions", staff, map[string]any{"description": "nameless"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"name":["This field is required."]}`, w.Body.String())

	// closing a position removes it from the ballot
	w = env.do(http.MethodPatch, fmt.Sprintf("/api/admin/positions/%d", env.president.ID), staff, map[string]any{"is_active": false})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated models.Position
	decode(t, w, &updated)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "President", updated.Name)

	w = env.do(http.MethodGet, "/api/positions", staff, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var ballot []models.PositionView
	decode(t, w, &ballot)
	for _, p := range ballot {
		assert.NotEqual(t, "President", p.Name)
	}

	w = env.do(http.MethodPatch, "/api/admin/positions/9999", staff, map[string]any{"order": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdmin_Candidates(t *testing.T) {
	env := setupTestEnvironment(t, noLimits)
	staff := env.token(t, env.staff)

	w := env.do(http.MethodPost, "/api/admin/candidates", staff, map[string]any{
		"position": env.secretary.ID,
		"name":     "Eve",
		"bio":      "Minutes on time",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var eve models.Candidate
	decode(t, w, &eve)
	assert.Equal(t, env.secretary.ID, eve.PositionID)
	assert.True(t, eve.IsActive)

	w = env.do(http.MethodPost, "/api/admin/candidates", staff, map[string]any{"position": 9999, "name": "Ghost"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"position":["Position does not exist."]}`, w.Body.String())

	w = env.do(http.MethodPost, "/api/admin/candidates", staff, map[string]any{
		"position":  env.secretary.ID,
		"name":      "Fay",
		"photo_url": "not a url",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"photo_url":["Enter a valid URL."]}`, w.Body.String())

	// deactivated candidates can no longer receive votes
	w = env.do(http.MethodPatch, fmt.Sprintf("/api/admin/candidates/%d", eve.ID), staff, map[string]any{"is_active": false})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(http.MethodPost, "/api/vote", env.token(t, env.student), map[string]uint{"candidate": eve.ID, "position": env.secretary.ID})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "inactive_candidate")

	w = env.do(http.MethodPatch, "/api/admin/candidates/9999", staff, map[string]any{"bio": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdmin_DeleteVote(t *testing.T) {
	env := setupTestEnvironment(t, noLimits)
	staff := env.token(t, env.staff)
	vote := testutil.CastVote(t, env.db, env.student, env.ann)

	w := env.do(http.MethodDelete, fmt.Sprintf("/api/admin/votes/%d", vote.ID), staff, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(http.MethodDelete, fmt.Sprintf("/api/admin/votes/%d", vote.ID), staff, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodDelete, "/api/admin/votes/abc", staff, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// the student may vote again for the position
	w = env.do(http.MethodPost, "/api/vote", env.token(t, env.student), map[string]uint{"candidate": env.ben.ID, "position": env.president.ID})
	assert.Equal(t, http.StatusCreated, w.Code)
}
