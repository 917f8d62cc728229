package service

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrVoteConflict is matched by every vote rejection.
	ErrVoteConflict = errors.New("vote conflict")

	ErrDuplicateVote     = errors.New("duplicate vote")
	ErrCandidateMismatch = errors.New("candidate does not belong to position")
	ErrInactiveCandidate = errors.New("candidate is inactive")
	ErrClosedPosition    = errors.New("position is closed")

	ErrPositionNotFound  = errors.New("position not found")
	ErrCandidateNotFound = errors.New("candidate not found")
	ErrVoteNotFound      = errors.New("vote not found")
	ErrUserNotFound      = errors.New("user not found")

	ErrInvalidCredentials = errors.New("invalid student ID or password")
	ErrInvalidToken       = errors.New("token is invalid or expired")
)

// VoteError is a vote rejected by a business rule. It matches both its Kind
// and ErrVoteConflict under errors.Is.
type VoteError struct {
	Kind    error
	Message string
}

func (e *VoteError) Error() string {
	return e.Message
}

func (e *VoteError) Unwrap() []error {
	return []error{e.Kind, ErrVoteConflict}
}

func newVoteError(kind error, message string) *VoteError {
	return &VoteError{Kind: kind, Message: message}
}

// FieldErrors maps an input field to the problems found with it.
type FieldErrors map[string][]string

func (f FieldErrors) Add(field, message string) {
	f[field] = append(f[field], message)
}

func (f FieldErrors) Error() string {
	fields := make([]string, 0, len(f))
	for field := range f {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+strings.Join(f[field], " "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
