package models

import "errors"

// Sentinel errors shared by the domain and service layers.
//
// Services wrap these with fmt.Errorf("context: %w", Err...) so callers
// can match with errors.Is while still getting a useful message. The API
// layer maps each sentinel to an HTTP status in exactly one place.
var (
	// ErrNotFound means a referenced entity (sheet, version, marker,
	// comment, invitation, company, project, user) does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidValue means a value object was constructed with a value
	// outside its closed enumeration.
	ErrInvalidValue = errors.New("invalid value")

	// ErrInvalidTransition means an invitation state-machine transition
	// was attempted from a state that forbids it.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrInvalidReply means a reply targeted a comment that is itself a
	// reply. Comment threads are at most two levels deep.
	ErrInvalidReply = errors.New("replies to replies are not allowed")

	// ErrMarkerMismatch means a reply's parent comment belongs to a
	// different marker.
	ErrMarkerMismatch = errors.New("parent comment belongs to another marker")

	// ErrMismatchedOwnership means a sheet version was paired with a
	// sheet it does not belong to.
	ErrMismatchedOwnership = errors.New("version does not belong to sheet")

	// Check-then-create uniqueness guards. These are a fast path, not a
	// correctness guarantee: true uniqueness is enforced by the database
	// constraints underneath.
	ErrDuplicateInvitation  = errors.New("pending invitation already exists")
	ErrDuplicateMembership  = errors.New("user already belongs to company")
	ErrDuplicatePartnership = errors.New("partnership already exists")
)
