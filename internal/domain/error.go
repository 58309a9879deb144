package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound         = errors.New("entity not found")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrNoActiveSession  = errors.New("no active session")
	ErrSessionNotActive = errors.New("session is not active")
	ErrActiveSession    = errors.New("user already has an active session")

	// Message validation (user-correctable)
	ErrEmptyMessage   = errors.New("message is empty")
	ErrMessageTooLong = errors.New("message exceeds maximum length")

	// Transient backend failures
	ErrClassificationUnavailable = errors.New("message classification unavailable")
	ErrSessionStart              = errors.New("session could not be started")
	ErrSessionExpired            = errors.New("session expired")
	ErrTransport                 = errors.New("backend transport failure")
)
