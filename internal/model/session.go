package model

import "errors"

// Session and reset-token errors
var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrResetTokenNotFound = errors.New("reset token not found or expired")
)
