package entity

import "errors"

// Domain errors for conversations
var (
	ErrTokenNotConfigured = errors.New("SLACK_USER_TOKEN not configured")
	ErrInvalidLimit       = errors.New("limit must be between 1 and 1000")
	ErrChannelRequired    = errors.New("channel_id is required")
)
