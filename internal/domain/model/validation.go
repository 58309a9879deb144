package model

import "time"

// Validation rules shared with the backend.
const (
	MessageMinLength = 1
	MessageMaxLength = 2000

	WarningThreshold  = 0.8
	CriticalThreshold = 0.95
	MaxMonthlyLimit   = 100000

	SessionMaxDuration     = 24 * time.Hour
	SessionInactivityLimit = 30 * time.Minute
)
