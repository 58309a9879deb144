package model

// UsageBand classifies quota consumption against the monthly limit.
type UsageBand string

const (
	BandOK       UsageBand = "ok"
	BandWarning  UsageBand = "warning"
	BandCritical UsageBand = "critical"
)

// TokenQuota is the single authoritative token counter for a user.
// MonthlyLimit is owned by the backend and may change between reads;
// Consumed is monotonically non-decreasing within a billing period.
type TokenQuota struct {
	UserID       string
	MonthlyLimit int
	Consumed     int
}

// UsageReport is a point-in-time view of quota consumption.
type UsageReport struct {
	Consumed     int
	MonthlyLimit int
	// Ratio is unclamped: >1 when consumption exceeds the limit.
	Ratio float64
	// Percentage is for display only, clamped to 100.
	Percentage float64
	Band       UsageBand
	// Stale marks a report computed from a retained limit after a failed
	// backend fetch.
	Stale bool
}

// Report computes the usage report for the given consumption.
func (q *TokenQuota) Report(consumed int) UsageReport {
	r := UsageReport{Consumed: consumed, MonthlyLimit: q.MonthlyLimit}
	if q.MonthlyLimit > 0 {
		r.Ratio = float64(consumed) / float64(q.MonthlyLimit)
	}
	r.Percentage = r.Ratio * 100
	if r.Percentage > 100 {
		r.Percentage = 100
	}
	r.Band = BandFor(r.Ratio)
	return r
}

// BandFor classifies an unclamped usage ratio.
func BandFor(ratio float64) UsageBand {
	switch {
	case ratio >= CriticalThreshold:
		return BandCritical
	case ratio >= WarningThreshold:
		return BandWarning
	default:
		return BandOK
	}
}
