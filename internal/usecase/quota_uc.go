package usecase

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"aslan-support-client/internal/domain/model"
	"aslan-support-client/internal/domain/ports/adapter"
	"aslan-support-client/internal/infra/metrics"
)

// Compile-time check
var _ QuotaTracker = (*quotaUC)(nil)

// QuotaSnapshotCache persists the last known quota reading across restarts.
type QuotaSnapshotCache interface {
	StoreQuota(ctx context.Context, quota *model.TokenQuota) error
	GetQuota(ctx context.Context, userID string) (*model.TokenQuota, error)
}

// QuotaTracker owns the single authoritative token counter for the user.
// The synchronous pipeline and the realtime push channel both feed it; no
// other component writes quota state.
type QuotaTracker interface {
	// Report adds a message's token cost to the running consumption and
	// refreshes the monthly limit from the backend. A failed fetch keeps
	// the last known limit and marks the reading stale.
	Report(ctx context.Context, tokenCost int) model.UsageReport
	// ApplyPush folds an authoritative token_update push into the counter.
	// A push below the previous authoritative reading signals a billing
	// period rollover and is adopted as-is.
	ApplyPush(ev model.TokenUpdateEvent) model.UsageReport
	// Refresh re-reads usage from the backend without adding local cost.
	Refresh(ctx context.Context) model.UsageReport
	// Current returns the latest report without touching the backend.
	Current() model.UsageReport
}

type quotaUC struct {
	backend adapter.SupportBackend
	cache   QuotaSnapshotCache
	log     *zerolog.Logger

	mu    sync.Mutex
	quota model.TokenQuota
	// lastAuthoritative is the most recent consumption figure the backend
	// itself reported, excluding locally added costs.
	lastAuthoritative int
	stale             bool
}

func NewQuotaTracker(backend adapter.SupportBackend, cache QuotaSnapshotCache, userID string, logger *zerolog.Logger) *quotaUC {
	qLog := logger.With().Str("component", "QuotaTracker").Logger()
	uc := &quotaUC{
		backend: backend,
		cache:   cache,
		log:     &qLog,
		quota:   model.TokenQuota{UserID: userID},
	}
	// Seed from the snapshot cache so a restarted client shows the last
	// known usage before the first fetch.
	if cache != nil {
		if q, err := cache.GetQuota(context.Background(), userID); err == nil && q != nil {
			uc.quota = *q
			uc.stale = true
		}
	}
	return uc
}

func (u *quotaUC) Report(ctx context.Context, tokenCost int) model.UsageReport {
	u.mu.Lock()
	defer u.mu.Unlock()
	if tokenCost > 0 {
		u.quota.Consumed += tokenCost
		metrics.AddTokensConsumed(tokenCost)
	}
	u.fetchLocked(ctx)
	return u.reportLocked()
}

func (u *quotaUC) ApplyPush(ev model.TokenUpdateEvent) model.UsageReport {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.adoptLocked(ev.Consumed, ev.MonthlyLimit)
	return u.reportLocked()
}

func (u *quotaUC) Refresh(ctx context.Context) model.UsageReport {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.fetchLocked(ctx)
	return u.reportLocked()
}

func (u *quotaUC) Current() model.UsageReport {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.reportLocked()
}

// fetchLocked pulls the authoritative reading. On transport failure the last
// known limit is retained and the reading is marked stale; this is logged,
// never surfaced as a hard error.
func (u *quotaUC) fetchLocked(ctx context.Context) {
	usage, err := u.backend.FetchTokenUsage(ctx)
	if err != nil {
		u.stale = true
		metrics.IncQuotaFetchFailure()
		u.log.Warn().Err(err).Msg("token usage fetch failed; retaining last known limit")
		return
	}
	u.adoptLocked(usage.Consumed, usage.MonthlyLimit)
}

// adoptLocked merges an authoritative reading into the counter. Consumption
// is monotone within a billing period, so a reading below the previous
// authoritative one means the period rolled over and is adopted wholesale.
// Otherwise the counter only moves forward, which keeps a locally reported
// cost the backend has not accounted yet.
func (u *quotaUC) adoptLocked(consumed, limit int) {
	if consumed < u.lastAuthoritative {
		u.log.Info().Int("consumed", consumed).Msg("billing period rollover detected")
		u.quota.Consumed = consumed
	} else if consumed > u.quota.Consumed {
		u.quota.Consumed = consumed
	}
	u.lastAuthoritative = consumed
	if limit > 0 {
		u.quota.MonthlyLimit = limit
	}
	u.stale = false
	u.storeSnapshot()
}

func (u *quotaUC) reportLocked() model.UsageReport {
	r := u.quota.Report(u.quota.Consumed)
	r.Stale = u.stale
	metrics.SetQuotaUsage(r.Percentage, string(r.Band))
	switch r.Band {
	case model.BandCritical:
		u.log.Warn().Float64("percentage", r.Percentage).Msg("token quota critical")
	case model.BandWarning:
		u.log.Info().Float64("percentage", r.Percentage).Msg("token quota warning")
	}
	return r
}

func (u *quotaUC) storeSnapshot() {
	if u.cache == nil {
		return
	}
	q := u.quota
	if err := u.cache.StoreQuota(context.Background(), &q); err != nil {
		u.log.Debug().Err(err).Msg("quota snapshot store failed")
	}
}
