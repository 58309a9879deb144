// File: internal/usecase/mocks_test.go
package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"aslan-support-client/internal/domain"
	"aslan-support-client/internal/domain/model"
	"aslan-support-client/internal/domain/ports/adapter"
)

// ---- Backend fake ----

type fakeBackend struct {
	mu sync.Mutex

	startErr    error
	startID     string
	endErr      error
	classifyErr error
	classify    adapter.Classification
	usageErr    error
	usage       adapter.TokenUsage
	alertErr    error

	startCalls    int
	endCalls      int
	classifyCalls int
	usageCalls    int
	alertCalls    int
	endedWith     int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		startID:  "sess-1",
		classify: adapter.Classification{Valid: true, Emotion: "calm", ColorFlag: "green", TotalTokens: 10},
		usage:    adapter.TokenUsage{MonthlyLimit: 1000, Consumed: 0},
	}
}

func (f *fakeBackend) StartSession(ctx context.Context, userID string, start time.Time) (adapter.StartedSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.startCalls++
	if f.startErr != nil {
		return adapter.StartedSession{}, f.startErr
	}
	return adapter.StartedSession{ID: f.startID, StartTime: start}, nil
}

func (f *fakeBackend) EndSession(ctx context.Context, sessionID string, end time.Time, tokensConsumed int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.endCalls++
	f.endedWith = tokensConsumed
	return f.endErr
}

func (f *fakeBackend) ClassifyMessage(ctx context.Context, content string) (adapter.Classification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.classifyCalls++
	if f.classifyErr != nil {
		return adapter.Classification{}, f.classifyErr
	}
	return f.classify, nil
}

func (f *fakeBackend) FetchTokenUsage(ctx context.Context) (adapter.TokenUsage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.usageCalls++
	if f.usageErr != nil {
		return adapter.TokenUsage{}, f.usageErr
	}
	return f.usage, nil
}

func (f *fakeBackend) CreateAlert(ctx context.Context, alert *model.Alert) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alertCalls++
	return f.alertErr
}

// ---- Repository fakes ----

type memSessionRepo struct {
	mu      sync.Mutex
	byID    map[string]*model.Session
	saveErr error
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{byID: make(map[string]*model.Session)}
}

func (m *memSessionRepo) Save(ctx context.Context, s *model.Session) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.byID[s.ID] = &cp
	return nil
}

func (m *memSessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.byID[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memSessionRepo) FindActiveByUser(ctx context.Context, userID string) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.byID {
		if s.UserID == userID && s.Status == model.SessionActive {
			cp := *s
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

type memMessageRepo struct {
	mu      sync.Mutex
	byID    map[string]*model.Message
	order   []string
	saveErr error
}

func newMemMessageRepo() *memMessageRepo {
	return &memMessageRepo{byID: make(map[string]*model.Message)}
}

func (m *memMessageRepo) Save(ctx context.Context, msg *model.Message) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *msg
	if _, exists := m.byID[msg.ID]; !exists {
		m.order = append(m.order, msg.ID)
	}
	m.byID[msg.ID] = &cp
	return nil
}

func (m *memMessageRepo) FindByID(ctx context.Context, id string) (*model.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if msg, ok := m.byID[id]; ok {
		cp := *msg
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memMessageRepo) FindBySession(ctx context.Context, sessionID string) ([]*model.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Message
	for _, id := range m.order {
		if msg := m.byID[id]; msg.SessionID == sessionID {
			cp := *msg
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memMessageRepo) RefreshEmotion(ctx context.Context, messageID, emotion string, color model.ColorFlag) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok := m.byID[messageID]
	if !ok {
		return domain.ErrNotFound
	}
	msg.EmotionLabel = emotion
	msg.ColorFlag = color
	return nil
}

func (m *memMessageRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

type memAlertRepo struct {
	mu     sync.Mutex
	byKey  map[string]*model.Alert
	order  []string
	upsErr error
}

func newMemAlertRepo() *memAlertRepo {
	return &memAlertRepo{byKey: make(map[string]*model.Alert)}
}

func (m *memAlertRepo) Upsert(ctx context.Context, a *model.Alert) (bool, error) {
	if m.upsErr != nil {
		return false, m.upsErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := a.MessageID + "|" + string(a.Type)
	if _, exists := m.byKey[key]; exists {
		return false, nil
	}
	cp := *a
	m.byKey[key] = &cp
	m.order = append(m.order, key)
	return true, nil
}

func (m *memAlertRepo) FindBySession(ctx context.Context, sessionID string) ([]*model.Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Alert
	for _, key := range m.order {
		if a := m.byKey[key]; a.SessionID == sessionID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memAlertRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byKey)
}

// ---- Small helpers ----

func testLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

type fixedEstimator struct{ n int }

func (e fixedEstimator) Estimate(text string) int { return e.n }

type memQuotaCache struct {
	mu    sync.Mutex
	byID  map[string]*model.TokenQuota
	fails bool
}

func newMemQuotaCache() *memQuotaCache {
	return &memQuotaCache{byID: make(map[string]*model.TokenQuota)}
}

func (c *memQuotaCache) StoreQuota(ctx context.Context, q *model.TokenQuota) error {
	if c.fails {
		return domain.ErrTransport
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *q
	c.byID[q.UserID] = &cp
	return nil
}

func (c *memQuotaCache) GetQuota(ctx context.Context, userID string) (*model.TokenQuota, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if q, ok := c.byID[userID]; ok {
		cp := *q
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}
