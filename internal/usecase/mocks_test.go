package usecase

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"telegram-kargo-bot/internal/domain"
	"telegram-kargo-bot/internal/domain/model"
	"telegram-kargo-bot/internal/domain/ports/adapter"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.New(os.Stdout).Level(zerolog.Disabled)
	return &l
}

// memGroupRepo is a small in-memory implementation used by unit tests.
type memGroupRepo struct {
	mu    sync.RWMutex
	store map[int64]*model.Group
}

func newMemGroupRepo() *memGroupRepo {
	return &memGroupRepo{store: make(map[int64]*model.Group)}
}

func (m *memGroupRepo) Upsert(ctx context.Context, chatID int64, title string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if g, ok := m.store[chatID]; ok {
		g.Title = title
		g.UpdatedAt = time.Now().UTC()
		return nil
	}
	m.store[chatID] = &model.Group{ChatID: chatID, Title: title, UpdatedAt: time.Now().UTC()}
	return nil
}

func (m *memGroupRepo) Find(ctx context.Context, chatID int64) (*model.Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.store[chatID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (m *memGroupRepo) SetQuota(ctx context.Context, chatID int64, title string, quota int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.store[chatID]
	if !ok {
		g = &model.Group{ChatID: chatID}
		m.store[chatID] = g
	}
	g.Title = title
	g.Quota = quota
	g.Disabled = false
	g.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *memGroupRepo) SetDisabled(ctx context.Context, chatID int64, title string, disabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.store[chatID]
	if !ok {
		g = &model.Group{ChatID: chatID}
		m.store[chatID] = g
	}
	g.Title = title
	g.Disabled = disabled
	g.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *memGroupRepo) Decrement(ctx context.Context, chatID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.store[chatID]
	if !ok || g.Quota <= 0 {
		return domain.ErrQuotaExhausted
	}
	g.Quota--
	g.UpdatedAt = time.Now().UTC()
	return nil
}

// memSubmitter couples the quota decrement with an in-memory log, mirroring
// the transactional store unit.
type memSubmitter struct {
	groups *memGroupRepo
	logs   []model.DeliveryLog
	err    error // forced failure for tests
}

func newMemSubmitter(groups *memGroupRepo) *memSubmitter {
	return &memSubmitter{groups: groups}
}

func (m *memSubmitter) Submit(ctx context.Context, chatID int64, chatTitle, itemID, company string) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	if err := m.groups.Decrement(ctx, chatID); err != nil {
		return 0, err
	}
	m.logs = append(m.logs, model.DeliveryLog{
		ChatID:    chatID,
		ChatTitle: chatTitle,
		ItemID:    itemID,
		Company:   company,
		CreatedAt: time.Now().UTC(),
	})
	g, err := m.groups.Find(ctx, chatID)
	if err != nil {
		return 0, err
	}
	return g.Quota, nil
}

// memGateway records the last submission and answers with a canned tracking.
type memGateway struct {
	lastSub  *adapter.Submission
	tracking adapter.Tracking
	err      error
	calls    int
}

func (m *memGateway) Create(ctx context.Context, sub adapter.Submission) (*adapter.Tracking, error) {
	m.calls++
	cp := sub
	m.lastSub = &cp
	if m.err != nil {
		return nil, m.err
	}
	tr := m.tracking
	return &tr, nil
}

// memLogRepo serves canned aggregates and records the queried window.
type memLogRepo struct {
	rows   []model.CompanyCount
	totals []model.GroupTotal
	from   time.Time
	to     time.Time
}

func (m *memLogRepo) Append(ctx context.Context, chatID int64, chatTitle, itemID, company string) error {
	return nil
}

func (m *memLogRepo) Daily(ctx context.Context, from, to time.Time) ([]model.CompanyCount, []model.GroupTotal, error) {
	m.from, m.to = from, to
	return m.rows, m.totals, nil
}

// noopShortener returns URLs unchanged.
type noopShortener struct{}

func (noopShortener) Shorten(_ context.Context, url string) string { return url }
