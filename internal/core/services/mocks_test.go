package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/cardsync/internal/core/domain"
	"github.com/custodia-labs/cardsync/internal/core/ports/driven"
)

// --- Mock implementations for sync testing ---

func rateLimitedErr() error {
	return fmt.Errorf("%w: HTTP 429", domain.ErrRateLimited)
}

func transportErr() error {
	return fmt.Errorf("%w: connection reset by peer", domain.ErrTransport)
}

// badRecord makes mockProvider.ParseRecord fail.
const badRecord = "!bad"

type fetchResult struct {
	page *driven.RawPage
	err  error
}

// mockProvider serves scripted pages. Each page number has a queue of
// results; the last result of a queue repeats.
type mockProvider struct {
	id domain.SourceID

	mu        sync.Mutex
	scripts   map[int][]fetchResult
	requests  []int
	cursors   []driven.Cursor
	onFetch   func(page int)
	exhausted func(info driven.PaginationInfo, cursor driven.Cursor) bool
}

func newMockProvider(id domain.SourceID) *mockProvider {
	return &mockProvider{id: id, scripts: make(map[int][]fetchResult)}
}

// page scripts a successful response for a page number.
func (m *mockProvider) page(n, totalPages int, names ...string) *mockProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	records := make([]driven.RawRecord, len(names))
	for i, name := range names {
		records[i] = driven.RawRecord{Index: i, Data: []byte(name)}
	}
	m.scripts[n] = append(m.scripts[n], fetchResult{page: &driven.RawPage{
		Records:    records,
		Pagination: driven.PaginationInfo{TotalPages: totalPages},
	}})
	return m
}

// fail scripts an error response for a page number.
func (m *mockProvider) fail(n int, err error) *mockProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scripts[n] = append(m.scripts[n], fetchResult{err: err})
	return m
}

func (m *mockProvider) requested() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.requests...)
}

func (m *mockProvider) SourceID() domain.SourceID {
	return m.id
}

func (m *mockProvider) InitialCursor(progress *domain.SyncProgress, opts domain.SyncOptions) driven.Cursor {
	page := progress.NextPage()
	if progress.IsComplete {
		page = 1
	}
	return driven.Cursor{Page: page, Ceiling: opts.PageCeiling}
}

func (m *mockProvider) FetchPage(_ context.Context, cursor driven.Cursor) (*driven.RawPage, error) {
	m.mu.Lock()
	m.requests = append(m.requests, cursor.Page)
	m.cursors = append(m.cursors, cursor)
	queue := m.scripts[cursor.Page]
	var res fetchResult
	switch {
	case len(queue) == 0:
		res = fetchResult{page: &driven.RawPage{}}
	case len(queue) == 1:
		res = queue[0]
	default:
		res = queue[0]
		m.scripts[cursor.Page] = queue[1:]
	}
	onFetch := m.onFetch
	m.mu.Unlock()

	if onFetch != nil {
		onFetch(cursor.Page)
	}
	if res.err != nil {
		return nil, res.err
	}
	page := *res.page
	page.Cursor = cursor
	return &page, nil
}

func (m *mockProvider) ParseRecord(record driven.RawRecord) (domain.UnifiedCard, error) {
	name := string(record.Data)
	if name == badRecord {
		return domain.UnifiedCard{}, domain.NewParseError(m.id, "malformed", nil)
	}
	return domain.UnifiedCard{
		Name:       name,
		Source:     m.id,
		SetCode:    "SET",
		CardNumber: name,
		Rarity:     domain.DefaultRarity,
		Condition:  domain.DefaultCondition,
	}, nil
}

func (m *mockProvider) IsExhausted(info driven.PaginationInfo, cursor driven.Cursor) bool {
	if m.exhausted != nil {
		return m.exhausted(info, cursor)
	}
	return cursor.Page >= info.TotalPages
}

func (m *mockProvider) Advance(cursor driven.Cursor, _ driven.PaginationInfo) driven.Cursor {
	cursor.Page++
	return cursor
}

// mockRegistry implements driven.ProviderRegistry.
type mockRegistry struct {
	providers map[domain.SourceID]driven.Provider
}

func newMockRegistry(providers ...driven.Provider) *mockRegistry {
	r := &mockRegistry{providers: make(map[domain.SourceID]driven.Provider)}
	for _, p := range providers {
		r.providers[p.SourceID()] = p
	}
	return r
}

func (r *mockRegistry) Get(id domain.SourceID) (driven.Provider, error) {
	p, ok := r.providers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (r *mockRegistry) Sources() []domain.SourceID {
	var ids []domain.SourceID
	for _, id := range domain.AllSources() {
		if _, ok := r.providers[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// mockProgressStore implements driven.ProgressStore and records every
// saved LastProcessedPage.
type mockProgressStore struct {
	mu       sync.Mutex
	records  map[domain.SourceID]*domain.SyncProgress
	saved    []int
	resets   int
	saveErr  error
	now      func() time.Time
	log      *[]string
}

func newMockProgressStore(now func() time.Time) *mockProgressStore {
	return &mockProgressStore{records: make(map[domain.SourceID]*domain.SyncProgress), now: now}
}

func (m *mockProgressStore) put(p *domain.SyncProgress) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[p.SourceID] = p.Clone()
}

func (m *mockProgressStore) current(id domain.SourceID) *domain.SyncProgress {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records[id].Clone()
}

func (m *mockProgressStore) Get(_ context.Context, id domain.SourceID) (*domain.SyncProgress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p.Clone(), nil
}

func (m *mockProgressStore) GetOrCreate(_ context.Context, id domain.SourceID) (*domain.SyncProgress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.records[id]
	if !ok {
		p = domain.NewSyncProgress(id)
		p.LastUpdated = m.now()
		m.records[id] = p
	}
	return p.Clone(), nil
}

func (m *mockProgressStore) Save(_ context.Context, p *domain.SyncProgress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	c := p.Clone()
	c.LastUpdated = m.now()
	m.records[p.SourceID] = c
	m.saved = append(m.saved, p.LastProcessedPage)
	return nil
}

func (m *mockProgressStore) Reset(_ context.Context, id domain.SourceID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.log != nil {
		*m.log = append(*m.log, "reset")
	}
	m.resets++
	p := domain.NewSyncProgress(id)
	p.LastUpdated = m.now()
	m.records[id] = p
	return nil
}

func (m *mockProgressStore) List(_ context.Context) ([]domain.SyncProgress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.SyncProgress, 0, len(m.records))
	for _, p := range m.records {
		out = append(out, *p.Clone())
	}
	return out, nil
}

// mockSink implements driven.CatalogSink and counts emissions per card key.
type mockSink struct {
	mu        sync.Mutex
	cards     map[string]domain.UnifiedCard
	emits     map[string]int
	rejects   map[string]bool
	deletions []domain.SourceID
	deleteErr error
	log       *[]string
}

func newMockSink() *mockSink {
	return &mockSink{
		cards:   make(map[string]domain.UnifiedCard),
		emits:   make(map[string]int),
		rejects: make(map[string]bool),
	}
}

func (m *mockSink) Emit(_ context.Context, card domain.UnifiedCard) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rejects[card.Name] {
		return errors.New("constraint violation")
	}
	m.cards[card.Key()] = card
	m.emits[card.Key()]++
	return nil
}

func (m *mockSink) DeleteAll(_ context.Context, id domain.SourceID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.log != nil {
		*m.log = append(*m.log, "delete_all")
	}
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletions = append(m.deletions, id)
	for k, c := range m.cards {
		if c.Source == id {
			delete(m.cards, k)
		}
	}
	return nil
}

func (m *mockSink) Count(_ context.Context, id domain.SourceID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.cards {
		if c.Source == id {
			n++
		}
	}
	return n, nil
}

func (m *mockSink) names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, c := range m.cards {
		out = append(out, c.Name)
	}
	return out
}

// mockLimiter implements driven.RateLimiter with fixed delays.
type mockLimiter struct {
	mu    sync.Mutex
	calls int
}

const (
	steadyDelay = 200 * time.Millisecond
	cooldown    = 60 * time.Second
)

func (m *mockLimiter) DelayBeforeNextRequest(domain.SourceID) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return steadyDelay
}

func (m *mockLimiter) OnRateLimitedResponse(domain.SourceID) time.Duration {
	return cooldown
}

// recordingSleeper records waits instead of blocking.
type recordingSleeper struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (s *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.waits = append(s.waits, d)
	s.mu.Unlock()
	return ctx.Err()
}

func (s *recordingSleeper) recorded() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.waits...)
}

// mockMetrics implements driven.SyncMetrics.
type mockMetrics struct {
	mu       sync.Mutex
	pages    int
	cards    int
	rejected map[string]int
	limited  int
	outcomes []domain.RunOutcome
}

func newMockMetrics() *mockMetrics {
	return &mockMetrics{rejected: make(map[string]int)}
}

func (m *mockMetrics) PageFetched(context.Context, domain.SourceID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages++
}

func (m *mockMetrics) CardsEmitted(_ context.Context, _ domain.SourceID, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cards += n
}

func (m *mockMetrics) RecordRejected(_ context.Context, _ domain.SourceID, stage string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejected[stage]++
}

func (m *mockMetrics) RateLimited(context.Context, domain.SourceID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.limited++
}

func (m *mockMetrics) RunFinished(_ context.Context, _ domain.SourceID, outcome domain.RunOutcome, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, outcome)
}
