package mcp

import (
	"context"

	"github.com/custodia-labs/cardsync/internal/core/domain"
	"github.com/custodia-labs/cardsync/internal/core/ports/driven"
	"github.com/custodia-labs/cardsync/internal/core/ports/driving"
)

// mockSyncOrchestrator is a mock implementation of driving.SyncOrchestrator.
type mockSyncOrchestrator struct {
	result   *domain.SyncResult
	status   map[domain.SourceID]*domain.SyncStatus
	progress map[domain.SourceID]*domain.SyncProgress
	err      error

	lastSource domain.SourceID
	lastOpts   domain.SyncOptions
	resets     []domain.SourceID
	demo       bool
}

var _ driving.SyncOrchestrator = (*mockSyncOrchestrator)(nil)

func (m *mockSyncOrchestrator) Sync(
	_ context.Context, id domain.SourceID, opts domain.SyncOptions,
) (*domain.SyncResult, error) {
	m.lastSource = id
	m.lastOpts = opts
	return m.result, m.err
}

func (m *mockSyncOrchestrator) SyncAll(_ context.Context) ([]*domain.SyncResult, error) {
	return []*domain.SyncResult{m.result}, m.err
}

func (m *mockSyncOrchestrator) Status(_ context.Context, id domain.SourceID) (*domain.SyncStatus, error) {
	if m.err != nil {
		return nil, m.err
	}
	if st, ok := m.status[id]; ok {
		return st, nil
	}
	return &domain.SyncStatus{SourceID: id, State: domain.RunStateIdle}, nil
}

func (m *mockSyncOrchestrator) Progress(_ context.Context, id domain.SourceID) (*domain.SyncProgress, error) {
	if m.err != nil {
		return nil, m.err
	}
	if p, ok := m.progress[id]; ok {
		return p, nil
	}
	return domain.NewSyncProgress(id), nil
}

func (m *mockSyncOrchestrator) Reset(_ context.Context, id domain.SourceID) error {
	m.resets = append(m.resets, id)
	return m.err
}

func (m *mockSyncOrchestrator) SetDemoMode(enabled bool) { m.demo = enabled }

func (m *mockSyncOrchestrator) DemoMode() bool { return m.demo }

// mockCatalogReader is a mock implementation of driven.CatalogReader.
type mockCatalogReader struct {
	cards     []domain.UnifiedCard
	err       error
	lastLimit int
	lastID    domain.SourceID
}

var _ driven.CatalogReader = (*mockCatalogReader)(nil)

func (m *mockCatalogReader) ListCards(_ context.Context, id domain.SourceID, limit int) ([]domain.UnifiedCard, error) {
	m.lastID = id
	m.lastLimit = limit
	return m.cards, m.err
}
