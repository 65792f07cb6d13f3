package tui

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/cardsync/internal/core/domain"
	"github.com/custodia-labs/cardsync/internal/core/ports/driving"
)

// MockSyncOrchestrator implements driving.SyncOrchestrator for testing.
type MockSyncOrchestrator struct {
	mu sync.Mutex

	SyncFunc   func(ctx context.Context, id domain.SourceID, opts domain.SyncOptions) (*domain.SyncResult, error)
	StatusFunc func(ctx context.Context, id domain.SourceID) (*domain.SyncStatus, error)
	ResetFunc  func(ctx context.Context, id domain.SourceID) error

	demo   bool
	synced []domain.SourceID
}

var _ driving.SyncOrchestrator = (*MockSyncOrchestrator)(nil)

func (m *MockSyncOrchestrator) Sync(
	ctx context.Context, id domain.SourceID, opts domain.SyncOptions,
) (*domain.SyncResult, error) {
	m.mu.Lock()
	m.synced = append(m.synced, id)
	m.mu.Unlock()
	if m.SyncFunc != nil {
		return m.SyncFunc(ctx, id, opts)
	}
	return &domain.SyncResult{SourceID: id, Outcome: domain.OutcomeCompleted}, nil
}

func (m *MockSyncOrchestrator) SyncAll(ctx context.Context) ([]*domain.SyncResult, error) {
	out := make([]*domain.SyncResult, 0, 3)
	for _, id := range domain.AllSources() {
		res, err := m.Sync(ctx, id, domain.SyncOptions{})
		if err != nil {
			return out, err
		}
		out = append(out, res)
	}
	return out, nil
}

func (m *MockSyncOrchestrator) Status(ctx context.Context, id domain.SourceID) (*domain.SyncStatus, error) {
	if m.StatusFunc != nil {
		return m.StatusFunc(ctx, id)
	}
	return &domain.SyncStatus{SourceID: id, State: domain.RunStateIdle}, nil
}

func (m *MockSyncOrchestrator) Progress(_ context.Context, id domain.SourceID) (*domain.SyncProgress, error) {
	return domain.NewSyncProgress(id), nil
}

func (m *MockSyncOrchestrator) Reset(ctx context.Context, id domain.SourceID) error {
	if m.ResetFunc != nil {
		return m.ResetFunc(ctx, id)
	}
	return nil
}

func (m *MockSyncOrchestrator) SetDemoMode(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.demo = enabled
}

func (m *MockSyncOrchestrator) DemoMode() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.demo
}

func (m *MockSyncOrchestrator) Synced() []domain.SourceID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.SourceID(nil), m.synced...)
}

// MockScheduler implements driving.Scheduler for testing.
type MockScheduler struct {
	TasksList []domain.ScheduledTask
	TasksErr  error
}

var _ driving.Scheduler = (*MockScheduler)(nil)

func (m *MockScheduler) Start(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

func (m *MockScheduler) Stop() error { return nil }

func (m *MockScheduler) Tasks(_ context.Context) ([]domain.ScheduledTask, error) {
	return m.TasksList, m.TasksErr
}

func (m *MockScheduler) History(context.Context, domain.SourceID, int) ([]domain.TaskResult, error) {
	return nil, nil
}

func TestPorts_Validate(t *testing.T) {
	tests := []struct {
		name    string
		ports   *Ports
		wantErr error
	}{
		{name: "nil ports", ports: nil, wantErr: ErrMissingSyncOrchestrator},
		{name: "missing sync", ports: &Ports{Scheduler: &MockScheduler{}}, wantErr: ErrMissingSyncOrchestrator},
		{name: "sync only", ports: &Ports{Sync: &MockSyncOrchestrator{}}},
		{name: "all ports", ports: &Ports{Sync: &MockSyncOrchestrator{}, Scheduler: &MockScheduler{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ports.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}
