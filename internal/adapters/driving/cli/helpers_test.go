package cli

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/cardsync/internal/core/domain"
	"github.com/custodia-labs/cardsync/internal/core/ports/driven"
	"github.com/custodia-labs/cardsync/internal/core/ports/driving"
	"github.com/custodia-labs/cardsync/internal/logger"
)

// mockSyncOrchestrator implements driving.SyncOrchestrator for testing.
type mockSyncOrchestrator struct {
	mu sync.Mutex

	syncFunc   func(ctx context.Context, id domain.SourceID, opts domain.SyncOptions) (*domain.SyncResult, error)
	statusFunc func(ctx context.Context, id domain.SourceID) (*domain.SyncStatus, error)
	allResults []*domain.SyncResult
	allErr     error
	resetErr   error

	lastOpts domain.SyncOptions
	resets   []domain.SourceID
	demo     bool
}

var _ driving.SyncOrchestrator = (*mockSyncOrchestrator)(nil)

func (m *mockSyncOrchestrator) Sync(
	ctx context.Context, id domain.SourceID, opts domain.SyncOptions,
) (*domain.SyncResult, error) {
	m.mu.Lock()
	m.lastOpts = opts
	m.mu.Unlock()
	if m.syncFunc != nil {
		return m.syncFunc(ctx, id, opts)
	}
	return &domain.SyncResult{SourceID: id, Outcome: domain.OutcomeCompleted}, nil
}

func (m *mockSyncOrchestrator) SyncAll(_ context.Context) ([]*domain.SyncResult, error) {
	return m.allResults, m.allErr
}

func (m *mockSyncOrchestrator) Status(ctx context.Context, id domain.SourceID) (*domain.SyncStatus, error) {
	if m.statusFunc != nil {
		return m.statusFunc(ctx, id)
	}
	return &domain.SyncStatus{SourceID: id, State: domain.RunStateIdle, Progress: domain.NewSyncProgress(id)}, nil
}

func (m *mockSyncOrchestrator) Progress(_ context.Context, id domain.SourceID) (*domain.SyncProgress, error) {
	return domain.NewSyncProgress(id), nil
}

func (m *mockSyncOrchestrator) Reset(_ context.Context, id domain.SourceID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets = append(m.resets, id)
	return m.resetErr
}

func (m *mockSyncOrchestrator) SetDemoMode(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.demo = enabled
}

func (m *mockSyncOrchestrator) DemoMode() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.demo
}

// mockBulkFetcher implements driving.BulkFetcher for testing.
type mockBulkFetcher struct {
	cards    []domain.UnifiedCard
	err      error
	maxPages int
}

var _ driving.BulkFetcher = (*mockBulkFetcher)(nil)

func (m *mockBulkFetcher) FetchBounded(_ context.Context, _ domain.SourceID, maxPages int) ([]domain.UnifiedCard, error) {
	m.maxPages = maxPages
	return m.cards, m.err
}

// mockSettingsService implements driving.SettingsService for testing.
type mockSettingsService struct {
	cfg    *domain.AppConfig
	getErr error
	setErr error

	demo    *bool
	apiKeys map[domain.SourceID]string
}

var _ driving.SettingsService = (*mockSettingsService)(nil)

func (m *mockSettingsService) Get() (*domain.AppConfig, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.cfg == nil {
		cfg := domain.DefaultAppConfig()
		return &cfg, nil
	}
	return m.cfg, nil
}

func (m *mockSettingsService) SetDemoMode(enabled bool) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.demo = &enabled
	return nil
}

func (m *mockSettingsService) SetAPIKey(id domain.SourceID, key string) error {
	if m.setErr != nil {
		return m.setErr
	}
	if m.apiKeys == nil {
		m.apiKeys = make(map[domain.SourceID]string)
	}
	m.apiKeys[id] = key
	return nil
}

// mockScheduler implements driving.Scheduler for testing.
type mockScheduler struct {
	startErr   error
	started    chan struct{}
	stopped    bool
	history    []domain.TaskResult
	historyErr error
	asked      []domain.SourceID
	limits     []int
}

var _ driving.Scheduler = (*mockScheduler)(nil)

func (m *mockScheduler) Start(ctx context.Context) error {
	if m.started != nil {
		close(m.started)
	}
	if m.startErr != nil {
		return m.startErr
	}
	<-ctx.Done()
	return ctx.Err()
}

func (m *mockScheduler) Stop() error {
	m.stopped = true
	return nil
}

func (m *mockScheduler) Tasks(_ context.Context) ([]domain.ScheduledTask, error) {
	return nil, nil
}

func (m *mockScheduler) History(_ context.Context, sourceID domain.SourceID, limit int) ([]domain.TaskResult, error) {
	m.asked = append(m.asked, sourceID)
	m.limits = append(m.limits, limit)
	return m.history, m.historyErr
}

// mockWatcher implements driven.ConfigWatcher by firing onChange once.
type mockWatcher struct{}

var _ driven.ConfigWatcher = mockWatcher{}

func (mockWatcher) Watch(ctx context.Context, onChange func()) error {
	onChange()
	<-ctx.Done()
	return nil
}

// withServices installs services for the duration of a test.
func withServices(t *testing.T, s Services) {
	t.Helper()
	prev := Services{
		Sync:      syncOrchestrator,
		Bulk:      bulkFetcher,
		Settings:  settingsService,
		Scheduler: scheduler,
		Catalog:   catalogReader,
		Watcher:   configWatcher,
	}
	SetServices(s)
	t.Cleanup(func() { SetServices(prev) })
}

// executeCommand runs the root command with args and returns its output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeCommandContext(context.Background(), t, args...)
}

// executeCommandContext is executeCommand with a caller-supplied context.
func executeCommandContext(ctx context.Context, t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		resetFlags(rootCmd)
		logger.SetVerbose(false)
	})

	setContext(rootCmd, ctx)
	err := rootCmd.ExecuteContext(ctx)
	return buf.String(), err
}

// setContext installs ctx on cmd and its subcommands. cobra only passes the
// root context down to a subcommand whose context is still nil, so one left
// over from an earlier execution would otherwise win.
func setContext(cmd *cobra.Command, ctx context.Context) {
	cmd.SetContext(ctx)
	for _, c := range cmd.Commands() {
		setContext(c, ctx)
	}
}

// resetFlags restores every flag to its default so tests stay independent.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
