package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/cardsync/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/cardsync/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/cardsync/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/cardsync/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/cardsync/internal/core/domain"
)

// DefaultRefreshInterval is how often the dashboard polls status.
const DefaultRefreshInterval = 500 * time.Millisecond

// App is the sync dashboard following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports   *Ports
	ctx     context.Context
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	spinner spinner.Model
	bar     *status.Bar

	sources  []domain.SourceID
	statuses map[domain.SourceID]domain.SyncStatus
	tasks    map[domain.SourceID]domain.ScheduledTask
	pending  map[domain.SourceID]bool
	selected int
	showHelp bool
	refresh  time.Duration

	err    error
	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a dashboard for every known source.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Warning

	bar := status.NewBar(s, km)
	bar.SetDemo(ports.Sync.DemoMode())

	return &App{
		ports:    ports,
		ctx:      context.Background(),
		styles:   s,
		keymap:   km,
		spinner:  sp,
		bar:      bar,
		sources:  domain.AllSources(),
		statuses: make(map[domain.SourceID]domain.SyncStatus),
		tasks:    make(map[domain.SourceID]domain.ScheduledTask),
		pending:  make(map[domain.SourceID]bool),
		refresh:  DefaultRefreshInterval,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// WithRefreshInterval sets the status polling interval.
func (a *App) WithRefreshInterval(d time.Duration) *App {
	if d > 0 {
		a.refresh = d
	}
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("cardsync - catalog sync"),
		a.spinner.Tick,
		a.loadStatuses(),
		a.tick(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.bar.SetWidth(msg.Width)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.Tick:
		return a, tea.Batch(a.loadStatuses(), a.tick())

	case messages.StatusesLoaded:
		a.applyStatuses(msg)
		return a, nil

	case messages.SyncStarted:
		a.pending[msg.SourceID] = true
		a.bar.SetActive(a.activeCount())
		return a, nil

	case messages.SyncFinished:
		delete(a.pending, msg.SourceID)
		a.reportFinished(msg)
		a.bar.SetActive(a.activeCount())
		return a, a.loadStatuses()

	case messages.DemoToggled:
		a.bar.SetDemo(msg.Enabled)
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.bar.SetState(status.StateError)
		a.bar.SetMessage(msg.Err.Error())
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keymap.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keymap.Help):
		a.showHelp = !a.showHelp
		if a.showHelp {
			a.bar.SetState(status.StateHelp)
		} else {
			a.bar.SetState(status.StateReady)
			a.bar.SetActive(a.activeCount())
		}
		return a, nil

	case key.Matches(msg, a.keymap.Up):
		if a.selected > 0 {
			a.selected--
		}
		return a, nil

	case key.Matches(msg, a.keymap.Down):
		if a.selected < len(a.sources)-1 {
			a.selected++
		}
		return a, nil

	case key.Matches(msg, a.keymap.Sync):
		return a, a.startSync(a.sources[a.selected])

	case key.Matches(msg, a.keymap.SyncAll):
		cmds := make([]tea.Cmd, 0, len(a.sources))
		for _, id := range a.sources {
			cmds = append(cmds, a.startSync(id))
		}
		return a, tea.Batch(cmds...)

	case key.Matches(msg, a.keymap.Demo):
		enabled := !a.ports.Sync.DemoMode()
		a.ports.Sync.SetDemoMode(enabled)
		return a, func() tea.Msg { return messages.DemoToggled{Enabled: enabled} }

	case key.Matches(msg, a.keymap.Refresh):
		return a, a.loadStatuses()
	}
	return a, nil
}

// startSync runs one sync in the background. Sources already syncing are
// left alone.
func (a *App) startSync(id domain.SourceID) tea.Cmd {
	if a.pending[id] {
		return nil
	}
	if st, ok := a.statuses[id]; ok && st.Running() {
		return nil
	}
	a.pending[id] = true
	a.bar.SetActive(a.activeCount())

	ctx := a.ctx
	syncOrch := a.ports.Sync
	return func() tea.Msg {
		res, err := syncOrch.Sync(ctx, id, domain.SyncOptions{})
		return messages.SyncFinished{SourceID: id, Result: res, Err: err}
	}
}

func (a *App) loadStatuses() tea.Cmd {
	ctx := a.ctx
	ports := a.ports
	sources := a.sources
	return func() tea.Msg {
		out := make([]domain.SyncStatus, 0, len(sources))
		var errs []error
		for _, id := range sources {
			st, err := ports.Sync.Status(ctx, id)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", id, err))
				continue
			}
			out = append(out, *st)
		}
		return messages.StatusesLoaded{Statuses: out, Err: errors.Join(errs...)}
	}
}

func (a *App) tick() tea.Cmd {
	return tea.Tick(a.refresh, func(t time.Time) tea.Msg {
		return messages.Tick{At: t}
	})
}

func (a *App) applyStatuses(msg messages.StatusesLoaded) {
	for _, st := range msg.Statuses {
		a.statuses[st.SourceID] = st
	}
	if a.ports.Scheduler != nil {
		if tasks, err := a.ports.Scheduler.Tasks(a.ctx); err == nil {
			for _, task := range tasks {
				if id, ok := domain.SourceFromTaskID(task.ID); ok {
					a.tasks[id] = task
				}
			}
		}
	}
	if msg.Err != nil {
		a.err = msg.Err
		a.bar.SetState(status.StateError)
		a.bar.SetMessage(msg.Err.Error())
	}
	a.bar.SetActive(a.activeCount())
}

func (a *App) reportFinished(msg messages.SyncFinished) {
	switch {
	case errors.Is(msg.Err, domain.ErrSyncInProgress):
		a.bar.SetMessage(fmt.Sprintf("%s: already syncing", msg.SourceID))
	case msg.Err != nil:
		a.err = msg.Err
		a.bar.SetState(status.StateError)
		a.bar.SetMessage(fmt.Sprintf("%s: %v", msg.SourceID, msg.Err))
	case msg.Result != nil:
		a.err = nil
		if a.bar.State() == status.StateError {
			a.bar.SetState(status.StateReady)
		}
		a.bar.SetMessage(fmt.Sprintf("%s: %s, %d cards",
			msg.SourceID, msg.Result.Outcome, msg.Result.CardsEmitted))
	}
}

// activeCount counts sources with a run in flight.
func (a *App) activeCount() int {
	n := 0
	for _, id := range a.sources {
		st, ok := a.statuses[id]
		if a.pending[id] || (ok && st.Running()) {
			n++
		}
	}
	return n
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(a.styles.Title.Render("cardsync"))
	b.WriteString(a.styles.Muted.Render("  catalog sync dashboard"))
	b.WriteString("\n\n")

	b.WriteString(a.styles.Header.Render(fmt.Sprintf("  %-28s %-10s %-10s %-8s %-12s %s",
		"SOURCE", "STATE", "PAGE", "CARDS", "LAST RUN", "NEXT")))
	b.WriteString("\n")

	for i, id := range a.sources {
		line := a.renderRow(id)
		if i == a.selected {
			b.WriteString(a.styles.Selected.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	if a.showHelp {
		b.WriteString("\n")
		b.WriteString(a.renderHelp())
	}

	b.WriteString("\n")
	b.WriteString(a.bar.View())
	return b.String()
}

func (a *App) renderRow(id domain.SourceID) string {
	st, ok := a.statuses[id]
	if !ok {
		return fmt.Sprintf("%-28s %s", id.DisplayName(), a.styles.Muted.Render("loading"))
	}

	state := string(st.State)
	if st.Running() || a.pending[id] {
		state = a.spinner.View() + " " + string(domain.RunStateRunning)
	} else if st.Progress != nil && st.Progress.IsComplete {
		state = string(domain.RunStateComplete)
	}

	cards := st.CardsEmitted
	lastRun := "-"
	if st.LastResult != nil {
		lastRun = string(st.LastResult.Outcome)
		if !st.Running() {
			cards = st.LastResult.CardsEmitted
		}
	}

	next := "-"
	if task, ok := a.tasks[id]; ok && task.Enabled && !task.NextRun.IsZero() {
		next = task.NextRun.Local().Format("15:04:05")
	}

	return fmt.Sprintf("%-28s %-10s %-10s %-8d %-12s %s",
		id.DisplayName(), state, pageLabel(st), cards, lastRun, next)
}

func (a *App) renderHelp() string {
	var lines []string
	for _, group := range a.keymap.FullHelp() {
		parts := make([]string, 0, len(group))
		for _, b := range group {
			h := b.Help()
			parts = append(parts, fmt.Sprintf("%-6s %s", h.Key, h.Desc))
		}
		lines = append(lines, strings.Join(parts, "   "))
	}
	return a.styles.Border.Render(a.styles.Help.Render(strings.Join(lines, "\n")))
}

// pageLabel renders "current/total" using the live page while running and
// the persisted cursor otherwise.
func pageLabel(st domain.SyncStatus) string {
	page := st.CurrentPage
	total := "?"
	if st.Progress != nil {
		if !st.Running() {
			page = st.Progress.LastProcessedPage
		}
		if st.Progress.TotalPagesKnown != nil {
			total = fmt.Sprintf("%d", *st.Progress.TotalPagesKnown)
		}
	}
	return fmt.Sprintf("%d/%s", page, total)
}

// Selected returns the highlighted source.
func (a *App) Selected() domain.SourceID {
	return a.sources[a.selected]
}

// Err returns the last error shown.
func (a *App) Err() error {
	return a.err
}

// Pending reports whether a dashboard-started run is in flight for id.
func (a *App) Pending(id domain.SourceID) bool {
	return a.pending[id]
}
