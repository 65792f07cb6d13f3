// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/cardsync/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/cardsync/internal/adapters/driving/tui/styles"
)

// State represents the current dashboard state for display.
type State string

const (
	StateReady   State = "ready"
	StateSyncing State = "syncing"
	StateError   State = "error"
	StateHelp    State = "help"
)

// Bar displays dashboard status and keybinding hints.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	state   State
	message string
	active  int
	demo    bool
	width   int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		width:  80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(_ tea.Msg) (*Bar, tea.Cmd) {
	// Bar is passive, updated via Set methods
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	inner := s.width - s.styles.StatusBar.GetHorizontalFrameSize()
	padding := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (s *Bar) renderLeft() string {
	var parts []string
	if s.demo {
		parts = append(parts, s.styles.Warning.Render("DEMO"))
	}

	switch s.state {
	case StateSyncing:
		parts = append(parts, s.styles.Warning.Render(fmt.Sprintf("Syncing %d source(s)", s.active)))
	case StateError:
		if s.message != "" {
			parts = append(parts, s.styles.Error.Render("Error: "+s.message))
		} else {
			parts = append(parts, s.styles.Error.Render("Error"))
		}
	case StateHelp:
		parts = append(parts, s.styles.Normal.Render("Help"))
	case StateReady:
		if s.message != "" {
			parts = append(parts, s.styles.Normal.Render(s.message))
		} else {
			parts = append(parts, s.styles.Muted.Render("Ready"))
		}
	}
	return strings.Join(parts, " ")
}

func (s *Bar) renderRight() string {
	bindings := s.keymap.ShortHelp()
	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a custom message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetActive sets how many sources are syncing and derives the state.
func (s *Bar) SetActive(n int) {
	s.active = n
	switch {
	case n > 0 && s.state != StateError && s.state != StateHelp:
		s.state = StateSyncing
	case n == 0 && s.state == StateSyncing:
		s.state = StateReady
	}
}

// Active returns how many sources are syncing.
func (s *Bar) Active() int {
	return s.active
}

// SetDemo marks demo mode in the bar.
func (s *Bar) SetDemo(enabled bool) {
	s.demo = enabled
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the status bar to default state.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
	s.active = 0
}
