// Package ui is a small terminal app whose header follows the theme mode
// and whose settings screen lets the user pick it.
package ui

import (
	"context"
	"strings"
	"sync/atomic"

	"alcyxob/fitness-testkit/internal/theme"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HeaderBuilder renders the header for the current mode. It runs once at
// start and again only after the controller reports a change.
type HeaderBuilder func(mode theme.Mode, p Palette) string

// DefaultHeader shows the app name and the selected mode.
func DefaultHeader(mode theme.Mode, p Palette) string {
	return "FitKit  |  theme: " + mode.Label()
}

type Options struct {
	Header HeaderBuilder
	// SystemDark is what ModeSystem resolves to.
	SystemDark bool
}

// modeAppliedMsg reports the result of a SetMode issued by the app.
type modeAppliedMsg struct {
	mode theme.Mode
	err  error
}

// App is the tea.Model of the theme settings screen.
type App struct {
	ctx        context.Context
	controller *theme.Controller
	build      HeaderBuilder
	systemDark bool

	keys keyMap
	help help.Model

	cursor int
	width  int
	err    error

	dirty       *atomic.Bool
	header      string
	builds      int
	unsubscribe func()
}

// NewApp binds an App to controller. Call Close when done to drop the
// controller subscription.
func NewApp(ctx context.Context, controller *theme.Controller, opts Options) *App {
	build := opts.Header
	if build == nil {
		build = DefaultHeader
	}
	a := &App{
		ctx:        ctx,
		controller: controller,
		build:      build,
		systemDark: opts.SystemDark,
		keys:       defaultKeyMap(),
		help:       help.New(),
		dirty:      &atomic.Bool{},
	}
	// Listeners may run on the command goroutine.
	dirty := a.dirty
	a.unsubscribe = controller.Subscribe(func(theme.Mode) { dirty.Store(true) })
	a.cursor = indexOf(controller.Mode())
	a.rebuild()
	return a
}

func (a *App) Init() tea.Cmd {
	return nil
}

// Close unsubscribes from the controller.
func (a *App) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
}

// Builds is how many times the header builder has run.
func (a *App) Builds() int {
	return a.builds
}

// Mode is the controller's current mode.
func (a *App) Mode() theme.Mode {
	return a.controller.Mode()
}

// Err is the error of the last failed selection, if any.
func (a *App) Err() error {
	return a.err
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.help.Width = msg.Width
	case tea.KeyMsg:
		return a, a.handleKey(msg)
	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return a, nil
		}
		if i, ok := a.optionAt(msg.Y); ok {
			a.cursor = i
			return a, a.apply(theme.Modes[i])
		}
	case modeAppliedMsg:
		a.err = msg.err
		if a.dirty.CompareAndSwap(true, false) {
			a.rebuild()
		}
		a.cursor = indexOf(a.controller.Mode())
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return tea.Quit
	case key.Matches(msg, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}
	case key.Matches(msg, a.keys.Down):
		if a.cursor < len(theme.Modes)-1 {
			a.cursor++
		}
	case key.Matches(msg, a.keys.Select):
		return a.apply(theme.Modes[a.cursor])
	case key.Matches(msg, a.keys.Cycle):
		next := a.controller.Mode().Next()
		a.cursor = indexOf(next)
		return a.apply(next)
	default:
		for i, b := range a.keys.Direct {
			if key.Matches(msg, b) {
				a.cursor = i
				return a.apply(theme.Modes[i])
			}
		}
	}
	return nil
}

func (a *App) apply(m theme.Mode) tea.Cmd {
	ctx, controller := a.ctx, a.controller
	return func() tea.Msg {
		return modeAppliedMsg{mode: m, err: controller.SetMode(ctx, m)}
	}
}

func (a *App) rebuild() {
	a.header = a.build(a.controller.Mode(), a.palette())
	a.builds++
}

func (a *App) palette() Palette {
	return PaletteFor(a.controller.Mode(), a.systemDark)
}

// optionTop is the screen row of the first option.
func (a *App) optionTop() int {
	// header, blank line, title
	return lipgloss.Height(a.header) + 2
}

func (a *App) optionAt(y int) (int, bool) {
	i := y - a.optionTop()
	if i < 0 || i >= len(theme.Modes) {
		return 0, false
	}
	return i, true
}

func (a *App) View() string {
	st := newStyles(a.palette())
	current := a.controller.Mode()

	var b strings.Builder
	b.WriteString(st.header.Render(a.header))
	b.WriteString("\n\n")
	b.WriteString(st.title.Render("Theme"))
	b.WriteString("\n")
	for i, m := range theme.Modes {
		cursor := "  "
		if i == a.cursor {
			cursor = st.cursor.Render("> ")
		}
		mark := "( )"
		style := st.option
		if m == current {
			mark = "(*)"
			style = st.selected
		}
		b.WriteString(cursor + style.Render(mark+" "+m.Label()) + "\n")
	}
	if a.err != nil {
		b.WriteString("\n" + st.err.Render(a.err.Error()) + "\n")
	}
	b.WriteString("\n" + st.hint.Render(a.help.View(a.keys)))
	return b.String()
}

func indexOf(m theme.Mode) int {
	for i, mode := range theme.Modes {
		if mode == m {
			return i
		}
	}
	return 0
}
