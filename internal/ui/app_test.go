package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"alcyxob/fitness-testkit/internal/prefs"
	"alcyxob/fitness-testkit/internal/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// settle runs cmd and every command it produces until nothing is left,
// feeding each message back into m.
func settle(t *testing.T, m tea.Model, cmd tea.Cmd) tea.Model {
	t.Helper()
	for cmd != nil {
		msg := cmd()
		switch msg := msg.(type) {
		case nil:
			return m
		case tea.QuitMsg:
			return m
		case tea.BatchMsg:
			for _, c := range msg {
				m = settle(t, m, c)
			}
			return m
		default:
			m, cmd = m.Update(msg)
		}
	}
	return m
}

func send(t *testing.T, m tea.Model, msg tea.Msg) *App {
	t.Helper()
	m, cmd := m.Update(msg)
	m = settle(t, m, cmd)
	app, ok := m.(*App)
	require.True(t, ok)
	return app
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func tap(app *App, mode theme.Mode) tea.MouseMsg {
	return tea.MouseMsg{
		X:      4,
		Y:      app.optionTop() + indexOf(mode),
		Action: tea.MouseActionPress,
		Button: tea.MouseButtonLeft,
	}
}

type fixture struct {
	store      *prefs.MemoryStore
	controller *theme.Controller
	app        *App
	rebuilt    bool
}

func newFixture(t *testing.T, store *prefs.MemoryStore) *fixture {
	t.Helper()
	controller, err := theme.NewController(context.Background(), store, nil)
	require.NoError(t, err)

	f := &fixture{store: store, controller: controller}
	f.app = NewApp(context.Background(), controller, Options{
		Header: func(mode theme.Mode, p Palette) string {
			f.rebuilt = true
			return "Header " + string(mode)
		},
	})
	t.Cleanup(f.app.Close)
	f.rebuilt = false
	return f
}

func (f *fixture) persisted(t *testing.T) (string, bool) {
	t.Helper()
	v, ok, err := f.store.GetString(context.Background(), theme.PreferenceKey)
	require.NoError(t, err)
	return v, ok
}

func TestApp_InitialState(t *testing.T) {
	f := newFixture(t, prefs.NewMemoryStore(nil))

	assert.Equal(t, theme.ModeSystem, f.app.Mode())
	assert.Equal(t, 1, f.app.Builds())
	_, ok := f.persisted(t)
	assert.False(t, ok)

	view := f.app.View()
	assert.Contains(t, view, "Header system")
	assert.Contains(t, view, "(*) System default")
	assert.Contains(t, view, "( ) Light")
	assert.Contains(t, view, "( ) Dark")
}

func TestApp_TapLightAndDark(t *testing.T) {
	for _, mode := range []theme.Mode{theme.ModeLight, theme.ModeDark} {
		t.Run(string(mode), func(t *testing.T) {
			f := newFixture(t, prefs.NewMemoryStore(nil))

			app := send(t, f.app, tap(f.app, mode))

			assert.Equal(t, mode, app.Mode())
			v, ok := f.persisted(t)
			assert.True(t, ok)
			assert.Equal(t, string(mode), v)
			assert.Contains(t, app.View(), "(*) "+mode.Label())
			assert.Contains(t, app.View(), "Header "+string(mode))
		})
	}
}

func TestApp_TapOutsideOptions(t *testing.T) {
	f := newFixture(t, prefs.NewMemoryStore(nil))

	app := send(t, f.app, tea.MouseMsg{Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	app = send(t, app, tea.MouseMsg{Y: app.optionTop() + 1, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})

	assert.Equal(t, theme.ModeSystem, app.Mode())
	assert.Zero(t, f.store.Writes())
}

func TestApp_CyclicSwitching(t *testing.T) {
	f := newFixture(t, prefs.NewMemoryStore(nil))

	want := []theme.Mode{theme.ModeLight, theme.ModeDark, theme.ModeSystem, theme.ModeLight}
	app := f.app
	for _, mode := range want {
		app = send(t, app, keyRune('t'))
		assert.Equal(t, mode, app.Mode())
		v, _ := f.persisted(t)
		assert.Equal(t, string(mode), v)
	}
	assert.Equal(t, 1+len(want), app.Builds())
}

func TestApp_KeyboardNavigation(t *testing.T) {
	f := newFixture(t, prefs.NewMemoryStore(nil))

	app := send(t, f.app, tea.KeyMsg{Type: tea.KeyDown})
	app = send(t, app, tea.KeyMsg{Type: tea.KeyDown})
	app = send(t, app, tea.KeyMsg{Type: tea.KeyDown})
	app = send(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, theme.ModeDark, app.Mode())

	app = send(t, app, tea.KeyMsg{Type: tea.KeyUp})
	app = send(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, theme.ModeLight, app.Mode())

	app = send(t, app, keyRune('1'))
	assert.Equal(t, theme.ModeSystem, app.Mode())
	v, ok := f.persisted(t)
	assert.True(t, ok)
	assert.Equal(t, "system", v)
}

func TestApp_RestartRestoresMode(t *testing.T) {
	store := prefs.NewMemoryStore(nil)
	first := newFixture(t, store)
	send(t, first.app, keyRune('3'))

	restarted := newFixture(t, store)
	assert.Equal(t, theme.ModeDark, restarted.app.Mode())
	assert.Contains(t, restarted.app.View(), "Header dark")
	assert.Contains(t, restarted.app.View(), "(*) Dark")
}

func TestApp_RebuildsOnChange(t *testing.T) {
	f := newFixture(t, prefs.NewMemoryStore(nil))
	assert.False(t, f.rebuilt)

	app := send(t, f.app, tap(f.app, theme.ModeDark))

	assert.True(t, f.rebuilt)
	assert.Equal(t, 2, app.Builds())
}

func TestApp_NoRebuildForSameMode(t *testing.T) {
	f := newFixture(t, prefs.NewMemoryStore(nil))

	app := send(t, f.app, tap(f.app, theme.ModeDark))
	require.Equal(t, 2, app.Builds())
	writes := f.store.Writes()

	f.rebuilt = false
	app = send(t, app, tap(app, theme.ModeDark))
	app = send(t, app, keyRune('3'))

	assert.False(t, f.rebuilt)
	assert.Equal(t, 2, app.Builds())
	assert.Equal(t, writes, f.store.Writes())
}

func TestApp_SelectionError(t *testing.T) {
	store := &failingStore{MemoryStore: prefs.NewMemoryStore(nil), err: errors.New("read-only")}
	controller, err := theme.NewController(context.Background(), store, nil)
	require.NoError(t, err)
	app := NewApp(context.Background(), controller, Options{})
	t.Cleanup(app.Close)

	app = send(t, app, keyRune('2'))

	assert.Equal(t, theme.ModeSystem, app.Mode())
	assert.Error(t, app.Err())
	assert.Equal(t, 1, app.Builds())
	assert.True(t, strings.Contains(app.View(), "read-only"))
	assert.Equal(t, indexOf(theme.ModeSystem), app.cursor)
}

func TestApp_Quit(t *testing.T) {
	f := newFixture(t, prefs.NewMemoryStore(nil))
	_, cmd := f.app.Update(keyRune('q'))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_CloseStopsRebuilds(t *testing.T) {
	f := newFixture(t, prefs.NewMemoryStore(nil))
	f.app.Close()

	require.NoError(t, f.controller.SetMode(context.Background(), theme.ModeDark))
	app := send(t, f.app, modeAppliedMsg{mode: theme.ModeDark})
	assert.Equal(t, 1, app.Builds())
}

func TestPaletteFor(t *testing.T) {
	assert.True(t, PaletteFor(theme.ModeDark, false).Dark)
	assert.False(t, PaletteFor(theme.ModeLight, true).Dark)
	assert.True(t, PaletteFor(theme.ModeSystem, true).Dark)
	assert.False(t, PaletteFor(theme.ModeSystem, false).Dark)
}

type failingStore struct {
	*prefs.MemoryStore
	err error
}

func (f *failingStore) SetString(context.Context, string, string) error {
	return f.err
}
