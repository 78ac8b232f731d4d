package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-i2p/settingsync/lib/app"
	"github.com/go-i2p/settingsync/lib/keystore"
	"github.com/go-i2p/settingsync/lib/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHost struct {
	endpoint    string
	hasEndpoint bool
	completed   bool
	completeErr error
	completes   int
}

func (h *fakeHost) Endpoint() (string, bool)   { return h.endpoint, h.hasEndpoint }
func (h *fakeHost) HasCompletedFirstRun() bool { return h.completed }

func (h *fakeHost) CompleteFirstRun() error {
	h.completes++
	if h.completeErr != nil {
		return h.completeErr
	}
	h.completed = true
	return nil
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestWelcomeShownOnFirstRun(t *testing.T) {
	m := NewModel(&fakeHost{endpoint: "https://a.example", hasEndpoint: true})
	assert.True(t, m.WelcomeVisible())
	assert.Contains(t, m.View(), "Welcome")
	assert.Contains(t, m.View(), "https://a.example")
}

func TestWelcomeHiddenAfterFirstRun(t *testing.T) {
	m := NewModel(&fakeHost{completed: true})
	assert.False(t, m.WelcomeVisible())
	assert.NotContains(t, m.View(), "Welcome")
}

func TestDismissKeys(t *testing.T) {
	for _, msg := range []tea.KeyMsg{
		{Type: tea.KeyEnter},
		{Type: tea.KeyEsc},
		{Type: tea.KeySpace, Runes: []rune{' '}},
	} {
		t.Run(msg.String(), func(t *testing.T) {
			host := &fakeHost{}
			m := NewModel(host)
			m, cmd := update(t, m, msg)
			assert.Nil(t, cmd)
			assert.False(t, m.WelcomeVisible())
			assert.Equal(t, 1, host.completes)
		})
	}
}

func TestDismissOnlyWhileVisible(t *testing.T) {
	host := &fakeHost{completed: true}
	m := NewModel(host)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, 0, host.completes)
	assert.False(t, m.WelcomeVisible())
}

func TestDismissFailureKeepsWelcome(t *testing.T) {
	host := &fakeHost{completeErr: errors.New("disk full")}
	m := NewModel(host)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.WelcomeVisible())
	assert.Contains(t, m.View(), "disk full")
}

func TestEndpointLabelFallback(t *testing.T) {
	m := NewModel(&fakeHost{completed: true})
	assert.Equal(t, NoEndpointLabel, m.EndpointLabel())
	assert.Contains(t, m.View(), NoEndpointLabel)

	m = NewModel(&fakeHost{completed: true, hasEndpoint: true})
	assert.Equal(t, NoEndpointLabel, m.EndpointLabel(), "empty endpoint reads as absent")
}

func TestStoreChangeRefreshesLabel(t *testing.T) {
	host := &fakeHost{completed: true, endpoint: "https://a.example", hasEndpoint: true}
	m := NewModel(host)

	host.endpoint = "https://b.example"
	assert.Equal(t, "https://a.example", m.EndpointLabel())
	m, _ = update(t, m, StoreChangedMsg{Key: settings.SettingEndpoint.Name()})
	assert.Equal(t, "https://b.example", m.EndpointLabel())
}

func TestRestartRebuilds(t *testing.T) {
	host := &fakeHost{completed: true, endpoint: "https://custom.example", hasEndpoint: true}
	m := NewModel(host)
	require.False(t, m.WelcomeVisible())

	host.completed = false
	host.endpoint = settings.DefaultEndpoint
	m, _ = update(t, m, RestartedMsg{Generation: 1})

	assert.True(t, m.WelcomeVisible())
	assert.Equal(t, settings.DefaultEndpoint, m.EndpointLabel())
}

func TestQuitKeys(t *testing.T) {
	m := NewModel(&fakeHost{})
	for _, msg := range []tea.KeyMsg{runeKey('q'), {Type: tea.KeyCtrlC}} {
		_, cmd := update(t, m, msg)
		require.NotNil(t, cmd, msg.String())
		assert.Equal(t, tea.QuitMsg{}, cmd())
	}
}

func TestWindowSize(t *testing.T) {
	m := NewModel(&fakeHost{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 30, Height: 10})
	for _, line := range strings.Split(m.View(), "\n") {
		assert.LessOrEqual(t, len([]rune(stripANSI(line))), 30)
	}
}

// stripANSI drops SGR sequences so widths can be compared.
func stripANSI(s string) string {
	var b strings.Builder
	inEsc := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEsc = true
		case inEsc && r == 'm':
			inEsc = false
		case !inEsc:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func TestControllerIsHost(t *testing.T) {
	store := keystore.NewMemoryStore()
	c, err := app.New(app.Options{Store: store})
	require.NoError(t, err)
	require.NoError(t, c.Start())
	defer func() {
		_ = c.Stop()
		_ = c.Close()
	}()

	m := NewModel(c)
	assert.True(t, m.WelcomeVisible())
	assert.Equal(t, settings.DefaultEndpoint, m.EndpointLabel())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.WelcomeVisible())
	assert.True(t, c.HasCompletedFirstRun())

	require.NoError(t, c.RequestReset())
	m, _ = update(t, m, RestartedMsg{Generation: c.Generation()})
	assert.True(t, m.WelcomeVisible())
}
