package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-i2p/logger"
)

var log = logger.GetGoI2PLogger()

// NoEndpointLabel is shown when no endpoint is stored.
const NoEndpointLabel = "[No endpoint]"

// Host is the part of the lifecycle controller the model reads from.
type Host interface {
	Endpoint() (string, bool)
	HasCompletedFirstRun() bool
	CompleteFirstRun() error
}

// StoreChangedMsg is sent when any key in the store changes.
type StoreChangedMsg struct {
	Key string
}

// RestartedMsg is sent after the application restarted.
type RestartedMsg struct {
	Generation uint64
}

// Model is the bubbletea model for the main screen.
type Model struct {
	host       Host
	theme      theme
	endpoint   string
	hasEnd     bool
	welcome    bool
	generation uint64
	width      int
	err        error
}

// NewModel reads the initial state from host.
func NewModel(host Host) Model {
	m := Model{host: host, theme: defaultTheme()}
	m.rebuild()
	return m
}

func (m *Model) rebuild() {
	m.welcome = !m.host.HasCompletedFirstRun()
	m.refreshEndpoint()
}

func (m *Model) refreshEndpoint() {
	m.endpoint, m.hasEnd = m.host.Endpoint()
}

// EndpointLabel returns the text of the endpoint label.
func (m Model) EndpointLabel() string {
	if !m.hasEnd || m.endpoint == "" {
		return NoEndpointLabel
	}
	return m.endpoint
}

// WelcomeVisible reports whether the welcome box is showing.
func (m Model) WelcomeVisible() bool { return m.welcome }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case StoreChangedMsg:
		m.refreshEndpoint()
	case RestartedMsg:
		log.WithField("generation", msg.Generation).Debug("rebuilding view after restart")
		m.generation = msg.Generation
		m.err = nil
		m.rebuild()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "enter", "esc", " ", "space":
			if m.welcome {
				m.dismissWelcome()
			}
		}
	}
	return m, nil
}

func (m *Model) dismissWelcome() {
	if err := m.host.CompleteFirstRun(); err != nil {
		log.WithError(err).Warn("failed to record welcome dismissal")
		m.err = err
		return
	}
	m.err = nil
	m.welcome = false
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.theme.title.Render("settingsync"))
	b.WriteString("\n\n")

	if m.welcome {
		box := m.theme.welcome
		if m.width > 4 {
			box = box.MaxWidth(m.width)
		}
		b.WriteString(box.Render("Welcome!\n\nYour settings are kept in sync with the settings panel.\nPress enter to continue."))
		b.WriteString("\n\n")
	}

	b.WriteString(m.theme.label.Render("Endpoint: "))
	if label := m.EndpointLabel(); label == NoEndpointLabel {
		b.WriteString(m.theme.missing.Render(label))
	} else {
		b.WriteString(m.theme.value.Render(label))
	}
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(m.theme.errorMsg.Render("error: " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.theme.footer.Render("q quit"))
	b.WriteString("\n")
	return b.String()
}
