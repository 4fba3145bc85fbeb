package tui

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// maxEventLines is how many recent events the feed retains.
const maxEventLines = 200

type participantRow struct {
	name string
	role string
}

// Model is the monitor state: a read-only mirror of one session built
// from the broadcast stream.
type Model struct {
	sessionID string
	client    *client
	spinner   spinner.Model

	connected bool
	quitting  bool
	err       error

	participants map[string]participantRow
	holderID     string
	currentTurn  string
	versions     map[string]int64
	events       []string

	width  int
	height int
}

// NewModel creates a monitor model for one session.
func NewModel(sessionID string, c *client) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return Model{
		sessionID:    sessionID,
		client:       c,
		spinner:      sp,
		participants: make(map[string]participantRow),
		currentTurn:  "user",
		versions:     make(map[string]int64),
	}
}

// Init starts the spinner and the frame pump.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.client.next())
}

// Update handles key presses and server frames.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			m.client.close()
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case connectedMsg:
		m.connected = true
		return m, m.client.next()

	case frameMsg:
		m.applyFrame(msg.data)
		return m, m.client.next()

	case disconnectedMsg:
		if m.quitting {
			return m, nil
		}
		m.connected = false
		m.err = msg.err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// frame is the superset of outbound message fields the monitor reads.
type frame struct {
	Type     string `json:"type"`
	Snapshot *struct {
		Participants []struct {
			ID          string `json:"id"`
			DisplayName string `json:"display_name"`
			Role        string `json:"role"`
		} `json:"participants"`
		Turn struct {
			CurrentTurn string `json:"current_turn"`
			HolderID    string `json:"holder_id"`
		} `json:"turn"`
		Versions map[string]int64 `json:"versions"`
	} `json:"snapshot"`
	Participant *struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
		Role        string `json:"role"`
	} `json:"participant"`
	ParticipantID string `json:"participant_id"`
	Turn          *struct {
		CurrentTurn string `json:"current_turn"`
		HolderID    string `json:"holder_id"`
	} `json:"turn"`
	Op *struct {
		FilePath string `json:"file_path"`
		Kind     string `json:"kind"`
	} `json:"op"`
	Version  int64 `json:"version"`
	FilePath string `json:"file_path"`
	Cursor   *struct {
		ParticipantID string `json:"participant_id"`
		FilePath      string `json:"file_path"`
		Line          int    `json:"line"`
		Column        int    `json:"column"`
	} `json:"cursor"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// applyFrame folds one server frame into the mirrored state.
func (m *Model) applyFrame(data []byte) {
	var f frame
	if err := json.Unmarshal(data, &f); err != nil {
		return
	}

	switch f.Type {
	case "joined":
		if f.Snapshot == nil {
			return
		}
		for _, p := range f.Snapshot.Participants {
			m.participants[p.ID] = participantRow{name: p.DisplayName, role: p.Role}
		}
		m.currentTurn = f.Snapshot.Turn.CurrentTurn
		m.holderID = f.Snapshot.Turn.HolderID
		for path, v := range f.Snapshot.Versions {
			m.versions[path] = v
		}
		m.logf("joined session %s", m.sessionID)

	case "participant_joined":
		if f.Participant == nil {
			return
		}
		m.participants[f.Participant.ID] = participantRow{
			name: f.Participant.DisplayName, role: f.Participant.Role,
		}
		m.logf("%s joined (%s)", f.Participant.DisplayName, f.Participant.Role)

	case "participant_left":
		m.logf("%s left", m.displayName(f.ParticipantID))
		delete(m.participants, f.ParticipantID)
		if f.Turn != nil {
			m.currentTurn = f.Turn.CurrentTurn
			m.holderID = f.Turn.HolderID
		}

	case "edit":
		if f.Op != nil {
			m.versions[f.Op.FilePath] = f.Version
			m.logf("%s v%d (%s)", f.Op.FilePath, f.Version, f.Op.Kind)
		}

	case "turn_granted", "turn_passed":
		if f.Turn != nil {
			m.currentTurn = f.Turn.CurrentTurn
			m.holderID = f.Turn.HolderID
		}
		m.logf("turn held by %s", m.displayName(f.ParticipantID))

	case "turn_released":
		if f.Turn != nil {
			m.currentTurn = f.Turn.CurrentTurn
			m.holderID = f.Turn.HolderID
		}
		m.logf("turn released by %s", m.displayName(f.ParticipantID))

	case "cursor":
		if f.Cursor != nil {
			m.logf("%s at %s:%d:%d", m.displayName(f.Cursor.ParticipantID),
				f.Cursor.FilePath, f.Cursor.Line, f.Cursor.Column)
		}

	case "file_opened":
		m.logf("%s opened %s (v%d)", m.displayName(f.ParticipantID), f.FilePath, f.Version)

	case "file_closed":
		m.logf("%s closed %s", m.displayName(f.ParticipantID), f.FilePath)

	case "error":
		m.logf("server error: %s (%s)", f.Message, f.Code)
	}
}

func (m *Model) displayName(participantID string) string {
	if p, ok := m.participants[participantID]; ok && p.name != "" {
		return p.name
	}
	if participantID == "" {
		return "?"
	}
	if len(participantID) > 8 {
		return participantID[:8]
	}
	return participantID
}

func (m *Model) logf(format string, args ...any) {
	line := fmt.Sprintf("%s  %s", time.Now().Format("15:04:05"), fmt.Sprintf(format, args...))
	m.events = append(m.events, line)
	if len(m.events) > maxEventLines {
		m.events = m.events[len(m.events)-maxEventLines:]
	}
}

// View renders the monitor.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.err != nil {
		return errorStyle.Render("disconnected: "+m.err.Error()) + "\n"
	}
	if !m.connected {
		return fmt.Sprintf("\n %s connecting to session %s...\n", m.spinner.View(), m.sessionID)
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("coedit monitor — "+m.sessionID) + "\n\n")

	b.WriteString(sectionStyle.Render("Participants") + "\n")
	for _, id := range m.sortedParticipants() {
		p := m.participants[id]
		marker := "  "
		if id == m.holderID {
			marker = holderStyle.Render("▸ ")
		}
		b.WriteString(fmt.Sprintf("%s%s %s\n", marker,
			roleStyle(p.role).Render(p.name), dimStyle.Render("("+p.role+")")))
	}

	b.WriteString("\n" + sectionStyle.Render("Turn") + "\n")
	if m.holderID != "" {
		b.WriteString("  " + holderStyle.Render(m.displayName(m.holderID)) + "\n")
	} else {
		b.WriteString("  " + freeStyle.Render("free — next: "+m.currentTurn) + "\n")
	}

	if len(m.versions) > 0 {
		b.WriteString("\n" + sectionStyle.Render("Files") + "\n")
		for _, path := range m.sortedFiles() {
			b.WriteString(fmt.Sprintf("  %s %s\n", path, dimStyle.Render(fmt.Sprintf("v%d", m.versions[path]))))
		}
	}

	b.WriteString("\n" + sectionStyle.Render("Events") + "\n")
	for _, line := range m.recentEvents() {
		if m.width > 4 {
			line = fitWidth(line, m.width-2)
		}
		b.WriteString("  " + line + "\n")
	}

	b.WriteString("\n" + dimStyle.Render("q: quit") + "\n")
	return b.String()
}

func (m Model) sortedParticipants() []string {
	ids := make([]string, 0, len(m.participants))
	for id := range m.participants {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return m.participants[ids[i]].name < m.participants[ids[j]].name
	})
	return ids
}

func (m Model) sortedFiles() []string {
	paths := make([]string, 0, len(m.versions))
	for path := range m.versions {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// recentEvents returns the tail of the feed that fits the terminal.
func (m Model) recentEvents() []string {
	limit := 10
	if m.height > 0 {
		// header, participants, turn, files, chrome
		overhead := 12 + len(m.participants) + len(m.versions)
		if avail := m.height - overhead; avail > limit {
			limit = avail
		}
	}
	if len(m.events) <= limit {
		return m.events
	}
	return m.events[len(m.events)-limit:]
}
