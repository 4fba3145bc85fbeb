package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func testModel() Model {
	m := NewModel("doc-1", &client{frames: make(chan tea.Msg, 1)})
	m.connected = true
	return m
}

func apply(m *Model, frames ...string) {
	for _, f := range frames {
		m.applyFrame([]byte(f))
	}
}

func TestApplyFrame_Snapshot(t *testing.T) {
	m := testModel()
	apply(&m, `{
		"type": "joined",
		"snapshot": {
			"participants": [
				{"id": "p1", "display_name": "Dana", "role": "user"},
				{"id": "p2", "display_name": "Helper", "role": "ai"}
			],
			"turn": {"current_turn": "user", "holder_id": "p1"},
			"versions": {"main.txt": 7}
		}
	}`)

	if len(m.participants) != 2 {
		t.Fatalf("participants = %d, want 2", len(m.participants))
	}
	if m.holderID != "p1" {
		t.Errorf("holder = %q, want p1", m.holderID)
	}
	if m.versions["main.txt"] != 7 {
		t.Errorf("version = %d, want 7", m.versions["main.txt"])
	}
}

func TestApplyFrame_ParticipantLifecycle(t *testing.T) {
	m := testModel()
	apply(&m,
		`{"type": "participant_joined", "participant": {"id": "p1", "display_name": "Dana", "role": "user"}}`,
		`{"type": "participant_left", "participant_id": "p1", "turn": {"current_turn": "ai", "holder_id": ""}}`,
	)

	if len(m.participants) != 0 {
		t.Errorf("participants = %d, want 0 after leave", len(m.participants))
	}
	if m.currentTurn != "ai" {
		t.Errorf("current turn = %q, want ai from leave frame", m.currentTurn)
	}
}

func TestApplyFrame_EditAdvancesVersion(t *testing.T) {
	m := testModel()
	apply(&m, `{"type": "edit", "op": {"file_path": "main.txt", "kind": "insert"}, "version": 3}`)

	if m.versions["main.txt"] != 3 {
		t.Errorf("version = %d, want 3", m.versions["main.txt"])
	}
	if len(m.events) == 0 || !strings.Contains(m.events[len(m.events)-1], "main.txt v3") {
		t.Errorf("expected an edit event line, got %v", m.events)
	}
}

func TestApplyFrame_TurnFlow(t *testing.T) {
	m := testModel()
	apply(&m,
		`{"type": "participant_joined", "participant": {"id": "p1", "display_name": "Dana", "role": "user"}}`,
		`{"type": "turn_granted", "participant_id": "p1", "turn": {"current_turn": "user", "holder_id": "p1"}}`,
	)
	if m.holderID != "p1" {
		t.Fatalf("holder = %q, want p1", m.holderID)
	}

	apply(&m, `{"type": "turn_released", "participant_id": "p1", "turn": {"current_turn": "ai", "holder_id": ""}}`)
	if m.holderID != "" {
		t.Errorf("holder = %q, want free", m.holderID)
	}
	if m.currentTurn != "ai" {
		t.Errorf("current turn = %q, want ai", m.currentTurn)
	}
}

func TestApplyFrame_GarbageIgnored(t *testing.T) {
	m := testModel()
	apply(&m, `{nope`, `{"type": "mystery"}`)
	if len(m.participants) != 0 || len(m.events) != 0 {
		t.Error("garbage frames must not mutate state")
	}
}

func TestView_ShowsState(t *testing.T) {
	m := testModel()
	apply(&m,
		`{"type": "participant_joined", "participant": {"id": "p1", "display_name": "Dana", "role": "user"}}`,
		`{"type": "turn_granted", "participant_id": "p1", "turn": {"current_turn": "user", "holder_id": "p1"}}`,
		`{"type": "edit", "op": {"file_path": "main.txt", "kind": "insert"}, "version": 1}`,
	)

	view := m.View()
	for _, want := range []string{"doc-1", "Dana", "main.txt", "v1"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestUpdate_QuitKeys(t *testing.T) {
	m := testModel()

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	model := next.(Model)
	if !model.quitting {
		t.Error("q should set quitting")
	}
	if cmd == nil {
		t.Error("q should return tea.Quit")
	}
}

func TestEventFeedBounded(t *testing.T) {
	m := testModel()
	for i := 0; i < maxEventLines+50; i++ {
		m.logf("event %d", i)
	}
	if len(m.events) != maxEventLines {
		t.Errorf("events = %d, want capped at %d", len(m.events), maxEventLines)
	}
}
