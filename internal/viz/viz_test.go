package viz

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/frc-862/lightning-util/internal/config"
	"github.com/frc-862/lightning-util/internal/experiment"
)

func testBuilder(scenario string) (*experiment.Experiment, error) {
	cfg := config.DefaultConfig()
	cfg.Scenario = scenario
	return experiment.New(cfg)
}

func newTestModel(t *testing.T) Model {
	m, err := NewModel(testBuilder, []string{"hold", "reverse", "spin"}, "reverse", 0.02, 4.5)
	if err != nil {
		t.Fatalf("model failed: %v", err)
	}
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModelTicks(t *testing.T) {
	m := newTestModel(t)
	if m.Scenario() != "reverse" {
		t.Fatalf("expected reverse, got %s", m.Scenario())
	}

	for i := 0; i < 5; i++ {
		m = update(m, TickMsg{})
	}
	if m.Time() < 0.099 || m.Time() > 0.101 {
		t.Errorf("expected t=0.1, got %f", m.Time())
	}

	m = update(m, key(" "))
	if m.Running() {
		t.Error("space should pause")
	}
	before := m.Time()
	m = update(m, TickMsg{})
	if m.Time() != before {
		t.Error("paused model should not advance")
	}
}

func TestModelKeys(t *testing.T) {
	m := newTestModel(t)
	m = update(m, TickMsg{})

	m = update(m, key("r"))
	if m.Time() != 0 {
		t.Errorf("reset should restart time, got %f", m.Time())
	}

	m = update(m, key("tab"))
	if m.Scenario() != "spin" {
		t.Errorf("expected spin, got %s", m.Scenario())
	}
	m = update(m, key("tab"))
	if m.Scenario() != "hold" {
		t.Errorf("expected wrap to hold, got %s", m.Scenario())
	}

	if _, cmd := m.Update(key("q")); cmd == nil {
		t.Error("q should quit")
	}
}

func TestModelView(t *testing.T) {
	m := update(newTestModel(t), TickMsg{})
	view := m.View()
	for _, mod := range config.DefaultModules() {
		if !strings.Contains(view, mod.Name) {
			t.Errorf("view missing module %s", mod.Name)
		}
	}
	if !strings.Contains(view, "reverse") {
		t.Error("view missing scenario name")
	}
}

func TestCanvas(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Set(0, 0)
	if c.Grid[0][0] != brailleBlank|0x1 {
		t.Errorf("unexpected cell %x", c.Grid[0][0])
	}
	c.Set(100, 100)
	c.Set(-1, 3)

	c.Clear()
	c.DrawHeading(0, 1)
	if c.Grid[0][2] == brailleBlank {
		t.Error("heading 0 should reach the top row")
	}
	if got := len(strings.Split(strings.TrimSpace(c.String()), "\n")); got != 2 {
		t.Errorf("expected 2 rows, got %d", got)
	}
}
