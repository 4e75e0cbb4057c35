package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/frc-862/lightning-util/internal/experiment"
	"github.com/frc-862/lightning-util/internal/sim"
	"github.com/frc-862/lightning-util/internal/swerve"
)

const (
	compassWidth    = 12
	compassHeight   = 5
	historyCapacity = 240
	panelWidth      = 34
)

// Builder returns a freshly built experiment running the named scenario.
type Builder func(scenario string) (*experiment.Experiment, error)

type TickMsg time.Time

// Model steps a drivetrain one control period per frame and draws it.
type Model struct {
	build     Builder
	scenarios []string
	current   int

	exp      *experiment.Experiment
	scenario sim.Scenario
	t, dt    float64
	maxSpeed float64
	running  bool

	samples  []sim.Sample
	velocity [][]float64
	err      error
}

// NewModel builds the starting scenario. maxSpeed scales the speed bars.
func NewModel(build Builder, scenarios []string, start string, dt, maxSpeed float64) (Model, error) {
	m := Model{
		build:     build,
		scenarios: scenarios,
		dt:        dt,
		maxSpeed:  maxSpeed,
		running:   true,
	}
	for i, s := range scenarios {
		if s == start {
			m.current = i
		}
	}
	if err := m.rebuild(); err != nil {
		return m, err
	}
	return m, nil
}

func (m *Model) rebuild() error {
	if m.exp != nil {
		m.exp.Close()
	}
	exp, err := m.build(m.scenarios[m.current])
	if err != nil {
		return err
	}
	sc, err := exp.Scenario()
	if err != nil {
		exp.Close()
		return err
	}
	m.exp = exp
	m.scenario = sc
	m.t = 0
	m.samples = nil
	m.velocity = make([][]float64, len(exp.Drivetrain().Modules))
	return nil
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Duration(m.dt*float64(time.Second)), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.exp != nil {
				m.exp.Close()
			}
			return m, tea.Quit
		case " ", "space":
			m.running = !m.running
		case "r":
			m.err = m.rebuild()
		case "tab":
			m.current = (m.current + 1) % len(m.scenarios)
			m.err = m.rebuild()
		}
		return m, nil

	case TickMsg:
		if m.running && m.err == nil {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) step() {
	m.samples = m.exp.Simulator().Tick(m.scenario, m.t, m.dt)
	m.t += m.dt
	for i, s := range m.samples {
		h := append(m.velocity[i], s.State.DriveVelocity)
		if len(h) > historyCapacity {
			h = h[len(h)-historyCapacity:]
		}
		m.velocity[i] = h
	}
}

// Time is the simulated time since the last rebuild.
func (m Model) Time() float64 { return m.t }

func (m Model) Running() bool { return m.running }

func (m Model) Scenario() string { return m.scenarios[m.current] }

func (m Model) View() string {
	var b strings.Builder

	status := StatusRunning.Render("RUNNING")
	if !m.running {
		status = StatusPaused.Render("PAUSED")
	}
	b.WriteString(TitleStyle.Render("swervelab") + "  " +
		MetricLabel.Render("scenario ") + MetricValue.Render(m.Scenario()) + "  " +
		MetricLabel.Render("t ") + MetricValue.Render(fmt.Sprintf("%6.2fs", m.t)) + "  " + status + "\n")

	if m.err != nil {
		b.WriteString(StatusReversed.Render("error: "+m.err.Error()) + "\n")
	}

	if m.exp != nil {
		names := m.exp.Drivetrain().Names
		panels := make([]string, len(names))
		for i, name := range names {
			panels[i] = m.panel(i, name)
		}
		for i := 0; i < len(panels); i += 2 {
			end := i + 2
			if end > len(panels) {
				end = len(panels)
			}
			b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, panels[i:end]...) + "\n")
		}
	}

	b.WriteString(Separator(panelWidth*2) + "\n")
	b.WriteString(KeyHint.Render("space pause · r reset · tab scenario · q quit"))
	return b.String()
}

func (m Model) panel(i int, name string) string {
	var smp sim.Sample
	if i < len(m.samples) {
		smp = m.samples[i]
	}
	st := smp.State

	c := NewCanvas(compassWidth, compassHeight)
	c.DrawRing()
	c.DrawHeading(st.SteerAngle, 0.9)
	c.DrawHeading(smp.Commanded.SteerAngleRadians, 0.5)

	frac := 0.0
	if m.maxSpeed > 0 {
		frac = math.Abs(st.DriveVelocity) / m.maxSpeed
	}
	dir := "FWD"
	if smp.Requested.SpeedMetersPerSecond != 0 && smp.Commanded.SpeedMetersPerSecond == -smp.Requested.SpeedMetersPerSecond {
		dir = StatusReversed.Render("REV")
	}

	angle := swerve.Rotation(swerve.NormalizeZeroToTwoPi(st.SteerAngle)).Degrees()
	lines := []string{
		HeaderStyle.Render(name),
		c.String(),
		ProgressBar(frac, 20) + " " + dir,
		SparklineChart(m.velocity[i], 28),
		MetricLabel.Render("angle ") + MetricValue.Render(fmt.Sprintf("%6.1f°", angle)) +
			MetricLabel.Render("  vel ") + MetricValue.Render(fmt.Sprintf("%5.2f", st.DriveVelocity)),
		MetricLabel.Render("amps  ") + MetricValue.Render(fmt.Sprintf("%6.1f", st.DriveAmperage)) +
			MetricLabel.Render("  temp ") + MetricValue.Render(fmt.Sprintf("%5.1f", st.DriveTemperature)),
	}
	return GlassPanel.Width(panelWidth).Render(strings.Join(lines, "\n"))
}
