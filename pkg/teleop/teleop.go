// Package teleop drives a robot from the keyboard.
package teleop

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	DefaultSpeed = 50
	MinSpeed     = 10
	MaxSpeed     = 100
	SpeedStep    = 10

	// DefaultPollInterval is how often the distance sensor is read.
	DefaultPollInterval = time.Second

	maxLogs = 5
)

// Driver moves the robot until told otherwise. Both robot clients implement
// it.
type Driver interface {
	Forward(ctx context.Context, speed float64) error
	Backward(ctx context.Context, speed float64) error
	Left(ctx context.Context, speed float64) error
	Right(ctx context.Context, speed float64) error
	Stop(ctx context.Context) error
}

// DistanceSensor reads the range finder in centimetres.
type DistanceSensor interface {
	DistanceCM(ctx context.Context) (float64, error)
}

// Action names what the robot was last told to do.
type Action string

const (
	ActionStopped  Action = "stopped"
	ActionForward  Action = "forward"
	ActionBackward Action = "backward"
	ActionLeft     Action = "left"
	ActionRight    Action = "right"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	actionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
)

// Messages
type commandMsg struct {
	action Action
	err    error
}

type distanceMsg struct {
	cm  float64
	err error
}

type pollMsg struct{}

// stoppedMsg reports the stop issued on quit
type stoppedMsg struct {
	err error
}

// Model is the bubbletea model for keyboard teleoperation.
type Model struct {
	ctx    context.Context
	driver Driver
	sensor DistanceSensor
	title  string
	poll   time.Duration

	speed    float64
	action   Action
	distance float64
	haveDist bool
	logs     []string
	quitting bool
	stopped  bool
	stopErr  error
}

// Option configures a Model.
type Option func(*Model)

// WithTitle sets the header text.
func WithTitle(title string) Option {
	return func(m *Model) {
		m.title = title
	}
}

// WithPollInterval sets how often the distance sensor is read.
func WithPollInterval(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.poll = d
		}
	}
}

// New creates a model. If driver also implements DistanceSensor the
// distance is shown and refreshed.
func New(ctx context.Context, driver Driver, opts ...Option) Model {
	m := Model{
		ctx:    ctx,
		driver: driver,
		title:  "botblocks teleop",
		poll:   DefaultPollInterval,
		speed:  DefaultSpeed,
		action: ActionStopped,
	}
	if s, ok := driver.(DistanceSensor); ok {
		m.sensor = s
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Speed returns the current speed setting.
func (m Model) Speed() float64 { return m.speed }

// Action returns the last acknowledged action.
func (m Model) Action() Action { return m.action }

// Logs returns the recent messages, oldest first.
func (m Model) Logs() []string { return append([]string(nil), m.logs...) }

func (m *Model) addLog(msg string) {
	m.logs = append(m.logs, msg)
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

func (m Model) command(action Action) tea.Cmd {
	ctx, driver, speed := m.ctx, m.driver, m.speed
	return func() tea.Msg {
		var err error
		switch action {
		case ActionForward:
			err = driver.Forward(ctx, speed)
		case ActionBackward:
			err = driver.Backward(ctx, speed)
		case ActionLeft:
			err = driver.Left(ctx, speed)
		case ActionRight:
			err = driver.Right(ctx, speed)
		default:
			err = driver.Stop(ctx)
		}
		return commandMsg{action: action, err: err}
	}
}

func (m Model) stop() tea.Cmd {
	ctx, driver := m.ctx, m.driver
	return func() tea.Msg {
		return stoppedMsg{err: driver.Stop(ctx)}
	}
}

func (m Model) readDistance() tea.Cmd {
	ctx, sensor := m.ctx, m.sensor
	return func() tea.Msg {
		cm, err := sensor.DistanceCM(ctx)
		return distanceMsg{cm: cm, err: err}
	}
}

func (m Model) schedulePoll() tea.Cmd {
	return tea.Tick(m.poll, func(time.Time) tea.Msg { return pollMsg{} })
}

// Init starts distance polling when a sensor is available.
func (m Model) Init() tea.Cmd {
	if m.sensor == nil {
		return nil
	}
	return m.readDistance()
}

// Update handles keys and command results. Quitting stops the robot first
// and exits once the stop returns; a second quit key exits at once.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if m.quitting {
				return m, tea.Quit
			}
			m.quitting = true
			return m, m.stop()
		}
		if m.quitting {
			return m, nil
		}
		switch msg.String() {
		case "up", "w":
			return m, m.command(ActionForward)
		case "down", "s":
			return m, m.command(ActionBackward)
		case "left", "a":
			return m, m.command(ActionLeft)
		case "right", "d":
			return m, m.command(ActionRight)
		case " ", "x":
			return m, m.command(ActionStopped)
		case "+", "=":
			return m.changeSpeed(SpeedStep)
		case "-", "_":
			return m.changeSpeed(-SpeedStep)
		}

	case commandMsg:
		if msg.err != nil {
			m.addLog(fmt.Sprintf("%s failed: %v", msg.action, msg.err))
			return m, nil
		}
		m.action = msg.action
		return m, nil

	case stoppedMsg:
		m.stopped = true
		m.stopErr = msg.err
		if msg.err == nil {
			m.action = ActionStopped
		}
		return m, tea.Quit

	case distanceMsg:
		if msg.err != nil {
			m.haveDist = false
			m.addLog("distance failed: " + msg.err.Error())
		} else {
			m.distance = msg.cm
			m.haveDist = true
		}
		return m, m.schedulePoll()

	case pollMsg:
		if m.sensor == nil || m.quitting {
			return m, nil
		}
		return m, m.readDistance()
	}

	return m, nil
}

// changeSpeed adjusts the speed and reissues the current movement.
func (m Model) changeSpeed(delta float64) (tea.Model, tea.Cmd) {
	speed := min(max(m.speed+delta, MinSpeed), MaxSpeed)
	if speed == m.speed {
		return m, nil
	}
	m.speed = speed
	if m.action == ActionStopped {
		return m, nil
	}
	return m, m.command(m.action)
}

// View renders the header, state and recent messages.
func (m Model) View() string {
	if m.quitting {
		switch {
		case m.stopErr != nil:
			return "Teleoperation ended, stop failed: " + m.stopErr.Error() + "\n"
		case m.stopped:
			return "Teleoperation stopped.\n"
		default:
			return "Stopping robot... press q again to quit now.\n"
		}
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(m.title))
	sb.WriteString("\n\n")

	state := fmt.Sprintf("Action: %s\nSpeed:  %.0f", actionStyle.Render(string(m.action)), m.speed)
	if m.sensor != nil {
		dist := "?"
		if m.haveDist {
			dist = fmt.Sprintf("%.0f cm", m.distance)
		}
		state += "\nDistance: " + dist
	}
	sb.WriteString(boxStyle.Render(state))
	sb.WriteString("\n")

	for _, l := range m.logs {
		sb.WriteString(errorStyle.Render(l))
		sb.WriteString("\n")
	}

	sb.WriteString(statusStyle.Render("arrows/wasd drive · space stop · +/- speed · q quit"))
	sb.WriteString("\n")
	return sb.String()
}
