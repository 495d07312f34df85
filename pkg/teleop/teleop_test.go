package teleop

import (
	"context"
	"errors"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	action Action
	speed  float64
}

// mockDriver records commands
type mockDriver struct {
	mu    sync.Mutex
	calls []call
	err   error
}

func (d *mockDriver) record(a Action, speed float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, call{a, speed})
	return d.err
}

func (d *mockDriver) Forward(_ context.Context, s float64) error  { return d.record(ActionForward, s) }
func (d *mockDriver) Backward(_ context.Context, s float64) error { return d.record(ActionBackward, s) }
func (d *mockDriver) Left(_ context.Context, s float64) error     { return d.record(ActionLeft, s) }
func (d *mockDriver) Right(_ context.Context, s float64) error    { return d.record(ActionRight, s) }
func (d *mockDriver) Stop(_ context.Context) error                { return d.record(ActionStopped, 0) }

func (d *mockDriver) last() call {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls[len(d.calls)-1]
}

// sensingDriver also reads distance
type sensingDriver struct {
	mockDriver
	cm float64
}

func (d *sensingDriver) DistanceCM(context.Context) (float64, error) { return d.cm, nil }

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends a key and feeds the command result back into the model.
func press(t *testing.T, m Model, k string) Model {
	t.Helper()
	next, cmd := m.Update(key(k))
	m = next.(Model)
	if cmd == nil {
		return m
	}
	next, _ = m.Update(cmd())
	return next.(Model)
}

func TestModel_ArrowsDrive(t *testing.T) {
	d := &mockDriver{}
	m := New(context.Background(), d)

	tests := []struct {
		key  string
		want Action
	}{
		{"up", ActionForward},
		{"down", ActionBackward},
		{"left", ActionLeft},
		{"right", ActionRight},
		{" ", ActionStopped},
		{"w", ActionForward},
	}
	for _, tt := range tests {
		m = press(t, m, tt.key)
		assert.Equal(t, tt.want, m.Action(), tt.key)
		assert.Equal(t, tt.want, d.last().action, tt.key)
	}
}

func TestModel_SpeedChangeReissuesMovement(t *testing.T) {
	d := &mockDriver{}
	m := New(context.Background(), d)

	m = press(t, m, "+")
	assert.Equal(t, float64(DefaultSpeed+SpeedStep), m.Speed())
	assert.Empty(t, d.calls, "no command while stopped")

	m = press(t, m, "up")
	m = press(t, m, "-")
	m = press(t, m, "-")
	assert.Equal(t, call{ActionForward, DefaultSpeed - SpeedStep}, d.last())
}

func TestModel_SpeedClamped(t *testing.T) {
	m := New(context.Background(), &mockDriver{})
	for i := 0; i < 20; i++ {
		m = press(t, m, "+")
	}
	assert.Equal(t, float64(MaxSpeed), m.Speed())
	for i := 0; i < 20; i++ {
		m = press(t, m, "-")
	}
	assert.Equal(t, float64(MinSpeed), m.Speed())
}

func TestModel_ErrorsAreShown(t *testing.T) {
	d := &mockDriver{err: errors.New("robot [drive]: POST /v1/motors/drive: Not Found")}
	m := New(context.Background(), d)

	m = press(t, m, "up")
	assert.Equal(t, ActionStopped, m.Action())
	require.Len(t, m.Logs(), 1)
	assert.Contains(t, m.Logs()[0], "forward failed")
	assert.Contains(t, m.View(), "Not Found")
}

func TestModel_QuitStops(t *testing.T) {
	d := &mockDriver{}
	m := press(t, New(context.Background(), d), "up")

	next, cmd := m.Update(key("q"))
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.Len(t, d.calls, 1, "stop is not sent from Update")
	assert.Contains(t, m.View(), "Stopping robot")

	next, cmd = m.Update(cmd())
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, ActionStopped, d.last().action)
	assert.Equal(t, ActionStopped, m.Action())
	assert.Equal(t, "Teleoperation stopped.\n", m.View())
}

func TestModel_SecondQuitExitsWithoutWaiting(t *testing.T) {
	d := &mockDriver{}
	m := New(context.Background(), d)

	next, stop := m.Update(key("q"))
	m = next.(Model)
	require.NotNil(t, stop)

	// Movement keys are ignored while the stop is pending
	next, cmd := m.Update(key("up"))
	m = next.(Model)
	assert.Nil(t, cmd)

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, d.calls)
}

func TestModel_QuitStopFailure(t *testing.T) {
	d := &mockDriver{err: errors.New("connection refused")}
	m := New(context.Background(), d)

	next, cmd := m.Update(key("q"))
	m = next.(Model)
	next, cmd = m.Update(cmd())
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, "Teleoperation ended, stop failed: connection refused\n", next.View())
}

func TestModel_Distance(t *testing.T) {
	d := &sensingDriver{cm: 42}
	m := New(context.Background(), d)
	assert.Contains(t, m.View(), "Distance: ?")

	cmd := m.Init()
	require.NotNil(t, cmd)
	next, poll := m.Update(cmd())
	m = next.(Model)
	assert.NotNil(t, poll)
	assert.Contains(t, m.View(), "Distance: 42 cm")

	_, read := m.Update(pollMsg{})
	assert.NotNil(t, read)
}

func TestModel_NoSensor(t *testing.T) {
	m := New(context.Background(), &mockDriver{})
	assert.Nil(t, m.Init())
	assert.NotContains(t, m.View(), "Distance")
}
