package controller

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/teslashibe/go-botblocks/pkg/gopigo"
)

// DefaultMotorLogLines is how many lines a MotorLog keeps by default.
const DefaultMotorLogLines = 500

// MotorLog is the scrolling motor status log: newest line last, oldest
// lines dropped beyond capacity. Lines are numbered from 1 in append order.
// It is safe for concurrent use.
type MotorLog struct {
	mu    sync.RWMutex
	lines []string
	max   int
	seq   uint64
}

// NewMotorLog creates a log keeping at most max lines.
func NewMotorLog(max int) *MotorLog {
	if max <= 0 {
		max = DefaultMotorLogLines
	}
	return &MotorLog{max: max, lines: make([]string, 0, min(max, 64))}
}

// Append adds a line at the bottom and returns its sequence number.
func (l *MotorLog) Append(line string) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	l.lines = append(l.lines, line)
	if over := len(l.lines) - l.max; over > 0 {
		l.lines = append(l.lines[:0], l.lines[over:]...)
	}
	return l.seq
}

// Snapshot returns a copy of the current lines and the sequence number of
// the last one (0 when nothing was ever appended). The first line's number
// is last-len(lines)+1.
func (l *MotorLog) Snapshot() (lines []string, last uint64) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	lines = make([]string, len(l.lines))
	copy(lines, l.lines)
	return lines, l.seq
}

// Lines returns a copy of the current lines.
func (l *MotorLog) Lines() []string {
	lines, _ := l.Snapshot()
	return lines
}

// Text returns the log as the text area shows it.
func (l *MotorLog) Text() string {
	return strings.Join(l.Lines(), "\n")
}

// Len returns the number of lines.
func (l *MotorLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.lines)
}

// MotorLogHeader labels the columns of FormatMotorStatus.
const MotorLogHeader = "time     | L flags power  encoder   dps | R flags power  encoder   dps"

// FormatMotorStatus renders one cycle of motor status as a fixed-width line
// so successive lines align.
func FormatMotorStatus(at time.Time, st gopigo.MotorsStatus) string {
	var left, right gopigo.MotorStatus
	if st.Left != nil {
		left = *st.Left
	}
	if st.Right != nil {
		right = *st.Right
	}
	return fmt.Sprintf("%s | %7d %5d %8d %5d | %7d %5d %8d %5d",
		at.Format("15:04:05"),
		left.Flags, left.Power, left.Encoder, left.DPS,
		right.Flags, right.Power, right.Encoder, right.DPS,
	)
}
