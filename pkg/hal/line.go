package hal

import (
	"sort"
	"time"
)

var (
	_ DigitalOutput = (*Line)(nil)
	_ DigitalInput  = (*Line)(nil)
)

// Transition is a level change on a Line.
type Transition struct {
	At    time.Duration
	Level bool
}

// Interval is a span of time during which a Line was high.
type Interval struct {
	Start time.Duration
	End   time.Duration
}

// Duration returns the length of the interval.
func (i Interval) Duration() time.Duration {
	return i.End - i.Start
}

// Line is a recording digital line. Every level change is stamped with the
// clock's current time, so driving it from a VirtualClock captures the exact
// on/off timeline a transmitter produces. The line starts low.
type Line struct {
	clock       Clock
	level       bool
	transitions []Transition
}

// NewLine creates a low line stamped by clock.
func NewLine(clock Clock) *Line {
	return &Line{clock: clock}
}

// High drives the line high.
func (l *Line) High() { l.set(true) }

// Low drives the line low.
func (l *Line) Low() { l.set(false) }

// Get returns the current level.
func (l *Line) Get() bool { return l.level }

func (l *Line) set(level bool) {
	if level == l.level {
		return
	}
	l.level = level
	l.transitions = append(l.transitions, Transition{At: l.clock.Now(), Level: level})
}

// Transitions returns a copy of the recorded level changes.
func (l *Line) Transitions() []Transition {
	out := make([]Transition, len(l.transitions))
	copy(out, l.transitions)
	return out
}

// LevelAt returns the level the line had at time t.
func (l *Line) LevelAt(t time.Duration) bool {
	// First transition strictly after t; the one before it is in effect.
	i := sort.Search(len(l.transitions), func(i int) bool {
		return l.transitions[i].At > t
	})
	if i == 0 {
		return false
	}
	return l.transitions[i-1].Level
}

// Intervals returns the high intervals. An interval still open is closed at
// the clock's current time.
func (l *Line) Intervals() []Interval {
	var out []Interval
	open := -1
	for _, tr := range l.transitions {
		if tr.Level {
			out = append(out, Interval{Start: tr.At})
			open = len(out) - 1
			continue
		}
		if open >= 0 {
			out[open].End = tr.At
			open = -1
		}
	}
	if open >= 0 {
		out[open].End = l.clock.Now()
	}
	return out
}
