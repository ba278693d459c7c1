package status

import (
	"sync"

	"github.com/golang/glog"
)

// Pattern is what the status indicator shows.
type Pattern int

// Indicator patterns.
const (
	Off Pattern = iota
	Searching
	Linked
	Fault
)

func (p Pattern) String() string {
	switch p {
	case Off:
		return "off"
	case Searching:
		return "searching"
	case Linked:
		return "linked"
	case Fault:
		return "fault"
	}
	return "unknown"
}

// PatternFor picks the pattern for the advisory link state.
func PatternFor(linked, fault bool) Pattern {
	switch {
	case fault:
		return Fault
	case linked:
		return Linked
	default:
		return Searching
	}
}

// Indicator is the status output, usually an LED.
type Indicator interface {
	// Show displays the pattern.
	Show(Pattern)
	// Cycle advances the user selectable color/brightness.
	Cycle()
}

// LogIndicator is an Indicator writing changes to the log.
type LogIndicator struct {
	lock    sync.Mutex
	pattern Pattern
	shown   bool
	color   int
}

// Show implements Indicator.
func (l *LogIndicator) Show(p Pattern) {
	l.lock.Lock()
	changed := !l.shown || l.pattern != p
	l.pattern, l.shown = p, true
	l.lock.Unlock()
	if changed {
		glog.Infof("indicator: %s", p)
	}
}

// Cycle implements Indicator.
func (l *LogIndicator) Cycle() {
	l.lock.Lock()
	l.color = (l.color + 1) % 8
	color := l.color
	l.lock.Unlock()
	glog.Infof("indicator: color %d", color)
}

// Pattern returns the last shown pattern.
func (l *LogIndicator) Pattern() Pattern {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.pattern
}

// Color returns the current color index.
func (l *LogIndicator) Color() int {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.color
}
