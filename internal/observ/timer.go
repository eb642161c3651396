// Package observ measures how long the stages of a snep run take.
package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Timer collects phases in the order they were started. Safe for concurrent use.
type Timer struct {
	mu     sync.Mutex
	now    func() time.Time
	phases []phase
}

type phase struct {
	name   string
	start  time.Time
	dur    time.Duration
	items  int // файлов или узлов, обработанных фазой
	failed bool
	open   bool
}

// Lap is a running phase. The zero Lap is inert.
type Lap struct {
	t   *Timer
	idx int
}

func NewTimer() *Timer { return &Timer{now: time.Now} }

// Start opens a phase named name.
func (t *Timer) Start(name string) Lap {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.phases = append(t.phases, phase{name: name, start: t.now(), open: true})
	return Lap{t: t, idx: len(t.phases) - 1}
}

// Stop closes the phase. A non-nil err marks it failed; repeated calls are
// ignored.
func (l Lap) Stop(items int, err error) {
	if l.t == nil {
		return
	}
	l.t.mu.Lock()
	defer l.t.mu.Unlock()
	p := &l.t.phases[l.idx]
	if !p.open {
		return
	}
	p.open = false
	p.dur = l.t.now().Sub(p.start)
	p.items = items
	p.failed = err != nil
}

// Measure runs fn as one phase and returns its error.
func (t *Timer) Measure(name string, fn func() (items int, err error)) error {
	lap := t.Start(name)
	items, err := fn()
	lap.Stop(items, err)
	return err
}

// PhaseReport is the serialisable form of one phase.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Items      int     `json:"items"`
	Note       string  `json:"note,omitempty"`
}

// Report лежит в основе Summary и Log.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report snapshots every phase. Phases that are still running report the
// time elapsed so far with the note "running".
func (t *Timer) Report() Report {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.phases) == 0 {
		return Report{}
	}
	now := t.now()
	r := Report{Phases: make([]PhaseReport, 0, len(t.phases))}
	var total time.Duration
	for _, p := range t.phases {
		pr := PhaseReport{Name: p.name, Items: p.items}
		dur := p.dur
		switch {
		case p.open:
			dur = now.Sub(p.start)
			pr.Note = "running"
		case p.failed:
			pr.Note = "failed"
		}
		pr.DurationMS = millis(dur)
		total += dur
		r.Phases = append(r.Phases, pr)
	}
	r.TotalMS = millis(total)
	return r
}

// Summary renders the report as a table with each phase's share of the total.
func (t *Timer) Summary() string {
	r := t.Report()
	var b strings.Builder
	b.WriteString("timings:\n")
	for _, p := range r.Phases {
		share := 0.0
		if r.TotalMS > 0 {
			share = 100 * p.DurationMS / r.TotalMS
		}
		fmt.Fprintf(&b, "  %-12s %9.2f ms %5.1f%% %6d", p.Name, p.DurationMS, share, p.Items)
		if p.Note != "" {
			b.WriteString("  // " + p.Note)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "  %-12s %9.2f ms\n", "total", r.TotalMS)
	return b.String()
}

// Log writes one debug entry per phase.
func (t *Timer) Log(logger logrus.FieldLogger) {
	for _, p := range t.Report().Phases {
		entry := logger.WithFields(logrus.Fields{
			"phase": p.Name,
			"ms":    p.DurationMS,
			"items": p.Items,
		})
		if p.Note != "" {
			entry = entry.WithField("note", p.Note)
		}
		entry.Debug("phase finished")
	}
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
