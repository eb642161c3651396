package observ

import (
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// фиксированные часы: каждый вызов сдвигает время на 2 мс
func fakeClock() func() time.Time {
	cur := time.Unix(0, 0)
	return func() time.Time {
		cur = cur.Add(2 * time.Millisecond)
		return cur
	}
}

func TestTimerReport(t *testing.T) {
	timer := NewTimer()
	timer.now = fakeClock()

	timer.Start("load").Stop(3, nil)
	err := timer.Measure("parse", func() (int, error) { return 5, errors.New("boom") })
	require.EqualError(t, err, "boom")

	report := timer.Report()
	require.Len(t, report.Phases, 2)
	assert.Equal(t, PhaseReport{Name: "load", DurationMS: 2, Items: 3}, report.Phases[0])
	assert.Equal(t, PhaseReport{Name: "parse", DurationMS: 2, Items: 5, Note: "failed"}, report.Phases[1])
	assert.InDelta(t, 4.0, report.TotalMS, 1e-9)

	summary := timer.Summary()
	assert.Contains(t, summary, "load")
	assert.Contains(t, summary, " 50.0%")
	assert.Contains(t, summary, "// failed")
	assert.Contains(t, summary, "total")
}

func TestLapStopTwice(t *testing.T) {
	timer := NewTimer()
	timer.now = fakeClock()

	lap := timer.Start("render")
	lap.Stop(1, nil)
	lap.Stop(9, errors.New("late"))

	assert.Equal(t, PhaseReport{Name: "render", DurationMS: 2, Items: 1}, timer.Report().Phases[0])
	Lap{}.Stop(1, nil)
}

func TestTimerRunningPhase(t *testing.T) {
	timer := NewTimer()
	timer.now = fakeClock()
	timer.Start("write")

	p := timer.Report().Phases[0]
	assert.Equal(t, "running", p.Note)
	assert.InDelta(t, 2.0, p.DurationMS, 1e-9)
}

func TestTimerEmpty(t *testing.T) {
	assert.Equal(t, Report{}, NewTimer().Report())
	assert.Contains(t, NewTimer().Summary(), "total")
}

func TestTimerLog(t *testing.T) {
	timer := NewTimer()
	timer.now = fakeClock()
	timer.Start("html").Stop(1, nil)
	_ = timer.Measure("fmt", func() (int, error) { return 0, errors.New("x") })

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	timer.Log(logger)

	entries := hook.AllEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, "html", entries[0].Data["phase"])
	assert.Equal(t, 1, entries[0].Data["items"])
	assert.NotContains(t, entries[0].Data, "note")
	assert.Equal(t, "failed", entries[1].Data["note"])
}
