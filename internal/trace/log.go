package trace

import (
	"github.com/sirupsen/logrus"
)

// LogTracer forwards span ends and points to a logrus logger at debug level.
type LogTracer struct {
	gate
	logger logrus.FieldLogger
}

// NewLogTracer creates a tracer that writes through logger.
func NewLogTracer(logger logrus.FieldLogger, level Level) *LogTracer {
	return &LogTracer{gate: gate{level}, logger: logger}
}

func (t *LogTracer) Emit(ev *Event) {
	if ev.Kind == KindSpanBegin || !t.admits(ev) {
		return
	}
	fields := logrus.Fields{
		"scope": ev.Scope.String(),
		"span":  ev.SpanID,
	}
	if ev.Kind == KindSpanEnd {
		fields["elapsed"] = ev.Elapsed.String()
	}
	if ev.Detail != "" {
		fields["detail"] = ev.Detail
	}
	for k, v := range ev.Extra {
		fields[k] = v
	}
	t.logger.WithFields(fields).Debug(ev.Name)
}

func (t *LogTracer) Flush() error { return nil }
func (t *LogTracer) Close() error { return nil }
