package trace

import (
	"bytes"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

// NextSeq returns the next global event number.
func NextSeq() uint64 { return seqCounter.Add(1) }

// goroutineID parses "goroutine N [...]" from the current stack header.
func goroutineID() uint64 {
	var buf [64]byte
	head := buf[:runtime.Stack(buf[:], false)]
	head, ok := bytes.CutPrefix(head, []byte("goroutine "))
	if !ok {
		return 0
	}
	if i := bytes.IndexByte(head, ' '); i >= 0 {
		head = head[:i]
	}
	id, err := strconv.ParseUint(string(head), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// Span is an operation between Begin and End. A span of a disabled tracer
// has ID 0 and emits nothing.
type Span struct {
	tracer Tracer
	begin  Event
	extra  map[string]string
}

var disabledSpan = &Span{tracer: Nop}

// Begin starts a span under parent (0 for a root span).
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return disabledSpan
	}
	s := &Span{tracer: t, begin: Event{
		Time:     time.Now(),
		Seq:      NextSeq(),
		Kind:     KindSpanBegin,
		Scope:    scope,
		SpanID:   spanCounter.Add(1),
		ParentID: parent,
		GID:      goroutineID(),
		Name:     name,
	}}
	ev := s.begin
	t.Emit(&ev)
	return s
}

// End emits the closing event and returns the span duration.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.begin.SpanID == 0 {
		return 0
	}
	ev := s.begin
	ev.Time = time.Now()
	ev.Seq = NextSeq()
	ev.Kind = KindSpanEnd
	ev.Detail = detail
	ev.Elapsed = ev.Time.Sub(s.begin.Time)
	ev.Extra = s.extra
	s.tracer.Emit(&ev)
	return ev.Elapsed
}

// WithExtra attaches key=value to the closing event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || s.begin.SpanID == 0 {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string, 2)
	}
	s.extra[key] = value
	return s
}

// ID returns the span ID, 0 for disabled spans.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.begin.SpanID
}

// Point emits an instant event under parent.
func Point(t Tracer, scope Scope, name, detail string, parent uint64) {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return
	}
	t.Emit(&Event{
		Time:     time.Now(),
		Seq:      NextSeq(),
		Kind:     KindPoint,
		Scope:    scope,
		SpanID:   spanCounter.Add(1),
		ParentID: parent,
		GID:      goroutineID(),
		Name:     name,
		Detail:   detail,
	})
}
