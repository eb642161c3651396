package driver

import (
	"io"

	"fortio.org/safecast"
	"github.com/sirupsen/logrus"

	"snep/internal/observ"
	"snep/internal/source"
)

// DefaultExt is the extension of snep sources picked up from directories.
const DefaultExt = ".snep"

// Options configures every driver entry point.
type Options struct {
	MaxDiagnostics int // 0 — без ограничения
	Jobs           int // 0 — GOMAXPROCS
	Ext            string
	Cache          *Cache
	Logger         logrus.FieldLogger
	Progress       ProgressSink
	Timer          *observ.Timer

	names *source.Interner // общий для воркеров ParsePaths
}

func (o Options) logger() logrus.FieldLogger {
	if o.Logger != nil {
		return o.Logger
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func (o Options) ext() string {
	if o.Ext == "" {
		return DefaultExt
	}
	return o.Ext
}

func (o Options) maxErrors() uint {
	n, err := safecast.Conv[uint](o.MaxDiagnostics)
	if err != nil {
		return 0
	}
	return n
}

// Measure runs fn as a timer phase when a timer is configured.
func (o Options) Measure(name string, fn func() (int, error)) error {
	if o.Timer == nil {
		_, err := fn()
		return err
	}
	return o.Timer.Measure(name, fn)
}
