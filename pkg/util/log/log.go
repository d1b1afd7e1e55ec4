// Package log provides the package-level logger shared by the aggregation
// skiplist, the time-type aggregation front end and the CLI, matching the
// teacher's pkg/util/log.Logger idiom (a mutable package var initialised
// once at startup and referenced as log.Logger at every call site).
package log

import (
	"os"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Logger is the process-wide logger. It defaults to a logfmt logger writing
// to stderr so library callers get reasonable output with no setup; hosts
// that want JSON or a different sink call InitLogger.
var Logger kitlog.Logger = kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stderr))

// Format selects the wire format InitLogger renders log lines in.
type Format string

const (
	// FormatLogfmt renders key=value pairs (the default).
	FormatLogfmt Format = "logfmt"
	// FormatJSON renders each line as a JSON object.
	FormatJSON Format = "json"
)

// InitLogger rebuilds the package-level Logger with the given format and
// minimum level, adding the standard caller/timestamp fields. lvl must be
// one of "debug", "info", "warn", "error"; an unrecognised value falls back
// to "info".
func InitLogger(format Format, lvl string) {
	var l kitlog.Logger
	if format == FormatJSON {
		l = kitlog.NewJSONLogger(kitlog.NewSyncWriter(os.Stderr))
	} else {
		l = kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stderr))
	}
	l = kitlog.With(l, "ts", kitlog.DefaultTimestampUTC, "caller", kitlog.Caller(5))
	l = level.NewFilter(l, levelOption(lvl))
	Logger = l
}

func levelOption(lvl string) level.Option {
	switch lvl {
	case "debug":
		return level.AllowDebug()
	case "warn":
		return level.AllowWarn()
	case "error":
		return level.AllowError()
	default:
		return level.AllowInfo()
	}
}
