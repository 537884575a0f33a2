package trace

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// Format represents the output format for trace events.
type Format uint8

const (
	FormatAuto   Format = iota // pick by output path
	FormatText                 // human-readable console lines
	FormatNDJSON               // newline-delimited JSON
)

func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatText:
		return "text"
	case FormatNDJSON:
		return "ndjson"
	default:
		return "unknown"
	}
}

// ParseFormat converts a string to Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatAuto, nil
	case "text":
		return FormatText, nil
	case "ndjson", "json":
		return FormatNDJSON, nil
	default:
		return FormatAuto, fmt.Errorf("invalid trace format: %q (expected: auto|text|ndjson)", s)
	}
}

// detectFormat picks a format from the output path.
func detectFormat(path string) Format {
	if strings.HasSuffix(path, ".ndjson") || strings.HasSuffix(path, ".json") {
		return FormatNDJSON
	}
	return FormatText
}

// newLogger builds the zerolog sink for w.
func newLogger(w io.Writer, format Format) zerolog.Logger {
	if format == FormatNDJSON {
		return zerolog.New(w)
	}
	out := zerolog.ConsoleWriter{
		Out:          w,
		NoColor:      true,
		TimeFormat:   "15:04:05.000",
		PartsExclude: []string{zerolog.LevelFieldName},
	}
	return zerolog.New(out)
}

// writeEvent renders ev through l. Extra keys go out sorted.
func writeEvent(l zerolog.Logger, ev *Event, format Format) {
	e := l.Log().
		Time(zerolog.TimestampFieldName, ev.Time).
		Uint64("seq", ev.Seq).
		Str("kind", ev.Kind.String()).
		Str("scope", ev.Scope.String()).
		Uint64("span", ev.SpanID)
	if ev.ParentID != 0 {
		e = e.Uint64("parent", ev.ParentID)
	}
	if ev.GID != 0 {
		e = e.Uint64("gid", ev.GID)
	}
	if ev.Detail != "" {
		e = e.Str("detail", ev.Detail)
	}
	if len(ev.Extra) > 0 {
		keys := make([]string, 0, len(ev.Extra))
		for k := range ev.Extra {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		extra := zerolog.Dict()
		for _, k := range keys {
			extra = extra.Str(k, ev.Extra[k])
		}
		e = e.Dict("extra", extra)
	}
	if format == FormatNDJSON {
		e.Msg(ev.Name)
		return
	}
	e.Msg(ev.Kind.marker() + " " + ev.Name)
}
