package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1 // span start
	KindSpanEnd                   // span end
	KindPoint                     // instant event
	KindHeartbeat                 // periodic liveness signal
)

func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	case KindHeartbeat:
		return "heartbeat"
	default:
		return "unknown"
	}
}

// marker is the text-mode prefix for the event kind.
func (k Kind) marker() string {
	switch k {
	case KindSpanBegin:
		return "→"
	case KindSpanEnd:
		return "←"
	case KindPoint:
		return "•"
	case KindHeartbeat:
		return "♡"
	default:
		return "?"
	}
}

// Scope indicates the granularity of the event.
// Lower values are coarser.
type Scope uint8

const (
	ScopeDriver   Scope = iota + 1 // whole CLI command
	ScopePass                      // diagnose, fix-all, save
	ScopeDocument                  // per-document parse/lint/fix
	ScopeNode                      // per-node edits, debug only
)

func (s Scope) String() string {
	switch s {
	case ScopeDriver:
		return "driver"
	case ScopePass:
		return "pass"
	case ScopeDocument:
		return "document"
	case ScopeNode:
		return "node"
	default:
		return "unknown"
	}
}

// Event represents a single trace event.
type Event struct {
	Time     time.Time         // wall-clock timestamp
	Seq      uint64            // global sequence number
	Kind     Kind              // event kind
	Scope    Scope             // granularity level
	SpanID   uint64            // unique span identifier
	ParentID uint64            // parent span (0 if root)
	GID      uint64            // goroutine ID
	Name     string            // e.g. "fix-all", "parse", "doc:src/a.mnd"
	Detail   string            // optional detail message
	Extra    map[string]string // extensible key-value pairs
}
