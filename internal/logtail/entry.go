package logtail

import (
	"strings"
	"time"

	"github.com/go-logfmt/logfmt"
)

// Attr is one key=value pair of a log line.
type Attr struct {
	Key   string
	Value string
}

// Entry is a parsed slog text-handler line:
//
//	time=2024-01-15T10:00:00.000+01:00 level=INFO msg="borrow created" borrow_id=99
//
// Lines in any other shape keep their text in Message with Level empty.
type Entry struct {
	Time    time.Time
	Level   string
	Message string
	Attrs   []Attr
	Raw     string
}

// Parse splits line into its time, level, message and remaining attributes.
func Parse(line string) Entry {
	e := Entry{Raw: line}
	pairs, ok := splitPairs(line)
	if !ok {
		e.Message = strings.TrimSpace(line)
		return e
	}
	for _, p := range pairs {
		switch p.Key {
		case "time":
			if t, err := time.Parse(time.RFC3339Nano, p.Value); err == nil {
				e.Time = t
			}
		case "level":
			e.Level = strings.ToUpper(p.Value)
		case "msg":
			e.Message = p.Value
		default:
			e.Attrs = append(e.Attrs, p)
		}
	}
	if e.Level == "" && e.Message == "" {
		return Entry{Raw: line, Message: strings.TrimSpace(line)}
	}
	return e
}

// AttrString renders the attributes back as logfmt text.
func (e Entry) AttrString() string {
	keyvals := make([]any, 0, 2*len(e.Attrs))
	for _, a := range e.Attrs {
		keyvals = append(keyvals, a.Key, a.Value)
	}
	out, err := logfmt.MarshalKeyvals(keyvals...)
	if err != nil {
		return ""
	}
	return string(out)
}

var levelRank = map[string]int{"DEBUG": 0, "INFO": 1, "WARN": 2, "ERROR": 3}

// AtLeast reports whether the entry's level is at or above min. Unparsed
// lines always pass.
func (e Entry) AtLeast(min string) bool {
	have, ok := levelRank[e.Level]
	if !ok {
		return true
	}
	return have >= levelRank[strings.ToUpper(min)]
}

// Filter keeps entries at or above min.
func Filter(entries []Entry, min string) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.AtLeast(min) {
			out = append(out, e)
		}
	}
	return out
}

// splitPairs decodes line as a single logfmt record.
func splitPairs(line string) ([]Attr, bool) {
	dec := logfmt.NewDecoder(strings.NewReader(line))
	if !dec.ScanRecord() {
		return nil, false
	}
	var pairs []Attr
	for dec.ScanKeyval() {
		pairs = append(pairs, Attr{Key: string(dec.Key()), Value: string(dec.Value())})
	}
	if dec.Err() != nil {
		return nil, false
	}
	return pairs, len(pairs) > 0
}
