package log

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// TextFormatter renders entries as a single human-readable line.
type TextFormatter struct {
	// TimestampFormat overrides the default time layout (time.RFC3339).
	TimestampFormat string
}

// Format renders the entry as "ts LEVEL message key=value ...".
func (f *TextFormatter) Format(entry *Entry) ([]byte, error) {
	layout := f.TimestampFormat
	if layout == "" {
		layout = time.RFC3339
	}
	var buf bytes.Buffer
	buf.WriteString(entry.Timestamp.Format(layout))
	buf.WriteByte(' ')
	buf.WriteString(entry.Level.String())
	buf.WriteByte(' ')
	buf.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Fields))
	for k := range entry.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&buf, " %s=%v", k, entry.Fields[k])
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// JSONFormatter renders entries as one JSON object per line.
type JSONFormatter struct{}

// Format renders the entry as JSON with ts/level/msg plus the entry fields.
func (f *JSONFormatter) Format(entry *Entry) ([]byte, error) {
	obj := make(map[string]interface{}, len(entry.Fields)+3)
	for k, v := range entry.Fields {
		obj[k] = v
	}
	obj["ts"] = entry.Timestamp.Format(time.RFC3339Nano)
	obj["level"] = entry.Level.String()
	obj["msg"] = entry.Message
	b, err := json.Marshal(obj)
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}
