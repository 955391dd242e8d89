package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(WithLevel(WarnLevel), WithOutput(NewWriterOutput(&buf)))
	logger.Info("hidden")
	logger.Warn("visible")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Fatalf("warn should be written: %q", out)
	}
}

func TestWithFieldsCarried(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(WithOutput(NewWriterOutput(&buf)))
	child := logger.With(Component("runner"), Str("queue", "default"))
	child.Info("dispatched", Int("pending", 3))
	out := buf.String()
	for _, want := range []string{"component=runner", "queue=default", "pending=3", "dispatched"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %q", want, out)
		}
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(WithFormatter(&JSONFormatter{}), WithOutput(NewWriterOutput(&buf)))
	logger.Info("hello", Str("k", "v"))
	var obj map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &obj); err != nil {
		t.Fatalf("invalid json output: %v", err)
	}
	if obj["msg"] != "hello" || obj["level"] != "INFO" || obj["k"] != "v" {
		t.Fatalf("unexpected json entry: %v", obj)
	}
}

func TestParseLevel(t *testing.T) {
	if l, err := ParseLevel("debug"); err != nil || l != DebugLevel {
		t.Fatalf("parse debug: %v %v", l, err)
	}
	if _, err := ParseLevel("bogus"); err == nil {
		t.Fatalf("expected error for bogus level")
	}
}

func TestApplyConfig(t *testing.T) {
	logger, err := ApplyConfig(&Config{Level: "error", Format: "json"})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if logger.GetLevel() != ErrorLevel {
		t.Fatalf("level not applied")
	}
	if _, err := ApplyConfig(&Config{Format: "xml"}); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
