package jsonlog

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestJSONLogger(t *testing.T) {
	t.Run("below minimum level is dropped", func(t *testing.T) {
		var buf bytes.Buffer
		l := New(&buf, LevelError)
		l.PrintInfo("suppressed", nil)
		if buf.Len() != 0 {
			t.Errorf("expected no output; got %q", buf.String())
		}
	})

	t.Run("INFO entry shape", func(t *testing.T) {
		var buf bytes.Buffer
		l := New(&buf, LevelInfo)
		l.PrintInfo("starting server", map[string]string{"addr": ":4000", "env": "development"})
		var entry struct {
			Level      string            `json:"level"`
			Message    string            `json:"message"`
			Properties map[string]string `json:"properties"`
			Trace      string            `json:"trace"`
		}
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatal(err)
		}
		if entry.Level != "INFO" {
			t.Errorf("expected level INFO; got %s", entry.Level)
		}
		if entry.Message != "starting server" {
			t.Errorf("unexpected message %q", entry.Message)
		}
		if entry.Properties["addr"] != ":4000" {
			t.Errorf("expected addr property to round-trip; got %v", entry.Properties)
		}
		if entry.Trace != "" {
			t.Error("INFO entries must not carry a stack trace")
		}
	})

	t.Run("ERROR entry carries a trace", func(t *testing.T) {
		var buf bytes.Buffer
		l := New(&buf, LevelInfo)
		l.PrintError(errors.New("boom"), nil)
		var entry struct {
			Level string `json:"level"`
			Trace string `json:"trace"`
		}
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatal(err)
		}
		if entry.Level != "ERROR" {
			t.Errorf("expected level ERROR; got %s", entry.Level)
		}
		if entry.Trace == "" {
			t.Error("ERROR entries must carry a stack trace")
		}
	})

	t.Run("one line per entry", func(t *testing.T) {
		var buf bytes.Buffer
		l := New(&buf, LevelInfo)
		l.PrintInfo("one", nil)
		l.PrintInfo("two", nil)
		lines := strings.Count(buf.String(), "\n")
		if lines != 2 {
			t.Errorf("expected 2 newline-terminated entries; got %d", lines)
		}
	})
}
