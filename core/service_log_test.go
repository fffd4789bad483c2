package core

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"testing"

	"pkt.systems/docshell/schema"
	"pkt.systems/pslog"
)

func TestPersistFailureIsLoggedNotReturned(t *testing.T) {
	h := newHarness(t)
	h.workspace.saveErr = errBoom
	capture := newLogCapture(t)
	logger := pslog.NewWithOptions(capture, pslog.Options{
		Mode:          pslog.ModeStructured,
		NoColor:       true,
		MinLevel:      pslog.DebugLevel,
		VerboseFields: true,
	})
	ctx := pslog.ContextWithLogger(context.Background(), logger)

	if _, err := h.svc.OpenFiles(ctx, schema.OpenFilesRequest{Files: files("/work/a.bpmn")}); err != nil {
		t.Fatalf("open files: %v", err)
	}
	entry, ok := findLogEntry(capture.Entries(), "service workspace persist failed")
	if !ok {
		t.Fatalf("expected persist failure to be logged")
	}
	if _, ok := entry.Fields["err"]; !ok {
		t.Fatalf("expected err field, got %+v", entry.Fields)
	}
}

func TestCloseLogsTabAndFile(t *testing.T) {
	h := newHarness(t)
	tabs := h.open(t, "/work/a.bpmn")
	capture := newLogCapture(t)
	logger := pslog.NewWithOptions(capture, pslog.Options{
		Mode:          pslog.ModeStructured,
		NoColor:       true,
		MinLevel:      pslog.InfoLevel,
		VerboseFields: true,
	})
	ctx := pslog.ContextWithLogger(context.Background(), logger)
	if _, err := h.svc.CloseTab(ctx, schema.CloseTabRequest{TabID: tabs[0].ID}); err != nil {
		t.Fatalf("close: %v", err)
	}
	entry, ok := findLogEntry(capture.Entries(), "service tab closed")
	if !ok {
		t.Fatalf("expected close to be logged")
	}
	if entry.Fields["tab"] != string(tabs[0].ID) || entry.Fields["file_path"] != "/work/a.bpmn" {
		t.Fatalf("unexpected fields %+v", entry.Fields)
	}
}

type logEntry struct {
	Level   string
	Message string
	Fields  map[string]any
	Raw     string
}

type logCapture struct {
	t     *testing.T
	mu    sync.Mutex
	buf   bytes.Buffer
	lines []string
}

func newLogCapture(t *testing.T) *logCapture {
	t.Helper()
	return &logCapture{t: t}
}

func (c *logCapture) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = c.buf.Write(p)
	for {
		data := c.buf.Bytes()
		idx := bytes.IndexByte(data, '\n')
		if idx == -1 {
			break
		}
		line := string(data[:idx])
		c.lines = append(c.lines, line)
		c.buf.Next(idx + 1)
	}
	return len(p), nil
}

func (c *logCapture) Lines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.buf.Len() > 0 {
		c.lines = append(c.lines, c.buf.String())
		c.buf.Reset()
	}
	out := make([]string, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *logCapture) Entries() []logEntry {
	lines := c.Lines()
	entries := make([]logEntry, 0, len(lines))
	for _, line := range lines {
		entries = append(entries, parseLogEntry(line))
	}
	return entries
}

func parseLogEntry(line string) logEntry {
	payload := map[string]any{}
	if err := json.Unmarshal([]byte(line), &payload); err != nil {
		return logEntry{Raw: line}
	}
	level := ""
	if value, ok := payload["level"].(string); ok {
		level = value
	} else if value, ok := payload["lvl"].(string); ok {
		level = value
	}
	message := ""
	if value, ok := payload["message"].(string); ok {
		message = value
	} else if value, ok := payload["msg"].(string); ok {
		message = value
	}
	return logEntry{Level: level, Message: message, Fields: payload, Raw: line}
}

func findLogEntry(entries []logEntry, message string) (logEntry, bool) {
	for _, entry := range entries {
		if entry.Message == message {
			return entry, true
		}
	}
	return logEntry{}, false
}
