package parser

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/davidpaquet/ccsession/internal/config"
	"github.com/davidpaquet/ccsession/internal/model"
)

const (
	userLine      = `{"sessionId":"sess-1","timestamp":"2025-06-01T10:00:00Z","type":"user","cwd":"/work/app","message":{"role":"user","content":"  fix   the\n build  "}}`
	assistantLine = `{"sessionId":"sess-1","timestamp":"2025-06-01T10:00:10Z","type":"assistant","cwd":"/work/app","message":{"role":"assistant","content":[{"type":"text","text":"On it."}]}}`
	lateUserLine  = `{"sessionId":"sess-1","timestamp":"2025-06-01T10:00:20Z","type":"user","cwd":"/work/app","message":{"role":"user","content":"thanks"}}`
	summaryLine   = `{"type":"summary","summary":"Fix build","leafUuid":"x"}`
)

var t0 = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func writeFile(t *testing.T, path string, lines ...string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadSessionFile(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "sess-1.jsonl"), userLine, assistantLine, lateUserLine)

	s, err := ReadSessionFile(path)
	if err != nil {
		t.Fatalf("ReadSessionFile() error = %v", err)
	}
	if len(s.Messages) != 3 {
		t.Errorf("len(Messages) = %d, want 3", len(s.Messages))
	}
	if s.SessionID != "sess-1" || s.SessionFilePath != path {
		t.Errorf("SessionID = %q, SessionFilePath = %q", s.SessionID, s.SessionFilePath)
	}
	if s.ProjectPath != "/work/app" || s.ProjectName != "app" {
		t.Errorf("ProjectPath = %q, ProjectName = %q", s.ProjectPath, s.ProjectName)
	}
	if !s.StartTime.Equal(t0) {
		t.Errorf("StartTime = %v, want %v", s.StartTime, t0)
	}
	if want := t0.Add(20 * time.Second); !s.EndTime.Equal(want) {
		t.Errorf("EndTime = %v, want %v", s.EndTime, want)
	}
}

func TestReadSessionFile_SkipsInvalidMessages(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "s.jsonl"),
		summaryLine, userLine, "", "   ", `{"type":"user"}`, assistantLine)

	s, err := ReadSessionFile(path)
	if err != nil {
		t.Fatalf("ReadSessionFile() error = %v", err)
	}
	if len(s.Messages) != 2 {
		t.Errorf("len(Messages) = %d, want 2", len(s.Messages))
	}
}

func TestReadSessionFile_FileOrderTimes(t *testing.T) {
	// Lines out of chronological order: times follow the file, not the clock.
	path := writeFile(t, filepath.Join(t.TempDir(), "s.jsonl"), lateUserLine, userLine, assistantLine)

	s, err := ReadSessionFile(path)
	if err != nil {
		t.Fatalf("ReadSessionFile() error = %v", err)
	}
	if want := t0.Add(20 * time.Second); !s.StartTime.Equal(want) {
		t.Errorf("StartTime = %v, want %v", s.StartTime, want)
	}
	if want := t0.Add(10 * time.Second); !s.EndTime.Equal(want) {
		t.Errorf("EndTime = %v, want %v", s.EndTime, want)
	}
}

func TestReadSessionFile_InvalidJSON(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "s.jsonl"), userLine, `{"sessionId":`, assistantLine)

	_, err := ReadSessionFile(path)
	var readErr *SessionReadError
	if !errors.As(err, &readErr) {
		t.Fatalf("ReadSessionFile() error = %v, want *SessionReadError", err)
	}
	if readErr.FilePath != path {
		t.Errorf("FilePath = %q, want %q", readErr.FilePath, path)
	}
	var lineErr *LineError
	if !errors.As(err, &lineErr) || lineErr.Line != 2 {
		t.Errorf("error = %v, want line 2", err)
	}
}

func TestReadSessionFile_Missing(t *testing.T) {
	_, err := ReadSessionFile(filepath.Join(t.TempDir(), "missing.jsonl"))
	if !errors.Is(err, ErrSessionRead) || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ReadSessionFile() error = %v, want ErrSessionRead wrapping ErrNotExist", err)
	}
}

func TestReadSessionFile_NoMessage(t *testing.T) {
	tests := map[string][]string{
		"empty":        {""},
		"blank lines":  {"  ", "\t", ""},
		"only invalid": {summaryLine, `{"type":"user"}`},
	}
	for name, lines := range tests {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, filepath.Join(t.TempDir(), "s.jsonl"), lines...)
			_, err := ReadSessionFile(path)
			var noMsg *NoMessageError
			if !errors.As(err, &noMsg) {
				t.Fatalf("ReadSessionFile() error = %v, want *NoMessageError", err)
			}
			if noMsg.FilePath != path {
				t.Errorf("FilePath = %q, want %q", noMsg.FilePath, path)
			}
		})
	}
}

func TestFormatSessionSummary(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "s.jsonl"), assistantLine, userLine, lateUserLine)
	s, err := ReadSessionFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := FormatSessionSummary(s); got != "fix the build" {
		t.Errorf("FormatSessionSummary() = %q, want %q", got, "fix the build")
	}
}

func TestFormatSessionSummary_Edges(t *testing.T) {
	user := func(c *model.MessageContent) model.SessionMessage {
		return model.SessionMessage{Type: model.RoleUser, Message: &model.Message{Role: model.RoleUser, Content: c}}
	}
	text := func(s string) *model.MessageContent {
		c := model.TextContent(s)
		return &c
	}

	tests := []struct {
		name     string
		messages []model.SessionMessage
		want     string
	}{
		{"no user message", []model.SessionMessage{{Type: model.RoleAssistant}}, ""},
		{"user without message", []model.SessionMessage{{Type: model.RoleUser}, user(text("later"))}, ""},
		{"user without content", []model.SessionMessage{user(nil)}, ""},
		{"empty content", []model.SessionMessage{user(text(""))}, ""},
		{"collapsed", []model.SessionMessage{user(text("  a   b  "))}, "a b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatSessionSummary(model.Session{Messages: tt.messages}); got != tt.want {
				t.Errorf("FormatSessionSummary() = %q, want %q", got, tt.want)
			}
		})
	}
}

// newStore lays out a Claude config dir and returns a parser over it.
func newStore(t *testing.T) (*Parser, string) {
	t.Helper()
	root := t.TempDir()
	projects := filepath.Join(root, "projects")
	if err := os.MkdirAll(projects, 0o755); err != nil {
		t.Fatal(err)
	}
	return NewParser(config.NewResolver(config.MapEnv{"CLAUDE_CONFIG_DIR": root})), projects
}

func sessionLine(id, cwd string) string {
	return `{"sessionId":"` + id + `","timestamp":"2025-06-01T10:00:00Z","type":"user","cwd":"` + cwd + `","message":{"role":"user","content":"hi"}}`
}

func collect(t *testing.T, seq func(func(model.Session, error) bool)) ([]string, error) {
	t.Helper()
	var ids []string
	for s, err := range seq {
		if err != nil {
			return ids, err
		}
		ids = append(ids, s.SessionID)
	}
	return ids, nil
}

func TestAllSessions(t *testing.T) {
	p, projects := newStore(t)
	writeFile(t, filepath.Join(projects, "-a", "1.jsonl"), sessionLine("a1", "/a"))
	writeFile(t, filepath.Join(projects, "-a", "2.jsonl"), sessionLine("a2", "/a"))
	writeFile(t, filepath.Join(projects, "-a", "empty.jsonl"), summaryLine)
	writeFile(t, filepath.Join(projects, "-b", "1.jsonl"), sessionLine("b1", "/b"))
	writeFile(t, filepath.Join(projects, "-b", "notes.txt"), "not a session")

	ids, err := collect(t, p.AllSessions())
	if err != nil {
		t.Fatalf("AllSessions() error = %v", err)
	}
	slices.Sort(ids)
	if !slices.Equal(ids, []string{"a1", "a2", "b1"}) {
		t.Errorf("ids = %v, want [a1 a2 b1]", ids)
	}
}

func TestAllSessions_ReadErrorStops(t *testing.T) {
	p, projects := newStore(t)
	writeFile(t, filepath.Join(projects, "-a", "bad.jsonl"), "{oops")

	_, err := collect(t, p.AllSessions())
	if !errors.Is(err, ErrSessionRead) {
		t.Errorf("AllSessions() error = %v, want ErrSessionRead", err)
	}
}

func TestAllSessions_NoProjectsDir(t *testing.T) {
	p := NewParser(config.NewResolver(config.MapEnv{"CLAUDE_CONFIG_DIR": t.TempDir()}))
	ids, err := collect(t, p.AllSessions())
	if err != nil || len(ids) != 0 {
		t.Errorf("AllSessions() = %v, %v; want empty", ids, err)
	}
}

func TestAllSessions_NoConfigDir(t *testing.T) {
	p := NewParser(config.NewResolver(config.MapEnv{}))
	_, err := collect(t, p.AllSessions())
	if !errors.Is(err, config.ErrConfigDirectory) {
		t.Errorf("AllSessions() error = %v, want ErrConfigDirectory", err)
	}
}

func TestProjectSessions(t *testing.T) {
	p, projects := newStore(t)
	writeFile(t, filepath.Join(projects, "-work-b", "1.jsonl"), sessionLine("b1", "/work/b"))
	writeFile(t, filepath.Join(projects, "-work-a-v2", "1.jsonl"), sessionLine("a1", "/work/a.v2"))
	writeFile(t, filepath.Join(projects, "-work-a-v2", "skip.jsonl"), "")

	ids, err := collect(t, p.ProjectSessions([]string{"/work/b", "/nonexistent", "/work/a.v2"}))
	if err != nil {
		t.Fatalf("ProjectSessions() error = %v", err)
	}
	if !slices.Equal(ids, []string{"b1", "a1"}) {
		t.Errorf("ids = %v, want [b1 a1]", ids)
	}
}

func TestProjectSessions_Empty(t *testing.T) {
	p, _ := newStore(t)
	for _, paths := range [][]string{nil, {}, {"/nonexistent"}} {
		ids, err := collect(t, p.ProjectSessions(paths))
		if err != nil || len(ids) != 0 {
			t.Errorf("ProjectSessions(%v) = %v, %v; want empty", paths, ids, err)
		}
	}
}

func TestProjectSessions_StopsEarly(t *testing.T) {
	p, projects := newStore(t)
	writeFile(t, filepath.Join(projects, "-a", "1.jsonl"), sessionLine("a1", "/a"))
	writeFile(t, filepath.Join(projects, "-a", "2.jsonl"), sessionLine("a2", "/a"))
	// A broken file after the first one must not be reached.
	writeFile(t, filepath.Join(projects, "-b", "bad.jsonl"), "{oops")

	n := 0
	for _, err := range p.ProjectSessions([]string{"/a", "/b"}) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		n++
		break
	}
	if n != 1 {
		t.Errorf("got %d sessions, want 1", n)
	}
}
