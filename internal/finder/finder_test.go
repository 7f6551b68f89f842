package finder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/davidpaquet/ccsession/internal/config"
	"github.com/davidpaquet/ccsession/internal/model"
	"github.com/davidpaquet/ccsession/internal/parser"
)

func newParser(t *testing.T) (*parser.Parser, string) {
	t.Helper()
	root := t.TempDir()
	projects := filepath.Join(root, "projects")
	if err := os.MkdirAll(projects, 0o755); err != nil {
		t.Fatal(err)
	}
	return parser.NewParser(config.NewResolver(config.MapEnv{"CLAUDE_CONFIG_DIR": root})), projects
}

func writeSession(t *testing.T, projects, project, id string) {
	t.Helper()
	dir := filepath.Join(projects, config.ProjectDirName(project))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	line := fmt.Sprintf(`{"sessionId":%q,"timestamp":"2025-06-01T10:00:00Z","type":"user","cwd":%q,"message":{"role":"user","content":"hello %s"}}`, id, project, id)
	if err := os.WriteFile(filepath.Join(dir, id+".jsonl"), []byte(line+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestItemFromSession(t *testing.T) {
	end := time.Date(2025, 6, 1, 10, 0, 20, 0, time.UTC)
	c := model.TextContent("resume me")
	s := model.Session{
		SessionID:       "abc",
		SessionFilePath: "/c/projects/-w-app/abc.jsonl",
		ProjectPath:     "/w/app",
		ProjectName:     "app",
		Messages: []model.SessionMessage{{
			Type:    model.RoleUser,
			Message: &model.Message{Role: model.RoleUser, Content: &c},
		}},
		StartTime: end.Add(-time.Minute),
		EndTime:   end,
	}

	stamp := end.Local().Format(TimeLayout)
	item := ItemFromSession(s, false)
	if want := stamp + ": resume me"; item.Word != want {
		t.Errorf("Word = %q, want %q", item.Word, want)
	}
	if item.Action.SessionID != "abc" || item.Action.EndTime != end.UnixMilli() {
		t.Errorf("Action = %+v", item.Action)
	}

	item = ItemFromSession(s, true)
	if want := "app:" + stamp + ": resume me"; item.Word != want {
		t.Errorf("Word = %q, want %q", item.Word, want)
	}
}

func TestResolveProjectPaths(t *testing.T) {
	if got := ResolveProjectPaths("/cwd", nil); !slices.Equal(got, []string{"/cwd"}) {
		t.Errorf("ResolveProjectPaths(nil) = %v", got)
	}
	got := ResolveProjectPaths("/cwd", []string{"/abs", "rel", "../up"})
	if want := []string{"/abs", "/cwd/rel", "/up"}; !slices.Equal(got, want) {
		t.Errorf("ResolveProjectPaths() = %v, want %v", got, want)
	}
}

func TestGather_Batches(t *testing.T) {
	p, projects := newParser(t)
	total := BatchSize + 5
	for i := range total {
		writeSession(t, projects, "/w/app", fmt.Sprintf("s%03d", i))
	}

	var sizes []int
	for batch, err := range Gather(p, "/w/app", SourceParams{}) {
		if err != nil {
			t.Fatalf("Gather() error = %v", err)
		}
		sizes = append(sizes, len(batch))
	}
	if !slices.Equal(sizes, []int{BatchSize, 5}) {
		t.Errorf("batch sizes = %v, want [%d 5]", sizes, BatchSize)
	}
}

func TestGather_All(t *testing.T) {
	p, projects := newParser(t)
	writeSession(t, projects, "/w/a", "one")
	writeSession(t, projects, "/w/b", "two")

	var words []string
	for batch, err := range Gather(p, "/elsewhere", SourceParams{All: true}) {
		if err != nil {
			t.Fatalf("Gather() error = %v", err)
		}
		for _, item := range batch {
			words = append(words, item.Word)
		}
	}
	if len(words) != 2 {
		t.Fatalf("got %d items, want 2", len(words))
	}
	for _, w := range words {
		if !strings.HasPrefix(w, "a:") && !strings.HasPrefix(w, "b:") {
			t.Errorf("word %q lacks project prefix", w)
		}
	}
}

func TestGather_RelativeProjectPaths(t *testing.T) {
	p, projects := newParser(t)
	writeSession(t, projects, "/w/app", "one")

	n := 0
	for batch, err := range Gather(p, "/w", SourceParams{ProjectPaths: []string{"app", "/missing"}}) {
		if err != nil {
			t.Fatalf("Gather() error = %v", err)
		}
		n += len(batch)
	}
	if n != 1 {
		t.Errorf("got %d items, want 1", n)
	}
}

func TestGather_ErrorAfterItems(t *testing.T) {
	p, projects := newParser(t)
	writeSession(t, projects, "/w/a", "one")
	bad := filepath.Join(projects, "-w-b")
	if err := os.MkdirAll(bad, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(bad, "bad.jsonl"), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}

	var items int
	var gotErr error
	for batch, err := range Gather(p, "/w", SourceParams{ProjectPaths: []string{"/w/a", "/w/b"}}) {
		if err != nil {
			gotErr = err
			continue
		}
		items += len(batch)
	}
	if items != 1 {
		t.Errorf("got %d items before the error, want 1", items)
	}
	if !errors.Is(gotErr, parser.ErrSessionRead) {
		t.Errorf("error = %v, want ErrSessionRead", gotErr)
	}
}
