// Package parser reads Claude Code session logs into sessions.
package parser

import (
	"encoding/json"
	"errors"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/davidpaquet/ccsession/internal/config"
	"github.com/davidpaquet/ccsession/internal/model"
	"github.com/davidpaquet/ccsession/internal/text"
)

// Parser discovers and reads session files.
type Parser struct {
	resolver *config.Resolver
}

// NewParser creates a parser that finds sessions through resolver.
func NewParser(resolver *config.Resolver) *Parser {
	return &Parser{resolver: resolver}
}

// AllSessions yields every session of every project, in directory listing
// order. Files without messages are skipped; any other error is yielded
// once and ends the sequence.
func (p *Parser) AllSessions() iter.Seq2[model.Session, error] {
	return func(yield func(model.Session, error) bool) {
		for dir, err := range p.resolver.ProjectStateDirs() {
			if err != nil {
				yield(model.Session{}, err)
				return
			}
			if !yieldSessions(dir.Path, yield) {
				return
			}
		}
	}
}

// ProjectSessions yields the sessions of each project path in turn.
// Projects without a state directory contribute nothing.
func (p *Parser) ProjectSessions(projectPaths []string) iter.Seq2[model.Session, error] {
	return func(yield func(model.Session, error) bool) {
		for _, projectPath := range projectPaths {
			dir := p.resolver.FindProjectDir(projectPath)
			if dir == "" {
				continue
			}
			if !yieldSessions(dir, yield) {
				return
			}
		}
	}
}

// yieldSessions reads every session file in dir. It returns false when the
// sequence must end, either because the consumer stopped or because an
// error was yielded.
func yieldSessions(dir string, yield func(model.Session, error) bool) bool {
	for file, err := range config.SessionFiles(dir) {
		if err != nil {
			yield(model.Session{}, err)
			return false
		}
		session, err := ReadSessionFile(file.Path)
		if errors.Is(err, ErrNoMessage) {
			continue
		}
		if err != nil {
			yield(model.Session{}, err)
			return false
		}
		if !yield(session, nil) {
			return false
		}
	}
	return true
}

// ReadSessionFile reads one session log. Blank lines are ignored and lines
// that are JSON but not a session message are dropped. A line that is not
// JSON fails the whole file with SessionReadError; a file without any
// session message fails with NoMessageError.
func ReadSessionFile(path string) (model.Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Session{}, &SessionReadError{FilePath: path, Err: err}
	}

	var messages []model.SessionMessage
	for i, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var v any
		if err := json.Unmarshal([]byte(line), &v); err != nil {
			return model.Session{}, &SessionReadError{FilePath: path, Err: &LineError{Line: i + 1, Err: err}}
		}
		if msg, ok := DecodeSessionMessage(v); ok {
			messages = append(messages, msg)
		}
	}
	if len(messages) == 0 {
		return model.Session{}, &NoMessageError{FilePath: path}
	}

	first, last := messages[0], messages[len(messages)-1]
	return model.Session{
		SessionID:       first.SessionID,
		SessionFilePath: path,
		ProjectPath:     first.CWD,
		ProjectName:     projectName(first.CWD),
		Messages:        messages,
		StartTime:       first.Time(),
		EndTime:         last.Time(),
	}, nil
}

func projectName(projectPath string) string {
	if projectPath == "" {
		return ""
	}
	return filepath.Base(projectPath)
}

// FormatSessionSummary returns the first user message of s as a single
// truncated line, or "" when there is none.
func FormatSessionSummary(s model.Session) string {
	for _, m := range s.Messages {
		if m.Type != model.RoleUser {
			continue
		}
		if m.Message == nil || m.Message.Content == nil {
			return ""
		}
		c := *m.Message.Content
		if c.IsText() && c.Text == "" {
			return ""
		}
		return text.Truncate(text.CollapseSpace(ExtractMessageText(c)), text.DefaultLimit)
	}
	return ""
}
