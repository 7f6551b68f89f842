// Package finder turns sessions into list items for the session picker.
package finder

import (
	"iter"
	"path/filepath"

	"github.com/davidpaquet/ccsession/internal/model"
	"github.com/davidpaquet/ccsession/internal/parser"
)

// BatchSize is the maximum number of items per gathered batch.
const BatchSize = 200

// TimeLayout formats the end time shown in front of each item.
const TimeLayout = "2006-01-02 15:04:05"

// SourceParams selects which sessions are gathered.
type SourceParams struct {
	All          bool     // Every project instead of ProjectPaths
	ProjectPaths []string // Empty means the working directory
}

// Item is one selectable session.
type Item struct {
	Word    string
	Summary string
	Action  model.ActionData
	Session model.Session
}

// ItemFromSession builds the list item for s. When all is set the word is
// prefixed with the project name, since sessions of several projects are
// shown together.
func ItemFromSession(s model.Session, all bool) Item {
	summary := parser.FormatSessionSummary(s)
	word := s.EndTime.Local().Format(TimeLayout) + ": " + summary
	if all {
		word = s.ProjectName + ":" + word
	}
	return Item{
		Word:    word,
		Summary: summary,
		Action:  s.ActionData(),
		Session: s,
	}
}

// ResolveProjectPaths makes paths absolute against cwd. No paths means cwd.
func ResolveProjectPaths(cwd string, paths []string) []string {
	if len(paths) == 0 {
		return []string{cwd}
	}
	resolved := make([]string, len(paths))
	for i, p := range paths {
		if filepath.IsAbs(p) {
			resolved[i] = p
		} else {
			resolved[i] = filepath.Join(cwd, p)
		}
	}
	return resolved
}

// Sessions returns the session sequence selected by params.
func Sessions(p *parser.Parser, cwd string, params SourceParams) iter.Seq2[model.Session, error] {
	if params.All {
		return p.AllSessions()
	}
	return p.ProjectSessions(ResolveProjectPaths(cwd, params.ProjectPaths))
}

// Gather yields items in batches of at most BatchSize. A discovery error is
// yielded after the items collected before it, and ends the sequence.
func Gather(p *parser.Parser, cwd string, params SourceParams) iter.Seq2[[]Item, error] {
	return func(yield func([]Item, error) bool) {
		batch := make([]Item, 0, BatchSize)
		for s, err := range Sessions(p, cwd, params) {
			if err != nil {
				if len(batch) > 0 && !yield(batch, nil) {
					return
				}
				yield(nil, err)
				return
			}
			batch = append(batch, ItemFromSession(s, params.All))
			if len(batch) == BatchSize {
				if !yield(batch, nil) {
					return
				}
				batch = make([]Item, 0, BatchSize)
			}
		}
		if len(batch) > 0 {
			yield(batch, nil)
		}
	}
}
