// Package model defines the session types shared by the parser, the finder and the resume action.
package model

import "time"

// Role is the author of a session message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// ContentType tags a ContentItem.
type ContentType string

const (
	ContentText       ContentType = "text"
	ContentToolUse    ContentType = "tool_use"
	ContentToolResult ContentType = "tool_result"
	ContentThinking   ContentType = "thinking"
)

// Valid reports whether t is a known content type.
func (t ContentType) Valid() bool {
	switch t {
	case ContentText, ContentToolUse, ContentToolResult, ContentThinking:
		return true
	}
	return false
}

// ContentItem is one block of a structured message body. Optional fields
// are nil when absent.
type ContentItem struct {
	Type      ContentType
	Text      *string
	Name      *string
	Content   *string
	Input     any
	IsError   *bool
	ToolUseID *string
}

// MessageContent is either plain text or a sequence of content items.
type MessageContent struct {
	Text  string
	Items []ContentItem // nil for plain text
}

// IsText reports whether the content is a plain string.
func (c MessageContent) IsText() bool {
	return c.Items == nil
}

// TextContent returns plain-text content.
func TextContent(s string) MessageContent {
	return MessageContent{Text: s}
}

// ItemsContent returns structured content. A nil slice becomes empty so the
// result is never mistaken for plain text.
func ItemsContent(items []ContentItem) MessageContent {
	if items == nil {
		items = []ContentItem{}
	}
	return MessageContent{Items: items}
}

// Message is the role and body of a session message.
type Message struct {
	Role    Role
	Content *MessageContent
}

// SessionMessage is one line of a session log.
type SessionMessage struct {
	SessionID     string
	Timestamp     string
	Type          Role
	CWD           string
	Message       *Message
	ToolUseResult any
}

// timestampLayouts are tried in order. A layout without a zone is read in
// its paired location: UTC for a bare date, local time for a date-time.
var timestampLayouts = []struct {
	layout string
	loc    *time.Location
}{
	{time.RFC3339Nano, time.UTC},
	{"2006-01-02T15:04:05Z0700", time.UTC},
	{"2006-01-02T15:04:05", time.Local},
	{time.DateOnly, time.UTC},
}

// Time parses the message timestamp: RFC 3339, an ISO 8601 offset without a
// colon, a date-time without zone, or a bare date. It returns the zero time
// when none of them match.
func (m SessionMessage) Time() time.Time {
	for _, l := range timestampLayouts {
		if t, err := time.ParseInLocation(l.layout, m.Timestamp, l.loc); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Session is one recorded conversation, backed by a JSONL file.
// Messages is never empty.
type Session struct {
	SessionID       string
	SessionFilePath string
	ProjectPath     string
	ProjectName     string
	Messages        []SessionMessage
	StartTime       time.Time
	EndTime         time.Time
}

// ActionData is the payload handed to the resume action for one session.
type ActionData struct {
	SessionID       string `json:"sessionId"`
	SessionFilePath string `json:"sessionFilePath"`
	ProjectPath     string `json:"projectPath"`
	StartTime       int64  `json:"startTime"` // Unix milliseconds
	EndTime         int64  `json:"endTime"`   // Unix milliseconds
}

// ActionData returns the resume payload for s.
func (s Session) ActionData() ActionData {
	return ActionData{
		SessionID:       s.SessionID,
		SessionFilePath: s.SessionFilePath,
		ProjectPath:     s.ProjectPath,
		StartTime:       s.StartTime.UnixMilli(),
		EndTime:         s.EndTime.UnixMilli(),
	}
}
