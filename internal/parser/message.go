package parser

import (
	"strings"

	"github.com/davidpaquet/ccsession/internal/model"
	"github.com/davidpaquet/ccsession/internal/text"
)

// DecodeSessionMessage converts a decoded JSON value into a SessionMessage.
// It reports false when any required field is missing or any field has the
// wrong type; the value is then rejected as a whole.
func DecodeSessionMessage(v any) (model.SessionMessage, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return model.SessionMessage{}, false
	}

	var sm model.SessionMessage
	if sm.SessionID, ok = requiredString(obj, "sessionId"); !ok {
		return model.SessionMessage{}, false
	}
	if sm.Timestamp, ok = requiredString(obj, "timestamp"); !ok {
		return model.SessionMessage{}, false
	}
	if sm.CWD, ok = requiredString(obj, "cwd"); !ok {
		return model.SessionMessage{}, false
	}
	typ, ok := requiredString(obj, "type")
	if !ok || !model.Role(typ).Valid() {
		return model.SessionMessage{}, false
	}
	sm.Type = model.Role(typ)

	if raw, present := obj["message"]; present {
		msg, ok := DecodeMessage(raw)
		if !ok {
			return model.SessionMessage{}, false
		}
		sm.Message = &msg
	}
	sm.ToolUseResult = obj["toolUseResult"]
	return sm, true
}

// DecodeMessage converts a decoded JSON value into a Message.
func DecodeMessage(v any) (model.Message, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return model.Message{}, false
	}
	role, ok := requiredString(obj, "role")
	if !ok || !model.Role(role).Valid() {
		return model.Message{}, false
	}
	msg := model.Message{Role: model.Role(role)}

	raw, present := obj["content"]
	if !present {
		return msg, true
	}
	switch c := raw.(type) {
	case string:
		content := model.TextContent(c)
		msg.Content = &content
	case []any:
		items := make([]model.ContentItem, 0, len(c))
		for _, rawItem := range c {
			item, ok := DecodeContentItem(rawItem)
			if !ok {
				return model.Message{}, false
			}
			items = append(items, item)
		}
		content := model.ItemsContent(items)
		msg.Content = &content
	default:
		return model.Message{}, false
	}
	return msg, true
}

// DecodeContentItem converts a decoded JSON value into a ContentItem.
func DecodeContentItem(v any) (model.ContentItem, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return model.ContentItem{}, false
	}
	typ, ok := requiredString(obj, "type")
	if !ok || !model.ContentType(typ).Valid() {
		return model.ContentItem{}, false
	}
	item := model.ContentItem{Type: model.ContentType(typ), Input: obj["input"]}

	for key, dst := range map[string]**string{
		"text":        &item.Text,
		"name":        &item.Name,
		"content":     &item.Content,
		"tool_use_id": &item.ToolUseID,
	} {
		if *dst, ok = optionalString(obj, key); !ok {
			return model.ContentItem{}, false
		}
	}
	if raw, present := obj["is_error"]; present {
		b, isBool := raw.(bool)
		if !isBool {
			return model.ContentItem{}, false
		}
		item.IsError = &b
	}
	return item, true
}

func requiredString(obj map[string]any, key string) (string, bool) {
	s, ok := obj[key].(string)
	return s, ok
}

// optionalString returns nil, true when key is absent. A present key must
// hold a string; null is not accepted.
func optionalString(obj map[string]any, key string) (*string, bool) {
	raw, present := obj[key]
	if !present {
		return nil, true
	}
	s, ok := raw.(string)
	if !ok {
		return nil, false
	}
	return &s, true
}

// ExtractMessageText renders message content as readable text. Plain text
// is truncated; structured content yields one line per recognised item.
func ExtractMessageText(c model.MessageContent) string {
	if c.IsText() {
		return text.Truncate(c.Text, text.DefaultLimit)
	}

	parts := make([]string, 0, len(c.Items))
	for _, item := range c.Items {
		switch {
		case item.Type == model.ContentText && deref(item.Text) != "":
			parts = append(parts, *item.Text)
		case item.Type == model.ContentToolUse && deref(item.Name) != "":
			parts = append(parts, "[Tool: "+*item.Name+"] "+toolDescription(item.Input))
		case item.Type == model.ContentToolResult:
			parts = append(parts, "[Tool Result]")
		case item.Type == model.ContentThinking:
			parts = append(parts, "[Thinking...]")
		}
	}
	return strings.Join(parts, "\n")
}

// toolDescription picks a one-line description from a tool_use input.
func toolDescription(input any) string {
	fields, ok := input.(map[string]any)
	if !ok {
		return ""
	}
	if s, ok := fields["command"].(string); ok {
		return s
	}
	if s, ok := fields["description"].(string); ok {
		return s
	}
	if s, ok := fields["prompt"].(string); ok {
		return text.Truncate(s, text.DefaultLimit)
	}
	return ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
