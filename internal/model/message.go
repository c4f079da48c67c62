package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Role is the author of a conversation entry.
type Role string

const (
	RoleUser       Role = "user"
	RoleAssistant  Role = "assistant"
	RoleToolResult Role = "toolResult"
	RoleCustom     Role = "custom"
)

// ContentBlock is one element of structured message content.
type ContentBlock struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

// Content is either a plain string or a sequence of blocks.
type Content struct {
	text   string
	blocks []ContentBlock
	isList bool
}

// TextContent wraps a plain string.
func TextContent(s string) Content {
	return Content{text: s}
}

// BlockContent wraps a block sequence.
func BlockContent(blocks ...ContentBlock) Content {
	return Content{blocks: blocks, isList: true}
}

// IsBlocks reports whether the content is a block sequence.
func (c Content) IsBlocks() bool { return c.isList }

// Blocks returns the block sequence, nil for string content.
func (c Content) Blocks() []ContentBlock { return c.blocks }

// Text returns string content as-is, or text blocks joined by newlines.
func (c Content) Text() string {
	if !c.isList {
		return c.text
	}
	var parts []string
	for _, b := range c.blocks {
		if b.Type == "text" {
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// ContainsText reports whether fragment occurs in the string content or in
// any text-typed block. Non-text blocks are never inspected.
func (c Content) ContainsText(fragment string) bool {
	if !c.isList {
		return strings.Contains(c.text, fragment)
	}
	for _, b := range c.blocks {
		if b.Type == "text" && strings.Contains(b.Text, fragment) {
			return true
		}
	}
	return false
}

func (c Content) MarshalJSON() ([]byte, error) {
	if c.isList {
		if c.blocks == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(c.blocks)
	}
	return json.Marshal(c.text)
}

func (c *Content) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0, bytes.Equal(trimmed, []byte("null")):
		*c = Content{}
		return nil
	case trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*c = TextContent(s)
		return nil
	case trimmed[0] == '[':
		var blocks []ContentBlock
		if err := json.Unmarshal(trimmed, &blocks); err != nil {
			return err
		}
		*c = BlockContent(blocks...)
		return nil
	default:
		return fmt.Errorf("content must be a string or an array of blocks")
	}
}

// Message is one conversation entry as the host assembles it.
// CustomType tags synthetic entries injected by extensions; Display=false
// keeps them out of the rendered transcript.
type Message struct {
	Role       Role    `json:"role"`
	Content    Content `json:"content"`
	CustomType string  `json:"customType,omitempty"`
	Display    bool    `json:"display"`
}
