// Package reply renders the structured document sent back to the chat
// platform. The layout is configuration, not logic: a template with named
// {PLACEHOLDER} tokens is loaded at startup and rendering is pure
// substitution of resolved values.
package reply

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"regexp"

	"github.com/Jerryfang1/jinyuegold/internal/core"
)

// Values maps placeholder names to resolved text.
type Values map[string]string

// Document is a fully substituted reply ready for delivery. Flex is the
// optional nested card layout; Text is always present as the plain
// fallback body.
type Document struct {
	AltText string
	Text    string
	Flex    json.RawMessage
}

// Template is the fixed reply layout with unsubstituted placeholders.
type Template struct {
	AltText string          `json:"alt_text"`
	Text    string          `json:"text"`
	Flex    json.RawMessage `json:"flex,omitempty"`

	sentinel string
}

var placeholderPattern = regexp.MustCompile(`\{[A-Z][A-Z0-9_]*\}`)

// Parse builds a template from raw JSON. sentinel is substituted for any
// placeholder the renderer has no value for, so a document never leaves
// with an unresolved token.
func Parse(b []byte, sentinel string) (*Template, error) {
	var t Template
	if err := json.Unmarshal(b, &t); err != nil {
		return nil, core.WrapError(core.ErrTemplateInvalid, err)
	}
	if t.Text == "" {
		return nil, core.WrapError(core.ErrTemplateInvalid, fmt.Errorf("template text body is empty"))
	}
	if len(t.Flex) > 0 && !json.Valid(t.Flex) {
		return nil, core.WrapError(core.ErrTemplateInvalid, fmt.Errorf("flex layout is not valid JSON"))
	}
	if t.AltText == "" {
		t.AltText = t.Text
	}
	t.sentinel = sentinel
	return &t, nil
}

// Load reads a template file from disk.
func Load(path, sentinel string) (*Template, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, core.WrapError(core.ErrTemplateInvalid, err)
	}
	return Parse(b, sentinel)
}

// Render substitutes every placeholder and returns the completed document.
// Rendering is deterministic: equal inputs produce byte-identical output.
func (t *Template) Render(values Values) (*Document, error) {
	doc := &Document{
		AltText: t.expand(t.AltText, values),
		Text:    t.expand(t.Text, values),
	}
	if len(t.Flex) > 0 {
		flex, err := t.renderFlex(values)
		if err != nil {
			return nil, err
		}
		doc.Flex = flex
	}
	return doc, nil
}

func (t *Template) expand(s string, values Values) string {
	return placeholderPattern.ReplaceAllStringFunc(s, func(m string) string {
		if v, ok := values[m[1:len(m)-1]]; ok {
			return v
		}
		return t.sentinel
	})
}

// renderFlex walks the nested card layout and substitutes every string
// leaf. The tree is decoded fresh per render so templates stay immutable.
func (t *Template) renderFlex(values Values) (json.RawMessage, error) {
	var tree any
	if err := json.Unmarshal(t.Flex, &tree); err != nil {
		return nil, core.WrapError(core.ErrTemplateInvalid, err)
	}
	tree = t.walk(tree, values)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(tree); err != nil {
		return nil, core.WrapError(core.ErrTemplateInvalid, err)
	}
	return json.RawMessage(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

func (t *Template) walk(node any, values Values) any {
	switch n := node.(type) {
	case string:
		return t.expand(n, values)
	case []any:
		for i := range n {
			n[i] = t.walk(n[i], values)
		}
		return n
	case map[string]any:
		for k, child := range n {
			n[k] = t.walk(child, values)
		}
		return n
	default:
		return n
	}
}

// TextDocument builds a plain text reply outside any template, used for
// user-visible failure messages and static info replies.
func TextDocument(text string) *Document {
	return &Document{AltText: text, Text: text}
}
