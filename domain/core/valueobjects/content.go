package valueobjects

import (
	"fmt"
	"strings"
	"unicode/utf8"

	pkgerrors "universe-backend/pkg/errors"
)

const (
	// MaxTitleLength bounds the idea title, matching the persisted column width
	MaxTitleLength = 200

	// MaxBodyLength bounds the idea body text
	MaxBodyLength = 50000
)

// NodeContent is a value object for the text carried by a node: the core
// statement (title) and its elaboration (body)
type NodeContent struct {
	title string
	body  string
}

// NewNodeContent creates content with validation
func NewNodeContent(title, body string) (NodeContent, error) {
	title = strings.TrimSpace(title)
	body = strings.TrimSpace(body)

	if title == "" {
		return NodeContent{}, pkgerrors.NewValidationError("title cannot be empty")
	}

	if utf8.RuneCountInString(title) > MaxTitleLength {
		return NodeContent{}, pkgerrors.NewValidationError(fmt.Sprintf("title exceeds maximum length of %d characters", MaxTitleLength))
	}

	if utf8.RuneCountInString(body) > MaxBodyLength {
		return NodeContent{}, pkgerrors.NewValidationError(fmt.Sprintf("body exceeds maximum length of %d characters", MaxBodyLength))
	}

	return NodeContent{title: title, body: body}, nil
}

// Title returns the content title
func (c NodeContent) Title() string {
	return c.title
}

// Body returns the content body
func (c NodeContent) Body() string {
	return c.body
}

// IsEmpty checks if the content carries no text
func (c NodeContent) IsEmpty() bool {
	return c.title == "" && c.body == ""
}

// Equals checks if two contents are equal
func (c NodeContent) Equals(other NodeContent) bool {
	return c.title == other.title && c.body == other.body
}
