package htmd

import (
	"errors"
	"fmt"
)

var (
	// ErrImbalancedTags reports a close token that does not match the open scope.
	ErrImbalancedTags = errors.New("imbalanced tags")
	// ErrMalformedClosingTag reports a closing tag with content before its '>'.
	ErrMalformedClosingTag = errors.New("malformed closing tag")
	// ErrUnresolvedTag reports an HTML tag without a registered resolver.
	ErrUnresolvedTag = errors.New("no tag resolver")
	// ErrRenderRuleNotFound reports a tag without a registered render rule.
	ErrRenderRuleNotFound = errors.New("no render rule")
)

// ImbalancedTagsError is returned when a close token's tag differs from the
// open frame on top of the render stack, or when a frame is still open at
// the end of a render pass. Expected is empty if no frame was open.
type ImbalancedTagsError struct {
	Expected string
	Received string
}

func (e *ImbalancedTagsError) Error() string {
	if e.Expected != "" {
		return fmt.Sprintf("imbalanced tags; expected %q, received %q", e.Expected, e.Received)
	}
	return fmt.Sprintf("imbalanced tags; unexpected %q", e.Received)
}

func (e *ImbalancedTagsError) Unwrap() error { return ErrImbalancedTags }

// MalformedClosingTagError is returned when a closing tag is not followed
// immediately by '>'.
type MalformedClosingTagError struct {
	Tag    string
	Offset int
}

func (e *MalformedClosingTagError) Error() string {
	return fmt.Sprintf("malformed closing tag %q at offset %d", e.Tag, e.Offset)
}

func (e *MalformedClosingTagError) Unwrap() error { return ErrMalformedClosingTag }

// TagResolverNotFoundError is returned by the HTML tokenizer for tags it
// has no resolver for.
type TagResolverNotFoundError struct {
	Tag string
}

func (e *TagResolverNotFoundError) Error() string {
	return fmt.Sprintf("no tag resolver found for tag %q", e.Tag)
}

func (e *TagResolverNotFoundError) Unwrap() error { return ErrUnresolvedTag }

// RenderRuleNotFoundError is returned by the renderer when a closed or
// atomic token has no render rule for its tag.
type RenderRuleNotFoundError struct {
	Tag  string
	Type string
}

func (e *RenderRuleNotFoundError) Error() string {
	return fmt.Sprintf("no render rule found for tag %q (type %q)", e.Tag, e.Type)
}

func (e *RenderRuleNotFoundError) Unwrap() error { return ErrRenderRuleNotFound }
