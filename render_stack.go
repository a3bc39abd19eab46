package htmd

// Frame is an open tag on the render stack together with the rendered
// output of its children so far. Each element of Children is the line set
// produced by one child.
type Frame struct {
	Tag      string
	Attrs    map[string]string
	Children [][]string
}

// RenderStack tracks open tags during a single render pass.
//
// Pushing a tag starts a new children buffer. Popping hands the buffer to
// the tag's render rule, and the rule's output is pushed into the parent's
// buffer, or returned to the caller when no tag is open.
type RenderStack struct {
	frames []Frame
}

// PushTag opens a frame for tag. It returns nil: nothing is emitted until
// the tag is popped.
func (s *RenderStack) PushTag(tag string, attrs map[string]string) []string {
	s.frames = append(s.frames, Frame{Tag: tag, Attrs: attrs})
	return nil
}

// PopTag removes the top frame, which must belong to tag.
func (s *RenderStack) PopTag(tag string) (Frame, error) {
	n := len(s.frames)
	if n == 0 {
		return Frame{}, &ImbalancedTagsError{Received: tag}
	}
	top := s.frames[n-1]
	s.frames[n-1] = Frame{}
	s.frames = s.frames[:n-1]
	if top.Tag != tag {
		return Frame{}, &ImbalancedTagsError{Expected: top.Tag, Received: tag}
	}
	return top, nil
}

// PushRendered adds lines as one child of the top frame and returns nil.
// With no frame open, lines are returned unchanged for top-level output.
func (s *RenderStack) PushRendered(lines []string) []string {
	n := len(s.frames)
	if n == 0 {
		return lines
	}
	s.frames[n-1].Children = append(s.frames[n-1].Children, lines)
	return nil
}

// Top returns the innermost open frame without removing it.
func (s *RenderStack) Top() (Frame, bool) {
	if len(s.frames) == 0 {
		return Frame{}, false
	}
	return s.frames[len(s.frames)-1], true
}

// Len returns the number of open frames.
func (s *RenderStack) Len() int {
	return len(s.frames)
}
