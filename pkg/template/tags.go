package template

// tagTracker holds the per-load bookkeeping for tag rules. A fresh tracker is
// created for every load and never shared between calls.
type tagTracker struct {
	required   []string
	remaining  map[string]struct{}
	priorities map[string]map[string]struct{}
}

func newTagTracker(required []string) *tagTracker {
	t := &tagTracker{
		required:   append([]string(nil), required...),
		remaining:  make(map[string]struct{}, len(required)),
		priorities: make(map[string]map[string]struct{}),
	}
	for _, name := range required {
		t.remaining[name] = struct{}{}
	}
	return t
}

// observe records a tag in document order. It fails on the first repeated
// priority for the same tag name.
func (t *tagTracker) observe(tag Tag) error {
	delete(t.remaining, tag.Name)

	seen, ok := t.priorities[tag.Name]
	if !ok {
		seen = make(map[string]struct{})
		t.priorities[tag.Name] = seen
	}
	if _, dup := seen[tag.Priority]; dup {
		return &InvalidDocumentError{
			Reason:   ReasonDuplicatePriority,
			Tag:      tag.Name,
			Priority: tag.Priority,
		}
	}
	seen[tag.Priority] = struct{}{}
	return nil
}

// missing returns the required tags never observed, in configured order.
func (t *tagTracker) missing() []string {
	if len(t.remaining) == 0 {
		return nil
	}
	out := make([]string, 0, len(t.remaining))
	for _, name := range t.required {
		if _, ok := t.remaining[name]; ok {
			out = append(out, name)
		}
	}
	return out
}
