package monitor

// History is the append-only conversation log of one run.
type History struct {
	entries []string
}

func (h *History) Append(entries ...string) {
	h.entries = append(h.entries, entries...)
}

func (h *History) Len() int {
	return len(h.entries)
}

// Entries returns a copy so callers cannot rewrite past entries.
func (h *History) Entries() []string {
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}
