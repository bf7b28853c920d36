package handlers

// History is a bounded list of submitted command lines with a cursor for
// Up/Down browsing.
type History struct {
	entries []string
	limit   int
	pos     int
}

func NewHistory(limit int) *History {
	return &History{limit: limit}
}

// Add records line and resets the cursor. Blank lines and immediate
// repeats are skipped.
func (h *History) Add(line string) {
	defer h.Reset()
	if line == "" {
		return
	}
	if n := len(h.entries); n > 0 && h.entries[n-1] == line {
		return
	}
	h.entries = append(h.entries, line)
	if h.limit > 0 && len(h.entries) > h.limit {
		h.entries = h.entries[len(h.entries)-h.limit:]
	}
}

// Prev moves to the previous entry. ok is false when history is empty.
func (h *History) Prev() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	if h.pos > 0 {
		h.pos--
	}
	return h.entries[h.pos], true
}

// Next moves towards the newest entry; past it the line is blank.
func (h *History) Next() string {
	if h.pos < len(h.entries) {
		h.pos++
	}
	if h.pos == len(h.entries) {
		return ""
	}
	return h.entries[h.pos]
}

func (h *History) Reset() {
	h.pos = len(h.entries)
}

func (h *History) Len() int {
	return len(h.entries)
}
