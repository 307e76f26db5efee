package chat

import "strings"

// Exchange is one question/answer pair in a conversation.
type Exchange struct {
	Question string
	Answer   string
}

// History is the ordered, append-only conversation log for one
// session. It is not persisted and resets on process restart.
type History struct {
	entries []Exchange
}

func NewHistory() *History {
	return &History{}
}

func (h *History) Append(question, answer string) {
	h.entries = append(h.entries, Exchange{Question: question, Answer: answer})
}

// Clear empties the log. Irreversible.
func (h *History) Clear() {
	h.entries = nil
}

func (h *History) Len() int {
	return len(h.entries)
}

// Entries returns a copy of the log in append order.
func (h *History) Entries() []Exchange {
	out := make([]Exchange, len(h.entries))
	copy(out, h.entries)
	return out
}

// Transcript renders the log as the flat prompt form
// "User: ...\nAssistant: ...\n". An empty log renders as an empty
// string.
func (h *History) Transcript() string {
	var b strings.Builder
	for _, e := range h.entries {
		b.WriteString("User: ")
		b.WriteString(e.Question)
		b.WriteString("\nAssistant: ")
		b.WriteString(e.Answer)
		b.WriteString("\n")
	}
	return b.String()
}
