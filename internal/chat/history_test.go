package chat

import "testing"

func TestTranscriptFormat(t *testing.T) {
	h := NewHistory()
	h.Append("Q1", "A1")
	h.Append("Q2", "A2")

	want := "User: Q1\nAssistant: A1\nUser: Q2\nAssistant: A2\n"
	if got := h.Transcript(); got != want {
		t.Errorf("Transcript() = %q, want %q", got, want)
	}
}

func TestTranscriptEmpty(t *testing.T) {
	h := NewHistory()
	if got := h.Transcript(); got != "" {
		t.Errorf("empty log should render as empty string, got %q", got)
	}
}

func TestClear(t *testing.T) {
	h := NewHistory()
	h.Append("Q", "A")
	h.Clear()
	if h.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", h.Len())
	}
	if h.Transcript() != "" {
		t.Error("transcript not empty after Clear")
	}
}

func TestEntriesPreserveOrder(t *testing.T) {
	h := NewHistory()
	h.Append("first", "1")
	h.Append("second", "2")
	h.Append("third", "3")

	entries := h.Entries()
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	for i, q := range []string{"first", "second", "third"} {
		if entries[i].Question != q {
			t.Errorf("entry %d question = %q, want %q", i, entries[i].Question, q)
		}
	}

	// mutating the copy must not touch the log
	entries[0].Question = "mutated"
	if h.Entries()[0].Question != "first" {
		t.Error("Entries() exposed internal state")
	}
}
