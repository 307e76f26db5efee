package models

// ScoredChunk is a retrieved chunk of source text with its similarity
// score, ordered by descending score.
type ScoredChunk struct {
	Content string
	Score   float32
}

// Paper holds the metadata of one arXiv search result.
type Paper struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Authors   string `json:"authors"`
	Summary   string `json:"summary"`
	Published string `json:"published"`
	AbsURL    string `json:"abs_url"`
	PDFURL    string `json:"pdf_url"`
}
