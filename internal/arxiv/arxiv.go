// Package arxiv queries the arXiv Atom API for paper metadata. It is
// only used to produce candidate PDF URLs for the fetcher.
package arxiv

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"research-rag/internal/models"
)

const userAgent = "research-rag/1.0"

type Client struct {
	baseURL    string
	maxResults int
	httpClient *http.Client
}

func NewClient(baseURL string, maxResults int) *Client {
	if baseURL == "" {
		baseURL = "http://export.arxiv.org/api/query"
	}
	if maxResults <= 0 {
		maxResults = 5
	}
	return &Client{
		baseURL:    baseURL,
		maxResults: maxResults,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type feed struct {
	Entries []entry `xml:"entry"`
}

type entry struct {
	ID        string   `xml:"id"`
	Title     string   `xml:"title"`
	Summary   string   `xml:"summary"`
	Published string   `xml:"published"`
	Authors   []author `xml:"author"`
	Links     []link   `xml:"link"`
}

type author struct {
	Name string `xml:"name"`
}

type link struct {
	Rel   string `xml:"rel,attr"`
	Href  string `xml:"href,attr"`
	Title string `xml:"title,attr"`
}

// Search returns up to maxResults papers matching query, ordered by
// relevance. An empty query returns no results without a request.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]models.Paper, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	if maxResults <= 0 {
		maxResults = c.maxResults
	}

	params := url.Values{}
	params.Set("search_query", "all:"+query)
	params.Set("start", "0")
	params.Set("max_results", strconv.Itoa(maxResults))
	params.Set("sortBy", "relevance")
	params.Set("sortOrder", "descending")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arxiv search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arxiv search: unexpected status %d", resp.StatusCode)
	}

	var f feed
	if err := xml.NewDecoder(resp.Body).Decode(&f); err != nil {
		return nil, fmt.Errorf("arxiv search: parsing feed: %w", err)
	}

	papers := make([]models.Paper, 0, len(f.Entries))
	for _, e := range f.Entries {
		papers = append(papers, toPaper(e))
	}
	return papers, nil
}

func toPaper(e entry) models.Paper {
	p := models.Paper{
		ID:        e.ID,
		Title:     strings.TrimSpace(e.Title),
		Summary:   strings.TrimSpace(e.Summary),
		Published: e.Published,
	}

	names := make([]string, 0, len(e.Authors))
	for _, a := range e.Authors {
		if a.Name != "" {
			names = append(names, a.Name)
		}
	}
	p.Authors = strings.Join(names, ", ")

	for _, l := range e.Links {
		if l.Rel == "alternate" && strings.Contains(l.Href, "arxiv.org/abs/") {
			p.AbsURL = l.Href
		}
		if strings.EqualFold(l.Title, "pdf") || (l.Rel == "related" && strings.HasSuffix(l.Href, ".pdf")) {
			p.PDFURL = l.Href
		}
	}

	// derive the PDF link from the abstract link when the feed has none
	if p.PDFURL == "" && p.AbsURL != "" {
		code := p.AbsURL[strings.Index(p.AbsURL, "/abs/")+len("/abs/"):]
		p.PDFURL = "https://arxiv.org/pdf/" + code + ".pdf"
	}
	return p
}
