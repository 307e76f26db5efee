// Package fetcher downloads remote PDFs to temporary files, rejecting
// anything that is not actually a PDF.
package fetcher

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const userAgent = "research-rag/1.0"

var pdfMagic = []byte("%PDF")

// DownloadError reports a failed or rejected download. It is per-URL
// and non-fatal: the caller skips the source and continues.
type DownloadError struct {
	URL    string
	Reason string
	Err    error
}

func (e *DownloadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("download %s: %s: %v", e.URL, e.Reason, e.Err)
	}
	return fmt.Sprintf("download %s: %s", e.URL, e.Reason)
}

func (e *DownloadError) Unwrap() error { return e.Err }

// Fetcher downloads PDFs over HTTP with a bounded timeout.
type Fetcher struct {
	client *http.Client
}

func New(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Fetcher{client: &http.Client{Timeout: timeout}}
}

// Fetch downloads url into a temporary file and returns its path. The
// content must begin with the %PDF magic bytes or the download is
// rejected. The caller owns the returned file and should remove it
// when done.
func (f *Fetcher) Fetch(url string) (string, error) {
	url = NormalizeURL(url)

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return "", &DownloadError{URL: url, Reason: "invalid URL", Err: err}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &DownloadError{URL: url, Reason: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &DownloadError{URL: url, Reason: fmt.Sprintf("unexpected status %d", resp.StatusCode)}
	}

	if ct := strings.ToLower(resp.Header.Get("Content-Type")); ct != "" && !strings.Contains(ct, "application/pdf") {
		// some hosts mislabel PDFs; the magic-byte check below decides
		log.Warn().Str("url", url).Str("content_type", ct).Msg("URL may not be a PDF")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &DownloadError{URL: url, Reason: "reading body", Err: err}
	}

	if !bytes.HasPrefix(body, pdfMagic) {
		return "", &DownloadError{URL: url, Reason: "content is not a PDF"}
	}

	tmp, err := os.CreateTemp("", "research-rag-*.pdf")
	if err != nil {
		return "", &DownloadError{URL: url, Reason: "creating temp file", Err: err}
	}
	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", &DownloadError{URL: url, Reason: "writing temp file", Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", &DownloadError{URL: url, Reason: "closing temp file", Err: err}
	}
	return tmp.Name(), nil
}

// NormalizeURL rewrites arXiv abstract links to their direct PDF
// form, e.g. arxiv.org/abs/1512.03385 -> arxiv.org/pdf/1512.03385.pdf.
func NormalizeURL(url string) string {
	if strings.Contains(url, "arxiv.org/abs/") {
		paperID := strings.TrimSuffix(url[strings.Index(url, "/abs/")+len("/abs/"):], ".pdf")
		normalized := "https://arxiv.org/pdf/" + paperID + ".pdf"
		log.Info().Str("url", url).Str("pdf_url", normalized).Msg("converted arXiv URL to direct PDF link")
		return normalized
	}
	return url
}

// Cleanup removes downloaded temp files, logging rather than failing
// on anything it cannot delete.
func Cleanup(paths []string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", p).Msg("could not clean up temporary file")
		}
	}
}
