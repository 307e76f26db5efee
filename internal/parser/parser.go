// Package parser extracts plain text from document files. Extraction
// never fails on malformed content inside a file; recoverable
// per-page or per-section problems are reported as warnings alongside
// whatever text could be recovered.
package parser

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/tealeg/xlsx"
	"github.com/xuri/excelize/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"
)

// Extraction is the result of pulling text out of one source file.
type Extraction struct {
	Text     string
	Warnings []string
}

// Extract reads the file at path and returns its text content. The
// format is chosen by extension. An unreadable or unsupported file is
// an error; a readable file with broken pages yields partial text and
// warnings.
func Extract(path string) (Extraction, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".pdf":
		return extractPDF(path)
	case ".docx":
		return extractDOCX(path)
	case ".pptx":
		return extractPPTX(path)
	case ".xlsx":
		return extractXLSX(path)
	case ".ods":
		return extractODS(path)
	case ".md", ".markdown":
		return extractMarkdown(path)
	case ".txt":
		return extractText(path)
	default:
		return Extraction{}, fmt.Errorf("unsupported file format: %s", ext)
	}
}

func extractPDF(path string) (out Extraction, err error) {
	// the pdf library panics on some malformed files; treat that the
	// same as any other unreadable document
	defer func() {
		if r := recover(); r != nil {
			out.Warnings = append(out.Warnings, fmt.Sprintf("%s: not a readable PDF: %v", filepath.Base(path), r))
			err = nil
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		return Extraction{}, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return Extraction{}, err
	}
	if stat.Size() == 0 {
		return Extraction{Warnings: []string{fmt.Sprintf("%s: file is empty", filepath.Base(path))}}, nil
	}

	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		// corrupted file, not a caller error: report and move on
		return Extraction{Warnings: []string{fmt.Sprintf("%s: not a readable PDF: %v", filepath.Base(path), err)}}, nil
	}

	var text strings.Builder
	numPages := reader.NumPage()
	if numPages == 0 {
		out.Warnings = append(out.Warnings, fmt.Sprintf("%s: PDF has no pages", filepath.Base(path)))
		return out, nil
	}
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			out.Warnings = append(out.Warnings, fmt.Sprintf("%s: page %d is missing", filepath.Base(path), i))
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			out.Warnings = append(out.Warnings, fmt.Sprintf("%s: page %d: %v", filepath.Base(path), i, err))
			continue
		}
		if strings.TrimSpace(pageText) != "" {
			text.WriteString(pageText)
			text.WriteString("\n")
		}
	}
	out.Text = text.String()
	return out, nil
}

func extractDOCX(path string) (Extraction, error) {
	r, err := docx.ReadDocxFile(path)
	if err != nil {
		return Extraction{}, err
	}
	defer r.Close()

	content := r.Editable().GetContent()
	var text strings.Builder
	for _, p := range strings.Split(content, "\n") {
		if strings.TrimSpace(p) == "" {
			continue
		}
		text.WriteString(p)
		text.WriteString("\n")
	}
	return Extraction{Text: text.String()}, nil
}

func extractPPTX(path string) (Extraction, error) {
	f, err := zip.OpenReader(path)
	if err != nil {
		return Extraction{}, err
	}
	defer f.Close()

	var out Extraction
	var text strings.Builder
	for _, file := range f.File {
		if !strings.HasPrefix(file.Name, "ppt/slides/slide") {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			out.Warnings = append(out.Warnings, fmt.Sprintf("%s: %s: %v", filepath.Base(path), file.Name, err))
			continue
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			out.Warnings = append(out.Warnings, fmt.Sprintf("%s: %s: %v", filepath.Base(path), file.Name, err))
			continue
		}
		slideText := extractTextFromXML(string(data))
		if strings.TrimSpace(slideText) != "" {
			text.WriteString(slideText)
			text.WriteString("\n")
		}
	}
	out.Text = text.String()
	return out, nil
}

func extractXLSX(path string) (Extraction, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return Extraction{}, err
	}

	var text strings.Builder
	for _, sheet := range f.Sheets {
		text.WriteString(fmt.Sprintf("Sheet: %s\n", sheet.Name))
		for _, row := range sheet.Rows {
			for _, cell := range row.Cells {
				text.WriteString(cell.String())
				text.WriteString("\t")
			}
			text.WriteString("\n")
		}
	}
	return Extraction{Text: text.String()}, nil
}

func extractODS(path string) (Extraction, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Extraction{}, err
	}
	defer f.Close()

	var out Extraction
	var text strings.Builder
	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			out.Warnings = append(out.Warnings, fmt.Sprintf("%s: sheet %s: %v", filepath.Base(path), sheetName, err))
			continue
		}
		text.WriteString(fmt.Sprintf("Sheet: %s\n", sheetName))
		for _, row := range rows {
			for _, cell := range row {
				text.WriteString(cell)
				text.WriteString("\t")
			}
			text.WriteString("\n")
		}
	}
	out.Text = text.String()
	return out, nil
}

func extractText(path string) (Extraction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Extraction{}, err
	}
	return Extraction{Text: string(data)}, nil
}

// extractMarkdown parses the file with goldmark and collects the text
// segments of the document tree, keeping block boundaries as newlines.
func extractMarkdown(path string) (Extraction, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return Extraction{}, err
	}

	md := goldmark.New()
	doc := md.Parser().Parse(gmtext.NewReader(src))

	var text strings.Builder
	err = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if _, ok := n.(*ast.Paragraph); ok {
				text.WriteString("\n\n")
			}
			if _, ok := n.(*ast.Heading); ok {
				text.WriteString("\n")
			}
			return ast.WalkContinue, nil
		}
		if t, ok := n.(*ast.Text); ok {
			text.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				text.WriteString("\n")
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return Extraction{}, err
	}
	return Extraction{Text: text.String()}, nil
}

func extractTextFromXML(xmlContent string) string {
	var text strings.Builder
	parts := strings.Split(xmlContent, "<a:t>")
	for i, part := range parts {
		if i == 0 {
			continue
		}
		endIdx := strings.Index(part, "</a:t>")
		if endIdx >= 0 {
			text.WriteString(part[:endIdx] + " ")
		}
	}
	return text.String()
}
