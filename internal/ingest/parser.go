package ingest

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/unicode/norm"
)

const docxDocumentPath = "word/document.xml"

type Parsed struct {
	Title      string
	SourcePath string
	Format     string
	Text       string
}

// readers maps a lowercased extension to the function that extracts its text.
var readers = map[string]func(path string) (string, error){
	".txt":  readPlain,
	".md":   readPlain,
	".docx": readDOCX,
	".pdf":  readPDF,
}

// ParseFile extracts plain text from .txt, .md, .docx and .pdf files.
// Paragraphs are separated by one blank line.
func ParseFile(path string) (*Parsed, error) {
	ext := strings.ToLower(filepath.Ext(path))
	read, ok := readers[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported file type: %q", ext)
	}
	text, err := read(path)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return &Parsed{
		Title:      strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		SourcePath: path,
		Format:     strings.TrimPrefix(ext, "."),
		Text:       Normalize(text),
	}, nil
}

func readPlain(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func readDOCX(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return parseDOCX(raw)
}

// parseDOCX returns the text of word/document.xml, one paragraph per w:p.
func parseDOCX(raw []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("docx is not a zip archive: %w", err)
	}
	doc, err := archive.Open(docxDocumentPath)
	if err != nil {
		return "", fmt.Errorf("docx has no %s: %w", docxDocumentPath, err)
	}
	defer doc.Close()

	paragraphs, err := docxParagraphs(doc)
	if err != nil {
		return "", err
	}
	return strings.Join(paragraphs, "\n\n"), nil
}

func docxParagraphs(r io.Reader) ([]string, error) {
	var (
		paragraphs []string
		current    strings.Builder
		depth      int // open w:t elements
	)
	flush := func() {
		if current.Len() > 0 {
			paragraphs = append(paragraphs, current.String())
			current.Reset()
		}
	}

	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", docxDocumentPath, err)
		}
		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "t":
				depth++
			case "br":
				current.WriteByte('\n')
			case "tab":
				current.WriteByte('\t')
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "t":
				depth--
			case "p":
				flush()
			}
		case xml.CharData:
			if depth > 0 {
				current.Write(el)
			}
		}
	}
	flush()
	return paragraphs, nil
}

// readPDF joins the plain text of every readable page. Pages that fail to
// decode are skipped.
func readPDF(path string) (string, error) {
	file, doc, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	pages := make([]string, 0, doc.NumPage())
	for n := 1; n <= doc.NumPage(); n++ {
		page := doc.Page(n)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil || strings.TrimSpace(text) == "" {
			continue
		}
		pages = append(pages, text)
	}
	if len(pages) == 0 {
		return "", errors.New("pdf has no extractable text")
	}
	return strings.Join(pages, "\n\n"), nil
}

var blankLines = regexp.MustCompile(`\n{3,}`)

// Normalize converts text to NFC, unifies line endings, collapses runs of
// spaces inside lines and keeps at most one blank line between paragraphs.
func Normalize(text string) string {
	text = norm.NFC.String(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	text = strings.Join(lines, "\n")
	text = blankLines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
