package ingest

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"checktxt/internal/chunk"
)

// WriteFile saves text as .txt, .md or .docx. For .docx every blank-line
// separated block becomes one paragraph.
func WriteFile(path, text string) error {
	var data []byte
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".txt", ".md":
		data = []byte(text)
		if !strings.HasSuffix(text, "\n") {
			data = append(data, '\n')
		}
	case ".docx":
		var err error
		data, err = buildDOCX(chunk.Paragraphs(text))
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported export type: %q", ext)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

const (
	contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`
	relsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`
	documentHead = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`
	documentTail = `</w:body></w:document>`
)

func buildDOCX(paragraphs []string) ([]byte, error) {
	var doc bytes.Buffer
	doc.WriteString(documentHead)
	for _, p := range paragraphs {
		doc.WriteString(`<w:p>`)
		for i, line := range strings.Split(p, "\n") {
			if i > 0 {
				doc.WriteString(`<w:r><w:br/></w:r>`)
			}
			doc.WriteString(`<w:r><w:t xml:space="preserve">`)
			if err := xml.EscapeText(&doc, []byte(line)); err != nil {
				return nil, fmt.Errorf("escape paragraph: %w", err)
			}
			doc.WriteString(`</w:t></w:r>`)
		}
		doc.WriteString(`</w:p>`)
	}
	doc.WriteString(documentTail)

	var out bytes.Buffer
	zw := zip.NewWriter(&out)
	parts := []struct {
		name string
		body []byte
	}{
		{"[Content_Types].xml", []byte(contentTypesXML)},
		{"_rels/.rels", []byte(relsXML)},
		{docxDocumentPath, doc.Bytes()},
	}
	for _, part := range parts {
		w, err := zw.Create(part.name)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", part.name, err)
		}
		if _, err := w.Write(part.body); err != nil {
			return nil, fmt.Errorf("write %s: %w", part.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close docx: %w", err)
	}
	return out.Bytes(), nil
}
