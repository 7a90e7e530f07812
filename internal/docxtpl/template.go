// Package docxtpl renders .docx templates. A docx file is a zip archive of
// XML parts; placeholders like {invoiceid} live in the text of the main
// document part and its headers and footers. One repeating block,
// {#items}...{/items}, duplicates its enclosing table row (or paragraph) once
// per item.
//
// A Template is read-only after Open, so a single instance can render a whole
// batch, producing a fresh document each time.
package docxtpl

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

const documentPart = "word/document.xml"

const (
	itemsOpenTag  = "{#items}"
	itemsCloseTag = "{/items}"
)

// tagPattern matches a placeholder tag, including the loop markers.
var tagPattern = regexp.MustCompile(`\{[#/]?[A-Za-z][A-Za-z0-9_]*\}`)

// RenderData is the flat shape a template is filled from: scalar fields plus
// the ordered item rows for the repeating block.
type RenderData struct {
	Fields map[string]string
	Items  []map[string]string
}

// TemplateError reports placeholders the data did not cover, or malformed
// loop markers. It is a per-document failure, not a batch one.
type TemplateError struct {
	Tags []string
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("template: unresolved placeholders: %s", strings.Join(e.Tags, ", "))
}

// Template is a parsed .docx template.
type Template struct {
	files []templateFile
}

// templateFile is one archive entry, held in memory in original order.
type templateFile struct {
	name string
	data []byte
}

// Open parses template bytes. It fails when the bytes are not a zip archive
// or the archive has no main document part.
func Open(data []byte) (*Template, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open template: %w", err)
	}

	t := &Template{}
	hasDocument := false
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open template part %s: %w", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read template part %s: %w", f.Name, err)
		}
		t.files = append(t.files, templateFile{name: f.Name, data: content})
		if f.Name == documentPart {
			hasDocument = true
		}
	}
	if !hasDocument {
		return nil, errors.New("open template: not a docx document (missing word/document.xml)")
	}
	return t, nil
}

// Render produces a new document with every placeholder substituted. The
// template itself is left untouched.
func (t *Template) Render(data RenderData) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, f := range t.files {
		content := f.data
		if isTextPart(f.name) {
			filled, err := substitute(string(content), data)
			if err != nil {
				return nil, err
			}
			content = []byte(filled)
		}

		w, err := zw.Create(f.name)
		if err != nil {
			return nil, fmt.Errorf("write document part %s: %w", f.name, err)
		}
		if _, err := w.Write(content); err != nil {
			return nil, fmt.Errorf("write document part %s: %w", f.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize document: %w", err)
	}
	return buf.Bytes(), nil
}

// isTextPart reports whether an archive entry can contain placeholders.
func isTextPart(name string) bool {
	if name == documentPart {
		return true
	}
	if !strings.HasSuffix(name, ".xml") {
		return false
	}
	return strings.HasPrefix(name, "word/header") || strings.HasPrefix(name, "word/footer")
}

// substitute expands the items block, then fills scalar placeholders. Any tag
// still standing afterwards means the template and the data disagree.
func substitute(body string, data RenderData) (string, error) {
	body, err := expandItems(body, data.Items)
	if err != nil {
		return "", err
	}

	var unresolved []string
	out := tagPattern.ReplaceAllStringFunc(body, func(m string) string {
		key := m[1 : len(m)-1]
		v, ok := data.Fields[key]
		if !ok {
			unresolved = append(unresolved, key)
			return m
		}
		return encodeValue(v)
	})
	if len(unresolved) > 0 {
		return "", &TemplateError{Tags: unresolved}
	}
	return out, nil
}

// expandItems repeats the template's item region once per item. The region is
// the table rows enclosing the {#items} and {/items} markers, falling back to
// the enclosing paragraphs, so a one-row items table becomes one row per line
// item.
func expandItems(body string, items []map[string]string) (string, error) {
	open := strings.Index(body, itemsOpenTag)
	if open < 0 {
		return body, nil // no repeating block in this part
	}
	closing := strings.Index(body, itemsCloseTag)
	if closing < 0 || closing < open {
		return "", &TemplateError{Tags: []string{"#items"}}
	}
	afterClose := closing + len(itemsCloseTag)

	start, end := enclosingRegion(body, open, afterClose, "w:tr")
	if start < 0 {
		start, end = enclosingRegion(body, open, afterClose, "w:p")
	}
	if start < 0 {
		// Markers sit outside any row or paragraph (plain XML fixtures);
		// repeat the literal marker-to-marker span.
		start, end = open, afterClose
	}

	block := body[start:end]
	block = strings.ReplaceAll(block, itemsOpenTag, "")
	block = strings.ReplaceAll(block, itemsCloseTag, "")

	var sb strings.Builder
	for _, item := range items {
		sb.WriteString(tagPattern.ReplaceAllStringFunc(block, func(m string) string {
			if v, ok := item[m[1:len(m)-1]]; ok {
				return encodeValue(v)
			}
			return m // left for the scalar pass
		}))
	}
	return body[:start] + sb.String() + body[end:], nil
}

// enclosingRegion finds the span from the start of the <tag> element
// containing from to the end of the </tag> element after upto. Returns -1,-1
// when the markers are not wrapped in that element.
func enclosingRegion(body string, from, upto int, tag string) (int, int) {
	start := lastElementStart(body[:from], "<"+tag)
	if start < 0 {
		return -1, -1
	}
	closeTag := "</" + tag + ">"
	rel := strings.Index(body[upto:], closeTag)
	if rel < 0 {
		return -1, -1
	}
	return start, upto + rel + len(closeTag)
}

// lastElementStart is strings.LastIndex that will not confuse <w:p with
// <w:pPr or <w:tr with <w:trPr.
func lastElementStart(s, prefix string) int {
	for {
		i := strings.LastIndex(s, prefix)
		if i < 0 {
			return -1
		}
		j := i + len(prefix)
		if j >= len(s) || s[j] == '>' || s[j] == ' ' || s[j] == '/' {
			return i
		}
		s = s[:i]
	}
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// encodeValue escapes a value for the document XML and turns newlines into
// word line breaks. Values are assumed to sit inside a <w:t> run.
func encodeValue(v string) string {
	lines := strings.Split(v, "\n")
	for i, line := range lines {
		lines[i] = xmlEscaper.Replace(line)
	}
	return strings.Join(lines, "</w:t><w:br/><w:t>")
}
