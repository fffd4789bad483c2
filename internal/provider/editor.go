package provider

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"strings"
	"sync"

	"pkt.systems/docshell/schema"
)

// ErrEditorClosed indicates use of an editor after its tab closed.
var ErrEditorClosed = errors.New("editor closed")

// exportTypes lists the formats each document type can be exported to.
var exportTypes = map[schema.DocumentType][]string{
	schema.DocumentBPMN: {"bpmn", "xml", "svg"},
	schema.DocumentDMN:  {"dmn", "xml"},
	schema.DocumentCMMN: {"cmmn", "xml", "svg"},
}

// Editor holds a document in memory.
type Editor struct {
	docType  schema.DocumentType
	mu       sync.Mutex
	contents []byte
	closed   bool
}

// NewEditor constructs an editor over contents.
func NewEditor(docType schema.DocumentType, contents []byte) *Editor {
	return &Editor{docType: docType, contents: append([]byte(nil), contents...)}
}

// Contents returns the current document.
func (e *Editor) Contents(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrEditorClosed
	}
	return append([]byte(nil), e.contents...), nil
}

// SetContents replaces the document.
func (e *Editor) SetContents(contents []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrEditorClosed
	}
	e.contents = append([]byte(nil), contents...)
	return nil
}

// Export renders the document as fileType.
func (e *Editor) Export(ctx context.Context, fileType string) ([]byte, error) {
	contents, err := e.Contents(ctx)
	if err != nil {
		return nil, err
	}
	fileType = strings.ToLower(strings.TrimSpace(fileType))
	if !ExportSupported(e.docType, fileType) {
		return nil, fmt.Errorf("%w: %s to %s", schema.ErrUnsupportedExport, e.docType, fileType)
	}
	if fileType != "svg" {
		return contents, nil
	}
	var buf bytes.Buffer
	buf.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" width="100" height="100"><desc>`)
	if err := xml.EscapeText(&buf, contents); err != nil {
		return nil, err
	}
	buf.WriteString("</desc></svg>\n")
	return buf.Bytes(), nil
}

// Close releases the editor. Further use fails with ErrEditorClosed.
func (e *Editor) Close() error {
	e.mu.Lock()
	e.closed = true
	e.contents = nil
	e.mu.Unlock()
	return nil
}

// ExportSupported reports whether docType can be exported as fileType.
func ExportSupported(docType schema.DocumentType, fileType string) bool {
	for _, t := range exportTypes[docType] {
		if t == fileType {
			return true
		}
	}
	return false
}
