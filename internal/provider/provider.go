// Package provider materializes document tabs for the shell.
package provider

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"pkt.systems/docshell/core"
	"pkt.systems/docshell/schema"
)

var _ core.ContentSetter = (*Editor)(nil)

// FileReader loads document contents from storage.
type FileReader interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
}

// Provider creates blank and file-backed tabs with in-memory editors.
type Provider struct {
	reader  FileReader
	mu      sync.Mutex
	counter int
}

// New constructs a provider. reader may be nil when every file carries its contents.
func New(reader FileReader) *Provider {
	return &Provider{reader: reader}
}

// CreateTab returns a blank document named diagram_<n>.<type>.
func (p *Provider) CreateTab(ctx context.Context, docType schema.DocumentType) (core.TabSpec, error) {
	if err := ctx.Err(); err != nil {
		return core.TabSpec{}, err
	}
	template, ok := templates[docType]
	if !ok {
		return core.TabSpec{}, fmt.Errorf("%w: %s", schema.ErrUnsupportedType, docType)
	}
	p.mu.Lock()
	p.counter++
	n := p.counter
	p.mu.Unlock()
	name := fmt.Sprintf("diagram_%d.%s", n, docType)
	contents := []byte(fmt.Sprintf(template, n))
	return core.TabSpec{
		File:   schema.FileDescriptor{Name: name},
		Type:   docType,
		Editor: NewEditor(docType, contents),
	}, nil
}

// CreateTabForFile returns a tab for file, reading its contents when not supplied.
func (p *Provider) CreateTabForFile(ctx context.Context, file schema.FileDescriptor) (core.TabSpec, error) {
	if err := ctx.Err(); err != nil {
		return core.TabSpec{}, err
	}
	name := file.Name
	if name == "" {
		name = filepath.Base(file.Path)
	}
	docType, err := schema.DocumentTypeForName(name)
	if err != nil {
		return core.TabSpec{}, err
	}
	if _, ok := templates[docType]; !ok {
		return core.TabSpec{}, fmt.Errorf("%w: %s", schema.ErrUnsupportedType, docType)
	}
	contents := file.Contents
	if contents == nil && file.HasPath() && p.reader != nil {
		contents, err = p.reader.ReadFile(ctx, file.Path)
		if err != nil {
			return core.TabSpec{}, err
		}
	}
	return core.TabSpec{
		File:   schema.FileDescriptor{Name: name, Path: file.Path},
		Type:   docType,
		Editor: NewEditor(docType, contents),
	}, nil
}

var templates = map[schema.DocumentType]string{
	schema.DocumentBPMN: `<?xml version="1.0" encoding="UTF-8"?>
<bpmn:definitions xmlns:bpmn="http://www.omg.org/spec/BPMN/20100524/MODEL" id="Definitions_%[1]d" targetNamespace="http://bpmn.io/schema/bpmn">
  <bpmn:process id="Process_%[1]d" isExecutable="false">
    <bpmn:startEvent id="StartEvent_1" />
  </bpmn:process>
</bpmn:definitions>
`,
	schema.DocumentDMN: `<?xml version="1.0" encoding="UTF-8"?>
<definitions xmlns="http://www.omg.org/spec/DMN/20151101/dmn.xsd" id="definitions_%[1]d" name="Definitions" namespace="http://camunda.org/schema/1.0/dmn">
  <decision id="decision_%[1]d" name="Decision 1" />
</definitions>
`,
	schema.DocumentCMMN: `<?xml version="1.0" encoding="UTF-8"?>
<cmmn:definitions xmlns:cmmn="http://www.omg.org/spec/CMMN/20151109/MODEL" id="Definitions_%[1]d" targetNamespace="http://bpmn.io/schema/cmmn">
  <cmmn:case id="Case_%[1]d">
    <cmmn:casePlanModel id="CasePlanModel_1" name="A CasePlanModel" />
  </cmmn:case>
</cmmn:definitions>
`,
}
