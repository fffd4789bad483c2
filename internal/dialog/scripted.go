// Package dialog provides save and export prompts for the core service.
package dialog

import (
	"context"
	"sync"

	"pkt.systems/docshell/schema"
)

// Scripted answers prompts from queued responses. An empty queue answers cancel.
type Scripted struct {
	mu      sync.Mutex
	saves   []schema.SaveChoice
	saveAs  []schema.SaveAsResult
	exports []schema.ExportAsResult
	asked   []Prompt
}

// Prompt records a question asked through a Scripted dialog.
type Prompt struct {
	Kind string
	Tab  schema.TabID
}

// NewScripted constructs an empty scripted dialog.
func NewScripted() *Scripted {
	return &Scripted{}
}

// QueueSave appends answers for AskSave.
func (s *Scripted) QueueSave(choices ...schema.SaveChoice) {
	s.mu.Lock()
	s.saves = append(s.saves, choices...)
	s.mu.Unlock()
}

// QueueSaveAs appends answers for AskSaveAs.
func (s *Scripted) QueueSaveAs(results ...schema.SaveAsResult) {
	s.mu.Lock()
	s.saveAs = append(s.saveAs, results...)
	s.mu.Unlock()
}

// QueueExportAs appends answers for AskExportAs.
func (s *Scripted) QueueExportAs(results ...schema.ExportAsResult) {
	s.mu.Lock()
	s.exports = append(s.exports, results...)
	s.mu.Unlock()
}

// Asked returns the prompts shown so far.
func (s *Scripted) Asked() []Prompt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Prompt(nil), s.asked...)
}

// AskSave pops the next save choice.
func (s *Scripted) AskSave(ctx context.Context, tab schema.TabSnapshot) (schema.SaveChoice, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.asked = append(s.asked, Prompt{Kind: "save", Tab: tab.ID})
	if len(s.saves) == 0 {
		return schema.SaveChoiceCancel, nil
	}
	choice := s.saves[0]
	s.saves = s.saves[1:]
	return choice, nil
}

// AskSaveAs pops the next save location.
func (s *Scripted) AskSaveAs(ctx context.Context, tab schema.TabSnapshot) (schema.SaveAsResult, error) {
	if err := ctx.Err(); err != nil {
		return schema.SaveAsResult{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.asked = append(s.asked, Prompt{Kind: "save-as", Tab: tab.ID})
	if len(s.saveAs) == 0 {
		return schema.SaveAsResult{Cancelled: true}, nil
	}
	result := s.saveAs[0]
	s.saveAs = s.saveAs[1:]
	return result, nil
}

// AskExportAs pops the next export location.
func (s *Scripted) AskExportAs(ctx context.Context, tab schema.TabSnapshot) (schema.ExportAsResult, error) {
	if err := ctx.Err(); err != nil {
		return schema.ExportAsResult{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.asked = append(s.asked, Prompt{Kind: "export-as", Tab: tab.ID})
	if len(s.exports) == 0 {
		return schema.ExportAsResult{Cancelled: true}, nil
	}
	result := s.exports[0]
	s.exports = s.exports[1:]
	return result, nil
}
