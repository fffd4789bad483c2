package dialog

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"pkt.systems/docshell/schema"
)

// Console asks questions on a line-oriented terminal. End of input answers cancel.
type Console struct {
	mu  sync.Mutex
	in  *bufio.Reader
	out io.Writer
}

// NewConsole constructs a console dialog. A *bufio.Reader is used as is so callers
// can share it with other line readers.
func NewConsole(in io.Reader, out io.Writer) *Console {
	reader, ok := in.(*bufio.Reader)
	if !ok {
		reader = bufio.NewReader(in)
	}
	if out == nil {
		out = io.Discard
	}
	return &Console{in: reader, out: out}
}

// AskSave asks whether to save, discard, or keep a dirty tab.
func (c *Console) AskSave(ctx context.Context, tab schema.TabSnapshot) (schema.SaveChoice, error) {
	answer, err := c.ask(ctx, fmt.Sprintf("Save changes to %s before closing? [s]ave/[d]iscard/[c]ancel: ", tab.File.Name))
	if err != nil {
		return "", err
	}
	switch strings.ToLower(answer) {
	case "s", "save", "y", "yes":
		return schema.SaveChoiceSave, nil
	case "d", "discard", "n", "no":
		return schema.SaveChoiceDiscard, nil
	default:
		return schema.SaveChoiceCancel, nil
	}
}

// AskSaveAs asks for a save location. An empty answer cancels.
func (c *Console) AskSaveAs(ctx context.Context, tab schema.TabSnapshot) (schema.SaveAsResult, error) {
	answer, err := c.ask(ctx, fmt.Sprintf("Save %s as (empty to cancel): ", tab.File.Name))
	if err != nil {
		return schema.SaveAsResult{}, err
	}
	if answer == "" {
		return schema.SaveAsResult{Cancelled: true}, nil
	}
	return schema.SaveAsResult{Name: filepath.Base(answer), Path: answer}, nil
}

// AskExportAs asks for an export location. The file type follows the extension.
func (c *Console) AskExportAs(ctx context.Context, tab schema.TabSnapshot) (schema.ExportAsResult, error) {
	answer, err := c.ask(ctx, fmt.Sprintf("Export %s as (empty to cancel): ", tab.File.Name))
	if err != nil {
		return schema.ExportAsResult{}, err
	}
	if answer == "" {
		return schema.ExportAsResult{Cancelled: true}, nil
	}
	return schema.ExportAsResult{
		FileType: strings.ToLower(strings.TrimPrefix(filepath.Ext(answer), ".")),
		Name:     filepath.Base(answer),
		Path:     answer,
	}, nil
}

func (c *Console) ask(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := io.WriteString(c.out, prompt); err != nil {
		return "", err
	}
	line, err := c.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	if errors.Is(err, io.EOF) {
		_, _ = io.WriteString(c.out, "\n")
	}
	return strings.TrimSpace(line), nil
}
