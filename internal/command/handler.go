package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"pkt.systems/docshell/core"
	"pkt.systems/docshell/internal/logx"
	"pkt.systems/docshell/schema"
)

// HandlerConfig configures action line behavior.
type HandlerConfig struct {
	DisableAuditLogging bool
	// Files loads replacement documents for the edit command.
	Files FileReader
}

// FileReader loads document contents from storage.
type FileReader interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
}

// Handler routes action lines to service operations and prints results.
type Handler struct {
	service core.Service
	out     io.Writer
	cfg     HandlerConfig
}

// NewHandler constructs a command handler writing results to out.
func NewHandler(service core.Service, out io.Writer, cfg HandlerConfig) *Handler {
	if out == nil {
		out = io.Discard
	}
	return &Handler{service: service, out: out, cfg: cfg}
}

// Handle executes one action line. It reports false for blank and comment lines.
func (h *Handler) Handle(ctx context.Context, input string) (bool, error) {
	if ctx == nil {
		return false, errors.New("missing context")
	}
	cmd, ok := Parse(input)
	if !ok {
		return false, nil
	}
	log := logx.Ctx(ctx)
	if !h.cfg.DisableAuditLogging {
		log.Debug("audit command", "command", cmd.Raw)
	}
	log = log.With("command", cmd.Name, "args", len(cmd.Args))
	log.Info("command request")
	var err error
	switch cmd.Name {
	case "":
		log.Warn("command rejected", "reason", "empty")
		return true, fmt.Errorf("invalid command")
	case "new":
		err = h.handleNew(ctx, cmd)
	case "open":
		err = h.handleOpen(ctx, cmd)
	case "select":
		err = h.handleSelect(ctx, cmd)
	case "close":
		err = h.handleClose(ctx, cmd)
	case "closeall":
		err = h.handleCloseAll(ctx)
	case "save":
		err = h.handleSave(ctx, cmd, false)
	case "saveas":
		err = h.handleSave(ctx, cmd, true)
	case "export":
		err = h.handleExport(ctx, cmd)
	case "back":
		err = h.handleNavigate(ctx, -1)
	case "forward":
		err = h.handleNavigate(ctx, 1)
	case "next":
		err = h.handleCycle(ctx, 1)
	case "prev":
		err = h.handleCycle(ctx, -1)
	case "reopen":
		err = h.handleReopen(ctx)
	case "edit":
		err = h.handleEdit(ctx, cmd)
	case "dirty":
		err = h.handleDirty(ctx, cmd, true)
	case "clean":
		err = h.handleDirty(ctx, cmd, false)
	case "shown":
		err = h.handleShown(ctx, cmd)
	case "list":
		err = h.handleList(ctx)
	case "help":
		h.printf("%s\n", strings.Join(helpLines(), "\n"))
	default:
		if isAction(cmd.Name) {
			err = h.handleAction(ctx, schema.ActionName(cmd.Name), cmd)
			break
		}
		log.Warn("command rejected", "reason", "unknown")
		return true, fmt.Errorf("unknown command: %s", cmd.Name)
	}
	if err != nil {
		log.Warn("command failed", "err", err)
	}
	return true, err
}

func (h *Handler) handleNew(ctx context.Context, cmd Command) error {
	if len(cmd.Args) > 1 {
		return fmt.Errorf("usage: new [type]")
	}
	req := schema.CreateDiagramRequest{}
	if len(cmd.Args) == 1 {
		req.Type = schema.DocumentType(cmd.Args[0])
	}
	resp, err := h.service.CreateDiagram(ctx, req)
	if err != nil {
		return err
	}
	h.printf("created %s\n", formatTab(resp.Tab))
	return nil
}

func (h *Handler) handleOpen(ctx context.Context, cmd Command) error {
	if len(cmd.Args) == 0 {
		return fmt.Errorf("usage: open <path>...")
	}
	files := make([]schema.FileDescriptor, 0, len(cmd.Args))
	for _, arg := range cmd.Args {
		files = append(files, schema.FileDescriptor{Name: filepath.Base(arg), Path: arg})
	}
	resp, err := h.service.OpenFiles(ctx, schema.OpenFilesRequest{Files: files})
	for _, tab := range resp.Tabs {
		h.printf("opened %s\n", formatTab(tab))
	}
	return err
}

func (h *Handler) handleSelect(ctx context.Context, cmd Command) error {
	if len(cmd.Args) != 1 {
		return fmt.Errorf("usage: select <tab>")
	}
	tabID, err := h.resolve(ctx, cmd.Args[0])
	if err != nil {
		return err
	}
	resp, err := h.service.SelectTab(ctx, schema.SelectTabRequest{TabID: tabID})
	if err != nil {
		return err
	}
	h.printf("active %s\n", formatTab(resp.Tab))
	return nil
}

func (h *Handler) handleClose(ctx context.Context, cmd Command) error {
	tabID, err := h.target(ctx, cmd)
	if err != nil {
		return err
	}
	resp, err := h.service.CloseTab(ctx, schema.CloseTabRequest{TabID: tabID})
	if err != nil {
		return err
	}
	if !resp.Closed {
		h.printf("kept %s\n", formatTab(resp.Tab))
		return nil
	}
	h.printf("closed %s\n", formatTab(resp.Tab))
	return nil
}

func (h *Handler) handleCloseAll(ctx context.Context) error {
	resp, err := h.service.CloseTabs(ctx, schema.CloseTabsRequest{})
	for _, tab := range resp.Closed {
		h.printf("closed %s\n", formatTab(tab))
	}
	for _, tab := range resp.Kept {
		h.printf("kept %s\n", formatTab(tab))
	}
	return err
}

func (h *Handler) handleSave(ctx context.Context, cmd Command, saveAs bool) error {
	tabID, err := h.target(ctx, cmd)
	if err != nil {
		return err
	}
	resp, err := h.service.SaveTab(ctx, schema.SaveTabRequest{TabID: tabID, SaveAs: saveAs})
	if err != nil {
		return err
	}
	if !resp.Saved {
		h.printf("save cancelled %s\n", formatTab(resp.Tab))
		return nil
	}
	h.printf("saved %s\n", formatTab(resp.Tab))
	return nil
}

func (h *Handler) handleExport(ctx context.Context, cmd Command) error {
	tabID, err := h.target(ctx, cmd)
	if err != nil {
		return err
	}
	resp, err := h.service.ExportTab(ctx, schema.ExportTabRequest{TabID: tabID})
	if err != nil {
		return err
	}
	if !resp.Exported {
		h.printf("export cancelled %s\n", formatTab(resp.Tab))
		return nil
	}
	h.printf("exported %s to %s (%s)\n", resp.Tab.ID, resp.Target.Path, resp.Target.FileType)
	return nil
}

func (h *Handler) handleNavigate(ctx context.Context, delta int) error {
	resp, err := h.service.Navigate(ctx, schema.NavigateRequest{Delta: delta})
	if err != nil {
		return err
	}
	h.printf("active %s\n", formatTab(resp.Tab))
	return nil
}

func (h *Handler) handleCycle(ctx context.Context, delta int) error {
	resp, err := h.service.CycleTab(ctx, schema.CycleTabRequest{Delta: delta})
	if err != nil {
		return err
	}
	h.printf("active %s\n", formatTab(resp.Tab))
	return nil
}

func (h *Handler) handleReopen(ctx context.Context) error {
	resp, err := h.service.ReopenLastTab(ctx, schema.ReopenLastTabRequest{})
	if err != nil {
		return err
	}
	h.printf("reopened %s\n", formatTab(resp.Tab))
	return nil
}

func (h *Handler) handleDirty(ctx context.Context, cmd Command, dirty bool) error {
	tabID, err := h.target(ctx, cmd)
	if err != nil {
		return err
	}
	resp, err := h.service.SetTabDirty(ctx, schema.SetTabDirtyRequest{TabID: tabID, Dirty: dirty})
	if err != nil {
		return err
	}
	h.printf("%s %s\n", resp.Tab.State, formatTab(resp.Tab))
	return nil
}

func (h *Handler) handleEdit(ctx context.Context, cmd Command) error {
	if len(cmd.Args) != 2 {
		return fmt.Errorf("usage: edit <tab> <file>")
	}
	if h.cfg.Files == nil {
		return fmt.Errorf("edit is unavailable: no file reader configured")
	}
	tabID, err := h.resolve(ctx, cmd.Args[0])
	if err != nil {
		return err
	}
	contents, err := h.cfg.Files.ReadFile(ctx, cmd.Args[1])
	if err != nil {
		return fmt.Errorf("read %s: %w", cmd.Args[1], err)
	}
	resp, err := h.service.EditTab(ctx, schema.EditTabRequest{TabID: tabID, Contents: contents})
	if err != nil {
		return err
	}
	h.printf("%s %s\n", resp.Tab.State, formatTab(resp.Tab))
	return nil
}

func (h *Handler) handleShown(ctx context.Context, cmd Command) error {
	tabID, err := h.target(ctx, cmd)
	if err != nil {
		return err
	}
	_, err = h.service.HandleTabShown(ctx, schema.TabShownRequest{TabID: tabID})
	return err
}

func (h *Handler) handleList(ctx context.Context) error {
	resp, err := h.service.ListTabs(ctx, schema.ListTabsRequest{})
	if err != nil {
		return err
	}
	if len(resp.Tabs) == 0 {
		h.printf("no tabs\n")
		return nil
	}
	for i, tab := range resp.Tabs {
		marker := " "
		if tab.ID == resp.ActiveTab {
			marker = "*"
		}
		h.printf("%s %d. %s [%s]\n", marker, i+1, formatTab(tab), tab.State)
	}
	return nil
}

func (h *Handler) handleAction(ctx context.Context, action schema.ActionName, cmd Command) error {
	req := schema.TriggerActionRequest{Action: action}
	switch action {
	case schema.ActionCreateDiagram:
		if len(cmd.Args) > 0 {
			req.Type = schema.DocumentType(cmd.Args[0])
		}
	case schema.ActionSelectTab:
		if len(cmd.Args) > 0 {
			delta, err := strconv.Atoi(cmd.Args[0])
			if err != nil {
				return fmt.Errorf("usage: %s [delta]", action)
			}
			req.Delta = delta
		}
	default:
		if len(cmd.Args) > 0 {
			tabID, err := h.resolve(ctx, cmd.Args[0])
			if err != nil {
				return err
			}
			req.TabID = tabID
		}
	}
	ctx = logx.ContextWithActionLogger(ctx, logx.WithAction(ctx, action), action)
	resp, err := h.service.TriggerAction(ctx, req)
	if err != nil {
		return err
	}
	if resp.Tab != nil {
		h.printf("%s %s\n", action, formatTab(*resp.Tab))
	} else {
		h.printf("%s done\n", action)
	}
	return nil
}

// target resolves the optional tab argument, defaulting to the active tab.
func (h *Handler) target(ctx context.Context, cmd Command) (schema.TabID, error) {
	if len(cmd.Args) > 1 {
		return "", fmt.Errorf("usage: %s [tab]", cmd.Name)
	}
	if len(cmd.Args) == 1 {
		return h.resolve(ctx, cmd.Args[0])
	}
	resp, err := h.service.ListTabs(ctx, schema.ListTabsRequest{})
	if err != nil {
		return "", err
	}
	if resp.ActiveTab == "" {
		return "", errors.New("no active tab")
	}
	return resp.ActiveTab, nil
}

func (h *Handler) resolve(ctx context.Context, ref string) (schema.TabID, error) {
	resp, err := h.service.ListTabs(ctx, schema.ListTabsRequest{})
	if err != nil {
		return "", err
	}
	return resolveTabRef(ref, resp.Tabs)
}

func (h *Handler) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(h.out, format, args...)
}

func isAction(name string) bool {
	for _, action := range schema.Actions() {
		if string(action) == name {
			return true
		}
	}
	return false
}

func helpLines() []string {
	lines := []string{
		"Commands",
		"  new [type]          create a blank diagram",
		"  open <path>...      open files",
		"  select <tab>        activate a tab by id, position, or name",
		"  close [tab]         close a tab",
		"  closeall            close every tab",
		"  save [tab]          save, asking for a location when unsaved",
		"  saveas [tab]        save to a new location",
		"  export [tab]        export to another format",
		"  back, forward       walk the activation history",
		"  next, prev          cycle through tabs",
		"  reopen              reopen the last closed file",
		"  edit <tab> <file>   replace a tab's document with a file's contents",
		"  dirty|clean [tab]   mark a tab edited or unedited",
		"  shown [tab]         report a tab as shown",
		"  list                list tabs",
		"Actions",
	}
	for _, action := range schema.Actions() {
		lines = append(lines, "  "+string(action))
	}
	return lines
}

func formatTab(tab schema.TabSnapshot) string {
	if tab.File.Path != "" {
		return fmt.Sprintf("%s %s (%s)", tab.ID, tab.File.Name, tab.File.Path)
	}
	return fmt.Sprintf("%s %s", tab.ID, tab.File.Name)
}

func resolveTabRef(ref string, tabs []schema.TabSnapshot) (schema.TabID, error) {
	for _, tab := range tabs {
		if string(tab.ID) == ref {
			return tab.ID, nil
		}
	}
	if idx, err := strconv.Atoi(ref); err == nil {
		if idx <= 0 || idx > len(tabs) {
			return "", fmt.Errorf("tab index out of range")
		}
		return tabs[idx-1].ID, nil
	}
	for _, tab := range tabs {
		if strings.EqualFold(tab.File.Name, ref) || (tab.File.Path != "" && tab.File.Path == ref) {
			return tab.ID, nil
		}
	}
	return "", fmt.Errorf("%w: %s", schema.ErrTabNotFound, ref)
}
