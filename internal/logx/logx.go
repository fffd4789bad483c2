package logx

import (
	"context"

	"pkt.systems/docshell/schema"
	"pkt.systems/pslog"
)

type contextKey int

const (
	tabKey contextKey = iota
	actionKey
)

// Ctx returns the logger bound to the provided context.
func Ctx(ctx context.Context) pslog.Logger {
	return pslog.Ctx(ctx)
}

// WithTab annotates the logger with the tab id if present.
func WithTab(ctx context.Context, tabID schema.TabID) pslog.Logger {
	log := pslog.Ctx(ctx)
	if tabID != "" {
		if current, ok := ctx.Value(tabKey).(schema.TabID); ok && current == tabID {
			return log
		}
		log = log.With("tab", tabID)
	}
	return log
}

// WithAction annotates the logger with the triggering action name.
func WithAction(ctx context.Context, action schema.ActionName) pslog.Logger {
	log := pslog.Ctx(ctx)
	if action != "" {
		if current, ok := ctx.Value(actionKey).(schema.ActionName); ok && current == action {
			return log
		}
		log = log.With("action", action)
	}
	return log
}

// WithFile annotates the logger with file metadata when available.
func WithFile(log pslog.Logger, file schema.FileDescriptor) pslog.Logger {
	if file.Name != "" {
		log = log.With("file", file.Name)
	}
	if file.Path != "" {
		log = log.With("file_path", file.Path)
	}
	return log
}

// ContextWithTab stores the tab marker on the context for log de-duplication.
func ContextWithTab(ctx context.Context, tabID schema.TabID) context.Context {
	if ctx == nil || tabID == "" {
		return ctx
	}
	return context.WithValue(ctx, tabKey, tabID)
}

// ContextWithTabLogger attaches the logger and tab marker to the context.
func ContextWithTabLogger(ctx context.Context, log pslog.Logger, tabID schema.TabID) context.Context {
	ctx = pslog.ContextWithLogger(ctx, log)
	return ContextWithTab(ctx, tabID)
}

// ContextWithActionLogger attaches the logger and action marker to the context.
func ContextWithActionLogger(ctx context.Context, log pslog.Logger, action schema.ActionName) context.Context {
	ctx = pslog.ContextWithLogger(ctx, log)
	if action == "" {
		return ctx
	}
	return context.WithValue(ctx, actionKey, action)
}

// CopyContextFields copies tab/action markers from src to dst.
func CopyContextFields(dst context.Context, src context.Context) context.Context {
	if src == nil {
		return dst
	}
	if tab, ok := src.Value(tabKey).(schema.TabID); ok && tab != "" {
		dst = ContextWithTab(dst, tab)
	}
	if action, ok := src.Value(actionKey).(schema.ActionName); ok && action != "" {
		dst = context.WithValue(dst, actionKey, action)
	}
	return dst
}
