package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"pkt.systems/docshell"
	"pkt.systems/docshell/internal/dialog"
	"pkt.systems/docshell/schema"
	"pkt.systems/pslog"
)

func newRunCmd() *cobra.Command {
	var cfgPath string
	var ephemeral bool
	var stopOnError bool
	var showEvents bool
	cmd := &cobra.Command{
		Use:   "run [script|-]",
		Short: "Execute action lines from a script or stdin",
		Long: "Execute action lines such as \"open a.bpmn\", \"new dmn\", or \"close-tab\" against the shell.\n" +
			"Save and export prompts are answered on stdin. Run \"help\" inside a script for the full list.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, cfgPath)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			logger := pslog.Ctx(ctx)

			stdin := bufio.NewReader(cmd.InOrStdin())
			script := stdin
			if len(args) == 1 && args[0] != "-" {
				file, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer file.Close()
				script = bufio.NewReader(file)
			}

			deps := docshell.ShellDeps{
				Dialog: dialog.NewConsole(stdin, cmd.ErrOrStderr()),
				Output: cmd.OutOrStdout(),
				Logger: logger,
			}
			if showEvents {
				deps.EventSink = eventPrinter{out: cmd.OutOrStdout()}
			}
			var opts []docshell.ShellOption
			if ephemeral {
				opts = append(opts, docshell.WithoutWorkspace())
			}
			shell, err := docshell.New(docshell.ShellConfig{
				App:                 cfg,
				DisableAuditLogging: cfg.Logging.Level != "trace" && cfg.Logging.Level != "debug",
			}, deps, opts...)
			if err != nil {
				return err
			}
			defer func() {
				if err := shell.Close(); err != nil {
					logger.Warn("run shell close failed", "err", err)
				}
			}()
			restored, err := shell.Start(ctx)
			if err != nil {
				return err
			}
			for _, file := range restored.Skipped {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipped %s\n", file.Path)
			}

			failed, executed, lineNo := 0, 0, 0
			for {
				line, readErr := script.ReadString('\n')
				if readErr != nil && !errors.Is(readErr, io.EOF) {
					return readErr
				}
				if line != "" {
					lineNo++
					handled, err := shell.Handler().Handle(ctx, line)
					if handled {
						executed++
					}
					if err != nil {
						failed++
						fmt.Fprintf(cmd.ErrOrStderr(), "line %d: %v\n", lineNo, err)
						if stopOnError {
							return err
						}
					}
				}
				if readErr != nil {
					break
				}
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d commands failed", failed, executed)
			}
			return nil
		},
	}
	addConfigFlag(cmd, &cfgPath)
	cmd.Flags().BoolVar(&ephemeral, "ephemeral", false, "do not restore or persist the workspace")
	cmd.Flags().BoolVar(&stopOnError, "stop-on-error", false, "stop at the first failing command")
	cmd.Flags().BoolVar(&showEvents, "events", false, "print tab-changed and tab-shown events")
	return cmd
}

type eventPrinter struct {
	out io.Writer
}

func (p eventPrinter) OnTabChanged(event schema.TabChangedEvent) {
	previous := schema.TabID("")
	if event.Previous != nil {
		previous = event.Previous.ID
	}
	fmt.Fprintf(p.out, "event tab-changed %s (previous %s)\n", orNone(event.Tab.ID), orNone(previous))
}

func (p eventPrinter) OnTabShown(event schema.TabShownEvent) {
	fmt.Fprintf(p.out, "event tab-shown %s\n", event.Tab.ID)
}

func orNone(id schema.TabID) string {
	if id == "" {
		return "none"
	}
	return string(id)
}
