package main

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"pkt.systems/docshell/internal/appconfig"
	"pkt.systems/psi"
	"pkt.systems/pslog"
)

func main() {
	psi.Run(submain)
}

func submain(ctx context.Context) int {
	logger := pslog.LoggerFromEnv(
		pslog.WithEnvWriter(os.Stderr),
		pslog.WithEnvOptions(pslog.Options{Mode: pslog.ModeConsole}),
	)
	ctx = pslog.ContextWithLogger(ctx, logger)
	log.SetOutput(pslog.LogLogger(logger).Writer())
	log.SetFlags(0)

	root := newRootCmd()
	root.SetArgs(os.Args[1:])

	if err := root.ExecuteContext(ctx); err != nil {
		pslog.Ctx(ctx).With("err", err).Error("docshell command failed")
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "docshell",
		Short:         "Tabbed document shell for BPMN, DMN, and CMMN diagrams",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.AddCommand(newRunCmd())
	root.AddCommand(newWorkspaceCmd())
	root.AddCommand(newConfigCmd())
	root.AddCommand(newLintConfigCmd())
	root.AddCommand(newVersionCmd())

	return root
}

// loadConfig reads the config and applies logging.level unless LOG_LEVEL is set.
func loadConfig(cmd *cobra.Command, path string) (appconfig.Config, error) {
	cfg, err := appconfig.Load(path)
	if err != nil {
		return appconfig.Config{}, err
	}
	if _, ok := os.LookupEnv("LOG_LEVEL"); ok {
		return cfg, nil
	}
	opts := pslog.Options{Mode: pslog.ModeConsole}
	if !applyLogLevel(&opts, cfg.Logging.Level) {
		return cfg, nil
	}
	logger := pslog.NewWithOptions(cmd.ErrOrStderr(), opts)
	cmd.SetContext(pslog.ContextWithLogger(cmd.Context(), logger))
	return cfg, nil
}

func applyLogLevel(opts *pslog.Options, level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		opts.MinLevel = pslog.TraceLevel
	case "debug":
		opts.MinLevel = pslog.DebugLevel
	case "info":
		opts.MinLevel = pslog.InfoLevel
	case "error":
		opts.MinLevel = pslog.ErrorLevel
	default:
		return false
	}
	return true
}

func addConfigFlag(cmd *cobra.Command, path *string) {
	cmd.Flags().StringVarP(path, "config", "c", "", "path to config file")
}
