package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"pkt.systems/docshell"
	"pkt.systems/pslog"
)

func newLintConfigCmd() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "lint-config",
		Short: "Print the compiled .bpmnlintrc from the linting search paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, cfgPath)
			if err != nil {
				return err
			}
			shell, err := docshell.New(docshell.ShellConfig{App: cfg}, docshell.ShellDeps{Logger: pslog.Ctx(cmd.Context())}, docshell.WithoutWorkspace())
			if err != nil {
				return err
			}
			defer shell.Close()
			lint, err := shell.LintConfig(cmd.Context())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(lint)
		},
	}
	addConfigFlag(cmd, &cfgPath)
	return cmd
}
