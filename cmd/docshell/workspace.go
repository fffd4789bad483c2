package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"pkt.systems/docshell"
	"pkt.systems/pslog"
)

func newWorkspaceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workspace",
		Short: "Inspect the persisted workspace",
	}
	cmd.AddCommand(newWorkspaceShowCmd())
	cmd.AddCommand(newWorkspaceClearCmd())
	return cmd
}

func newWorkspaceShowCmd() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the persisted workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, cfgPath)
			if err != nil {
				return err
			}
			shell, err := docshell.New(docshell.ShellConfig{App: cfg}, docshell.ShellDeps{Logger: pslog.Ctx(cmd.Context())})
			if err != nil {
				return err
			}
			defer shell.Close()
			snapshot, ok, err := shell.Workspace(cmd.Context())
			if err != nil {
				return err
			}
			if !ok {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "no workspace saved")
				return err
			}
			data, err := yaml.Marshal(snapshot)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	addConfigFlag(cmd, &cfgPath)
	return cmd
}

func newWorkspaceClearCmd() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove the persisted workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, cfgPath)
			if err != nil {
				return err
			}
			logger := pslog.Ctx(cmd.Context())
			shell, err := docshell.New(docshell.ShellConfig{App: cfg}, docshell.ShellDeps{Logger: logger})
			if err != nil {
				return err
			}
			defer shell.Close()
			if err := shell.ClearWorkspace(cmd.Context()); err != nil {
				return err
			}
			logger.Info("workspace cleared", "path", cfg.WorkspacePath())
			return nil
		},
	}
	addConfigFlag(cmd, &cfgPath)
	return cmd
}
