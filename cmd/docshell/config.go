package main

import (
	"github.com/spf13/cobra"

	"pkt.systems/docshell/internal/appconfig"
	"pkt.systems/pslog"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	cmd.AddCommand(newConfigInitCmd())
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var path string
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default config",
		RunE: func(cmd *cobra.Command, args []string) error {
			written, err := appconfig.WriteDefault(path, force)
			if err != nil {
				return err
			}
			pslog.Ctx(cmd.Context()).Info("config wrote", "path", written)
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "config", "c", "", "path to write (defaults to ~/.docshell/config.yaml)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing config")
	return cmd
}
