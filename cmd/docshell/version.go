package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"pkt.systems/docshell/internal/appconfig"
	"pkt.systems/docshell/internal/version"
	"pkt.systems/docshell/schema"
)

func newVersionCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Read()
			out := cmd.OutOrStdout()
			if !verbose {
				_, err := fmt.Fprintln(out, info.String())
				return err
			}
			fields := info.Fields()
			fields = append(fields,
				[2]string{"config_version", fmt.Sprint(appconfig.CurrentConfigVersion)},
				[2]string{"document_types", documentTypes()},
			)
			for _, field := range fields {
				if _, err := fmt.Fprintf(out, "%-15s %s\n", field[0]+":", field[1]); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "include build and format details")
	return cmd
}

func documentTypes() string {
	cfg, err := schema.NormalizeServiceConfig(schema.ServiceConfig{})
	if err != nil {
		return ""
	}
	names := make([]string, 0, len(cfg.SupportedTypes))
	for _, t := range cfg.SupportedTypes {
		names = append(names, string(t))
	}
	return strings.Join(names, ",")
}
