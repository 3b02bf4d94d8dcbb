package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"shelfarr/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}
	configCmd.AddCommand(newConfigShowCommand())
	configCmd.AddCommand(newConfigInitCommand())
	return configCmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the resolved configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load("")
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", path)
			if !exists {
				fmt.Fprintln(out, "Config file does not exist; defaults shown")
			}
			fmt.Fprintf(out, "Data directory: %s\n", cfg.Paths.DataDir)
			fmt.Fprintf(out, "Log directory: %s\n", cfg.Paths.LogDir)
			fmt.Fprintf(out, "Catalog database: %s\n", cfg.DatabasePath())
			fmt.Fprintf(out, "Language filter: %s\n", valueOrNone(cfg.Providers.LanguageFilter))
			fmt.Fprintf(out, "Scan parallelism: %d\n", cfg.Scan.Parallelism)
			fmt.Fprintf(out, "Scanner roots: %s\n", valueOrNone(strings.Join(cfg.Scanner.Roots, ", ")))
			fmt.Fprintf(out, "Audiobookshelf: %s\n", describeAudiobookshelf(cfg))
			if strings.TrimSpace(cfg.Notifications.NtfyTopic) != "" {
				fmt.Fprintln(out, "Notifications: enabled (ntfy)")
			} else {
				fmt.Fprintln(out, "Notifications: disabled")
			}
			return nil
		},
	}
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			}
			if err := config.WriteSample(target); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Edit the file to set your scan roots, then add authors with: shelfarr authors add <name>")
			return nil
		},
	}
	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	return cmd
}

func valueOrNone(value string) string {
	if strings.TrimSpace(value) == "" {
		return "(none)"
	}
	return value
}

func describeAudiobookshelf(cfg *config.Config) string {
	if !cfg.Audiobookshelf.Enabled {
		return "disabled"
	}
	return cfg.Audiobookshelf.URL + " (token set: " + yesNo(cfg.Audiobookshelf.Token != "") + ")"
}
