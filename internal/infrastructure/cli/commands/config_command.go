package commands

import (
	"fmt"
	"io"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/spf13/cobra"

	appconfig "github.com/doeshing/firewatch/internal/application/config"
	"github.com/doeshing/firewatch/internal/domain"
	configinfra "github.com/doeshing/firewatch/internal/infrastructure/config"
)

const (
	msgConfigurationValid       = "Configuration valid"
	msgNoDifferencesFromDefault = "No differences from default configuration."
)

// NewConfigCommand creates the config command with all subcommands. These
// commands read the file directly so a broken config can still be inspected.
func NewConfigCommand(rt *Runtime) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect firewatch configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfiguration(cmd, rt)
		},
	}

	configCmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show full configuration (API key redacted)",
			RunE: func(cmd *cobra.Command, args []string) error {
				return showConfiguration(cmd, rt)
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file location",
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Fprintln(cmd.OutOrStdout(), loader(rt).Path())
				return nil
			},
		},
		&cobra.Command{
			Use:   "validate",
			Short: "Validate the configuration file",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := loader(rt).Load(cmd.Context())
				if err != nil {
					return err
				}
				if err := appconfig.Validate(cfg); err != nil {
					return fmt.Errorf("configuration invalid: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), msgConfigurationValid)
				return nil
			},
		},
		&cobra.Command{
			Use:   "diff",
			Short: "Show diff versus default configuration",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := loader(rt).Load(cmd.Context())
				if err != nil {
					return err
				}
				showConfigurationDiff(cmd.OutOrStdout(), configinfra.DefaultConfig(), cfg)
				return nil
			},
		},
	)

	return configCmd
}

func loader(rt *Runtime) *configinfra.FileLoader {
	return configinfra.NewFileLoader(rt.Options.ConfigPath)
}

func showConfiguration(cmd *cobra.Command, rt *Runtime) error {
	cfg, err := loader(rt).Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	raw, err := configinfra.Dump(cfg)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(raw)
	return err
}

// showConfigurationDiff never compares or prints credentials.
func showConfigurationDiff(out io.Writer, defaults, current domain.Config) {
	diff := cmp.Diff(defaults, current, cmpopts.IgnoreUnexported(domain.Credential{}))
	if diff == "" {
		fmt.Fprintln(out, msgNoDifferencesFromDefault)
		return
	}
	fmt.Fprintln(out, diff)
}
