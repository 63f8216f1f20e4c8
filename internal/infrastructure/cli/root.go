package cli

import (
	"github.com/spf13/cobra"

	"github.com/doeshing/firewatch/internal/infrastructure/cli/commands"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// NewRootCmd wires the cobra root command. The container is built by the
// first command that needs it, after flags are parsed.
func NewRootCmd(opts Options) *cobra.Command {
	rt := &commands.Runtime{}
	rt.Options.Verbose = opts.Verbose

	askCmd := commands.NewAskCommand(rt)

	root := &cobra.Command{
		Use:   "firewatch [question]",
		Args:  cobra.ArbitraryArgs,
		Short: "firewatch - forest fire emergency query agent",
		Long: "firewatch answers questions about an active forest fire incident from a Sahana Eden database,\n" +
			"using a Gemini backend when one is reachable and local summaries otherwise.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			askCmd.SetContext(cmd.Context())
			return askCmd.RunE(askCmd, args)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return rt.Close()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&rt.Options.ConfigPath, "config", "", "Config file (default ~/.firewatch/config.yaml or $FIREWATCH_CONFIG)")
	flags.BoolVarP(&rt.Options.Verbose, "verbose", "v", opts.Verbose, "Enable debug logging")
	flags.StringVar(&rt.Options.LogFormat, "log-format", "", "Log encoding: console or json")

	root.AddCommand(
		askCmd,
		commands.NewChatCommand(rt),
		commands.NewViewCommand(rt),
		commands.NewSQLCommand(rt),
		commands.NewServeCommand(rt),
		commands.NewDoctorCommand(rt),
		commands.NewConfigCommand(rt),
		commands.NewVersionCommand(),
	)
	return root
}
