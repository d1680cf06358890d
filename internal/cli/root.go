package cli

import (
	"github.com/spf13/cobra"

	"studio/internal/config"
	"studio/internal/logutil"
)

var (
	configFile string
	verbose    bool
)

// Execute runs the root command.
func Execute() error {
	return newRootCommand().Execute()
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "studio",
		Short: "Content studio publishing backend",
		Long: "studio serves the publishing API used by the content studio frontend " +
			"and can run a single Instagram publish from the terminal.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			logutil.SetVerbose(verbose || cfg.Verbose)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "creds.json", "Path to the optional credentials file")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newPostCommand())

	return cmd
}
