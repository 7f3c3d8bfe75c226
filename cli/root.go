package cli

import (
	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "truora <command> <subcommand> [flags]",
		Short: "Run Truora background checks",
		Long: heredoc.Doc(`
			Create and retrieve Truora background checks.

			Requests are built from the node description of the Truora
			API: its form fields, defaults and routing rules.
		`),
		Example: heredoc.Doc(`
			$ truora credential add production --api-key $TRUORA_API_KEY
			$ truora check create --national-id 123456789 --country CO
			$ truora check get CHK1a2b3c
		`),
		SilenceUsage: true,
	}

	cmd.AddCommand(
		DescribeCmd(),
		CheckCmd(),
		CredentialCmd(),
	)

	cmd.PersistentFlags().StringP("config", "c", "./config.yaml", "Config file path")
	cmd.MarkPersistentFlagFilename("config")

	return cmd
}
