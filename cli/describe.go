package cli

import (
	"fmt"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	truoranode "github.com/goto/truora/plugins/nodes/truora"
)

func DescribeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Print node and credential descriptions",
		Example: heredoc.Doc(`
			$ truora describe node
			$ truora describe credential --format json
			$ truora describe credential --schema
		`),
	}

	cmd.AddCommand(
		describeNodeCmd(),
		describeCredentialCmd(),
	)

	cmd.PersistentFlags().StringP("format", "f", formatYAML, "Output format: yaml or json")

	return cmd
}

func describeNodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node [name]",
		Short: "Print the form fields and routing of a node",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			name := truoranode.NodeName
			if len(args) > 0 {
				name = args[0]
			}
			n, err := a.registry.GetNode(name)
			if err != nil {
				return err
			}

			format, _ := cmd.Flags().GetString("format")
			return printFormatted(cmd.OutOrStdout(), format, n)
		},
	}

	return cmd
}

func describeCredentialCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credential",
		Short: "Print the credential type fields and authentication",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			if schema, _ := cmd.Flags().GetBool("schema"); schema {
				b, err := a.credentialType.JSONSchema()
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
				return err
			}

			format, _ := cmd.Flags().GetString("format")
			return printFormatted(cmd.OutOrStdout(), format, a.credentialType.Descriptor())
		},
	}

	cmd.Flags().Bool("schema", false, "Print the JSON schema of the credential fields instead")

	return cmd
}
