package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"github.com/goto/truora/domain"
)

func CredentialCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "credential",
		Aliases: []string{"credentials"},
		Short:   "Manage API credentials",
		Long: heredoc.Doc(`
			Manage the credentials used to authenticate against the Truora API.

			Credentials are stored in the credentials file with their API key
			encrypted using encryption_secret_key from the config.
		`),
		Example: heredoc.Doc(`
			$ truora credential add production --api-key $TRUORA_API_KEY
			$ truora credential list
			$ truora credential test production
		`),
	}

	cmd.AddCommand(
		addCredentialCmd(),
		updateCredentialCmd(),
		listCredentialCmd(),
		testCredentialCmd(),
		deleteCredentialCmd(),
	)

	return cmd
}

func addCredentialCmd() *cobra.Command {
	var apiKey, baseURL string
	var skipTest bool

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Store a new credential",
		Example: heredoc.Doc(`
			$ truora credential add production --api-key $TRUORA_API_KEY
			$ truora credential add validations --api-key $TRUORA_API_KEY --base-url https://api.validations.truora.com/v1
		`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			if a.config.EncryptionSecretKey == "" {
				return errors.New("encryption_secret_key must be configured to store credentials")
			}

			data := map[string]interface{}{"apiKey": apiKey}
			if baseURL != "" {
				data["baseUrl"] = baseURL
			}
			cred := &domain.Credential{
				Name: args[0],
				Type: a.credentialType.GetType(),
				Data: data,
			}

			ctx := cmd.Context()
			if !skipTest {
				if _, err := a.credentialService.Test(ctx, cred); err != nil {
					return fmt.Errorf("credential test failed: %w", err)
				}
			}
			if err := a.credentialService.Create(ctx, cred); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "credential %q added\n", cred.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&apiKey, "api-key", "", "Truora API key")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "Base URL of the Truora API")
	cmd.Flags().BoolVar(&skipTest, "skip-test", false, "Store the credential without verifying it")
	cmd.MarkFlagRequired("api-key")

	return cmd
}

func updateCredentialCmd() *cobra.Command {
	var apiKey, baseURL string

	cmd := &cobra.Command{
		Use:   "update <name>",
		Short: "Replace the values of a stored credential",
		Long: heredoc.Doc(`
			Replace the values of a stored credential. Flags that are not set
			keep their stored value.
		`),
		Example: heredoc.Doc(`
			$ truora credential update production --api-key $NEW_TRUORA_API_KEY
		`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			ctx := cmd.Context()
			cred, err := a.credentialService.Get(ctx, args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("api-key") {
				cred.Data["apiKey"] = apiKey
			}
			if cmd.Flags().Changed("base-url") {
				cred.Data["baseUrl"] = baseURL
			}

			if err := a.credentialService.Update(ctx, cred); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "credential %q updated\n", cred.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&apiKey, "api-key", "", "Truora API key")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "Base URL of the Truora API")

	return cmd
}

func listCredentialCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			creds, err := a.credentialService.Find(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tTYPE\tBASE URL\tUPDATED")
			for _, c := range creds {
				fmt.Fprintf(w, "%s\t%s\t%v\t%s\n", c.Name, c.Type, c.Data["baseUrl"], c.UpdatedAt.Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}

	return cmd
}

func testCredentialCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test [name]",
		Short: "Verify a credential against the API",
		Long: heredoc.Doc(`
			Send the verification request of the credential type. Without a
			name the credential from the config is tested.
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			var name string
			if len(args) > 0 {
				name = args[0]
			}
			ctx := cmd.Context()
			cred, err := a.credential(ctx, name)
			if err != nil {
				return err
			}

			result, err := a.credentialService.Test(ctx, cred)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "credential %q is valid (status %d)\n", cred.Name, result.StatusCode)
			return nil
		},
	}

	return cmd
}

func deleteCredentialCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete <name>",
		Aliases: []string{"rm"},
		Short:   "Delete a stored credential",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.credentialService.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "credential %q deleted\n", args[0])
			return nil
		},
	}

	return cmd
}
