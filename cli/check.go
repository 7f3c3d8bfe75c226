package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goto/truora/domain"
	truoranode "github.com/goto/truora/plugins/nodes/truora"
)

func CheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "check",
		Aliases: []string{"checks"},
		Short:   "Manage background checks",
		Example: heredoc.Doc(`
			$ truora check create --national-id 123456789
			$ truora check get CHK1a2b3c
			$ truora check run --file items.yaml --continue-on-fail
		`),
	}

	cmd.AddCommand(
		createCheckCmd(),
		getCheckCmd(),
		runCheckCmd(),
	)

	cmd.PersistentFlags().String("credential", "", "Name of the stored credential to use")
	cmd.PersistentFlags().Bool("dry-run", false, "Print the request instead of sending it")

	return cmd
}

func createCheckCmd() *cobra.Command {
	var (
		nationalID     string
		country        string
		checkType      string
		dateOfBirth    string
		userAuthorized bool
		forceCreation  bool
		customInput    string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a background check",
		Example: heredoc.Doc(`
			$ truora check create --national-id 123456789
			$ truora check create --national-id 12345678901 --country BR --date-of-birth 1990-01-31
			$ truora check create --national-id ABC123 --type vehicle --force-creation=false
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params := domain.Parameters{
				domain.PropertyNameResource:  truoranode.ResourceBackgroundCheck,
				domain.PropertyNameOperation: truoranode.OperationCreate,
				"nationalId":                 nationalID,
			}
			// unset flags fall back to the node defaults
			flags := cmd.Flags()
			if flags.Changed("country") {
				params["country"] = country
			}
			if flags.Changed("type") {
				params["checkType"] = checkType
			}
			if flags.Changed("date-of-birth") {
				params["dateOfBirth"] = dateOfBirth
			}
			if flags.Changed("user-authorized") {
				params["userAuthorized"] = userAuthorized
			}
			if flags.Changed("force-creation") {
				params["forceCreation"] = forceCreation
			}
			if flags.Changed("custom-input") {
				params["customInput"] = customInput
			}

			return runCheck(cmd, params)
		},
	}

	cmd.Flags().StringVar(&nationalID, "national-id", "", "National ID of the person, vehicle or company to check")
	cmd.Flags().StringVar(&country, "country", "", "Country of the check: ALL, BR, CO, CL, CR, MX or PE (default CO)")
	cmd.Flags().StringVar(&checkType, "type", "", "Type of check: person, vehicle or company (default person)")
	cmd.Flags().StringVar(&dateOfBirth, "date-of-birth", "", "Date of birth in YYYY-MM-DD format, used for checks in Brazil")
	cmd.Flags().BoolVar(&userAuthorized, "user-authorized", true, "Confirm the checked person authorized the check")
	cmd.Flags().BoolVar(&forceCreation, "force-creation", true, "Create a new check instead of reusing a previous one")
	cmd.Flags().StringVar(&customInput, "custom-input", "", "Free-form input attached to the check")
	cmd.MarkFlagRequired("national-id")

	return cmd
}

func getCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <check-id>",
		Short: "Retrieve a background check",
		Example: heredoc.Doc(`
			$ truora check get CHK1a2b3c
		`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, domain.Parameters{
				domain.PropertyNameResource:  truoranode.ResourceBackgroundCheck,
				domain.PropertyNameOperation: truoranode.OperationGet,
				"checkId":                    args[0],
			})
		},
	}

	return cmd
}

func runCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute the node for every item of a parameters file",
		Long: heredoc.Doc(`
			Execute the node once per item, in order. Each item holds the node
			parameters keyed by field name.
		`),
		Example: heredoc.Doc(`
			$ cat items.yaml
			- operation: create
			  nationalId: "123456789"
			- operation: get
			  checkId: CHK1a2b3c
			$ truora check run --file items.yaml
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("file")
			continueOnFail, _ := cmd.Flags().GetBool("continue-on-fail")

			b, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading items file: %w", err)
			}
			var items []domain.Parameters
			if err := yaml.Unmarshal(b, &items); err != nil {
				return fmt.Errorf("parsing items file: %w", err)
			}

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			ctx := cmd.Context()
			cred, err := a.credential(ctx, credentialFlag(cmd))
			if err != nil {
				return err
			}

			if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
				requests := make([]*domain.Request, 0, len(items))
				for i, item := range items {
					req, err := a.nodeService.BuildRequest(ctx, truoranode.NodeName, cred, item)
					if err != nil {
						return fmt.Errorf("item %d: %w", i, err)
					}
					requests = append(requests, req.Masked(a.secretHeaders()...))
				}
				return printFormatted(cmd.OutOrStdout(), formatYAML, requests)
			}

			results, err := a.nodeService.ExecuteItems(ctx, truoranode.NodeName, cred, items, continueOnFail)
			if printErr := printFormatted(cmd.OutOrStdout(), formatYAML, results); printErr != nil {
				return printErr
			}
			return err
		},
	}

	cmd.Flags().String("file", "", "YAML file with a list of parameter items")
	cmd.Flags().Bool("continue-on-fail", false, "Record failed items and keep going")
	cmd.MarkFlagRequired("file")
	cmd.MarkFlagFilename("file", "yaml", "yml")

	return cmd
}

func credentialFlag(cmd *cobra.Command) string {
	name, _ := cmd.Flags().GetString("credential")
	return name
}

// runCheck executes a single operation and prints the API response
func runCheck(cmd *cobra.Command, params domain.Parameters) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	cred, err := a.credential(ctx, credentialFlag(cmd))
	if err != nil {
		return err
	}

	if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
		req, err := a.nodeService.BuildRequest(ctx, truoranode.NodeName, cred, params)
		if err != nil {
			return err
		}
		return printFormatted(cmd.OutOrStdout(), formatYAML, req.Masked(a.secretHeaders()...))
	}

	res, err := a.nodeService.Execute(ctx, truoranode.NodeName, cred, params)
	if err != nil {
		var httpErr *domain.HTTPError
		if errors.As(err, &httpErr) {
			fmt.Fprintln(cmd.ErrOrStderr(), httpErr.Body)
		}
		return err
	}
	return printBody(cmd.OutOrStdout(), res.Body)
}
