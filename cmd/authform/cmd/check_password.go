package cmd

import (
	"errors"
	"fmt"

	"github.com/nfrund/authform/internal/form"
	"github.com/spf13/cobra"
)

var checkPasswordCmd = &cobra.Command{
	Use:   "check-password <password>",
	Short: "Check a password against the form's password policy",
	Long: `Check a password against the same policy the form applies on submission.
The first rule that fails is reported and the command exits non-zero.

Examples:
  authform check-password 'Abcdef1!'     # valid
  authform check-password short          # Minimum 8 characters!`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		err := form.ValidatePassword(args[0])
		if err == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "valid")
			return nil
		}

		var policyErr *form.PolicyError
		if errors.As(err, &policyErr) {
			fmt.Fprintf(cmd.OutOrStdout(), "invalid (%s): %s\n", policyErr.Rule, policyErr.Message)
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(checkPasswordCmd)
}
