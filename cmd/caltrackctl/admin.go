package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/caltrack/caltrack/internal/service"
)

var (
	adminEmail    string
	adminUserName string
)

var bootstrapAdminCmd = &cobra.Command{
	Use:   "bootstrap-admin",
	Short: "Create the admin account if none exists and print its token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withOperator(cmd.Context(), func(op *operator) error {
			res, created, err := op.users.BootstrapAdmin(cmd.Context(), service.CreateUserInput{
				Email:    adminEmail,
				UserName: adminUserName,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if created {
				fmt.Fprintf(out, "Created admin %s (%s)\n", res.User.UserName, res.User.ID)
			} else {
				fmt.Fprintf(out, "Admin already exists: %s (%s)\n", res.User.UserName, res.User.ID)
			}
			fmt.Fprintf(out, "Token: %s\n", res.Token)
			return nil
		})
	},
}

var tokenEmail string

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an access token for an existing user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withOperator(cmd.Context(), func(op *operator) error {
			user, err := op.repo.GetUserByEmail(cmd.Context(), tokenEmail)
			if err != nil {
				return fmt.Errorf("lookup %s: %w", tokenEmail, err)
			}

			token, err := op.tokens.Issue(user)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", token)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(bootstrapAdminCmd)
	bootstrapAdminCmd.Flags().StringVar(&adminEmail, "email", "", "Admin email address")
	bootstrapAdminCmd.Flags().StringVar(&adminUserName, "user-name", "admin", "Admin user name")
	_ = bootstrapAdminCmd.MarkFlagRequired("email")

	rootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "Email of the user")
	_ = tokenCmd.MarkFlagRequired("email")
}
