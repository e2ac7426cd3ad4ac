package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"pulseboard/internal/auth"
	"pulseboard/internal/bootstrap"
	"pulseboard/internal/bootstrap/logging"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage dashboard users",
}

var userAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a user with a role",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, deps *appDeps) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")
		role, _ := cmd.Flags().GetString("role")

		username = strings.TrimSpace(username)
		if username == "" {
			return fmt.Errorf("username is required")
		}
		if !auth.Role(role).Valid() {
			return fmt.Errorf("role must be one of: %s", rolesList())
		}

		if err := app.InitSchema(ctx); err != nil {
			return err
		}

		hash, err := auth.HashPassword(password)
		if err != nil {
			return err
		}
		if err := deps.Users.Create(ctx, username, hash, role); err != nil {
			return err
		}

		logging.Info(ctx, "user created",
			slog.String("username", username),
			slog.String("role", role),
		)
		return nil
	}),
}

func rolesList() string {
	parts := make([]string, 0, len(auth.Roles))
	for _, role := range auth.Roles {
		parts = append(parts, string(role))
	}
	return strings.Join(parts, ", ")
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userAddCmd)

	userAddCmd.Flags().String("username", "", "Login name")
	userAddCmd.Flags().String("password", "", "Password")
	userAddCmd.Flags().String("role", string(auth.RoleViewer), "Role ("+rolesList()+")")
}
