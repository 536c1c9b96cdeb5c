// internal/cli/admin.go
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"game-catalog-backend/internal/auth"
	"game-catalog-backend/internal/config"
	"game-catalog-backend/internal/database"
	"game-catalog-backend/internal/handlers"
	"game-catalog-backend/internal/models"
	"game-catalog-backend/internal/store"
)

func openDatabase(ctx context.Context) (*database.DB, error) {
	cfg, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, err
	}
	dialect, err := database.ParseDialect(cfg.Driver)
	if err != nil {
		return nil, err
	}
	return database.Connect(ctx, dialect, cfg.URL, database.ConnectOptions{})
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			applied, err := database.Migrate(cmd.Context(), db)
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
				return nil
			}
			for _, name := range applied {
				fmt.Fprintln(cmd.OutOrStdout(), "applied", name)
			}
			return nil
		},
	}
}

func newUsersCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "users", Short: "Manage users directly in the database"}

	var username, email, password string
	create := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			id, err := createAdmin(cmd.Context(), store.NewUserStore(db), username, email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "admin %q created with id %d\n", username, id)
			return nil
		},
	}
	create.Flags().StringVar(&username, "username", "", "letters only, at least 2")
	create.Flags().StringVar(&email, "email", "", "email address")
	create.Flags().StringVar(&password, "password", "", "3-8 letters and digits")
	_ = create.MarkFlagRequired("username")
	_ = create.MarkFlagRequired("email")
	_ = create.MarkFlagRequired("password")

	cmd.AddCommand(create)
	return cmd
}

func createAdmin(ctx context.Context, users *store.UserStore, username, email, password string) (int64, error) {
	switch {
	case !handlers.ValidUsername(username):
		return 0, errors.New("username must contain only letters and at least 2 letters")
	case !handlers.ValidEmail(email):
		return 0, errors.New("invalid email format")
	case !handlers.ValidPassword(password):
		return 0, errors.New("password must be 3-8 characters long, contain at least one number and one letter")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return 0, err
	}
	u := &models.User{Username: username, Email: email, Password: hash, Role: models.RoleAdmin}
	if err := users.Create(ctx, u); err != nil {
		var dup *store.DuplicateError
		if errors.As(err, &dup) {
			return 0, fmt.Errorf("user already exists (%s)", dup.Field)
		}
		return 0, err
	}
	return u.ID, nil
}
