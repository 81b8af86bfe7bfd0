package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dukerupert/shoplist/internal/auth"
	"github.com/dukerupert/shoplist/internal/model"
	"github.com/dukerupert/shoplist/internal/store"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert roles and default categories, optionally an administrator",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("admin-email")
		password, _ := cmd.Flags().GetString("admin-password")

		db, err := openDB(true)
		if err != nil {
			return err
		}
		defer db.Close()

		ctx := cmd.Context()
		users := store.NewUserStore(db)
		if err := store.Seed(ctx, users, store.NewCategoryStore(db)); err != nil {
			return err
		}
		logger.Info("seeded roles and categories", "categories", len(store.DefaultCategories))

		if email == "" {
			return nil
		}
		return ensureAdmin(ctx, users, strings.ToLower(strings.TrimSpace(email)), password)
	},
}

// ensureAdmin promotes an existing account, or creates one when a password
// is given.
func ensureAdmin(ctx context.Context, users *store.UserStore, email, password string) error {
	role, err := users.GetRoleByName(ctx, model.RoleAdmin)
	if err != nil {
		return err
	}
	if role == nil {
		return errors.New("admin role missing after seed")
	}

	u, err := users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u != nil {
		if _, err := users.SetRole(ctx, u.ID, role.ID); err != nil {
			return err
		}
		logger.Info("promoted user to admin", "email", email)
		return nil
	}

	if len(password) < auth.MinPasswordLength || len(password) > auth.MaxPasswordLength {
		return fmt.Errorf("--admin-password must be %d to %d bytes to create %s", auth.MinPasswordLength, auth.MaxPasswordLength, email)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	if _, err := users.Create(ctx, email, "Administrator", hash, role.ID); err != nil {
		return err
	}
	logger.Info("created admin user", "email", email)
	return nil
}

func init() {
	seedCmd.Flags().String("admin-email", "", "Email of the account to grant the admin role")
	seedCmd.Flags().String("admin-password", "", "Password used when the admin account does not exist yet")
	rootCmd.AddCommand(seedCmd)
}
