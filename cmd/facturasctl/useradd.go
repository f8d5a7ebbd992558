package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"facturas/internal/config"
	"facturas/internal/domain"
	"facturas/internal/logger"
	"facturas/internal/repository/postgres"
	"facturas/internal/service"
)

func newUserAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "useradd",
		Short:   "Create an operator account",
		Example: `  facturasctl useradd --email ana@example.com --password s3cret-pass --name "Ana" --role admin`,
		RunE:    runUserAdd,
	}
	cmd.Flags().String("email", "", "Login email")
	cmd.Flags().String("password", "", "Initial password (min 8 characters)")
	cmd.Flags().String("name", "", "Full name")
	cmd.Flags().String("role", string(domain.RoleMember), "Role: admin or member")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func runUserAdd(cmd *cobra.Command, _ []string) error {
	log := logger.WithComponent("useradd")

	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")
	name, _ := cmd.Flags().GetString("name")
	role, _ := cmd.Flags().GetString("role")

	r := domain.UserRole(role)
	if r != domain.RoleAdmin && r != domain.RoleMember {
		return fmt.Errorf("invalid role %q: must be admin or member", role)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	authSvc := service.NewAuthService(postgres.NewUserRepo(db), cfg.JWT)
	user, err := authSvc.CreateUser(cmd.Context(), service.CreateUserInput{
		Email:    email,
		Password: password,
		FullName: name,
		Role:     r,
	})
	if err != nil {
		return err
	}

	log.Info().Str("user_id", user.ID.String()).Str("email", user.Email).Msg("user created")
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s)\n", user.Email, user.ID)
	return err
}
