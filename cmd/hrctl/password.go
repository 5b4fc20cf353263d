package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cmlabs-hris/hr-portal-go/internal/config"
	"github.com/cmlabs-hris/hr-portal-go/internal/domain/auth"
	"github.com/cmlabs-hris/hr-portal-go/internal/pkg/database"
	"github.com/cmlabs-hris/hr-portal-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hr-portal-go/internal/repository/postgresql"
	serviceAuth "github.com/cmlabs-hris/hr-portal-go/internal/service/auth"
)

func setPasswordCmd() *cobra.Command {
	var employeeNumber int

	cmd := &cobra.Command{
		Use:   "set-password",
		Short: "Create or replace an employee's portal password",
		Long: `Reads the new password from stdin so it never lands in shell history.

  echo 's3cret-pass' | hrctl set-password --employee 1001`,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && password == "" {
				return fmt.Errorf("failed to read password from stdin: %w", err)
			}
			password = strings.TrimRight(password, "\r\n")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolConfig{MaxConns: 2, MinConns: 1})
			if err != nil {
				return err
			}
			defer db.Close()

			authSvc := serviceAuth.NewAuthService(
				postgresql.NewCredentialRepository(db),
				postgresql.NewEmployeeRepository(db),
				jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.SecureCookie),
			)
			if err := authSvc.SetPassword(ctx, auth.SetPasswordRequest{
				EmployeeNumber: employeeNumber,
				Password:       password,
			}); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Password set for employee %d\n", employeeNumber)
			return nil
		},
	}

	cmd.Flags().IntVarP(&employeeNumber, "employee", "e", 0, "employee number")
	_ = cmd.MarkFlagRequired("employee")
	return cmd
}
