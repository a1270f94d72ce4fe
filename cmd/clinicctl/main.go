package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/dangerclosesec/clinicore"
	"github.com/dangerclosesec/clinicore/internal/app"
	"github.com/dangerclosesec/clinicore/internal/auth"
	"github.com/dangerclosesec/clinicore/internal/config"
	"github.com/dangerclosesec/clinicore/internal/migration"
	"github.com/dangerclosesec/clinicore/internal/service"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	gormlogger "gorm.io/gorm/logger"
)

var (
	dbConnString string
	verbose      bool
	timeout      time.Duration
)

var provisionFlags struct {
	token     string
	email     string
	password  string
	orgID     string
	clinicIDs []string
	role      string
}

var tokenFlags struct {
	userID string
	email  string
	ttl    time.Duration
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dbConnString, "db", "d", "", "Database connection string (defaults to the DB_* environment)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Maximum time for the command")

	provisionCmd.Flags().StringVar(&provisionFlags.token, "token", os.Getenv("CLINICORE_TOKEN"), "Caller bearer token")
	provisionCmd.Flags().StringVar(&provisionFlags.email, "email", "", "Email of the new staff member")
	provisionCmd.Flags().StringVar(&provisionFlags.password, "password", "", "Initial password (defaults to STAFF_DEFAULT_PASSWORD)")
	provisionCmd.Flags().StringVar(&provisionFlags.orgID, "org", "", "Organization id")
	provisionCmd.Flags().StringSliceVar(&provisionFlags.clinicIDs, "clinic", nil, "Clinic id to grant reception access to (repeatable)")
	provisionCmd.Flags().StringVar(&provisionFlags.role, "role", "", "Organization role (defaults to STAFF_DEFAULT_ROLE)")

	tokenCmd.Flags().StringVar(&tokenFlags.userID, "user", "", "User id placed in the token subject")
	tokenCmd.Flags().StringVar(&tokenFlags.email, "email", "", "Email claim")
	tokenCmd.Flags().DurationVar(&tokenFlags.ttl, "ttl", 0, "Token lifetime (defaults to the JWT expiry period)")
	tokenCmd.MarkFlagRequired("user")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(provisionCmd)
	rootCmd.AddCommand(tokenCmd)
}

var rootCmd = &cobra.Command{
	Use:   "clinicctl",
	Short: "clinicctl manages the clinic staff provisioning service",
	Long:  `clinicctl applies the database schema, provisions staff and mints development tokens.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the embedded SQL schema",
	Long:  `Apply every schema file that has not been recorded in schema_migrations.`,
	Run: func(cmd *cobra.Command, args []string) {
		connString := dbConnString
		if connString == "" {
			connString = app.DSN(config.Load())
		}

		db, err := sql.Open("postgres", connString)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		applied, err := migration.NewMigrator(db, clinicore.SchemaFS, "schema").Apply(ctx)
		for _, name := range applied {
			fmt.Printf("Applied %s\n", name)
		}
		if err != nil {
			log.Fatalf("Failed to apply schema: %v", err)
		}

		if len(applied) == 0 {
			fmt.Println("No changes detected. Migration skipped.")
			return
		}
		fmt.Println("Migration applied successfully")
	},
}

var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Create a staff member in an organization",
	Long:  `Create a staff identity, add it to the organization and grant reception access to the given clinics.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()

		level := gormlogger.Silent
		if verbose {
			level = gormlogger.Info
		}
		db, err := app.OpenDatabase(cfg, level)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}

		staffService, err := app.NewStaffService(cfg, db, nil)
		if err != nil {
			log.Fatalf("Failed to set up staff service: %v", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		out, err := staffService.Provision(ctx, service.ProvisionInput{
			Token:     provisionFlags.token,
			Email:     provisionFlags.email,
			Password:  provisionFlags.password,
			OrgID:     provisionFlags.orgID,
			ClinicIDs: provisionFlags.clinicIDs,
			Role:      provisionFlags.role,
		})
		if err != nil {
			log.Fatalf("Provisioning failed: %v", err)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(map[string]string{
			"user_id":    out.UserID.String(),
			"attempt_id": out.AttemptID,
		})
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a caller token for the local identity provider",
	Long:  `Sign an HS256 token with JWT_SECRET. Only useful with IDENTITY_PROVIDER=local.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()

		userID, err := uuid.Parse(tokenFlags.userID)
		if err != nil {
			log.Fatalf("Invalid user id: %v", err)
		}

		ttl := tokenFlags.ttl
		if ttl == 0 {
			ttl = cfg.JWT.ExpiryPeriod
		}

		token, err := auth.NewTokenManager(cfg.JWT.Secret, ttl).Generate(userID, tokenFlags.email)
		if err != nil {
			log.Fatalf("Failed to sign token: %v", err)
		}
		fmt.Println(token)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
