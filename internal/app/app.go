// Package app wires configuration into the stores, identity provider and
// staff service shared by cmd/api and cmd/clinicctl.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dangerclosesec/clinicore/internal/accesssync"
	"github.com/dangerclosesec/clinicore/internal/auth"
	"github.com/dangerclosesec/clinicore/internal/config"
	"github.com/dangerclosesec/clinicore/internal/email"
	"github.com/dangerclosesec/clinicore/internal/email/mailer"
	"github.com/dangerclosesec/clinicore/internal/identity"
	"github.com/dangerclosesec/clinicore/internal/identity/gotrue"
	"github.com/dangerclosesec/clinicore/internal/identity/local"
	"github.com/dangerclosesec/clinicore/internal/metrics"
	"github.com/dangerclosesec/clinicore/internal/repository"
	"github.com/dangerclosesec/clinicore/internal/service"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrMisconfigured is returned when a required setting is missing.
var ErrMisconfigured = errors.New("server misconfigured")

// DSN builds the libpq connection string for cfg.
func DSN(cfg *config.Config) string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s search_path=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.SSLMode,
		cfg.Database.SearchPath,
	)
}

func OpenDatabase(cfg *config.Config, logLevel logger.LogLevel) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	db, err := gorm.Open(postgres.Open(DSN(cfg)), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting database instance: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

// NewIdentityProvider returns the hosted GoTrue client or the local
// Postgres-backed provider, as configured.
func NewIdentityProvider(cfg *config.Config, db *gorm.DB) (identity.Provider, error) {
	switch cfg.Identity.Provider {
	case config.IdentityProviderGoTrue:
		if cfg.Identity.URL == "" || cfg.Identity.ServiceRoleKey == "" {
			return nil, fmt.Errorf("%w: IDENTITY_URL and SERVICE_ROLE_KEY are required for the gotrue provider", ErrMisconfigured)
		}
		client, err := gotrue.NewClient(gotrue.Config{
			BaseURL:        cfg.Identity.URL,
			ServiceRoleKey: cfg.Identity.ServiceRoleKey,
			HTTPClient:     &http.Client{Timeout: cfg.Identity.Timeout},
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMisconfigured, err)
		}
		return client, nil

	case config.IdentityProviderLocal:
		if cfg.JWT.Secret == "" {
			return nil, fmt.Errorf("%w: JWT_SECRET is required for the local provider", ErrMisconfigured)
		}
		return local.NewProvider(
			repository.NewUserRepository(db),
			auth.NewPasswordHasher(),
			auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.ExpiryPeriod),
		), nil

	default:
		return nil, fmt.Errorf("%w: unknown identity provider %q", ErrMisconfigured, cfg.Identity.Provider)
	}
}

// NewStaffService assembles the staff service and its optional hooks. The
// access graph and invitation email are enabled only when configured.
func NewStaffService(cfg *config.Config, db *gorm.DB, m *metrics.Metrics) (*service.StaffService, error) {
	provider, err := NewIdentityProvider(cfg, db)
	if err != nil {
		return nil, err
	}

	options := []service.StaffServiceOption{service.WithMetrics(m)}

	if cfg.Permify.Host != "" {
		syncer, err := accesssync.NewPermifySyncer(cfg.Permify.Host,
			accesssync.WithTenant(cfg.Permify.Tenant),
			accesssync.WithSchemaVersion(cfg.Permify.SchemaVersion),
		)
		if err != nil {
			return nil, fmt.Errorf("setting up access sync: %w", err)
		}
		options = append(options, service.WithAccessSyncer(syncer))
	} else {
		slog.Info("Permify host not configured, access graph sync disabled")
	}

	if emailProvider, ok := email.ProviderFor(cfg); ok {
		emailService, err := email.NewEmailService(cfg, emailProvider)
		if err != nil {
			return nil, fmt.Errorf("setting up email service: %w", err)
		}
		options = append(options, service.WithInviter(mailer.NewStaffInviter(emailService, cfg.BaseURL)))
	} else {
		slog.Info("No email provider configured, staff invitations disabled")
	}

	return service.NewStaffService(
		provider,
		repository.NewOrganizationRepository(db),
		repository.NewClinicRepository(db),
		repository.NewStaffRepository(db),
		repository.NewProvisioningAuditRepository(db),
		cfg,
		options...,
	), nil
}
