package audit

//go:generate mockgen -source=./logger.go -destination=../mocks/mock_audit_logger.go -package=mocks Logger

import (
	"context"
	"fmt"

	"github.com/dangerclosesec/clinicore/internal/model"
	"github.com/dangerclosesec/clinicore/internal/repository"
)

// Logger records staff provisioning attempts
type Logger interface {
	// LogProvisioning stores one attempt. Request metadata found in ctx is
	// copied onto the entry when the entry does not carry its own.
	LogProvisioning(ctx context.Context, entry *model.ProvisioningAuditLog) error
}

// NoOpLogger is a logger that does nothing
type NoOpLogger struct{}

// LogProvisioning implements Logger.LogProvisioning
func (l *NoOpLogger) LogProvisioning(ctx context.Context, entry *model.ProvisioningAuditLog) error {
	return nil
}

// StoreLogger writes audit entries to the relational store
type StoreLogger struct {
	repo repository.ProvisioningAuditRepositoryIface
}

func NewStoreLogger(repo repository.ProvisioningAuditRepositoryIface) *StoreLogger {
	return &StoreLogger{repo: repo}
}

// LogProvisioning implements Logger.LogProvisioning
func (l *StoreLogger) LogProvisioning(ctx context.Context, entry *model.ProvisioningAuditLog) error {
	md := RequestMetadataFrom(ctx)
	if entry.RequestID == "" {
		entry.RequestID = md.RequestID
	}
	if entry.ClientIP == "" {
		entry.ClientIP = md.ClientIP
	}
	if entry.UserAgent == "" {
		entry.UserAgent = md.UserAgent
	}

	if err := l.repo.Create(ctx, entry); err != nil {
		return fmt.Errorf("writing provisioning audit log: %w", err)
	}
	return nil
}
