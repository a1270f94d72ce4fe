// internal/service/hooks.go
package service

//go:generate mockgen -source=./hooks.go -destination=../mocks/mock_service_hooks.go -package=mocks AccessSyncer,Inviter

import (
	"context"

	"github.com/dangerclosesec/clinicore/internal/accesssync"
	"github.com/dangerclosesec/clinicore/internal/email/mailer"
)

// AccessSyncer mirrors a committed provisioning into an external access graph.
type AccessSyncer interface {
	SyncStaff(ctx context.Context, access accesssync.StaffAccess) error
}

// Inviter notifies the new staff member.
type Inviter interface {
	SendStaffInvitation(ctx context.Context, invitation mailer.StaffInvitation) error
}
