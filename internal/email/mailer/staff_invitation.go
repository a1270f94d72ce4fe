// internal/email/mailer/staff_invitation.go
package mailer

import (
	"context"
	"fmt"
	"strings"

	"github.com/dangerclosesec/clinicore/internal/email"
)

const staffInvitationTemplate = "staff_invitation"

// StaffInvitation describes a newly provisioned staff account.
type StaffInvitation struct {
	To               string
	InvitedBy        string
	OrganizationName string
	ClinicCount      int
}

type staffInvitationData struct {
	InvitedBy        string
	OrganizationName string
	ClinicCount      int
	Email            string
	LoginLink        string
}

type StaffInviter struct {
	service  *email.Service
	baseURL  string
	fromName string
}

func NewStaffInviter(service *email.Service, baseURL string) *StaffInviter {
	return &StaffInviter{
		service:  service,
		baseURL:  strings.TrimRight(baseURL, "/"),
		fromName: "Clinicore",
	}
}

// SendStaffInvitation tells the new staff member which organization added them.
func (m *StaffInviter) SendStaffInvitation(ctx context.Context, inv StaffInvitation) error {
	orgName := inv.OrganizationName
	if orgName == "" {
		orgName = "your clinic organization"
	}
	invitedBy := inv.InvitedBy
	if invitedBy == "" {
		invitedBy = "An administrator"
	}

	return m.service.SendEmail(ctx, email.EmailData{
		To:           inv.To,
		FromName:     m.fromName,
		Subject:      fmt.Sprintf("You have been added to %s", orgName),
		TemplateName: staffInvitationTemplate,
		TemplateData: staffInvitationData{
			InvitedBy:        invitedBy,
			OrganizationName: orgName,
			ClinicCount:      inv.ClinicCount,
			Email:            inv.To,
			LoginLink:        m.baseURL + "/login",
		},
	})
}
