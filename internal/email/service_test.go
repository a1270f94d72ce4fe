package email

import (
	"testing"

	"github.com/dangerclosesec/clinicore/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderFor(t *testing.T) {
	cfg := &config.Config{}
	_, ok := ProviderFor(cfg)
	assert.False(t, ok)

	cfg.SMTP.Host = "smtp.example.com"
	provider, ok := ProviderFor(cfg)
	assert.True(t, ok)
	assert.Equal(t, ProviderSMTP, provider)

	cfg.Sendgrid.APIKey = "SG.key"
	provider, _ = ProviderFor(cfg)
	assert.Equal(t, ProviderSendgrid, provider)
}

func TestRenderStaffInvitation(t *testing.T) {
	cfg := &config.Config{}
	cfg.SMTP.Host = "smtp.example.com"
	cfg.SMTP.Port = 587

	svc, err := NewEmailService(cfg, ProviderSMTP)
	require.NoError(t, err)
	require.Contains(t, svc.Templates, "staff_invitation")

	html, text, err := svc.renderTemplate("staff_invitation", map[string]interface{}{
		"InvitedBy":        "owner@example.com",
		"OrganizationName": "Northside <Clinics>",
		"ClinicCount":      2,
		"Email":            "reception@example.com",
		"LoginLink":        "http://localhost:5173/login",
	})
	require.NoError(t, err)

	assert.Contains(t, html, "Northside &lt;Clinics&gt;")
	assert.Contains(t, html, "2 clinics")
	assert.Contains(t, text, "Northside <Clinics>")
	assert.Contains(t, text, "reception@example.com")
}

func TestRenderUnknownTemplate(t *testing.T) {
	cfg := &config.Config{}
	svc, err := NewEmailService(cfg, ProviderSendgrid)
	require.NoError(t, err)

	_, _, err = svc.renderTemplate("missing", nil)
	assert.Error(t, err)
}

func TestNewEmailServiceRejectsUnknownProvider(t *testing.T) {
	_, err := NewEmailService(&config.Config{}, Provider("pigeon"))
	assert.Error(t, err)
}
