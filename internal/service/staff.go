// internal/service/staff.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/dangerclosesec/clinicore/internal/accesssync"
	"github.com/dangerclosesec/clinicore/internal/audit"
	"github.com/dangerclosesec/clinicore/internal/config"
	"github.com/dangerclosesec/clinicore/internal/domain"
	"github.com/dangerclosesec/clinicore/internal/email/mailer"
	"github.com/dangerclosesec/clinicore/internal/identity"
	"github.com/dangerclosesec/clinicore/internal/metrics"
	"github.com/dangerclosesec/clinicore/internal/model"
	"github.com/dangerclosesec/clinicore/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// Stage is the provisioning state machine position.
type Stage string

const (
	StageReceived          Stage = "received"
	StageAuthenticating    Stage = "authenticating"
	StageAuthorizing       Stage = "authorizing"
	StageCreatingIdentity  Stage = "creating_identity"
	StageWritingMembership Stage = "writing_membership"
	StageAssigningClinics  Stage = "assigning_clinics"
	StageSucceeded         Stage = "succeeded"
	StageFailed            Stage = "failed"
)

// Caller-facing messages.
const (
	msgNoToken           = "No auth token (Bearer) provided"
	msgInvalidSession    = "Invalid session"
	msgOrgNotFound       = "org not found"
	msgOrgSelectFailed   = "orgs select failed"
	msgMemberSelect      = "org_members select failed"
	msgNotAllowed        = "Not allowed for this org"
	msgRoleAboveCaller   = "Not allowed to grant role %s"
	msgClinicSelect      = "clinics select failed"
	msgMembershipUpsert  = "org_members upsert failed"
	msgClinicStaffInsert = "clinic_staff insert failed"
)

// ProvisionError is a classified failure. Stage is where the attempt stopped
// and Message is safe to return to the caller.
type ProvisionError struct {
	AttemptID string
	Stage     Stage
	Message   string
	Err       error
}

func (e *ProvisionError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Stage, e.Message, e.Err)
}

func (e *ProvisionError) Unwrap() error {
	return e.Err
}

func (e *ProvisionError) Kind() domain.Kind {
	return domain.KindOf(e.Err)
}

// ProvisionInput is the create-staff request. Token is the caller's bearer token.
type ProvisionInput struct {
	Token     string   `json:"-"`
	Email     string   `json:"email" validate:"required,email"`
	Password  string   `json:"password,omitempty"`
	OrgID     string   `json:"org_id" validate:"required,uuid"`
	ClinicIDs []string `json:"clinic_ids,omitempty" validate:"omitempty,dive,uuid"`
	Role      string   `json:"role,omitempty" validate:"omitempty,oneof=staff admin owner"`
}

type ProvisionOutput struct {
	AttemptID string    `json:"-"`
	UserID    uuid.UUID `json:"user_id"`
}

type StaffService struct {
	identity   identity.Provider
	orgRepo    repository.OrganizationRepositoryIface
	clinicRepo repository.ClinicRepositoryIface
	staffRepo  repository.StaffRepositoryIface
	auditRepo  repository.ProvisioningAuditRepositoryIface
	auditLog   audit.Logger
	access     AccessSyncer
	inviter    Inviter
	metrics    *metrics.Metrics
	config     *config.Config
	validate   *validator.Validate
	attemptID  func() string
}

type StaffServiceOption func(*StaffService)

func WithAuditLogger(logger audit.Logger) StaffServiceOption {
	return func(s *StaffService) {
		s.auditLog = logger
	}
}

func WithAccessSyncer(syncer AccessSyncer) StaffServiceOption {
	return func(s *StaffService) {
		s.access = syncer
	}
}

func WithInviter(inviter Inviter) StaffServiceOption {
	return func(s *StaffService) {
		s.inviter = inviter
	}
}

func WithMetrics(m *metrics.Metrics) StaffServiceOption {
	return func(s *StaffService) {
		s.metrics = m
	}
}

func NewStaffService(
	provider identity.Provider,
	orgRepo repository.OrganizationRepositoryIface,
	clinicRepo repository.ClinicRepositoryIface,
	staffRepo repository.StaffRepositoryIface,
	auditRepo repository.ProvisioningAuditRepositoryIface,
	cfg *config.Config,
	options ...StaffServiceOption,
) *StaffService {
	s := &StaffService{
		identity:   provider,
		orgRepo:    orgRepo,
		clinicRepo: clinicRepo,
		staffRepo:  staffRepo,
		auditRepo:  auditRepo,
		config:     cfg,
		validate:   newValidator(),
		attemptID:  func() string { return ulid.Make().String() },
	}
	for _, o := range options {
		o(s)
	}

	if s.auditLog == nil {
		if auditRepo != nil {
			s.auditLog = audit.NewStoreLogger(auditRepo)
		} else {
			s.auditLog = &audit.NoOpLogger{}
		}
	}

	return s
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// attempt tracks one Provision call for logging, metrics and the audit row.
type attempt struct {
	id          string
	stage       Stage
	callerID    uuid.UUID
	orgID       string
	email       string
	role        model.OrgRole
	clinicIDs   []uuid.UUID
	newUserID   uuid.UUID
	compensated bool
}

func (a *attempt) fail(stage Stage, message string, err error) *ProvisionError {
	a.stage = stage
	return &ProvisionError{AttemptID: a.id, Stage: stage, Message: message, Err: err}
}

func (a *attempt) logAttrs() []any {
	attrs := []any{"attemptID", a.id, "stage", a.stage, "orgID", a.orgID}
	if a.callerID != uuid.Nil {
		attrs = append(attrs, "callerID", a.callerID)
	}
	if a.newUserID != uuid.Nil {
		attrs = append(attrs, "newUserID", a.newUserID)
	}
	return attrs
}

// provisionRequest is a ProvisionInput after validation and defaults.
type provisionRequest struct {
	email     string
	password  string
	orgID     uuid.UUID
	clinicIDs []uuid.UUID
	role      model.OrgRole
}

// Provision creates a staff identity in the caller's organization and grants it
// reception access to the requested clinics. Every gate runs before the
// identity is created; the membership and grants are written in one transaction.
func (s *StaffService) Provision(ctx context.Context, input ProvisionInput) (*ProvisionOutput, error) {
	start := time.Now()
	a := &attempt{
		id:    s.attemptID(),
		stage: StageReceived,
		orgID: strings.ToLower(strings.TrimSpace(input.OrgID)),
		email: strings.TrimSpace(input.Email),
	}

	out, err := s.provision(ctx, a, input)
	s.finish(ctx, a, err, time.Since(start))

	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *StaffService) provision(ctx context.Context, a *attempt, input ProvisionInput) (*ProvisionOutput, error) {
	req, err := s.normalize(ctx, a, input)
	if err != nil {
		return nil, err
	}
	a.role = req.role
	a.clinicIDs = req.clinicIDs

	caller, perr := s.authenticate(ctx, a, input.Token)
	if perr != nil {
		return nil, perr
	}

	org, callerRole, perr := s.authorize(ctx, a, caller, req.orgID)
	if perr != nil {
		return nil, perr
	}

	if !callerRole.Covers(req.role) {
		slog.WarnContext(ctx, "Requested role exceeds caller's role",
			append(a.logAttrs(), "callerRole", callerRole, "requestedRole", req.role)...)
		return nil, a.fail(StageAuthorizing, fmt.Sprintf(msgRoleAboveCaller, req.role), domain.ErrRoleAboveCaller)
	}

	if perr := s.checkClinicScope(ctx, a, org, req.clinicIDs); perr != nil {
		return nil, perr
	}

	a.stage = StageCreatingIdentity
	user, err := s.identity.CreateUser(ctx, identity.CreateUserParams{
		Email:        req.email,
		Password:     req.password,
		EmailConfirm: true,
		UserMetadata: map[string]interface{}{
			"created_by": identity.CreatedByStaffProvisioning,
			"org_id":     org.ID.String(),
		},
	})
	if err != nil {
		return nil, s.identityFailure(ctx, a, err)
	}
	a.newUserID = user.ID

	a.stage = StageWritingMembership
	member := &model.OrgMember{OrgID: org.ID, UserID: user.ID, Role: req.role}
	grants := make([]*model.ClinicStaff, 0, len(req.clinicIDs))
	for _, clinicID := range req.clinicIDs {
		grants = append(grants, &model.ClinicStaff{
			ClinicID: clinicID,
			UserID:   user.ID,
			Role:     model.ClinicRoleReception,
		})
	}

	if err := s.staffRepo.Assign(ctx, member, grants); err != nil {
		return nil, s.assignFailure(ctx, a, err)
	}

	a.stage = StageSucceeded

	s.afterCommit(ctx, a, caller, org, user)

	return &ProvisionOutput{AttemptID: a.id, UserID: user.ID}, nil
}

func (s *StaffService) normalize(ctx context.Context, a *attempt, input ProvisionInput) (*provisionRequest, error) {
	input.Email = strings.TrimSpace(input.Email)
	// UUIDs are case-insensitive; the validator only accepts lowercase hex.
	input.OrgID = strings.ToLower(strings.TrimSpace(input.OrgID))
	if len(input.ClinicIDs) > 0 {
		clinicIDs := make([]string, len(input.ClinicIDs))
		for i, raw := range input.ClinicIDs {
			clinicIDs[i] = strings.ToLower(strings.TrimSpace(raw))
		}
		input.ClinicIDs = clinicIDs
	}
	if input.Role == "" {
		input.Role = s.config.Staff.DefaultRole
	}

	if err := s.validate.Struct(input); err != nil {
		message := validationMessage(err)
		slog.WarnContext(ctx, "Rejected staff provisioning request", "attemptID", a.id, "reason", message)
		return nil, a.fail(StageReceived, message, fmt.Errorf("%w: %s", domain.ErrInvalidRequest, message))
	}

	req := &provisionRequest{
		email:    input.Email,
		password: input.Password,
		orgID:    uuid.MustParse(input.OrgID),
		role:     model.OrgRole(input.Role),
	}

	if req.password == "" {
		req.password = s.config.Staff.DefaultPassword
		slog.WarnContext(ctx, "No password supplied, using the configured default staff password", "attemptID", a.id)
	}

	seen := make(map[uuid.UUID]bool, len(input.ClinicIDs))
	for _, raw := range input.ClinicIDs {
		id := uuid.MustParse(raw)
		if seen[id] {
			continue
		}
		seen[id] = true
		req.clinicIDs = append(req.clinicIDs, id)
	}

	return req, nil
}

// validationMessage turns the first validator failure into caller-facing text.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request"
	}

	fe := verrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " is not a valid email address"
	case "uuid":
		return field + " must be a UUID"
	case "oneof":
		return field + " must be one of: " + fe.Param()
	default:
		return field + " is invalid"
	}
}

func (s *StaffService) authenticate(ctx context.Context, a *attempt, token string) (*identity.Caller, *ProvisionError) {
	a.stage = StageAuthenticating

	if token == "" {
		return nil, a.fail(StageAuthenticating, msgNoToken, domain.ErrUnauthenticated)
	}

	caller, err := s.identity.VerifyToken(ctx, token)
	if err != nil || caller == nil || caller.ID == uuid.Nil {
		slog.WarnContext(ctx, "Caller token rejected", append(a.logAttrs(), "error", err)...)
		if err == nil {
			err = errors.New("token resolved to no user")
		}
		return nil, a.fail(StageAuthenticating, msgInvalidSession, fmt.Errorf("%w: %w", domain.ErrUnauthenticated, err))
	}

	a.callerID = caller.ID
	return caller, nil
}

// authorize allows the organization's recorded owner and members holding a
// privileged role, and returns the role the caller acts with.
func (s *StaffService) authorize(ctx context.Context, a *attempt, caller *identity.Caller, orgID uuid.UUID) (*model.Organization, model.OrgRole, *ProvisionError) {
	a.stage = StageAuthorizing

	org, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		if errors.Is(err, domain.ErrOrganizationNotFound) {
			return nil, "", a.fail(StageAuthorizing, msgOrgNotFound, err)
		}
		slog.ErrorContext(ctx, "Organization lookup failed", append(a.logAttrs(), "error", err)...)
		return nil, "", a.fail(StageAuthorizing, msgOrgSelectFailed, err)
	}

	if org.OwnedBy(caller.ID) {
		return org, model.OrgRoleOwner, nil
	}

	member, err := s.orgRepo.FindMembership(ctx, org.ID, caller.ID, model.PrivilegedOrgRoles)
	switch {
	case err == nil && member.IsPrivileged():
		return org, member.Role, nil
	case err == nil, errors.Is(err, domain.ErrMembershipNotFound):
		slog.WarnContext(ctx, "Caller is not privileged in organization", a.logAttrs()...)
		return nil, "", a.fail(StageAuthorizing, msgNotAllowed, domain.ErrForbidden)
	default:
		slog.ErrorContext(ctx, "Membership lookup failed", append(a.logAttrs(), "error", err)...)
		return nil, "", a.fail(StageAuthorizing, msgMemberSelect, err)
	}
}

// checkClinicScope refuses clinic ids that do not belong to org.
func (s *StaffService) checkClinicScope(ctx context.Context, a *attempt, org *model.Organization, clinicIDs []uuid.UUID) *ProvisionError {
	if len(clinicIDs) == 0 {
		return nil
	}

	found, err := s.clinicRepo.FindIDsInOrganization(ctx, org, clinicIDs)
	if err != nil {
		slog.ErrorContext(ctx, "Clinic scope lookup failed", append(a.logAttrs(), "error", err)...)
		return a.fail(StageAuthorizing, msgClinicSelect, err)
	}

	inOrg := make(map[uuid.UUID]bool, len(found))
	for _, id := range found {
		inOrg[id] = true
	}

	for _, id := range clinicIDs {
		if !inOrg[id] {
			slog.WarnContext(ctx, "Requested clinic is outside the organization", append(a.logAttrs(), "clinicID", id)...)
			return a.fail(StageAuthorizing, fmt.Sprintf("clinic %s does not belong to this org", id), domain.ErrClinicOutsideOrganization)
		}
	}

	return nil
}

func (s *StaffService) identityFailure(ctx context.Context, a *attempt, err error) *ProvisionError {
	message := err.Error()
	var idErr *identity.Error
	if errors.As(err, &idErr) {
		message = idErr.Message
	}

	if !errors.Is(err, domain.ErrEmailAlreadyExists) && !errors.Is(err, domain.ErrIdentityRejected) {
		err = fmt.Errorf("%w: %w", domain.ErrIdentityRejected, err)
	}

	slog.WarnContext(ctx, "Identity provider refused new staff user", append(a.logAttrs(), "error", err)...)
	return a.fail(StageCreatingIdentity, message, err)
}

// assignFailure reports a failed membership transaction and deletes the
// identity created moments earlier so the email can be provisioned again.
func (s *StaffService) assignFailure(ctx context.Context, a *attempt, err error) *ProvisionError {
	stage, message := StageWritingMembership, msgMembershipUpsert
	var storeErr *domain.StoreError
	if errors.As(err, &storeErr) && storeErr.Op == "inserting clinic grants" {
		stage, message = StageAssigningClinics, msgClinicStaffInsert
	}
	a.stage = stage

	slog.ErrorContext(ctx, "Staff assignment transaction failed", append(a.logAttrs(), "error", err)...)

	if s.config.Staff.CompensateOnFail {
		// The request context may already be cancelled.
		delErr := s.identity.DeleteUser(context.WithoutCancel(ctx), a.newUserID)
		s.metrics.ObserveCompensation(delErr)
		if delErr != nil {
			slog.ErrorContext(ctx, "Could not delete identity after failed assignment, user is orphaned",
				append(a.logAttrs(), "error", delErr)...)
		} else {
			a.compensated = true
			slog.InfoContext(ctx, "Deleted identity after failed assignment", a.logAttrs()...)
		}
	} else {
		slog.WarnContext(ctx, "Identity left without membership", a.logAttrs()...)
	}

	return a.fail(stage, message, fmt.Errorf("%w: %w", domain.ErrInternal, err))
}

// afterCommit runs the best-effort hooks. Their failures are logged only.
func (s *StaffService) afterCommit(ctx context.Context, a *attempt, caller *identity.Caller, org *model.Organization, user *identity.User) {
	if s.access != nil {
		err := s.access.SyncStaff(ctx, accesssync.StaffAccess{
			OrgID:     org.ID,
			UserID:    user.ID,
			Role:      a.role,
			ClinicIDs: a.clinicIDs,
		})
		if err != nil {
			slog.WarnContext(ctx, "Access graph sync failed", append(a.logAttrs(), "error", err)...)
		}
	}

	if s.inviter != nil {
		err := s.inviter.SendStaffInvitation(ctx, mailer.StaffInvitation{
			To:               a.email,
			InvitedBy:        caller.Email,
			OrganizationName: org.Name,
			ClinicCount:      len(a.clinicIDs),
		})
		if err != nil {
			slog.WarnContext(ctx, "Staff invitation email failed", append(a.logAttrs(), "error", err)...)
		}
	}
}

func (s *StaffService) finish(ctx context.Context, a *attempt, err error, elapsed time.Duration) {
	s.metrics.ObserveProvision(err, elapsed)

	entry := &model.ProvisioningAuditLog{
		AttemptID:   a.id,
		OrgID:       a.orgID,
		Email:       a.email,
		Role:        string(a.role),
		ClinicIDs:   make(model.StringList, 0, len(a.clinicIDs)),
		Stage:       string(a.stage),
		Outcome:     model.OutcomeSucceeded,
		Compensated: a.compensated,
	}
	for _, id := range a.clinicIDs {
		entry.ClinicIDs = append(entry.ClinicIDs, id.String())
	}
	if a.callerID != uuid.Nil {
		entry.CallerID = a.callerID.String()
	}
	if a.newUserID != uuid.Nil {
		entry.NewUserID = a.newUserID.String()
	}

	if err != nil {
		entry.Outcome = model.OutcomeFailed
		entry.ErrorKind = string(domain.KindOf(err))
		entry.ErrorMessage = err.Error()
		slog.InfoContext(ctx, "Staff provisioning failed", append(a.logAttrs(), "kind", entry.ErrorKind, "elapsed", elapsed)...)
	} else {
		slog.InfoContext(ctx, "Staff provisioned", append(a.logAttrs(), "clinics", len(a.clinicIDs), "elapsed", elapsed)...)
	}

	if logErr := s.auditLog.LogProvisioning(ctx, entry); logErr != nil {
		slog.ErrorContext(ctx, "Failed to write provisioning audit log", append(a.logAttrs(), "error", logErr)...)
	}
}

// ListStaff returns the clinic grants of the organization's clinics. The
// caller must be allowed to provision staff in the organization.
func (s *StaffService) ListStaff(ctx context.Context, token, orgID string) ([]*model.ClinicStaff, error) {
	a := &attempt{id: s.attemptID(), stage: StageReceived, orgID: orgID}

	org, err := s.authorizeRequest(ctx, a, token, orgID)
	if err != nil {
		return nil, err
	}

	grants, err := s.staffRepo.ListByOrganization(ctx, org)
	if err != nil {
		slog.ErrorContext(ctx, "Listing clinic staff failed", append(a.logAttrs(), "error", err)...)
		return nil, a.fail(StageFailed, "clinic_staff select failed", err)
	}
	return grants, nil
}

// AuditQuery narrows AuditTrail results.
type AuditQuery struct {
	Outcome string
	Email   string
	Limit   int
	Offset  int
}

// AuditTrail lists the organization's provisioning attempts, newest first.
func (s *StaffService) AuditTrail(ctx context.Context, token, orgID string, query AuditQuery) ([]model.ProvisioningAuditLog, int64, error) {
	a := &attempt{id: s.attemptID(), stage: StageReceived, orgID: orgID}

	org, err := s.authorizeRequest(ctx, a, token, orgID)
	if err != nil {
		return nil, 0, err
	}

	logs, total, err := s.auditRepo.Query(ctx, repository.AuditQueryParams{
		OrgID:   org.ID.String(),
		Outcome: query.Outcome,
		Email:   query.Email,
		Limit:   query.Limit,
		Offset:  query.Offset,
	})
	if err != nil {
		slog.ErrorContext(ctx, "Querying provisioning audit logs failed", append(a.logAttrs(), "error", err)...)
		return nil, 0, a.fail(StageFailed, "audit log select failed", err)
	}
	return logs, total, nil
}

func (s *StaffService) authorizeRequest(ctx context.Context, a *attempt, token, orgID string) (*model.Organization, error) {
	id, err := uuid.Parse(strings.TrimSpace(orgID))
	if err != nil {
		return nil, a.fail(StageReceived, "org_id must be a UUID", fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err))
	}

	caller, perr := s.authenticate(ctx, a, token)
	if perr != nil {
		return nil, perr
	}

	org, _, perr := s.authorize(ctx, a, caller, id)
	if perr != nil {
		return nil, perr
	}
	return org, nil
}
