// internal/repository/mock_gen.go
package repository

//go:generate mockgen -source=./organization.go -destination=../mocks/mock_organization_repository.go -package=mocks OrganizationRepositoryIface
//go:generate mockgen -source=./clinic.go -destination=../mocks/mock_clinic_repository.go -package=mocks ClinicRepositoryIface
//go:generate mockgen -source=./staff.go -destination=../mocks/mock_staff_repository.go -package=mocks StaffRepositoryIface
//go:generate mockgen -source=./provisioning_audit_log.go -destination=../mocks/mock_provisioning_audit_repository.go -package=mocks ProvisioningAuditRepositoryIface
//go:generate mockgen -source=./user.go -destination=../mocks/mock_user_repository.go -package=mocks UserRepositoryIface
