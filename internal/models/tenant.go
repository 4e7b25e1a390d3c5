package models

import "github.com/google/uuid"

// TenantScope is the resolved caller identity every operation runs under.
type TenantScope struct {
	CompanyID uuid.UUID
	Role      Role
	Subject   string
}

// CompanyScope returns an ACCOUNT scope bound to one company.
func CompanyScope(companyID uuid.UUID, subject string) TenantScope {
	return TenantScope{CompanyID: companyID, Role: RoleAccount, Subject: subject}
}

// PlatformScope returns an ADMIN scope. companyID is the admin's own company, if any.
func PlatformScope(companyID uuid.UUID, subject string) TenantScope {
	return TenantScope{CompanyID: companyID, Role: RoleAdmin, Subject: subject}
}

// Unscoped reports whether queries under this scope skip the tenant predicate.
func (s TenantScope) Unscoped() bool {
	return s.Role == RoleAdmin
}

// Owns reports whether a record of companyID is visible under this scope.
func (s TenantScope) Owns(companyID uuid.UUID) bool {
	return s.Unscoped() || s.CompanyID == companyID
}
