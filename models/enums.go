package models

import (
	"database/sql/driver"
	"errors"
	"strings"
)

type UserRole string

const (
	UserRoleAdmin    UserRole = "admin"
	UserRoleOperator UserRole = "operator"
	UserRoleStaff    UserRole = "staff"
)

// ParseUserRole maps the legacy role column onto the portal roles. Unknown values become staff.
func ParseUserRole(s string) UserRole {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin", "administrator", "superadmin":
		return UserRoleAdmin
	case "operator", "op":
		return UserRoleOperator
	default:
		return UserRoleStaff
	}
}

func (r UserRole) Value() (driver.Value, error) {
	return string(r), nil
}

func (r *UserRole) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		*r = UserRole(v)
	case []byte:
		*r = UserRole(v)
	case nil:
		*r = UserRoleStaff
	default:
		return errors.New("invalid user role")
	}
	return nil
}

type ReportStatus string

const (
	ReportStatusDraft     ReportStatus = "draft"
	ReportStatusSubmitted ReportStatus = "submitted"
	ReportStatusApproved  ReportStatus = "approved"
)

// ParseReportStatus accepts both the legacy Indonesian labels and the portal values.
func ParseReportStatus(s string) ReportStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "approved", "disetujui", "1":
		return ReportStatusApproved
	case "submitted", "diajukan", "terkirim":
		return ReportStatusSubmitted
	default:
		return ReportStatusDraft
	}
}
