package utils

import "strings"

// Roles a dashboard token may carry. Admins can trigger collection runs;
// managers and viewers only read reports.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleViewer  = "viewer"
)

// ValidUserRoles is keyed by the lowercase role name.
var ValidUserRoles = map[string]bool{
	RoleAdmin:   true,
	RoleManager: true,
	RoleViewer:  true,
}

// ValidateAndNormalizeRole trims and lowercases a token's role claim and
// reports whether the dashboard knows it.
func ValidateAndNormalizeRole(role string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(role))
	return normalized, ValidUserRoles[normalized]
}

// IsValidRole matches case-insensitively but does not trim.
func IsValidRole(role string) bool {
	return ValidUserRoles[strings.ToLower(role)]
}
