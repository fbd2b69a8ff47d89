// Package normalize trims and case-folds user-entered identifiers before
// they are stored or compared.
package normalize

import "strings"

// LoginID trims and lowercases a login ID.
func LoginID(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Name trims a display name and keeps its case.
func Name(s string) string { return strings.TrimSpace(s) }

// Status lowercases a user status ("active" | "disabled").
func Status(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Role lowercases a role name.
func Role(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// QueryParam trims a search box value and keeps its case.
func QueryParam(s string) string { return strings.TrimSpace(s) }
