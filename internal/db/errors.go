package db

import "strings"

// IsUniqueViolation reports whether err came from a UNIQUE constraint
// (sqlite/libsql and postgres wording).
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || // sqlite, libsql
		strings.Contains(msg, "duplicate key value") // postgres
}
