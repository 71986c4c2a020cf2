// Package constants provides shared constants used throughout the grouping
// codebase. This includes form-level bounds, tokenization limits, and file
// permissions that should be consistent across the application.
package constants

// Form-level constants define the structural bounds of class fields
const (
	// MinFormLevel is the lowest form number a class field may carry
	MinFormLevel = 1

	// MaxFormLevel is the highest form number a class field may carry
	MaxFormLevel = 6

	// JuniorFormMax is the highest form taught on the junior curriculum.
	// Forms above it take the senior (D-prefixed) code family.
	JuniorFormMax = 3

	// EligibleTokenCount is the token count of a reconcilable class field
	// (group, subject, teacher)
	EligibleTokenCount = 3
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)
