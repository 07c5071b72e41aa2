package buildstate

import "fmt"

// RestorePolicy decides what happens to a live module without saved state.
type RestorePolicy string

const (
	// RestoreStrict fails the restore.
	RestoreStrict RestorePolicy = "strict"

	// RestoreLenient logs a warning and leaves the module untouched.
	RestoreLenient RestorePolicy = "lenient"
)

// IsValid checks if the policy is valid
func (p RestorePolicy) IsValid() bool {
	switch p {
	case RestoreStrict, RestoreLenient:
		return true
	default:
		return false
	}
}

// String returns the string representation of RestorePolicy
func (p RestorePolicy) String() string {
	return string(p)
}

// ParseRestorePolicy parses a string into a RestorePolicy
func ParseRestorePolicy(s string) (RestorePolicy, error) {
	p := RestorePolicy(s)
	if !p.IsValid() {
		return "", fmt.Errorf("invalid restore policy: %s (must be strict or lenient)", s)
	}
	return p, nil
}
