package errors

import "fmt"

// Wrapf adds formatted context to errors at package boundaries.
// It returns nil if err is nil.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Categorize marks err as belonging to the given sentinel category while keeping the
// original chain intact, so both errors.Is(err, category) and errors.Is(err, cause) hold.
func Categorize(category error, err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", category, fmt.Sprintf(format, args...), err)
}
