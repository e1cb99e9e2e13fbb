package core

import "errors"

var (
	// ErrLocatorFailed is returned when vswhere.exe exits with a non-zero status
	ErrLocatorFailed = errors.New("locator utility failed")

	// ErrMalformedReport is returned when the vswhere report does not have the expected shape
	ErrMalformedReport = errors.New("malformed locator report")

	// ErrNoUsableToolset is returned when discovery finished without a single complete toolset
	ErrNoUsableToolset = errors.New("could not locate a complete toolset")
)

// IsInvariantViolation reports whether err means the environment broke a contract
// discovery relies on, as opposed to simply not containing a usable toolset.
func IsInvariantViolation(err error) bool {
	return errors.Is(err, ErrLocatorFailed) || errors.Is(err, ErrMalformedReport)
}

// ExitCode maps a discovery error to a process exit status
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrNoUsableToolset):
		return ExitNoToolset
	case IsInvariantViolation(err):
		return ExitInvariant
	default:
		return ExitGeneral
	}
}
