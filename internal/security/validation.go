package security

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// ValidArchNameRegex matches vcvarsall.bat architecture options (x86, amd64_arm64, ...)
	ValidArchNameRegex = regexp.MustCompile(`^[a-z0-9]+(_[a-z0-9]+)?$`)

	// DangerousArgChars would change the meaning of a printed shell command
	DangerousArgChars = []string{
		";", "&", "|", "`", "$", "(", ")", "<", ">", "%", "^", "\n", "\r",
	}
)

// ValidateArchName validates an architecture option given on the command line
func ValidateArchName(name string) error {
	if name == "" {
		return fmt.Errorf("architecture cannot be empty")
	}

	if len(name) > 32 {
		return fmt.Errorf("architecture too long (max 32 characters)")
	}

	if err := ValidateCommandArg(name); err != nil {
		return err
	}

	if !ValidArchNameRegex.MatchString(name) {
		return fmt.Errorf("invalid architecture %q (expected e.g. x86, amd64, x86_arm64)", name)
	}

	return nil
}

// ValidateCommandArg validates a command-line argument for safety
func ValidateCommandArg(arg string) error {
	if strings.Contains(arg, "\x00") {
		return fmt.Errorf("argument contains null byte")
	}

	for _, char := range DangerousArgChars {
		if strings.Contains(arg, char) {
			return fmt.Errorf("argument contains dangerous character: %q", char)
		}
	}

	return nil
}

// ValidateConfigPath validates a path read from configuration. Empty is allowed
// and means "use the default".
func ValidateConfigPath(key, path string) error {
	if path == "" {
		return nil
	}

	// Limitar comprimento (verificar ANTES de processar conteúdo)
	if len(path) >= 4096 {
		return fmt.Errorf("%s: path too long (max 4096 characters)", key)
	}

	// Detectar null byte (ataque de path truncation)
	if strings.Contains(path, "\x00") {
		return fmt.Errorf("%s: path contains null byte", key)
	}

	if strings.ContainsAny(path, "\n\r") {
		return fmt.Errorf("%s: path contains a line break", key)
	}

	return nil
}
