package validate

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Limits applied to values supplied on the command line or at prompts.
const (
	MaxUnitNameLen  = 256
	MaxEnvKeyLen    = 256
	MaxEnvValueSize = 32768
)

var (
	// sensitiveKeywords identifies environment variable names that likely carry secrets.
	sensitiveKeywords = []string{
		"password", "secret", "key", "token", "auth", "credential",
		"private", "cert", "api_key", "access_key",
	}

	// Systemd unit names: alphanumerics, dots, dashes, underscores, @, colons and \x escapes.
	validUnitName = regexp.MustCompile(`^[a-zA-Z0-9._@:\\-]+$`)
)

// UnitName validates that a unit name is safe to use as a file name and a systemctl argument.
func UnitName(unitName string) error {
	if unitName == "" {
		return fmt.Errorf("unit name cannot be empty")
	}

	if !validUnitName.MatchString(unitName) {
		return fmt.Errorf("invalid unit name %q: contains unsafe characters", unitName)
	}

	if unitName == "." || unitName == ".." {
		return fmt.Errorf("invalid unit name %q", unitName)
	}

	if len(unitName) > MaxUnitNameLen {
		return fmt.Errorf("unit name too long")
	}

	return nil
}

// SingleLine rejects values that would break out of their directive line.
func SingleLine(field, value string) error {
	for i, r := range value {
		switch {
		case r == '\n' || r == '\r':
			return fmt.Errorf("%s must be a single line", field)
		case r == 0:
			return fmt.Errorf("%s contains null byte at position %d", field, i)
		case r < 32 && r != '\t':
			return fmt.Errorf("%s contains control character at position %d", field, i)
		}
	}
	return nil
}

// EnvAssignment validates a KEY=VALUE entry and returns advisory warnings for it.
func EnvAssignment(entry string) ([]string, error) {
	key, value, found := strings.Cut(entry, "=")
	if !found {
		return nil, fmt.Errorf("environment entry %q must have the form KEY=VALUE", entry)
	}

	if err := EnvKey(key); err != nil {
		return nil, err
	}

	if err := SingleLine("environment value for "+key, value); err != nil {
		return nil, err
	}

	var warnings []string
	if len(value) > MaxEnvValueSize {
		warnings = append(warnings, fmt.Sprintf("environment variable %s has a very large value (%d bytes)", key, len(value)))
	}
	if strings.Contains(value, `"`) {
		warnings = append(warnings, fmt.Sprintf("environment variable %s contains a double quote which systemd will not unescape", key))
	}
	if isSensitiveKey(key) {
		warnings = append(warnings, fmt.Sprintf("environment variable %s looks sensitive; unit files are world-readable, consider --env-file", key))
	}
	return warnings, nil
}

// EnvKey validates an environment variable name against POSIX conventions.
func EnvKey(key string) error {
	if key == "" {
		return fmt.Errorf("environment variable key cannot be empty")
	}

	if len(key) > MaxEnvKeyLen {
		return fmt.Errorf("environment variable key is too long: %d characters (max %d)", len(key), MaxEnvKeyLen)
	}

	for i, r := range key {
		if i == 0 {
			if unicode.IsDigit(r) {
				return fmt.Errorf("environment variable key cannot start with digit: %s", key)
			}
			if !unicode.IsLetter(r) && r != '_' {
				return fmt.Errorf("environment variable key must start with letter or underscore: %s", key)
			}
		} else if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return fmt.Errorf("environment variable key contains invalid character '%c': %s", r, key)
		}
	}

	return nil
}

// isSensitiveKey checks if an environment variable key indicates sensitive data.
func isSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)
	for _, keyword := range sensitiveKeywords {
		if strings.Contains(lowerKey, keyword) {
			return true
		}
	}
	return false
}

// SanitizeForLogging redacts sensitive information from strings for safe logging.
func SanitizeForLogging(key, value string) string {
	if isSensitiveKey(key) {
		if len(value) <= 4 {
			return "[REDACTED]"
		}
		return value[:2] + strings.Repeat("*", len(value)-4) + value[len(value)-2:]
	}
	return value
}
