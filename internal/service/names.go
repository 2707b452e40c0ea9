package service

import (
	"fmt"
	"path"
	"strings"
)

// invalidNameChars are rejected in file and folder names. The forward
// slash is included so display names can never smuggle path segments.
const invalidNameChars = "<>:\"|?*\\/"

// reservedNames are device names that several platforms refuse to
// create, matched case-insensitively against the name without extension.
var reservedNames = map[string]struct{}{
	"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
	"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {}, "COM5": {},
	"COM6": {}, "COM7": {}, "COM8": {}, "COM9": {},
	"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {}, "LPT5": {},
	"LPT6": {}, "LPT7": {}, "LPT8": {}, "LPT9": {},
}

// ValidateName enforces the shared naming rules for folders, files and
// uploads. Validation runs before any mutation, so a failure leaves no
// partial state behind.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return newError(KindInvalidName, "name cannot be empty", nil)
	}
	if strings.ContainsAny(trimmed, invalidNameChars) {
		return newError(KindInvalidName, fmt.Sprintf("name contains invalid characters (%s)", invalidNameChars), nil)
	}
	base := trimmed
	if ext := path.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	if _, reserved := reservedNames[strings.ToUpper(base)]; reserved {
		return newError(KindInvalidName, fmt.Sprintf("%q is a reserved name", trimmed), nil)
	}
	return nil
}

// splitExt splits "report.pdf" into ("report", ".pdf"). Dotfiles keep
// the leading dot in the base so ".gitignore (1)" stays readable.
func splitExt(name string) (string, string) {
	ext := path.Ext(name)
	if ext == name {
		return name, ""
	}
	return strings.TrimSuffix(name, ext), ext
}

// numberedName synthesizes the duplicate-upload name: "report (1).pdf".
func numberedName(name string, n int) string {
	base, ext := splitExt(name)
	return fmt.Sprintf("%s (%d)%s", base, n, ext)
}

// copyName synthesizes the duplicate-entry name: "report (Copy).pdf",
// then "report (Copy 2).pdf" and so on.
func copyName(name string, n int) string {
	base, ext := splitExt(name)
	if n <= 1 {
		return fmt.Sprintf("%s (Copy)%s", base, ext)
	}
	return fmt.Sprintf("%s (Copy %d)%s", base, n, ext)
}

// nextFreeName probes candidate names until taken reports false.
// candidate is called with n = 1, 2, ...
func nextFreeName(candidate func(int) string, taken func(string) (bool, error)) (string, error) {
	for n := 1; ; n++ {
		name := candidate(n)
		exists, err := taken(name)
		if err != nil {
			return "", err
		}
		if !exists {
			return name, nil
		}
	}
}
