package domain

import "strings"

// displayNameDelimiter separates name and version in user-visible composites.
// Secret names may not contain it; see validation.SecretName.
const displayNameDelimiter = ".."

// DisplayName composes the user-visible identifier for a secret revision.
// Unversioned secrets display as the bare name.
func DisplayName(name, version string) string {
	if version == "" {
		return name
	}
	return name + displayNameDelimiter + version
}

// SplitDisplayName splits a display name into (name, version) on the last
// ".." occurrence, the inverse of DisplayName.
func SplitDisplayName(displayName string) (name, version string) {
	idx := strings.LastIndex(displayName, displayNameDelimiter)
	if idx < 0 {
		return displayName, ""
	}
	return displayName[:idx], displayName[idx+len(displayNameDelimiter):]
}
