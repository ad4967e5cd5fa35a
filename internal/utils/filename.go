package utils

import (
	"strings"
)

// IsSafeToken reports whether a client-supplied file or directory name can
// be joined under the output directory without escaping it. Path
// separators and traversal sequences are rejected outright rather than
// cleaned.
func IsSafeToken(name string) bool {
	if name == "" || name == "." {
		return false
	}
	if strings.Contains(name, "..") {
		return false
	}
	if strings.ContainsAny(name, `/\`) {
		return false
	}
	return true
}
