package archive

import "strings"

// forbiddenFilenameChars are stripped from user-supplied filenames so the
// result is safe on every filesystem the document may end up on.
const forbiddenFilenameChars = "&/\\|#,+()$~%.'\":*?<>{}"

// Sanitize removes every character of the forbidden set from a user-supplied
// filename and nothing else. It is idempotent. Subject-derived fallback
// names are never sanitized; only user input passes through here.
func Sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(forbiddenFilenameChars, r) {
			return -1
		}
		return r
	}, name)
}
