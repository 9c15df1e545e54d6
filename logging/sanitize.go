package logging

import "strings"

// maxMessageLength truncates oversized captured messages so a noisy
// collaborator cannot exhaust memory through the interceptor.
const maxMessageLength = 64 * 1024

// sanitizeMessage strips CR/LF so captured tool output cannot forge log
// lines, and truncates oversized input.
func sanitizeMessage(s string) string {
	if len(s) > maxMessageLength {
		s = s[:maxMessageLength] + "... [truncated]"
	}
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}
