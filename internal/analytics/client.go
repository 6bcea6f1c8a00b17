package analytics

import "strings"

// UnknownIP is recorded when the client address cannot be determined.
const UnknownIP = "unknown"

// ClientIP returns the originating client from an X-Forwarded-For value: the
// first comma-separated entry, trimmed. An absent or blank entry yields
// UnknownIP.
func ClientIP(forwardedFor string) string {
	first, _, _ := strings.Cut(forwardedFor, ",")
	if first = strings.TrimSpace(first); first != "" {
		return first
	}
	return UnknownIP
}

// UserAgent returns the header value, or nil when it is empty.
func UserAgent(header string) *string {
	if header == "" {
		return nil
	}
	return &header
}
