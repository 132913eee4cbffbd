package obs

import (
	"net/url"
	"strings"
)

// Redacted replaces sensitive values in logs.
const Redacted = "[REDACTED]"

// IsSensitiveLogField returns true when a key likely contains sensitive data.
func IsSensitiveLogField(key string) bool {
	normalized := strings.ToLower(strings.TrimSpace(key))
	normalized = strings.ReplaceAll(normalized, "-", "")
	normalized = strings.ReplaceAll(normalized, "_", "")

	switch {
	case normalized == "authorization":
		return true
	case strings.Contains(normalized, "token"):
		return true
	case strings.Contains(normalized, "secret"):
		return true
	case strings.Contains(normalized, "password"):
		return true
	case strings.Contains(normalized, "cookie"):
		return true
	default:
		return false
	}
}

// RedactValue redacts value when key looks sensitive.
func RedactValue(key, value string) string {
	if value != "" && IsSensitiveLogField(key) {
		return Redacted
	}
	return value
}

// RedactURL drops credentials and sensitive query parameters from a URL
// before it is logged. Unparseable input is returned unchanged.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	if u.User != nil {
		u.User = url.User(Redacted)
	}
	if u.RawQuery != "" {
		q := u.Query()
		for k, values := range q {
			for i := range values {
				values[i] = RedactValue(k, values[i])
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String()
}
