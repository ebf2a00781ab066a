package veza

import "strings"

// ProviderName builds the provider name pushed to Veza. Characters outside [A-Za-z0-9_-]
// become '_' and a non-empty prefix is joined with '_'.
func ProviderName(name, prefix string) string {
	full := sanitize(name)
	if prefix != "" {
		full = sanitize(prefix) + "_" + full
	}
	return full
}

func sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
