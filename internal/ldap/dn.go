package ldap

import "strings"

// EscapeDNValue escapes an attribute value for use inside a relative
// distinguished name, per RFC 4514: the characters , + " \ < > ; are always
// escaped, a leading # and leading/trailing spaces are escaped, and NUL
// becomes \00. Applied when composing OU= and CN= DNs for add operations.
func EscapeDNValue(value string) string {
	if value == "" {
		return value
	}

	var b strings.Builder
	b.Grow(len(value) + 8)

	for i, r := range value {
		switch r {
		case ',', '+', '"', '\\', '<', '>', ';':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '#':
			if i == 0 {
				b.WriteByte('\\')
			}
			b.WriteRune(r)
		case ' ':
			if i == 0 || i == len(value)-1 {
				b.WriteByte('\\')
			}
			b.WriteRune(r)
		case 0:
			b.WriteString(`\00`)
		default:
			b.WriteRune(r)
		}
	}

	return b.String()
}
