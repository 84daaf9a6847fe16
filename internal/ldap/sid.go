package ldap

import (
	"fmt"
	"regexp"

	"github.com/bwmarrin/go-objectsid"
)

var sidPattern = regexp.MustCompile(`^S-\d+-\d+(-\d+)+$`)

// validSIDString reports whether s is a string-form security identifier
// (S-1-5-21-...).
func validSIDString(s string) bool {
	return sidPattern.MatchString(s)
}

// decodeSID converts a binary objectSid attribute value to its string form.
func decodeSID(raw []byte) (string, error) {
	// objectsid.Decode indexes into the revision and sub-authority fields;
	// an 8-octet header is the minimum well-formed value.
	if len(raw) < 8 {
		return "", fmt.Errorf("objectSid value too short: %d octets", len(raw))
	}
	return objectsid.Decode(raw).String(), nil
}
