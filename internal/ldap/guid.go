package ldap

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Active Directory stores objectGUID in mixed-endian order: the first three
// UUID groups are byte-swapped to little-endian, the final eight octets keep
// their order.

const guidLength = 16

// guidToADBytes converts a parsed UUID to the directory's on-wire octet order.
func guidToADBytes(id uuid.UUID) []byte {
	b := make([]byte, guidLength)
	b[0], b[1], b[2], b[3] = id[3], id[2], id[1], id[0]
	b[4], b[5] = id[5], id[4]
	b[6], b[7] = id[7], id[6]
	copy(b[8:], id[8:])
	return b
}

// guidFromADBytes converts on-wire objectGUID octets back to a UUID.
func guidFromADBytes(raw []byte) (uuid.UUID, error) {
	if len(raw) != guidLength {
		return uuid.Nil, fmt.Errorf("objectGUID must be %d octets, got %d", guidLength, len(raw))
	}
	var b [guidLength]byte
	b[0], b[1], b[2], b[3] = raw[3], raw[2], raw[1], raw[0]
	b[4], b[5] = raw[5], raw[4]
	b[6], b[7] = raw[7], raw[6]
	copy(b[8:], raw[8:])
	return uuid.FromBytes(b[:])
}

// escapeOctets renders raw octets as an LDAP filter value, one \hh escape per
// octet. Binary attributes like objectGUID can only be matched this way.
func escapeOctets(raw []byte) string {
	var b strings.Builder
	b.Grow(len(raw) * 3)
	for _, octet := range raw {
		fmt.Fprintf(&b, `\%02x`, octet)
	}
	return b.String()
}
