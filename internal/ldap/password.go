package ldap

import (
	"encoding/binary"
	"unicode/utf16"
)

// uacNormalAccount is the userAccountControl value for a normal, enabled
// account.
const uacNormalAccount = 0x0200

// EncodePassword encodes a cleartext password for the Active Directory
// unicodePwd attribute: the value is wrapped in double quotes and rendered as
// UTF-16 little-endian octets. The directory only accepts writes carrying
// this attribute over a TLS-protected connection.
func EncodePassword(password string) []byte {
	quoted := `"` + password + `"`
	runes := utf16.Encode([]rune(quoted))
	buf := make([]byte, len(runes)*2)
	for i, r := range runes {
		binary.LittleEndian.PutUint16(buf[i*2:], r)
	}
	return buf
}
