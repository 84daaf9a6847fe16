package ldap

import (
	"github.com/go-ldap/ldap/v3"
)

// Kind selects the entity shape a query maps its results into.
type Kind int

const (
	KindOrganization Kind = iota
	KindUser
)

// String returns string representation of the entity kind.
func (k Kind) String() string {
	switch k {
	case KindOrganization:
		return "organization"
	case KindUser:
		return "user"
	default:
		return "unknown"
	}
}

// Entity is any domain object constructible from a directory entry.
type Entity interface {
	// DN returns the entry's distinguished name, the entity's identity.
	DN() string
}

// Organization is an immutable snapshot of an organizational unit.
type Organization struct {
	DistinguishedName string
	Name              string
}

func (o *Organization) DN() string { return o.DistinguishedName }

// User is an immutable snapshot of a user account.
type User struct {
	DistinguishedName string
	Name              string
	DisplayName       string
	CommonName        string
	SAMAccountName    string
	UserPrincipalName string
	TelephoneNumber   string
	Mail              string
}

func (u *User) DN() string { return u.DistinguishedName }

// mapFunc builds one typed entity from a raw directory entry. Missing
// attributes map to zero values, never to errors.
type mapFunc func(entry *ldap.Entry) Entity

// entityMappers dispatches mapping by requested kind. Supporting a new kind
// takes one mapping function and one table entry; the query path is untouched.
var entityMappers = map[Kind]mapFunc{
	KindOrganization: mapOrganization,
	KindUser:         mapUser,
}

func mapOrganization(entry *ldap.Entry) Entity {
	org := &Organization{
		DistinguishedName: entryDN(entry),
		Name:              entry.GetAttributeValue("name"),
	}
	if org.Name == "" {
		org.Name = entry.GetAttributeValue("ou")
	}
	return org
}

func mapUser(entry *ldap.Entry) Entity {
	u := &User{
		DistinguishedName: entryDN(entry),
		Name:              entry.GetAttributeValue("name"),
		DisplayName:       entry.GetAttributeValue("displayName"),
		CommonName:        entry.GetAttributeValue("cn"),
		SAMAccountName:    entry.GetAttributeValue("sAMAccountName"),
		UserPrincipalName: entry.GetAttributeValue("userPrincipalName"),
		TelephoneNumber:   entry.GetAttributeValue("telephoneNumber"),
		Mail:              entry.GetAttributeValue("mail"),
	}
	// displayName is outside the fixed projection; cn stands in for it.
	if u.DisplayName == "" {
		u.DisplayName = u.CommonName
	}
	return u
}

// entryDN prefers the entry's own DN, falling back to the distinguishedName
// attribute for servers that omit it from the envelope.
func entryDN(entry *ldap.Entry) string {
	if entry.DN != "" {
		return entry.DN
	}
	return entry.GetAttributeValue("distinguishedName")
}

// attributeProjection is the fixed attribute set requested on every search.
// It covers both entity kinds; the mapper for each kind reads its subset.
func attributeProjection() []string {
	return []string{
		"objectCategory",
		"objectClass",
		"cn",
		"name",
		"distinguishedName",
		"ou",
		"sAMAccountName",
		"userPrincipalName",
		"telephoneNumber",
		"mail",
	}
}
