package ldap

import (
	"errors"
	"fmt"

	"github.com/go-ldap/ldap/v3"
)

// ErrOrganizationNotFound reports that a parent organization lookup matched
// nothing; no directory write is attempted when it is returned.
var ErrOrganizationNotFound = errors.New("organization not found")

// ArgumentError reports a blank or malformed argument. It is always raised
// before any network activity.
type ArgumentError struct {
	Name   string // argument that failed validation
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %q: %s", e.Name, e.Reason)
}

func newArgumentError(name, reason string) *ArgumentError {
	return &ArgumentError{Name: name, Reason: reason}
}

// ConnectionError reports a transport-level failure: the server could not be
// reached, the TLS upgrade failed, or the bind was rejected.
type ConnectionError struct {
	Op    string // dial, starttls, or bind
	Cause error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("directory %s failed: %v", e.Op, e.Cause)
}

func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// ErrorCategory classifies a directory server rejection for routing purposes.
type ErrorCategory string

const (
	CategoryAuthentication ErrorCategory = "authentication"
	CategoryPermission     ErrorCategory = "permission"
	CategoryNotFound       ErrorCategory = "not_found"
	CategoryConflict       ErrorCategory = "conflict"
	CategoryValidation     ErrorCategory = "validation"
	CategoryServer         ErrorCategory = "server"
	CategoryUnknown        ErrorCategory = "unknown"
)

// DirectoryError wraps a rejection returned by the directory server. The
// server's result is passed through verbatim and never retried; the category
// and result code only help callers route on it.
type DirectoryError struct {
	Operation  string // search or add
	DN         string
	Category   ErrorCategory
	ResultCode uint16
	Cause      error
}

func (e *DirectoryError) Error() string {
	if e.DN != "" {
		return fmt.Sprintf("directory %s %s failed (%s, code %d): %v",
			e.Operation, e.DN, e.Category, e.ResultCode, e.Cause)
	}
	return fmt.Sprintf("directory %s failed (%s, code %d): %v",
		e.Operation, e.Category, e.ResultCode, e.Cause)
}

func (e *DirectoryError) Unwrap() error {
	return e.Cause
}

// wrapDirectoryError classifies err into a *DirectoryError. Returns nil for a
// nil err so call sites can wrap unconditionally.
func wrapDirectoryError(operation, dn string, err error) error {
	if err == nil {
		return nil
	}
	var code uint16
	var ldapErr *ldap.Error
	if errors.As(err, &ldapErr) {
		code = ldapErr.ResultCode
	}
	return &DirectoryError{
		Operation:  operation,
		DN:         dn,
		Category:   categorize(code),
		ResultCode: code,
		Cause:      err,
	}
}

// categorize maps an LDAP result code to an error category.
func categorize(code uint16) ErrorCategory {
	switch code {
	case ldap.LDAPResultInvalidCredentials,
		ldap.LDAPResultInappropriateAuthentication,
		ldap.LDAPResultAuthMethodNotSupported,
		ldap.LDAPResultStrongAuthRequired:
		return CategoryAuthentication
	case ldap.LDAPResultInsufficientAccessRights:
		return CategoryPermission
	case ldap.LDAPResultNoSuchObject:
		return CategoryNotFound
	case ldap.LDAPResultEntryAlreadyExists,
		ldap.LDAPResultAttributeOrValueExists:
		return CategoryConflict
	case ldap.LDAPResultInvalidAttributeSyntax,
		ldap.LDAPResultConstraintViolation,
		ldap.LDAPResultObjectClassViolation,
		ldap.LDAPResultNamingViolation,
		ldap.LDAPResultInvalidDNSyntax,
		ldap.LDAPResultUndefinedAttributeType:
		return CategoryValidation
	case ldap.LDAPResultBusy,
		ldap.LDAPResultUnavailable,
		ldap.LDAPResultUnwillingToPerform,
		ldap.LDAPResultTimeLimitExceeded:
		return CategoryServer
	default:
		return CategoryUnknown
	}
}

// IsNotFound reports whether err is a directory rejection for a missing entry.
func IsNotFound(err error) bool {
	var dirErr *DirectoryError
	return errors.As(err, &dirErr) && dirErr.Category == CategoryNotFound
}

// IsConflict reports whether err is a directory rejection for a duplicate entry.
func IsConflict(err error) bool {
	var dirErr *DirectoryError
	return errors.As(err, &dirErr) && dirErr.Category == CategoryConflict
}

// IsAuthentication reports whether err is a credential or auth-method rejection.
func IsAuthentication(err error) bool {
	var dirErr *DirectoryError
	return errors.As(err, &dirErr) && dirErr.Category == CategoryAuthentication
}
