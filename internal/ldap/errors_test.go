package ldap

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-ldap/ldap/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		code     uint16
		expected ErrorCategory
	}{
		{ldap.LDAPResultInvalidCredentials, CategoryAuthentication},
		{ldap.LDAPResultInsufficientAccessRights, CategoryPermission},
		{ldap.LDAPResultNoSuchObject, CategoryNotFound},
		{ldap.LDAPResultEntryAlreadyExists, CategoryConflict},
		{ldap.LDAPResultAttributeOrValueExists, CategoryConflict},
		{ldap.LDAPResultNamingViolation, CategoryValidation},
		{ldap.LDAPResultObjectClassViolation, CategoryValidation},
		{ldap.LDAPResultUnavailable, CategoryServer},
		{ldap.LDAPResultBusy, CategoryServer},
		{9999, CategoryUnknown},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("code_%d", tt.code), func(t *testing.T) {
			assert.Equal(t, tt.expected, categorize(tt.code))
		})
	}
}

func TestWrapDirectoryError(t *testing.T) {
	cause := ldap.NewError(ldap.LDAPResultNoSuchObject, errors.New("no such object"))

	err := wrapDirectoryError("search", "OU=Ghost,DC=example,DC=com", cause)

	var dirErr *DirectoryError
	require.ErrorAs(t, err, &dirErr)
	assert.Equal(t, "search", dirErr.Operation)
	assert.Equal(t, "OU=Ghost,DC=example,DC=com", dirErr.DN)
	assert.Equal(t, CategoryNotFound, dirErr.Category)
	assert.Equal(t, uint16(ldap.LDAPResultNoSuchObject), dirErr.ResultCode)
	assert.ErrorIs(t, err, cause)
}

func TestWrapDirectoryError_Nil(t *testing.T) {
	assert.NoError(t, wrapDirectoryError("search", "", nil))
}

func TestWrapDirectoryError_NonLDAPCause(t *testing.T) {
	err := wrapDirectoryError("add", "", errors.New("connection reset"))

	var dirErr *DirectoryError
	require.ErrorAs(t, err, &dirErr)
	assert.Equal(t, CategoryUnknown, dirErr.Category)
	assert.Zero(t, dirErr.ResultCode)
}

func TestErrorPredicates(t *testing.T) {
	notFound := wrapDirectoryError("search", "",
		ldap.NewError(ldap.LDAPResultNoSuchObject, errors.New("no such object")))
	conflict := wrapDirectoryError("add", "",
		ldap.NewError(ldap.LDAPResultEntryAlreadyExists, errors.New("exists")))
	badAuth := wrapDirectoryError("search", "",
		ldap.NewError(ldap.LDAPResultInvalidCredentials, errors.New("invalid credentials")))

	assert.True(t, IsNotFound(notFound))
	assert.False(t, IsNotFound(conflict))
	assert.True(t, IsConflict(conflict))
	assert.True(t, IsAuthentication(badAuth))
	assert.False(t, IsAuthentication(errors.New("plain")))
}

func TestArgumentError_Message(t *testing.T) {
	err := newArgumentError("dn", "distinguished name must not be blank")
	assert.Equal(t, `invalid argument "dn": distinguished name must not be blank`, err.Error())
}

func TestConnectionError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &ConnectionError{Op: "dial", Cause: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "dial")
	assert.Contains(t, err.Error(), "connection refused")
}
