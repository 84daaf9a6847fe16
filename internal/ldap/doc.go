/*
Package ldap is a directory-service access layer for Active Directory and
compatible servers. It translates organizational and user operations into
LDAP searches and writes.

# Architecture Overview

The package is built from four small components:

  - Filter builder: renders ordered optional conditions into one
    AND-conjunction equality filter
  - Entity mapper: maps raw directory entries into typed snapshots
    (Organization, User) through an enum-keyed dispatch table
  - Session: one transient connection per logical operation, dialed, bound,
    and closed deterministically
  - Manager: the facade exposing lookups, account provisioning, and
    credential verification

# Connection Model

There is no pooling and no retry. Every public operation dials a fresh
connection, binds, performs exactly one search or add, and releases the
connection on all exit paths. The service account binds with a simple bind
or, when a Kerberos realm is configured, over SASL/GSSAPI.

# Error Handling

Validation failures surface as *ArgumentError before any network activity.
Transport failures are *ConnectionError. Server rejections pass through
verbatim as *DirectoryError, categorized by result code. Authenticate is the
exception: it reduces every failure to false and forwards the detail to an
injected Notifier.

# Thread Safety

Manager holds no mutable state and is safe for concurrent use.

# Example Usage

	cfg := ldap.DefaultConfig()
	cfg.Host = "dc1.example.com"
	cfg.SearchBase = "DC=example,DC=com"
	cfg.Domain = "example.com"
	cfg.BindUsername = "svc-dirgate@example.com"
	cfg.BindPassword = "password"

	mgr, err := ldap.NewManager(cfg, ldap.WithLogger(logger))
	if err != nil {
		return err
	}

	orgs, err := mgr.GetOrganizations(ctx, "Engineering")
	if err != nil {
		return err
	}
*/
package ldap
