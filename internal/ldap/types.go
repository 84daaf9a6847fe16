package ldap

import (
	"crypto/tls"
	"fmt"
	"time"

	"github.com/go-ldap/ldap/v3"
)

// Config holds the directory connection settings. It is constructed once at
// startup and never mutated afterwards; Manager treats it as read-only.
type Config struct {
	// Connection settings
	Host    string        // Directory server host
	Port    int           // Directory server port (389 plain, 636 TLS)
	Timeout time.Duration // Dial and per-request timeout

	// Directory layout
	SearchBase string // Base DN for subtree searches
	RootDN     string // Domain-qualified root DN; fallback search base
	Domain     string // DNS domain, used for UPN/mail composition

	// Service account used for every operation except Authenticate
	BindUsername string // DN, UPN, or SAM format
	BindPassword string // Password for simple bind

	// Kerberos settings; a non-empty realm selects GSSAPI for the service bind
	KerberosRealm  string // Kerberos realm
	KerberosConfig string // Path to krb5.conf (defaults to /etc/krb5.conf)
	KerberosKeytab string // Path to keytab; password credentials are used when empty

	// TLS settings
	UseTLS             bool        // Connect over ldaps://
	StartTLS           bool        // Upgrade a plaintext connection before binding
	InsecureSkipVerify bool        // Accept any server certificate; lab use only
	TLSConfig          *tls.Config // Custom TLS configuration, overrides the above
}

// DefaultConfig returns a configuration with sane connection defaults.
// Host, search base, and domain must still be supplied.
func DefaultConfig() *Config {
	return &Config{
		Port:    389,
		Timeout: 30 * time.Second,
	}
}

// Validate reports the first missing or malformed setting as an *ArgumentError.
func (c *Config) Validate() error {
	if c.Host == "" {
		return newArgumentError("host", "directory host is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return newArgumentError("port", fmt.Sprintf("port %d is out of range", c.Port))
	}
	if c.SearchBase == "" && c.RootDN == "" {
		return newArgumentError("search_base", "a search base or root DN is required")
	}
	if c.Domain == "" {
		return newArgumentError("domain", "DNS domain is required")
	}
	if c.Timeout <= 0 {
		return newArgumentError("timeout", "timeout must be positive")
	}
	return nil
}

// URL returns the connection URL for this configuration.
func (c *Config) URL() string {
	scheme := "ldap"
	if c.UseTLS {
		scheme = "ldaps"
	}
	return fmt.Sprintf("%s://%s:%d", scheme, c.Host, c.Port)
}

// Base returns the effective search base, falling back to the root DN.
func (c *Config) Base() string {
	if c.SearchBase != "" {
		return c.SearchBase
	}
	return c.RootDN
}

// tlsConfig returns the TLS configuration used when dialing or upgrading.
func (c *Config) tlsConfig() *tls.Config {
	if c.TLSConfig != nil {
		return c.TLSConfig
	}
	return &tls.Config{
		ServerName:         c.Host,
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: c.InsecureSkipVerify,
	}
}

// AuthMethod defines how the service account binds.
type AuthMethod int

const (
	AuthMethodSimpleBind AuthMethod = iota // Username/password authentication
	AuthMethodKerberos                     // GSSAPI/Kerberos authentication
)

// String returns string representation of authentication method.
func (a AuthMethod) String() string {
	switch a {
	case AuthMethodSimpleBind:
		return "simple"
	case AuthMethodKerberos:
		return "kerberos"
	default:
		return "unknown"
	}
}

// GetAuthMethod determines the service-account authentication method.
func (c *Config) GetAuthMethod() AuthMethod {
	if c.KerberosRealm != "" && (c.KerberosKeytab != "" || c.BindUsername != "") {
		return AuthMethodKerberos
	}
	return AuthMethodSimpleBind
}

// Conn is the transport surface a session drives. *ldap.Conn satisfies it;
// tests substitute a mock.
type Conn interface {
	Bind(username, password string) error
	GSSAPIBind(client ldap.GSSAPIClient, servicePrincipal, authzID string) error
	Search(req *ldap.SearchRequest) (*ldap.SearchResult, error)
	Add(req *ldap.AddRequest) error
	StartTLS(config *tls.Config) error
	SetTimeout(timeout time.Duration)
	Close() error
}

// DialFunc establishes the raw transport connection for one session.
type DialFunc func(cfg *Config) (Conn, error)
