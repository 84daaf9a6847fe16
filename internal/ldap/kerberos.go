package ldap

import (
	"fmt"
	"os"

	"github.com/go-ldap/ldap/v3"
	"github.com/go-ldap/ldap/v3/gssapi"
	krb5client "github.com/jcmturner/gokrb5/v8/client"
)

// kerberosBind authenticates the service account over SASL/GSSAPI. Used only
// when the configuration names a Kerberos realm; Authenticate never takes
// this path.
func kerberosBind(conn Conn, cfg *Config) error {
	client, err := newGSSAPIClient(cfg)
	if err != nil {
		return fmt.Errorf("kerberos configuration: %w", err)
	}
	defer func() {
		_ = client.DeleteSecContext()
	}()

	// SPN carries the bare hostname, never the port.
	spn := fmt.Sprintf("ldap/%s", cfg.Host)
	return conn.GSSAPIBind(client, spn, "")
}

// newGSSAPIClient builds a GSSAPI client from keytab or password credentials.
// Keytab takes precedence when both are configured.
func newGSSAPIClient(cfg *Config) (ldap.GSSAPIClient, error) {
	krb5conf := cfg.KerberosConfig
	if krb5conf == "" {
		krb5conf = "/etc/krb5.conf"
	}
	if _, err := os.Stat(krb5conf); err != nil {
		return nil, fmt.Errorf("krb5 config %s: %w", krb5conf, err)
	}

	if cfg.KerberosKeytab != "" {
		return gssapi.NewClientWithKeytab(cfg.BindUsername, cfg.KerberosRealm,
			cfg.KerberosKeytab, krb5conf, krb5client.DisablePAFXFAST(true))
	}
	if cfg.BindUsername != "" && cfg.BindPassword != "" {
		return gssapi.NewClientWithPassword(cfg.BindUsername, cfg.KerberosRealm,
			cfg.BindPassword, krb5conf, krb5client.DisablePAFXFAST(true))
	}
	return nil, fmt.Errorf("no kerberos credentials configured: provide a keytab or username and password")
}
