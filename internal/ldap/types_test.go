package ldap

import (
	"crypto/tls"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantArg string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing host", func(c *Config) { c.Host = "" }, "host"},
		{"port too low", func(c *Config) { c.Port = 0 }, "port"},
		{"port too high", func(c *Config) { c.Port = 70000 }, "port"},
		{"missing base and root", func(c *Config) { c.SearchBase = ""; c.RootDN = "" }, "search_base"},
		{"missing domain", func(c *Config) { c.Domain = "" }, "domain"},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, "timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantArg == "" {
				assert.NoError(t, err)
				return
			}
			var argErr *ArgumentError
			require.ErrorAs(t, err, &argErr)
			assert.Equal(t, tt.wantArg, argErr.Name)
		})
	}
}

func TestConfig_URL(t *testing.T) {
	cfg := testConfig()
	assert.Equal(t, "ldap://dc1.example.com:389", cfg.URL())

	cfg.UseTLS = true
	cfg.Port = 636
	assert.Equal(t, "ldaps://dc1.example.com:636", cfg.URL())
}

func TestConfig_BaseFallsBackToRootDN(t *testing.T) {
	cfg := testConfig()
	assert.Equal(t, "DC=example,DC=com", cfg.Base())

	cfg.SearchBase = ""
	cfg.RootDN = "DC=root,DC=example,DC=com"
	assert.Equal(t, "DC=root,DC=example,DC=com", cfg.Base())
}

func TestConfig_TLSConfig(t *testing.T) {
	cfg := testConfig()

	tc := cfg.tlsConfig()
	assert.Equal(t, "dc1.example.com", tc.ServerName)
	assert.Equal(t, uint16(tls.VersionTLS12), tc.MinVersion)
	assert.False(t, tc.InsecureSkipVerify)

	custom := &tls.Config{ServerName: "override"}
	cfg.TLSConfig = custom
	assert.Same(t, custom, cfg.tlsConfig())
}

func TestConfig_GetAuthMethod(t *testing.T) {
	cfg := testConfig()
	assert.Equal(t, AuthMethodSimpleBind, cfg.GetAuthMethod())

	cfg.KerberosRealm = "EXAMPLE.COM"
	assert.Equal(t, AuthMethodKerberos, cfg.GetAuthMethod())
	assert.Equal(t, "kerberos", cfg.GetAuthMethod().String())
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 389, cfg.Port)
	assert.NotZero(t, cfg.Timeout)
	assert.False(t, cfg.UseTLS)
}
