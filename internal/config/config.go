// Package config loads the dirgate process configuration from an optional
// YAML file and DIRGATE_* environment variables, with struct-tag defaults.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/spf13/viper"

	dirldap "github.com/dirgate/dirgate/internal/ldap"
)

// Config is the full process configuration, immutable after Load.
type Config struct {
	ListenAddr string `mapstructure:"listen_addr" default:":8389"`
	LogLevel   string `mapstructure:"log_level" default:"info"`

	Directory Directory `mapstructure:"directory"`
}

// Directory holds the directory-server connection settings.
type Directory struct {
	Host    string        `mapstructure:"host"`
	Port    int           `mapstructure:"port" default:"389"`
	Timeout time.Duration `mapstructure:"timeout" default:"30s"`

	SearchBase string `mapstructure:"search_base"`
	RootDN     string `mapstructure:"root_dn"`
	Domain     string `mapstructure:"domain"`

	BindUsername string `mapstructure:"bind_username"`
	BindPassword string `mapstructure:"bind_password"`

	KerberosRealm  string `mapstructure:"kerberos_realm"`
	KerberosConfig string `mapstructure:"kerberos_config"`
	KerberosKeytab string `mapstructure:"kerberos_keytab"`

	UseTLS             bool `mapstructure:"use_tls"`
	StartTLS           bool `mapstructure:"start_tls"`
	InsecureSkipVerify bool `mapstructure:"insecure_skip_verify"`
}

// keys lists every configuration key so environment-only values survive
// viper's Unmarshal.
var keys = []string{
	"listen_addr",
	"log_level",
	"directory.host",
	"directory.port",
	"directory.timeout",
	"directory.search_base",
	"directory.root_dn",
	"directory.domain",
	"directory.bind_username",
	"directory.bind_password",
	"directory.kerberos_realm",
	"directory.kerberos_config",
	"directory.kerberos_keytab",
	"directory.use_tls",
	"directory.start_tls",
	"directory.insecure_skip_verify",
}

// Load reads configuration from path (when non-empty) and the environment.
// Precedence: environment over file over defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("DIRGATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// DirectoryConfig converts the loaded settings into the access layer's form.
func (c *Config) DirectoryConfig() *dirldap.Config {
	return &dirldap.Config{
		Host:               c.Directory.Host,
		Port:               c.Directory.Port,
		Timeout:            c.Directory.Timeout,
		SearchBase:         c.Directory.SearchBase,
		RootDN:             c.Directory.RootDN,
		Domain:             c.Directory.Domain,
		BindUsername:       c.Directory.BindUsername,
		BindPassword:       c.Directory.BindPassword,
		KerberosRealm:      c.Directory.KerberosRealm,
		KerberosConfig:     c.Directory.KerberosConfig,
		KerberosKeytab:     c.Directory.KerberosKeytab,
		UseTLS:             c.Directory.UseTLS,
		StartTLS:           c.Directory.StartTLS,
		InsecureSkipVerify: c.Directory.InsecureSkipVerify,
	}
}
