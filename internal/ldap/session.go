package ldap

import (
	"context"

	"github.com/go-ldap/ldap/v3"
	"go.uber.org/zap"
)

// credentials identify the bind principal for one session. The zero value is
// never used directly; callers pick serviceCredentials or principalCredentials.
type credentials struct {
	username   string
	password   string
	useService bool
}

// serviceCredentials binds with the configured service account (simple or
// GSSAPI, per Config).
func serviceCredentials() credentials {
	return credentials{useService: true}
}

// principalCredentials binds with an explicit identity, as Authenticate does.
func principalCredentials(username, password string) credentials {
	return credentials{username: username, password: password}
}

// Session owns one physical connection for the duration of a single logical
// operation. Sessions are never shared, pooled, or reused; every caller
// closes its session on all exit paths.
type Session struct {
	conn Conn
	log  *zap.Logger
}

// netDial establishes the transport connection described by cfg. It is the
// production DialFunc; tests swap it out via WithDialFunc.
func netDial(cfg *Config) (Conn, error) {
	var conn *ldap.Conn
	var err error
	if cfg.UseTLS {
		conn, err = ldap.DialURL(cfg.URL(), ldap.DialWithTLSConfig(cfg.tlsConfig()))
	} else {
		conn, err = ldap.DialURL(cfg.URL())
	}
	if err != nil {
		return nil, err
	}
	conn.SetTimeout(cfg.Timeout)
	return conn, nil
}

// openSession dials, optionally upgrades to TLS, and binds as creds. On error
// the connection is already released; otherwise the caller must Close the
// returned session.
func openSession(ctx context.Context, cfg *Config, dial DialFunc, log *zap.Logger, creds credentials) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	conn, err := dial(cfg)
	if err != nil {
		return nil, &ConnectionError{Op: "dial", Cause: err}
	}

	if !cfg.UseTLS && cfg.StartTLS {
		if err := conn.StartTLS(cfg.tlsConfig()); err != nil {
			closeConn(conn, log)
			return nil, &ConnectionError{Op: "starttls", Cause: err}
		}
	}

	if err := bindSession(conn, cfg, creds); err != nil {
		closeConn(conn, log)
		return nil, &ConnectionError{Op: "bind", Cause: err}
	}

	return &Session{conn: conn, log: log}, nil
}

// bindSession authenticates the connection. Explicit principal credentials
// always use a simple bind; the service account may use GSSAPI when a
// Kerberos realm is configured.
func bindSession(conn Conn, cfg *Config, creds credentials) error {
	if !creds.useService {
		return conn.Bind(creds.username, creds.password)
	}
	if cfg.GetAuthMethod() == AuthMethodKerberos {
		return kerberosBind(conn, cfg)
	}
	return conn.Bind(cfg.BindUsername, cfg.BindPassword)
}

// Close releases the session's connection. Safe to call more than once.
func (s *Session) Close() {
	if s == nil || s.conn == nil {
		return
	}
	closeConn(s.conn, s.log)
	s.conn = nil
}

func closeConn(conn Conn, log *zap.Logger) {
	if err := conn.Close(); err != nil {
		log.Debug("closing directory connection", zap.Error(err))
	}
}
