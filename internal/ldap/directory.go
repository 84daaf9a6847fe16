package ldap

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-ldap/ldap/v3"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Object class and category names used in filters and add requests.
const (
	classTop                  = "top"
	classOrganizationalUnit   = "organizationalUnit"
	classPerson               = "person"
	classOrganizationalPerson = "organizationalPerson"
	classUser                 = "user"
	categoryPerson            = "person"
)

// Manager is the directory facade. Every public operation is a single
// independent transaction over its own connection; Manager holds no mutable
// state and is safe for concurrent use.
type Manager struct {
	cfg    *Config
	log    *zap.Logger
	notify Notifier
	dial   DialFunc
}

// Option configures a Manager at construction.
type Option func(*Manager)

// WithLogger sets the structured logger. Default is a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(m *Manager) { m.log = log }
}

// WithNotifier sets the out-of-band failure sink used by Authenticate.
// Default is a LogNotifier over the manager's logger.
func WithNotifier(n Notifier) Option {
	return func(m *Manager) { m.notify = n }
}

// WithDialFunc replaces the network dialer. Used by tests to substitute the
// transport.
func WithDialFunc(dial DialFunc) Option {
	return func(m *Manager) { m.dial = dial }
}

// NewManager validates cfg and builds the facade.
func NewManager(cfg *Config, opts ...Option) (*Manager, error) {
	if cfg == nil {
		return nil, newArgumentError("cfg", "configuration is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Manager{
		cfg:  cfg,
		log:  zap.NewNop(),
		dial: netDial,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.notify == nil {
		m.notify = &LogNotifier{Log: m.log}
	}
	return m, nil
}

// GetOrganizations lists organizational units below the search base. name is
// optional; empty matches every unit.
func (m *Manager) GetOrganizations(ctx context.Context, name string) ([]*Organization, error) {
	conds := Conditions{
		{Attribute: "name", Value: name},
		{Attribute: "objectClass", Value: classOrganizationalUnit},
	}
	entities, err := m.queryMany(ctx, KindOrganization, m.cfg.Base(), conds)
	if err != nil {
		return nil, err
	}
	orgs := make([]*Organization, 0, len(entities))
	for _, e := range entities {
		orgs = append(orgs, e.(*Organization))
	}
	return orgs, nil
}

// GetOrganization fetches the organizational unit with the given DN. Returns
// nil without error when no unit has that DN.
func (m *Manager) GetOrganization(ctx context.Context, dn string) (*Organization, error) {
	if strings.TrimSpace(dn) == "" {
		return nil, newArgumentError("dn", "distinguished name must not be blank")
	}
	conds := Conditions{
		{Attribute: "distinguishedName", Value: dn},
		{Attribute: "objectClass", Value: classOrganizationalUnit},
	}
	entity, err := m.queryOne(ctx, KindOrganization, m.cfg.Base(), conds)
	if err != nil || entity == nil {
		return nil, err
	}
	return entity.(*Organization), nil
}

// AddSubOrganization creates OU=<name> under the organization at parentDN.
// The parent is resolved first; ErrOrganizationNotFound is returned and no
// add is issued when it does not exist.
func (m *Manager) AddSubOrganization(ctx context.Context, name, parentDN string) error {
	if strings.TrimSpace(name) == "" {
		return newArgumentError("name", "organization name must not be blank")
	}
	parent, err := m.GetOrganization(ctx, parentDN)
	if err != nil {
		return err
	}
	if parent == nil {
		return fmt.Errorf("parent %q: %w", parentDN, ErrOrganizationNotFound)
	}
	return m.AddSubOrganizationUnder(ctx, name, parent)
}

// AddSubOrganizationUnder creates OU=<name> under an already-resolved parent.
// A duplicate name surfaces as the server's rejection, verbatim.
func (m *Manager) AddSubOrganizationUnder(ctx context.Context, name string, parent *Organization) error {
	if strings.TrimSpace(name) == "" {
		return newArgumentError("name", "organization name must not be blank")
	}
	if parent == nil {
		return newArgumentError("parent", "parent organization is required")
	}

	dn := fmt.Sprintf("OU=%s,%s", EscapeDNValue(name), parent.DistinguishedName)
	req := ldap.NewAddRequest(dn, nil)
	req.Attribute("objectCategory", []string{classOrganizationalUnit})
	req.Attribute("objectClass", []string{classTop, classOrganizationalUnit})
	req.Attribute("name", []string{name})

	if err := m.add(ctx, req); err != nil {
		return err
	}
	m.log.Info("organization created", zap.String("dn", dn))
	return nil
}

// GetUsers lists user accounts below the search base. All three lookup
// parameters are independently optional and AND-combined, so supplying more
// than one narrows the result.
func (m *Manager) GetUsers(ctx context.Context, name, displayName, commonName string) ([]*User, error) {
	conds := Conditions{
		{Attribute: "objectCategory", Value: categoryPerson},
		{Attribute: "objectClass", Value: classUser},
		{Attribute: "name", Value: name},
		{Attribute: "displayName", Value: displayName},
		{Attribute: "cn", Value: commonName},
	}
	entities, err := m.queryMany(ctx, KindUser, m.cfg.Base(), conds)
	if err != nil {
		return nil, err
	}
	users := make([]*User, 0, len(entities))
	for _, e := range entities {
		users = append(users, e.(*User))
	}
	return users, nil
}

// GetUser fetches the user with the given DN. Returns nil without error when
// no user has that DN.
func (m *Manager) GetUser(ctx context.Context, dn string) (*User, error) {
	if strings.TrimSpace(dn) == "" {
		return nil, newArgumentError("dn", "distinguished name must not be blank")
	}
	conds := Conditions{
		{Attribute: "distinguishedName", Value: dn},
		{Attribute: "objectClass", Value: classUser},
	}
	entity, err := m.queryOne(ctx, KindUser, m.cfg.Base(), conds)
	if err != nil || entity == nil {
		return nil, err
	}
	return entity.(*User), nil
}

// GetUserByGUID fetches the user whose objectGUID matches guid, accepted in
// any format uuid.Parse understands. Returns nil without error when absent.
func (m *Manager) GetUserByGUID(ctx context.Context, guid string) (*User, error) {
	id, err := uuid.Parse(strings.TrimSpace(guid))
	if err != nil {
		return nil, newArgumentError("guid", fmt.Sprintf("not a valid GUID: %v", err))
	}
	conds := Conditions{
		{Attribute: "objectGUID", Value: escapeOctets(guidToADBytes(id))},
		{Attribute: "objectClass", Value: classUser},
	}
	entity, err := m.queryOne(ctx, KindUser, m.cfg.Base(), conds)
	if err != nil || entity == nil {
		return nil, err
	}
	return entity.(*User), nil
}

// GetUserBySID fetches the user whose objectSid matches the string-form SID.
// Returns nil without error when absent.
func (m *Manager) GetUserBySID(ctx context.Context, sid string) (*User, error) {
	sid = strings.TrimSpace(sid)
	if !validSIDString(sid) {
		return nil, newArgumentError("sid", "not a valid security identifier")
	}
	conds := Conditions{
		{Attribute: "objectSid", Value: sid},
		{Attribute: "objectClass", Value: classUser},
	}
	entity, err := m.queryOne(ctx, KindUser, m.cfg.Base(), conds)
	if err != nil || entity == nil {
		return nil, err
	}
	return entity.(*User), nil
}

// GetUserSID resolves the string-form security identifier of the entry at dn.
// The binary objectSid attribute is fetched separately because it sits
// outside the fixed projection.
func (m *Manager) GetUserSID(ctx context.Context, dn string) (string, error) {
	if strings.TrimSpace(dn) == "" {
		return "", newArgumentError("dn", "distinguished name must not be blank")
	}

	sess, err := openSession(ctx, m.cfg, m.dial, m.log, serviceCredentials())
	if err != nil {
		return "", err
	}
	defer sess.Close()

	req := ldap.NewSearchRequest(
		dn,
		ldap.ScopeBaseObject,
		ldap.NeverDerefAliases,
		1,
		int(m.cfg.Timeout.Seconds()),
		false,
		"(objectClass=*)",
		[]string{"objectSid"},
		nil,
	)
	res, err := sess.conn.Search(req)
	if err != nil {
		return "", wrapDirectoryError("search", dn, err)
	}
	if len(res.Entries) == 0 {
		return "", nil
	}
	raw := res.Entries[0].GetRawAttributeValue("objectSid")
	if len(raw) == 0 {
		return "", nil
	}
	return decodeSID(raw)
}

// AddUserToOrganization provisions an enabled user account at
// CN=<userName>,<parentDN> with UPN and mail <userName>@<domain>. Password
// complexity is not validated here; any rejection is the server's, verbatim.
func (m *Manager) AddUserToOrganization(ctx context.Context, userName, password, parentDN string) error {
	if strings.TrimSpace(userName) == "" {
		return newArgumentError("userName", "user name must not be blank")
	}
	if strings.TrimSpace(parentDN) == "" {
		return newArgumentError("parentDN", "parent distinguished name must not be blank")
	}

	dn := fmt.Sprintf("CN=%s,%s", EscapeDNValue(userName), parentDN)
	mail := fmt.Sprintf("%s@%s", userName, m.cfg.Domain)

	req := ldap.NewAddRequest(dn, nil)
	req.Attribute("objectCategory", []string{categoryPerson})
	req.Attribute("objectClass", []string{classTop, classPerson, classOrganizationalPerson, classUser})
	req.Attribute("name", []string{userName})
	req.Attribute("sAMAccountName", []string{userName})
	req.Attribute("userPrincipalName", []string{mail})
	req.Attribute("mail", []string{mail})
	req.Attribute("unicodePwd", []string{string(EncodePassword(password))})
	req.Attribute("userAccountControl", []string{strconv.Itoa(uacNormalAccount)})

	if err := m.add(ctx, req); err != nil {
		return err
	}
	m.log.Info("user created", zap.String("dn", dn))
	return nil
}

// AddUserUnder provisions a user below an already-resolved organization.
func (m *Manager) AddUserUnder(ctx context.Context, userName, password string, parent *Organization) error {
	if parent == nil {
		return newArgumentError("parent", "parent organization is required")
	}
	return m.AddUserToOrganization(ctx, userName, password, parent.DistinguishedName)
}

// Authenticate verifies principal credentials by binding a fresh session.
// Every failure, from bad credentials to an unreachable server, yields false;
// the underlying error goes to the notifier, never to the caller.
func (m *Manager) Authenticate(ctx context.Context, principal, password string) bool {
	sess, err := openSession(ctx, m.cfg, m.dial, m.log, principalCredentials(principal, password))
	if err != nil {
		m.notify.Notify(ctx, "authenticate", err)
		m.log.Debug("authentication failed", zap.String("principal", principal), zap.Error(err))
		return false
	}
	sess.Close()
	return true
}

// Ping verifies connectivity and service-account credentials by reading the
// root DSE. Used by health checks.
func (m *Manager) Ping(ctx context.Context) error {
	sess, err := openSession(ctx, m.cfg, m.dial, m.log, serviceCredentials())
	if err != nil {
		return err
	}
	defer sess.Close()

	req := ldap.NewSearchRequest(
		"",
		ldap.ScopeBaseObject,
		ldap.NeverDerefAliases,
		1,
		int(m.cfg.Timeout.Seconds()),
		false,
		"(objectClass=*)",
		[]string{"defaultNamingContext"},
		nil,
	)
	if _, err := sess.conn.Search(req); err != nil {
		return wrapDirectoryError("ping", "", err)
	}
	return nil
}
