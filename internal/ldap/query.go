package ldap

import (
	"context"
	"time"

	"github.com/go-ldap/ldap/v3"
	"go.uber.org/zap"
)

// queryMany executes one subtree search and maps every returned entry to the
// requested kind, preserving server response order. Zero matches yield an
// empty slice, not an error.
func (m *Manager) queryMany(ctx context.Context, kind Kind, searchBase string, conds Conditions) ([]Entity, error) {
	entries, err := m.search(ctx, searchBase, conds, 0)
	if err != nil {
		return nil, err
	}
	mapper := entityMappers[kind]
	out := make([]Entity, 0, len(entries))
	for _, entry := range entries {
		out = append(out, mapper(entry))
	}
	return out, nil
}

// queryOne executes the same search capped at one entry and returns it
// mapped, or nil when nothing matched. The response is fully drained before
// concluding absence, so non-entry messages never mask a match.
func (m *Manager) queryOne(ctx context.Context, kind Kind, searchBase string, conds Conditions) (Entity, error) {
	entries, err := m.search(ctx, searchBase, conds, 1)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return entityMappers[kind](entries[0]), nil
}

// search runs one subtree-scoped search over a dedicated session bound with
// the service account. An all-empty condition set is rejected before dialing:
// the degenerate (&) filter behaves unpredictably across servers.
func (m *Manager) search(ctx context.Context, searchBase string, conds Conditions, sizeLimit int) ([]*ldap.Entry, error) {
	filter := BuildFilter(conds)
	if filter == emptyFilter {
		return nil, newArgumentError("conditions", "at least one non-empty condition is required")
	}

	sess, err := openSession(ctx, m.cfg, m.dial, m.log, serviceCredentials())
	if err != nil {
		return nil, err
	}
	defer sess.Close()

	start := time.Now()
	req := ldap.NewSearchRequest(
		searchBase,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		sizeLimit,
		int(m.cfg.Timeout.Seconds()),
		false,
		filter,
		attributeProjection(),
		nil,
	)

	res, err := sess.conn.Search(req)
	if err != nil {
		// A capped single-entry lookup can trip the server's size limit
		// after the entry was already delivered; the entry still counts.
		// An uncapped search hitting the limit is a truncated result and
		// must surface as an error, never as a silently partial list.
		tolerable := sizeLimit == 1 && res != nil && len(res.Entries) > 0 &&
			ldap.IsErrorWithCode(err, ldap.LDAPResultSizeLimitExceeded)
		if !tolerable {
			return nil, wrapDirectoryError("search", searchBase, err)
		}
	}

	m.log.Debug("directory search completed",
		zap.String("base_dn", searchBase),
		zap.String("filter", filter),
		zap.Int("entries", len(res.Entries)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return res.Entries, nil
}

// add performs a single add over a dedicated session.
func (m *Manager) add(ctx context.Context, req *ldap.AddRequest) error {
	sess, err := openSession(ctx, m.cfg, m.dial, m.log, serviceCredentials())
	if err != nil {
		return err
	}
	defer sess.Close()

	if err := sess.conn.Add(req); err != nil {
		return wrapDirectoryError("add", req.DN, err)
	}

	m.log.Debug("directory entry added", zap.String("dn", req.DN))
	return nil
}
