package ldap

import "strings"

// Condition pairs an attribute name with an optional value. A condition with
// an empty value is skipped when the filter is rendered, which lets callers
// pass every optional lookup parameter unconditionally.
type Condition struct {
	Attribute string
	Value     string
}

// Conditions is an ordered condition set. Rendering preserves the declared
// order, so a given lookup always produces the same filter string.
type Conditions []Condition

// emptyFilter is the degenerate conjunction produced by an all-empty
// condition set. It matches everything; queries reject it before dialing.
const emptyFilter = "(&)"

// BuildFilter renders conds as an AND-conjunction of equality clauses:
// (&(attr1=value1)(attr2=value2)...). Conditions with empty values contribute
// no clause.
//
// Values are rendered verbatim. Attribute names are fixed schema names chosen
// by this package, but values flow in from callers; a value containing filter
// metacharacters changes the query. Callers handling untrusted input must
// pre-sanitize with ldap.EscapeFilter.
func BuildFilter(conds Conditions) string {
	var b strings.Builder
	b.WriteString("(&")
	for _, c := range conds {
		if c.Value == "" {
			continue
		}
		b.WriteByte('(')
		b.WriteString(c.Attribute)
		b.WriteByte('=')
		b.WriteString(c.Value)
		b.WriteByte(')')
	}
	b.WriteString(")")
	return b.String()
}
