package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// BlacklistPrefix marks a blacklist entry in textual role lists.
const BlacklistPrefix = "-"

// ErrRoleConflict is returned when a whitelist and a blacklist are combined.
var ErrRoleConflict = errors.New("model: cannot combine whitelist and blacklist roles")

type roleKind int

const (
	whitelist roleKind = iota
	blacklist
	wholelist
)

// Role is a named filter applied to field names during serialization.
type Role struct {
	kind  roleKind
	names map[string]struct{}
}

// Whitelist allows only names.
func Whitelist(names ...string) Role { return newRole(whitelist, names) }

// Blacklist allows every field except names.
func Blacklist(names ...string) Role { return newRole(blacklist, names) }

// Wholelist allows every field.
func Wholelist() Role { return Role{kind: wholelist} }

func newRole(kind roleKind, names []string) Role {
	r := Role{kind: kind, names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		r.names[n] = struct{}{}
	}
	return r
}

// ParseRole reads a textual role list. Entries prefixed with "-" form a
// blacklist, plain entries a whitelist; the single entry "*" is the
// wholelist. Mixing both kinds is an error.
func ParseRole(entries ...string) (Role, error) {
	if len(entries) == 1 && entries[0] == "*" {
		return Wholelist(), nil
	}
	var plain, negated []string
	for _, e := range entries {
		if strings.HasPrefix(e, BlacklistPrefix) {
			negated = append(negated, strings.TrimPrefix(e, BlacklistPrefix))
			continue
		}
		plain = append(plain, e)
	}
	switch {
	case len(plain) > 0 && len(negated) > 0:
		return Role{}, fmt.Errorf("%w: %v", ErrRoleConflict, entries)
	case len(negated) > 0:
		return Blacklist(negated...), nil
	default:
		return Whitelist(plain...), nil
	}
}

// Allows reports whether the field name passes the filter.
func (r Role) Allows(name string) bool {
	_, listed := r.names[name]
	switch r.kind {
	case whitelist:
		return listed
	case blacklist:
		return !listed
	default:
		return true
	}
}

// IsBlacklist reports whether r lists excluded names.
func (r Role) IsBlacklist() bool { return r.kind == blacklist }

// IsWholelist reports whether r allows everything.
func (r Role) IsWholelist() bool { return r.kind == wholelist }

// Names returns the listed names, sorted.
func (r Role) Names() []string {
	out := make([]string, 0, len(r.names))
	for n := range r.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Entries returns the textual form accepted by ParseRole.
func (r Role) Entries() []string {
	if r.kind == wholelist {
		return []string{"*"}
	}
	names := r.Names()
	if r.kind == blacklist {
		for i, n := range names {
			names[i] = BlacklistPrefix + n
		}
	}
	return names
}

// Union combines two roles of the same kind. A wholelist absorbs a
// whitelist; the wholelist and a blacklist yield the blacklist.
func (r Role) Union(o Role) (Role, error) {
	switch {
	case r.kind == wholelist && o.kind == wholelist:
		return Wholelist(), nil
	case r.kind == wholelist && o.kind == whitelist, r.kind == whitelist && o.kind == wholelist:
		return Wholelist(), nil
	case r.kind == wholelist:
		return o.clone(), nil
	case o.kind == wholelist:
		return r.clone(), nil
	case r.kind != o.kind:
		return Role{}, fmt.Errorf("%w: %v and %v", ErrRoleConflict, r.Entries(), o.Entries())
	}
	u := r.clone()
	for n := range o.names {
		u.names[n] = struct{}{}
	}
	return u, nil
}

// Without removes names from what r allows.
func (r Role) Without(names ...string) Role {
	switch r.kind {
	case wholelist:
		return Blacklist(names...)
	case blacklist:
		c := r.clone()
		for _, n := range names {
			c.names[n] = struct{}{}
		}
		return c
	default:
		c := r.clone()
		for _, n := range names {
			delete(c.names, n)
		}
		return c
	}
}

func (r Role) clone() Role {
	c := Role{kind: r.kind, names: make(map[string]struct{}, len(r.names))}
	for n := range r.names {
		c.names[n] = struct{}{}
	}
	return c
}

func (r Role) String() string { return strings.Join(r.Entries(), ",") }
