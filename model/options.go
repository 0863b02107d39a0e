package model

import (
	"fmt"
	"sort"
	"strings"
)

// Options are the schema-wide settings. Zero values mean "inherit".
type Options struct {
	Namespace string
	// Roles maps a role name to its field filter. Roles of the same name are
	// unioned across inheritance levels.
	Roles map[string]Role
	// SerializeWhenNone is the default null policy; nil inherits, and the
	// root default is true.
	SerializeWhenNone *bool
}

type resolvedOptions struct {
	namespace         string
	roles             map[string]Role
	serializeWhenNone *bool
}

func (o resolvedOptions) whenNone() bool {
	if o.serializeWhenNone == nil {
		return true
	}
	return *o.serializeWhenNone
}

// resolveOptions folds layers from most-base to most-derived.
func resolveOptions(layers []resolvedOptions) (resolvedOptions, []string) {
	out := resolvedOptions{roles: map[string]Role{}}
	var problems []string
	for _, l := range layers {
		if l.namespace != "" {
			out.namespace = l.namespace
		}
		if l.serializeWhenNone != nil {
			v := *l.serializeWhenNone
			out.serializeWhenNone = &v
		}
		names := make([]string, 0, len(l.roles))
		for n := range l.roles {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			r := l.roles[n]
			prev, ok := out.roles[n]
			if !ok {
				out.roles[n] = r.clone()
				continue
			}
			u, err := prev.Union(r)
			if err != nil {
				problems = append(problems, fmt.Sprintf("role %q: %v", n, err))
				continue
			}
			out.roles[n] = u
		}
	}
	return out, problems
}

func (o Options) resolved() resolvedOptions {
	r := resolvedOptions{namespace: o.Namespace, roles: o.Roles}
	if o.SerializeWhenNone != nil {
		v := *o.SerializeWhenNone
		r.serializeWhenNone = &v
	}
	return r
}

func reservedRoleName(name string) bool {
	return strings.TrimSpace(name) == "" || strings.HasPrefix(name, BlacklistPrefix)
}
