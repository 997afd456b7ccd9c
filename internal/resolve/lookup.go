package resolve

import "fmt"

// KeyError reports a key collision within a lookup scope.
type KeyError struct {
	Subject string
	Scope   string
	Key     string
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("duplicate %s %q in scope %q", e.Subject, e.Key, e.Scope)
}

// LookupError reports a failed key lookup.
type LookupError struct {
	Subject string
	Scope   string
	Key     string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("no %s with key %q exists in scope %q", e.Subject, e.Key, e.Scope)
}

// Lookup is a keyed item index. A child scope starts as a copy of its
// base, so additions never leak upward. Keys are derived per item by the
// lookup's key function: the label scope indexes by tid, id, and name,
// the global id index by tid only.
type Lookup[T Item] struct {
	subject string
	scope   string
	keys    func(T) []string
	table   map[string]T
	dummies map[string]bool
}

// NewLookup creates a lookup, optionally seeded from a base lookup.
func NewLookup[T Item](subject, scope string, base *Lookup[T], keys func(T) []string) *Lookup[T] {
	l := &Lookup[T]{
		subject: subject,
		scope:   scope,
		keys:    keys,
		table:   make(map[string]T),
		dummies: make(map[string]bool),
	}
	if base != nil {
		for k, v := range base.table {
			l.table[k] = v
		}
		for k := range base.dummies {
			l.dummies[k] = true
		}
	}
	return l
}

// Add registers an item under all its keys. With overwrite set, a dummy
// registration may be replaced; a real entry never is.
func (l *Lookup[T]) Add(item T, overwrite bool) error {
	keys := dedupe(l.keys(item))
	for _, key := range keys {
		if _, taken := l.table[key]; taken {
			return &KeyError{Subject: l.subject, Scope: l.scope, Key: key}
		}
		if l.dummies[key] && !overwrite {
			return &KeyError{Subject: l.subject, Scope: l.scope, Key: key}
		}
	}
	for _, key := range keys {
		l.table[key] = item
		delete(l.dummies, key)
	}
	return nil
}

// AddDummy reserves a key before its item is fully built. Children built
// under a half-initialized parent cannot claim the parent's key.
func (l *Lookup[T]) AddDummy(key string) error {
	if _, taken := l.table[key]; taken || l.dummies[key] {
		return &KeyError{Subject: l.subject, Scope: l.scope, Key: key}
	}
	l.dummies[key] = true
	return nil
}

// Get returns the item registered under key. Dummy registrations do not
// resolve.
func (l *Lookup[T]) Get(key string) (T, error) {
	if item, ok := l.table[key]; ok {
		return item, nil
	}
	var zero T
	return zero, &LookupError{Subject: l.subject, Scope: l.scope, Key: key}
}

// IsDummy reports whether key is reserved but not yet resolved.
func (l *Lookup[T]) IsDummy(key string) bool {
	return l.dummies[key]
}

// Len returns the number of resolved entries.
func (l *Lookup[T]) Len() int {
	return len(l.table)
}

// dedupe drops repeated keys, keeping first occurrences in order.
func dedupe(keys []string) []string {
	seen := make(map[string]bool, len(keys))
	out := keys[:0]
	for _, k := range keys {
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}
