// Package cache remembers which profile url a (player name, tour) pair
// resolved to, so that a player is only ever searched for once.
package cache

import (
	"context"
	"strings"
	"tennisscout/internal/textutil"
	"tennisscout/internal/tour"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("tennisscout.internal.cache")

const (
	report_file_store_load  = "file-store.load"
	report_file_store_store = "file-store.store"
	report_sql_store_lookup = "sql-store.lookup"
)

// Key identifies a player on a tour, it is case-insensitive in the name.
type Key struct {
	Name string
	Tour tour.Code
}

func NewKey(name string, t tour.Code) Key {
	return Key{
		Name: textutil.NormalizeName(name),
		Tour: tour.Code(strings.ToLower(string(t))),
	}
}

// String is the persisted form of the key, "{name}_{tour}".
func (k Key) String() string {
	return k.Name + "_" + string(k.Tour)
}

// ParseKey is the inverse of Key.String.
func ParseKey(s string) (Key, bool) {
	i := strings.LastIndex(s, "_")
	if i <= 0 || i == len(s)-1 {
		return Key{}, false
	}
	return Key{Name: s[:i], Tour: tour.Code(s[i+1:])}, true
}

type Entry struct {
	Key Key
	URL string
}

// Store is the contract the resolver depends on. Lookup never fails, an
// unreadable backing store looks the same as an empty one.
type Store interface {
	Lookup(ctx context.Context, key Key) (string, bool)
	Store(ctx context.Context, key Key, url string) error
}

// Maintainable stores can also be listed and pruned by hand.
type Maintainable interface {
	Store
	Entries(ctx context.Context) ([]Entry, error)
	Forget(ctx context.Context, key Key) (bool, error)
}
