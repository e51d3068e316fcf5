package cache

// Cache is the lookup/store/sweep contract consumed by the search service.
// Implementations cannot fail; a miss falls through to the database.
type Cache interface {
	Lookup(key string) (any, bool)
	Store(key string, value any)
	Sweep() int
}

// Nop cache returns misses and ignores writes.
type Nop struct{}

var _ Cache = (*Nop)(nil)

func (n *Nop) Lookup(key string) (any, bool) { return nil, false }
func (n *Nop) Store(key string, value any) {}
func (n *Nop) Sweep() int { return 0 }
