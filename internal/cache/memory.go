package cache

import "context"

// MemoryStore is a Store that lives as long as the process.
type MemoryStore struct {
	mapping map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{mapping: map[string]string{}}
}

func (s *MemoryStore) Lookup(_ context.Context, key Key) (string, bool) {
	url, ok := s.mapping[key.String()]
	return url, ok
}

func (s *MemoryStore) Store(_ context.Context, key Key, url string) error {
	s.mapping[key.String()] = url
	return nil
}

func (s *MemoryStore) Entries(context.Context) ([]Entry, error) {
	return entriesOf(s.mapping), nil
}

func (s *MemoryStore) Forget(_ context.Context, key Key) (bool, error) {
	_, exists := s.mapping[key.String()]
	delete(s.mapping, key.String())
	return exists, nil
}
