package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"tennisscout/internal/assert"
	"tennisscout/internal/telemetry"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// FileStore keeps the mapping as a single JSON object in a file. The file
// is read in full on every access and rewritten in full on every store,
// there is no protection against concurrent writers.
type FileStore struct {
	path string
	tel  telemetry.API
}

func NewFileStore(path string, tel telemetry.API) FileStore {
	assert.NotEmptyStr(path)
	assert.NotNil(tel)
	return FileStore{
		path: path,
		tel:  telemetry.NewScopedAPI("cache", tel),
	}
}

func (s FileStore) Path() string {
	return s.path
}

// load returns the current mapping, a missing or corrupt file is an empty mapping.
func (s FileStore) load() map[string]string {
	contents, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}
	}
	if err != nil {
		s.tel.ReportWarning(report_file_store_load, fmt.Errorf("read: %w", err), s.path)
		return map[string]string{}
	}
	if len(strings.TrimSpace(string(contents))) == 0 {
		return map[string]string{}
	}

	var mapping map[string]string
	err = json.Unmarshal(contents, &mapping)
	if err != nil {
		s.tel.ReportWarning(report_file_store_load, fmt.Errorf("parse: %w", err), s.path)
		return map[string]string{}
	}
	if mapping == nil {
		mapping = map[string]string{}
	}
	return mapping
}

func (s FileStore) save(mapping map[string]string) error {
	serialized, err := json.MarshalIndent(mapping, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	err = os.MkdirAll(dir, 0755)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	_, err = tmp.Write(append(serialized, '\n'))
	if err != nil {
		tmp.Close()
		return err
	}
	err = tmp.Close()
	if err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

func (s FileStore) Lookup(ctx context.Context, key Key) (string, bool) {
	_, span := tracer.Start(ctx, "file:lookup")
	defer span.End()
	span.SetAttributes(attribute.String("cache_key", key.String()))

	url, ok := s.load()[key.String()]
	span.SetAttributes(attribute.Bool("hit", ok))
	return url, ok
}

func (s FileStore) Store(ctx context.Context, key Key, url string) error {
	_, span := tracer.Start(ctx, "file:store")
	defer span.End()
	span.SetAttributes(attribute.String("cache_key", key.String()))

	mapping := s.load()
	mapping[key.String()] = url
	err := s.save(mapping)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to write cache file")
		s.tel.ReportBroken(report_file_store_store, err, s.path)
		return fmt.Errorf("write cache file: %w", err)
	}
	return nil
}

func (s FileStore) Entries(ctx context.Context) ([]Entry, error) {
	return entriesOf(s.load()), nil
}

func (s FileStore) Forget(ctx context.Context, key Key) (bool, error) {
	mapping := s.load()
	_, exists := mapping[key.String()]
	if !exists {
		return false, nil
	}
	delete(mapping, key.String())
	err := s.save(mapping)
	if err != nil {
		return false, fmt.Errorf("write cache file: %w", err)
	}
	return true, nil
}

func entriesOf(mapping map[string]string) []Entry {
	entries := make([]Entry, 0, len(mapping))
	for raw, url := range mapping {
		key, ok := ParseKey(raw)
		if !ok {
			continue
		}
		entries = append(entries, Entry{Key: key, URL: url})
	}
	slices.SortFunc(entries, func(a, b Entry) int {
		return strings.Compare(a.Key.String(), b.Key.String())
	})
	return entries
}
