package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// JSONStore serves materials from a product JSON dump loaded once at startup.
// The loaded data is immutable for the lifetime of the store.
type JSONStore struct {
	materials []*Material
	byID      map[int64]*Material
	cats      []string
}

// NewJSONStore reads a dataset file whose root must be a JSON array of
// materials.
func NewJSONStore(path string) (*JSONStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	var materials []*Material
	if err := json.Unmarshal(data, &materials); err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}
	return newJSONStore(materials), nil
}

func newJSONStore(materials []*Material) *JSONStore {
	s := &JSONStore{
		materials: materials,
		byID:      make(map[int64]*Material, len(materials)),
	}
	seen := map[string]bool{}
	for _, m := range materials {
		s.byID[m.ID] = m
		for _, name := range m.CategoryNames() {
			if !seen[name] {
				seen[name] = true
				s.cats = append(s.cats, name)
			}
		}
	}
	sort.Strings(s.cats)
	return s
}

func (s *JSONStore) Categories(_ context.Context) ([]string, error) {
	out := make([]string, len(s.cats))
	copy(out, s.cats)
	return out, nil
}

func (s *JSONStore) List(_ context.Context, category string) ([]*Material, error) {
	if category == "" {
		return s.materials, nil
	}
	var out []*Material
	for _, m := range s.materials {
		if m.HasCategory(category) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *JSONStore) Get(_ context.Context, id int64) (*Material, error) {
	return s.byID[id], nil
}

func (s *JSONStore) Close() error { return nil }
