package devapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/guilhermemouraovc/cm-admin/internal/model"
)

var errNotFound = errors.New("registro não encontrado")

// Store keeps every collection in memory, keyed by kind and identifier
type Store struct {
	mu    sync.RWMutex
	colls map[model.Kind]*collection
}

type collection struct {
	info  model.KindInfo
	next  int
	items map[int]model.Record
}

// NewStore creates empty collections for every kind
func NewStore() *Store {
	s := &Store{colls: make(map[model.Kind]*collection)}
	for _, ki := range model.Kinds() {
		s.colls[ki.Kind] = &collection{info: ki, next: 1, items: make(map[int]model.Record)}
	}
	return s
}

func (s *Store) coll(k model.Kind) (*collection, error) {
	c, ok := s.colls[k]
	if !ok {
		return nil, fmt.Errorf("unknown kind %s", k)
	}
	return c, nil
}

// List returns a kind's records ordered by identifier
func (s *Store) List(k model.Kind) ([]model.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, err := s.coll(k)
	if err != nil {
		return nil, err
	}
	ids := make([]int, 0, len(c.items))
	for id := range c.items {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]model.Record, 0, len(ids))
	for _, id := range ids {
		out = append(out, c.items[id])
	}
	return out, nil
}

// Get returns one record
func (s *Store) Get(k model.Kind, id int) (model.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, err := s.coll(k)
	if err != nil {
		return nil, err
	}
	rec, ok := c.items[id]
	if !ok {
		return nil, errNotFound
	}
	return rec, nil
}

// Create assigns the next identifier and stores rec
func (s *Store) Create(k model.Kind, rec model.Record) (model.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.coll(k)
	if err != nil {
		return nil, err
	}
	stored, err := withID(c.info, rec, c.next)
	if err != nil {
		return nil, err
	}
	c.items[c.next] = stored
	c.next++
	return stored, nil
}

// Update replaces the record with identifier id
func (s *Store) Update(k model.Kind, id int, rec model.Record) (model.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.coll(k)
	if err != nil {
		return nil, err
	}
	if _, ok := c.items[id]; !ok {
		return nil, errNotFound
	}
	stored, err := withID(c.info, rec, id)
	if err != nil {
		return nil, err
	}
	c.items[id] = stored
	return stored, nil
}

// Delete removes the record with identifier id
func (s *Store) Delete(k model.Kind, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.coll(k)
	if err != nil {
		return err
	}
	if _, ok := c.items[id]; !ok {
		return errNotFound
	}
	delete(c.items, id)
	return nil
}

// Decode parses one JSON object as a record of kind k
func Decode(k model.Kind, body []byte) (model.Record, error) {
	info, err := model.Lookup(k)
	if err != nil {
		return nil, err
	}
	recs, err := info.Decode([]json.RawMessage{body})
	if err != nil {
		return nil, err
	}
	return recs[0], nil
}

// withID returns rec with its identifier field set to id
func withID(info model.KindInfo, rec model.Record, id int) (model.Record, error) {
	fields := model.Fields(rec)
	fields[info.IDField] = id
	data, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	recs, err := info.Decode([]json.RawMessage{data})
	if err != nil {
		return nil, err
	}
	return recs[0], nil
}
