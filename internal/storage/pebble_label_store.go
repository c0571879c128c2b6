package storage

import (
	"sync"
)

// PebbleLabelStore keeps labels in a Pebble database, one key per address
type PebbleLabelStore struct {
	db *PebbleDB
	mu sync.Mutex
}

// NewPebbleLabelStore creates a label store on top of db
func NewPebbleLabelStore(db *PebbleDB) *PebbleLabelStore {
	return &PebbleLabelStore{db: db}
}

// Load returns every stored label
func (s *PebbleLabelStore) Load() (map[string]string, error) {
	iter, err := s.db.NewIterator(CFLabels)
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	labels := map[string]string{}
	for ; iter.Valid(); iter.Next() {
		labels[string(iter.Key())] = string(iter.Value())
	}
	return labels, nil
}

// Save replaces all stored labels with labels in one atomic batch
func (s *PebbleLabelStore) Save(labels map[string]string) error {
	existing, err := s.Load()
	if err != nil {
		return err
	}

	batch := s.db.NewBatch()
	defer batch.Destroy()

	for address := range existing {
		if _, keep := labels[address]; keep {
			continue
		}
		if err := s.db.DeleteBatch(batch, CFLabels, []byte(address)); err != nil {
			return err
		}
	}
	for address, label := range labels {
		if err := s.db.PutBatch(batch, CFLabels, []byte(address), []byte(label)); err != nil {
			return err
		}
	}
	return s.db.WriteBatch(batch)
}

// Update loads the labels, applies fn and saves the result under a mutex
func (s *PebbleLabelStore) Update(fn func(labels map[string]string) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	labels, err := s.Load()
	if err != nil {
		return err
	}
	if err := fn(labels); err != nil {
		return err
	}
	return s.Save(labels)
}
