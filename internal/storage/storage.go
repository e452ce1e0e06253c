package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// Key prefixes within the database.
const (
	prefixAnalysis = "analysis:"
	prefixIndex    = "analysis-index:"
)

// AnalysisRecord is one saved endgame analysis: the position, the solver
// verdict and the winning line when one was proven.
type AnalysisRecord struct {
	ID          string    `json:"id"`
	HashKey     string    `json:"hash_key"`
	PlayerColor string    `json:"player_color"`
	Board       string    `json:"board"`
	Depth       int       `json:"depth"`
	Score       int16     `json:"score"`
	Win         bool      `json:"win"`
	Sequence    []string  `json:"sequence,omitempty"`
	Nodes       uint64    `json:"nodes"`
	CreatedAt   time.Time `json:"created_at"`
}

// Storage wraps BadgerDB for persistent analysis records.
type Storage struct {
	db *badger.DB
}

// NewStorage opens the database under the default data directory.
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return OpenStorage(dbDir)
}

// OpenStorage opens the database at an explicit directory.
func OpenStorage(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Storage{db: db}, nil
}

// Close closes the database.
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveAnalysis stores a record, assigning it a fresh id.
func (s *Storage) SaveAnalysis(record *AnalysisRecord) (string, error) {
	record.ID = uuid.NewString()
	record.CreatedAt = time.Now()

	data, err := json.Marshal(record)
	if err != nil {
		return "", err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(prefixAnalysis+record.ID), data); err != nil {
			return err
		}
		// Index the latest record per position hash.
		return txn.Set([]byte(prefixIndex+record.HashKey), []byte(record.ID))
	})
	if err != nil {
		return "", err
	}

	return record.ID, nil
}

// LoadAnalysis loads a record by id.
func (s *Storage) LoadAnalysis(id string) (*AnalysisRecord, error) {
	var record AnalysisRecord

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(prefixAnalysis + id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &record)
		})
	})
	if err == badger.ErrKeyNotFound {
		return nil, fmt.Errorf("analysis %s not found", id)
	}
	if err != nil {
		return nil, err
	}

	return &record, nil
}

// FindByPosition loads the latest record saved for a position hash, if any.
func (s *Storage) FindByPosition(hashKey string) (*AnalysisRecord, bool, error) {
	var id string

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(prefixIndex + hashKey))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			id = string(val)
			return nil
		})
	})
	if err == badger.ErrKeyNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	record, err := s.LoadAnalysis(id)
	if err != nil {
		return nil, false, err
	}
	return record, true, nil
}

// ListAnalyses returns every saved record.
func (s *Storage) ListAnalyses() ([]*AnalysisRecord, error) {
	var records []*AnalysisRecord

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefixAnalysis)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var record AnalysisRecord
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &record)
			})
			if err != nil {
				return err
			}
			records = append(records, &record)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return records, nil
}
