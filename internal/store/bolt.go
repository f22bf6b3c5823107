package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/inovacc/git-pr-mcp/internal/model"
	"go.etcd.io/bbolt"
)

const (
	boltBucketState = "state"  // key: "active" -> ActiveRepository JSON
	boltKeyActive   = "active"
)

// Bolt stores the record in a bbolt database
type Bolt struct {
	storage *bbolt.DB
}

// NewBolt opens (or creates) a Bolt database at path
func NewBolt(path string) (*Bolt, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	instance, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database %s: %w", path, err)
	}

	if err := instance.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(boltBucketState))
		return err
	}); err != nil {
		_ = instance.Close()

		return nil, err
	}

	return &Bolt{storage: instance}, nil
}

func (b *Bolt) Load() (*model.ActiveRepository, error) {
	var repo *model.ActiveRepository

	err := b.storage.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(boltBucketState)).Get([]byte(boltKeyActive))
		if data == nil {
			return ErrNotFound
		}

		repo = &model.ActiveRepository{}

		return json.Unmarshal(data, repo)
	})
	if err != nil {
		return nil, err
	}

	return repo, nil
}

func (b *Bolt) Save(repo *model.ActiveRepository) error {
	if repo == nil {
		repo = &model.ActiveRepository{}
	}

	data, err := json.Marshal(repo)
	if err != nil {
		return err
	}

	return b.storage.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltBucketState)).Put([]byte(boltKeyActive), data)
	})
}

// Close closes the database.
func (b *Bolt) Close() error {
	return b.storage.Close()
}
