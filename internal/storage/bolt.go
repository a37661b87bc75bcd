package storage

import (
	"fmt"
	"time"

	bbolt "go.etcd.io/bbolt"
)

// OpenBolt opens or creates the bbolt database file at path.
func OpenBolt(path string) (*bbolt.DB, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt database %s: %w", path, err)
	}
	return db, nil
}

// BoltStore keeps records as JSON assets in one bucket of a bbolt database.
// Writes go to the database first and then to the cache.
type BoltStore[T ValidatingSpec] struct {
	db     *bbolt.DB
	bucket []byte
	records[T]
}

func NewBoltStore[T ValidatingSpec](db *bbolt.DB, bucket string) (*BoltStore[T], error) {
	s := &BoltStore[T]{
		db:     db,
		bucket: []byte(bucket),
	}

	err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(s.bucket)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("creating bucket %s: %w", bucket, err)
	}

	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *BoltStore[T]) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byId = map[string]T{}
	return s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(s.bucket).ForEach(func(k, v []byte) error {
			asset, err := decodeAsset[T](v)
			if err != nil {
				return fmt.Errorf("loading %s/%s: %w", s.bucket, k, err)
			}
			if asset.Id() != string(k) {
				return fmt.Errorf("key %s/%s holds asset %s", s.bucket, k, asset.Id())
			}
			s.byId[asset.Id()] = asset.Spec
			return nil
		})
	})
}

func (s *BoltStore[T]) Save(id string, o T) error {
	data, err := encodeAsset(id, o)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(s.bucket).Put([]byte(id), data)
	})
	if err != nil {
		return fmt.Errorf("writing %s/%s: %w", s.bucket, id, err)
	}
	s.byId[id] = o
	return nil
}

// Delete removes the record for id. Deleting an unknown id does nothing.
func (s *BoltStore[T]) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(s.bucket).Delete([]byte(id))
	})
	if err != nil {
		return fmt.Errorf("deleting %s/%s: %w", s.bucket, id, err)
	}
	delete(s.byId, id)
	return nil
}

func (s *BoltStore[T]) Get(id string) T {
	return s.get(id)
}

func (s *BoltStore[T]) GetAll() map[string]T {
	return s.all()
}
