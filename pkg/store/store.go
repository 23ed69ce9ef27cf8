// Package store adapts a Pebble instance into the partition/sort-key table
// model the repositories are written against: prefix range queries,
// secondary index projections, and conditional single-item writes whose
// "precondition failed" outcome is a return value, not an error.
package store

import (
	"fmt"
	"strings"
	"sync"

	"github.com/cockroachdb/pebble"
	"go.uber.org/zap"

	"cpnotes/pkg/logger"
)

var (
	db     *pebble.DB
	dbPath string

	// mu serializes conditional read-modify-write sections. Pebble has no
	// native conditional write, so the adapter supplies the single-item
	// atomicity the callers rely on.
	mu sync.Mutex
)

const (
	recordPrefix = "t"
	indexPrefix  = "i"
	keySep       = "|"
)

// Open opens (or creates) the Pebble database at path and keeps a global
// handle for the package-level operations.
func Open(path string) error {
	logger.Log.Info("opening_pebble_db", zap.String("path", path))
	d, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		logger.Log.Error("pebble_open_failed", zap.String("path", path), zap.Error(err))
		return err
	}
	db = d
	dbPath = path
	logger.Log.Info("pebble_opened", zap.String("path", path))
	return nil
}

// Close closes the opened database if present.
func Close() error {
	if db == nil {
		return nil
	}
	if err := db.Close(); err != nil {
		return err
	}
	db = nil
	logger.Log.Info("pebble_closed")
	return nil
}

// Ready reports whether the store is opened and ready.
func Ready() bool {
	return db != nil
}

func notOpen() error {
	return fmt.Errorf("pebble not opened; call store.Open first")
}

// keyPart validates a single key segment. The separator byte is reserved.
func keyPart(v string) (string, error) {
	if strings.Contains(v, keySep) {
		return "", fmt.Errorf("key segment %q contains reserved separator", v)
	}
	return v, nil
}

func joinKey(parts ...string) []byte {
	return []byte(strings.Join(parts, keySep))
}

// sortValue resolves the stored sort segment for a table: singleton tables
// use the sentinel so every row still has a two-part key.
func sortValue(s TableSchema, rec Record) (string, error) {
	if s.SortKey == "" {
		return "!", nil
	}
	v := rec.String(s.SortKey)
	if v == "" {
		return "", fmt.Errorf("record missing sort key attribute %q", s.SortKey)
	}
	return keyPart(v)
}

func sortSegment(s TableSchema, sk string) (string, error) {
	if s.SortKey == "" {
		if sk != "" && sk != "!" {
			return "", fmt.Errorf("table %s has no sort key", s.Name)
		}
		return "!", nil
	}
	if sk == "" {
		return "", fmt.Errorf("table %s requires a sort key value", s.Name)
	}
	return keyPart(sk)
}

// recordKey composes the primary key for (table, pk, sk).
func recordKey(s TableSchema, pk, sk string) ([]byte, error) {
	p, err := keyPart(pk)
	if err != nil {
		return nil, err
	}
	ss, err := sortSegment(s, sk)
	if err != nil {
		return nil, err
	}
	return joinKey(recordPrefix, s.Name, p, ss), nil
}

// indexRowKey composes the key of rec's row in index ix, or nil when the
// record does not participate in the index.
func indexRowKey(s TableSchema, ix IndexSchema, rec Record) ([]byte, error) {
	ipk := rec.String(ix.PartitionKey)
	if ipk == "" {
		return nil, nil
	}
	isk := "!"
	if ix.SortKey != "" {
		isk = rec.String(ix.SortKey)
		if isk == "" {
			return nil, nil
		}
	}
	pk := rec.String(s.PartitionKey)
	sk, err := sortValue(s, rec)
	if err != nil {
		return nil, err
	}
	for _, part := range []string{ipk, isk, pk} {
		if _, err := keyPart(part); err != nil {
			return nil, err
		}
	}
	return joinKey(indexPrefix, s.Name, ix.Name, ipk, isk, pk, sk), nil
}

// applyRecord stages a full record write into batch: the primary row, new
// index rows, and deletion of index rows the update made stale.
func applyRecord(batch *pebble.Batch, s TableSchema, old, rec Record) error {
	pk := rec.String(s.PartitionKey)
	if pk == "" {
		return fmt.Errorf("record missing partition key attribute %q", s.PartitionKey)
	}
	sk, err := sortValue(s, rec)
	if err != nil {
		return err
	}
	key, err := recordKey(s, pk, sk)
	if err != nil {
		return err
	}
	data, err := encodeRecord(rec)
	if err != nil {
		return err
	}
	if err := batch.Set(key, data, nil); err != nil {
		return err
	}
	for _, ix := range s.Indexes {
		newKey, err := indexRowKey(s, ix, rec)
		if err != nil {
			return err
		}
		if old != nil {
			oldKey, err := indexRowKey(s, ix, old)
			if err != nil {
				return err
			}
			if oldKey != nil && string(oldKey) != string(newKey) {
				if err := batch.Delete(oldKey, nil); err != nil {
					return err
				}
			}
		}
		if newKey == nil {
			continue
		}
		proj, err := encodeRecord(rec.project(ix.Projection, s.PartitionKey, s.SortKey, ix.PartitionKey, ix.SortKey))
		if err != nil {
			return err
		}
		if err := batch.Set(newKey, proj, nil); err != nil {
			return err
		}
	}
	return nil
}

// stageDelete stages removal of rec's primary row and all its index rows.
func stageDelete(batch *pebble.Batch, s TableSchema, rec Record) error {
	pk := rec.String(s.PartitionKey)
	sk, err := sortValue(s, rec)
	if err != nil {
		return err
	}
	key, err := recordKey(s, pk, sk)
	if err != nil {
		return err
	}
	if err := batch.Delete(key, nil); err != nil {
		return err
	}
	for _, ix := range s.Indexes {
		ixKey, err := indexRowKey(s, ix, rec)
		if err != nil {
			return err
		}
		if ixKey != nil {
			if err := batch.Delete(ixKey, nil); err != nil {
				return err
			}
		}
	}
	return nil
}

// getRaw reads and decodes a primary row, returning nil when absent.
func getRaw(key []byte) (Record, error) {
	v, closer, err := db.Get(key)
	if err != nil {
		if err == pebble.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	defer closer.Close()
	return decodeRecord(append([]byte(nil), v...))
}

// upperBound returns the exclusive upper bound for prefix iteration.
func upperBound(prefix []byte) []byte {
	return append(append([]byte(nil), prefix...), 0xff)
}

// partitionPrefix returns the key prefix shared by every row of a
// partition, on the primary table or one of its indexes.
func partitionPrefix(s TableSchema, indexName, pkValue string) ([]byte, error) {
	p, err := keyPart(pkValue)
	if err != nil {
		return nil, err
	}
	if indexName == "" {
		return append(joinKey(recordPrefix, s.Name, p), []byte(keySep)...), nil
	}
	ix, err := s.index(indexName)
	if err != nil {
		return nil, err
	}
	return append(joinKey(indexPrefix, s.Name, ix.Name, p), []byte(keySep)...), nil
}
