package store

import (
	"bytes"

	"github.com/cockroachdb/pebble"
	"go.uber.org/zap"

	"cpnotes/pkg/logger"
)

// QueryOptions tunes a partition query.
type QueryOptions struct {
	// Index selects a secondary index; empty queries the primary table.
	Index string
	// Descending reverses the sort-key scan direction.
	Descending bool
	// Projection restricts which attributes are returned.
	Projection []string
	// Limit bounds the number of returned records; 0 means no bound.
	Limit int
}

// UpdateOptions tunes a conditional update.
type UpdateOptions struct {
	// RequireExists makes the update a no-op (applied=false) when the item
	// is absent, instead of creating it.
	RequireExists bool
	// Condition holds attribute equality preconditions checked against the
	// existing item.
	Condition map[string]any
}

// QueryByPartition returns every record under a partition, on the primary
// table or a secondary index, in sort-key order.
func QueryByPartition(table, pkValue string, opt QueryOptions) ([]Record, error) {
	if db == nil {
		return nil, notOpen()
	}
	s, err := schemaOf(table)
	if err != nil {
		return nil, err
	}
	prefix, err := partitionPrefix(s, opt.Index, pkValue)
	if err != nil {
		return nil, err
	}
	opsTotal.WithLabelValues("query").Inc()

	iter, err := db.NewIter(&pebble.IterOptions{LowerBound: prefix, UpperBound: upperBound(prefix)})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var out []Record
	valid := iter.First
	next := iter.Next
	if opt.Descending {
		valid = iter.Last
		next = iter.Prev
	}
	for ok := valid(); ok; ok = next() {
		rec, err := decodeRecord(append([]byte(nil), iter.Value()...))
		if err != nil {
			return nil, err
		}
		out = append(out, rec.project(opt.Projection))
		if opt.Limit > 0 && len(out) >= opt.Limit {
			break
		}
	}
	return out, iter.Error()
}

// QueryByKey returns primary-table records matching a partition value and
// either an exact sort key or a sort-key prefix.
func QueryByKey(table, pkValue, sortValue string, exactMatch bool) ([]Record, error) {
	if db == nil {
		return nil, notOpen()
	}
	s, err := schemaOf(table)
	if err != nil {
		return nil, err
	}
	opsTotal.WithLabelValues("query").Inc()
	if exactMatch {
		key, err := recordKey(s, pkValue, sortValue)
		if err != nil {
			return nil, err
		}
		rec, err := getRaw(key)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			return nil, nil
		}
		return []Record{rec}, nil
	}

	partition, err := partitionPrefix(s, "", pkValue)
	if err != nil {
		return nil, err
	}
	prefix := append(partition, []byte(sortValue)...)
	iter, err := db.NewIter(&pebble.IterOptions{LowerBound: prefix, UpperBound: upperBound(prefix)})
	if err != nil {
		return nil, err
	}
	defer iter.Close()
	var out []Record
	for ok := iter.First(); ok; ok = iter.Next() {
		rec, err := decodeRecord(append([]byte(nil), iter.Value()...))
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, iter.Error()
}

// GetItem returns the record at (pkValue, skValue) or nil when absent.
func GetItem(table, pkValue, skValue string) (Record, error) {
	if db == nil {
		return nil, notOpen()
	}
	s, err := schemaOf(table)
	if err != nil {
		return nil, err
	}
	key, err := recordKey(s, pkValue, skValue)
	if err != nil {
		return nil, err
	}
	opsTotal.WithLabelValues("get").Inc()
	return getRaw(key)
}

// PageAtOffset returns the pageNumber-th page (1-based) of a partition.
// The cursor is advanced through pageNumber-1 key-only passes before the
// target page is read, emulating offset pagination over forward-only
// iteration; cost is linear in the page number.
func PageAtOffset(table, pkValue string, pageNumber, pageSize int, opt QueryOptions) ([]Record, error) {
	if db == nil {
		return nil, notOpen()
	}
	if pageNumber < 1 || pageSize < 1 {
		return nil, nil
	}
	s, err := schemaOf(table)
	if err != nil {
		return nil, err
	}
	prefix, err := partitionPrefix(s, opt.Index, pkValue)
	if err != nil {
		return nil, err
	}
	opsTotal.WithLabelValues("query").Inc()

	iter, err := db.NewIter(&pebble.IterOptions{LowerBound: prefix, UpperBound: upperBound(prefix)})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	valid := iter.First
	next := iter.Next
	if opt.Descending {
		valid = iter.Last
		next = iter.Prev
	}
	ok := valid()
	for page := 1; page < pageNumber && ok; page++ {
		// key-only advancement; values are not decoded
		for n := 0; n < pageSize && ok; n++ {
			ok = next()
		}
	}
	var out []Record
	for ; ok && len(out) < pageSize; ok = next() {
		rec, err := decodeRecord(append([]byte(nil), iter.Value()...))
		if err != nil {
			return nil, err
		}
		out = append(out, rec.project(opt.Projection))
	}
	return out, iter.Error()
}

// InsertIfAbsent writes rec unless its key already exists. The duplicate
// case is a normal outcome, not an error.
func InsertIfAbsent(table string, rec Record) (bool, error) {
	if db == nil {
		return false, notOpen()
	}
	s, err := schemaOf(table)
	if err != nil {
		return false, err
	}
	pk := rec.String(s.PartitionKey)
	sk, err := sortValue(s, rec)
	if err != nil {
		return false, err
	}
	key, err := recordKey(s, pk, sk)
	if err != nil {
		return false, err
	}

	mu.Lock()
	defer mu.Unlock()
	existing, err := getRaw(key)
	if err != nil {
		return false, err
	}
	if existing != nil {
		condFailed.Inc()
		return false, nil
	}
	batch := db.NewBatch()
	defer batch.Close()
	if err := applyRecord(batch, s, nil, rec); err != nil {
		return false, err
	}
	if err := db.Apply(batch, pebble.Sync); err != nil {
		logger.Log.Error("insert_failed", zap.String("table", table), zap.String("pk", pk), zap.Error(err))
		return false, err
	}
	opsTotal.WithLabelValues("insert").Inc()
	return true, nil
}

// Put writes rec unconditionally, replacing any existing item.
func Put(table string, rec Record) error {
	if db == nil {
		return notOpen()
	}
	s, err := schemaOf(table)
	if err != nil {
		return err
	}
	pk := rec.String(s.PartitionKey)
	sk, err := sortValue(s, rec)
	if err != nil {
		return err
	}
	key, err := recordKey(s, pk, sk)
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	old, err := getRaw(key)
	if err != nil {
		return err
	}
	batch := db.NewBatch()
	defer batch.Close()
	if err := applyRecord(batch, s, old, rec); err != nil {
		return err
	}
	if err := db.Apply(batch, pebble.Sync); err != nil {
		return err
	}
	opsTotal.WithLabelValues("put").Inc()
	return nil
}

// update is the shared conditional read-modify-write: ADD semantics for
// adds, SET semantics for sets, applied under one lock acquisition.
func update(table, pkValue, skValue string, adds map[string]int64, sets Record, opt UpdateOptions) (Record, bool, error) {
	if db == nil {
		return nil, false, notOpen()
	}
	s, err := schemaOf(table)
	if err != nil {
		return nil, false, err
	}
	key, err := recordKey(s, pkValue, skValue)
	if err != nil {
		return nil, false, err
	}

	mu.Lock()
	defer mu.Unlock()
	prev, err := getRaw(key)
	if err != nil {
		return nil, false, err
	}
	if prev == nil && opt.RequireExists {
		condFailed.Inc()
		return nil, false, nil
	}
	for attr, want := range opt.Condition {
		if prev == nil || !attrEqual(prev[attr], want) {
			condFailed.Inc()
			return nil, false, nil
		}
	}

	var next Record
	if prev != nil {
		next = prev.clone()
	} else {
		next = Record{s.PartitionKey: pkValue}
		if s.SortKey != "" {
			next[s.SortKey] = skValue
		}
	}
	for attr, delta := range adds {
		next[attr] = next.Int(attr) + delta
	}
	for attr, v := range sets {
		next[attr] = v
	}

	batch := db.NewBatch()
	defer batch.Close()
	if err := applyRecord(batch, s, prev, next); err != nil {
		return nil, false, err
	}
	if err := db.Apply(batch, pebble.Sync); err != nil {
		logger.Log.Error("update_failed", zap.String("table", table), zap.String("pk", pkValue), zap.Error(err))
		return nil, false, err
	}
	opsTotal.WithLabelValues("update").Inc()
	return prev, true, nil
}

// UpdateAdditive applies integer deltas to attributes, creating the item
// from a zero baseline unless RequireExists is set. It returns the
// previous record (nil when the item was created) and whether the update
// was applied.
func UpdateAdditive(table, pkValue, skValue string, deltas map[string]int64, opt UpdateOptions) (Record, bool, error) {
	return update(table, pkValue, skValue, deltas, nil, opt)
}

// UpdateSet assigns attribute values under the given preconditions,
// returning the previous record and whether the update was applied.
func UpdateSet(table, pkValue, skValue string, sets Record, opt UpdateOptions) (Record, bool, error) {
	return update(table, pkValue, skValue, nil, sets, opt)
}

// DeleteRecord removes the item at (pkValue, skValue) together with its
// index rows, returning the removed record or nil when nothing existed.
func DeleteRecord(table, pkValue, skValue string) (Record, error) {
	if db == nil {
		return nil, notOpen()
	}
	s, err := schemaOf(table)
	if err != nil {
		return nil, err
	}
	key, err := recordKey(s, pkValue, skValue)
	if err != nil {
		return nil, err
	}

	mu.Lock()
	defer mu.Unlock()
	prev, err := getRaw(key)
	if err != nil {
		return nil, err
	}
	if prev == nil {
		return nil, nil
	}
	batch := db.NewBatch()
	defer batch.Close()
	if err := stageDelete(batch, s, prev); err != nil {
		return nil, err
	}
	if err := db.Apply(batch, pebble.Sync); err != nil {
		logger.Log.Error("delete_failed", zap.String("table", table), zap.String("pk", pkValue), zap.Error(err))
		return nil, err
	}
	opsTotal.WithLabelValues("delete").Inc()
	return prev, nil
}

// deleteBatchSize bounds how many rows a bulk delete removes per batch.
const deleteBatchSize = 25

// DeleteAllUnderPartition removes every row under a primary-table
// partition in bounded batches.
func DeleteAllUnderPartition(table, pkValue string) error {
	if db == nil {
		return notOpen()
	}
	s, err := schemaOf(table)
	if err != nil {
		return err
	}
	prefix, err := partitionPrefix(s, "", pkValue)
	if err != nil {
		return err
	}

	for {
		mu.Lock()
		iter, err := db.NewIter(&pebble.IterOptions{LowerBound: prefix, UpperBound: upperBound(prefix)})
		if err != nil {
			mu.Unlock()
			return err
		}
		batch := db.NewBatch()
		n := 0
		for ok := iter.First(); ok && n < deleteBatchSize; ok = iter.Next() {
			if !bytes.HasPrefix(iter.Key(), prefix) {
				break
			}
			rec, derr := decodeRecord(append([]byte(nil), iter.Value()...))
			if derr != nil {
				err = derr
				break
			}
			if serr := stageDelete(batch, s, rec); serr != nil {
				err = serr
				break
			}
			n++
		}
		if ierr := iter.Error(); err == nil {
			err = ierr
		}
		_ = iter.Close()
		if err != nil {
			_ = batch.Close()
			mu.Unlock()
			return err
		}
		if n == 0 {
			_ = batch.Close()
			mu.Unlock()
			return nil
		}
		if err := db.Apply(batch, pebble.Sync); err != nil {
			_ = batch.Close()
			mu.Unlock()
			return err
		}
		_ = batch.Close()
		opsTotal.WithLabelValues("delete").Add(float64(n))
		mu.Unlock()
	}
}
