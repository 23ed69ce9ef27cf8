// Package counts maintains named, scoped integer counters. Counters come
// into existence lazily: the first write conditionally inserts a row
// seeded with the delta, and every later write is a plain additive update.
package counts

import (
	"go.uber.org/zap"

	"cpnotes/pkg/keys"
	"cpnotes/pkg/logger"
	"cpnotes/pkg/store"
)

// PublishedNotes counts currently-published notes per hierarchy scope.
const PublishedNotes = "NOTES"

// Get returns the counter value for (countType, scope), defaulting to 0
// when the counter was never written.
func Get(countType, scope string) (int64, error) {
	rec, err := store.GetItem(store.CountsTable, countType, scope)
	if err != nil {
		return 0, err
	}
	if rec == nil {
		return 0, nil
	}
	return rec.Int("count"), nil
}

// Update adds delta to the counter for (countType, scope). The insert-or-
// add sequence keeps concurrent first writes race-tolerant: the loser of
// the insert falls through to an additive update, so no delta is lost.
func Update(countType, scope string, delta int64) error {
	inserted, err := store.InsertIfAbsent(store.CountsTable, store.Record{
		"countType": countType,
		"sk":        scope,
		"count":     delta,
	})
	if err != nil {
		return err
	}
	if inserted {
		return nil
	}
	_, _, err = store.UpdateAdditive(store.CountsTable, countType, scope,
		map[string]int64{"count": delta}, store.UpdateOptions{})
	return err
}

// UpdateHierarchy applies delta at every prefix level of scopeID plus the
// global sentinel scope.
func UpdateHierarchy(countType, scopeID string, delta int64) error {
	for _, scope := range keys.HierarchyScopes(scopeID) {
		if err := Update(countType, scope, delta); err != nil {
			logger.Log.Error("count_update_failed",
				zap.String("type", countType), zap.String("scope", scope), zap.Error(err))
			return err
		}
	}
	return nil
}
