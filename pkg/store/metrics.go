package store

import (
	"io/fs"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	opsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cpnotes_store_ops_total",
		Help: "Store operations by kind.",
	}, []string{"op"})

	condFailed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cpnotes_store_precondition_failures_total",
		Help: "Conditional writes whose precondition did not hold.",
	})
)

func init() {
	prometheus.MustRegister(opsTotal, condFailed)
}

// Metrics is a compact view of the underlying database, exposed on the
// health endpoint.
type Metrics struct {
	DiskBytes     uint64 `json:"disk_bytes"`
	WALBytes      uint64 `json:"wal_bytes"`
	MemtableBytes uint64 `json:"memtable_bytes"`
}

// GetMetrics returns best-effort metrics about the database. Disk usage is
// computed from the DB directory; the rest comes from pebble.Metrics.
func GetMetrics() Metrics {
	var m Metrics
	if db == nil || dbPath == "" {
		return m
	}
	var total uint64
	_ = filepath.WalkDir(dbPath, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if fi, err := d.Info(); err == nil {
			total += uint64(fi.Size())
		}
		return nil
	})
	m.DiskBytes = total
	if pm := db.Metrics(); pm != nil {
		m.WALBytes = pm.WAL.Size
		m.MemtableBytes = pm.MemTable.Size
	}
	return m
}
