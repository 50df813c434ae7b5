// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package lvldb is the goleveldb backed kv.Store of the host.
package lvldb

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/shardstake/contracts/kv"
	"github.com/shardstake/contracts/log"
	"github.com/shardstake/contracts/metrics"
)

var (
	logger = log.WithContext("pkg", "lvldb")

	metricBulkWrites = metrics.LazyLoadCounterVec("lvldb_bulk_write_count", []string{"status"})

	writeOpt = opt.WriteOptions{Sync: true}
	readOpt  = opt.ReadOptions{}
)

var _ kv.Store = (*LevelDB)(nil)

// Options sizes the caches of a persistent database. Values below 16 are raised to 16.
type Options struct {
	CacheSize              int // MiB
	OpenFilesCacheCapacity int
}

type LevelDB struct {
	db   *leveldb.DB
	stg  storage.Storage
	path string
}

// New opens the database at path, creating it if missing.
func New(path string, opts Options) (*LevelDB, error) {
	stg, err := storage.OpenFile(path, false)
	if err != nil {
		return nil, errors.Wrapf(err, "open storage %s", path)
	}
	ldb, err := open(stg, opts)
	if err != nil {
		stg.Close()
		return nil, err
	}
	ldb.path = path
	logger.Debug("database opened", "path", path, "cache", opts.CacheSize)
	return ldb, nil
}

// NewMem creates an in-memory database, used by tests and by runs without a data dir.
func NewMem() (*LevelDB, error) {
	return open(storage.NewMemStorage(), Options{})
}

func open(stg storage.Storage, opts Options) (*LevelDB, error) {
	cache := max(opts.CacheSize, 16)
	files := max(opts.OpenFilesCacheCapacity, 16)

	db, err := leveldb.Open(stg, &opt.Options{
		OpenFilesCacheCapacity: files,
		BlockCacheCapacity:     cache / 2 * opt.MiB,
		WriteBuffer:            cache / 4 * opt.MiB,
		Filter:                 filter.NewBloomFilter(10),
	})
	if err != nil {
		return nil, errors.Wrap(err, "open leveldb")
	}
	return &LevelDB{db: db, stg: stg}, nil
}

func (ldb *LevelDB) IsNotFound(err error) bool {
	return errors.Is(err, leveldb.ErrNotFound)
}

// Get fails with an error recognized by IsNotFound when the key is missing.
func (ldb *LevelDB) Get(key []byte) ([]byte, error) {
	return ldb.db.Get(key, &readOpt)
}

func (ldb *LevelDB) Has(key []byte) (bool, error) {
	return ldb.db.Has(key, &readOpt)
}

func (ldb *LevelDB) Put(key, value []byte) error {
	return ldb.db.Put(key, value, &writeOpt)
}

func (ldb *LevelDB) Delete(key []byte) error {
	return ldb.db.Delete(key, &writeOpt)
}

// Close releases the database and the storage lock. It can't be used afterwards.
func (ldb *LevelDB) Close() error {
	if err := ldb.db.Close(); err != nil {
		return errors.Wrap(err, "close leveldb")
	}
	// leveldb does not close a storage it was handed
	if err := ldb.stg.Close(); err != nil {
		return errors.Wrap(err, "close storage")
	}
	if ldb.path != "" {
		logger.Debug("database closed", "path", ldb.path)
	}
	return nil
}

// Bulk starts a batch that is applied atomically on Write.
func (ldb *LevelDB) Bulk() kv.Bulk {
	return &bulk{db: ldb.db, batch: new(leveldb.Batch)}
}

func (ldb *LevelDB) Iterate(r kv.Range) kv.Iterator {
	return ldb.db.NewIterator(&util.Range{Start: r.Start, Limit: r.Limit}, &readOpt)
}

type bulk struct {
	db    *leveldb.DB
	batch *leveldb.Batch
}

func (b *bulk) Put(key, value []byte) error {
	b.batch.Put(key, value)
	return nil
}

func (b *bulk) Delete(key []byte) error {
	b.batch.Delete(key)
	return nil
}

// Write applies the batch and empties it, so the bulk can be reused.
func (b *bulk) Write() error {
	if b.batch.Len() == 0 {
		return nil
	}
	if err := b.db.Write(b.batch, &writeOpt); err != nil {
		metricBulkWrites().AddWithLabel(1, map[string]string{"status": "failed"})
		return errors.Wrap(err, "write batch")
	}
	metricBulkWrites().AddWithLabel(1, map[string]string{"status": "ok"})
	b.batch.Reset()
	return nil
}
