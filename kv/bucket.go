// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"github.com/syndtr/goleveldb/leveldb/util"
)

// Bucket is a key prefix. Views created from it see keys with the prefix stripped.
type Bucket string

func (b Bucket) key(key []byte) []byte {
	out := make([]byte, 0, len(b)+len(key))
	out = append(out, b...)
	return append(out, key...)
}

type bucketGetter struct {
	b   Bucket
	src Getter
}

func (g bucketGetter) Get(key []byte) ([]byte, error) { return g.src.Get(g.b.key(key)) }
func (g bucketGetter) Has(key []byte) (bool, error)   { return g.src.Has(g.b.key(key)) }
func (g bucketGetter) IsNotFound(err error) bool      { return g.src.IsNotFound(err) }

type bucketPutter struct {
	b   Bucket
	dst Putter
}

func (p bucketPutter) Put(key, val []byte) error { return p.dst.Put(p.b.key(key), val) }
func (p bucketPutter) Delete(key []byte) error   { return p.dst.Delete(p.b.key(key)) }

// NewGetter returns a read view of the bucket.
func (b Bucket) NewGetter(src Getter) Getter {
	return bucketGetter{b, src}
}

// NewPutter returns a write view of the bucket.
func (b Bucket) NewPutter(dst Putter) Putter {
	return bucketPutter{b, dst}
}

// NewGetPutter returns a read write view of the bucket.
func (b Bucket) NewGetPutter(src GetPutter) GetPutter {
	return struct {
		bucketGetter
		bucketPutter
	}{bucketGetter{b, src}, bucketPutter{b, src}}
}

type bucketBulk struct {
	bucketPutter
	bulk Bulk
}

func (bb bucketBulk) Write() error { return bb.bulk.Write() }

type bucketIterator struct {
	Iterator
	prefix int
}

func (it bucketIterator) Key() []byte { return it.Iterator.Key()[it.prefix:] }

type bucketStore struct {
	bucketGetter
	bucketPutter
	src Store
}

func (s bucketStore) Bulk() Bulk {
	bulk := s.src.Bulk()
	return bucketBulk{bucketPutter{s.bucketGetter.b, bulk}, bulk}
}

func (s bucketStore) Iterate(r Range) Iterator {
	b := s.bucketGetter.b
	r.Start = b.key(r.Start)
	if len(r.Limit) == 0 {
		r.Limit = util.BytesPrefix([]byte(b)).Limit
	} else {
		r.Limit = b.key(r.Limit)
	}
	return bucketIterator{s.src.Iterate(r), len(b)}
}

// NewStore returns a full store view of the bucket.
func (b Bucket) NewStore(src Store) Store {
	return bucketStore{bucketGetter{b, src}, bucketPutter{b, src}, src}
}
