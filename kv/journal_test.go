// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memBulk struct {
	m       mem
	pending mem
	deletes map[string]bool
}

func newMemBulk(m mem) *memBulk {
	return &memBulk{m: m, pending: mem{}, deletes: map[string]bool{}}
}

func (b *memBulk) Put(k, v []byte) error {
	b.pending[string(k)] = string(v)
	delete(b.deletes, string(k))
	return nil
}

func (b *memBulk) Delete(k []byte) error {
	delete(b.pending, string(k))
	b.deletes[string(k)] = true
	return nil
}

func (b *memBulk) Write() error {
	for k, v := range b.pending {
		b.m[k] = v
	}
	for k := range b.deletes {
		delete(b.m, k)
	}
	return nil
}

func TestJournal_ReadYourWrites(t *testing.T) {
	src := mem{"a": "1", "b": "2"}
	j := NewJournal(src)

	require.NoError(t, j.Put([]byte("a"), []byte("10")))
	require.NoError(t, j.Delete([]byte("b")))
	require.NoError(t, j.Put([]byte("c"), []byte("3")))

	v, err := j.Get([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, "10", string(v))

	_, err = j.Get([]byte("b"))
	assert.True(t, j.IsNotFound(err))
	has, err := j.Has([]byte("b"))
	require.NoError(t, err)
	assert.False(t, has)

	// source untouched until commit
	assert.Equal(t, "1", src["a"])
	assert.Len(t, j.entries, 3)

	require.NoError(t, j.Commit(newMemBulk(src)))
	assert.Equal(t, mem{"a": "10", "c": "3"}, src)
	assert.Empty(t, j.entries)
	assert.Empty(t, j.index)
}

func TestJournal_Overwrite(t *testing.T) {
	src := mem{"a": "1"}
	j := NewJournal(src)

	require.NoError(t, j.Put([]byte("a"), []byte("2")))
	require.NoError(t, j.Delete([]byte("a")))
	require.NoError(t, j.Put([]byte("a"), []byte("3")))
	require.NoError(t, j.Put([]byte("gone"), []byte("x")))
	require.NoError(t, j.Delete([]byte("gone")))

	v, err := j.Get([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, "3", string(v))

	// only the latest write of each key reaches the source
	bulk := newMemBulk(src)
	require.NoError(t, j.Commit(bulk))
	assert.Equal(t, mem{"a": "3"}, src)
	assert.True(t, bulk.deletes["gone"])
}
