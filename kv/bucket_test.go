// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errMemNotFound = errors.New("mem: not found")

type mem map[string]string

func (m mem) Get(k []byte) ([]byte, error) {
	if v, ok := m[string(k)]; ok {
		return []byte(v), nil
	}
	return nil, errMemNotFound
}

func (m mem) Has(k []byte) (bool, error) {
	_, ok := m[string(k)]
	return ok, nil
}

func (m mem) Put(k, v []byte) error {
	m[string(k)] = string(v)
	return nil
}

func (m mem) Delete(k []byte) error {
	delete(m, string(k))
	return nil
}

func (m mem) IsNotFound(err error) bool { return errors.Is(err, errMemNotFound) }

func TestBucket_Getter(t *testing.T) {
	m := mem{"k1": "v1", "k2": "v2"}

	tests := []struct {
		b       Bucket
		key     string
		want    string
		wantHas bool
	}{
		{"", "k1", "v1", true},
		{"", "k2", "v2", true},
		{"k", "k1", "", false},
		{"k", "1", "v1", true},
		{"k", "2", "v2", true},
		{"k1", "", "v1", true},
	}
	for _, tt := range tests {
		t.Run(string(tt.b)+"/"+tt.key, func(t *testing.T) {
			g := tt.b.NewGetter(m)
			got, err := g.Get([]byte(tt.key))
			if tt.wantHas {
				require.NoError(t, err)
			} else {
				assert.True(t, g.IsNotFound(err))
			}
			assert.Equal(t, tt.want, string(got))

			has, err := g.Has([]byte(tt.key))
			require.NoError(t, err)
			assert.Equal(t, tt.wantHas, has)
		})
	}
}

func TestBucket_Putter(t *testing.T) {
	m := mem{}
	p := Bucket("a/").NewPutter(m)
	require.NoError(t, p.Put([]byte("alice"), []byte("1")))
	assert.Equal(t, mem{"a/alice": "1"}, m)

	require.NoError(t, p.Delete([]byte("alice")))
	assert.Empty(t, m)
}

func TestBucket_GetPutterOverJournal(t *testing.T) {
	m := mem{"s/pool/state": "old"}
	j := NewJournal(m)
	gp := Bucket("s/").NewGetPutter(j)

	require.NoError(t, gp.Put([]byte("pool/state"), []byte("new")))
	val, err := gp.Get([]byte("pool/state"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(val))
	assert.Equal(t, "old", m["s/pool/state"])

	require.NoError(t, gp.Delete([]byte("pool/state")))
	_, err = gp.Get([]byte("pool/state"))
	assert.True(t, gp.IsNotFound(err))

	require.NoError(t, j.Commit(newMemBulk(m)))
	assert.Empty(t, m)
}
