// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package slot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shardstake/contracts/lvldb"
	"github.com/shardstake/contracts/types"
)

type record struct {
	Owner  types.AccountID
	Amount types.Balance
	Flags  []uint32
}

func TestRaw(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	ctx := NewContext("pool.near", db)
	raw := NewRaw[record](ctx, "state")

	_, exists, err := raw.Get()
	require.NoError(t, err)
	assert.False(t, exists)

	want := record{Owner: "alice.near", Amount: types.NewBalance(42), Flags: []uint32{1, 2}}
	require.NoError(t, raw.Set(want))

	got, exists, err := raw.Get()
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, want.Owner, got.Owner)
	assert.Equal(t, 0, want.Amount.Cmp(got.Amount))
	assert.Equal(t, want.Flags, got.Flags)

	require.NoError(t, raw.Delete())
	_, exists, err = raw.Get()
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestKeyIsolation(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	a := NewRaw[uint64](NewContext("a.near", db), "state")
	b := NewRaw[uint64](NewContext("b.near", db), "state")
	require.NoError(t, a.Set(7))

	_, exists, err := b.Get()
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NotEqual(t, NewContext("a.near", db).Key("state"), NewContext("a.near", db).Key("other"))
}
