// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package types

import (
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountSet(t *testing.T) {
	var s AccountSet
	assert.True(t, s.Insert("carol"))
	assert.True(t, s.Insert("alice"))
	assert.True(t, s.Insert("bob"))
	assert.False(t, s.Insert("bob"))
	assert.Equal(t, AccountSet{"alice", "bob", "carol"}, s)

	assert.True(t, s.Contains("alice"))
	assert.True(t, s.Remove("alice"))
	assert.False(t, s.Remove("alice"))
	assert.False(t, s.Contains("alice"))
	assert.Equal(t, 2, s.Len())

	data, err := rlp.EncodeToBytes(s)
	require.NoError(t, err)
	var decoded AccountSet
	require.NoError(t, rlp.DecodeBytes(data, &decoded))
	assert.Equal(t, s, decoded)
}
