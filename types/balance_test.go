// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package types

import (
	"encoding/json"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var maxU128 = MustParseBalance("340282366920938463463374607431768211455")

func TestBalance_Arithmetic(t *testing.T) {
	a := NewBalance(100)
	b := NewBalance(30)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, "130", sum.String())

	diff, err := a.Sub(b)
	require.NoError(t, err)
	assert.Equal(t, "70", diff.String())

	_, err = b.Sub(a)
	assert.ErrorIs(t, err, ErrUnderflow)

	_, err = maxU128.Add(NewBalance(1))
	assert.ErrorIs(t, err, ErrOverflow)

	assert.True(t, b.Lt(a))
	assert.True(t, a.Gt(b))
	assert.Equal(t, 0, a.Cmp(NewBalance(100)))
	assert.True(t, ZeroBalance.IsZero())
}

func TestBalance_MulDiv(t *testing.T) {
	tests := []struct {
		b, mul, div string
		floor, ceil string
	}{
		{"30", "1000100", "1000370", "29", "30"},
		{"50", "1000100", "1000100", "50", "50"},
		{"1", "1", "3", "0", "1"},
		{"10", "10", "4", "25", "25"},
		{"11", "10", "4", "27", "28"},
	}
	for _, tt := range tests {
		b, mul, div := MustParseBalance(tt.b), MustParseBalance(tt.mul), MustParseBalance(tt.div)
		floor, err := b.MulDiv(mul, div)
		require.NoError(t, err)
		assert.Equal(t, tt.floor, floor.String())
		ceil, err := b.MulDivCeil(mul, div)
		require.NoError(t, err)
		assert.Equal(t, tt.ceil, ceil.String())
	}

	// 256-bit intermediate products do not overflow
	res, err := maxU128.MulDiv(maxU128, maxU128)
	require.NoError(t, err)
	assert.Equal(t, maxU128, res)
	res, err = maxU128.MulDivCeil(maxU128, maxU128)
	require.NoError(t, err)
	assert.Equal(t, maxU128, res)

	_, err = maxU128.MulDiv(maxU128, NewBalance(1))
	assert.ErrorIs(t, err, ErrOverflow)

	_, err = NewBalance(1).MulDiv(NewBalance(1), ZeroBalance)
	assert.ErrorIs(t, err, ErrDivideByZero)
}

func TestBalance_Encoding(t *testing.T) {
	b := MustParseBalance("1000000000000000000000000")

	data, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Equal(t, `"1000000000000000000000000"`, string(data))

	var decoded Balance
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, b, decoded)

	assert.Error(t, json.Unmarshal([]byte(`"-1"`), &decoded))
	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &decoded))

	enc, err := rlp.EncodeToBytes(b)
	require.NoError(t, err)
	var fromRLP Balance
	require.NoError(t, rlp.DecodeBytes(enc, &fromRLP))
	assert.Equal(t, b, fromRLP)

	huge := new(uint256.Int).Lsh(uint256.NewInt(1), 200)
	enc, err = rlp.EncodeToBytes(huge)
	require.NoError(t, err)
	assert.ErrorIs(t, rlp.DecodeBytes(enc, &fromRLP), ErrOverflow)
}
