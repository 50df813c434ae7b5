// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakingpool

import (
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shardstake/contracts/builtin/reverts"
	"github.com/shardstake/contracts/types"
)

func bal(v uint64) types.Balance { return types.NewBalance(v) }

func TestLedger_Rounding(t *testing.T) {
	// price 3/2
	l := &Ledger{TotalStakedBalance: bal(3), TotalStakeShares: bal(2)}

	tests := []struct {
		name string
		fn   func(types.Balance) (types.Balance, error)
		in   uint64
		want uint64
	}{
		{"shares floor", l.SharesForAmountFloor, 5, 3},
		{"shares ceil", l.SharesForAmountCeil, 5, 4},
		{"amount floor", l.AmountForSharesFloor, 3, 4},
		{"amount ceil", l.AmountForSharesCeil, 3, 5},
		{"exact", l.SharesForAmountCeil, 6, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn(bal(tt.in))
			require.NoError(t, err)
			assert.Equal(t, bal(tt.want).String(), got.String())
		})
	}
}

func TestLedger_Empty(t *testing.T) {
	l := &Ledger{}
	_, err := l.SharesForAmountFloor(bal(1))
	assert.True(t, reverts.Is(err, reverts.InvariantViolation))
	_, err = l.SharesForAmountCeil(bal(1))
	assert.True(t, reverts.Is(err, reverts.InvariantViolation))
	_, err = l.AmountForSharesFloor(bal(1))
	assert.True(t, reverts.Is(err, reverts.InvariantViolation))
	_, err = l.AmountForSharesCeil(bal(1))
	assert.True(t, reverts.Is(err, reverts.InvariantViolation))
}

func TestLedger_GrowShrink(t *testing.T) {
	l := &Ledger{TotalStakedBalance: bal(10), TotalStakeShares: bal(10)}
	require.NoError(t, l.Grow(bal(5), bal(4)))
	assert.Equal(t, "15", l.TotalStakedBalance.String())
	assert.Equal(t, "14", l.TotalStakeShares.String())

	err := l.Shrink(bal(1), bal(20))
	assert.True(t, reverts.Is(err, reverts.ArithmeticUnderflow))
	assert.Equal(t, "15", l.TotalStakedBalance.String(), "failed shrink must not change totals")

	max := types.MustParseBalance("340282366920938463463374607431768211455")
	err = l.Grow(max, bal(0))
	assert.True(t, reverts.Is(err, reverts.ArithmeticOverflow))
}

func TestLedger_ComparePrice(t *testing.T) {
	a := &Ledger{TotalStakedBalance: bal(3), TotalStakeShares: bal(2)}
	b := &Ledger{TotalStakedBalance: bal(6), TotalStakeShares: bal(4)}
	c := &Ledger{TotalStakedBalance: bal(7), TotalStakeShares: bal(4)}
	assert.Equal(t, 0, a.ComparePrice(b))
	assert.Equal(t, -1, a.ComparePrice(c))
	assert.Equal(t, 1, c.ComparePrice(a))
	assert.Equal(t, 0, (&Ledger{}).ComparePrice(&Ledger{TotalStakedBalance: bal(5), TotalStakeShares: bal(5)}))
}

// The stake and unstake conversions never lower the share price.
func TestLedger_PriceMonotonic(t *testing.T) {
	f := fuzz.New().NilChance(0)
	for i := 0; i < 2000; i++ {
		var staked, shares, amount uint32
		f.Fuzz(&staked)
		f.Fuzz(&shares)
		f.Fuzz(&amount)
		if staked == 0 || shares == 0 || amount == 0 || uint64(staked) < uint64(shares) {
			continue
		}
		l := &Ledger{TotalStakedBalance: bal(uint64(staked)), TotalStakeShares: bal(uint64(shares))}
		before := *l

		// stake
		s, err := l.SharesForAmountFloor(bal(uint64(amount)))
		require.NoError(t, err)
		if !s.IsZero() {
			grow, err := l.AmountForSharesCeil(s)
			require.NoError(t, err)
			charge, err := l.AmountForSharesFloor(s)
			require.NoError(t, err)
			assert.False(t, charge.Gt(bal(uint64(amount))), "charge never exceeds the requested amount")
			require.NoError(t, l.Grow(grow, s))
			assert.GreaterOrEqual(t, l.ComparePrice(&before), 0)
		}

		// unstake part of it again
		mid := *l
		burn, err := l.SharesForAmountCeil(bal(uint64(amount / 2)))
		require.NoError(t, err)
		if burn.IsZero() || burn.Gt(l.TotalStakeShares) {
			continue
		}
		shrink, err := l.AmountForSharesFloor(burn)
		require.NoError(t, err)
		require.NoError(t, l.Shrink(shrink, burn))
		if !l.TotalStakeShares.IsZero() {
			assert.GreaterOrEqual(t, l.ComparePrice(&mid), 0)
		}
	}
}

func TestRewardFeeFraction(t *testing.T) {
	assert.NoError(t, RewardFeeFraction{1, 10}.Validate())
	assert.NoError(t, RewardFeeFraction{0, 1}.Validate())
	assert.NoError(t, RewardFeeFraction{10, 10}.Validate())
	assert.True(t, reverts.Is(RewardFeeFraction{1, 0}.Validate(), reverts.InvalidArgument))
	assert.True(t, reverts.Is(RewardFeeFraction{11, 10}.Validate(), reverts.InvalidArgument))

	fee, err := RewardFeeFraction{1, 10}.Multiply(bal(305))
	require.NoError(t, err)
	assert.Equal(t, "30", fee.String())

	huge := types.MustParseBalance("340282366920938463463374607431768211455")
	fee, err = RewardFeeFraction{1, 1}.Multiply(huge)
	require.NoError(t, err)
	assert.Equal(t, huge.String(), fee.String())
}

func TestAccountBook(t *testing.T) {
	book := NewAccountBook()
	assert.True(t, book.GetOrDefault("alice").IsEmpty())
	assert.Equal(t, 0, book.Len())

	book.Save("alice", Account{Unstaked: bal(1)})
	book.Save("bob", Account{StakeShares: bal(2)})
	book.Save("carol", Account{Unstaked: bal(3)})
	book.Save("nobody", Account{})
	assert.Equal(t, 3, book.Len())
	assert.False(t, book.Has("nobody"))

	book.Save("alice", Account{})
	assert.False(t, book.Has("alice"))
	assert.Equal(t, []types.AccountID{"carol", "bob"}, book.Slice(0, 10))
	assert.Equal(t, []types.AccountID{"bob"}, book.Slice(1, 1))
	assert.Nil(t, book.Slice(2, 1))

	data, err := rlp.EncodeToBytes(book)
	require.NoError(t, err)
	decoded := NewAccountBook()
	require.NoError(t, rlp.DecodeBytes(data, decoded))
	assert.Equal(t, book.Slice(0, 10), decoded.Slice(0, 10))
	assert.Equal(t, "2", decoded.GetOrDefault("bob").StakeShares.String())
}

func TestStateRLP(t *testing.T) {
	book := NewAccountBook()
	book.Save("alice.near", Account{Unstaked: bal(5), StakeShares: bal(7), UnstakedAvailableEpochHeight: 9})
	state := &State{
		OwnerID:           "owner.near",
		StakePublicKey:    "ed25519:6E8sCci9badyRkXb3JoRpBj5p8C6Tw41ELDZoiihKEtp",
		LastEpochHeight:   3,
		LastTotalBalance:  bal(100),
		Ledger:            Ledger{TotalStakedBalance: bal(90), TotalStakeShares: bal(80)},
		RewardFeeFraction: RewardFeeFraction{1, 10},
		Accounts:          book,
		Paused:            true,
	}
	data, err := rlp.EncodeToBytes(state)
	require.NoError(t, err)

	var decoded *State
	require.NoError(t, rlp.DecodeBytes(data, &decoded))
	assert.Equal(t, state.OwnerID, decoded.OwnerID)
	assert.Equal(t, state.StakePublicKey, decoded.StakePublicKey)
	assert.Equal(t, "80", decoded.Ledger.TotalStakeShares.String())
	assert.Equal(t, state.RewardFeeFraction, decoded.RewardFeeFraction)
	assert.True(t, decoded.Paused)
	assert.Equal(t, types.EpochHeight(9), decoded.Accounts.GetOrDefault("alice.near").UnstakedAvailableEpochHeight)
}
