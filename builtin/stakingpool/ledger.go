// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakingpool

import (
	"github.com/holiman/uint256"

	"github.com/shardstake/contracts/builtin/reverts"
	"github.com/shardstake/contracts/types"
)

// Ledger converts between staked amounts and stake shares.
// The share price TotalStakedBalance / TotalStakeShares never decreases: every
// conversion rounds in the direction that leaves the rounding loss with the pool.
type Ledger struct {
	TotalStakedBalance types.Balance
	TotalStakeShares   types.Balance
}

// SharesForAmountFloor returns the shares credited for staking amount.
func (l *Ledger) SharesForAmountFloor(amount types.Balance) (types.Balance, error) {
	if l.TotalStakedBalance.IsZero() {
		return types.ZeroBalance, reverts.New(reverts.InvariantViolation, "the total staked balance can't be 0")
	}
	shares, err := amount.MulDiv(l.TotalStakeShares, l.TotalStakedBalance)
	return shares, reverts.Arithmetic(err)
}

// SharesForAmountCeil returns the shares burned to deliver amount.
func (l *Ledger) SharesForAmountCeil(amount types.Balance) (types.Balance, error) {
	if l.TotalStakedBalance.IsZero() {
		return types.ZeroBalance, reverts.New(reverts.InvariantViolation, "the total staked balance can't be 0")
	}
	shares, err := amount.MulDivCeil(l.TotalStakeShares, l.TotalStakedBalance)
	return shares, reverts.Arithmetic(err)
}

// AmountForSharesFloor returns the value of shares, rounded down.
func (l *Ledger) AmountForSharesFloor(shares types.Balance) (types.Balance, error) {
	if l.TotalStakeShares.IsZero() {
		return types.ZeroBalance, reverts.New(reverts.InvariantViolation, "the total number of stake shares can't be 0")
	}
	amount, err := shares.MulDiv(l.TotalStakedBalance, l.TotalStakeShares)
	return amount, reverts.Arithmetic(err)
}

// AmountForSharesCeil returns the value of shares, rounded up.
func (l *Ledger) AmountForSharesCeil(shares types.Balance) (types.Balance, error) {
	if l.TotalStakeShares.IsZero() {
		return types.ZeroBalance, reverts.New(reverts.InvariantViolation, "the total number of stake shares can't be 0")
	}
	amount, err := shares.MulDivCeil(l.TotalStakedBalance, l.TotalStakeShares)
	return amount, reverts.Arithmetic(err)
}

// Grow adds amount and shares to the pool totals.
func (l *Ledger) Grow(amount, shares types.Balance) error {
	staked, err := l.TotalStakedBalance.Add(amount)
	if err != nil {
		return reverts.Arithmetic(err)
	}
	total, err := l.TotalStakeShares.Add(shares)
	if err != nil {
		return reverts.Arithmetic(err)
	}
	l.TotalStakedBalance, l.TotalStakeShares = staked, total
	return nil
}

// Shrink removes amount and shares from the pool totals.
func (l *Ledger) Shrink(amount, shares types.Balance) error {
	staked, err := l.TotalStakedBalance.Sub(amount)
	if err != nil {
		return reverts.Arithmetic(err)
	}
	total, err := l.TotalStakeShares.Sub(shares)
	if err != nil {
		return reverts.Arithmetic(err)
	}
	l.TotalStakedBalance, l.TotalStakeShares = staked, total
	return nil
}

// ComparePrice compares the share price of l against o without rounding.
// An empty ledger compares as price 1.
func (l *Ledger) ComparePrice(o *Ledger) int {
	aStaked, aShares := l.TotalStakedBalance.Uint256(), l.TotalStakeShares.Uint256()
	bStaked, bShares := o.TotalStakedBalance.Uint256(), o.TotalStakeShares.Uint256()
	if aShares.IsZero() {
		aStaked, aShares = uint256.NewInt(1), uint256.NewInt(1)
	}
	if bShares.IsZero() {
		bStaked, bShares = uint256.NewInt(1), uint256.NewInt(1)
	}
	// both products fit: the operands are at most 128 bits wide
	left := new(uint256.Int).Mul(aStaked, bShares)
	right := new(uint256.Int).Mul(bStaked, aShares)
	return left.Cmp(right)
}
