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

var (
	// NumEpochsToUnlock is the number of epochs unstaked balance stays locked.
	NumEpochsToUnlock = types.EpochHeight(4)
	// StakeSharePriceGuaranteeFund is kept out of the initial stake to absorb rounding.
	StakeSharePriceGuaranteeFund = types.MustParseBalance("1000000000000")

	OnStakeActionGas = 20 * types.Tgas
	VoteGas          = 100 * types.Tgas
)

// RewardFeeFraction is the share of rewards kept by the owner.
type RewardFeeFraction struct {
	Numerator   uint32 `json:"numerator"`
	Denominator uint32 `json:"denominator"`
}

// Validate requires a non-zero denominator and a fraction not above one.
func (f RewardFeeFraction) Validate() error {
	if f.Denominator == 0 {
		return reverts.New(reverts.InvalidArgument, "denominator must be a positive number")
	}
	if f.Numerator > f.Denominator {
		return reverts.New(reverts.InvalidArgument, "the reward fee must be less or equal to 1")
	}
	return nil
}

// Multiply returns floor(value * numerator / denominator).
func (f RewardFeeFraction) Multiply(value types.Balance) (types.Balance, error) {
	if f.Denominator == 0 {
		return types.ZeroBalance, reverts.New(reverts.InvariantViolation, "denominator must be a positive number")
	}
	v := value.Uint256()
	v.Mul(v, uint256.NewInt(uint64(f.Numerator)))
	v.Div(v, uint256.NewInt(uint64(f.Denominator)))
	res, err := types.BalanceFromUint256(v)
	return res, reverts.Arithmetic(err)
}

// State is the whole persisted state of a staking pool.
type State struct {
	OwnerID           types.AccountID
	StakePublicKey    types.PublicKey
	LastEpochHeight   types.EpochHeight
	LastTotalBalance  types.Balance
	Ledger            Ledger
	RewardFeeFraction RewardFeeFraction
	Accounts          *AccountBook
	Paused            bool
}
