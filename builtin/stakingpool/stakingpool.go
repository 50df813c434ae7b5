// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package stakingpool pools delegator deposits into the stake of one validator.
package stakingpool

import (
	"github.com/pkg/errors"

	"github.com/shardstake/contracts/builtin/reverts"
	"github.com/shardstake/contracts/builtin/slot"
	"github.com/shardstake/contracts/log"
	"github.com/shardstake/contracts/promise"
	"github.com/shardstake/contracts/types"
	"github.com/shardstake/contracts/xenv"
)

// Code identifies the staking pool contract in DeployContract actions.
const Code = "staking_pool"

var logger = log.WithContext("pkg", "stakingpool")

// SetLogger sets the logger for the stakingpool package.
func SetLogger(l log.Logger) {
	logger = l
}

// Pool runs staking pool operations for one call.
// State is loaded once and written back by save.
type Pool struct {
	env   *xenv.Environment
	slot  *slot.Raw[*State]
	state *State
}

func newPool(env *xenv.Environment) *Pool {
	return &Pool{env: env, slot: slot.NewRaw[*State](env.Storage(), "state")}
}

func load(env *xenv.Environment) (*Pool, error) {
	p := newPool(env)
	state, exists, err := p.slot.Get()
	if err != nil {
		return nil, errors.Wrap(err, "load pool state")
	}
	if !exists {
		return nil, reverts.New(reverts.NotInitialized, "the contract is not initialized")
	}
	if state.Accounts == nil {
		state.Accounts = NewAccountBook()
	}
	p.state = state
	return p, nil
}

func (p *Pool) save() error {
	return errors.Wrap(p.slot.Set(p.state), "save pool state")
}

// State exposes the loaded state.
func (p *Pool) State() *State {
	return p.state
}

// Init creates the pool. The account balance minus the guarantee fund becomes the initial stake.
func Init(env *xenv.Environment, ownerID types.AccountID, stakeKey types.PublicKey, fee RewardFeeFraction) error {
	p := newPool(env)
	if _, exists, err := p.slot.Get(); err != nil {
		return errors.Wrap(err, "load pool state")
	} else if exists {
		return reverts.New(reverts.AlreadyInitialized, "already initialized")
	}
	if err := fee.Validate(); err != nil {
		return err
	}
	if !ownerID.IsValid() {
		return reverts.New(reverts.InvalidArgument, "the owner account ID is invalid")
	}
	if stakeKey.IsEmpty() {
		return reverts.New(reverts.InvalidArgument, "the staking key is empty")
	}
	if !env.AccountLockedBalance().IsZero() {
		return reverts.New(reverts.InvalidArgument, "the staking pool shouldn't be staking at the initialization")
	}
	balance := env.AccountBalance()
	if !balance.Gt(StakeSharePriceGuaranteeFund) {
		return reverts.Newf(reverts.InsufficientBalance,
			"the account balance %s must exceed the guarantee fund %s", balance, StakeSharePriceGuaranteeFund)
	}
	staked, err := balance.Sub(StakeSharePriceGuaranteeFund)
	if err != nil {
		return reverts.Arithmetic(err)
	}
	p.state = &State{
		OwnerID:           ownerID,
		StakePublicKey:    stakeKey,
		LastEpochHeight:   env.EpochHeight(),
		LastTotalBalance:  balance,
		Ledger:            Ledger{TotalStakedBalance: staked, TotalStakeShares: staked},
		RewardFeeFraction: fee,
		Accounts:          NewAccountBook(),
	}
	logger.Debug("staking pool initialized", "pool", env.CurrentAccount(), "owner", ownerID, "staked", staked)
	if err := p.restake(); err != nil {
		return err
	}
	return p.save()
}

// ping distributes the rewards received since the last epoch seen.
// It returns true when the epoch changed.
func (p *Pool) ping() (bool, error) {
	epoch := p.env.EpochHeight()
	if p.state.LastEpochHeight == epoch {
		return false, nil
	}
	p.state.LastEpochHeight = epoch

	total, err := p.env.AccountLockedBalance().Add(p.env.AccountBalance())
	if err != nil {
		return false, reverts.Arithmetic(err)
	}
	if total, err = total.Sub(p.env.AttachedDeposit()); err != nil {
		return false, reverts.Arithmetic(err)
	}
	if total.Lt(p.state.LastTotalBalance) {
		return false, reverts.Newf(reverts.InvariantViolation,
			"the new total balance %s should not be less than the old total balance %s", total, p.state.LastTotalBalance)
	}
	reward, err := total.Sub(p.state.LastTotalBalance)
	if err != nil {
		return false, reverts.Arithmetic(err)
	}
	if !reward.IsZero() {
		if err := p.distribute(reward); err != nil {
			return false, err
		}
	}
	p.state.LastTotalBalance = total
	return true, nil
}

func (p *Pool) distribute(reward types.Balance) error {
	ledger := &p.state.Ledger
	ownersFee, err := p.state.RewardFeeFraction.Multiply(reward)
	if err != nil {
		return err
	}
	remaining, err := reward.Sub(ownersFee)
	if err != nil {
		return reverts.Arithmetic(err)
	}
	if err := ledger.Grow(remaining, types.ZeroBalance); err != nil {
		return err
	}
	// the fee buys shares at the price that already includes the delegators' reward
	shares, err := ledger.SharesForAmountFloor(ownersFee)
	if err != nil {
		return err
	}
	if !shares.IsZero() {
		owner := p.state.Accounts.GetOrDefault(p.state.OwnerID)
		if owner.StakeShares, err = owner.StakeShares.Add(shares); err != nil {
			return reverts.Arithmetic(err)
		}
		p.state.Accounts.Save(p.state.OwnerID, owner)
	}
	if err := ledger.Grow(ownersFee, shares); err != nil {
		return err
	}

	p.env.Log("Epoch %d: Contract received total rewards of %s tokens. New total staked balance is %s. Total number of shares %s",
		p.env.EpochHeight(), reward, ledger.TotalStakedBalance, ledger.TotalStakeShares)
	if !shares.IsZero() {
		p.env.Log("Total rewards fee is %s stake shares.", shares)
	}
	logger.Debug("rewards distributed", "pool", p.env.CurrentAccount(), "reward", reward, "fee", ownersFee, "feeShares", shares)
	return nil
}

// restake schedules a stake of the whole staked balance, followed by on_stake_action.
func (p *Pool) restake() error {
	if p.state.Paused {
		return nil
	}
	self := p.env.CurrentAccount()
	return p.env.Schedule(promise.NewBatch(self).
		Stake(p.state.Ledger.TotalStakedBalance, p.state.StakePublicKey).
		Then("on_stake_action", nil, types.ZeroBalance, OnStakeActionGas))
}

func (p *Pool) deposit() (types.Balance, error) {
	id := p.env.Predecessor()
	amount := p.env.AttachedDeposit()
	account := p.state.Accounts.GetOrDefault(id)

	var err error
	if account.Unstaked, err = account.Unstaked.Add(amount); err != nil {
		return types.ZeroBalance, reverts.Arithmetic(err)
	}
	p.state.Accounts.Save(id, account)
	if p.state.LastTotalBalance, err = p.state.LastTotalBalance.Add(amount); err != nil {
		return types.ZeroBalance, reverts.Arithmetic(err)
	}
	p.env.Log("@%s deposited %s. New unstaked balance is %s", id, amount, account.Unstaked)
	return amount, nil
}

func (p *Pool) withdraw(amount types.Balance) error {
	if amount.IsZero() {
		return reverts.New(reverts.InvalidArgument, "withdrawal amount should be positive")
	}
	id := p.env.Predecessor()
	account := p.state.Accounts.GetOrDefault(id)
	if account.Unstaked.Lt(amount) {
		return reverts.New(reverts.InsufficientBalance, "not enough unstaked balance to withdraw")
	}
	if account.UnstakedAvailableEpochHeight > p.env.EpochHeight() {
		return reverts.Newf(reverts.InsufficientBalance,
			"the unstaked balance is not yet available due to unstaking delay, available at epoch %d", account.UnstakedAvailableEpochHeight)
	}

	var err error
	if account.Unstaked, err = account.Unstaked.Sub(amount); err != nil {
		return reverts.Arithmetic(err)
	}
	p.state.Accounts.Save(id, account)
	p.env.Log("@%s withdrawing %s. New unstaked balance is %s", id, amount, account.Unstaked)

	if err := p.env.Schedule(promise.NewBatch(id).Transfer(amount)); err != nil {
		return err
	}
	if p.state.LastTotalBalance, err = p.state.LastTotalBalance.Sub(amount); err != nil {
		return reverts.Arithmetic(err)
	}
	return nil
}

// stake converts unstaked balance of the caller into shares.
// The caller pays the floor value of the shares, the pool grows by the ceil value.
func (p *Pool) stake(amount types.Balance) error {
	if amount.IsZero() {
		return reverts.New(reverts.InvalidArgument, "staking amount should be positive")
	}
	id := p.env.Predecessor()
	account := p.state.Accounts.GetOrDefault(id)
	ledger := &p.state.Ledger

	shares, err := ledger.SharesForAmountFloor(amount)
	if err != nil {
		return err
	}
	if shares.IsZero() {
		return reverts.New(reverts.InvariantViolation, "the calculated number of stake shares received for staking should be positive")
	}
	charge, err := ledger.AmountForSharesFloor(shares)
	if err != nil {
		return err
	}
	if charge.IsZero() {
		return reverts.New(reverts.InvariantViolation, "calculated staked amount must be positive, because the share price should be at least 1")
	}
	if account.Unstaked.Lt(charge) {
		return reverts.New(reverts.InsufficientBalance, "not enough unstaked balance to stake")
	}
	grow, err := ledger.AmountForSharesCeil(shares)
	if err != nil {
		return err
	}

	if account.Unstaked, err = account.Unstaked.Sub(charge); err != nil {
		return reverts.Arithmetic(err)
	}
	if account.StakeShares, err = account.StakeShares.Add(shares); err != nil {
		return reverts.Arithmetic(err)
	}
	if err := ledger.Grow(grow, shares); err != nil {
		return err
	}
	p.state.Accounts.Save(id, account)

	p.env.Log("@%s staking %s. Received %s new staking shares. Total %s unstaked balance and %s staking shares",
		id, charge, shares, account.Unstaked, account.StakeShares)
	p.env.Log("Contract total staked balance is %s. Total number of shares %s",
		ledger.TotalStakedBalance, ledger.TotalStakeShares)
	return nil
}

// unstake burns the shares covering amount. The caller receives the ceil value,
// the pool shrinks by the floor value.
func (p *Pool) unstake(amount types.Balance) error {
	if amount.IsZero() {
		return reverts.New(reverts.InvalidArgument, "unstaking amount should be positive")
	}
	id := p.env.Predecessor()
	account := p.state.Accounts.GetOrDefault(id)
	ledger := &p.state.Ledger
	if ledger.TotalStakedBalance.IsZero() {
		return reverts.New(reverts.InvariantViolation, "the contract doesn't have staked balance")
	}

	shares, err := ledger.SharesForAmountCeil(amount)
	if err != nil {
		return err
	}
	if shares.IsZero() {
		return reverts.New(reverts.InvariantViolation, "the calculated number of stake shares for unstaking should be positive")
	}
	if account.StakeShares.Lt(shares) {
		return reverts.New(reverts.InsufficientBalance, "not enough staked balance to unstake")
	}
	payout, err := ledger.AmountForSharesCeil(shares)
	if err != nil {
		return err
	}
	if payout.IsZero() {
		return reverts.New(reverts.InvariantViolation, "calculated staked amount must be positive, because the share price should be at least 1")
	}
	shrink, err := ledger.AmountForSharesFloor(shares)
	if err != nil {
		return err
	}

	if account.StakeShares, err = account.StakeShares.Sub(shares); err != nil {
		return reverts.Arithmetic(err)
	}
	if account.Unstaked, err = account.Unstaked.Add(payout); err != nil {
		return reverts.Arithmetic(err)
	}
	account.UnstakedAvailableEpochHeight = p.env.EpochHeight() + NumEpochsToUnlock
	if err := ledger.Shrink(shrink, shares); err != nil {
		return err
	}
	p.state.Accounts.Save(id, account)

	p.env.Log("@%s unstaking %s. Spent %s staking shares. Total %s unstaked balance and %s staking shares",
		id, payout, shares, account.Unstaked, account.StakeShares)
	p.env.Log("Contract total staked balance is %s. Total number of shares %s",
		ledger.TotalStakedBalance, ledger.TotalStakeShares)
	return nil
}
