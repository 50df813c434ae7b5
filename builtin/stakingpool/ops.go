// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakingpool

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/shardstake/contracts/builtin/reverts"
	"github.com/shardstake/contracts/promise"
	"github.com/shardstake/contracts/types"
)

// Ping distributes pending rewards and restakes if the epoch changed.
func (p *Pool) Ping() error {
	changed, err := p.ping()
	if err != nil || !changed {
		return err
	}
	return p.restake()
}

// Deposit credits the attached deposit to the caller's unstaked balance.
func (p *Pool) Deposit() error {
	changed, err := p.ping()
	if err != nil {
		return err
	}
	if _, err := p.deposit(); err != nil {
		return err
	}
	if changed {
		return p.restake()
	}
	return nil
}

// DepositAndStake deposits the attached deposit and stakes all of it.
func (p *Pool) DepositAndStake() error {
	if _, err := p.ping(); err != nil {
		return err
	}
	amount, err := p.deposit()
	if err != nil {
		return err
	}
	if err := p.stake(amount); err != nil {
		return err
	}
	return p.restake()
}

func (p *Pool) WithdrawAll() error {
	changed, err := p.ping()
	if err != nil {
		return err
	}
	account := p.state.Accounts.GetOrDefault(p.env.Predecessor())
	if err := p.withdraw(account.Unstaked); err != nil {
		return err
	}
	if changed {
		return p.restake()
	}
	return nil
}

func (p *Pool) Withdraw(amount types.Balance) error {
	changed, err := p.ping()
	if err != nil {
		return err
	}
	if err := p.withdraw(amount); err != nil {
		return err
	}
	if changed {
		return p.restake()
	}
	return nil
}

func (p *Pool) StakeAll() error {
	if _, err := p.ping(); err != nil {
		return err
	}
	account := p.state.Accounts.GetOrDefault(p.env.Predecessor())
	if err := p.stake(account.Unstaked); err != nil {
		return err
	}
	return p.restake()
}

func (p *Pool) Stake(amount types.Balance) error {
	if _, err := p.ping(); err != nil {
		return err
	}
	if err := p.stake(amount); err != nil {
		return err
	}
	return p.restake()
}

// UnstakeAll unstakes the floor value of all the caller's shares.
func (p *Pool) UnstakeAll() error {
	if _, err := p.ping(); err != nil {
		return err
	}
	account := p.state.Accounts.GetOrDefault(p.env.Predecessor())
	amount, err := p.state.Ledger.AmountForSharesFloor(account.StakeShares)
	if err != nil {
		return err
	}
	if err := p.unstake(amount); err != nil {
		return err
	}
	return p.restake()
}

func (p *Pool) Unstake(amount types.Balance) error {
	if _, err := p.ping(); err != nil {
		return err
	}
	if err := p.unstake(amount); err != nil {
		return err
	}
	return p.restake()
}

// OnStakeAction checks the result of the stake action. A failed stake of a
// pool that still has a locked balance is followed by a stake of zero.
func (p *Pool) OnStakeAction() error {
	if p.env.Predecessor() != p.env.CurrentAccount() {
		return reverts.New(reverts.Unauthorized, "can be called only as a callback")
	}
	if p.env.PromiseResultsCount() != 1 {
		return reverts.New(reverts.InvalidArgument, "contract expected a result on the callback")
	}
	result, err := p.env.PromiseResult(0)
	if err != nil {
		return err
	}
	if result.Status == promise.Successful || p.env.AccountLockedBalance().IsZero() {
		return nil
	}
	logger.Warn("stake action failed, unstaking", "pool", p.env.CurrentAccount())
	return p.env.Schedule(promise.NewBatch(p.env.CurrentAccount()).
		Stake(types.ZeroBalance, p.state.StakePublicKey))
}

func (p *Pool) assertOwner() error {
	if p.env.Predecessor() != p.state.OwnerID {
		return reverts.New(reverts.Unauthorized, "can only be called by the owner")
	}
	return nil
}

// UpdateStakingKey replaces the validator key and restakes with it.
func (p *Pool) UpdateStakingKey(key types.PublicKey) error {
	if err := p.assertOwner(); err != nil {
		return err
	}
	if key.IsEmpty() {
		return reverts.New(reverts.InvalidArgument, "the staking key is empty")
	}
	if _, err := p.ping(); err != nil {
		return err
	}
	p.state.StakePublicKey = key
	return p.restake()
}

func (p *Pool) UpdateRewardFeeFraction(fee RewardFeeFraction) error {
	if err := p.assertOwner(); err != nil {
		return err
	}
	if err := fee.Validate(); err != nil {
		return err
	}
	changed, err := p.ping()
	if err != nil {
		return err
	}
	p.state.RewardFeeFraction = fee
	if changed {
		return p.restake()
	}
	return nil
}

// Vote forwards the owner's vote to a voting contract.
func (p *Pool) Vote(voting types.AccountID, isVote bool) error {
	if err := p.assertOwner(); err != nil {
		return err
	}
	if !voting.IsValid() {
		return reverts.New(reverts.InvalidArgument, "invalid voting account ID")
	}
	args, err := json.Marshal(struct {
		IsVote bool `json:"is_vote"`
	}{isVote})
	if err != nil {
		return errors.Wrap(err, "encode vote args")
	}
	return p.env.Schedule(promise.NewBatch(voting).FunctionCall("vote", args, types.ZeroBalance, VoteGas))
}

// PauseStaking stops restaking and unstakes everything from the validator.
func (p *Pool) PauseStaking() error {
	if err := p.assertOwner(); err != nil {
		return err
	}
	if p.state.Paused {
		return reverts.New(reverts.InvalidArgument, "the staking is already paused")
	}
	if _, err := p.ping(); err != nil {
		return err
	}
	p.state.Paused = true
	return p.env.Schedule(promise.NewBatch(p.env.CurrentAccount()).
		Stake(types.ZeroBalance, p.state.StakePublicKey))
}

func (p *Pool) ResumeStaking() error {
	if err := p.assertOwner(); err != nil {
		return err
	}
	if !p.state.Paused {
		return reverts.New(reverts.InvalidArgument, "the staking is not paused")
	}
	if _, err := p.ping(); err != nil {
		return err
	}
	p.state.Paused = false
	return p.restake()
}
