// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakingpool

import (
	"strconv"

	"github.com/shardstake/contracts/builtin/reverts"
	"github.com/shardstake/contracts/types"
	"github.com/shardstake/contracts/xenv"
)

type amountArgs struct {
	Amount types.Balance `json:"amount"`
}

type accountArgs struct {
	AccountID types.AccountID `json:"account_id"`
}

// mutate loads the pool, runs op and persists the state once op succeeded.
func mutate(op func(p *Pool, env *xenv.Environment) error) func(env *xenv.Environment) (any, error) {
	return func(env *xenv.Environment) (any, error) {
		p, err := load(env)
		if err != nil {
			return nil, err
		}
		if err := op(p, env); err != nil {
			return nil, err
		}
		return nil, p.save()
	}
}

func view(op func(p *Pool, env *xenv.Environment) (any, error)) func(env *xenv.Environment) (any, error) {
	return func(env *xenv.Environment) (any, error) {
		p, err := load(env)
		if err != nil {
			return nil, err
		}
		return op(p, env)
	}
}

func accountView(op func(p *Pool, id types.AccountID) (any, error)) func(env *xenv.Environment) (any, error) {
	return view(func(p *Pool, env *xenv.Environment) (any, error) {
		var args accountArgs
		env.ParseArgs(&args)
		return op(p, args.AccountID)
	})
}

// uint64String decodes JSON numbers given either bare or quoted.
type uint64String uint64

func (u *uint64String) UnmarshalJSON(data []byte) error {
	s := string(data)
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return reverts.Newf(reverts.InvalidArgument, "invalid integer %s", data)
	}
	*u = uint64String(v)
	return nil
}

// Contract is the staking pool method table.
var Contract = xenv.NewContract(Code, []*xenv.Method{
	{Name: "new", Run: func(env *xenv.Environment) (any, error) {
		var args struct {
			OwnerID           types.AccountID   `json:"owner_id"`
			StakePublicKey    types.PublicKey   `json:"stake_public_key"`
			RewardFeeFraction RewardFeeFraction `json:"reward_fee_fraction"`
		}
		env.ParseArgs(&args)
		return nil, Init(env, args.OwnerID, args.StakePublicKey, args.RewardFeeFraction)
	}},
	{Name: "ping", Run: mutate(func(p *Pool, _ *xenv.Environment) error {
		return p.Ping()
	})},
	{Name: "deposit", Payable: true, Run: mutate(func(p *Pool, _ *xenv.Environment) error {
		return p.Deposit()
	})},
	{Name: "deposit_and_stake", Payable: true, Run: mutate(func(p *Pool, _ *xenv.Environment) error {
		return p.DepositAndStake()
	})},
	{Name: "withdraw_all", Run: mutate(func(p *Pool, _ *xenv.Environment) error {
		return p.WithdrawAll()
	})},
	{Name: "withdraw", Run: mutate(func(p *Pool, env *xenv.Environment) error {
		var args amountArgs
		env.ParseArgs(&args)
		return p.Withdraw(args.Amount)
	})},
	{Name: "stake_all", Run: mutate(func(p *Pool, _ *xenv.Environment) error {
		return p.StakeAll()
	})},
	{Name: "stake", Run: mutate(func(p *Pool, env *xenv.Environment) error {
		var args amountArgs
		env.ParseArgs(&args)
		return p.Stake(args.Amount)
	})},
	{Name: "unstake_all", Run: mutate(func(p *Pool, _ *xenv.Environment) error {
		return p.UnstakeAll()
	})},
	{Name: "unstake", Run: mutate(func(p *Pool, env *xenv.Environment) error {
		var args amountArgs
		env.ParseArgs(&args)
		return p.Unstake(args.Amount)
	})},
	{Name: "on_stake_action", Run: mutate(func(p *Pool, _ *xenv.Environment) error {
		return p.OnStakeAction()
	})},
	{Name: "update_staking_key", Run: mutate(func(p *Pool, env *xenv.Environment) error {
		var args struct {
			StakePublicKey types.PublicKey `json:"stake_public_key"`
		}
		env.ParseArgs(&args)
		return p.UpdateStakingKey(args.StakePublicKey)
	})},
	{Name: "update_reward_fee_fraction", Run: mutate(func(p *Pool, env *xenv.Environment) error {
		var args struct {
			RewardFeeFraction RewardFeeFraction `json:"reward_fee_fraction"`
		}
		env.ParseArgs(&args)
		return p.UpdateRewardFeeFraction(args.RewardFeeFraction)
	})},
	{Name: "vote", Run: mutate(func(p *Pool, env *xenv.Environment) error {
		var args struct {
			VotingAccountID types.AccountID `json:"voting_account_id"`
			IsVote          bool            `json:"is_vote"`
		}
		env.ParseArgs(&args)
		return p.Vote(args.VotingAccountID, args.IsVote)
	})},
	{Name: "pause_staking", Run: mutate(func(p *Pool, _ *xenv.Environment) error {
		return p.PauseStaking()
	})},
	{Name: "resume_staking", Run: mutate(func(p *Pool, _ *xenv.Environment) error {
		return p.ResumeStaking()
	})},

	// views
	{Name: "get_account_unstaked_balance", View: true, Run: accountView(func(p *Pool, id types.AccountID) (any, error) {
		return p.AccountUnstakedBalance(id), nil
	})},
	{Name: "get_account_staked_balance", View: true, Run: accountView(func(p *Pool, id types.AccountID) (any, error) {
		return p.AccountStakedBalance(id)
	})},
	{Name: "get_account_total_balance", View: true, Run: accountView(func(p *Pool, id types.AccountID) (any, error) {
		return p.AccountTotalBalance(id)
	})},
	{Name: "is_account_unstaked_balance_available", View: true, Run: accountView(func(p *Pool, id types.AccountID) (any, error) {
		return p.IsAccountUnstakedBalanceAvailable(id), nil
	})},
	{Name: "get_account", View: true, Run: accountView(func(p *Pool, id types.AccountID) (any, error) {
		return p.Account(id)
	})},
	{Name: "get_total_staked_balance", View: true, Run: view(func(p *Pool, _ *xenv.Environment) (any, error) {
		return p.state.Ledger.TotalStakedBalance, nil
	})},
	{Name: "get_owner_id", View: true, Run: view(func(p *Pool, _ *xenv.Environment) (any, error) {
		return p.state.OwnerID, nil
	})},
	{Name: "get_reward_fee_fraction", View: true, Run: view(func(p *Pool, _ *xenv.Environment) (any, error) {
		return p.state.RewardFeeFraction, nil
	})},
	{Name: "get_staking_key", View: true, Run: view(func(p *Pool, _ *xenv.Environment) (any, error) {
		return p.state.StakePublicKey, nil
	})},
	{Name: "is_staking_paused", View: true, Run: view(func(p *Pool, _ *xenv.Environment) (any, error) {
		return p.state.Paused, nil
	})},
	{Name: "get_number_of_accounts", View: true, Run: view(func(p *Pool, _ *xenv.Environment) (any, error) {
		return p.NumberOfAccounts(), nil
	})},
	{Name: "get_accounts", View: true, Run: view(func(p *Pool, env *xenv.Environment) (any, error) {
		var args struct {
			FromIndex uint64String `json:"from_index"`
			Limit     uint64String `json:"limit"`
		}
		env.ParseArgs(&args)
		return p.Accounts(uint64(args.FromIndex), uint64(args.Limit))
	})},
})
