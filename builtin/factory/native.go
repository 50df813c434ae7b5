// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package factory

import (
	"github.com/shardstake/contracts/types"
	"github.com/shardstake/contracts/xenv"
)

var Contract = xenv.NewContract(Code, []*xenv.Method{
	{Name: "new", Run: func(env *xenv.Environment) (any, error) {
		var args struct {
			StakingPoolWhitelistAccountID types.AccountID `json:"staking_pool_whitelist_account_id"`
		}
		env.ParseArgs(&args)
		return nil, Init(env, args.StakingPoolWhitelistAccountID)
	}},
	{Name: "create_staking_pool", Payable: true, Run: func(env *xenv.Environment) (any, error) {
		var args CreateArgs
		env.ParseArgs(&args)
		f, err := load(env)
		if err != nil {
			return nil, err
		}
		if err := f.CreateStakingPool(args); err != nil {
			return nil, err
		}
		return nil, f.save()
	}},
	{Name: "on_staking_pool_create", Run: func(env *xenv.Environment) (any, error) {
		var args onCreateArgs
		env.ParseArgs(&args)
		f, err := load(env)
		if err != nil {
			return nil, err
		}
		created, err := f.OnStakingPoolCreate(args)
		if err != nil {
			return nil, err
		}
		return created, f.save()
	}},
	{Name: "get_min_attached_balance", View: true, Run: func(*xenv.Environment) (any, error) {
		return MinAttachedBalance, nil
	}},
	{Name: "get_number_of_staking_pools_created", View: true, Run: func(env *xenv.Environment) (any, error) {
		f, err := load(env)
		if err != nil {
			return nil, err
		}
		return uint64(f.state.StakingPoolAccountIDs.Len()), nil
	}},
})
