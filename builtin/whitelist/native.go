// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package whitelist

import (
	"github.com/shardstake/contracts/types"
	"github.com/shardstake/contracts/xenv"
)

func poolMethod(op func(w *Whitelist, id types.AccountID) (bool, error)) func(env *xenv.Environment) (any, error) {
	return func(env *xenv.Environment) (any, error) {
		var args struct {
			StakingPoolAccountID types.AccountID `json:"staking_pool_account_id"`
		}
		env.ParseArgs(&args)
		w, err := load(env)
		if err != nil {
			return nil, err
		}
		changed, err := op(w, args.StakingPoolAccountID)
		if err != nil {
			return nil, err
		}
		return changed, w.save()
	}
}

func factoryMethod(op func(w *Whitelist, id types.AccountID) (bool, error)) func(env *xenv.Environment) (any, error) {
	return func(env *xenv.Environment) (any, error) {
		var args struct {
			FactoryAccountID types.AccountID `json:"factory_account_id"`
		}
		env.ParseArgs(&args)
		w, err := load(env)
		if err != nil {
			return nil, err
		}
		changed, err := op(w, args.FactoryAccountID)
		if err != nil {
			return nil, err
		}
		return changed, w.save()
	}
}

var Contract = xenv.NewContract(Code, []*xenv.Method{
	{Name: "new", Run: func(env *xenv.Environment) (any, error) {
		var args struct {
			FoundationAccountID types.AccountID `json:"foundation_account_id"`
		}
		env.ParseArgs(&args)
		return nil, Init(env, args.FoundationAccountID)
	}},
	{Name: "add_staking_pool", Run: poolMethod((*Whitelist).AddStakingPool)},
	{Name: "remove_staking_pool", Run: poolMethod((*Whitelist).RemoveStakingPool)},
	{Name: "add_factory", Run: factoryMethod((*Whitelist).AddFactory)},
	{Name: "remove_factory", Run: factoryMethod((*Whitelist).RemoveFactory)},
	{Name: "is_whitelisted", View: true, Run: func(env *xenv.Environment) (any, error) {
		var args struct {
			StakingPoolAccountID types.AccountID `json:"staking_pool_account_id"`
		}
		env.ParseArgs(&args)
		w, err := load(env)
		if err != nil {
			return nil, err
		}
		return w.state.Whitelist.Contains(args.StakingPoolAccountID), nil
	}},
	{Name: "is_factory_whitelisted", View: true, Run: func(env *xenv.Environment) (any, error) {
		var args struct {
			FactoryAccountID types.AccountID `json:"factory_account_id"`
		}
		env.ParseArgs(&args)
		w, err := load(env)
		if err != nil {
			return nil, err
		}
		return w.state.FactoryWhitelist.Contains(args.FactoryAccountID), nil
	}},
})
