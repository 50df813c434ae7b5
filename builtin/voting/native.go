// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package voting

import (
	"github.com/shardstake/contracts/types"
	"github.com/shardstake/contracts/xenv"
)

func view(op func(v *Voting) (any, error)) func(env *xenv.Environment) (any, error) {
	return func(env *xenv.Environment) (any, error) {
		v, err := load(env)
		if err != nil {
			return nil, err
		}
		return op(v)
	}
}

func mutate(op func(v *Voting, env *xenv.Environment) error) func(env *xenv.Environment) (any, error) {
	return func(env *xenv.Environment) (any, error) {
		v, err := load(env)
		if err != nil {
			return nil, err
		}
		if err := op(v, env); err != nil {
			return nil, err
		}
		return nil, v.save()
	}
}

var Contract = xenv.NewContract(Code, []*xenv.Method{
	{Name: "new", Run: func(env *xenv.Environment) (any, error) {
		return nil, Init(env)
	}},
	{Name: "ping", Run: mutate(func(v *Voting, _ *xenv.Environment) error {
		return v.Ping()
	})},
	{Name: "vote", Run: mutate(func(v *Voting, env *xenv.Environment) error {
		var args struct {
			IsVote bool `json:"is_vote"`
		}
		env.ParseArgs(&args)
		return v.Vote(args.IsVote)
	})},
	{Name: "get_result", View: true, Run: view(func(v *Voting) (any, error) {
		if !v.decided() {
			return nil, nil
		}
		return v.state.Result, nil
	})},
	{Name: "get_total_voted_stake", View: true, Run: view(func(v *Voting) (any, error) {
		return [2]types.Balance{v.state.TotalVotedStake, v.env.TotalValidatorStake()}, nil
	})},
	{Name: "get_votes", View: true, Run: view(func(v *Voting) (any, error) {
		return map[types.AccountID]types.Balance(v.state.Votes), nil
	})},
})
