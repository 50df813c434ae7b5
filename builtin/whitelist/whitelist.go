// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package whitelist keeps the staking pools approved by the foundation.
// Whitelisted factories may add pools, only the foundation removes them.
package whitelist

import (
	"github.com/pkg/errors"

	"github.com/shardstake/contracts/builtin/reverts"
	"github.com/shardstake/contracts/builtin/slot"
	"github.com/shardstake/contracts/types"
	"github.com/shardstake/contracts/xenv"
)

const Code = "staking_pool_whitelist"

type State struct {
	FoundationAccountID types.AccountID
	Whitelist           types.AccountSet
	FactoryWhitelist    types.AccountSet
}

type Whitelist struct {
	env   *xenv.Environment
	slot  *slot.Raw[*State]
	state *State
}

func load(env *xenv.Environment) (*Whitelist, error) {
	w := &Whitelist{env: env, slot: slot.NewRaw[*State](env.Storage(), "state")}
	state, exists, err := w.slot.Get()
	if err != nil {
		return nil, errors.Wrap(err, "load whitelist state")
	}
	if !exists {
		return nil, reverts.New(reverts.NotInitialized, "the contract is not initialized")
	}
	w.state = state
	return w, nil
}

func (w *Whitelist) save() error {
	return errors.Wrap(w.slot.Set(w.state), "save whitelist state")
}

func Init(env *xenv.Environment, foundation types.AccountID) error {
	raw := slot.NewRaw[*State](env.Storage(), "state")
	if _, exists, err := raw.Get(); err != nil {
		return errors.Wrap(err, "load whitelist state")
	} else if exists {
		return reverts.New(reverts.AlreadyInitialized, "already initialized")
	}
	if !foundation.IsValid() {
		return reverts.New(reverts.InvalidArgument, "the foundation account ID is invalid")
	}
	return errors.Wrap(raw.Set(&State{FoundationAccountID: foundation}), "save whitelist state")
}

func (w *Whitelist) assertFoundation() error {
	if w.env.Predecessor() != w.state.FoundationAccountID {
		return reverts.New(reverts.Unauthorized, "can only be called by the foundation")
	}
	return nil
}

// AddStakingPool whitelists a pool. Callers other than whitelisted factories must be the foundation.
func (w *Whitelist) AddStakingPool(id types.AccountID) (bool, error) {
	if !id.IsValid() {
		return false, reverts.New(reverts.InvalidArgument, "the given account ID is invalid")
	}
	if !w.state.FactoryWhitelist.Contains(w.env.Predecessor()) {
		if err := w.assertFoundation(); err != nil {
			return false, err
		}
	}
	return w.state.Whitelist.Insert(id), nil
}

func (w *Whitelist) RemoveStakingPool(id types.AccountID) (bool, error) {
	if err := w.assertFoundation(); err != nil {
		return false, err
	}
	return w.state.Whitelist.Remove(id), nil
}

func (w *Whitelist) AddFactory(id types.AccountID) (bool, error) {
	if !id.IsValid() {
		return false, reverts.New(reverts.InvalidArgument, "the given account ID is invalid")
	}
	if err := w.assertFoundation(); err != nil {
		return false, err
	}
	return w.state.FactoryWhitelist.Insert(id), nil
}

func (w *Whitelist) RemoveFactory(id types.AccountID) (bool, error) {
	if err := w.assertFoundation(); err != nil {
		return false, err
	}
	return w.state.FactoryWhitelist.Remove(id), nil
}
