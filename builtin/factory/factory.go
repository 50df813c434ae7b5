// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package factory deploys staking pools as sub-accounts and whitelists them.
package factory

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"

	"github.com/shardstake/contracts/builtin/reverts"
	"github.com/shardstake/contracts/builtin/slot"
	"github.com/shardstake/contracts/builtin/stakingpool"
	"github.com/shardstake/contracts/log"
	"github.com/shardstake/contracts/promise"
	"github.com/shardstake/contracts/types"
	"github.com/shardstake/contracts/xenv"
)

const Code = "staking_pool_factory"

var (
	// MinAttachedBalance is the least deposit a new pool is funded with.
	MinAttachedBalance = types.MustParseBalance("30000000000000000000000000")

	StakingPoolNewGas       = 50 * types.Tgas
	OnStakingPoolCreateGas  = 20 * types.Tgas
	WhitelistStakingPoolGas = 5 * types.Tgas
)

var logger = log.WithContext("pkg", "factory")

type State struct {
	StakingPoolWhitelistAccountID types.AccountID
	StakingPoolAccountIDs         types.AccountSet
}

type Factory struct {
	env   *xenv.Environment
	slot  *slot.Raw[*State]
	state *State
}

func load(env *xenv.Environment) (*Factory, error) {
	f := &Factory{env: env, slot: slot.NewRaw[*State](env.Storage(), "state")}
	state, exists, err := f.slot.Get()
	if err != nil {
		return nil, errors.Wrap(err, "load factory state")
	}
	if !exists {
		return nil, reverts.New(reverts.NotInitialized, "the contract is not initialized")
	}
	f.state = state
	return f, nil
}

func (f *Factory) save() error {
	return errors.Wrap(f.slot.Set(f.state), "save factory state")
}

func Init(env *xenv.Environment, whitelist types.AccountID) error {
	raw := slot.NewRaw[*State](env.Storage(), "state")
	if _, exists, err := raw.Get(); err != nil {
		return errors.Wrap(err, "load factory state")
	} else if exists {
		return reverts.New(reverts.AlreadyInitialized, "already initialized")
	}
	if !whitelist.IsValid() {
		return reverts.New(reverts.InvalidArgument, "the staking pool whitelist account ID is invalid")
	}
	return errors.Wrap(raw.Set(&State{StakingPoolWhitelistAccountID: whitelist}), "save factory state")
}

// CreateArgs are the arguments of create_staking_pool.
type CreateArgs struct {
	StakingPoolID     string                        `json:"staking_pool_id"`
	OwnerID           types.AccountID               `json:"owner_id"`
	StakePublicKey    types.PublicKey               `json:"stake_public_key"`
	RewardFeeFraction stakingpool.RewardFeeFraction `json:"reward_fee_fraction"`
}

type onCreateArgs struct {
	StakingPoolAccountID types.AccountID `json:"staking_pool_account_id"`
	AttachedDeposit      types.Balance   `json:"attached_deposit"`
	PredecessorAccountID types.AccountID `json:"predecessor_account_id"`
}

// CreateStakingPool funds and deploys <staking_pool_id>.<factory>, then calls back on_staking_pool_create.
func (f *Factory) CreateStakingPool(args CreateArgs) error {
	deposit := f.env.AttachedDeposit()
	if deposit.Lt(MinAttachedBalance) {
		return reverts.New(reverts.InsufficientBalance, "not enough attached deposit to complete staking pool creation")
	}
	if strings.Contains(args.StakingPoolID, ".") {
		return reverts.New(reverts.InvalidArgument, "the staking pool ID can't contain `.`")
	}
	poolID := types.AccountID(args.StakingPoolID + "." + f.env.CurrentAccount().String())
	if !poolID.IsValid() {
		return reverts.New(reverts.InvalidArgument, "the staking pool account ID is invalid")
	}
	if !args.OwnerID.IsValid() {
		return reverts.New(reverts.InvalidArgument, "the owner account ID is invalid")
	}
	if err := args.RewardFeeFraction.Validate(); err != nil {
		return err
	}
	if !f.state.StakingPoolAccountIDs.Insert(poolID) {
		return reverts.New(reverts.InvalidArgument, "the staking pool account ID already exists")
	}

	initArgs, err := json.Marshal(struct {
		OwnerID           types.AccountID               `json:"owner_id"`
		StakePublicKey    types.PublicKey               `json:"stake_public_key"`
		RewardFeeFraction stakingpool.RewardFeeFraction `json:"reward_fee_fraction"`
	}{args.OwnerID, args.StakePublicKey, args.RewardFeeFraction})
	if err != nil {
		return errors.Wrap(err, "encode pool init args")
	}
	callbackArgs, err := json.Marshal(onCreateArgs{poolID, deposit, f.env.Predecessor()})
	if err != nil {
		return errors.Wrap(err, "encode callback args")
	}
	return f.env.Schedule(promise.NewBatch(poolID).
		CreateAccount().
		Transfer(deposit).
		DeployContract([]byte(stakingpool.Code)).
		FunctionCall("new", initArgs, types.ZeroBalance, StakingPoolNewGas).
		Then("on_staking_pool_create", callbackArgs, types.ZeroBalance, OnStakingPoolCreateGas))
}

// OnStakingPoolCreate whitelists the new pool, or forgets it and refunds the creator.
func (f *Factory) OnStakingPoolCreate(args onCreateArgs) (bool, error) {
	if f.env.Predecessor() != f.env.CurrentAccount() {
		return false, reverts.New(reverts.Unauthorized, "can be called only as a callback")
	}
	if f.env.PromiseResultsCount() != 1 {
		return false, reverts.New(reverts.InvalidArgument, "contract expected a result on the callback")
	}
	result, err := f.env.PromiseResult(0)
	if err != nil {
		return false, err
	}
	if result.Status == promise.Successful {
		f.env.Log("The staking pool @%s was successfully created. Whitelisting...", args.StakingPoolAccountID)
		whitelistArgs, err := json.Marshal(struct {
			StakingPoolAccountID types.AccountID `json:"staking_pool_account_id"`
		}{args.StakingPoolAccountID})
		if err != nil {
			return false, errors.Wrap(err, "encode whitelist args")
		}
		return true, f.env.Schedule(promise.NewBatch(f.state.StakingPoolWhitelistAccountID).
			FunctionCall("add_staking_pool", whitelistArgs, types.ZeroBalance, WhitelistStakingPoolGas))
	}

	f.state.StakingPoolAccountIDs.Remove(args.StakingPoolAccountID)
	f.env.Log("The staking pool @%s creation has failed. Returning attached deposit of %s to @%s",
		args.StakingPoolAccountID, args.AttachedDeposit, args.PredecessorAccountID)
	logger.Debug("staking pool creation failed", "pool", args.StakingPoolAccountID)
	return false, f.env.Schedule(promise.NewBatch(args.PredecessorAccountID).Transfer(args.AttachedDeposit))
}
