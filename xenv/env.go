// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"

	"github.com/shardstake/contracts/builtin/reverts"
	"github.com/shardstake/contracts/builtin/slot"
	"github.com/shardstake/contracts/kv"
	"github.com/shardstake/contracts/promise"
	"github.com/shardstake/contracts/types"
)

var errWriteProtection = errors.New("xenv: write protection")

// CallContext describes the call being executed.
type CallContext struct {
	Current         types.AccountID
	Predecessor     types.AccountID
	Signer          types.AccountID
	SignerPublicKey types.PublicKey
	AttachedDeposit types.Balance
	PrepaidGas      types.Gas
}

// BlockContext describes the block the call is included in.
type BlockContext struct {
	EpochHeight types.EpochHeight
	Timestamp   types.Timestamp
}

// Validators answers validator stake queries.
type Validators interface {
	ValidatorStake(id types.AccountID) types.Balance
	TotalValidatorStake() types.Balance
}

type vmError struct {
	cause error
}

// Environment an env to execute a contract method.
type Environment struct {
	method     *Method
	input      []byte
	callCtx    *CallContext
	blockCtx   *BlockContext
	balance    types.Balance
	locked     types.Balance
	store      kv.GetPutter
	validators Validators
	results    []promise.Result
	readonly   bool

	logs    []string
	batches []*promise.Batch
}

// New create a new env. balance is the account balance including the attached deposit.
func New(
	method *Method,
	input []byte,
	callCtx *CallContext,
	blockCtx *BlockContext,
	balance, locked types.Balance,
	store kv.GetPutter,
	validators Validators,
	results []promise.Result,
) *Environment {
	return &Environment{
		method:     method,
		input:      input,
		callCtx:    callCtx,
		blockCtx:   blockCtx,
		balance:    balance,
		locked:     locked,
		store:      store,
		validators: validators,
		results:    results,
	}
}

func (env *Environment) CurrentAccount() types.AccountID     { return env.callCtx.Current }
func (env *Environment) Predecessor() types.AccountID        { return env.callCtx.Predecessor }
func (env *Environment) Signer() types.AccountID             { return env.callCtx.Signer }
func (env *Environment) SignerPublicKey() types.PublicKey    { return env.callCtx.SignerPublicKey }
func (env *Environment) AttachedDeposit() types.Balance      { return env.callCtx.AttachedDeposit }
func (env *Environment) PrepaidGas() types.Gas               { return env.callCtx.PrepaidGas }
func (env *Environment) EpochHeight() types.EpochHeight      { return env.blockCtx.EpochHeight }
func (env *Environment) Timestamp() types.Timestamp          { return env.blockCtx.Timestamp }
func (env *Environment) AccountBalance() types.Balance       { return env.balance }
func (env *Environment) AccountLockedBalance() types.Balance { return env.locked }
func (env *Environment) Logs() []string                      { return env.logs }
func (env *Environment) Batches() []*promise.Batch           { return env.batches }

// Storage returns the persistent storage of the current account.
func (env *Environment) Storage() *slot.Context {
	return slot.NewContext(env.callCtx.Current, env.store)
}

func (env *Environment) ValidatorStake(id types.AccountID) types.Balance {
	if env.validators == nil {
		return types.ZeroBalance
	}
	return env.validators.ValidatorStake(id)
}

func (env *Environment) TotalValidatorStake() types.Balance {
	if env.validators == nil {
		return types.ZeroBalance
	}
	return env.validators.TotalValidatorStake()
}

// PromiseResultsCount is the number of results delivered to a continuation.
func (env *Environment) PromiseResultsCount() int {
	return len(env.results)
}

func (env *Environment) PromiseResult(i int) (promise.Result, error) {
	if i < 0 || i >= len(env.results) {
		return promise.Result{}, reverts.Newf(reverts.InvalidArgument, "promise result %d out of range", i)
	}
	return env.results[i], nil
}

// Log records a message for off-chain readers.
func (env *Environment) Log(format string, args ...any) {
	env.logs = append(env.logs, fmt.Sprintf(format, args...))
}

// Schedule queues a batch to run after this call. The value it carries leaves the account immediately.
func (env *Environment) Schedule(b *promise.Batch) error {
	if env.readonly {
		return errWriteProtection
	}
	deposit, err := b.Deposit()
	if err != nil {
		return reverts.Arithmetic(err)
	}
	if env.balance.Lt(deposit) {
		return reverts.Newf(reverts.InsufficientBalance,
			"not enough balance to schedule %s, balance %s", deposit, env.balance)
	}
	if env.balance, err = env.balance.Sub(deposit); err != nil {
		return reverts.Arithmetic(err)
	}
	env.batches = append(env.batches, b)
	return nil
}

// ParseArgs decodes the JSON call arguments. An empty input decodes as an empty object.
func (env *Environment) ParseArgs(val any) {
	input := env.input
	if len(input) == 0 {
		input = []byte("{}")
	}
	if err := json.Unmarshal(input, val); err != nil {
		panic(&vmError{reverts.Newf(reverts.InvalidArgument, "failed to parse arguments of %s: %v", env.method.Name, err)})
	}
}

// Stop aborts the call with the given error.
func (env *Environment) Stop(err error) {
	panic(&vmError{err})
}

// Call wraps proc into a callable that rejects writes in readonly mode,
// rejects deposits on non-payable methods, and JSON encodes the output.
func (env *Environment) Call(proc func(env *Environment) (any, error), readonly bool) func() ([]byte, error) {
	return func() (data []byte, err error) {
		if readonly && !env.method.View {
			return nil, errWriteProtection
		}
		env.readonly = readonly

		if !env.method.Payable && !env.callCtx.AttachedDeposit.IsZero() {
			return nil, reverts.Newf(reverts.InvalidArgument, "method %s doesn't accept deposit", env.method.Name)
		}

		defer func() {
			if e := recover(); e != nil {
				if rec, ok := e.(*vmError); ok {
					data, err = nil, rec.cause
				} else {
					panic(e)
				}
			}
		}()
		output, err := proc(env)
		if err != nil {
			return nil, err
		}
		if output == nil {
			return nil, nil
		}
		data, err = json.Marshal(output)
		if err != nil {
			return nil, errors.WithMessage(err, "encode output")
		}
		return data, nil
	}
}

// IsWriteProtection reports whether err came from a write attempted in readonly mode.
func IsWriteProtection(err error) bool {
	return errors.Is(err, errWriteProtection)
}
