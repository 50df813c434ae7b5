// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package promise describes outbound action batches scheduled by a contract call.
// Batches run after the scheduling call has committed; a batch may carry a
// continuation that calls back into the scheduling account with the batch result.
package promise

import (
	"github.com/shardstake/contracts/types"
)

// Status is the outcome of an executed batch.
type Status uint8

const (
	NotReady Status = iota
	Successful
	Failed
)

func (s Status) String() string {
	switch s {
	case Successful:
		return "successful"
	case Failed:
		return "failed"
	default:
		return "not_ready"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Result is delivered to a continuation. Value holds the return value of the
// last function call of a successful batch.
type Result struct {
	Status Status
	Value  []byte
}

// Callback is invoked on the scheduling account once the batch has run.
type Callback struct {
	Method  string
	Args    []byte
	Deposit types.Balance
	Gas     types.Gas
}

// Batch is an ordered list of actions applied to one receiver.
type Batch struct {
	Receiver types.AccountID
	Actions  []Action
	Callback *Callback
}

func NewBatch(receiver types.AccountID) *Batch {
	return &Batch{Receiver: receiver}
}

// Append adds raw actions.
func (b *Batch) Append(actions ...Action) *Batch {
	b.Actions = append(b.Actions, actions...)
	return b
}

func (b *Batch) CreateAccount() *Batch {
	return b.Append(CreateAccount{})
}

func (b *Batch) DeployContract(code []byte) *Batch {
	return b.Append(DeployContract{Code: append([]byte(nil), code...)})
}

func (b *Batch) FunctionCall(method string, args []byte, deposit types.Balance, gas types.Gas) *Batch {
	return b.Append(FunctionCall{Method: method, Args: args, Deposit: deposit, Gas: gas})
}

func (b *Batch) Transfer(amount types.Balance) *Batch {
	return b.Append(Transfer{Deposit: amount})
}

func (b *Batch) Stake(amount types.Balance, key types.PublicKey) *Batch {
	return b.Append(Stake{Stake: amount, PublicKey: key})
}

func (b *Batch) AddKey(key types.PublicKey, permission Permission) *Batch {
	return b.Append(AddKey{PublicKey: key, Permission: permission})
}

func (b *Batch) DeleteKey(key types.PublicKey) *Batch {
	return b.Append(DeleteKey{PublicKey: key})
}

// Then chains a continuation on the scheduling account.
func (b *Batch) Then(method string, args []byte, deposit types.Balance, gas types.Gas) *Batch {
	b.Callback = &Callback{Method: method, Args: args, Deposit: deposit, Gas: gas}
	return b
}

// Deposit sums the value carried by transfers, function calls and the continuation.
func (b *Batch) Deposit() (types.Balance, error) {
	total := types.ZeroBalance
	if b.Callback != nil {
		total = b.Callback.Deposit
	}
	for _, a := range b.Actions {
		var (
			v   types.Balance
			err error
		)
		switch act := a.(type) {
		case Transfer:
			v = act.Deposit
		case FunctionCall:
			v = act.Deposit
		default:
			continue
		}
		if total, err = total.Add(v); err != nil {
			return types.ZeroBalance, err
		}
	}
	return total, nil
}
