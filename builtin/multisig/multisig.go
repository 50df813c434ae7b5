// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package multisig gates privileged account actions behind confirmations from several access keys.
package multisig

import (
	"math"

	"github.com/pkg/errors"

	"github.com/shardstake/contracts/builtin/reverts"
	"github.com/shardstake/contracts/builtin/slot"
	"github.com/shardstake/contracts/log"
	"github.com/shardstake/contracts/promise"
	"github.com/shardstake/contracts/types"
	"github.com/shardstake/contracts/xenv"
)

// Code identifies the multisig contract in DeployContract actions.
const Code = "multisig"

var (
	DefaultActiveRequestsLimit = uint32(12)
	// RequestCooldown is how long a request must exist before it can be deleted.
	RequestCooldown = types.Timestamp(900_000_000_000)
)

var logger = log.WithContext("pkg", "multisig")

// SetLogger sets the logger for the multisig package.
func SetLogger(l log.Logger) {
	logger = l
}

// State is the whole persisted state of a multisig account.
type State struct {
	NumConfirmations    uint32
	RequestNonce        RequestID
	ActiveRequestsLimit uint32
	Ledger              *Ledger
}

// MultiSig runs multisig operations for one call.
type MultiSig struct {
	env   *xenv.Environment
	slot  *slot.Raw[*State]
	state *State
}

func newMultiSig(env *xenv.Environment) *MultiSig {
	return &MultiSig{env: env, slot: slot.NewRaw[*State](env.Storage(), "state")}
}

func load(env *xenv.Environment) (*MultiSig, error) {
	m := newMultiSig(env)
	state, exists, err := m.slot.Get()
	if err != nil {
		return nil, errors.Wrap(err, "load multisig state")
	}
	if !exists {
		return nil, reverts.New(reverts.NotInitialized, "the contract is not initialized")
	}
	if state.Ledger == nil {
		state.Ledger = NewLedger()
	}
	m.state = state
	return m, nil
}

func (m *MultiSig) save() error {
	return errors.Wrap(m.slot.Set(m.state), "save multisig state")
}

func (m *MultiSig) State() *State {
	return m.state
}

// Init creates the multisig with the given confirmation threshold.
func Init(env *xenv.Environment, numConfirmations uint32) error {
	m := newMultiSig(env)
	if _, exists, err := m.slot.Get(); err != nil {
		return errors.Wrap(err, "load multisig state")
	} else if exists {
		return reverts.New(reverts.AlreadyInitialized, "already initialized")
	}
	if numConfirmations == 0 {
		return reverts.New(reverts.InvalidArgument, "the number of confirmations must be positive")
	}
	m.state = &State{
		NumConfirmations:    numConfirmations,
		ActiveRequestsLimit: DefaultActiveRequestsLimit,
		Ledger:              NewLedger(),
	}
	return m.save()
}

// requests are only accepted through the account's own access keys
func (m *MultiSig) assertSelfCall() error {
	if m.env.Predecessor() != m.env.CurrentAccount() {
		return reverts.New(reverts.Unauthorized, "predecessor account must match current account")
	}
	return nil
}

// AddRequest stores a request signed by the key that authorized the call.
func (m *MultiSig) AddRequest(req Request) (RequestID, error) {
	if err := m.assertSelfCall(); err != nil {
		return 0, err
	}
	if !req.ReceiverID.IsValid() {
		return 0, reverts.New(reverts.InvalidArgument, "invalid receiver account ID")
	}
	if m.state.RequestNonce == math.MaxUint32 {
		return 0, reverts.New(reverts.ArithmeticOverflow, "request nonce overflow")
	}
	pk := m.env.SignerPublicKey()
	count := m.state.Ledger.NumRequests(pk) + 1
	if count > m.state.ActiveRequestsLimit {
		return 0, reverts.Newf(reverts.TooManyActiveRequests,
			"account has too many active requests, limit %d", m.state.ActiveRequestsLimit)
	}
	m.state.Ledger.SetNumRequests(pk, count)

	id := m.state.RequestNonce
	m.state.Ledger.Add(id, RequestWithSigner{
		Request:        req,
		SignerPK:       pk,
		AddedTimestamp: m.env.Timestamp(),
	})
	m.state.RequestNonce++
	logger.Debug("request added", "account", m.env.CurrentAccount(), "id", id, "signer", pk)
	return id, nil
}

// Confirm records the signer's confirmation. The confirmation that reaches
// the threshold removes the request and executes it. The returned value is
// true unless execution scheduled a batch.
func (m *MultiSig) Confirm(id RequestID) (any, error) {
	if err := m.assertSelfCall(); err != nil {
		return nil, err
	}
	confirmations, err := m.state.Ledger.Confirmations(id)
	if err != nil {
		return nil, err
	}
	pk := m.env.SignerPublicKey()
	if m.state.Ledger.IsConfirmedBy(id, pk) {
		return nil, reverts.New(reverts.AlreadyConfirmed, "already confirmed this request with this key")
	}
	if uint32(len(confirmations))+1 >= m.state.NumConfirmations {
		req, err := m.state.Ledger.Remove(id)
		if err != nil {
			return nil, err
		}
		logger.Debug("request confirmed, executing", "account", m.env.CurrentAccount(), "id", id)
		return m.execute(req.Request)
	}
	if err := m.state.Ledger.Confirm(id, pk); err != nil {
		return nil, err
	}
	return true, nil
}

// DeleteRequest removes a request once the cooldown since it was added has passed.
func (m *MultiSig) DeleteRequest(id RequestID) (Request, error) {
	if err := m.assertSelfCall(); err != nil {
		return Request{}, err
	}
	req, err := m.state.Ledger.Request(id)
	if err != nil {
		return Request{}, err
	}
	if m.env.Timestamp() <= req.AddedTimestamp+RequestCooldown {
		return Request{}, reverts.New(reverts.CooldownNotElapsed, "request cannot be deleted immediately after creation")
	}
	removed, err := m.state.Ledger.Remove(id)
	if err != nil {
		return Request{}, err
	}
	return removed.Request, nil
}

func (m *MultiSig) assertSelfRequest(receiver types.AccountID) error {
	if receiver != m.env.CurrentAccount() {
		return reverts.New(reverts.Unauthorized, "this action can only be applied to the multisig account itself")
	}
	return nil
}

func (m *MultiSig) assertOneActionOnly(req Request) error {
	if err := m.assertSelfRequest(req.ReceiverID); err != nil {
		return err
	}
	if len(req.Actions) != 1 {
		return reverts.New(reverts.InvalidArgument, "this method should be a separate request")
	}
	return nil
}

// execute turns the actions of an approved request into one batch for its receiver.
// Configuration actions change the multisig itself and schedule nothing.
func (m *MultiSig) execute(req Request) (any, error) {
	batch := promise.NewBatch(req.ReceiverID)
	for _, a := range req.Actions {
		switch act := a.(type) {
		case Transfer:
			batch.Transfer(act.Amount)
		case CreateAccount:
			batch.CreateAccount()
		case DeployContract:
			batch.DeployContract(act.Code)
		case FunctionCall:
			batch.FunctionCall(act.MethodName, act.Args, act.Deposit, act.Gas)
		case AddKey:
			if err := m.assertSelfRequest(req.ReceiverID); err != nil {
				return nil, err
			}
			batch.AddKey(act.PublicKey, act.Permission)
		case DeleteKey:
			if err := m.assertSelfRequest(req.ReceiverID); err != nil {
				return nil, err
			}
			purged := m.state.Ledger.PurgeSigner(act.PublicKey)
			logger.Debug("key deleted, purged its requests", "account", m.env.CurrentAccount(), "key", act.PublicKey, "purged", len(purged))
			batch.DeleteKey(act.PublicKey)
		case SetNumConfirmations:
			if err := m.assertOneActionOnly(req); err != nil {
				return nil, err
			}
			if act.NumConfirmations == 0 {
				return nil, reverts.New(reverts.InvalidArgument, "the number of confirmations must be positive")
			}
			m.state.NumConfirmations = act.NumConfirmations
			return true, nil
		case SetActiveRequestsLimit:
			if err := m.assertOneActionOnly(req); err != nil {
				return nil, err
			}
			m.state.ActiveRequestsLimit = act.ActiveRequestsLimit
			return true, nil
		default:
			return nil, reverts.Newf(reverts.InvalidArgument, "unsupported action %T", a)
		}
	}
	if len(batch.Actions) == 0 {
		return true, nil
	}
	if err := m.env.Schedule(batch); err != nil {
		return nil, err
	}
	return nil, nil
}
