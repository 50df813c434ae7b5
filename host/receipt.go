// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package host

import (
	"encoding/json"

	"github.com/shardstake/contracts/builtin"
	"github.com/shardstake/contracts/builtin/reverts"
	"github.com/shardstake/contracts/kv"
	"github.com/shardstake/contracts/promise"
	"github.com/shardstake/contracts/types"
	"github.com/shardstake/contracts/xenv"
)

type receipt struct {
	predecessor types.AccountID
	receiver    types.AccountID
	signer      types.AccountID
	signerKey   types.PublicKey
	actions     []promise.Action
	// callback runs on the predecessor once this receipt is applied.
	callback *promise.Callback
	// results are delivered to a continuation.
	results []promise.Result
}

// ReceiptOutcome is the effect of one applied receipt.
type ReceiptOutcome struct {
	Predecessor types.AccountID `json:"predecessor_id"`
	Receiver    types.AccountID `json:"receiver_id"`
	Actions     []string        `json:"actions"`
	Method      string          `json:"method,omitempty"`
	Logs        []string        `json:"logs"`
	Status      promise.Status  `json:"status"`
	// Value is the output of the last function call.
	Value json.RawMessage `json:"value,omitempty"`
	Err   error           `json:"-"`
	Error string          `json:"error,omitempty"`
}

// Outcome lists the receipts of a submission in execution order.
type Outcome struct {
	Receipts []*ReceiptOutcome `json:"receipts"`
}

// Failure returns the error of the first failed receipt.
func (o *Outcome) Failure() error {
	for _, r := range o.Receipts {
		if r.Status == promise.Failed {
			return r.Err
		}
	}
	return nil
}

// Value returns the output of the transaction's own receipt.
func (o *Outcome) Value() []byte {
	if len(o.Receipts) == 0 {
		return nil
	}
	return o.Receipts[0].Value
}

// Logs collects the contract logs of all receipts.
func (o *Outcome) Logs() []string {
	var logs []string
	for _, r := range o.Receipts {
		logs = append(logs, r.Logs...)
	}
	return logs
}

// applyState buffers the writes of one receipt.
type applyState struct {
	h        *Host
	journal  *kv.Journal
	storage  kv.GetPutter
	accounts map[types.AccountID]*Account
}

func (st *applyState) account(id types.AccountID) (*Account, error) {
	if acc, ok := st.accounts[id]; ok {
		return acc, nil
	}
	acc, err := st.h.accounts.Get(id)
	if err != nil {
		return nil, err
	}
	if acc != nil {
		st.accounts[id] = acc
	}
	return acc, nil
}

func (st *applyState) commit() error {
	bulk := st.h.db.Bulk()
	for id, acc := range st.accounts {
		if err := st.h.accounts.put(bulk, id, acc); err != nil {
			return err
		}
	}
	// writes the journal and the account records in one batch
	if err := st.journal.Commit(bulk); err != nil {
		return err
	}
	st.h.accounts.committed(st.accounts)
	return nil
}

// apply runs r. Contract failures mark the receipt failed; only storage errors are returned.
func (h *Host) apply(r *receipt) (*ReceiptOutcome, []*receipt, error) {
	out := &ReceiptOutcome{
		Predecessor: r.predecessor,
		Receiver:    r.receiver,
		Status:      promise.Successful,
	}
	for _, a := range r.actions {
		out.Actions = append(out.Actions, a.Kind().String())
		if call, ok := a.(promise.FunctionCall); ok && out.Method == "" {
			out.Method = call.Method
		}
	}
	metricBatchActions().Observe(int64(len(r.actions)))

	journal := kv.NewJournal(h.db)
	st := &applyState{
		h:        h,
		journal:  journal,
		storage:  storageBucket.NewGetPutter(journal),
		accounts: make(map[types.AccountID]*Account),
	}
	spawned, code, err := st.run(r, out)
	if err != nil {
		if !reverts.IsRevertErr(err) && !xenv.IsWriteProtection(err) {
			logger.Warn("receipt failed", "receiver", r.receiver, "method", out.Method, "err", err)
		}
		out.Status, out.Err, out.Error = promise.Failed, err, err.Error()
		out.Value = nil
		spawned = nil
		if err := h.refund(r); err != nil {
			return nil, nil, err
		}
	} else if err := st.commit(); err != nil {
		return nil, nil, err
	}
	metricReceipts().AddWithLabel(1, map[string]string{"code": code, "method": out.Method, "status": out.Status.String()})
	logger.Debug("receipt applied", "predecessor", r.predecessor, "receiver", r.receiver, "method", out.Method, "status", out.Status)

	if r.callback != nil {
		spawned = append(spawned, &receipt{
			predecessor: r.predecessor,
			receiver:    r.predecessor,
			signer:      r.signer,
			signerKey:   r.signerKey,
			actions: []promise.Action{promise.FunctionCall{
				Method:  r.callback.Method,
				Args:    r.callback.Args,
				Deposit: r.callback.Deposit,
				Gas:     r.callback.Gas,
			}},
			results: []promise.Result{{Status: out.Status, Value: out.Value}},
		})
	}
	return out, spawned, nil
}

// refund returns the value carried by a failed receipt to its predecessor.
func (h *Host) refund(r *receipt) error {
	amount, err := promise.NewBatch(r.receiver).Append(r.actions...).Deposit()
	if err != nil || amount.IsZero() {
		return nil
	}
	acc, err := h.accounts.Get(r.predecessor)
	if err != nil {
		return err
	}
	if acc == nil {
		logger.Warn("refund receiver is gone, burning", "account", r.predecessor, "amount", amount)
		return nil
	}
	if acc.Amount, err = acc.Amount.Add(amount); err != nil {
		return reverts.Arithmetic(err)
	}
	return h.commitAccounts(map[types.AccountID]*Account{r.predecessor: acc})
}

// run applies the actions of r in order and returns the receipts scheduled by its calls.
func (st *applyState) run(r *receipt, out *ReceiptOutcome) ([]*receipt, string, error) {
	acc, err := st.account(r.receiver)
	if err != nil {
		return nil, "", err
	}
	var (
		created bool
		spawned []*receipt
	)
	for _, a := range r.actions {
		if _, ok := a.(promise.CreateAccount); ok {
			if acc != nil {
				return nil, "", reverts.Newf(reverts.InvalidArgument, "account %s already exists", r.receiver)
			}
			if !r.receiver.IsValid() {
				return nil, "", reverts.Newf(reverts.InvalidArgument, "invalid account id %q", r.receiver)
			}
			if !r.receiver.IsSubAccountOf(r.predecessor) {
				return nil, "", reverts.Newf(reverts.Unauthorized, "%s can't create %s", r.predecessor, r.receiver)
			}
			acc, created = &Account{}, true
			st.accounts[r.receiver] = acc
			continue
		}
		if acc == nil {
			return nil, "", reverts.Newf(reverts.NotFound, "account %s does not exist", r.receiver)
		}

		switch act := a.(type) {
		case promise.Transfer:
			if acc.Amount, err = acc.Amount.Add(act.Deposit); err != nil {
				return nil, acc.Code, reverts.Arithmetic(err)
			}
		case promise.FunctionCall:
			value, batches, err := st.call(r, acc, act, out)
			if err != nil {
				return nil, acc.Code, err
			}
			out.Value = value
			for _, b := range batches {
				spawned = append(spawned, &receipt{
					predecessor: r.receiver,
					receiver:    b.Receiver,
					signer:      r.signer,
					signerKey:   r.signerKey,
					actions:     b.Actions,
					callback:    b.Callback,
				})
			}
		default:
			if !created && r.predecessor != r.receiver {
				return nil, acc.Code, reverts.Newf(reverts.Unauthorized,
					"%s actions on %s can only come from the account itself", a.Kind(), r.receiver)
			}
			if err := applyOwnAction(acc, a, st.h.opts); err != nil {
				return nil, acc.Code, err
			}
		}
	}
	if acc == nil {
		return nil, "", nil
	}
	return spawned, acc.Code, nil
}

func (st *applyState) call(r *receipt, acc *Account, act promise.FunctionCall, out *ReceiptOutcome) ([]byte, []*promise.Batch, error) {
	m, err := lookupMethod(r.receiver, acc, act.Method)
	if err != nil {
		return nil, nil, err
	}
	if acc.Amount, err = acc.Amount.Add(act.Deposit); err != nil {
		return nil, nil, reverts.Arithmetic(err)
	}
	env := xenv.New(
		m,
		act.Args,
		&xenv.CallContext{
			Current:         r.receiver,
			Predecessor:     r.predecessor,
			Signer:          r.signer,
			SignerPublicKey: r.signerKey,
			AttachedDeposit: act.Deposit,
			PrepaidGas:      act.Gas,
		},
		&xenv.BlockContext{EpochHeight: st.h.clock.EpochHeight, Timestamp: st.h.clock.Timestamp},
		acc.Amount,
		acc.Locked,
		st.storage,
		validators{st.h.accounts},
		r.results,
	)
	value, err := env.Call(m.Run, false)()
	out.Logs = append(out.Logs, env.Logs()...)
	if err != nil {
		return nil, nil, err
	}
	acc.Amount = env.AccountBalance()
	return value, env.Batches(), nil
}

// applyOwnAction applies an action that only the account itself may request.
func applyOwnAction(acc *Account, a promise.Action, opts Options) error {
	switch act := a.(type) {
	case promise.DeployContract:
		code := string(act.Code)
		if _, ok := builtin.Lookup(code); !ok {
			return reverts.Newf(reverts.InvalidArgument, "unknown contract code %q", code)
		}
		acc.Code = code
	case promise.Stake:
		total, err := acc.Total()
		if err != nil {
			return reverts.Arithmetic(err)
		}
		if act.Stake.Gt(total) {
			return reverts.Newf(reverts.InsufficientBalance, "can't stake %s with a total balance of %s", act.Stake, total)
		}
		if !act.Stake.IsZero() {
			if act.PublicKey.IsEmpty() {
				return reverts.New(reverts.InvalidArgument, "a stake needs a validator key")
			}
			if act.Stake.Lt(opts.MinValidatorStake) {
				return reverts.Newf(reverts.InsufficientBalance,
					"stake %s is below the validator threshold %s", act.Stake, opts.MinValidatorStake)
			}
		}
		if acc.Amount, err = total.Sub(act.Stake); err != nil {
			return reverts.Arithmetic(err)
		}
		acc.Locked = act.Stake
		acc.StakeKey = act.PublicKey
		if act.Stake.IsZero() {
			acc.StakeKey = ""
		}
	case promise.AddKey:
		if act.PublicKey.IsEmpty() {
			return reverts.New(reverts.InvalidArgument, "empty public key")
		}
		if acc.keyIndex(act.PublicKey) >= 0 {
			return reverts.Newf(reverts.InvalidArgument, "access key %s already exists", act.PublicKey)
		}
		acc.Keys = append(acc.Keys, AccessKey{PublicKey: act.PublicKey, Permission: act.Permission})
	case promise.DeleteKey:
		i := acc.keyIndex(act.PublicKey)
		if i < 0 {
			return reverts.Newf(reverts.NotFound, "access key %s does not exist", act.PublicKey)
		}
		acc.Keys = append(acc.Keys[:i], acc.Keys[i+1:]...)
	default:
		return reverts.Newf(reverts.InvalidArgument, "unsupported action %s", a.Kind())
	}
	return nil
}
