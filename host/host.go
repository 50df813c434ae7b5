// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package host runs contract calls deterministically over a kv store.
//
// A submitted batch becomes the first receipt of a FIFO queue. Every receipt
// applies its actions to one receiver inside a write journal that is committed
// only if all actions succeed; a failed receipt refunds its deposits to the
// predecessor. Batches scheduled by contract calls are appended to the queue,
// followed by their continuation, which receives the batch result.
package host

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/shardstake/contracts/builtin"
	"github.com/shardstake/contracts/builtin/reverts"
	"github.com/shardstake/contracts/builtin/slot"
	"github.com/shardstake/contracts/kv"
	"github.com/shardstake/contracts/log"
	"github.com/shardstake/contracts/metrics"
	"github.com/shardstake/contracts/promise"
	"github.com/shardstake/contracts/types"
	"github.com/shardstake/contracts/xenv"
)

const (
	accountsBucket = kv.Bucket("a")
	storageBucket  = kv.Bucket("s")
	metaBucket     = kv.Bucket("m")
)

var (
	logger = log.WithContext("pkg", "host")

	clockKey = []byte("clock")

	metricReceipts     = metrics.LazyLoadCounterVec("host_receipts_count", []string{"code", "method", "status"})
	metricBatchActions = metrics.LazyLoadHistogram("host_batch_actions", metrics.BucketCallActions)
	metricEpochs       = metrics.LazyLoadCounter("host_epoch_count")
)

// SetLogger sets the logger for the host package.
func SetLogger(l log.Logger) {
	logger = l
}

// Options configures a host.
type Options struct {
	AccountCacheSize int
	// MaxReceipts bounds the receipts one submission may spawn.
	MaxReceipts int
	// MinValidatorStake rejects non-zero stake actions below it.
	MinValidatorStake types.Balance
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{
		AccountCacheSize: 1024,
		MaxReceipts:      1024,
	}
}

type clock struct {
	EpochHeight types.EpochHeight
	Timestamp   types.Timestamp
}

// Host executes calls against accounts and contracts persisted in a kv store.
// It is safe for concurrent use; calls are serialized.
type Host struct {
	mu       sync.Mutex
	db       kv.Store
	opts     Options
	accounts *accountStore
	clock    clock
}

// New opens a host over db, restoring the epoch and time saved by a previous host.
func New(db kv.Store, opts Options) (*Host, error) {
	if opts.AccountCacheSize <= 0 {
		opts.AccountCacheSize = DefaultOptions().AccountCacheSize
	}
	if opts.MaxReceipts <= 0 {
		opts.MaxReceipts = DefaultOptions().MaxReceipts
	}
	accounts, err := newAccountStore(db, opts.AccountCacheSize)
	if err != nil {
		return nil, err
	}
	h := &Host{db: db, opts: opts, accounts: accounts}

	data, err := metaBucket.NewGetter(db).Get(clockKey)
	switch {
	case err == nil:
		if err := rlp.DecodeBytes(data, &h.clock); err != nil {
			return nil, errors.Wrap(err, "decode clock")
		}
	case db.IsNotFound(err):
	default:
		return nil, errors.Wrap(err, "read clock")
	}
	return h, nil
}

// GenesisAccount describes an account created outside of any call.
type GenesisAccount struct {
	ID     types.AccountID   `yaml:"id"`
	Amount types.Balance     `yaml:"amount"`
	Locked types.Balance     `yaml:"locked"`
	Code   string            `yaml:"code"`
	Keys   []types.PublicKey `yaml:"keys"`
}

// Genesis creates accounts with full access keys. Contracts must be initialized by a call.
func (h *Host) Genesis(accounts ...GenesisAccount) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	records := make(map[types.AccountID]*Account, len(accounts))
	for _, ga := range accounts {
		if !ga.ID.IsValid() {
			return errors.Errorf("invalid account id %q", ga.ID)
		}
		if _, dup := records[ga.ID]; dup {
			return errors.Errorf("duplicate genesis account %s", ga.ID)
		}
		existing, err := h.accounts.Get(ga.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return errors.Errorf("account %s already exists", ga.ID)
		}
		if ga.Code != "" {
			if _, ok := builtin.Lookup(ga.Code); !ok {
				return errors.Errorf("unknown contract code %q", ga.Code)
			}
		}
		acc := &Account{Amount: ga.Amount, Locked: ga.Locked, Code: ga.Code}
		for _, pk := range ga.Keys {
			acc.Keys = append(acc.Keys, AccessKey{PublicKey: pk, Permission: promise.FullAccess()})
		}
		records[ga.ID] = acc
	}
	return h.commitAccounts(records)
}

func (h *Host) commitAccounts(records map[types.AccountID]*Account) error {
	bulk := h.db.Bulk()
	for id, acc := range records {
		if err := h.accounts.put(bulk, id, acc); err != nil {
			return err
		}
	}
	if err := bulk.Write(); err != nil {
		return errors.Wrap(err, "commit accounts")
	}
	h.accounts.committed(records)
	return nil
}

func (h *Host) saveClock() error {
	data, err := rlp.EncodeToBytes(&h.clock)
	if err != nil {
		return errors.Wrap(err, "encode clock")
	}
	return errors.Wrap(metaBucket.NewPutter(h.db).Put(clockKey, data), "save clock")
}

// EpochHeight returns the current epoch.
func (h *Host) EpochHeight() types.EpochHeight {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.clock.EpochHeight
}

// Timestamp returns the current block time in nanoseconds.
func (h *Host) Timestamp() types.Timestamp {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.clock.Timestamp
}

// AdvanceTime moves the block time forward.
func (h *Host) AdvanceTime(d time.Duration) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if d < 0 {
		return errors.New("time can't go backwards")
	}
	h.clock.Timestamp += types.Timestamp(d.Nanoseconds())
	return h.saveClock()
}

// AdvanceEpoch starts the next epoch and pays validator rewards into the locked balances.
func (h *Host) AdvanceEpoch(rewards map[types.AccountID]types.Balance) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	records := make(map[types.AccountID]*Account, len(rewards))
	for id, reward := range rewards {
		acc, err := h.accounts.Get(id)
		if err != nil {
			return err
		}
		if acc == nil {
			return reverts.Newf(reverts.NotFound, "account %s does not exist", id)
		}
		if acc.Locked, err = acc.Locked.Add(reward); err != nil {
			return reverts.Arithmetic(err)
		}
		records[id] = acc
	}
	if err := h.commitAccounts(records); err != nil {
		return err
	}
	h.clock.EpochHeight++
	metricEpochs().Add(1)
	logger.Debug("epoch advanced", "epoch", h.clock.EpochHeight, "rewarded", len(rewards))
	return h.saveClock()
}

// Account returns a copy of the account record.
func (h *Host) Account(id types.AccountID) (*Account, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	acc, err := h.accounts.Get(id)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, reverts.Newf(reverts.NotFound, "account %s does not exist", id)
	}
	return acc, nil
}

// Storage returns a scratch view of the contract storage of id. Writes to it are never committed.
func (h *Host) Storage(id types.AccountID) *slot.Context {
	return slot.NewContext(id, storageBucket.NewGetPutter(kv.NewJournal(h.db)))
}

// TotalValidatorStake sums the locked balances of all accounts.
func (h *Host) TotalValidatorStake() types.Balance {
	h.mu.Lock()
	defer h.mu.Unlock()
	return validators{h.accounts}.TotalValidatorStake()
}

// View runs a view method of the contract deployed on id.
func (h *Host) View(id types.AccountID, method string, args any) ([]byte, error) {
	input, err := EncodeArgs(args)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	acc, err := h.accounts.Get(id)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, reverts.Newf(reverts.NotFound, "account %s does not exist", id)
	}
	m, err := lookupMethod(id, acc, method)
	if err != nil {
		return nil, err
	}
	if !m.View {
		return nil, reverts.Newf(reverts.InvalidArgument, "method %s is not a view method", method)
	}
	env := xenv.New(
		m,
		input,
		&xenv.CallContext{Current: id, Predecessor: id, Signer: id},
		&xenv.BlockContext{EpochHeight: h.clock.EpochHeight, Timestamp: h.clock.Timestamp},
		acc.Amount,
		acc.Locked,
		storageBucket.NewGetPutter(kv.NewJournal(h.db)),
		validators{h.accounts},
		nil,
	)
	return env.Call(m.Run, true)()
}

func lookupMethod(id types.AccountID, acc *Account, method string) (*xenv.Method, error) {
	contract, ok := builtin.Lookup(acc.Code)
	if !ok {
		return nil, reverts.Newf(reverts.NotFound, "account %s has no contract deployed", id)
	}
	m, ok := contract.Method(method)
	if !ok {
		return nil, reverts.Newf(reverts.NotFound, "method %s not found on %s", method, contract.Code())
	}
	return m, nil
}

// EncodeArgs JSON encodes call arguments. Byte slices and raw messages pass through, nil is empty.
func EncodeArgs(args any) ([]byte, error) {
	switch v := args.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case json.RawMessage:
		return v, nil
	}
	data, err := json.Marshal(args)
	if err != nil {
		return nil, errors.Wrap(err, "encode args")
	}
	return data, nil
}

// Call submits a single function call signed by signer.
func (h *Host) Call(signer types.AccountID, key types.PublicKey, receiver types.AccountID, method string, args any, deposit types.Balance) (*Outcome, error) {
	input, err := EncodeArgs(args)
	if err != nil {
		return nil, err
	}
	return h.Submit(signer, key, promise.NewBatch(receiver).FunctionCall(method, input, deposit, 300*types.Tgas))
}

// Submit verifies the signer's access key, charges the batch deposit and runs the batch
// along with every receipt it spawns.
func (h *Host) Submit(signer types.AccountID, key types.PublicKey, batch *promise.Batch) (*Outcome, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if batch.Callback != nil {
		return nil, reverts.New(reverts.InvalidArgument, "a transaction can't carry a continuation")
	}
	if len(batch.Actions) == 0 {
		return nil, reverts.New(reverts.InvalidArgument, "a transaction needs at least one action")
	}
	acc, err := h.accounts.Get(signer)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, reverts.Newf(reverts.NotFound, "signer %s does not exist", signer)
	}
	ak, ok := acc.Key(key)
	if !ok {
		return nil, reverts.Newf(reverts.Unauthorized, "signer %s has no access key %s", signer, key)
	}
	deposit, err := batch.Deposit()
	if err != nil {
		return nil, reverts.Arithmetic(err)
	}
	if !ak.Permission.IsFullAccess() {
		call, ok := batch.Actions[0].(promise.FunctionCall)
		if len(batch.Actions) != 1 || !ok {
			return nil, reverts.New(reverts.Unauthorized, "a function call access key can only sign one function call")
		}
		if !deposit.IsZero() {
			return nil, reverts.New(reverts.Unauthorized, "a function call access key can't attach a deposit")
		}
		if !ak.Permission.Allows(batch.Receiver, call.Method) {
			return nil, reverts.Newf(reverts.Unauthorized, "access key %s doesn't allow %s on %s", key, call.Method, batch.Receiver)
		}
	}
	if acc.Amount.Lt(deposit) {
		return nil, reverts.Newf(reverts.InsufficientBalance,
			"signer %s has %s, the transaction needs %s", signer, acc.Amount, deposit)
	}
	if acc.Amount, err = acc.Amount.Sub(deposit); err != nil {
		return nil, reverts.Arithmetic(err)
	}
	if err := h.commitAccounts(map[types.AccountID]*Account{signer: acc}); err != nil {
		return nil, err
	}

	queue := []*receipt{{
		predecessor: signer,
		receiver:    batch.Receiver,
		signer:      signer,
		signerKey:   key,
		actions:     batch.Actions,
	}}
	outcome := &Outcome{}
	for len(queue) > 0 {
		if len(outcome.Receipts) >= h.opts.MaxReceipts {
			return outcome, errors.Errorf("receipt limit %d exceeded", h.opts.MaxReceipts)
		}
		r := queue[0]
		queue = queue[1:]
		ro, spawned, err := h.apply(r)
		if err != nil {
			return outcome, err
		}
		outcome.Receipts = append(outcome.Receipts, ro)
		queue = append(queue, spawned...)
	}
	return outcome, nil
}
