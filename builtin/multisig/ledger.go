// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package multisig

import (
	"io"
	"slices"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/shardstake/contracts/builtin/reverts"
	"github.com/shardstake/contracts/types"
)

// RequestID identifies a request. Ids are never reused.
type RequestID uint32

// Ledger keeps pending requests, their confirmations and the number of
// pending requests per signer key.
type Ledger struct {
	requests      map[RequestID]RequestWithSigner
	confirmations map[RequestID][]types.PublicKey
	numRequestsPK map[types.PublicKey]uint32
}

func NewLedger() *Ledger {
	return &Ledger{
		requests:      make(map[RequestID]RequestWithSigner),
		confirmations: make(map[RequestID][]types.PublicKey),
		numRequestsPK: make(map[types.PublicKey]uint32),
	}
}

// Add stores a request with an empty confirmation set.
func (l *Ledger) Add(id RequestID, req RequestWithSigner) {
	l.requests[id] = req
	l.confirmations[id] = nil
}

func (l *Ledger) Request(id RequestID) (RequestWithSigner, error) {
	req, ok := l.requests[id]
	if !ok {
		return RequestWithSigner{}, reverts.Newf(reverts.RequestNotFound, "no such request %d", id)
	}
	return req, nil
}

func (l *Ledger) Confirmations(id RequestID) ([]types.PublicKey, error) {
	if _, ok := l.requests[id]; !ok {
		return nil, reverts.Newf(reverts.RequestNotFound, "no such request %d", id)
	}
	return append([]types.PublicKey{}, l.confirmations[id]...), nil
}

func (l *Ledger) IsConfirmedBy(id RequestID, pk types.PublicKey) bool {
	return slices.Contains(l.confirmations[id], pk)
}

// Confirm adds pk to the confirmation set of id.
func (l *Ledger) Confirm(id RequestID, pk types.PublicKey) error {
	if _, ok := l.requests[id]; !ok {
		return reverts.Newf(reverts.RequestNotFound, "no such request %d", id)
	}
	if l.IsConfirmedBy(id, pk) {
		return reverts.New(reverts.AlreadyConfirmed, "already confirmed this request with this key")
	}
	l.confirmations[id] = append(l.confirmations[id], pk)
	return nil
}

// Remove deletes a request with its confirmations and decrements the
// signer's pending count, which never drops below zero. A missing count stays missing.
func (l *Ledger) Remove(id RequestID) (RequestWithSigner, error) {
	req, ok := l.requests[id]
	if !ok {
		return RequestWithSigner{}, reverts.Newf(reverts.RequestNotFound, "no such request %d", id)
	}
	delete(l.confirmations, id)
	delete(l.requests, id)
	if n := l.numRequestsPK[req.SignerPK]; n > 0 {
		l.numRequestsPK[req.SignerPK] = n - 1
	}
	return req, nil
}

// PurgeSigner removes every request signed by pk and its pending counter.
func (l *Ledger) PurgeSigner(pk types.PublicKey) []RequestID {
	var purged []RequestID
	for _, id := range l.RequestIDs() {
		if l.requests[id].SignerPK == pk {
			delete(l.confirmations, id)
			delete(l.requests, id)
			purged = append(purged, id)
		}
	}
	delete(l.numRequestsPK, pk)
	return purged
}

func (l *Ledger) NumRequests(pk types.PublicKey) uint32 {
	return l.numRequestsPK[pk]
}

func (l *Ledger) SetNumRequests(pk types.PublicKey, n uint32) {
	l.numRequestsPK[pk] = n
}

// RequestIDs returns the ids of pending requests in ascending order.
func (l *Ledger) RequestIDs() []RequestID {
	ids := make([]RequestID, 0, len(l.requests))
	for id := range l.requests {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

type requestEntry struct {
	ID            RequestID
	Request       RequestWithSigner
	Confirmations []types.PublicKey
}

type counterEntry struct {
	PK    types.PublicKey
	Count uint32
}

type ledgerRLP struct {
	Requests []requestEntry
	Counters []counterEntry
}

// EncodeRLP implements rlp.Encoder. Entries are sorted so equal ledgers encode equally.
func (l *Ledger) EncodeRLP(w io.Writer) error {
	var enc ledgerRLP
	for _, id := range l.RequestIDs() {
		enc.Requests = append(enc.Requests, requestEntry{id, l.requests[id], l.confirmations[id]})
	}
	for pk, n := range l.numRequestsPK {
		enc.Counters = append(enc.Counters, counterEntry{pk, n})
	}
	slices.SortFunc(enc.Counters, func(a, b counterEntry) int {
		switch {
		case a.PK < b.PK:
			return -1
		case a.PK > b.PK:
			return 1
		}
		return 0
	})
	return rlp.Encode(w, &enc)
}

// DecodeRLP implements rlp.Decoder.
func (l *Ledger) DecodeRLP(s *rlp.Stream) error {
	var dec ledgerRLP
	if err := s.Decode(&dec); err != nil {
		return err
	}
	ledger := NewLedger()
	for _, e := range dec.Requests {
		ledger.requests[e.ID] = e.Request
		ledger.confirmations[e.ID] = e.Confirmations
	}
	for _, c := range dec.Counters {
		ledger.numRequestsPK[c.PK] = c.Count
	}
	*l = *ledger
	return nil
}
