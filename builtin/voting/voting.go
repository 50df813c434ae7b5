// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package voting tallies validator votes weighted by their current stake.
// The vote passes once the voted stake exceeds two thirds of the total validator stake.
package voting

import (
	"io"
	"slices"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/shardstake/contracts/builtin/reverts"
	"github.com/shardstake/contracts/builtin/slot"
	"github.com/shardstake/contracts/types"
	"github.com/shardstake/contracts/xenv"
)

const Code = "voting"

type vote struct {
	AccountID types.AccountID
	Stake     types.Balance
}

// Votes maps validators to the stake they voted with.
type Votes map[types.AccountID]types.Balance

func (v Votes) EncodeRLP(w io.Writer) error {
	entries := make([]vote, 0, len(v))
	for id, stake := range v {
		entries = append(entries, vote{id, stake})
	}
	slices.SortFunc(entries, func(a, b vote) int {
		switch {
		case a.AccountID < b.AccountID:
			return -1
		case a.AccountID > b.AccountID:
			return 1
		}
		return 0
	})
	return rlp.Encode(w, entries)
}

func (v *Votes) DecodeRLP(s *rlp.Stream) error {
	var entries []vote
	if err := s.Decode(&entries); err != nil {
		return err
	}
	votes := make(Votes, len(entries))
	for _, e := range entries {
		votes[e.AccountID] = e.Stake
	}
	*v = votes
	return nil
}

type State struct {
	Votes           Votes
	TotalVotedStake types.Balance
	// Result is the timestamp the vote passed at, zero while undecided.
	Result          types.Timestamp
	LastEpochHeight types.EpochHeight
}

type Voting struct {
	env   *xenv.Environment
	slot  *slot.Raw[*State]
	state *State
}

func load(env *xenv.Environment) (*Voting, error) {
	v := &Voting{env: env, slot: slot.NewRaw[*State](env.Storage(), "state")}
	state, exists, err := v.slot.Get()
	if err != nil {
		return nil, errors.Wrap(err, "load voting state")
	}
	if !exists {
		return nil, reverts.New(reverts.NotInitialized, "the contract is not initialized")
	}
	if state.Votes == nil {
		state.Votes = make(Votes)
	}
	v.state = state
	return v, nil
}

func (v *Voting) save() error {
	return errors.Wrap(v.slot.Set(v.state), "save voting state")
}

func Init(env *xenv.Environment) error {
	raw := slot.NewRaw[*State](env.Storage(), "state")
	if _, exists, err := raw.Get(); err != nil {
		return errors.Wrap(err, "load voting state")
	} else if exists {
		return reverts.New(reverts.AlreadyInitialized, "already initialized")
	}
	return errors.Wrap(raw.Set(&State{Votes: make(Votes)}), "save voting state")
}

func (v *Voting) decided() bool {
	return v.state.Result != 0
}

// Ping reweighs all votes by the current stake when the epoch changed.
func (v *Voting) Ping() error {
	if v.decided() {
		return reverts.New(reverts.InvalidArgument, "voting has already ended")
	}
	epoch := v.env.EpochHeight()
	if epoch == v.state.LastEpochHeight {
		return nil
	}
	total := types.ZeroBalance
	votes := make(Votes, len(v.state.Votes))
	for id := range v.state.Votes {
		stake := v.env.ValidatorStake(id)
		var err error
		if total, err = total.Add(stake); err != nil {
			return reverts.Arithmetic(err)
		}
		if !stake.IsZero() {
			votes[id] = stake
		}
	}
	v.state.Votes = votes
	v.state.TotalVotedStake = total
	// the threshold is checked once, after every vote was reweighed
	if err := v.checkResult(); err != nil {
		return err
	}
	v.state.LastEpochHeight = epoch
	return nil
}

func (v *Voting) checkResult() error {
	twoThirds, err := v.env.TotalValidatorStake().MulDiv(types.NewBalance(2), types.NewBalance(3))
	if err != nil {
		return reverts.Arithmetic(err)
	}
	if v.state.TotalVotedStake.Gt(twoThirds) {
		v.state.Result = v.env.Timestamp()
		if v.state.Result == 0 {
			v.state.Result = 1
		}
	}
	return nil
}

// Vote records the caller's vote with its current validator stake, or withdraws it.
func (v *Voting) Vote(isVote bool) error {
	if err := v.Ping(); err != nil {
		return err
	}
	if v.decided() {
		return nil
	}
	id := v.env.Predecessor()
	stake := types.ZeroBalance
	if isVote {
		stake = v.env.ValidatorStake(id)
		if stake.IsZero() {
			return reverts.Newf(reverts.Unauthorized, "%s is not a validator", id)
		}
	}
	voted := v.state.Votes[id]
	delete(v.state.Votes, id)
	if voted.Gt(v.state.TotalVotedStake) {
		return reverts.Newf(reverts.InvariantViolation,
			"voted stake %s is more than total voted stake %s", voted, v.state.TotalVotedStake)
	}
	total, err := v.state.TotalVotedStake.Add(stake)
	if err != nil {
		return reverts.Arithmetic(err)
	}
	if v.state.TotalVotedStake, err = total.Sub(voted); err != nil {
		return reverts.Arithmetic(err)
	}
	if !stake.IsZero() {
		v.state.Votes[id] = stake
		return v.checkResult()
	}
	return nil
}
