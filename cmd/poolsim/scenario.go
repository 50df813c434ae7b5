// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"encoding/json"
	"io"
	"os"
	"reflect"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/shardstake/contracts/builtin/reverts"
	"github.com/shardstake/contracts/host"
	"github.com/shardstake/contracts/types"
)

// Scenario is a genesis and a sequence of steps applied to a host.
type Scenario struct {
	Options ScenarioOptions       `yaml:"options"`
	Genesis []host.GenesisAccount `yaml:"genesis"`
	Steps   []*Step               `yaml:"steps"`
}

type ScenarioOptions struct {
	MinValidatorStake *types.Balance `yaml:"min_validator_stake"`
	MaxReceipts       int            `yaml:"max_receipts"`
}

// Step holds exactly one action.
type Step struct {
	Name         string        `yaml:"name"`
	Call         *CallStep     `yaml:"call"`
	View         *ViewStep     `yaml:"view"`
	AdvanceEpoch *EpochStep    `yaml:"advance_epoch"`
	AdvanceTime  time.Duration `yaml:"advance_time"`
}

type CallStep struct {
	Signer types.AccountID `yaml:"signer"`
	// Key defaults to the first full access key of the signer.
	Key      types.PublicKey `yaml:"key"`
	Receiver types.AccountID `yaml:"receiver"`
	Method   string          `yaml:"method"`
	Args     any             `yaml:"args"`
	Deposit  types.Balance   `yaml:"deposit"`
	// Expect is "success" or the name of a revert code. Empty accepts any outcome.
	Expect string `yaml:"expect"`
}

type ViewStep struct {
	Account types.AccountID `yaml:"account"`
	Method  string          `yaml:"method"`
	Args    any             `yaml:"args"`
	// Expect, if set, must equal the decoded result.
	Expect any `yaml:"expect"`
}

type EpochStep struct {
	Rewards map[types.AccountID]types.Balance `yaml:"rewards"`
}

// StepResult is printed as one JSON line per step.
type StepResult struct {
	Step        int               `json:"step"`
	Name        string            `json:"name,omitempty"`
	EpochHeight types.EpochHeight `json:"epoch_height"`
	Timestamp   types.Timestamp   `json:"timestamp"`
	Outcome     *host.Outcome     `json:"outcome,omitempty"`
	View        json.RawMessage   `json:"view,omitempty"`
}

func loadScenario(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open scenario")
	}
	defer f.Close()

	var s Scenario
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, errors.Wrap(err, "decode scenario")
	}
	for i, step := range s.Steps {
		if err := step.validate(); err != nil {
			return nil, errors.WithMessagef(err, "step %d", i)
		}
	}
	return &s, nil
}

func (s *Step) validate() error {
	n := 0
	if s.Call != nil {
		n++
	}
	if s.View != nil {
		n++
	}
	if s.AdvanceEpoch != nil {
		n++
	}
	if s.AdvanceTime != 0 {
		n++
	}
	if n != 1 {
		return errors.Errorf("expected exactly one action, got %d", n)
	}
	if s.Call != nil && s.Call.Expect != "" && s.Call.Expect != "success" {
		if _, ok := reverts.ParseCode(s.Call.Expect); !ok {
			return errors.Errorf("unknown revert code %q", s.Call.Expect)
		}
	}
	return nil
}

// apply adjusts opts with the options set in the scenario.
func (o ScenarioOptions) apply(opts host.Options) host.Options {
	if o.MinValidatorStake != nil {
		opts.MinValidatorStake = *o.MinValidatorStake
	}
	if o.MaxReceipts > 0 {
		opts.MaxReceipts = o.MaxReceipts
	}
	return opts
}

type runner struct {
	h   *host.Host
	enc *json.Encoder
}

func newRunner(h *host.Host, w io.Writer) *runner {
	return &runner{h: h, enc: json.NewEncoder(w)}
}

// genesis creates the scenario accounts unless a previous run already did.
func (r *runner) genesis(accounts []host.GenesisAccount) error {
	if len(accounts) == 0 {
		return nil
	}
	if _, err := r.h.Account(accounts[0].ID); err == nil {
		logger.Info("genesis already applied", "account", accounts[0].ID)
		return nil
	} else if !reverts.Is(err, reverts.NotFound) {
		return err
	}
	return r.h.Genesis(accounts...)
}

func (r *runner) run(steps []*Step) error {
	for i, step := range steps {
		res := &StepResult{Step: i, Name: step.Name}
		if err := r.step(step, res); err != nil {
			if step.Name != "" {
				return errors.WithMessagef(err, "step %d (%s)", i, step.Name)
			}
			return errors.WithMessagef(err, "step %d", i)
		}
		res.EpochHeight = r.h.EpochHeight()
		res.Timestamp = r.h.Timestamp()
		if err := r.enc.Encode(res); err != nil {
			return err
		}
	}
	return nil
}

func (r *runner) step(step *Step, res *StepResult) error {
	switch {
	case step.Call != nil:
		out, err := r.call(step.Call)
		if err != nil {
			return err
		}
		res.Outcome = out
		return checkOutcome(step.Call.Expect, out)
	case step.View != nil:
		data, err := r.h.View(step.View.Account, step.View.Method, step.View.Args)
		if err != nil {
			return err
		}
		res.View = data
		if step.View.Expect != nil {
			return checkView(step.View.Expect, data)
		}
		return nil
	case step.AdvanceEpoch != nil:
		return r.h.AdvanceEpoch(step.AdvanceEpoch.Rewards)
	default:
		return r.h.AdvanceTime(step.AdvanceTime)
	}
}

func (r *runner) call(c *CallStep) (*host.Outcome, error) {
	key := c.Key
	if key.IsEmpty() {
		acc, err := r.h.Account(c.Signer)
		if err != nil {
			return nil, err
		}
		for _, k := range acc.Keys {
			if k.Permission.IsFullAccess() {
				key = k.PublicKey
				break
			}
		}
		if key.IsEmpty() {
			return nil, errors.Errorf("%s has no full access key", c.Signer)
		}
	}
	out, err := r.h.Call(c.Signer, key, c.Receiver, c.Method, c.Args, c.Deposit)
	if err != nil {
		return nil, err
	}
	if failure := out.Failure(); failure != nil {
		logger.Debug("call failed", "receiver", c.Receiver, "method", c.Method, "err", failure)
	}
	return out, nil
}

func checkOutcome(expect string, out *host.Outcome) error {
	failure := out.Failure()
	switch expect {
	case "":
		return nil
	case "success":
		if failure != nil {
			return errors.Errorf("expected success, got %v", failure)
		}
		return nil
	}
	code, _ := reverts.ParseCode(expect)
	if !reverts.Is(failure, code) {
		return errors.Errorf("expected %s, got %v", expect, failure)
	}
	return nil
}

func checkView(expect any, data []byte) error {
	// round trip so that both sides use the JSON representation
	encoded, err := json.Marshal(expect)
	if err != nil {
		return errors.Wrap(err, "encode expected view")
	}
	var want, got any
	if err := json.Unmarshal(encoded, &want); err != nil {
		return err
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &got); err != nil {
			return errors.Wrap(err, "decode view")
		}
	}
	if !reflect.DeepEqual(want, got) {
		return errors.Errorf("expected view %s, got %s", encoded, data)
	}
	return nil
}
