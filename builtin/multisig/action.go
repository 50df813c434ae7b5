// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package multisig

import (
	"encoding/json"
	"io"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/shardstake/contracts/promise"
	"github.com/shardstake/contracts/types"
)

// ActionKind tags a request action.
type ActionKind uint8

const (
	TransferKind ActionKind = iota + 1
	CreateAccountKind
	DeployContractKind
	AddKeyKind
	DeleteKeyKind
	FunctionCallKind
	SetNumConfirmationsKind
	SetActiveRequestsLimitKind
)

var kindNames = map[ActionKind]string{
	TransferKind:               "Transfer",
	CreateAccountKind:          "CreateAccount",
	DeployContractKind:         "DeployContract",
	AddKeyKind:                 "AddKey",
	DeleteKeyKind:              "DeleteKey",
	FunctionCallKind:           "FunctionCall",
	SetNumConfirmationsKind:    "SetNumConfirmations",
	SetActiveRequestsLimitKind: "SetActiveRequestsLimit",
}

func (k ActionKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Action is one step of a request.
type Action interface {
	Kind() ActionKind
	action()
}

type Transfer struct {
	Amount types.Balance `json:"amount"`
}

type CreateAccount struct{}

type DeployContract struct {
	Code []byte `json:"code"`
}

type AddKey struct {
	PublicKey  types.PublicKey    `json:"public_key"`
	Permission promise.Permission `json:"permission"`
}

type DeleteKey struct {
	PublicKey types.PublicKey `json:"public_key"`
}

type FunctionCall struct {
	MethodName string        `json:"method_name"`
	Args       []byte        `json:"args"`
	Deposit    types.Balance `json:"deposit"`
	Gas        types.Gas     `json:"gas"`
}

// SetNumConfirmations changes the confirmation threshold. It must be the only action of a request.
type SetNumConfirmations struct {
	NumConfirmations uint32 `json:"num_confirmations"`
}

// SetActiveRequestsLimit changes the per key request limit. It must be the only action of a request.
type SetActiveRequestsLimit struct {
	ActiveRequestsLimit uint32 `json:"active_requests_limit"`
}

func (Transfer) Kind() ActionKind               { return TransferKind }
func (CreateAccount) Kind() ActionKind          { return CreateAccountKind }
func (DeployContract) Kind() ActionKind         { return DeployContractKind }
func (AddKey) Kind() ActionKind                 { return AddKeyKind }
func (DeleteKey) Kind() ActionKind              { return DeleteKeyKind }
func (FunctionCall) Kind() ActionKind           { return FunctionCallKind }
func (SetNumConfirmations) Kind() ActionKind    { return SetNumConfirmationsKind }
func (SetActiveRequestsLimit) Kind() ActionKind { return SetActiveRequestsLimitKind }

func (Transfer) action()               {}
func (CreateAccount) action()          {}
func (DeployContract) action()         {}
func (AddKey) action()                 {}
func (DeleteKey) action()              {}
func (FunctionCall) action()           {}
func (SetNumConfirmations) action()    {}
func (SetActiveRequestsLimit) action() {}

func decodeAs[T Action](payload []byte, unmarshal func([]byte, any) error) (Action, error) {
	var v T
	if err := unmarshal(payload, &v); err != nil {
		return nil, err
	}
	return v, nil
}

var decoders = map[ActionKind]func([]byte, func([]byte, any) error) (Action, error){
	TransferKind:               decodeAs[Transfer],
	CreateAccountKind:          decodeAs[CreateAccount],
	DeployContractKind:         decodeAs[DeployContract],
	AddKeyKind:                 decodeAs[AddKey],
	DeleteKeyKind:              decodeAs[DeleteKey],
	FunctionCallKind:           decodeAs[FunctionCall],
	SetNumConfirmationsKind:    decodeAs[SetNumConfirmations],
	SetActiveRequestsLimitKind: decodeAs[SetActiveRequestsLimit],
}

func kindByName(name string) (ActionKind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// Actions is an ordered action list. It is encoded as tagged entries,
// {"type": "<Kind>", ...fields} in JSON and [kind, payload] in RLP.
type Actions []Action

type taggedAction struct {
	Kind    ActionKind
	Payload []byte
}

func (a Actions) EncodeRLP(w io.Writer) error {
	entries := make([]taggedAction, 0, len(a))
	for _, act := range a {
		payload, err := rlp.EncodeToBytes(act)
		if err != nil {
			return err
		}
		entries = append(entries, taggedAction{act.Kind(), payload})
	}
	return rlp.Encode(w, entries)
}

func (a *Actions) DecodeRLP(s *rlp.Stream) error {
	var entries []taggedAction
	if err := s.Decode(&entries); err != nil {
		return err
	}
	actions := make(Actions, 0, len(entries))
	for _, e := range entries {
		decode, ok := decoders[e.Kind]
		if !ok {
			return errors.Errorf("unknown action kind %d", e.Kind)
		}
		act, err := decode(e.Payload, rlp.DecodeBytes)
		if err != nil {
			return errors.Wrapf(err, "decode %v action", e.Kind)
		}
		actions = append(actions, act)
	}
	*a = actions
	return nil
}

func (a Actions) MarshalJSON() ([]byte, error) {
	out := make([]map[string]json.RawMessage, 0, len(a))
	for _, act := range a {
		body, err := json.Marshal(act)
		if err != nil {
			return nil, err
		}
		fields := make(map[string]json.RawMessage)
		if err := json.Unmarshal(body, &fields); err != nil {
			return nil, err
		}
		tag, err := json.Marshal(act.Kind().String())
		if err != nil {
			return nil, err
		}
		fields["type"] = tag
		out = append(out, fields)
	}
	return json.Marshal(out)
}

func (a *Actions) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}
	actions := make(Actions, 0, len(raws))
	for _, raw := range raws {
		var head struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(raw, &head); err != nil {
			return err
		}
		kind, ok := kindByName(head.Type)
		if !ok {
			return errors.Errorf("unknown action type %q", head.Type)
		}
		act, err := decoders[kind](raw, json.Unmarshal)
		if err != nil {
			return errors.Wrapf(err, "decode %s action", head.Type)
		}
		actions = append(actions, act)
	}
	*a = actions
	return nil
}

// Request is a bundle of actions targeting one receiver.
type Request struct {
	ReceiverID types.AccountID `json:"receiver_id"`
	Actions    Actions         `json:"actions"`
}

// RequestWithSigner records who proposed a request and when.
type RequestWithSigner struct {
	Request        Request         `json:"request"`
	SignerPK       types.PublicKey `json:"signer_pk"`
	AddedTimestamp types.Timestamp `json:"added_timestamp"`
}
