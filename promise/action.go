// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package promise

import (
	"bytes"
	"encoding/json"

	"github.com/shardstake/contracts/types"
)

// ActionKind tags an outbound action.
type ActionKind uint8

const (
	CreateAccountKind ActionKind = iota + 1
	DeployContractKind
	FunctionCallKind
	TransferKind
	StakeKind
	AddKeyKind
	DeleteKeyKind
)

func (k ActionKind) String() string {
	switch k {
	case CreateAccountKind:
		return "CreateAccount"
	case DeployContractKind:
		return "DeployContract"
	case FunctionCallKind:
		return "FunctionCall"
	case TransferKind:
		return "Transfer"
	case StakeKind:
		return "Stake"
	case AddKeyKind:
		return "AddKey"
	case DeleteKeyKind:
		return "DeleteKey"
	default:
		return "Unknown"
	}
}

// Action is one step of an outbound batch. The set of actions is closed.
type Action interface {
	Kind() ActionKind
	action()
}

type CreateAccount struct{}

type DeployContract struct {
	Code []byte `json:"code"`
}

type FunctionCall struct {
	Method  string        `json:"method_name"`
	Args    []byte        `json:"args"`
	Deposit types.Balance `json:"deposit"`
	Gas     types.Gas     `json:"gas"`
}

type Transfer struct {
	Deposit types.Balance `json:"deposit"`
}

// Stake sets the validator stake of the receiving account.
type Stake struct {
	Stake     types.Balance   `json:"stake"`
	PublicKey types.PublicKey `json:"public_key"`
}

type AddKey struct {
	PublicKey  types.PublicKey `json:"public_key"`
	Permission Permission      `json:"permission"`
}

type DeleteKey struct {
	PublicKey types.PublicKey `json:"public_key"`
}

func (CreateAccount) Kind() ActionKind  { return CreateAccountKind }
func (DeployContract) Kind() ActionKind { return DeployContractKind }
func (FunctionCall) Kind() ActionKind   { return FunctionCallKind }
func (Transfer) Kind() ActionKind       { return TransferKind }
func (Stake) Kind() ActionKind          { return StakeKind }
func (AddKey) Kind() ActionKind         { return AddKeyKind }
func (DeleteKey) Kind() ActionKind      { return DeleteKeyKind }

func (CreateAccount) action()  {}
func (DeployContract) action() {}
func (FunctionCall) action()   {}
func (Transfer) action()       {}
func (Stake) action()          {}
func (AddKey) action()         {}
func (DeleteKey) action()      {}

// FunctionCallPermission restricts an access key to calls on one receiver.
// A nil Allowance means the key may spend on gas without limit.
type FunctionCallPermission struct {
	Allowance   *types.Balance  `json:"allowance,omitempty" rlp:"nil"`
	Receiver    types.AccountID `json:"receiver_id"`
	MethodNames []string        `json:"method_names"`
}

// Permission is either full access or a function call permission.
// In JSON full access is null and a function call permission is its object.
type Permission struct {
	FunctionCall *FunctionCallPermission `rlp:"nil"`
}

// FullAccess grants every action on the account.
func FullAccess() Permission {
	return Permission{}
}

func FunctionCallAccess(p FunctionCallPermission) Permission {
	return Permission{FunctionCall: &p}
}

func (p Permission) IsFullAccess() bool {
	return p.FunctionCall == nil
}

// Allows reports whether a key with this permission may call method on receiver.
func (p Permission) Allows(receiver types.AccountID, method string) bool {
	if p.IsFullAccess() {
		return true
	}
	if p.FunctionCall.Receiver != receiver {
		return false
	}
	if len(p.FunctionCall.MethodNames) == 0 {
		return true
	}
	for _, m := range p.FunctionCall.MethodNames {
		if m == method {
			return true
		}
	}
	return false
}

func (p Permission) MarshalJSON() ([]byte, error) {
	if p.FunctionCall == nil {
		return []byte("null"), nil
	}
	return json.Marshal(p.FunctionCall)
}

func (p *Permission) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		p.FunctionCall = nil
		return nil
	}
	var fc FunctionCallPermission
	if err := json.Unmarshal(data, &fc); err != nil {
		return err
	}
	p.FunctionCall = &fc
	return nil
}
