// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package multisig

import (
	"github.com/shardstake/contracts/types"
	"github.com/shardstake/contracts/xenv"
)

type requestIDArgs struct {
	RequestID RequestID `json:"request_id"`
}

type requestArgs struct {
	Request Request `json:"request"`
}

func mutate(op func(m *MultiSig, env *xenv.Environment) (any, error)) func(env *xenv.Environment) (any, error) {
	return func(env *xenv.Environment) (any, error) {
		m, err := load(env)
		if err != nil {
			return nil, err
		}
		out, err := op(m, env)
		if err != nil {
			return nil, err
		}
		if err := m.save(); err != nil {
			return nil, err
		}
		return out, nil
	}
}

func view(op func(m *MultiSig, env *xenv.Environment) (any, error)) func(env *xenv.Environment) (any, error) {
	return func(env *xenv.Environment) (any, error) {
		m, err := load(env)
		if err != nil {
			return nil, err
		}
		return op(m, env)
	}
}

// Contract is the multisig method table.
var Contract = xenv.NewContract(Code, []*xenv.Method{
	{Name: "new", Run: func(env *xenv.Environment) (any, error) {
		var args struct {
			NumConfirmations uint32 `json:"num_confirmations"`
		}
		env.ParseArgs(&args)
		return nil, Init(env, args.NumConfirmations)
	}},
	{Name: "add_request", Run: mutate(func(m *MultiSig, env *xenv.Environment) (any, error) {
		var args requestArgs
		env.ParseArgs(&args)
		return m.AddRequest(args.Request)
	})},
	{Name: "add_request_and_confirm", Run: mutate(func(m *MultiSig, env *xenv.Environment) (any, error) {
		var args requestArgs
		env.ParseArgs(&args)
		id, err := m.AddRequest(args.Request)
		if err != nil {
			return nil, err
		}
		if _, err := m.Confirm(id); err != nil {
			return nil, err
		}
		return id, nil
	})},
	{Name: "delete_request", Run: mutate(func(m *MultiSig, env *xenv.Environment) (any, error) {
		var args requestIDArgs
		env.ParseArgs(&args)
		return m.DeleteRequest(args.RequestID)
	})},
	{Name: "confirm", Run: mutate(func(m *MultiSig, env *xenv.Environment) (any, error) {
		var args requestIDArgs
		env.ParseArgs(&args)
		return m.Confirm(args.RequestID)
	})},

	// views
	{Name: "get_request", View: true, Run: view(func(m *MultiSig, env *xenv.Environment) (any, error) {
		var args requestIDArgs
		env.ParseArgs(&args)
		req, err := m.state.Ledger.Request(args.RequestID)
		if err != nil {
			return nil, err
		}
		return req.Request, nil
	})},
	{Name: "get_num_requests_pk", View: true, Run: view(func(m *MultiSig, env *xenv.Environment) (any, error) {
		var args struct {
			PublicKey types.PublicKey `json:"public_key"`
		}
		env.ParseArgs(&args)
		return m.state.Ledger.NumRequests(args.PublicKey), nil
	})},
	{Name: "list_request_ids", View: true, Run: view(func(m *MultiSig, _ *xenv.Environment) (any, error) {
		return m.state.Ledger.RequestIDs(), nil
	})},
	{Name: "get_confirmations", View: true, Run: view(func(m *MultiSig, env *xenv.Environment) (any, error) {
		var args requestIDArgs
		env.ParseArgs(&args)
		return m.state.Ledger.Confirmations(args.RequestID)
	})},
	{Name: "get_num_confirmations", View: true, Run: view(func(m *MultiSig, _ *xenv.Environment) (any, error) {
		return m.state.NumConfirmations, nil
	})},
	{Name: "get_request_nonce", View: true, Run: view(func(m *MultiSig, _ *xenv.Environment) (any, error) {
		return m.state.RequestNonce, nil
	})},
})
