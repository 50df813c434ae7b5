// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package contracts

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/shardstake/contracts/api/utils"
	"github.com/shardstake/contracts/builtin"
	"github.com/shardstake/contracts/host"
	"github.com/shardstake/contracts/types"
)

// maxArgsSize bounds the request body of a view call.
const maxArgsSize = 64 * 1024

// Method describes one entry point of a contract.
type Method struct {
	Name    string `json:"name"`
	View    bool   `json:"view,omitempty"`
	Payable bool   `json:"payable,omitempty"`
}

// Code describes a deployable contract code.
type Code struct {
	Code    string    `json:"code"`
	Methods []*Method `json:"methods"`
}

type Contracts struct {
	host *host.Host
}

func New(h *host.Host) *Contracts {
	return &Contracts{host: h}
}

func (c *Contracts) handleGetCodes(w http.ResponseWriter, _ *http.Request) error {
	codes := make([]*Code, 0)
	for _, name := range builtin.Codes() {
		contract, _ := builtin.Lookup(name)
		code := &Code{Code: name}
		for _, m := range contract.Methods() {
			code.Methods = append(code.Methods, &Method{Name: m.Name, View: m.View, Payable: m.Payable})
		}
		codes = append(codes, code)
	}
	return utils.WriteJSON(w, codes)
}

// handleView runs a view method. The request body, if any, is the JSON arguments object.
func (c *Contracts) handleView(w http.ResponseWriter, req *http.Request) error {
	vars := mux.Vars(req)
	id := types.AccountID(vars["id"])
	if !id.IsValid() {
		return utils.BadRequest(errors.Errorf("invalid account id %q", id))
	}

	body, err := io.ReadAll(io.LimitReader(req.Body, maxArgsSize+1))
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if len(body) > maxArgsSize {
		return utils.HTTPError(errors.New("arguments too large"), http.StatusRequestEntityTooLarge)
	}
	var args json.RawMessage
	if len(body) > 0 {
		if !json.Valid(body) {
			return utils.BadRequest(errors.New("body: invalid JSON"))
		}
		args = body
	}

	result, err := c.host.View(id, vars["method"], args)
	if err != nil {
		return err
	}
	return utils.WriteRawJSON(w, result)
}

func (c *Contracts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /contracts").
		HandlerFunc(utils.WrapHandlerFunc(c.handleGetCodes))
	sub.Path("/{id}/view/{method}").
		Methods(http.MethodPost).
		Name("POST /contracts/{id}/view/{method}").
		HandlerFunc(utils.WrapHandlerFunc(c.handleView))
}
