// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/shardstake/contracts/api/utils"
	"github.com/shardstake/contracts/host"
	"github.com/shardstake/contracts/types"
)

// Account is the response of GET /accounts/{id}.
type Account struct {
	ID types.AccountID `json:"id"`
	*host.Account
}

// Validators is the response of GET /accounts/validators.
type Validators struct {
	EpochHeight types.EpochHeight `json:"epoch_height"`
	TotalStake  types.Balance     `json:"total_stake"`
}

type Accounts struct {
	host *host.Host
}

func New(h *host.Host) *Accounts {
	return &Accounts{host: h}
}

func (a *Accounts) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	id := types.AccountID(mux.Vars(req)["id"])
	if !id.IsValid() {
		return utils.BadRequest(errors.Errorf("invalid account id %q", id))
	}
	acc, err := a.host.Account(id)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Account{ID: id, Account: acc})
}

func (a *Accounts) handleGetValidators(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, &Validators{
		EpochHeight: a.host.EpochHeight(),
		TotalStake:  a.host.TotalValidatorStake(),
	})
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/validators").
		Methods(http.MethodGet).
		Name("GET /accounts/validators").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetValidators))
	sub.Path("/{id}").
		Methods(http.MethodGet).
		Name("GET /accounts/{id}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetAccount))
}
