// MIT License
//
// Copyright (c) 2025-2026 icx-labs
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package service

import (
	"context"
	"encoding/hex"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
	"github.com/tochemey/goakt/v4/log"

	"github.com/icx-labs/localic/backend"
	"github.com/icx-labs/localic/domain"
)

// LedgerService exposes the token operations over HTTP.
type LedgerService struct {
	backend *backend.Backend
	server  *httpServer
}

// NewLedgerService creates the ledger gateway on the given port.
func NewLedgerService(b *backend.Backend, port int, logger log.Logger) *LedgerService {
	return &LedgerService{
		backend: b,
		server: &httpServer{
			name:   "ledger service",
			port:   port,
			logger: logger,
		},
	}
}

type transferRequest struct {
	Caller    string `json:"caller"`
	To        string `json:"to"`
	AmountE8s uint64 `json:"amount_e8s"`
	PublicKey string `json:"public_key"`
	Signature string `json:"signature"`
}

// transferSigningPayload is the byte string a caller signs to authorize a
// transfer. Binding the destination and amount keeps a captured signature
// from being replayed against a different request.
func transferSigningPayload(to string, amountE8s uint64) []byte {
	return fmt.Appendf(nil, "icp-transfer|%s|%d", to, amountE8s)
}

type icrc1TransferRequest struct {
	To        string `json:"to"`
	AmountE8s uint64 `json:"amount_e8s"`
}

type balanceResponse struct {
	BalanceE8s uint64 `json:"balance_e8s"`
}

type feeResponse struct {
	FeeE8s uint64 `json:"fee_e8s"`
}

type rateResponse struct {
	Base     string `json:"base"`
	Quote    string `json:"quote"`
	Rate     uint64 `json:"rate"`
	Decimals uint32 `json:"decimals"`
}

// Start begins serving in the background.
func (s *LedgerService) Start() {
	s.server.start(s.Handler())
}

// Stop drains the gateway.
func (s *LedgerService) Stop(ctx context.Context) error {
	return s.server.stop(ctx)
}

// Handler returns the routed gateway handler.
func (s *LedgerService) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/transfer", s.handleTransfer)
	mux.HandleFunc("GET /v1/balance/{principal}", s.handleBalance)
	mux.HandleFunc("GET /v1/fee", s.handleFee)
	mux.HandleFunc("POST /v1/icrc1-transfer", s.handleICRC1Transfer)
	mux.HandleFunc("GET /v1/rate", s.handleRate)
	return withRequestID(s.server.logger, mux)
}

func (s *LedgerService) handleTransfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if !decodeBody(w, r, &req) {
		return
	}
	caller, err := domain.PrincipalFromText(req.Caller)
	if err != nil {
		countRequest("ledger", "icp_transfer", err)
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid caller principal: %v", err))
		return
	}
	to, err := domain.AccountIdentifierFromHex(req.To)
	if err != nil {
		countRequest("ledger", "icp_transfer", err)
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid destination account: %v", err))
		return
	}
	publicKey, err := hex.DecodeString(req.PublicKey)
	if err != nil {
		countRequest("ledger", "icp_transfer", err)
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid public key: %v", err))
		return
	}
	signature, err := hex.DecodeString(req.Signature)
	if err != nil {
		countRequest("ledger", "icp_transfer", err)
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid signature: %v", err))
		return
	}

	// The caller principal must be derived from the presented key, and
	// the signature must cover this exact transfer.
	if !domain.SelfAuthenticating(publicKey).Equal(caller) ||
		!domain.VerifyIdentitySignature(publicKey, transferSigningPayload(req.To, req.AmountE8s), signature) {
		err = errors.New("transfer not authorized by the caller's key")
		countRequest("ledger", "icp_transfer", err)
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	err = s.backend.ICPTransfer(r.Context(), caller, to, domain.TokensFromE8s(req.AmountE8s))
	countRequest("ledger", "icp_transfer", err)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

func (s *LedgerService) handleBalance(w http.ResponseWriter, r *http.Request) {
	owner, err := domain.PrincipalFromText(r.PathValue("principal"))
	if err != nil {
		countRequest("ledger", "icrc1_get_balance", err)
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid principal: %v", err))
		return
	}

	balance, err := s.backend.ICRC1GetBalance(r.Context(), owner)
	countRequest("ledger", "icrc1_get_balance", err)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, balanceResponse{BalanceE8s: balance.E8s()})
}

func (s *LedgerService) handleFee(w http.ResponseWriter, r *http.Request) {
	fee, err := s.backend.ICRC1GetFee(r.Context())
	countRequest("ledger", "icrc1_get_fee", err)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, feeResponse{FeeE8s: fee.E8s()})
}

func (s *LedgerService) handleICRC1Transfer(w http.ResponseWriter, r *http.Request) {
	var req icrc1TransferRequest
	if !decodeBody(w, r, &req) {
		return
	}
	to, err := domain.PrincipalFromText(req.To)
	if err != nil {
		countRequest("ledger", "icrc1_transfer", err)
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid destination principal: %v", err))
		return
	}

	err = s.backend.ICRC1Transfer(r.Context(), to, domain.TokensFromE8s(req.AmountE8s))
	countRequest("ledger", "icrc1_transfer", err)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

func (s *LedgerService) handleRate(w http.ResponseWriter, r *http.Request) {
	base := r.URL.Query().Get("base")
	quote := r.URL.Query().Get("quote")
	if base == "" || quote == "" {
		writeError(w, http.StatusBadRequest, "both base and quote are required")
		return
	}

	rate, decimals, err := s.backend.GetExchangeRate(r.Context(), base, quote)
	countRequest("ledger", "get_exchange_rate", err)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rateResponse{Base: base, Quote: quote, Rate: rate, Decimals: decimals})
}
