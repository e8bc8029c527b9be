/**
 * @description
 * HTTP handlers for the ledger endpoints: top-up submission (multipart with
 * a proof-of-payment image), withdrawal submission, P2P send, and the
 * per-user transaction history.
 *
 * @dependencies
 * - encoding/json, net/http, strconv: Standard Go libraries.
 * - github.com/go-chi/chi/v5: URL parameter extraction.
 * - internal/domain: Request DTOs and validation.
 */

package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/byfort/wallet-service/internal/domain"
)

// TopUpHandler accepts a multipart top-up submission. The proof image is
// stored first; validation failures afterwards leave an orphaned file, the
// same trade-off the original upload flow made.
func (h *WalletHandlers) TopUpHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.uploadMaxBytes); err != nil {
		writeMessage(w, http.StatusBadRequest, "Upload bukti transfer wajib")
		return
	}

	// A failed parse falls through as zero and is caught by the range check.
	originalAmount, _ := strconv.ParseInt(r.FormValue("originalAmount"), 10, 64)
	req := domain.TopUpRequest{
		UserID:         r.FormValue("userId"),
		SenderName:     r.FormValue("senderName"),
		BankName:       r.FormValue("bankName"),
		AccountNumber:  r.FormValue("accountNumber"),
		OriginalAmount: originalAmount,
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeMessage(w, http.StatusBadRequest, errs[0].Message)
		return
	}

	proofImageURL, err := h.saveProofImage(r)
	if err != nil {
		writeUploadError(w, err)
		return
	}

	tx, err := h.service.RequestTopUp(r.Context(), req, proofImageURL)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

// WithdrawHandler accepts a withdrawal submission and reserves the funds.
func (h *WalletHandlers) WithdrawHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.WithdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, malformedBodyMessage)
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeMessage(w, http.StatusBadRequest, errs[0].Message)
		return
	}

	tx, err := h.service.RequestWithdraw(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

// SendMoneyHandler transfers funds to another registered wallet.
func (h *WalletHandlers) SendMoneyHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.SendMoneyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, malformedBodyMessage)
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeMessage(w, http.StatusBadRequest, errs[0].Message)
		return
	}

	tx, err := h.service.SendMoney(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

// ListTransactionsHandler returns a user's history, most recent first.
func (h *WalletHandlers) ListTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	txs, err := h.service.ListTransactions(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, txs)
}
