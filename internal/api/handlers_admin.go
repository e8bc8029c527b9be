/**
 * @description
 * HTTP handlers for the admin review surface: the pending queue joined with
 * owner info, approve/reject decisions, and the dashboard counters.
 *
 * @dependencies
 * - net/http: Standard Go library.
 * - github.com/go-chi/chi/v5: URL parameter extraction.
 */

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ListPendingHandler returns every pending transaction with its owner.
func (h *WalletHandlers) ListPendingHandler(w http.ResponseWriter, r *http.Request) {
	pending, err := h.service.ListPendingTransactions(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pending)
}

// ApproveTransactionHandler finalizes a pending transaction as approved.
func (h *WalletHandlers) ApproveTransactionHandler(w http.ResponseWriter, r *http.Request) {
	if _, err := h.service.ApproveTransaction(r.Context(), chi.URLParam(r, "transactionID")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Transaksi berhasil disetujui")
}

// RejectTransactionHandler finalizes a pending transaction as rejected.
func (h *WalletHandlers) RejectTransactionHandler(w http.ResponseWriter, r *http.Request) {
	if _, err := h.service.RejectTransaction(r.Context(), chi.URLParam(r, "transactionID")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Transaksi berhasil ditolak")
}

// StatsHandler returns the aggregate admin counters.
func (h *WalletHandlers) StatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
