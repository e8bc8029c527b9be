/**
 * @description
 * JSON response helpers shared by all handlers, plus the single place where
 * service errors are mapped onto HTTP status codes and the user-facing
 * Indonesian messages of the `{message: ...}` error contract.
 */

package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/byfort/wallet-service/internal/app"
	"github.com/byfort/wallet-service/internal/store"
)

// malformedBodyMessage answers request bodies that fail to decode at all,
// as opposed to the per-field validation messages.
const malformedBodyMessage = "Format permintaan tidak valid"

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("level=error component=api msg=\"response encode failed\" err=%v", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeServiceError maps sentinel errors from the service and store layers
// to the HTTP contract. Unexpected errors become a generic 500 so no
// internal detail leaks.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, app.ErrInvalidCredentials):
		writeMessage(w, http.StatusUnauthorized, "Nomor HP atau PIN salah")
	case errors.Is(err, store.ErrPhoneRegistered):
		writeMessage(w, http.StatusBadRequest, "Nomor HP sudah terdaftar")
	case errors.Is(err, store.ErrUserNotFound):
		writeMessage(w, http.StatusNotFound, "User tidak ditemukan")
	case errors.Is(err, app.ErrRecipientNotFound):
		writeMessage(w, http.StatusNotFound, "Penerima tidak terdaftar di BYFORT")
	case errors.Is(err, store.ErrTransactionNotFound):
		writeMessage(w, http.StatusNotFound, "Transaksi tidak ditemukan")
	case errors.Is(err, store.ErrInsufficientFunds):
		writeMessage(w, http.StatusBadRequest, "Saldo tidak mencukupi")
	case errors.Is(err, app.ErrSelfTransfer):
		writeMessage(w, http.StatusBadRequest, "Tidak bisa mengirim ke diri sendiri")
	case errors.Is(err, app.ErrTransactionFinalized):
		writeMessage(w, http.StatusConflict, "Transaksi sudah diproses")
	default:
		log.Printf("level=error component=api msg=\"unexpected service error\" err=%v", err)
		writeMessage(w, http.StatusInternalServerError, "Terjadi kesalahan server")
	}
}
