/**
 * @description
 * HTTP handlers for the notification inbox: listing a user's notifications
 * and marking one as read.
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

// ListNotificationsHandler returns a user's notifications, newest first.
func (h *WalletHandlers) ListNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.service.ListNotifications(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notifications)
}

// MarkNotificationReadHandler flags a single notification as read.
func (h *WalletHandlers) MarkNotificationReadHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.service.MarkNotificationRead(r.Context(), chi.URLParam(r, "notificationID")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Notifikasi ditandai terbaca")
}
