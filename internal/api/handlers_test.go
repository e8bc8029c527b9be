package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/byfort/wallet-service/internal/app"
	"github.com/byfort/wallet-service/internal/domain"
	"github.com/byfort/wallet-service/internal/store"
	"github.com/byfort/wallet-service/pkg/rabbitmq"
)

const testAdminKey = "test-admin-key"

func newTestServer(t *testing.T) (*httptest.Server, *app.Service) {
	t.Helper()
	st := store.NewMemoryStore()
	if err := st.SeedDemoData(); err != nil {
		t.Fatalf("seed: %v", err)
	}
	service := app.NewService(st, &rabbitmq.NoopPublisher{}, "byfort.events", 1200)
	handlers := NewWalletHandlers(service, "test-secret", time.Hour, t.TempDir(), 5*1024*1024)
	server := httptest.NewServer(NewRouter(handlers, testAdminKey))
	t.Cleanup(server.Close)
	return server, service
}

func postJSON(t *testing.T, url string, payload interface{}) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func wantMessage(t *testing.T, resp *http.Response, status int, message string) {
	t.Helper()
	if resp.StatusCode != status {
		t.Fatalf("status = %d, want %d", resp.StatusCode, status)
	}
	var body map[string]string
	decodeBody(t, resp, &body)
	if body["message"] != message {
		t.Fatalf("message = %q, want %q", body["message"], message)
	}
}

func TestLoginEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	t.Run("demo credentials", func(t *testing.T) {
		resp := postJSON(t, server.URL+"/api/auth/login", domain.LoginRequest{
			PhoneNumber: "8123456789",
			PIN:         "123456",
		})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		var body struct {
			User  domain.Profile `json:"user"`
			Token string         `json:"token"`
		}
		decodeBody(t, resp, &body)
		if body.User.ID != "demo-user-1" || body.User.Balance != 125000 {
			t.Fatalf("user = %+v", body.User)
		}
		if body.Token == "" {
			t.Fatal("token missing")
		}
	})

	t.Run("wrong pin", func(t *testing.T) {
		resp := postJSON(t, server.URL+"/api/auth/login", domain.LoginRequest{
			PhoneNumber: "8123456789",
			PIN:         "000000",
		})
		wantMessage(t, resp, http.StatusUnauthorized, "Nomor HP atau PIN salah")
	})

	t.Run("validation", func(t *testing.T) {
		resp := postJSON(t, server.URL+"/api/auth/login", domain.LoginRequest{
			PhoneNumber: "812",
			PIN:         "123456",
		})
		wantMessage(t, resp, http.StatusBadRequest, "Nomor HP tidak valid")
	})
}

func TestRegisterEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/auth/register", domain.RegisterRequest{
		PhoneNumber: "8123456700",
		PIN:         "123456",
		Name:        "Andi",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body struct {
		User domain.Profile `json:"user"`
	}
	decodeBody(t, resp, &body)
	if body.User.Name != "Andi" || body.User.Balance != 0 {
		t.Fatalf("user = %+v", body.User)
	}

	// Same phone again conflicts.
	resp = postJSON(t, server.URL+"/api/auth/register", domain.RegisterRequest{
		PhoneNumber: "8123456700",
		PIN:         "654321",
		Name:        "Budi",
	})
	wantMessage(t, resp, http.StatusBadRequest, "Nomor HP sudah terdaftar")
}

func TestCheckUserEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/auth/check-user", map[string]string{"phoneNumber": "8123456789"})
	var body map[string]bool
	decodeBody(t, resp, &body)
	if !body["exists"] {
		t.Fatal("demo user should exist")
	}

	resp = postJSON(t, server.URL+"/api/auth/check-user", map[string]string{"phoneNumber": "8999999999"})
	decodeBody(t, resp, &body)
	if body["exists"] {
		t.Fatal("unknown phone reported as existing")
	}
}

func TestMeEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	token, err := IssueSessionToken("test-secret", "demo-user-1", time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	req, _ := http.NewRequest(http.MethodGet, server.URL+"/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("get me: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var profile domain.Profile
	decodeBody(t, resp, &profile)
	if profile.ID != "demo-user-1" {
		t.Fatalf("profile = %+v", profile)
	}

	t.Run("missing token", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/api/auth/me")
		if err != nil {
			t.Fatalf("get me: %v", err)
		}
		wantMessage(t, resp, http.StatusUnauthorized, "Authorization header required")
	})

	t.Run("bad token", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, server.URL+"/api/auth/me", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("get me: %v", err)
		}
		wantMessage(t, resp, http.StatusUnauthorized, "Invalid token")
	})
}

func TestGetUserEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/user/demo-user-1")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var profile domain.Profile
	decodeBody(t, resp, &profile)
	if profile.PhoneNumber != "8123456789" {
		t.Fatalf("profile = %+v", profile)
	}

	resp, err = http.Get(server.URL + "/api/user/no-such-user")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	wantMessage(t, resp, http.StatusNotFound, "User tidak ditemukan")

	// The singular path is the contract; the plural form must not resolve.
	t.Run("plural path is not routed", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/api/users/demo-user-1")
		if err != nil {
			t.Fatalf("get user: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", resp.StatusCode)
		}
	})
}

func topUpForm(t *testing.T, fields map[string]string, image []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("write field %s: %v", key, err)
		}
	}
	if image != nil {
		part, err := writer.CreateFormFile("proofImage", "proof.png")
		if err != nil {
			t.Fatalf("create file part: %v", err)
		}
		if _, err := part.Write(image); err != nil {
			t.Fatalf("write image: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, writer.FormDataContentType()
}

// Minimal valid PNG header so content sniffing sees image/png.
var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 13, 'I', 'H', 'D', 'R'}

func TestTopUpEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	fields := map[string]string{
		"userId":         "demo-user-1",
		"senderName":     "Demo User",
		"bankName":       "BCA",
		"accountNumber":  "1234567890",
		"originalAmount": "50000",
	}

	t.Run("success", func(t *testing.T) {
		body, contentType := topUpForm(t, fields, pngBytes)
		resp, err := http.Post(server.URL+"/api/transactions/topup", contentType, body)
		if err != nil {
			t.Fatalf("post topup: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		var tx domain.Transaction
		decodeBody(t, resp, &tx)
		if tx.Amount != 48800 || tx.Status != domain.StatusPending {
			t.Fatalf("transaction = %+v", tx)
		}
		if tx.ProofImageURL == nil || !strings.HasPrefix(*tx.ProofImageURL, "/uploads/") {
			t.Fatalf("proof url = %v", tx.ProofImageURL)
		}
	})

	t.Run("missing proof", func(t *testing.T) {
		body, contentType := topUpForm(t, fields, nil)
		resp, err := http.Post(server.URL+"/api/transactions/topup", contentType, body)
		if err != nil {
			t.Fatalf("post topup: %v", err)
		}
		wantMessage(t, resp, http.StatusBadRequest, "Upload bukti transfer wajib")
	})

	t.Run("non-image proof", func(t *testing.T) {
		body, contentType := topUpForm(t, fields, []byte("just some text, not an image at all"))
		resp, err := http.Post(server.URL+"/api/transactions/topup", contentType, body)
		if err != nil {
			t.Fatalf("post topup: %v", err)
		}
		wantMessage(t, resp, http.StatusBadRequest, "Only image files are allowed")
	})

	t.Run("amount below minimum", func(t *testing.T) {
		low := map[string]string{}
		for k, v := range fields {
			low[k] = v
		}
		low["originalAmount"] = "11999"
		body, contentType := topUpForm(t, low, pngBytes)
		resp, err := http.Post(server.URL+"/api/transactions/topup", contentType, body)
		if err != nil {
			t.Fatalf("post topup: %v", err)
		}
		wantMessage(t, resp, http.StatusBadRequest, "Minimal top up Rp 12.000")
	})
}

func TestWithdrawEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/transactions/withdraw", domain.WithdrawRequest{
		UserID:         "demo-user-1",
		RecipientName:  "Demo User",
		BankName:       "BCA",
		AccountNumber:  "1234567890",
		OriginalAmount: 60000,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var tx domain.Transaction
	decodeBody(t, resp, &tx)
	if tx.Type != domain.TypeWithdraw || tx.Amount != 60000 {
		t.Fatalf("transaction = %+v", tx)
	}

	// 63800 left after the first reservation; value + fee no longer fits.
	resp = postJSON(t, server.URL+"/api/transactions/withdraw", domain.WithdrawRequest{
		UserID:         "demo-user-1",
		RecipientName:  "Demo User",
		BankName:       "BCA",
		AccountNumber:  "1234567890",
		OriginalAmount: 63000,
	})
	wantMessage(t, resp, http.StatusBadRequest, "Saldo tidak mencukupi")
}

func TestSendMoneyEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/auth/register", domain.RegisterRequest{
		PhoneNumber: "8123456700",
		PIN:         "123456",
		Name:        "Budi",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("register status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = postJSON(t, server.URL+"/api/transactions/send", domain.SendMoneyRequest{
		UserID:         "demo-user-1",
		RecipientPhone: "8123456700",
		OriginalAmount: 10000,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var tx domain.Transaction
	decodeBody(t, resp, &tx)
	if tx.Amount != -10000 || tx.Status != domain.StatusApproved {
		t.Fatalf("transaction = %+v", tx)
	}

	t.Run("unknown recipient", func(t *testing.T) {
		resp := postJSON(t, server.URL+"/api/transactions/send", domain.SendMoneyRequest{
			UserID:         "demo-user-1",
			RecipientPhone: "8999999999",
			OriginalAmount: 10000,
		})
		wantMessage(t, resp, http.StatusNotFound, "Penerima tidak terdaftar di BYFORT")
	})

	t.Run("self transfer", func(t *testing.T) {
		resp := postJSON(t, server.URL+"/api/transactions/send", domain.SendMoneyRequest{
			UserID:         "demo-user-1",
			RecipientPhone: "8123456789",
			OriginalAmount: 10000,
		})
		wantMessage(t, resp, http.StatusBadRequest, "Tidak bisa mengirim ke diri sendiri")
	})
}

func TestAdminEndpoints(t *testing.T) {
	server, _ := newTestServer(t)

	adminGet := func(t *testing.T, path string) *http.Response {
		t.Helper()
		req, _ := http.NewRequest(http.MethodGet, server.URL+path, nil)
		req.Header.Set("X-Admin-Key", testAdminKey)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("get %s: %v", path, err)
		}
		return resp
	}
	adminPost := func(t *testing.T, path string) *http.Response {
		t.Helper()
		req, _ := http.NewRequest(http.MethodPost, server.URL+path, nil)
		req.Header.Set("X-Admin-Key", testAdminKey)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("post %s: %v", path, err)
		}
		return resp
	}

	t.Run("requires admin key", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/api/admin/stats")
		if err != nil {
			t.Fatalf("get stats: %v", err)
		}
		wantMessage(t, resp, http.StatusUnauthorized, "Invalid admin key")
	})

	t.Run("pending queue includes owner", func(t *testing.T) {
		resp := adminGet(t, "/api/admin/transactions/pending")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		var pending []domain.PendingTransaction
		decodeBody(t, resp, &pending)
		if len(pending) != 1 || pending[0].ID != "demo-txn-1" {
			t.Fatalf("pending = %+v", pending)
		}
		if pending[0].User == nil || pending[0].User.Name != "Demo User" {
			t.Fatalf("owner = %+v", pending[0].User)
		}
	})

	t.Run("approve then conflict", func(t *testing.T) {
		resp := adminPost(t, "/api/admin/transactions/demo-txn-1/approve")
		wantMessage(t, resp, http.StatusOK, "Transaksi berhasil disetujui")

		resp = adminPost(t, "/api/admin/transactions/demo-txn-1/reject")
		wantMessage(t, resp, http.StatusConflict, "Transaksi sudah diproses")
	})

	t.Run("unknown transaction", func(t *testing.T) {
		resp := adminPost(t, "/api/admin/transactions/no-such-txn/approve")
		wantMessage(t, resp, http.StatusNotFound, "Transaksi tidak ditemukan")
	})

	t.Run("stats", func(t *testing.T) {
		resp := adminGet(t, "/api/admin/stats")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		var stats domain.AdminStats
		decodeBody(t, resp, &stats)
		// The seeded top-up was approved above.
		if stats.PendingCount != 0 || stats.TotalUsers != 1 || stats.TotalVolume != 48800 {
			t.Fatalf("stats = %+v", stats)
		}
	})
}

func TestNotificationEndpoints(t *testing.T) {
	server, service := newTestServer(t)

	// Approving the seeded top-up produces a notification.
	adminReq, _ := http.NewRequest(http.MethodPost, server.URL+"/api/admin/transactions/demo-txn-1/approve", nil)
	adminReq.Header.Set("X-Admin-Key", testAdminKey)
	resp, err := http.DefaultClient.Do(adminReq)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	resp.Body.Close()

	resp, err = http.Get(server.URL + "/api/notifications/demo-user-1")
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var notifications []domain.Notification
	decodeBody(t, resp, &notifications)
	if len(notifications) != 1 || notifications[0].Title != "Transaksi Disetujui" {
		t.Fatalf("notifications = %+v", notifications)
	}
	if notifications[0].IsRead {
		t.Fatal("new notification already read")
	}

	readURL := fmt.Sprintf("%s/api/notifications/%s/read", server.URL, notifications[0].ID)
	resp, err = http.Post(readURL, "application/json", nil)
	if err != nil {
		t.Fatalf("mark read: %v", err)
	}
	wantMessage(t, resp, http.StatusOK, "Notifikasi ditandai terbaca")

	after, err := service.ListNotifications(context.Background(), "demo-user-1")
	if err != nil {
		t.Fatalf("list after read: %v", err)
	}
	if len(after) != 1 || !after[0].IsRead {
		t.Fatalf("notifications after read = %+v", after)
	}
}

func TestMalformedBodyGetsGenericMessage(t *testing.T) {
	server, _ := newTestServer(t)

	// A body that fails to decode must not be answered with a field
	// validation message.
	paths := []string{
		"/api/auth/login",
		"/api/auth/register",
		"/api/auth/check-user",
		"/api/transactions/withdraw",
		"/api/transactions/send",
	}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			resp, err := http.Post(server.URL+path, "application/json", strings.NewReader("{not json"))
			if err != nil {
				t.Fatalf("post %s: %v", path, err)
			}
			wantMessage(t, resp, http.StatusBadRequest, "Format permintaan tidak valid")
		})
	}
}

func TestHealthEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/health")
	if err != nil {
		t.Fatalf("get health: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body map[string]string
	decodeBody(t, resp, &body)
	if body["status"] != "ok" {
		t.Fatalf("body = %+v", body)
	}
}
