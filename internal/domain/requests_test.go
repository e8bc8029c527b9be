package domain

import "testing"

func firstMessage(errs []FieldError) string {
	if len(errs) == 0 {
		return ""
	}
	return errs[0].Message
}

func TestLoginRequestValidate(t *testing.T) {
	cases := []struct {
		name string
		req  LoginRequest
		want string
	}{
		{"valid", LoginRequest{PhoneNumber: "8123456789", PIN: "123456"}, ""},
		{"short phone", LoginRequest{PhoneNumber: "812345", PIN: "123456"}, "Nomor HP tidak valid"},
		{"short pin", LoginRequest{PhoneNumber: "8123456789", PIN: "123"}, "PIN harus 6 digit"},
		{"long pin", LoginRequest{PhoneNumber: "8123456789", PIN: "1234567"}, "PIN harus 6 digit"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := firstMessage(tc.req.Validate()); got != tc.want {
				t.Fatalf("message = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRegisterRequestValidate(t *testing.T) {
	valid := RegisterRequest{PhoneNumber: "8123456789", PIN: "123456", Name: "Andi"}
	if errs := valid.Validate(); len(errs) != 0 {
		t.Fatalf("valid request errs = %+v", errs)
	}

	short := RegisterRequest{PhoneNumber: "8123456789", PIN: "123456", Name: "A"}
	if got := firstMessage(short.Validate()); got != "Nama minimal 2 karakter" {
		t.Fatalf("message = %q", got)
	}

	// Errors keep field order: phone before pin before name.
	bad := RegisterRequest{PhoneNumber: "812", PIN: "12", Name: ""}
	errs := bad.Validate()
	if len(errs) != 3 {
		t.Fatalf("errs = %d, want 3", len(errs))
	}
	if errs[0].Field != "phoneNumber" || errs[1].Field != "pin" || errs[2].Field != "name" {
		t.Fatalf("field order = %+v", errs)
	}
}

func TestTopUpRequestValidate(t *testing.T) {
	valid := TopUpRequest{SenderName: "Andi", BankName: "BCA", AccountNumber: "1234567890", OriginalAmount: 50000}
	if errs := valid.Validate(); len(errs) != 0 {
		t.Fatalf("valid request errs = %+v", errs)
	}

	cases := []struct {
		name string
		req  TopUpRequest
		want string
	}{
		{"below minimum", TopUpRequest{SenderName: "Andi", BankName: "BCA", AccountNumber: "1", OriginalAmount: 11999}, "Minimal top up Rp 12.000"},
		{"above maximum", TopUpRequest{SenderName: "Andi", BankName: "BCA", AccountNumber: "1", OriginalAmount: 10000001}, "Maksimal top up Rp 10.000.000"},
		{"missing bank", TopUpRequest{SenderName: "Andi", AccountNumber: "1", OriginalAmount: 50000}, "Pilih bank/e-wallet"},
		{"missing sender", TopUpRequest{BankName: "BCA", AccountNumber: "1", OriginalAmount: 50000}, "Nama pengirim wajib diisi"},
		{"missing account", TopUpRequest{SenderName: "Andi", BankName: "BCA", OriginalAmount: 50000}, "Nomor rekening wajib diisi"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := firstMessage(tc.req.Validate()); got != tc.want {
				t.Fatalf("message = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestWithdrawRequestValidate(t *testing.T) {
	cases := []struct {
		name string
		req  WithdrawRequest
		want string
	}{
		{"valid", WithdrawRequest{RecipientName: "Andi", BankName: "BCA", AccountNumber: "1", OriginalAmount: 55000}, ""},
		{"below minimum", WithdrawRequest{RecipientName: "Andi", BankName: "BCA", AccountNumber: "1", OriginalAmount: 54999}, "Minimal penarikan Rp 55.000"},
		{"above maximum", WithdrawRequest{RecipientName: "Andi", BankName: "BCA", AccountNumber: "1", OriginalAmount: 10000001}, "Maksimal penarikan Rp 10.000.000"},
		{"missing recipient", WithdrawRequest{BankName: "BCA", AccountNumber: "1", OriginalAmount: 60000}, "Nama penerima wajib diisi"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := firstMessage(tc.req.Validate()); got != tc.want {
				t.Fatalf("message = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSendMoneyRequestValidate(t *testing.T) {
	cases := []struct {
		name string
		req  SendMoneyRequest
		want string
	}{
		{"valid", SendMoneyRequest{RecipientPhone: "8123456789", OriginalAmount: 10000}, ""},
		{"boundary maximum", SendMoneyRequest{RecipientPhone: "8123456789", OriginalAmount: 10000000}, ""},
		{"below minimum", SendMoneyRequest{RecipientPhone: "8123456789", OriginalAmount: 9999}, "Minimal kirim Rp 10.000"},
		{"above maximum", SendMoneyRequest{RecipientPhone: "8123456789", OriginalAmount: 10000001}, "Maksimal kirim Rp 10.000.000"},
		{"short phone", SendMoneyRequest{RecipientPhone: "812", OriginalAmount: 10000}, "Nomor HP tidak valid"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := firstMessage(tc.req.Validate()); got != tc.want {
				t.Fatalf("message = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestUserProfileOmitsPINHash(t *testing.T) {
	u := User{ID: "u1", PhoneNumber: "8123456789", PINHash: "secret", Name: "Andi", Balance: 1000, IsActive: true}
	p := u.Profile()
	if p.ID != "u1" || p.PhoneNumber != "8123456789" || p.Name != "Andi" || p.Balance != 1000 {
		t.Fatalf("profile = %+v", p)
	}
}

func TestTransactionFinalized(t *testing.T) {
	pending := Transaction{Status: StatusPending}
	if pending.Finalized() {
		t.Fatal("pending transaction reported finalized")
	}
	for _, status := range []string{StatusApproved, StatusRejected} {
		tx := Transaction{Status: status}
		if !tx.Finalized() {
			t.Fatalf("status %s not reported finalized", status)
		}
	}
}
