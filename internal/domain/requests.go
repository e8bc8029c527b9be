/**
 * @description
 * This file defines the typed request DTOs for every API endpoint together
 * with their validation rules. Each request exposes a Validate method that
 * returns the ordered list of field errors; handlers surface the first
 * message as the HTTP 400 body.
 *
 * @notes
 * - Validation messages are user-facing and kept in Indonesian, matching
 *   the BYFORT mobile client copy.
 */

package domain

// FieldError is a single validation failure for a named request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Amount limits per operation, in the smallest currency unit.
const (
	MinTopUpAmount    int64 = 12000
	MinWithdrawAmount int64 = 55000
	MinSendAmount     int64 = 10000
	MaxAmount         int64 = 10000000
)

const pinLength = 6

// Phone numbers are only length-checked; the client already normalizes them
// to bare digits.
func validPhone(phone string) bool {
	return len(phone) >= 10
}

// LoginRequest carries phone/PIN credentials.
type LoginRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	PIN         string `json:"pin"`
}

func (r LoginRequest) Validate() []FieldError {
	var errs []FieldError
	if !validPhone(r.PhoneNumber) {
		errs = append(errs, FieldError{Field: "phoneNumber", Message: "Nomor HP tidak valid"})
	}
	if len(r.PIN) != pinLength {
		errs = append(errs, FieldError{Field: "pin", Message: "PIN harus 6 digit"})
	}
	return errs
}

// RegisterRequest creates a new wallet account.
type RegisterRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	PIN         string `json:"pin"`
	Name        string `json:"name"`
}

func (r RegisterRequest) Validate() []FieldError {
	var errs []FieldError
	if !validPhone(r.PhoneNumber) {
		errs = append(errs, FieldError{Field: "phoneNumber", Message: "Nomor HP tidak valid"})
	}
	if len(r.PIN) != pinLength {
		errs = append(errs, FieldError{Field: "pin", Message: "PIN harus 6 digit"})
	}
	if len(r.Name) < 2 {
		errs = append(errs, FieldError{Field: "name", Message: "Nama minimal 2 karakter"})
	}
	return errs
}

// CheckUserRequest asks whether a phone number is already registered.
type CheckUserRequest struct {
	PhoneNumber string `json:"phoneNumber"`
}

func (r CheckUserRequest) Validate() []FieldError {
	if r.PhoneNumber == "" {
		return []FieldError{{Field: "phoneNumber", Message: "Nomor HP tidak valid"}}
	}
	return nil
}

// TopUpRequest submits a top-up for admin review. The proof image arrives as
// a separate multipart part and is attached by the handler after upload.
type TopUpRequest struct {
	UserID         string `json:"userId"`
	SenderName     string `json:"senderName"`
	BankName       string `json:"bankName"`
	AccountNumber  string `json:"accountNumber"`
	OriginalAmount int64  `json:"originalAmount"`
}

func (r TopUpRequest) Validate() []FieldError {
	var errs []FieldError
	if len(r.SenderName) < 2 {
		errs = append(errs, FieldError{Field: "senderName", Message: "Nama pengirim wajib diisi"})
	}
	if r.BankName == "" {
		errs = append(errs, FieldError{Field: "bankName", Message: "Pilih bank/e-wallet"})
	}
	if r.AccountNumber == "" {
		errs = append(errs, FieldError{Field: "accountNumber", Message: "Nomor rekening wajib diisi"})
	}
	if r.OriginalAmount < MinTopUpAmount {
		errs = append(errs, FieldError{Field: "originalAmount", Message: "Minimal top up Rp 12.000"})
	} else if r.OriginalAmount > MaxAmount {
		errs = append(errs, FieldError{Field: "originalAmount", Message: "Maksimal top up Rp 10.000.000"})
	}
	return errs
}

// WithdrawRequest submits a withdrawal for admin review. Funds are reserved
// immediately on submission.
type WithdrawRequest struct {
	UserID         string `json:"userId"`
	RecipientName  string `json:"recipientName"`
	BankName       string `json:"bankName"`
	AccountNumber  string `json:"accountNumber"`
	OriginalAmount int64  `json:"originalAmount"`
}

func (r WithdrawRequest) Validate() []FieldError {
	var errs []FieldError
	if len(r.RecipientName) < 2 {
		errs = append(errs, FieldError{Field: "recipientName", Message: "Nama penerima wajib diisi"})
	}
	if r.BankName == "" {
		errs = append(errs, FieldError{Field: "bankName", Message: "Pilih bank/e-wallet"})
	}
	if r.AccountNumber == "" {
		errs = append(errs, FieldError{Field: "accountNumber", Message: "Nomor rekening wajib diisi"})
	}
	if r.OriginalAmount < MinWithdrawAmount {
		errs = append(errs, FieldError{Field: "originalAmount", Message: "Minimal penarikan Rp 55.000"})
	} else if r.OriginalAmount > MaxAmount {
		errs = append(errs, FieldError{Field: "originalAmount", Message: "Maksimal penarikan Rp 10.000.000"})
	}
	return errs
}

// SendMoneyRequest transfers funds to another registered wallet by phone
// number. This is the only operation that settles immediately.
type SendMoneyRequest struct {
	UserID         string `json:"userId"`
	RecipientPhone string `json:"recipientPhone"`
	OriginalAmount int64  `json:"originalAmount"`
	Notes          string `json:"notes"`
}

func (r SendMoneyRequest) Validate() []FieldError {
	var errs []FieldError
	if !validPhone(r.RecipientPhone) {
		errs = append(errs, FieldError{Field: "recipientPhone", Message: "Nomor HP tidak valid"})
	}
	if r.OriginalAmount < MinSendAmount {
		errs = append(errs, FieldError{Field: "originalAmount", Message: "Minimal kirim Rp 10.000"})
	} else if r.OriginalAmount > MaxAmount {
		errs = append(errs, FieldError{Field: "originalAmount", Message: "Maksimal kirim Rp 10.000.000"})
	}
	return errs
}
