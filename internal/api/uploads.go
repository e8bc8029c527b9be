/**
 * @description
 * Proof-of-payment upload handling. Images arrive as the `proofImage` part
 * of the top-up multipart form, are stored under the configured upload
 * directory with a random filename, and are referenced by URL from the
 * transaction record. Only image content types up to the configured size
 * are accepted.
 */

package api

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	errProofMissing  = errors.New("proof image missing")
	errProofNotImage = errors.New("proof image is not an image")
	errProofTooLarge = errors.New("proof image too large")
)

const proofImageField = "proofImage"

func writeUploadError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errProofMissing):
		writeMessage(w, http.StatusBadRequest, "Upload bukti transfer wajib")
	case errors.Is(err, errProofNotImage):
		writeMessage(w, http.StatusBadRequest, "Only image files are allowed")
	case errors.Is(err, errProofTooLarge):
		writeMessage(w, http.StatusBadRequest, "Ukuran file maksimal 5MB")
	default:
		writeMessage(w, http.StatusInternalServerError, "Terjadi kesalahan server")
	}
}

// saveProofImage stores the uploaded proof image and returns its serving URL.
func (h *WalletHandlers) saveProofImage(r *http.Request) (string, error) {
	file, header, err := r.FormFile(proofImageField)
	if err != nil {
		return "", errProofMissing
	}
	defer file.Close()

	if header.Size > h.uploadMaxBytes {
		return "", errProofTooLarge
	}

	// Sniff the content type rather than trusting the client header.
	head := make([]byte, 512)
	n, err := file.Read(head)
	if err != nil && err != io.EOF {
		return "", err
	}
	if !strings.HasPrefix(http.DetectContentType(head[:n]), "image/") {
		return "", errProofNotImage
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return "", err
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(header.Filename))
	dst, err := os.Create(filepath.Join(h.uploadDir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(file, h.uploadMaxBytes)); err != nil {
		return "", err
	}
	return "/uploads/" + name, nil
}
