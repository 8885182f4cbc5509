// Package qr encodes student identities into scannable payloads and back.
// The payload carries no signature or expiry; it is trusted at face value.
package qr

import (
	"encoding/base64"
	"errors"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

const payloadPrefix = "STUDENT:"

// ErrInvalidPayload marks scanned data that is not a student payload.
var ErrInvalidPayload = errors.New("invalid qr payload")

// EncodePayload builds the fixed-format text embedded in the QR image.
func EncodePayload(studentID, name string) string {
	return payloadPrefix + studentID + ":" + name
}

// ParsePayload extracts the student id from scanned data.
func ParsePayload(data string) (string, error) {
	if !strings.HasPrefix(data, payloadPrefix) {
		return "", ErrInvalidPayload
	}
	parts := strings.Split(data, ":")
	if len(parts) < 2 || parts[1] == "" {
		return "", ErrInvalidPayload
	}
	return parts[1], nil
}

// Image renders the payload as a PNG of the given pixel size.
func Image(payload string, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	return qrcode.Encode(payload, qrcode.Medium, size)
}

// DataURI wraps PNG bytes as an inline image for JSON responses.
func DataURI(png []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}
