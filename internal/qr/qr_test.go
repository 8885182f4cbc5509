package qr

import (
	"errors"
	"strings"
	"testing"
)

func TestPayloadRoundTrip(t *testing.T) {
	payload := EncodePayload("abc-123", "Nguyễn Văn An")
	if payload != "STUDENT:abc-123:Nguyễn Văn An" {
		t.Fatalf("unexpected payload %q", payload)
	}
	id, err := ParsePayload(payload)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if id != "abc-123" {
		t.Fatalf("expected abc-123, got %q", id)
	}
}

func TestParsePayloadInvalid(t *testing.T) {
	for _, data := range []string{"", "TEACHER:abc:x", "STUDENT:", "random text"} {
		if _, err := ParsePayload(data); !errors.Is(err, ErrInvalidPayload) {
			t.Fatalf("%q: expected ErrInvalidPayload, got %v", data, err)
		}
	}
}

func TestImageAndDataURI(t *testing.T) {
	png, err := Image(EncodePayload("abc-123", "An"), 256)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if len(png) == 0 {
		t.Fatal("empty png")
	}
	uri := DataURI(png)
	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Fatalf("unexpected data uri prefix: %.40s", uri)
	}
}
