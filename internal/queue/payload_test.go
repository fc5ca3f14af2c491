package queue

import (
	"strings"
	"testing"
)

func TestEncodePayloadAlwaysWritesFilesArray(t *testing.T) {
	encoded, err := encodePayload(Payload{
		What: "guides",
		Date: "2024-03-01",
		Note: "no sales for 2024-03-01",
	})
	if err != nil {
		t.Fatalf("encodePayload failed: %v", err)
	}
	if !strings.Contains(encoded, `"files":[]`) {
		t.Fatalf("expected empty files array in payload, got %s", encoded)
	}
	if strings.Contains(encoded, "printed_files") {
		t.Fatalf("expected empty optional fields omitted, got %s", encoded)
	}

	decoded, err := decodePayload(encoded)
	if err != nil {
		t.Fatalf("decodePayload failed: %v", err)
	}
	if decoded.Files == nil || len(decoded.Files) != 0 {
		t.Fatalf("expected empty files slice, got %#v", decoded.Files)
	}
}
