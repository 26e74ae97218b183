package secrets

import (
	"strings"
	"testing"
)

const testKey = "0123456789abcdef0123456789abcdef" // 32 bytes

func TestSealOpenRoundTrip(t *testing.T) {
	sealer, err := NewSealer(testKey)
	if err != nil {
		t.Fatalf("NewSealer: %v", err)
	}
	if !sealer.Enabled() {
		t.Fatal("sealer with a key reports disabled")
	}

	sealed, err := sealer.Seal("secret_notion_token")
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if sealed == "secret_notion_token" {
		t.Fatal("sealed value equals plaintext")
	}

	opened, err := sealer.Open(sealed)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if opened != "secret_notion_token" {
		t.Fatalf("round trip got %q", opened)
	}
}

func TestSealProducesFreshNonce(t *testing.T) {
	sealer, _ := NewSealer(testKey)

	a, _ := sealer.Seal("same input")
	b, _ := sealer.Seal("same input")
	if a == b {
		t.Fatal("two seals of the same input are identical")
	}
}

func TestOpenRejectsTamperedValue(t *testing.T) {
	sealer, _ := NewSealer(testKey)

	sealed, _ := sealer.Seal("secret")
	tampered := strings.Replace(sealed, string(sealed[10]), "A", 1)
	if tampered == sealed {
		tampered = strings.Replace(sealed, string(sealed[10]), "B", 1)
	}
	if _, err := sealer.Open(tampered); err == nil {
		t.Fatal("tampered ciphertext opened without error")
	}

	if _, err := sealer.Open("dG9vc2hvcnQ="); err == nil {
		t.Fatal("short ciphertext opened without error")
	}
	if _, err := sealer.Open("not base64!!"); err == nil {
		t.Fatal("invalid base64 opened without error")
	}
}

func TestEmptyKeyIsPassthrough(t *testing.T) {
	sealer, err := NewSealer("")
	if err != nil {
		t.Fatalf("NewSealer: %v", err)
	}
	if sealer.Enabled() {
		t.Fatal("passthrough sealer reports enabled")
	}

	sealed, err := sealer.Seal("plain")
	if err != nil || sealed != "plain" {
		t.Fatalf("Seal: %q, %v", sealed, err)
	}
	opened, err := sealer.Open("plain")
	if err != nil || opened != "plain" {
		t.Fatalf("Open: %q, %v", opened, err)
	}
}

func TestBadKeyLengthRejected(t *testing.T) {
	if _, err := NewSealer("short"); err == nil {
		t.Fatal("short key accepted")
	}
}
