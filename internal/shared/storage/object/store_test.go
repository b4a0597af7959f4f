package object

import (
	"io"
	"strings"
	"testing"
)

func TestUploadKeyNamespacesByOwner(t *testing.T) {
	a, err := UploadKey("session-a", "people.csv")
	if err != nil {
		t.Fatalf("UploadKey: %v", err)
	}
	b, err := UploadKey("session-b", "people.csv")
	if err != nil {
		t.Fatalf("UploadKey: %v", err)
	}
	if !strings.HasPrefix(a, "uploads/") || !strings.HasSuffix(a, "_people.csv") {
		t.Fatalf("key = %q", a)
	}
	if strings.Split(a, "/")[1] == strings.Split(b, "/")[1] {
		t.Fatalf("owners share a namespace: %q %q", a, b)
	}
	if _, err := UploadKey("session-a", ".."); err == nil {
		t.Fatal("expected invalid file name error")
	}
}

func TestSniffKeepsWholeStream(t *testing.T) {
	content := "%PDF-1.4\n" + strings.Repeat("x", 1000)
	mimeType, body, err := Sniff(strings.NewReader(content))
	if err != nil {
		t.Fatalf("Sniff: %v", err)
	}
	if mimeType != "application/pdf" {
		t.Fatalf("mimeType = %q", mimeType)
	}
	data, _ := io.ReadAll(body)
	if string(data) != content {
		t.Fatalf("stream truncated to %d bytes", len(data))
	}
}
