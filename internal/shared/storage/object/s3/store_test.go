package s3

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "session/export.csv", want: "session/export.csv"},
		{name: "simple prefix", prefix: "root", key: "session/export.csv", want: "root/session/export.csv"},
		{name: "prefix trailing slash", prefix: "root/", key: "session/export.csv", want: "root/session/export.csv"},
		{name: "prefix and key slashes", prefix: "/root/", key: "/session/export.csv", want: "root/session/export.csv"},
		{name: "nested prefix", prefix: "root/sub", key: "session/export.csv", want: "root/sub/session/export.csv"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := applyPrefix(tt.prefix, tt.key); got != tt.want {
				t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
			}
		})
	}
}

func TestApplyEncryption(t *testing.T) {
	t.Parallel()

	kms := &Store{kmsKeyID: "key-1"}
	in := &s3.PutObjectInput{}
	kms.applyEncryption(in)
	if in.ServerSideEncryption != s3types.ServerSideEncryptionAwsKms {
		t.Fatalf("expected aws:kms, got %q", in.ServerSideEncryption)
	}
	if in.SSEKMSKeyId == nil || *in.SSEKMSKeyId != "key-1" {
		t.Fatalf("expected kms key id key-1")
	}

	plain := &Store{}
	in = &s3.PutObjectInput{}
	plain.applyEncryption(in)
	if in.ServerSideEncryption != s3types.ServerSideEncryptionAes256 {
		t.Fatalf("expected AES256, got %q", in.ServerSideEncryption)
	}
}
