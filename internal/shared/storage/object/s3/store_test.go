package s3

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "profiles/PROFILE.md", want: "profiles/PROFILE.md"},
		{name: "simple prefix", prefix: "root", key: "PROFILE.md", want: "root/PROFILE.md"},
		{name: "prefix trailing slash", prefix: "root/", key: "PROFILE.md", want: "root/PROFILE.md"},
		{name: "prefix and key slashes", prefix: "/root/", key: "/PROFILE.md", want: "root/PROFILE.md"},
		{name: "empty key", prefix: "root", key: "", want: "root"},
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

type fakeS3 struct {
	bucket string
	key    string
	body   string
	err    error
}

func (f *fakeS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	_ = ctx
	_ = optFns
	f.bucket = aws.ToString(params.Bucket)
	f.key = aws.ToString(params.Key)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

func TestOpenReadsObject(t *testing.T) {
	fake := &fakeS3{body: "profile text"}
	store := NewWithClient(fake, "bot-assets", "/persona/")

	rc, err := store.Open(context.Background(), "PROFILE.md")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "profile text" {
		t.Fatalf("unexpected body %q", data)
	}
	if fake.bucket != "bot-assets" || fake.key != "persona/PROFILE.md" {
		t.Fatalf("unexpected request bucket=%s key=%s", fake.bucket, fake.key)
	}
}

func TestOpenWrapsError(t *testing.T) {
	fake := &fakeS3{err: errors.New("access denied")}
	_, err := NewWithClient(fake, "b", "").Open(context.Background(), "k")
	if err == nil || !strings.Contains(err.Error(), "access denied") {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}
