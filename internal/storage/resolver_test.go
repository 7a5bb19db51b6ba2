package storage_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/localnerve/shoutbase/internal/storage"
)

// fakeSigner records keys and returns deterministic URLs
type fakeSigner struct {
	failOn string
}

func (f *fakeSigner) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	if f.failOn != "" && key == f.failOn {
		return "", errors.New("presign failure")
	}
	return "https://signed.example.com/" + key, nil
}

func (f *fakeSigner) PresignPut(_ context.Context, key, _ string, _ time.Duration) (string, error) {
	return "https://signed.example.com/put/" + key, nil
}

func strPtr(s string) *string { return &s }

func TestKeyFromReference(t *testing.T) {
	cases := []struct {
		ref  string
		want string
	}{
		{"https://bucket.s3.amazonaws.com/Images/logo.png", "Images/logo.png"},
		{"http://localhost:9000/Images/logo.png", "Images/logo.png"},
		{"Images/logo.png", "Images/logo.png"},
		{"/Images/logo.png", "Images/logo.png"},
	}

	for _, c := range cases {
		got := storage.KeyFromReference(c.ref)
		if got != c.want {
			t.Errorf("KeyFromReference(%q) = %q, want %q", c.ref, got, c.want)
		}
	}
}

func TestSignedReadURLNilAndEmpty(t *testing.T) {
	resolver := storage.NewResolver(&fakeSigner{})

	url, err := resolver.SignedReadURL(context.Background(), nil, time.Hour)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if url != nil {
		t.Error("Expected nil URL for nil reference")
	}

	url, err = resolver.SignedReadURL(context.Background(), strPtr(""), time.Hour)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if url != nil {
		t.Error("Expected nil URL for empty reference")
	}
}

func TestSignedReadURL(t *testing.T) {
	resolver := storage.NewResolver(&fakeSigner{})

	url, err := resolver.SignedReadURL(context.Background(), strPtr("Images/logo.png"), time.Hour)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if url == nil || *url != "https://signed.example.com/Images/logo.png" {
		t.Errorf("Unexpected URL: %v", url)
	}
}

func TestSignedReadURLsPreservesOrder(t *testing.T) {
	resolver := storage.NewResolver(&fakeSigner{})

	refs := make([]*string, 0, 20)
	for i := 0; i < 20; i++ {
		if i%3 == 0 {
			refs = append(refs, nil)
		} else {
			refs = append(refs, strPtr(fmt.Sprintf("Images/%d.png", i)))
		}
	}

	urls, err := resolver.SignedReadURLs(context.Background(), refs, time.Hour)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(urls) != len(refs) {
		t.Fatalf("Expected %d results, got %d", len(refs), len(urls))
	}

	for i, ref := range refs {
		if ref == nil {
			if urls[i] != nil {
				t.Errorf("Expected nil at index %d", i)
			}
			continue
		}
		want := "https://signed.example.com/" + *ref
		if urls[i] == nil || *urls[i] != want {
			t.Errorf("Index %d: expected %q, got %v", i, want, urls[i])
		}
	}
}

func TestSignedReadURLsFailureIsTotal(t *testing.T) {
	resolver := storage.NewResolver(&fakeSigner{failOn: "Images/bad.png"})

	refs := []*string{
		strPtr("Images/ok.png"),
		strPtr("Images/bad.png"),
		strPtr("Images/also-ok.png"),
	}

	urls, err := resolver.SignedReadURLs(context.Background(), refs, time.Hour)
	if err == nil {
		t.Fatal("Expected resolution to fail")
	}
	if urls != nil {
		t.Error("Expected no partial results on failure")
	}
}
