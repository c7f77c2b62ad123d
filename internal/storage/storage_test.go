package storage

import "testing"

func TestKeyFromURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"s3_url", "https://finbook-receipts.s3.eu-central-1.amazonaws.com/receipts/7/0190e3a1-aaaa-7bbb-8ccc-dddddddddddd", "receipts/7/0190e3a1-aaaa-7bbb-8ccc-dddddddddddd"},
		{"fake_url", "https://fake-bucket.s3.test.amazonaws.com/receipts/1/abc", "receipts/1/abc"},
		{"no_prefix", "https://example.com/other/path", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KeyFromURL(tt.url); got != tt.want {
				t.Errorf("KeyFromURL(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}
