package security

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestValidateHTTPURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{name: "public https", url: "https://example.com/wall.png"},
		{name: "empty", url: "", wantErr: true},
		{name: "plain http", url: "http://example.com/wall.png", wantErr: true},
		{name: "file scheme", url: "file:///etc/passwd", wantErr: true},
		{name: "no host", url: "https:///wall.png", wantErr: true},
		{name: "localhost", url: "https://localhost/wall.png", wantErr: true},
		{name: "loopback", url: "https://127.0.0.1/wall.png", wantErr: true},
		{name: "private v4", url: "https://192.168.1.10/wall.png", wantErr: true},
		{name: "private 172", url: "https://172.20.0.1/wall.png", wantErr: true},
		{name: "link local", url: "https://169.254.169.254/latest", wantErr: true},
		{name: "ipv6 loopback", url: "https://[::1]/wall.png", wantErr: true},
		{name: "ipv6 unique local", url: "https://[fd00::1]/wall.png", wantErr: true},
		{name: "public ip", url: "https://93.184.216.34/wall.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHTTPURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateHTTPURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestLimitedReader(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		limit   int64
		wantErr error
	}{
		{name: "under limit", input: "abc", limit: 10},
		{name: "exactly at limit", input: "abcd", limit: 4},
		{name: "over limit", input: "abcdef", limit: 4, wantErr: ErrSizeLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := io.ReadAll(NewLimitedReader(strings.NewReader(tt.input), tt.limit))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ReadAll() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && string(data) != tt.input {
				t.Errorf("ReadAll() = %q, want %q", data, tt.input)
			}
		})
	}
}
