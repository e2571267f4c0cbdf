package urlutil

import "testing"

func TestNormalizeEndpoint(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"bare host gets http scheme", "localhost:8080", "http://localhost:8080", false},
		{"upper-case host lowered", "HTTP://LOCALHOST:8080", "http://localhost:8080", false},
		{"default http port dropped", "http://example.com:80", "http://example.com", false},
		{"default https port kept scheme", "https://example.com:443", "https://example.com", false},
		{"trailing slash stripped", "http://example.com/api/", "http://example.com/api", false},
		{"fragment stripped", "http://example.com/#frag", "http://example.com", false},
		{"idn host punycoded", "http://bücher.example", "http://xn--bcher-kva.example", false},
		{"empty", "", "", true},
		{"unsupported scheme", "ftp://example.com", "", true},
		{"whitespace only", "   ", "", true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := NormalizeEndpoint(c.in)
			if c.wantErr {
				if err == nil {
					t.Fatalf("NormalizeEndpoint(%q) expected error, got %q", c.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeEndpoint(%q): %v", c.in, err)
			}
			if got != c.want {
				t.Errorf("NormalizeEndpoint(%q) = %q, want %q", c.in, got, c.want)
			}
		})
	}
}

func TestJoin(t *testing.T) {
	t.Parallel()
	if got := Join("http://example.com", "api/stats"); got != "http://example.com/api/stats" {
		t.Errorf("Join = %q", got)
	}
	if got := Join("http://example.com", "/api/stats"); got != "http://example.com/api/stats" {
		t.Errorf("Join = %q", got)
	}
	if got := Join("http://example.com", ""); got != "http://example.com" {
		t.Errorf("Join with empty path = %q", got)
	}
}
