package assistant

import "testing"

func testPolicy() CORSPolicy {
	return CORSPolicy{
		AllowedOrigins: []string{"https://pawsquare.app", "http://localhost:5173"},
		CustomDomain:   "www.pawsquare.example",
		ProjectDomain:  "pawsquare.example",
	}
}

func TestAllowOrigin(t *testing.T) {
	p := testPolicy()

	cases := []struct {
		name   string
		origin string
		want   string
	}{
		{"static exact match", "https://pawsquare.app", "https://pawsquare.app"},
		{"static second entry", "http://localhost:5173", "http://localhost:5173"},
		{"preview suffix app", "https://preview--pawsquare.lovable.app", "https://preview--pawsquare.lovable.app"},
		{"preview suffix dev", "https://pawsquare.lovable.dev", "https://pawsquare.lovable.dev"},
		{"custom domain", "https://www.pawsquare.example", "https://www.pawsquare.example"},
		{"project domain", "https://pawsquare.example", "https://pawsquare.example"},
		{"unknown origin falls back", "https://evil.example.com", "https://pawsquare.app"},
		{"lookalike host falls back", "https://lovable.app.evil.com", "https://pawsquare.app"},
		{"empty origin falls back", "", "https://pawsquare.app"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := p.AllowOrigin(tc.origin); got != tc.want {
				t.Fatalf("AllowOrigin(%q) = %q, want %q", tc.origin, got, tc.want)
			}
		})
	}
}

func TestAllowOrigin_NeverWildcard(t *testing.T) {
	p := testPolicy()
	for _, origin := range []string{"", "https://nope.example", "null"} {
		if got := p.AllowOrigin(origin); got == "*" {
			t.Fatalf("AllowOrigin(%q) returned a wildcard", origin)
		}
	}
}

func TestHeaders(t *testing.T) {
	h := testPolicy().Headers("https://app.lovable.dev")
	if h["Access-Control-Allow-Origin"] != "https://app.lovable.dev" {
		t.Fatalf("origin header = %q", h["Access-Control-Allow-Origin"])
	}
	if h["Access-Control-Allow-Headers"] != "authorization, x-client-info, apikey, content-type" {
		t.Fatalf("headers header = %q", h["Access-Control-Allow-Headers"])
	}
	if h["Access-Control-Allow-Methods"] != "POST, OPTIONS" {
		t.Fatalf("methods header = %q", h["Access-Control-Allow-Methods"])
	}
}
