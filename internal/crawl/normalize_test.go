package crawl

import "testing"

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"plain", "https://example.com/about", "https://example.com/about", true},
		{"strips fragment", "https://example.com/about#team", "https://example.com/about", true},
		{"strips query", "https://example.com/search?q=seo", "https://example.com/search", true},
		{"strips trailing slash", "https://example.com/blog/", "https://example.com/blog", true},
		{"keeps root slash", "https://example.com/", "https://example.com/", true},
		{"lowercases host", "https://EXAMPLE.com/About", "https://example.com/About", true},
		{"mailto rejected", "mailto:hi@example.com", "", false},
		{"tel rejected", "tel:+123456", "", false},
		{"javascript rejected", "javascript:void(0)", "", false},
		{"relative rejected", "/about", "", false},
		{"empty rejected", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeURL(tt.in)
			if ok != tt.ok {
				t.Fatalf("NormalizeURL(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeURLIdempotent(t *testing.T) {
	inputs := []string{
		"https://example.com/",
		"https://example.com/blog/post?utm=x#anchor",
		"https://EXAMPLE.com/Docs/",
	}
	for _, in := range inputs {
		once, ok := NormalizeURL(in)
		if !ok {
			t.Fatalf("NormalizeURL(%q) unexpectedly rejected", in)
		}
		twice, ok := NormalizeURL(once)
		if !ok || twice != once {
			t.Errorf("NormalizeURL not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestRegistrableDomain(t *testing.T) {
	tests := []struct {
		host string
		want string
	}{
		{"example.com", "example.com"},
		{"www.example.com", "example.com"},
		{"blog.example.com", "example.com"},
		{"example.com:8080", "example.com"},
		{"shop.example.co.uk", "example.co.uk"},
		{"localhost", "localhost"},
	}
	for _, tt := range tests {
		if got := RegistrableDomain(tt.host); got != tt.want {
			t.Errorf("RegistrableDomain(%q) = %q, want %q", tt.host, got, tt.want)
		}
	}
}

func TestSameSite(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://example.com/about", true},
		{"https://blog.example.com/post", true},
		{"https://www.example.com/", true},
		{"https://other.com/", false},
		{"https://example.com.evil.com/", false},
	}
	for _, tt := range tests {
		if got := SameSite(tt.url, "example.com"); got != tt.want {
			t.Errorf("SameSite(%q, example.com) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestSkippableResource(t *testing.T) {
	if !skippableResource("https://example.com/brochure.pdf") {
		t.Error("expected .pdf to be skipped")
	}
	if !skippableResource("https://example.com/logo.png") {
		t.Error("expected .png to be skipped")
	}
	if skippableResource("https://example.com/about") {
		t.Error("expected extensionless path to be crawled")
	}
	if skippableResource("https://example.com/index.html") {
		t.Error("expected .html to be crawled")
	}
}
