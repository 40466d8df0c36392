package crawl

import (
	"net/url"
	"strings"
)

// nonHTMLExtensions are resource suffixes the crawler never enqueues.
var nonHTMLExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true,
	".avif": true, ".svg": true, ".ico": true, ".bmp": true,
	".pdf": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true,
	".ppt": true, ".pptx": true, ".zip": true, ".rar": true, ".gz": true,
	".tar": true, ".7z": true, ".mp3": true, ".mp4": true, ".avi": true,
	".mov": true, ".webm": true, ".css": true, ".js": true, ".json": true,
	".xml": true, ".rss": true, ".woff": true, ".woff2": true, ".ttf": true,
	".eot": true,
}

// NormalizeURL canonicalizes a URL for the visited set: scheme + host + path,
// fragment and query dropped, trailing slash removed except for the root.
// URLs differing only by fragment or query identify the same page.
func NormalizeURL(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}

	normalized := u.Scheme + "://" + strings.ToLower(u.Host) + u.Path
	if len(u.Path) > 1 && strings.HasSuffix(normalized, "/") {
		normalized = strings.TrimSuffix(normalized, "/")
	}
	return normalized, true
}

// RegistrableDomain reduces a hostname to the domain used for "same site"
// decisions. It strips a leading "www." and, for hosts with more than two
// labels, keeps the last two (so blog.example.com → example.com). Two-part
// public suffixes such as .co.uk keep three labels.
func RegistrableDomain(host string) string {
	host = strings.ToLower(host)
	if h, _, ok := strings.Cut(host, ":"); ok {
		host = h
	}
	host = strings.TrimPrefix(host, "www.")

	labels := strings.Split(host, ".")
	if len(labels) <= 2 {
		return host
	}

	// Common two-label public suffixes where the registrable domain needs
	// three labels.
	suffix2 := labels[len(labels)-2] + "." + labels[len(labels)-1]
	switch suffix2 {
	case "co.uk", "org.uk", "ac.uk", "gov.uk", "com.au", "net.au", "org.au",
		"co.jp", "co.nz", "com.br", "com.mx", "co.in", "co.za":
		if len(labels) >= 3 {
			return strings.Join(labels[len(labels)-3:], ".")
		}
	}
	return suffix2
}

// SameSite reports whether the URL's host belongs to the given registrable
// domain. Subdomains count as internal: blog.example.com is part of
// example.com, examplex.com is not.
func SameSite(rawURL, domain string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return false
	}
	return RegistrableDomain(u.Hostname()) == domain
}

// skippableResource reports whether the URL path ends in a non-HTML resource
// extension.
func skippableResource(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return true
	}
	path := strings.ToLower(u.Path)
	if i := strings.LastIndex(path, "."); i >= 0 {
		return nonHTMLExtensions[path[i:]]
	}
	return false
}
