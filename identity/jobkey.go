package identity

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"

	"hireassist/models"
)

// JobKey resolves the dedupe identity for a posting. ATS sources use the
// provider's own ID verbatim; scraped postings hash company, title and a
// normalized URL so that tracking params and trailing slashes don't mint
// new identities across scrapes.
func JobKey(source models.Source, companyName string, p *models.RawPosting) (string, error) {
	if source.IsATS() {
		id := strings.TrimSpace(p.ProviderID)
		if id == "" {
			return "", fmt.Errorf("source %s posting %q has no provider id", source, p.Title)
		}
		return id, nil
	}
	input := fmt.Sprintf("%s|%s|%s",
		strings.ToLower(strings.TrimSpace(companyName)),
		strings.ToLower(strings.TrimSpace(p.Title)),
		NormalizeURL(p.URL),
	)
	hash := sha1.Sum([]byte(input))
	return hex.EncodeToString(hash[:]), nil
}

// NormalizeURL lowercases host+path and strips query string, fragment and
// trailing slashes. Unparseable URLs fall back to the lowercased raw string.
func NormalizeURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return strings.TrimRight(strings.ToLower(strings.TrimSpace(raw)), "/")
	}
	return strings.TrimRight(strings.ToLower(u.Host+u.Path), "/")
}
