package suppliers

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"

	"supplyrisk/internal/domain"
)

// hostOf extracts the host from a bare host name or a URL.
func hostOf(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty domain", domain.ErrInvalidInput)
	}
	if !strings.Contains(raw, "://") {
		raw = "//" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	host := strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
	if host == "" {
		return "", fmt.Errorf("%w: %q has no host", domain.ErrInvalidInput, raw)
	}
	if _, err := publicsuffix.EffectiveTLDPlusOne(host); err != nil {
		return "", fmt.Errorf("%w: %q is not a registrable domain", domain.ErrInvalidInput, host)
	}
	if suffix, icann := publicsuffix.PublicSuffix(host); !icann && !strings.Contains(suffix, ".") {
		return "", fmt.Errorf("%w: %q has an unknown public suffix", domain.ErrInvalidInput, host)
	}
	return host, nil
}

// NormalizeDomain returns the lower-cased host of a primary domain. The full
// host is kept (aws.amazon.com stays aws.amazon.com) since it is the rating
// lookup key.
func NormalizeDomain(raw string) (string, error) {
	return hostOf(raw)
}

// NormalizeURLs validates every entry, trims it and drops duplicates.
func NormalizeURLs(raw []string) ([]string, error) {
	out := make([]string, 0, len(raw))
	seen := map[string]bool{}
	for _, r := range raw {
		if _, err := hostOf(r); err != nil {
			return nil, err
		}
		r = strings.TrimSpace(r)
		if seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	return out, nil
}
