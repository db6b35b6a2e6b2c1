package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
)

// SchemePrefix replaces the two-character scheme-relative prefix of a seed.
const SchemePrefix = "https://"

// MalformedInputError reports a value that cannot be normalized into an
// absolute URL.
type MalformedInputError struct {
	Raw    string
	Reason string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed url %q: %s", e.Raw, e.Reason)
}

// HashURL creates a SHA256 hash of a URL string.
// Used as the Redis key for visited seeds.
func HashURL(rawURL string) string {
	h := sha256.New()
	h.Write([]byte(rawURL))
	return hex.EncodeToString(h.Sum(nil))
}

// ToAbsoluteURL converts a relative URL to an absolute URL given a base URL.
func ToAbsoluteURL(base *url.URL, relative string) (string, error) {
	relURL, err := url.Parse(relative)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(relURL).String(), nil
}

// ResolveAttribute resolves href and src values against the document
// location, the way a browser reports them as properties. Other attributes
// are returned unchanged.
func ResolveAttribute(location, name, value string) string {
	switch strings.ToLower(name) {
	case "href", "src":
	default:
		return value
	}
	base, err := url.Parse(location)
	if err != nil || !base.IsAbs() {
		return value
	}
	abs, err := ToAbsoluteURL(base, strings.TrimSpace(value))
	if err != nil {
		return value
	}
	return abs
}

// RepairScheme turns a scheme-relative seed such as "//host/path" into
// "https://host/path" by replacing its first two characters.
// Already-absolute values are refused rather than corrupted.
func RepairScheme(raw string) (string, error) {
	if len(raw) <= 2 {
		return "", &MalformedInputError{Raw: raw, Reason: "too short to carry a host"}
	}
	if hasScheme(raw) {
		return "", &MalformedInputError{Raw: raw, Reason: "already carries a scheme"}
	}
	repaired := SchemePrefix + raw[2:]
	if err := ValidateAbsolute(repaired); err != nil {
		return "", &MalformedInputError{Raw: raw, Reason: err.(*MalformedInputError).Reason}
	}
	return repaired, nil
}

// ValidateAbsolute checks that raw parses as an absolute http(s) URL with a host.
func ValidateAbsolute(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return &MalformedInputError{Raw: raw, Reason: err.Error()}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return &MalformedInputError{Raw: raw, Reason: "scheme must be http or https"}
	}
	if u.Host == "" {
		return &MalformedInputError{Raw: raw, Reason: "missing host"}
	}
	return nil
}

func hasScheme(raw string) bool {
	i := strings.Index(raw, "://")
	if i <= 0 {
		return false
	}
	for _, r := range raw[:i] {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.') {
			return false
		}
	}
	return true
}
