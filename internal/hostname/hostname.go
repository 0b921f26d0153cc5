package hostname

import (
	"errors"
	"fmt"
	"strings"

	"github.com/miekg/dns"
)

const (
	// MaxNameLen is the maximum total hostname length.
	MaxNameLen = 253
	// MaxLabelLen is the maximum length of a single label.
	MaxLabelLen = 63
)

// Parse splits a comma-separated hostname list, trims whitespace and drops
// empty entries.
func Parse(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		out = append(out, part)
	}
	return out
}

// Validate checks structural hostname validity: at least one label, total
// length within MaxNameLen, every label 1..MaxLabelLen chars of
// alphanumerics and hyphens. A trailing dot is an empty label and fails.
func Validate(name string) error {
	if name == "" {
		return errors.New("empty hostname")
	}

	if l := len(name); l > MaxNameLen {
		return fmt.Errorf("invalid hostname length: %d (%d max)", l, MaxNameLen)
	}

	if _, ok := dns.IsDomainName(name); !ok {
		return fmt.Errorf("not a valid domain name: %q", name)
	}

	for i, label := range strings.Split(name, ".") {
		if len(label) == 0 {
			return fmt.Errorf("empty hostname label at index %d", i)
		}

		if l := len(label); l > MaxLabelLen {
			return fmt.Errorf("invalid label length at index %d: %d (%d max)", i, l, MaxLabelLen)
		}

		for j, r := range label {
			if !isValidHostRune(r) {
				return fmt.Errorf("invalid hostname label at index %d: invalid char %q at index %d", i, r, j)
			}
		}
	}

	return nil
}

// isValidHostRune returns true if r is a valid rune for a hostname label.
func isValidHostRune(r rune) (ok bool) {
	return r == '-' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}
