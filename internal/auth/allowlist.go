package auth

import "strings"

// Allowlist is the set of admin email addresses permitted to run destructive
// operations. Matching is case-insensitive.
type Allowlist struct {
	emails map[string]struct{}
}

// NewAllowlist builds an allow-list from the given emails, ignoring blanks.
func NewAllowlist(emails ...string) *Allowlist {
	set := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			set[e] = struct{}{}
		}
	}
	return &Allowlist{emails: set}
}

// Allows reports whether the email is on the list.
func (l *Allowlist) Allows(email string) bool {
	_, ok := l.emails[strings.ToLower(strings.TrimSpace(email))]
	return ok
}
