package booking

import (
	"regexp"
	"strings"
)

var (
	domainLabelRe = regexp.MustCompile(`^[a-zA-Z0-9-]+$`)
	tldRe         = regexp.MustCompile(`^[a-zA-Z]+$`)
	emailRe       = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)+$`)
)

// EmailProblem describes what is wrong with a customer email address, or
// returns "" when the address is acceptable.
func EmailProblem(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return "Email is required"
	}

	switch strings.Count(email, "@") {
	case 0:
		return "Email must contain @ symbol"
	case 1:
	default:
		return "Email must contain exactly one @ symbol"
	}

	local, domain, _ := strings.Cut(email, "@")
	if local == "" {
		return "Email must have a username before @"
	}
	if len(local) > 64 {
		return "Username part is too long (max 64 characters)"
	}

	if domain == "" {
		return "Email must have a domain after @"
	}
	if !strings.Contains(domain, ".") {
		return "Please enter a complete email address (e.g., user@gmail.com)"
	}
	if len(domain) > 253 {
		return "Domain part is too long"
	}
	if strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return "Domain cannot start or end with a dot"
	}
	if strings.Contains(domain, "..") {
		return "Domain cannot contain consecutive dots"
	}

	labels := strings.Split(domain, ".")
	for _, l := range labels {
		if len(l) > 63 {
			return "Domain part is too long"
		}
		if !domainLabelRe.MatchString(l) {
			return "Domain contains invalid characters"
		}
		if strings.HasPrefix(l, "-") || strings.HasSuffix(l, "-") {
			return "Domain parts cannot start or end with hyphen"
		}
	}

	tld := labels[len(labels)-1]
	if len(tld) < 2 {
		return "Please enter a valid domain extension (e.g., .com, .org)"
	}
	if !tldRe.MatchString(tld) {
		return "Domain extension should only contain letters"
	}

	if !emailRe.MatchString(email) {
		return "Please enter a valid email address"
	}

	return ""
}
