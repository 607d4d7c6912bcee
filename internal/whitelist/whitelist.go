package whitelist

import (
	"net/mail"
	"strings"

	"go.uber.org/zap"
)

// Checker reports whether a sender belongs to a trusted domain. A listed
// domain also covers its subdomains.
type Checker struct {
	domains map[string]struct{}
	logger  *zap.Logger
}

// NewChecker creates a new whitelist checker
func NewChecker(domains []string, logger *zap.Logger) *Checker {
	if logger == nil {
		logger = zap.NewNop()
	}

	set := make(map[string]struct{}, len(domains))
	normalized := make([]string, 0, len(domains))
	for _, domain := range domains {
		domain = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(domain)), "@")
		domain = strings.TrimSuffix(domain, ".")
		if domain == "" {
			continue
		}
		if _, dup := set[domain]; !dup {
			set[domain] = struct{}{}
			normalized = append(normalized, domain)
		}
	}

	if len(normalized) > 0 {
		logger.Info("Initialized whitelist checker", zap.Strings("domains", normalized))
	}

	return &Checker{
		domains: set,
		logger:  logger,
	}
}

// Len returns the number of whitelisted domains
func (c *Checker) Len() int {
	return len(c.domains)
}

// IsWhitelisted checks if the sender's domain is in the whitelist. from may
// be a bare address or a full "Name <user@host>" header value.
func (c *Checker) IsWhitelisted(from string) bool {
	if len(c.domains) == 0 {
		return false
	}

	domain := SenderDomain(from)
	if domain == "" {
		return false
	}

	for candidate := domain; candidate != ""; {
		if _, ok := c.domains[candidate]; ok {
			c.logger.Debug("Domain is whitelisted",
				zap.String("domain", domain),
				zap.String("email", from))
			return true
		}
		dot := strings.IndexByte(candidate, '.')
		if dot < 0 {
			break
		}
		candidate = candidate[dot+1:]
	}

	return false
}

// SenderDomain extracts the lowercase domain of an address, or "" when the
// value holds no parsable address
func SenderDomain(from string) string {
	address := strings.TrimSpace(from)
	if parsed, err := mail.ParseAddress(address); err == nil {
		address = parsed.Address
	}
	address = strings.Trim(address, "<>")

	at := strings.LastIndexByte(address, '@')
	if at < 0 || at == len(address)-1 {
		return ""
	}
	return strings.TrimSuffix(strings.ToLower(address[at+1:]), ".")
}
