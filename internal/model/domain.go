package model

// Domain is a fixed life-area category used to bucket survey questions
// and stress findings.
type Domain string

const (
	DomainWorkCareer   Domain = "Work & Career"
	DomainPersonalLife Domain = "Personal Life"
	DomainFinancial    Domain = "Financial Stress"
	DomainHealth       Domain = "Health"
	DomainSelfWorth    Domain = "Self-Worth & Identity"
)

// AllDomains lists every recognized domain.
var AllDomains = []Domain{
	DomainWorkCareer,
	DomainPersonalLife,
	DomainFinancial,
	DomainHealth,
	DomainSelfWorth,
}

// domainAliases maps legacy labels that appeared in older survey payloads
// onto the canonical domains.
var domainAliases = map[string]Domain{
	"Financial Security":     DomainFinancial,
	"Personal Relationships": DomainPersonalLife,
	"Health & Wellness":      DomainHealth,
}

// ParseDomain resolves a raw string to a canonical Domain.
// Returns false if the value is not a recognized domain or alias.
func ParseDomain(raw string) (Domain, bool) {
	for _, d := range AllDomains {
		if string(d) == raw {
			return d, true
		}
	}
	if d, ok := domainAliases[raw]; ok {
		return d, true
	}
	return "", false
}

// IsValid reports whether d is one of the canonical domains.
func (d Domain) IsValid() bool {
	for _, v := range AllDomains {
		if v == d {
			return true
		}
	}
	return false
}
