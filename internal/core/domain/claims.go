package domain

import "time"

// Claim is a single string claim extracted from a token, distinguishing an
// empty value from an absent one. Defaults are applied at the UserInfo
// mapping boundary, never during decoding.
type Claim struct {
	Value   string
	Present bool
}

// OrEmpty returns the claim value, or "" when the claim is absent.
func (c Claim) OrEmpty() string {
	if !c.Present {
		return ""
	}
	return c.Value
}

// Claims is the decoded payload of a bearer token. Tokens are immutable once
// issued; a new login always produces a new token, never a mutation.
type Claims struct {
	Subject    Claim
	Email      Claim
	GivenName  Claim
	FamilyName Claim
	Role       Claim
	MatchID    Claim

	ExpiresAt    time.Time
	HasExpiresAt bool
}
