package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/torneoops/matchday/internal/core/domain"
)

// TokenInspector decodes bearer tokens into claims and answers expiry
// questions. Decoding is deliberately unverified: signature validation is the
// server's concern, the client only needs to read what it was handed.
// All methods are pure functions of their inputs; none touch the clock.
type TokenInspector struct {
	parser *jwt.Parser
}

func NewTokenInspector() *TokenInspector {
	return &TokenInspector{parser: jwt.NewParser()}
}

// Decode extracts the claims payload from token. Malformed input yields an
// error wrapping domain.ErrMalformedToken; it never panics.
func (ti *TokenInspector) Decode(token string) (domain.Claims, error) {
	mc := jwt.MapClaims{}
	if _, _, err := ti.parser.ParseUnverified(token, mc); err != nil {
		return domain.Claims{}, fmt.Errorf("%w: %v", domain.ErrMalformedToken, err)
	}

	claims := domain.Claims{
		Subject:    stringClaim(mc, "sub"),
		Email:      stringClaim(mc, "email"),
		GivenName:  firstClaim(mc, "given_name", "firstName"),
		FamilyName: firstClaim(mc, "family_name", "lastName"),
		Role:       stringClaim(mc, "role"),
		MatchID:    firstClaim(mc, "match_id", "matchId"),
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
		claims.HasExpiresAt = true
	}
	return claims, nil
}

// TimeToExpire returns the remaining lifetime of token relative to now.
// The second return is false when the token is malformed or carries no
// parseable expiration claim. Negative durations are valid results: the
// token is already expired, which is not an error.
func (ti *TokenInspector) TimeToExpire(token string, now time.Time) (time.Duration, bool) {
	claims, err := ti.Decode(token)
	if err != nil || !claims.HasExpiresAt {
		return 0, false
	}
	return claims.ExpiresAt.Sub(now), true
}

// IsExpired reports whether token is unusable at now. A token without an
// expiration claim is treated as expired.
func (ti *TokenInspector) IsExpired(token string, now time.Time) bool {
	remaining, ok := ti.TimeToExpire(token, now)
	return !ok || remaining <= 0
}

// IsAboutToExpire reports whether token is still alive but expires within
// threshold.
func (ti *TokenInspector) IsAboutToExpire(token string, now time.Time, threshold time.Duration) bool {
	remaining, ok := ti.TimeToExpire(token, now)
	return ok && remaining > 0 && remaining <= threshold
}

// ExtractUserInfo maps well-known claim keys onto a User. Absent claims
// default to empty strings here, at the mapping boundary. The second return
// is false only when the token cannot be decoded at all.
func (ti *TokenInspector) ExtractUserInfo(token string) (domain.User, bool) {
	claims, err := ti.Decode(token)
	if err != nil {
		return domain.User{}, false
	}
	return domain.User{
		ID:        claims.Subject.OrEmpty(),
		Email:     claims.Email.OrEmpty(),
		FirstName: claims.GivenName.OrEmpty(),
		LastName:  claims.FamilyName.OrEmpty(),
		Role:      domain.Role(claims.Role.OrEmpty()),
		IsActive:  true,
	}, true
}

// stringClaim reads a single string claim, recording absence explicitly.
func stringClaim(mc jwt.MapClaims, key string) domain.Claim {
	v, ok := mc[key]
	if !ok {
		return domain.Claim{}
	}
	s, ok := v.(string)
	if !ok {
		return domain.Claim{}
	}
	return domain.Claim{Value: s, Present: true}
}

// firstClaim returns the first present claim among keys. Issuers have
// shipped both snake_case and camelCase variants of the same claim.
func firstClaim(mc jwt.MapClaims, keys ...string) domain.Claim {
	for _, key := range keys {
		if c := stringClaim(mc, key); c.Present {
			return c
		}
	}
	return domain.Claim{}
}
