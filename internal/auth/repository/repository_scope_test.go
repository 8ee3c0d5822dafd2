package repository

import (
	"strings"
	"testing"
)

func TestGetRefreshTokenQueryExcludesRevokedTokens(t *testing.T) {
	query := strings.ToLower(getRefreshTokenQuery)

	requiredFragments := []string{
		"from refresh_tokens",
		"where token_hash = $1",
		"revoked_at is null",
	}

	for _, fragment := range requiredFragments {
		if !strings.Contains(query, fragment) {
			t.Fatalf("expected refresh token query fragment %q to be present", fragment)
		}
	}
}

func TestUserLookupQueriesNeverSelectByPassword(t *testing.T) {
	for name, query := range map[string]string{
		"byEmail": getUserByEmailQuery,
		"byID":    getUserByIDQuery,
	} {
		lowered := strings.ToLower(query)
		if strings.Contains(lowered, "where") && strings.Contains(strings.SplitN(lowered, "where", 2)[1], "password") {
			t.Fatalf("query %s must not filter on password columns", name)
		}
	}
}
