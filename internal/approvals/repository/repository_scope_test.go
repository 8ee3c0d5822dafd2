package repository

import (
	"strings"
	"testing"
)

func TestListBaseQueryIsOwnerScoped(t *testing.T) {
	query := strings.ToLower(listBaseQuery)

	requiredFragments := []string{
		"from approval_requests",
		"where owner_id = $1",
	}

	for _, fragment := range requiredFragments {
		if !strings.Contains(query, fragment) {
			t.Fatalf("expected owner-scoped query fragment %q to be present", fragment)
		}
	}
}

func TestApprovalColumnsNeverExposePlainToken(t *testing.T) {
	if strings.Contains(strings.ToLower(approvalColumns), "public_token") {
		t.Fatal("approval queries must only carry the token hash")
	}
	if !strings.Contains(strings.ToLower(approvalColumns), "token_hash") {
		t.Fatal("approval queries must select the token hash for lookups")
	}
}
