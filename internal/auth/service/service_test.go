package service

import (
	"context"
	"testing"
	"time"

	"archject_backend/internal/auth/password"
	"archject_backend/internal/auth/repository"
	"archject_backend/internal/auth/token"
	"archject_backend/platform/apperr"
	"archject_backend/platform/events"
	"archject_backend/platform/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type stubAuthRepo struct {
	users         map[string]repository.User
	usersByID     map[uuid.UUID]repository.User
	roles         map[uuid.UUID][]string
	refreshTokens map[string]refreshRecord

	revokedAllFor []uuid.UUID
}

type refreshRecord struct {
	userID    uuid.UUID
	expiresAt time.Time
	revoked   bool
}

func newStubAuthRepo() *stubAuthRepo {
	return &stubAuthRepo{
		users:         map[string]repository.User{},
		usersByID:     map[uuid.UUID]repository.User{},
		roles:         map[uuid.UUID][]string{},
		refreshTokens: map[string]refreshRecord{},
	}
}

func (r *stubAuthRepo) CreateUser(_ context.Context, email, name, passwordHash string) (repository.User, error) {
	if _, exists := r.users[email]; exists {
		return repository.User{}, apperr.Conflict("email already registered")
	}
	user := repository.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	r.users[email] = user
	r.usersByID[user.ID] = user
	return user, nil
}

func (r *stubAuthRepo) GetUserByEmail(_ context.Context, email string) (repository.User, error) {
	user, ok := r.users[email]
	if !ok {
		return repository.User{}, apperr.NotFound("user not found")
	}
	return user, nil
}

func (r *stubAuthRepo) GetUserByID(_ context.Context, userID uuid.UUID) (repository.User, error) {
	user, ok := r.usersByID[userID]
	if !ok {
		return repository.User{}, apperr.NotFound("user not found")
	}
	return user, nil
}

func (r *stubAuthRepo) CreateRefreshToken(_ context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	r.refreshTokens[tokenHash] = refreshRecord{userID: userID, expiresAt: expiresAt}
	return nil
}

func (r *stubAuthRepo) GetRefreshToken(_ context.Context, tokenHash string) (uuid.UUID, time.Time, error) {
	record, ok := r.refreshTokens[tokenHash]
	if !ok || record.revoked {
		return uuid.Nil, time.Time{}, apperr.NotFound("refresh token not found")
	}
	return record.userID, record.expiresAt, nil
}

func (r *stubAuthRepo) RevokeRefreshToken(_ context.Context, tokenHash string) error {
	record, ok := r.refreshTokens[tokenHash]
	if ok {
		record.revoked = true
		r.refreshTokens[tokenHash] = record
	}
	return nil
}

func (r *stubAuthRepo) RevokeAllRefreshTokens(_ context.Context, userID uuid.UUID) error {
	r.revokedAllFor = append(r.revokedAllFor, userID)
	for hash, record := range r.refreshTokens {
		if record.userID == userID {
			record.revoked = true
			r.refreshTokens[hash] = record
		}
	}
	return nil
}

func (r *stubAuthRepo) GetUserRoles(_ context.Context, userID uuid.UUID) ([]string, error) {
	return r.roles[userID], nil
}

func (r *stubAuthRepo) SetUserRoles(_ context.Context, userID uuid.UUID, roles []string) error {
	r.roles[userID] = roles
	return nil
}

var _ repository.AuthRepository = (*stubAuthRepo)(nil)

type stubAuthConfig struct{}

func (stubAuthConfig) GetJWTAccessSecret() string        { return "test-secret" }
func (stubAuthConfig) GetAccessTokenTTL() time.Duration  { return 15 * time.Minute }
func (stubAuthConfig) GetRefreshTokenTTL() time.Duration { return 24 * time.Hour }

func newTestService(repo *stubAuthRepo) *Service {
	log := logger.New("development")
	return New(repo, stubAuthConfig{}, events.NewInMemoryBus(log), log)
}

func TestSignUpIssuesTokensAndDefaultRole(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newTestService(repo)

	pair, err := svc.SignUp(context.Background(), "ada@example.com", "Ada", "correct horse battery")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected both tokens to be issued")
	}

	user := repo.users["ada@example.com"]
	if got := repo.roles[user.ID]; len(got) != 1 || got[0] != "user" {
		t.Errorf("roles = %v, want [user]", got)
	}
	if user.PasswordHash == "correct horse battery" {
		t.Error("password stored in plain text")
	}
	if err := password.Compare(user.PasswordHash, "correct horse battery"); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}
}

func TestSignUpRejectsDuplicateEmail(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newTestService(repo)

	if _, err := svc.SignUp(context.Background(), "ada@example.com", "Ada", "password123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := svc.SignUp(context.Background(), "ada@example.com", "Ada", "password123")
	if !apperr.Is(err, apperr.KindConflict) {
		t.Errorf("expected conflict, got %v", err)
	}
}

func TestSignInWithWrongPasswordIsUnauthorized(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newTestService(repo)

	if _, err := svc.SignUp(context.Background(), "ada@example.com", "Ada", "password123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := svc.SignIn(context.Background(), "ada@example.com", "wrong password")
	if !apperr.Is(err, apperr.KindUnauthorized) {
		t.Errorf("expected unauthorized, got %v", err)
	}

	// Unknown email reports the same error so the two cases are
	// indistinguishable to a caller.
	_, err = svc.SignIn(context.Background(), "nobody@example.com", "password123")
	if !apperr.Is(err, apperr.KindUnauthorized) {
		t.Errorf("expected unauthorized, got %v", err)
	}
}

func TestAccessTokenCarriesIdentityClaims(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newTestService(repo)

	pair, err := svc.SignUp(context.Background(), "ada@example.com", "Ada", "password123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	parsed, err := jwt.Parse(pair.AccessToken, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}

	claims := parsed.Claims.(jwt.MapClaims)
	user := repo.users["ada@example.com"]
	if claims["sub"] != user.ID.String() {
		t.Errorf("sub = %v, want %s", claims["sub"], user.ID)
	}
	if claims["type"] != "access" {
		t.Errorf("type = %v, want access", claims["type"])
	}
}

func TestRefreshRotatesTheToken(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newTestService(repo)

	pair, err := svc.SignUp(context.Background(), "ada@example.com", "Ada", "password123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	next, err := svc.Refresh(context.Background(), pair.RefreshToken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.RefreshToken == pair.RefreshToken {
		t.Error("refresh token was not rotated")
	}

	// The presented token is single use.
	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	if !apperr.Is(err, apperr.KindUnauthorized) {
		t.Errorf("expected unauthorized on reuse, got %v", err)
	}
}

func TestRefreshRejectsExpiredToken(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newTestService(repo)

	userID := uuid.New()
	repo.usersByID[userID] = repository.User{ID: userID}
	plain := "expired-token"
	repo.refreshTokens[token.HashSHA256(plain)] = refreshRecord{
		userID:    userID,
		expiresAt: time.Now().Add(-time.Hour),
	}

	_, err := svc.Refresh(context.Background(), plain)
	if !apperr.Is(err, apperr.KindUnauthorized) {
		t.Errorf("expected unauthorized, got %v", err)
	}
}

func TestSignOutRevokesTheToken(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newTestService(repo)

	pair, err := svc.SignUp(context.Background(), "ada@example.com", "Ada", "password123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.SignOut(context.Background(), pair.RefreshToken); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	if !apperr.Is(err, apperr.KindUnauthorized) {
		t.Errorf("expected unauthorized after sign-out, got %v", err)
	}
}

func TestSetUserRolesRevokesExistingSessions(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newTestService(repo)

	pair, err := svc.SignUp(context.Background(), "ada@example.com", "Ada", "password123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	user := repo.users["ada@example.com"]

	if err := svc.SetUserRoles(context.Background(), user.ID, []string{"user", "admin"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.revokedAllFor) != 1 || repo.revokedAllFor[0] != user.ID {
		t.Errorf("expected all sessions revoked for %s, got %v", user.ID, repo.revokedAllFor)
	}
	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	if !apperr.Is(err, apperr.KindUnauthorized) {
		t.Errorf("expected unauthorized after role change, got %v", err)
	}
}
