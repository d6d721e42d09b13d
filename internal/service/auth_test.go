package service

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"jobguard/internal/models"
)

// memAuthRepo is an in-memory AuthRepository for service tests.
type memAuthRepo struct {
	users map[string]*models.User
	next  int64
}

func newMemAuthRepo() *memAuthRepo {
	return &memAuthRepo{users: make(map[string]*models.User)}
}

func (m *memAuthRepo) CreateUser(user *models.User) error {
	m.next++
	user.ID = m.next
	m.users[user.Username] = user
	return nil
}

func (m *memAuthRepo) GetUserByUsername(username string) (*models.User, error) {
	user, ok := m.users[username]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func (m *memAuthRepo) CountUsers() (int, error) { return len(m.users), nil }

func TestSeedAdmin_Idempotent(t *testing.T) {
	repo := newMemAuthRepo()
	svc := NewAuthService(repo, "test-secret", zap.NewNop())

	if err := svc.SeedAdmin("admin", "correct horse battery staple"); err != nil {
		t.Fatalf("SeedAdmin: %v", err)
	}
	user := repo.users["admin"]
	if user == nil {
		t.Fatal("admin not created")
	}
	if user.PasswordHash == "correct horse battery staple" {
		t.Fatal("password stored in plaintext")
	}

	firstHash := user.PasswordHash
	if err := svc.SeedAdmin("admin", "a different password"); err != nil {
		t.Fatalf("second SeedAdmin: %v", err)
	}
	if len(repo.users) != 1 {
		t.Errorf("seeding created %d users, want 1", len(repo.users))
	}
	if repo.users["admin"].PasswordHash != firstHash {
		t.Error("second seed replaced the existing credential")
	}
}

func TestLogin_TokenRoundTrip(t *testing.T) {
	repo := newMemAuthRepo()
	svc := NewAuthService(repo, "test-secret", zap.NewNop())
	if err := svc.SeedAdmin("admin", "s3cret-pass"); err != nil {
		t.Fatalf("SeedAdmin: %v", err)
	}

	token, expiry, err := svc.Login("admin", "s3cret-pass")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Fatal("Login returned empty token")
	}
	if !expiry.After(time.Now()) {
		t.Errorf("expiry %v is not in the future", expiry)
	}

	claims, err := svc.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if claims.Username != "admin" {
		t.Errorf("claims.Username = %q, want admin", claims.Username)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	repo := newMemAuthRepo()
	svc := NewAuthService(repo, "test-secret", zap.NewNop())
	if err := svc.SeedAdmin("admin", "s3cret-pass"); err != nil {
		t.Fatalf("SeedAdmin: %v", err)
	}

	if _, _, err := svc.Login("admin", "wrong-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login with wrong password = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := svc.Login("ghost", "s3cret-pass"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Login with unknown user = %v, want ErrUserNotFound", err)
	}
}

func TestVerifyToken_RejectsForgedToken(t *testing.T) {
	repo := newMemAuthRepo()
	svc := NewAuthService(repo, "test-secret", zap.NewNop())
	if err := svc.SeedAdmin("admin", "s3cret-pass"); err != nil {
		t.Fatalf("SeedAdmin: %v", err)
	}
	token, _, err := svc.Login("admin", "s3cret-pass")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	other := NewAuthService(repo, "a-different-secret", zap.NewNop())
	if _, err := other.VerifyToken(token); err == nil {
		t.Error("VerifyToken accepted a token signed with another secret")
	}

	if _, err := svc.VerifyToken("not.a.token"); err == nil {
		t.Error("VerifyToken accepted garbage")
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := hashPassword("open sesame")
	if err != nil {
		t.Fatalf("hashPassword: %v", err)
	}
	if !verifyPassword(hash, "open sesame") {
		t.Error("verifyPassword rejected the correct password")
	}
	if verifyPassword(hash, "open says me") {
		t.Error("verifyPassword accepted a wrong password")
	}
	if verifyPassword("$bcrypt$whatever", "open sesame") {
		t.Error("verifyPassword accepted a malformed hash")
	}

	// Two hashes of the same password differ by salt.
	again, err := hashPassword("open sesame")
	if err != nil {
		t.Fatalf("hashPassword: %v", err)
	}
	if hash == again {
		t.Error("hashes are not salted")
	}
}
