package service

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"testing"
	"time"

	"vision_runner/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

// mockUserRepo is a lightweight in-test mock for repository.UserRepo.
type mockUserRepo struct {
	CreateFn     func(username, email, hash string) (models.User, error)
	GetByEmailFn func(email string) (*models.User, error)

	createCalls []struct {
		username string
		email    string
		hash     string
	}
	getCalls []string
}

func (m *mockUserRepo) Create(_ context.Context, username, email, hash string) (models.User, error) {
	m.createCalls = append(m.createCalls, struct {
		username string
		email    string
		hash     string
	}{username: username, email: email, hash: hash})
	return m.CreateFn(username, email, hash)
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.getCalls = append(m.getCalls, email)
	return m.GetByEmailFn(email)
}

// capturePublisher records published events.
type capturePublisher struct {
	events []models.ActivityEvent
	err    error
}

func (c *capturePublisher) Publish(_ context.Context, e models.ActivityEvent) error {
	c.events = append(c.events, e)
	return c.err
}

func newTestAuthService(repo *mockUserRepo, pub *capturePublisher) *AuthService {
	rec := &recorder{}
	if pub != nil {
		rec.pub = pub
	}
	return NewAuthService(repo, AuthConfig{Secret: testSecret, TokenTTL: time.Hour}, rec)
}

// --- Register tests ---

func TestAuthService_Register_SuccessHashesPasswordAndCallsRepo(t *testing.T) {
	mock := &mockUserRepo{
		CreateFn: func(username, email, hash string) (models.User, error) {
			return models.User{ID: 42, Username: username, Email: email, PasswordHash: hash}, nil
		},
	}
	pub := &capturePublisher{}
	svc := newTestAuthService(mock, pub)

	u, err := svc.Register(context.Background(), "alice", "alice@example.com", "s3cr3t")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if u.ID != 42 || u.Email != "alice@example.com" {
		t.Fatalf("unexpected user: %+v", u)
	}

	// Ensure Create called exactly once with hashed password (not equal to raw) and valid bcrypt.
	if len(mock.createCalls) != 1 {
		t.Fatalf("expected 1 Create call, got %d", len(mock.createCalls))
	}
	call := mock.createCalls[0]
	if call.username != "alice" || call.email != "alice@example.com" {
		t.Errorf("unexpected Create args: %+v", call)
	}
	if call.hash == "s3cr3t" {
		t.Errorf("expected hashed password not equal to raw password")
	}
	if err := verifyPassword(call.hash, "s3cr3t"); err != nil {
		t.Errorf("stored hash does not verify with the registered password: %v", err)
	}

	if len(pub.events) != 1 || pub.events[0].Type != models.EventUserRegistered {
		t.Fatalf("expected one USER_REGISTERED event, got %+v", pub.events)
	}
}

func TestAuthService_Register_MissingFields(t *testing.T) {
	cases := []struct {
		name                      string
		username, email, password string
		wantErr                   error
	}{
		{name: "no username", email: "a@b.c", password: "pw", wantErr: ErrMissingField},
		{name: "no email", username: "a", password: "pw", wantErr: ErrMissingField},
		{name: "no password", username: "a", email: "a@b.c", wantErr: ErrMissingField},
		{name: "blank password", username: "a", email: "a@b.c", password: "   ", wantErr: ErrEmptyPassword},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mock := &mockUserRepo{
				CreateFn: func(username, email, hash string) (models.User, error) {
					t.Fatal("Create should not be called for invalid input")
					return models.User{}, nil
				},
			}
			svc := newTestAuthService(mock, nil)

			_, err := svc.Register(context.Background(), tc.username, tc.email, tc.password)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestAuthService_Register_RepoError(t *testing.T) {
	mock := &mockUserRepo{
		CreateFn: func(username, email, hash string) (models.User, error) {
			return models.User{}, errors.New("UNIQUE constraint failed: users.email")
		},
	}
	pub := &capturePublisher{}
	svc := newTestAuthService(mock, pub)

	_, err := svc.Register(context.Background(), "carl", "taken@example.com", "pass123")
	if err == nil {
		t.Fatalf("expected repo error, got nil")
	}
	if len(pub.events) != 0 {
		t.Fatalf("no event expected on failure, got %+v", pub.events)
	}
}

func TestAuthService_Register_PublishErrorIgnored(t *testing.T) {
	mock := &mockUserRepo{
		CreateFn: func(username, email, hash string) (models.User, error) {
			return models.User{ID: 1, Username: username, Email: email}, nil
		},
	}
	svc := newTestAuthService(mock, &capturePublisher{err: errors.New("kafka down")})

	if _, err := svc.Register(context.Background(), "dan", "dan@example.com", "pw"); err != nil {
		t.Fatalf("publish failure must not fail Register: %v", err)
	}
}

// --- Login tests ---

func TestAuthService_Login_Success(t *testing.T) {
	// Prepare a user with a valid bcrypt hash for the provided password.
	hash, err := hashPassword("letmein")
	if err != nil {
		t.Fatalf("hashPassword failed: %v", err)
	}
	user := &models.User{ID: 7, Username: "diana", Email: "diana@example.com", PasswordHash: hash}

	mock := &mockUserRepo{
		GetByEmailFn: func(email string) (*models.User, error) {
			if email != "diana@example.com" {
				t.Fatalf("expected email 'diana@example.com', got %q", email)
			}
			return user, nil
		},
	}
	svc := newTestAuthService(mock, nil)

	token, u, err := svc.Login(context.Background(), "diana@example.com", "letmein")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected non-empty token")
	}
	if u.ID != 7 || u.Username != "diana" {
		t.Fatalf("unexpected user: %+v", u)
	}

	// Validate the token parses and returns the correct user id.
	uid, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if uid != 7 {
		t.Fatalf("expected user id 7 from token, got %d", uid)
	}

	if len(mock.getCalls) != 1 {
		t.Fatalf("expected 1 GetByEmail call, got %d", len(mock.getCalls))
	}
}

func TestAuthService_Login_TokenExpiresAfterTTL(t *testing.T) {
	hash, err := hashPassword("pw")
	if err != nil {
		t.Fatalf("hashPassword failed: %v", err)
	}
	mock := &mockUserRepo{
		GetByEmailFn: func(string) (*models.User, error) {
			return &models.User{ID: 3, PasswordHash: hash}, nil
		},
	}
	svc := newTestAuthService(mock, nil)

	before := time.Now()
	token, _, err := svc.Login(context.Background(), "x@example.com", "pw")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	claims := &Claims{}
	if _, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	}); err != nil {
		t.Fatalf("parse token: %v", err)
	}
	exp := claims.ExpiresAt.Time
	if exp.Before(before.Add(time.Hour-time.Minute)) || exp.After(before.Add(time.Hour+time.Minute)) {
		t.Fatalf("expected expiry about one hour from now, got %v", exp)
	}
}

func TestAuthService_Login_UnknownEmailAndWrongPasswordLookAlike(t *testing.T) {
	correctHash, err := hashPassword("correct")
	if err != nil {
		t.Fatalf("hashPassword failed: %v", err)
	}

	unknown := newTestAuthService(&mockUserRepo{
		GetByEmailFn: func(string) (*models.User, error) { return nil, nil },
	}, nil)
	wrong := newTestAuthService(&mockUserRepo{
		GetByEmailFn: func(string) (*models.User, error) {
			return &models.User{ID: 1, Username: "eve", PasswordHash: correctHash}, nil
		},
	}, nil)

	_, _, errUnknown := unknown.Login(context.Background(), "ghost@example.com", "pw")
	_, _, errWrong := wrong.Login(context.Background(), "eve@example.com", "wrong")

	if !errors.Is(errUnknown, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got: %v", errUnknown)
	}
	if !errors.Is(errWrong, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got: %v", errWrong)
	}
	if errUnknown.Error() != errWrong.Error() {
		t.Fatalf("errors must not reveal which check failed: %q vs %q", errUnknown, errWrong)
	}
}

func TestAuthService_Login_RepoError(t *testing.T) {
	mock := &mockUserRepo{
		GetByEmailFn: func(string) (*models.User, error) {
			return nil, errors.New("query failed")
		},
	}
	svc := newTestAuthService(mock, nil)

	_, _, err := svc.Login(context.Background(), "john@example.com", "pw")
	if err == nil {
		t.Fatalf("expected repo error, got nil")
	}
	if errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("store failures must not be reported as bad credentials")
	}
}

// --- ParseToken tests ---

func TestAuthService_ParseToken_Success(t *testing.T) {
	svc := newTestAuthService(&mockUserRepo{}, nil)
	token, err := svc.issueToken(99)
	if err != nil {
		t.Fatalf("issueToken failed: %v", err)
	}

	uid, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken returned error: %v", err)
	}
	if uid != 99 {
		t.Fatalf("expected user id 99, got %d", uid)
	}
}

func TestAuthService_ParseToken_Malformed(t *testing.T) {
	svc := newTestAuthService(&mockUserRepo{}, nil)
	_, err := svc.ParseToken("not-a-jwt")
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for malformed token, got %v", err)
	}
}

func TestAuthService_ParseToken_InvalidSignature(t *testing.T) {
	svc := newTestAuthService(&mockUserRepo{}, nil)

	// Create a token signed with a different key.
	now := time.Now()
	tk := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: 5,
	})
	badToken, err := tk.SignedString([]byte("different-key"))
	if err != nil {
		t.Fatalf("SignedString failed: %v", err)
	}

	_, err = svc.ParseToken(badToken)
	if err == nil {
		t.Fatalf("expected signature verification error")
	}
}

func TestAuthService_ParseToken_Expired(t *testing.T) {
	svc := newTestAuthService(&mockUserRepo{}, nil)

	// Issue an already expired token using same signing key.
	past := time.Now().Add(-2 * time.Hour)
	tk := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(past),
			IssuedAt:  jwt.NewNumericDate(past.Add(-time.Minute)),
		},
		UserID: 11,
	})
	expiredToken, err := tk.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("SignedString failed: %v", err)
	}

	_, err = svc.ParseToken(expiredToken)
	if err == nil {
		t.Fatalf("expected error for expired token")
	}
}

func TestAuthService_ParseToken_UnexpectedAlg(t *testing.T) {
	svc := newTestAuthService(&mockUserRepo{}, nil)

	now := time.Now()

	// Generate RSA key for RS256 signing
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("rsa.GenerateKey failed: %v", err)
	}

	tk := jwt.NewWithClaims(jwt.SigningMethodRS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: 12,
	})

	tokenStr, err := tk.SignedString(privateKey)
	if err != nil {
		t.Fatalf("SignedString failed: %v", err)
	}

	_, err = svc.ParseToken(tokenStr)
	if err == nil {
		t.Fatalf("expected error due to unexpected signing method")
	}
}

func TestNewAuthService_DefaultTTL(t *testing.T) {
	svc := NewAuthService(&mockUserRepo{}, AuthConfig{Secret: testSecret}, nil)
	if svc.ttl != defaultTokenTTL {
		t.Fatalf("expected default ttl %v, got %v", defaultTokenTTL, svc.ttl)
	}
}
