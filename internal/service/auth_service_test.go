package service

import (
	"errors"
	"testing"

	"github.com/davrbek/examgate/config"
	"github.com/davrbek/examgate/internal/dto"
	"github.com/davrbek/examgate/internal/model"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeAdminRepo struct {
	admins map[string]*model.AdminUser
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{admins: make(map[string]*model.AdminUser)}
}

func (r *fakeAdminRepo) Create(admin *model.AdminUser) error {
	if _, ok := r.admins[admin.Username]; ok {
		return gorm.ErrDuplicatedKey
	}
	if admin.ID == uuid.Nil {
		admin.ID = uuid.New()
	}
	r.admins[admin.Username] = admin
	return nil
}

func (r *fakeAdminRepo) FindByUsername(username string) (*model.AdminUser, error) {
	admin, ok := r.admins[username]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return admin, nil
}

func authTestConfig() *config.Config {
	return &config.Config{
		Auth: config.Auth{
			JWTSecret:          "test-secret",
			TokenExpireMinutes: 60,
			BootstrapUsername:  "admin",
			BootstrapPassword:  "changeme",
		},
	}
}

func TestLoginAndVerify(t *testing.T) {
	repo := newFakeAdminRepo()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	adminID := uuid.New()
	repo.admins["reviewer"] = &model.AdminUser{ID: adminID, Username: "reviewer", PasswordHash: string(hash)}

	svc := NewAuthService(repo, authTestConfig())

	token, err := svc.Login(dto.AdminLoginDTO{Username: "reviewer", Password: "s3cret"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token.TokenType != "bearer" || token.AccessToken == "" {
		t.Fatalf("unexpected token response: %+v", token)
	}

	claims, err := svc.VerifyToken(token.AccessToken)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if claims.AdminID != adminID {
		t.Errorf("AdminID = %v, want %v", claims.AdminID, adminID)
	}
	if claims.Username != "reviewer" {
		t.Errorf("Username = %q", claims.Username)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	repo := newFakeAdminRepo()
	hash, _ := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	repo.admins["reviewer"] = &model.AdminUser{ID: uuid.New(), Username: "reviewer", PasswordHash: string(hash)}

	svc := NewAuthService(repo, authTestConfig())

	if _, err := svc.Login(dto.AdminLoginDTO{Username: "reviewer", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: err = %v", err)
	}
	if _, err := svc.Login(dto.AdminLoginDTO{Username: "nobody", Password: "s3cret"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user: err = %v", err)
	}
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	svc := NewAuthService(newFakeAdminRepo(), authTestConfig())
	if _, err := svc.VerifyToken("not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestEnsureBootstrapAdmin(t *testing.T) {
	repo := newFakeAdminRepo()
	svc := NewAuthService(repo, authTestConfig())

	if err := svc.EnsureBootstrapAdmin(); err != nil {
		t.Fatalf("EnsureBootstrapAdmin: %v", err)
	}
	admin, err := repo.FindByUsername("admin")
	if err != nil {
		t.Fatalf("bootstrap admin not created: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("changeme")); err != nil {
		t.Error("bootstrap password hash does not verify")
	}

	// A second run leaves the existing account alone.
	if err := svc.EnsureBootstrapAdmin(); err != nil {
		t.Fatalf("repeated EnsureBootstrapAdmin: %v", err)
	}
	if len(repo.admins) != 1 {
		t.Errorf("admins = %d, want 1", len(repo.admins))
	}
}
