package service

import (
	"errors"
	"testing"

	"github.com/davrbek/examgate/internal/apperr"
	"github.com/davrbek/examgate/internal/dto"
	"github.com/davrbek/examgate/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	byTelegram map[int64]*model.User
	// failNextCreate simulates losing a unique-index race to a concurrent
	// registration of the same account.
	failNextCreate bool
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byTelegram: make(map[int64]*model.User)}
}

func (r *fakeUserRepo) Create(user *model.User) error {
	if r.failNextCreate {
		r.failNextCreate = false
		r.byTelegram[user.TelegramID] = &model.User{ID: uuid.New(), TelegramID: user.TelegramID, FullName: "Winner"}
		return gorm.ErrDuplicatedKey
	}
	if _, ok := r.byTelegram[user.TelegramID]; ok {
		return gorm.ErrDuplicatedKey
	}
	user.ID = uuid.New()
	r.byTelegram[user.TelegramID] = user
	return nil
}

func (r *fakeUserRepo) FindByID(id uuid.UUID) (*model.User, error) {
	for _, u := range r.byTelegram {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByTelegramID(telegramID int64) (*model.User, error) {
	u, ok := r.byTelegram[telegramID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) FindAll(offset, limit int) ([]model.User, error) {
	out := make([]model.User, 0, len(r.byTelegram))
	for _, u := range r.byTelegram {
		out = append(out, *u)
	}
	return out, nil
}

func TestRegisterIsIdempotentPerTelegramAccount(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	req := dto.UserRegisterDTO{TelegramID: 42, FullName: "Aziz", Surname: "Karimov", Region: "Tashkent"}

	first, err := svc.Register(req)
	if err != nil {
		t.Fatalf("first Register: %v", err)
	}
	second, err := svc.Register(req)
	if err != nil {
		t.Fatalf("second Register: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("re-registration created a new user: %v vs %v", first.ID, second.ID)
	}
	if len(repo.byTelegram) != 1 {
		t.Errorf("users = %d, want 1", len(repo.byTelegram))
	}
}

func TestRegisterSurvivesConcurrentDuplicate(t *testing.T) {
	repo := newFakeUserRepo()
	repo.failNextCreate = true
	svc := NewUserService(repo)

	resp, err := svc.Register(dto.UserRegisterDTO{TelegramID: 7, FullName: "B", Surname: "C", Region: "D"})
	if err != nil {
		t.Fatalf("Register after losing the race: %v", err)
	}
	if resp.FullName != "Winner" {
		t.Errorf("FullName = %q, want the winner's record", resp.FullName)
	}
}

func TestGetByTelegramIDNotFound(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())
	_, err := svc.GetByTelegramID(999)
	if apperr.CodeOf(err) != apperr.CodeNotFound {
		t.Errorf("code = %v, want %v", apperr.CodeOf(err), apperr.CodeNotFound)
	}
	if !errors.Is(err, apperr.NotFound("user")) {
		t.Error("not-found error does not match by code")
	}
}
