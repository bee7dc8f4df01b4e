package service

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/davrbek/examgate/config"
	"github.com/davrbek/examgate/internal/apperr"
	"github.com/davrbek/examgate/internal/clock"
	"github.com/davrbek/examgate/internal/dto"
	"github.com/davrbek/examgate/internal/model"
	"github.com/davrbek/examgate/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionService is the session lifecycle manager: it creates, looks up,
// lazily expires and extends test-taking sessions, enforcing one attempt per
// (user, test) pair.
type SessionService interface {
	Create(userID, testID uuid.UUID) (*dto.SessionResponseDTO, error)
	// GetByToken resolves a session and reconciles expiry state on the way
	// (there is no background timer; every read is an expiry checkpoint).
	GetByToken(token string) (*model.TestSession, error)
	DescribeByToken(token string) (*dto.SessionResponseDTO, error)
	Status(token string) (*dto.SessionStatusDTO, error)
	Extend(sessionID uuid.UUID, minutes int) (*dto.ExtendResponseDTO, error)
	ExtendAll(testID uuid.UUID) (*dto.ExtendAllResponseDTO, error)
	MarkSubmitted(sessionID uuid.UUID) error
	HasAttempted(userID, testID uuid.UUID) (bool, error)
	ListForTest(testID uuid.UUID) ([]dto.SessionAdminDTO, error)
	ClearForTest(testID uuid.UUID) (*dto.ClearSessionsResponseDTO, error)
}

type sessionService struct {
	sessionRepo repository.SessionRepository
	testRepo    repository.TestRepository
	clk         clock.Clock
	sessionCfg  config.Session
	db          *gorm.DB // transactions for extend / extend-all / clear
}

func NewSessionService(
	sessionRepo repository.SessionRepository,
	testRepo repository.TestRepository,
	clk clock.Clock,
	cfg *config.Config,
	db *gorm.DB,
) SessionService {
	return &sessionService{
		sessionRepo: sessionRepo,
		testRepo:    testRepo,
		clk:         clk,
		sessionCfg:  cfg.Session,
		db:          db,
	}
}

// evaluateWindow checks the test's scheduled window against now. The
// effective end is end_time plus the admin-granted global extension.
func evaluateWindow(test *model.Test, now time.Time) error {
	if test.StartTime != nil && now.Before(*test.StartTime) {
		return apperr.New(apperr.CodeTestNotStarted, "test has not started yet")
	}
	if effectiveEnd, ok := test.EffectiveEnd(); ok && !now.Before(effectiveEnd) {
		return apperr.New(apperr.CodeTestEnded, "test window has closed")
	}
	return nil
}

// computeExpiry pins the session to the test window when one exists: every
// session ends exactly at the effective end regardless of when the student
// started, so late starters get a shorter window.
func computeExpiry(test *model.Test, now time.Time, defaultDuration time.Duration) time.Time {
	if effectiveEnd, ok := test.EffectiveEnd(); ok {
		return effectiveEnd
	}
	return now.Add(defaultDuration)
}

// applyExtension enforces the per-session extension rules in place. Callers
// must hold a row lock so two concurrent +5s cannot both pass the cap check.
func applyExtension(s *model.TestSession, minutes int) error {
	if s.IsSubmitted {
		return apperr.New(apperr.CodeAlreadySubmitted, "session has already been submitted")
	}
	if s.ExtraMinutes >= model.MaxExtraMinutes {
		return apperr.New(apperr.CodeMaxExtensions, "session extension limit reached")
	}
	s.ExtraMinutes += minutes
	s.ExpiresAt = s.ExpiresAt.Add(time.Duration(minutes) * time.Minute)
	return nil
}

// generateSessionToken returns a cryptographically random URL-safe token.
func generateSessionToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func (s *sessionService) Create(userID, testID uuid.UUID) (*dto.SessionResponseDTO, error) {
	test, err := s.testRepo.FindByID(testID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("test")
		}
		log.Error().Err(err).Str("testID", testID.String()).Msg("Create session: failed to load test")
		return nil, fmt.Errorf("loading test: %w", err)
	}

	// An abandoned, unsubmitted attempt does not block a retry.
	if err := s.sessionRepo.DeleteUnsubmitted(userID, testID); err != nil {
		log.Error().Err(err).Str("userID", userID.String()).Msg("Create session: failed to clear unsubmitted session")
		return nil, fmt.Errorf("clearing prior session: %w", err)
	}

	now := s.clk.Now()
	if err := evaluateWindow(test, now); err != nil {
		return nil, err
	}
	expiresAt := computeExpiry(test, now, time.Duration(s.sessionCfg.DurationMinutes)*time.Minute)

	session, err := s.createWithToken(userID, testID, now, expiresAt)
	if err != nil {
		return nil, err
	}

	resp := s.toSessionDTO(session, test.Title, now)
	return resp, nil
}

// createWithToken persists the session, retrying once if the random token
// itself collides. A (user, test) uniqueness violation means a concurrent
// create won the race and is reported as a duplicate attempt.
func (s *sessionService) createWithToken(userID, testID uuid.UUID, now, expiresAt time.Time) (*model.TestSession, error) {
	for attempt := 0; attempt < 2; attempt++ {
		token, err := generateSessionToken()
		if err != nil {
			return nil, err
		}
		session := &model.TestSession{
			UserID:       userID,
			TestID:       testID,
			SessionToken: token,
			StartedAt:    now,
			ExpiresAt:    expiresAt,
			IsSubmitted:  false,
			IsExpired:    false,
			ExtraMinutes: 0,
		}
		err = s.sessionRepo.Create(session)
		if err == nil {
			return session, nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if strings.Contains(err.Error(), "session_token") {
				continue // token collision, retry with a fresh one
			}
			return nil, apperr.Wrap(apperr.CodeDuplicateAttempt, "user has already attempted this test", err)
		}
		log.Error().Err(err).Str("userID", userID.String()).Str("testID", testID.String()).Msg("Create session: insert failed")
		return nil, fmt.Errorf("creating session: %w", err)
	}
	return nil, apperr.New(apperr.CodeInternal, "could not allocate a unique session token")
}

func (s *sessionService) GetByToken(token string) (*model.TestSession, error) {
	session, err := s.sessionRepo.FindByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("session")
		}
		return nil, fmt.Errorf("loading session: %w", err)
	}
	if err := s.reconcileExpiry(session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *sessionService) DescribeByToken(token string) (*dto.SessionResponseDTO, error) {
	session, err := s.sessionRepo.FindByTokenWithTest(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("session")
		}
		return nil, fmt.Errorf("loading session: %w", err)
	}
	if err := s.reconcileExpiry(session); err != nil {
		return nil, err
	}
	title := ""
	if session.Test != nil {
		title = session.Test.Title
	}
	return s.toSessionDTO(session, title, s.clk.Now()), nil
}

func (s *sessionService) Status(token string) (*dto.SessionStatusDTO, error) {
	session, err := s.GetByToken(token)
	if err != nil {
		return nil, err
	}
	now := s.clk.Now()
	return &dto.SessionStatusDTO{
		IsValid:              session.IsValid(now),
		TimeRemainingSeconds: session.TimeRemaining(now),
		IsSubmitted:          session.IsSubmitted,
		IsExpired:            session.IsExpired,
	}, nil
}

// reconcileExpiry flips is_expired once the deadline has passed. Concurrent
// flips are idempotent: writing true over true is harmless.
func (s *sessionService) reconcileExpiry(session *model.TestSession) error {
	if session.IsSubmitted || session.IsExpired {
		return nil
	}
	if s.clk.Now().Before(session.ExpiresAt) {
		return nil
	}
	session.IsExpired = true
	if err := s.sessionRepo.Update(session); err != nil {
		log.Error().Err(err).Str("sessionID", session.ID.String()).Msg("Failed to persist lazy expiry")
		return fmt.Errorf("persisting expiry: %w", err)
	}
	return nil
}

func (s *sessionService) Extend(sessionID uuid.UUID, minutes int) (*dto.ExtendResponseDTO, error) {
	if minutes <= 0 {
		minutes = model.ExtendStepMinutes
	}

	var session model.TestSession
	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Row lock serializes concurrent extends so the cap check and the
		// increment are one atomic step.
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&session, "id = ?", sessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("session")
			}
			return fmt.Errorf("locking session: %w", err)
		}
		if err := applyExtension(&session, minutes); err != nil {
			return err
		}
		return tx.Save(&session).Error
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("sessionID", sessionID.String()).Int("minutes", minutes).Int("extraMinutes", session.ExtraMinutes).Msg("Session extended")
	return &dto.ExtendResponseDTO{
		NewExpiresAt:   session.ExpiresAt,
		ExtraMinutes:   session.ExtraMinutes,
		ExtensionsLeft: session.ExtensionsLeft(),
	}, nil
}

func (s *sessionService) ExtendAll(testID uuid.UUID) (*dto.ExtendAllResponseDTO, error) {
	resp := &dto.ExtendAllResponseDTO{}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var sessions []model.TestSession
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("test_id = ? AND is_submitted = ? AND is_expired = ?", testID, false, false).
			Find(&sessions).Error; err != nil {
			return fmt.Errorf("loading sessions: %w", err)
		}
		resp.Total = len(sessions)
		for i := range sessions {
			// The cap is enforced per session even in bulk extension.
			if err := applyExtension(&sessions[i], model.ExtendStepMinutes); err != nil {
				resp.Skipped++
				continue
			}
			if err := tx.Save(&sessions[i]).Error; err != nil {
				return fmt.Errorf("saving extended session: %w", err)
			}
			resp.Extended++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("testID", testID.String()).Int("extended", resp.Extended).Int("skipped", resp.Skipped).Msg("Bulk session extension")
	return resp, nil
}

func (s *sessionService) MarkSubmitted(sessionID uuid.UUID) error {
	session, err := s.sessionRepo.FindByID(sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("session")
		}
		return fmt.Errorf("loading session: %w", err)
	}
	if session.IsSubmitted {
		return nil
	}
	session.IsSubmitted = true
	if err := s.sessionRepo.Update(session); err != nil {
		return fmt.Errorf("marking session submitted: %w", err)
	}
	return nil
}

func (s *sessionService) HasAttempted(userID, testID uuid.UUID) (bool, error) {
	return s.sessionRepo.HasSubmitted(userID, testID)
}

func (s *sessionService) ListForTest(testID uuid.UUID) ([]dto.SessionAdminDTO, error) {
	sessions, err := s.sessionRepo.ListByTest(testID)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	out := make([]dto.SessionAdminDTO, 0, len(sessions))
	for i := range sessions {
		sess := &sessions[i]
		row := dto.SessionAdminDTO{
			ID:             sess.ID,
			StartedAt:      sess.StartedAt,
			ExpiresAt:      sess.ExpiresAt,
			IsSubmitted:    sess.IsSubmitted,
			IsExpired:      sess.IsExpired,
			ExtraMinutes:   sess.ExtraMinutes,
			ExtensionsLeft: sess.ExtensionsLeft(),
		}
		if sess.User != nil {
			row.UserName = sess.User.FullName + " " + sess.User.Surname
			row.UserRegion = sess.User.Region
		}
		out = append(out, row)
	}
	return out, nil
}

// ClearForTest wipes every session for a test so students can retake it.
// Results are revoked together with their sessions.
func (s *sessionService) ClearForTest(testID uuid.UUID) (*dto.ClearSessionsResponseDTO, error) {
	resp := &dto.ClearSessionsResponseDTO{}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("test_id = ?", testID).Delete(&model.Result{})
		if res.Error != nil {
			return fmt.Errorf("deleting results: %w", res.Error)
		}
		resp.ResultsDeleted = int(res.RowsAffected)

		res = tx.Where("test_id = ?", testID).Delete(&model.TestSession{})
		if res.Error != nil {
			return fmt.Errorf("deleting sessions: %w", res.Error)
		}
		resp.SessionsDeleted = int(res.RowsAffected)
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("testID", testID.String()).Int("sessions", resp.SessionsDeleted).Int("results", resp.ResultsDeleted).Msg("Cleared test sessions")
	return resp, nil
}

func (s *sessionService) toSessionDTO(session *model.TestSession, testTitle string, now time.Time) *dto.SessionResponseDTO {
	return &dto.SessionResponseDTO{
		ID:                   session.ID,
		UserID:               session.UserID,
		TestID:               session.TestID,
		SessionToken:         session.SessionToken,
		StartedAt:            session.StartedAt,
		ExpiresAt:            session.ExpiresAt,
		IsSubmitted:          session.IsSubmitted,
		IsExpired:            session.IsExpired,
		IsValid:              session.IsValid(now),
		TimeRemainingSeconds: session.TimeRemaining(now),
		TestTitle:            testTitle,
	}
}
