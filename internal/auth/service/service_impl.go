package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fieldline/fieldline/internal/actorctx"
	"github.com/fieldline/fieldline/internal/auth/domain"
	"github.com/fieldline/fieldline/internal/auth/password"
	"github.com/fieldline/fieldline/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const sessionTTL = 7 * 24 * time.Hour

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Users    domain.Repository
	Sessions domain.SessionRepository
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	users    domain.Repository
	sessions domain.SessionRepository
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("auth.service"),
		genID:    p.GenID,
		users:    p.Users,
		sessions: p.Sessions,
	}
}

func (s *Service) CreateUser(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.ErrInvalidCredentials
	}

	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = domain.RoleSalesperson
	}
	switch role {
	case domain.RoleAdmin, domain.RoleSupervisor, domain.RoleSalesperson:
	default:
		return nil, domain.ErrInvalidRole
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           s.genID.Generate(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hashed,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if companyID := strings.TrimSpace(req.CompanyID); companyID != "" {
		id, parseErr := snowflake.ParseString(companyID)
		if parseErr != nil || id == 0 {
			return nil, domain.ErrInvalidCredentials
		}
		user.CompanyID = &id
	}

	if err := s.users.Insert(ctx, s.db, &user); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrUserExists
		}
		return nil, err
	}
	return &user, nil
}

func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, s.db, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil || !password.Verify(req.Password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	rawToken, err := newToken()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	session := domain.Session{
		ID:         s.genID.Generate(),
		UserID:     user.ID,
		TokenHash:  hashToken(rawToken),
		UserAgent:  req.UserAgent,
		IPAddress:  req.IPAddress,
		ExpiresAt:  now.Add(sessionTTL),
		LastSeenAt: now,
		CreatedAt:  now,
	}
	if err := s.sessions.Insert(ctx, s.db, &session); err != nil {
		return nil, err
	}

	s.log.Info("user logged in", zap.String("user_id", user.ID.String()))
	return &domain.LoginResult{
		User:      *user,
		RawToken:  rawToken,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

func (s *Service) Logout(ctx context.Context, rawToken string) error {
	session, err := s.sessions.FindByTokenHash(ctx, s.db, hashToken(rawToken))
	if err != nil {
		return err
	}
	if session == nil {
		return domain.ErrSessionNotFound
	}
	return s.sessions.Revoke(ctx, s.db, session.ID, time.Now().UTC())
}

// Authenticate resolves a bearer token to its active user.
func (s *Service) Authenticate(ctx context.Context, rawToken string) (*domain.User, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, domain.ErrInvalidSession
	}

	session, err := s.sessions.FindByTokenHash(ctx, s.db, hashToken(rawToken))
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrSessionNotFound
	}

	now := time.Now().UTC()
	if session.RevokedAt != nil {
		return nil, domain.ErrSessionRevoked
	}
	if now.After(session.ExpiresAt) {
		return nil, domain.ErrSessionExpired
	}

	user, err := s.users.FindByID(ctx, s.db, session.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	if err := s.sessions.UpdateLastSeen(ctx, s.db, session.ID, now); err != nil {
		s.log.Warn("failed to update session last seen", zap.Error(err))
	}
	return user, nil
}

func (s *Service) ChangePassword(ctx context.Context, userID string, newPassword string) error {
	id, err := snowflake.ParseString(strings.TrimSpace(userID))
	if err != nil || id == 0 {
		return domain.ErrUserNotFound
	}

	user, err := s.users.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}

	hashed, err := password.Hash(newPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, s.db, id, hashed, time.Now().UTC())
}

func (s *Service) CurrentUser(ctx context.Context) (*domain.User, error) {
	actorID, ok := actorctx.ActorIDFromContext(ctx)
	if !ok || actorID == 0 {
		return nil, domain.ErrInvalidSession
	}
	user, err := s.users.FindByID(ctx, s.db, actorID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func hashToken(rawToken string) string {
	sum := sha256.Sum256([]byte(rawToken))
	return hex.EncodeToString(sum[:])
}
