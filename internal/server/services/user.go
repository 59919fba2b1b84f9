// Package services contains server-side business logic. This file implements
// UserService, which handles signup, login, and session issuance.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/profilekeeper/internal/common"
	"github.com/dmitrijs2005/profilekeeper/internal/logging"
	"github.com/dmitrijs2005/profilekeeper/internal/server/auth"
	"github.com/dmitrijs2005/profilekeeper/internal/server/config"
	"github.com/dmitrijs2005/profilekeeper/internal/server/metrics"
	"github.com/dmitrijs2005/profilekeeper/internal/server/models"
	"github.com/dmitrijs2005/profilekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/profilekeeper/internal/server/sessions"
	"github.com/dmitrijs2005/profilekeeper/internal/snowflake"
)

// LoginResult is a freshly minted session: the subject id and the signed
// access token, already registered as the subject's current session.
type LoginResult struct {
	UserID      int64
	AccessToken string
}

// UserService provides account and authentication operations:
//   - Register: create an account with a snowflake id and a bcrypt hash
//   - Login: verify credentials, mint a session token, register the session
//   - CurrentUser / GetByEmailHash: account lookups for handlers
type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	idgen                       *snowflake.Generator
	sessions                    sessions.Store
	logger                      logging.Logger
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories, the id
// generator, the session registry, and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, idgen *snowflake.Generator,
	store sessions.Store, logger logging.Logger, cfg *config.Config) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		idgen:                       idgen,
		sessions:                    store,
		logger:                      logger.With("module", "user_service"),
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// Register creates a new account. The subject id comes from the snowflake
// generator, the password is stored as a bcrypt hash, and the email lookup
// digest is derived up front so public avatar lookups never need the email.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	id, err := s.idgen.Generate()
	if err != nil {
		return nil, fmt.Errorf("error generating user id: %w", err)
	}

	user := &models.User{
		ID:            id.Int64(),
		Email:         email,
		PasswordHash:  hash,
		EmailHash:     auth.LookupHash(email),
		ActivePhotoID: -1,
	}

	repo := s.repomanager.Users(s.db)
	user, err = repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// Login verifies the email/password pair and mints a session token. An
// unknown email and a wrong password both collapse to ErrorUnauthorized so
// callers cannot enumerate accounts. Registering the session is best
// effort: a registry outage degrades server-side revocation but must not
// lock users out, so the token is still returned.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		return nil, common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	if err := s.sessions.Set(ctx, user.ID, token); err != nil {
		s.logger.Warn(ctx, "session registry write failed, login continues", "user_id", user.ID, "error", err.Error())
		metrics.SessionWriteFailures.Inc()
	}

	return &LoginResult{UserID: user.ID, AccessToken: token}, nil
}

// CurrentUser returns the account for an already-authenticated subject id.
func (s *UserService) CurrentUser(ctx context.Context, userID int64) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	return user, nil
}

// GetByEmailHash resolves an account from its public email digest. Used by
// the unauthenticated avatar lookup only.
func (s *UserService) GetByEmailHash(ctx context.Context, emailHash string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmailHash(ctx, emailHash)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	return user, nil
}
