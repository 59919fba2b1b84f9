package httpapi

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/profilekeeper/internal/common"
	"github.com/dmitrijs2005/profilekeeper/internal/dbx"
	"github.com/dmitrijs2005/profilekeeper/internal/logging"
	"github.com/dmitrijs2005/profilekeeper/internal/server/config"
	"github.com/dmitrijs2005/profilekeeper/internal/server/models"
	"github.com/dmitrijs2005/profilekeeper/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/profilekeeper/internal/server/repositories/users"
	"github.com/dmitrijs2005/profilekeeper/internal/server/services"
	"github.com/dmitrijs2005/profilekeeper/internal/snowflake"
)

const testSecret = "test-secret"

type fakeUsersRepo struct {
	byEmail map[string]*models.User
	byID    map[int64]*models.User
	byHash  map[string]*models.User

	created   []*models.User
	createErr error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{
		byEmail: map[string]*models.User{},
		byID:    map[int64]*models.User{},
		byHash:  map[string]*models.User{},
	}
}

func (f *fakeUsersRepo) add(u *models.User) {
	f.byEmail[u.Email] = u
	f.byID[u.ID] = u
	f.byHash[u.EmailHash] = u
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.byEmail[u.Email]; ok {
		return nil, common.ErrorAlreadyExists
	}
	f.created = append(f.created, u)
	f.add(u)
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByEmailHash(ctx context.Context, emailHash string) (*models.User, error) {
	if u, ok := f.byHash[emailHash]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) SetActivePhoto(ctx context.Context, userID, photoID int64) error {
	u, ok := f.byID[userID]
	if !ok {
		return common.ErrorNotFound
	}
	u.ActivePhotoID = photoID
	return nil
}

type fakeProfilesRepo struct {
	ids     map[int64][]int64
	listErr error
}

func newFakeProfilesRepo() *fakeProfilesRepo {
	return &fakeProfilesRepo{ids: map[int64][]int64{}}
}

func (f *fakeProfilesRepo) Create(ctx context.Context, p *models.Profile) error {
	f.ids[p.UserID] = append(f.ids[p.UserID], p.ID)
	return nil
}

func (f *fakeProfilesRepo) Get(ctx context.Context, id, userID int64) (*models.Profile, error) {
	for _, pid := range f.ids[userID] {
		if pid == id {
			return &models.Profile{ID: id, UserID: userID}, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeProfilesRepo) ListIDsByUser(ctx context.Context, userID int64) ([]int64, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := f.ids[userID]
	if out == nil {
		out = []int64{}
	}
	return out, nil
}

type fakeRepoManager struct {
	users    *fakeUsersRepo
	profiles *fakeProfilesRepo
}

func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository       { return m.users }
func (m *fakeRepoManager) Profiles(db dbx.DBTX) profiles.Repository { return m.profiles }

type fakeSessionStore struct {
	tokens map[int64]string
	setErr error
	getErr error
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{tokens: map[int64]string{}}
}

func (f *fakeSessionStore) Set(ctx context.Context, userID int64, token string) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.tokens[userID] = token
	return nil
}

func (f *fakeSessionStore) Get(ctx context.Context, userID int64) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	tok, ok := f.tokens[userID]
	if !ok {
		return "", common.ErrorNotFound
	}
	return tok, nil
}

type testEnv struct {
	srv      *HTTPServer
	usersDB  *fakeUsersRepo
	profiles *fakeProfilesRepo
	store    *fakeSessionStore
}

func newTestEnv(t *testing.T, strict bool) *testEnv {
	t.Helper()

	cfg := &config.Config{
		EndpointAddrHTTP:            ":0",
		SecretKey:                   testSecret,
		AccessTokenValidityDuration: time.Hour,
		StrictRevocation:            strict,
	}

	gen, err := snowflake.New(1)
	require.NoError(t, err)

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	usersRepo := newFakeUsersRepo()
	profilesRepo := newFakeProfilesRepo()
	rm := &fakeRepoManager{users: usersRepo, profiles: profilesRepo}
	store := newFakeSessionStore()

	userSvc := services.NewUserService(nil, rm, gen, store, logger, cfg)
	profileSvc := services.NewProfileService(nil, rm, gen, cfg)

	srv, err := NewHTTPServer(cfg, logger, userSvc, profileSvc, store)
	require.NoError(t, err)

	return &testEnv{srv: srv, usersDB: usersRepo, profiles: profilesRepo, store: store}
}

// addUser registers an account directly in the fake repository.
func (e *testEnv) addUser(t *testing.T, id int64, email, password, emailHash string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	u := &models.User{
		ID:            id,
		Email:         email,
		PasswordHash:  string(hash),
		EmailHash:     emailHash,
		ActivePhotoID: -1,
	}
	e.usersDB.add(u)
	return u
}
