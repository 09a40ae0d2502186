package user

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/internal/utils/storage"
	"Foodgram-Backend/pkg/jwt"
	"context"
	"mime/multipart"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

/* ==================== STUBS ==================== */

type stubUserRepo struct {
	byID       map[string]*entities.User
	byEmail    map[string]*entities.User
	byUsername map[string]*entities.User
	updated    *entities.User

	// createHook, when set, replaces CreateUser. Used to simulate a
	// concurrent registration hitting a unique index.
	createHook func(*entities.User) error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		byID:       map[string]*entities.User{},
		byEmail:    map[string]*entities.User{},
		byUsername: map[string]*entities.User{},
	}
}

func (s *stubUserRepo) add(user *entities.User) {
	s.byID[user.ID.String()] = user
	s.byEmail[user.Email] = user
	s.byUsername[user.Username] = user
}

func (s *stubUserRepo) CreateUser(_ context.Context, user *entities.User) error {
	if s.createHook != nil {
		return s.createHook(user)
	}
	s.add(user)
	return nil
}

func (s *stubUserRepo) GetUserByID(_ context.Context, id string) (*entities.User, error) {
	user, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (s *stubUserRepo) GetUserByEmail(_ context.Context, email string) (*entities.User, error) {
	user, ok := s.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (s *stubUserRepo) GetUserByUsername(_ context.Context, username string) (*entities.User, error) {
	user, ok := s.byUsername[username]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (s *stubUserRepo) GetUsers(context.Context, int, int) ([]*entities.User, int64, error) {
	users := make([]*entities.User, 0, len(s.byID))
	for _, user := range s.byID {
		users = append(users, user)
	}
	return users, int64(len(users)), nil
}

func (s *stubUserRepo) UpdateUser(_ context.Context, user *entities.User) error {
	s.updated = user
	s.add(user)
	return nil
}

func (s *stubUserRepo) IsSubscribed(context.Context, string, string) (bool, error) {
	return false, nil
}

type stubS3 struct {
	deletedKeys []string
}

func (s *stubS3) UploadFile(fileName string, file *multipart.FileHeader, dir string, allowedTypes ...string) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	for _, allowed := range allowedTypes {
		if ext == allowed {
			return dir + "/" + fileName + ext, nil
		}
	}
	return "", storage.ErrFileTypeNotAllowed
}

func (s *stubS3) UploadBytes(fileName string, _ []byte, ext string, dir string) (string, error) {
	return dir + "/" + fileName + "." + ext, nil
}

func (s *stubS3) DeleteFile(objectKey string) error {
	s.deletedKeys = append(s.deletedKeys, objectKey)
	return nil
}

func (s *stubS3) GetPublicLinkKey(objectKey string) string {
	return "https://bucket.s3.test.amazonaws.com/" + objectKey
}

func (s *stubS3) GetObjectKeyFromLink(link string) string { return link }

/* ==================== FIXTURES ==================== */

const pngDataURI = "data:image/png;base64,aW1hZ2UtYnl0ZXM="

func registerRequest() domain.RegisterRequest {
	return domain.RegisterRequest{
		Email:     "chef@example.com",
		Username:  "chef",
		FirstName: "Julia",
		LastName:  "Child",
		Password:  "super-secret",
	}
}

func newService() (UserService, *stubUserRepo, *stubS3) {
	repo := newStubUserRepo()
	s3 := &stubS3{}
	return NewUserService(repo, jwt.NewJWTService(), s3), repo, s3
}

func seedUser(repo *stubUserRepo, password string) *entities.User {
	hashed, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	user := &entities.User{
		ID:       uuid.New(),
		Email:    "chef@example.com",
		Username: "chef",
		Password: string(hashed),
	}
	repo.add(user)
	return user
}

/* ==================== TESTS ==================== */

func TestRegister(t *testing.T) {
	service, repo, _ := newService()

	res, err := service.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	assert.Equal(t, "chef", res.Username)
	assert.Equal(t, "chef@example.com", res.Email)
	assert.False(t, res.IsSubscribed)

	stored := repo.byUsername["chef"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "super-secret", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("super-secret")))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	service, repo, _ := newService()
	seedUser(repo, "whatever")

	req := registerRequest()
	req.Username = "another"

	_, err := service.Register(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyUsed)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	service, repo, _ := newService()
	seedUser(repo, "whatever")

	req := registerRequest()
	req.Email = "other@example.com"

	_, err := service.Register(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrUsernameAlreadyUsed)
}

func TestRegisterEmailRaceMapsToEmailError(t *testing.T) {
	service, repo, _ := newService()

	// The pre-insert lookups see nothing; the insert collides because a
	// concurrent request registered the same email in between.
	repo.createHook = func(user *entities.User) error {
		repo.byEmail[user.Email] = user
		return gorm.ErrDuplicatedKey
	}

	_, err := service.Register(context.Background(), registerRequest())
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyUsed)
}

func TestRegisterUsernameRaceMapsToUsernameError(t *testing.T) {
	service, repo, _ := newService()

	repo.createHook = func(user *entities.User) error {
		repo.byUsername[user.Username] = user
		return gorm.ErrDuplicatedKey
	}

	_, err := service.Register(context.Background(), registerRequest())
	assert.ErrorIs(t, err, domain.ErrUsernameAlreadyUsed)
}

func TestLogin(t *testing.T) {
	service, repo, _ := newService()
	seedUser(repo, "super-secret")

	res, err := service.Login(context.Background(), domain.LoginRequest{
		Email:    "chef@example.com",
		Password: "super-secret",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
}

func TestLoginWrongPassword(t *testing.T) {
	service, repo, _ := newService()
	seedUser(repo, "super-secret")

	_, err := service.Login(context.Background(), domain.LoginRequest{
		Email:    "chef@example.com",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, domain.ErrCredentialsNotMatch)
}

func TestLoginUnknownEmail(t *testing.T) {
	service, _, _ := newService()

	_, err := service.Login(context.Background(), domain.LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever",
	})
	assert.ErrorIs(t, err, domain.ErrCredentialsNotMatch)
}

func TestUpdateAvatar(t *testing.T) {
	service, repo, _ := newService()
	user := seedUser(repo, "super-secret")

	res, err := service.UpdateAvatar(context.Background(), domain.UpdateAvatarRequest{Avatar: pngDataURI}, user.ID.String())
	require.NoError(t, err)

	assert.Contains(t, res.Avatar, "users/avatars/")
	assert.Equal(t, res.Avatar, repo.updated.AvatarURL)
}

func TestUpdateAvatarReplacesExisting(t *testing.T) {
	service, repo, s3 := newService()
	user := seedUser(repo, "super-secret")
	user.AvatarURL = "https://bucket.s3.test.amazonaws.com/users/avatars/old.png"

	_, err := service.UpdateAvatar(context.Background(), domain.UpdateAvatarRequest{Avatar: pngDataURI}, user.ID.String())
	require.NoError(t, err)
	assert.Len(t, s3.deletedKeys, 1)
}

func TestUpdateAvatarMultipartFile(t *testing.T) {
	service, repo, _ := newService()
	user := seedUser(repo, "super-secret")

	req := domain.UpdateAvatarRequest{AvatarFile: &multipart.FileHeader{Filename: "face.jpg"}}
	res, err := service.UpdateAvatar(context.Background(), req, user.ID.String())
	require.NoError(t, err)

	assert.Contains(t, res.Avatar, "users/avatars/")
	assert.Contains(t, res.Avatar, ".jpg")
	assert.Equal(t, res.Avatar, repo.updated.AvatarURL)
}

func TestUpdateAvatarMultipartBadExtension(t *testing.T) {
	service, repo, _ := newService()
	user := seedUser(repo, "super-secret")

	req := domain.UpdateAvatarRequest{AvatarFile: &multipart.FileHeader{Filename: "face.svg"}}
	_, err := service.UpdateAvatar(context.Background(), req, user.ID.String())
	assert.ErrorIs(t, err, domain.ErrInvalidImagePayload)
}

func TestUpdateAvatarRejectsBrokenPayload(t *testing.T) {
	service, repo, _ := newService()
	user := seedUser(repo, "super-secret")

	_, err := service.UpdateAvatar(context.Background(), domain.UpdateAvatarRequest{Avatar: "not-a-data-uri"}, user.ID.String())
	assert.ErrorIs(t, err, domain.ErrInvalidImagePayload)
}

func TestDeleteAvatarNotSet(t *testing.T) {
	service, repo, _ := newService()
	user := seedUser(repo, "super-secret")

	err := service.DeleteAvatar(context.Background(), user.ID.String())
	assert.ErrorIs(t, err, domain.ErrAvatarNotSet)
}

func TestResetPassword(t *testing.T) {
	service, repo, _ := newService()
	user := seedUser(repo, "old-password")

	jwtService := jwt.NewJWTService()
	token, err := jwtService.GenerateTokenForgetPassword(map[string]any{
		"user_id": user.ID.String(),
	}, 30*time.Minute)
	require.NoError(t, err)

	err = service.ResetPassword(context.Background(), domain.ResetPasswordRequest{
		Token:    token,
		Password: "new-password",
	})
	require.NoError(t, err)

	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.updated.Password), []byte("new-password")))
}

func TestResetPasswordRejectsGarbageToken(t *testing.T) {
	service, _, _ := newService()

	err := service.ResetPassword(context.Background(), domain.ResetPasswordRequest{
		Token:    "not-a-token",
		Password: "new-password",
	})
	assert.Error(t, err)
}
