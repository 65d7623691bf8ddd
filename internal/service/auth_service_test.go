package service

import (
	"context"
	"testing"

	"fitcoach/coaching-app/internal/domain"
	"fitcoach/coaching-app/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeUserRepo struct {
	byEmail map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: map[string]*domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	stored := *user
	stored.ID = id
	r.byEmail[user.Email] = &stored
	return id, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	user, ok := r.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, "test-secret", 0)

	user, err := svc.Register(context.Background(), "Sam Coach", "sam@example.com", "hunter22", domain.RoleCoach)
	require.NoError(t, err)
	assert.False(t, user.ID.IsZero())
	assert.NotEqual(t, "hunter22", user.PasswordHash, "password must be stored hashed")

	token, loggedIn, err := svc.Login(context.Background(), "sam@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	// The token carries the user id and role under the expected claims.
	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, user.ID.Hex(), claims["uid"])
	assert.Equal(t, string(domain.RoleCoach), claims["role"])
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, "test-secret", 0)

	_, err := svc.Register(context.Background(), "Sam", "sam@example.com", "pw123456", domain.RoleCoach)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "Other", "sam@example.com", "pw123456", domain.RoleCoach)
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, "test-secret", 0)

	_, err := svc.Register(context.Background(), "Sam", "sam@example.com", "correct-pw", domain.RoleCoach)
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "sam@example.com", "wrong-pw")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), "test-secret", 0)

	_, _, err := svc.Login(context.Background(), "nobody@example.com", "pw")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}
