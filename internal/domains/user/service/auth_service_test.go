package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"harvest-backend/internal/domains/cooperative"
	"harvest-backend/internal/domains/user"
	"harvest-backend/internal/shared"
	"harvest-backend/internal/shared/middleware"
	"harvest-backend/pkg/jwt"
)

type fakeUserRepo struct {
	users      map[int64]user.User
	nextID     int64
	coopNextID int64
	coops      map[int64]cooperative.Cooperative
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:      make(map[int64]user.User),
		coops:      make(map[int64]cooperative.Cooperative),
		nextID:     1,
		coopNextID: 1,
	}
}

func (r *fakeUserRepo) CreateWithCooperative(_ context.Context, u *user.User, c *cooperative.Cooperative) error {
	c.ID = r.coopNextID
	r.coopNextID++
	c.CreatedAt = time.Now()
	r.coops[c.ID] = *c

	u.ID = r.nextID
	r.nextID++
	u.CooperativeID = &c.ID
	u.CreatedAt = time.Now()
	r.users[u.ID] = *u
	return nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*user.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := u
			return &copied, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *fakeUserRepo) FindByID(_ context.Context, id int64) (*user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	copied := u
	return &copied, nil
}

func (r *fakeUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(context.Background(), email)
	return err == nil, nil
}

func (r *fakeUserRepo) ExistsByPhone(_ context.Context, phone string) (bool, error) {
	for _, u := range r.users {
		if u.PhoneNumber != nil && *u.PhoneNumber == phone {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	for _, u := range r.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) SetResetToken(_ context.Context, userID int64, token string, expiry time.Time) error {
	u, ok := r.users[userID]
	if !ok {
		return user.ErrUserNotFound
	}
	u.ResetToken = &token
	u.ResetTokenExpiry = &expiry
	r.users[userID] = u
	return nil
}

func (r *fakeUserRepo) FindByValidResetToken(_ context.Context, token string) (*user.User, error) {
	for _, u := range r.users {
		if u.ResetToken != nil && *u.ResetToken == token && u.ResetTokenExpiry.After(time.Now()) {
			copied := u
			return &copied, nil
		}
	}
	return nil, user.ErrInvalidResetToken
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, userID int64, passwordHash string) error {
	u, ok := r.users[userID]
	if !ok {
		return user.ErrUserNotFound
	}
	u.Password = passwordHash
	u.ResetToken = nil
	u.ResetTokenExpiry = nil
	r.users[userID] = u
	return nil
}

func (r *fakeUserRepo) DeleteExpiredResetTokens(_ context.Context, cutoff time.Time) (int, error) {
	cleared := 0
	for id, u := range r.users {
		if u.ResetTokenExpiry != nil && u.ResetTokenExpiry.Before(cutoff) {
			u.ResetToken = nil
			u.ResetTokenExpiry = nil
			r.users[id] = u
			cleared++
		}
	}
	return cleared, nil
}

type fakeCoopRepo struct {
	users *fakeUserRepo
}

func (r *fakeCoopRepo) FindByID(_ context.Context, id int64) (*cooperative.Cooperative, error) {
	c, ok := r.users.coops[id]
	if !ok {
		return nil, cooperative.ErrCooperativeNotFound
	}
	copied := c
	return &copied, nil
}

func (r *fakeCoopRepo) ExistsByName(_ context.Context, name string) (bool, error) {
	for _, c := range r.users.coops {
		if c.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeCoopRepo) ListPending(context.Context) ([]cooperative.PendingAccount, error) {
	return nil, nil
}

func (r *fakeCoopRepo) Approve(context.Context, int64) (*cooperative.PendingAccount, error) {
	return nil, cooperative.ErrCooperativeNotFound
}

func (r *fakeCoopRepo) Reject(context.Context, int64) (*cooperative.PendingAccount, error) {
	return nil, cooperative.ErrCooperativeNotFound
}

// taskRecorder captures enqueued tasks instead of talking to redis.
type taskRecorder struct {
	tasks []*asynq.Task
}

func (r *taskRecorder) Enqueue(task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	r.tasks = append(r.tasks, task)
	return &asynq.TaskInfo{}, nil
}

func newAuthTestService() (user.Service, *fakeUserRepo, *taskRecorder) {
	users := newFakeUserRepo()
	coops := &fakeCoopRepo{users: users}
	recorder := &taskRecorder{}
	svc := NewAuthService(users, coops, jwt.NewManager("test-secret", 60), recorder)
	return svc, users, recorder
}

func signupRequest() user.SignupRequest {
	return user.SignupRequest{
		CooperativeName: "Littoral Growers",
		Email:           "admin@littoral-growers.cm",
		Phone:           "612345678",
		Location:        "Douala, Littoral",
		Password:        "Str0ng@Pass",
	}
}

func TestSignup(t *testing.T) {
	svc, users, recorder := newAuthTestService()
	ctx := context.Background()

	resp, err := svc.Signup(ctx, signupRequest())
	require.NoError(t, err)

	assert.Equal(t, "admin@littoral-growers.cm", resp.Email)
	assert.Equal(t, "Littoral Growers Admin", resp.FullName)
	assert.Equal(t, middleware.RoleCooperative, resp.Role)
	assert.False(t, resp.IsApproved)
	assert.Equal(t, "Registration successful. Your account is pending approval by admin.", resp.Message)

	stored := users.users[resp.UserID]
	assert.Equal(t, "admin", stored.Username)
	assert.NotEqual(t, "Str0ng@Pass", stored.Password, "password must be hashed")
	require.NotNil(t, stored.RegistrationNumber)
	assert.Regexp(t, `^REG-[0-9A-F]{8}$`, *stored.RegistrationNumber)
	require.NotNil(t, stored.CooperativeID)

	require.Len(t, recorder.tasks, 1)
	assert.Equal(t, shared.TypeSendPendingEmail, recorder.tasks[0].Type())
}

func TestSignup_Duplicates(t *testing.T) {
	svc, _, _ := newAuthTestService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, signupRequest())
	require.NoError(t, err)

	dup := signupRequest()
	dup.CooperativeName = "Other Coop"
	dup.Phone = "698765432"
	_, err = svc.Signup(ctx, dup)
	assert.ErrorIs(t, err, user.ErrEmailTaken)

	dup = signupRequest()
	dup.CooperativeName = "Other Coop"
	dup.Email = "other@coop.cm"
	_, err = svc.Signup(ctx, dup)
	assert.ErrorIs(t, err, user.ErrPhoneTaken)

	dup = signupRequest()
	dup.Email = "other@coop.cm"
	dup.Phone = "698765432"
	_, err = svc.Signup(ctx, dup)
	assert.ErrorIs(t, err, user.ErrCooperativeNameTaken)
}

func TestSignup_WeakPassword(t *testing.T) {
	svc, _, _ := newAuthTestService()

	tests := []struct {
		name     string
		password string
	}{
		{name: "too short", password: "S@1a"},
		{name: "no uppercase", password: "weak@pass1"},
		{name: "no digit", password: "Weak@password"},
		{name: "no special character", password: "Weakpass1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := signupRequest()
			req.Password = tt.password
			_, err := svc.Signup(context.Background(), req)
			assert.ErrorIs(t, err, user.ErrValidation)
		})
	}
}

func TestLogin(t *testing.T) {
	svc, users, _ := newAuthTestService()
	ctx := context.Background()

	resp, err := svc.Signup(ctx, signupRequest())
	require.NoError(t, err)

	_, err = svc.Login(ctx, user.LoginRequest{Email: "admin@littoral-growers.cm", Password: "Str0ng@Pass"})
	assert.ErrorIs(t, err, user.ErrPendingApproval)

	u := users.users[resp.UserID]
	u.IsApproved = true
	users.users[resp.UserID] = u

	logged, err := svc.Login(ctx, user.LoginRequest{Email: "admin@littoral-growers.cm", Password: "Str0ng@Pass"})
	require.NoError(t, err)
	assert.NotEmpty(t, logged.Token)
	assert.Equal(t, "Bearer", logged.Type)
	require.NotNil(t, logged.CooperativeName)
	assert.Equal(t, "Littoral Growers", *logged.CooperativeName)

	_, err = svc.Login(ctx, user.LoginRequest{Email: "admin@littoral-growers.cm", Password: "Wrong@Pass1"})
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)

	_, err = svc.Login(ctx, user.LoginRequest{Email: "nobody@coop.cm", Password: "Str0ng@Pass"})
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)
}

func TestLogin_AdminSkipsApprovalGate(t *testing.T) {
	svc, users, _ := newAuthTestService()
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("Adm1n@Pass"), bcrypt.DefaultCost)
	require.NoError(t, err)
	users.users[50] = user.User{
		ID:       50,
		Email:    "root@harvest.cm",
		Password: string(hash),
		Role:     middleware.RoleAdmin,
	}

	resp, err := svc.Login(ctx, user.LoginRequest{Email: "root@harvest.cm", Password: "Adm1n@Pass"})
	require.NoError(t, err)
	assert.Equal(t, middleware.RoleAdmin, resp.Role)
	assert.Nil(t, resp.CooperativeID)
}

func TestForgotPassword(t *testing.T) {
	svc, users, recorder := newAuthTestService()
	ctx := context.Background()

	resp, err := svc.Signup(ctx, signupRequest())
	require.NoError(t, err)
	recorder.tasks = nil

	require.NoError(t, svc.ForgotPassword(ctx, user.ForgotPasswordRequest{Email: "admin@littoral-growers.cm"}))

	stored := users.users[resp.UserID]
	require.NotNil(t, stored.ResetToken)
	assert.GreaterOrEqual(t, len(*stored.ResetToken), 40, "32 random bytes base64-encoded")
	assert.False(t, strings.ContainsAny(*stored.ResetToken, "+/="), "token must be URL-safe")
	require.NotNil(t, stored.ResetTokenExpiry)
	assert.WithinDuration(t, time.Now().Add(time.Hour), *stored.ResetTokenExpiry, time.Minute)

	require.Len(t, recorder.tasks, 1)
	assert.Equal(t, shared.TypeSendResetPasswordEmail, recorder.tasks[0].Type())
}

func TestForgotPassword_UnknownEmailIsSilent(t *testing.T) {
	svc, _, recorder := newAuthTestService()

	err := svc.ForgotPassword(context.Background(), user.ForgotPasswordRequest{Email: "nobody@coop.cm"})
	assert.NoError(t, err)
	assert.Empty(t, recorder.tasks, "no email may leak account existence")
}

func TestResetPassword(t *testing.T) {
	svc, users, _ := newAuthTestService()
	ctx := context.Background()

	resp, err := svc.Signup(ctx, signupRequest())
	require.NoError(t, err)
	require.NoError(t, svc.ForgotPassword(ctx, user.ForgotPasswordRequest{Email: "admin@littoral-growers.cm"}))

	token := *users.users[resp.UserID].ResetToken
	require.NoError(t, svc.ResetPassword(ctx, user.ResetPasswordRequest{Token: token, NewPassword: "N3w@Password"}))

	stored := users.users[resp.UserID]
	assert.Nil(t, stored.ResetToken, "a used token must be cleared")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("N3w@Password")))

	// The token cannot be replayed.
	err = svc.ResetPassword(ctx, user.ResetPasswordRequest{Token: token, NewPassword: "An0ther@Pass"})
	assert.ErrorIs(t, err, user.ErrInvalidResetToken)
}

func TestResetPassword_ExpiredToken(t *testing.T) {
	svc, users, _ := newAuthTestService()
	ctx := context.Background()

	resp, err := svc.Signup(ctx, signupRequest())
	require.NoError(t, err)

	expired := time.Now().Add(-time.Minute)
	token := "expired-token"
	require.NoError(t, users.SetResetToken(ctx, resp.UserID, token, expired))

	err = svc.ResetPassword(ctx, user.ResetPasswordRequest{Token: token, NewPassword: "N3w@Password"})
	assert.ErrorIs(t, err, user.ErrInvalidResetToken)
}

func TestChangePassword(t *testing.T) {
	svc, users, _ := newAuthTestService()
	ctx := context.Background()

	resp, err := svc.Signup(ctx, signupRequest())
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, resp.UserID, user.ChangePasswordRequest{
		CurrentPassword: "Wrong@Pass1",
		NewPassword:     "N3w@Password",
	})
	assert.ErrorIs(t, err, user.ErrWrongPassword)

	err = svc.ChangePassword(ctx, resp.UserID, user.ChangePasswordRequest{
		CurrentPassword: "Str0ng@Pass",
		NewPassword:     "N3w@Password",
	})
	require.NoError(t, err)

	stored := users.users[resp.UserID]
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("N3w@Password")))
}

func TestSignup_UsernameCollisionGetsSuffix(t *testing.T) {
	svc, users, _ := newAuthTestService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, signupRequest())
	require.NoError(t, err)

	second := signupRequest()
	second.CooperativeName = "Centre Planters"
	second.Email = "admin@centre-planters.cm"
	second.Phone = "698765432"
	resp, err := svc.Signup(ctx, second)
	require.NoError(t, err)

	stored := users.users[resp.UserID]
	assert.True(t, strings.HasPrefix(stored.Username, "admin"))
	assert.NotEqual(t, "admin", stored.Username)
}
