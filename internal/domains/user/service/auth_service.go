package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"golang.org/x/crypto/bcrypt"

	"harvest-backend/internal/domains/cooperative"
	"harvest-backend/internal/domains/user"
	"harvest-backend/internal/infrastructure/email"
	"harvest-backend/internal/shared"
	"harvest-backend/internal/shared/middleware"
	"harvest-backend/pkg/jwt"
	"harvest-backend/pkg/logger"
)

const resetTokenTTL = time.Hour

var (
	phonePattern   = regexp.MustCompile(`^(\+?237)?[26]\d{8}$`)
	usernameFilter = regexp.MustCompile(`[^a-z0-9]`)
)

// TaskEnqueuer is the slice of *asynq.Client the service needs; tests swap in
// a recorder.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type authService struct {
	users        user.Repository
	cooperatives cooperative.Repository
	jwtManager   *jwt.Manager
	tasks        TaskEnqueuer
}

func NewAuthService(
	users user.Repository,
	cooperatives cooperative.Repository,
	jwtManager *jwt.Manager,
	tasks TaskEnqueuer,
) user.Service {
	return &authService{
		users:        users,
		cooperatives: cooperatives,
		jwtManager:   jwtManager,
		tasks:        tasks,
	}
}

func (s *authService) Signup(ctx context.Context, req user.SignupRequest) (*user.SignupResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", user.ErrValidation, err)
	}

	phone := cleanPhoneNumber(req.Phone)
	if !phonePattern.MatchString(phone) {
		return nil, fmt.Errorf("%w: invalid phone number format", user.ErrValidation)
	}

	if taken, err := s.users.ExistsByEmail(ctx, req.Email); err != nil {
		return nil, err
	} else if taken {
		return nil, user.ErrEmailTaken
	}
	if taken, err := s.users.ExistsByPhone(ctx, phone); err != nil {
		return nil, err
	} else if taken {
		return nil, user.ErrPhoneTaken
	}
	if taken, err := s.cooperatives.ExistsByName(ctx, req.CooperativeName); err != nil {
		return nil, err
	} else if taken {
		return nil, user.ErrCooperativeNameTaken
	}

	username, err := s.uniqueUsername(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	regNumber := "REG-" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	coop := &cooperative.Cooperative{
		Name:          req.CooperativeName,
		Region:        req.Location,
		ContactNumber: &phone,
		Address:       &req.Location,
	}
	u := &user.User{
		Username:           username,
		Email:              req.Email,
		Password:           string(hash),
		FullName:           req.CooperativeName + " Admin",
		PhoneNumber:        &phone,
		Role:               middleware.RoleCooperative,
		IsApproved:         false,
		RegistrationNumber: &regNumber,
	}

	if err := s.users.CreateWithCooperative(ctx, u, coop); err != nil {
		return nil, err
	}

	s.enqueueEmail(shared.TypeSendPendingEmail, email.CooperativeStatusData{
		Email:           u.Email,
		CooperativeName: coop.Name,
	})

	return &user.SignupResponse{
		UserID:     u.ID,
		Email:      u.Email,
		FullName:   u.FullName,
		Role:       u.Role,
		IsApproved: u.IsApproved,
		Message:    "Registration successful. Your account is pending approval by admin.",
	}, nil
}

func (s *authService) Login(ctx context.Context, req user.LoginRequest) (*user.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", user.ErrValidation, err)
	}

	u, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, user.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)) != nil {
		return nil, user.ErrInvalidCredentials
	}
	if u.Role == middleware.RoleCooperative && !u.IsApproved {
		return nil, user.ErrPendingApproval
	}

	token, err := s.jwtManager.GenerateToken(u.ID, u.Email, u.Role, u.CooperativeID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	resp := &user.LoginResponse{
		Token:         token,
		Type:          "Bearer",
		UserID:        u.ID,
		Email:         u.Email,
		FullName:      u.FullName,
		Role:          u.Role,
		IsApproved:    u.IsApproved,
		CooperativeID: u.CooperativeID,
	}
	if u.CooperativeID != nil {
		if coop, err := s.cooperatives.FindByID(ctx, *u.CooperativeID); err == nil {
			resp.CooperativeName = &coop.Name
		}
	}
	return resp, nil
}

// ForgotPassword never reveals whether the email exists.
func (s *authService) ForgotPassword(ctx context.Context, req user.ForgotPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %s", user.ErrValidation, err)
	}

	u, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		logger.Info("ForgotPassword: unknown email", map[string]interface{}{"email": req.Email})
		return nil
	}

	token, err := generateSecureToken()
	if err != nil {
		return err
	}
	if err := s.users.SetResetToken(ctx, u.ID, token, time.Now().Add(resetTokenTTL)); err != nil {
		return err
	}

	s.enqueueEmail(shared.TypeSendResetPasswordEmail, email.ResetPasswordData{
		Email:     u.Email,
		FullName:  u.FullName,
		Token:     token,
		ExpiresIn: "1 hour",
	})
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, req user.ResetPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %s", user.ErrValidation, err)
	}

	u, err := s.users.FindByValidResetToken(ctx, req.Token)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.users.UpdatePassword(ctx, u.ID, string(hash))
}

func (s *authService) ChangePassword(ctx context.Context, userID int64, req user.ChangePasswordRequest) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %s", user.ErrValidation, err)
	}

	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.CurrentPassword)) != nil {
		return user.ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.users.UpdatePassword(ctx, u.ID, string(hash))
}

func (s *authService) uniqueUsername(ctx context.Context, emailAddr string) (string, error) {
	local := strings.ToLower(emailAddr[:strings.Index(emailAddr, "@")])
	username := usernameFilter.ReplaceAllString(local, "_")

	taken, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if taken {
		username += uuid.New().String()[:4]
	}
	return username, nil
}

// enqueueEmail is best-effort: the write has committed, a lost email must not
// fail the request.
func (s *authService) enqueueEmail(taskType string, payload interface{}) {
	b, err := json.Marshal(payload)
	if err != nil {
		logger.Error("failed to marshal email payload", err)
		return
	}
	if _, err := s.tasks.Enqueue(asynq.NewTask(taskType, b)); err != nil {
		logger.Error("failed to enqueue email task", err)
	}
}

func cleanPhoneNumber(phone string) string {
	return strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(phone)
}

func generateSecureToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
