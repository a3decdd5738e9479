package auth

import (
	"errors"
	"fmt"
	"time"

	"pan-basket-backend/internal/apperr"
	"pan-basket-backend/internal/config"
	"pan-basket-backend/internal/models"
	"pan-basket-backend/internal/repository"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// ErrEmailNotVerified is returned by Login for users who registered but
// never clicked the verification link.
var ErrEmailNotVerified = errors.New("email not verified")

const (
	verificationTTL = 7 * 24 * time.Hour
	resetTTL        = 24 * time.Hour
	sessionTTL      = 24 * time.Hour
	rememberMeTTL   = 30 * 24 * time.Hour
)

type Service struct {
	users     *repository.UserRepository
	mailer    Mailer
	jwtSecret []byte
	baseURL   string
}

func NewService(users *repository.UserRepository, mailer Mailer, cfg *config.Config) *Service {
	return &Service{
		users:     users,
		mailer:    mailer,
		jwtSecret: []byte(cfg.JWTSecret),
		baseURL:   cfg.AppBaseURL,
	}
}

func (s *Service) Register(username, email, password string, isAdmin bool) (*models.User, error) {
	if username == "" || email == "" || password == "" {
		return nil, apperr.Validation("username, email and password are required")
	}
	if _, err := s.users.FindByUsername(username); err == nil {
		return nil, apperr.Validation("username already exists")
	}
	if _, err := s.users.FindByEmail(email); err == nil {
		return nil, apperr.Validation("email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().UTC().Add(verificationTTL)
	user := &models.User{
		Username:                   username,
		Email:                      email,
		PasswordHash:               string(hash),
		IsAdmin:                    isAdmin,
		VerificationToken:          randomToken(),
		VerificationTokenExpiresAt: &expiresAt,
	}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}

	s.sendVerificationMail(user)
	return user, nil
}

type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

func (s *Service) Login(username, password string, rememberMe, ignoreVerification bool) (*Session, error) {
	user, err := s.users.FindByUsername(username)
	if err != nil {
		return nil, apperr.Validation("invalid username or password")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, apperr.Validation("invalid username or password")
	}
	if !user.EmailVerified && !ignoreVerification {
		return nil, ErrEmailNotVerified
	}

	ttl := sessionTTL
	if rememberMe {
		ttl = rememberMeTTL
	}
	token, expiresAt, err := s.issueToken(user.ID, user.Username, user.IsAdmin, ttl)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *Service) VerifyEmail(token string) error {
	user, err := s.users.FindByVerificationToken(token)
	if err != nil {
		return apperr.Validation("invalid verification token")
	}
	if user.VerificationTokenExpiresAt == nil || time.Now().UTC().After(*user.VerificationTokenExpiresAt) {
		return apperr.Validation("verification token has expired")
	}
	user.EmailVerified = true
	user.VerificationToken = ""
	user.VerificationTokenExpiresAt = nil
	return s.users.Save(user)
}

func (s *Service) ResendVerification(userID uint) error {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return err
	}
	if user.EmailVerified {
		return nil
	}
	expiresAt := time.Now().UTC().Add(verificationTTL)
	user.VerificationToken = randomToken()
	user.VerificationTokenExpiresAt = &expiresAt
	if err := s.users.Save(user); err != nil {
		return err
	}
	s.sendVerificationMail(user)
	return nil
}

// ForgotPassword stores a reset token row and emails the link. It returns
// nil for unknown emails so the endpoint cannot be used to probe which
// addresses are registered.
func (s *Service) ForgotPassword(email string) error {
	if email == "" {
		return apperr.Validation("email is required")
	}
	user, err := s.users.FindByEmail(email)
	if err != nil {
		return nil
	}

	_ = s.users.DeleteExpiredResets(time.Now().UTC())

	reset := &models.PasswordReset{
		Token:     randomToken(),
		UserID:    user.ID,
		ExpiresAt: time.Now().UTC().Add(resetTTL),
	}
	if err := s.users.CreateReset(reset); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/reset-password/%s", s.baseURL, reset.Token)
	body := fmt.Sprintf(`<html><body>
<h2>Password Reset Request</h2>
<p>Hello %s,</p>
<p>You have requested to reset your password. Click the link below to reset it:</p>
<p><a href="%s">Reset Password</a></p>
<p>This link will expire in 24 hours.</p>
<p>If you did not request this, please ignore this email.</p>
</body></html>`, user.Username, link)
	if err := s.mailer.Send(user.Email, "Password Reset Request", body); err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("failed to send reset email")
		return err
	}
	return nil
}

func (s *Service) VerifyResetToken(token string) bool {
	reset, err := s.users.GetReset(token)
	if err != nil {
		return false
	}
	if time.Now().UTC().After(reset.ExpiresAt) {
		_ = s.users.DeleteReset(token)
		return false
	}
	return true
}

func (s *Service) ResetPassword(token, newPassword string) error {
	if newPassword == "" {
		return apperr.Validation("new password is required")
	}
	reset, err := s.users.GetReset(token)
	if err != nil {
		return apperr.Validation("invalid or expired token")
	}
	if time.Now().UTC().After(reset.ExpiresAt) {
		_ = s.users.DeleteReset(token)
		return apperr.Validation("token has expired")
	}
	user, err := s.users.GetByID(reset.UserID)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	if err := s.users.Save(user); err != nil {
		return err
	}
	return s.users.DeleteReset(token)
}

func (s *Service) GetUser(id uint) (*models.User, error) {
	return s.users.GetByID(id)
}

func (s *Service) sendVerificationMail(user *models.User) {
	link := fmt.Sprintf("%s/verify-email/%s", s.baseURL, user.VerificationToken)
	body := fmt.Sprintf(`<html><body>
<h2>Email Verification</h2>
<p>Hello %s,</p>
<p>Thank you for registering. Please click the link below to verify your email address:</p>
<p><a href="%s">Verify Email</a></p>
<p>This link will expire in 7 days.</p>
</body></html>`, user.Username, link)
	if err := s.mailer.Send(user.Email, "Verify Your Email Address", body); err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("failed to send verification email")
	}
}
