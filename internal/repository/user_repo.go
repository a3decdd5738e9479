package repository

import (
	"errors"
	"time"

	"pan-basket-backend/internal/apperr"
	"pan-basket-backend/internal/models"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) DB() *gorm.DB {
	return r.db
}

func (r *UserRepository) Create(u *models.User) error {
	return r.db.Create(u).Error
}

func (r *UserRepository) Save(u *models.User) error {
	return r.db.Save(u).Error
}

func (r *UserRepository) GetByID(id uint) (*models.User, error) {
	var u models.User
	if err := r.db.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user with ID %d not found", id)
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) FindByUsername(username string) (*models.User, error) {
	return r.findBy("username = ?", username)
}

func (r *UserRepository) FindByEmail(email string) (*models.User, error) {
	return r.findBy("email = ?", email)
}

func (r *UserRepository) FindByVerificationToken(token string) (*models.User, error) {
	return r.findBy("verification_token = ?", token)
}

func (r *UserRepository) findBy(cond string, arg interface{}) (*models.User, error) {
	var u models.User
	if err := r.db.Where(cond, arg).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, err
	}
	return &u, nil
}

// Password reset tokens are rows, not process state, so a restart or a
// second instance can still honor an outstanding reset link.

func (r *UserRepository) CreateReset(reset *models.PasswordReset) error {
	return r.db.Create(reset).Error
}

func (r *UserRepository) GetReset(token string) (*models.PasswordReset, error) {
	var reset models.PasswordReset
	if err := r.db.First(&reset, "token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("invalid or expired reset token")
		}
		return nil, err
	}
	return &reset, nil
}

func (r *UserRepository) DeleteReset(token string) error {
	return r.db.Delete(&models.PasswordReset{}, "token = ?", token).Error
}

func (r *UserRepository) DeleteExpiredResets(now time.Time) error {
	return r.db.Delete(&models.PasswordReset{}, "expires_at < ?", now).Error
}
