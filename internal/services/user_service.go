package services

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "moneylog/internal/errors"
	"moneylog/internal/models"
)

// userService handles account lifecycle logic.
type userService struct {
	db *gorm.DB
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB) UserServicer {
	return &userService{db: db}
}

// CreateUser registers a new user after checking username and email
// availability. OTP-verified registrations pass verified=true.
func (s *userService) CreateUser(firstName, lastName, username, email, password string, verified bool) (*models.User, error) {
	if username == "" || email == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "username, email and password are required")
	}

	taken, err := s.CheckUsernameExists(username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.ErrUsernameTaken
	}

	taken, err = s.CheckEmailExists(email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{
		FirstName:  firstName,
		LastName:   lastName,
		Username:   username,
		Email:      strings.ToLower(email),
		Password:   string(hashed),
		IsVerified: verified,
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return user, nil
}

// GetUserByID retrieves a user by ID.
func (s *userService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email.
func (s *userService) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// ListUsers returns all users.
func (s *userService) ListUsers() ([]models.User, error) {
	var users []models.User
	if err := s.db.Order("registration_date DESC").Find(&users).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return users, nil
}

// UpdateUser changes a user's username, email, and optionally password,
// refusing values already taken by another user.
func (s *userService) UpdateUser(id uint, username, email, password string) error {
	var count int64
	if err := s.db.Model(&models.User{}).Where("username = ? AND id != ?", username, id).Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return apperrors.WithMessage(apperrors.ErrUsernameTaken, "Username already taken by another user")
	}

	if err := s.db.Model(&models.User{}).Where("email = ? AND id != ?", strings.ToLower(email), id).Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return apperrors.WithMessage(apperrors.ErrEmailTaken, "Email already taken by another user")
	}

	updates := map[string]interface{}{
		"username": username,
		"email":    strings.ToLower(email),
	}
	if password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		updates["password"] = string(hashed)
	}

	res := s.db.Model(&models.User{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// CheckUsernameExists reports whether a username is taken.
func (s *userService) CheckUsernameExists(username string) (bool, error) {
	var count int64
	if err := s.db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count > 0, nil
}

// CheckEmailExists reports whether an email is registered.
func (s *userService) CheckEmailExists(email string) (bool, error) {
	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", strings.ToLower(email)).Count(&count).Error; err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count > 0, nil
}

// Login checks credentials for a verified user, marks the session valid,
// and updates login counters. The second return value reports whether this
// was the user's first login. Unknown emails and bad passwords produce the
// same error.
func (s *userService) Login(email, password string) (*models.User, bool, error) {
	user, err := s.GetUserByEmail(email)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Code == apperrors.ErrUserNotFound.Code {
			return nil, false, apperrors.ErrInvalidCredentials
		}
		return nil, false, err
	}

	if !user.IsVerified {
		return nil, false, apperrors.ErrNotVerified
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, false, apperrors.ErrInvalidCredentials
	}

	isFirstLogin := user.LoginCount == 0

	updates := map[string]interface{}{
		"token_valid": true,
		"login_count": gorm.Expr("login_count + 1"),
	}
	if isFirstLogin {
		updates["first_login_date"] = time.Now()
	}
	if err := s.db.Model(user).Updates(updates).Error; err != nil {
		return nil, false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return user, isFirstLogin, nil
}

// Logout clears the session-validity flag, revoking outstanding tokens.
func (s *userService) Logout(userID uint) error {
	if err := s.db.Model(&models.User{}).Where("id = ?", userID).Update("token_valid", false).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// IsSessionValid reports whether a user's session flag still permits
// token-bearing requests.
func (s *userService) IsSessionValid(userID uint) (bool, error) {
	var user models.User
	if err := s.db.Select("token_valid").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return user.TokenValid, nil
}

// UpdatePassword replaces a user's password hash, keyed by email.
func (s *userService) UpdatePassword(email, newPassword string) error {
	if email == "" || newPassword == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "email and new password are required")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	res := s.db.Model(&models.User{}).Where("email = ?", strings.ToLower(email)).Update("password", string(hashed))
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// DeleteAccount removes the user and everything scoped to them: personal
// budgets, expenses, learning rows, photos, group memberships, group
// expenses, group budgets they authored, block rows, plus every group they
// created along with its dependents. All of it commits or none of it does.
func (s *userService) DeleteAccount(userID uint) error {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.GroupExpense{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.GroupMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.JoinRequest{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.GroupBudget{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.BlockedMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Expense{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.ExpenseLearning{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.PersonalBudget{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Photo{}).Error; err != nil {
			return err
		}

		var ownedGroupIDs []uint
		if err := tx.Model(&models.Group{}).Where("created_by = ?", userID).Pluck("id", &ownedGroupIDs).Error; err != nil {
			return err
		}
		if len(ownedGroupIDs) > 0 {
			for _, model := range []interface{}{
				&models.GroupExpense{}, &models.GroupMember{}, &models.GroupBudget{},
				&models.PendingInvite{}, &models.JoinRequest{}, &models.BlockedMember{},
			} {
				if err := tx.Where("group_id IN ?", ownedGroupIDs).Delete(model).Error; err != nil {
					return err
				}
			}
			if err := tx.Where("id IN ?", ownedGroupIDs).Delete(&models.Group{}).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&models.User{}, userID).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
