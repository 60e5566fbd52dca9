package services

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "moneylog/internal/errors"
	"moneylog/internal/logger"
	"moneylog/internal/mail"
	"moneylog/internal/models"
	"moneylog/internal/randcode"
)

const otpExpiry = 15 * time.Minute

// otpService issues, verifies, and clears emailed one-time passwords.
type otpService struct {
	db     *gorm.DB
	mailer mail.Sender
}

// NewOTPService creates a new OTPServicer.
func NewOTPService(db *gorm.DB, mailer mail.Sender) OTPServicer {
	return &otpService{db: db, mailer: mailer}
}

// IssueRegistrationOTP stores a fresh registration code and emails it.
// If the email cannot be delivered the stored code is cleared so a stale
// code never lingers.
func (s *otpService) IssueRegistrationOTP(email, firstName string) error {
	otp, err := randcode.OTP()
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	record := &models.RegistrationOTP{
		Email:  email,
		OTP:    otp,
		Expiry: time.Now().Add(otpExpiry),
	}
	if err := s.db.Create(record).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	body := mail.OTPBody(firstName, otp, "Thank you for registering with Money Log! Please enter this code to complete your registration.")
	if err := s.mailer.Send(email, "Your Money Log Verification Code", body); err != nil {
		if clearErr := s.ClearRegistrationOTPs(email); clearErr != nil {
			logger.Get().Errorw("failed to clear registration OTP after send failure", "error", clearErr, "email", email)
		}
		return apperrors.Wrap(apperrors.ErrEmailDelivery, err)
	}
	return nil
}

// VerifyRegistrationOTP checks and consumes a registration code.
func (s *otpService) VerifyRegistrationOTP(email, otp string) error {
	var record models.RegistrationOTP
	err := s.db.Where("email = ? AND otp = ? AND expiry > ?", email, otp, time.Now()).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrInvalidOTP
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Where("email = ? AND otp = ?", email, otp).Delete(&models.RegistrationOTP{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// ClearRegistrationOTPs removes every registration code for an email.
func (s *otpService) ClearRegistrationOTPs(email string) error {
	if err := s.db.Where("email = ?", email).Delete(&models.RegistrationOTP{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// IssuePasswordResetOTP upserts the single reset code for an email and
// mails it, clearing the code if delivery fails.
func (s *otpService) IssuePasswordResetOTP(email string) error {
	otp, err := randcode.OTP()
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	record := &models.PasswordResetOTP{
		Email:  email,
		OTP:    otp,
		Expiry: time.Now().Add(otpExpiry),
	}
	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"otp", "expiry"}),
	}).Create(record).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	body := mail.OTPBody("", otp, "We received a request to reset your password on Money Log.")
	if err := s.mailer.Send(email, "Your Money Log Password Reset Code", body); err != nil {
		if clearErr := s.ClearPasswordResetOTPs(email); clearErr != nil {
			logger.Get().Errorw("failed to clear reset OTP after send failure", "error", clearErr, "email", email)
		}
		return apperrors.Wrap(apperrors.ErrEmailDelivery, err)
	}
	return nil
}

// VerifyPasswordResetOTP checks a reset code without consuming it; the
// reset step clears it once the password actually changes.
func (s *otpService) VerifyPasswordResetOTP(email, otp string) error {
	var record models.PasswordResetOTP
	err := s.db.Where("email = ? AND otp = ? AND expiry > ?", email, otp, time.Now()).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrInvalidOTP
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// ClearPasswordResetOTPs removes the reset code for an email.
func (s *otpService) ClearPasswordResetOTPs(email string) error {
	if err := s.db.Where("email = ?", email).Delete(&models.PasswordResetOTP{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
