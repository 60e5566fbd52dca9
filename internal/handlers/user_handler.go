package handlers

import (
	"github.com/gin-gonic/gin"

	"moneylog/internal/config"
	apperrors "moneylog/internal/errors"
	"moneylog/internal/middleware"
	"moneylog/internal/services"
)

// UserHandler handles account lifecycle, authentication, and the OTP
// verification flows.
type UserHandler struct {
	userService services.UserServicer
	otpService  services.OTPServicer
	cfg         *config.Config
	secret      []byte
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService services.UserServicer, otpService services.OTPServicer, cfg *config.Config) *UserHandler {
	return &UserHandler{
		userService: userService,
		otpService:  otpService,
		cfg:         cfg,
		secret:      []byte(cfg.JWTSecret),
	}
}

// CheckCredentialsRequest represents the request payload for the pre-signup
// availability check.
type CheckCredentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
}

// CheckEmailRequest represents the request payload for the email existence check.
type CheckEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// RegisterRequest represents the request payload for direct registration.
type RegisterRequest struct {
	FirstName string `json:"first_name" binding:"required,max=50"`
	LastName  string `json:"last_name" binding:"required,max=50"`
	Username  string `json:"username" binding:"required,min=3,max=30"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
}

// SendRegistrationOTPRequest represents the request payload starting signup.
type SendRegistrationOTPRequest struct {
	FirstName string `json:"first_name" binding:"required,max=50"`
	LastName  string `json:"last_name" binding:"required,max=50"`
	Username  string `json:"username" binding:"required,min=3,max=30"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
}

// VerifyRegistrationOTPRequest represents the request payload completing signup.
type VerifyRegistrationOTPRequest struct {
	OTP       string `json:"otp" binding:"required,otp"`
	FirstName string `json:"first_name" binding:"required,max=50"`
	LastName  string `json:"last_name" binding:"required,max=50"`
	Username  string `json:"username" binding:"required,min=3,max=30"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
}

// ResendRegistrationOTPRequest represents the request payload for a fresh code.
type ResendRegistrationOTPRequest struct {
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"first_name"`
}

// LoginRequest represents the request payload for logging in.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ForgotPasswordRequest represents the request payload starting a reset.
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// VerifyResetOTPRequest represents the request payload for the reset code check.
type VerifyResetOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required,otp"`
}

// ResetPasswordRequest represents the request payload completing a reset.
type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
	Token       string `json:"token" binding:"required"`
}

// UpdateUserRequest represents the request payload for profile updates.
type UpdateUserRequest struct {
	Username string `json:"username" binding:"omitempty,min=3,max=30"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"omitempty,min=8"`
}

// UserResponse represents a user in responses.
type UserResponse struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// CheckCredentials reports whether a username/email pair is still free.
// @Summary     Check signup credential availability
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       request body CheckCredentialsRequest true "Credentials to check"
// @Success     200 {object} SuccessResponse
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /users/check-credentials [post]
func (h *UserHandler) CheckCredentials(c *gin.Context) {
	var req CheckCredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	usernameTaken, err := h.userService.CheckUsernameExists(req.Username)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if usernameTaken {
		respondOK(c, "Username already exists", gin.H{"available": false})
		return
	}

	emailTaken, err := h.userService.CheckEmailExists(req.Email)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if emailTaken {
		respondOK(c, "Email already exists", gin.H{"available": false})
		return
	}

	respondOK(c, "Credentials available", gin.H{"available": true})
}

// CheckEmail reports whether an account exists for an email.
// @Summary     Check whether an email is registered
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       request body CheckEmailRequest true "Email to check"
// @Success     200 {object} SuccessResponse
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /users/check-email [post]
func (h *UserHandler) CheckEmail(c *gin.Context) {
	var req CheckEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	exists, err := h.userService.CheckEmailExists(req.Email)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "", gin.H{"exists": exists})
}

// Register creates an unverified account directly, without the OTP flow.
// The user cannot log in until verified.
// @Summary     Register a user
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       request body RegisterRequest true "Signup details"
// @Success     201 {object} SuccessResponse
// @Failure     400 {object} ErrorResponse "Username or email taken"
// @Router      /users [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.CreateUser(req.FirstName, req.LastName, req.Username, req.Email, req.Password, false)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondCreated(c, "User created successfully", gin.H{"userId": user.ID})
}

// SendRegistrationOTP starts signup: checks availability, stores a code,
// emails it, and returns a short-lived token binding the flow to the email.
// @Summary     Start registration
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       request body SendRegistrationOTPRequest true "Signup details"
// @Success     200 {object} SuccessResponse
// @Failure     400 {object} ErrorResponse "Invalid input or email taken"
// @Failure     500 {object} ErrorResponse "Email delivery failure"
// @Router      /users/send-registration-otp [post]
func (h *UserHandler) SendRegistrationOTP(c *gin.Context) {
	var req SendRegistrationOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	emailTaken, err := h.userService.CheckEmailExists(req.Email)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if emailTaken {
		respondWithError(c, apperrors.ErrEmailTaken)
		return
	}

	usernameTaken, err := h.userService.CheckUsernameExists(req.Username)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if usernameTaken {
		respondWithError(c, apperrors.ErrUsernameTaken)
		return
	}

	if err := h.otpService.IssueRegistrationOTP(req.Email, req.FirstName); err != nil {
		respondWithError(c, err)
		return
	}

	tempToken, err := middleware.NewEmailToken(h.secret, req.Email, middleware.PurposeRegistration, h.cfg.PhaseTokenTTL)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	respondOK(c, "OTP sent to email", gin.H{"tempToken": tempToken})
}

// VerifyRegistrationOTP completes signup: the bearer token must match the
// email, the code must verify, and only then is the account created.
// @Summary     Complete registration
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       request body VerifyRegistrationOTPRequest true "Signup details with OTP"
// @Success     201 {object} SuccessResponse
// @Failure     400 {object} ErrorResponse "Invalid or expired OTP"
// @Failure     401 {object} ErrorResponse "Missing or expired flow token"
// @Router      /users/verify-registration-otp [post]
func (h *UserHandler) VerifyRegistrationOTP(c *gin.Context) {
	var req VerifyRegistrationOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	tokenEmail, err := middleware.BearerEmail(c, h.secret, middleware.PurposeRegistration)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if tokenEmail != req.Email {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrEmailMismatch, "Email mismatch"))
		return
	}

	if err := h.otpService.VerifyRegistrationOTP(req.Email, req.OTP); err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.CreateUser(req.FirstName, req.LastName, req.Username, req.Email, req.Password, true)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondCreated(c, "Email verified and account created successfully", gin.H{"userId": user.ID})
}

// ResendRegistrationOTP issues a fresh code and flow token for an email.
// @Summary     Resend the registration code
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       request body ResendRegistrationOTPRequest true "Email to resend to"
// @Success     200 {object} SuccessResponse
// @Failure     500 {object} ErrorResponse "Email delivery failure"
// @Router      /users/resend-registration-otp [post]
func (h *UserHandler) ResendRegistrationOTP(c *gin.Context) {
	var req ResendRegistrationOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.otpService.IssueRegistrationOTP(req.Email, req.FirstName); err != nil {
		respondWithError(c, err)
		return
	}

	tempToken, err := middleware.NewEmailToken(h.secret, req.Email, middleware.PurposeRegistration, h.cfg.PhaseTokenTTL)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	respondOK(c, "New OTP sent to email", gin.H{"tempToken": tempToken})
}

// Login verifies credentials and issues a session token. Unknown emails and
// wrong passwords produce the same error.
// @Summary     Log in
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "Credentials"
// @Success     200 {object} SuccessResponse
// @Failure     401 {object} ErrorResponse "Invalid credentials or unverified email"
// @Router      /users/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, isFirstLogin, err := h.userService.Login(req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, err := middleware.NewSessionToken(h.secret, user.ID, h.cfg.SessionTokenTTL)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	respondOK(c, "Login successful", gin.H{
		"token": token,
		"user": UserResponse{
			ID:        user.ID,
			Username:  user.Username,
			Email:     user.Email,
			FirstName: user.FirstName,
			LastName:  user.LastName,
		},
		"isFirstLogin": isFirstLogin,
	})
}

// Logout revokes every outstanding session token for the caller.
// @Summary     Log out
// @Tags        users
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} SuccessResponse
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /users/logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.userService.Logout(userID); err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "Logout successful", nil)
}

// DeleteAccount removes the caller's account and all owned data.
// @Summary     Delete the authenticated account
// @Tags        users
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} SuccessResponse
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /users [delete]
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.userService.DeleteAccount(userID); err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "Account deleted successfully", nil)
}

// ForgotPassword starts a reset. The response does not reveal whether the
// email is registered.
// @Summary     Request a password reset code
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       request body ForgotPasswordRequest true "Account email"
// @Success     200 {object} SuccessResponse
// @Failure     500 {object} ErrorResponse "Email delivery failure"
// @Router      /users/forgot-password [post]
func (h *UserHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	exists, err := h.userService.CheckEmailExists(req.Email)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if !exists {
		respondOK(c, "If this email is registered, you'll receive an OTP", nil)
		return
	}

	if err := h.otpService.IssuePasswordResetOTP(req.Email); err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "OTP sent to email", nil)
}

// VerifyResetOTP checks a reset code and returns a short-lived token for
// the final reset step. The code is not consumed here.
// @Summary     Verify a password reset code
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       request body VerifyResetOTPRequest true "Email and OTP"
// @Success     200 {object} SuccessResponse
// @Failure     400 {object} ErrorResponse "Invalid or expired OTP"
// @Router      /users/verify-otp [post]
func (h *UserHandler) VerifyResetOTP(c *gin.Context) {
	var req VerifyResetOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.otpService.VerifyPasswordResetOTP(req.Email, req.OTP); err != nil {
		respondWithError(c, err)
		return
	}

	token, err := middleware.NewEmailToken(h.secret, req.Email, middleware.PurposeReset, h.cfg.PhaseTokenTTL)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	respondOK(c, "OTP verified", gin.H{"token": token})
}

// ResetPassword completes a reset using the token from VerifyResetOTP and
// clears the stored codes.
// @Summary     Reset the password
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       request body ResetPasswordRequest true "Email, new password, and reset token"
// @Success     200 {object} SuccessResponse
// @Failure     401 {object} ErrorResponse "Invalid or mismatched token"
// @Router      /users/reset-password-otp [post]
func (h *UserHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	tokenEmail, err := middleware.ParseEmailToken(h.secret, req.Token, middleware.PurposeReset)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if tokenEmail != req.Email {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrEmailMismatch, "Token does not match email"))
		return
	}

	if err := h.userService.UpdatePassword(req.Email, req.NewPassword); err != nil {
		respondWithError(c, err)
		return
	}
	if err := h.otpService.ClearPasswordResetOTPs(req.Email); err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "Password updated successfully", nil)
}

// ListUsers returns all users.
// @Summary     List users
// @Tags        users
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} SuccessResponse
// @Router      /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers()
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "", users)
}

// GetUser returns one user by id.
// @Summary     Get a user
// @Tags        users
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "User ID"
// @Success     200 {object} SuccessResponse
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "", user)
}

// UpdateUser patches the caller's own profile.
// @Summary     Update the authenticated user
// @Tags        users
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdateUserRequest true "Fields to update"
// @Success     200 {object} SuccessResponse
// @Failure     400 {object} ErrorResponse "Username or email taken"
// @Router      /users [patch]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.userService.UpdateUser(userID, req.Username, req.Email, req.Password); err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "Updated successfully", nil)
}
