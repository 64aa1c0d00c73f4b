package server

import (
	"strings"
	"time"

	"bloghub/internal/auth"
	"bloghub/internal/cache"
	"bloghub/internal/middleware"
	"bloghub/internal/models"
	"bloghub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Email           string `json:"email"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// LoginRequest carries email/password credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// EmailRequest carries just an email address.
type EmailRequest struct {
	Email string `json:"email"`
}

// ChangePasswordRequest is the change-password payload.
type ChangePasswordRequest struct {
	OldPassword     string `json:"old_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// ResetPasswordRequest is the reset confirmation payload.
type ResetPasswordRequest struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// RefreshRequest carries a refresh token.
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// VerifyRequest carries a token to check.
type VerifyRequest struct {
	Token string `json:"token"`
}

// Register handles new account creation.
func (s *Server) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Register(c.UserContext(), service.RegisterInput{
		Email:           req.Email,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(userJSON(user))
}

// ActivateAccount confirms the email address embedded in the token.
func (s *Server) ActivateAccount(c *fiber.Ctx) error {
	if err := s.userService.Activate(c.UserContext(), c.Params("token")); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"detail": "Thank you for your email confirmation. Now you can login your account.",
	})
}

// ResendActivation sends a fresh activation link.
func (s *Server) ResendActivation(c *fiber.Ctx) error {
	var req EmailRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.userService.ResendActivation(c.UserContext(), req.Email); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"detail": "Activation link resent successfully.",
	})
}

// TokenLogin exchanges credentials for the user's opaque token.
func (s *Server) TokenLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	token, user, err := s.userService.TokenLogin(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"token":   token.Key,
		"user_id": user.ID,
		"email":   user.Email,
	})
}

// TokenLogout ends the requester's session. The opaque token row is
// deleted; a presented Bearer access token has its jti revoked for the
// remainder of its lifetime.
func (s *Server) TokenLogout(c *fiber.Ctx) error {
	if scheme, credential, ok := strings.Cut(c.Get("Authorization"), " "); ok && scheme == "Bearer" {
		if claims, err := s.jwt.Parse(credential, auth.TypeAccess); err == nil {
			if err := cache.RevokeJWT(c.Context(), s.redis, claims.JTI, time.Until(claims.ExpiresAt)); err != nil {
				middleware.Logger.WarnContext(c.UserContext(), "failed to revoke access token", "error", err)
			}
		}
	}

	if err := s.userService.TokenLogout(c.UserContext(), userID(c)); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateJWT exchanges credentials for an access/refresh pair.
func (s *Server) CreateJWT(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	access, refresh, err := s.userService.JWTLogin(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"access":  access,
		"refresh": refresh,
	})
}

// RefreshJWT exchanges a refresh token for a new access token.
func (s *Server) RefreshJWT(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	access, err := s.userService.RefreshJWT(c.UserContext(), req.Refresh)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"access": access})
}

// VerifyJWT reports whether a token is currently valid.
func (s *Server) VerifyJWT(c *fiber.Ctx) error {
	var req VerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.userService.VerifyJWT(c.UserContext(), req.Token); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

// ChangePassword updates the requester's password after checking the old one.
func (s *Server) ChangePassword(c *fiber.Ctx) error {
	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	err := s.userService.ChangePassword(c.UserContext(), service.ChangePasswordInput{
		UserID:          userID(c),
		OldPassword:     req.OldPassword,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"detail": "Password changed successfully",
	})
}

// RequestPasswordReset enqueues a password reset email.
func (s *Server) RequestPasswordReset(c *fiber.Ctx) error {
	var req EmailRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.userService.RequestPasswordReset(c.UserContext(), req.Email); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": "We have sent you a link to reset your password",
	})
}

// ValidateResetToken checks a reset link without consuming it.
func (s *Server) ValidateResetToken(c *fiber.Ctx) error {
	err := s.userService.ValidateResetToken(c.UserContext(), c.Params("uid"), c.Params("token"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

// ConfirmPasswordReset sets the new password carried in the request body.
func (s *Server) ConfirmPasswordReset(c *fiber.Ctx) error {
	var req ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	err := s.userService.ResetPassword(c.UserContext(), service.ResetPasswordInput{
		UID:             c.Params("uid"),
		Token:           c.Params("token"),
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"detail": "You have successfully reset your password.",
	})
}

// ProfileRequest is the profile update payload.
type ProfileRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
	Image     string `json:"image"`
	BirthDate *Date  `json:"birth_date"`
}

// Date unmarshals the YYYY-MM-DD format used by the API.
type Date struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler for the date-only format.
func (d *Date) UnmarshalJSON(data []byte) error {
	raw := string(data)
	if raw == "null" || raw == `""` {
		return nil
	}
	t, err := time.Parse(`"2006-01-02"`, raw)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// GetProfile returns the requester's profile with favorites.
func (s *Server) GetProfile(c *fiber.Ctx) error {
	profile, user, err := s.userService.GetProfile(c.UserContext(), userID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(profileJSON(c, profile, user))
}

// UpdateProfile updates profile fields plus the user's name in one step.
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	var req ProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	var birthDate *time.Time
	if req.BirthDate != nil && !req.BirthDate.IsZero() {
		birthDate = &req.BirthDate.Time
	}

	profile, user, err := s.userService.UpdateProfile(c.UserContext(), service.UpdateProfileInput{
		UserID:    userID(c),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		ImageURL:  req.Image,
		BirthDate: birthDate,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(profileJSON(c, profile, user))
}
