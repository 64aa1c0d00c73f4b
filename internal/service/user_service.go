// Package service implements the application's business logic on top of the
// repository layer.
package service

import (
	"context"
	"errors"
	"time"

	"bloghub/internal/auth"
	"bloghub/internal/mailer"
	"bloghub/internal/middleware"
	"bloghub/internal/models"
	"bloghub/internal/repository"
	"bloghub/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// UnverifiedRetention is how long an account may stay unverified before the
// cleanup job removes it.
const UnverifiedRetention = 7 * 24 * time.Hour

type UserService struct {
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
	jwt       *auth.JWTManager
	resetGen  *auth.ResetTokenGenerator
	emails    mailer.Publisher
	domain    string
	now       func() time.Time
}

type RegisterInput struct {
	Email           string
	FirstName       string
	LastName        string
	Password        string
	ConfirmPassword string
}

type ChangePasswordInput struct {
	UserID          uint
	OldPassword     string
	NewPassword     string
	ConfirmPassword string
}

type ResetPasswordInput struct {
	UID             string
	Token           string
	Password        string
	ConfirmPassword string
}

type UpdateProfileInput struct {
	UserID    uint
	FirstName string
	LastName  string
	Bio       string
	ImageURL  string
	BirthDate *time.Time
}

func NewUserService(
	userRepo repository.UserRepository,
	tokenRepo repository.TokenRepository,
	jwt *auth.JWTManager,
	resetGen *auth.ResetTokenGenerator,
	emails mailer.Publisher,
	domain string,
) *UserService {
	return &UserService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		jwt:       jwt,
		resetGen:  resetGen,
		emails:    emails,
		domain:    domain,
		now:       time.Now,
	}
}

// Register creates an unverified account with its profile and enqueues the
// verification email. Registration still succeeds if the enqueue fails; the
// user can ask for a resend.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateName("first_name", in.FirstName); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateName("last_name", in.LastName); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if in.Password != in.ConfirmPassword {
		return nil, models.NewValidationError("Passwords do not match.")
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Password:  string(hashed),
		IsActive:  true,
	}
	if err := s.userRepo.CreateWithProfile(ctx, user); err != nil {
		return nil, err
	}

	s.enqueueVerification(ctx, user)
	return user, nil
}

func (s *UserService) enqueueVerification(ctx context.Context, user *models.User) {
	token, err := s.jwt.IssueActivation(user.ID)
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "failed to issue activation token", "user_id", user.ID, "error", err)
		return
	}
	err = s.emails.EnqueueVerification(ctx, mailer.Message{
		UserID:    user.ID,
		Recipient: user.Email,
		FirstName: user.FirstName,
		Domain:    s.domain,
		Token:     token,
	})
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "failed to enqueue verification email", "user_id", user.ID, "error", err)
	}
}

// Activate confirms the email address embedded in an activation token. The
// flip happens at most once; a second confirmation is rejected.
func (s *UserService) Activate(ctx context.Context, token string) error {
	claims, err := s.jwt.Parse(token, auth.TypeActivation)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			return models.NewValidationError("Activation link is expired")
		}
		return models.NewValidationError("Invalid token")
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		// The account behind a valid token may have been deleted since.
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == "NOT_FOUND" {
			return models.NewValidationError("Invalid token")
		}
		return err
	}
	if user.IsVerified {
		return models.NewValidationError("Your account is already verified.")
	}

	user.IsVerified = true
	return s.userRepo.Update(ctx, user)
}

// ResendActivation issues a fresh activation email for an unverified account.
func (s *UserService) ResendActivation(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return models.NewValidationError("User with this email does not exist")
	}
	if user.IsVerified {
		return models.NewValidationError("Your account is already verified.")
	}

	token, err := s.jwt.IssueActivation(user.ID)
	if err != nil {
		return models.NewInternalError(err)
	}
	err = s.emails.EnqueueVerification(ctx, mailer.Message{
		UserID:    user.ID,
		Recipient: user.Email,
		FirstName: user.FirstName,
		Domain:    s.domain,
		Token:     token,
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// authenticate resolves email+password to an active user. Failures collapse
// into one generic message so callers cannot probe which field was wrong.
func (s *UserService) authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, models.NewUnauthorizedError("Unable to log in with provided credentials.")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewUnauthorizedError("Unable to log in with provided credentials.")
	}
	return user, nil
}

// TokenLogin authenticates and returns the user's opaque token, minting one
// on first login. LastLogin is updated, which also invalidates any
// outstanding password reset links.
func (s *UserService) TokenLogin(ctx context.Context, email, password string) (*models.AuthToken, *models.User, error) {
	user, err := s.authenticate(ctx, email, password)
	if err != nil {
		return nil, nil, err
	}

	token, err := s.tokenRepo.GetOrCreate(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	user.LastLogin = s.now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, nil, err
	}
	return token, user, nil
}

// TokenLogout deletes the user's opaque token.
func (s *UserService) TokenLogout(ctx context.Context, userID uint) error {
	return s.tokenRepo.DeleteByUserID(ctx, userID)
}

// JWTLogin authenticates and issues an access/refresh pair. Unverified
// accounts are refused.
func (s *UserService) JWTLogin(ctx context.Context, email, password string) (access, refresh string, err error) {
	user, err := s.authenticate(ctx, email, password)
	if err != nil {
		return "", "", err
	}
	if !user.IsVerified {
		return "", "", models.NewUnauthorizedError("User is not verified")
	}

	access, refresh, err = s.jwt.IssuePair(user)
	if err != nil {
		return "", "", models.NewInternalError(err)
	}

	user.LastLogin = s.now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// RefreshJWT exchanges a valid refresh token for a new access token.
func (s *UserService) RefreshJWT(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwt.Parse(refreshToken, auth.TypeRefresh)
	if err != nil {
		return "", models.NewUnauthorizedError("Token is invalid or expired")
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return "", models.NewUnauthorizedError("Token is invalid or expired")
	}

	access, err := s.jwt.IssueAccess(user.ID, user.Email)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return access, nil
}

// VerifyJWT checks that a token parses as a valid access or refresh token.
func (s *UserService) VerifyJWT(_ context.Context, token string) error {
	if _, err := s.jwt.Parse(token, ""); err != nil {
		return models.NewUnauthorizedError("Token is invalid or expired")
	}
	return nil
}

// ChangePassword verifies the old password before setting the new one.
func (s *UserService) ChangePassword(ctx context.Context, in ChangePasswordInput) error {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.OldPassword)); err != nil {
		return models.NewValidationError("Wrong password.")
	}
	if in.NewPassword != in.ConfirmPassword {
		return models.NewValidationError("Passwords do not match.")
	}
	if err := validation.ValidatePassword(in.NewPassword); err != nil {
		return models.NewValidationError(err.Error())
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return models.NewInternalError(err)
	}
	user.Password = string(hashed)
	return s.userRepo.Update(ctx, user)
}

// RequestPasswordReset enqueues a reset email carrying the encoded user id
// and a state-bound token.
func (s *UserService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return models.NewValidationError("User with this email does not exist")
	}

	err = s.emails.EnqueuePasswordReset(ctx, mailer.Message{
		UserID:    user.ID,
		Recipient: user.Email,
		FirstName: user.FirstName,
		Domain:    s.domain,
		Token:     s.resetGen.Make(user),
		UID:       auth.EncodeUID(user.ID),
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// ValidateResetToken checks a uid/token pair without consuming it.
func (s *UserService) ValidateResetToken(ctx context.Context, uid, token string) error {
	_, err := s.resolveResetUser(ctx, uid, token)
	return err
}

// ResetPassword validates the uid/token pair and sets the new password.
// Changing the password hash makes the token unusable afterwards.
func (s *UserService) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
	user, err := s.resolveResetUser(ctx, in.UID, in.Token)
	if err != nil {
		return err
	}

	if in.Password != in.ConfirmPassword {
		return models.NewValidationError("Passwords do not match.")
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return models.NewValidationError(err.Error())
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.NewInternalError(err)
	}
	user.Password = string(hashed)
	return s.userRepo.Update(ctx, user)
}

func (s *UserService) resolveResetUser(ctx context.Context, uid, token string) (*models.User, error) {
	userID, err := auth.DecodeUID(uid)
	if err != nil {
		return nil, models.NewValidationError("Token is not valid, please request a new one")
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, models.NewValidationError("Token is not valid, please request a new one")
	}
	if !s.resetGen.Check(user, token) {
		return nil, models.NewValidationError("The reset link is invalid")
	}
	return user, nil
}

// GetProfile returns the user's profile with favorite posts preloaded.
func (s *UserService) GetProfile(ctx context.Context, userID uint) (*models.Profile, *models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	profile, err := s.userRepo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return profile, user, nil
}

// UpdateProfile persists profile fields and delegated user name fields in a
// single transaction.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.Profile, *models.User, error) {
	if err := validation.ValidateName("first_name", in.FirstName); err != nil {
		return nil, nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateName("last_name", in.LastName); err != nil {
		return nil, nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateBio(in.Bio); err != nil {
		return nil, nil, models.NewValidationError(err.Error())
	}

	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, nil, err
	}
	profile, err := s.userRepo.GetProfileByUserID(ctx, in.UserID)
	if err != nil {
		return nil, nil, err
	}

	user.FirstName = in.FirstName
	user.LastName = in.LastName
	profile.Bio = in.Bio
	profile.ImageURL = in.ImageURL
	profile.BirthDate = in.BirthDate

	if err := s.userRepo.UpdateUserAndProfile(ctx, user, profile); err != nil {
		return nil, nil, err
	}
	return profile, user, nil
}

// GetUserByID exposes user lookup to the auth middleware.
func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// GetUserByToken resolves an opaque token key to its user.
func (s *UserService) GetUserByToken(ctx context.Context, key string) (*models.User, error) {
	token, err := s.tokenRepo.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, models.NewUnauthorizedError("Invalid token.")
	}
	return s.userRepo.GetByID(ctx, token.UserID)
}

// DeleteUnverified removes accounts that stayed unverified past the
// retention window. Returns the number of deleted accounts.
func (s *UserService) DeleteUnverified(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-UnverifiedRetention)
	return s.userRepo.DeleteUnverifiedBefore(ctx, cutoff)
}

// CreateSuperuser provisions a verified staff account, used by the CLI.
func (s *UserService) CreateSuperuser(ctx context.Context, email, firstName, lastName, password string) (*models.User, error) {
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Email:       email,
		FirstName:   firstName,
		LastName:    lastName,
		Password:    string(hashed),
		IsActive:    true,
		IsStaff:     true,
		IsSuperuser: true,
		IsVerified:  true,
	}
	if err := s.userRepo.CreateWithProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
