package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/devsearch-backend/auth"
	"github.com/rpupo63/devsearch-backend/database"
	"github.com/rpupo63/devsearch-backend/errs"
	"github.com/rpupo63/devsearch-backend/models"
	"github.com/rpupo63/devsearch-backend/validation"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AccountService covers credentials: login, registration, tokens, verification and password reset.
type AccountService struct {
	db      database.Database
	issuer  *auth.Issuer
	mailer  Mailer
	baseURL string
	logger  zerolog.Logger
}

func NewAccountService(db database.Database, issuer *auth.Issuer, mailer Mailer, baseURL string) *AccountService {
	return &AccountService{
		db:      db,
		issuer:  issuer,
		mailer:  mailer,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  log.With().Str("service", "accounts").Logger(),
	}
}

// Authenticate looks the profile up by username or email and checks the password.
// Unknown identifiers and wrong passwords fail identically.
func (s *AccountService) Authenticate(ctx context.Context, identifier, password string) (*models.Profile, error) {
	profile, err := s.db.ProfileRepo().FindByIdentifier(ctx, strings.TrimSpace(identifier))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewUnauthorizedError()
		}
		return nil, errs.NewDatabaseError("find", "profile", err)
	}
	if !auth.VerifyPassword(password, profile.Password) {
		return nil, errs.NewUnauthorizedError()
	}
	return profile, nil
}

// Login authenticates and issues an access/refresh pair.
func (s *AccountService) Login(ctx context.Context, identifier, password string) (auth.Pair, *models.Profile, error) {
	profile, err := s.Authenticate(ctx, identifier, password)
	if err != nil {
		return auth.Pair{}, nil, err
	}
	pair, err := s.issuer.IssuePair(identityOf(profile))
	if err != nil {
		return auth.Pair{}, nil, errs.NewInternalError("could not issue token")
	}
	return pair, profile, nil
}

// Refresh exchanges a refresh token for a new access token. The profile must still exist.
func (s *AccountService) Refresh(ctx context.Context, refreshToken string) (auth.Pair, error) {
	id, err := s.issuer.Verify(refreshToken, auth.PurposeRefresh)
	if err != nil {
		return auth.Pair{}, err
	}
	profile, err := s.db.ProfileRepo().FindByID(ctx, id.ID, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return auth.Pair{}, errs.NewUnauthorizedError()
		}
		return auth.Pair{}, errs.NewDatabaseError("find", "profile", err)
	}
	access, err := s.issuer.Issue(identityOf(profile), auth.PurposeAccess, auth.AccessTokenTTL)
	if err != nil {
		return auth.Pair{}, errs.NewInternalError("could not issue token")
	}
	return auth.Pair{AccessToken: access, RefreshToken: refreshToken, TokenType: "bearer"}, nil
}

// Identify resolves an access token to the live profile it names.
func (s *AccountService) Identify(ctx context.Context, token string) (*models.Profile, error) {
	id, err := s.issuer.Verify(token, auth.PurposeAccess)
	if err != nil {
		return nil, err
	}
	profile, err := s.db.ProfileRepo().FindByID(ctx, id.ID, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewUnauthorizedError()
		}
		return nil, errs.NewDatabaseError("find", "profile", err)
	}
	return profile, nil
}

// Register validates the whole registration at once and creates the profile.
func (s *AccountService) Register(ctx context.Context, reg validation.Registration) (*models.Profile, error) {
	reg.Normalize()
	problems, err := reg.Validate(ctx, s.db.ProfileRepo())
	if err != nil {
		return nil, errs.NewDatabaseError("validate", "profile", err)
	}
	if err := problems.Err(); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(reg.Password)
	if err != nil {
		return nil, errs.NewInternalError("could not hash password")
	}

	profile := &models.Profile{
		Username:  reg.Username,
		Email:     reg.Email,
		Password:  hash,
		FirstName: reg.FirstName,
		LastName:  reg.LastName,
		IsActive:  true,
	}
	if err := s.db.ProfileRepo().Add(ctx, profile); err != nil {
		return nil, errs.NewDatabaseError("create", "profile", err)
	}
	s.logger.Info().Str("profileID", profile.ID.String()).Msg("Registered profile")
	return profile, nil
}

// ChangePassword sets a new password for an authenticated profile.
func (s *AccountService) ChangePassword(ctx context.Context, actor uuid.UUID, change validation.PasswordChange) error {
	if err := change.Validate().Err(); err != nil {
		return err
	}
	return s.setPassword(ctx, actor, change.Password)
}

func (s *AccountService) setPassword(ctx context.Context, id uuid.UUID, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return errs.NewInternalError("could not hash password")
	}
	if err := s.db.ProfileRepo().SetPassword(ctx, id, hash); err != nil {
		return errs.NewDatabaseError("update", "profile", err)
	}
	return nil
}

// SendVerification mails a verification link to the profile's address.
func (s *AccountService) SendVerification(ctx context.Context, actor uuid.UUID) error {
	profile, err := s.db.ProfileRepo().FindByID(ctx, actor, false)
	if err != nil {
		return errs.NewDatabaseError("find", "profile", err)
	}
	if profile.IsVerified {
		return errs.NewBadRequestError("Email is already verified.")
	}

	token, err := s.issuer.Issue(identityOf(profile), auth.PurposeVerify, auth.VerifyTokenTTL)
	if err != nil {
		return errs.NewInternalError("could not issue token")
	}
	body := fmt.Sprintf("Hi %s,\n\nConfirm your email address by opening the link below. It expires in 2 hours.\n\n%s/verify-email/%s\n",
		profile.DisplayName(), s.baseURL, token)
	if err := s.mailer.Send(ctx, profile.Email, "Verify your DevSearch email", body); err != nil {
		s.logger.Error().Err(err).Str("profileID", profile.ID.String()).Msg("Failed to send verification email")
		return errs.NewInternalError("could not send email")
	}
	return nil
}

// VerifyEmail marks the profile named by a verification token as verified.
func (s *AccountService) VerifyEmail(ctx context.Context, token string) error {
	id, err := s.issuer.Verify(token, auth.PurposeVerify)
	if err != nil {
		return err
	}
	if _, err := s.db.ProfileRepo().FindByID(ctx, id.ID, false); err != nil {
		return errs.NewDatabaseError("find", "profile", err)
	}
	if err := s.db.ProfileRepo().SetVerified(ctx, id.ID); err != nil {
		return errs.NewDatabaseError("update", "profile", err)
	}
	return nil
}

// RequestPasswordReset mails a reset link when the address belongs to a profile.
// It reports success either way so callers cannot probe for accounts.
func (s *AccountService) RequestPasswordReset(ctx context.Context, email string) error {
	profile, err := s.db.ProfileRepo().FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error().Err(err).Msg("Failed to look up profile for password reset")
		}
		return nil
	}

	token, err := s.issuer.Issue(identityOf(profile), auth.PurposeReset, auth.ResetTokenTTL)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to issue reset token")
		return nil
	}
	body := fmt.Sprintf("Hi %s,\n\nReset your password with the link below. It expires in 2 hours.\n\n%s/change-password/%s\n",
		profile.DisplayName(), s.baseURL, token)
	if err := s.mailer.Send(ctx, profile.Email, "Reset your DevSearch password", body); err != nil {
		s.logger.Error().Err(err).Str("profileID", profile.ID.String()).Msg("Failed to send password reset email")
	}
	return nil
}

// CheckResetToken validates a reset token without consuming it.
func (s *AccountService) CheckResetToken(token string) error {
	_, err := s.issuer.Verify(token, auth.PurposeReset)
	return err
}

// ResetPassword sets the password of the profile named by a reset token.
func (s *AccountService) ResetPassword(ctx context.Context, token string, change validation.PasswordChange) error {
	id, err := s.issuer.Verify(token, auth.PurposeReset)
	if err != nil {
		return err
	}
	if err := change.Validate().Err(); err != nil {
		return err
	}
	if _, err := s.db.ProfileRepo().FindByID(ctx, id.ID, false); err != nil {
		return errs.NewDatabaseError("find", "profile", err)
	}
	return s.setPassword(ctx, id.ID, change.Password)
}

func identityOf(p *models.Profile) auth.Identity {
	return auth.Identity{ID: p.ID, Username: p.Username}
}
