package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	domainauth "github.com/target/marketplace-ui/internal/domain/auth"
	"github.com/target/marketplace-ui/internal/domain/profile"
	apperrors "github.com/target/marketplace-ui/internal/errors"
	"github.com/target/marketplace-ui/internal/ports"
)

// ProfileServiceOptions groups dependencies for ProfileService.
type ProfileServiceOptions struct {
	Repo   ports.ProfileRepository // Required
	Logger *slog.Logger            // Optional
}

// ProfileService reads and maintains marketplace profiles.
type ProfileService struct {
	repo   ports.ProfileRepository
	logger *slog.Logger
}

var _ LoginProfileSync = (*ProfileService)(nil)

// NewProfileService constructs a ProfileService.
func NewProfileService(opts ProfileServiceOptions) *ProfileService {
	if opts.Repo == nil {
		panic("NewProfileService: Repo is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileService{repo: opts.Repo, logger: logger.With("component", "profile_service")}
}

// Get returns the profile for userID.
func (s *ProfileService) Get(ctx context.Context, userID string) (*profile.Profile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apperrors.ValidationField("user_id", "user id is required")
	}
	p, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// EnsureForSession creates or refreshes the profile of the session's user.
func (s *ProfileService) EnsureForSession(ctx context.Context, sess domainauth.Session) (*profile.Profile, error) {
	u := sess.User
	p, err := s.repo.Upsert(ctx, profile.Profile{
		UserID:      u.ID,
		Email:       u.Email,
		DisplayName: truncateRunes(u.DisplayName(), profile.MaxDisplayNameLength),
		IsSeller:    u.Seller(),
	})
	if err != nil {
		return nil, fmt.Errorf("ensure profile: %w", err)
	}
	s.logger.DebugContext(ctx, "profile synced", "user_id", u.ID, "role", p.Role())
	return p, nil
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// Current returns the signed-in user's profile, or nil when there is no user
// or no profile yet.
func (s *ProfileService) Current(ctx context.Context, u *domainauth.User) (*profile.Profile, error) {
	if u == nil {
		return nil, nil
	}
	p, err := s.repo.GetByUserID(ctx, u.ID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("current profile: %w", err)
	}
	return p, nil
}

// SetSeller grants or revokes the seller flag on a stored profile.
// It takes effect at the user's next sign-in.
func (s *ProfileService) SetSeller(ctx context.Context, userID string, isSeller bool) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return apperrors.ValidationField("user_id", "user id is required")
	}
	if err := s.repo.SetSeller(ctx, userID, isSeller); err != nil {
		return fmt.Errorf("set seller: %w", err)
	}
	s.logger.InfoContext(ctx, "seller flag changed", "user_id", userID, "is_seller", isSeller)
	return nil
}
