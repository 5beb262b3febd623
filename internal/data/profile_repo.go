package data

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/target/marketplace-ui/internal/data/pgxutil"
	"github.com/target/marketplace-ui/internal/domain/profile"
	apperrors "github.com/target/marketplace-ui/internal/errors"
	"github.com/target/marketplace-ui/internal/ports"
)

var _ ports.ProfileRepository = (*ProfileRepo)(nil)

const profileColumns = `user_id, email, display_name, bio, is_seller, created_at, updated_at`

// ProfileRepo provides database operations for marketplace profiles.
type ProfileRepo struct {
	DB    *sql.DB
	clock Clock
}

// NewProfileRepo creates a ProfileRepo stamped with the system clock.
func NewProfileRepo(db *sql.DB) *ProfileRepo {
	return &ProfileRepo{DB: db, clock: systemClock{}}
}

// NewProfileRepoWithClock creates a ProfileRepo that reads timestamps from clock.
func NewProfileRepoWithClock(db *sql.DB, clock Clock) *ProfileRepo {
	return &ProfileRepo{DB: db, clock: clock}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*profile.Profile, error) {
	var p profile.Profile
	if err := row.Scan(&p.UserID, &p.Email, &p.DisplayName, &p.Bio, &p.IsSeller, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByUserID returns the profile for userID, or a NotFound AppError.
func (r *ProfileRepo) GetByUserID(ctx context.Context, userID string) (*profile.Profile, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperrors.ValidationField("user_id", "user id is required")
	}
	row := r.DB.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`, userID)
	p, err := scanProfile(row)
	if err != nil {
		return nil, fmt.Errorf("get profile %s: %w", userID, apperrors.MapDBError(err))
	}
	return p, nil
}

// Upsert creates the profile or refreshes its email and display name.
// An empty display name or bio never overwrites a stored one, and the stored
// seller flag can only be raised here; SetSeller is the way to clear it.
func (r *ProfileRepo) Upsert(ctx context.Context, p profile.Profile) (*profile.Profile, error) {
	if strings.TrimSpace(p.UserID) == "" {
		return nil, apperrors.ValidationField("user_id", "user id is required")
	}
	now := r.clock.Now().UTC()

	var out *profile.Profile
	err := pgxutil.Raw(ctx, r.DB, func(conn *pgx.Conn) error {
		row := conn.QueryRow(ctx, `
			INSERT INTO profiles (user_id, email, display_name, bio, is_seller, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $6)
			ON CONFLICT (user_id) DO UPDATE SET
				email        = EXCLUDED.email,
				display_name = COALESCE(NULLIF(EXCLUDED.display_name, ''), profiles.display_name),
				bio          = COALESCE(NULLIF(EXCLUDED.bio, ''), profiles.bio),
				is_seller    = profiles.is_seller OR EXCLUDED.is_seller,
				updated_at   = EXCLUDED.updated_at
			RETURNING `+profileColumns,
			p.UserID, strings.TrimSpace(p.Email), strings.TrimSpace(p.DisplayName), p.Bio, p.IsSeller, now,
		)
		var scanErr error
		out, scanErr = scanProfile(row)
		return scanErr
	})
	if err != nil {
		return nil, fmt.Errorf("upsert profile %s: %w", p.UserID, apperrors.MapDBError(err))
	}
	return out, nil
}

// SetSeller sets the seller flag on an existing profile.
func (r *ProfileRepo) SetSeller(ctx context.Context, userID string, isSeller bool) error {
	if strings.TrimSpace(userID) == "" {
		return apperrors.ValidationField("user_id", "user id is required")
	}
	now := r.clock.Now().UTC()

	err := pgxutil.InTx(ctx, r.DB, nil, func(tx *sql.Tx) error {
		var current bool
		if err := tx.QueryRowContext(ctx,
			`SELECT is_seller FROM profiles WHERE user_id = $1 FOR UPDATE`, userID,
		).Scan(&current); err != nil {
			return err
		}
		if current == isSeller {
			return nil
		}
		_, err := tx.ExecContext(ctx,
			`UPDATE profiles SET is_seller = $2, updated_at = $3 WHERE user_id = $1`,
			userID, isSeller, now,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("set seller on profile %s: %w", userID, apperrors.MapDBError(err))
	}
	return nil
}
