package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Revocations is the list of seller tokens withdrawn before they expire.
type Revocations struct {
	DB *sql.DB
	// Now defaults to time.Now.
	Now func() time.Time
}

func (r *Revocations) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// Revoke adds a token's JTI to the revocation list. Entries are kept only
// until the token would have expired anyway.
func (r *Revocations) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT OR IGNORE INTO revoked_tokens (jti, expires_at) VALUES (?, ?)`,
		jti, expiresAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("revoking token: %w", err)
	}

	// Opportunistically clean up expired revocations.
	_, _ = r.DB.ExecContext(ctx,
		`DELETE FROM revoked_tokens WHERE expires_at < ?`, r.now().UTC().Format(time.RFC3339),
	)

	return nil
}

// IsRevoked checks if a token's JTI has been revoked.
func (r *Revocations) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var count int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM revoked_tokens WHERE jti = ?`, jti,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking token revocation: %w", err)
	}
	return count > 0, nil
}
