package limiter

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of a pgx pool used by PG. It is satisfied by
// *pgxpool.Pool and pgxmock pools.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PG is a PostgreSQL-backed limiter storing counters in login_attempts.
type PG struct {
	q      Querier
	policy Policy
	now    func() time.Time
}

// NewPG constructs a PostgreSQL-backed limiter.
func NewPG(q Querier, p Policy) *PG {
	if p.MaxFails <= 0 {
		p = DefaultPolicy
	}
	return &PG{q: q, policy: p, now: time.Now}
}

// Allow reports whether the pair is unlocked.
func (l *PG) Allow(ctx context.Context, email string, ipHash []byte) (bool, time.Duration, error) {
	const q = `SELECT blocked_until FROM login_attempts WHERE email=$1 AND ip_hash=$2`
	var blockedUntil time.Time
	err := l.q.QueryRow(ctx, q, email, ipHash).Scan(&blockedUntil)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return true, 0, nil
	case err != nil:
		return false, 0, err
	}
	if left := blockedUntil.Sub(l.now()); left > 0 {
		return false, left, nil
	}
	return true, 0, nil
}

// Success deletes the counter row.
func (l *PG) Success(ctx context.Context, email string, ipHash []byte) error {
	const q = `DELETE FROM login_attempts WHERE email=$1 AND ip_hash=$2`
	_, err := l.q.Exec(ctx, q, email, ipHash)
	return err
}

// Failure counts the attempt inside the current window and sets the lock
// once the threshold is reached. The counter restarts after a lock.
func (l *PG) Failure(ctx context.Context, email string, ipHash []byte) (bool, time.Duration, error) {
	now := l.now()
	windowStart := now.Add(-l.policy.Window)
	lockUntil := now.Add(l.policy.BlockFor)

	const q = `
INSERT INTO login_attempts AS a (email, ip_hash, fail_count, window_start, blocked_until)
VALUES ($1, $2, 1, $3, 'epoch')
ON CONFLICT (email, ip_hash) DO UPDATE SET
  fail_count   = CASE WHEN a.window_start < $4 THEN 1 ELSE a.fail_count + 1 END,
  window_start = CASE WHEN a.window_start < $4 THEN $3 ELSE a.window_start END
RETURNING fail_count`
	var fails int
	if err := l.q.QueryRow(ctx, q, email, ipHash, now, windowStart).Scan(&fails); err != nil {
		return false, 0, err
	}
	if fails < l.policy.MaxFails {
		return false, 0, nil
	}

	const lock = `UPDATE login_attempts SET blocked_until=$3, fail_count=0, window_start=$4 WHERE email=$1 AND ip_hash=$2`
	if _, err := l.q.Exec(ctx, lock, email, ipHash, lockUntil, now); err != nil {
		return false, 0, err
	}
	return true, l.policy.BlockFor, nil
}
