package limiter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
)

func newLimiter(t *testing.T, p Policy) (*PG, pgxmock.PgxPoolIface, time.Time) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	l := NewPG(mock, p)
	l.now = func() time.Time { return now }
	return l, mock, now
}

func TestAllow(t *testing.T) {
	ctx := context.Background()
	ip := HashIP("1.2.3.4")
	sel := `SELECT blocked_until FROM login_attempts WHERE email=\$1 AND ip_hash=\$2`

	l, mock, now := newLimiter(t, DefaultPolicy)

	mock.ExpectQuery(sel).WithArgs("a@b.c", ip).WillReturnError(pgx.ErrNoRows)
	ok, left, err := l.Allow(ctx, "a@b.c", ip)
	require.NoError(t, err)
	require.True(t, ok)
	require.Zero(t, left)

	mock.ExpectQuery(sel).WithArgs("a@b.c", ip).
		WillReturnRows(pgxmock.NewRows([]string{"blocked_until"}).AddRow(now.Add(10 * time.Minute)))
	ok, left, err = l.Allow(ctx, "a@b.c", ip)
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, 10*time.Minute, left)

	mock.ExpectQuery(sel).WithArgs("a@b.c", ip).
		WillReturnRows(pgxmock.NewRows([]string{"blocked_until"}).AddRow(now.Add(-time.Minute)))
	ok, _, err = l.Allow(ctx, "a@b.c", ip)
	require.NoError(t, err)
	require.True(t, ok)

	mock.ExpectQuery(sel).WithArgs("a@b.c", ip).WillReturnError(errors.New("db boom"))
	ok, _, err = l.Allow(ctx, "a@b.c", ip)
	require.Error(t, err)
	require.False(t, ok)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSuccess(t *testing.T) {
	l, mock, _ := newLimiter(t, DefaultPolicy)
	ip := HashIP("ip")

	mock.ExpectExec(`DELETE FROM login_attempts WHERE email=\$1 AND ip_hash=\$2`).
		WithArgs("u@x.io", ip).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	require.NoError(t, l.Success(context.Background(), "u@x.io", ip))

	mock.ExpectExec(`DELETE FROM login_attempts`).WillReturnError(errors.New("exec fail"))
	require.Error(t, l.Success(context.Background(), "u@x.io", ip))
}

func TestFailure_BelowThreshold(t *testing.T) {
	l, mock, now := newLimiter(t, Policy{Window: 5 * time.Minute, MaxFails: 3, BlockFor: time.Minute})
	ip := HashIP("ip")

	mock.ExpectQuery(`INSERT INTO login_attempts`).
		WithArgs("u@x.io", ip, now, now.Add(-5*time.Minute)).
		WillReturnRows(pgxmock.NewRows([]string{"fail_count"}).AddRow(2))

	blocked, dur, err := l.Failure(context.Background(), "u@x.io", ip)
	require.NoError(t, err)
	require.False(t, blocked)
	require.Zero(t, dur)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFailure_LocksAtThreshold(t *testing.T) {
	l, mock, now := newLimiter(t, Policy{Window: 5 * time.Minute, MaxFails: 3, BlockFor: 10 * time.Minute})
	ip := HashIP("ip")

	mock.ExpectQuery(`INSERT INTO login_attempts`).
		WithArgs("u@x.io", ip, now, now.Add(-5*time.Minute)).
		WillReturnRows(pgxmock.NewRows([]string{"fail_count"}).AddRow(3))
	mock.ExpectExec(`UPDATE login_attempts SET blocked_until=\$3`).
		WithArgs("u@x.io", ip, now.Add(10*time.Minute), now).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	blocked, dur, err := l.Failure(context.Background(), "u@x.io", ip)
	require.NoError(t, err)
	require.True(t, blocked)
	require.Equal(t, 10*time.Minute, dur)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFailure_QueryError(t *testing.T) {
	l, mock, _ := newLimiter(t, DefaultPolicy)
	mock.ExpectQuery(`INSERT INTO login_attempts`).WillReturnError(errors.New("query error"))

	_, _, err := l.Failure(context.Background(), "u", HashIP("ip"))
	require.Error(t, err)
}

func TestNewPG_DefaultsPolicy(t *testing.T) {
	l := NewPG(nil, Policy{})
	require.Equal(t, DefaultPolicy, l.policy)
}

func TestHashIP_Determinism(t *testing.T) {
	a := HashIP("1.2.3.4:123")
	b := HashIP("1.2.3.4:123")
	c := HashIP("5.6.7.8:321")
	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
	require.Len(t, a, 32)
}
