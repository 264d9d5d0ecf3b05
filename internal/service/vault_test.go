package service

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"

	pkgcrypto "github.com/and161185/persona-keeper/internal/crypto"
	"github.com/and161185/persona-keeper/internal/errs"
	"github.com/and161185/persona-keeper/internal/model"
	"github.com/and161185/persona-keeper/internal/repository"
)

// fakeCredentials mirrors the credentials table including UNIQUE(owner_id, service).
type fakeCredentials struct {
	mu   sync.Mutex
	rows []model.Credential
	tick time.Time

	existsErr error
	createErr error
	listErr   error
	deleteErr error
	getErr    error

	// hideExisting makes ExistsForService lie, simulating a racing insert.
	hideExisting bool
	createCalls  int
}

var _ repository.CredentialRepository = (*fakeCredentials)(nil)

func (f *fakeCredentials) Create(_ context.Context, c *model.Credential) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		return f.createErr
	}
	for _, r := range f.rows {
		if r.Owner == c.Owner && r.Service == c.Service {
			return errs.ErrAlreadyExists
		}
	}
	if f.tick.IsZero() {
		f.tick = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	f.tick = f.tick.Add(time.Second)
	c.CreatedAt = f.tick
	cpy := *c
	cpy.Ciphertext = append([]byte(nil), c.Ciphertext...)
	f.rows = append(f.rows, cpy)
	return nil
}

func (f *fakeCredentials) ExistsForService(_ context.Context, owner uuid.UUID, svc model.Service) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.existsErr != nil {
		return false, f.existsErr
	}
	if f.hideExisting {
		return false, nil
	}
	for _, r := range f.rows {
		if r.Owner == owner && r.Service == svc {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCredentials) ListByOwner(_ context.Context, owner uuid.UUID) ([]model.CredentialRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []model.CredentialRecord{}
	for _, r := range f.rows {
		if r.Owner == owner {
			out = append(out, model.CredentialRecord{ID: r.ID, Service: r.Service, CreatedAt: r.CreatedAt})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeCredentials) DeleteOwned(_ context.Context, owner, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return false, f.deleteErr
	}
	for i, r := range f.rows {
		if r.ID == id && r.Owner == owner {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCredentials) GetForService(_ context.Context, owner uuid.UUID, svc model.Service) (*model.Credential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, r := range f.rows {
		if r.Owner == owner && r.Service == svc {
			c := r
			return &c, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (f *fakeCredentials) byOwner(owner uuid.UUID) []model.Credential {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Credential
	for _, r := range f.rows {
		if r.Owner == owner {
			out = append(out, r)
		}
	}
	return out
}

func newTestVault(t *testing.T) (*Vault, *fakeCredentials) {
	t.Helper()
	mk, err := pkgcrypto.RandBytes(pkgcrypto.MinMasterKeyLen)
	require.NoError(t, err)
	s, err := pkgcrypto.NewSealer(mk)
	require.NoError(t, err)
	repo := &fakeCredentials{}
	return NewVault(repo, s), repo
}

func TestVault_Store_Validation(t *testing.T) {
	t.Parallel()
	v, repo := newTestVault(t)
	ctx := context.Background()
	owner := uuid.Must(uuid.NewV4())

	_, err := v.Store(ctx, uuid.Nil, "openai", "sk")
	require.ErrorIs(t, err, errs.ErrUnauthenticated)

	_, err = v.Store(ctx, owner, "mistral", "sk")
	require.ErrorIs(t, err, errs.ErrValidation)

	_, err = v.Store(ctx, owner, "openai", " \t\n")
	require.ErrorIs(t, err, errs.ErrValidation)

	require.Zero(t, repo.createCalls)
}

func TestVault_Store_DuplicateKeepsOriginal(t *testing.T) {
	t.Parallel()
	v, repo := newTestVault(t)
	ctx := context.Background()
	owner := uuid.Must(uuid.NewV4())

	rec, err := v.Store(ctx, owner, " OpenAI ", "sk-first")
	require.NoError(t, err)
	require.Equal(t, model.ServiceOpenAI, rec.Service)
	require.NotEqual(t, uuid.Nil, rec.ID)
	require.False(t, rec.CreatedAt.IsZero())
	before := repo.byOwner(owner)
	require.Len(t, before, 1)

	_, err = v.Store(ctx, owner, "openai", "sk-second")
	require.ErrorIs(t, err, errs.ErrDuplicateCredential)

	after := repo.byOwner(owner)
	require.Len(t, after, 1)
	require.Equal(t, before[0].ID, after[0].ID)
	require.True(t, bytes.Equal(before[0].Ciphertext, after[0].Ciphertext))

	pt, ok, err := v.Reveal(ctx, owner, model.ServiceOpenAI)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "sk-first", pt)
}

func TestVault_Store_RacingInsertMapsToDuplicate(t *testing.T) {
	t.Parallel()
	v, repo := newTestVault(t)
	ctx := context.Background()
	owner := uuid.Must(uuid.NewV4())

	_, err := v.Store(ctx, owner, "claude", "a")
	require.NoError(t, err)

	repo.hideExisting = true
	_, err = v.Store(ctx, owner, "claude", "b")
	require.ErrorIs(t, err, errs.ErrDuplicateCredential)
	require.Len(t, repo.byOwner(owner), 1)
}

func TestVault_Store_PersistenceErrors(t *testing.T) {
	t.Parallel()
	v, repo := newTestVault(t)
	ctx := context.Background()
	owner := uuid.Must(uuid.NewV4())

	repo.existsErr = errors.New("conn reset")
	_, err := v.Store(ctx, owner, "gemini", "k")
	require.ErrorIs(t, err, errs.ErrPersistence)
	repo.existsErr = nil

	repo.createErr = errors.New("disk full")
	_, err = v.Store(ctx, owner, "gemini", "k")
	require.ErrorIs(t, err, errs.ErrPersistence)
	require.NotErrorIs(t, err, errs.ErrDuplicateCredential)
}

func TestVault_RoundTrip(t *testing.T) {
	t.Parallel()
	v, _ := newTestVault(t)
	ctx := context.Background()
	owner := uuid.Must(uuid.NewV4())

	cases := map[model.Service]string{
		model.ServiceOpenAI:   "sk-proj-123",
		model.ServiceClaude:   "  leading and trailing  ",
		model.ServiceGemini:   "ключ",
		model.ServiceDeepSeek: string(bytes.Repeat([]byte{'z'}, 2048)),
	}
	for svc, pt := range cases {
		_, err := v.Store(ctx, owner, string(svc), pt)
		require.NoError(t, err)
	}
	for svc, pt := range cases {
		got, ok, err := v.Reveal(ctx, owner, svc)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, pt, got, "service %s", svc)
	}
}

func TestVault_NonDeterministicCiphertext(t *testing.T) {
	t.Parallel()
	v, repo := newTestVault(t)
	ctx := context.Background()
	owner := uuid.Must(uuid.NewV4())

	_, err := v.Store(ctx, owner, "openai", "same-key")
	require.NoError(t, err)
	_, err = v.Store(ctx, owner, "deepseek", "same-key")
	require.NoError(t, err)

	rows := repo.byOwner(owner)
	require.Len(t, rows, 2)
	require.NotEqual(t, rows[0].Ciphertext, rows[1].Ciphertext)
	require.NotContains(t, string(rows[0].Ciphertext), "same-key")
}

func TestVault_ListIsOwnerScopedNewestFirst(t *testing.T) {
	t.Parallel()
	v, _ := newTestVault(t)
	ctx := context.Background()
	alice := uuid.Must(uuid.NewV4())
	bob := uuid.Must(uuid.NewV4())

	_, err := v.Store(ctx, alice, "openai", "a1")
	require.NoError(t, err)
	_, err = v.Store(ctx, bob, "openai", "b1")
	require.NoError(t, err)
	_, err = v.Store(ctx, alice, "gemini", "a2")
	require.NoError(t, err)

	list, err := v.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, model.ServiceGemini, list[0].Service)
	require.Equal(t, model.ServiceOpenAI, list[1].Service)

	empty, err := v.List(ctx, uuid.Must(uuid.NewV4()))
	require.NoError(t, err)
	require.NotNil(t, empty)
	require.Empty(t, empty)

	_, err = v.List(ctx, uuid.Nil)
	require.ErrorIs(t, err, errs.ErrUnauthenticated)
}

func TestVault_RemoveForeignIsSilent(t *testing.T) {
	t.Parallel()
	v, repo := newTestVault(t)
	ctx := context.Background()
	alice := uuid.Must(uuid.NewV4())
	bob := uuid.Must(uuid.NewV4())

	bobRec, err := v.Store(ctx, bob, "claude", "bob-key")
	require.NoError(t, err)

	// foreign id and unknown id look identical
	require.NoError(t, v.Remove(ctx, alice, bobRec.ID))
	require.NoError(t, v.Remove(ctx, alice, uuid.Must(uuid.NewV4())))
	require.Len(t, repo.byOwner(bob), 1)

	require.NoError(t, v.Remove(ctx, bob, bobRec.ID))
	require.Empty(t, repo.byOwner(bob))

	_, ok, err := v.Reveal(ctx, bob, model.ServiceClaude)
	require.NoError(t, err)
	require.False(t, ok)

	require.ErrorIs(t, v.Remove(ctx, uuid.Nil, bobRec.ID), errs.ErrUnauthenticated)
	require.ErrorIs(t, v.Remove(ctx, bob, uuid.Nil), errs.ErrValidation)

	repo.deleteErr = errors.New("timeout")
	require.ErrorIs(t, v.Remove(ctx, bob, bobRec.ID), errs.ErrPersistence)
}

func TestVault_RevealFailures(t *testing.T) {
	t.Parallel()
	v, repo := newTestVault(t)
	ctx := context.Background()
	owner := uuid.Must(uuid.NewV4())

	_, err := v.Store(ctx, owner, "openai", "sk")
	require.NoError(t, err)

	repo.mu.Lock()
	repo.rows[0].Ciphertext[len(repo.rows[0].Ciphertext)-1] ^= 0xff
	repo.mu.Unlock()
	_, ok, err := v.Reveal(ctx, owner, model.ServiceOpenAI)
	require.ErrorIs(t, err, errs.ErrCrypto)
	require.False(t, ok)

	// a blob moved to another owner's slot must not open
	other := uuid.Must(uuid.NewV4())
	_, err = v.Store(ctx, owner, "gemini", "g")
	require.NoError(t, err)
	repo.mu.Lock()
	moved := repo.rows[1]
	moved.ID = uuid.Must(uuid.NewV4())
	moved.Owner = other
	repo.rows = append(repo.rows, moved)
	repo.mu.Unlock()
	_, _, err = v.Reveal(ctx, other, model.ServiceGemini)
	require.ErrorIs(t, err, errs.ErrCrypto)

	_, _, err = v.Reveal(ctx, owner, model.Service("bogus"))
	require.ErrorIs(t, err, errs.ErrValidation)

	repo.getErr = errors.New("gone")
	_, _, err = v.Reveal(ctx, owner, model.ServiceGemini)
	require.ErrorIs(t, err, errs.ErrPersistence)
}

func TestVault_WrongMasterKeyFails(t *testing.T) {
	t.Parallel()
	v, repo := newTestVault(t)
	ctx := context.Background()
	owner := uuid.Must(uuid.NewV4())

	_, err := v.Store(ctx, owner, "deepseek", "ds-key")
	require.NoError(t, err)

	mk, err := pkgcrypto.RandBytes(pkgcrypto.MinMasterKeyLen)
	require.NoError(t, err)
	s2, err := pkgcrypto.NewSealer(mk)
	require.NoError(t, err)
	v2 := NewVault(repo, s2)

	_, ok, err := v2.Reveal(ctx, owner, model.ServiceDeepSeek)
	require.ErrorIs(t, err, errs.ErrCrypto)
	require.False(t, ok)
}
