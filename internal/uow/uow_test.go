package uow

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	postgres "github.com/kirinyoku/fringe/internal/repository/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner fails the first len(errs) transactions with the given errors.
type fakeRunner struct {
	errs  []error
	calls int
	opts  *pgx.TxOptions
}

func (f *fakeRunner) RunTx(ctx context.Context, opts *pgx.TxOptions, fn func(ctx context.Context, tx postgres.DB) error) error {
	f.calls++
	f.opts = opts
	if err := fn(ctx, nil); err != nil {
		return err
	}
	if f.calls <= len(f.errs) {
		return f.errs[f.calls-1]
	}
	return nil
}

var serializationFailure = &pgconn.PgError{Code: "40001", Message: "could not serialize access"}

func TestDo_RunsHooksAfterCommit(t *testing.T) {
	r := &fakeRunner{}
	var order []string

	err := NewUoW(r).Do(context.Background(), func(ctx context.Context, tx postgres.DB, after func(AfterCommit)) error {
		order = append(order, "fn")
		after(func(ctx context.Context) { order = append(order, "hook1") })
		after(func(ctx context.Context) { order = append(order, "hook2") })
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"fn", "hook1", "hook2"}, order)
	assert.Equal(t, 1, r.calls)
}

func TestDo_SkipsHooksOnFailure(t *testing.T) {
	r := &fakeRunner{}
	boom := errors.New("boom")
	ran := false

	err := NewUoW(r).Do(context.Background(), func(ctx context.Context, tx postgres.DB, after func(AfterCommit)) error {
		after(func(ctx context.Context) { ran = true })
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.False(t, ran)
	assert.Equal(t, 1, r.calls, "plain errors are not retried")
}

func TestDo_RetriesSerializationFailures(t *testing.T) {
	r := &fakeRunner{errs: []error{serializationFailure, &pgconn.PgError{Code: "40P01"}}}
	hooks := 0

	err := NewUoW(r).Do(context.Background(), func(ctx context.Context, tx postgres.DB, after func(AfterCommit)) error {
		after(func(ctx context.Context) { hooks++ })
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, r.calls)
	assert.Equal(t, 1, hooks, "hooks of failed attempts are dropped")
}

func TestDo_GivesUpAfterMaxAttempts(t *testing.T) {
	r := &fakeRunner{errs: []error{serializationFailure, serializationFailure, serializationFailure, serializationFailure}}
	hooks := 0

	err := NewUoW(r).Do(context.Background(), func(ctx context.Context, tx postgres.DB, after func(AfterCommit)) error {
		after(func(ctx context.Context) { hooks++ })
		return nil
	})

	var pgErr *pgconn.PgError
	require.ErrorAs(t, err, &pgErr)
	assert.Equal(t, "40001", pgErr.Code)
	assert.Equal(t, maxAttempts, r.calls)
	assert.Zero(t, hooks)
}

func TestDoWithOpts_PassesOptions(t *testing.T) {
	r := &fakeRunner{}
	opts := &pgx.TxOptions{IsoLevel: pgx.ReadCommitted}

	err := NewUoW(r).DoWithOpts(context.Background(), opts, func(ctx context.Context, tx postgres.DB, after func(AfterCommit)) error {
		return nil
	})

	require.NoError(t, err)
	assert.Same(t, opts, r.opts)
}
