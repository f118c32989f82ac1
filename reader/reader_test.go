package reader

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lector/token"
)

func TestVerdict(t *testing.T) {
	_, ok := Decline().Claim()
	assert.False(t, ok)
	assert.False(t, Decline().Claimed())

	c := NewClaim()
	got, ok := Accept(c).Claim()
	require.True(t, ok)
	assert.Same(t, c, got)

	got, ok = Accept(nil).Claim()
	require.True(t, ok)
	assert.NoError(t, got.Wait(context.Background()), "nil claim is already settled")
}

func TestClaim_SettlesOnce(t *testing.T) {
	c := NewClaim()
	assert.NoError(t, c.Err(), "unsettled claim has no error")

	first := errors.New("first")
	c.Settle(first)
	c.Settle(errors.New("second"))

	assert.ErrorIs(t, c.Wait(context.Background()), first)
	assert.ErrorIs(t, c.Err(), first)
	select {
	case <-c.Done():
	default:
		t.Fatal("Done should be closed")
	}
}

func TestClaim_Go(t *testing.T) {
	boom := errors.New("boom")
	c := Go(context.Background(), func(context.Context) error {
		time.Sleep(10 * time.Millisecond)
		return boom
	})
	assert.ErrorIs(t, c.Wait(context.Background()), boom)
}

func TestClaim_WaitHonoursContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := NewClaim().Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

type nopReader struct{ name string }

func (r nopReader) Name() string { return r.name }
func (nopReader) Read(context.Context, *token.Token, map[string]any) Verdict {
	return Accept(nil)
}

func TestRegistry(t *testing.T) {
	Register("test-nop", func(name string, _ map[string]any) (Reader, error) {
		return nopReader{name: name}, nil
	})

	r, err := New("test-nop", "n1", nil)
	require.NoError(t, err)
	assert.Equal(t, "n1", r.Name())
	assert.Contains(t, Kinds(), "test-nop")

	_, err = New("missing", "x", nil)
	assert.EqualError(t, err, `reader: unknown driver "missing"`)
}
