package gemini_test

import (
	"context"
	"testing"

	"github.com/fwojciec/sitecrawl"
	"github.com/fwojciec/sitecrawl/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenCounter_CountTokens(t *testing.T) {
	t.Parallel()

	tc, err := gemini.NewTokenCounter("gemini-2.5-flash")
	require.NoError(t, err)

	t.Run("counts tokens in a single text", func(t *testing.T) {
		t.Parallel()

		count, err := tc.CountTokens(context.Background(), "Pricing starts at ten dollars a month.")

		require.NoError(t, err)
		assert.Positive(t, count)
	})

	t.Run("returns zero when every text is empty", func(t *testing.T) {
		t.Parallel()

		count, err := tc.CountTokens(context.Background(), "", "")

		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("sums tokens across texts", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		first, err := tc.CountTokens(ctx, "Install the package with pip.")
		require.NoError(t, err)
		second, err := tc.CountTokens(ctx, "Configure the API key in the dashboard settings.")
		require.NoError(t, err)

		both, err := tc.CountTokens(ctx, "Install the package with pip.", "Configure the API key in the dashboard settings.")
		require.NoError(t, err)

		assert.InDelta(t, first+second, both, 2)
	})

	t.Run("stops on a cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := tc.CountTokens(ctx, "text")
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestNewTokenCounter_UnknownModel(t *testing.T) {
	t.Parallel()

	_, err := gemini.NewTokenCounter("not-a-model")

	require.Error(t, err)
	assert.Equal(t, sitecrawl.EINVALID, sitecrawl.ErrorCode(err))
}
