//go:build integration && !windows

package rod_test

import (
	"syscall"
	"testing"
	"time"

	"github.com/fwojciec/sitecrawl/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Close(t *testing.T) {
	t.Parallel()

	t.Run("terminates the browser launcher", func(t *testing.T) {
		t.Parallel()

		fetcher, err := rod.NewFetcher()
		require.NoError(t, err)

		pid := fetcher.LauncherPID()
		require.NotZero(t, pid)
		// Signal 0 probes for the process without delivering a signal.
		require.NoError(t, syscall.Kill(pid, syscall.Signal(0)))

		require.NoError(t, fetcher.Close())
		time.Sleep(100 * time.Millisecond)

		assert.Error(t, syscall.Kill(pid, syscall.Signal(0)))
		assert.Zero(t, fetcher.LauncherPID())
	})

	t.Run("terminates a recycled browser once it is idle", func(t *testing.T) {
		t.Parallel()

		manager, err := rod.NewBrowserManager(rod.WithMaxPages(1))
		require.NoError(t, err)
		defer manager.Close()

		_, release, err := manager.Acquire()
		require.NoError(t, err)
		oldPID := manager.LauncherPID()

		_, releaseNext, err := manager.Acquire()
		require.NoError(t, err)
		defer releaseNext()
		require.NotEqual(t, oldPID, manager.LauncherPID())
		require.NoError(t, syscall.Kill(oldPID, syscall.Signal(0)))

		release()
		time.Sleep(100 * time.Millisecond)

		assert.Error(t, syscall.Kill(oldPID, syscall.Signal(0)))
	})
}
