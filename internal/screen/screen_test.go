package screen_test

import (
	"sync"
	"testing"

	"codeberg.org/mutker/hwdash/internal/errors"
	"codeberg.org/mutker/hwdash/internal/screen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartsInSplash(t *testing.T) {
	assert.Equal(t, screen.Splash, screen.NewMachine().Current())
}

func TestNavigationIgnoredDuringSplash(t *testing.T) {
	m := screen.NewMachine()

	ok, err := m.NavigateTo(screen.Graphs)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, screen.Splash, m.Current())

	assert.False(t, m.Next())
	assert.False(t, m.Prev())
	assert.Equal(t, screen.Splash, m.Current())
}

func TestSplashElapsedOnlyOnce(t *testing.T) {
	m := screen.NewMachine()

	assert.True(t, m.Fire(screen.SplashElapsed))
	assert.Equal(t, screen.Details, m.Current())

	_, err := m.NavigateTo(screen.Graphs)
	require.NoError(t, err)
	assert.False(t, m.Fire(screen.SplashElapsed))
	assert.Equal(t, screen.Graphs, m.Current())
}

func TestLastNavigationWins(t *testing.T) {
	m := screen.NewMachine()
	m.Fire(screen.SplashElapsed)

	_, err := m.NavigateTo(screen.Settings)
	require.NoError(t, err)
	_, err = m.NavigateTo(screen.Details)
	require.NoError(t, err)
	assert.Equal(t, screen.Details, m.Current())

	ok, err := m.NavigateTo(screen.Details)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, screen.Details, m.Current())
}

func TestNavigateToSplashRejected(t *testing.T) {
	m := screen.NewMachine()
	m.Fire(screen.SplashElapsed)

	ok, err := m.NavigateTo(screen.Splash)
	assert.False(t, ok)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidArgument))
	assert.Equal(t, screen.Details, m.Current())
}

func TestCycle(t *testing.T) {
	m := screen.NewMachine()
	m.Fire(screen.SplashElapsed)

	m.Next()
	assert.Equal(t, screen.Graphs, m.Current())
	m.Next()
	assert.Equal(t, screen.Settings, m.Current())
	m.Next()
	assert.Equal(t, screen.Details, m.Current())
	m.Prev()
	assert.Equal(t, screen.Settings, m.Current())
}

func TestConcurrentCycling(t *testing.T) {
	m := screen.NewMachine()
	m.Fire(screen.SplashElapsed)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for range 300 {
				m.Next()
			}
		}()
		go func() {
			defer wg.Done()
			for range 300 {
				m.Prev()
			}
		}()
	}
	wg.Wait()

	// Every Next is undone by a Prev, whatever the interleaving.
	assert.Equal(t, screen.Details, m.Current())
}
