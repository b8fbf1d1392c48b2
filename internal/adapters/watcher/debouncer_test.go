package watcher_test

import (
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/menucache/internal/adapters/watcher"
)

func TestDebouncer_CoalescesBurst(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var calls [][]string
		d := watcher.NewDebouncer(100*time.Millisecond, func(paths []string) {
			calls = append(calls, paths)
		})

		d.Add("/cache/menu.json")
		d.Add("/cache/a.json")
		d.Add("/cache/menu.json")

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		require.Len(t, calls, 1)
		assert.Equal(t, []string{"/cache/a.json", "/cache/menu.json"}, calls[0])
	})
}

func TestDebouncer_TimerResetsOnEachAdd(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var count int
		d := watcher.NewDebouncer(100*time.Millisecond, func([]string) { count++ })

		d.Add("/cache/menu.json")
		time.Sleep(60 * time.Millisecond)
		d.Add("/cache/menu.json")
		time.Sleep(60 * time.Millisecond)
		synctest.Wait()
		assert.Equal(t, 0, count)

		time.Sleep(60 * time.Millisecond)
		synctest.Wait()
		assert.Equal(t, 1, count)
	})
}

func TestDebouncer_Flush(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var calls [][]string
		d := watcher.NewDebouncer(time.Second, func(paths []string) {
			calls = append(calls, paths)
		})

		d.Flush()
		assert.Empty(t, calls)

		d.Add("/cache/menu.json")
		d.Flush()
		require.Len(t, calls, 1)
		assert.Equal(t, []string{"/cache/menu.json"}, calls[0])

		time.Sleep(2 * time.Second)
		synctest.Wait()
		assert.Len(t, calls, 1)
	})
}

func TestDebouncer_Stop(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var count int
		d := watcher.NewDebouncer(100*time.Millisecond, func([]string) { count++ })

		d.Add("/cache/menu.json")
		d.Stop()
		d.Add("/cache/menu.json")

		time.Sleep(time.Second)
		synctest.Wait()
		assert.Equal(t, 0, count)
	})
}

func TestDebouncer_NilCallback(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		d := watcher.NewDebouncer(10*time.Millisecond, nil)
		d.Add("/cache/menu.json")
		time.Sleep(20 * time.Millisecond)
		synctest.Wait()
		d.Flush()
	})
}
