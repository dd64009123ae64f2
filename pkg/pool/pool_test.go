package pool

import (
	"bytes"
	"io"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch(t *testing.T) {
	for _, pl := range []*Pool{nil, NewPool(4)} {
		var calls int64
		res, err := Search(pl, 3, 1000, func() (int64, bool) {
			c := atomic.AddInt64(&calls, 1)
			return c, c%5 == 0
		})
		require.NoError(t, err)
		require.Len(t, res, 3)
		for _, r := range res {
			assert.Zero(t, r%5, "only successful values should be returned")
		}
		pl.TearDown()
	}
}

func TestSearch_Budget(t *testing.T) {
	for _, pl := range []*Pool{nil, NewPool(3)} {
		var calls int64
		_, err := Search(pl, 1, 50, func() (struct{}, bool) {
			atomic.AddInt64(&calls, 1)
			return struct{}{}, false
		})
		assert.ErrorIs(t, err, ErrBudgetExhausted)
		assert.LessOrEqual(t, atomic.LoadInt64(&calls), int64(50))
		pl.TearDown()
	}
}

func TestParallelize(t *testing.T) {
	pl := NewPool(0)
	defer pl.TearDown()
	for _, p := range []*Pool{nil, pl} {
		res := Parallelize(p, 100, func(i int) int { return i * i })
		for i, r := range res {
			assert.Equal(t, i*i, r)
		}
	}
}

func TestTearDown_Twice(t *testing.T) {
	pl := NewPool(2)
	pl.TearDown()
	assert.NotPanics(t, pl.TearDown)
	var nilPool *Pool
	assert.NotPanics(t, nilPool.TearDown)
	assert.Equal(t, 1, nilPool.Workers())
}

func TestLockedReader(t *testing.T) {
	data := make([]byte, 4096)
	for i := range data {
		data[i] = byte(i)
	}
	r := NewLockedReader(bytes.NewReader(data))
	assert.Same(t, r, NewLockedReader(r))

	var (
		wg  sync.WaitGroup
		mtx sync.Mutex
		got int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			buf := make([]byte, 512)
			n, err := io.ReadFull(r, buf)
			mtx.Lock()
			got += n
			mtx.Unlock()
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, len(data), got)
}
