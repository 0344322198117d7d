package progress

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTracker_Tick(t *testing.T) {
	var buf bytes.Buffer
	tr := NewSpinner("Mining commits", WithWriter(&buf))

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.Tick()
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(10), tr.bar.State().CurrentNum)
	tr.FinishSuccess()
}

func TestTracker_FinishError(t *testing.T) {
	var buf bytes.Buffer
	tr := NewSpinner("Mining commits", WithWriter(&buf))
	tr.FinishError(errors.New("boom"))
	assert.Contains(t, buf.String(), "Mining commits error: boom")
}
