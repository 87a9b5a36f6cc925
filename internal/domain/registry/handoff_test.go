package registry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/duskforge/voxelcore/internal/domain/model"
	"github.com/duskforge/voxelcore/internal/domain/model/mock"
)

func TestHandoffQueueDrainEmpty(t *testing.T) {
	q := newHandoffQueue()
	assert.Nil(t, q.Drain())
}

func TestHandoffQueuePreservesPushOrder(t *testing.T) {
	q := newHandoffQueue()
	want := make([]*model.Participant, 5)
	for i := range want {
		want[i] = model.NewParticipant(mock.NewConnection(), newProfile("p"))
		q.Push(want[i])
	}

	got := q.Drain()
	assert.Equal(t, want, got)
	assert.Nil(t, q.Drain())
}

func TestHandoffQueueConcurrentPush(t *testing.T) {
	q := newHandoffQueue()
	const n = 200

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			q.Push(model.NewParticipant(mock.NewConnection(), newProfile("p")))
		}()
	}
	wg.Wait()

	assert.Len(t, q.Drain(), n)
}
