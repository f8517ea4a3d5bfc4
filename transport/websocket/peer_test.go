package websocket

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPeer_EnqueueAfterClose(t *testing.T) {
	// Given: a peer whose disconnect cleanup has already run
	p := newPeer("p1", nil)
	p.close()

	// When: a broadcaster that grabbed the peer pointer before the cleanup
	// delivers a message
	// Then: the message is dropped instead of crashing the process
	require.NotPanics(t, func() {
		p.enqueue([]byte(`{"action":"updateGame"}`))
	})
}

func TestPeer_CloseIsIdempotent(t *testing.T) {
	p := newPeer("p1", nil)

	require.NotPanics(t, func() {
		p.close()
		p.close()
	})
}

func TestPeer_ConcurrentEnqueueAndClose(t *testing.T) {
	// broadcast and disconnect run on different players' read goroutines;
	// neither order may panic
	for i := 0; i < 200; i++ {
		p := newPeer("p1", nil)

		go func() {
			for range p.send {
			}
		}()

		var wg sync.WaitGroup
		wg.Add(2)

		go func() {
			defer wg.Done()

			for j := 0; j < 20; j++ {
				p.enqueue([]byte("message"))
			}
		}()

		go func() {
			defer wg.Done()

			p.close()
		}()

		wg.Wait()
	}
}
