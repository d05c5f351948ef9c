package kernel

import "github.com/go-zeromq/zmq4"

// DefaultQueueCapacity bounds the iopub queue. A full queue suspends the
// dispatch goroutine, which is the kernel's only backpressure mechanism.
const DefaultQueueCapacity = 64

// pubSocket is the slice of zmq4.Socket the publisher needs; tests swap in
// a recorder.
type pubSocket interface {
	Send(zmq4.Msg) error
}

// Publisher owns exclusive write access to the broadcast socket. Producers
// hand it pre-built wire frames over a bounded queue; a single drain
// goroutine writes them out strictly in arrival order.
type Publisher struct {
	sock  pubSocket
	queue chan [][]byte
	done  chan struct{}
}

// NewPublisher creates a publisher over sock with the given queue capacity.
// The drain loop does not run until Start is called.
func NewPublisher(sock pubSocket, capacity int) *Publisher {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	return &Publisher{
		sock:  sock,
		queue: make(chan [][]byte, capacity),
		done:  make(chan struct{}),
	}
}

// Start launches the drain goroutine.
func (p *Publisher) Start() {
	go p.drain()
}

// Publish enqueues frames for broadcast, blocking while the queue is full.
// Delivery is best-effort; the caller learns nothing about write failures.
func (p *Publisher) Publish(frames [][]byte) {
	p.queue <- frames
}

// Close stops accepting messages and waits for the queue to drain.
func (p *Publisher) Close() {
	close(p.queue)
	<-p.done
}

func (p *Publisher) drain() {
	defer close(p.done)
	for frames := range p.queue {
		if err := p.sock.Send(zmq4.NewMsgFrom(frames...)); err != nil {
			// Broadcast is best-effort; keep draining.
			log.WithError(err).Error("Failed to send iopub message")
		}
	}
	log.Debug("IOPub publisher drained and stopped")
}
