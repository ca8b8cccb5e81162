package repository

import "sync"

// notifier fans changes out to subscribers. Each subscriber owns an
// unbounded mailbox drained by its own goroutine, so a writer never blocks
// on a slow reader and delivery order per subscriber is preserved.
type notifier struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]*mailbox
}

type mailbox struct {
	owner   string
	fn      func(Change)
	mu      sync.Mutex
	pending []Change
	wake    chan struct{}
	done    chan struct{}
}

func newNotifier() *notifier {
	return &notifier{subs: make(map[int]*mailbox)}
}

func (n *notifier) subscribe(owner string, fn func(Change)) func() {
	mb := &mailbox{
		owner: owner,
		fn:    fn,
		wake:  make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
	go mb.run()

	n.mu.Lock()
	id := n.nextID
	n.nextID++
	n.subs[id] = mb
	n.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.subs, id)
			n.mu.Unlock()
			close(mb.done)
		})
	}
}

// publish queues changes for every subscriber that did not write them
func (n *notifier) publish(changes []Change) {
	n.mu.Lock()
	boxes := make([]*mailbox, 0, len(n.subs))
	for _, mb := range n.subs {
		boxes = append(boxes, mb)
	}
	n.mu.Unlock()

	for _, mb := range boxes {
		for _, c := range changes {
			if c.Writer == mb.owner {
				continue
			}
			mb.push(c)
		}
	}
}

func (mb *mailbox) push(c Change) {
	mb.mu.Lock()
	mb.pending = append(mb.pending, c)
	mb.mu.Unlock()
	select {
	case mb.wake <- struct{}{}:
	default:
	}
}

func (mb *mailbox) run() {
	for {
		select {
		case <-mb.done:
			return
		case <-mb.wake:
			mb.mu.Lock()
			batch := mb.pending
			mb.pending = nil
			mb.mu.Unlock()
			for _, c := range batch {
				mb.fn(c)
			}
		}
	}
}
