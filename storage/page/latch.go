package page

import "github.com/sasha-s/go-deadlock"

// Latch is the reader/writer lock every page carries, matching the
// teacher's common.ReaderWriterLatch interface. It is backed by
// go-deadlock instead of sync.RWMutex so that a broken acquire order
// across pages (spec.md §5: "always page-before-next-page, never the
// reverse") surfaces immediately in tests instead of hanging.
type Latch struct {
	mu deadlock.RWMutex
}

func (l *Latch) WLock()   { l.mu.Lock() }
func (l *Latch) WUnlock() { l.mu.Unlock() }
func (l *Latch) RLock()   { l.mu.RLock() }
func (l *Latch) RUnlock() { l.mu.RUnlock() }
