// Package buffer sketches the buffer-pool collaborator (spec.md §1, §6):
// fetch_page/fetch_page_read/fetch_page_write/new_page returning guards
// that release their pin on Close. The replacement policy itself (a
// free-list-then-clock scheme, adapted from the teacher's
// storage/buffer/clock_replacer.go) is a stand-in — spec.md places the
// buffer-pool replacement policy out of core scope, and no operator in
// §4.5 depends on eviction behavior, only on FetchPage/NewPage succeeding.
package buffer

import (
	"github.com/sasha-s/go-deadlock"
	"github.com/vectorbase/vectorbase/storage/disk"
	"github.com/vectorbase/vectorbase/storage/page"
)

type frameID int32

// Pool is the buffer-pool manager. All access from the table heap goes
// through FetchPageRead/FetchPageWrite/NewPage, per spec.md §6.
type Pool struct {
	mu       deadlock.Mutex
	disk     disk.Manager
	frames   []*page.Page
	pageOf   map[page.ID]frameID
	clock    []bool // reference bit per frame, for clock eviction
	clockPos int
	free     []frameID
}

func NewPool(size int, dm disk.Manager) *Pool {
	p := &Pool{
		disk:   dm,
		frames: make([]*page.Page, size),
		pageOf: make(map[page.ID]frameID),
		clock:  make([]bool, size),
	}
	for i := 0; i < size; i++ {
		p.free = append(p.free, frameID(i))
	}
	return p
}

// Guard releases its page's pin when Close is called; embed the kind of
// access (read vs write) so callers cannot accidentally write through a
// read guard's latch.
type Guard struct {
	pool  *Pool
	pg    *page.Page
	write bool
}

func (g *Guard) Page() *page.Page { return g.pg }

func (g *Guard) Close() {
	if g == nil || g.pg == nil {
		return
	}
	if g.write {
		g.pg.Latch.WUnlock()
	} else {
		g.pg.Latch.RUnlock()
	}
	g.pool.unpin(g.pg.ID, g.write)
}

func (p *Pool) victim() (frameID, bool) {
	if len(p.free) > 0 {
		f := p.free[0]
		p.free = p.free[1:]
		return f, true
	}
	n := len(p.frames)
	for i := 0; i < 2*n; i++ {
		f := frameID(p.clockPos)
		p.clockPos = (p.clockPos + 1) % n
		if p.frames[f] == nil {
			continue
		}
		if p.frames[f].PinCount() > 0 {
			continue
		}
		if p.clock[f] {
			p.clock[f] = false
			continue
		}
		return f, false
	}
	return 0, false
}

func (p *Pool) fetch(id page.ID) *page.Page {
	p.mu.Lock()
	defer p.mu.Unlock()

	if f, ok := p.pageOf[id]; ok {
		p.frames[f].Pin()
		p.clock[f] = true
		return p.frames[f]
	}

	f, fromFree := p.victim()
	if !fromFree && p.frames[f] != nil {
		old := p.frames[f]
		if old.IsDirty() {
			p.disk.WritePage(old.ID, old.Bytes[:])
		}
		delete(p.pageOf, old.ID)
	}

	pg := page.NewEmpty(id)
	p.disk.ReadPage(id, pg.Bytes[:])
	p.pageOf[id] = f
	p.frames[f] = pg
	p.clock[f] = true
	return pg
}

// FetchPageRead pins and read-latches a page.
func (p *Pool) FetchPageRead(id page.ID) *Guard {
	pg := p.fetch(id)
	pg.Latch.RLock()
	return &Guard{pool: p, pg: pg, write: false}
}

// FetchPageWrite pins and write-latches a page.
func (p *Pool) FetchPageWrite(id page.ID) *Guard {
	pg := p.fetch(id)
	pg.Latch.WLock()
	return &Guard{pool: p, pg: pg, write: true}
}

// NewPage allocates a fresh page on disk and returns it write-latched.
func (p *Pool) NewPage() *Guard {
	id := p.disk.AllocatePage()
	g := p.FetchPageWrite(id)
	return g
}

func (p *Pool) unpin(id page.ID, dirty bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	f, ok := p.pageOf[id]
	if !ok {
		return
	}
	pg := p.frames[f]
	pg.Unpin()
	if dirty {
		pg.SetDirty(true)
	}
}

// FlushAll writes every dirty frame back to disk; used by tests.
func (p *Pool) FlushAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for id, f := range p.pageOf {
		pg := p.frames[f]
		if pg.IsDirty() {
			p.disk.WritePage(id, pg.Bytes[:])
			pg.SetDirty(false)
		}
	}
}
