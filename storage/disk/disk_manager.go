// Package disk sketches the disk-I/O collaborator (spec.md §1 lists disk
// primitives as out-of-core-scope): the buffer pool depends on this
// interface, but its persistence strategy is not part of the core.
package disk

import (
	"sync"

	"github.com/dsnet/golib/memfile"
	"github.com/vectorbase/vectorbase/storage/page"
)

// Manager reads and writes whole pages and allocates new page ids. The
// execution core never talks to Manager directly — only buffer.Pool does.
type Manager interface {
	ReadPage(id page.ID, dst []byte) error
	WritePage(id page.ID, src []byte) error
	AllocatePage() page.ID
	DeallocatePage(id page.ID)
}

// memManager is an in-process stand-in backed by dsnet/golib/memfile, the
// same in-memory-file abstraction the teacher's
// storage/disk/virtual_disk_manager_impl.go uses for its "virtual disk".
// It gives the buffer pool something real to evict to/from without
// touching the OS filesystem, matching spec.md's single-process-only
// durability non-goal.
type memManager struct {
	mu       sync.Mutex
	file     *memfile.File
	nextPage int32
}

func NewMemManager() Manager {
	return &memManager{file: memfile.New(make([]byte, 0))}
}

func (m *memManager) ReadPage(id page.ID, dst []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	off := int64(id) * page.Size
	if off+page.Size > int64(len(m.file.Bytes())) {
		return nil // never written: caller sees a zeroed page
	}
	_, err := m.file.ReadAt(dst[:page.Size], off)
	return err
}

func (m *memManager) WritePage(id page.ID, src []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	off := int64(id) * page.Size
	m.growTo(off + page.Size)
	_, err := m.file.WriteAt(src[:page.Size], off)
	return err
}

func (m *memManager) growTo(size int64) {
	cur := int64(len(m.file.Bytes()))
	if size <= cur {
		return
	}
	pad := make([]byte, size-cur)
	m.file.WriteAt(pad, cur)
}

func (m *memManager) AllocatePage() page.ID {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := page.ID(m.nextPage)
	m.nextPage++
	return id
}

func (m *memManager) DeallocatePage(id page.ID) {}
