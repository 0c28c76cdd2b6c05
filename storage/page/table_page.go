package page

import "encoding/binary"

// TablePage overlays the slotted-page format on a raw Page's bytes:
//
//	---------------------------------------------------------
//	| HEADER | ... FREE SPACE ... | ... INSERTED TUPLES ... |
//	---------------------------------------------------------
//	                              ^ free space pointer
//
//	Header (24 bytes): NextPageID(4) | FreeSpacePointer(4) | SlotCount(4) | reserved(12)
//	Slot directory (8 bytes/slot): Offset(4) | Size(4)      -- Size==0 marks a hole never filled
//
// TupleMeta is stored inline right before each tuple's payload (9 bytes:
// Timestamp int64 + IsDeleted byte), so "Size" in the slot directory
// covers meta+payload together. This is the teacher's
// storage/access/table_page.go layout, generalized to host a TupleMeta.
type TablePage struct {
	p *Page
}

const (
	hdrNextPageID = 0
	hdrFreeSpace  = 4
	hdrSlotCount  = 8
	hdrSize       = 24
	slotSize      = 8
	metaSize      = 9
)

func Overlay(p *Page) *TablePage { return &TablePage{p: p} }

func (tp *TablePage) Init(next ID) {
	binary.LittleEndian.PutUint32(tp.p.Bytes[hdrNextPageID:], uint32(next))
	binary.LittleEndian.PutUint32(tp.p.Bytes[hdrFreeSpace:], Size)
	binary.LittleEndian.PutUint32(tp.p.Bytes[hdrSlotCount:], 0)
}

func (tp *TablePage) NextPageID() ID {
	return ID(binary.LittleEndian.Uint32(tp.p.Bytes[hdrNextPageID:]))
}

func (tp *TablePage) SetNextPageID(id ID) {
	binary.LittleEndian.PutUint32(tp.p.Bytes[hdrNextPageID:], uint32(id))
}

func (tp *TablePage) freeSpacePointer() uint32 {
	return binary.LittleEndian.Uint32(tp.p.Bytes[hdrFreeSpace:])
}

func (tp *TablePage) setFreeSpacePointer(v uint32) {
	binary.LittleEndian.PutUint32(tp.p.Bytes[hdrFreeSpace:], v)
}

func (tp *TablePage) SlotCount() uint32 {
	return binary.LittleEndian.Uint32(tp.p.Bytes[hdrSlotCount:])
}

func (tp *TablePage) setSlotCount(v uint32) {
	binary.LittleEndian.PutUint32(tp.p.Bytes[hdrSlotCount:], v)
}

func (tp *TablePage) slotOffset(slot uint32) uint32 {
	base := hdrSize + slot*slotSize
	return binary.LittleEndian.Uint32(tp.p.Bytes[base:])
}

func (tp *TablePage) slotPayloadSize(slot uint32) uint32 {
	base := hdrSize + slot*slotSize + 4
	return binary.LittleEndian.Uint32(tp.p.Bytes[base:])
}

func (tp *TablePage) setSlot(slot, offset, size uint32) {
	base := hdrSize + slot*slotSize
	binary.LittleEndian.PutUint32(tp.p.Bytes[base:], offset)
	binary.LittleEndian.PutUint32(tp.p.Bytes[base+4:], size)
}

// FreeSpaceRemaining is the room left between the slot directory's tail and
// the free-space pointer.
func (tp *TablePage) FreeSpaceRemaining() uint32 {
	dirEnd := hdrSize + tp.SlotCount()*slotSize
	fsp := tp.freeSpacePointer()
	if fsp < dirEnd {
		return 0
	}
	return fsp - dirEnd
}

// InsertTuple writes meta+payload growing from the page tail, reusing a
// slot with Size==0 (a hole never filled) first; a tombstoned slot keeps
// its Size and is not reused. Returns the slot index, or ok=false
// if the page has no room (caller decides whether that means "new page").
func (tp *TablePage) InsertTuple(meta TupleMeta, payload []byte) (slot uint32, ok bool) {
	need := metaSize + uint32(len(payload))

	var freeSlot uint32 = tp.SlotCount()
	for i := uint32(0); i < tp.SlotCount(); i++ {
		if tp.slotPayloadSize(i) == 0 {
			freeSlot = i
			break
		}
	}

	extraDirBytes := uint32(0)
	if freeSlot == tp.SlotCount() {
		extraDirBytes = slotSize
	}
	if tp.FreeSpaceRemaining() < need+extraDirBytes {
		return 0, false
	}

	newFsp := tp.freeSpacePointer() - need
	tp.setFreeSpacePointer(newFsp)
	tp.writeMeta(newFsp, meta)
	copy(tp.p.Bytes[newFsp+metaSize:], payload)
	tp.setSlot(freeSlot, newFsp, need)

	if freeSlot == tp.SlotCount() {
		tp.setSlotCount(tp.SlotCount() + 1)
	}
	return freeSlot, true
}

func (tp *TablePage) writeMeta(offset uint32, meta TupleMeta) {
	binary.LittleEndian.PutUint64(tp.p.Bytes[offset:], uint64(meta.Timestamp))
	var del byte
	if meta.IsDeleted {
		del = 1
	}
	tp.p.Bytes[offset+8] = del
}

func (tp *TablePage) readMeta(offset uint32) TupleMeta {
	ts := int64(binary.LittleEndian.Uint64(tp.p.Bytes[offset:]))
	return TupleMeta{Timestamp: ts, IsDeleted: tp.p.Bytes[offset+8] == 1}
}

// GetTuple returns the meta and raw payload bytes for a live slot.
func (tp *TablePage) GetTuple(slot uint32) (TupleMeta, []byte, bool) {
	if slot >= tp.SlotCount() {
		return TupleMeta{}, nil, false
	}
	size := tp.slotPayloadSize(slot)
	if size == 0 {
		return TupleMeta{}, nil, false
	}
	off := tp.slotOffset(slot)
	meta := tp.readMeta(off)
	payload := make([]byte, size-metaSize)
	copy(payload, tp.p.Bytes[off+metaSize:off+size])
	return meta, payload, true
}

// GetMeta returns only the TupleMeta for a slot, without copying the payload.
func (tp *TablePage) GetMeta(slot uint32) (TupleMeta, bool) {
	if slot >= tp.SlotCount() {
		return TupleMeta{}, false
	}
	size := tp.slotPayloadSize(slot)
	if size == 0 {
		return TupleMeta{}, false
	}
	return tp.readMeta(tp.slotOffset(slot)), true
}

// UpdateMeta overwrites a slot's TupleMeta in place (used to flip the
// tombstone bit on delete, spec.md §4.1/§4.5.7).
func (tp *TablePage) UpdateMeta(slot uint32, meta TupleMeta) bool {
	if slot >= tp.SlotCount() || tp.slotPayloadSize(slot) == 0 {
		return false
	}
	tp.writeMeta(tp.slotOffset(slot), meta)
	return true
}
