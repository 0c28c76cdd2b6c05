package page

// TupleMeta is the 16-byte-equivalent header attached per slot: a
// timestamp (consumed by MVCC collaborators, opaque here) and the
// tombstone bit the executor core does read (spec.md §3).
type TupleMeta struct {
	Timestamp int64
	IsDeleted bool
}
