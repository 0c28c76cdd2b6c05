// Package config holds the tunables spec.md §6 exposes to a session: the
// `vector_index_method` variable and the index `WITH (...)` knobs. Unlike
// the teacher's common.PageSize-style package globals, these are scoped to
// a per-session value threaded through the planner and optimizer, since §5
// allows multiple statements to run concurrently against one catalog.
package config

// Defaults mirror the teacher's common package's approach of naming its
// magic numbers (BucketSize, SkipListProb, ...) as named constants instead
// of scattering literals through the code that consults config.
const (
	DefaultLists          = 100 // IVFFlat: number of partitions
	DefaultProbeLists     = 8   // IVFFlat: partitions probed per query
	DefaultM              = 16  // HNSW: max neighbors per layer
	DefaultEfConstruction = 64  // HNSW: beam width while building
	DefaultEfSearch       = 40  // HNSW: beam width while querying
)

// VectorIndexMethod selects which vector-index family the optimizer's
// core rewrite (spec.md §4.7 rule 10) may target. MethodAny lets the
// optimizer pick whichever matching index it finds first.
type VectorIndexMethod string

const (
	MethodAny     VectorIndexMethod = ""
	MethodNone    VectorIndexMethod = "none"
	MethodIVFFlat VectorIndexMethod = "ivfflat"
	MethodHNSW    VectorIndexMethod = "hnsw"
)

// Session carries the per-connection tunables consulted by the planner and
// optimizer (spec.md §6). The zero value is a reasonable default session.
type Session struct {
	VectorIndexMethod VectorIndexMethod
	ProbeLists        int // 0 means "use the index's own default"
	EfSearch          int
}

// NewSession returns a Session with every tunable at its documented default.
func NewSession() *Session {
	return &Session{VectorIndexMethod: MethodAny, ProbeLists: DefaultProbeLists, EfSearch: DefaultEfSearch}
}
