package catalog

import (
	"sync/atomic"

	"github.com/sasha-s/go-deadlock"
	"github.com/vectorbase/vectorbase/errs"
	"github.com/vectorbase/vectorbase/logging"
	"github.com/vectorbase/vectorbase/schema"
	"github.com/vectorbase/vectorbase/storage/buffer"
	"github.com/vectorbase/vectorbase/storage/heap"
)

// OID is a monotonic object id shared by tables and indexes (spec.md §9
// SUPPLEMENT, matching original_source/vectordb's catalog.h layout).
type OID uint32

// TableInfo is the catalog's record of one table (spec.md §3).
type TableInfo struct {
	Name   string
	OID    OID
	Schema *schema.Schema
	Heap   *heap.TableHeap
}

// IndexInfo is the catalog's record of one secondary index on a table.
type IndexInfo struct {
	Name      string
	TableName string
	OID       OID
	KeySchema *schema.Schema
	KeyAttrs  []uint32
	Kind      IndexKind
	IsPrimary bool
	Index     Index // narrow to VectorIndex via a type assertion for vector kinds
}

// Catalog is the in-memory, non-persistent registry of tables and indexes
// by name/OID (spec.md §3). Table and Index objects are exclusively owned
// by the Catalog; callers borrow for the Catalog's lifetime.
type Catalog struct {
	pool *buffer.Pool
	log  *logging.Logger

	mu             deadlock.RWMutex // DDL takes this exclusively, per spec.md §5
	nextOID        uint32
	tables         map[OID]*TableInfo
	tableNames     map[string]OID
	indexesByTable map[string]map[string]*IndexInfo // table name -> index name -> info
}

func New(pool *buffer.Pool, log *logging.Logger) *Catalog {
	if log == nil {
		log = logging.Nop()
	}
	return &Catalog{
		pool:           pool,
		log:            log,
		tables:         make(map[OID]*TableInfo),
		tableNames:     make(map[string]OID),
		indexesByTable: make(map[string]map[string]*IndexInfo),
	}
}

func (c *Catalog) allocOID() OID {
	return OID(atomic.AddUint32(&c.nextOID, 1) - 1)
}

// CreateTable registers a new table and allocates its heap's first page.
func (c *Catalog) CreateTable(name string, schema_ *schema.Schema) (*TableInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.tableNames[name]; ok {
		return nil, errs.New(errs.AlreadyExists, "table %q already exists", name).At("catalog.CreateTable")
	}
	oid := c.allocOID()
	info := &TableInfo{Name: name, OID: oid, Schema: schema_, Heap: heap.New(c.pool)}
	c.tables[oid] = info
	c.tableNames[name] = oid
	c.indexesByTable[name] = make(map[string]*IndexInfo)
	c.log.Debugw("table created", "table", name, "oid", oid)
	return info, nil
}

func (c *Catalog) GetTableByName(name string) (*TableInfo, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	oid, ok := c.tableNames[name]
	if !ok {
		return nil, errs.New(errs.NotFound, "table %q not found", name).At("catalog.GetTableByName")
	}
	return c.tables[oid], nil
}

func (c *Catalog) GetTableByOID(oid OID) (*TableInfo, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	info, ok := c.tables[oid]
	if !ok {
		return nil, errs.New(errs.NotFound, "table oid %d not found", oid).At("catalog.GetTableByOID")
	}
	return info, nil
}

// CreateIndex registers a secondary index. idx must already be built/empty
// per its kind's contract; the caller (DDL collaborator / planner's CREATE
// INDEX handling) is responsible for constructing it.
func (c *Catalog) CreateIndex(tableName, indexName string, keySchema *schema.Schema, keyAttrs []uint32, kind IndexKind, isPrimary bool, idx Index) (*IndexInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	byName, ok := c.indexesByTable[tableName]
	if !ok {
		return nil, errs.New(errs.NotFound, "table %q not found", tableName).At("catalog.CreateIndex")
	}
	if _, exists := byName[indexName]; exists {
		return nil, errs.New(errs.AlreadyExists, "index %q already exists on table %q", indexName, tableName).At("catalog.CreateIndex")
	}
	info := &IndexInfo{
		Name: indexName, TableName: tableName, OID: c.allocOID(),
		KeySchema: keySchema, KeyAttrs: keyAttrs, Kind: kind, IsPrimary: isPrimary, Index: idx,
	}
	byName[indexName] = info
	c.log.Debugw("index created", "table", tableName, "index", indexName, "kind", kind)
	return info, nil
}

func (c *Catalog) GetIndex(tableName, indexName string) (*IndexInfo, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	byName, ok := c.indexesByTable[tableName]
	if !ok {
		return nil, errs.New(errs.NotFound, "table %q not found", tableName).At("catalog.GetIndex")
	}
	info, ok := byName[indexName]
	if !ok {
		return nil, errs.New(errs.NotFound, "index %q not found on table %q", indexName, tableName).At("catalog.GetIndex")
	}
	return info, nil
}

// IndexesOnTable returns every secondary index registered on tableName,
// used by Insert/Update/Delete executors for index maintenance (spec.md §4.5.7).
func (c *Catalog) IndexesOnTable(tableName string) []*IndexInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	byName := c.indexesByTable[tableName]
	out := make([]*IndexInfo, 0, len(byName))
	for _, info := range byName {
		out = append(out, info)
	}
	return out
}
