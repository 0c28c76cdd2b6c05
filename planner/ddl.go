package planner

import (
	"github.com/vectorbase/vectorbase/catalog"
	"github.com/vectorbase/vectorbase/errs"
	"github.com/vectorbase/vectorbase/index"
	"github.com/vectorbase/vectorbase/schema"
	"github.com/vectorbase/vectorbase/types"
	"github.com/vectorbase/vectorbase/vectorfn"
)

// ExecuteCreateTable applies a bound CREATE TABLE directly against the
// catalog (spec.md §4.6: DDL mutates the catalog rather than producing a
// plan node).
func (p *Planner) ExecuteCreateTable(c *Create) (*catalog.TableInfo, error) {
	cols := make([]schema.Column, len(c.Columns))
	for i, cd := range c.Columns {
		switch cd.Type {
		case types.Varchar:
			cols[i] = schema.NewVarcharColumn(cd.Name, cd.Size)
		case types.Vector:
			cols[i] = schema.NewVectorColumn(cd.Name, cd.Size)
		default:
			cols[i] = schema.NewColumn(cd.Name, cd.Type)
		}
	}
	return p.cat.CreateTable(c.Table, schema.NewSchema(cols))
}

// ExecuteCreateIndex applies a bound CREATE INDEX directly against the
// catalog, constructing the concrete index instance for Kind and building
// it eagerly from the table's current contents (spec.md §4.4).
func (p *Planner) ExecuteCreateIndex(idxStmt *Index) (*catalog.IndexInfo, error) {
	info, err := p.cat.GetTableByName(idxStmt.Table)
	if err != nil {
		return nil, err
	}
	colIdx, ok := info.Schema.ColumnIndex(idxStmt.Column)
	if !ok {
		return nil, errs.New(errs.SchemaMismatch, "column %q not found on table %q", idxStmt.Column, idxStmt.Table).At("planner.ExecuteCreateIndex")
	}
	keyAttrs := []uint32{colIdx}
	keySchema := info.Schema.Project(keyAttrs)

	kind, idxImpl, err := buildIndexImpl(idxStmt)
	if err != nil {
		return nil, err
	}

	if vecIdx, ok := idxImpl.(catalog.VectorIndex); ok {
		points := collectVectorPoints(info, colIdx)
		vecIdx.Build(points)
	} else {
		collectScalarEntries(info, colIdx, idxImpl)
	}

	return p.cat.CreateIndex(idxStmt.Table, idxStmt.Name, keySchema, keyAttrs, kind, false, idxImpl)
}

func buildIndexImpl(idxStmt *Index) (catalog.IndexKind, catalog.Index, error) {
	switch idxStmt.Kind {
	case "btree":
		return catalog.BTreeIndex, index.NewBTree(), nil
	case "hash":
		return catalog.HashIndex, index.NewHash(), nil
	case "ordered":
		return catalog.OrderedIndex, index.NewOrdered(), nil
	case "unordered":
		return catalog.UnorderedIndex, index.NewUnordered(), nil
	case "ivfflat":
		metric, err := vectorfn.ParseOpsSuffix(idxStmt.OpsSuffix)
		if err != nil {
			return 0, nil, errs.New(errs.NotImplemented, "%s", err.Error()).At("planner.buildIndexImpl")
		}
		return catalog.IVFFlatIndex, index.NewIVFFlat(metric, optionOr(idxStmt.Options, "lists", 100)), nil
	case "hnsw":
		metric, err := vectorfn.ParseOpsSuffix(idxStmt.OpsSuffix)
		if err != nil {
			return 0, nil, errs.New(errs.NotImplemented, "%s", err.Error()).At("planner.buildIndexImpl")
		}
		m := optionOr(idxStmt.Options, "m", 16)
		efConstruction := optionOr(idxStmt.Options, "ef_construction", 64)
		efSearch := optionOr(idxStmt.Options, "ef_search", 40)
		return catalog.HNSWIndex, index.NewHNSW(metric, m, efConstruction, efSearch), nil
	default:
		return 0, nil, errs.New(errs.NotImplemented, "index kind %q not supported", idxStmt.Kind).At("planner.buildIndexImpl")
	}
}

func optionOr(opts []IndexOption, name string, fallback int) int {
	for _, o := range opts {
		if o.Name == name {
			return o.Value
		}
	}
	return fallback
}

func collectVectorPoints(info *catalog.TableInfo, colIdx uint32) []catalog.VectorPoint {
	var points []catalog.VectorPoint
	it := info.Heap.Iterator()
	for {
		meta, tup, ok := it.Next()
		if !ok {
			break
		}
		if meta.IsDeleted {
			continue
		}
		rid, _ := tup.RID()
		v := tup.GetValue(info.Schema, colIdx)
		points = append(points, catalog.VectorPoint{Vector: v.AsVector(), RID: rid})
	}
	return points
}

func collectScalarEntries(info *catalog.TableInfo, colIdx uint32, idx catalog.Index) {
	it := info.Heap.Iterator()
	for {
		meta, tup, ok := it.Next()
		if !ok {
			break
		}
		if meta.IsDeleted {
			continue
		}
		rid, _ := tup.RID()
		v := tup.GetValue(info.Schema, colIdx)
		idx.Insert([]types.Value{v}, rid)
	}
}
