package kernel

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/atomicstack/notebook-popup-control/internal/model"
)

// RefIDsByDefID returns the IDs and anchor texts of blocks referencing
// defID. With containChildren, references to any block of the document
// rooted at defID are included.
func (s *Store) RefIDsByDefID(ctx context.Context, defID string, containChildren bool) (refIDs, refTexts []string, err error) {
	query := `SELECT DISTINCT block_id, content FROM refs WHERE def_block_id = ?`
	if containChildren {
		query = `SELECT DISTINCT block_id, content FROM refs WHERE def_block_root_id = ?`
	}
	rows, err := s.db.QueryContext(ctx, query, defID)
	if err != nil {
		return nil, nil, fmt.Errorf("query ref ids: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id, content string
		if err := rows.Scan(&id, &content); err != nil {
			return nil, nil, err
		}
		refIDs = append(refIDs, id)
		refTexts = append(refTexts, content)
	}
	return refIDs, refTexts, rows.Err()
}

// RefRootBlocksByDefRootID returns the documents that reference the
// document defRootID.
func (s *Store) RefRootBlocksByDefRootID(ctx context.Context, defRootID string) ([]model.Block, error) {
	blocks, err := queryBlocks(ctx, s.db,
		`SELECT `+blockColumns+` FROM blocks WHERE id IN (SELECT DISTINCT root_id FROM refs WHERE def_block_root_id = ?) AND id != ?`,
		defRootID, defRootID)
	if err != nil {
		return nil, fmt.Errorf("query ref roots: %w", err)
	}
	return blocks, nil
}

// DefRootBlocksByRefRootID returns the documents referenced from the
// document refRootID.
func (s *Store) DefRootBlocksByRefRootID(ctx context.Context, refRootID string) ([]model.Block, error) {
	blocks, err := queryBlocks(ctx, s.db,
		`SELECT `+blockColumns+` FROM blocks WHERE id IN (SELECT DISTINCT def_block_root_id FROM refs WHERE root_id = ?) AND id != ?`,
		refRootID, refRootID)
	if err != nil {
		return nil, fmt.Errorf("query def roots: %w", err)
	}
	return blocks, nil
}

// RootBlockRefCount returns, per document, the number of references made
// to blocks inside it.
func (s *Store) RootBlockRefCount(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT def_block_root_id, COUNT(*) FROM refs GROUP BY def_block_root_id`)
	if err != nil {
		return nil, fmt.Errorf("count refs: %w", err)
	}
	defer rows.Close()
	counts := map[string]int{}
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}
	return counts, rows.Err()
}

// Backlinks lists the blocks that reference the document containing id.
func (s *Store) Backlinks(ctx context.Context, id string) ([]model.Backlink, error) {
	doc, err := docByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.block_id, r.root_id, COALESCE(root.hpath, ''), COALESCE(b.content, ''), r.content, r.def_block_id
		FROM refs r
		LEFT JOIN blocks b ON b.id = r.block_id
		LEFT JOIN blocks root ON root.id = r.root_id
		WHERE r.def_block_root_id = ?
		ORDER BY root.hpath, b.sort`, doc.ID)
	if err != nil {
		return nil, fmt.Errorf("query backlinks: %w", err)
	}
	defer rows.Close()
	var out []model.Backlink
	for rows.Next() {
		var bl model.Backlink
		if err := rows.Scan(&bl.BlockID, &bl.RootID, &bl.HPath, &bl.Content, &bl.Anchor, &bl.DefBlockID); err != nil {
			return nil, err
		}
		out = append(out, bl)
	}
	return out, rows.Err()
}

// Outline returns the headings of the document containing id.
func (s *Store) Outline(ctx context.Context, id string) ([]model.Heading, error) {
	doc, err := docByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, subtype, content FROM blocks WHERE root_id = ? AND type = ? ORDER BY sort`, doc.ID, model.TypeHeading)
	if err != nil {
		return nil, fmt.Errorf("query outline: %w", err)
	}
	defer rows.Close()
	var out []model.Heading
	for rows.Next() {
		var h model.Heading
		var sub string
		if err := rows.Scan(&h.ID, &sub, &h.Content); err != nil {
			return nil, err
		}
		h.Level, _ = strconv.Atoi(strings.TrimPrefix(sub, "h"))
		out = append(out, h)
	}
	return out, rows.Err()
}

// LocalGraph returns the document containing id together with the documents
// it references and the documents referencing it.
func (s *Store) LocalGraph(ctx context.Context, id string) (model.Graph, error) {
	doc, err := docByID(ctx, s.db, id)
	if err != nil {
		return model.Graph{}, err
	}
	counts, err := s.RootBlockRefCount(ctx)
	if err != nil {
		return model.Graph{}, err
	}
	nodes := map[string]model.GraphNode{
		doc.ID: {ID: doc.ID, Label: doc.Content, RefCount: counts[doc.ID]},
	}
	defs, err := s.DefRootBlocksByRefRootID(ctx, doc.ID)
	if err != nil {
		return model.Graph{}, err
	}
	refs, err := s.RefRootBlocksByDefRootID(ctx, doc.ID)
	if err != nil {
		return model.Graph{}, err
	}
	for _, b := range append(defs, refs...) {
		nodes[b.ID] = model.GraphNode{ID: b.ID, Label: b.Content, RefCount: counts[b.ID]}
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT root_id, def_block_root_id, COUNT(*) FROM refs
		WHERE (root_id = ? OR def_block_root_id = ?) AND root_id != def_block_root_id
		GROUP BY root_id, def_block_root_id`, doc.ID, doc.ID)
	if err != nil {
		return model.Graph{}, fmt.Errorf("query graph links: %w", err)
	}
	defer rows.Close()
	var g model.Graph
	for rows.Next() {
		var l model.GraphLink
		if err := rows.Scan(&l.From, &l.To, &l.Count); err != nil {
			return model.Graph{}, err
		}
		g.Links = append(g.Links, l)
	}
	if err := rows.Err(); err != nil {
		return model.Graph{}, err
	}
	for _, n := range nodes {
		g.Nodes = append(g.Nodes, n)
	}
	sort.Slice(g.Nodes, func(i, j int) bool {
		if g.Nodes[i].ID == doc.ID {
			return true
		}
		if g.Nodes[j].ID == doc.ID {
			return false
		}
		return g.Nodes[i].Label < g.Nodes[j].Label
	})
	return g, nil
}
