package kernel

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/atomicstack/notebook-popup-control/internal/filename"
	"github.com/atomicstack/notebook-popup-control/internal/ids"
	"github.com/atomicstack/notebook-popup-control/internal/logging/events"
	"github.com/atomicstack/notebook-popup-control/internal/model"
)

const searchLimit = 64

// CreateNotebook adds a notebook named name.
func (s *Store) CreateNotebook(ctx context.Context, name string) (model.Notebook, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Notebook{}, fmt.Errorf("%w: notebook name required", ErrValidation)
	}
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notebooks`).Scan(&count); err != nil {
		return model.Notebook{}, fmt.Errorf("count notebooks: %w", err)
	}
	nb := model.Notebook{ID: ids.At(s.now()), Name: name, Sort: count}
	if _, err := s.db.ExecContext(ctx, `INSERT INTO notebooks (id, name, sort, closed) VALUES (?, ?, ?, 0)`, nb.ID, nb.Name, nb.Sort); err != nil {
		return model.Notebook{}, fmt.Errorf("insert notebook: %w", err)
	}
	return nb, nil
}

// Notebooks lists notebooks in their sort order.
func (s *Store) Notebooks(ctx context.Context) ([]model.Notebook, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, sort, closed FROM notebooks ORDER BY sort, name`)
	if err != nil {
		return nil, fmt.Errorf("list notebooks: %w", err)
	}
	defer rows.Close()
	var out []model.Notebook
	for rows.Next() {
		var nb model.Notebook
		if err := rows.Scan(&nb.ID, &nb.Name, &nb.Sort, &nb.Closed); err != nil {
			return nil, err
		}
		out = append(out, nb)
	}
	return out, rows.Err()
}

func notebookName(ctx context.Context, q querier, box string) (string, error) {
	var name string
	err := q.QueryRowContext(ctx, `SELECT name FROM notebooks WHERE id = ?`, box).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("notebook %s: %w", box, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("load notebook %s: %w", box, err)
	}
	return name, nil
}

func docByPath(ctx context.Context, q querier, box, path string) (model.Block, error) {
	row := q.QueryRowContext(ctx, `SELECT `+blockColumns+` FROM blocks WHERE box = ? AND path = ? AND type = ?`, box, path, model.TypeDoc)
	b, err := scanBlock(row)
	if errors.Is(err, sql.ErrNoRows) {
		return b, fmt.Errorf("document %s%s: %w", box, path, ErrNotFound)
	}
	if err != nil {
		return b, fmt.Errorf("load document %s: %w", path, err)
	}
	return b, nil
}

func docByID(ctx context.Context, q querier, id string) (model.Block, error) {
	b, err := getBlock(ctx, q, id)
	if err != nil {
		return b, err
	}
	if b.Type != model.TypeDoc {
		return getBlock(ctx, q, b.RootID)
	}
	return b, nil
}

// CreateDoc creates a document titled title under parentPath ("/" for the
// notebook root). markdown, when non-empty, is imported as the document body.
func (s *Store) CreateDoc(ctx context.Context, box, parentPath, title, markdown string) (string, error) {
	title = filename.ReplaceFileName(strings.TrimSpace(title))
	now := s.now()
	id := ids.At(now)
	var imported importResult
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := notebookName(ctx, tx, box); err != nil {
			return err
		}
		hpath := "/" + title
		if parentPath != "" && parentPath != "/" {
			parent, err := docByPath(ctx, tx, box, parentPath)
			if err != nil {
				return err
			}
			hpath = strings.TrimSuffix(parent.HPath, "/") + "/" + title
		}
		stamp := ids.Stamp(now)
		doc := model.Block{
			ID:      id,
			RootID:  id,
			Box:     box,
			Path:    model.ChildPath(parentPath, id),
			HPath:   hpath,
			Content: title,
			Type:    model.TypeDoc,
			IAL: map[string]string{
				model.AttrID:      id,
				model.AttrTitle:   title,
				model.AttrType:    "doc",
				model.AttrUpdated: stamp,
			},
			Created: stamp,
			Updated: stamp,
		}
		if err := insertBlock(ctx, tx, doc); err != nil {
			return err
		}
		var err error
		imported, err = importMarkdown(ctx, tx, doc, []byte(markdown), now)
		return err
	})
	if err != nil {
		return "", err
	}
	events.Kernel.Import(id, imported.blocks, imported.refs)
	return id, nil
}

// DocInfo returns the metadata of the document containing id.
func (s *Store) DocInfo(ctx context.Context, id string) (model.DocInfo, error) {
	doc, err := docByID(ctx, s.db, id)
	if err != nil {
		return model.DocInfo{}, err
	}
	refIDs, _, err := s.RefIDsByDefID(ctx, doc.ID, true)
	if err != nil {
		return model.DocInfo{}, err
	}
	subs, err := s.subFileCount(ctx, doc.Box, doc.Path)
	if err != nil {
		return model.DocInfo{}, err
	}
	return model.DocInfo{
		ID:           doc.ID,
		RootID:       doc.RootID,
		Name:         doc.Name,
		Box:          doc.Box,
		Path:         doc.Path,
		RefCount:     len(refIDs),
		SubFileCount: subs,
		RefIDs:       refIDs,
		IAL:          doc.IAL,
	}, nil
}

func (s *Store) subFileCount(ctx context.Context, box, path string) (int, error) {
	dir := model.DocDir(path) + "/"
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM blocks WHERE type = ? AND box = ? AND path LIKE ? || '%' AND instr(substr(path, length(?) + 1), '/') = 0`,
		model.TypeDoc, box, dir, dir).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count sub docs: %w", err)
	}
	return n, nil
}

// DocBlocks returns the blocks of document id in document order, without the
// document block itself.
func (s *Store) DocBlocks(ctx context.Context, id string) ([]model.Block, error) {
	doc, err := docByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	blocks, err := queryBlocks(ctx, s.db, `SELECT `+blockColumns+` FROM blocks WHERE root_id = ? AND id != ? ORDER BY sort`, doc.ID, doc.ID)
	if err != nil {
		return nil, fmt.Errorf("load document blocks: %w", err)
	}
	return blocks, nil
}

// HPathByID returns the human-readable path of the document containing id.
func (s *Store) HPathByID(ctx context.Context, id string) (string, error) {
	b, err := getBlock(ctx, s.db, id)
	if err != nil {
		return "", err
	}
	return b.HPath, nil
}

// RenameDoc sets the title of the document at box/path and rewrites the
// human-readable path of it and every nested document.
func (s *Store) RenameDoc(ctx context.Context, box, path, title string) error {
	if err := filename.ValidateName(title); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		doc, err := docByPath(ctx, tx, box, path)
		if err != nil {
			return err
		}
		stamp := ids.Stamp(s.now())
		doc.IAL[model.AttrTitle] = title
		doc.IAL[model.AttrUpdated] = stamp
		if _, err := tx.ExecContext(ctx, `UPDATE blocks SET content = ?, ial = ?, updated = ? WHERE id = ?`,
			title, encodeIAL(doc.IAL), stamp, doc.ID); err != nil {
			return fmt.Errorf("rename document: %w", err)
		}
		parentHPath := ""
		if idx := strings.LastIndex(doc.HPath, "/"); idx > 0 {
			parentHPath = doc.HPath[:idx]
		}
		newHPath := parentHPath + "/" + title
		return rewriteSubtree(ctx, tx, box, path, box, path, doc.HPath, newHPath)
	})
}

// rewriteSubtree moves every block and ref under oldPath to newPath and
// replaces the oldHPath prefix with newHPath.
func rewriteSubtree(ctx context.Context, tx *sql.Tx, oldBox, oldPath, newBox, newPath, oldHPath, newHPath string) error {
	oldDir := model.DocDir(oldPath)
	newDir := model.DocDir(newPath)
	rows, err := tx.QueryContext(ctx, `SELECT id, path, hpath FROM blocks WHERE box = ? AND (path = ? OR path LIKE ? || '/%')`, oldBox, oldPath, oldDir)
	if err != nil {
		return fmt.Errorf("load subtree: %w", err)
	}
	type change struct{ id, path, hpath string }
	var changes []change
	for rows.Next() {
		var c change
		if err := rows.Scan(&c.id, &c.path, &c.hpath); err != nil {
			rows.Close()
			return err
		}
		if c.path == oldPath {
			c.path = newPath
		} else {
			c.path = newDir + strings.TrimPrefix(c.path, oldDir)
		}
		if c.hpath == oldHPath || strings.HasPrefix(c.hpath, oldHPath+"/") {
			c.hpath = newHPath + strings.TrimPrefix(c.hpath, oldHPath)
		}
		changes = append(changes, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}
	for _, c := range changes {
		if _, err := tx.ExecContext(ctx, `UPDATE blocks SET box = ?, path = ?, hpath = ? WHERE id = ?`, newBox, c.path, c.hpath, c.id); err != nil {
			return fmt.Errorf("rewrite block %s: %w", c.id, err)
		}
	}
	if oldPath == newPath && oldBox == newBox {
		return nil
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE refs SET box = ?, path = ? || substr(path, length(?) + 1) WHERE box = ? AND (path = ? OR path LIKE ? || '/%')`,
		newBox, newDir, oldDir, oldBox, oldPath, oldDir); err != nil {
		return fmt.Errorf("rewrite refs: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE refs SET def_block_path = ? || substr(def_block_path, length(?) + 1) WHERE def_block_path = ? OR def_block_path LIKE ? || '/%'`,
		newDir, oldDir, oldPath, oldDir); err != nil {
		return fmt.Errorf("rewrite ref targets: %w", err)
	}
	return nil
}

// RemoveDoc deletes the document at box/path together with its nested
// documents and every reference from or to them.
func (s *Store) RemoveDoc(ctx context.Context, box, path string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := docByPath(ctx, tx, box, path); err != nil {
			return err
		}
		dir := model.DocDir(path)
		if _, err := tx.ExecContext(ctx, `DELETE FROM refs WHERE (box = ? AND (path = ? OR path LIKE ? || '/%')) OR def_block_path = ? OR def_block_path LIKE ? || '/%'`,
			box, path, dir, path, dir); err != nil {
			return fmt.Errorf("remove refs: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM blocks WHERE box = ? AND (path = ? OR path LIKE ? || '/%')`, box, path, dir); err != nil {
			return fmt.Errorf("remove blocks: %w", err)
		}
		return nil
	})
}

// MoveDocs moves each document in fromPaths, with its nested documents,
// under toPath in notebook toBox. toPath "/" targets the notebook root.
func (s *Store) MoveDocs(ctx context.Context, fromPaths []string, toBox, toPath string) error {
	if len(fromPaths) == 0 {
		return fmt.Errorf("%w: nothing to move", ErrValidation)
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := notebookName(ctx, tx, toBox); err != nil {
			return err
		}
		parentHPath := ""
		if toPath != "/" && toPath != "" {
			parent, err := docByPath(ctx, tx, toBox, toPath)
			if err != nil {
				return err
			}
			parentHPath = parent.HPath
		}
		for _, from := range fromPaths {
			id := model.IDFromPath(from)
			doc, err := getBlock(ctx, tx, id)
			if err != nil {
				return err
			}
			if doc.Type != model.TypeDoc || doc.Path != from {
				return fmt.Errorf("document %s: %w", from, ErrNotFound)
			}
			if doc.Box == toBox && (toPath == doc.Path || strings.HasPrefix(toPath, model.DocDir(doc.Path)+"/")) {
				return fmt.Errorf("%w: cannot move %s into itself", ErrConflict, doc.Content)
			}
			newPath := model.ChildPath(toPath, id)
			newHPath := parentHPath + "/" + doc.Content
			if err := rewriteSubtree(ctx, tx, doc.Box, doc.Path, toBox, newPath, doc.HPath, newHPath); err != nil {
				return err
			}
		}
		return nil
	})
}

// SearchDocs returns move targets whose title or path contains keyword.
// Notebook roots are listed first.
func (s *Store) SearchDocs(ctx context.Context, keyword string) ([]model.DocRef, error) {
	keyword = strings.TrimSpace(keyword)
	notebooks, err := s.Notebooks(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(notebooks))
	var out []model.DocRef
	for _, nb := range notebooks {
		names[nb.ID] = nb.Name
		if nb.Closed {
			continue
		}
		if keyword == "" || strings.Contains(strings.ToLower(nb.Name), strings.ToLower(keyword)) {
			out = append(out, model.DocRef{Box: nb.ID, BoxName: nb.Name, Path: "/", HPath: "/"})
		}
	}
	pattern := "%" + keyword + "%"
	rows, err := s.db.QueryContext(ctx,
		`SELECT box, path, hpath FROM blocks WHERE type = ? AND (content LIKE ? OR hpath LIKE ?) ORDER BY hpath LIMIT ?`,
		model.TypeDoc, pattern, pattern, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("search documents: %w", err)
	}
	defer rows.Close()
	var docs []model.DocRef
	for rows.Next() {
		var ref model.DocRef
		if err := rows.Scan(&ref.Box, &ref.Path, &ref.HPath); err != nil {
			return nil, err
		}
		ref.BoxName = names[ref.Box]
		docs = append(docs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.SliceStable(docs, func(i, j int) bool { return docs[i].BoxName < docs[j].BoxName })
	return append(out, docs...), nil
}
