package kernel

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/atomicstack/notebook-popup-control/internal/ids"
	"github.com/atomicstack/notebook-popup-control/internal/model"
)

// blockRefPattern matches ((id "anchor")) and ((id 'anchor')) spans.
var blockRefPattern = regexp.MustCompile(`\(\((\d{14}-[0-9a-z]{7})(?:\s+["']([^"']*)["'])?\)\)`)

type importResult struct {
	blocks int
	refs   int
}

type pendingRef struct {
	blockID  string
	defID    string
	anchor   string
	markdown string
}

type importer struct {
	src    []byte
	doc    model.Block
	now    time.Time
	blocks []model.Block
	refs   []pendingRef
}

// importMarkdown parses src and stores its blocks under doc. Block refs to
// blocks that do not exist are kept in the markdown but not indexed.
func importMarkdown(ctx context.Context, q querier, doc model.Block, src []byte, now time.Time) (importResult, error) {
	if len(bytes.TrimSpace(src)) == 0 {
		return importResult{}, nil
	}
	root := goldmark.New().Parser().Parse(text.NewReader(src))
	imp := &importer{src: src, doc: doc, now: now}
	for c := root.FirstChild(); c != nil; c = c.NextSibling() {
		imp.walk(c, doc.ID)
	}
	for _, b := range imp.blocks {
		if err := insertBlock(ctx, q, b); err != nil {
			return importResult{}, err
		}
	}
	res := importResult{blocks: len(imp.blocks)}
	for _, r := range imp.refs {
		def, err := getBlock(ctx, q, r.defID)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return res, err
		}
		_, err = q.ExecContext(ctx, `INSERT INTO refs (id, def_block_id, def_block_parent_id, def_block_root_id, def_block_path, block_id, root_id, box, path, content, markdown, type)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 'ref-id')`,
			ids.At(now), def.ID, def.ParentID, def.RootID, def.Path, r.blockID, doc.ID, doc.Box, doc.Path, r.anchor, r.markdown)
		if err != nil {
			return res, fmt.Errorf("insert ref: %w", err)
		}
		res.refs++
	}
	return res, nil
}

func (imp *importer) walk(n ast.Node, parentID string) {
	switch node := n.(type) {
	case *ast.Heading:
		content := imp.lines(n)
		imp.leaf(parentID, model.TypeHeading, fmt.Sprintf("h%d", node.Level), content, strings.Repeat("#", node.Level)+" "+content)
	case *ast.Paragraph, *ast.TextBlock:
		content := imp.lines(n)
		imp.leaf(parentID, model.TypeParagraph, "", content, content)
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		content := imp.lines(n)
		imp.leaf(parentID, model.TypeCode, "", content, "```\n"+content+"\n```")
	case *ast.ThematicBreak:
		imp.leaf(parentID, model.TypeThematicBreak, "", "", "---")
	case *ast.HTMLBlock:
		content := imp.lines(n)
		imp.leaf(parentID, model.TypeHTML, "", content, content)
	case *ast.List:
		sub := "u"
		if node.IsOrdered() {
			sub = "o"
		}
		id := imp.container(parentID, model.TypeList, sub)
		imp.children(n, id)
	case *ast.ListItem:
		id := imp.container(parentID, model.TypeListItem, "")
		imp.children(n, id)
	case *ast.Blockquote:
		id := imp.container(parentID, model.TypeBlockquote, "")
		imp.children(n, id)
	default:
		imp.children(n, parentID)
	}
}

func (imp *importer) children(n ast.Node, parentID string) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		imp.walk(c, parentID)
	}
}

func (imp *importer) lines(n ast.Node) string {
	segs := n.Lines()
	parts := make([]string, 0, segs.Len())
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		parts = append(parts, strings.TrimRight(string(seg.Value(imp.src)), "\r\n"))
	}
	return strings.Join(parts, "\n")
}

func (imp *importer) base(parentID, typ, subtype string) model.Block {
	id := ids.At(imp.now)
	stamp := ids.Stamp(imp.now)
	return model.Block{
		ID:       id,
		ParentID: parentID,
		RootID:   imp.doc.ID,
		Box:      imp.doc.Box,
		Path:     imp.doc.Path,
		HPath:    imp.doc.HPath,
		Type:     typ,
		SubType:  subtype,
		IAL:      map[string]string{model.AttrID: id, model.AttrUpdated: stamp},
		Sort:     len(imp.blocks) + 1,
		Created:  stamp,
		Updated:  stamp,
	}
}

func (imp *importer) container(parentID, typ, subtype string) string {
	b := imp.base(parentID, typ, subtype)
	imp.blocks = append(imp.blocks, b)
	return b.ID
}

func (imp *importer) leaf(parentID, typ, subtype, content, markdown string) {
	b := imp.base(parentID, typ, subtype)
	b.Markdown = markdown
	b.Content = blockRefPattern.ReplaceAllStringFunc(content, func(span string) string {
		m := blockRefPattern.FindStringSubmatch(span)
		imp.refs = append(imp.refs, pendingRef{blockID: b.ID, defID: m[1], anchor: m[2], markdown: span})
		if m[2] != "" {
			return m[2]
		}
		return m[1]
	})
	imp.blocks = append(imp.blocks, b)
}
