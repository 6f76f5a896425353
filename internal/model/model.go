// Package model defines the records exchanged between the kernel and its
// clients.
package model

import "strings"

// Block types stored in the blocks table.
const (
	TypeDoc           = "d"
	TypeHeading       = "h"
	TypeParagraph     = "p"
	TypeList          = "l"
	TypeListItem      = "i"
	TypeBlockquote    = "b"
	TypeSuperBlock    = "s"
	TypeCode          = "c"
	TypeThematicBreak = "tb"
	TypeHTML          = "html"
)

// IAL attribute names with special meaning.
const (
	AttrID       = "id"
	AttrTitle    = "title"
	AttrUpdated  = "updated"
	AttrBookmark = "bookmark"
	AttrName     = "name"
	AttrAlias    = "alias"
	AttrMemo     = "memo"
	AttrType     = "type"
	AttrReminder = "custom-reminder-wechat"

	CustomAttrPrefix = "custom-"
)

// IsContainer reports whether blocks of type t only hold other blocks.
func IsContainer(t string) bool {
	switch t {
	case TypeDoc, TypeList, TypeListItem, TypeBlockquote, TypeSuperBlock:
		return true
	}
	return false
}

// Notebook is a top-level document container.
type Notebook struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Sort   int    `json:"sort"`
	Closed bool   `json:"closed"`
}

// Block is one row of the blocks table.
type Block struct {
	ID       string            `json:"id"`
	ParentID string            `json:"parentID"`
	RootID   string            `json:"rootID"`
	Box      string            `json:"box"`
	Path     string            `json:"path"`
	HPath    string            `json:"hPath"`
	Name     string            `json:"name"`
	Alias    string            `json:"alias"`
	Memo     string            `json:"memo"`
	Content  string            `json:"content"`
	Markdown string            `json:"markdown"`
	Type     string            `json:"type"`
	SubType  string            `json:"subType"`
	IAL      map[string]string `json:"ial"`
	Sort     int               `json:"sort"`
	Created  string            `json:"created"`
	Updated  string            `json:"updated"`
}

// DocInfo is the metadata block/getDocInfo returns for a document.
type DocInfo struct {
	ID           string            `json:"id"`
	RootID       string            `json:"rootID"`
	Name         string            `json:"name"`
	Box          string            `json:"box"`
	Path         string            `json:"path"`
	RefCount     int               `json:"refCount"`
	SubFileCount int               `json:"subFileCount"`
	RefIDs       []string          `json:"refIDs"`
	IAL          map[string]string `json:"ial"`
}

// Attr returns the IAL value for key, or "".
func (d DocInfo) Attr(key string) string {
	if d.IAL == nil {
		return ""
	}
	return d.IAL[key]
}

// Title returns the document title attribute.
func (d DocInfo) Title() string {
	return d.Attr(AttrTitle)
}

// Heading is one outline entry.
type Heading struct {
	ID      string `json:"id"`
	Level   int    `json:"level"`
	Content string `json:"content"`
}

// Backlink is a block in another document referencing the current one.
type Backlink struct {
	BlockID    string `json:"blockID"`
	RootID     string `json:"rootID"`
	HPath      string `json:"hPath"`
	Content    string `json:"content"`
	Anchor     string `json:"anchor"`
	DefBlockID string `json:"defBlockID"`
}

// GraphNode is a document in the local graph.
type GraphNode struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	RefCount int    `json:"refCount"`
}

// GraphLink connects two documents; From references To.
type GraphLink struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Count int    `json:"count"`
}

// Graph is the local reference graph around one document.
type Graph struct {
	Nodes []GraphNode `json:"nodes"`
	Links []GraphLink `json:"links"`
}

// DocRef identifies a move target or search hit.
type DocRef struct {
	Box     string `json:"box"`
	BoxName string `json:"boxName"`
	Path    string `json:"path"`
	HPath   string `json:"hPath"`
}

// DocDir returns the directory that holds a document's children, e.g.
// "/a/b.sy" becomes "/a/b".
func DocDir(path string) string {
	return strings.TrimSuffix(path, ".sy")
}

// ChildPath returns the path of document id created under parentPath.
// An empty or "/" parent places the document at the notebook root.
func ChildPath(parentPath, id string) string {
	if parentPath == "" || parentPath == "/" {
		return "/" + id + ".sy"
	}
	return DocDir(parentPath) + "/" + id + ".sy"
}

// IDFromPath extracts the document ID from its path.
func IDFromPath(path string) string {
	base := path
	if idx := strings.LastIndex(base, "/"); idx >= 0 {
		base = base[idx+1:]
	}
	return strings.TrimSuffix(base, ".sy")
}

// FirstContentBlock returns the first non-container block in document
// order, descending through lists, list items, blockquotes and super blocks.
func FirstContentBlock(blocks []Block) (Block, bool) {
	for _, b := range blocks {
		if !IsContainer(b.Type) {
			return b, true
		}
	}
	return Block{}, false
}
