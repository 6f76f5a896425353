package api

import (
	"context"

	"github.com/atomicstack/notebook-popup-control/internal/conf"
	"github.com/atomicstack/notebook-popup-control/internal/model"
)

func (c *Client) GetConf(ctx context.Context) (*conf.Conf, error) {
	out := conf.NewConf()
	if err := c.Post(ctx, "system/getConf", nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetFiletree saves ft and returns the kernel's canonical copy.
func (c *Client) SetFiletree(ctx context.Context, ft conf.FileTree) (*conf.FileTree, error) {
	var out conf.FileTree
	if err := c.Post(ctx, "setting/setFiletree", ft, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SetEditor(ctx context.Context, ed conf.Editor) (*conf.Editor, error) {
	var out conf.Editor
	if err := c.Post(ctx, "setting/setEditor", ed, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Notebooks(ctx context.Context) ([]model.Notebook, error) {
	var out struct {
		Notebooks []model.Notebook `json:"notebooks"`
	}
	err := c.Post(ctx, "notebook/lsNotebooks", nil, &out)
	return out.Notebooks, err
}

func (c *Client) CreateNotebook(ctx context.Context, name string) (model.Notebook, error) {
	var out struct {
		Notebook model.Notebook `json:"notebook"`
	}
	err := c.Post(ctx, "notebook/createNotebook", map[string]string{"name": name}, &out)
	return out.Notebook, err
}

func (c *Client) DocInfo(ctx context.Context, id string) (model.DocInfo, error) {
	var out model.DocInfo
	err := c.Post(ctx, "block/getDocInfo", map[string]string{"id": id}, &out)
	return out, err
}

func (c *Client) BlockAttrs(ctx context.Context, id string) (map[string]string, error) {
	out := map[string]string{}
	err := c.Post(ctx, "block/getBlockAttrs", map[string]string{"id": id}, &out)
	return out, err
}

// SetBlockAttrs merges attrs; empty values remove the attribute.
func (c *Client) SetBlockAttrs(ctx context.Context, id string, attrs map[string]string) error {
	return c.Post(ctx, "attr/setBlockAttrs", map[string]interface{}{"id": id, "attrs": attrs}, nil)
}

// SetBlockReminder schedules a reminder at timed (yyyyMMddHHmmss, "0" clears).
func (c *Client) SetBlockReminder(ctx context.Context, id, timed string) error {
	return c.Post(ctx, "block/setBlockReminder", map[string]string{"id": id, "timed": timed}, nil)
}

func (c *Client) RenameDoc(ctx context.Context, notebook, path, title string) error {
	return c.Post(ctx, "filetree/renameDoc", map[string]string{"notebook": notebook, "path": path, "title": title}, nil)
}

func (c *Client) RemoveDoc(ctx context.Context, notebook, path string) error {
	return c.Post(ctx, "filetree/removeDoc", map[string]string{"notebook": notebook, "path": path}, nil)
}

func (c *Client) MoveDocs(ctx context.Context, fromPaths []string, toNotebook, toPath string) error {
	return c.Post(ctx, "filetree/moveDocs", map[string]interface{}{
		"fromPaths":  fromPaths,
		"toNotebook": toNotebook,
		"toPath":     toPath,
	}, nil)
}

func (c *Client) HPathByID(ctx context.Context, id string) (string, error) {
	var out string
	err := c.Post(ctx, "filetree/getHPathByID", map[string]string{"id": id}, &out)
	return out, err
}

// DocBlocks returns the document's blocks in document order.
func (c *Client) DocBlocks(ctx context.Context, id string) ([]model.Block, error) {
	var out struct {
		Blocks []model.Block `json:"blocks"`
	}
	err := c.Post(ctx, "filetree/getDoc", map[string]string{"id": id}, &out)
	return out.Blocks, err
}

func (c *Client) SearchDocs(ctx context.Context, keyword string) ([]model.DocRef, error) {
	var out []model.DocRef
	err := c.Post(ctx, "filetree/searchDocs", map[string]string{"k": keyword}, &out)
	return out, err
}

// CreateDocWithMd creates a document and returns its ID.
func (c *Client) CreateDocWithMd(ctx context.Context, notebook, parentPath, title, markdown string) (string, error) {
	var id string
	err := c.Post(ctx, "filetree/createDocWithMd", map[string]string{
		"notebook":   notebook,
		"parentPath": parentPath,
		"title":      title,
		"markdown":   markdown,
	}, &id)
	return id, err
}

func (c *Client) Outline(ctx context.Context, id string) ([]model.Heading, error) {
	var out []model.Heading
	err := c.Post(ctx, "outline/getDocOutline", map[string]string{"id": id}, &out)
	return out, err
}

func (c *Client) Backlinks(ctx context.Context, id string) ([]model.Backlink, error) {
	var out []model.Backlink
	err := c.Post(ctx, "ref/getBacklinks", map[string]string{"id": id}, &out)
	return out, err
}

func (c *Client) LocalGraph(ctx context.Context, id string) (model.Graph, error) {
	var out model.Graph
	err := c.Post(ctx, "graph/getLocalGraph", map[string]string{"id": id}, &out)
	return out, err
}
