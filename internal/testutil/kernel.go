// Package testutil starts throwaway kernels for tests that need the real
// HTTP API and sqlite store behind a client.
package testutil

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/atomicstack/notebook-popup-control/internal/api"
	"github.com/atomicstack/notebook-popup-control/internal/kernel"
	"github.com/atomicstack/notebook-popup-control/internal/model"
)

// Kernel is a kernel served by httptest on a temporary database.
type Kernel struct {
	Store  *kernel.Store
	Server *httptest.Server
	Client *api.Client
}

// NewKernel opens a fresh store under t.TempDir and serves it. Everything is
// torn down through t.Cleanup.
func NewKernel(t *testing.T) *Kernel {
	t.Helper()
	st, err := kernel.Open(filepath.Join(t.TempDir(), "kernel.db"))
	if err != nil {
		t.Fatalf("open kernel store: %v", err)
	}
	srv := httptest.NewServer(kernel.NewServer(st, nil, nil).Handler())
	t.Cleanup(func() {
		srv.Close()
		_ = st.Close()
	})
	return &Kernel{Store: st, Server: srv, Client: api.New(srv.URL)}
}

// URL returns the base URL clients should use.
func (k *Kernel) URL() string { return k.Server.URL }

// Notebook creates a notebook named name.
func (k *Kernel) Notebook(t *testing.T, name string) model.Notebook {
	t.Helper()
	nb, err := k.Store.CreateNotebook(context.Background(), name)
	if err != nil {
		t.Fatalf("create notebook %q: %v", name, err)
	}
	return nb
}

// Doc creates a document from markdown and returns its info.
func (k *Kernel) Doc(t *testing.T, box, parentPath, title, md string) model.DocInfo {
	t.Helper()
	ctx := context.Background()
	id, err := k.Store.CreateDoc(ctx, box, parentPath, title, md)
	if err != nil {
		t.Fatalf("create doc %q: %v", title, err)
	}
	info, err := k.Store.DocInfo(ctx, id)
	if err != nil {
		t.Fatalf("doc info %s: %v", id, err)
	}
	return info
}

// Seed creates one notebook holding one document and returns both.
func (k *Kernel) Seed(t *testing.T) (model.Notebook, model.DocInfo) {
	t.Helper()
	nb := k.Notebook(t, "Notes")
	doc := k.Doc(t, nb.ID, "/", "Plan", "First paragraph\n\n## Goals\n\n- ship\n- test\n")
	return nb, doc
}
