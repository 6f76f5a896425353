// Package state holds the client-side snapshots the UI renders from. Getters
// return copies so callers never share memory with the store.
package state

import (
	"github.com/atomicstack/notebook-popup-control/internal/conf"
)

type ConfStore interface {
	Conf() *conf.Conf
	SetConf(*conf.Conf)
	FileTree() *conf.FileTree
	SetFileTree(*conf.FileTree)
	Editor() *conf.Editor
}

type confStore struct {
	conf *conf.Conf
}

func NewConfStore(initial *conf.Conf) ConfStore {
	s := &confStore{conf: conf.NewConf()}
	s.SetConf(initial)
	return s
}

func (s *confStore) Conf() *conf.Conf {
	return s.conf.Clone()
}

// SetConf replaces the snapshot wholesale.
func (s *confStore) SetConf(c *conf.Conf) {
	if c == nil {
		return
	}
	next := c.Clone()
	if next.FileTree == nil {
		next.FileTree = conf.NewFileTree()
	}
	if next.Editor == nil {
		next.Editor = conf.NewEditor()
	}
	s.conf = next
}

func (s *confStore) FileTree() *conf.FileTree {
	return s.conf.FileTree.Clone()
}

func (s *confStore) SetFileTree(ft *conf.FileTree) {
	if ft == nil {
		return
	}
	s.conf.FileTree = ft.Clone()
}

func (s *confStore) Editor() *conf.Editor {
	return s.conf.Editor.Clone()
}
