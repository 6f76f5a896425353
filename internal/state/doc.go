package state

import "github.com/atomicstack/notebook-popup-control/internal/model"

type DocStore interface {
	Info() (model.DocInfo, bool)
	SetInfo(model.DocInfo)
	Updated() string
}

type docStore struct {
	info  model.DocInfo
	known bool
}

func NewDocStore() DocStore {
	return &docStore{}
}

func (s *docStore) Info() (model.DocInfo, bool) {
	return cloneDocInfo(s.info), s.known
}

func (s *docStore) SetInfo(info model.DocInfo) {
	s.info = cloneDocInfo(info)
	s.known = true
}

// Updated returns the last seen updated stamp, or "" before the first
// snapshot.
func (s *docStore) Updated() string {
	return s.info.Attr(model.AttrUpdated)
}

func cloneDocInfo(info model.DocInfo) model.DocInfo {
	dup := info
	if info.IAL != nil {
		dup.IAL = make(map[string]string, len(info.IAL))
		for k, v := range info.IAL {
			dup.IAL[k] = v
		}
	}
	if info.RefIDs != nil {
		dup.RefIDs = append([]string(nil), info.RefIDs...)
	}
	return dup
}
