package kernel

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/atomicstack/notebook-popup-control/internal/filename"
	"github.com/atomicstack/notebook-popup-control/internal/ids"
	"github.com/atomicstack/notebook-popup-control/internal/model"
)

var editableAttrs = map[string]struct{}{
	model.AttrTitle:    {},
	model.AttrBookmark: {},
	model.AttrName:     {},
	model.AttrAlias:    {},
	model.AttrMemo:     {},
}

// BlockAttrs returns the inline attributes of block id.
func (s *Store) BlockAttrs(ctx context.Context, id string) (map[string]string, error) {
	b, err := getBlock(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	return b.IAL, nil
}

// SetBlockAttrs merges attrs into the block's inline attributes. Empty
// values remove the attribute. Only built-in editable names and custom-*
// names are accepted.
func (s *Store) SetBlockAttrs(ctx context.Context, id string, attrs map[string]string) error {
	for k, v := range attrs {
		if _, ok := editableAttrs[k]; !ok && !strings.HasPrefix(k, model.CustomAttrPrefix) {
			return fmt.Errorf("%w: attribute %q is not editable", ErrValidation, k)
		}
		if k == model.AttrTitle {
			if err := filename.ValidateName(v); err != nil {
				return fmt.Errorf("%w: %v", ErrValidation, err)
			}
		}
	}
	if title, ok := attrs[model.AttrTitle]; ok {
		b, err := getBlock(ctx, s.db, id)
		if err != nil {
			return err
		}
		if b.Type == model.TypeDoc {
			if err := s.RenameDoc(ctx, b.Box, b.Path, title); err != nil {
				return err
			}
		}
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		b, err := getBlock(ctx, tx, id)
		if err != nil {
			return err
		}
		for k, v := range attrs {
			if v == "" {
				delete(b.IAL, k)
				continue
			}
			b.IAL[k] = v
		}
		stamp := ids.Stamp(s.now())
		b.IAL[model.AttrUpdated] = stamp
		_, err = tx.ExecContext(ctx, `UPDATE blocks SET ial = ?, name = ?, alias = ?, memo = ?, updated = ? WHERE id = ?`,
			encodeIAL(b.IAL), b.IAL[model.AttrName], b.IAL[model.AttrAlias], b.IAL[model.AttrMemo], stamp, id)
		if err != nil {
			return fmt.Errorf("update attrs: %w", err)
		}
		return nil
	})
}

// SetBlockReminder schedules a reminder for block id at timed
// (yyyyMMddHHmmss). "0" clears it.
func (s *Store) SetBlockReminder(ctx context.Context, id, timed string) error {
	if timed != "0" {
		if _, err := ids.ParseStamp(timed); err != nil {
			return fmt.Errorf("%w: invalid reminder time %q", ErrValidation, timed)
		}
	} else {
		timed = ""
	}
	return s.SetBlockAttrs(ctx, id, map[string]string{model.AttrReminder: timed})
}
