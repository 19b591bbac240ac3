// Package extfs ties together the block device handle, layout model,
// metadata accessor, addressing, editor, classifier and pretty-printer
// components into a single handle type usable by a calling program.
package extfs

import (
	"github.com/pkg/errors"

	"github.com/jchank/extedit/pkg/extfs/model"
)

// Sentinel error categories, re-exported from model (the lowest package in
// the dependency graph) so every layer wraps and returns the same values.
// Open, I/O, layout-validation and addressing failures can be matched
// against one of these with errors.Is; argument and decode errors (such as
// an editor byte position out of range) are plain errors that match none of
// them. The original OS/IO error text, where one exists, is folded into the
// wrapping message rather than recoverable as a separate cause.
var (
	ErrOpen               = model.ErrOpen
	ErrNotExtFilesystem   = model.ErrNotExtFilesystem
	ErrUnsupportedBlock   = model.ErrUnsupportedBlock
	ErrUnsupportedFeature = model.ErrUnsupportedFeature
	ErrOutOfRange         = model.ErrOutOfRange
	ErrReadOnly           = model.ErrReadOnly
	ErrIO                 = model.ErrIO
)

// wrap annotates err with msg while preserving cause for errors.Cause, only
// when err is non-nil.
func wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, msg)
}
