package buffer

import (
	"github.com/bietkhonhungvandi212/bufmgr/internal/storage/page"
	util "github.com/bietkhonhungvandi212/bufmgr/internal/utils"
)

// Frame is one slot of the pool: a page-sized buffer plus the metadata the
// pool keeps about it. It carries no policy and performs no I/O.
type Frame struct {
	page       page.Page
	pageID     util.PageID // meaningful only when valid
	pinCount   int32
	valid      bool
	dirty      bool
	referenced bool
}

func (f *Frame) Pin() {
	f.pinCount++
}

func (f *Frame) Unpin() error {
	if f.pinCount <= 0 {
		return util.ErrPageNotPinned
	}
	f.pinCount--
	return nil
}

func (f *Frame) IsUnpinned() bool { return f.pinCount == 0 }
func (f *Frame) PinCount() int32  { return f.pinCount }

func (f *Frame) SetDirty(dirty bool) { f.dirty = dirty }
func (f *Frame) IsDirty() bool       { return f.dirty }

func (f *Frame) SetReferenced(referenced bool) { f.referenced = referenced }
func (f *Frame) IsReferenced() bool            { return f.referenced }

func (f *Frame) SetValid(valid bool) { f.valid = valid }
func (f *Frame) IsValid() bool       { return f.valid }

func (f *Frame) SetPageID(pageID util.PageID) { f.pageID = pageID }
func (f *Frame) PageID() util.PageID          { return f.pageID }

// Page returns the live page buffer of the frame
func (f *Frame) Page() *page.Page { return &f.page }

func (f *Frame) CopyFrom(src *page.Page) { f.page.CopyFrom(src) }

// Reset returns the frame to the invalid state. Page bytes are left as is.
func (f *Frame) Reset() {
	f.pageID = 0
	f.pinCount = 0
	f.valid = false
	f.dirty = false
	f.referenced = false
}
