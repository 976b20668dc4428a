package buffer

import (
	"fmt"
	"strings"

	util "github.com/bietkhonhungvandi212/bufmgr/internal/utils"
)

// Stats counts pool activity since construction
type Stats struct {
	Hits       uint64
	Misses     uint64
	Evictions  uint64
	DiskReads  uint64
	DiskWrites uint64
}

// HitRatio returns the cache hit ratio
func (s Stats) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// FrameInfo is a copy of one frame's metadata
type FrameInfo struct {
	Index      int
	Valid      bool
	PageID     util.PageID
	PinCount   int32
	Dirty      bool
	Referenced bool
}

func (fi FrameInfo) String() string {
	if !fi.Valid {
		return fmt.Sprintf("%d\tfree", fi.Index)
	}
	return fmt.Sprintf("%d\tpage=%d\tpins=%d\tdirty=%t\tref=%t", fi.Index, fi.PageID, fi.PinCount, fi.Dirty, fi.Referenced)
}

func (bp *BufferPool) Stats() Stats {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	return bp.stats
}

// Snapshot returns the metadata of every frame in index order and the clock hand
func (bp *BufferPool) Snapshot() ([]FrameInfo, int) {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	infos := make([]FrameInfo, len(bp.frames))
	for i := range bp.frames {
		f := &bp.frames[i]
		infos[i] = FrameInfo{
			Index:      i,
			Valid:      f.IsValid(),
			PageID:     f.PageID(),
			PinCount:   f.PinCount(),
			Dirty:      f.IsDirty(),
			Referenced: f.IsReferenced(),
		}
	}
	return infos, bp.replacer.Hand()
}

// FlushError lists the pages FlushAll could not write
type FlushError struct {
	Pages []util.PageID
	Errs  []error
}

func (e *FlushError) add(pageID util.PageID, err error) {
	e.Pages = append(e.Pages, pageID)
	e.Errs = append(e.Errs, err)
}

func (e *FlushError) Error() string {
	msgs := make([]string, len(e.Pages))
	for i, pageID := range e.Pages {
		msgs[i] = fmt.Sprintf("page %d: %v", pageID, e.Errs[i])
	}
	return fmt.Sprintf("flush failed for %d page(s): %s", len(e.Pages), strings.Join(msgs, "; "))
}

func (e *FlushError) Unwrap() []error {
	return e.Errs
}
