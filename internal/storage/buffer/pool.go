package buffer

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/bietkhonhungvandi212/bufmgr/internal/storage/file"
	"github.com/bietkhonhungvandi212/bufmgr/internal/storage/page"
	util "github.com/bietkhonhungvandi212/bufmgr/internal/utils"
)

// FillMode tells PinPage where the contents of a newly cached page come from.
type FillMode int

const (
	// FromDisk reads the page through the disk collaborator.
	FromDisk FillMode = iota
	// FromCaller copies a caller supplied page into the frame.
	FromCaller
	// Uninitialized leaves the frame bytes alone; the caller overwrites them.
	Uninitialized
)

func (m FillMode) String() string {
	switch m {
	case FromDisk:
		return "disk"
	case FromCaller:
		return "caller"
	case Uninitialized:
		return "uninitialized"
	default:
		return fmt.Sprintf("FillMode(%d)", int(m))
	}
}

// BufferPool caches disk pages in a fixed array of frames. A frame is
// identified by its index; pageToIdx maps every cached page to its frame.
// One mutex guards frames, mapping, clock hand and stats, and is held
// across the disk I/O an operation performs.
type BufferPool struct {
	frames    []Frame
	pageToIdx map[util.PageID]int
	replacer  Replacer
	fm        file.Filer
	log       logrus.FieldLogger
	stats     Stats

	mu sync.Mutex
}

type Option func(*BufferPool)

func WithLogger(log logrus.FieldLogger) Option {
	return func(bp *BufferPool) {
		bp.log = log
	}
}

func WithReplacer(r Replacer) Option {
	return func(bp *BufferPool) {
		bp.replacer = r
	}
}

func NewBufferPool(size int, filer file.Filer, opts ...Option) *BufferPool {
	if size <= 0 {
		panic(util.ErrInvalidPoolSize)
	}
	if filer == nil {
		panic(util.ErrFileManagerNil)
	}

	bp := &BufferPool{
		frames:    make([]Frame, size),
		pageToIdx: make(map[util.PageID]int, size),
		fm:        filer,
	}
	for _, opt := range opts {
		opt(bp)
	}
	if bp.replacer == nil {
		bp.replacer = NewClockReplacer()
	}
	if bp.log == nil {
		bp.log = logrus.StandardLogger()
	}
	bp.log = bp.log.WithField("component", "bufferpool")

	return bp
}

// PinPage makes pageID resident and adds one pin to it. The returned page is
// the frame's own buffer; writes to it are visible in place until unpin.
// src is only read in FromCaller mode on a cache miss.
func (bp *BufferPool) PinPage(pageID util.PageID, mode FillMode, src *page.Page) (*page.Page, error) {
	if mode < FromDisk || mode > Uninitialized {
		return nil, fmt.Errorf("pin page %d: %w", pageID, util.ErrInvalidFillMode)
	}
	if mode == FromCaller && src == nil {
		return nil, fmt.Errorf("pin page %d: nil source page: %w", pageID, util.ErrInvalidFillMode)
	}

	bp.mu.Lock()
	defer bp.mu.Unlock()

	return bp.pinLocked(pageID, mode, src)
}

// UnpinPage drops one pin. dirty declares that the holder modified the page;
// the flag sticks until the page is written back.
func (bp *BufferPool) UnpinPage(pageID util.PageID, dirty bool) error {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	frameIdx, exists := bp.pageToIdx[pageID]
	if !exists {
		return fmt.Errorf("unpin page %d: %w", pageID, util.ErrPageNotPinned)
	}

	frame := &bp.frames[frameIdx]
	if err := frame.Unpin(); err != nil {
		return fmt.Errorf("unpin page %d: %w", pageID, err)
	}
	if frame.IsUnpinned() {
		frame.SetReferenced(true)
	}
	if dirty {
		frame.SetDirty(true)
	}
	return nil
}

// NewPage allocates runLength contiguous pages on disk and pins the first one
// with the contents of src (zeroed when src is nil). Only the first page is
// checked against the pool and cached; the rest of the run belongs to the caller.
func (bp *BufferPool) NewPage(src *page.Page, runLength int) (util.PageID, *page.Page, error) {
	if runLength <= 0 {
		return 0, nil, util.ErrInvalidRunLength
	}
	if src == nil {
		src = &page.Page{}
	}

	bp.mu.Lock()
	defer bp.mu.Unlock()

	firstID, err := bp.fm.AllocateRun(runLength)
	if err != nil {
		return 0, nil, errors.WithMessagef(err, "allocate run of %d", runLength)
	}

	if frameIdx, exists := bp.pageToIdx[firstID]; exists && !bp.frames[frameIdx].IsUnpinned() {
		return 0, nil, fmt.Errorf("new page %d: %w", firstID, util.ErrPageAlreadyPinned)
	}

	p, err := bp.pinLocked(firstID, FromCaller, src)
	if err != nil {
		bp.releaseRun(firstID, runLength)
		return 0, nil, err
	}
	return firstID, p, nil
}

// FreePage deallocates pageID on disk and drops it from the pool without
// writing it back.
func (bp *BufferPool) FreePage(pageID util.PageID) error {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	frameIdx, cached := bp.pageToIdx[pageID]
	if cached && !bp.frames[frameIdx].IsUnpinned() {
		return fmt.Errorf("free page %d: %w", pageID, util.ErrPagePinned)
	}

	if err := bp.fm.DeallocatePage(pageID); err != nil {
		return errors.WithMessagef(err, "free page %d", pageID)
	}

	if cached {
		bp.frames[frameIdx].Reset()
		delete(bp.pageToIdx, pageID)
		bp.log.WithFields(logrus.Fields{"page": pageID, "frame": frameIdx}).Debug("freed cached page")
	}
	return nil
}

// FlushPage writes pageID to disk if it is dirty. Pins are not touched.
func (bp *BufferPool) FlushPage(pageID util.PageID) error {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	frameIdx, exists := bp.pageToIdx[pageID]
	if !exists {
		return fmt.Errorf("flush page %d: %w", pageID, util.ErrPageNotInPool)
	}

	frame := &bp.frames[frameIdx]
	if !frame.IsValid() || !frame.IsDirty() {
		return nil
	}
	if err := bp.writeFrame(frame); err != nil {
		return errors.WithMessagef(err, "flush page %d", pageID)
	}
	return nil
}

// FlushAll writes every valid dirty frame. A failed write does not stop the
// loop; all failures are reported together in a *FlushError.
func (bp *BufferPool) FlushAll() error {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	var flushErr *FlushError
	for i := range bp.frames {
		frame := &bp.frames[i]
		if !frame.IsValid() || !frame.IsDirty() {
			continue
		}
		if err := bp.writeFrame(frame); err != nil {
			if flushErr == nil {
				flushErr = &FlushError{}
			}
			flushErr.add(frame.PageID(), err)
		}
	}

	if flushErr != nil {
		bp.log.WithField("pages", flushErr.Pages).Warn("flush all finished with failures")
		return flushErr
	}
	return nil
}

func (bp *BufferPool) PoolSize() int {
	return len(bp.frames)
}

// UnpinnedCount counts free frames plus cached frames nobody holds
func (bp *BufferPool) UnpinnedCount() int {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	count := 0
	for i := range bp.frames {
		if !bp.frames[i].IsValid() || bp.frames[i].IsUnpinned() {
			count++
		}
	}
	return count
}

// ===================== HELPER FUNCTION =====================
func (bp *BufferPool) pinLocked(pageID util.PageID, mode FillMode, src *page.Page) (*page.Page, error) {
	if frameIdx, exists := bp.pageToIdx[pageID]; exists {
		frame := &bp.frames[frameIdx]
		// a hit keeps the cached bytes; they may hold edits not yet written back
		if mode == FromCaller && !frame.IsUnpinned() {
			return nil, fmt.Errorf("pin page %d: %w", pageID, util.ErrPageAlreadyPinned)
		}
		frame.Pin()
		bp.stats.Hits++
		return frame.Page(), nil
	}

	bp.stats.Misses++
	frameIdx, err := bp.requestFree()
	if err != nil {
		return nil, err
	}

	frame := &bp.frames[frameIdx]
	frame.Reset()
	frame.SetPageID(pageID)

	switch mode {
	case FromDisk:
		if err := bp.fm.ReadPage(pageID, frame.Page()); err != nil {
			frame.Reset()
			return nil, errors.WithMessagef(err, "pin page %d", pageID)
		}
		bp.stats.DiskReads++
	case FromCaller:
		frame.CopyFrom(src)
	}

	frame.SetValid(true)
	frame.Pin()
	bp.pageToIdx[pageID] = frameIdx

	return frame.Page(), nil
}

// requestFree returns the index of a frame ready to take a new page: the
// first invalid frame, or an evicted victim whose dirty content is on disk.
func (bp *BufferPool) requestFree() (int, error) {
	for i := range bp.frames {
		if !bp.frames[i].IsValid() {
			return i, nil
		}
	}

	victimIdx, ok := bp.replacer.Victim(bp.frames)
	if !ok {
		return -1, util.ErrPoolExhausted
	}

	victim := &bp.frames[victimIdx]
	if !victim.IsUnpinned() {
		return -1, fmt.Errorf("frame %d has %d pins: %w", victimIdx, victim.PinCount(), util.ErrInvalidEviction)
	}

	victimID := victim.PageID()
	if victim.IsDirty() {
		if err := bp.writeFrame(victim); err != nil {
			bp.log.WithError(err).WithField("page", victimID).Warn("write back of victim failed")
			return -1, errors.WithMessagef(err, "evict page %d", victimID)
		}
	}

	delete(bp.pageToIdx, victimID)
	victim.Reset()
	bp.stats.Evictions++
	bp.log.WithFields(logrus.Fields{"page": victimID, "frame": victimIdx}).Debug("evicted page")

	return victimIdx, nil
}

func (bp *BufferPool) writeFrame(frame *Frame) error {
	if err := bp.fm.WritePage(frame.PageID(), frame.Page()); err != nil {
		return err
	}
	frame.SetDirty(false)
	bp.stats.DiskWrites++
	return nil
}

// releaseRun gives a freshly allocated run back to disk after the pin of
// its first page failed.
func (bp *BufferPool) releaseRun(firstID util.PageID, runLength int) {
	for i := 0; i < runLength; i++ {
		pageID := firstID + util.PageID(i)
		if err := bp.fm.DeallocatePage(pageID); err != nil {
			bp.log.WithError(err).WithField("page", pageID).Warn("release of allocated page failed")
		}
	}
}
