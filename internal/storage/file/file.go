package file

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/bietkhonhungvandi212/bufmgr/internal/storage/page"
	util "github.com/bietkhonhungvandi212/bufmgr/internal/utils"
)

/**
* This module is used to read and write data from / to disk
* we will map the file to memory in disk that facilitate accessility to disk
* The file is an array of PageSize slots, slot i holds page i.
**/
type FileManager struct {
	File *os.File
	Data []byte
	Size int64

	syncWrites bool
	log        logrus.FieldLogger
	mu         sync.RWMutex
}

type Option func(*FileManager)

// WithSyncWrites makes every WritePage fsync the file before returning
func WithSyncWrites(enabled bool) Option {
	return func(fm *FileManager) {
		fm.syncWrites = enabled
	}
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(fm *FileManager) {
		fm.log = log
	}
}

func NewFileManager(path string, initialPages int, opts ...Option) (*FileManager, error) {
	if initialPages <= 0 {
		return nil, util.ErrInvalidInitialPages
	}

	initialSize := int64(initialPages) * int64(util.PageSize)

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o666)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat file: %w", err)
	}
	// keep whatever an earlier run left on disk, rounded up to whole pages
	if existing := roundUpToPage(info.Size()); existing > initialSize {
		initialSize = existing
	}

	fm := &FileManager{File: f}
	for _, opt := range opts {
		opt(fm)
	}
	if fm.log == nil {
		fm.log = logrus.StandardLogger().WithField("component", "filemanager")
	}

	if err := mmap(fm, initialSize); err != nil {
		f.Close()
		return nil, fmt.Errorf("map file fail: %w", err)
	}

	return fm, nil
}

func roundUpToPage(size int64) int64 {
	return (size + util.PageSize - 1) / util.PageSize * util.PageSize
}

// NumPages returns the number of page slots currently in the file
func (fm *FileManager) NumPages() int {
	fm.mu.RLock()
	defer fm.mu.RUnlock()
	return fm.numPages()
}

// IsAllocated reports whether pageId is an allocated page
func (fm *FileManager) IsAllocated(pageId util.PageID) bool {
	fm.mu.RLock()
	defer fm.mu.RUnlock()
	if int64(pageId) >= int64(fm.numPages()) {
		return false
	}
	return fm.allocated(int(pageId))
}

/* READ FILE */
func (fm *FileManager) ReadPage(pageId util.PageID, dst *page.Page) error {
	fm.mu.RLock()
	defer fm.mu.RUnlock()

	slot, err := fm.allocatedSlot(pageId)
	if err != nil {
		return err
	}

	if err := page.DeserializeInto(slot, dst); err != nil {
		return util.NewDatabaseError(util.ErrTypeCorruption, fmt.Sprintf("read page %d", pageId), err).
			WithContext("page", pageId)
	}
	return nil
}

/* WRITE FILE */
func (fm *FileManager) WritePage(pageId util.PageID, src *page.Page) error {
	fm.mu.Lock()
	defer fm.mu.Unlock()

	slot, err := fm.allocatedSlot(pageId)
	if err != nil {
		return err
	}

	stamped := *src
	stamped.Header.PageID = pageId
	stamped.Header.SetFlag(page.FlagAllocated)
	stamped.SerializeTo(slot)

	if fm.syncWrites {
		if err := fm.File.Sync(); err != nil {
			return util.NewDatabaseError(util.ErrTypeIOError, fmt.Sprintf("sync after write of page %d", pageId), err)
		}
	}
	return nil
}

// AllocateRun reserves count contiguous pages (first fit) and returns the
// first id. Each page starts zeroed. The file grows when no run fits.
func (fm *FileManager) AllocateRun(count int) (util.PageID, error) {
	if count <= 0 {
		return 0, util.ErrInvalidRunLength
	}

	fm.mu.Lock()
	defer fm.mu.Unlock()

	start := firstFit(fm.numPages(), fm.allocated, count)
	needed := int64(start+count) * int64(util.PageSize)
	if needed > fm.Size {
		newSize := max(fm.Size*2, needed)
		if newSize > util.MAX_MAP_SIZE {
			newSize = needed
		}
		if err := fm.remap(newSize); err != nil {
			return 0, err
		}
	}

	for i := start; i < start+count; i++ {
		p := page.Page{Header: page.PageHeader{PageID: util.PageID(i)}}
		p.Header.SetFlag(page.FlagAllocated)
		p.SerializeTo(fm.slot(i))
	}
	return util.PageID(start), nil
}

// DeallocatePage releases a single page so a later AllocateRun can reuse it
func (fm *FileManager) DeallocatePage(pageId util.PageID) error {
	fm.mu.Lock()
	defer fm.mu.Unlock()

	slot, err := fm.allocatedSlot(pageId)
	if err != nil {
		return err
	}

	header, err := page.DecodeHeader(slot)
	if err != nil {
		return err
	}
	header.ClearFlag(page.FlagAllocated)
	binary.LittleEndian.PutUint16(slot[12:14], header.Flags)
	return nil
}

/**
* CLOSE FUNCTION
**/
func (fm *FileManager) Close() error {
	if fm == nil {
		return nil // Idempotent
	}
	fm.mu.Lock()
	defer fm.mu.Unlock()

	if fm.File == nil {
		return nil
	}

	var err error
	if e := munmap(fm); e != nil {
		err = fmt.Errorf("[close] unmap file fail: %w", e)
	}
	if e := fm.File.Sync(); e != nil {
		err = errors.Join(err, fmt.Errorf("sync file: %w", e))
	}
	if e := fm.File.Close(); e != nil {
		err = errors.Join(err, fmt.Errorf("close file: %w", e))
	}
	fm.File = nil
	return err
}

// ===================== HELPER FUNCTION =====================
func (fm *FileManager) numPages() int {
	return int(fm.Size / util.PageSize)
}

func (fm *FileManager) slot(i int) []byte {
	offset := int64(i) * util.PageSize
	return fm.Data[offset : offset+util.PageSize]
}

func (fm *FileManager) allocated(i int) bool {
	header, _ := page.DecodeHeader(fm.slot(i))
	return header.IsAllocated()
}

func (fm *FileManager) allocatedSlot(pageId util.PageID) ([]byte, error) {
	if fm.Data == nil {
		return nil, util.ErrFileDataNil
	}
	if int64(pageId) >= int64(fm.numPages()) {
		return nil, fmt.Errorf("page %d: %w", pageId, util.ErrPageOutOfBounds)
	}
	if !fm.allocated(int(pageId)) {
		return nil, fmt.Errorf("page %d: %w", pageId, util.ErrPageNotAllocated)
	}
	return fm.slot(int(pageId)), nil
}

func (fm *FileManager) remap(newSize int64) error {
	if newSize > util.MAX_MAP_SIZE {
		return util.ErrMaxMapSizeExceeded
	}
	if err := munmap(fm); err != nil {
		return fmt.Errorf("[remap] unmap file fail: %w", err)
	}
	if err := mmap(fm, newSize); err != nil {
		return fmt.Errorf("[remap] map file fail: %w", err)
	}
	fm.log.WithField("size", newSize).Debug("data file remapped")
	return nil
}
