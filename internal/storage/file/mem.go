package file

import (
	"fmt"
	"sync"

	"github.com/bietkhonhungvandi212/bufmgr/internal/storage/page"
	util "github.com/bietkhonhungvandi212/bufmgr/internal/utils"
)

// MemDisk is a Filer that keeps pages in memory. It counts reads and writes
// so callers can assert on the I/O a buffer pool performed.
type MemDisk struct {
	pages     map[util.PageID]*page.Page
	nextPage  util.PageID
	numReads  int
	numWrites int
	mu        sync.RWMutex
}

func NewMemDisk() *MemDisk {
	return &MemDisk{
		pages: make(map[util.PageID]*page.Page),
	}
}

func (d *MemDisk) ReadPage(pageId util.PageID, dst *page.Page) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.pages[pageId]
	if !ok {
		return fmt.Errorf("page %d: %w", pageId, util.ErrPageNotAllocated)
	}
	d.numReads++
	dst.CopyFrom(p)
	return nil
}

func (d *MemDisk) WritePage(pageId util.PageID, src *page.Page) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.pages[pageId]
	if !ok {
		return fmt.Errorf("page %d: %w", pageId, util.ErrPageNotAllocated)
	}
	d.numWrites++
	p.CopyFrom(src)
	p.Header.PageID = pageId
	return nil
}

func (d *MemDisk) AllocateRun(count int) (util.PageID, error) {
	if count <= 0 {
		return 0, util.ErrInvalidRunLength
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	start := firstFit(int(d.nextPage), func(i int) bool {
		_, ok := d.pages[util.PageID(i)]
		return ok
	}, count)
	for i := start; i < start+count; i++ {
		d.pages[util.PageID(i)] = &page.Page{Header: page.PageHeader{PageID: util.PageID(i)}}
	}
	if end := util.PageID(start + count); end > d.nextPage {
		d.nextPage = end
	}
	return util.PageID(start), nil
}

func (d *MemDisk) DeallocatePage(pageId util.PageID) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.pages[pageId]; !ok {
		return fmt.Errorf("page %d: %w", pageId, util.ErrPageNotAllocated)
	}
	delete(d.pages, pageId)
	return nil
}

// Peek returns a copy of the stored page without counting a read
func (d *MemDisk) Peek(pageId util.PageID) (*page.Page, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.pages[pageId]
	if !ok {
		return nil, false
	}
	cp := *p
	return &cp, true
}

func (d *MemDisk) NumReads() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.numReads
}

func (d *MemDisk) NumWrites() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.numWrites
}
