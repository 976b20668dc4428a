package file

import (
	"github.com/bietkhonhungvandi212/bufmgr/internal/storage/page"
	utils "github.com/bietkhonhungvandi212/bufmgr/internal/utils"
)

// Filer is the disk side of the buffer pool: page-granular reads and writes
// plus allocation of contiguous page runs.
type Filer interface {
	ReadPage(pageId utils.PageID, dst *page.Page) error
	WritePage(pageId utils.PageID, src *page.Page) error
	AllocateRun(count int) (utils.PageID, error)
	DeallocatePage(pageId utils.PageID) error
}

// firstFit returns the start of the first run of count free slots among the
// n existing slots. If none exists the run starts at the trailing free
// slots (or at n) and extends past the end.
func firstFit(n int, allocated func(i int) bool, count int) int {
	run := 0
	for i := 0; i < n; i++ {
		if allocated(i) {
			run = 0
			continue
		}
		run++
		if run == count {
			return i - count + 1
		}
	}
	return n - run
}
