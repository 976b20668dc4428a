package util

import "errors"

var (
	ErrInvalidPageSize     = errors.New("invalid page size")
	ErrChecksumMismatch    = errors.New("checksum mismatch")
	ErrInvalidInitialPages = errors.New("initial pages must be positive")
	ErrMaxMapSizeExceeded  = errors.New("initial size exceeds maximum mapping size")
	ErrPageAlreadyPinned   = errors.New("page is already pinned")
	ErrPageNotPinned       = errors.New("page is not pinned")
	ErrPagePinned          = errors.New("page is pinned")
	ErrPageNotInPool       = errors.New("page is not in the buffer pool")
	ErrPageNotAllocated    = errors.New("page is not allocated")
	ErrPageOutOfBounds     = errors.New("page out of bounds")
	ErrFileManagerNil      = errors.New("file manager is nil")
	ErrFileDataNil         = errors.New("file data is nil")
	ErrInvalidPoolSize     = errors.New("invalid pool size")
	ErrInvalidRunLength    = errors.New("run length must be positive")
	ErrInvalidFillMode     = errors.New("invalid fill mode")
	ErrInvalidEviction     = errors.New("invalid eviction")
	ErrPoolExhausted       = errors.New("all frames are pinned")
)
