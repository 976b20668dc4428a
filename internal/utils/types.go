package util

import (
	"fmt"
)

// PageID represents a unique page identifier
type PageID uint64

// PageSize represents the standard page size (4KB)
const PageSize = 4096

// MAX_MAP_SIZE bounds the size of a mapped data file (4GB)
const MAX_MAP_SIZE int64 = 1 << 32

// ErrorType represents different types of database errors
type ErrorType int

const (
	ErrTypeIOError ErrorType = iota
	ErrTypeCorruption
)

func (t ErrorType) String() string {
	switch t {
	case ErrTypeIOError:
		return "io"
	case ErrTypeCorruption:
		return "corruption"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

// DatabaseError represents a database-specific error
type DatabaseError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

func (e *DatabaseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("bufmgr error [%s]: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("bufmgr error [%s]: %s", e.Type, e.Message)
}

func (e *DatabaseError) Unwrap() error {
	return e.Cause
}

// WithContext attaches a key/value pair and returns the same error
func (e *DatabaseError) WithContext(key string, value interface{}) *DatabaseError {
	e.Context[key] = value
	return e
}

// NewDatabaseError creates a new database error
func NewDatabaseError(errType ErrorType, message string, cause error) *DatabaseError {
	return &DatabaseError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// Options represents storage and buffer configuration
type Options struct {
	Path           string
	BufferPoolSize int
	InitialPages   int
	SyncWrites     bool
	LogLevel       string
	LogPath        string
}

// DefaultOptions returns default options
func DefaultOptions() Options {
	return Options{
		Path:           "bufmgr.dat",
		BufferPoolSize: 1000, // 4MB default buffer pool
		InitialPages:   16,
		SyncWrites:     false,
		LogLevel:       "info",
	}
}

// Validate checks the numeric options
func (o Options) Validate() error {
	if o.BufferPoolSize <= 0 {
		return ErrInvalidPoolSize
	}
	if o.InitialPages <= 0 {
		return ErrInvalidInitialPages
	}
	return nil
}
