package page

import (
	"encoding/binary"

	"github.com/OneOfOne/xxhash"

	util "github.com/bietkhonhungvandi212/bufmgr/internal/utils"
)

const (
	HEADER_SIZE = 16 // Size of PageHeader struct: PageID(8) + Checksum(4) + Flags(2) + padding(2)
	DATA_SIZE   = util.PageSize - HEADER_SIZE
)

const (
	// FlagAllocated marks a disk slot that belongs to an allocated page
	FlagAllocated uint16 = 1 << iota
)

// Page is block that read/write from disk
type Page struct {
	Header PageHeader
	Data   [DATA_SIZE]byte
}

type PageHeader struct {
	PageID   util.PageID // 8 bytes
	Checksum uint32      // 4 bytes
	Flags    uint16      // 2 bytes
	_        uint16      //2 bytes (padding)
}

func (h *PageHeader) SetFlag(flag uint16)      { h.Flags |= flag }
func (h *PageHeader) ClearFlag(flag uint16)    { h.Flags &^= flag }
func (h *PageHeader) HasFlag(flag uint16) bool { return h.Flags&flag != 0 }

func (h *PageHeader) IsAllocated() bool { return h.HasFlag(FlagAllocated) }

// Reset zeroes header and data in place
func (p *Page) Reset() {
	*p = Page{}
}

// CopyFrom overwrites p with the contents of src
func (p *Page) CopyFrom(src *Page) {
	*p = *src
}

// Checksum computes the checksum of the data section
func (p *Page) Checksum() uint32 {
	return xxhash.Checksum32(p.Data[:])
}

// Serialize packs the page into a byte slice for writing
func (p *Page) Serialize() []byte {
	buf := make([]byte, util.PageSize)
	p.SerializeTo(buf)
	return buf
}

// SerializeTo packs the page into buf, which must hold at least PageSize bytes.
// The checksum is recomputed from Data and stored in the header.
func (p *Page) SerializeTo(buf []byte) {
	p.Header.Checksum = p.Checksum()
	binary.LittleEndian.PutUint64(buf[0:8], uint64(p.Header.PageID))
	binary.LittleEndian.PutUint32(buf[8:12], p.Header.Checksum)
	binary.LittleEndian.PutUint16(buf[12:14], p.Header.Flags)
	binary.LittleEndian.PutUint16(buf[14:16], 0)

	copy(buf[HEADER_SIZE:util.PageSize], p.Data[:])
}

// DecodeHeader reads only the header from data
func DecodeHeader(data []byte) (PageHeader, error) {
	if len(data) < HEADER_SIZE {
		return PageHeader{}, util.ErrInvalidPageSize
	}
	return PageHeader{
		PageID:   util.PageID(binary.LittleEndian.Uint64(data[0:8])),
		Checksum: binary.LittleEndian.Uint32(data[8:12]),
		Flags:    binary.LittleEndian.Uint16(data[12:14]),
	}, nil
}

// Deserialize unpacks from bytes, validates checksum
func Deserialize(data []byte) (*Page, error) {
	p := &Page{}
	if err := DeserializeInto(data, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeserializeInto unpacks data into an existing page, validating the checksum
func DeserializeInto(data []byte, p *Page) error {
	if len(data) < util.PageSize {
		return util.ErrInvalidPageSize
	}
	header, err := DecodeHeader(data)
	if err != nil {
		return err
	}

	p.Header = header
	copy(p.Data[:], data[HEADER_SIZE:util.PageSize])

	if p.Checksum() != header.Checksum {
		return util.ErrChecksumMismatch
	}
	return nil
}
