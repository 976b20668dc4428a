package page

import (
	"testing"

	util "github.com/bietkhonhungvandi212/bufmgr/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerialize(t *testing.T) {
	p := CreateTestPage(7, []byte("hello page"))
	p.Header.SetFlag(FlagAllocated)

	buf := p.Serialize()
	require.Len(t, buf, util.PageSize, "serialized length")

	header, err := DecodeHeader(buf)
	require.NoError(t, err)
	assert.Equal(t, util.PageID(7), header.PageID, "page id")
	assert.True(t, header.IsAllocated(), "allocated flag")
	assert.Equal(t, p.Checksum(), header.Checksum, "checksum stored")
	assert.Equal(t, "hello page", string(buf[HEADER_SIZE:HEADER_SIZE+10]), "data after header")
}

func TestDeserialize(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		p := CreateTestPage(3, []byte("abc"))
		got, err := Deserialize(p.Serialize())
		require.NoError(t, err)
		assert.Equal(t, p.Header.PageID, got.Header.PageID)
		assert.Equal(t, p.Data, got.Data)
	})

	t.Run("ChecksumMismatch", func(t *testing.T) {
		buf := CreateTestPage(3, []byte("abc")).Serialize()
		buf[HEADER_SIZE] ^= 0xFF
		_, err := Deserialize(buf)
		assert.ErrorIs(t, err, util.ErrChecksumMismatch)
	})

	t.Run("ShortBuffer", func(t *testing.T) {
		_, err := Deserialize(make([]byte, HEADER_SIZE))
		assert.ErrorIs(t, err, util.ErrInvalidPageSize)
		_, err = DecodeHeader(make([]byte, 4))
		assert.ErrorIs(t, err, util.ErrInvalidPageSize)
	})
}

func TestFlags(t *testing.T) {
	var h PageHeader
	assert.False(t, h.IsAllocated())
	h.SetFlag(FlagAllocated)
	assert.True(t, h.HasFlag(FlagAllocated))
	h.ClearFlag(FlagAllocated)
	assert.False(t, h.IsAllocated())
}

func TestCopyAndReset(t *testing.T) {
	src := CreateTestPage(9, []byte("payload"))
	var dst Page
	dst.CopyFrom(src)
	assert.Equal(t, src.Data, dst.Data)

	src.Data[0] = 'P'
	assert.Equal(t, byte('p'), dst.Data[0], "copy must not alias source")

	dst.Reset()
	assert.Equal(t, Page{}, dst)
}
