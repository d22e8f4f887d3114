// Package reader provides the mmap-backed types.Reader implementation. Handles
// are cell offsets relative to the first hive bin; every structure is bounds
// checked and malformed input yields a typed error instead of a panic.
package reader

import (
	"errors"
	"fmt"

	"github.com/joshuapare/hivexcavator/internal/buf"
	"github.com/joshuapare/hivexcavator/internal/format"
	"github.com/joshuapare/hivexcavator/internal/mmfile"
	"github.com/joshuapare/hivexcavator/pkg/types"
)

// defaultMaxCellSize caps any single cell or assembled value.
const defaultMaxCellSize = 64 << 20

// Open maps the hive at path and returns a types.Reader over it. The mapping
// is released by Close, or before returning when the hive is rejected.
func Open(path string, opts types.OpenOptions) (types.Reader, error) {
	data, unmap, err := mmfile.Map(path)
	if err != nil {
		return nil, &types.Error{Kind: types.ErrKindState, Msg: fmt.Sprintf("open hive %s", path), Err: err}
	}
	r, err := newReader(data, unmap, opts)
	if err != nil {
		_ = unmap()
		return nil, err
	}
	r.path = path
	return r, nil
}

// OpenBytes creates a reader backed by b. The caller keeps ownership of b and
// must not modify it while the reader is in use.
func OpenBytes(b []byte, opts types.OpenOptions) (types.Reader, error) {
	r, err := newReader(b, nil, opts)
	if err != nil {
		return nil, err
	}
	return r, nil
}

type reader struct {
	buf       []byte
	unmap     func() error
	opts      types.OpenOptions
	head      format.Header
	path      string
	closed    bool
	hbinIndex []hbinIndexEntry // built at open, in file order
}

// hbinIndexEntry stores the absolute position of one hive bin.
type hbinIndexEntry struct {
	offset int
	size   int
}

func newReader(b []byte, unmap func() error, opts types.OpenOptions) (*reader, error) {
	head, err := format.ParseHeader(b)
	if err != nil {
		return nil, wrapFormatErr(err)
	}
	if opts.MaxCellSize <= 0 {
		opts.MaxCellSize = defaultMaxCellSize
	}
	r := &reader{
		buf:   b,
		unmap: unmap,
		opts:  opts,
		head:  head,
	}
	// Open succeeds only when every hive bin is structurally sound, so cell
	// reads later only need to locate their bin.
	if err := r.indexHBINs(); err != nil {
		return nil, err
	}
	return r, nil
}

// Close releases the mapping. Calling it again is a no-op.
func (r *reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	if r.unmap != nil {
		return r.unmap()
	}
	return nil
}

func (r *reader) ensureOpen() error {
	if r.closed {
		return types.ErrClosed
	}
	return nil
}

func (r *reader) Info() types.HiveInfo {
	name := r.head.FileName()
	if name == "" {
		name = r.path
	}
	return types.HiveInfo{
		PrimarySequence:   r.head.PrimarySequence,
		SecondarySequence: r.head.SecondarySequence,
		LastWrite:         format.FiletimeToTime(r.head.LastWriteRaw),
		MajorVersion:      r.head.MajorVersion,
		MinorVersion:      r.head.MinorVersion,
		Type:              r.head.Type,
		RootCellOffset:    r.head.RootCellOffset,
		HiveBinsDataSize:  r.head.HiveBinsDataSize,
		FileName:          name,
	}
}

func (r *reader) Root() (types.NodeID, error) {
	if err := r.ensureOpen(); err != nil {
		return 0, err
	}
	return types.NodeID(r.head.RootCellOffset), nil
}

// indexHBINs walks the bins declared by the header and records their bounds.
func (r *reader) indexHBINs() error {
	offset := format.HeaderSize
	dataEnd := format.HeaderSize + int(r.head.HiveBinsDataSize)
	if dataEnd > len(r.buf) {
		return &types.Error{
			Kind: types.ErrKindFormat,
			Msg:  fmt.Sprintf("hbin data size %d exceeds file size %d", r.head.HiveBinsDataSize, len(r.buf)),
			Err:  types.ErrCorrupt,
		}
	}

	r.hbinIndex = make([]hbinIndexEntry, 0, 4)
	for offset < dataEnd {
		hbin, next, err := format.NextHBIN(r.buf, offset)
		if err != nil {
			return wrapCorruptErr(err)
		}
		r.hbinIndex = append(r.hbinIndex, hbinIndexEntry{offset: offset, size: int(hbin.Size)})
		offset = next
	}
	if len(r.hbinIndex) == 0 {
		return &types.Error{Kind: types.ErrKindCorrupt, Msg: "hive has no hbins", Err: types.ErrCorrupt}
	}
	return nil
}

// cell returns the allocated cell at offset (relative to the first bin).
func (r *reader) cell(offset uint32) (format.Cell, error) {
	abs, ok := buf.AddOverflowSafe(format.HeaderSize, int(offset))
	if !ok || offset == format.InvalidOffset || abs+format.CellHeaderSize > len(r.buf) {
		return format.Cell{}, &types.Error{
			Kind: types.ErrKindCorrupt,
			Msg:  fmt.Sprintf("cell offset %#x out of range", offset),
			Err:  types.ErrCorrupt,
		}
	}
	if offset%format.CellAlignment != 0 {
		return format.Cell{}, &types.Error{
			Kind: types.ErrKindCorrupt,
			Msg:  fmt.Sprintf("cell offset %#x not aligned", offset),
			Err:  types.ErrCorrupt,
		}
	}

	data, err := r.readCellData(abs)
	if err != nil {
		return format.Cell{}, err
	}
	c, err := format.ParseCell(data)
	if err != nil {
		return format.Cell{}, wrapCorruptErr(err)
	}
	if c.Free {
		return format.Cell{}, wrapCorruptErr(fmt.Errorf("cell %#x: %w", offset, format.ErrFreeCell))
	}
	if c.Size > r.opts.MaxCellSize {
		return format.Cell{}, &types.Error{
			Kind: types.ErrKindCorrupt,
			Msg:  fmt.Sprintf("cell %#x exceeds MaxCellSize", offset),
			Err:  types.ErrCorrupt,
		}
	}
	return c, nil
}

// findHBIN returns the bin containing the absolute offset.
func (r *reader) findHBIN(abs int) (hbinIndexEntry, error) {
	for _, e := range r.hbinIndex {
		if abs >= e.offset+format.HBINHeaderSize && abs < e.offset+e.size {
			return e, nil
		}
	}
	return hbinIndexEntry{}, &types.Error{
		Kind: types.ErrKindCorrupt,
		Msg:  fmt.Sprintf("offset %#x not in any hbin", abs),
		Err:  types.ErrCorrupt,
	}
}

// readCellData returns the raw cell (header included) starting at abs. Cells
// that run past their bin continue after the next bin's header; those are
// copied, all others alias the backing buffer.
func (r *reader) readCellData(abs int) ([]byte, error) {
	bin, err := r.findHBIN(abs)
	if err != nil {
		return nil, err
	}
	size := int(buf.I32LE(r.buf[abs:]))
	if size < 0 {
		size = -size
	}
	if size < format.CellHeaderSize {
		return nil, &types.Error{Kind: types.ErrKindCorrupt, Msg: "cell size too small", Err: types.ErrCorrupt}
	}
	if size > r.opts.MaxCellSize {
		return nil, &types.Error{Kind: types.ErrKindCorrupt, Msg: "cell exceeds MaxCellSize", Err: types.ErrCorrupt}
	}

	binEnd := bin.offset + bin.size
	if abs+size <= binEnd {
		return r.buf[abs : abs+size], nil
	}

	out := make([]byte, size)
	copied := 0
	cur := abs
	for copied < size {
		bin, err := r.findHBIN(cur)
		if err != nil {
			return nil, err
		}
		n := min(bin.offset+bin.size-cur, size-copied)
		copy(out[copied:], r.buf[cur:cur+n])
		copied += n
		cur = bin.offset + bin.size + format.HBINHeaderSize
	}
	return out, nil
}

// wrapFormatErr maps decoder errors found while opening to typed errors.
func wrapFormatErr(err error) error {
	switch {
	case errors.Is(err, format.ErrSignatureMismatch):
		return &types.Error{Kind: types.ErrKindFormat, Msg: types.ErrNotHive.Msg, Err: err}
	case errors.Is(err, format.ErrTruncated):
		return &types.Error{Kind: types.ErrKindFormat, Msg: "hive truncated", Err: err}
	default:
		return wrapCorruptErr(err)
	}
}

// wrapCorruptErr classifies errors from records reached through offsets; a bad
// signature there means a dangling offset rather than a foreign file.
func wrapCorruptErr(err error) error {
	switch {
	case errors.Is(err, format.ErrFreeCell):
		return &types.Error{Kind: types.ErrKindCorrupt, Msg: "cell marked free", Err: err}
	case errors.Is(err, format.ErrUnsupported):
		return &types.Error{Kind: types.ErrKindUnsupported, Msg: err.Error(), Err: err}
	default:
		return &types.Error{Kind: types.ErrKindCorrupt, Msg: err.Error(), Err: err}
	}
}

var _ types.Reader = (*reader)(nil)
