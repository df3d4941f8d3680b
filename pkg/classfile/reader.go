package classfile

import "encoding/binary"

// reader is a position-tracked cursor over class data. All multi-byte
// reads are big-endian. Every read bounds-checks first; running off the
// end yields ErrUnexpectedEOF rather than a panic.
type reader struct {
	data []byte
	off  int
}

func newReader(data []byte) *reader {
	return &reader{data: data}
}

func (r *reader) pos() int {
	return r.off
}

func (r *reader) remaining() int {
	return len(r.data) - r.off
}

func (r *reader) u8() (uint8, error) {
	if r.off+1 > len(r.data) {
		return 0, ErrUnexpectedEOF
	}
	v := r.data[r.off]
	r.off++
	return v, nil
}

func (r *reader) u16() (uint16, error) {
	if r.off+2 > len(r.data) {
		return 0, ErrUnexpectedEOF
	}
	v := binary.BigEndian.Uint16(r.data[r.off:])
	r.off += 2
	return v, nil
}

func (r *reader) u32() (uint32, error) {
	if r.off+4 > len(r.data) {
		return 0, ErrUnexpectedEOF
	}
	v := binary.BigEndian.Uint32(r.data[r.off:])
	r.off += 4
	return v, nil
}

func (r *reader) bytes(n int) ([]byte, error) {
	if n < 0 || r.off+n > len(r.data) {
		return nil, ErrUnexpectedEOF
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *reader) skip(n int) error {
	if n < 0 || r.off+n > len(r.data) {
		return ErrUnexpectedEOF
	}
	r.off += n
	return nil
}

// sub carves off the next n bytes as an independent cursor. Used for
// length-prefixed attribute payloads so a short payload cannot desync
// the enclosing structure.
func (r *reader) sub(n int) (*reader, error) {
	b, err := r.bytes(n)
	if err != nil {
		return nil, err
	}
	return &reader{data: b}, nil
}
