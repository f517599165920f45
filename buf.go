package sevm

import (
	"fmt"

	"github.com/holiman/uint256"
)

// Buf represents a byte buffer expression. Buffers extend infinitely to the
// right; any index past the explicit contents reads as zero.
type Buf interface {
	Node
	buf()
}

func (*EmptyBuf) buf()      {}
func (*ConcreteBuf) buf()   {}
func (*AbstractBuf) buf()   {}
func (*WriteByteExpr) buf() {}
func (*WriteWordExpr) buf() {}
func (*CopySliceExpr) buf() {}

// EmptyBuf represents an all-zero buffer.
type EmptyBuf struct{}

// String returns the string representation of the buffer.
func (e *EmptyBuf) String() string {
	return "(empty-buf)"
}

// ConcreteBuf represents a buffer with a known byte prefix.
type ConcreteBuf struct {
	Data []byte
}

// NewConcreteBuf returns a concrete buffer holding a copy of data.
func NewConcreteBuf(data []byte) *ConcreteBuf {
	b := make([]byte, len(data))
	copy(b, data)
	return &ConcreteBuf{Data: b}
}

// String returns the string representation of the buffer.
func (e *ConcreteBuf) String() string {
	return fmt.Sprintf("(concrete-buf %x)", e.Data)
}

// AbstractBuf represents a buffer with fully unknown contents.
type AbstractBuf struct {
	Name string
}

// NewAbstractBuf returns a new symbolic buffer.
func NewAbstractBuf(name string) *AbstractBuf {
	return &AbstractBuf{Name: name}
}

// String returns the string representation of the buffer.
func (e *AbstractBuf) String() string {
	return fmt.Sprintf("(abstract-buf %s)", e.Name)
}

// WriteByteExpr represents a single byte overlaid on a base buffer.
type WriteByteExpr struct {
	Index Word
	Value Byte
	Base  Buf
}

// String returns the string representation of the buffer.
func (e *WriteByteExpr) String() string {
	return fmt.Sprintf("(write-byte %s %s %s)", e.Index, e.Value, e.Base)
}

// WriteWordExpr represents a 32-byte big-endian word overlaid on a base
// buffer at Index..Index+31.
type WriteWordExpr struct {
	Index Word
	Value Word
	Base  Buf
}

// String returns the string representation of the buffer.
func (e *WriteWordExpr) String() string {
	return fmt.Sprintf("(write-word %s %s %s)", e.Index, e.Value, e.Base)
}

// CopySliceExpr represents Size bytes of Src starting at SrcOff overlaid on
// Dst starting at DstOff. Indexes outside the copied region resolve to Dst.
type CopySliceExpr struct {
	SrcOff Word
	DstOff Word
	Size   Word
	Src    Buf
	Dst    Buf
}

// String returns the string representation of the buffer.
func (e *CopySliceExpr) String() string {
	return fmt.Sprintf("(copy-slice %s %s %s %s %s)", e.SrcOff, e.DstOff, e.Size, e.Src, e.Dst)
}

// ReadByte returns the byte of buf at idx.
//
// The overlay chain is walked iteratively toward the base. At each overlay
// the read either resolves inside the overlay's region, skips past it, or
// stops with a residual read expression when the overlap is undecidable.
func ReadByte(idx Word, buf Buf) Byte {
	i, concrete := idx.(*Lit)
	for {
		switch b := buf.(type) {
		case *EmptyBuf:
			return &LitByte{}

		case *ConcreteBuf:
			if !concrete {
				return &ReadByteExpr{Index: idx, Buf: buf}
			}
			if !i.Val.IsUint64() || i.Val.Uint64() >= uint64(len(b.Data)) {
				return &LitByte{}
			}
			return &LitByte{Val: b.Data[i.Val.Uint64()]}

		case *WriteByteExpr:
			if !concrete {
				return &ReadByteExpr{Index: idx, Buf: buf}
			}
			j, ok := b.Index.(*Lit)
			if !ok {
				return &ReadByteExpr{Index: idx, Buf: buf}
			}
			if j.Val.Eq(&i.Val) {
				return b.Value
			}
			buf = b.Base

		case *WriteWordExpr:
			if !concrete {
				return &ReadByteExpr{Index: idx, Buf: buf}
			}
			j, ok := b.Index.(*Lit)
			if !ok {
				return &ReadByteExpr{Index: idx, Buf: buf}
			}
			if d, inside := offsetWithin(&i.Val, &j.Val, 32); inside {
				return IndexWord(NewLit64(d), b.Value)
			}
			buf = b.Base

		case *CopySliceExpr:
			if !concrete {
				return &ReadByteExpr{Index: idx, Buf: buf}
			}
			dstOff, ok := b.DstOff.(*Lit)
			if !ok {
				return &ReadByteExpr{Index: idx, Buf: buf}
			}

			size, sizeOK := b.Size.(*Lit)
			if !sizeOK {
				// Reads below the destination offset cannot be covered by
				// the copy, whatever its size.
				if i.Val.Lt(&dstOff.Val) {
					buf = b.Dst
					continue
				}
				return &ReadByteExpr{Index: idx, Buf: buf}
			}

			var rel uint256.Int
			rel.Sub(&i.Val, &dstOff.Val)
			if i.Val.Lt(&dstOff.Val) || !rel.Lt(&size.Val) {
				buf = b.Dst
				continue
			}

			srcOff, ok := b.SrcOff.(*Lit)
			if !ok {
				return &ReadByteExpr{Index: idx, Buf: buf}
			}

			// Re-anchor the read inside the source buffer.
			var si uint256.Int
			si.Add(&rel, &srcOff.Val)
			i = &Lit{Val: si}
			idx = i
			buf = b.Src

		default:
			return &ReadByteExpr{Index: idx, Buf: buf}
		}
	}
}

// offsetWithin returns i-base and whether i falls within [base, base+width).
func offsetWithin(i, base *uint256.Int, width uint64) (uint64, bool) {
	if i.Lt(base) {
		return 0, false
	}
	var d uint256.Int
	d.Sub(i, base)
	if !d.LtUint64(width) {
		return 0, false
	}
	return d.Uint64(), true
}

// ReadBytes returns the word formed by n consecutive bytes of buf starting
// at idx, left-padded with zeroes. n is clamped to [0, 32].
func ReadBytes(n int, idx Word, buf Buf) Word {
	if n < 0 {
		n = 0
	} else if n > 32 {
		n = 32
	}
	bs := make([]Byte, n)
	for k := range bs {
		bs[k] = ReadByte(NewBinaryExpr(ADD, idx, NewLit64(uint64(k))), buf)
	}
	return JoinBytes(bs...)
}

// ReadWord returns the 32-byte big-endian word of buf at idx.
//
// A word write at exactly idx resolves to the written word; word writes
// provably disjoint from [idx, idx+32) are skipped. Otherwise the word is
// assembled byte by byte and folds to a literal when every byte resolves to
// a literal.
func ReadWord(idx Word, buf Buf) Word {
	i, concrete := idx.(*Lit)
	for {
		w, ok := buf.(*WriteWordExpr)
		if !ok {
			break
		}
		if CompareWord(idx, w.Index) == 0 {
			return w.Value
		}
		j, ok := w.Index.(*Lit)
		if !concrete || !ok || wordsOverlap(&i.Val, &j.Val) {
			break
		}
		buf = w.Base
	}

	if !concrete {
		return &ReadWordExpr{Index: idx, Buf: buf}
	}

	var data [32]byte
	for k := 0; k < 32; k++ {
		var ki uint256.Int
		ki.AddUint64(&i.Val, uint64(k))
		b, ok := ReadByte(&Lit{Val: ki}, buf).(*LitByte)
		if !ok {
			return &ReadWordExpr{Index: idx, Buf: buf}
		}
		data[k] = b.Val
	}

	var v uint256.Int
	v.SetBytes(data[:])
	return &Lit{Val: v}
}

// wordsOverlap returns whether the 32-byte windows at i and j intersect.
func wordsOverlap(i, j *uint256.Int) bool {
	var d uint256.Int
	if i.Lt(j) {
		d.Sub(j, i)
	} else {
		d.Sub(i, j)
	}
	return d.LtUint64(32)
}

// WriteByte returns buf with val written at idx.
// Folds into the underlying bytes when idx, val & buf are all concrete.
func WriteByte(idx Word, val Byte, buf Buf) Buf {
	i, iOK := usableIndex(idx)
	v, vOK := val.(*LitByte)
	if iOK && vOK {
		if data, ok := concreteData(buf); ok {
			out := concreteGrow(data, i+1)
			out[i] = v.Val
			return &ConcreteBuf{Data: out}
		}
	}
	return &WriteByteExpr{Index: idx, Value: val, Base: buf}
}

// WriteWord returns buf with the 32-byte big-endian encoding of val written
// at idx..idx+31. Folds into the underlying bytes when everything is
// concrete.
func WriteWord(idx, val Word, buf Buf) Buf {
	i, iOK := usableIndex(idx)
	v, vOK := val.(*Lit)
	if iOK && vOK {
		if data, ok := concreteData(buf); ok {
			out := concreteGrow(data, i+32)
			b32 := v.Val.Bytes32()
			copy(out[i:], b32[:])
			return &ConcreteBuf{Data: out}
		}
	}
	return &WriteWordExpr{Index: idx, Value: val, Base: buf}
}

// CopySlice returns dst with size bytes of src starting at srcOff written at
// dstOff. Folds into the underlying bytes when the offsets are concrete and
// every copied byte resolves to a literal.
func CopySlice(srcOff, dstOff, size Word, src, dst Buf) Buf {
	// A zero-sized copy changes nothing.
	if size, ok := size.(*Lit); ok && size.Val.IsZero() {
		return dst
	}

	so, soOK := usableIndex(srcOff)
	do, doOK := usableIndex(dstOff)
	n, nOK := usableIndex(size)
	if soOK && doOK && nOK {
		if ddata, ok := concreteData(dst); ok {
			out := concreteGrow(ddata, do+n)
			if sdata, ok := concreteData(src); ok {
				for k := 0; k < n; k++ {
					if so+k < len(sdata) {
						out[do+k] = sdata[so+k]
					} else {
						out[do+k] = 0
					}
				}
				return &ConcreteBuf{Data: out}
			}

			// Symbolic source over a concrete destination: fold only if
			// every copied byte reads back as a literal.
			allLit := true
			for k := 0; k < n && allLit; k++ {
				if b, ok := ReadByte(NewLit64(uint64(so+k)), src).(*LitByte); ok {
					out[do+k] = b.Val
				} else {
					allLit = false
				}
			}
			if allLit {
				return &ConcreteBuf{Data: out}
			}
		}
	}

	// Copying zeroes over zeroes yields zeroes, whatever the offsets.
	if _, ok := src.(*EmptyBuf); ok {
		if _, ok := dst.(*EmptyBuf); ok {
			return dst
		}
	}

	return &CopySliceExpr{SrcOff: srcOff, DstOff: dstOff, Size: size, Src: src, Dst: dst}
}

// BaseBuf peels all write overlays off buf, following the destination branch
// of copies, and returns the underlying buffer. The result's length is a
// lower bound on the length of buf.
func BaseBuf(buf Buf) Buf {
	for {
		switch b := buf.(type) {
		case *WriteByteExpr:
			buf = b.Base
		case *WriteWordExpr:
			buf = b.Base
		case *CopySliceExpr:
			buf = b.Dst
		default:
			return buf
		}
	}
}

// concreteData returns the explicit bytes of buf when buf is a concrete
// leaf. EmptyBuf has no explicit bytes.
func concreteData(buf Buf) ([]byte, bool) {
	switch buf := buf.(type) {
	case *EmptyBuf:
		return nil, true
	case *ConcreteBuf:
		return buf.Data, true
	default:
		return nil, false
	}
}

// concreteGrow copies data into a fresh slice of at least n bytes,
// zero-padding on the right.
func concreteGrow(data []byte, n int) []byte {
	if len(data) > n {
		n = len(data)
	}
	out := make([]byte, n)
	copy(out, data)
	return out
}
