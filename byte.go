package sevm

import (
	"fmt"

	"github.com/holiman/uint256"
)

// Byte represents an 8-bit byte expression.
type Byte interface {
	Node
	bval()
}

func (*LitByte) bval()       {}
func (*ReadByteExpr) bval()  {}
func (*IndexWordExpr) bval() {}

// LitByte represents a concrete byte.
type LitByte struct {
	Val byte
}

// NewLitByte returns a literal byte holding v.
func NewLitByte(v byte) *LitByte {
	return &LitByte{Val: v}
}

// String returns the string representation of the literal.
func (e *LitByte) String() string {
	return fmt.Sprintf("(lit-byte %#02x)", e.Val)
}

// ReadByteExpr represents a single byte read from a buffer.
type ReadByteExpr struct {
	Index Word
	Buf   Buf
}

// String returns the string representation of the expression.
func (e *ReadByteExpr) String() string {
	return fmt.Sprintf("(read-byte %s %s)", e.Index, e.Buf)
}

// IndexWordExpr represents the extraction of a single byte from a word.
// Index 0 is the most significant byte; indexes past 31 read as zero.
type IndexWordExpr struct {
	Index Word
	Word  Word
}

// String returns the string representation of the expression.
func (e *IndexWordExpr) String() string {
	return fmt.Sprintf("(index-word %s %s)", e.Index, e.Word)
}

// IndexWord returns the byte of w at the big-endian position idx.
// Folds to a literal when idx is literal and w is literal, or when idx is a
// literal past 31. For a literal idx into a byte join it returns the joined
// byte at that position, which may itself be symbolic.
func IndexWord(idx, w Word) Byte {
	i, ok := idx.(*Lit)
	if !ok {
		return &IndexWordExpr{Index: idx, Word: w}
	}
	if !i.Val.LtUint64(32) {
		return &LitByte{}
	}

	switch w := w.(type) {
	case *Lit:
		b32 := w.Val.Bytes32()
		return &LitByte{Val: b32[i.Val.Uint64()]}
	case *JoinBytesExpr:
		return w.Bytes[i.Val.Uint64()]
	default:
		return &IndexWordExpr{Index: idx, Word: w}
	}
}

// JoinBytes returns the big-endian word composed of up to 32 byte
// expressions, left-padded with zero bytes. Folds to a literal when every
// byte is literal.
func JoinBytes(bs ...Byte) Word {
	if len(bs) > 32 {
		bs = bs[len(bs)-32:]
	}

	var expr JoinBytesExpr
	pad := 32 - len(bs)
	for i := 0; i < pad; i++ {
		expr.Bytes[i] = &LitByte{}
	}

	allLit := true
	var data [32]byte
	for i, b := range bs {
		expr.Bytes[pad+i] = b
		if b, ok := b.(*LitByte); ok {
			data[pad+i] = b.Val
		} else {
			allLit = false
		}
	}
	if !allLit {
		return &expr
	}

	var v uint256.Int
	v.SetBytes(data[:])
	return &Lit{Val: v}
}

// PadByte returns b zero-extended to a word.
func PadByte(b Byte) Word {
	return JoinBytes(b)
}

// EqByte returns a 0/1 word stating whether x equals y.
// Folds to a literal when both bytes are literal.
func EqByte(x, y Byte) Word {
	if x, ok := x.(*LitByte); ok {
		if y, ok := y.(*LitByte); ok {
			if x.Val == y.Val {
				return NewLit64(1)
			}
			return NewLit64(0)
		}
	}
	return &EqByteExpr{X: x, Y: y}
}
