package sevm

import (
	"bytes"
)

// CompareWord returns an integer comparing two word expressions.
// The result will be 0 if a==b, -1 if a < b, and +1 if a > b.
// The order is structural; sharing never affects the result.
func CompareWord(a, b Word) int {
	if a == nil && b != nil {
		return -1
	} else if a != nil && b == nil {
		return 1
	} else if a == nil && b == nil {
		return 0
	}

	if ak, bk := wordKind(a), wordKind(b); ak < bk {
		return -1
	} else if ak > bk {
		return 1
	}

	switch a := a.(type) {
	case *Lit:
		return a.Val.Cmp(&b.(*Lit).Val)
	case *Var:
		return compareString(a.Name, b.(*Var).Name)
	case *BinaryExpr:
		b := b.(*BinaryExpr)
		if cmp := compareInt(int(a.Op), int(b.Op)); cmp != 0 {
			return cmp
		}
		if cmp := CompareWord(a.LHS, b.LHS); cmp != 0 {
			return cmp
		}
		return CompareWord(a.RHS, b.RHS)
	case *UnaryExpr:
		b := b.(*UnaryExpr)
		if cmp := compareInt(int(a.Op), int(b.Op)); cmp != 0 {
			return cmp
		}
		return CompareWord(a.X, b.X)
	case *TernaryExpr:
		b := b.(*TernaryExpr)
		if cmp := compareInt(int(a.Op), int(b.Op)); cmp != 0 {
			return cmp
		}
		if cmp := CompareWord(a.X, b.X); cmp != 0 {
			return cmp
		}
		if cmp := CompareWord(a.Y, b.Y); cmp != 0 {
			return cmp
		}
		return CompareWord(a.Z, b.Z)
	case *ReadWordExpr:
		b := b.(*ReadWordExpr)
		if cmp := CompareWord(a.Index, b.Index); cmp != 0 {
			return cmp
		}
		return CompareBuf(a.Buf, b.Buf)
	case *BufLengthExpr:
		return CompareBuf(a.Buf, b.(*BufLengthExpr).Buf)
	case *JoinBytesExpr:
		b := b.(*JoinBytesExpr)
		for i := range a.Bytes {
			if cmp := CompareByte(a.Bytes[i], b.Bytes[i]); cmp != 0 {
				return cmp
			}
		}
		return 0
	case *SLoadExpr:
		b := b.(*SLoadExpr)
		if cmp := CompareWord(a.Key, b.Key); cmp != 0 {
			return cmp
		}
		return CompareStorage(a.Store, b.Store)
	case *EqByteExpr:
		b := b.(*EqByteExpr)
		if cmp := CompareByte(a.X, b.X); cmp != 0 {
			return cmp
		}
		return CompareByte(a.Y, b.Y)
	default:
		return 0
	}
}

// CompareByte returns an integer comparing two byte expressions.
func CompareByte(a, b Byte) int {
	if a == nil && b != nil {
		return -1
	} else if a != nil && b == nil {
		return 1
	} else if a == nil && b == nil {
		return 0
	}

	if ak, bk := byteKind(a), byteKind(b); ak < bk {
		return -1
	} else if ak > bk {
		return 1
	}

	switch a := a.(type) {
	case *LitByte:
		return compareInt(int(a.Val), int(b.(*LitByte).Val))
	case *ReadByteExpr:
		b := b.(*ReadByteExpr)
		if cmp := CompareWord(a.Index, b.Index); cmp != 0 {
			return cmp
		}
		return CompareBuf(a.Buf, b.Buf)
	case *IndexWordExpr:
		b := b.(*IndexWordExpr)
		if cmp := CompareWord(a.Index, b.Index); cmp != 0 {
			return cmp
		}
		return CompareWord(a.Word, b.Word)
	default:
		return 0
	}
}

// CompareBuf returns an integer comparing two buffer expressions.
// Overlay chains are compared in lockstep without recursing on the chain.
func CompareBuf(a, b Buf) int {
	for {
		if a == nil && b != nil {
			return -1
		} else if a != nil && b == nil {
			return 1
		} else if a == nil && b == nil {
			return 0
		}

		if ak, bk := bufKind(a), bufKind(b); ak < bk {
			return -1
		} else if ak > bk {
			return 1
		}

		switch x := a.(type) {
		case *EmptyBuf:
			return 0
		case *ConcreteBuf:
			return bytes.Compare(x.Data, b.(*ConcreteBuf).Data)
		case *AbstractBuf:
			return compareString(x.Name, b.(*AbstractBuf).Name)
		case *WriteByteExpr:
			y := b.(*WriteByteExpr)
			if cmp := CompareWord(x.Index, y.Index); cmp != 0 {
				return cmp
			}
			if cmp := CompareByte(x.Value, y.Value); cmp != 0 {
				return cmp
			}
			a, b = x.Base, y.Base
		case *WriteWordExpr:
			y := b.(*WriteWordExpr)
			if cmp := CompareWord(x.Index, y.Index); cmp != 0 {
				return cmp
			}
			if cmp := CompareWord(x.Value, y.Value); cmp != 0 {
				return cmp
			}
			a, b = x.Base, y.Base
		case *CopySliceExpr:
			y := b.(*CopySliceExpr)
			if cmp := CompareWord(x.SrcOff, y.SrcOff); cmp != 0 {
				return cmp
			}
			if cmp := CompareWord(x.DstOff, y.DstOff); cmp != 0 {
				return cmp
			}
			if cmp := CompareWord(x.Size, y.Size); cmp != 0 {
				return cmp
			}
			if cmp := CompareBuf(x.Src, y.Src); cmp != 0 {
				return cmp
			}
			a, b = x.Dst, y.Dst
		default:
			return 0
		}
	}
}

// CompareStorage returns an integer comparing two storage expressions.
// Write logs are compared in lockstep without recursing on the log.
func CompareStorage(a, b Storage) int {
	for {
		if a == nil && b != nil {
			return -1
		} else if a != nil && b == nil {
			return 1
		} else if a == nil && b == nil {
			return 0
		}

		if ak, bk := storageKind(a), storageKind(b); ak < bk {
			return -1
		} else if ak > bk {
			return 1
		}

		switch x := a.(type) {
		case *EmptyStore:
			return 0
		case *ConcreteStore:
			y := b.(*ConcreteStore)
			xp, yp := x.Pairs(), y.Pairs()
			if cmp := compareInt(len(xp), len(yp)); cmp != 0 {
				return cmp
			}
			for i := range xp {
				if cmp := xp[i][0].Cmp(&yp[i][0]); cmp != 0 {
					return cmp
				}
				if cmp := xp[i][1].Cmp(&yp[i][1]); cmp != 0 {
					return cmp
				}
			}
			return 0
		case *AbstractStore:
			return compareString(x.Name, b.(*AbstractStore).Name)
		case *SStoreExpr:
			y := b.(*SStoreExpr)
			if cmp := CompareWord(x.Key, y.Key); cmp != 0 {
				return cmp
			}
			if cmp := CompareWord(x.Value, y.Value); cmp != 0 {
				return cmp
			}
			a, b = x.Base, y.Base
		default:
			return 0
		}
	}
}

// wordKind returns a numeric value for the type of word expression.
// Only used internally for equality checks and sorting.
func wordKind(w Word) int {
	switch w.(type) {
	case *Lit:
		return 1
	case *Var:
		return 2
	case *BinaryExpr:
		return 3
	case *UnaryExpr:
		return 4
	case *TernaryExpr:
		return 5
	case *ReadWordExpr:
		return 6
	case *BufLengthExpr:
		return 7
	case *JoinBytesExpr:
		return 8
	case *SLoadExpr:
		return 9
	case *EqByteExpr:
		return 10
	default:
		return 0
	}
}

func byteKind(b Byte) int {
	switch b.(type) {
	case *LitByte:
		return 1
	case *ReadByteExpr:
		return 2
	case *IndexWordExpr:
		return 3
	default:
		return 0
	}
}

func bufKind(b Buf) int {
	switch b.(type) {
	case *EmptyBuf:
		return 1
	case *ConcreteBuf:
		return 2
	case *AbstractBuf:
		return 3
	case *WriteByteExpr:
		return 4
	case *WriteWordExpr:
		return 5
	case *CopySliceExpr:
		return 6
	default:
		return 0
	}
}

func storageKind(s Storage) int {
	switch s.(type) {
	case *EmptyStore:
		return 1
	case *ConcreteStore:
		return 2
	case *AbstractStore:
		return 3
	case *SStoreExpr:
		return 4
	default:
		return 0
	}
}

func compareInt(a, b int) int {
	if a < b {
		return -1
	} else if a > b {
		return 1
	}
	return 0
}

func compareString(a, b string) int {
	if a < b {
		return -1
	} else if a > b {
		return 1
	}
	return 0
}
