package sevm_test

import (
	"testing"

	"github.com/benbjohnson/sevm"
	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"
)

func TestReadByte(t *testing.T) {
	t.Run("EmptyBuf", func(t *testing.T) {
		if diff := cmp.Diff(
			sevm.NewLitByte(0),
			sevm.ReadByte(sevm.NewLit64(100), &sevm.EmptyBuf{}),
		); diff != "" {
			t.Fatal(diff)
		}
	})
	t.Run("ConcreteBuf", func(t *testing.T) {
		buf := sevm.NewConcreteBuf([]byte{0xaa, 0xbb, 0xcc})
		if diff := cmp.Diff(sevm.NewLitByte(0xbb), sevm.ReadByte(sevm.NewLit64(1), buf)); diff != "" {
			t.Fatal(diff)
		}
	})
	t.Run("ConcreteBufPastEnd", func(t *testing.T) {
		buf := sevm.NewConcreteBuf([]byte{0xaa, 0xbb, 0xcc})
		if diff := cmp.Diff(sevm.NewLitByte(0), sevm.ReadByte(sevm.NewLit64(3), buf)); diff != "" {
			t.Fatal(diff)
		}
	})
	t.Run("SymbolicIndex", func(t *testing.T) {
		buf := sevm.NewConcreteBuf([]byte{0xaa})
		b, ok := sevm.ReadByte(sevm.NewVar("i"), buf).(*sevm.ReadByteExpr)
		if !ok {
			t.Fatal("expected residual read")
		} else if diff := cmp.Diff(sevm.Buf(buf), b.Buf); diff != "" {
			t.Fatal(diff)
		}
	})
	t.Run("AbstractBuf", func(t *testing.T) {
		if _, ok := sevm.ReadByte(sevm.NewLit64(0), sevm.NewAbstractBuf("calldata")).(*sevm.ReadByteExpr); !ok {
			t.Fatal("expected residual read")
		}
	})

	t.Run("WriteByteHit", func(t *testing.T) {
		buf := sevm.WriteByte(sevm.NewLit64(5), sevm.NewLitByte(0x42), sevm.NewAbstractBuf("mem"))
		if diff := cmp.Diff(sevm.NewLitByte(0x42), sevm.ReadByte(sevm.NewLit64(5), buf)); diff != "" {
			t.Fatal(diff)
		}
	})
	t.Run("WriteByteMissRecurses", func(t *testing.T) {
		base := sevm.NewConcreteBuf([]byte{0xaa, 0xbb})
		buf := sevm.WriteByte(sevm.NewLit64(5), symByte("b"), base)
		if diff := cmp.Diff(sevm.NewLitByte(0xbb), sevm.ReadByte(sevm.NewLit64(1), buf)); diff != "" {
			t.Fatal(diff)
		}
	})
	t.Run("WriteByteSymbolicIndexStops", func(t *testing.T) {
		buf := sevm.WriteByte(sevm.NewVar("i"), sevm.NewLitByte(0x42), sevm.NewConcreteBuf([]byte{0xaa}))
		if _, ok := sevm.ReadByte(sevm.NewLit64(0), buf).(*sevm.ReadByteExpr); !ok {
			t.Fatal("expected residual read")
		}
	})

	t.Run("WriteWordInside", func(t *testing.T) {
		buf := sevm.WriteWord(sevm.NewLit64(10), sevm.NewLit64(0x42), sevm.NewAbstractBuf("mem"))
		if diff := cmp.Diff(sevm.NewLitByte(0x42), sevm.ReadByte(sevm.NewLit64(41), buf)); diff != "" {
			t.Fatal(diff)
		}
		if diff := cmp.Diff(sevm.NewLitByte(0), sevm.ReadByte(sevm.NewLit64(10), buf)); diff != "" {
			t.Fatal(diff)
		}
	})
	t.Run("WriteWordInsideSymbolicValue", func(t *testing.T) {
		buf := sevm.WriteWord(sevm.NewLit64(10), sevm.NewVar("x"), sevm.NewAbstractBuf("mem"))
		b, ok := sevm.ReadByte(sevm.NewLit64(12), buf).(*sevm.IndexWordExpr)
		if !ok {
			t.Fatal("expected index-word expression")
		} else if diff := cmp.Diff(sevm.Word(sevm.NewLit64(2)), b.Index); diff != "" {
			t.Fatal(diff)
		}
	})
	t.Run("WriteWordOutsideRecurses", func(t *testing.T) {
		base := sevm.NewConcreteBuf([]byte{0xaa, 0xbb})
		buf := sevm.WriteWord(sevm.NewLit64(10), sevm.NewVar("x"), base)
		if diff := cmp.Diff(sevm.NewLitByte(0xbb), sevm.ReadByte(sevm.NewLit64(1), buf)); diff != "" {
			t.Fatal(diff)
		}
		if diff := cmp.Diff(sevm.NewLitByte(0), sevm.ReadByte(sevm.NewLit64(42), buf)); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("CopySliceInside", func(t *testing.T) {
		src := sevm.NewAbstractBuf("ret")
		dst := sevm.NewConcreteBuf([]byte{0xaa, 0xbb, 0xcc})
		buf := sevm.CopySlice(sevm.NewLit64(8), sevm.NewLit64(1), sevm.NewLit64(2), src, dst)
		b, ok := sevm.ReadByte(sevm.NewLit64(2), buf).(*sevm.ReadByteExpr)
		if !ok {
			t.Fatal("expected residual read")
		}
		// Re-anchored into the source: 2 - 1 + 8 = 9.
		if diff := cmp.Diff(sevm.Word(sevm.NewLit64(9)), b.Index); diff != "" {
			t.Fatal(diff)
		}
		if diff := cmp.Diff(sevm.Buf(src), b.Buf); diff != "" {
			t.Fatal(diff)
		}
	})
	t.Run("CopySliceOutside", func(t *testing.T) {
		src := sevm.NewAbstractBuf("ret")
		dst := sevm.NewConcreteBuf([]byte{0xaa, 0xbb, 0xcc})
		buf := sevm.CopySlice(sevm.NewLit64(8), sevm.NewLit64(1), sevm.NewLit64(2), src, dst)
		if diff := cmp.Diff(sevm.NewLitByte(0xaa), sevm.ReadByte(sevm.NewLit64(0), buf)); diff != "" {
			t.Fatal(diff)
		}
	})
	t.Run("CopySliceSymbolicSrcOff", func(t *testing.T) {
		buf := sevm.CopySlice(sevm.NewVar("s"), sevm.NewLit64(1), sevm.NewLit64(2), sevm.NewAbstractBuf("ret"), sevm.NewConcreteBuf([]byte{0xaa, 0xbb, 0xcc}))
		// Outside the copied range resolves through the destination.
		if diff := cmp.Diff(sevm.NewLitByte(0xaa), sevm.ReadByte(sevm.NewLit64(0), buf)); diff != "" {
			t.Fatal(diff)
		}
		// Inside it cannot be resolved.
		if _, ok := sevm.ReadByte(sevm.NewLit64(1), buf).(*sevm.ReadByteExpr); !ok {
			t.Fatal("expected residual read")
		}
	})
	t.Run("CopySliceSymbolicSize", func(t *testing.T) {
		buf := sevm.CopySlice(sevm.NewLit64(0), sevm.NewLit64(4), sevm.NewVar("n"), sevm.NewAbstractBuf("ret"), sevm.NewConcreteBuf([]byte{0xaa, 0xbb, 0xcc}))
		// Below the destination offset the copy cannot reach.
		if diff := cmp.Diff(sevm.NewLitByte(0xcc), sevm.ReadByte(sevm.NewLit64(2), buf)); diff != "" {
			t.Fatal(diff)
		}
		if _, ok := sevm.ReadByte(sevm.NewLit64(4), buf).(*sevm.ReadByteExpr); !ok {
			t.Fatal("expected residual read")
		}
	})

	t.Run("DeepOverlayChain", func(t *testing.T) {
		buf := sevm.Buf(sevm.NewAbstractBuf("mem"))
		for i := 0; i < 100000; i++ {
			buf = sevm.WriteByte(sevm.NewLit64(uint64(i+1)), sevm.NewLitByte(byte(i)), buf)
		}
		if diff := cmp.Diff(sevm.NewLitByte(0x00), sevm.ReadByte(sevm.NewLit64(1), buf)); diff != "" {
			t.Fatal(diff)
		}
		if b, ok := sevm.ReadByte(sevm.NewLit64(0), buf).(*sevm.ReadByteExpr); !ok {
			t.Fatal("expected residual read")
		} else if diff := cmp.Diff(sevm.Buf(sevm.NewAbstractBuf("mem")), b.Buf); diff != "" {
			t.Fatal(diff)
		}
	})
}

func TestReadWord(t *testing.T) {
	t.Run("WriteThenRead", func(t *testing.T) {
		buf := sevm.WriteWord(sevm.NewLit64(0), sevm.NewLit64(0x42), &sevm.EmptyBuf{})
		if diff := cmp.Diff(sevm.Word(sevm.NewLit64(0x42)), sevm.ReadWord(sevm.NewLit64(0), buf)); diff != "" {
			t.Fatal(diff)
		}
		if diff := cmp.Diff(sevm.NewLitByte(0x42), sevm.ReadByte(sevm.NewLit64(31), buf)); diff != "" {
			t.Fatal(diff)
		}
		if diff := cmp.Diff(sevm.NewLitByte(0x00), sevm.ReadByte(sevm.NewLit64(0), buf)); diff != "" {
			t.Fatal(diff)
		}
	})
	t.Run("SymbolicCarryThrough", func(t *testing.T) {
		v := sevm.NewVar("x")
		buf := sevm.WriteWord(sevm.NewLit64(0), v, &sevm.EmptyBuf{})
		if diff := cmp.Diff(sevm.Word(v), sevm.ReadWord(sevm.NewLit64(0), buf)); diff != "" {
			t.Fatal(diff)
		}
	})
	t.Run("SymbolicCarryThroughSymbolicIndex", func(t *testing.T) {
		idx, v := sevm.NewVar("i"), sevm.NewVar("x")
		buf := sevm.WriteWord(idx, v, sevm.NewAbstractBuf("mem"))
		if diff := cmp.Diff(sevm.Word(v), sevm.ReadWord(idx, buf)); diff != "" {
			t.Fatal(diff)
		}
	})
	t.Run("DisjointWriteSkipped", func(t *testing.T) {
		base := sevm.NewAbstractBuf("mem")
		buf := sevm.WriteWord(sevm.NewLit64(64), sevm.NewVar("x"), base)
		got, ok := sevm.ReadWord(sevm.NewLit64(0), buf).(*sevm.ReadWordExpr)
		if !ok {
			t.Fatal("expected residual read")
		} else if diff := cmp.Diff(sevm.Buf(base), got.Buf); diff != "" {
			t.Fatal(diff)
		}
	})
	t.Run("OverlappingWriteAssembledByteWise", func(t *testing.T) {
		buf := sevm.WriteWord(sevm.NewLit64(4), sevm.NewLit64(0x42), sevm.NewConcreteBuf(make([]byte, 64)))
		if diff := cmp.Diff(sevm.Word(sevm.NewLit64(0)), sevm.ReadWord(sevm.NewLit64(0), buf)); diff != "" {
			t.Fatal(diff)
		}
	})
	t.Run("StraddlingRead", func(t *testing.T) {
		// Word written at 0; reading at 16 sees its low half in the high
		// bytes of the result.
		buf := sevm.WriteWord(sevm.NewLit64(0), sevm.NewLit64(0x42), &sevm.EmptyBuf{})
		want := sevm.NewLit(hexWord(t, "0000000000000000000000000000004200000000000000000000000000000000"))
		if diff := cmp.Diff(sevm.Word(want), sevm.ReadWord(sevm.NewLit64(16), buf)); diff != "" {
			t.Fatal(diff)
		}
	})
	t.Run("SymbolicIndex", func(t *testing.T) {
		if _, ok := sevm.ReadWord(sevm.NewVar("i"), sevm.NewConcreteBuf([]byte{1})).(*sevm.ReadWordExpr); !ok {
			t.Fatal("expected residual read")
		}
	})
}

func TestReadBytes(t *testing.T) {
	t.Run("Concrete", func(t *testing.T) {
		buf := sevm.NewConcreteBuf([]byte{0xaa, 0xbb, 0xcc, 0xdd})
		if diff := cmp.Diff(sevm.Word(sevm.NewLit64(0xbbcc)), sevm.ReadBytes(2, sevm.NewLit64(1), buf)); diff != "" {
			t.Fatal(diff)
		}
	})
	t.Run("PastEndZeroPadded", func(t *testing.T) {
		buf := sevm.NewConcreteBuf([]byte{0xaa, 0xbb})
		if diff := cmp.Diff(sevm.Word(sevm.NewLit64(0xbb00)), sevm.ReadBytes(2, sevm.NewLit64(1), buf)); diff != "" {
			t.Fatal(diff)
		}
	})
	t.Run("Symbolic", func(t *testing.T) {
		if _, ok := sevm.ReadBytes(4, sevm.NewLit64(0), sevm.NewAbstractBuf("calldata")).(*sevm.JoinBytesExpr); !ok {
			t.Fatal("expected symbolic join")
		}
	})
}

func TestWriteByte(t *testing.T) {
	t.Run("Concrete", func(t *testing.T) {
		got := sevm.WriteByte(sevm.NewLit64(1), sevm.NewLitByte(0x42), sevm.NewConcreteBuf([]byte{0xaa, 0xbb, 0xcc}))
		if diff := cmp.Diff(sevm.Buf(sevm.NewConcreteBuf([]byte{0xaa, 0x42, 0xcc})), got); diff != "" {
			t.Fatal(diff)
		}
	})
	t.Run("GrowsWithZeroes", func(t *testing.T) {
		got := sevm.WriteByte(sevm.NewLit64(4), sevm.NewLitByte(0x42), &sevm.EmptyBuf{})
		if diff := cmp.Diff(sevm.Buf(sevm.NewConcreteBuf([]byte{0, 0, 0, 0, 0x42})), got); diff != "" {
			t.Fatal(diff)
		}
	})
	t.Run("SymbolicStaysSymbolic", func(t *testing.T) {
		if _, ok := sevm.WriteByte(sevm.NewVar("i"), sevm.NewLitByte(0x42), &sevm.EmptyBuf{}).(*sevm.WriteByteExpr); !ok {
			t.Fatal("expected symbolic write")
		}
	})
}

func TestWriteWord(t *testing.T) {
	t.Run("Concrete", func(t *testing.T) {
		got, ok := sevm.WriteWord(sevm.NewLit64(2), sevm.NewLit64(0x42), &sevm.EmptyBuf{}).(*sevm.ConcreteBuf)
		if !ok {
			t.Fatal("expected concrete buffer")
		}
		if len(got.Data) != 34 {
			t.Fatalf("unexpected length: %d", len(got.Data))
		}
		if got.Data[33] != 0x42 {
			t.Fatalf("unexpected buffer: %s", spew.Sdump(got))
		}
	})
	t.Run("PreservesOutsideWindow", func(t *testing.T) {
		base := sevm.NewConcreteBuf(make([]byte, 64))
		base.Data[40] = 0xff
		got := sevm.WriteWord(sevm.NewLit64(8), sevm.NewLit64(0x01), base).(*sevm.ConcreteBuf)
		if got.Data[39] != 0x01 || got.Data[40] != 0xff || len(got.Data) != 64 {
			t.Fatalf("unexpected buffer: %s", spew.Sdump(got))
		}
	})
	t.Run("SymbolicStaysSymbolic", func(t *testing.T) {
		if _, ok := sevm.WriteWord(sevm.NewLit64(0), sevm.NewVar("x"), &sevm.EmptyBuf{}).(*sevm.WriteWordExpr); !ok {
			t.Fatal("expected symbolic write")
		}
	})
}

func TestCopySlice(t *testing.T) {
	t.Run("FromCalldata", func(t *testing.T) {
		src := sevm.NewConcreteBuf([]byte{0xaa, 0xbb, 0xcc, 0xdd})
		got := sevm.CopySlice(sevm.NewLit64(1), sevm.NewLit64(4), sevm.NewLit64(2), src, &sevm.EmptyBuf{})
		if diff := cmp.Diff(sevm.Buf(sevm.NewConcreteBuf([]byte{0, 0, 0, 0, 0xbb, 0xcc})), got); diff != "" {
			t.Fatal(diff)
		}
	})
	t.Run("Identity", func(t *testing.T) {
		b := sevm.NewConcreteBuf([]byte{0xde, 0xad, 0xbe, 0xef})
		got := sevm.CopySlice(sevm.NewLit64(0), sevm.NewLit64(0), sevm.BufLength(b), b, &sevm.EmptyBuf{})
		if diff := cmp.Diff(sevm.Buf(b), got); diff != "" {
			t.Fatal(diff)
		}
	})
	t.Run("SourcePastEndReadsZero", func(t *testing.T) {
		src := sevm.NewConcreteBuf([]byte{0xaa})
		got := sevm.CopySlice(sevm.NewLit64(0), sevm.NewLit64(0), sevm.NewLit64(3), src, &sevm.EmptyBuf{})
		if diff := cmp.Diff(sevm.Buf(sevm.NewConcreteBuf([]byte{0xaa, 0, 0})), got); diff != "" {
			t.Fatal(diff)
		}
	})
	t.Run("IntoConcrete", func(t *testing.T) {
		src := sevm.NewConcreteBuf([]byte{0x11, 0x22})
		dst := sevm.NewConcreteBuf([]byte{0xaa, 0xbb, 0xcc, 0xdd})
		got := sevm.CopySlice(sevm.NewLit64(0), sevm.NewLit64(1), sevm.NewLit64(2), src, dst)
		if diff := cmp.Diff(sevm.Buf(sevm.NewConcreteBuf([]byte{0xaa, 0x11, 0x22, 0xdd})), got); diff != "" {
			t.Fatal(diff)
		}
	})
	t.Run("ZeroSizeIsNoop", func(t *testing.T) {
		dst := sevm.NewConcreteBuf([]byte{0xaa})
		got := sevm.CopySlice(sevm.NewVar("s"), sevm.NewVar("d"), sevm.NewLit64(0), sevm.NewAbstractBuf("ret"), dst)
		if diff := cmp.Diff(sevm.Buf(dst), got); diff != "" {
			t.Fatal(diff)
		}
	})
	t.Run("EmptyOverEmpty", func(t *testing.T) {
		got := sevm.CopySlice(sevm.NewVar("s"), sevm.NewVar("d"), sevm.NewVar("n"), &sevm.EmptyBuf{}, &sevm.EmptyBuf{})
		if diff := cmp.Diff(sevm.Buf(&sevm.EmptyBuf{}), got); diff != "" {
			t.Fatal(diff)
		}
	})
	t.Run("ResolvableSymbolicSource", func(t *testing.T) {
		// The symbolic source's copied range is covered by a concrete
		// write, so the copy folds anyway.
		src := sevm.WriteWord(sevm.NewLit64(0), sevm.NewLit64(0x42), sevm.NewAbstractBuf("mem"))
		got := sevm.CopySlice(sevm.NewLit64(30), sevm.NewLit64(0), sevm.NewLit64(2), src, &sevm.EmptyBuf{})
		if diff := cmp.Diff(sevm.Buf(sevm.NewConcreteBuf([]byte{0, 0x42})), got); diff != "" {
			t.Fatal(diff)
		}
	})
	t.Run("UnresolvableStaysSymbolic", func(t *testing.T) {
		got := sevm.CopySlice(sevm.NewLit64(0), sevm.NewLit64(0), sevm.NewLit64(2), sevm.NewAbstractBuf("ret"), &sevm.EmptyBuf{})
		if _, ok := got.(*sevm.CopySliceExpr); !ok {
			t.Fatalf("expected symbolic copy, got: %s", spew.Sdump(got))
		}
	})
	t.Run("SymbolicOffsetStaysSymbolic", func(t *testing.T) {
		got := sevm.CopySlice(sevm.NewVar("s"), sevm.NewLit64(0), sevm.NewLit64(1), sevm.NewConcreteBuf([]byte{1}), &sevm.EmptyBuf{})
		if _, ok := got.(*sevm.CopySliceExpr); !ok {
			t.Fatal("expected symbolic copy")
		}
	})
}

func TestBufLength(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		if diff := cmp.Diff(sevm.Word(sevm.NewLit64(0)), sevm.BufLength(&sevm.EmptyBuf{})); diff != "" {
			t.Fatal(diff)
		}
	})
	t.Run("Concrete", func(t *testing.T) {
		if diff := cmp.Diff(sevm.Word(sevm.NewLit64(3)), sevm.BufLength(sevm.NewConcreteBuf([]byte{1, 2, 3}))); diff != "" {
			t.Fatal(diff)
		}
	})
	t.Run("Symbolic", func(t *testing.T) {
		if _, ok := sevm.BufLength(sevm.NewAbstractBuf("calldata")).(*sevm.BufLengthExpr); !ok {
			t.Fatal("expected symbolic length")
		}
	})
}

func TestBaseBuf(t *testing.T) {
	base := sevm.NewAbstractBuf("mem")
	buf := sevm.WriteByte(sevm.NewLit64(0), symByte("b"), base)
	buf = sevm.WriteWord(sevm.NewVar("i"), sevm.NewVar("x"), buf)
	buf = sevm.CopySlice(sevm.NewVar("s"), sevm.NewVar("d"), sevm.NewVar("n"), sevm.NewAbstractBuf("ret"), buf)
	if diff := cmp.Diff(sevm.Buf(base), sevm.BaseBuf(buf)); diff != "" {
		t.Fatal(diff)
	}
}
