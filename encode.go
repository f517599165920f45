package sevm

import (
	"encoding/binary"
)

// Canonical serialization tags, one per expression variant. Operation enums
// follow the tag byte for operator nodes; literal words are 32 bytes
// big-endian; byte strings and store pair lists are length-prefixed with a
// big-endian uint32.
const (
	TagLit byte = 0x01 + iota
	TagVar
	TagBinary
	TagUnary
	TagTernary
	TagReadWord
	TagBufLength
	TagJoinBytes
	TagSLoad
	TagEqByte

	TagLitByte
	TagReadByte
	TagIndexWord

	TagEmptyBuf
	TagConcreteBuf
	TagAbstractBuf
	TagWriteByte
	TagWriteWord
	TagCopySlice

	TagEmptyStore
	TagConcreteStore
	TagAbstractStore
	TagSStore
)

// EncodeNode returns the canonical binary encoding of an expression of any
// sort: a tag byte per variant followed by the node's children in
// declaration order.
func EncodeNode(node Node) []byte {
	return AppendNode(nil, node)
}

// AppendNode appends the canonical binary encoding of node to dst and
// returns the extended slice. Encoding walks the tree iteratively; deep
// overlay chains do not exhaust the call stack.
func AppendNode(dst []byte, node Node) []byte {
	stack := []Node{node}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		push := func(children ...Node) {
			for i := len(children) - 1; i >= 0; i-- {
				stack = append(stack, children[i])
			}
		}

		switch n := n.(type) {
		case *Lit:
			dst = append(dst, TagLit)
			b32 := n.Val.Bytes32()
			dst = append(dst, b32[:]...)
		case *Var:
			dst = append(dst, TagVar)
			dst = appendString(dst, n.Name)
		case *BinaryExpr:
			dst = append(dst, TagBinary, byte(n.Op))
			push(n.LHS, n.RHS)
		case *UnaryExpr:
			dst = append(dst, TagUnary, byte(n.Op))
			push(n.X)
		case *TernaryExpr:
			dst = append(dst, TagTernary, byte(n.Op))
			push(n.X, n.Y, n.Z)
		case *ReadWordExpr:
			dst = append(dst, TagReadWord)
			push(n.Index, n.Buf)
		case *BufLengthExpr:
			dst = append(dst, TagBufLength)
			push(n.Buf)
		case *JoinBytesExpr:
			dst = append(dst, TagJoinBytes)
			children := make([]Node, len(n.Bytes))
			for i, b := range n.Bytes {
				children[i] = b
			}
			push(children...)
		case *SLoadExpr:
			dst = append(dst, TagSLoad)
			push(n.Key, n.Store)
		case *EqByteExpr:
			dst = append(dst, TagEqByte)
			push(n.X, n.Y)

		case *LitByte:
			dst = append(dst, TagLitByte, n.Val)
		case *ReadByteExpr:
			dst = append(dst, TagReadByte)
			push(n.Index, n.Buf)
		case *IndexWordExpr:
			dst = append(dst, TagIndexWord)
			push(n.Index, n.Word)

		case *EmptyBuf:
			dst = append(dst, TagEmptyBuf)
		case *ConcreteBuf:
			dst = append(dst, TagConcreteBuf)
			dst = appendLen(dst, len(n.Data))
			dst = append(dst, n.Data...)
		case *AbstractBuf:
			dst = append(dst, TagAbstractBuf)
			dst = appendString(dst, n.Name)
		case *WriteByteExpr:
			dst = append(dst, TagWriteByte)
			push(n.Index, n.Value, n.Base)
		case *WriteWordExpr:
			dst = append(dst, TagWriteWord)
			push(n.Index, n.Value, n.Base)
		case *CopySliceExpr:
			dst = append(dst, TagCopySlice)
			push(n.SrcOff, n.DstOff, n.Size, n.Src, n.Dst)

		case *EmptyStore:
			dst = append(dst, TagEmptyStore)
		case *ConcreteStore:
			dst = append(dst, TagConcreteStore)
			pairs := n.Pairs()
			dst = appendLen(dst, len(pairs))
			for _, kv := range pairs {
				k, v := kv[0].Bytes32(), kv[1].Bytes32()
				dst = append(dst, k[:]...)
				dst = append(dst, v[:]...)
			}
		case *AbstractStore:
			dst = append(dst, TagAbstractStore)
			dst = appendString(dst, n.Name)
		case *SStoreExpr:
			dst = append(dst, TagSStore)
			push(n.Key, n.Value, n.Base)
		}
	}
	return dst
}

func appendLen(dst []byte, n int) []byte {
	return binary.BigEndian.AppendUint32(dst, uint32(n))
}

func appendString(dst []byte, s string) []byte {
	dst = appendLen(dst, len(s))
	return append(dst, s...)
}
