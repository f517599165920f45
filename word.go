package sevm

import (
	"fmt"

	"github.com/holiman/uint256"
)

// Word represents a 256-bit word expression.
type Word interface {
	Node
	word()
}

func (*Lit) word()           {}
func (*Var) word()           {}
func (*BinaryExpr) word()    {}
func (*UnaryExpr) word()     {}
func (*TernaryExpr) word()   {}
func (*ReadWordExpr) word()  {}
func (*BufLengthExpr) word() {}
func (*JoinBytesExpr) word() {}
func (*SLoadExpr) word()     {}
func (*EqByteExpr) word()    {}

// Lit represents a concrete 256-bit word.
type Lit struct {
	Val uint256.Int
}

// NewLit returns a literal word holding a copy of v.
func NewLit(v *uint256.Int) *Lit {
	e := &Lit{}
	e.Val.Set(v)
	return e
}

// NewLit64 returns a literal word holding v.
func NewLit64(v uint64) *Lit {
	e := &Lit{}
	e.Val.SetUint64(v)
	return e
}

// LitAddr returns a literal word holding the 160-bit address a, zero-extended.
func LitAddr(a [20]byte) *Lit {
	e := &Lit{}
	e.Val.SetBytes(a[:])
	return e
}

// String returns the string representation of the literal.
func (e *Lit) String() string {
	return fmt.Sprintf("(lit %s)", e.Val.Hex())
}

// Var represents a free symbolic word.
type Var struct {
	Name string
}

// NewVar returns a new symbolic word variable.
func NewVar(name string) *Var {
	return &Var{Name: name}
}

// String returns the string representation of the variable.
func (e *Var) String() string {
	return fmt.Sprintf("(var %s)", e.Name)
}

// BinaryOp represents a binary word operation.
type BinaryOp int

// BinaryExpr operations.
const (
	ADD = BinaryOp(iota)
	SUB
	MUL
	DIV
	SDIV
	MOD
	SMOD
	EXP
	SEX
	LT
	GT
	LEQ
	GEQ
	SLT
	SGT
	EQ
	AND
	OR
	XOR
	SHL
	SHR
	SAR
	MIN
)

var binaryOps = [...]string{
	ADD:  "add",
	SUB:  "sub",
	MUL:  "mul",
	DIV:  "div",
	SDIV: "sdiv",
	MOD:  "mod",
	SMOD: "smod",
	EXP:  "exp",
	SEX:  "sex",
	LT:   "lt",
	GT:   "gt",
	LEQ:  "leq",
	GEQ:  "geq",
	SLT:  "slt",
	SGT:  "sgt",
	EQ:   "eq",
	AND:  "and",
	OR:   "or",
	XOR:  "xor",
	SHL:  "shl",
	SHR:  "shr",
	SAR:  "sar",
	MIN:  "min",
}

// String returns the string representation of the operation.
func (op BinaryOp) String() string {
	if op >= 0 && op < BinaryOp(len(binaryOps)) && binaryOps[op] != "" {
		return binaryOps[op]
	}
	return fmt.Sprintf("BinaryOp<%d>", op)
}

// BinaryExpr represents an operation on two word expressions.
//
// For SHL, SHR & SAR the left hand side is the shift amount; for SEX it is
// the byte position to extend from. This matches EVM stack order.
type BinaryExpr struct {
	Op  BinaryOp
	LHS Word
	RHS Word
}

// NewBinaryExpr returns the word expression for op applied to lhs & rhs.
// Folds to a literal when both sides are literal.
func NewBinaryExpr(op BinaryOp, lhs, rhs Word) Word {
	if lhs, ok := lhs.(*Lit); ok {
		if rhs, ok := rhs.(*Lit); ok {
			return evalBinary(op, lhs, rhs)
		}
	}
	return &BinaryExpr{Op: op, LHS: lhs, RHS: rhs}
}

// String returns the string representation of the expression.
func (e *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Op, e.LHS, e.RHS)
}

// evalBinary computes op over two literals.
func evalBinary(op BinaryOp, lhs, rhs *Lit) *Lit {
	x, y := &lhs.Val, &rhs.Val
	var z uint256.Int
	switch op {
	case ADD:
		z.Add(x, y)
	case SUB:
		z.Sub(x, y)
	case MUL:
		z.Mul(x, y)
	case DIV:
		z.Div(x, y)
	case SDIV:
		z.SDiv(x, y)
	case MOD:
		z.Mod(x, y)
	case SMOD:
		z.SMod(x, y)
	case EXP:
		z.Exp(x, y)
	case SEX:
		z.ExtendSign(y, x)
	case LT:
		bool01(&z, x.Lt(y))
	case GT:
		bool01(&z, x.Gt(y))
	case LEQ:
		bool01(&z, !x.Gt(y))
	case GEQ:
		bool01(&z, !x.Lt(y))
	case SLT:
		bool01(&z, x.Slt(y))
	case SGT:
		bool01(&z, x.Sgt(y))
	case EQ:
		bool01(&z, x.Eq(y))
	case AND:
		z.And(x, y)
	case OR:
		z.Or(x, y)
	case XOR:
		z.Xor(x, y)
	case SHL:
		if x.LtUint64(256) {
			z.Lsh(y, uint(x.Uint64()))
		}
	case SHR:
		if x.LtUint64(256) {
			z.Rsh(y, uint(x.Uint64()))
		}
	case SAR:
		if x.GtUint64(256) {
			if y.Sign() >= 0 {
				z.Clear()
			} else {
				z.SetAllOne()
			}
		} else {
			z.SRsh(y, uint(x.Uint64()))
		}
	case MIN:
		if x.Lt(y) {
			z.Set(x)
		} else {
			z.Set(y)
		}
	default:
		return &Lit{}
	}
	return &Lit{Val: z}
}

func bool01(z *uint256.Int, v bool) {
	if v {
		z.SetOne()
	} else {
		z.Clear()
	}
}

// UnaryOp represents a unary word operation.
type UnaryOp int

// UnaryExpr operations.
const (
	ISZERO = UnaryOp(iota)
	NOT
)

var unaryOps = [...]string{
	ISZERO: "iszero",
	NOT:    "not",
}

// String returns the string representation of the operation.
func (op UnaryOp) String() string {
	if op >= 0 && op < UnaryOp(len(unaryOps)) && unaryOps[op] != "" {
		return unaryOps[op]
	}
	return fmt.Sprintf("UnaryOp<%d>", op)
}

// UnaryExpr represents an operation on a single word expression.
type UnaryExpr struct {
	Op UnaryOp
	X  Word
}

// NewUnaryExpr returns the word expression for op applied to x.
// Folds to a literal when x is literal.
func NewUnaryExpr(op UnaryOp, x Word) Word {
	if x, ok := x.(*Lit); ok {
		var z uint256.Int
		switch op {
		case ISZERO:
			bool01(&z, x.Val.IsZero())
		case NOT:
			z.Not(&x.Val)
		}
		return &Lit{Val: z}
	}
	return &UnaryExpr{Op: op, X: x}
}

// String returns the string representation of the expression.
func (e *UnaryExpr) String() string {
	return fmt.Sprintf("(%s %s)", e.Op, e.X)
}

// TernaryOp represents a modular three-operand word operation.
type TernaryOp int

// TernaryExpr operations.
const (
	ADDMOD = TernaryOp(iota)
	MULMOD
)

var ternaryOps = [...]string{
	ADDMOD: "addmod",
	MULMOD: "mulmod",
}

// String returns the string representation of the operation.
func (op TernaryOp) String() string {
	if op >= 0 && op < TernaryOp(len(ternaryOps)) && ternaryOps[op] != "" {
		return ternaryOps[op]
	}
	return fmt.Sprintf("TernaryOp<%d>", op)
}

// TernaryExpr represents a modular operation on three word expressions.
// The modulus is the third operand; a zero modulus yields zero.
type TernaryExpr struct {
	Op TernaryOp
	X  Word
	Y  Word
	Z  Word
}

// NewTernaryExpr returns the word expression for op applied to x, y & z.
// The intermediate sum/product is computed in 512 bits before reduction.
func NewTernaryExpr(op TernaryOp, x, y, z Word) Word {
	lx, okx := x.(*Lit)
	ly, oky := y.(*Lit)
	lz, okz := z.(*Lit)
	if okx && oky && okz {
		var v uint256.Int
		switch op {
		case ADDMOD:
			v.AddMod(&lx.Val, &ly.Val, &lz.Val)
		case MULMOD:
			v.MulMod(&lx.Val, &ly.Val, &lz.Val)
		}
		return &Lit{Val: v}
	}
	return &TernaryExpr{Op: op, X: x, Y: y, Z: z}
}

// String returns the string representation of the expression.
func (e *TernaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s %s)", e.Op, e.X, e.Y, e.Z)
}

// ReadWordExpr represents a 32-byte big-endian read from a buffer.
type ReadWordExpr struct {
	Index Word
	Buf   Buf
}

// String returns the string representation of the expression.
func (e *ReadWordExpr) String() string {
	return fmt.Sprintf("(read-word %s %s)", e.Index, e.Buf)
}

// BufLengthExpr represents the length of a buffer as a word.
type BufLengthExpr struct {
	Buf Buf
}

// String returns the string representation of the expression.
func (e *BufLengthExpr) String() string {
	return fmt.Sprintf("(buf-length %s)", e.Buf)
}

// JoinBytesExpr represents the big-endian composition of 32 byte expressions
// into a word. Bytes[0] is the most significant.
type JoinBytesExpr struct {
	Bytes [32]Byte
}

// String returns the string representation of the expression.
func (e *JoinBytesExpr) String() string {
	s := "(join-bytes"
	for _, b := range e.Bytes {
		s += " " + b.String()
	}
	return s + ")"
}

// SLoadExpr represents a load from a storage expression.
type SLoadExpr struct {
	Key   Word
	Store Storage
}

// String returns the string representation of the expression.
func (e *SLoadExpr) String() string {
	return fmt.Sprintf("(sload %s %s)", e.Key, e.Store)
}

// EqByteExpr represents the equality of two byte expressions as a 0/1 word.
type EqByteExpr struct {
	X Byte
	Y Byte
}

// String returns the string representation of the expression.
func (e *EqByteExpr) String() string {
	return fmt.Sprintf("(eq-byte %s %s)", e.X, e.Y)
}

// BufLength returns the length of buf as a word expression.
func BufLength(buf Buf) Word {
	switch buf := buf.(type) {
	case *EmptyBuf:
		return NewLit64(0)
	case *ConcreteBuf:
		return NewLit64(uint64(len(buf.Data)))
	default:
		return &BufLengthExpr{Buf: buf}
	}
}
