// Package sevm implements the symbolic expression algebra used by an EVM
// symbolic executor. Terms over four sorts (words, bytes, buffers, storage)
// are built through smart constructors that fold to literal leaves whenever
// every operand is concrete, and remain as symbolic tree nodes otherwise.
//
// All values are immutable. Operations never mutate their inputs; a "write"
// to a buffer or store returns a new node layered over the previous one.
package sevm

import (
	"errors"
)

// Evaluation errors.
var (
	ErrUnboundVar   = errors.New("unbound variable")
	ErrUnboundBuf   = errors.New("unbound buffer")
	ErrUnboundStore = errors.New("unbound store")
	ErrBufTooLarge  = errors.New("buffer too large")
)

// Node is implemented by every expression node of every sort.
type Node interface {
	String() string
}

// maxConcreteLen bounds the concrete materialization of buffers. Writes and
// copies whose literal offsets land past this bound stay symbolic.
const maxConcreteLen = 1 << 32

// usableIndex returns v as an int if it can address concrete buffer memory.
func usableIndex(v Word) (int, bool) {
	lit, ok := v.(*Lit)
	if !ok {
		return 0, false
	}
	if !lit.Val.IsUint64() || lit.Val.Uint64() >= maxConcreteLen {
		return 0, false
	}
	return int(lit.Val.Uint64()), true
}
