package sevm

import (
	"fmt"

	"github.com/holiman/uint256"
)

// Evaluator evaluates expressions using known values for their abstract
// leaves. Every Eval* method reduces its argument to the literal form, or
// returns an error when an unbound leaf is encountered.
type Evaluator struct {
	vars   map[string]uint256.Int
	bufs   map[string][]byte
	stores map[string]*ConcreteStore
}

// NewEvaluator returns a new Evaluator with no bindings.
func NewEvaluator() *Evaluator {
	return &Evaluator{
		vars:   make(map[string]uint256.Int),
		bufs:   make(map[string][]byte),
		stores: make(map[string]*ConcreteStore),
	}
}

// BindVar binds the word variable name to v.
func (ev *Evaluator) BindVar(name string, v *uint256.Int) {
	var cp uint256.Int
	cp.Set(v)
	ev.vars[name] = cp
}

// BindBuf binds the abstract buffer name to data.
func (ev *Evaluator) BindBuf(name string, data []byte) {
	cp := make([]byte, len(data))
	copy(cp, data)
	ev.bufs[name] = cp
}

// BindStore binds the abstract store name to s.
func (ev *Evaluator) BindStore(name string, s *ConcreteStore) {
	ev.stores[name] = s
}

// EvalWord evaluates w to a literal word.
func (ev *Evaluator) EvalWord(w Word) (*Lit, error) {
	switch w := w.(type) {
	case *Lit:
		return w, nil

	case *Var:
		v, ok := ev.vars[w.Name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnboundVar, w.Name)
		}
		return &Lit{Val: v}, nil

	case *BinaryExpr:
		lhs, err := ev.EvalWord(w.LHS)
		if err != nil {
			return nil, err
		}
		rhs, err := ev.EvalWord(w.RHS)
		if err != nil {
			return nil, err
		}
		return evalBinary(w.Op, lhs, rhs), nil

	case *UnaryExpr:
		x, err := ev.EvalWord(w.X)
		if err != nil {
			return nil, err
		}
		return NewUnaryExpr(w.Op, x).(*Lit), nil

	case *TernaryExpr:
		x, err := ev.EvalWord(w.X)
		if err != nil {
			return nil, err
		}
		y, err := ev.EvalWord(w.Y)
		if err != nil {
			return nil, err
		}
		z, err := ev.EvalWord(w.Z)
		if err != nil {
			return nil, err
		}
		return NewTernaryExpr(w.Op, x, y, z).(*Lit), nil

	case *ReadWordExpr:
		idx, err := ev.EvalWord(w.Index)
		if err != nil {
			return nil, err
		}
		buf, err := ev.EvalBuf(w.Buf)
		if err != nil {
			return nil, err
		}
		return ReadWord(idx, buf).(*Lit), nil

	case *BufLengthExpr:
		buf, err := ev.EvalBuf(w.Buf)
		if err != nil {
			return nil, err
		}
		return NewLit64(uint64(len(buf.Data))), nil

	case *JoinBytesExpr:
		bs := make([]Byte, len(w.Bytes))
		for i, b := range w.Bytes {
			v, err := ev.EvalByte(b)
			if err != nil {
				return nil, err
			}
			bs[i] = v
		}
		return JoinBytes(bs...).(*Lit), nil

	case *SLoadExpr:
		key, err := ev.EvalWord(w.Key)
		if err != nil {
			return nil, err
		}
		store, err := ev.EvalStorage(w.Store)
		if err != nil {
			return nil, err
		}
		// A fully evaluated store reads unwritten slots as zero.
		v, ok := ReadStorage(store, key)
		if !ok {
			return &Lit{}, nil
		}
		return v.(*Lit), nil

	case *EqByteExpr:
		x, err := ev.EvalByte(w.X)
		if err != nil {
			return nil, err
		}
		y, err := ev.EvalByte(w.Y)
		if err != nil {
			return nil, err
		}
		return EqByte(x, y).(*Lit), nil

	default:
		return nil, fmt.Errorf("invalid word expression type: %T", w)
	}
}

// EvalByte evaluates b to a literal byte.
func (ev *Evaluator) EvalByte(b Byte) (*LitByte, error) {
	switch b := b.(type) {
	case *LitByte:
		return b, nil

	case *ReadByteExpr:
		idx, err := ev.EvalWord(b.Index)
		if err != nil {
			return nil, err
		}
		buf, err := ev.EvalBuf(b.Buf)
		if err != nil {
			return nil, err
		}
		return ReadByte(idx, buf).(*LitByte), nil

	case *IndexWordExpr:
		idx, err := ev.EvalWord(b.Index)
		if err != nil {
			return nil, err
		}
		w, err := ev.EvalWord(b.Word)
		if err != nil {
			return nil, err
		}
		return IndexWord(idx, w).(*LitByte), nil

	default:
		return nil, fmt.Errorf("invalid byte expression type: %T", b)
	}
}

// EvalBuf evaluates buf to a concrete buffer. The overlay chain is peeled
// iteratively and replayed against the evaluated base.
func (ev *Evaluator) EvalBuf(buf Buf) (*ConcreteBuf, error) {
	// Collect the overlay spine down to the underlying buffer.
	var spine []Buf
	cur := buf
loop:
	for {
		switch b := cur.(type) {
		case *WriteByteExpr:
			spine = append(spine, b)
			cur = b.Base
		case *WriteWordExpr:
			spine = append(spine, b)
			cur = b.Base
		case *CopySliceExpr:
			spine = append(spine, b)
			cur = b.Dst
		default:
			break loop
		}
	}

	var out Buf
	switch b := cur.(type) {
	case *EmptyBuf:
		out = &ConcreteBuf{}
	case *ConcreteBuf:
		out = b
	case *AbstractBuf:
		data, ok := ev.bufs[b.Name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnboundBuf, b.Name)
		}
		out = &ConcreteBuf{Data: data}
	default:
		return nil, fmt.Errorf("invalid buffer expression type: %T", cur)
	}

	// Replay the overlays oldest-first.
	for i := len(spine) - 1; i >= 0; i-- {
		switch w := spine[i].(type) {
		case *WriteByteExpr:
			idx, err := ev.EvalWord(w.Index)
			if err != nil {
				return nil, err
			}
			val, err := ev.EvalByte(w.Value)
			if err != nil {
				return nil, err
			}
			out = WriteByte(idx, val, out)
		case *WriteWordExpr:
			idx, err := ev.EvalWord(w.Index)
			if err != nil {
				return nil, err
			}
			val, err := ev.EvalWord(w.Value)
			if err != nil {
				return nil, err
			}
			out = WriteWord(idx, val, out)
		case *CopySliceExpr:
			srcOff, err := ev.EvalWord(w.SrcOff)
			if err != nil {
				return nil, err
			}
			dstOff, err := ev.EvalWord(w.DstOff)
			if err != nil {
				return nil, err
			}
			size, err := ev.EvalWord(w.Size)
			if err != nil {
				return nil, err
			}
			src, err := ev.EvalBuf(w.Src)
			if err != nil {
				return nil, err
			}
			out = CopySlice(srcOff, dstOff, size, src, out)
		}

		if _, ok := out.(*ConcreteBuf); !ok {
			return nil, ErrBufTooLarge
		}
	}
	return out.(*ConcreteBuf), nil
}

// EvalStorage evaluates s to a concrete store. The write log is peeled
// iteratively and replayed against the evaluated base.
func (ev *Evaluator) EvalStorage(s Storage) (*ConcreteStore, error) {
	var spine []*SStoreExpr
	cur := s
	for {
		w, ok := cur.(*SStoreExpr)
		if !ok {
			break
		}
		spine = append(spine, w)
		cur = w.Base
	}

	var out *ConcreteStore
	switch b := cur.(type) {
	case *EmptyStore:
		out = NewConcreteStore()
	case *ConcreteStore:
		out = b
	case *AbstractStore:
		bound, ok := ev.stores[b.Name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnboundStore, b.Name)
		}
		out = bound
	default:
		return nil, fmt.Errorf("invalid storage expression type: %T", cur)
	}

	for i := len(spine) - 1; i >= 0; i-- {
		key, err := ev.EvalWord(spine[i].Key)
		if err != nil {
			return nil, err
		}
		val, err := ev.EvalWord(spine[i].Value)
		if err != nil {
			return nil, err
		}
		out = out.Set(&key.Val, &val.Val)
	}
	return out, nil
}
