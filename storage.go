package sevm

import (
	"bytes"
	"fmt"

	"github.com/benbjohnson/immutable"
	"github.com/holiman/uint256"
)

// Storage represents a word-keyed, word-valued store expression.
type Storage interface {
	Node
	store()
}

func (*EmptyStore) store()    {}
func (*ConcreteStore) store() {}
func (*AbstractStore) store() {}
func (*SStoreExpr) store()    {}

// EmptyStore represents a store with no prior writes.
type EmptyStore struct{}

// String returns the string representation of the store.
func (e *EmptyStore) String() string {
	return "(empty-store)"
}

// ConcreteStore represents a store whose written slots are all known.
// Lookups of unwritten keys report a miss rather than zero, so that callers
// can service the read out-of-band.
type ConcreteStore struct {
	m *immutable.SortedMap // uint256.Int → uint256.Int
}

// NewConcreteStore returns a new empty concrete store.
func NewConcreteStore() *ConcreteStore {
	return &ConcreteStore{m: immutable.NewSortedMap(&wordComparer{})}
}

// Set returns a copy of the store with key mapped to val.
func (e *ConcreteStore) Set(key, val *uint256.Int) *ConcreteStore {
	var k, v uint256.Int
	k.Set(key)
	v.Set(val)
	return &ConcreteStore{m: e.m.Set(k, v)}
}

// Get returns the value stored under key, if any.
func (e *ConcreteStore) Get(key *uint256.Int) (*uint256.Int, bool) {
	var k uint256.Int
	k.Set(key)
	value, ok := e.m.Get(k)
	if !ok {
		return nil, false
	}
	v := value.(uint256.Int)
	return &v, true
}

// Len returns the number of written slots.
func (e *ConcreteStore) Len() int {
	return e.m.Len()
}

// Pairs returns the key/value pairs of the store in ascending key order.
func (e *ConcreteStore) Pairs() [][2]uint256.Int {
	pairs := make([][2]uint256.Int, 0, e.m.Len())
	itr := e.m.Iterator()
	for {
		k, v := itr.Next()
		if k == nil {
			return pairs
		}
		pairs = append(pairs, [2]uint256.Int{k.(uint256.Int), v.(uint256.Int)})
	}
}

// String returns the string representation of the store.
func (e *ConcreteStore) String() string {
	var buf bytes.Buffer
	buf.WriteString("(concrete-store")
	for _, kv := range e.Pairs() {
		fmt.Fprintf(&buf, " [%s %s]", kv[0].Hex(), kv[1].Hex())
	}
	buf.WriteString(")")
	return buf.String()
}

// AbstractStore represents a store with fully unknown contents.
type AbstractStore struct {
	Name string
}

// NewAbstractStore returns a new symbolic store.
func NewAbstractStore(name string) *AbstractStore {
	return &AbstractStore{Name: name}
}

// String returns the string representation of the store.
func (e *AbstractStore) String() string {
	return fmt.Sprintf("(abstract-store %s)", e.Name)
}

// SStoreExpr represents a write overlaid on a base store.
type SStoreExpr struct {
	Key   Word
	Value Word
	Base  Storage
}

// String returns the string representation of the store.
func (e *SStoreExpr) String() string {
	return fmt.Sprintf("(sstore %s %s %s)", e.Key, e.Value, e.Base)
}

// ReadStorage returns the word stored under key. The second return value is
// false only when the lookup reaches an EmptyStore (whatever the key) or a
// literal key finds no prior write in a ConcreteStore; callers may then
// service the read out-of-band and retry.
func ReadStorage(store Storage, key Word) (Word, bool) {
	k, concrete := key.(*Lit)
	for {
		switch s := store.(type) {
		case *EmptyStore:
			return nil, false

		case *ConcreteStore:
			if !concrete {
				return &SLoadExpr{Key: key, Store: store}, true
			}
			if v, ok := s.Get(&k.Val); ok {
				return NewLit(v), true
			}
			return nil, false

		case *AbstractStore:
			return &SLoadExpr{Key: key, Store: store}, true

		case *SStoreExpr:
			sk, ok := s.Key.(*Lit)
			if !concrete || !ok {
				// Cannot prove the keys disjoint; keep the whole write log.
				return &SLoadExpr{Key: key, Store: store}, true
			}
			if sk.Val.Eq(&k.Val) {
				return s.Value, true
			}
			store = s.Base

		default:
			return &SLoadExpr{Key: key, Store: store}, true
		}
	}
}

// WriteStorage returns store with val written under key.
// Folds into a concrete store when key, val & store are all concrete;
// otherwise the write is appended to the log, never dropped.
func WriteStorage(key, val Word, store Storage) Storage {
	k, kOK := key.(*Lit)
	v, vOK := val.(*Lit)
	if kOK && vOK {
		switch s := store.(type) {
		case *EmptyStore:
			return NewConcreteStore().Set(&k.Val, &v.Val)
		case *ConcreteStore:
			return s.Set(&k.Val, &v.Val)
		}
	}
	return &SStoreExpr{Key: key, Value: val, Base: store}
}

// wordComparer compares two 256-bit words. Implements immutable.Comparer.
type wordComparer struct{}

// Compare returns -1 if a is less than b, returns 1 if a is greater than b,
// and returns 0 if a is equal to b. Panic if a or b is not a uint256.Int.
func (c *wordComparer) Compare(a, b interface{}) int {
	ai, bi := a.(uint256.Int), b.(uint256.Int)
	return ai.Cmp(&bi)
}
