package object

import (
	"hash/fnv"
	"math"
	"strings"
)

type dictEntry struct {
	key Value
	val Value
}

// Dictionary is a value-hashed map: any hashable Value (Null, Boolean,
// Number, String) may be a key, with collisions resolved by bucket chains
// compared via valueEqual. `dict.name` (Access) falls back to an
// identifier lookup equivalent to `dict["name"]` (see GetField), matching
// the fallback scriptpp property access gives dictionaries (spec.md §3).
type Dictionary struct {
	buckets map[uint64][]dictEntry
	size    int
}

// NewDictionary returns an empty Dictionary ready for use.
func NewDictionary() *Dictionary {
	return &Dictionary{buckets: make(map[uint64][]dictEntry)}
}

func (d *Dictionary) Kind() Kind { return KindDictionary }

func (d *Dictionary) String() string {
	var b strings.Builder
	b.WriteByte('{')
	first := true
	for _, bucket := range d.buckets {
		for _, e := range bucket {
			if !first {
				b.WriteString(", ")
			}
			first = false
			b.WriteString(e.key.String())
			b.WriteString(": ")
			b.WriteString(e.val.String())
		}
	}
	b.WriteByte('}')
	return b.String()
}

func (d *Dictionary) Size() int64 { return int64(d.size) }

// Hash returns a hash for v and whether v is hashable. Only Null, Boolean,
// Number, and String are hashable; Numbers hash by their float64 widening
// so that Int64(2) and Float64(2.0) collide into the same bucket,
// consistent with Number.Equal treating them as equal.
func Hash(v Value) (uint64, bool) {
	switch val := v.(type) {
	case *Null:
		return 0, true
	case *Boolean:
		if val.Value {
			return 1, true
		}
		return 2, true
	case *Number:
		return math.Float64bits(val.AsFloat()), true
	case *String:
		h := fnv.New64a()
		h.Write([]byte(val.Value))
		return h.Sum64(), true
	default:
		return 0, false
	}
}

func valueEqual(a, b Value) bool {
	switch av := a.(type) {
	case *Null:
		_, ok := b.(*Null)
		return ok
	case *Boolean:
		bv, ok := b.(*Boolean)
		return ok && av.Value == bv.Value
	case *Number:
		bv, ok := b.(*Number)
		return ok && av.Equal(bv)
	case *String:
		bv, ok := b.(*String)
		return ok && av.Value == bv.Value
	default:
		return a == b
	}
}

// Put inserts or replaces the value for key. ok is false when key is not
// hashable.
func (d *Dictionary) Put(key, val Value) bool {
	h, ok := Hash(key)
	if !ok {
		return false
	}
	bucket := d.buckets[h]
	for i, e := range bucket {
		if valueEqual(e.key, key) {
			bucket[i].val = val
			return true
		}
	}
	d.buckets[h] = append(bucket, dictEntry{key: key, val: val})
	d.size++
	return true
}

// Get returns the value for key and whether it was present.
func (d *Dictionary) Get(key Value) (Value, bool) {
	h, ok := Hash(key)
	if !ok {
		return nil, false
	}
	for _, e := range d.buckets[h] {
		if valueEqual(e.key, key) {
			return e.val, true
		}
	}
	return nil, false
}

// Has reports whether key is present.
func (d *Dictionary) Has(key Value) bool {
	_, ok := d.Get(key)
	return ok
}

// Delete removes key, reporting whether it was present.
func (d *Dictionary) Delete(key Value) bool {
	h, ok := Hash(key)
	if !ok {
		return false
	}
	bucket := d.buckets[h]
	for i, e := range bucket {
		if valueEqual(e.key, key) {
			d.buckets[h] = append(bucket[:i], bucket[i+1:]...)
			d.size--
			return true
		}
	}
	return false
}

// GetField is the `dict.name` property-access fallback: an identifier
// access on a Dictionary behaves as a String-keyed lookup.
func (d *Dictionary) GetField(name string) (Value, bool) {
	return d.Get(&String{Value: name})
}

// Keys returns every key currently stored, in unspecified order.
func (d *Dictionary) Keys() []Value {
	keys := make([]Value, 0, d.size)
	for _, bucket := range d.buckets {
		for _, e := range bucket {
			keys = append(keys, e.key)
		}
	}
	return keys
}

// Reference returns a settable Reference to key's slot, creating the entry
// lazily on Set if it does not already exist.
func (d *Dictionary) Reference(key Value) Reference {
	return Reference{
		Name: "dict[]",
		Get: func() (Value, error) {
			if v, ok := d.Get(key); ok {
				return v, nil
			}
			return NullValue, nil
		},
		Set: func(v Value) error {
			d.Put(key, v)
			return nil
		},
	}
}
