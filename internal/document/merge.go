package document

// DeepMerge merges documents left to right; later documents win. When both
// sides hold an object under the same key the objects are merged recursively,
// otherwise the later value replaces the earlier one, including with null.
// Null arguments are skipped. Inputs are never modified.
func DeepMerge(docs ...Value) Value {
	var (
		out  Value
		seen bool
	)
	for _, d := range docs {
		if d.IsNull() {
			continue
		}
		if !seen {
			out = d.Clone()
			seen = true
			continue
		}
		out = merge(out, d)
	}
	if !seen {
		return Null()
	}
	return out
}

// merge returns left with right merged in. left is owned by the caller and
// may be reused.
func merge(left, right Value) Value {
	lo, lok := left.AsObject()
	ro, rok := right.AsObject()
	if !lok || !rok {
		return right.Clone()
	}
	ro.Range(func(key string, rv Value) bool {
		if lv, ok := lo.Get(key); ok {
			lo.Set(key, merge(lv, rv))
		} else {
			lo.Set(key, rv.Clone())
		}
		return true
	})
	return left
}

// StripEmpty removes, at every depth, object entries whose value is null, an
// empty object or an empty array. It works bottom-up, so an object that only
// held empty entries is itself removed from its parent. Array elements are
// cleaned but never dropped.
func StripEmpty(v Value) Value {
	switch v.kind {
	case KindObject:
		out := NewObject()
		v.obj.Range(func(key string, child Value) bool {
			cleaned := StripEmpty(child)
			if !cleaned.IsEmpty() {
				out.Set(key, cleaned)
			}
			return true
		})
		return FromObject(out)
	case KindArray:
		elems := make([]Value, len(v.arr))
		for i, e := range v.arr {
			elems[i] = StripEmpty(e)
		}
		return Array(elems...)
	default:
		return v
	}
}

// Equal reports whether a and b are structurally equal. Object key order is
// ignored; numbers compare by value when their literals differ.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindNumber:
		if a.num == b.num {
			return true
		}
		af, aerr := a.num.Float64()
		bf, berr := b.num.Float64()
		return aerr == nil && berr == nil && af == bf
	case KindString:
		return a.str == b.str
	case KindArray:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !Equal(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if a.obj.Len() != b.obj.Len() {
			return false
		}
		equal := true
		a.obj.Range(func(key string, av Value) bool {
			bv, ok := b.obj.Get(key)
			equal = ok && Equal(av, bv)
			return equal
		})
		return equal
	}
	return false
}
