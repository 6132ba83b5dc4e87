package document

// Object maps string keys to values and remembers insertion order.
type Object struct {
	keys []string
	vals map[string]Value
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{vals: make(map[string]Value)}
}

// Len returns the number of keys. A nil object is empty.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	return append([]string(nil), o.keys...)
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return Value{}, false
	}
	v, ok := o.vals[key]
	return v, ok
}

// Has reports whether key is present, even when it holds null.
func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Set stores v under key. A new key goes to the end; an existing key keeps
// its position.
func (o *Object) Set(key string, v Value) *Object {
	if o.vals == nil {
		o.vals = make(map[string]Value)
	}
	if _, ok := o.vals[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.vals[key] = v
	return o
}

// Delete removes the given keys.
func (o *Object) Delete(keys ...string) *Object {
	for _, key := range keys {
		if _, ok := o.vals[key]; !ok {
			continue
		}
		delete(o.vals, key)
		for i, k := range o.keys {
			if k == key {
				o.keys = append(o.keys[:i], o.keys[i+1:]...)
				break
			}
		}
	}
	return o
}

// Range calls fn for each entry in insertion order until fn returns false.
func (o *Object) Range(fn func(key string, v Value) bool) {
	if o == nil {
		return
	}
	for _, k := range o.keys {
		if !fn(k, o.vals[k]) {
			return
		}
	}
}

// Clone returns a deep copy of o.
func (o *Object) Clone() *Object {
	out := NewObject()
	o.Range(func(key string, v Value) bool {
		out.Set(key, v.Clone())
		return true
	})
	return out
}

// Select returns a deep copy holding only the listed keys that are present,
// in o's order.
func (o *Object) Select(keys ...string) *Object {
	want := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		want[k] = struct{}{}
	}
	out := NewObject()
	o.Range(func(key string, v Value) bool {
		if _, ok := want[key]; ok {
			out.Set(key, v.Clone())
		}
		return true
	})
	return out
}

// MapValues returns a new object with fn applied to every value.
func (o *Object) MapValues(fn func(key string, v Value) Value) *Object {
	out := NewObject()
	o.Range(func(key string, v Value) bool {
		out.Set(key, fn(key, v))
		return true
	})
	return out
}
