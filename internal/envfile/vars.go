package envfile

// Vars is an ordered set of variables. Keys keep the order of their first occurrence.
type Vars struct {
	keys   []string
	values map[string]string
}

// NewVars returns an empty set.
func NewVars() *Vars {
	return &Vars{values: make(map[string]string)}
}

// Set stores value under key, appending key if it is new.
func (v *Vars) Set(key, value string) {
	if _, ok := v.values[key]; !ok {
		v.keys = append(v.keys, key)
	}
	v.values[key] = value
}

// Get returns the value stored under key.
func (v *Vars) Get(key string) (string, bool) {
	val, ok := v.values[key]
	return val, ok
}

// Has reports whether key is present.
func (v *Vars) Has(key string) bool {
	_, ok := v.values[key]
	return ok
}

// Keys returns the keys in insertion order.
func (v *Vars) Keys() []string {
	return append([]string(nil), v.keys...)
}

// Len returns the number of distinct keys.
func (v *Vars) Len() int {
	return len(v.keys)
}
