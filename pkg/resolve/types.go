package resolve

// SourceDefault marks a value that came from the template's declared
// default rather than an override provider.
const SourceDefault = "default"

// Value is one resolved key/value pair together with the source that
// supplied the winning value.
type Value struct {
	Key    string
	Value  string
	Source string
}

// Resolution is the complete validated configuration produced by a
// single Resolve call. It is write-once: every required key is present
// with a type-valid value before a Resolution exists at all, and it is
// never mutated after construction.
type Resolution struct {
	// RunID uniquely identifies the invocation that produced this
	// resolution, for logging and render history.
	RunID string

	// Values holds the resolved pairs in template declaration order.
	// Emission sorts lexicographically regardless.
	Values []Value

	byKey map[string]int
}

func newResolution(runID string, values []Value) *Resolution {
	byKey := make(map[string]int, len(values))
	for i := range values {
		byKey[values[i].Key] = i
	}
	return &Resolution{RunID: runID, Values: values, byKey: byKey}
}

// Get returns the resolved value for key, if present.
func (r *Resolution) Get(key string) (Value, bool) {
	i, ok := r.byKey[key]
	if !ok {
		return Value{}, false
	}
	return r.Values[i], true
}

// Map returns the resolved pairs as a plain map.
func (r *Resolution) Map() map[string]string {
	m := make(map[string]string, len(r.Values))
	for _, v := range r.Values {
		m[v.Key] = v.Value
	}
	return m
}

// Len returns the number of resolved pairs.
func (r *Resolution) Len() int {
	return len(r.Values)
}
