package mapping

// Record is one row of the external tabular source: an ordered mapping of
// source field names to raw string values. Field order follows the source
// header and is significant for extras passthrough.
type Record struct {
	names  []string
	values map[string]string
}

// NewRecord creates an empty record.
func NewRecord() *Record {
	return &Record{values: make(map[string]string)}
}

// Set stores a field value, appending the name to the ordering if new.
func (r *Record) Set(name, value string) {
	if _, ok := r.values[name]; !ok {
		r.names = append(r.names, name)
	}
	r.values[name] = value
}

// Get returns the raw value of a field.
func (r *Record) Get(name string) (string, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Names returns the field names in source order.
func (r *Record) Names() []string {
	return r.names
}

// Len returns the number of fields.
func (r *Record) Len() int {
	return len(r.names)
}
