// Package inventory reads and appends hardware inventory records.
package inventory

// Standard field names written by the collector.
const (
	FieldCodigo   = "codigo"
	FieldCPUModel = "cpu_model"
	FieldRAMGiB   = "ram_gib"
	FieldDiscos   = "discos"
)

// Header is the column order used for new CSV files.
var Header = []string{FieldCodigo, FieldCPUModel, FieldRAMGiB, FieldDiscos}

// Field is a single named value of a record.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Record keeps the fields of one inventory row in source column order.
type Record struct {
	Fields []Field `json:"fields"`
}

// NewRecord builds a record from alternating name/value pairs.
// A trailing name without value is ignored.
func NewRecord(pairs ...string) Record {
	fields := make([]Field, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		fields = append(fields, Field{Name: pairs[i], Value: pairs[i+1]})
	}
	return Record{Fields: fields}
}

// Get returns the value of the first field named name.
func (r Record) Get(name string) (string, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Values returns the fields as a map. Later duplicates do not override earlier ones.
func (r Record) Values() map[string]string {
	out := make(map[string]string, len(r.Fields))
	for _, f := range r.Fields {
		if _, ok := out[f.Name]; ok {
			continue
		}
		out[f.Name] = f.Value
	}
	return out
}
