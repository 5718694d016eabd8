package layout

import (
	"strings"

	"github.com/ByLCY/hwlabels/inventory"
)

// Placeholder substitutes fields missing from a record.
const Placeholder = "N/A"

// Truncation limits for label text, in characters.
const (
	MaxCPULength    = 45
	MaxDiscosLength = 50
)

// Label holds the display strings of one record.
type Label struct {
	Codigo string `json:"codigo"`
	CPU    string `json:"cpu"`
	RAM    string `json:"ram"`
	Discos string `json:"discos"`
}

// Shape derives the display strings of rec. It never fails: absent fields become Placeholder.
func Shape(rec inventory.Record) Label {
	return Label{
		Codigo: strings.TrimSpace(field(rec, inventory.FieldCodigo)),
		CPU:    shortCPU(field(rec, inventory.FieldCPUModel)),
		RAM:    field(rec, inventory.FieldRAMGiB),
		Discos: truncate(field(rec, inventory.FieldDiscos), MaxDiscosLength),
	}
}

// Values exposes the label for template interpolation. Extra record fields are
// passed through trimmed; the four shaped fields take precedence.
func (l Label) Values(rec inventory.Record) map[string]string {
	values := make(map[string]string, len(rec.Fields)+4)
	for _, f := range rec.Fields {
		if _, ok := values[f.Name]; !ok {
			values[f.Name] = strings.TrimSpace(f.Value)
		}
	}
	values[inventory.FieldCodigo] = l.Codigo
	values[inventory.FieldCPUModel] = l.CPU
	values[inventory.FieldRAMGiB] = l.RAM
	values[inventory.FieldDiscos] = l.Discos
	return values
}

func field(rec inventory.Record, name string) string {
	if v, ok := rec.Get(name); ok {
		return v
	}
	return Placeholder
}

// shortCPU drops the clock suffix ("Intel Core i7 @ 2.6GHz" -> "Intel Core i7").
func shortCPU(cpu string) string {
	if head, _, found := strings.Cut(cpu, "@"); found {
		cpu = strings.TrimSpace(head)
	}
	return truncate(cpu, MaxCPULength)
}

// truncate keeps the first max characters. No ellipsis, no word boundaries.
func truncate(s string, max int) string {
	count := 0
	for i := range s {
		if count == max {
			return s[:i]
		}
		count++
	}
	return s
}
