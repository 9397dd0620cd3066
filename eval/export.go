package eval

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/pkg/errors"
)

// ExportFormat selects the on-disk shape a learning curve is written in.
type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportTSV  ExportFormat = "tsv"
	ExportJSON ExportFormat = "json"
)

// extraKeys returns the union of every snapshot's Extras keys, sorted, so
// the exported header/field order is stable across the whole curve
// regardless of which snapshot first introduced a given extra.
func extraKeys(snapshots []Snapshot) []string {
	seen := map[string]struct{}{}
	for _, s := range snapshots {
		for k := range s.Extras {
			seen[k] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Export writes snapshots to w in the requested format: csv/tsv get
// a header row of "instances_seen, accuracy, kappa, ram_hours, seconds"
// followed by the extras in key order; json gets an array of objects with
// the same fields plus a nested "extras" object (omitted when empty), so
// the extras are not inlined at the top level. NaN values render as the
// literal "NaN" in csv/tsv and as the string "NaN" in json.
func Export(w io.Writer, snapshots []Snapshot, format ExportFormat) error {
	switch format {
	case ExportCSV:
		return exportDelimited(w, snapshots, ',')
	case ExportTSV:
		return exportDelimited(w, snapshots, '\t')
	case ExportJSON:
		return exportJSON(w, snapshots)
	default:
		return errors.Errorf("unknown export format %q", format)
	}
}

func exportDelimited(w io.Writer, snapshots []Snapshot, sep rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = sep
	defer cw.Flush()

	extras := extraKeys(snapshots)
	header := append([]string{"instances_seen", "accuracy", "kappa", "ram_hours", "seconds"}, extras...)
	if err := cw.Write(header); err != nil {
		return errors.Wrap(err, "writing export header")
	}

	for _, s := range snapshots {
		row := []string{
			fmt.Sprintf("%d", s.InstancesSeen),
			formatFloat(s.Accuracy),
			formatFloat(s.Kappa),
			formatFloat(s.RAMHours),
			formatFloat(s.Seconds),
		}
		for _, k := range extras {
			v, ok := s.Extras[k]
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, formatFloat(v))
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrap(err, "writing export row")
		}
	}
	return cw.Error()
}

func formatFloat(f float64) string {
	if f != f { // NaN
		return "NaN"
	}
	return fmt.Sprintf("%g", f)
}

// jsonFloat renders as a plain JSON number, except NaN (encoding/json
// rejects non-finite floats outright) which renders as the string "NaN"
// to mirror the csv/tsv exporter's literal rendering.
type jsonFloat float64

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	if f != f {
		return []byte(`"NaN"`), nil
	}
	return json.Marshal(float64(f))
}

type jsonSnapshot struct {
	InstancesSeen uint64               `json:"instances_seen"`
	Accuracy      jsonFloat            `json:"accuracy"`
	Kappa         jsonFloat            `json:"kappa"`
	RAMHours      jsonFloat            `json:"ram_hours"`
	Seconds       jsonFloat            `json:"seconds"`
	Extras        map[string]jsonFloat `json:"extras,omitempty"`
}

func exportJSON(w io.Writer, snapshots []Snapshot) error {
	out := make([]jsonSnapshot, len(snapshots))
	for i, s := range snapshots {
		extras := make(map[string]jsonFloat, len(s.Extras))
		for k, v := range s.Extras {
			extras[k] = jsonFloat(v)
		}
		out[i] = jsonSnapshot{
			InstancesSeen: s.InstancesSeen,
			Accuracy:      jsonFloat(s.Accuracy),
			Kappa:         jsonFloat(s.Kappa),
			RAMHours:      jsonFloat(s.RAMHours),
			Seconds:       jsonFloat(s.Seconds),
			Extras:        extras,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
