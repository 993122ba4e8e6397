// Package export renders engine output for consumers. The engine itself
// defines no file format; these writers are caller-side conveniences.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/gridflow/lvplan/core/model"
)

// WriteSummaryJSON writes the full distribution results to w in JSON.
func WriteSummaryJSON(w io.Writer, res *model.DistributionResults) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		RunID   string                    `json:"run_id"`
		Summary model.DistributionSummary `json:"summary"`
	}{RunID: res.RunID, Summary: res.Summary})
}

// WriteTransformersCSV writes one row per occupied breaker.
func WriteTransformersCSV(w io.Writer, transformers []*model.Transformer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"transformer", "type", "breaker", "dedicated", "load_amps", "utilization_pct", "meters"}); err != nil {
		return err
	}
	for _, t := range transformers {
		for _, b := range t.Breakers {
			if len(b.Meters) == 0 {
				continue
			}
			ids := make([]string, 0, len(b.Meters))
			for _, m := range b.Meters {
				ids = append(ids, m.ID.String())
			}
			rec := []string{
				strconv.Itoa(t.ID),
				t.Type.Name,
				strconv.Itoa(b.Number),
				strconv.FormatBool(b.Dedicated),
				strconv.FormatFloat(b.Load, 'f', 2, 64),
				strconv.FormatFloat(b.UtilizationPercent, 'f', 1, 64),
				strings.Join(ids, " "),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteConnectionsCSV writes one row per final connection.
func WriteConnectionsCSV(w io.Writer, conns []model.FinalConnection) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"transformer", "breakers", "feed", "feeder", "box", "fuses", "total_cdl_amps", "outlets", "meters"}); err != nil {
		return err
	}
	for _, c := range conns {
		rec := []string{
			strconv.Itoa(c.TransformerID),
			joinInts(c.BreakerNumbers),
			string(c.Config.Feed),
			c.Config.FeederDesc,
			c.Config.BoxType,
			strconv.Itoa(c.Config.FuseCount),
			strconv.FormatFloat(c.TotalCDL, 'f', 2, 64),
			joinInts(c.OutletNumbers),
			strings.Join(c.MeterIDs, " "),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func joinInts(nums []int) string {
	parts := make([]string, 0, len(nums))
	for _, n := range nums {
		parts = append(parts, strconv.Itoa(n))
	}
	return strings.Join(parts, "+")
}
