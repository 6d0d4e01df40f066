package metrics

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteTotalCSV emits the aggregate-statistics row of spec §6's
// total.csv contract, computed over the samples of a single stage (the
// end-to-end tick-to-trade latency, by convention).
func WriteTotalCSV(w io.Writer, stage *StageStats) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"mean", "median", "p90", "p99", "p999", "p9999", "stddev", "jitter", "min", "max", "sample_count"}); err != nil {
		return err
	}
	p := stage.Percentiles()
	row := []string{
		formatFloat(isFinite(stage.Mean())),
		formatFloat(isFinite(stage.Median())),
		formatFloat(isFinite(p.P90)),
		formatFloat(isFinite(p.P99)),
		formatFloat(isFinite(p.P999)),
		formatFloat(isFinite(p.P9999)),
		formatFloat(isFinite(stage.StdDev())),
		formatFloat(isFinite(stage.Jitter())),
		formatFloat(isFinite(stage.Min())),
		formatFloat(isFinite(stage.Max())),
		fmt.Sprintf("%d", stage.Count()),
	}
	return cw.Write(row)
}

// WriteComponentsCSV emits one row per pipeline stage: mean, p99, max, and
// percent-of-total, per spec §6's components.csv contract.
func WriteComponentsCSV(w io.Writer, stages []*StageStats) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"stage", "mean", "p99", "max", "percent_of_total"}); err != nil {
		return err
	}
	for _, s := range stages {
		p := s.Percentiles()
		row := []string{
			s.Name,
			formatFloat(isFinite(s.Mean())),
			formatFloat(isFinite(p.P99)),
			formatFloat(isFinite(s.Max())),
			formatFloat(isFinite(s.PercentOfTotal(stages))),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteRawSamplesCSV emits one row per measurement index, with each
// stage's timing at that index, per spec §6's raw_samples.csv contract.
// A stage with fewer samples than the longest stage leaves its own column
// empty in the rows past its last sample.
func WriteRawSamplesCSV(w io.Writer, stages []*StageStats) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := make([]string, 0, len(stages)+1)
	header = append(header, "index")
	for _, s := range stages {
		header = append(header, s.Name)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	maxLen := 0
	for _, s := range stages {
		if len(s.samples) > maxLen {
			maxLen = len(s.samples)
		}
	}
	for i := 0; i < maxLen; i++ {
		row := make([]string, 0, len(stages)+1)
		row = append(row, fmt.Sprintf("%d", i))
		for _, s := range stages {
			if i < len(s.samples) {
				row = append(row, formatFloat(s.samples[i]))
			} else {
				row = append(row, "")
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func formatFloat(v float64) string {
	return fmt.Sprintf("%g", v)
}
