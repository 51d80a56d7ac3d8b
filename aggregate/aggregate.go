package aggregate

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/umbralabs/gstring"
	"github.com/umbralabs/gstring/errors"
)

// Process folds every "station;value" row of data into a group table.
// Rows are separated by '\n'; a missing trailing newline is accepted.
// Station keys are Transient views into data, so the returned table must
// not outlive the buffer. Blank rows are skipped; a row without a ';' or
// with an unparsable value fails with an invalid_input error.
func Process(data []byte) (*Table, error) {
	table := NewTable()
	line := 0
	for len(data) > 0 {
		line++
		row := data
		if nl := bytes.IndexByte(data, '\n'); nl >= 0 {
			row = data[:nl]
			data = data[nl+1:]
		} else {
			data = nil
		}
		if len(row) == 0 {
			continue
		}

		semi := bytes.IndexByte(row, ';')
		if semi < 0 {
			return nil, errors.InvalidInput(errors.PhaseIngest,
				fmt.Sprintf("row %d: no field delimiter", line))
		}
		key, err := gstring.New(row[:semi], gstring.Transient)
		if err != nil {
			return nil, err
		}
		value, err := strconv.ParseFloat(string(row[semi+1:]), 64)
		if err != nil {
			return nil, errors.Wrap(errors.PhaseIngest, errors.KindInvalidInput, err,
				fmt.Sprintf("row %d: bad measurement", line))
		}
		table.Add(key, value)
	}
	return table, nil
}

// WriteReport prints up to limit groups in key order as
// "{a=min/mean/max, b=...}" with one decimal place. A limit <= 0 prints
// every group.
func WriteReport(w io.Writer, table *Table, limit int) error {
	keys := table.SortedKeys()
	if limit > 0 && limit < len(keys) {
		keys = keys[:limit]
	}

	if _, err := io.WriteString(w, "{"); err != nil {
		return err
	}
	delim := ""
	for i := range keys {
		rec, _ := table.Get(&keys[i])
		_, err := fmt.Fprintf(w, "%s%s=%.1f/%.1f/%.1f",
			delim, keys[i].String(), rec.Min, rec.Mean(), rec.Max)
		if err != nil {
			return err
		}
		delim = ", "
	}
	_, err := io.WriteString(w, "}\n")
	return err
}
