// Package source reads flat files into records for materialization.
// Two semi-structured inputs are supported: CSV with a header row,
// and newline-delimited JSON. Parsing is permissive by design: a CSV
// cell that looks like a number becomes one, booleans are recognized,
// an empty cell becomes nil (and will degrade to a NaN cell), and
// anything else stays a string for coercion to deal with.
package source

import (
	"bufio"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/ajitpratap0/quasar/pkg/qerrors"
	"github.com/ajitpratap0/quasar/pkg/record"
)

// ReadCSV reads CSV with a header row into records. It returns the
// records and the header's column names in file order.
func ReadCSV(r io.Reader) ([]*record.Record, []string, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = false

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil, qerrors.New(qerrors.ErrorTypeData, "CSV input is empty")
	}
	if err != nil {
		return nil, nil, qerrors.Wrap(err, qerrors.ErrorTypeData, "reading CSV header")
	}

	var recs []*record.Record
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, qerrors.Wrap(err, qerrors.ErrorTypeData, "reading CSV row")
		}

		data := make(map[string]interface{}, len(header))
		for i, name := range header {
			if i < len(row) {
				data[name] = parseCell(row[i])
			} else {
				data[name] = nil
			}
		}
		recs = append(recs, record.New(data))
	}
	return recs, header, nil
}

// parseCell maps a CSV cell to a typed value: empty means absent,
// numbers and booleans are recognized, anything else stays a string.
func parseCell(cell string) interface{} {
	if cell == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(cell, 64); err == nil {
		return f
	}
	switch strings.ToLower(cell) {
	case "true":
		return true
	case "false":
		return false
	}
	return cell
}

// ReadNDJSON reads newline-delimited JSON objects into records.
// Blank lines are skipped; a malformed line is a hard error, not a
// degrade, because it means the input itself is broken.
func ReadNDJSON(r io.Reader) ([]*record.Record, error) {
	var recs []*record.Record

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		data := make(map[string]interface{})
		if err := json.Unmarshal([]byte(text), &data); err != nil {
			return nil, qerrors.Wrapf(err, qerrors.ErrorTypeData, "parsing NDJSON line %d", line)
		}
		recs = append(recs, record.New(data))
	}
	if err := scanner.Err(); err != nil {
		return nil, qerrors.Wrap(err, qerrors.ErrorTypeData, "reading NDJSON input")
	}
	return recs, nil
}
