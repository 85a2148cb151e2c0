// internal/infra/timetable/csv_repository.go
package timetable

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"bigben_scheduler/internal/domain/timetable"

	"github.com/spf13/afero"
)

// Header names accepted for each column. The first entry is the Japanese sheet header.
var columnHeaders = map[timetable.Column][]string{
	timetable.ColumnWeekday: {"曜日", "weekday"},
	timetable.ColumnStart:   {"開始時刻", "start_time"},
	timetable.ColumnEnd:     {"終了時刻", "end_time"},
	timetable.ColumnSubject: {"科目", "subject"},
}

var errMissingColumn = errors.New("missing column")

// CSVRepository reads the timetable from a CSV file. The file is re-read on every query,
// so edits take effect on the next publish.
type CSVRepository struct {
	fs   afero.Fs
	path string
}

func NewCSVRepository(fs afero.Fs, path string) *CSVRepository {
	return &CSVRepository{fs: fs, path: path}
}

// RowsForWeekday implements timetable.Repository.
func (r *CSVRepository) RowsForWeekday(ctx context.Context, d timetable.Weekday) ([]timetable.Row, error) {
	rows, err := r.readAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", timetable.ErrDataAccess, r.path, err)
	}

	matched := make([]timetable.Row, 0)
	for _, row := range rows {
		if row.Weekday == d {
			matched = append(matched, row)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Start.Minutes() < matched[j].Start.Minutes()
	})
	return matched, nil
}

// readAll decodes the whole file. A single malformed row fails the read.
func (r *CSVRepository) readAll() ([]timetable.Row, error) {
	data, err := afero.ReadFile(r.fs, r.path)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")) // UTF-8 BOM written by Excel

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty timetable file")
		}
		return nil, fmt.Errorf("error reading header: %w", err)
	}
	index, err := headerIndex(header)
	if err != nil {
		return nil, err
	}

	var rows []timetable.Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading timetable: %w", err)
		}
		line, _ := reader.FieldPos(0)
		if isBlank(record) {
			continue
		}

		row, err := timetable.DecodeRow(line,
			cell(record, index[timetable.ColumnWeekday]),
			cell(record, index[timetable.ColumnStart]),
			cell(record, index[timetable.ColumnEnd]),
			cell(record, index[timetable.ColumnSubject]),
		)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func headerIndex(header []string) (map[timetable.Column]int, error) {
	index := make(map[timetable.Column]int, len(columnHeaders))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		for col, aliases := range columnHeaders {
			for _, alias := range aliases {
				if name == alias {
					index[col] = i
				}
			}
		}
	}
	for col, aliases := range columnHeaders {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w %s (%s)", errMissingColumn, col, strings.Join(aliases, "/"))
		}
	}
	return index, nil
}

func cell(record []string, i int) string {
	if i >= len(record) {
		return ""
	}
	return record[i]
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
