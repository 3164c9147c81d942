package csvstore

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/order-demand/internal/domain"
)

// Column names, in the order they are written.
const (
	colDate          = "date"
	colCity          = "city"
	colWeather       = "weather"
	colOrders        = "orders"
	colAvgOrderValue = "avg_order_value"
)

var header = []string{colDate, colCity, colWeather, colOrders, colAvgOrderValue}

// dateLayouts are tried in order. ISO-8601 forms come first; the rest cover the
// locale formats spreadsheets commonly export.
var dateLayouts = []string{
	time.DateOnly,
	time.RFC3339,
	time.DateTime,
	"2006-01-02T15:04:05",
	"2006/01/02",
	"01/02/2006",
	"2 Jan 2006",
	"02-Jan-2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// Decode parses a dataset from r. source names the input in errors. Header
// labels are trimmed and matched case-insensitively; unknown columns are
// ignored and rows with only blank fields are skipped.
func Decode(r io.Reader, source string) ([]domain.OrderRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	head, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &domain.LoadError{Source: source, Err: errors.New("missing header row")}
	}
	if err != nil {
		return nil, &domain.LoadError{Source: source, Err: err}
	}

	idx, err := columnIndex(head)
	if err != nil {
		return nil, &domain.LoadError{Source: source, Line: 1, Err: err}
	}

	var records []domain.OrderRecord
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &domain.LoadError{Source: source, Err: err}
		}
		line, _ := reader.FieldPos(0)
		if blank(row) {
			continue
		}

		rec, err := parseRow(row, idx)
		if err != nil {
			return nil, &domain.LoadError{Source: source, Line: line, Err: err}
		}
		records = append(records, rec)
	}

	return records, nil
}

// Encode writes records with a header row. Dates are written as YYYY-MM-DD.
func Encode(w io.Writer, records []domain.OrderRecord) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range records {
		r := &records[i]
		row := []string{
			r.Date.Format(time.DateOnly),
			r.City,
			r.Weather,
			strconv.Itoa(r.Orders),
			strconv.FormatFloat(r.AvgOrderValue, 'f', -1, 64),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func columnIndex(head []string) (map[string]int, error) {
	idx := make(map[string]int, len(head))
	for i, h := range head {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := idx[name]; !dup {
			idx[name] = i
		}
	}

	var missing []string
	for _, col := range header {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return idx, nil
}

func parseRow(row []string, idx map[string]int) (domain.OrderRecord, error) {
	get := func(col string) string {
		i := idx[col]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	date, err := parseDate(get(colDate))
	if err != nil {
		return domain.OrderRecord{}, err
	}

	city := get(colCity)
	if city == "" {
		return domain.OrderRecord{}, errors.New("empty city")
	}
	weather := get(colWeather)
	if weather == "" {
		return domain.OrderRecord{}, errors.New("empty weather")
	}

	orders, err := parseOrders(get(colOrders))
	if err != nil {
		return domain.OrderRecord{}, err
	}

	value, err := strconv.ParseFloat(get(colAvgOrderValue), 64)
	if err != nil {
		return domain.OrderRecord{}, fmt.Errorf("parse avg_order_value: %w", err)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return domain.OrderRecord{}, fmt.Errorf("non-finite avg_order_value %q", get(colAvgOrderValue))
	}
	if value < 0 {
		return domain.OrderRecord{}, fmt.Errorf("negative avg_order_value %g", value)
	}

	return domain.OrderRecord{
		Date:          date,
		City:          city,
		Weather:       weather,
		Orders:        orders,
		AvgOrderValue: value,
	}, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return domain.NormalizeDate(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// parseOrders accepts integers and integral floats such as "412.0", which
// spreadsheet exports produce.
func parseOrders(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || math.IsInf(f, 0) || f != float64(int(f)) {
			return 0, fmt.Errorf("parse orders: invalid integer %q", s)
		}
		n = int(f)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative orders %d", n)
	}
	return n, nil
}

func blank(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
