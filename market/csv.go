package market

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/ulikunitz/xz"
)

// LoadCSV reads a daily bar file (date,open,high,low,close) into a
// Series. Files ending in .xz are decompressed transparently. A header
// row starting with "date" is skipped. The instrument name is derived
// from the file name unless the optional fifth column overrides it.
func LoadCSV(path string) (*Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rd io.Reader = f
	if strings.HasSuffix(path, ".xz") {
		xr, err := xz.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("market: open xz %s: %w", path, err)
		}
		rd = xr
	}

	instrument := strings.TrimSuffix(filepath.Base(path), ".xz")
	instrument = strings.TrimSuffix(instrument, ".csv")

	r := csv.NewReader(rd)
	r.FieldsPerRecord = -1

	var bars []Bar
	line := 0
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("market: read %s: %w", path, err)
		}
		line++
		if len(row) == 0 {
			continue
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(row[0]), "date") {
			continue
		}
		b, err := parseBarRow(row)
		if err != nil {
			return nil, fmt.Errorf("market: %s line %d: %w", path, line, err)
		}
		bars = append(bars, b)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("market: no bars in %s", path)
	}
	return NewSeries(instrument, bars)
}

func parseBarRow(row []string) (Bar, error) {
	if len(row) < 5 {
		return Bar{}, fmt.Errorf("bad row (need date,open,high,low,close): %v", row)
	}
	d, err := time.Parse("2006-01-02", strings.TrimSpace(row[0]))
	if err != nil {
		return Bar{}, fmt.Errorf("bad date %q: %w", row[0], err)
	}
	var px [4]decimal.Decimal
	for i := 0; i < 4; i++ {
		px[i], err = decimal.NewFromString(strings.TrimSpace(row[i+1]))
		if err != nil {
			return Bar{}, fmt.Errorf("bad price %q: %w", row[i+1], err)
		}
	}
	return Bar{Date: Day(d), Open: px[0], High: px[1], Low: px[2], Close: px[3]}, nil
}
