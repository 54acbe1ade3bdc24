package datasource

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"loyalty_quiz/internal/domain"
)

// Column headers of the dataset; any extra columns are ignored.
const (
	ColBrand   = "Hotel Brand"
	ColProgram = "Loyalty Program"
	ColRegion  = "Region"
	ColCountry = "Country"
)

// ParseCSV reads the dataset in file order. Rows without a brand or a loyalty
// program are skipped.
func ParseCSV(r io.Reader) (domain.Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("dataset: empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("dataset: read header: %w", err)
	}
	idx := map[string]int{}
	for i, h := range header {
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	cols := make([]int, 0, 4)
	for _, name := range []string{ColBrand, ColProgram, ColRegion, ColCountry} {
		i, ok := idx[name]
		if !ok {
			return nil, fmt.Errorf("dataset: missing column %q", name)
		}
		cols = append(cols, i)
	}

	var out domain.Dataset
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("dataset: line %d: %w", line, err)
		}
		field := func(i int) string {
			if cols[i] >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[cols[i]])
		}
		hr := domain.HotelRecord{Brand: field(0), LoyaltyProgram: field(1), Region: field(2), Country: field(3)}
		if hr.Brand == "" || hr.LoyaltyProgram == "" {
			log.Warn().Int("line", line).Msg("dataset row skipped: brand or loyalty program missing")
			continue
		}
		out = append(out, hr)
	}
	return out, nil
}

// FileSource reads the dataset from local disk.
type FileSource struct{ path string }

func NewFileSource(path string) *FileSource { return &FileSource{path: path} }

func (f *FileSource) String() string { return f.path }

func (f *FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.Open(f.path)
}

// Open picks an HTTP source for http(s) locations and a file source otherwise.
func Open(location, key string, rps int) domain.DatasetSource {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return NewHTTPSource(location, key, rps)
	}
	return NewFileSource(location)
}

// Load opens src and parses it.
func Load(ctx context.Context, src domain.DatasetSource) (domain.Dataset, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", src, err)
	}
	defer rc.Close()
	return ParseCSV(rc)
}
