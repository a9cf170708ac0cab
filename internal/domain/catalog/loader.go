package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
	"golang.org/x/sync/errgroup"
)

// Column names of the tabular source.
const (
	colProductID  = "product_id"
	colName       = "product_name"
	colGender     = "gender"
	colCategory   = "product_category"
	colColor      = "color"
	colPrice      = "price"
	colBrand      = "brand"
	colImageURL   = "image_url"
	colProductURL = "product_page_url"
	colSource     = "source_page"
)

const (
	defaultLoadConcurrency = 4
	parquetBatchSize       = 256
)

// requiredColumns must be present in every CSV header.
var requiredColumns = []string{colGender, colCategory, colColor} //nolint:gochecknoglobals // read-only

// missingValues are cell values treated as empty, mirroring the usual
// dataframe NA markers.
var missingValues = map[string]struct{}{ //nolint:gochecknoglobals // read-only
	"nan": {}, "NaN": {}, "NAN": {}, "null": {}, "NULL": {}, "None": {},
	"N/A": {}, "n/a": {}, "NA": {}, "#N/A": {}, "<NA>": {},
}

// parquetRow is the on-disk shape of a parquet catalog.
type parquetRow struct {
	ProductID  string `parquet:"product_id,optional"`
	Name       string `parquet:"product_name,optional"`
	Gender     string `parquet:"gender"`
	Category   string `parquet:"product_category"`
	Color      string `parquet:"color,optional"`
	Price      string `parquet:"price,optional"`
	Brand      string `parquet:"brand,optional"`
	ImageURL   string `parquet:"image_url,optional"`
	ProductURL string `parquet:"product_page_url,optional"`
	Source     string `parquet:"source_page,optional"`
}

func (r parquetRow) item() Item {
	return normalize(Item{
		ProductID:  r.ProductID,
		Name:       r.Name,
		Gender:     r.Gender,
		Category:   r.Category,
		Color:      r.Color,
		Price:      r.Price,
		Brand:      r.Brand,
		ImageURL:   r.ImageURL,
		ProductURL: r.ProductURL,
		Source:     r.Source,
	})
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLoadConcurrency bounds how many files are read at once.
func WithLoadConcurrency(n int) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.concurrency = n
		}
	}
}

// Loader reads CSV and Parquet catalog files into an Index.
type Loader struct {
	concurrency int
}

// NewLoader creates a Loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{concurrency: defaultLoadConcurrency}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads every path in parallel and indexes the rows in path order.
// Any failing file fails the whole load.
func (l *Loader) Load(ctx context.Context, paths ...string) (*Index, error) {
	parts := make([][]Item, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			items, err := LoadFile(p)
			if err != nil {
				return err
			}
			parts[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []Item
	for _, p := range parts {
		all = append(all, p...)
	}
	return NewIndex(all), nil
}

// LoadFile reads one catalog file, picking the format from its extension.
func LoadFile(path string) ([]Item, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".csv" && ext != ".parquet" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	f, err := os.Open(path) //nolint:gosec // operator supplied path
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadCatalog, path, err)
	}
	defer f.Close()

	var items []Item
	switch ext {
	case ".csv":
		items, err = ReadCSV(f)
	case ".parquet":
		var info os.FileInfo
		if info, err = f.Stat(); err == nil {
			items, err = ReadParquet(f, info.Size())
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadCatalog, path, err)
	}
	return items, nil
}

// ReadCSV parses a headed CSV catalog. Unknown columns are ignored.
func ReadCSV(r io.Reader) ([]Item, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, c)
		}
	}

	field := func(rec []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	var items []Item
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(items)+1, err)
		}
		items = append(items, normalize(Item{
			ProductID:  field(rec, colProductID),
			Name:       field(rec, colName),
			Gender:     field(rec, colGender),
			Category:   field(rec, colCategory),
			Color:      field(rec, colColor),
			Price:      field(rec, colPrice),
			Brand:      field(rec, colBrand),
			ImageURL:   field(rec, colImageURL),
			ProductURL: field(rec, colProductURL),
			Source:     field(rec, colSource),
		}))
	}
	return items, nil
}

// ReadParquet reads a parquet catalog in batches.
func ReadParquet(r io.ReaderAt, size int64) ([]Item, error) {
	pf, err := parquet.OpenFile(r, size)
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[parquetRow](pf)
	defer reader.Close()

	items := make([]Item, 0, pf.NumRows())
	rows := make([]parquetRow, parquetBatchSize)
	for {
		n, err := reader.Read(rows)
		for _, row := range rows[:n] {
			items = append(items, row.item())
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read parquet rows: %w", err)
		}
	}
	return items, nil
}

// normalize trims cells and blanks NA markers.
func normalize(it Item) Item {
	clean := func(s string) string {
		s = strings.TrimSpace(s)
		if _, na := missingValues[s]; na {
			return ""
		}
		return s
	}
	it.ProductID = clean(it.ProductID)
	it.Name = clean(it.Name)
	it.Gender = clean(it.Gender)
	it.Category = clean(it.Category)
	it.Color = clean(it.Color)
	it.Price = clean(it.Price)
	it.Brand = clean(it.Brand)
	it.ImageURL = clean(it.ImageURL)
	it.ProductURL = clean(it.ProductURL)
	it.Source = clean(it.Source)
	return it
}
