package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"campuseats/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
}

// CSVImporter reads vendor menu CSV exports and inserts/updates products
// for a single store. Expected columns: name, description, category, price,
// image_url, available. Price is in pesos and may carry cents ("65" or
// "65.50").
type CSVImporter struct {
	reader  *csv.Reader
	repo    ProductWriter
	storeID string
}

func NewCSVImporter(r io.Reader, repo ProductWriter, storeID string) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:  csvr,
		repo:    repo,
		storeID: storeID,
	}
}

// Run parses CSV rows and upserts one product per row. It returns the number
// of products written and stops at the first bad row.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index["name"]; !ok {
		return 0, fmt.Errorf("missing required column %q", "name")
	}
	if _, ok := index["price"]; !ok {
		return 0, fmt.Errorf("missing required column %q", "price")
	}

	var imported int
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		p, err := i.parseRow(record, index)
		if err != nil {
			return imported, err
		}
		if p == nil {
			continue
		}

		if _, err := i.repo.Upsert(ctx, *p); err != nil {
			return imported, fmt.Errorf("upsert product %q: %w", p.Name, err)
		}
		imported++
	}

	return imported, nil
}

func (i *CSVImporter) parseRow(record []string, index map[string]int) (*domain.Product, error) {
	name := pick(record, index, "name")
	if name == "" {
		// Blank separator rows are common in hand-edited menus.
		if strings.Join(record, "") == "" {
			return nil, nil
		}
		return nil, fmt.Errorf("row missing name: %v", record)
	}

	cents, err := parsePriceCents(pick(record, index, "price"))
	if err != nil {
		return nil, fmt.Errorf("product %q: %w", name, err)
	}

	available := true
	if v := pick(record, index, "available"); v != "" {
		available, err = strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("product %q: bad available value %q", name, v)
		}
	}

	return &domain.Product{
		StoreID:     i.storeID,
		Name:        name,
		Description: pick(record, index, "description"),
		Category:    pick(record, index, "category"),
		PriceCents:  cents,
		ImageURL:    pick(record, index, "image_url"),
		Available:   available,
	}, nil
}

// parsePriceCents accepts whole pesos ("65") or peso.centavo ("65.50").
func parsePriceCents(s string) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("missing price")
	}
	whole, frac, found := strings.Cut(s, ".")
	pesos, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || pesos < 0 {
		return 0, fmt.Errorf("bad price %q", s)
	}
	cents := pesos * 100
	if found {
		if len(frac) > 2 {
			return 0, fmt.Errorf("bad price %q", s)
		}
		for len(frac) < 2 {
			frac += "0"
		}
		c, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("bad price %q", s)
		}
		cents += c
	}
	return cents, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(strings.ToLower(h))] = i
	}
	return idx
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
