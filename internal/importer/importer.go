package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"storefront/internal/cart"
	"storefront/internal/domain"
)

// CartWriter receives the replayed transitions.
type CartWriter interface {
	Snapshot() cart.State
	Add(ctx context.Context, item domain.Item) cart.State
	SetQuantity(ctx context.Context, url string, quantity int) cart.State
}

// CSVImporter replays a cart export into a cart. Each row is one line:
// url,name,model,manufacturer,cost_in_credits,quantity.
type CSVImporter struct {
	reader *csv.Reader
	cart   CartWriter
	logger *zap.Logger
}

func NewCSVImporter(r io.Reader, w CartWriter, logger *zap.Logger) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CSVImporter{
		reader: csvr,
		cart:   w,
		logger: logger,
	}
}

type csvRow struct {
	Item     domain.Item
	Quantity int
}

// Run sets every row's line to the row quantity and returns the number of rows
// applied. Items not yet in the cart are added first. A quantity over the cart
// cap leaves a new line at one unit and an existing line unchanged.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index["url"]; !ok {
		return 0, errors.New("missing url column")
	}

	var imported int
	for line := 2; ; line++ {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		row, err := parseRow(record, index)
		if err != nil {
			return imported, fmt.Errorf("line %d: %w", line, err)
		}
		if row == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return imported, err
		}

		if _, ok := i.cart.Snapshot().Find(row.Item.URL); !ok {
			i.cart.Add(ctx, row.Item)
		}
		state := i.cart.SetQuantity(ctx, row.Item.URL, row.Quantity)
		if l, ok := state.Find(row.Item.URL); ok && l.Quantity != row.Quantity {
			i.logger.Warn("quantity not applied",
				zap.String("url", row.Item.URL),
				zap.Int("requested", row.Quantity),
				zap.Int("kept", l.Quantity),
			)
		}
		imported++
	}

	return imported, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

// parseRow returns nil for blank rows.
func parseRow(record []string, index map[string]int) (*csvRow, error) {
	item := domain.Item{
		URL:           pick(record, index, "url"),
		Name:          pick(record, index, "name"),
		Model:         pick(record, index, "model"),
		Manufacturer:  pick(record, index, "manufacturer"),
		CostInCredits: pick(record, index, "cost_in_credits"),
		Image:         pick(record, index, "image"),
	}
	qtyStr := pick(record, index, "quantity")

	if item.URL == "" {
		if item.Name == "" && qtyStr == "" {
			return nil, nil
		}
		return nil, errors.New("url required")
	}

	qty := 1
	if qtyStr != "" {
		n, err := strconv.Atoi(qtyStr)
		if err != nil {
			return nil, fmt.Errorf("invalid quantity %q", qtyStr)
		}
		qty = n
	}
	return &csvRow{Item: item, Quantity: qty}, nil
}

func pick(record []string, index map[string]int, key string) string {
	i, ok := index[key]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
