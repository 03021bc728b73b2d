package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	appcatalog "github.com/retailcore/backend/internal/application/catalog"
	"github.com/retailcore/backend/internal/domain/catalog"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/infrastructure/csvimport"
)

// SellableCreator is the slice of the catalog service the importer drives
type SellableCreator interface {
	CreateSellable(ctx context.Context, rc shared.RunContext, req appcatalog.CreateSellableRequest) (*appcatalog.SellableResponse, error)
}

// SellableImporter bulk-loads the catalog from a CSV stream. Expected
// columns: code, description, kind (required), base_price, cost, unit,
// tax_constant. PRODUCT rows get a stock record opened alongside.
type SellableImporter struct {
	sellables SellableCreator
	logger    *zap.Logger
}

// NewSellableImporter creates a sellable CSV importer
func NewSellableImporter(sellables SellableCreator, log *zap.Logger) *SellableImporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &SellableImporter{sellables: sellables, logger: log}
}

// Import reads src to the end and registers one sellable per row
func (i *SellableImporter) Import(ctx context.Context, rc shared.RunContext, src io.Reader) (*Report, error) {
	reader, err := csvimport.NewReader(src)
	if err != nil {
		return nil, err
	}
	if missing := reader.Columns("code", "description", "kind"); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing csv columns: %s", shared.ErrInvalidInput, strings.Join(missing, ", "))
	}

	report := &Report{}
	for {
		row, err := reader.Next()
		if err == io.EOF {
			break
		}
		report.Processed++
		if err != nil {
			var rowErr *csvimport.RowError
			if errors.As(err, &rowErr) {
				report.reject(rowErr.Line, rowErr.Message)
				continue
			}
			return nil, err
		}
		i.importRow(ctx, rc, row, report)
	}

	i.logger.Info("sellable import finished",
		zap.Int("processed", report.Processed),
		zap.Int("created", report.Created),
		zap.Int("rejected", report.Rejected))
	return report, nil
}

func (i *SellableImporter) importRow(ctx context.Context, rc shared.RunContext, row csvimport.Row, report *Report) {
	kind := catalog.SellableKind(strings.ToUpper(row.Get("kind")))
	if !kind.IsValid() {
		report.reject(row.Line, fmt.Sprintf("unknown sellable kind %q", row.Get("kind")))
		return
	}

	req := appcatalog.CreateSellableRequest{
		Code:        row.Get("code"),
		Description: row.Get("description"),
		Kind:        string(kind),
		Unit:        row.Get("unit"),
		TaxConstant: row.Get("tax_constant"),
		Storable:    kind == catalog.SellableKindProduct,
	}
	if req.Code == "" || req.Description == "" {
		report.reject(row.Line, "code and description are required")
		return
	}

	var err error
	if req.BasePrice, err = parseDecimal(row.Get("base_price")); err != nil {
		report.reject(row.Line, fmt.Sprintf("invalid base_price %q", row.Get("base_price")))
		return
	}
	if req.Cost, err = parseDecimal(row.Get("cost")); err != nil {
		report.reject(row.Line, fmt.Sprintf("invalid cost %q", row.Get("cost")))
		return
	}

	if _, err := i.sellables.CreateSellable(ctx, rc, req); err != nil {
		report.reject(row.Line, err.Error())
		return
	}
	report.Created++
}

func parseDecimal(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}
