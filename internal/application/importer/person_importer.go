package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	appparty "github.com/retailcore/backend/internal/application/party"
	"github.com/retailcore/backend/internal/domain/party"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/infrastructure/csvimport"
)

// PersonCreator is the slice of the person service the importer drives
type PersonCreator interface {
	CreatePerson(ctx context.Context, rc shared.RunContext, req appparty.CreatePersonRequest) (*appparty.PersonResponse, error)
	AttachFacet(ctx context.Context, rc shared.RunContext, id uuid.UUID, req appparty.AttachFacetRequest) (*appparty.PersonResponse, error)
}

// PersonImporter bulk-loads persons from a CSV stream. Expected columns:
// name (required), email, phone, mobile_phone, notes, facet. The facet
// column optionally carries CLIENT or SUPPLIER to attach the role, with
// credit_limit read for clients.
type PersonImporter struct {
	persons PersonCreator
	logger  *zap.Logger
}

// NewPersonImporter creates a person CSV importer
func NewPersonImporter(persons PersonCreator, log *zap.Logger) *PersonImporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &PersonImporter{persons: persons, logger: log}
}

// Import reads src to the end and creates one person per row. Bad rows
// are reported, not fatal; the returned error covers stream-level
// problems only.
func (i *PersonImporter) Import(ctx context.Context, rc shared.RunContext, src io.Reader) (*Report, error) {
	reader, err := csvimport.NewReader(src)
	if err != nil {
		return nil, err
	}
	if missing := reader.Columns("name"); len(missing) > 0 {
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

	i.logger.Info("person import finished",
		zap.Int("processed", report.Processed),
		zap.Int("created", report.Created),
		zap.Int("rejected", report.Rejected))
	return report, nil
}

func (i *PersonImporter) importRow(ctx context.Context, rc shared.RunContext, row csvimport.Row, report *Report) {
	name := row.Get("name")
	if name == "" {
		report.reject(row.Line, "name is required")
		return
	}

	facetKind := party.FacetKind(strings.ToUpper(row.Get("facet")))
	if facetKind != "" && facetKind != party.FacetClient && facetKind != party.FacetSupplier {
		report.reject(row.Line, fmt.Sprintf("unsupported facet %q", row.Get("facet")))
		return
	}

	created, err := i.persons.CreatePerson(ctx, rc, appparty.CreatePersonRequest{
		Name:        name,
		Phone:       row.Get("phone"),
		MobilePhone: row.Get("mobile_phone"),
		Email:       row.Get("email"),
		Notes:       row.Get("notes"),
	})
	if err != nil {
		report.reject(row.Line, err.Error())
		return
	}

	if facetKind != "" {
		req := appparty.AttachFacetRequest{Kind: string(facetKind)}
		switch facetKind {
		case party.FacetClient:
			payload := &appparty.ClientPayload{}
			if raw := row.Get("credit_limit"); raw != "" {
				limit, err := decimal.NewFromString(raw)
				if err != nil {
					report.reject(row.Line, fmt.Sprintf("invalid credit_limit %q", raw))
					return
				}
				payload.CreditLimit = limit
			}
			req.Client = payload
		case party.FacetSupplier:
			req.Supplier = &appparty.SupplierPayload{}
		}
		if _, err := i.persons.AttachFacet(ctx, rc, created.ID, req); err != nil {
			report.reject(row.Line, err.Error())
			return
		}
	}

	report.Created++
}
