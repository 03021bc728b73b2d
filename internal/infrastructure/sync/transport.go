package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/retailcore/backend/internal/domain/shared"
	domainsync "github.com/retailcore/backend/internal/domain/sync"
)

const batchContentType = "application/x-sync-batch"

// HTTPDestination ships batches to a peer installation over HTTP. The
// peer decodes the framed stream, applies it locally and answers with the
// apply counters, so to the coordinator a remote peer looks exactly like
// a local store.
type HTTPDestination struct {
	client  *http.Client
	baseURL string
	logger  *zap.Logger
}

var _ domainsync.Destination = (*HTTPDestination)(nil)

// NewHTTPDestination creates a destination that posts batches to the
// peer at baseURL
func NewHTTPDestination(baseURL string, client *http.Client, logger *zap.Logger) *HTTPDestination {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPDestination{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// Apply posts the batch to the peer and reads back the apply counters.
// Network errors and peer outages surface as transport failures so the
// coordinator retries them; a peer that rejects the batch outright is an
// apply failure and quarantines it instead.
func (d *HTTPDestination) Apply(ctx context.Context, batch domainsync.Batch) (*domainsync.ApplyResult, error) {
	var body bytes.Buffer
	if err := EncodeBatch(&body, batch); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+"/sync/batches", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", batchContentType)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, errors.Join(shared.ErrTransportFailure, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode >= 500:
		d.logger.Warn("peer unavailable",
			zap.String("url", req.URL.String()),
			zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("peer answered %d: %w", resp.StatusCode, shared.ErrTransportFailure)
	default:
		return nil, fmt.Errorf("peer rejected batch with %d: %w", resp.StatusCode, shared.ErrApplyFailure)
	}

	var result domainsync.ApplyResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, errors.Join(shared.ErrTransportFailure, err)
	}
	return &result, nil
}
