// Package sync carries replication batches between installations: a
// length-framed JSON wire codec and an HTTP transport that offers batches
// to a peer's apply endpoint.
package sync

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/retailcore/backend/internal/domain/shared"
	domainsync "github.com/retailcore/backend/internal/domain/sync"
)

// maxFrameSize caps a single frame so a corrupt length prefix cannot
// make the reader allocate unbounded memory.
const maxFrameSize = 16 << 20

// EncodeBatch writes the batch as a sequence of length-prefixed JSON
// frames: one frame per record, then the footer frame. The length prefix
// is a 4-byte big-endian byte count.
func EncodeBatch(w io.Writer, batch domainsync.Batch) error {
	for i := range batch.Records {
		if err := writeFrame(w, &batch.Records[i]); err != nil {
			return fmt.Errorf("encoding record %d: %w", i, err)
		}
	}
	if err := writeFrame(w, &batch.Footer); err != nil {
		return fmt.Errorf("encoding footer: %w", err)
	}
	return nil
}

// DecodeBatch reads frames until the footer arrives. A stream that ends
// before the footer is truncated and rejected as a data error.
func DecodeBatch(r io.Reader) (domainsync.Batch, error) {
	var batch domainsync.Batch
	for {
		frame, err := readFrame(r)
		if errors.Is(err, io.EOF) {
			return batch, shared.NewDomainError("DATA_ERROR", "Batch stream ended before the footer")
		}
		if err != nil {
			return batch, err
		}

		var probe struct {
			BatchEnd bool `json:"batch_end"`
		}
		if err := json.Unmarshal(frame, &probe); err != nil {
			return batch, shared.NewDomainError("DATA_ERROR", "Malformed frame in batch stream")
		}
		if probe.BatchEnd {
			if err := json.Unmarshal(frame, &batch.Footer); err != nil {
				return batch, shared.NewDomainError("DATA_ERROR", "Malformed batch footer")
			}
			return batch, nil
		}

		var record domainsync.DeltaRecord
		if err := json.Unmarshal(frame, &record); err != nil {
			return batch, shared.NewDomainError("DATA_ERROR", "Malformed record in batch stream")
		}
		batch.Records = append(batch.Records, record)
	}
}

func writeFrame(w io.Writer, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if len(payload) > maxFrameSize {
		return shared.NewDomainError("DATA_ERROR", "Frame exceeds the size limit")
	}

	var prefix [4]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(len(payload)))
	if _, err := w.Write(prefix[:]); err != nil {
		return err
	}
	_, err = w.Write(payload)
	return err
}

func readFrame(r io.Reader) ([]byte, error) {
	var prefix [4]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		// EOF on the prefix boundary means the stream ended between
		// frames; mid-prefix truncation is a data error.
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, shared.NewDomainError("DATA_ERROR", "Truncated frame length prefix")
		}
		return nil, err
	}

	size := binary.BigEndian.Uint32(prefix[:])
	if size > maxFrameSize {
		return nil, shared.NewDomainError("DATA_ERROR", "Frame exceeds the size limit")
	}

	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, shared.NewDomainError("DATA_ERROR", "Truncated frame payload")
	}
	return payload, nil
}
