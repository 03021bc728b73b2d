package sync

import (
	"bytes"
	"encoding/binary"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainsync "github.com/retailcore/backend/internal/domain/sync"
)

func sampleRecord(teID int64) domainsync.DeltaRecord {
	return domainsync.DeltaRecord{
		Table:          "sellables",
		TEID:           teID,
		TETime:         time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		StationID:      uuid.New(),
		OriginBranchID: uuid.New(),
		Type:           domainsync.EntryCreated,
		Payload: map[string]any{
			"id":   uuid.New().String(),
			"code": "WID001",
		},
	}
}

func TestBatchRoundTrip(t *testing.T) {
	records := []domainsync.DeltaRecord{sampleRecord(1), sampleRecord(2), sampleRecord(3)}
	batch := domainsync.NewBatch(records, time.Time{})

	var buf bytes.Buffer
	require.NoError(t, EncodeBatch(&buf, batch))

	decoded, err := DecodeBatch(&buf)
	require.NoError(t, err)

	require.Len(t, decoded.Records, 3)
	for i := range records {
		assert.Equal(t, records[i].TEID, decoded.Records[i].TEID)
		assert.Equal(t, records[i].Table, decoded.Records[i].Table)
		assert.Equal(t, records[i].StationID, decoded.Records[i].StationID)
		assert.Equal(t, records[i].OriginBranchID, decoded.Records[i].OriginBranchID)
		assert.True(t, records[i].TETime.Equal(decoded.Records[i].TETime))
		assert.Equal(t, "WID001", decoded.Records[i].Payload["code"])
	}
	assert.True(t, decoded.Footer.BatchEnd)
	assert.True(t, decoded.Footer.AppliedThroughTETime.Equal(records[2].TETime))
}

func TestEmptyBatchCarriesOnlyTheFooter(t *testing.T) {
	watermark := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	batch := domainsync.NewBatch(nil, watermark)

	var buf bytes.Buffer
	require.NoError(t, EncodeBatch(&buf, batch))

	decoded, err := DecodeBatch(&buf)
	require.NoError(t, err)

	assert.Empty(t, decoded.Records)
	assert.True(t, decoded.Footer.BatchEnd)
	assert.True(t, decoded.Footer.AppliedThroughTETime.Equal(watermark))
}

func TestDecodeRejectsStreamWithoutFooter(t *testing.T) {
	var buf bytes.Buffer
	rec := sampleRecord(1)
	require.NoError(t, writeFrame(&buf, &rec))

	_, err := DecodeBatch(&buf)
	assert.Error(t, err)
}

func TestDecodeRejectsTruncatedFrame(t *testing.T) {
	var buf bytes.Buffer
	batch := domainsync.NewBatch([]domainsync.DeltaRecord{sampleRecord(1)}, time.Time{})
	require.NoError(t, EncodeBatch(&buf, batch))

	truncated := buf.Bytes()[:buf.Len()-5]

	_, err := DecodeBatch(bytes.NewReader(truncated))
	assert.Error(t, err)
}

func TestDecodeRejectsOversizedFramePrefix(t *testing.T) {
	var prefix [4]byte
	binary.BigEndian.PutUint32(prefix[:], maxFrameSize+1)

	_, err := DecodeBatch(bytes.NewReader(prefix[:]))
	assert.Error(t, err)
}
