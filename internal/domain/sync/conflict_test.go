package sync

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestResolve_LastWriterWins(t *testing.T) {
	base := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	station := uuid.New()

	t.Run("missing local row applies", func(t *testing.T) {
		got := Resolve(RowVersion{TETime: base, StationID: station}, nil)
		assert.Equal(t, ApplyIncoming, got)
	})

	t.Run("newer incoming wins", func(t *testing.T) {
		local := &RowVersion{TETime: base, StationID: station}
		got := Resolve(RowVersion{TETime: base.Add(time.Second), StationID: uuid.New()}, local)
		assert.Equal(t, ApplyIncoming, got)
	})

	t.Run("older incoming loses", func(t *testing.T) {
		local := &RowVersion{TETime: base, StationID: station}
		got := Resolve(RowVersion{TETime: base.Add(-time.Second), StationID: uuid.New()}, local)
		assert.Equal(t, KeepLocal, got)
	})

	t.Run("equal version is a no-op", func(t *testing.T) {
		local := &RowVersion{TETime: base, StationID: station}
		got := Resolve(RowVersion{TETime: base, StationID: station}, local)
		assert.Equal(t, KeepLocal, got)
	})

	t.Run("tie broken by station id", func(t *testing.T) {
		low := uuid.MustParse("00000000-0000-0000-0000-000000000001")
		high := uuid.MustParse("ffffffff-ffff-ffff-ffff-ffffffffffff")

		local := &RowVersion{TETime: base, StationID: low}
		assert.Equal(t, ApplyIncoming, Resolve(RowVersion{TETime: base, StationID: high}, local))

		local = &RowVersion{TETime: base, StationID: high}
		assert.Equal(t, KeepLocal, Resolve(RowVersion{TETime: base, StationID: low}, local))
	})
}
