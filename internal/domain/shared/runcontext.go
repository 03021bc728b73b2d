package shared

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Parameters carries the installation-wide options the domain consults.
// They are loaded from configuration at the session boundary and passed
// down explicitly; no domain operation reads global state.
type Parameters struct {
	// CurrencyPrecision is the number of minor-unit decimals all money
	// arithmetic is rounded to.
	CurrencyPrecision int32
	// DailyPenaltyPct is the default per-day penalty percentage applied to
	// overdue check and bill payments; individual methods may override it.
	DailyPenaltyPct decimal.Decimal
	// AllowHigherSalePrice permits sale-item prices above the sellable base
	// price when true.
	AllowHigherSalePrice bool
	// CreatePaymentsOnStockDecrease creates a paid money payment whenever
	// stock is decreased outside a sale, dated at the time of the decrease.
	CreatePaymentsOnStockDecrease bool
	// SyncBatchSize is the maximum number of delta records shipped per
	// synchronization batch.
	SyncBatchSize int
}

// DefaultParameters returns the parameter set used when configuration is
// silent.
func DefaultParameters() Parameters {
	return Parameters{
		CurrencyPrecision: 2,
		DailyPenaltyPct:   decimal.Zero,
		SyncBatchSize:     500,
	}
}

// RunContext is the execution context every application operation receives.
// It replaces ambient "current branch / station / user" globals with an
// explicit value constructed at the session boundary.
type RunContext struct {
	BranchID  uuid.UUID
	StationID uuid.UUID
	UserID    uuid.UUID
	Params    Parameters
	Clock     Clock
}

// NewRunContext builds a run context for the given actor coordinates.
func NewRunContext(branchID, stationID, userID uuid.UUID, params Parameters, clock Clock) RunContext {
	if clock == nil {
		clock = SystemClock{}
	}
	return RunContext{
		BranchID:  branchID,
		StationID: stationID,
		UserID:    userID,
		Params:    params,
		Clock:     clock,
	}
}
