package workorder

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailcore/backend/internal/domain/shared"
)

// ProductionStatus represents the lifecycle state of a production order
type ProductionStatus string

const (
	ProductionStatusOpened    ProductionStatus = "OPENED"
	ProductionStatusWaiting   ProductionStatus = "WAITING"
	ProductionStatusProducing ProductionStatus = "PRODUCING"
	ProductionStatusQA        ProductionStatus = "QA"
	ProductionStatusClosed    ProductionStatus = "CLOSED"
)

// IsValid checks if the status is a valid ProductionStatus
func (s ProductionStatus) IsValid() bool {
	switch s {
	case ProductionStatusOpened, ProductionStatusWaiting, ProductionStatusProducing,
		ProductionStatusQA, ProductionStatusClosed:
		return true
	}
	return false
}

// String returns the string representation of ProductionStatus
func (s ProductionStatus) String() string {
	return string(s)
}

// ProductionMaterial tracks one required material through the reservation
// ledger: needed, reserved, consumed and lost quantities. Consumed plus
// lost never exceeds reserved.
type ProductionMaterial struct {
	ID         uuid.UUID
	OrderID    uuid.UUID
	SellableID uuid.UUID
	Needed     decimal.Decimal
	Reserved   decimal.Decimal
	Consumed   decimal.Decimal
	Lost       decimal.Decimal
}

// Available returns the reserved quantity not yet consumed or lost
func (m *ProductionMaterial) Available() decimal.Decimal {
	return m.Reserved.Sub(m.Consumed).Sub(m.Lost)
}

// QualityTestType discriminates how a test result is evaluated
type QualityTestType string

const (
	QualityTestBoolean QualityTestType = "BOOLEAN"
	QualityTestDecimal QualityTestType = "DECIMAL"
)

// QualityTest is one typed check applied to each produced item. Boolean
// tests expect an exact value; decimal tests a closed success range.
type QualityTest struct {
	ID          uuid.UUID
	Description string
	Type        QualityTestType
	ExpectedBool bool
	RangeMin    decimal.Decimal
	RangeMax    decimal.Decimal
}

// EvaluateBool checks a boolean result against the expectation
func (t *QualityTest) EvaluateBool(result bool) (bool, error) {
	if t.Type != QualityTestBoolean {
		return false, shared.NewDomainError("INVALID_TEST_TYPE", "Test expects a decimal result")
	}
	return result == t.ExpectedBool, nil
}

// EvaluateDecimal checks a numeric result against the success range
func (t *QualityTest) EvaluateDecimal(result decimal.Decimal) (bool, error) {
	if t.Type != QualityTestDecimal {
		return false, shared.NewDomainError("INVALID_TEST_TYPE", "Test expects a boolean result")
	}
	return result.GreaterThanOrEqual(t.RangeMin) && result.LessThanOrEqual(t.RangeMax), nil
}

// QualityTestResult is the recorded outcome of one test on one produced
// item.
type QualityTestResult struct {
	ID       uuid.UUID
	TestID   uuid.UUID
	ItemSeq  int
	Passed   bool
	Recorded time.Time
}

// ProductionOrder manufactures a quantity of one product from reserved
// materials. Quality tests gate the move from qa to closed.
type ProductionOrder struct {
	shared.BaseAggregateRoot
	Identifier      int64
	Status          ProductionStatus
	BranchID        uuid.UUID
	ResponsibleID   uuid.UUID
	ProductID       uuid.UUID
	QuantityPlanned decimal.Decimal
	QuantityMade    decimal.Decimal
	QuantityLost    decimal.Decimal
	OpenDate        time.Time
	CloseDate       *time.Time
	Materials       []*ProductionMaterial
	Tests           []*QualityTest
	Results         []*QualityTestResult
}

// NewProductionOrder opens a production order for a product quantity
func NewProductionOrder(identifier int64, branchID, responsibleID, productID uuid.UUID, quantity decimal.Decimal, now time.Time) (*ProductionOrder, error) {
	if !quantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Planned quantity must be positive")
	}
	return &ProductionOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(now),
		Identifier:        identifier,
		Status:            ProductionStatusOpened,
		BranchID:          branchID,
		ResponsibleID:     responsibleID,
		ProductID:         productID,
		QuantityPlanned:   quantity,
		QuantityMade:      decimal.Zero,
		QuantityLost:      decimal.Zero,
		OpenDate:          now,
	}, nil
}

// AddMaterial declares a required material while the order is open
func (o *ProductionOrder) AddMaterial(sellableID uuid.UUID, needed decimal.Decimal) (*ProductionMaterial, error) {
	if o.Status != ProductionStatusOpened {
		return nil, shared.NewInvalidStateTransition("ProductionOrder", o.Status.String(), o.Status.String())
	}
	if !needed.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Needed quantity must be positive")
	}
	m := &ProductionMaterial{
		ID:         uuid.New(),
		OrderID:    o.ID,
		SellableID: sellableID,
		Needed:     needed,
		Reserved:   decimal.Zero,
		Consumed:   decimal.Zero,
		Lost:       decimal.Zero,
	}
	o.Materials = append(o.Materials, m)
	return m, nil
}

// AddQualityTest declares a typed check applied to each produced item
func (o *ProductionOrder) AddQualityTest(test *QualityTest) error {
	if o.Status != ProductionStatusOpened && o.Status != ProductionStatusWaiting {
		return shared.NewInvalidStateTransition("ProductionOrder", o.Status.String(), o.Status.String())
	}
	o.Tests = append(o.Tests, test)
	return nil
}

// Wait parks an opened order until materials can be reserved
func (o *ProductionOrder) Wait(now time.Time) error {
	if o.Status != ProductionStatusOpened {
		return shared.NewInvalidStateTransition("ProductionOrder", o.Status.String(), ProductionStatusWaiting.String())
	}
	if len(o.Materials) == 0 {
		return shared.NewDomainError("EMPTY_ORDER", "Production requires at least one material")
	}
	o.Status = ProductionStatusWaiting
	o.Touch(now)
	return nil
}

// Approve reserves the full needed quantity of every material and starts
// production. The application service mirrors the reservation in the stock
// ledger as logic quantity.
func (o *ProductionOrder) Approve(now time.Time) error {
	if o.Status != ProductionStatusWaiting {
		return shared.NewInvalidStateTransition("ProductionOrder", o.Status.String(), ProductionStatusProducing.String())
	}
	for _, m := range o.Materials {
		m.Reserved = m.Needed
	}
	o.Status = ProductionStatusProducing
	o.Touch(now)
	return nil
}

// Produce converts reserved material into consumption and counts the
// produced quantity. Production beyond the plan is rejected.
func (o *ProductionOrder) Produce(quantity decimal.Decimal, now time.Time) error {
	if o.Status != ProductionStatusProducing {
		return shared.NewInvalidStateTransition("ProductionOrder", o.Status.String(), o.Status.String())
	}
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Produced quantity must be positive")
	}
	if o.QuantityMade.Add(o.QuantityLost).Add(quantity).GreaterThan(o.QuantityPlanned) {
		return shared.NewDomainError("INVALID_QUANTITY", "Produced quantity exceeds the planned quantity")
	}
	if err := o.consumeMaterials(quantity); err != nil {
		return err
	}
	o.QuantityMade = o.QuantityMade.Add(quantity)
	o.Touch(now)
	if o.QuantityMade.Add(o.QuantityLost).Equal(o.QuantityPlanned) {
		o.Status = ProductionStatusQA
	}
	return nil
}

// Loss converts reserved material into loss for a quantity that failed
// during production.
func (o *ProductionOrder) Loss(quantity decimal.Decimal, now time.Time) error {
	if o.Status != ProductionStatusProducing {
		return shared.NewInvalidStateTransition("ProductionOrder", o.Status.String(), o.Status.String())
	}
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Lost quantity must be positive")
	}
	if o.QuantityMade.Add(o.QuantityLost).Add(quantity).GreaterThan(o.QuantityPlanned) {
		return shared.NewDomainError("INVALID_QUANTITY", "Lost quantity exceeds the planned quantity")
	}
	for _, m := range o.Materials {
		share := o.perUnit(m).Mul(quantity)
		if share.GreaterThan(m.Available()) {
			return shared.NewDomainError("INVALID_QUANTITY", "Material reservation exhausted")
		}
		m.Lost = m.Lost.Add(share)
	}
	o.QuantityLost = o.QuantityLost.Add(quantity)
	o.Touch(now)
	if o.QuantityMade.Add(o.QuantityLost).Equal(o.QuantityPlanned) {
		o.Status = ProductionStatusQA
	}
	return nil
}

// RecordTestResult evaluates one test result for one produced item
func (o *ProductionOrder) RecordTestResult(testID uuid.UUID, itemSeq int, boolResult *bool, decResult *decimal.Decimal, now time.Time) (*QualityTestResult, error) {
	if o.Status != ProductionStatusQA {
		return nil, shared.NewInvalidStateTransition("ProductionOrder", o.Status.String(), o.Status.String())
	}
	test := o.test(testID)
	if test == nil {
		return nil, shared.ErrNotFound
	}

	var passed bool
	var err error
	switch {
	case boolResult != nil:
		passed, err = test.EvaluateBool(*boolResult)
	case decResult != nil:
		passed, err = test.EvaluateDecimal(*decResult)
	default:
		err = shared.NewDomainError("INVALID_INPUT", "A test result value is required")
	}
	if err != nil {
		return nil, err
	}

	result := &QualityTestResult{
		ID:       uuid.New(),
		TestID:   testID,
		ItemSeq:  itemSeq,
		Passed:   passed,
		Recorded: now,
	}
	o.Results = append(o.Results, result)
	o.Touch(now)
	return result, nil
}

// Close ends the order. Every declared test must have a passing result for
// every produced item.
func (o *ProductionOrder) Close(now time.Time) error {
	if o.Status != ProductionStatusQA {
		return shared.NewInvalidStateTransition("ProductionOrder", o.Status.String(), ProductionStatusClosed.String())
	}
	made := int(o.QuantityMade.IntPart())
	for _, test := range o.Tests {
		for seq := 1; seq <= made; seq++ {
			if !o.hasPassingResult(test.ID, seq) {
				return shared.NewInvariantViolation("QUALITY_GATE",
					"every produced item needs a passing result for every test")
			}
		}
	}
	o.Status = ProductionStatusClosed
	o.CloseDate = &now
	o.Touch(now)
	return nil
}

// consumeMaterials moves the per-unit share of every reservation into
// consumption for the produced quantity.
func (o *ProductionOrder) consumeMaterials(quantity decimal.Decimal) error {
	for _, m := range o.Materials {
		share := o.perUnit(m).Mul(quantity)
		if share.GreaterThan(m.Available()) {
			return shared.NewDomainError("INVALID_QUANTITY", "Material reservation exhausted")
		}
	}
	for _, m := range o.Materials {
		m.Consumed = m.Consumed.Add(o.perUnit(m).Mul(quantity))
	}
	return nil
}

func (o *ProductionOrder) perUnit(m *ProductionMaterial) decimal.Decimal {
	return m.Needed.Div(o.QuantityPlanned)
}

func (o *ProductionOrder) test(id uuid.UUID) *QualityTest {
	for _, t := range o.Tests {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (o *ProductionOrder) hasPassingResult(testID uuid.UUID, seq int) bool {
	for _, r := range o.Results {
		if r.TestID == testID && r.ItemSeq == seq && r.Passed {
			return true
		}
	}
	return false
}
