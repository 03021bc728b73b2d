package workorder

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailcore/backend/internal/domain/shared"
)

func newProducingOrder(t *testing.T, planned, neededPerTotal int64) (*ProductionOrder, *ProductionMaterial) {
	o, err := NewProductionOrder(1, uuid.New(), uuid.New(), uuid.New(), decimal.NewFromInt(planned), testNow)
	require.NoError(t, err)
	m, err := o.AddMaterial(uuid.New(), decimal.NewFromInt(neededPerTotal))
	require.NoError(t, err)
	require.NoError(t, o.Wait(testNow))
	require.NoError(t, o.Approve(testNow))
	return o, m
}

func TestProductionOrder_ApproveReservesMaterials(t *testing.T) {
	o, m := newProducingOrder(t, 10, 20)
	assert.Equal(t, ProductionStatusProducing, o.Status)
	assert.True(t, m.Reserved.Equal(decimal.NewFromInt(20)))
	assert.True(t, m.Available().Equal(decimal.NewFromInt(20)))
}

func TestProductionOrder_ProduceConsumesReservation(t *testing.T) {
	o, m := newProducingOrder(t, 10, 20)

	require.NoError(t, o.Produce(decimal.NewFromInt(4), testNow))
	// 2 units of material per produced unit
	assert.True(t, m.Consumed.Equal(decimal.NewFromInt(8)))
	assert.True(t, m.Available().Equal(decimal.NewFromInt(12)))
	assert.Equal(t, ProductionStatusProducing, o.Status)

	require.NoError(t, o.Produce(decimal.NewFromInt(6), testNow))
	assert.True(t, m.Available().IsZero())
	assert.Equal(t, ProductionStatusQA, o.Status)
}

func TestProductionOrder_LossConvertsReservation(t *testing.T) {
	o, m := newProducingOrder(t, 10, 20)

	require.NoError(t, o.Produce(decimal.NewFromInt(8), testNow))
	require.NoError(t, o.Loss(decimal.NewFromInt(2), testNow))
	assert.True(t, m.Lost.Equal(decimal.NewFromInt(4)))
	assert.True(t, o.QuantityLost.Equal(decimal.NewFromInt(2)))
	assert.Equal(t, ProductionStatusQA, o.Status)
}

func TestProductionOrder_ProduceBeyondPlanRejected(t *testing.T) {
	o, _ := newProducingOrder(t, 5, 5)
	err := o.Produce(decimal.NewFromInt(6), testNow)
	require.Error(t, err)
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "INVALID_QUANTITY", derr.Code)
}

func TestProductionOrder_QualityGate(t *testing.T) {
	o, _ := newProducingOrder(t, 2, 2)

	boolTest := &QualityTest{ID: uuid.New(), Description: "power on", Type: QualityTestBoolean, ExpectedBool: true}
	decTest := &QualityTest{
		ID: uuid.New(), Description: "voltage", Type: QualityTestDecimal,
		RangeMin: decimal.NewFromFloat(4.5), RangeMax: decimal.NewFromFloat(5.5),
	}
	o.Tests = append(o.Tests, boolTest, decTest)

	require.NoError(t, o.Produce(decimal.NewFromInt(2), testNow))
	require.Equal(t, ProductionStatusQA, o.Status)

	// incomplete results keep the gate shut
	err := o.Close(testNow)
	require.Error(t, err)

	yes := true
	for seq := 1; seq <= 2; seq++ {
		r, err := o.RecordTestResult(boolTest.ID, seq, &yes, nil, testNow)
		require.NoError(t, err)
		assert.True(t, r.Passed)
	}

	// a failing decimal result does not open the gate
	out := decimal.NewFromFloat(6.1)
	r, err := o.RecordTestResult(decTest.ID, 1, nil, &out, testNow)
	require.NoError(t, err)
	assert.False(t, r.Passed)
	require.Error(t, o.Close(testNow))

	in := decimal.NewFromFloat(5.0)
	for seq := 1; seq <= 2; seq++ {
		r, err := o.RecordTestResult(decTest.ID, seq, nil, &in, testNow)
		require.NoError(t, err)
		assert.True(t, r.Passed)
	}

	require.NoError(t, o.Close(testNow))
	assert.Equal(t, ProductionStatusClosed, o.Status)
	require.NotNil(t, o.CloseDate)
}

func TestQualityTest_TypeMismatch(t *testing.T) {
	boolTest := &QualityTest{ID: uuid.New(), Type: QualityTestBoolean, ExpectedBool: true}
	_, err := boolTest.EvaluateDecimal(decimal.NewFromInt(1))
	require.Error(t, err)

	decTest := &QualityTest{ID: uuid.New(), Type: QualityTestDecimal}
	_, err = decTest.EvaluateBool(true)
	require.Error(t, err)
}

func TestQualityTest_RangeBoundsInclusive(t *testing.T) {
	decTest := &QualityTest{
		ID: uuid.New(), Type: QualityTestDecimal,
		RangeMin: decimal.NewFromInt(1), RangeMax: decimal.NewFromInt(2),
	}
	for _, v := range []float64{1, 1.5, 2} {
		ok, err := decTest.EvaluateDecimal(decimal.NewFromFloat(v))
		require.NoError(t, err)
		assert.True(t, ok, "value %v", v)
	}
	ok, err := decTest.EvaluateDecimal(decimal.NewFromFloat(2.01))
	require.NoError(t, err)
	assert.False(t, ok)
}
