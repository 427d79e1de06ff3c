package core

import (
	"context"
	"testing"
	"time"

	"github.com/VizLoreLabs/phasmaFoodPlatform/internal/notify"
	"github.com/VizLoreLabs/phasmaFoodPlatform/schema"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// TestIngestAggregatesAndClassifies tests the full analyze path with an inline job runner.
func TestIngestAggregatesAndClassifies(t *testing.T) {
	notifier := &notify.MockNotifier{}
	notifier.On("Notify", mock.Anything, mock.MatchedBy(func(n schema.Notification) bool {
		return n.To == "mobile-1" &&
			n.Subject == "PhasmaFood notification for ana@example.com" &&
			n.Body["sampleID"] == int64(11) &&
			n.Body["FUSION"] == "pure" &&
			n.Body["VIS"] == schema.NotAvailable
	})).Return(nil).Once()

	f := newFixture(t, notifier, labelModel("pure"))
	ctx := context.Background()
	before := testutil.ToFloat64(ingestedTotal.WithLabelValues(schema.MycotoxinsDetection))

	stored, err := f.svc.Ingest(ctx, mycotoxinSample(t, 11), schema.AnalyzeOperation)
	require.NoError(t, err)
	assert.Equal(t, "4.2_B1", stored.UseCaseSampleID)
	assert.True(t, fixedNow.Equal(stored.DateCreated))
	assert.True(t, fixedNow.Equal(stored.DateUpdated))
	assert.Equal(t, before+1, testutil.ToFloat64(ingestedTotal.WithLabelValues(schema.MycotoxinsDetection)))

	got, err := f.store.GetMeasurement(ctx, 11)
	require.NoError(t, err)
	avg, err := got.VIS.Series(schema.AvgData)
	require.NoError(t, err)
	require.Len(t, avg, 2)
	v, ok := avg[0].Measurement.Float()
	require.True(t, ok)
	assert.InDelta(t, 2.0, v, 1e-9)
	v, ok = avg[1].Measurement.Float()
	require.True(t, ok)
	assert.InDelta(t, 3.0, v, 1e-9)

	result, err := f.svc.Result(ctx, 11)
	require.NoError(t, err)
	assert.Equal(t, "pure", result.Data[schema.SensorFusion])
	assert.Equal(t, schema.NotAvailable, result.Data[schema.SensorNIR])

	assert.Empty(t, f.jobs.Errors())
	notifier.AssertExpectations(t)
}

// TestIngestKeepsSuppliedCreationTime tests that only a zero creation time is stamped.
func TestIngestKeepsSuppliedCreationTime(t *testing.T) {
	f := newFixture(t, nil, nil)
	m := mycotoxinSample(t, 12)
	created := time.Date(2019, 1, 1, 8, 0, 0, 0, time.UTC)
	m.DateCreated = created

	stored, err := f.svc.Ingest(context.Background(), m, schema.StoreOperation)
	require.NoError(t, err)
	assert.True(t, created.Equal(stored.DateCreated))
	assert.True(t, fixedNow.Equal(stored.DateUpdated))
}

// TestIngestSkipsClassification tests the store operation and the test use case.
func TestIngestSkipsClassification(t *testing.T) {
	tests := []struct {
		name      string
		useCase   string
		operation string
	}{
		{name: "store operation", useCase: schema.FoodSpoilage, operation: schema.StoreOperation},
		{name: "test use case", useCase: schema.TestUseCase, operation: schema.AnalyzeOperation},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifier := &notify.MockNotifier{}
			f := newFixture(t, notifier, nil)
			m := mycotoxinSample(t, int64(20+i))
			m.UseCase = tt.useCase

			_, err := f.svc.Ingest(context.Background(), m, tt.operation)
			require.NoError(t, err)

			_, err = f.svc.Result(context.Background(), m.SampleID)
			assert.ErrorIs(t, err, schema.ErrNotFound)
			notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
		})
	}
}

// TestIngestValidation tests rejected measurements.
func TestIngestValidation(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := context.Background()

	noID := mycotoxinSample(t, 0)
	_, err := f.svc.Ingest(ctx, noID, schema.StoreOperation)
	assert.ErrorIs(t, err, schema.ErrValidation)

	noUseCase := mycotoxinSample(t, 30)
	noUseCase.UseCase = "  "
	_, err = f.svc.Ingest(ctx, noUseCase, schema.StoreOperation)
	assert.ErrorIs(t, err, schema.ErrValidation)

	broken := mycotoxinSample(t, 31)
	broken.FLUO = rawPayload(t, `{"rawData": {"not": "a replicate set"}}`)
	_, err = f.svc.Ingest(ctx, broken, schema.StoreOperation)
	assert.ErrorIs(t, err, schema.ErrValidation)

	_, err = f.svc.Ingest(ctx, mycotoxinSample(t, 32), schema.StoreOperation)
	require.NoError(t, err)
	_, err = f.svc.Ingest(ctx, mycotoxinSample(t, 32), schema.StoreOperation)
	assert.ErrorIs(t, err, schema.ErrValidation, "duplicate sample id")
}

// TestClassifyWithoutMobile tests that a result is stored even when nobody can be notified.
func TestClassifyWithoutMobile(t *testing.T) {
	notifier := &notify.MockNotifier{}
	f := newFixture(t, notifier, nil)
	m := mycotoxinSample(t, 40)
	m.MobileID = ""
	require.NoError(t, f.store.SaveMeasurement(context.Background(), m))

	require.NoError(t, f.svc.Classify(context.Background(), m))

	result, err := f.svc.Result(context.Background(), 40)
	require.NoError(t, err)
	for _, sensor := range schema.AllSensors {
		assert.Equal(t, schema.NotAvailable, result.Data[sensor], sensor)
	}
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
}

// TestClassifyUnusableFeatures tests that a measurement without readings still gets a result.
func TestClassifyUnusableFeatures(t *testing.T) {
	f := newFixture(t, nil, labelModel("pure"))
	m := schema.Measurement{SampleID: 41, MobileID: "m", UseCase: schema.FoodSpoilage}
	require.NoError(t, f.store.SaveMeasurement(context.Background(), m))
	require.NoError(t, f.svc.Classify(context.Background(), m))

	result, err := f.svc.Result(context.Background(), 41)
	require.NoError(t, err)
	assert.Equal(t, schema.NotAvailable, result.Data[schema.SensorFusion])
}
