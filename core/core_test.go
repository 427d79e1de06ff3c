package core

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/VizLoreLabs/phasmaFoodPlatform/internal/contract"
	"github.com/VizLoreLabs/phasmaFoodPlatform/internal/docstore"
	"github.com/VizLoreLabs/phasmaFoodPlatform/internal/jobs"
	"github.com/VizLoreLabs/phasmaFoodPlatform/internal/store"
	"github.com/VizLoreLabs/phasmaFoodPlatform/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC)

type fixture struct {
	svc   *Service
	store *store.Store
	docs  *docstore.Memory
	jobs  *jobs.Inline
	cfg   *contract.Config
}

func testConfig(t *testing.T) *contract.Config {
	t.Helper()
	return &contract.Config{
		ExportDir:        t.TempDir(),
		Replicates:       2,
		ReferenceUseCase: schema.WhiteReferenceCase,
		MongoDatabase:    "phasmafood",
		MongoCollection:  "AltJsonSamples",
	}
}

// newFixture wires a Service over an in-memory SQLite store and document store.
func newFixture(t *testing.T, notifier contract.Notifier, model contract.Model) *fixture {
	t.Helper()
	st, err := store.New(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	f := &fixture{store: st, docs: docstore.NewMemory(), jobs: &jobs.Inline{}, cfg: testConfig(t)}
	f.svc, err = NewService(f.cfg, Deps{
		Store:    st,
		Docs:     f.docs,
		Jobs:     f.jobs,
		Notifier: notifier,
		Model:    model,
	})
	require.NoError(t, err)
	f.svc.now = func() time.Time { return fixedNow }
	return f
}

func rawPayload(t *testing.T, raw string) schema.Payload {
	t.Helper()
	var p schema.Payload
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	return p
}

// mycotoxinSample is a maize measurement with two VIS replicates.
func mycotoxinSample(t *testing.T, id int64) schema.Measurement {
	return schema.Measurement{
		SampleID:       id,
		Owner:          "ana@example.com",
		MobileID:       "mobile-1",
		DeviceID:       "dev-1",
		UseCase:        schema.MycotoxinsDetection,
		FoodType:       "maize",
		AflatoxinName:  "B1",
		AflatoxinValue: "4.2",
		VIS: rawPayload(t, `{
			"preprocessed": [{"wave": 400, "measurement": 0.1}, {"wave": 401, "measurement": 0.2}],
			"rawData": [
				[{"wave": 400, "measurement": 1}, {"wave": 401, "measurement": 2}],
				[{"wave": 400, "measurement": 3}, {"wave": 401, "measurement": 4}]
			]
		}`),
		NIR:  rawPayload(t, `{"preprocessed": [{"wave": 900, "measurement": 0.5}]}`),
		FLUO: rawPayload(t, `{"preprocessed": [{"wave": 300, "measurement": 0.3}]}`),
	}
}

// labelModel predicts the same label for every input.
type labelModel string

func (m labelModel) Predict(context.Context, []float64) (string, error) { return string(m), nil }

// TestNewServiceRequiresDeps tests that the primary store and job runner are mandatory.
func TestNewServiceRequiresDeps(t *testing.T) {
	cfg := testConfig(t)

	_, err := NewService(cfg, Deps{Jobs: &jobs.Inline{}})
	assert.Error(t, err)

	st, err := store.New(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = st.Close() }()

	_, err = NewService(cfg, Deps{Store: st})
	assert.Error(t, err)

	cfg.Replicates = 0
	_, err = NewService(cfg, Deps{Store: st, Jobs: &jobs.Inline{}})
	assert.Error(t, err)

	cfg.Replicates = 1
	svc, err := NewService(cfg, Deps{Store: st, Jobs: &jobs.Inline{}})
	require.NoError(t, err)
	assert.IsType(t, NoModel{}, svc.model)
	assert.NotNil(t, svc.logger)
}

// TestFusionFeatures tests the concatenation order of the fused feature vector.
func TestFusionFeatures(t *testing.T) {
	features, err := FusionFeatures(mycotoxinSample(t, 1))
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.2, 0.3, 0.5}, features, "VIS, FLUO then NIR")

	_, err = FusionFeatures(schema.Measurement{SampleID: 2})
	assert.ErrorIs(t, err, schema.ErrValidation)

	bad := schema.Measurement{VIS: rawPayload(t, `{"preprocessed": [{"wave": 400, "measurement": "x"}]}`)}
	_, err = FusionFeatures(bad)
	assert.ErrorIs(t, err, schema.ErrValidation)
}

// TestNoModel tests that the default model never predicts a label.
func TestNoModel(t *testing.T) {
	label, err := NoModel{}.Predict(context.Background(), []float64{1})
	require.NoError(t, err)
	assert.Equal(t, schema.NotAvailable, label)
}

// TestOperationsWithoutDocumentStore tests that secondary-store operations fail cleanly.
func TestOperationsWithoutDocumentStore(t *testing.T) {
	st, err := store.New(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = st.Close() }()
	svc, err := NewService(testConfig(t), Deps{Store: st, Jobs: &jobs.Inline{}})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.Rows(ctx, "", "", nil, 1, 10)
	assert.Error(t, err)
	_, err = svc.Row(ctx, "", "", nil)
	assert.Error(t, err)
	_, err = svc.Databases(ctx)
	assert.Error(t, err)
	_, err = svc.Collections(ctx, "")
	assert.Error(t, err)
	_, err = svc.Replicate(ctx, schema.ReplicationRequest{Collection: "A_B", SampleIDs: []int64{1}})
	assert.Error(t, err)
	_, err = svc.ComputeStatistics(ctx)
	assert.Error(t, err)
}
