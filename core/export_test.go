package core

import (
	"bytes"
	"context"
	"os"
	"testing"
	"time"

	"github.com/VizLoreLabs/phasmaFoodPlatform/internal/notify"
	"github.com/VizLoreLabs/phasmaFoodPlatform/schema"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// TestDownloadStreamsAndDelivers tests the download, mail and cleanup sequence.
func TestDownloadStreamsAndDelivers(t *testing.T) {
	notifier := &notify.MockNotifier{}
	var attachment string
	notifier.On("Notify", mock.Anything, mock.MatchedBy(func(n schema.Notification) bool {
		return n.To == "jane.doe@example.com" && n.Subject == ExportSubject &&
			n.Body["message"] == ExportBody && len(n.Attachments) == 1
	})).Run(func(args mock.Arguments) {
		n := args.Get(1).(schema.Notification)
		attachment = n.Attachments[0]
		_, err := os.Stat(attachment)
		assert.NoError(t, err, "bundle exists while notifying")
	}).Return(nil).Once()

	f := newFixture(t, notifier, nil)
	ctx := context.Background()

	ref := schema.Measurement{
		SampleID:    1,
		UseCase:     schema.WhiteReferenceCase,
		DateCreated: time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC),
		VIS:         rawPayload(t, `{"rawDark": [[{"wave": 400, "measurement": 42}]]}`),
	}
	require.NoError(t, f.store.SaveMeasurement(ctx, ref))
	m := mycotoxinSample(t, 2)
	m.DateCreated = time.Date(2021, 2, 1, 0, 0, 0, 0, time.UTC)
	_, err := f.svc.Ingest(ctx, m, schema.StoreOperation)
	require.NoError(t, err)

	req := schema.Requester{Email: "jane.doe@example.com"}
	var buf bytes.Buffer
	jobID, err := f.svc.Download(ctx, req, []int64{2}, &buf)
	require.NoError(t, err)
	assert.NotEmpty(t, jobID)

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 1)

	assert.Empty(t, f.jobs.Errors())
	notifier.AssertExpectations(t)
	require.NotEmpty(t, attachment)
	_, err = os.Stat(attachment)
	assert.True(t, os.IsNotExist(err), "bundle removed after delivery")
	assert.False(t, f.svc.exporter.Materialized(req))
}

// TestDownloadReusesMaterializedBundle tests that an existing bundle is streamed as is.
func TestDownloadReusesMaterializedBundle(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := context.Background()
	_, err := f.svc.Ingest(ctx, mycotoxinSample(t, 3), schema.StoreOperation)
	require.NoError(t, err)

	req := schema.Requester{Email: "bob@example.com"}
	items, err := f.svc.exportItems(ctx, []int64{3})
	require.NoError(t, err)
	bundle, err := f.svc.exporter.Export(req, items)
	require.NoError(t, err)
	want, err := os.ReadFile(bundle)
	require.NoError(t, err)

	var buf bytes.Buffer
	// The selection is ignored while a bundle is on disk.
	_, err = f.svc.Download(ctx, req, []int64{999}, &buf)
	require.NoError(t, err)
	assert.Equal(t, want, buf.Bytes())
	assert.False(t, f.svc.exporter.Materialized(req), "cleaned up without a notifier")
}

// TestDownloadErrors tests rejected export requests.
func TestDownloadErrors(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := context.Background()
	var buf bytes.Buffer

	_, err := f.svc.Download(ctx, schema.Requester{Email: "../x@example.com"}, []int64{1}, &buf)
	assert.ErrorIs(t, err, schema.ErrValidation)

	_, err = f.svc.Download(ctx, schema.Requester{Email: "a@example.com"}, nil, &buf)
	assert.ErrorIs(t, err, schema.ErrValidation)

	_, err = f.svc.Download(ctx, schema.Requester{Email: "a@example.com"}, []int64{404}, &buf)
	assert.ErrorIs(t, err, schema.ErrNotFound)
	assert.Zero(t, buf.Len())
}

// TestBundleLockSharedByArchiveName tests that requesters writing the same archive share a lock.
func TestBundleLockSharedByArchiveName(t *testing.T) {
	f := newFixture(t, nil, nil)

	tests := []struct {
		name   string
		a, b   string
		shared bool
	}{
		{name: "same requester", a: "ana@example.com", b: "ana@example.com", shared: true},
		{name: "dots collapse into one archive", a: "a.b@example.com", b: "ab@other.org", shared: true},
		{name: "distinct archives", a: "a.b@example.com", b: "ac@example.com", shared: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ra, rb := schema.Requester{Email: tt.a}, schema.Requester{Email: tt.b}
			pa, err := f.svc.exporter.BundlePath(ra)
			require.NoError(t, err)
			pb, err := f.svc.exporter.BundlePath(rb)
			require.NoError(t, err)
			assert.Equal(t, tt.shared, pa == pb)
			assert.Equal(t, tt.shared, f.svc.bundleLock(ra) == f.svc.bundleLock(rb))
		})
	}
}

// TestExportItemsPairsReferences tests that each measurement gets the latest prior reference.
func TestExportItemsPairsReferences(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := context.Background()
	day := func(d int) time.Time { return time.Date(2021, 5, d, 0, 0, 0, 0, time.UTC) }

	for i, d := range []int{1, 3} {
		ref := schema.Measurement{SampleID: int64(100 + i), UseCase: schema.WhiteReferenceCase, DateCreated: day(d)}
		require.NoError(t, f.store.SaveMeasurement(ctx, ref))
	}
	early := mycotoxinSample(t, 5)
	early.DateCreated = day(2)
	late := mycotoxinSample(t, 6)
	late.DateCreated = day(4)
	orphan := mycotoxinSample(t, 7)
	orphan.DateCreated = day(1)
	for _, m := range []schema.Measurement{early, late, orphan} {
		_, err := f.svc.Ingest(ctx, m, schema.StoreOperation)
		require.NoError(t, err)
	}

	items, err := f.svc.exportItems(ctx, []int64{5, 6, 7})
	require.NoError(t, err)
	require.Len(t, items, 3)
	refs := map[int64]int64{}
	for _, it := range items {
		if it.Reference != nil {
			refs[it.Measurement.SampleID] = it.Reference.SampleID
		}
	}
	assert.Equal(t, map[int64]int64{5: 100, 6: 101}, refs)
}
