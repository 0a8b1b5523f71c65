package airtable_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/seclens/quarterback/pkg/domain/model"
	"github.com/seclens/quarterback/pkg/service/airtable"
)

type fakeDestination struct {
	calls   []map[string]any
	callsAt []time.Time
	failAt  map[int]error // 0-based call index -> error
}

func (f *fakeDestination) CreateRecord(ctx context.Context, fields map[string]any) error {
	index := len(f.calls)
	f.calls = append(f.calls, fields)
	f.callsAt = append(f.callsAt, time.Now())
	if err, ok := f.failAt[index]; ok {
		return err
	}
	return nil
}

func records(n int) []model.Record {
	out := make([]model.Record, n)
	for i := range out {
		out[i] = model.Record{Fields: map[string]any{model.FieldCount: i}}
	}
	return out
}

func TestUploaderPacing(t *testing.T) {
	ctx := context.Background()

	// 100 calls per second -> 10ms minimum spacing
	dest := &fakeDestination{}
	uploader := airtable.NewUploader(dest, time.Second, 100)

	stats := uploader.Upload(ctx, records(4))
	gt.Equal(t, stats.Attempted, 4)
	gt.Equal(t, stats.Uploaded, 4)
	gt.Equal(t, stats.Skipped, 0)
	gt.Equal(t, len(dest.calls), 4)

	for i := 1; i < len(dest.callsAt); i++ {
		gap := dest.callsAt[i].Sub(dest.callsAt[i-1])
		if gap < 10*time.Millisecond {
			t.Errorf("calls %d and %d only %v apart, want >= 10ms", i-1, i, gap)
		}
	}
}

func TestUploaderSkipsFailedRows(t *testing.T) {
	ctx := context.Background()

	dest := &fakeDestination{failAt: map[int]error{
		1: goerr.New("record rejected", goerr.T(model.ErrTagUpload), goerr.V("status", 422)),
	}}
	uploader := airtable.NewUploader(dest, time.Second, 1000)

	stats := uploader.Upload(ctx, records(3))

	// the failed row is skipped, the rest still go out
	gt.Equal(t, len(dest.calls), 3)
	gt.Equal(t, stats.Attempted, 3)
	gt.Equal(t, stats.Uploaded, 2)
	gt.Equal(t, stats.Skipped, 1)
}

func TestUploaderPacesAfterFailure(t *testing.T) {
	ctx := context.Background()

	dest := &fakeDestination{failAt: map[int]error{
		0: goerr.New("boom"),
	}}
	uploader := airtable.NewUploader(dest, time.Second, 100)

	stats := uploader.Upload(ctx, records(2))
	gt.Equal(t, stats.Skipped, 1)
	gt.Equal(t, stats.Uploaded, 1)

	// the delay runs after the failed attempt too
	gap := dest.callsAt[1].Sub(dest.callsAt[0])
	if gap < 10*time.Millisecond {
		t.Errorf("failure was not paced: gap %v, want >= 10ms", gap)
	}
}

func TestUploaderCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dest := &fakeDestination{}
	uploader := airtable.NewUploader(dest, time.Second, 1000)

	stats := uploader.Upload(ctx, records(5))
	gt.Equal(t, stats.Attempted, 0)
	gt.Equal(t, len(dest.calls), 0)
}
