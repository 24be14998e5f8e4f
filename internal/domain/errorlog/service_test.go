package errorlog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type memRepo struct {
	recs []Record
	err  error
}

func (m *memRepo) Append(_ context.Context, rec *Record) error {
	if m.err != nil {
		return m.err
	}
	rec.ID = int64(len(m.recs) + 1)
	m.recs = append(m.recs, *rec)
	return nil
}

func (m *memRepo) List(context.Context) ([]Record, error) {
	return m.recs, m.err
}

func TestErrorLogService_Record(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2024, 5, 1, 9, 30, 0, 0, time.FixedZone("X", 3600))

	repo := &memRepo{}
	svc := NewService(repo, nil)
	svc.now = func() time.Time { return fixed }

	rec, err := svc.Record(ctx, "https://a.com", "timeout")
	require.NoError(t, err)
	require.Equal(t, int64(1), rec.ID)
	require.True(t, rec.Timestamp.Equal(fixed))
	require.Equal(t, time.UTC, rec.Timestamp.Location())

	_, err = svc.Record(ctx, "https://a.com", "timeout")
	require.NoError(t, err)

	recs, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	require.Equal(t, recs[0].URL, recs[1].URL)
}

func TestErrorLogService_RecordStorageFailure(t *testing.T) {
	boom := errors.New("locked")
	svc := NewService(&memRepo{err: boom}, nil)

	_, err := svc.Record(context.Background(), "https://a.com", "x")
	require.ErrorIs(t, err, boom)
}
