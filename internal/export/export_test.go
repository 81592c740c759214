package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"neftit_waitlist/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticEntries struct {
	entries []*model.WaitlistEntry
	err     error
}

func (s staticEntries) ListEntries(context.Context) ([]*model.WaitlistEntry, error) {
	return s.entries, s.err
}

type captureUploader struct {
	key         string
	body        []byte
	contentType string
	err         error
}

func (c *captureUploader) Upload(_ context.Context, key string, body []byte, contentType string) error {
	c.key, c.body, c.contentType = key, body, contentType
	return c.err
}

type countingRecorder struct {
	ok, failed int
}

func (r *countingRecorder) Exported(err error) {
	if err != nil {
		r.failed++
		return
	}
	r.ok++
}

func strPtr(s string) *string { return &s }

var joined = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func sampleEntries() []*model.WaitlistEntry {
	hash := "$2a$10$secret"
	return []*model.WaitlistEntry{
		{
			ID:              1,
			Email:           "alice@example.com",
			Name:            strPtr("Alice, the first"),
			PasswordHash:    &hash,
			WalletAddress:   strPtr("0x1234567890abcdef1234567890abcdef1234abcd"),
			TwitterFollowed: true,
			ReferralCode:    "ALICE001",
			CreatedAt:       joined,
			UpdatedAt:       joined,
		},
		{
			ID:             2,
			Email:          "bob@example.com",
			ReferralCode:   "BOBBY001",
			ReferredByCode: strPtr("ALICE001"),
			CreatedAt:      joined,
			UpdatedAt:      joined,
		},
	}
}

func TestExport(t *testing.T) {
	uploader := &captureUploader{}
	recorder := &countingRecorder{}
	exporter := NewExporter(staticEntries{entries: sampleEntries()}, uploader, recorder, "exports/")
	exporter.now = func() time.Time { return joined }

	key, err := exporter.Export(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "exports/waitlist-20250301T120000Z.csv", key)
	assert.Equal(t, key, uploader.key)
	assert.Equal(t, "text/csv", uploader.contentType)
	assert.NotContains(t, string(uploader.body), "secret")

	records, err := csv.NewReader(bytes.NewReader(uploader.body)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, header, records[0])
	assert.Equal(t, "Alice, the first", records[1][2])
	assert.Equal(t, "true", records[1][5])
	assert.Equal(t, "ALICE001", records[2][9])
	assert.Equal(t, "2025-03-01T12:00:00Z", records[2][10])
	assert.Equal(t, 1, recorder.ok)
}

func TestExportFailures(t *testing.T) {
	tests := []struct {
		name     string
		entries  staticEntries
		uploader *captureUploader
	}{
		{name: "list fails", entries: staticEntries{err: errors.New("db down")}, uploader: &captureUploader{}},
		{name: "upload fails", entries: staticEntries{entries: sampleEntries()}, uploader: &captureUploader{err: errors.New("denied")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := &countingRecorder{}
			exporter := NewExporter(tt.entries, tt.uploader, recorder, "")

			_, err := exporter.Export(context.Background())
			assert.Error(t, err)
			assert.Equal(t, 1, recorder.failed)

			// the scheduler entry point swallows the error
			exporter.Job(context.Background())
			assert.Equal(t, 2, recorder.failed)
		})
	}
}

func TestS3Uploader(t *testing.T) {
	var gotPath, gotType string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	uploader, err := NewS3Uploader(context.Background(), Config{
		Bucket:          "waitlist",
		Endpoint:        server.URL,
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
	})
	require.NoError(t, err)

	err = uploader.Upload(context.Background(), "exports/w.csv", []byte("id\n1\n"), "text/csv")
	require.NoError(t, err)

	assert.Equal(t, "/waitlist/exports/w.csv", gotPath)
	assert.Equal(t, "text/csv", gotType)
	assert.Equal(t, "id\n1\n", string(gotBody))
}

func TestNewS3UploaderRequiresBucket(t *testing.T) {
	_, err := NewS3Uploader(context.Background(), Config{})
	assert.Error(t, err)
}
