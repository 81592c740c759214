package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"neftit_waitlist/internal/model"
	"neftit_waitlist/pkg/logger"

	"go.uber.org/zap"
)

type Config struct {
	Enabled         bool          `mapstructure:"enabled"`
	Interval        time.Duration `mapstructure:"interval"`
	Bucket          string        `mapstructure:"bucket"`
	Prefix          string        `mapstructure:"prefix"`
	Endpoint        string        `mapstructure:"endpoint"`
	Region          string        `mapstructure:"region"`
	AccessKeyID     string        `mapstructure:"accessKeyID"`
	SecretAccessKey string        `mapstructure:"secretAccessKey"`
}

type EntryLister interface {
	ListEntries(ctx context.Context) ([]*model.WaitlistEntry, error)
}

type Uploader interface {
	Upload(ctx context.Context, key string, body []byte, contentType string) error
}

type Recorder interface {
	Exported(err error)
}

var header = []string{
	"id",
	"email",
	"name",
	"wallet_address",
	"twitter_username",
	"twitter_followed",
	"discord_username",
	"discord_joined",
	"referral_code",
	"referred_by_code",
	"created_at",
	"updated_at",
}

// Exporter writes a CSV snapshot of the waitlist to object storage.
// Password hashes are never exported.
type Exporter struct {
	entries  EntryLister
	uploader Uploader
	recorder Recorder
	prefix   string
	now      func() time.Time
}

func NewExporter(entries EntryLister, uploader Uploader, recorder Recorder, prefix string) *Exporter {
	return &Exporter{
		entries:  entries,
		uploader: uploader,
		recorder: recorder,
		prefix:   prefix,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (e *Exporter) Export(ctx context.Context) (string, error) {
	key, err := e.export(ctx)
	if e.recorder != nil {
		e.recorder.Exported(err)
	}
	return key, err
}

func (e *Exporter) export(ctx context.Context) (string, error) {
	entries, err := e.entries.ListEntries(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list entries: %w", err)
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, entries); err != nil {
		return "", fmt.Errorf("failed to encode entries: %w", err)
	}

	key := fmt.Sprintf("%swaitlist-%s.csv", e.prefix, e.now().Format("20060102T150405Z"))
	if err := e.uploader.Upload(ctx, key, buf.Bytes(), "text/csv"); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	logger.Logger().Info("Waitlist exported", zap.String("key", key), zap.Int("entries", len(entries)))
	return key, nil
}

// Job runs Export and logs failures, for use from the scheduler.
func (e *Exporter) Job(ctx context.Context) {
	if _, err := e.Export(ctx); err != nil {
		logger.Logger().Error("Failed to export waitlist", zap.Error(err))
	}
}

func WriteCSV(w io.Writer, entries []*model.WaitlistEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, entry := range entries {
		record := []string{
			strconv.FormatInt(entry.ID, 10),
			entry.Email,
			deref(entry.Name),
			deref(entry.WalletAddress),
			deref(entry.TwitterUsername),
			strconv.FormatBool(entry.TwitterFollowed),
			deref(entry.DiscordUsername),
			strconv.FormatBool(entry.DiscordJoined),
			entry.ReferralCode,
			deref(entry.ReferredByCode),
			entry.CreatedAt.UTC().Format(time.RFC3339),
			entry.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
