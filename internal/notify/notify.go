// Package notify delivers notifications to requesters and mobile devices.
package notify

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/VizLoreLabs/phasmaFoodPlatform/internal/contract"
	"github.com/VizLoreLabs/phasmaFoodPlatform/schema"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LogNotifier writes notifications to the log instead of a transport.
type LogNotifier struct {
	logger *zap.Logger
}

var _ contract.Notifier = &LogNotifier{} // Compile-time check

// NewLogNotifier returns a notifier writing to logger.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

// Notify logs n.
func (l *LogNotifier) Notify(_ context.Context, n schema.Notification) error {
	if n.To == "" {
		return fmt.Errorf("%w: notification without recipient", schema.ErrValidation)
	}
	l.logger.Info("Notification",
		zap.String("to", n.To),
		zap.String("subject", n.Subject),
		zap.Any("body", n.Body),
		zap.Strings("attachments", n.Attachments),
	)
	return nil
}

// BlobNotifier drops attachments into a blob store and logs where they went.
type BlobNotifier struct {
	store  contract.BlobStore
	logger *zap.Logger
	now    func() time.Time
}

var _ contract.Notifier = &BlobNotifier{} // Compile-time check

// NewBlobNotifier returns a notifier uploading attachments to store.
func NewBlobNotifier(store contract.BlobStore, logger *zap.Logger) *BlobNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BlobNotifier{store: store, logger: logger, now: time.Now}
}

// Key returns the blob key of an attachment for recipient to.
func Key(to, id, path string) string {
	return fmt.Sprintf("notifications/%s/%s-%s", to, id, filepath.Base(path))
}

// Notify uploads every attachment, then logs the message with the blob URIs.
// Attachments are read before Notify returns, so callers may remove them afterwards.
func (b *BlobNotifier) Notify(ctx context.Context, n schema.Notification) error {
	if n.To == "" {
		return fmt.Errorf("%w: notification without recipient", schema.ErrValidation)
	}

	uris := make([]string, 0, len(n.Attachments))
	id := uuid.NewString()
	for _, path := range n.Attachments {
		uri, err := b.upload(ctx, Key(n.To, id, path), path)
		if err != nil {
			return err
		}
		uris = append(uris, uri)
	}

	b.logger.Info("Notification",
		zap.String("to", n.To),
		zap.String("subject", n.Subject),
		zap.Any("body", n.Body),
		zap.Strings("attachments", uris),
		zap.Time("sent", b.now()),
	)
	return nil
}

func (b *BlobNotifier) upload(ctx context.Context, key, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open attachment %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	uri, err := b.store.Put(ctx, key, f, contentType(path))
	if err != nil {
		return "", fmt.Errorf("failed to upload attachment %s: %w", path, err)
	}
	return uri, nil
}

func contentType(path string) string {
	switch filepath.Ext(path) {
	case ".zip":
		return "application/zip"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/octet-stream"
}

// Open returns the notifier selected by cfg.NotifyDriver.
func Open(cfg *contract.Config, store contract.BlobStore, logger *zap.Logger) contract.Notifier {
	if cfg.NotifyDriver == contract.BlobNotify && store != nil {
		return NewBlobNotifier(store, logger)
	}
	return NewLogNotifier(logger)
}
