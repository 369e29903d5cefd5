package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dtroode/gophspace-server/internal/logger"
	"github.com/dtroode/gophspace-server/internal/model"
)

const (
	archiveWatermarkKey  = "audit/_watermark"
	archiveObjectPattern = "audit/%020d-%020d.ndjson"
	archiveContentType   = "application/x-ndjson"
)

// Archiver copies the audit log to object storage in NDJSON batches. The last
// archived sequence number is kept in the bucket, so a restarted process
// continues where the previous one stopped.
type Archiver struct {
	store     model.AuditStore
	storage   model.Storage
	batchSize int
	openGrace time.Duration
	now       func() time.Time
	logger    *logger.Logger

	mu sync.Mutex
}

func NewArchiver(store model.AuditStore, storage model.Storage, batchSize int, openGrace time.Duration, logger *logger.Logger) *Archiver {
	return &Archiver{
		store:     store,
		storage:   storage,
		batchSize: batchSize,
		openGrace: openGrace,
		now:       time.Now,
		logger:    logger,
	}
}

// Run archives every entry that is ready and returns how many were written.
// An open entry younger than the grace period ends the run: its request may
// still be in flight. Older open entries are archived with a null status.
// A missing sequence number is treated the same way, since the attempt that
// took it may not be committed yet.
func (a *Archiver) Run(ctx context.Context) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	watermark, err := a.watermark(ctx)
	if err != nil {
		return 0, err
	}

	total := 0
	for {
		entries, err := a.store.List(ctx, model.AuditFilter{AfterSeq: watermark, Limit: a.batchSize})
		if err != nil {
			return total, fmt.Errorf("failed to list audit entries: %w", err)
		}

		ready := a.ready(watermark, entries)
		if len(ready) == 0 {
			return total, nil
		}

		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		for _, e := range ready {
			if err := enc.Encode(e); err != nil {
				return total, fmt.Errorf("failed to encode audit entry: %w", err)
			}
		}

		first, last := ready[0].Seq, ready[len(ready)-1].Seq
		key := fmt.Sprintf(archiveObjectPattern, first, last)
		if err := a.storage.Upload(ctx, key, buf.Bytes(), archiveContentType); err != nil {
			return total, fmt.Errorf("failed to upload audit batch: %w", err)
		}
		if err := a.storage.Upload(ctx, archiveWatermarkKey, []byte(strconv.FormatInt(int64(last), 10)), "text/plain"); err != nil {
			return total, fmt.Errorf("failed to store watermark: %w", err)
		}

		a.logger.Info("Audit archiver: batch archived",
			"key", key,
			"entries", len(ready))

		watermark = last
		total += len(ready)
		if len(ready) < len(entries) || len(entries) < a.batchSize {
			return total, nil
		}
	}
}

func (a *Archiver) ready(after model.AuditHandle, entries []model.AuditEntry) []model.AuditEntry {
	cutoff := a.now().Add(-a.openGrace)
	prev := after
	for i, e := range entries {
		young := e.CreatedAt.After(cutoff)
		if young && (!e.Closed() || e.Seq != prev+1) {
			return entries[:i]
		}
		prev = e.Seq
	}
	return entries
}

func (a *Archiver) watermark(ctx context.Context) (model.AuditHandle, error) {
	data, err := a.storage.Download(ctx, archiveWatermarkKey)
	if errors.Is(err, model.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read watermark: %w", err)
	}

	seq, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse watermark %q: %w", data, err)
	}
	return model.AuditHandle(seq), nil
}
