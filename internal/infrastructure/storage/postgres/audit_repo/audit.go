// Package audit_repo provides the PostgreSQL audit log repository.
package audit_repo

import (
	"context"
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/AzizBrinis/invoice-app-sub003/internal/core/id"
	"github.com/AzizBrinis/invoice-app-sub003/internal/domain/audit"
	"github.com/AzizBrinis/invoice-app-sub003/internal/infrastructure/storage/postgres"
)

// CompressionAlgo specifies the snapshot compression algorithm used at rest.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// Compile-time check that Repo implements audit.Repository.
var _ audit.Repository = (*Repo)(nil)

// Repo stores audit entries in sys_audit. Snapshots above the threshold are
// zstd-compressed at rest and decompressed transparently on read.
type Repo struct {
	txManager         *postgres.TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int // bytes
}

// NewRepo creates the audit repository.
func NewRepo(txManager *postgres.TxManager) (*Repo, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &Repo{
		txManager:         txManager,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: 10 * 1024, // 10KB
	}, nil
}

// Append writes one entry.
func (r *Repo) Append(ctx context.Context, entry *audit.Entry) error {
	snapshot := []byte(entry.Snapshot)
	var compressed []byte
	algo := CompressionNone

	if len(snapshot) > r.compressThreshold {
		compressed = r.encoder.EncodeAll(snapshot, nil)
		snapshot = nil
		algo = CompressionZstd
	}

	sql := `
		INSERT INTO sys_audit (
			id, document_id, document_type, action,
			previous_status, new_status,
			snapshot, snapshot_compressed, compression_algo,
			user_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	querier := r.txManager.GetQuerier(ctx)
	_, err := querier.Exec(ctx, sql,
		entry.ID, entry.DocumentID, entry.DocumentType, entry.Action,
		entry.PreviousStatus, entry.NewStatus,
		snapshot, compressed, algo,
		entry.UserID, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}

	return nil
}

// ListByDocument returns the entries for a document, oldest first.
func (r *Repo) ListByDocument(ctx context.Context, documentID id.ID) ([]audit.Entry, error) {
	sql := `
		SELECT id, document_id, document_type, action,
			   previous_status, new_status,
			   snapshot, snapshot_compressed, compression_algo,
			   user_id, created_at
		FROM sys_audit
		WHERE document_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.txManager.GetQuerier(ctx).Query(ctx, sql, documentID)
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()

	var entries []audit.Entry
	for rows.Next() {
		var e audit.Entry
		var compressed []byte
		var algo CompressionAlgo

		err := rows.Scan(
			&e.ID, &e.DocumentID, &e.DocumentType, &e.Action,
			&e.PreviousStatus, &e.NewStatus,
			&e.Snapshot, &compressed, &algo,
			&e.UserID, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}

		if algo == CompressionZstd && len(compressed) > 0 {
			decompressed, err := r.decoder.DecodeAll(compressed, nil)
			if err != nil {
				return nil, fmt.Errorf("decompress snapshot: %w", err)
			}
			e.Snapshot = decompressed
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
}
