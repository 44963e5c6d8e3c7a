package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/klauspost/compress/zstd"

	"palletbook/internal/core/id"
	"palletbook/internal/domain/audit"
)

// CompressionAlgo specifies how a stored diff is encoded.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// DefaultCompressThreshold is the diff size above which diffs are compressed.
// Full before/after service snapshots of busy days cross it.
const DefaultCompressThreshold = 10 * 1024

// auditRow is the stored shape of audit.Entry.
type auditRow struct {
	ID              id.ID           `db:"id"`
	Timestamp       time.Time       `db:"ts"`
	UserID          string          `db:"user_id"`
	Action          string          `db:"action"`
	EntityType      string          `db:"entity_type"`
	EntityKey       string          `db:"entity_key"`
	Diff            json.RawMessage `db:"diff"`
	DiffCompressed  []byte          `db:"diff_compressed"`
	CompressionAlgo CompressionAlgo `db:"compression_algo"`
	RequestID       string          `db:"request_id"`
}

// AuditRepo appends audit entries, compressing large diffs with zstd.
type AuditRepo struct {
	txm               *TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int
}

var _ audit.Repository = (*AuditRepo)(nil)

// NewAuditRepo creates an audit repository.
func NewAuditRepo(txm *TxManager) (*AuditRepo, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return &AuditRepo{
		txm:               txm,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: DefaultCompressThreshold,
	}, nil
}

// AppendAudit inserts one entry.
func (r *AuditRepo) AppendAudit(ctx context.Context, e audit.Entry) error {
	row, err := r.encode(e)
	if err != nil {
		return err
	}

	sql, args, err := builder().
		Insert("audit_log").
		SetMap(StructToMap(row)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build audit insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func (r *AuditRepo) encode(e audit.Entry) (auditRow, error) {
	diff, err := json.Marshal(e.Diff)
	if err != nil {
		return auditRow{}, fmt.Errorf("marshal audit diff: %w", err)
	}

	row := auditRow{
		ID:              e.ID,
		Timestamp:       e.Timestamp,
		UserID:          e.UserID,
		Action:          e.Action,
		EntityType:      e.EntityType,
		EntityKey:       e.EntityKey,
		Diff:            diff,
		CompressionAlgo: CompressionNone,
		RequestID:       e.RequestID,
	}
	if len(diff) > r.compressThreshold {
		row.DiffCompressed = r.encoder.EncodeAll(diff, nil)
		row.Diff = nil
		row.CompressionAlgo = CompressionZstd
	}
	return row, nil
}

func (r *AuditRepo) decode(row auditRow) (audit.Entry, error) {
	raw := []byte(row.Diff)
	if row.CompressionAlgo == CompressionZstd && len(row.DiffCompressed) > 0 {
		decompressed, err := r.decoder.DecodeAll(row.DiffCompressed, nil)
		if err != nil {
			return audit.Entry{}, fmt.Errorf("decompress audit diff %s: %w", row.ID, err)
		}
		raw = decompressed
	}

	var diff map[string]any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &diff); err != nil {
			return audit.Entry{}, fmt.Errorf("unmarshal audit diff %s: %w", row.ID, err)
		}
	}

	return audit.Entry{
		ID:         row.ID,
		Timestamp:  row.Timestamp,
		UserID:     row.UserID,
		Action:     row.Action,
		EntityType: row.EntityType,
		EntityKey:  row.EntityKey,
		Diff:       diff,
		RequestID:  row.RequestID,
	}, nil
}

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}
