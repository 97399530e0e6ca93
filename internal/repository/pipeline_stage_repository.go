package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SeanZhang02/crm-api/internal/domain"
)

// pipelineStageRepository implements PipelineStageRepository
type pipelineStageRepository struct {
	pool *pgxpool.Pool
}

// NewPipelineStageRepository creates a new pipeline stage repository.
// It takes the pool directly because Reorder runs in a transaction.
func NewPipelineStageRepository(pool *pgxpool.Pool) PipelineStageRepository {
	return &pipelineStageRepository{pool: pool}
}

const stageColumns = "id, name, position, probability, color, created_at, updated_at"

func (r *pipelineStageRepository) Create(ctx context.Context, stage domain.PipelineStage) (domain.PipelineStage, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO pipeline_stages (`+stageColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+stageColumns,
		stage.ID, stage.Name, stage.Position, stage.Probability, stage.Color,
		stage.CreatedAt, stage.UpdatedAt,
	)

	created, err := scanStage(row)
	if err != nil {
		return domain.PipelineStage{}, fmt.Errorf("failed to create pipeline stage: %w", err)
	}
	return created, nil
}

func (r *pipelineStageRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.PipelineStage, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+stageColumns+` FROM pipeline_stages WHERE id = $1`, id)
	stage, err := scanStage(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.PipelineStage{}, domain.ErrNotFound
		}
		return domain.PipelineStage{}, fmt.Errorf("failed to get pipeline stage: %w", err)
	}
	return stage, nil
}

func (r *pipelineStageRepository) List(ctx context.Context) ([]domain.PipelineStage, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+stageColumns+` FROM pipeline_stages ORDER BY position ASC, created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list pipeline stages: %w", err)
	}
	defer rows.Close()

	var stages []domain.PipelineStage
	for rows.Next() {
		stage, err := scanStage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pipeline stage: %w", err)
		}
		stages = append(stages, stage)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pipeline stages: %w", err)
	}

	return stages, nil
}

func (r *pipelineStageRepository) Update(ctx context.Context, stage domain.PipelineStage) (domain.PipelineStage, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE pipeline_stages
		 SET name = $2, position = $3, probability = $4, color = $5, updated_at = $6
		 WHERE id = $1
		 RETURNING `+stageColumns,
		stage.ID, stage.Name, stage.Position, stage.Probability, stage.Color, time.Now(),
	)

	updated, err := scanStage(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.PipelineStage{}, domain.ErrNotFound
		}
		return domain.PipelineStage{}, fmt.Errorf("failed to update pipeline stage: %w", err)
	}
	return updated, nil
}

// Reorder rewrites positions to match the given order. All updates happen
// in one transaction so a partial reorder never becomes visible.
func (r *pipelineStageRepository) Reorder(ctx context.Context, orderedIDs []uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now()
	for position, id := range orderedIDs {
		tag, err := tx.Exec(ctx,
			`UPDATE pipeline_stages SET position = $2, updated_at = $3 WHERE id = $1`,
			id, position, now,
		)
		if err != nil {
			return fmt.Errorf("failed to reposition stage %s: %w", id, err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit reorder: %w", err)
	}
	return nil
}

func (r *pipelineStageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM pipeline_stages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete pipeline stage: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanStage(row pgx.Row) (domain.PipelineStage, error) {
	var s domain.PipelineStage
	if err := row.Scan(
		&s.ID, &s.Name, &s.Position, &s.Probability, &s.Color, &s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		return domain.PipelineStage{}, err
	}
	return s, nil
}
