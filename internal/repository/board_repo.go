package repository

import (
	"context"

	"assist_backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type BoardRepository struct {
	db *pgxpool.Pool
}

func NewBoardRepository(db *pgxpool.Pool) *BoardRepository {
	return &BoardRepository{db: db}
}

func (r *BoardRepository) Create(ctx context.Context, b *domain.Board) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO boards (user_id, name) VALUES ($1, $2) RETURNING id, created_at`,
		b.UserID, b.Name,
	).Scan(&b.ID, &b.CreatedAt)
}

func (r *BoardRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Board, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, name, created_at FROM boards WHERE user_id = $1 ORDER BY id ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make([]*domain.Board, 0)
	for rows.Next() {
		var b domain.Board
		if err := rows.Scan(&b.ID, &b.UserID, &b.Name, &b.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, &b)
	}
	return res, rows.Err()
}
