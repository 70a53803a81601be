package domain

import "time"

type Board struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"ownerId"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
