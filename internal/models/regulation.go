package models

import (
	"time"

	"github.com/google/uuid"
)

type Regulation struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	FineRate    float64   `json:"fine_rate"`
	CreatedAt   time.Time `json:"created_at"`
}
