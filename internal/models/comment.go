package models

import "time"

// Comment представляет комментарий посетителя к экземпляру
type Comment struct {
	ID         string    `json:"id"`
	PieceID    string    `json:"pieceId"`
	AuthorName string    `json:"authorName"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"createdAt"`
}
