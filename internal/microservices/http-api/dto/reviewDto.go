package dto

import (
	"encoding/json"
	"time"

	"yamdb/internal/microservices/http-api/models"
)

// ReviewWriteDTO for POST, PUT and PATCH reviews. Score stays raw so that
// fractional and non-numeric values can be rejected with a score error
// instead of a generic decoding error.
type ReviewWriteDTO struct {
	Text  *string         `json:"text" binding:"omitempty,min=1"`
	Score json.RawMessage `json:"score"`
}

// ReviewResponse; author is the username, never the internal id.
type ReviewResponse struct {
	ID      int64     `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	Score   int       `json:"score"`
	PubDate time.Time `json:"pub_date"`
}

func ReviewFromModel(r *models.Review) ReviewResponse {
	resp := ReviewResponse{
		ID:      r.ID,
		Text:    r.Text,
		Score:   r.Score,
		PubDate: r.PubDate,
	}
	if r.Author != nil {
		resp.Author = r.Author.Username
	}
	return resp
}
