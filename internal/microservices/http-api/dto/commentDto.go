package dto

import (
	"time"

	"yamdb/internal/microservices/http-api/models"
)

// CommentWriteDTO for POST, PUT and PATCH comments
type CommentWriteDTO struct {
	Text *string `json:"text" binding:"omitempty,min=1,max=5000"`
}

type CommentResponse struct {
	ID      int64     `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	PubDate time.Time `json:"pub_date"`
}

func CommentFromModel(c *models.Comment) CommentResponse {
	resp := CommentResponse{
		ID:      c.ID,
		Text:    c.Text,
		PubDate: c.PubDate,
	}
	if c.Author != nil {
		resp.Author = c.Author.Username
	}
	return resp
}
