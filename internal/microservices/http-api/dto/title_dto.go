package dto

import "yamdb/internal/microservices/http-api/models"

// TitleWriteDTO is the body of POST, PUT and PATCH /titles. Genres and
// category are referenced by slug. A nil Genre leaves genres untouched,
// an empty list clears them.
type TitleWriteDTO struct {
	Name        *string  `json:"name" binding:"omitempty,max=256"`
	Year        *int     `json:"year"`
	Description *string  `json:"description"`
	Genre       []string `json:"genre" binding:"omitempty,dive,max=50,slug"`
	Category    *string  `json:"category" binding:"omitempty,max=50,slug"`
}

// TitleFilter binds GET /titles query parameters.
type TitleFilter struct {
	PageQuery
	Genre    string `form:"genre"`
	Category string `form:"category"`
	Year     *int   `form:"year"`
	Name     string `form:"name"`
}

// TitleResponse is the read representation with nested category and genres.
type TitleResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Year        int               `json:"year"`
	Rating      *float64          `json:"rating"`
	Description string            `json:"description"`
	Genre       []GenreResponse   `json:"genre"`
	Category    *CategoryResponse `json:"category"`
}

// TitleWriteResponse mirrors the write payload: genres and category as slugs.
type TitleWriteResponse struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Year        int      `json:"year"`
	Description string   `json:"description"`
	Genre       []string `json:"genre"`
	Category    *string  `json:"category"`
}

func TitleFromModel(t *models.Title) TitleResponse {
	resp := TitleResponse{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Rating:      t.Rating,
		Description: t.Description,
		Genre:       make([]GenreResponse, 0, len(t.Genres)),
	}
	for _, g := range t.Genres {
		resp.Genre = append(resp.Genre, GenreFromModel(g))
	}
	if t.Category != nil {
		c := CategoryFromModel(*t.Category)
		resp.Category = &c
	}
	return resp
}

func TitleWriteFromModel(t *models.Title) TitleWriteResponse {
	resp := TitleWriteResponse{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Description: t.Description,
		Genre:       make([]string, 0, len(t.Genres)),
	}
	for _, g := range t.Genres {
		resp.Genre = append(resp.Genre, g.Slug)
	}
	if t.Category != nil {
		slug := t.Category.Slug
		resp.Category = &slug
	}
	return resp
}
