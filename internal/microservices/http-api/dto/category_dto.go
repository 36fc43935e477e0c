package dto

import "yamdb/internal/microservices/http-api/models"

// CreateCategoryDTO for POST /categories
type CreateCategoryDTO struct {
	Name string `json:"name" binding:"required,max=256"`
	Slug string `json:"slug" binding:"required,max=50,slug"`
}

// SlugFilter binds the list query shared by categories and genres.
type SlugFilter struct {
	PageQuery
	Search string `form:"search"`
}

type CategoryResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func CategoryFromModel(c models.Category) CategoryResponse {
	return CategoryResponse{Name: c.Name, Slug: c.Slug}
}
