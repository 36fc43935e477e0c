package models

const IdxCategoriesSlug = "idx_categories_slug"

type Category struct {
	ID   int64  `json:"-" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"size:256;not null;index"`
	Slug string `json:"slug" gorm:"size:50;not null;uniqueIndex:idx_categories_slug"`
}

func (Category) TableName() string {
	return "categories"
}
