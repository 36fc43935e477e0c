package models

const IdxTitlesNameCategory = "idx_titles_name_category"

type Title struct {
	ID          int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string `json:"name" gorm:"size:256;not null;uniqueIndex:idx_titles_name_category,priority:1"`
	Year        int    `json:"year" gorm:"not null;index"`
	Description string `json:"description" gorm:"type:text;not null;default:''"`
	CategoryID  *int64 `json:"-" gorm:"uniqueIndex:idx_titles_name_category,priority:2"`

	// mean review score, only populated by queries that select it
	Rating *float64 `json:"rating" gorm:"->;-:migration"`

	// associations
	Category *Category `json:"category" gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Genres   []Genre   `json:"genre" gorm:"many2many:genre_titles;constraint:OnDelete:CASCADE;"`
}

func (Title) TableName() string {
	return "titles"
}
