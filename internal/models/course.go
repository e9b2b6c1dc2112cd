package models

import "time"

// Creator is a course author on the marketplace
type Creator struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name"`
	Bio          string    `json:"bio"`
	Avatar       string    `json:"avatar"`
	Rating       float64   `json:"rating"`
	StudentCount int       `json:"student_count"`
	Courses      []Course  `json:"courses,omitempty" gorm:"foreignKey:CreatorID"`
	CreatedAt    time.Time `json:"created_at"`
}

// Course is a purchasable learning unit authored by exactly one creator
type Course struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	CreatorID    uint      `json:"creator_id" gorm:"index;not null"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Thumbnail    string    `json:"thumbnail"`
	Category     string    `json:"category" gorm:"index"`
	Price        float64   `json:"price"`
	Rating       float64   `json:"rating"`
	StudentCount int       `json:"student_count"`
	CreatedAt    time.Time `json:"created_at"`
}
