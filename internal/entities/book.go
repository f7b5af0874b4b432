package entities

import "time"

// Dimensions describes the physical size of a printed edition.
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Unit   string  `gorm:"size:20" json:"unit,omitempty"`
}

// Book is catalog metadata for a single ISBN. Rows are written once, on the
// first reference to an unseen ISBN, and are shared by every customer who
// favorites that title.
type Book struct {
	ISBN        string     `gorm:"primaryKey;size:20" json:"isbn"`
	Title       string     `gorm:"size:512" json:"title"`
	Subtitle    string     `gorm:"size:512" json:"subtitle,omitempty"`
	Authors     []string   `gorm:"serializer:json" json:"authors"`
	Publisher   string     `gorm:"size:256" json:"publisher,omitempty"`
	Synopsis    string     `gorm:"type:text" json:"synopsis,omitempty"`
	Dimensions  Dimensions `gorm:"embedded;embeddedPrefix:dimension_" json:"dimensions"`
	Year        int        `json:"year,omitempty"`
	Format      string     `gorm:"size:50" json:"format,omitempty"`
	PageCount   int        `json:"page_count,omitempty"`
	Subjects    []string   `gorm:"serializer:json" json:"subjects"`
	Location    string     `gorm:"size:256" json:"location,omitempty"`
	RetailPrice float64    `json:"retail_price,omitempty"`
	CoverURL    string     `gorm:"size:2048" json:"cover_url,omitempty"`
	Provider    string     `gorm:"size:50" json:"provider,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
