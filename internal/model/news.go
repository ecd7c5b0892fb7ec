package model

import "time"

// NewsArticle mirrors the 'news_articles' table. Status toggles visibility
// without deleting the row; DeletedAt removes it from all reads.
type NewsArticle struct {
	ID        uint64
	Title     string
	SubTitle  string
	AuthorID  uint64
	Sequence  int
	Status    bool
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
}

// NewsDetail mirrors the 'news_details' table; an article owns an ordered
// set of content sections.
type NewsDetail struct {
	ID        uint64
	NewsID    uint64
	Content   string
	URL       string
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
}
