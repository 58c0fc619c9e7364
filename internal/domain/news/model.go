package news

import "time"

// Status é a máquina de estados da notícia:
// draft -> published -> archived, com published -> draft (despublicar).
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// Article é uma notícia do abrigo.
type Article struct {
	ID      string
	Title   string
	Content string
	Excerpt string

	// Slug derivado do título na criação; nunca recalculado depois.
	Slug string

	ImageURL         string
	ImageStoragePath string

	Tags     []string
	Featured bool

	Status Status
	// PublishedAt é gravado na primeira publicação e limpo ao despublicar.
	PublishedAt *time.Time

	// Views conta leituras públicas da notícia.
	Views int64

	AuthorID  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
