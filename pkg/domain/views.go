package domain

import (
	"time"

	"github.com/google/uuid"
)

// NovelListing is one row of the search and popular listings.
type NovelListing struct {
	NovelID       uuid.UUID `bun:"novel_id" json:"novel_id"`
	Title         string    `bun:"title" json:"title"`
	Description   string    `bun:"description" json:"description"`
	Status        string    `bun:"status" json:"status"`
	CreatedAt     time.Time `bun:"created_at" json:"created_at"`
	AuthorID      uuid.UUID `bun:"author_id" json:"author_id"`
	AuthorName    string    `bun:"author_name" json:"author_name"`
	FavoriteCount int       `bun:"favorite_count" json:"favorite_count,omitempty"`
}

// AuthorNovel decorates a novel with the counters shown on the author dashboard.
type AuthorNovel struct {
	Novel
	ChapterCount  int `json:"chapter_count"`
	FavoriteCount int `json:"favorite_count"`
	CommentCount  int `json:"comment_count"`
}

// NovelStats aggregates engagement numbers for a single novel.
type NovelStats struct {
	NovelID    uuid.UUID `json:"novel_id"`
	Title      string    `json:"title"`
	Status     string    `json:"status"`
	WordCount  int       `json:"word_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Chapters   int       `json:"chapters"`
	TotalWords int       `json:"total_words"`
	Favorites  int       `json:"favorites"`
	Comments   int       `json:"comments"`
	Readers    int       `json:"readers"`
}

// CommentThread is a comment with its author name and, for top-level
// comments, the replies in chronological order.
type CommentThread struct {
	ID        uuid.UUID       `bun:"id" json:"comment_id"`
	NovelID   uuid.UUID       `bun:"novel_id" json:"novel_id"`
	UserID    uuid.UUID       `bun:"user_id" json:"user_id"`
	ParentID  *uuid.UUID      `bun:"parent_id" json:"parent_id"`
	Content   string          `bun:"content" json:"content"`
	Username  string          `bun:"username" json:"username"`
	CreatedAt time.Time       `bun:"created_at" json:"created_at"`
	Replies   []CommentThread `bun:"-" json:"replies,omitempty"`
}

// FavoriteEntry is a favorite joined with the novel and its author.
type FavoriteEntry struct {
	FavoriteID uuid.UUID `bun:"favorite_id" json:"favorite_id"`
	NovelID    uuid.UUID `bun:"novel_id" json:"novel_id"`
	CreatedAt  time.Time `bun:"created_at" json:"created_at"`
	Title      string    `bun:"title" json:"title"`
	CoverURL   string    `bun:"cover_url" json:"cover_url"`
	Status     string    `bun:"status" json:"status"`
	AuthorName string    `bun:"author_name" json:"author_name"`
}

// ContinueEntry is the latest reading position for one novel.
type ContinueEntry struct {
	NovelID      uuid.UUID `bun:"novel_id" json:"novel_id"`
	Title        string    `bun:"title" json:"title"`
	CoverURL     string    `bun:"cover_url" json:"cover_url"`
	ChapterID    uuid.UUID `bun:"chapter_id" json:"chapter_id"`
	ChapterNum   int       `bun:"chapter_num" json:"chapter_num"`
	ChapterTitle string    `bun:"chapter_title" json:"chapter_title"`
	Progress     int       `bun:"progress" json:"progress"`
	LastRead     time.Time `bun:"last_read" json:"last_read"`
}
