package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RecordMeta captures identifiers and audit fields shared across entities.
type RecordMeta struct {
	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"updated_at"`
	DeletedAt time.Time `bun:",soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// EnsureID assigns a UUID when the struct is about to be persisted.
func (m *RecordMeta) EnsureID() {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
}

// User is a reader or author account.
type User struct {
	bun.BaseModel `bun:"table:users"`
	RecordMeta

	Username     string `bun:",unique,nullzero,notnull" json:"username"`
	Email        string `bun:",unique,nullzero,notnull" json:"email"`
	Phone        string `bun:",nullzero" json:"phone,omitempty"`
	PasswordHash string `bun:",nullzero,notnull" json:"-"`
	Role         string `bun:",nullzero,notnull" json:"role"`
}

// Novel is a work owned by an author.
type Novel struct {
	bun.BaseModel `bun:"table:novels"`
	RecordMeta

	AuthorID    uuid.UUID `bun:"type:uuid,nullzero,notnull" json:"author_id"`
	Title       string    `bun:",nullzero,notnull" json:"title"`
	Description string    `bun:",nullzero" json:"description"`
	CoverURL    string    `bun:",nullzero" json:"cover_url"`
	Status      string    `bun:",nullzero,notnull" json:"status"`
	WordCount   int       `bun:",notnull,default:0" json:"word_count"`
}

// Chapter belongs to a novel and carries the readable content.
type Chapter struct {
	bun.BaseModel `bun:"table:chapters"`
	RecordMeta

	NovelID    uuid.UUID `bun:"type:uuid,nullzero,notnull" json:"novel_id"`
	ChapterNum int       `bun:",notnull" json:"chapter_num"`
	Title      string    `bun:",nullzero,notnull" json:"title"`
	Content    string    `bun:",nullzero" json:"content,omitempty"`
	WordCount  int       `bun:",notnull,default:0" json:"word_count"`
}

// Comment is a top-level comment on a novel or a reply to one.
type Comment struct {
	bun.BaseModel `bun:"table:comments"`
	RecordMeta

	NovelID  uuid.UUID  `bun:"type:uuid,nullzero,notnull" json:"novel_id"`
	UserID   uuid.UUID  `bun:"type:uuid,nullzero,notnull" json:"user_id"`
	Content  string     `bun:",nullzero,notnull" json:"content"`
	ParentID *uuid.UUID `bun:"type:uuid,nullzero" json:"parent_id"`
}

// Favorite links a user to a novel they bookmarked.
type Favorite struct {
	bun.BaseModel `bun:"table:favorites"`
	RecordMeta

	UserID  uuid.UUID `bun:"type:uuid,nullzero,notnull,unique:favorite_pair" json:"user_id"`
	NovelID uuid.UUID `bun:"type:uuid,nullzero,notnull,unique:favorite_pair" json:"novel_id"`
}

// ReadingRecord tracks a user's progress through one chapter.
type ReadingRecord struct {
	bun.BaseModel `bun:"table:reading_records"`
	RecordMeta

	UserID    uuid.UUID `bun:"type:uuid,nullzero,notnull" json:"user_id"`
	ChapterID uuid.UUID `bun:"type:uuid,nullzero,notnull" json:"chapter_id"`
	NovelID   uuid.UUID `bun:"type:uuid,nullzero,notnull" json:"novel_id"`
	Progress  int       `bun:",notnull,default:0" json:"progress"`
	Duration  int       `bun:",notnull,default:0" json:"duration"`
	LastRead  time.Time `bun:",nullzero,notnull" json:"last_read"`
}

// Roles.
const (
	RoleReader = "reader"
	RoleAuthor = "author"
)

// Novel statuses.
const (
	NovelStatusDraft     = "draft"
	NovelStatusReview    = "review"
	NovelStatusPublished = "published"
)

// ValidNovelStatus reports whether status is one of the known novel states.
func ValidNovelStatus(status string) bool {
	switch status {
	case NovelStatusDraft, NovelStatusReview, NovelStatusPublished:
		return true
	}
	return false
}

// ValidRole reports whether role is a known account role.
func ValidRole(role string) bool {
	return role == RoleReader || role == RoleAuthor
}

// Models lists every persisted entity in creation order.
func Models() []any {
	return []any{
		(*User)(nil),
		(*Novel)(nil),
		(*Chapter)(nil),
		(*Comment)(nil),
		(*Favorite)(nil),
		(*ReadingRecord)(nil),
	}
}
