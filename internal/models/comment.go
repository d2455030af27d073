package models

import "time"

// Comment is a root comment or a single-level reply on a post. Replies never
// nest deeper than one level: a comment whose ParentID is non-nil can not be
// a parent itself.
type Comment struct {
	ID     uint  `gorm:"primaryKey" json:"id"`
	PostID uint  `gorm:"not null;index" json:"post_id"`
	Parent *uint `gorm:"column:parent_id;index" json:"parent_id"`
	// Content is the comment body.
	Content  string `gorm:"type:text;not null" json:"content"`
	Nickname string `gorm:"not null" json:"nickname"`
	// Password is set only for anonymous authors, stored bcrypt-hashed, and
	// never serialized. It is reserved for author-only deletion, which has no
	// flow yet.
	Password  string    `json:"-"`
	IsAdmin   bool      `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

// IsRoot reports whether the comment can receive replies.
func (c *Comment) IsRoot() bool {
	return c.Parent == nil
}

// CommentThread is a root comment followed by its replies in creation order.
type CommentThread struct {
	Comment *Comment   `json:"comment"`
	Replies []*Comment `json:"replies"`
}

// BuildThreads arranges a flat created_at-ascending comment list into root
// threads. Roots keep their relative order; each reply appears under its
// exact parent in creation order. Replies whose parent is missing from the
// slice are dropped rather than misfiled.
func BuildThreads(comments []*Comment) []*CommentThread {
	threads := make([]*CommentThread, 0, len(comments))
	byRoot := make(map[uint]*CommentThread, len(comments))

	for _, c := range comments {
		if c.IsRoot() {
			t := &CommentThread{Comment: c, Replies: []*Comment{}}
			threads = append(threads, t)
			byRoot[c.ID] = t
		}
	}
	for _, c := range comments {
		if c.IsRoot() {
			continue
		}
		if t, ok := byRoot[*c.Parent]; ok {
			t.Replies = append(t.Replies, c)
		}
	}
	return threads
}
