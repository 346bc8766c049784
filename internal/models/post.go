package models

import "time"

// Post is a published recipe. The owning UserID is immutable after creation;
// only the owner may update or delete the post. Posts are hard-deleted so the
// comment cascade and image file removal leave no residue.
type Post struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	Ingredients string    `gorm:"type:text" json:"ingredients,omitempty"`
	Cuisine     string    `json:"cuisine,omitempty"`
	CookingTime int       `json:"cooking_time,omitempty"`
	ImagePath   string    `json:"image_path,omitempty"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	User        User      `gorm:"foreignKey:UserID" json:"user"`
	Comments    []Comment `gorm:"foreignKey:PostID" json:"comments,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Comment belongs to exactly one post and one author. Deleting the post
// removes its comments; deleting a comment never touches the post.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user"`
	CreatedAt time.Time `json:"created_at"`
}

// PostPage is one page of a chronological feed plus enough information for a
// client to render pagination controls.
type PostPage struct {
	Posts      []*Post `json:"posts"`
	Page       int     `json:"page"`
	PerPage    int     `json:"per_page"`
	Total      int64   `json:"total"`
	TotalPages int     `json:"total_pages"`
}

// NewPostPage assembles a PostPage, computing TotalPages from the match count.
func NewPostPage(posts []*Post, page, perPage int, total int64) *PostPage {
	if posts == nil {
		posts = []*Post{}
	}
	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	return &PostPage{
		Posts:      posts,
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}
}
