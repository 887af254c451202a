package models

import (
	"time"
)

// MediaType is the resolved kind of an uploaded media item
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// Valid reports whether t is one of the supported media types
func (t MediaType) Valid() bool {
	return t == MediaImage || t == MediaVideo
}

// MediaItem is one hosted image or video of a post; slice order is display order
type MediaItem struct {
	URL          string    `json:"url" bson:"url" firestore:"url" validate:"required,url"`
	Type         MediaType `json:"type" bson:"type" firestore:"type" validate:"required,oneof=image video"`
	PublicID     string    `json:"publicId,omitempty" bson:"publicId,omitempty" firestore:"publicId,omitempty"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty" bson:"thumbnailUrl,omitempty" firestore:"thumbnailUrl,omitempty"`
}

// Post is a blog entry. Posts are never updated, only created and deleted.
type Post struct {
	ID       string      `json:"id" bson:"-" firestore:"-"`
	Title    string      `json:"title" bson:"title" firestore:"title"`
	Desc     string      `json:"desc" bson:"desc" firestore:"desc"`
	Media    []MediaItem `json:"media" bson:"media" firestore:"media"`
	Date     time.Time   `json:"date" bson:"date" firestore:"date"`
	Category string      `json:"category,omitempty" bson:"category,omitempty" firestore:"category,omitempty"`
	Author   string      `json:"author,omitempty" bson:"author,omitempty" firestore:"author,omitempty"`
}

// NewPostRequest is the admin upload form. Media may be given as already
// hosted items (JSON body) or as files next to these fields (multipart).
type NewPostRequest struct {
	Title    string      `json:"title" form:"title" validate:"max=200"`
	Desc     string      `json:"desc" form:"desc" validate:"max=20000"`
	Category string      `json:"category,omitempty" form:"category" validate:"max=80"`
	Author   string      `json:"author,omitempty" form:"author" validate:"max=80"`
	Media    []MediaItem `json:"media,omitempty" validate:"dive"`
}

// PostSummary is the feed and admin-list representation of a post
type PostSummary struct {
	Post
	Excerpt    string      `json:"excerpt"`
	MediaCount int         `json:"mediaCount"`
	MediaTypes []MediaType `json:"mediaTypes"`
}

// PostDetail is the detail-view representation of a post
type PostDetail struct {
	Post
	Paragraphs      []string `json:"paragraphs"`
	ReadTimeMinutes int      `json:"readTimeMinutes"`
	ReadTime        string   `json:"readTime"`
	FormattedDate   string   `json:"formattedDate"`
	ShareURL        string   `json:"shareUrl"`
}

// PostResponse model for post responses
type PostResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// PostsResponse model for multiple post responses
type PostsResponse struct {
	Status  int           `json:"status"`
	Message string        `json:"message"`
	Data    []PostSummary `json:"data"`
}
