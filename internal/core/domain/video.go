package domain

import "time"

// VideoOwner is the minimal owner projection embedded in watch-history
// entries: a single object, not an array.
type VideoOwner struct {
	FullName string `json:"full_name" bson:"full_name"`
	Username string `json:"username" bson:"username"`
	Avatar   Image  `json:"avatar" bson:"avatar"`
}

// Video is a read-only view over the videos collection, owned by the video
// subsystem. The account service only reads it while resolving watch history.
type Video struct {
	ID          string     `json:"id" bson:"_id,omitempty"`
	Title       string     `json:"title" bson:"title"`
	Description string     `json:"description" bson:"description"`
	VideoFile   Image      `json:"video_file" bson:"video_file"`
	Thumbnail   Image      `json:"thumbnail" bson:"thumbnail"`
	Duration    float64    `json:"duration" bson:"duration"`
	Views       int64      `json:"views" bson:"views"`
	Owner       VideoOwner `json:"owner" bson:"owner"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
}
