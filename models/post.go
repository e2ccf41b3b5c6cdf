package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostType is the mood tag on a pin. Exactly three values exist and
// matching is case-sensitive.
type PostType string

const (
	TypePeak    PostType = "PEAK"
	TypePit     PostType = "PIT"
	TypeBuffalo PostType = "BUFFALO"
)

// ValidType reports whether t is one of the three allowed tags.
func ValidType(t string) bool {
	switch PostType(t) {
	case TypePeak, TypePit, TypeBuffalo:
		return true
	}
	return false
}

// Post is an anonymous mood pin. Pins are immutable after creation and
// expire exactly 24h after CreatedAt.
type Post struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Text      string             `bson:"text" json:"text"`
	Type      PostType           `bson:"type" json:"type"`
	Lat       float64            `bson:"lat" json:"lat"`
	Lng       float64            `bson:"lng" json:"lng"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	ExpiresAt time.Time          `bson:"expires_at" json:"expiresAt"`
}

// CreatePostRequest is the POST /api/posts body. Lat and Lng are pointers
// so a missing field or a quoted "number" fails validation instead of
// silently becoming zero.
type CreatePostRequest struct {
	Text string   `json:"text"`
	Type string   `json:"type"`
	Lat  *float64 `json:"lat"`
	Lng  *float64 `json:"lng"`
}
