package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"moodmap-backend/models"
)

// PostTTL is the fixed lifetime of every pin. Not configurable per post.
const PostTTL = 24 * time.Hour

// ErrInvalidPost is the single admission error for every validation
// failure. The message deliberately enumerates all requirements rather
// than naming the failing field.
var ErrInvalidPost = errors.New("Valid text, type (PEAK/PIT/BUFFALO), lat, and lng are required")

// ErrBlockedContent is returned when moderation enforcement is on and the
// text matches a blocked term.
var ErrBlockedContent = errors.New("Text contains content that is not allowed")

// PostLifecycle governs the write path: it validates submissions, stamps
// the expiry, and performs the single insert. Moderation is an optional
// pre-admission check controlled by deployment config.
type PostLifecycle struct {
	store   PostStore
	filter  *ModerationFilter
	enforce bool
}

func NewPostLifecycle(store PostStore, filter *ModerationFilter, enforceModeration bool) *PostLifecycle {
	return &PostLifecycle{
		store:   store,
		filter:  filter,
		enforce: enforceModeration,
	}
}

// Admit validates a submission and persists it with expiry now + 24h.
// Validation is all-or-nothing: text must trim to non-empty, type must be
// exactly PEAK, PIT, or BUFFALO, and lat/lng must both be present. Lat/lng
// ranges are not checked here; the read path narrows out-of-range
// coordinates instead. On failure nothing is written.
func (l *PostLifecycle) Admit(ctx context.Context, req *models.CreatePostRequest, now time.Time) (*models.Post, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" || !models.ValidType(req.Type) || req.Lat == nil || req.Lng == nil {
		return nil, ErrInvalidPost
	}

	if l.enforce && l.filter != nil && l.filter.IsBlocked(text) {
		return nil, ErrBlockedContent
	}

	post := &models.Post{
		Text:      text,
		Type:      models.PostType(req.Type),
		Lat:       *req.Lat,
		Lng:       *req.Lng,
		CreatedAt: now,
		ExpiresAt: now.Add(PostTTL),
	}

	if err := l.store.Insert(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}
