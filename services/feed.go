package services

import (
	"math"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

const (
	// DefaultRadiusKm applies when a located request omits radiusKm.
	DefaultRadiusKm = 25.0
	// MaxRadiusKm caps the search radius; anything larger is not "nearby".
	MaxRadiusKm = 100.0
	// FeedLimit caps every feed read.
	FeedLimit = 100

	// kmPerDegreeLat: one degree of latitude is ~111 km everywhere.
	kmPerDegreeLat = 111.0
)

// FeedQuery describes a feed read: a Mongo filter document plus the fixed
// newest-first ordering and result cap.
type FeedQuery struct {
	Filter bson.M
	Sort   bson.D
	Limit  int64
}

func newestFirst() bson.D {
	return bson.D{{Key: "created_at", Value: -1}}
}

// ResolveFeed maps raw feed query parameters onto a FeedQuery. A nil lat or
// lng pointer means the parameter was absent from the request, which is
// distinct from present-but-invalid:
//
//   - lat or lng absent: global feed, newest 100, no expiry filter.
//   - any of lat/lng/radiusKm invalid: global feed restricted to
//     expires_at > now.
//   - all valid: planar bounding box around (lat, lng) with
//     expires_at >= now.
//
// Malformed input never surfaces an error; reads degrade silently to the
// broader feed. The expiry comparison differs between the fallback ($gt)
// and bounding-box ($gte) branches; that mismatch is long-standing observed
// behavior and is kept as is.
func ResolveFeed(lat, lng, radiusKm *string, now time.Time) FeedQuery {
	if lat == nil || lng == nil {
		return FeedQuery{Filter: bson.M{}, Sort: newestFirst(), Limit: FeedLimit}
	}

	latV, latErr := strconv.ParseFloat(*lat, 64)
	lngV, lngErr := strconv.ParseFloat(*lng, 64)

	radius := DefaultRadiusKm
	var radiusErr error
	if radiusKm != nil {
		radius, radiusErr = strconv.ParseFloat(*radiusKm, 64)
	}

	latOK := latErr == nil && isFinite(latV) && math.Abs(latV) <= 90
	lngOK := lngErr == nil && isFinite(lngV) && math.Abs(lngV) <= 180
	radiusOK := radiusErr == nil && isFinite(radius) && radius > 0 && radius <= MaxRadiusKm

	if !latOK || !lngOK || !radiusOK {
		return FeedQuery{
			Filter: bson.M{"expires_at": bson.M{"$gt": now}},
			Sort:   newestFirst(),
			Limit:  FeedLimit,
		}
	}

	// Bounding box as a cheap proxy for a circular radius. Longitude degrees
	// shrink toward the poles, hence the cosine; near +-90 the delta blows
	// up, which the radius/latitude caps make irrelevant in practice.
	latDelta := radius / kmPerDegreeLat
	lngDelta := radius / (kmPerDegreeLat * math.Cos(latV*math.Pi/180))

	return FeedQuery{
		Filter: bson.M{
			"lat":        bson.M{"$gte": latV - latDelta, "$lte": latV + latDelta},
			"lng":        bson.M{"$gte": lngV - lngDelta, "$lte": lngV + lngDelta},
			"expires_at": bson.M{"$gte": now},
		},
		Sort:  newestFirst(),
		Limit: FeedLimit,
	}
}

func isFinite(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}
