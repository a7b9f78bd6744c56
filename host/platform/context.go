package platform

import "context"

type trackLimitKey struct{}
type trackOffsetKey struct{}

// WithTrackLimit caps how many songs GetPlaylist loads.
// A non-positive limit is ignored.
func WithTrackLimit(ctx context.Context, limit int) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if limit <= 0 {
		return ctx
	}
	return context.WithValue(ctx, trackLimitKey{}, limit)
}

// TrackLimitFromContext returns the song limit, or 0 when unset.
func TrackLimitFromContext(ctx context.Context) int {
	if ctx == nil {
		return 0
	}
	if limit, ok := ctx.Value(trackLimitKey{}).(int); ok {
		return limit
	}
	return 0
}

// WithTrackOffset makes GetPlaylist skip the first offset songs.
// A negative offset is treated as zero.
func WithTrackOffset(ctx context.Context, offset int) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if offset < 0 {
		offset = 0
	}
	return context.WithValue(ctx, trackOffsetKey{}, offset)
}

// TrackOffsetFromContext returns the song offset, or 0 when unset.
func TrackOffsetFromContext(ctx context.Context) int {
	if ctx == nil {
		return 0
	}
	if offset, ok := ctx.Value(trackOffsetKey{}).(int); ok {
		return offset
	}
	return 0
}
