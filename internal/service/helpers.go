package service

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"isvaryam.com/storefront/pkg/global"
)

// runner executes fire-and-forget work such as receipts and events.
type runner func(fn func(ctx context.Context))

// detached runs fn in its own goroutine with a context that outlives the request.
func detached(fn func(ctx context.Context)) {
	go func() {
		ctx, cancel := global.GetBackgroundTimer()
		defer cancel()
		fn(ctx)
	}()
}

func parseID(hex, message string) (bson.ObjectID, error) {
	id, err := bson.ObjectIDFromHex(strings.TrimSpace(hex))
	if err != nil {
		return bson.NilObjectID, global.BadRequest(message)
	}
	return id, nil
}

// ParseDateBound accepts RFC3339 or a bare date. A bare "to" date covers the whole day.
func ParseDateBound(value string, endOfDay bool) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, global.BadRequest("Invalid date: " + value).WithField("date", "invalid_date")
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
