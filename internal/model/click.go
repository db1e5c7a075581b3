package model

import "time"

// UnknownLabel подставляется вместо пустого device/referrer в агрегатах
const UnknownLabel = "unknown"

type ClickEvent struct {
	ID        int64     `json:"id"`
	URLID     int64     `json:"url_id"`
	Device    *string   `json:"device,omitempty"`
	Referrer  *string   `json:"referrer,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// VisitorMetadata - то, что известно о посетителе на момент редиректа
type VisitorMetadata struct {
	Device   *string
	Referrer *string
}

type RedirectResult struct {
	TargetURL  string
	ClickCount int64
}

type DayCount struct {
	Day   time.Time
	Count int64
}

type LabelCount struct {
	Label string
	Count int64
}
