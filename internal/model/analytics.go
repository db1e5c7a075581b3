package model

type AnalyticsSnapshot struct {
	TotalClicks int64          `json:"totalClicks"`
	TotalURLs   int            `json:"totalUrls"`
	TopURL      *URLBreakdown  `json:"topUrl"`
	DailyClicks []DailyClicks  `json:"dailyClicks"`
	Devices     []Distribution `json:"devices"`
	Referrers   []Distribution `json:"referrers"`
	Breakdown   []URLBreakdown `json:"breakdown"`
}

type DailyClicks struct {
	Date   string `json:"date"`
	Clicks int64  `json:"clicks"`
}

type Distribution struct {
	Name       string `json:"name"`
	Percentage int64  `json:"percentage"`
}

type URLBreakdown struct {
	ID          int64  `json:"id"`
	ShortCode   string `json:"shortCode"`
	OriginalURL string `json:"longUrl"`
	ClickCount  int64  `json:"clickCount"`
}
