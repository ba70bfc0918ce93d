package ai

import (
	"context"
	"time"

	"isvaryam.com/storefront/pkg/models"
)

const topProductsLimit = 10

type SalesSource interface {
	RevenueTrend(ctx context.Context) ([]models.RevenuePoint, error)
	TopProducts(ctx context.Context, limit int64) ([]models.TopProduct, error)
}

type RatingSource interface {
	AverageRatings(ctx context.Context) ([]models.ProductRating, error)
}

// CompletionFunc matches (*Client).Complete.
type CompletionFunc func(ctx context.Context, systemMessage, userMessage string) (string, error)

type Report struct {
	Status      string     `json:"status"`
	Data        ReportData `json:"data"`
	GeneratedAt time.Time  `json:"generatedAt"`
	AIEnabled   bool       `json:"aiEnabled"`
}

type ReportData struct {
	RawData    any    `json:"rawData"`
	AIInsights string `json:"aiInsights,omitempty"`
	Summary    string `json:"summary"`
	Error      string `json:"error,omitempty"`
}

type SalesData struct {
	Revenue     []models.RevenuePoint `json:"revenue"`
	TopProducts []models.TopProduct   `json:"topProducts"`
}

type FeedbackData struct {
	Ratings []models.ProductRating `json:"ratings"`
}

type Reporter struct {
	sales    SalesSource
	ratings  RatingSource
	complete CompletionFunc
	now      func() time.Time
}

// NewReporter builds a reporter; a nil client disables AI insights.
func NewReporter(sales SalesSource, ratings RatingSource, client *Client) *Reporter {
	r := &Reporter{sales: sales, ratings: ratings, now: time.Now}
	if client != nil {
		r.complete = client.Complete
	}
	return r
}

func (r *Reporter) Enabled() bool {
	return r.complete != nil
}

func (r *Reporter) SalesReport(ctx context.Context) (*Report, error) {
	revenue, err := r.sales.RevenueTrend(ctx)
	if err != nil {
		return nil, err
	}
	top, err := r.sales.TopProducts(ctx, topProductsLimit)
	if err != nil {
		return nil, err
	}

	data := SalesData{Revenue: revenue, TopProducts: top}
	return r.build(ctx, data, "sales", SalesReportSystemPrompt, formatSalesPrompt(data)), nil
}

func (r *Reporter) FeedbackReport(ctx context.Context) (*Report, error) {
	ratings, err := r.ratings.AverageRatings(ctx)
	if err != nil {
		return nil, err
	}

	data := FeedbackData{Ratings: ratings}
	return r.build(ctx, data, "feedback", FeedbackReportSystemPrompt, formatFeedbackPrompt(data)), nil
}

// build attaches insights when AI is enabled. A failed completion still
// returns the raw data with the error noted.
func (r *Reporter) build(ctx context.Context, raw any, kind, systemPrompt, userPrompt string) *Report {
	report := &Report{
		Status:      "success",
		GeneratedAt: r.now(),
		AIEnabled:   r.Enabled(),
		Data: ReportData{
			RawData: raw,
			Summary: "Raw " + kind + " data (AI insights unavailable)",
		},
	}
	if !r.Enabled() {
		return report
	}

	insights, err := r.complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		report.Data.Error = "AI analysis failed: " + err.Error()
		return report
	}
	report.Data.AIInsights = insights
	report.Data.Summary = "AI-generated " + kind + " insights and recommendations"
	return report
}
