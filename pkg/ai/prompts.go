package ai

import (
	"encoding/json"
	"fmt"
)

const (
	SalesReportSystemPrompt = `You are a business analyst for Isvaryam, an online store selling cold-pressed oils, ghee and traditional foods.
Generate concise, actionable insights from daily revenue and best-seller data. Focus on:
- Revenue trend and order volume
- Which products carry the business
- Specific recommendations for stock and promotions
Keep responses to 3-4 paragraphs maximum.`

	FeedbackReportSystemPrompt = `You are a customer experience analyst for an online food store.
Analyze per-product average ratings and review counts and report on:
- Products customers love and why that matters commercially
- Products with weak or thin feedback that need attention
- Concrete follow-ups for the product and support teams
Write in a plain, data-driven tone.`
)

func formatSalesPrompt(data SalesData) string {
	jsonData, _ := json.MarshalIndent(data, "", "  ")
	return fmt.Sprintf(`Analyze the following sales data. "revenue" is per day over paid orders, "topProducts" is by units sold:

%s

Please provide:
1. Key performance highlights and trends
2. Areas of concern or opportunity
3. Specific recommendations for growth
4. Actionable next steps for the store owner`, string(jsonData))
}

func formatFeedbackPrompt(data FeedbackData) string {
	jsonData, _ := json.MarshalIndent(data, "", "  ")
	return fmt.Sprintf(`Analyze the following product rating data (avgRating is out of 5):

%s

Please provide:
1. Best and worst rated products
2. Products with too few reviews to judge
3. Recommendations to improve ratings`, string(jsonData))
}
