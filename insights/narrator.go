package insights

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"salesdash/logging"
	"salesdash/models"
)

const DefaultModel = "gemini-2.5-flash-lite"

var (
	ErrNoContent  = errors.New("no content received from AI")
	ErrNoForecast = errors.New("forecast has no projection to explain")
)

// generator is the part of *genai.GenerativeModel the narrator uses.
type generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Narrator turns a computed demand forecast into a short written analysis.
type Narrator struct {
	client *genai.Client
	model  generator
	now    func() time.Time
	logger *logging.Logger
}

func NewNarrator(ctx context.Context, apiKey, modelName string, logger *logging.Logger) (*Narrator, error) {
	if modelName == "" {
		modelName = DefaultModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create AI client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SafetySettings = []*genai.SafetySetting{
		{
			Category:  genai.HarmCategoryDangerousContent,
			Threshold: genai.HarmBlockNone,
		},
		{
			Category:  genai.HarmCategoryHarassment,
			Threshold: genai.HarmBlockNone,
		},
		{
			Category:  genai.HarmCategorySexuallyExplicit,
			Threshold: genai.HarmBlockNone,
		},
		{
			Category:  genai.HarmCategoryHateSpeech,
			Threshold: genai.HarmBlockNone,
		},
	}

	return newNarrator(model, logger).withClient(client), nil
}

func newNarrator(model generator, logger *logging.Logger) *Narrator {
	return &Narrator{
		model:  model,
		now:    time.Now,
		logger: logger.WithComponent("insights"),
	}
}

func (n *Narrator) withClient(c *genai.Client) *Narrator {
	n.client = c
	return n
}

func (n *Narrator) Close() error {
	if n.client == nil {
		return nil
	}
	return n.client.Close()
}

// Explain asks the model for a summary and the factors behind a forecast.
func (n *Narrator) Explain(ctx context.Context, forecast models.ForecastResult) (*models.ForecastInsight, error) {
	if forecast.Forecast == nil {
		return nil, ErrNoForecast
	}

	resp, err := n.model.GenerateContent(ctx, genai.Text(buildPrompt(forecast, n.now())))
	if err != nil {
		n.logger.WithError(err).Error("Error from Gemini API", "itemNumber", forecast.ItemNumber)
		return nil, fmt.Errorf("generate insight: %w", err)
	}

	parsed, err := parseResponse(resp)
	if err != nil {
		n.logger.WithError(err).Warn("Could not parse Gemini response", "itemNumber", forecast.ItemNumber)
		return nil, err
	}

	return &models.ForecastInsight{
		ItemNumber:      forecast.ItemNumber,
		GeneratedAt:     n.now().UTC(),
		Forecast:        forecast,
		Summary:         parsed.Summary,
		PositiveFactors: nonNil(parsed.PositiveFactors),
		NegativeFactors: nonNil(parsed.NegativeFactors),
	}, nil
}

func buildPrompt(f models.ForecastResult, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "- Next 7 days: %.2f units\n", f.Forecast.Next7Days)
	fmt.Fprintf(&b, "- Next 30 days: %.2f units\n", f.Forecast.Next30Days)
	fmt.Fprintf(&b, "- Trend: %s (%.2f%% per day)\n", f.Forecast.Trend, f.Forecast.TrendPercentage)
	if m := f.CurrentMetrics; m != nil {
		fmt.Fprintf(&b, "- Average daily demand: %.2f, weekly: %.2f, monthly: %.2f\n",
			m.AvgDailyDemand, m.AvgWeeklyDemand, m.AvgMonthlyDemand)
	}
	if p := f.InventoryPlanning; p != nil {
		fmt.Fprintf(&b, "- Reorder point: %.0f units (safety stock %.0f, lead time demand %.0f)\n",
			p.ReorderPoint, p.SafetyStock, p.LeadTimeDemand)
	}
	if s := f.Seasonality; s != nil && len(s.DayOfWeekPattern) > 0 {
		days := make([]int, 0, len(s.DayOfWeekPattern))
		for d := range s.DayOfWeekPattern {
			days = append(days, d)
		}
		sort.Ints(days)
		for _, d := range days {
			// Monday is 0 in the pattern.
			fmt.Fprintf(&b, "- Average on %s: %.2f units\n", time.Weekday((d+1)%7), s.DayOfWeekPattern[d])
		}
	}

	jsonFormat := `{"summary":"string","positive_factors":["string",...],"negative_factors":["string",...]}`

	return fmt.Sprintf(`
        You are an expert retail data analyst. Explain the demand forecast below to a store manager in two or three sentences and list the factors behind it.

        **Analysis Context:**
        - Item Number: %s
        - Today's Date: %s

        **Forecast Figures:**
        %s
        **Required Output:**
        You must provide a single, minified JSON object with the following exact structure. Do not include any markdown formatting, backticks, or explanatory text before or after the JSON object.

        %s
    `, f.ItemNumber, now.Format(time.DateOnly), b.String(), jsonFormat)
}

type narrative struct {
	Summary         string   `json:"summary"`
	PositiveFactors []string `json:"positive_factors"`
	NegativeFactors []string `json:"negative_factors"`
}

func parseResponse(resp *genai.GenerateContentResponse) (*narrative, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, ErrNoContent
	}

	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text += string(txt)
		}
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoContent
	}

	jsonStr := extractJSON(text)
	if jsonStr == "" {
		return nil, fmt.Errorf("failed to parse AI response format")
	}

	var out narrative
	if err := json.Unmarshal([]byte(jsonStr), &out); err != nil {
		return nil, fmt.Errorf("failed to parse AI insight data: %w", err)
	}
	return &out, nil
}

func extractJSON(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return raw[start : end+1]
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
