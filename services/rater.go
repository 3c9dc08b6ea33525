package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"deal-finder/config"
	"deal-finder/models"
	"deal-finder/utils"
)

const (
	analysisMaxTokens = 600

	labelFitScore       = "FIT_SCORE:"
	labelTier           = "TIER:"
	labelRecommendation = "RECOMMENDATION:"
	labelCriteriaTags   = "CRITERIA_TAGS:"
	labelKeyDetails     = "KEY_DETAILS:"
	labelNextStep       = "NEXT_STEP:"

	fallbackTier = 2
)

// ErrNoAnalysis is returned when a response carries none of the expected labels.
var ErrNoAnalysis = errors.New("response contained no analysis fields")

// FallbackAnnotation is applied when the rater fails for a listing.
func FallbackAnnotation() models.Annotation {
	return models.Annotation{
		FitScore:       "?",
		Tier:           fallbackTier,
		Recommendation: "Investigate - analysis failed",
	}
}

// Rater produces a qualitative annotation for one listing.
type Rater interface {
	Rate(ctx context.Context, l *models.Listing) (models.Annotation, error)
}

// TextCompleter sends a prompt to a language model and returns its reply.
type TextCompleter interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// AnthropicCompleter calls the Anthropic Messages API.
type AnthropicCompleter struct {
	client anthropic.Client
	model  string
}

// NewAnthropicCompleter creates a completer for the given key and model.
func NewAnthropicCompleter(apiKey, model string) *AnthropicCompleter {
	return &AnthropicCompleter{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

// Complete sends prompt as a single user message and joins the text blocks
// of the reply.
func (a *AnthropicCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: analysisMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic: create message: %w", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}

// LLMRater asks a language model for the six-line analysis and parses it.
type LLMRater struct {
	completer TextCompleter
	criteria  config.Criteria
}

// NewLLMRater creates a rater that prompts with the buyer's criteria.
func NewLLMRater(completer TextCompleter, criteria config.Criteria) *LLMRater {
	return &LLMRater{completer: completer, criteria: criteria}
}

// Rate implements Rater.
func (r *LLMRater) Rate(ctx context.Context, l *models.Listing) (models.Annotation, error) {
	reply, err := r.completer.Complete(ctx, BuildPrompt(r.criteria, l))
	if err != nil {
		return models.Annotation{}, err
	}
	return ParseAnalysis(reply)
}

// BuildPrompt renders the analysis request for one listing.
func BuildPrompt(c config.Criteria, l *models.Listing) string {
	return fmt.Sprintf(`Analyze this healthcare business listing for acquisition. Provide a structured analysis.

LISTING:
- Title: %s
- Source: %s
- Asking Price: %s
- Revenue: %s
- Cash Flow / SDE: %s
- EBITDA: %s
- Location: %s
- Description: %s
- URL: %s

BUYER CRITERIA:
- Healthcare services (behavioral health, mental health, psychiatry, therapy, home health, allied health)
- Asking Price: %s - %s
- Need to see financial metrics (cash flow, SDE, EBITDA) but no strict threshold - just need them to exist
- Locations preferred: %s
- Priorities: Semi-absentee or manager in place, stable operations, SBA-financeable
- Interested in: multi-provider practices, insurance-paneled, therapy + prescribing combos

Respond in this EXACT format (each field on its own line):

FIT_SCORE: [A+/A/B+/B/B-/C+/C/C-]
TIER: [1 if strong match, 2 if worth watching, 3 if marginal]
RECOMMENDATION: [Pursue/Investigate/Skip] - [one sentence reason]
CRITERIA_TAGS: [comma-separated list of tags, each prefixed with +, -, or ? to indicate meets/fails/unknown. Example: +CA, +Multi-provider, -Too expensive, ?EBITDA unknown]
KEY_DETAILS: [2-4 sentences about red flags, opportunities, and strategic notes]
NEXT_STEP: [specific action to take, e.g., "Sign NDA to see CIM" or "Request financials"]`,
		l.Title,
		l.Source,
		orDefault(l.AskingPrice, "Not listed"),
		orDefault(l.Revenue, "Not listed"),
		orDefault(l.CashFlow, "Not listed"),
		orDefault(l.EBITDA, "Not listed"),
		orDefault(l.Location, "Not listed"),
		orDefault(l.Description, "Not available"),
		l.URL,
		FormatDollars(c.MinPrice),
		FormatDollars(c.MaxPrice),
		strings.Join(c.Locations, ", "),
	)
}

// ParseAnalysis reads the labelled reply line by line. Missing fields keep
// their zero values and an unreadable tier becomes 2; a reply with no
// recognised label at all is an error.
func ParseAnalysis(reply string) (models.Annotation, error) {
	var a models.Annotation
	found := false

	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, labelFitScore):
			a.FitScore = valueAfter(line, labelFitScore)
		case strings.HasPrefix(line, labelTier):
			a.Tier = parseTier(valueAfter(line, labelTier))
		case strings.HasPrefix(line, labelRecommendation):
			a.Recommendation = valueAfter(line, labelRecommendation)
		case strings.HasPrefix(line, labelCriteriaTags):
			a.Tags = parseTags(valueAfter(line, labelCriteriaTags))
		case strings.HasPrefix(line, labelKeyDetails):
			a.KeyDetails = valueAfter(line, labelKeyDetails)
		case strings.HasPrefix(line, labelNextStep):
			a.NextStep = valueAfter(line, labelNextStep)
		default:
			continue
		}
		found = true
	}

	if !found {
		return models.Annotation{}, ErrNoAnalysis
	}
	return a, nil
}

func valueAfter(line, label string) string {
	return strings.TrimSpace(strings.TrimPrefix(line, label))
}

func parseTier(v string) int {
	if v == "" || v[0] < '0' || v[0] > '9' {
		return fallbackTier
	}
	return int(v[0] - '0')
}

func parseTags(v string) []models.Tag {
	var tags []models.Tag
	for _, raw := range strings.Split(v, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		status := models.TagUnknown
		switch raw[0] {
		case '+':
			status, raw = models.TagMeets, raw[1:]
		case '-':
			status, raw = models.TagFails, raw[1:]
		case '?':
			raw = raw[1:]
		}
		tags = append(tags, models.Tag{Label: strings.TrimSpace(raw), Status: status})
	}
	return tags
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// FormatDollars renders 1500000 as "$1,500,000".
func FormatDollars(n int64) string {
	s := fmt.Sprintf("%d", n)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	var out []byte
	for i := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	if neg {
		return "-$" + string(out)
	}
	return "$" + string(out)
}

// Analyzer runs the rater over every listing, one at a time.
type Analyzer struct {
	rater  Rater
	pacer  *utils.Pacer
	logger *utils.Logger
}

// NewAnalyzer creates an Analyzer. A nil rater disables analysis.
func NewAnalyzer(rater Rater, pacer *utils.Pacer, logger *utils.Logger) *Analyzer {
	return &Analyzer{rater: rater, pacer: pacer, logger: logger}
}

// AnalyzeAll annotates listings in place. A failure on one listing applies
// the fallback annotation and moves on.
func (a *Analyzer) AnalyzeAll(ctx context.Context, listings []*models.Listing) {
	if a.rater == nil {
		a.logger.Info("[analyzer] Analysis disabled — listings stay unscored")
		return
	}

	a.logger.Info("[analyzer] Analyzing %d listings", len(listings))
	for i, l := range listings {
		a.logger.Info("[analyzer] [%d/%d] %s", i+1, len(listings), utils.Clip(l.Title, 50))

		ann, err := a.rater.Rate(ctx, l)
		if err != nil {
			a.logger.Warn("[analyzer] Analysis failed for %s: %v", l.URL, err)
			ann = FallbackAnnotation()
		}
		l.Apply(ann)

		if a.pacer != nil && i < len(listings)-1 {
			a.pacer.Wait()
		}
	}
	a.logger.Info("[analyzer] Analysis complete")
}
