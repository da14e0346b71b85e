package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"aijobs-utils/internal/config"
	"aijobs-utils/internal/llm/processors"
	"aijobs-utils/internal/logging"
	"aijobs-utils/internal/logging/types"
	"aijobs-utils/pkg/models"
	"aijobs-utils/pkg/utils"
)

const (
	extractionToolName     = "record_job_listing"
	classificationToolName = "assign_job_category"

	// Classification responses are a single short object.
	classifierMaxTokens = 1024
)

// ClaudeProvider implements the LLM provider interface using Anthropic's Claude
type ClaudeProvider struct {
	client anthropic.Client
	config *config.Config
	logger types.Logger
}

// NewClaudeProvider creates a new Claude provider instance
func NewClaudeProvider(cfg *config.Config) *ClaudeProvider {
	client := anthropic.NewClient(
		option.WithAPIKey(cfg.LLM.APIKey),
	)

	return &ClaudeProvider{
		client: client,
		config: cfg,
		logger: logging.GetGlobalLogger(),
	}
}

// ExtractJobRecord submits normalized listing text as a forced tool call and
// returns the sanitized record. The tool's parameter schema encodes every
// record field, so the model cannot answer with free-form prose; the schema
// is still treated as a hint, not a guarantee, and every field is re-validated
// after the call.
func (cp *ClaudeProvider) ExtractJobRecord(ctx context.Context, content *models.RawContent) (*models.ExtractedJobRecord, error) {
	startTime := time.Now()

	cp.logger.Info("Starting job record extraction with Claude", map[string]interface{}{
		"url":            content.SourceURL,
		"content_length": len(content.Text),
		"provider":       "claude",
	})

	text := content.Text
	maxContentLength := cp.config.LLM.MaxTokens * 3 // Rough estimation: 3 chars per token
	if len(text) > maxContentLength {
		text = text[:maxContentLength]
		cp.logger.Debug("Content truncated to fit token limits", map[string]interface{}{
			"url": content.SourceURL,
		})
	}

	tool := anthropic.ToolParam{
		Name:        extractionToolName,
		Description: anthropic.String("Record the structured fields of a job listing."),
		InputSchema: anthropic.ToolInputSchemaParam{
			Properties: extractionSchemaProperties(),
		},
	}

	response, err := cp.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(cp.config.LLM.Model),
		MaxTokens:   int64(cp.config.LLM.MaxTokens),
		Temperature: anthropic.Float(float64(cp.config.LLM.Temperature)),
		System: []anthropic.TextBlockParam{
			{Text: extractionSystemPrompt()},
		},
		Tools: []anthropic.ToolUnionParam{
			{OfTool: &tool},
		},
		ToolChoice: anthropic.ToolChoiceUnionParam{
			OfTool: &anthropic.ToolChoiceToolParam{Name: extractionToolName},
		},
		Messages: []anthropic.MessageParam{{
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: cp.buildExtractionPrompt(text, content.SourceURL)},
			}},
			Role: anthropic.MessageParamRoleUser,
		}},
	})

	if err != nil {
		return nil, fmt.Errorf("failed to call Claude API: %w", err)
	}

	inputJSON, ok := toolInput(response, extractionToolName)
	if !ok {
		return nil, utils.NewExtractionError("model returned no structured output")
	}

	var raw processors.RawJobPayload
	if err := json.Unmarshal(inputJSON, &raw); err != nil {
		return nil, utils.NewExtractionError(fmt.Sprintf("tool arguments did not deserialize: %v", err))
	}

	record, err := processors.SanitizeJobRecord(&raw, content.SourceURL)
	if err != nil {
		return nil, err
	}

	cp.logger.Info("Job record extraction completed", map[string]interface{}{
		"url":             content.SourceURL,
		"job_title":       record.JobTitle,
		"company":         record.CompanyName,
		"processing_time": time.Since(startTime),
		"provider":        "claude",
	})

	return record, nil
}

// ClassifyJob asks the cheaper classifier model for a category assignment.
// The raw output is returned unparsed; the classifier package owns the
// tolerant parsing because this model occasionally emits near-JSON.
func (cp *ClaudeProvider) ClassifyJob(ctx context.Context, input models.ClassificationInput) (*models.ClassificationRaw, error) {
	tool := anthropic.ToolParam{
		Name:        classificationToolName,
		Description: anthropic.String("Assign one taxonomy category to a job posting."),
		InputSchema: anthropic.ToolInputSchemaParam{
			Properties: classificationSchemaProperties(),
		},
	}

	response, err := cp.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(cp.config.LLM.ClassifierModel),
		MaxTokens:   classifierMaxTokens,
		Temperature: anthropic.Float(float64(cp.config.LLM.Temperature)),
		System: []anthropic.TextBlockParam{
			{Text: classificationSystemPrompt()},
		},
		Tools: []anthropic.ToolUnionParam{
			{OfTool: &tool},
		},
		ToolChoice: anthropic.ToolChoiceUnionParam{
			OfTool: &anthropic.ToolChoiceToolParam{Name: classificationToolName},
		},
		Messages: []anthropic.MessageParam{{
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: cp.buildClassificationPrompt(input)},
			}},
			Role: anthropic.MessageParamRoleUser,
		}},
	})

	if err != nil {
		return nil, fmt.Errorf("failed to call Claude API: %w", err)
	}

	truncated := string(response.StopReason) == "max_tokens"

	if inputJSON, ok := toolInput(response, classificationToolName); ok {
		return &models.ClassificationRaw{
			Text:      string(inputJSON),
			Truncated: truncated,
		}, nil
	}

	// No tool block; hand back whatever text came out so the tolerant
	// parser can have a go at it.
	var sb strings.Builder
	for _, block := range response.Content {
		if block.Type == "text" {
			sb.WriteString(block.AsText().Text)
		}
	}
	if sb.Len() == 0 {
		return nil, utils.NewClassificationParseError("empty response from model")
	}

	return &models.ClassificationRaw{
		Text:      sb.String(),
		Truncated: truncated,
	}, nil
}

// IsHealthy checks if the Claude provider is healthy and available
func (cp *ClaudeProvider) IsHealthy(ctx context.Context) error {
	if cp.config.LLM.APIKey == "" {
		return fmt.Errorf("Claude API key not configured - set LLM_API_KEY environment variable")
	}

	_, err := cp.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(cp.config.LLM.Model),
		MaxTokens: 16,
		Messages: []anthropic.MessageParam{{
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: "Hello"},
			}},
			Role: anthropic.MessageParamRoleUser,
		}},
	})

	if err != nil {
		return fmt.Errorf("Claude API health check failed: %w", err)
	}

	return nil
}

// GetProviderName returns the name of the LLM provider
func (cp *ClaudeProvider) GetProviderName() string {
	return "claude"
}

// toolInput finds the forced tool call's arguments in the response content
func toolInput(response *anthropic.Message, toolName string) ([]byte, bool) {
	for _, block := range response.Content {
		if block.Type != "tool_use" {
			continue
		}
		toolUse := block.AsToolUse()
		if toolUse.Name != toolName {
			continue
		}
		data, err := json.Marshal(toolUse.Input)
		if err != nil {
			return nil, false
		}
		return data, true
	}
	return nil, false
}

func (cp *ClaudeProvider) buildExtractionPrompt(content, url string) string {
	return fmt.Sprintf(`Extract the structured fields of the job listing below and record them with the %s tool.

Source URL: %s

LISTING CONTENT:
%s`, extractionToolName, url, content)
}

func (cp *ClaudeProvider) buildClassificationPrompt(input models.ClassificationInput) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Assign one taxonomy category to this job posting using the %s tool.\n\n", classificationToolName)
	fmt.Fprintf(&sb, "Title: %s\n", input.Title)
	if input.CurrentCategory != "" {
		fmt.Fprintf(&sb, "Current (legacy) category: %s\n", input.CurrentCategory)
	}
	fmt.Fprintf(&sb, "\nDescription:\n%s\n", input.Description)
	if input.Requirements != "" {
		fmt.Fprintf(&sb, "\nRequirements:\n%s\n", input.Requirements)
	}
	return sb.String()
}

func extractionSystemPrompt() string {
	return fmt.Sprintf(`You are a job listing analyzer for an AI jobs board. Record every field you can determine from the listing content.

Field semantics:
- jobTitle: the role's title, required. Leave empty ONLY if the content is not a job listing.
- address: city/state/country as written, or empty for fully remote roles.
- locationType: one of %s.
- jobTypes: any of %s that apply.
- payType: "range" when the listing quotes a min-max span, "exact" for a single figure. Omit when no compensation appears.
- payRangeMin/payRangeMax/payAmount: numbers only, no currency symbols.
- payPeriod: one of %s.
- highlightOne/Two/Three: three short selling points, each under 80 characters, plain text, no emoji.
- description / requirements: HTML fragments using only simple tags (p, ul, ol, li, strong, em, br).
- applicationMethod: "link" or "email", with applicationLink or applicationEmail filled accordingly.
- companyName / companyWebsite: as written on the listing.
- category: the best-fitting slug from: %s.
- aiFocusPercentage: 0-100, how central AI/ML work is to the role.`,
		joinLocationTypes(), joinJobTypes(), joinPayPeriods(), strings.Join(models.TaxonomyCategories, ", "))
}

func classificationSystemPrompt() string {
	return fmt.Sprintf(`You categorize job postings for an AI jobs board. Pick exactly one category slug from this closed list: %s.

Keep the rationale to a single complete sentence under 120 characters, ending with a period. Confidence is "high", "medium" or "low".`,
		strings.Join(models.TaxonomyCategories, ", "))
}

func joinLocationTypes() string {
	parts := make([]string, len(models.ValidLocationTypes))
	for i, v := range models.ValidLocationTypes {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

func joinJobTypes() string {
	parts := make([]string, len(models.ValidJobTypes))
	for i, v := range models.ValidJobTypes {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

func joinPayPeriods() string {
	parts := make([]string, len(models.ValidPayPeriods))
	for i, v := range models.ValidPayPeriods {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

// extractionSchemaProperties returns the tool parameter schema for the
// extraction call
func extractionSchemaProperties() map[string]interface{} {
	var props map[string]interface{}
	_ = json.Unmarshal([]byte(extractionSchemaJSON), &props)
	return props
}

// classificationSchemaProperties returns the tool parameter schema for the
// classification call
func classificationSchemaProperties() map[string]interface{} {
	var props map[string]interface{}
	_ = json.Unmarshal([]byte(classificationSchemaJSON), &props)
	return props
}

const extractionSchemaJSON = `{
  "jobTitle": { "type": "string", "description": "The job title" },
  "address": { "type": "string", "description": "Location as written on the listing" },
  "locationType": { "type": "string", "enum": ["in-person", "remote", "hybrid"] },
  "jobTypes": {
    "type": "array",
    "items": { "type": "string", "enum": ["full-time", "part-time", "contract", "internship"] }
  },
  "payType": { "type": "string", "enum": ["range", "exact"] },
  "payRangeMin": { "type": "number" },
  "payRangeMax": { "type": "number" },
  "payAmount": { "type": "number" },
  "payPeriod": { "type": "string", "enum": ["hour", "day", "week", "month", "year"] },
  "highlightOne": { "type": "string", "maxLength": 80 },
  "highlightTwo": { "type": "string", "maxLength": 80 },
  "highlightThree": { "type": "string", "maxLength": 80 },
  "description": { "type": "string", "description": "Job description as a simple HTML fragment" },
  "requirements": { "type": "string", "description": "Requirements as a simple HTML fragment" },
  "applicationMethod": { "type": "string", "enum": ["link", "email"] },
  "applicationLink": { "type": "string" },
  "applicationEmail": { "type": "string" },
  "companyName": { "type": "string" },
  "companyWebsite": { "type": "string" },
  "category": { "type": "string" },
  "aiFocusPercentage": { "type": "integer", "minimum": 0, "maximum": 100 }
}`

const classificationSchemaJSON = `{
  "category": {
    "type": "string",
    "description": "One slug from the closed taxonomy list"
  },
  "rationale": {
    "type": "string",
    "description": "One complete sentence under 120 characters ending with terminal punctuation"
  },
  "confidence": { "type": "string", "enum": ["high", "medium", "low"] }
}`
