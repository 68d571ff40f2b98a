package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"printshop/internal/core"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"github.com/openai/openai-go/shared/constant"
)

// AgentService drafts print jobs from free-text order descriptions.
type AgentService interface {
	InterpretOrder(ctx context.Context, naturalLanguage string, knownCustomers string) (*core.IntakeResponse, error)
}

type Agent struct {
	client *openai.Client
}

func NewAgent(apiKey string) *Agent {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Agent{client: &client}
}

// InterpretOrder turns a natural-language order description into a
// structured job intake, or a clarification request when pages or the
// customer cannot be determined. knownCustomers is a plain-text list of
// existing customer accounts the model should match names against.
func (a *Agent) InterpretOrder(ctx context.Context, naturalLanguage string, knownCustomers string) (*core.IntakeResponse, error) {
	prompt := fmt.Sprintf(`You are the order intake assistant of a print shop.
Your goal is to read an order described in natural language and draft a print job from it.
Rules:
1. Prefer customer names from the known customers list below; copy the name exactly as listed.
2. page_count must be a positive integer. If the description gives no page count, ask for clarification.
3. cost_per_page must be an exact decimal string (e.g. "0.25"). Use the price quoted in the description; if none is quoted, ask for clarification.
4. Provide a confidence score (0.0-1.0).
5. If anything essential is missing or ambiguous, return a clarification request instead of guessing.

Known customers:
%s

Order: %s`, knownCustomers, naturalLanguage)

	// Dynamically generate the JSON schema from the Go struct
	schemaStruct := generateSchema()
	schemaJSON, err := json.Marshal(schemaStruct)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	var schemaMap map[string]any
	if err := json.Unmarshal(schemaJSON, &schemaMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema to map: %w", err)
	}

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(shared.ChatModelGPT4o),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: param.NewOpt(prompt),
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Type:        constant.JSONSchema("json_schema"),
					Name:        "print_job_intake",
					Strict:      param.NewOpt(true),
					Schema:      schemaMap,
					Description: param.NewOpt("A drafted print job or a clarification request"),
				},
			},
		},
	}

	resp, err := a.client.Responses.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai responses error: %w", err)
	}

	content := resp.OutputText()
	if content == "" {
		return nil, fmt.Errorf("empty response content")
	}

	var response core.IntakeResponse
	if err := json.Unmarshal([]byte(content), &response); err != nil {
		return nil, fmt.Errorf("failed to parse completion: %w", err)
	}

	if response.IsClarificationRequest {
		if response.Clarification == nil {
			return nil, fmt.Errorf("clarification flagged but no message returned")
		}
		return &response, nil
	}

	if response.Intake == nil {
		return nil, fmt.Errorf("no intake returned")
	}
	response.Intake.Normalize()
	if err := response.Intake.Validate(); err != nil {
		return nil, fmt.Errorf("intake validation failed: %w", err)
	}

	return &response, nil
}

func generateSchema() interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v core.IntakeResponse
	return reflector.Reflect(v)
}
