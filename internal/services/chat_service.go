package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/samber/lo"
	"tripmap/internal/models/db_models"
	"tripmap/internal/models/request_models"
	"tripmap/internal/models/response_models"
	"tripmap/internal/repositories"
	"tripmap/pkg/utils"
)

const (
	itineraryToolName = "create_itinerary"
	maxHistoryTurns   = 20
	chatTimeout       = 45 * time.Second
	malformedNotice   = "The itinerary could not be read, here is the raw reply:\n"
	interactionsLimit = 50
)

const systemPrompt = `You are a travel planning assistant, focused on trips in Taiwan.
Chat naturally with the traveller. Reply in the language the traveller writes in.
When the traveller asks for a trip plan, or has given enough detail for one, call the create_itinerary tool instead of writing the plan as text.
Rules for itineraries:
- "city" is the main destination city.
- If the number of days is not given, plan 2 to 3 days.
- Each item "time" is one of morning, noon, afternoon, evening, night.
- Each item "category" is one of sight, food, shopping, activity.
- Item names are short, real place or restaurant names that can be found on a map.
- "note" is one or two sentences on why to go and how long to stay.
- Use "startDate" (YYYY-MM-DD) only when the traveller gives a date.`

type ChatServiceInterface interface {
	Chat(ctx context.Context, req request_models.ChatRequest) (*response_models.ChatResponse, error)
	Interactions(ctx context.Context, sessionID string) ([]db_models.ChatInteraction, error)
}

type ChatService struct {
	client       utils.ChatClientInterface
	interactions repositories.ChatInteractionRepository
	sessions     MapSessionServiceInterface
}

func NewChatService(
	client utils.ChatClientInterface,
	interactions repositories.ChatInteractionRepository,
	sessions MapSessionServiceInterface,
) ChatServiceInterface {
	return &ChatService{
		client:       client,
		interactions: interactions,
		sessions:     sessions,
	}
}

func (s *ChatService) Chat(ctx context.Context, req request_models.ChatRequest) (*response_models.ChatResponse, error) {
	turns := historyTurns(req)
	if len(turns) == 0 || turns[len(turns)-1].Role != request_models.ChatRoleUser {
		return nil, fmt.Errorf("conversation must end with a user message: %w", utils.ErrInvalidInput)
	}

	ctx, cancel := context.WithTimeout(ctx, chatTimeout)
	defer cancel()

	started := time.Now()
	completion, err := s.client.Complete(ctx, systemPrompt, turns, itineraryTool)
	interaction := &db_models.ChatInteraction{
		SessionID: req.SessionID,
		Provider:  s.client.Provider(),
		Model:     s.client.Model(),
		Prompt:    turns[len(turns)-1].Content,
		LatencyMs: time.Since(started).Milliseconds(),
	}
	if err != nil {
		log.Printf("chat: %s completion failed: %v", s.client.Provider(), err)
		interaction.Failed = true
		s.record(ctx, interaction)
		return nil, fmt.Errorf("%w: %v", utils.ErrUnexpectedBehaviorOfAI, err)
	}

	resp, err := interpretCompletion(completion)
	if err != nil {
		interaction.Failed = true
		s.record(ctx, interaction)
		return nil, err
	}

	interaction.Response = resp.Content
	if resp.Plan != nil {
		interaction.HasPlan = true
		interaction.PlanCity = resp.Plan.City
	}
	s.record(ctx, interaction)

	if resp.Plan != nil && req.SessionID != "" {
		if _, err := s.sessions.SetPlan(ctx, req.SessionID, resp.Plan); err != nil {
			log.Printf("chat: could not push plan to session %s: %v", req.SessionID, err)
		}
	}
	return resp, nil
}

// Interactions lists the recorded turns of a map session, newest first.
func (s *ChatService) Interactions(ctx context.Context, sessionID string) ([]db_models.ChatInteraction, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, fmt.Errorf("session id is required: %w", utils.ErrInvalidInput)
	}
	interactions, err := s.interactions.ListBySession(ctx, sessionID, interactionsLimit)
	if err != nil {
		return nil, err
	}
	if interactions == nil {
		interactions = []db_models.ChatInteraction{}
	}
	return interactions, nil
}

func (s *ChatService) record(ctx context.Context, interaction *db_models.ChatInteraction) {
	if err := s.interactions.Insert(context.WithoutCancel(ctx), interaction); err != nil {
		log.Printf("chat: recording interaction failed: %v", err)
	}
}

// historyTurns keeps the last user/assistant turns with content. The legacy
// single message body is used only when no history is sent.
func historyTurns(req request_models.ChatRequest) []utils.ChatTurn {
	messages := req.Messages
	if len(messages) == 0 && strings.TrimSpace(req.Message) != "" {
		messages = []request_models.ChatMessage{{Role: request_models.ChatRoleUser, Content: req.Message}}
	}

	kept := lo.Filter(messages, func(m request_models.ChatMessage, _ int) bool {
		return (m.Role == request_models.ChatRoleUser || m.Role == request_models.ChatRoleAssistant) &&
			strings.TrimSpace(m.Content) != ""
	})
	if len(kept) > maxHistoryTurns {
		kept = kept[len(kept)-maxHistoryTurns:]
	}
	return lo.Map(kept, func(m request_models.ChatMessage, _ int) utils.ChatTurn {
		return utils.ChatTurn{Role: m.Role, Content: strings.TrimSpace(m.Content)}
	})
}

// interpretCompletion turns the model output into a chat reply. A plan that
// cannot be parsed is handed back as text, never as an error.
func interpretCompletion(c *utils.ChatCompletion) (*response_models.ChatResponse, error) {
	raw := ""
	if c.CalledTool() {
		raw = c.ToolArguments
	} else if obj := utils.ExtractJSONObject(c.Text); obj != "" && strings.Contains(obj, `"days"`) {
		raw = obj
	}

	if raw == "" {
		if c.Text == "" {
			return nil, fmt.Errorf("empty reply: %w", utils.ErrUnexpectedBehaviorOfAI)
		}
		return &response_models.ChatResponse{Content: c.Text}, nil
	}

	plan, err := parsePlan(raw)
	if err != nil {
		log.Printf("chat: itinerary rejected: %v", err)
		return &response_models.ChatResponse{Content: malformedNotice + raw}, nil
	}

	content := plan.Summary
	if content == "" {
		content = fmt.Sprintf("Planned a %s itinerary, see the list below.", plan.City)
	}
	return &response_models.ChatResponse{Content: content, Plan: plan}, nil
}

func parsePlan(raw string) (*response_models.Plan, error) {
	var plan response_models.Plan
	if err := json.Unmarshal([]byte(raw), &plan); err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}
	plan.Normalize()
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return &plan, nil
}

var itineraryTool = utils.ToolSpec{
	Name:        itineraryToolName,
	Description: "Create a day by day travel itinerary that will be shown as a list and on a map.",
	Parameters: utils.SchemaNode{
		Type:     utils.SchemaObject,
		Required: []string{"summary", "city", "days"},
		Properties: map[string]utils.SchemaNode{
			"summary":   {Type: utils.SchemaString, Description: "One line overview of the trip."},
			"city":      {Type: utils.SchemaString, Description: "Main destination city."},
			"startDate": {Type: utils.SchemaString, Description: "First day of the trip, YYYY-MM-DD, only if known."},
			"days": {
				Type: utils.SchemaArray,
				Items: &utils.SchemaNode{
					Type:     utils.SchemaObject,
					Required: []string{"day", "items"},
					Properties: map[string]utils.SchemaNode{
						"day":   {Type: utils.SchemaInteger, Description: "Day number starting at 1."},
						"title": {Type: utils.SchemaString, Description: "Theme of the day."},
						"items": {
							Type: utils.SchemaArray,
							Items: &utils.SchemaNode{
								Type:     utils.SchemaObject,
								Required: []string{"time", "name", "category"},
								Properties: map[string]utils.SchemaNode{
									"time":     {Type: utils.SchemaString, Enum: response_models.TimeSlots},
									"name":     {Type: utils.SchemaString, Description: "Short place name that can be searched on a map."},
									"category": {Type: utils.SchemaString, Enum: response_models.Categories},
									"note":     {Type: utils.SchemaString},
								},
							},
						},
					},
				},
			},
		},
	},
}
