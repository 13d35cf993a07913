package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"market-insights-be/internal/dto"
	"market-insights-be/internal/pkg/logger"
	"market-insights-be/pkg/llm"
	"market-insights-be/pkg/persona"
	"market-insights-be/pkg/rag/search"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IPersonaService interface {
	Generate(ctx context.Context, req *dto.GeneratePersonasRequest) (*dto.GeneratePersonasResponse, error)
	List(ctx context.Context) ([]dto.PersonaProfileResponse, error)
	StartConversation(ctx context.Context, req *dto.StartConversationRequest) (*dto.StartConversationResponse, error)
	Chat(ctx context.Context, req *dto.PersonaChatRequest) (*dto.PersonaChatResponse, error)
	EndConversation(ctx context.Context, sessionID string) error
	Survey(ctx context.Context, req *dto.SurveyRequest) (*dto.SurveyResponse, error)
	FocusGroup(ctx context.Context, req *dto.FocusGroupRequest) (*dto.FocusGroupResponse, error)
}

const personaContextMinSimilarity = 0.35

// personaService drives simulated consumer interviews. Each persona answers
// in character; retrieval context grounds its opinions in the client's
// actual research.
type personaService struct {
	clientName   string
	generator    *persona.Generator
	registry     *persona.Registry
	sessions     persona.SessionRepository
	orchestrator *search.Orchestrator
	llmProvider  llm.Provider
	log          logger.ILogger
}

func NewPersonaService(
	clientName string,
	generator *persona.Generator,
	registry *persona.Registry,
	sessions persona.SessionRepository,
	orchestrator *search.Orchestrator,
	llmProvider llm.Provider,
	log logger.ILogger,
) IPersonaService {
	return &personaService{
		clientName:   clientName,
		generator:    generator,
		registry:     registry,
		sessions:     sessions,
		orchestrator: orchestrator,
		llmProvider:  llmProvider,
		log:          log,
	}
}

func (s *personaService) Generate(ctx context.Context, req *dto.GeneratePersonasRequest) (*dto.GeneratePersonasResponse, error) {
	profiles, diversity := s.generator.GenerateBatch(req.Count)

	out := make([]dto.PersonaProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		s.registry.Put(p)
		out = append(out, toProfileResponse(p))
	}

	s.log.Info("persona", "generated personas", map[string]interface{}{
		"count":           len(profiles),
		"diversity_score": diversity,
	})

	return &dto.GeneratePersonasResponse{
		Personas:       out,
		DiversityScore: diversity,
	}, nil
}

func (s *personaService) List(ctx context.Context) ([]dto.PersonaProfileResponse, error) {
	profiles := s.registry.List()
	out := make([]dto.PersonaProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, toProfileResponse(p))
	}
	return out, nil
}

func (s *personaService) StartConversation(ctx context.Context, req *dto.StartConversationRequest) (*dto.StartConversationResponse, error) {
	profile, ok := s.registry.Get(req.PersonaId)
	if !ok {
		return nil, fiber.NewError(fiber.StatusNotFound, "persona not found")
	}

	session := &persona.Session{
		ID:        uuid.NewString(),
		PersonaID: profile.ID,
		History: []llm.Message{
			{Role: "system", Content: profile.SystemPrompt(s.clientName)},
		},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	return &dto.StartConversationResponse{
		SessionId: session.ID,
		PersonaId: profile.ID,
	}, nil
}

func (s *personaService) Chat(ctx context.Context, req *dto.PersonaChatRequest) (*dto.PersonaChatResponse, error) {
	session, found, err := s.sessions.Find(ctx, req.SessionId)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fiber.NewError(fiber.StatusNotFound, "session not found or expired")
	}

	userContent := req.Message
	if grounding := s.researchContext(ctx, req.Message); grounding != "" {
		userContent = fmt.Sprintf("Background research (for your awareness only, answer as yourself):\n%s\n\nInterviewer: %s",
			grounding, req.Message)
	}

	session.History = append(session.History, llm.Message{Role: "user", Content: userContent})

	reply, err := s.llmProvider.Chat(ctx, session.History, llm.WithTemperature(0.8))
	if err != nil {
		return nil, err
	}

	session.History = append(session.History, llm.Message{Role: "assistant", Content: reply})
	session.UpdatedAt = time.Now()
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	return &dto.PersonaChatResponse{
		SessionId: session.ID,
		PersonaId: session.PersonaID,
		Reply:     reply,
		Turns:     len(session.History) / 2,
	}, nil
}

func (s *personaService) EndConversation(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}

func (s *personaService) Survey(ctx context.Context, req *dto.SurveyRequest) (*dto.SurveyResponse, error) {
	respondents := s.selectRespondents(req)
	if len(respondents) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "no personas available; generate personas first")
	}

	breakdown := dto.SurveyBreak{
		ByRegion:      make(map[string]int),
		ByServiceType: make(map[string]int),
		BySegment:     make(map[string]int),
	}

	var answers []dto.SurveyAnswer
	for _, profile := range respondents {
		breakdown.ByRegion[profile.Region]++
		breakdown.ByServiceType[profile.ServiceType]++
		breakdown.BySegment[profile.Segment]++

		for _, question := range req.Questions {
			reply, err := s.llmProvider.Chat(ctx, []llm.Message{
				{Role: "system", Content: profile.SystemPrompt(s.clientName)},
				{Role: "user", Content: question},
			}, llm.WithTemperature(0.8))
			if err != nil {
				return nil, err
			}
			answers = append(answers, dto.SurveyAnswer{
				PersonaId: profile.ID,
				Question:  question,
				Answer:    reply,
			})
		}
	}

	return &dto.SurveyResponse{
		Answers:      answers,
		Respondents:  len(respondents),
		Demographics: breakdown,
	}, nil
}

// FocusGroup runs a moderated group discussion: each round, every participant
// reacts to the topic and to what the others said so far. The transcript is
// shared as conversation context, so later speakers build on earlier ones.
func (s *personaService) FocusGroup(ctx context.Context, req *dto.FocusGroupRequest) (*dto.FocusGroupResponse, error) {
	groupSize := req.GroupSize
	if groupSize == 0 {
		groupSize = 8
	}
	participants := s.selectPersonas(req.PersonaIds, groupSize)
	if len(participants) < 2 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "a focus group needs at least two personas; generate personas first")
	}

	rounds := req.Rounds
	if rounds == 0 {
		rounds = 2
	}

	grounding := s.researchContext(ctx, req.Topic)

	var transcript []dto.FocusGroupTurn
	for round := 1; round <= rounds; round++ {
		for _, profile := range participants {
			prompt := focusGroupPrompt(req.Topic, grounding, round, profile.ID, transcript)
			reply, err := s.llmProvider.Chat(ctx, []llm.Message{
				{Role: "system", Content: profile.SystemPrompt(s.clientName)},
				{Role: "user", Content: prompt},
			}, llm.WithTemperature(0.8))
			if err != nil {
				return nil, err
			}
			transcript = append(transcript, dto.FocusGroupTurn{
				Round:     round,
				PersonaId: profile.ID,
				Message:   reply,
			})
		}
	}

	notes, err := s.moderatorNotes(ctx, req.Topic, transcript)
	if err != nil {
		return nil, err
	}

	out := make([]dto.PersonaProfileResponse, 0, len(participants))
	for _, p := range participants {
		out = append(out, toProfileResponse(p))
	}

	s.log.Info("persona", "focus group completed", map[string]interface{}{
		"topic":        req.Topic,
		"participants": len(participants),
		"rounds":       rounds,
	})

	return &dto.FocusGroupResponse{
		Topic:          req.Topic,
		Participants:   out,
		Transcript:     transcript,
		Rounds:         rounds,
		ModeratorNotes: notes,
	}, nil
}

func focusGroupPrompt(topic, grounding string, round int, personaID string, transcript []dto.FocusGroupTurn) string {
	var sb strings.Builder
	sb.WriteString("You are taking part in a focus group discussion.\n")
	sb.WriteString("Discussion topic: ")
	sb.WriteString(topic)
	sb.WriteString("\n")
	if grounding != "" {
		sb.WriteString("Background research (for your awareness only, speak as yourself):\n")
		sb.WriteString(grounding)
		sb.WriteString("\n")
	}
	if len(transcript) > 0 {
		sb.WriteString("\nWhat the group has said so far:\n")
		for _, turn := range transcript {
			speaker := turn.PersonaId
			if speaker == personaID {
				speaker = "you"
			}
			fmt.Fprintf(&sb, "[round %d] %s: %s\n", turn.Round, speaker, turn.Message)
		}
	}
	if round == 1 {
		sb.WriteString("\nModerator: please share your first reaction to the topic.")
	} else {
		sb.WriteString("\nModerator: react to what the others said and add anything new.")
	}
	return sb.String()
}

// moderatorNotes condenses the transcript into the takeaways a researcher
// would write up after the session.
func (s *personaService) moderatorNotes(ctx context.Context, topic string, transcript []dto.FocusGroupTurn) (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Topic: %s\n\nTranscript:\n", topic)
	for _, turn := range transcript {
		fmt.Fprintf(&sb, "[round %d] %s: %s\n", turn.Round, turn.PersonaId, turn.Message)
	}
	sb.WriteString("\nSummarize the key insights, points of agreement and points of disagreement.")

	return s.llmProvider.Chat(ctx, []llm.Message{
		{Role: "system", Content: "You are the moderator of a consumer focus group writing up your session notes."},
		{Role: "user", Content: sb.String()},
	}, llm.WithTemperature(0.3))
}

func (s *personaService) selectRespondents(req *dto.SurveyRequest) []persona.Profile {
	return s.selectPersonas(req.PersonaIds, req.MaxPersona)
}

// selectPersonas picks by id when ids are given, otherwise takes the registry
// in insertion order. A limit of 0 means no cap.
func (s *personaService) selectPersonas(ids []string, limit int) []persona.Profile {
	var selected []persona.Profile
	if len(ids) > 0 {
		for _, id := range ids {
			if p, ok := s.registry.Get(id); ok {
				selected = append(selected, p)
			}
		}
	} else {
		selected = s.registry.List()
	}

	if limit > 0 && len(selected) > limit {
		selected = selected[:limit]
	}
	return selected
}

// researchContext pulls a few relevant findings for the interviewer's
// question. Retrieval failures degrade to an ungrounded answer instead of
// failing the interview.
func (s *personaService) researchContext(ctx context.Context, question string) string {
	results, err := s.orchestrator.Execute(ctx, question, search.Params{
		TopK:          3,
		MinSimilarity: personaContextMinSimilarity,
	})
	if err != nil || len(results) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, r := range results {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("- ")
		sb.WriteString(r.Chunk.Content)
	}
	return sb.String()
}

func toProfileResponse(p persona.Profile) dto.PersonaProfileResponse {
	return dto.PersonaProfileResponse{
		Id:          p.ID,
		Age:         p.Age,
		Gender:      p.Gender,
		Region:      p.Region,
		ServiceType: p.ServiceType,
		Segment:     p.Segment,
		CreatedAt:   p.CreatedAt,
	}
}
