package service

import (
	"context"
	"testing"

	"market-insights-be/internal/dto"
	"market-insights-be/internal/repository/memory"
	"market-insights-be/pkg/persona"
	"market-insights-be/pkg/rag/search"
	"market-insights-be/pkg/vectorstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPersonaFixture(llmFake *fakeLLM) IPersonaService {
	store := vectorstore.NewStore()
	return NewPersonaService(
		"Tigo",
		persona.NewGenerator(persona.DefaultPools(), 11),
		persona.NewRegistry(),
		memory.NewSessionRepository(),
		search.NewOrchestrator(&fakeEmbedder{}, search.NewMemoryIndex(store)),
		llmFake,
		noopLogger{},
	)
}

func TestPersonaGenerateAndList(t *testing.T) {
	svc := newPersonaFixture(&fakeLLM{})

	res, err := svc.Generate(context.Background(), &dto.GeneratePersonasRequest{Count: 5})
	require.NoError(t, err)
	assert.Len(t, res.Personas, 5)
	assert.Greater(t, res.DiversityScore, 0.0)

	listed, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, listed, 5)
}

func TestPersonaConversationKeepsHistory(t *testing.T) {
	llmFake := &fakeLLM{reply: "I mostly use prepaid top-ups."}
	svc := newPersonaFixture(llmFake)

	gen, err := svc.Generate(context.Background(), &dto.GeneratePersonasRequest{Count: 1})
	require.NoError(t, err)
	personaID := gen.Personas[0].Id

	conv, err := svc.StartConversation(context.Background(), &dto.StartConversationRequest{PersonaId: personaID})
	require.NoError(t, err)

	first, err := svc.Chat(context.Background(), &dto.PersonaChatRequest{
		SessionId: conv.SessionId,
		Message:   "How do you pay for mobile service?",
	})
	require.NoError(t, err)
	assert.Equal(t, "I mostly use prepaid top-ups.", first.Reply)
	assert.Equal(t, 1, first.Turns)

	second, err := svc.Chat(context.Background(), &dto.PersonaChatRequest{
		SessionId: conv.SessionId,
		Message:   "Why not postpaid?",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, second.Turns)

	// The second call must carry the whole exchange: system prompt plus two
	// full turns and the new question.
	assert.Len(t, llmFake.history, 4)
	assert.Equal(t, "system", llmFake.history[0].Role)

	require.NoError(t, svc.EndConversation(context.Background(), conv.SessionId))
	_, err = svc.Chat(context.Background(), &dto.PersonaChatRequest{
		SessionId: conv.SessionId,
		Message:   "still there?",
	})
	require.Error(t, err)
}

func TestPersonaChatUnknownPersona(t *testing.T) {
	svc := newPersonaFixture(&fakeLLM{})

	_, err := svc.StartConversation(context.Background(), &dto.StartConversationRequest{PersonaId: "missing"})
	require.Error(t, err)
}

func TestPersonaSurveyCollectsAnswersAndDemographics(t *testing.T) {
	llmFake := &fakeLLM{reply: "It feels fairly priced."}
	svc := newPersonaFixture(llmFake)

	_, err := svc.Generate(context.Background(), &dto.GeneratePersonasRequest{Count: 4})
	require.NoError(t, err)

	res, err := svc.Survey(context.Background(), &dto.SurveyRequest{
		Questions:  []string{"What do you think of the current pricing?"},
		MaxPersona: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Respondents)
	assert.Len(t, res.Answers, 3)

	total := 0
	for _, n := range res.Demographics.ByRegion {
		total += n
	}
	assert.Equal(t, 3, total)
}

func TestPersonaSurveyWithoutPersonas(t *testing.T) {
	svc := newPersonaFixture(&fakeLLM{})

	_, err := svc.Survey(context.Background(), &dto.SurveyRequest{Questions: []string{"q"}})
	require.Error(t, err)
}

func TestPersonaFocusGroupSharesTranscript(t *testing.T) {
	llmFake := &fakeLLM{}
	svc := newPersonaFixture(llmFake)

	gen, err := svc.Generate(context.Background(), &dto.GeneratePersonasRequest{Count: 3})
	require.NoError(t, err)

	res, err := svc.FocusGroup(context.Background(), &dto.FocusGroupRequest{
		Topic:  "A cheaper prepaid bundle with less data",
		Rounds: 2,
	})
	require.NoError(t, err)

	// Three participants, two rounds, each speaking once per round.
	assert.Len(t, res.Participants, 3)
	assert.Equal(t, 2, res.Rounds)
	require.Len(t, res.Transcript, 6)
	assert.Equal(t, 1, res.Transcript[0].Round)
	assert.Equal(t, 2, res.Transcript[5].Round)
	assert.Equal(t, gen.Personas[0].Id, res.Transcript[0].PersonaId)
	assert.NotEmpty(t, res.ModeratorNotes)

	// 6 discussion turns plus the moderator summary.
	assert.Equal(t, 7, llmFake.calls)

	// The last speaker's prompt carries what the others said before them,
	// and the moderator summary sees the whole transcript.
	require.Len(t, llmFake.userPrompts, 7)
	assert.Contains(t, llmFake.userPrompts[5], res.Transcript[0].Message)
	assert.Contains(t, llmFake.userPrompts[6], res.Transcript[5].Message)
}

func TestPersonaFocusGroupCapsGroupSize(t *testing.T) {
	svc := newPersonaFixture(&fakeLLM{})

	_, err := svc.Generate(context.Background(), &dto.GeneratePersonasRequest{Count: 10})
	require.NoError(t, err)

	res, err := svc.FocusGroup(context.Background(), &dto.FocusGroupRequest{
		Topic:     "New loyalty program",
		GroupSize: 4,
		Rounds:    1,
	})
	require.NoError(t, err)
	assert.Len(t, res.Participants, 4)
	assert.Len(t, res.Transcript, 4)
}

func TestPersonaFocusGroupNeedsTwoPersonas(t *testing.T) {
	svc := newPersonaFixture(&fakeLLM{})

	_, err := svc.Generate(context.Background(), &dto.GeneratePersonasRequest{Count: 1})
	require.NoError(t, err)

	_, err = svc.FocusGroup(context.Background(), &dto.FocusGroupRequest{Topic: "anything"})
	require.Error(t, err)
}
