package dto

import "time"

type GeneratePersonasRequest struct {
	Count int `json:"count" validate:"required,min=1,max=100"`
}

type PersonaProfileResponse struct {
	Id          string    `json:"id"`
	Age         int       `json:"age"`
	Gender      string    `json:"gender"`
	Region      string    `json:"geographic_region"`
	ServiceType string    `json:"service_type"`
	Segment     string    `json:"segment"`
	CreatedAt   time.Time `json:"created_at"`
}

type GeneratePersonasResponse struct {
	Personas       []PersonaProfileResponse `json:"personas"`
	DiversityScore float64                  `json:"diversity_score"`
}

type StartConversationRequest struct {
	PersonaId string `json:"persona_id" validate:"required"`
}

type StartConversationResponse struct {
	SessionId string `json:"session_id"`
	PersonaId string `json:"persona_id"`
}

type PersonaChatRequest struct {
	SessionId string `json:"session_id" validate:"required"`
	Message   string `json:"message" validate:"required"`
}

type PersonaChatResponse struct {
	SessionId string `json:"session_id"`
	PersonaId string `json:"persona_id"`
	Reply     string `json:"reply"`
	Turns     int    `json:"turns"`
}

// SurveyRequest asks every selected persona each question once.
type SurveyRequest struct {
	Questions  []string `json:"questions" validate:"required,min=1,max=20"`
	PersonaIds []string `json:"persona_ids,omitempty"`
	MaxPersona int      `json:"max_personas,omitempty" validate:"omitempty,min=1,max=50"`
}

type SurveyAnswer struct {
	PersonaId string `json:"persona_id"`
	Question  string `json:"question"`
	Answer    string `json:"answer"`
}

type SurveyResponse struct {
	Answers      []SurveyAnswer `json:"answers"`
	Respondents  int            `json:"respondents"`
	Demographics SurveyBreak    `json:"demographics"`
}

// SurveyBreak is the demographic cut of the respondent set.
type SurveyBreak struct {
	ByRegion      map[string]int `json:"by_region"`
	ByServiceType map[string]int `json:"by_service_type"`
	BySegment     map[string]int `json:"by_segment"`
}

// FocusGroupRequest convenes selected personas around one discussion topic.
// Without persona_ids the group is drawn from the registry up to group_size.
type FocusGroupRequest struct {
	Topic      string   `json:"topic" validate:"required"`
	PersonaIds []string `json:"persona_ids,omitempty"`
	GroupSize  int      `json:"group_size,omitempty" validate:"omitempty,min=2,max=12"`
	Rounds     int      `json:"rounds,omitempty" validate:"omitempty,min=1,max=5"`
}

type FocusGroupTurn struct {
	Round     int    `json:"round"`
	PersonaId string `json:"persona_id"`
	Message   string `json:"message"`
}

type FocusGroupResponse struct {
	Topic          string                   `json:"topic"`
	Participants   []PersonaProfileResponse `json:"participants"`
	Transcript     []FocusGroupTurn         `json:"transcript"`
	Rounds         int                      `json:"rounds"`
	ModeratorNotes string                   `json:"moderator_notes"`
}
