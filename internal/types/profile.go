package types

import (
	"time"

	"github.com/google/uuid"
)

// PersonalityTraits captures the dominant traits the model inferred.
type PersonalityTraits struct {
	Summary        string   `json:"summary"`
	DominantTraits []string `json:"dominant_traits"`
	Confidence     float64  `json:"confidence,omitempty"`
}

// ComfortZone is the nested comfort-zone/boundary sub-record of SocialStyle.
type ComfortZone struct {
	ComfortableTopics []string `json:"comfortable_topics"`
	Boundaries        []string `json:"boundaries"`
	SocialEnergy      string   `json:"social_energy,omitempty"`
}

// SocialStyle describes how the user interacts with others.
type SocialStyle struct {
	InteractionStyle  string      `json:"interaction_style"`
	PreferredChannels []string    `json:"preferred_channels,omitempty"`
	GroupPreference   string      `json:"group_preference,omitempty"`
	ComfortZone       ComfortZone `json:"comfort_zone"`
}

// MotivationsGoals captures what drives the user.
type MotivationsGoals struct {
	CoreMotivations []string `json:"core_motivations"`
	ShortTermGoals  []string `json:"short_term_goals,omitempty"`
	LongTermGoals   []string `json:"long_term_goals,omitempty"`
	Values          []string `json:"values,omitempty"`
}

// SkillsIdentity captures skills and self-identity.
type SkillsIdentity struct {
	ProfessionalSkills []string `json:"professional_skills"`
	Hobbies            []string `json:"hobbies,omitempty"`
	ExpertiseAreas     []string `json:"expertise_areas,omitempty"`
	SelfDescription    string   `json:"self_description,omitempty"`
}

// Availability is the nested availability sub-record of LifestyleRhythm.
type Availability struct {
	WeekdayPattern string `json:"weekday_pattern,omitempty"`
	WeekendPattern string `json:"weekend_pattern,omitempty"`
	BusiestHours   string `json:"busiest_hours,omitempty"`
}

// Mobility is the nested mobility sub-record of LifestyleRhythm.
type Mobility struct {
	TransportModes []string `json:"transport_modes,omitempty"`
	TypicalRadius  string   `json:"typical_radius,omitempty"`
}

// EnvironmentContext is the nested environmental-context sub-record of LifestyleRhythm.
type EnvironmentContext struct {
	HomeEnvironment string `json:"home_environment,omitempty"`
	WorkEnvironment string `json:"work_environment,omitempty"`
}

// LifestyleRhythm describes daily rhythm, availability and surroundings.
type LifestyleRhythm struct {
	Chronotype   string             `json:"chronotype"`
	Availability Availability       `json:"availability"`
	Mobility     Mobility           `json:"mobility"`
	Environment  EnvironmentContext `json:"environment"`
}

// ConversationPreferences captures micro conversation preferences.
type ConversationPreferences struct {
	PreferredTone string   `json:"preferred_tone"`
	OpenerStyles  []string `json:"opener_styles,omitempty"`
	TopicsToAvoid []string `json:"topics_to_avoid,omitempty"`
	HumorStyle    string   `json:"humor_style,omitempty"`
	MessageLength string   `json:"message_length,omitempty"`
}

// BehavioralHistory is the behavioral-history model section.
type BehavioralHistory struct {
	RecurringPatterns []string `json:"recurring_patterns"`
	NotableEvents     []string `json:"notable_events,omitempty"`
	ConsistencyNotes  string   `json:"consistency_notes,omitempty"`
}

// AgentPersona holds the decision-weight and tone heuristics an agent acting
// on the user's behalf should follow.
type AgentPersona struct {
	DecisionWeights map[string]float64 `json:"decision_weights"`
	ToneGuidance    string             `json:"tone_guidance"`
	DoList          []string           `json:"do_list,omitempty"`
	DontList        []string           `json:"dont_list,omitempty"`
}

// Profile is the validated, structured output of consolidation. Every top-level
// section is present once constructed; UserID is set by the strategy from the
// caller's id and is never taken from model output. ID and timestamps are
// assigned by the persistence boundary on commit.
type Profile struct {
	ID     uuid.UUID `json:"id,omitempty"`
	UserID int64     `json:"user_id"`

	PersonalityTraits       PersonalityTraits       `json:"personality_traits"`
	SocialStyle             SocialStyle             `json:"social_style"`
	MotivationsGoals        MotivationsGoals        `json:"motivations_goals"`
	SkillsIdentity          SkillsIdentity          `json:"skills_identity"`
	LifestyleRhythm         LifestyleRhythm         `json:"lifestyle_rhythm"`
	ConversationPreferences ConversationPreferences `json:"conversation_preferences"`
	BehavioralHistory       BehavioralHistory       `json:"behavioral_history"`
	AgentPersona            AgentPersona            `json:"agent_persona"`

	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}
