// Package questionnaire holds the career questionnaire and validates the
// answers a user submits before they are sent for personalization.
package questionnaire

import "slices"

// QuestionType selects how a question is answered.
type QuestionType string

const (
	TypeSingle   QuestionType = "single"
	TypeMultiple QuestionType = "multiple"
	TypeText     QuestionType = "text"
	TypeScale    QuestionType = "scale"
)

// QuestionCategory groups questions for display.
type QuestionCategory string

const (
	CategoryBackground  QuestionCategory = "background"
	CategoryExperience  QuestionCategory = "experience"
	CategoryInterests   QuestionCategory = "interests"
	CategoryGoals       QuestionCategory = "goals"
	CategoryPersonality QuestionCategory = "personality"
)

// Scale answers are whole numbers in [ScaleMin, ScaleMax].
const (
	ScaleMin = 1
	ScaleMax = 5
)

// Question is one entry of the questionnaire.
type Question struct {
	ID          string           `json:"id" yaml:"id"`
	Type        QuestionType     `json:"type" yaml:"type"`
	Category    QuestionCategory `json:"category" yaml:"category"`
	Question    string           `json:"question" yaml:"question"`
	Description string           `json:"description,omitempty" yaml:"description,omitempty"`
	Options     []string         `json:"options,omitempty" yaml:"options,omitempty"`
	Required    bool             `json:"required" yaml:"required"`
}

// HasOption reports whether opt is one of q's options.
func (q Question) HasOption(opt string) bool {
	return slices.Contains(q.Options, opt)
}

// Bank returns the questionnaire in presentation order. The slice is a
// fresh copy on every call.
func Bank() []Question {
	out := make([]Question, len(bank))
	for i, q := range bank {
		q.Options = append([]string(nil), q.Options...)
		out[i] = q
	}
	return out
}

// Lookup returns the question with id from the built-in bank.
func Lookup(id string) (Question, bool) {
	for _, q := range bank {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

var bank = []Question{
	{
		ID:       "education-level",
		Type:     TypeSingle,
		Category: CategoryBackground,
		Question: "What is your current education level?",
		Options: []string{
			"High School Student",
			"High School Graduate",
			"Currently in College",
			"College Graduate",
			"Graduate Degree",
			"Professional Certification",
		},
		Required: true,
	},
	{
		ID:       "experience-level",
		Type:     TypeSingle,
		Category: CategoryExperience,
		Question: "How would you describe your professional experience?",
		Options: []string{
			"No work experience",
			"0-2 years experience",
			"2-5 years experience",
			"5-10 years experience",
			"10+ years experience",
			"Changing careers",
		},
		Required: true,
	},
	{
		ID:       "career-interests",
		Type:     TypeMultiple,
		Category: CategoryInterests,
		Question: "Which career areas interest you most? (Select all that apply)",
		Options: []string{
			"Technology & Software Development",
			"Data Science & Analytics",
			"Digital Marketing",
			"Design & Creative",
			"Business & Management",
			"Healthcare",
			"Education & Training",
			"Finance & Accounting",
			"Sales & Customer Service",
			"Engineering",
			"Research & Development",
			"Entrepreneurship",
		},
		Required: true,
	},
	{
		ID:       "work-environment",
		Type:     TypeSingle,
		Category: CategoryInterests,
		Question: "What type of work environment do you prefer?",
		Options: []string{
			"Remote work",
			"Office-based",
			"Hybrid (remote + office)",
			"Freelance/Contract",
			"Startup environment",
			"Large corporation",
		},
		Required: true,
	},
	{
		ID:       "current-skills",
		Type:     TypeMultiple,
		Category: CategoryExperience,
		Question: "What skills do you currently have? (Select all that apply)",
		Options: []string{
			"Programming/Coding",
			"Data Analysis",
			"Project Management",
			"Communication",
			"Leadership",
			"Creative Writing",
			"Graphic Design",
			"Social Media",
			"Sales",
			"Research",
			"Problem Solving",
			"Public Speaking",
		},
	},
	{
		ID:       "learning-preference",
		Type:     TypeSingle,
		Category: CategoryPersonality,
		Question: "How do you prefer to learn new skills?",
		Options: []string{
			"Hands-on projects",
			"Online courses",
			"Reading books/articles",
			"Mentorship",
			"Workshops/seminars",
			"Trial and error",
		},
		Required: true,
	},
	{
		ID:       "career-goals",
		Type:     TypeSingle,
		Category: CategoryGoals,
		Question: "What is your primary career goal?",
		Options: []string{
			"Get my first job",
			"Switch to a new career",
			"Advance in my current field",
			"Develop specific skills",
			"Start my own business",
			"Increase my salary",
			"Find better work-life balance",
		},
		Required: true,
	},
	{
		ID:       "timeline",
		Type:     TypeSingle,
		Category: CategoryGoals,
		Question: "What is your timeline for achieving your career goals?",
		Options:  []string{"3-6 months", "6-12 months", "1-2 years", "2-5 years", "5+ years"},
		Required: true,
	},
	{
		ID:       "time-commitment",
		Type:     TypeSingle,
		Category: CategoryGoals,
		Question: "How much time can you dedicate to skill development per week?",
		Options:  []string{"1-3 hours", "4-7 hours", "8-15 hours", "15-25 hours", "25+ hours"},
		Required: true,
	},
	{
		ID:       "work-style",
		Type:     TypeSingle,
		Category: CategoryPersonality,
		Question: "Which describes your preferred working style?",
		Options: []string{
			"I prefer working independently",
			"I work best in small teams",
			"I thrive in large collaborative groups",
			"I like a mix of solo and team work",
			"I prefer leading others",
			"I like being guided by others",
		},
		Required: true,
	},
	{
		ID:          "challenge-level",
		Type:        TypeScale,
		Category:    CategoryPersonality,
		Question:    "How do you feel about taking on challenging tasks?",
		Description: "1 = Prefer easy, comfortable tasks | 5 = Love difficult, complex challenges",
		Required:    true,
	},
	{
		ID:          "specific-interests",
		Type:        TypeText,
		Category:    CategoryInterests,
		Question:    "Are there any specific technologies, tools, or subjects you're particularly interested in learning?",
		Description: "Optional: Help us personalize your skill tree even more",
	},
	{
		ID:          "biggest-challenge",
		Type:        TypeText,
		Category:    CategoryGoals,
		Question:    "What is the biggest challenge you face in your career development?",
		Description: "Optional: This helps us focus on areas where you need the most support",
	},
}
