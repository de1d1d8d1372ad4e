package catalog

// CategoryKey identifies a readiness category.
type CategoryKey string

const (
	CategoryBusiness     CategoryKey = "business"
	CategoryData         CategoryKey = "data"
	CategoryOrganization CategoryKey = "organization"
	CategoryTechnology   CategoryKey = "technology"
	CategoryProcess      CategoryKey = "process"
	CategoryCompliance   CategoryKey = "compliance"
)

// DefaultSuggestion is shown for categories that carry no remediation text.
const DefaultSuggestion = "Consider consulting a specialist about this area."

// Category is one readiness dimension of the questionnaire.
type Category struct {
	Key         CategoryKey `yaml:"key"`
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`

	// Baseline is the reference score (0-100) respondents are compared
	// against. Nil means the category has no baseline.
	Baseline *int `yaml:"baseline"`

	Suggestion string     `yaml:"suggestion"`
	Questions  []Question `yaml:"questions"`
}

// clone returns a copy of c that shares no memory with the receiver.
func (c Category) clone() Category {
	if c.Baseline != nil {
		b := *c.Baseline
		c.Baseline = &b
	}
	qs := make([]Question, len(c.Questions))
	for i, q := range c.Questions {
		qs[i] = q.clone()
	}
	c.Questions = qs
	return c
}

// Choice is a selectable answer to a question.
type Choice struct {
	Text  string `yaml:"text" json:"text"`
	Score int    `yaml:"score" json:"score"`
}

// Question is a single multiple-choice item.
type Question struct {
	ID       string      `yaml:"id" json:"id"`
	Category CategoryKey `yaml:"-" json:"category"`
	Text     string      `yaml:"text" json:"text"`
	Choices  []Choice    `yaml:"choices" json:"choices"`
}

func (q Question) clone() Question {
	q.Choices = append([]Choice(nil), q.Choices...)
	return q
}

// MaxScore returns the highest score any choice of q awards.
func (q Question) MaxScore() int {
	best := 0
	for _, c := range q.Choices {
		if c.Score > best {
			best = c.Score
		}
	}
	return best
}

// Choice returns the choice at index i, or false when i is out of range.
func (q Question) Choice(i int) (Choice, bool) {
	if i < 0 || i >= len(q.Choices) {
		return Choice{}, false
	}
	return q.Choices[i], true
}
