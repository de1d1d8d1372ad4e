package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// Catalog is the fixed, ordered set of categories and questions.
// It is immutable once loaded; accessors hand out deep copies.
type Catalog struct {
	version    string
	categories []Category
	questions  []Question
	byID       map[string]int
	byCategory map[CategoryKey]int
}

type catalogFile struct {
	Version    string     `yaml:"version"`
	Categories []Category `yaml:"categories"`
}

// def is the package-level default catalog, built by init().
var def *Catalog

func init() {
	c, err := Parse(defaultCatalogYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	def = c
}

// Default returns the built-in questionnaire.
func Default() *Catalog {
	return def
}

// Load reads a catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("unmarshal catalog YAML: %w", err)
	}
	if err := validate(f); err != nil {
		return nil, err
	}
	return build(f), nil
}

func build(f catalogFile) *Catalog {
	c := &Catalog{
		version:    f.Version,
		byID:       make(map[string]int),
		byCategory: make(map[CategoryKey]int, len(f.Categories)),
	}
	for _, cat := range f.Categories {
		cat = cat.clone()
		for i := range cat.Questions {
			cat.Questions[i].Category = cat.Key
			c.byID[cat.Questions[i].ID] = len(c.questions)
			c.questions = append(c.questions, cat.Questions[i].clone())
		}
		c.byCategory[cat.Key] = len(c.categories)
		c.categories = append(c.categories, cat)
	}
	return c
}

// Version returns the catalog's semantic version.
func (c *Catalog) Version() string { return c.version }

// Categories returns all categories in display order.
func (c *Catalog) Categories() []Category {
	out := make([]Category, len(c.categories))
	for i, cat := range c.categories {
		out[i] = cat.clone()
	}
	return out
}

// CategoryKeys returns all category keys in display order.
func (c *Catalog) CategoryKeys() []CategoryKey {
	keys := make([]CategoryKey, len(c.categories))
	for i, cat := range c.categories {
		keys[i] = cat.Key
	}
	return keys
}

// Category returns the category with the given key.
func (c *Catalog) Category(key CategoryKey) (Category, bool) {
	cat, ok := c.category(key)
	if !ok {
		return Category{}, false
	}
	return cat.clone(), true
}

// category returns the internal category without copying it.
func (c *Catalog) category(key CategoryKey) (*Category, bool) {
	i, ok := c.byCategory[key]
	if !ok {
		return nil, false
	}
	return &c.categories[i], true
}

// AllQuestions returns every question in catalog order.
func (c *Catalog) AllQuestions() []Question {
	out := make([]Question, len(c.questions))
	for i, q := range c.questions {
		out[i] = q.clone()
	}
	return out
}

// QuestionsByCategory returns the questions of one category in order.
// Unknown keys yield an empty slice.
func (c *Catalog) QuestionsByCategory(key CategoryKey) []Question {
	cat, ok := c.category(key)
	if !ok {
		return []Question{}
	}
	out := make([]Question, len(cat.Questions))
	for i, q := range cat.Questions {
		out[i] = q.clone()
	}
	return out
}

// QuestionByID looks up a question by its id.
func (c *Catalog) QuestionByID(id string) (Question, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Question{}, false
	}
	return c.questions[i].clone(), true
}

// QuestionNumber returns the 1-based position of a question within its
// category, or 0 when the id is unknown.
func (c *Catalog) QuestionNumber(id string) int {
	i, ok := c.byID[id]
	if !ok {
		return 0
	}
	q := c.questions[i]
	for i, cq := range c.categories[c.byCategory[q.Category]].Questions {
		if cq.ID == id {
			return i + 1
		}
	}
	return 0
}

// CategoryMaxScore sums the question maxima of a category.
// Unknown keys have a max of 0.
func (c *Catalog) CategoryMaxScore(key CategoryKey) int {
	cat, ok := c.category(key)
	if !ok {
		return 0
	}
	total := 0
	for _, q := range cat.Questions {
		total += q.MaxScore()
	}
	return total
}

// TotalMaxScore sums every category max.
func (c *Catalog) TotalMaxScore() int {
	total := 0
	for _, cat := range c.categories {
		total += c.CategoryMaxScore(cat.Key)
	}
	return total
}

// Baseline returns the reference score of a category, if it has one.
func (c *Catalog) Baseline(key CategoryKey) (int, bool) {
	cat, ok := c.category(key)
	if !ok || cat.Baseline == nil {
		return 0, false
	}
	return *cat.Baseline, true
}

// DisplayName returns the human-readable name of a category, falling back
// to the raw key.
func (c *Catalog) DisplayName(key CategoryKey) string {
	if cat, ok := c.category(key); ok && cat.Name != "" {
		return cat.Name
	}
	return string(key)
}

// Suggestion returns the remediation text for a category.
func (c *Catalog) Suggestion(key CategoryKey) string {
	if cat, ok := c.category(key); ok && cat.Suggestion != "" {
		return cat.Suggestion
	}
	return DefaultSuggestion
}
