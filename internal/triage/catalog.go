package triage

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// QuestionsPerCategory is the fixed length of every category script.
const QuestionsPerCategory = 5

//go:embed questions.yaml
var questionsYAML []byte

// Category is one symptom class with its ordered follow-up script.
type Category struct {
	ID        string
	Questions []string
}

// DisplayName renders the category id for humans: "stomach_pain" -> "Stomach Pain".
func (c Category) DisplayName() string {
	words := strings.Split(c.ID, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Catalog is the closed set of symptom categories. It is built once at
// startup and safe for unsynchronized concurrent reads.
type Catalog struct {
	byID map[string]Category
	ids  []string
}

// LoadCatalog parses the embedded question table and validates that every
// category carries exactly five questions.
func LoadCatalog() (*Catalog, error) {
	var doc struct {
		Categories map[string][]string `yaml:"categories"`
	}
	if err := yaml.Unmarshal(questionsYAML, &doc); err != nil {
		return nil, fmt.Errorf("parse question catalog: %w", err)
	}
	if len(doc.Categories) == 0 {
		return nil, fmt.Errorf("question catalog is empty")
	}

	c := &Catalog{byID: make(map[string]Category, len(doc.Categories))}
	for id, questions := range doc.Categories {
		if len(questions) != QuestionsPerCategory {
			return nil, fmt.Errorf("category %q has %d questions, want %d", id, len(questions), QuestionsPerCategory)
		}
		for i, q := range questions {
			if strings.TrimSpace(q) == "" {
				return nil, fmt.Errorf("category %q question %d is blank", id, i)
			}
		}
		c.byID[id] = Category{ID: id, Questions: questions}
		c.ids = append(c.ids, id)
	}
	sort.Strings(c.ids)
	return c, nil
}

// Lookup returns the category for id, if it exists.
func (c *Catalog) Lookup(id string) (Category, bool) {
	cat, ok := c.byID[strings.TrimSpace(id)]
	return cat, ok
}

// IDs returns all category ids in sorted order.
func (c *Catalog) IDs() []string {
	return c.ids
}

// Len returns the number of categories.
func (c *Catalog) Len() int {
	return len(c.byID)
}
