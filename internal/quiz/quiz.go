// Package quiz scores a short questionnaire against catalog categories
// and recommends products from the best-matching ones.
package quiz

import (
	"embed"
	"errors"
	"fmt"
	"sort"

	"github.com/sweetcrumb/storefront/internal/catalog"
	"github.com/sweetcrumb/storefront/internal/enum"
	"gopkg.in/yaml.v3"
)

//go:embed data/quiz.yaml
var dataFS embed.FS

// Errors returned by the quiz.
var (
	ErrUnknownQuestion = errors.New("unknown question")
	ErrUnknownAnswer   = errors.New("unknown answer")
	ErrNoAnswers       = errors.New("at least one answer is required")
	ErrInvalidQuiz     = errors.New("invalid quiz")
)

// DefaultLimit caps the number of recommended products.
const DefaultLimit = 3

type Answer struct {
	ID      string         `yaml:"id" json:"id"`
	Text    string         `yaml:"text" json:"text"`
	Weights map[string]int `yaml:"weights" json:"-"`
}

type Question struct {
	ID      string   `yaml:"id" json:"id"`
	Text    string   `yaml:"text" json:"text"`
	Answers []Answer `yaml:"answers" json:"answers"`
}

// Quiz is an immutable question set.
type Quiz struct {
	questions []Question
}

// Load parses a quiz definition and checks that every weight names a
// known category.
func Load(data []byte) (*Quiz, error) {
	var file struct {
		Questions []Question `yaml:"questions"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse quiz: %w", err)
	}
	if len(file.Questions) == 0 {
		return nil, fmt.Errorf("%w: no questions", ErrInvalidQuiz)
	}
	seen := make(map[string]bool)
	for _, q := range file.Questions {
		if q.ID == "" || seen[q.ID] {
			return nil, fmt.Errorf("%w: missing or duplicate question id %q", ErrInvalidQuiz, q.ID)
		}
		seen[q.ID] = true
		if len(q.Answers) == 0 {
			return nil, fmt.Errorf("%w: question %s has no answers", ErrInvalidQuiz, q.ID)
		}
		for _, a := range q.Answers {
			for cat := range a.Weights {
				if !enum.IsValidCategory(cat) {
					return nil, fmt.Errorf("%w: %s/%s weights unknown category %q", ErrInvalidQuiz, q.ID, a.ID, cat)
				}
			}
		}
	}
	return &Quiz{questions: file.Questions}, nil
}

// LoadEmbedded loads the quiz compiled into the binary.
func LoadEmbedded() (*Quiz, error) {
	data, err := dataFS.ReadFile("data/quiz.yaml")
	if err != nil {
		return nil, fmt.Errorf("read embedded quiz: %w", err)
	}
	return Load(data)
}

// Questions returns the questions in display order.
func (q *Quiz) Questions() []Question {
	out := make([]Question, len(q.questions))
	copy(out, q.questions)
	return out
}

// CategoryScore is a category and its accumulated weight.
type CategoryScore struct {
	Category string `json:"category"`
	Score    int    `json:"score"`
}

// Result is the outcome of a completed quiz.
type Result struct {
	Categories []CategoryScore
	Products   []catalog.Product
}

// Score sums the weights of the chosen answers, keyed by question id.
// Categories come back highest score first; ties keep display order.
func (q *Quiz) Score(answers map[string]string) ([]CategoryScore, error) {
	if len(answers) == 0 {
		return nil, ErrNoAnswers
	}
	totals := make(map[string]int)
	for qid, aid := range answers {
		question, ok := q.question(qid)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownQuestion, qid)
		}
		answer, ok := question.answer(aid)
		if !ok {
			return nil, fmt.Errorf("%w: %s/%s", ErrUnknownAnswer, qid, aid)
		}
		for cat, w := range answer.Weights {
			totals[cat] += w
		}
	}

	var scores []CategoryScore
	for _, cat := range enum.Categories() {
		if totals[cat] > 0 {
			scores = append(scores, CategoryScore{Category: cat, Score: totals[cat]})
		}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].Score > scores[j].Score })
	return scores, nil
}

// CategoryLister lists the products of a category. *catalog.Catalog
// satisfies it.
type CategoryLister interface {
	ByCategory(category string) ([]catalog.Product, error)
}

// Recommend scores answers and picks up to limit products, walking the
// categories from best to worst and taking products in catalog order.
func (q *Quiz) Recommend(c CategoryLister, answers map[string]string, limit int) (Result, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	scores, err := q.Score(answers)
	if err != nil {
		return Result{}, err
	}
	res := Result{Categories: scores, Products: []catalog.Product{}}
	for _, s := range scores {
		products, err := c.ByCategory(s.Category)
		if err != nil {
			return Result{}, err
		}
		for _, p := range products {
			if len(res.Products) == limit {
				return res, nil
			}
			res.Products = append(res.Products, p)
		}
	}
	return res, nil
}

func (q *Quiz) question(id string) (Question, bool) {
	for _, qq := range q.questions {
		if qq.ID == id {
			return qq, true
		}
	}
	return Question{}, false
}

func (q Question) answer(id string) (Answer, bool) {
	for _, a := range q.Answers {
		if a.ID == id {
			return a, true
		}
	}
	return Answer{}, false
}
