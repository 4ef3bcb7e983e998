package matcher

import (
	"sort"
	"strings"
	"unicode"

	"github.com/sweetcrumb/storefront/internal/catalog"
)

// MatchStatus represents the status of a match operation
type MatchStatus int

const (
	Matched MatchStatus = iota
	Ambiguous
	Unmatched
)

func (s MatchStatus) String() string {
	switch s {
	case Matched:
		return "Matched"
	case Ambiguous:
		return "Ambiguous"
	case Unmatched:
		return "Unmatched"
	default:
		return "Unknown"
	}
}

// MatchResult contains the result of a matching operation
type MatchResult struct {
	Status     MatchStatus
	Product    *catalog.Product  // when Matched
	Candidates []catalog.Product // when Ambiguous
}

// Matcher resolves free text like "red velvet cake" to catalog products
type Matcher struct {
	products []catalog.Product
	keywords []map[string]int // keyword -> weight, per product
}

const (
	nameWeight     = 3
	categoryWeight = 2
	optionWeight   = 1
)

// New creates a Matcher with pre-tokenized keywords. Product names weigh
// more than category names, which weigh more than option names.
func New(products []catalog.Product) *Matcher {
	m := &Matcher{
		products: products,
		keywords: make([]map[string]int, len(products)),
	}

	for i, p := range products {
		kw := make(map[string]int)
		add := func(text string, weight int) {
			for _, tok := range tokenize(normalize(text)) {
				if weight > kw[tok] {
					kw[tok] = weight
				}
			}
		}
		for _, s := range p.Sizes {
			add(s.Name, optionWeight)
		}
		for _, f := range p.Flavors {
			add(f.Name, optionWeight)
		}
		for _, t := range p.Toppings {
			add(t.Name, optionWeight)
		}
		for _, s := range p.SubItems {
			add(s.Name, optionWeight)
		}
		add(p.Category, categoryWeight)
		add(p.Name, nameWeight)
		add(strings.ReplaceAll(p.ID, "-", " "), nameWeight)
		m.keywords[i] = kw
	}

	return m
}

type scoredProduct struct {
	product catalog.Product
	score   int
}

func (m *Matcher) score(text string) []scoredProduct {
	inputTokens := make(map[string]bool)
	for _, tok := range tokenize(normalize(text)) {
		inputTokens[tok] = true
	}

	var scored []scoredProduct
	for i, p := range m.products {
		score := 0
		for tok := range inputTokens {
			score += m.keywords[i][tok]
		}
		if score > 0 {
			scored = append(scored, scoredProduct{product: p, score: score})
		}
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })
	return scored
}

// Match resolves text to a single product. An exact product id always
// matches; otherwise the highest keyword score wins and ties are ambiguous.
func (m *Matcher) Match(text string) MatchResult {
	for i := range m.products {
		if m.products[i].ID == text {
			p := m.products[i]
			return MatchResult{Status: Matched, Product: &p}
		}
	}

	scored := m.score(text)
	if len(scored) == 0 {
		return MatchResult{Status: Unmatched}
	}

	// scored is sorted, so the top scorers lead
	maxScore := scored[0].score
	var topScorers []catalog.Product
	for _, s := range scored {
		if s.score != maxScore {
			break
		}
		topScorers = append(topScorers, s.product)
	}

	if len(topScorers) == 1 {
		return MatchResult{
			Status:  Matched,
			Product: &topScorers[0],
		}
	}

	return MatchResult{
		Status:     Ambiguous,
		Candidates: topScorers,
	}
}

// Search returns every product sharing a keyword with text, best first.
// Equal scores keep catalog order.
func (m *Matcher) Search(text string) []catalog.Product {
	scored := m.score(text)
	out := make([]catalog.Product, len(scored))
	for i, s := range scored {
		out[i] = s.product
	}
	return out
}

// normalize converts a string to lowercase and replaces non-alphanumeric chars with spaces
func normalize(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))

	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(unicode.ToLower(r))
		} else {
			sb.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(sb.String()), " ")
}

// tokenize splits on whitespace and folds simple plurals ("cookies" ->
// "cookie") so either form matches.
func tokenize(s string) []string {
	fields := strings.Fields(s)
	for i, f := range fields {
		fields[i] = singular(f)
	}
	return fields
}

func singular(tok string) string {
	switch {
	case len(tok) > 4 && strings.HasSuffix(tok, "ies"):
		return tok[:len(tok)-3] + "ie"
	case len(tok) > 3 && strings.HasSuffix(tok, "s") && !strings.HasSuffix(tok, "ss"):
		return tok[:len(tok)-1]
	}
	return tok
}
