package ingest

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/tidytext/pkg/tidytext/internalerr"
)

// Phrase maps one or more surface forms to a single canonical token, e.g.
// "new york" and "nyc" to "new york".
type Phrase struct {
	Canonical string
	Variants  []string
}

// PhraseParser merges known multi-word phrases in a token stream.
type PhraseParser struct {
	dict   map[string]string // lowercase surface form -> canonical
	maxLen int
}

// NewPhraseParser builds a parser over the given phrases.
func NewPhraseParser(phrases []Phrase) *PhraseParser {
	p := &PhraseParser{dict: make(map[string]string), maxLen: 1}
	for _, ph := range phrases {
		p.add(ph.Canonical, ph.Canonical)
		for _, v := range ph.Variants {
			p.add(v, ph.Canonical)
		}
	}
	return p
}

func (p *PhraseParser) add(form, canonical string) {
	form = strings.Join(strings.Fields(strings.ToLower(form)), " ")
	if form == "" {
		return
	}
	p.dict[form] = canonical
	if l := phraseLen(form); l > p.maxLen {
		p.maxLen = l
	}
}

// Len returns the number of surface forms known to the parser.
func (p *PhraseParser) Len() int { return len(p.dict) }

// Parse applies greedy longest-match, left to right. Single tokens with a
// mapping are replaced by their canonical form.
func (p *PhraseParser) Parse(tokens []string) []string {
	if p == nil || len(p.dict) == 0 {
		return tokens
	}
	result := make([]string, 0, len(tokens))
	for i := 0; i < len(tokens); {
		maxPhrase := p.maxLen
		if remaining := len(tokens) - i; maxPhrase > remaining {
			maxPhrase = remaining
		}
		matched := false
		for n := maxPhrase; n >= 1; n-- {
			key := strings.ToLower(strings.Join(tokens[i:i+n], " "))
			if canonical, ok := p.dict[key]; ok {
				result = append(result, canonical)
				i += n
				matched = true
				break
			}
		}
		if !matched {
			result = append(result, tokens[i])
			i++
		}
	}
	return result
}

func phraseLen(phrase string) int {
	if phrase == "" {
		return 1
	}
	return len(strings.Fields(phrase))
}

// LoadPhrasesYAML loads phrase mappings from a YAML file.
//
// Expected format:
//
//	phrases:
//	  - canonical: machine learning
//	    variants: [ml, machine-learning]
//	  - canonical: new york
//	    variants: [nyc]
func LoadPhrasesYAML(path string) ([]Phrase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc struct {
		Phrases []struct {
			Canonical string   `yaml:"canonical"`
			Variants  []string `yaml:"variants"`
		} `yaml:"phrases"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%s: %v: %w", path, err, internalerr.ErrInvalidInput)
	}
	out := make([]Phrase, 0, len(doc.Phrases))
	for i, p := range doc.Phrases {
		if strings.TrimSpace(p.Canonical) == "" {
			return nil, fmt.Errorf("%s: phrase %d has no canonical form: %w", path, i, internalerr.ErrInvalidInput)
		}
		out = append(out, Phrase{Canonical: strings.ToLower(p.Canonical), Variants: p.Variants})
	}
	return out, nil
}
