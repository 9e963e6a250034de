// Package persona holds the prepared answers, the keyword intent matcher and
// the system prompt composer for the profile bot.
package persona

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Topic identifies one prepared answer.
type Topic string

const (
	TopicLifeStory      Topic = "life_story"
	TopicSuperpower     Topic = "superpower"
	TopicGrowthAreas    Topic = "growth_areas"
	TopicMisconception  Topic = "misconception"
	TopicPushBoundaries Topic = "push_boundaries"
)

//go:embed answers.yaml
var answersYAML []byte

// PreparedAnswer is a literal reply plus the phrases that select it.
type PreparedAnswer struct {
	Key        Topic    `yaml:"key"`
	Phrases    []string `yaml:"phrases"`
	PromptHint string   `yaml:"prompt_hint"`
	Answer     string   `yaml:"answer"`
}

// AnswerSet is an ordered, immutable list of prepared answers.
type AnswerSet struct {
	topics []PreparedAnswer
}

type answersFile struct {
	Topics []PreparedAnswer `yaml:"topics"`
}

var defaultSet = mustParse(answersYAML)

// Default returns the answer set compiled into the binary.
func Default() *AnswerSet {
	return defaultSet
}

// Parse decodes and validates an answer set document.
func Parse(data []byte) (*AnswerSet, error) {
	var file answersFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse answers yaml: %w", err)
	}
	if len(file.Topics) == 0 {
		return nil, fmt.Errorf("answers yaml has no topics")
	}

	seen := make(map[Topic]struct{}, len(file.Topics))
	topics := make([]PreparedAnswer, 0, len(file.Topics))
	for i, t := range file.Topics {
		if t.Key == "" {
			return nil, fmt.Errorf("topic %d has no key", i)
		}
		if _, dup := seen[t.Key]; dup {
			return nil, fmt.Errorf("topic %q is defined twice", t.Key)
		}
		seen[t.Key] = struct{}{}
		if strings.TrimSpace(t.Answer) == "" {
			return nil, fmt.Errorf("topic %q has no answer", t.Key)
		}
		if len(t.Phrases) == 0 {
			return nil, fmt.Errorf("topic %q has no phrases", t.Key)
		}
		phrases := make([]string, 0, len(t.Phrases))
		for _, p := range t.Phrases {
			p = strings.ToLower(p)
			if strings.TrimSpace(p) == "" {
				return nil, fmt.Errorf("topic %q has an empty phrase", t.Key)
			}
			phrases = append(phrases, p)
		}
		t.Phrases = phrases
		topics = append(topics, t)
	}
	return &AnswerSet{topics: topics}, nil
}

func mustParse(data []byte) *AnswerSet {
	set, err := Parse(data)
	if err != nil {
		panic(err)
	}
	return set
}

// Topics returns a copy of the prepared answers in priority order.
func (s *AnswerSet) Topics() []PreparedAnswer {
	out := make([]PreparedAnswer, len(s.topics))
	for i, t := range s.topics {
		t.Phrases = append([]string(nil), t.Phrases...)
		out[i] = t
	}
	return out
}

// Answer returns the literal reply for key.
func (s *AnswerSet) Answer(key Topic) (string, bool) {
	for _, t := range s.topics {
		if t.Key == key {
			return t.Answer, true
		}
	}
	return "", false
}
