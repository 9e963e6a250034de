package persona

import "strings"

// Match lowercases text and returns the first topic, in priority order,
// having a phrase that occurs anywhere in it. Matching is plain substring
// search, so "learn" matches "unlearnable".
func (s *AnswerSet) Match(text string) (Topic, bool) {
	lower := strings.ToLower(text)
	for _, t := range s.topics {
		for _, phrase := range t.Phrases {
			if strings.Contains(lower, phrase) {
				return t.Key, true
			}
		}
	}
	return "", false
}

// Match runs the default answer set's matcher.
func Match(text string) (Topic, bool) {
	return defaultSet.Match(text)
}
