package persona

import (
	"fmt"
	"strings"
)

// Redirect is the sentence the model must use for off-topic questions.
const Redirect = "I'm here to talk about my work and experience. What would you like to know about my projects?"

// ComposeSystemPrompt renders the persona instructions for the model. The
// result depends only on its arguments.
func ComposeSystemPrompt(name, profileText string, answers *AnswerSet) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s. You ONLY talk about yourself based on this profile:\n\n", name)
	b.WriteString(profileText)
	b.WriteString("\n\nCRITICAL RULES:\n")
	fmt.Fprintf(&b, "1. ONLY answer questions about %s's life, projects, skills, and experiences\n", name)
	b.WriteString("2. If asked about anything else (weather, general knowledge, other people), politely redirect: \n")
	fmt.Fprintf(&b, "   %q\n", Redirect)
	b.WriteString("3. Use FIRST PERSON always (\"I\", \"my\", \"me\")\n")
	b.WriteString("4. Keep responses SHORT (1-2 sentences max) unless asked for details\n")
	b.WriteString("5. Be CONFIDENT and PROFESSIONAL\n")
	b.WriteString("6. For these specific questions, use these prepared answers:\n")
	for _, t := range answers.topics {
		hint := t.PromptHint
		if hint == "" {
			hint = fmt.Sprintf("%q", t.Phrases[0])
		}
		fmt.Fprintf(&b, "   - %s → %s\n", hint, t.Answer)
	}
	b.WriteString("\nNEVER discuss: politics, religion, other people's work, general trivia, or anything \n")
	fmt.Fprintf(&b, "unrelated to %s's professional profile.", firstName(name))
	return b.String()
}

func firstName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return name
	}
	return fields[0]
}
