package enhancer

import (
	"fmt"
	"strings"

	"github.com/yanqian/faq-admin/internal/domain/faq"
)

const systemPrompt = `You write help-centre content for The Hire Hub, an AI-assisted applicant tracking system used by recruiters, hiring managers and HR administrators. Reply with the requested content only, without commentary or surrounding quotes.`

const platformSummary = `Platform overview:
- Modules: candidate management, job posting, interview scheduling, resume parsing, analytics
- AI features: candidate matching, automated screening, predictive analytics
- Integrations: job boards, email, calendars, HRIS
- Typical flow: create job, source candidates, screen, schedule interviews, track decisions`

type promptSpec struct {
	op          string
	maxTokens   int
	temperature float32
	text        string
}

func improveQuestionPrompt(question string) promptSpec {
	return promptSpec{
		op:          "improve_question",
		maxTokens:   100,
		temperature: 0.3,
		text: fmt.Sprintf(`Rewrite this FAQ question so it is clear, concise and phrased the way a recruiter would ask it. Keep the original intent.

Question: %s

Return only the rewritten question.`, question),
	}
}

func improveAnswerPrompt(question, answer string) promptSpec {
	return promptSpec{
		op:          "improve_answer",
		maxTokens:   400,
		temperature: 0.3,
		text: fmt.Sprintf(`Improve this FAQ answer. Keep every fact, add numbered steps and UI references where they help, and keep the tone friendly and practical.

Question: %s
Current answer: %s

Return only the improved answer.`, question, answer),
	}
}

func generateAnswerPrompt(question, context string) promptSpec {
	return promptSpec{
		op:          "generate_answer",
		maxTokens:   400,
		temperature: 0.3,
		text: fmt.Sprintf(`Answer this question for The Hire Hub help centre.

Question: %s
%s
%s

Give step-by-step instructions where they apply and mention relevant permissions. Return only the answer.`, question, contextSection("Existing FAQs for tone and facts", context), platformSummary),
	}
}

func generateFAQsPrompt(topic, context string) promptSpec {
	return promptSpec{
		op:          "generate_faqs",
		maxTokens:   1000,
		temperature: 0.3,
		text: fmt.Sprintf(`Write 3 FAQ entries about the topic below. Mix "How do I", "Can I" and troubleshooting questions and make the answers specific to the platform.

Topic: %s
%s
%s

Return a JSON array only, for example:
[{"question": "How do I ...?", "answer": "1. Open ... 2. Click ..."}]`, topic, contextSection("Existing FAQs (do not duplicate)", context), platformSummary),
	}
}

func categorizePrompt(question, answer string) promptSpec {
	return promptSpec{
		op:          "categorize",
		maxTokens:   30,
		temperature: 0.1,
		text: fmt.Sprintf(`Pick the single best category for this FAQ from: %s.

Question: %s
Answer: %s

Return only the category name.`, categoryList(), question, answer),
	}
}

func structurePrompt(question, answer string) promptSpec {
	return promptSpec{
		op:          "structure",
		maxTokens:   400,
		temperature: 0.4,
		text: fmt.Sprintf(`Describe this FAQ with structured metadata.

Question: %s
Answer: %s

- category: one of %s
- tags: 3 to 5 lowercase tags, words joined with underscores
- alternate_questions: 4 or 5 natural rephrasings a recruiter might type

Return JSON only:
{"category": "...", "tags": ["..."], "alternate_questions": ["..."]}`, question, answer, categoryList()),
	}
}

func relatedPrompt(question, answer, existing string) promptSpec {
	return promptSpec{
		op:          "related",
		maxTokens:   300,
		temperature: 0.5,
		text: fmt.Sprintf(`A user reading the FAQ below is likely to have follow-up questions. Suggest 5 new questions that the help centre does not answer yet.

Question: %s
Answer: %s
%s

Return a JSON array of question strings only.`, question, answer, contextSection("Questions already covered", existing)),
	}
}

func contextSection(title, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("\n%s:\n%s\n", title, body)
}

func categoryList() string {
	names := make([]string, 0, len(faq.Categories()))
	for _, c := range faq.Categories() {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}
