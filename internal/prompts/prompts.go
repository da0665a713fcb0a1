package prompts

import "fmt"

const summaryPrompt = `Summarize the following content in 4-5 clear and concise bullet points:

%s`

const insightsPrompt = `From this content, extract 5 insightful and thought-provoking takeaways:

%s`

const flashcardPrompt = `Create 5 simple Q&A flashcards from this content. Follow these rules:
1. Each question must be 15 words or less
2. Each answer must be 1-2 sentences maximum
3. Focus on key concepts and important details
4. Make questions clear and direct
5. Keep answers concise but informative

Format each flashcard as a JSON object with "question" and "answer" string fields.
Return ONLY a JSON array of these objects, no markdown fences or other text.

Content:

%s`

const actionStepsPrompt = `A user consumed this content:

%s

They shared their current life goal: "%s"
And their daily habit struggle: "%s"

Generate 3-4 personalized, practical micro-steps they can take this week to:
1. Make progress toward their life goal
2. Overcome their habit struggle
3. Apply the insights from the content

Each step should be specific, actionable, and connect the content insights with their personal situation.
Put each step on its own line.`

// Summary asks for a 4-5 bullet summary of text.
func Summary(text string) string {
	return fmt.Sprintf(summaryPrompt, text)
}

// Insights asks for 5 takeaways from text.
func Insights(text string) string {
	return fmt.Sprintf(insightsPrompt, text)
}

// Flashcards asks for exactly 5 Q&A cards returned as a JSON array.
func Flashcards(text string) string {
	return fmt.Sprintf(flashcardPrompt, text)
}

// ActionSteps asks for 3-4 steps that tie the summary to the user's goal and habit struggle.
func ActionSteps(summary, goal, habitStruggle string) string {
	return fmt.Sprintf(actionStepsPrompt, summary, goal, habitStruggle)
}
