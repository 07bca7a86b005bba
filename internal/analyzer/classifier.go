package analyzer

import (
	"strings"

	"interviewlab/internal/model"
)

// Interrogative openers that mark a turn as a question even without a "?".
var questionOpeners = []string{
	"what", "how", "why", "when", "where", "can you", "could you", "tell me",
}

// Closed-form openers. These take precedence over the open heuristic:
// "can you ..." is a question either way, but it is always a closed one.
var closedOpeners = []string{
	"do you", "are you", "is it", "can you", "will you", "have you", "does it",
}

var greetingOpeners = []string{
	"hi", "hello", "hey", "good morning", "good afternoon", "thanks for", "thank you for",
}

var solutionTerms = []string{
	"solution", "fix", "implement", "change", "improve", "should", "need to",
}

// followUpLookback is how many turns back a counterpart turn may be for a
// user question to count as a follow-up.
const followUpLookback = 2

// Classify labels every turn of an ordered transcript. Pure function:
// identical input yields identical labels.
func Classify(turns []model.Turn, stage *model.StageDefinition) []model.TurnLabel {
	labels := make([]model.TurnLabel, 0, len(turns))
	for i, turn := range turns {
		text := strings.ToLower(strings.TrimSpace(turn.Text))

		label := model.TurnLabel{
			TurnIndex:                turn.Index,
			Speaker:                  turn.Speaker,
			TextLen:                  len(turn.Text),
			IsGreeting:               hasAnyPrefix(text, greetingOpeners),
			IsQuestion:               isQuestion(text),
			MentionsSolutionLanguage: containsAny(text, solutionTerms),
			MatchedAreas:             matchAreas(text, stage),
		}
		label.IsOpenQuestion = label.IsQuestion && !hasAnyPrefix(text, closedOpeners)

		if turn.Speaker == model.SpeakerUser && label.IsQuestion {
			label.IsFollowUp = followsCounterpart(turns, i)
		}

		labels = append(labels, label)
	}
	return labels
}

func isQuestion(text string) bool {
	return strings.Contains(text, "?") || hasAnyPrefix(text, questionOpeners)
}

// followsCounterpart reports whether a counterpart turn appears within the
// lookback window before turn i.
func followsCounterpart(turns []model.Turn, i int) bool {
	for j := i - 1; j >= 0 && j >= i-followUpLookback; j-- {
		switch turns[j].Speaker {
		case model.SpeakerCounterpart:
			return true
		case model.SpeakerUser:
			// An intervening user turn breaks the exchange.
			return false
		}
	}
	return false
}

func matchAreas(text string, stage *model.StageDefinition) []string {
	matched := []string{}
	for _, area := range stage.RequiredAreas {
		for _, kw := range area.Keywords {
			if strings.Contains(text, kw) {
				matched = append(matched, area.ID)
				break
			}
		}
	}
	return matched
}

func hasAnyPrefix(text string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(text, p) {
			return true
		}
	}
	return false
}

func containsAny(text string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}
