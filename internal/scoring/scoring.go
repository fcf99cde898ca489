// Package scoring turns a free-text interview answer into heuristic sub-scores.
//
// The engine is a pure function: the same answer and keyword list always yield
// the same result, every score is within [0, 100] and at least one suggestion
// is produced.
package scoring

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dtroode/interview-assistant/internal/model"
)

const (
	SuggestDetail      = "Provide more detailed explanations with examples."
	SuggestTerminology = "Incorporate key technical terms and concepts relevant to the question."
	SuggestExpand      = "Expand your answer to cover reasoning, steps, and edge cases."
	SuggestRefine      = "Great structure and coverage. Consider highlighting trade-offs and time/space complexity if applicable."
)

const (
	communicationBase = 50
	completenessBase  = 40
	noKeywordsScore   = 60
	maxScore          = 100
)

var (
	wordPattern       = regexp.MustCompile(`[\p{L}\p{N}_]+`)
	terminatorPattern = regexp.MustCompile(`[.!?]`)
)

// Score grades answer against a comma-separated list of expected keywords.
func Score(answer, expectedKeywords string) model.ScoreResult {
	text := strings.TrimSpace(answer)

	words := len(wordPattern.FindAllString(text, -1))
	sentences := max(1, len(terminatorPattern.FindAllString(text, -1)))
	avgLen := float64(words) / float64(sentences)

	keywords := ParseKeywords(expectedKeywords)
	matched := countMatches(strings.ToLower(text), keywords)

	communication := communicationScore(avgLen)
	correctness := correctnessScore(matched, len(keywords))
	completeness := completenessScore(words)

	return model.ScoreResult{
		Communication:   communication,
		Correctness:     correctness,
		Completeness:    completeness,
		Overall:         overallScore(communication, correctness, completeness),
		Suggestions:     suggestions(avgLen, matched, len(keywords), words),
		WordCount:       words,
		SentenceCount:   sentences,
		MatchedKeywords: matched,
		TotalKeywords:   len(keywords),
	}
}

// ParseKeywords splits a comma-separated keyword list into trimmed lower-case terms.
// Empty terms are dropped.
func ParseKeywords(raw string) []string {
	var keywords []string
	for _, part := range strings.Split(raw, ",") {
		if kw := strings.ToLower(strings.TrimSpace(part)); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}

func countMatches(lowered string, keywords []string) int {
	matched := 0
	for _, kw := range keywords {
		if containsWord(lowered, kw) {
			matched++
		}
	}
	return matched
}

// containsWord reports whether kw occurs in text with no word character
// directly before or after it. Word characters are the ones wordPattern matches.
func containsWord(text, kw string) bool {
	for offset := 0; offset <= len(text); {
		i := strings.Index(text[offset:], kw)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(kw)

		before, _ := utf8.DecodeLastRuneInString(text[:start])
		after, _ := utf8.DecodeRuneInString(text[end:])
		if !isWordRune(before) && !isWordRune(after) {
			return true
		}

		_, size := utf8.DecodeRuneInString(text[start:])
		offset = start + max(1, size)
	}
	return false
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

func communicationScore(avgLen float64) int {
	score := communicationBase
	switch {
	case avgLen >= 10 && avgLen <= 25:
		score += 35
	case avgLen >= 6 && avgLen < 10, avgLen > 25 && avgLen <= 35:
		score += 20
	default:
		score += 10
	}
	return clamp(score)
}

func correctnessScore(matched, total int) int {
	if total == 0 {
		return noKeywordsScore
	}
	return clamp(50 + 50*matched/total)
}

func completenessScore(words int) int {
	score := completenessBase
	switch {
	case words >= 80:
		score += 40
	case words >= 40:
		score += 30
	case words >= 20:
		score += 20
	default:
		score += 10
	}
	return clamp(score)
}

func overallScore(communication, correctness, completeness int) int {
	// explicit conversions keep each product rounded separately
	weighted := float64(0.35*float64(communication)) +
		float64(0.35*float64(correctness)) +
		float64(0.30*float64(completeness))
	return clamp(int(weighted))
}

func suggestions(avgLen float64, matched, total, words int) []string {
	var out []string
	if avgLen < 10 {
		out = append(out, SuggestDetail)
	}
	if matched < total {
		out = append(out, SuggestTerminology)
	}
	if words < 40 {
		out = append(out, SuggestExpand)
	}
	if len(out) == 0 {
		out = append(out, SuggestRefine)
	}
	return out
}

func clamp(score int) int {
	return min(maxScore, max(0, score))
}
