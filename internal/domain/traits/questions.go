package traits

import (
	"fmt"
	"sort"
)

// Answer bounds on the Likert scale.
const (
	MinAnswer = 1
	MaxAnswer = 5
)

// Question is one Likert item of the personality questionnaire.
type Question struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Trait Trait  `json:"trait"`
}

// Questions is the fixed questionnaire. Some traits are asked twice.
var Questions = []Question{
	{ID: "q1", Text: "I prefer to lead new initiatives and take charge of projects.", Trait: Drive},
	{ID: "q2", Text: "I enjoy working closely with diverse teams and collaborators.", Trait: Collaboration},
	{ID: "q3", Text: "I am comfortable with technical complexity and low-level systems work.", Trait: Technical},
	{ID: "q4", Text: "I prefer stable, low-risk approaches over experimental ones.", Trait: RiskAversion},
	{ID: "q5", Text: "I like to move quickly and iterate rather than plan every detail.", Trait: Speed},
	{ID: "q6", Text: "I pay attention to regulatory, safety, and compliance details.", Trait: Compliance},
	{ID: "q7", Text: "I enjoy designing systems for scale (e.g., data centres, infrastructure).", Trait: Scale},
	{ID: "q8", Text: "I prefer working on long-term research rather than immediate product delivery.", Trait: LongTerm},
	{ID: "q9", Text: "I often take initiative to push projects past obstacles.", Trait: Drive},
	{ID: "q10", Text: "I actively seek input from others and value diverse perspectives.", Trait: Collaboration},
	{ID: "q11", Text: "I enjoy debugging and solving low-level technical problems.", Trait: Technical},
	{ID: "q12", Text: "I prefer rapid prototyping and testing ideas quickly.", Trait: Speed},
}

// Assessment is the aggregated result of a questionnaire submission.
type Assessment struct {
	Answers    map[string]int
	Averages   Raw
	Normalized Normalized
}

func questionByID(id string) (Question, bool) {
	for _, q := range Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// Aggregate averages answers per trait and normalizes the averages.
// Unanswered questions are skipped; an empty submission is ErrNoAnswers.
func Aggregate(answers map[string]int) (Assessment, error) {
	if len(answers) == 0 {
		return Assessment{}, ErrNoAnswers
	}

	ids := make([]string, 0, len(answers))
	for id := range answers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var sums, counts [Count]float64
	kept := make(map[string]int, len(answers))
	for _, id := range ids {
		q, ok := questionByID(id)
		if !ok {
			return Assessment{}, fmt.Errorf("%w: %q", ErrUnknownQuestion, id)
		}
		v := answers[id]
		if v < MinAnswer || v > MaxAnswer {
			return Assessment{}, fmt.Errorf("%w: %s=%d", ErrInvalidAnswer, id, v)
		}
		kept[id] = v
		sums[q.Trait] += float64(v)
		counts[q.Trait]++
	}

	var avg Raw
	for i := range sums {
		if counts[i] > 0 {
			avg.Set(Trait(i), sums[i]/counts[i])
		}
	}
	return Assessment{
		Answers:    kept,
		Averages:   avg,
		Normalized: Normalize(avg),
	}, nil
}
