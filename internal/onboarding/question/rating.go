package question

import "strconv"

type Rating struct {
	question Question
}

func NewRating(q Question) Rating {
	return Rating{question: q}
}

func (r Rating) Question() Question {
	return r.question
}

func (r Rating) Validate(value string) error {
	// An empty answer counts as zero. Required-ness is enforced separately,
	// so this only lets optional ratings through unanswered.
	if value == "" {
		return nil
	}

	if _, err := strconv.ParseFloat(value, 64); err != nil {
		return ErrNotANumber{
			QuestionID: r.question.ID.String(),
			RawValue:   value,
		}
	}

	return nil
}
