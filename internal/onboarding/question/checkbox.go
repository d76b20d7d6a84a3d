package question

type Checkbox struct {
	question Question
}

func NewCheckbox(q Question) Checkbox {
	return Checkbox{question: q}
}

func (c Checkbox) Question() Question {
	return c.question
}

// Validate accepts only the literal strings "true" and "false".
func (c Checkbox) Validate(value string) error {
	if value == "true" || value == "false" {
		return nil
	}

	return ErrInvalidBoolean{
		QuestionID: c.question.ID.String(),
		RawValue:   value,
	}
}
