package question

// Answerable pairs a question with the validation rules of its type.
type Answerable interface {
	Question() Question

	// Validate checks if the provided answer value is valid according to the
	// question's type and constraints.
	Validate(value string) error
}

func NewAnswerable(q Question) (Answerable, error) {
	switch q.Type {
	case TypeText:
		return NewText(q), nil
	case TypeMultipleChoice:
		return NewMultipleChoice(q)
	case TypeRating:
		return NewRating(q), nil
	case TypeCheckbox:
		return NewCheckbox(q), nil
	default:
		return nil, ErrUnsupportedQuestionType{QuestionType: string(q.Type)}
	}
}
