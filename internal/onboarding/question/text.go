package question

type Text struct {
	question Question
}

func NewText(q Question) Text {
	return Text{question: q}
}

func (t Text) Question() Question {
	return t.question
}

// Validate accepts any value, free-form text has no type constraints.
func (t Text) Validate(string) error {
	return nil
}
