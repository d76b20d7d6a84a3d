package answer

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"
)

func TestBuildWorkbook(t *testing.T) {
	t.Parallel()

	submittedAt := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	rows := []ListByQuestionnaireIDRow{
		{
			ID:            uuid.New(),
			UserID:        uuid.New(),
			UserName:      "Tigist Alemu",
			QuestionID:    uuid.New(),
			QuestionTitle: "Do you smoke?",
			Value:         "No",
			CreatedAt:     pgtype.Timestamptz{Time: submittedAt, Valid: true},
		},
		{
			ID:            uuid.New(),
			UserID:        uuid.New(),
			UserName:      "Abebe Bikila",
			QuestionID:    uuid.New(),
			QuestionTitle: "Pain level",
			Value:         "3",
			CreatedAt:     pgtype.Timestamptz{Time: submittedAt, Valid: true},
		},
	}

	f, err := BuildWorkbook(rows)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, f.Close())
	}()

	sheets := f.GetSheetList()
	require.Equal(t, []string{"Answers"}, sheets)

	header, err := f.GetCellValue("Answers", "A1")
	require.NoError(t, err)
	require.Equal(t, "User", header)

	name, err := f.GetCellValue("Answers", "A2")
	require.NoError(t, err)
	require.Equal(t, "Tigist Alemu", name)

	value, err := f.GetCellValue("Answers", "C3")
	require.NoError(t, err)
	require.Equal(t, "3", value)

	timestamp, err := f.GetCellValue("Answers", "D2")
	require.NoError(t, err)
	require.Equal(t, submittedAt.Format(time.RFC3339), timestamp)
}

func TestBuildWorkbook_Empty(t *testing.T) {
	t.Parallel()

	f, err := BuildWorkbook(nil)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, f.Close())
	}()

	header, err := f.GetCellValue("Answers", "B1")
	require.NoError(t, err)
	require.Equal(t, "Question", header)
}
