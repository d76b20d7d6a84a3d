// Command seed fills a development database with fake users, a sample
// questionnaire, and ratings so the API has data to serve locally.
package main

import (
	"context"
	"fmt"
	"log"

	"CareSync/healthcare-backend/internal/category"
	"CareSync/healthcare-backend/internal/onboarding/question"
	"CareSync/healthcare-backend/internal/onboarding/questionnaire"
	"CareSync/healthcare-backend/internal/rating"
	"CareSync/healthcare-backend/internal/user"

	"CareSync/healthcare-backend/internal/config"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	patientCount   = 20
	physicianCount = 5
)

func main() {
	cfg, _ := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Failed to validate config: %v", err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	ctx := context.Background()

	dbPool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer dbPool.Close()

	userService := user.NewService(logger, dbPool)
	questionnaireService := questionnaire.NewService(logger, dbPool)
	questionService := question.NewService(logger, dbPool, questionnaireService)
	categoryService := category.NewService(logger, dbPool)
	ratingService := rating.NewService(logger, dbPool, userService)

	patients := make([]uuid.UUID, 0, patientCount)
	for range patientCount {
		u, err := userService.Create(ctx, fakePhone(), gofakeit.Name(), user.RolePatient)
		if err != nil {
			logger.Fatal("Failed to create patient", zap.Error(err))
		}
		patients = append(patients, u.ID)
	}

	physicians := make([]uuid.UUID, 0, physicianCount)
	for range physicianCount {
		u, err := userService.Create(ctx, fakePhone(), "Dr. "+gofakeit.Name(), user.RolePhysician)
		if err != nil {
			logger.Fatal("Failed to create physician", zap.Error(err))
		}
		physicians = append(physicians, u.ID)
	}

	qn, err := questionnaireService.Create(ctx, questionnaire.CreateInput{
		Title:       "Patient Intake",
		Description: "Initial onboarding questionnaire",
		UserRole:    string(user.RolePatient),
		IsActive:    true,
		OrderIndex:  1,
	})
	if err != nil {
		logger.Fatal("Failed to create questionnaire", zap.Error(err))
	}

	smoker, err := questionService.Create(ctx, question.CreateInput{
		QuestionnaireID: qn.ID,
		Title:           "Do you smoke?",
		Type:            question.TypeMultipleChoice,
		Required:        true,
		Options:         []string{"Yes", "No"},
		OrderIndex:      1,
	})
	if err != nil {
		logger.Fatal("Failed to create question", zap.Error(err))
	}

	inputs := []question.CreateInput{
		{
			QuestionnaireID:      qn.ID,
			Title:                "How many packs per day?",
			Type:                 question.TypeRating,
			Required:             true,
			OrderIndex:           2,
			DependsOnQuestionID:  uuid.NullUUID{UUID: smoker.Question().ID, Valid: true},
			DependsOnAnswerValue: "Yes",
		},
		{
			QuestionnaireID: qn.ID,
			Title:           "Describe your current symptoms",
			Type:            question.TypeText,
			OrderIndex:      3,
		},
		{
			QuestionnaireID: qn.ID,
			Title:           "Do you consent to data processing?",
			Type:            question.TypeCheckbox,
			Required:        true,
			OrderIndex:      4,
		},
	}
	for _, input := range inputs {
		if _, err := questionService.Create(ctx, input); err != nil {
			logger.Fatal("Failed to create question", zap.Error(err))
		}
	}

	for _, name := range []string{"Cardiology", "Dermatology", "Pediatrics"} {
		if _, err := categoryService.Create(ctx, name, gofakeit.Sentence(8)); err != nil {
			logger.Fatal("Failed to create category", zap.Error(err))
		}
	}

	for _, physicianID := range physicians {
		for _, patientID := range patients[:gofakeit.Number(1, len(patients))] {
			score := int32(gofakeit.Number(1, 5))
			if _, err := ratingService.Rate(ctx, patientID, physicianID, score, gofakeit.Sentence(6)); err != nil {
				logger.Fatal("Failed to create rating", zap.Error(err))
			}
		}
	}

	logger.Info("Seed complete",
		zap.Int("patients", len(patients)),
		zap.Int("physicians", len(physicians)),
		zap.String("questionnaire_id", qn.ID.String()))
}

func fakePhone() string {
	return fmt.Sprintf("09%08d", gofakeit.Number(0, 99999999))
}
