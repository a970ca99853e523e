package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/features"
	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/models"
	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/services"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	defaultEventTypeName = "demoevent"
	defaultEntityType    = "democustomer"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train a new model version",
	Long: `Creates the event type and its variables and labels, creates the model when it does
not exist yet and triggers training of a new model version.

Variables are inferred from --sampledata, a CSV subset of the training data with an
EVENT_LABEL column. Without it the demo email and ip variables are used.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		s3uri, _ := cmd.Flags().GetString("s3uri")
		sampleData, _ := cmd.Flags().GetString("sampledata")
		modelName, _ := cmd.Flags().GetString("model")
		modelType, _ := cmd.Flags().GetString("model-type")
		role, _ := cmd.Flags().GetString("role")
		eventName, _ := cmd.Flags().GetString("event")
		entity, _ := cmd.Flags().GetString("entity")
		wait, _ := cmd.Flags().GetBool("wait")
		fraudLabels, _ := cmd.Flags().GetStringSlice("fraud-label")
		categorical, _ := cmd.Flags().GetStringSlice("categorical")

		a, err := newApp(ctx)
		if err != nil {
			return err
		}

		role, err = a.dataAccessRole(ctx, role)
		if err != nil {
			return err
		}
		if role == "" {
			return errors.New("--role is required when FD_PIPELINE_SECRET is not set")
		}

		var variables features.FeatureVariables = features.NewDemoFeatureVariables(a.utils)
		if sampleData != "" {
			f, err := os.Open(sampleData)
			if err != nil {
				return fmt.Errorf("failed to open sample data: %w", err)
			}
			defer f.Close()

			variables, err = features.NewDynamicFeatureVariables(f, fraudLabels, nil, categorical, a.utils)
			if err != nil {
				return err
			}
		}

		eventService := services.NewEventService(a.client, logger)
		err = eventService.CreateEvent(ctx, services.CreateEventRequest{
			EventTypeName:    eventName,
			EventDescription: "This is a demo event",
			EntityTypeName:   entity,
		}, variables)
		if err != nil {
			return err
		}

		trainer := services.NewTrainingService(a.client, a.utils, a.recorder, logger)
		trainer.Out = cmd.OutOrStdout()
		status, err := trainer.Run(ctx, services.TrainRequest{
			ModelName:            modelName,
			ModelDescription:     "This is a demo model",
			ModelType:            modelType,
			TrainingDataLocation: s3uri,
			RoleArn:              role,
			EventTypeName:        eventName,
			Wait:                 wait,
		}, variables)
		if err != nil {
			return err
		}

		logger.Info("Model version status",
			zap.String("model", aws.ToString(status.ModelId)),
			zap.String("version", aws.ToString(status.ModelVersionNumber)),
			zap.String("status", aws.ToString(status.Status)),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(trainCmd)

	trainCmd.Flags().String("s3uri", "", "the s3 training data file url")
	trainCmd.Flags().String("sampledata", "", "CSV subset of the training data used to create the variables")
	trainCmd.Flags().String("model", "demo_model", "the name of the model")
	trainCmd.Flags().String("model-type", models.ModelTypeOnlineFraudInsights, "the model type")
	trainCmd.Flags().String("role", "", "role arn Fraud Detector uses to read the training data (default from FD_PIPELINE_SECRET)")
	trainCmd.Flags().String("event", defaultEventTypeName, "the name of the event type")
	trainCmd.Flags().String("entity", defaultEntityType, "the name of the entity type")
	trainCmd.Flags().Bool("wait", false, "wait until the training job completes")
	trainCmd.Flags().StringSlice("fraud-label", []string{"1"}, "EVENT_LABEL values that mark fraud")
	trainCmd.Flags().StringSlice("categorical", nil, "sample columns to treat as categorical")
	_ = trainCmd.MarkFlagRequired("s3uri")
}
