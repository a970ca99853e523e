package cmd

import (
	"encoding/json"

	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/fraud_detection"
	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/models"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Score a single event against a deployed detector",
	Example: `  fdpipeline predict --detector demo_detector --entity-id c-1 \
    --var email=jane@example.com --var ip=10.0.0.1`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		req := models.PredictionRequest{}
		req.DetectorID, _ = cmd.Flags().GetString("detector")
		req.DetectorVersionID, _ = cmd.Flags().GetString("detector-version")
		req.EventID, _ = cmd.Flags().GetString("event-id")
		req.EventTypeName, _ = cmd.Flags().GetString("event")
		req.EntityType, _ = cmd.Flags().GetString("entity")
		req.EntityID, _ = cmd.Flags().GetString("entity-id")
		req.Variables, _ = cmd.Flags().GetStringToString("var")
		if req.EventID == "" {
			req.EventID = uuid.New().String()
		}

		a, err := newApp(ctx)
		if err != nil {
			return err
		}

		result, err := fraud_detection.NewGfAWSFraudDetector(a.client).PredictFraud(ctx, req)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	rootCmd.AddCommand(predictCmd)

	predictCmd.Flags().String("detector", "", "the name of the detector")
	predictCmd.Flags().String("detector-version", "", "detector version, the active one when empty")
	predictCmd.Flags().String("event-id", "", "event id (default a random uuid)")
	predictCmd.Flags().String("event", defaultEventTypeName, "the name of the event type")
	predictCmd.Flags().String("entity", defaultEntityType, "the name of the entity type")
	predictCmd.Flags().String("entity-id", "unknown", "the id of the entity")
	predictCmd.Flags().StringToString("var", nil, "event variable as name=value, repeatable")
}
