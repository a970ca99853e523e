package cmd

import (
	"encoding/json"
	"errors"

	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/config"
	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/fraud_detection"
	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/models"
	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/rules"
	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/services"
	"github.com/spf13/cobra"
)

const defaultScoreThreshold = 950

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Deploy a detector version",
	Long: `Deploys a detector version with its rules and model versions.

With --file the detector, rules and models are read from a YAML or JSON deploy file.
Otherwise a single model version is deployed with one model score rule.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}

		req, err := deployRequestFromFlags(cmd, a.utils)
		if err != nil {
			return err
		}

		deployer := services.NewDeployService(a.client, a.utils, a.recorder, logger)
		result, err := deployer.Deploy(ctx, *req)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func deployRequestFromFlags(cmd *cobra.Command, utils fraud_detection.FraudDetectorUtils) (*services.DeployRequest, error) {
	if path, _ := cmd.Flags().GetString("file"); path != "" {
		file, err := config.LoadDeployFile(path)
		if err != nil {
			return nil, err
		}
		return &services.DeployRequest{
			DetectorID:          file.DetectorID,
			DetectorDescription: file.DetectorDescription,
			EventTypeName:       file.EventTypeName,
			Rules:               file.DetectorRules(utils),
			RuleExecutionMode:   file.RuleExecutionMode,
			ModelVersions:       file.Models,
		}, nil
	}

	modelName, _ := cmd.Flags().GetString("model")
	modelVersion, _ := cmd.Flags().GetString("model-version")
	modelDesc, _ := cmd.Flags().GetString("model-desc")
	detector, _ := cmd.Flags().GetString("detector")
	detectorDesc, _ := cmd.Flags().GetString("detector-desc")
	eventName, _ := cmd.Flags().GetString("event")
	threshold, _ := cmd.Flags().GetFloat64("threshold")

	if modelName == "" || modelVersion == "" || detector == "" {
		return nil, errors.New("--model, --model-version and --detector are required without --file")
	}
	version, err := models.NormalizeModelVersion(modelVersion)
	if err != nil {
		return nil, err
	}

	return &services.DeployRequest{
		DetectorID:          detector,
		DetectorDescription: detectorDesc,
		EventTypeName:       eventName,
		Rules: []fraud_detection.DetectorRule{
			rules.NewModelScorePositiveRule("positivescorerule", modelName, threshold),
		},
		RuleExecutionMode: services.ExecutionModeFirstMatched,
		ModelVersions: []models.ModelVersionRef{{
			ModelID:       modelName,
			ModelType:     models.ModelTypeOnlineFraudInsights,
			VersionNumber: version,
			Description:   modelDesc,
		}},
	}, nil
}

func init() {
	rootCmd.AddCommand(deployCmd)

	deployCmd.Flags().StringP("file", "f", "", "deploy file (YAML or JSON)")
	deployCmd.Flags().String("model", "", "the name of the model")
	deployCmd.Flags().String("model-version", "", "version of the model, e.g. 1.0")
	deployCmd.Flags().String("model-desc", "Demo sample", "model version description")
	deployCmd.Flags().String("detector", "", "the name of the detector")
	deployCmd.Flags().String("detector-desc", "Demo sample", "detector description")
	deployCmd.Flags().String("event", defaultEventTypeName, "the name of the event type")
	deployCmd.Flags().Float64("threshold", defaultScoreThreshold, "model score threshold of the positive rule")
}
