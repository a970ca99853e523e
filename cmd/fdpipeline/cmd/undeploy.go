package cmd

import (
	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/models"
	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/services"
	"github.com/spf13/cobra"
)

var undeployCmd = &cobra.Command{
	Use:   "undeploy",
	Short: "Delete a detector and/or deactivate a model version",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		detector, _ := cmd.Flags().GetString("detector")
		modelName, _ := cmd.Flags().GetString("model")
		modelVersion, _ := cmd.Flags().GetString("model-version")

		if modelVersion != "" {
			v, err := models.NormalizeModelVersion(modelVersion)
			if err != nil {
				return err
			}
			modelVersion = v
		}

		a, err := newApp(ctx)
		if err != nil {
			return err
		}

		undeployer := services.NewUndeployService(a.client, a.utils, a.recorder, logger)
		return undeployer.Undeploy(ctx, detector, modelName, modelVersion)
	},
}

func init() {
	rootCmd.AddCommand(undeployCmd)

	undeployCmd.Flags().String("detector", "", "the name of the detector to delete")
	undeployCmd.Flags().String("model", "", "the name of the model to deactivate")
	undeployCmd.Flags().String("model-version", "", "version of the model to deactivate")
}
