package main

import (
	"context"
	"log"

	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/config"
	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/fraud_detection"
	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/handlers"
	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/messaging"
	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/observability"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/codepipeline"
	"github.com/aws/aws-sdk-go-v2/service/frauddetector"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-lambda-go/otellambda"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-lambda-go/otellambda/xrayconfig"
	"go.opentelemetry.io/contrib/propagators/aws/xray"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

const crossAccountSessionName = "cross_acct_lambda"

func main() {
	ctx := context.Background()
	config.InitializeConfig()

	logger, err := observability.NewLogger(config.PipelineConfig.LogLevel)
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	awsConf, err := config.LoadAWSConfig(ctx)
	if err != nil {
		logger.Fatal("Error loading AWS config in lambda initialization", zap.Error(err))
	}

	// Credentials for the model account are derived again on every invocation
	newClient := func(ctx context.Context, roleArn string) (fraud_detection.FraudDetectorAPI, error) {
		cfg := config.AssumeRoleConfig(awsConf.Config, roleArn, crossAccountSessionName)
		return frauddetector.NewFromConfig(cfg), nil
	}

	reporter := messaging.NewCodePipelineReporter(codepipeline.NewFromConfig(awsConf.Config))
	pollers := map[string]fraud_detection.TrainingStatusPoller{
		handlers.TrainingTypeFraudDetector: fraud_detection.NewTrainingStatusPoller(newClient, logger),
	}
	handler := handlers.NewTrainingPollHandler(reporter, pollers, logger)

	// Initialize OpenTelemetry
	tp, err := xrayconfig.NewTracerProvider(ctx)
	if err != nil {
		logger.Fatal("Error initializing OpenTelemetry tracer provider", zap.Error(err))
	}

	defer func(ctx context.Context) {
		if err := tp.Shutdown(ctx); err != nil {
			logger.Warn("Error shutting down OpenTelemetry tracer provider", zap.Error(err))
		}
	}(ctx)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(xray.Propagator{})

	lambda.Start(otellambda.InstrumentHandler(handler.HandleCodePipelineJob, xrayconfig.WithRecommendedOptions(tp)...))
}
