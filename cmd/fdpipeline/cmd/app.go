package cmd

import (
	"context"

	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/config"
	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/db"
	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/events"
	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/fraud_detection"
	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/messaging"
	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/services"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/frauddetector"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"go.uber.org/zap"
)

// app holds the clients shared by the commands.
type app struct {
	awsConfig  aws.Config
	client     fraud_detection.FraudDetectorAPI
	utils      *fraud_detection.GfFraudDetectorUtils
	recorder   *services.LifecycleRecorder
	repository db.DeploymentRepository
}

func newApp(ctx context.Context) (*app, error) {
	awsConf, err := config.LoadAWSConfig(ctx)
	if err != nil {
		return nil, err
	}

	interval := config.PipelineConfig.PollInterval
	if pollInterval > 0 {
		interval = pollInterval
	}

	client := frauddetector.NewFromConfig(awsConf.Config)
	poller := fraud_detection.NewStatusPoller(logger, interval)

	a := &app{
		awsConfig: awsConf.Config,
		client:    client,
		utils:     fraud_detection.NewFraudDetectorUtils(client, poller, logger),
	}

	if config.LedgerConfig.TableName != "" {
		dynamoClient := dynamodb.NewFromConfig(awsConf.Config, func(o *dynamodb.Options) {
			if config.LedgerConfig.Endpoint != "" {
				o.BaseEndpoint = aws.String(config.LedgerConfig.Endpoint)
			}
		})
		a.repository = db.NewDeploymentRepository(
			db.NewDynamoDBClient(dynamoClient, config.LedgerConfig.TableName, config.LedgerConfig.PartitionKey),
			logger,
		)
	}

	var dispatcher events.EventDispatcher
	if config.NotifyConfig.TopicArn != "" || config.NotifyConfig.QueueURL != "" {
		d := events.NewGfEventDispatcher(nil, nil)
		if config.NotifyConfig.TopicArn != "" {
			d.SNSMessenger = messaging.NewGfSNSMessenger(sns.NewFromConfig(awsConf.Config), config.NotifyConfig.TopicArn)
		}
		if config.NotifyConfig.QueueURL != "" {
			d.Queue = messaging.NewSQSHandler(sqs.NewFromConfig(awsConf.Config), config.NotifyConfig.QueueURL)
		}
		dispatcher = d
	}

	a.recorder = services.NewLifecycleRecorder(dispatcher, a.repository, logger)
	return a, nil
}

// dataAccessRole returns the flag value, or the role stored in the pipeline secret.
func (a *app) dataAccessRole(ctx context.Context, flagValue string) (string, error) {
	if flagValue != "" || config.PipelineConfig.SecretName == "" {
		return flagValue, nil
	}
	secrets, err := config.LoadPipelineSecrets(ctx, secretsmanager.NewFromConfig(a.awsConfig), config.PipelineConfig.SecretName)
	if err != nil {
		return "", err
	}
	logger.Debug("Using data access role from secret", zap.String("secret", config.PipelineConfig.SecretName))
	return secrets.DataAccessRoleArn, nil
}
