package config

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"regexp"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/joho/godotenv"
)

const projectDirName = "GreenFlagML"

// PipelineSecrets are the role ARNs kept in Secrets Manager.
type PipelineSecrets struct {
	DataAccessRoleArn   string `json:"dataAccessRoleArn"`
	CrossAccountRoleArn string `json:"crossAccountRoleArn"`
}

// LoadEnv loads environment variables from a .env file
func LoadEnv() {
	projectName := regexp.MustCompile(`^(.*` + projectDirName + `)`)
	currentWorkDirectory, _ := os.Getwd()
	rootPath := projectName.Find([]byte(currentWorkDirectory))

	// Try to load .env from project root
	err := godotenv.Load(string(rootPath) + `/.env`)
	if err != nil {
		// Fallback to current directory
		if err := godotenv.Load(); err != nil {
			log.Println("Warning: No .env file found, using the process environment")
		}
	} else {
		log.Printf("Loaded environment from %s/.env", string(rootPath))
	}
}

// PipelineConfig stores the settings shared by the pipeline commands
var PipelineConfig = &struct {
	Region       string
	PollInterval time.Duration
	SecretName   string
	LogLevel     string
}{}

// LedgerConfig stores the audit ledger table settings. An empty table name disables the ledger.
var LedgerConfig = &struct {
	TableName    string
	Endpoint     string
	PartitionKey string
}{}

// NotifyConfig stores the lifecycle notification channels. Empty values disable a channel.
var NotifyConfig = &struct {
	TopicArn string
	QueueURL string
}{}

// AWSConfig stores AWS-specific configurations
type AWSConfig struct {
	Region string
	Config aws.Config
}

// GetEnv retrieves an environment variable or returns a default value
func GetEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// GetDurationEnv parses a Go duration from the environment, returning fallback when unset or invalid.
func GetDurationEnv(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		log.Printf("Warning: invalid duration %q for %s, using %s", value, key, fallback)
		return fallback
	}
	return d
}

// LoadAWSConfig loads the default credential chain for the configured region. Static keys
// from the environment take precedence when present.
func LoadAWSConfig(ctx context.Context) (*AWSConfig, error) {
	region := GetEnv("AWS_REGION", "us-east-1")

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if accessKey := GetEnv("AWS_ACCESS_KEY_ID", ""); accessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.StaticCredentialsProvider{
			Value: aws.Credentials{
				AccessKeyID:     accessKey,
				SecretAccessKey: GetEnv("AWS_SECRET_ACCESS_KEY", ""),
				SessionToken:    GetEnv("AWS_SESSION_TOKEN", ""),
			},
		}))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &AWSConfig{
		Region: region,
		Config: cfg,
	}, nil
}

// AssumeRoleConfig returns a copy of base whose credentials come from assuming roleArn.
func AssumeRoleConfig(base aws.Config, roleArn, sessionName string) aws.Config {
	stsClient := sts.NewFromConfig(base)
	provider := stscreds.NewAssumeRoleProvider(stsClient, roleArn, func(o *stscreds.AssumeRoleOptions) {
		o.RoleSessionName = sessionName
	})

	cfg := base.Copy()
	cfg.Credentials = aws.NewCredentialsCache(provider)
	return cfg
}

// InitializeConfig initializes the configuration by loading environment variables
func InitializeConfig() {
	LoadEnv()

	PipelineConfig.Region = GetEnv("AWS_REGION", "us-east-1")
	PipelineConfig.PollInterval = GetDurationEnv("FD_POLL_INTERVAL", 60*time.Second)
	PipelineConfig.SecretName = GetEnv("FD_PIPELINE_SECRET", "")
	PipelineConfig.LogLevel = GetEnv("LOG_LEVEL", "info")

	LedgerConfig.TableName = GetEnv("FD_LEDGER_TABLE", "")
	LedgerConfig.Endpoint = GetEnv("FD_LEDGER_ENDPOINT", "")
	LedgerConfig.PartitionKey = "RecordID"

	NotifyConfig.TopicArn = GetEnv("FD_NOTIFY_TOPIC_ARN", "")
	NotifyConfig.QueueURL = GetEnv("FD_NOTIFY_QUEUE_URL", "")
}

// SecretsManagerAPI is the part of *secretsmanager.Client used to read pipeline secrets.
type SecretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

func LoadPipelineSecrets(ctx context.Context, svc SecretsManagerAPI, secretName string) (*PipelineSecrets, error) {
	input := &secretsmanager.GetSecretValueInput{
		SecretId:     aws.String(secretName),
		VersionStage: aws.String("AWSCURRENT"), // default stage
	}

	result, err := svc.GetSecretValue(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve secret: %w", err)
	}
	if result.SecretString == nil {
		return nil, fmt.Errorf("secret %s has no string value", secretName)
	}

	var secrets PipelineSecrets
	if err := json.Unmarshal([]byte(*result.SecretString), &secrets); err != nil {
		return nil, fmt.Errorf("failed to parse secret JSON: %w", err)
	}

	return &secrets, nil
}
