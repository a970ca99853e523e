package messaging

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/codepipeline"
	"github.com/aws/aws-sdk-go-v2/service/codepipeline/types"
)

// CodePipelineAPI is the part of *codepipeline.Client used to answer job workers.
type CodePipelineAPI interface {
	PutJobSuccessResult(ctx context.Context, params *codepipeline.PutJobSuccessResultInput, optFns ...func(*codepipeline.Options)) (*codepipeline.PutJobSuccessResultOutput, error)
	PutJobFailureResult(ctx context.Context, params *codepipeline.PutJobFailureResultInput, optFns ...func(*codepipeline.Options)) (*codepipeline.PutJobFailureResultOutput, error)
}

// JobReporter reports the outcome of one invocation of a pipeline job.
type JobReporter interface {
	// ReportSuccess completes the job when continuationToken is empty, otherwise CodePipeline
	// invokes the job again with the token.
	ReportSuccess(ctx context.Context, jobID, continuationToken string) error
	ReportFailure(ctx context.Context, jobID, message string) error
}

type CodePipelineReporter struct {
	Client CodePipelineAPI
}

func NewCodePipelineReporter(client CodePipelineAPI) *CodePipelineReporter {
	return &CodePipelineReporter{Client: client}
}

func (r *CodePipelineReporter) ReportSuccess(ctx context.Context, jobID, continuationToken string) error {
	input := &codepipeline.PutJobSuccessResultInput{
		JobId: aws.String(jobID),
	}
	if continuationToken != "" {
		input.ContinuationToken = aws.String(continuationToken)
	}

	if _, err := r.Client.PutJobSuccessResult(ctx, input); err != nil {
		return fmt.Errorf("failed to report success for job %s: %w", jobID, err)
	}
	return nil
}

func (r *CodePipelineReporter) ReportFailure(ctx context.Context, jobID, message string) error {
	_, err := r.Client.PutJobFailureResult(ctx, &codepipeline.PutJobFailureResultInput{
		JobId: aws.String(jobID),
		FailureDetails: &types.FailureDetails{
			Type:    types.FailureTypeJobFailed,
			Message: aws.String(message),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to report failure for job %s: %w", jobID, err)
	}
	return nil
}
