package dynamodb

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
)

func TestHasConditionalCheckFailure(t *testing.T) {
	t.Run("a failed condition is a definitive rejection", func(t *testing.T) {
		canceled := &types.TransactionCanceledException{
			CancellationReasons: []types.CancellationReason{
				{Code: aws.String("None")},
				{Code: aws.String("ConditionalCheckFailed")},
				{Code: aws.String("None")},
			},
		}
		assert.True(t, hasConditionalCheckFailure(canceled))
	})

	t.Run("conflict and throttling cancellations are transient", func(t *testing.T) {
		for _, code := range []string{"TransactionConflict", "ThrottlingError", "ProvisionedThroughputExceeded"} {
			canceled := &types.TransactionCanceledException{
				CancellationReasons: []types.CancellationReason{
					{Code: aws.String("None")},
					{Code: aws.String(code)},
				},
			}
			assert.False(t, hasConditionalCheckFailure(canceled), code)
		}
	})

	t.Run("no recorded reasons is not a condition failure", func(t *testing.T) {
		assert.False(t, hasConditionalCheckFailure(&types.TransactionCanceledException{}))
	})
}
