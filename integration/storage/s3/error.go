package s3

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

var (
	ErrInvalidConfig      = errors.New("s3: bucket and region are required")
	ErrInvalidKey         = errors.New("s3: invalid object key")
	ErrObjectNotFound     = errors.New("s3: object not found")
	ErrBucketNotFound     = errors.New("s3: bucket not found")
	ErrAccessDenied       = errors.New("s3: access denied")
	ErrRequestTimeout     = errors.New("s3: request timeout")
	ErrServiceUnavailable = errors.New("s3: service unavailable")
	ErrOperationTimeout   = errors.New("s3: operation timeout")
	ErrOperationCanceled  = errors.New("s3: operation canceled")
)

// classifyS3Error converts S3 errors to the package sentinels. Context
// errors win over API errors so cancellation stays recognizable.
func classifyS3Error(err error, operation string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s", ErrOperationTimeout, operation)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %s", ErrOperationCanceled, operation)
	}

	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return fmt.Errorf("%w: %s", ErrObjectNotFound, operation)
	}
	var nsb *types.NoSuchBucket
	if errors.As(err, &nsb) {
		return fmt.Errorf("%w: %s", ErrBucketNotFound, operation)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch code := apiErr.ErrorCode(); code {
		case "AccessDenied":
			return fmt.Errorf("%w: %s", ErrAccessDenied, operation)
		case "RequestTimeout":
			return fmt.Errorf("%w: %s", ErrRequestTimeout, operation)
		case "SlowDown", "ServiceUnavailable":
			return fmt.Errorf("%w: %s", ErrServiceUnavailable, operation)
		case "NoSuchKey", "NotFound":
			return fmt.Errorf("%w: %s", ErrObjectNotFound, operation)
		case "NoSuchBucket":
			return fmt.Errorf("%w: %s", ErrBucketNotFound, operation)
		default:
			return fmt.Errorf("%s failed (code: %s): %w", operation, code, err)
		}
	}

	return fmt.Errorf("%s failed: %w", operation, err)
}
