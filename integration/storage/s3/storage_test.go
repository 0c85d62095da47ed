package s3_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	s3aws "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/httpbody/core/body"
	"github.com/dmitrymomot/httpbody/integration/storage/s3"
)

type mockClient struct {
	getObject    func(*s3aws.GetObjectInput) (*s3aws.GetObjectOutput, error)
	putObject    func(*s3aws.PutObjectInput) (*s3aws.PutObjectOutput, error)
	headObject   func(*s3aws.HeadObjectInput) (*s3aws.HeadObjectOutput, error)
	deleteObject func(*s3aws.DeleteObjectInput) (*s3aws.DeleteObjectOutput, error)
	headBucket   func(*s3aws.HeadBucketInput) (*s3aws.HeadBucketOutput, error)

	createMultipart   func(*s3aws.CreateMultipartUploadInput) (*s3aws.CreateMultipartUploadOutput, error)
	uploadPart        func(*s3aws.UploadPartInput) (*s3aws.UploadPartOutput, error)
	completeMultipart func(*s3aws.CompleteMultipartUploadInput) (*s3aws.CompleteMultipartUploadOutput, error)
	abortMultipart    func(*s3aws.AbortMultipartUploadInput) (*s3aws.AbortMultipartUploadOutput, error)
}

func (m *mockClient) GetObject(_ context.Context, in *s3aws.GetObjectInput, _ ...func(*s3aws.Options)) (*s3aws.GetObjectOutput, error) {
	return m.getObject(in)
}

func (m *mockClient) PutObject(_ context.Context, in *s3aws.PutObjectInput, _ ...func(*s3aws.Options)) (*s3aws.PutObjectOutput, error) {
	return m.putObject(in)
}

func (m *mockClient) HeadObject(_ context.Context, in *s3aws.HeadObjectInput, _ ...func(*s3aws.Options)) (*s3aws.HeadObjectOutput, error) {
	return m.headObject(in)
}

func (m *mockClient) DeleteObject(_ context.Context, in *s3aws.DeleteObjectInput, _ ...func(*s3aws.Options)) (*s3aws.DeleteObjectOutput, error) {
	return m.deleteObject(in)
}

func (m *mockClient) HeadBucket(_ context.Context, in *s3aws.HeadBucketInput, _ ...func(*s3aws.Options)) (*s3aws.HeadBucketOutput, error) {
	return m.headBucket(in)
}

func (m *mockClient) CreateMultipartUpload(_ context.Context, in *s3aws.CreateMultipartUploadInput, _ ...func(*s3aws.Options)) (*s3aws.CreateMultipartUploadOutput, error) {
	return m.createMultipart(in)
}

func (m *mockClient) UploadPart(_ context.Context, in *s3aws.UploadPartInput, _ ...func(*s3aws.Options)) (*s3aws.UploadPartOutput, error) {
	return m.uploadPart(in)
}

func (m *mockClient) CompleteMultipartUpload(_ context.Context, in *s3aws.CompleteMultipartUploadInput, _ ...func(*s3aws.Options)) (*s3aws.CompleteMultipartUploadOutput, error) {
	return m.completeMultipart(in)
}

func (m *mockClient) AbortMultipartUpload(_ context.Context, in *s3aws.AbortMultipartUploadInput, _ ...func(*s3aws.Options)) (*s3aws.AbortMultipartUploadOutput, error) {
	return m.abortMultipart(in)
}

type trackedBody struct {
	io.Reader
	closed atomic.Bool
}

func (t *trackedBody) Close() error {
	t.closed.Store(true)
	return nil
}

type failingReader struct {
	data string
	err  error
	done bool
}

func (f *failingReader) Read(p []byte) (int, error) {
	if !f.done {
		f.done = true
		return copy(p, f.data), nil
	}
	return 0, f.err
}

func (f *failingReader) Close() error { return nil }

func newStorage(t *testing.T, client s3.S3Client, cfg ...s3.Config) *s3.Storage {
	t.Helper()
	c := s3.Config{Bucket: "uploads", Region: "eu-west-1"}
	if len(cfg) > 0 {
		c = cfg[0]
	}
	st, err := s3.New(context.Background(), c, s3.WithS3Client(client))
	require.NoError(t, err)
	return st
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("missing_bucket", func(t *testing.T) {
		t.Parallel()

		_, err := s3.New(context.Background(), s3.Config{Region: "us-east-1"})
		assert.ErrorIs(t, err, s3.ErrInvalidConfig)
	})

	t.Run("missing_region", func(t *testing.T) {
		t.Parallel()

		_, err := s3.New(context.Background(), s3.Config{Bucket: "b"})
		assert.ErrorIs(t, err, s3.ErrInvalidConfig)
	})
}

func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("streams_object_with_exact_hint", func(t *testing.T) {
		t.Parallel()

		payload := "id,total\n1,42\n"
		src := &trackedBody{Reader: strings.NewReader(payload)}
		var gotKey string
		st := newStorage(t, &mockClient{getObject: func(in *s3aws.GetObjectInput) (*s3aws.GetObjectOutput, error) {
			gotKey = aws.ToString(in.Key)
			assert.Equal(t, "uploads", aws.ToString(in.Bucket))
			return &s3aws.GetObjectOutput{
				Body:          src,
				ContentLength: aws.Int64(int64(len(payload))),
				ContentType:   aws.String("text/csv"),
				ETag:          aws.String(`"abc"`),
			}, nil
		}})

		obj, err := st.Open(context.Background(), "/reports/2024.csv")
		require.NoError(t, err)
		assert.Equal(t, "reports/2024.csv", gotKey)
		assert.Equal(t, "reports/2024.csv", obj.Key)
		assert.Equal(t, "text/csv", obj.ContentType)
		assert.Equal(t, `"abc"`, obj.ETag)
		assert.Equal(t, int64(len(payload)), obj.Size)

		size, ok := obj.Body.SizeHint().Exact()
		require.True(t, ok)
		assert.Equal(t, uint64(len(payload)), size)

		c, err := obj.Body.Collect(context.Background())
		require.NoError(t, err)
		assert.Equal(t, payload, string(c.Bytes()))

		require.NoError(t, obj.Body.Close())
		assert.True(t, src.closed.Load())
	})

	t.Run("unknown_length", func(t *testing.T) {
		t.Parallel()

		st := newStorage(t, &mockClient{getObject: func(*s3aws.GetObjectInput) (*s3aws.GetObjectOutput, error) {
			return &s3aws.GetObjectOutput{Body: io.NopCloser(strings.NewReader("x"))}, nil
		}})

		obj, err := st.Open(context.Background(), "k")
		require.NoError(t, err)
		assert.Equal(t, int64(-1), obj.Size)
		_, ok := obj.Body.SizeHint().Exact()
		assert.False(t, ok)
		require.NoError(t, obj.Body.Close())
	})

	t.Run("missing_object", func(t *testing.T) {
		t.Parallel()

		st := newStorage(t, &mockClient{getObject: func(*s3aws.GetObjectInput) (*s3aws.GetObjectOutput, error) {
			return nil, &types.NoSuchKey{}
		}})

		_, err := st.Open(context.Background(), "nope")
		assert.ErrorIs(t, err, s3.ErrObjectNotFound)
	})

	t.Run("read_failure_is_source_error", func(t *testing.T) {
		t.Parallel()

		st := newStorage(t, &mockClient{getObject: func(*s3aws.GetObjectInput) (*s3aws.GetObjectOutput, error) {
			return &s3aws.GetObjectOutput{
				Body:          &failingReader{data: "part", err: context.DeadlineExceeded},
				ContentLength: aws.Int64(100),
			}, nil
		}})

		obj, err := st.Open(context.Background(), "big.bin")
		require.NoError(t, err)

		c, err := obj.Body.Collect(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, body.ErrSource)
		assert.ErrorIs(t, err, s3.ErrOperationTimeout)
		assert.Equal(t, "part", string(c.Bytes()))
	})

	t.Run("invalid_key", func(t *testing.T) {
		t.Parallel()

		st := newStorage(t, &mockClient{})
		for _, key := range []string{"", "/", "../etc/passwd", "a/../b"} {
			_, err := st.Open(context.Background(), key)
			assert.ErrorIs(t, err, s3.ErrInvalidKey, key)
		}
	})
}

func TestPut(t *testing.T) {
	t.Parallel()

	t.Run("exact_body_sets_content_length", func(t *testing.T) {
		t.Parallel()

		var (
			uploaded      string
			contentLength *int64
			contentType   string
		)
		st := newStorage(t, &mockClient{putObject: func(in *s3aws.PutObjectInput) (*s3aws.PutObjectOutput, error) {
			data, err := io.ReadAll(in.Body)
			require.NoError(t, err)
			uploaded = string(data)
			contentLength = in.ContentLength
			contentType = aws.ToString(in.ContentType)
			return &s3aws.PutObjectOutput{ETag: aws.String(`"e1"`)}, nil
		}})

		b := body.FromString("hello s3")
		res, err := st.Put(context.Background(), "greeting.txt", b, "text/plain")
		require.NoError(t, err)

		assert.Equal(t, "hello s3", uploaded)
		require.NotNil(t, contentLength)
		assert.Equal(t, int64(8), *contentLength)
		assert.Equal(t, "text/plain", contentType)
		assert.Equal(t, &s3.PutResult{Key: "greeting.txt", ETag: `"e1"`, Size: 8}, res)

		assert.ErrorIs(t, b.PollFrame(body.NoopWaker()).Err(), body.ErrBodyClosed)
	})

	t.Run("streaming_body_is_buffered_for_length", func(t *testing.T) {
		t.Parallel()

		var (
			uploaded    string
			seekable    bool
			contentType string
		)
		st := newStorage(t, &mockClient{putObject: func(in *s3aws.PutObjectInput) (*s3aws.PutObjectOutput, error) {
			// The transport derives Content-Length from a seekable body.
			_, seekable = in.Body.(io.Seeker)
			data, err := io.ReadAll(in.Body)
			require.NoError(t, err)
			uploaded = string(data)
			contentType = aws.ToString(in.ContentType)
			return &s3aws.PutObjectOutput{ETag: aws.String(`"e2"`)}, nil
		}})

		ch := make(chan body.Chunk, 3)
		ch <- body.Chunk{Data: []byte("one,")}
		ch <- body.Chunk{Data: []byte("two,")}
		ch <- body.Chunk{Data: []byte("three")}
		close(ch)

		res, err := st.Put(context.Background(), "list.txt", body.FromChannel(ch), "")
		require.NoError(t, err)
		assert.Equal(t, "one,two,three", uploaded)
		assert.True(t, seekable)
		assert.Equal(t, "application/octet-stream", contentType)
		assert.Equal(t, int64(13), res.Size)
		assert.Equal(t, `"e2"`, res.ETag)
	})

	t.Run("large_streaming_body_uses_multipart", func(t *testing.T) {
		t.Parallel()

		const partSize = 5 << 20
		payload := strings.Repeat("x", partSize) + "tail"

		var (
			mu    sync.Mutex
			parts = map[int32]int{}
		)
		st, err := s3.New(context.Background(), s3.Config{Bucket: "uploads", Region: "eu-west-1"},
			s3.WithUploadPartSize(partSize),
			s3.WithS3Client(&mockClient{
				createMultipart: func(in *s3aws.CreateMultipartUploadInput) (*s3aws.CreateMultipartUploadOutput, error) {
					assert.Equal(t, "big.bin", aws.ToString(in.Key))
					return &s3aws.CreateMultipartUploadOutput{UploadId: aws.String("u1")}, nil
				},
				uploadPart: func(in *s3aws.UploadPartInput) (*s3aws.UploadPartOutput, error) {
					data, err := io.ReadAll(in.Body)
					if err != nil {
						return nil, err
					}
					mu.Lock()
					parts[aws.ToInt32(in.PartNumber)] = len(data)
					mu.Unlock()
					return &s3aws.UploadPartOutput{ETag: aws.String(fmt.Sprintf(`"p%d"`, aws.ToInt32(in.PartNumber)))}, nil
				},
				completeMultipart: func(in *s3aws.CompleteMultipartUploadInput) (*s3aws.CompleteMultipartUploadOutput, error) {
					assert.Equal(t, "u1", aws.ToString(in.UploadId))
					assert.Len(t, in.MultipartUpload.Parts, 2)
					return &s3aws.CompleteMultipartUploadOutput{ETag: aws.String(`"m1"`)}, nil
				},
			}),
		)
		require.NoError(t, err)

		res, err := st.Put(context.Background(), "big.bin", body.FromReader(strings.NewReader(payload)), "")
		require.NoError(t, err)
		assert.Equal(t, int64(len(payload)), res.Size)
		assert.Equal(t, `"m1"`, res.ETag)
		assert.Equal(t, map[int32]int{1: partSize, 2: 4}, parts)
	})

	t.Run("body_error_aborts_upload", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("client went away")
		st := newStorage(t, &mockClient{putObject: func(in *s3aws.PutObjectInput) (*s3aws.PutObjectOutput, error) {
			_, err := io.ReadAll(in.Body)
			return nil, err
		}})

		ch := make(chan body.Chunk, 2)
		ch <- body.Chunk{Data: []byte("partial")}
		ch <- body.Chunk{Err: boom}

		_, err := st.Put(context.Background(), "k", body.FromChannel(ch), "")
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("api_error", func(t *testing.T) {
		t.Parallel()

		st := newStorage(t, &mockClient{putObject: func(*s3aws.PutObjectInput) (*s3aws.PutObjectOutput, error) {
			return nil, &smithy.GenericAPIError{Code: "AccessDenied", Message: "denied"}
		}})

		b := body.FromString("x")
		_, err := st.Put(context.Background(), "k", b, "")
		assert.ErrorIs(t, err, s3.ErrAccessDenied)
		assert.True(t, b.IsEndStream(), "body is closed even when the upload fails")
	})

	t.Run("invalid_key_closes_body", func(t *testing.T) {
		t.Parallel()

		st := newStorage(t, &mockClient{})
		b := body.FromString("x")
		_, err := st.Put(context.Background(), "../x", b, "")
		assert.ErrorIs(t, err, s3.ErrInvalidKey)
		assert.ErrorIs(t, b.PollFrame(body.NoopWaker()).Err(), body.ErrBodyClosed)
	})
}

func TestDeleteAndExists(t *testing.T) {
	t.Parallel()

	var deleted string
	st := newStorage(t, &mockClient{
		deleteObject: func(in *s3aws.DeleteObjectInput) (*s3aws.DeleteObjectOutput, error) {
			deleted = aws.ToString(in.Key)
			return &s3aws.DeleteObjectOutput{}, nil
		},
		headObject: func(in *s3aws.HeadObjectInput) (*s3aws.HeadObjectOutput, error) {
			if aws.ToString(in.Key) == "present" {
				return &s3aws.HeadObjectOutput{}, nil
			}
			return nil, &smithy.GenericAPIError{Code: "NotFound"}
		},
	})

	require.NoError(t, st.Delete(context.Background(), "/old.txt"))
	assert.Equal(t, "old.txt", deleted)
	assert.ErrorIs(t, st.Delete(context.Background(), ""), s3.ErrInvalidKey)

	assert.True(t, st.Exists(context.Background(), "present"))
	assert.False(t, st.Exists(context.Background(), "absent"))
	assert.False(t, st.Exists(context.Background(), ".."))
}

func TestPing(t *testing.T) {
	t.Parallel()

	var bucket string
	st := newStorage(t, &mockClient{headBucket: func(in *s3aws.HeadBucketInput) (*s3aws.HeadBucketOutput, error) {
		bucket = aws.ToString(in.Bucket)
		return &s3aws.HeadBucketOutput{}, nil
	}})
	require.NoError(t, st.Ping(context.Background()))
	assert.Equal(t, "uploads", bucket)

	st = newStorage(t, &mockClient{headBucket: func(*s3aws.HeadBucketInput) (*s3aws.HeadBucketOutput, error) {
		return nil, &smithy.GenericAPIError{Code: "NoSuchBucket"}
	}})
	assert.ErrorIs(t, st.Ping(context.Background()), s3.ErrBucketNotFound)
}

func TestURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  s3.Config
		want string
	}{
		{
			name: "base_url",
			cfg:  s3.Config{Bucket: "b", Region: "us-east-1", BaseURL: "https://cdn.example.com/"},
			want: "https://cdn.example.com/a/b.txt",
		},
		{
			name: "custom_endpoint_path_style",
			cfg:  s3.Config{Bucket: "b", Region: "us-east-1", Endpoint: "http://localhost:9000", ForcePathStyle: true},
			want: "http://localhost:9000/b/a/b.txt",
		},
		{
			name: "custom_endpoint_virtual_host",
			cfg:  s3.Config{Bucket: "b", Region: "us-east-1", Endpoint: "https://storage.example.com"},
			want: "https://b.storage.example.com/a/b.txt",
		},
		{
			name: "aws_virtual_host",
			cfg:  s3.Config{Bucket: "b", Region: "eu-west-1"},
			want: "https://b.s3.eu-west-1.amazonaws.com/a/b.txt",
		},
		{
			name: "aws_path_style",
			cfg:  s3.Config{Bucket: "b", Region: "eu-west-1", ForcePathStyle: true},
			want: "https://s3.eu-west-1.amazonaws.com/b/a/b.txt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			st := newStorage(t, &mockClient{}, tt.cfg)
			assert.Equal(t, tt.want, st.URL("/a/b.txt"))
		})
	}
}

func TestErrorClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no_such_key", &types.NoSuchKey{}, s3.ErrObjectNotFound},
		{"no_such_bucket", &types.NoSuchBucket{}, s3.ErrBucketNotFound},
		{"not_found_code", &smithy.GenericAPIError{Code: "NotFound"}, s3.ErrObjectNotFound},
		{"access_denied", &smithy.GenericAPIError{Code: "AccessDenied"}, s3.ErrAccessDenied},
		{"request_timeout", &smithy.GenericAPIError{Code: "RequestTimeout"}, s3.ErrRequestTimeout},
		{"slow_down", &smithy.GenericAPIError{Code: "SlowDown"}, s3.ErrServiceUnavailable},
		{"deadline", context.DeadlineExceeded, s3.ErrOperationTimeout},
		{"canceled", context.Canceled, s3.ErrOperationCanceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			st := newStorage(t, &mockClient{getObject: func(*s3aws.GetObjectInput) (*s3aws.GetObjectOutput, error) {
				return nil, tt.err
			}})
			_, err := st.Open(context.Background(), "k")
			assert.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("unknown_code_keeps_cause", func(t *testing.T) {
		t.Parallel()

		cause := &smithy.GenericAPIError{Code: "InvalidObjectState"}
		st := newStorage(t, &mockClient{getObject: func(*s3aws.GetObjectInput) (*s3aws.GetObjectOutput, error) {
			return nil, cause
		}})
		_, err := st.Open(context.Background(), "k")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "InvalidObjectState")

		var apiErr smithy.APIError
		assert.ErrorAs(t, err, &apiErr)
	})
}
