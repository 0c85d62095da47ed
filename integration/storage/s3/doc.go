// Package s3 streams Amazon S3 and S3-compatible objects as HTTP bodies.
//
// Downloads come back as streaming bodies that report the object size as an
// exact hint, so a response rendered from them carries a Content-Length.
// Uploads consume any body, including a request body still arriving from the
// client, without buffering it in memory.
//
// Basic usage:
//
//	import (
//		"context"
//
//		"github.com/dmitrymomot/httpbody/integration/storage/s3"
//	)
//
//	func main() {
//		ctx := context.Background()
//
//		storage, err := s3.New(ctx, s3.Config{
//			Bucket: "my-app-uploads",
//			Region: "us-east-1",
//		})
//		if err != nil {
//			panic(err)
//		}
//
//		obj, err := storage.Open(ctx, "reports/2024.csv")
//		if err != nil {
//			panic(err)
//		}
//		defer obj.Body.Close()
//	}
//
// # Uploads
//
// Put reads the body to completion and always closes it. When the body
// reports an exact size hint it is sent as the object's Content-Length:
//
//	func upload(w http.ResponseWriter, r *http.Request, in *body.Body) error {
//		res, err := storage.Put(r.Context(), r.PathValue("key"), in, r.Header.Get("Content-Type"))
//		if err != nil {
//			return err
//		}
//		log.Printf("stored %s (%d bytes)", res.Key, res.Size)
//		return nil
//	}
//
// # S3-compatible services
//
// Set Endpoint and, for most self-hosted services, ForcePathStyle:
//
//	cfg := s3.Config{
//		Bucket:         "uploads",
//		Region:         "us-east-1",
//		Endpoint:       "http://localhost:9000",
//		ForcePathStyle: true,
//	}
//
// # Configuration
//
// Config is populated from the environment by the config package:
//
//	S3_BUCKET, S3_REGION, S3_ACCESS_KEY_ID, S3_SECRET_KEY,
//	S3_ENDPOINT, S3_BASE_URL, S3_FORCE_PATH_STYLE
//
// Static credentials are used only when both keys are set; otherwise the
// default AWS credential chain applies.
//
// # Error Handling
//
// API failures are mapped to package sentinels:
//
//	obj, err := storage.Open(ctx, key)
//	if errors.Is(err, s3.ErrObjectNotFound) {
//		// 404
//	}
//
// Failures while reading an opened object surface from the body as
// source errors wrapping the same sentinels, so both body.ErrSource and
// s3.ErrOperationTimeout match a timed out download.
//
// # Testing
//
// Use WithS3Client to inject a mock implementing S3Client.
package s3
