package response

// Header names used when rendering bodies.
const (
	HeaderAccept             = "Accept"
	HeaderAuthorization      = "Authorization"
	HeaderCacheControl       = "Cache-Control"
	HeaderContentDisposition = "Content-Disposition"
	HeaderContentLength      = "Content-Length"
	HeaderContentType        = "Content-Type"
	HeaderETag               = "ETag"
	HeaderExpires            = "Expires"
	HeaderPragma             = "Pragma"
	HeaderRequestID          = "X-Request-ID"
	HeaderTrailer            = "Trailer"
	HeaderXAccelBuffering    = "X-Accel-Buffering"
	HeaderXContentTypeOpts   = "X-Content-Type-Options"
)

// Content types.
const (
	ContentTypeCSS         = "text/css; charset=utf-8"
	ContentTypeEventStream = "text/event-stream"
	ContentTypeForm        = "application/x-www-form-urlencoded"
	ContentTypeGIF         = "image/gif"
	ContentTypeHTML        = "text/html; charset=utf-8"
	ContentTypeJPEG        = "image/jpeg"
	ContentTypeJavaScript  = "application/javascript"
	ContentTypeJSON        = "application/json; charset=utf-8"
	ContentTypeMsgpack     = "application/msgpack"
	ContentTypeMultipart   = "multipart/form-data"
	ContentTypeNDJSON      = "application/x-ndjson"
	ContentTypeOctetStream = "application/octet-stream"
	ContentTypePDF         = "application/pdf"
	ContentTypePNG         = "image/png"
	ContentTypeSVG         = "image/svg+xml"
	ContentTypeText        = "text/plain; charset=utf-8"
	ContentTypeXML         = "text/xml; charset=utf-8"
)
