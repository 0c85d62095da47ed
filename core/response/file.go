package response

import (
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrymomot/httpbody/core/body"
	"github.com/dmitrymomot/httpbody/core/handler"
)

// File creates a response that streams a file from the filesystem. The
// file size becomes the Content-Length. Missing files and directories
// yield 404.
func File(path string) handler.Response {
	return serveFile(path, "")
}

// Download is File with an attachment Content-Disposition. An empty
// filename uses the base name of path.
func Download(path string, filename string) handler.Response {
	if filename == "" {
		filename = filepath.Base(filepath.Clean(path))
	}
	return serveFile(path, filename)
}

func serveFile(path, attachment string) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		clean := filepath.Clean(path)
		f, err := os.Open(clean)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return ErrNotFound
			}
			return err
		}
		info, err := f.Stat()
		if err != nil {
			f.Close()
			return err
		}
		if info.IsDir() {
			f.Close()
			return ErrNotFound
		}

		if attachment != "" {
			w.Header().Set(HeaderContentDisposition, disposition(attachment))
		}
		b := body.FromReader(f, body.WithSizeHint(body.Exact(uint64(info.Size()))))
		return Body(b, contentTypeFor(clean, ""))(w, r)
	}
}

// Attachment creates a response for downloading in-memory data as a file.
// An empty contentType is derived from the filename extension.
func Attachment(data []byte, filename string, contentType string) handler.Response {
	return FileReader(body.FromBytes(data), filename, contentType)
}

// FileReader streams an arbitrary body as a downloadable file. Readers can
// be wrapped with body.FromReader.
func FileReader(b *body.Body, filename string, contentType string) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		w.Header().Set(HeaderContentDisposition, disposition(filename))
		return Body(b, contentTypeFor(filename, contentType))(w, r)
	}
}

func disposition(filename string) string {
	// Strip characters that would break out of the quoted header value.
	name := strings.NewReplacer("\n", "", "\r", "", `"`, "'").Replace(filename)
	return fmt.Sprintf(`attachment; filename="%s"`, name)
}

func contentTypeFor(name, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return ContentTypeOctetStream
}

