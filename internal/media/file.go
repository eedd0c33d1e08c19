package media

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Kind is the coarse class of a media file.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// KindFor derives the kind from a declared content type. Anything that is not
// video/* is treated as an image.
func KindFor(contentType string) Kind {
	if strings.HasPrefix(normalizeType(contentType), "video/") {
		return KindVideo
	}
	return KindImage
}

// Supported reports whether contentType is image/* or video/*.
func Supported(contentType string) bool {
	ct := normalizeType(contentType)
	return strings.HasPrefix(ct, "image/") || strings.HasPrefix(ct, "video/")
}

func normalizeType(contentType string) string {
	return strings.ToLower(strings.TrimSpace(contentType))
}

// File is a user-supplied file with a declared content type.
type File struct {
	Name        string
	Path        string // empty for in-memory files
	ContentType string
	Size        int64

	data []byte
}

// NewFile builds an in-memory file.
func NewFile(name, contentType string, data []byte) File {
	return File{
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(data)),
		data:        data,
	}
}

// OpenFile stats path and declares its content type from the extension, falling
// back to sniffing the first bytes.
func OpenFile(path string) (File, error) {
	abs, err := filepath.Abs(strings.TrimSpace(path))
	if err != nil {
		return File{}, fmt.Errorf("resolve media path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return File{}, fmt.Errorf("stat media: %w", err)
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("stat media: %s is a directory", abs)
	}

	f := File{Name: info.Name(), Path: abs, Size: info.Size()}
	f.ContentType = DeclaredType(f.Name, nil)
	if f.ContentType == "" {
		head, err := readHead(abs)
		if err != nil {
			return File{}, err
		}
		f.ContentType = DeclaredType(f.Name, head)
	}
	return f, nil
}

// Open returns a reader over the payload.
func (f File) Open() (io.ReadCloser, error) {
	if f.Path == "" {
		return io.NopCloser(bytes.NewReader(f.data)), nil
	}
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("open media: %w", err)
	}
	return file, nil
}

// DeclaredType returns the content type for name by extension. When the
// extension is unknown and head is non-empty the bytes are sniffed.
func DeclaredType(name string, head []byte) string {
	if ext := strings.ToLower(filepath.Ext(name)); ext != "" {
		if ct, ok := extraTypes[ext]; ok {
			return ct
		}
		if ct := mime.TypeByExtension(ext); ct != "" {
			if i := strings.IndexByte(ct, ';'); i >= 0 {
				ct = ct[:i]
			}
			return ct
		}
	}
	if len(head) == 0 {
		return ""
	}
	ct := http.DetectContentType(head)
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return ct
}

// extraTypes covers extensions the system mime table often lacks.
var extraTypes = map[string]string{
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".mkv":  "video/x-matroska",
	".m4v":  "video/x-m4v",
	".webm": "video/webm",
	".webp": "image/webp",
	".heic": "image/heic",
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".avif": "image/avif",
}

func readHead(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open media: %w", err)
	}
	defer file.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("read media header: %w", err)
	}
	return head[:n], nil
}
