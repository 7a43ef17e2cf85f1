package document

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/divyang/core"
)

var DefaultAcceptedExtensions = []string{".pdf", ".jpg", ".jpeg", ".png", ".doc", ".docx"}

// UploadPolicy bounds what may be uploaded. It is checked before any storage call.
type UploadPolicy struct {
	MaxSizeMB          int
	AcceptedExtensions []string
}

func DefaultUploadPolicy() UploadPolicy {
	return UploadPolicy{MaxSizeMB: 10, AcceptedExtensions: DefaultAcceptedExtensions}
}

func NewUploadPolicy(conf core.UploadConfig) UploadPolicy {
	policy := DefaultUploadPolicy()
	if conf.MaxSizeMB > 0 {
		policy.MaxSizeMB = conf.MaxSizeMB
	}
	if len(conf.AcceptedExtensions) > 0 {
		exts := make([]string, 0, len(conf.AcceptedExtensions))
		for _, ext := range conf.AcceptedExtensions {
			ext = core.CleanString(ext, true /* lower */)
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			exts = append(exts, ext)
		}
		policy.AcceptedExtensions = exts
	}
	return policy
}

// Check rejects files that are too large or whose extension is not accepted.
func (p UploadPolicy) Check(filename string, size int64) error {
	if size > int64(p.MaxSizeMB)*1024*1024 {
		return core.NewFieldError("file", errors.Errorf("File size must be less than %dMB", p.MaxSizeMB))
	}
	if !core.StringInSlice("."+strings.ToLower(Extension(filename)), p.AcceptedExtensions) {
		return core.NewFieldError("file", errors.Errorf(
			"File type not supported. Accepted types: %s", strings.Join(p.AcceptedExtensions, ", "),
		))
	}
	return nil
}

// Extension returns what follows the last dot of filename, or filename itself if it has none.
func Extension(filename string) string {
	return filename[strings.LastIndex(filename, ".")+1:]
}

// ObjectPath is the storage key of an upload: {ownerID}/{type}_{unixMillis}.{ext}
func ObjectPath(ownerID string, t Type, filename string, at time.Time) string {
	return fmt.Sprintf("%s/%s_%d.%s", ownerID, t, at.UnixNano()/int64(time.Millisecond), Extension(filename))
}
