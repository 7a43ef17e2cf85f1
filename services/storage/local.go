package storagesvc

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/divyang/core"
)

var errInvalidPath = errors.New("invalid file path")

// LocalStore keeps files under a root directory; PublicBaseURL must serve that directory.
type LocalStore struct {
	root          string
	publicBaseURL string
}

var _ core.BlobStore = (*LocalStore)(nil)

func NewLocalStore(root, publicBaseURL string) (*LocalStore, error) {
	if !filepath.IsAbs(root) {
		root = filepath.Join(core.Getwd(), root)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating storage root %s", root)
	}
	return &LocalStore{root: root, publicBaseURL: strings.TrimRight(publicBaseURL, "/")}, nil
}

// Root is the directory files are kept in.
func (s *LocalStore) Root() string { return s.root }

func (s *LocalStore) fullPath(p string) (string, error) {
	cleaned := path.Clean("/" + p)
	if cleaned == "/" || p != strings.TrimPrefix(cleaned, "/") {
		return "", errors.Wrap(errInvalidPath, p)
	}
	return filepath.Join(s.root, filepath.FromSlash(cleaned)), nil
}

// Upload writes content to a temporary file renamed into place, and refuses to overwrite.
func (s *LocalStore) Upload(_ context.Context, p string, content io.Reader, _ string) error {
	fp, err := s.fullPath(p)
	if err != nil {
		return err
	}
	if _, err := os.Stat(fp); err == nil {
		return errors.Errorf("file %s already exists", p)
	}
	if err := os.MkdirAll(filepath.Dir(fp), 0o755); err != nil {
		return errors.Wrap(err, "creating directory")
	}

	tmp, err := os.CreateTemp(filepath.Dir(fp), ".upload-*")
	if err != nil {
		return errors.Wrap(err, "creating temporary file")
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if _, err := io.Copy(tmp, content); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "writing file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "closing file")
	}
	return errors.Wrap(os.Rename(tmp.Name(), fp), "moving file into place")
}

func (s *LocalStore) Download(_ context.Context, p string) (io.ReadCloser, error) {
	fp, err := s.fullPath(p)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(fp)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, core.ErrBlobNotFound
		}
		return nil, errors.Wrap(err, "opening file")
	}
	return f, nil
}

func (s *LocalStore) PublicURL(p string) string {
	return s.publicBaseURL + "/" + strings.TrimPrefix(p, "/")
}

// Remove deletes the files at paths; missing files are ignored.
func (s *LocalStore) Remove(_ context.Context, paths ...string) error {
	for _, p := range paths {
		fp, err := s.fullPath(p)
		if err != nil {
			return err
		}
		if err := os.Remove(fp); err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, "removing %s", p)
		}
	}
	return nil
}
