package storagesvc

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/trezcool/divyang/core"
)

// SupabaseStore talks to the Storage REST API of a Supabase project.
type SupabaseStore struct {
	client  *resty.Client
	baseURL string
	bucket  string
}

var _ core.BlobStore = (*SupabaseStore)(nil)

// storageError is the body of a failed Storage API call.
type storageError struct {
	StatusCode string `json:"statusCode"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}

func NewSupabaseStore(baseURL, key, bucket string) *SupabaseStore {
	baseURL = strings.TrimRight(baseURL, "/")
	client := resty.New().
		SetBaseURL(baseURL+"/storage/v1").
		SetHeader("apikey", key).
		SetAuthToken(key).
		SetTimeout(60 * time.Second)
	return &SupabaseStore{client: client, baseURL: baseURL, bucket: bucket}
}

func (s *SupabaseStore) objectPath(p string) string {
	segments := strings.Split(strings.TrimPrefix(p, "/"), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return url.PathEscape(s.bucket) + "/" + strings.Join(segments, "/")
}

func (s *SupabaseStore) Upload(ctx context.Context, p string, content io.Reader, contentType string) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetHeader("cache-control", "max-age=3600").
		SetHeader("x-upsert", "false").
		SetBody(content).
		SetError(&storageError{}).
		Post("/object/" + s.objectPath(p))
	if err != nil {
		return errors.Wrap(err, "uploading to supabase")
	}
	return checkResponse(resp)
}

func (s *SupabaseStore) Download(ctx context.Context, p string) (io.ReadCloser, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get("/object/" + s.objectPath(p))
	if err != nil {
		return nil, errors.Wrap(err, "downloading from supabase")
	}
	body := resp.RawBody()
	if resp.StatusCode() >= http.StatusBadRequest {
		defer body.Close()
		if resp.StatusCode() == http.StatusNotFound || resp.StatusCode() == http.StatusBadRequest {
			return nil, core.ErrBlobNotFound
		}
		msg, _ := io.ReadAll(io.LimitReader(body, 1024))
		return nil, errors.Errorf("supabase responded %d: %s", resp.StatusCode(), msg)
	}
	return body, nil
}

func (s *SupabaseStore) PublicURL(p string) string {
	return s.baseURL + "/storage/v1/object/public/" + s.objectPath(p)
}

func (s *SupabaseStore) Remove(ctx context.Context, paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string][]string{"prefixes": paths}).
		SetError(&storageError{}).
		Delete("/object/" + url.PathEscape(s.bucket))
	if err != nil {
		return errors.Wrap(err, "removing from supabase")
	}
	return checkResponse(resp)
}

func checkResponse(resp *resty.Response) error {
	if !resp.IsError() {
		return nil
	}
	if se, ok := resp.Error().(*storageError); ok && se.Message != "" {
		return errors.Errorf("supabase responded %d: %s", resp.StatusCode(), se.Message)
	}
	return errors.Errorf("supabase responded %d: %s", resp.StatusCode(), resp.String())
}
