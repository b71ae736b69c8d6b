package storage

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/fieldline/fieldline/internal/config"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T) (*B2Client, *httptest.Server, *int64) {
	t.Helper()

	var authCalls int64
	mux := http.NewServeMux()
	var server *httptest.Server

	mux.HandleFunc("/b2_authorize_account", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&authCalls, 1)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"authorizationToken": "test-token",
			"apiUrl":             server.URL,
			"downloadUrl":        server.URL,
		})
	})
	mux.HandleFunc("/b2api/v2/b2_get_upload_url", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{
			"uploadUrl":          server.URL + "/upload",
			"authorizationToken": "upload-token",
		})
	})
	mux.HandleFunc("/upload", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	})
	mux.HandleFunc("/b2api/v2/b2_list_file_names", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"files": []map[string]string{
				{"fileId": "file-1", "fileName": "visits/a.jpg"},
			},
		})
	})
	mux.HandleFunc("/b2api/v2/b2_delete_file_version", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	})

	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := NewB2Client(config.StorageConfig{
		KeyID:          "key",
		ApplicationKey: "secret",
		BucketID:       "bucket-id",
		BucketName:     "bucket",
	}, zap.NewNop(), nil)
	client.WithAuthorizeURL(server.URL + "/b2_authorize_account")

	return client, server, &authCalls
}

func TestUploadReturnsDownloadURL(t *testing.T) {
	client, server, _ := newTestClient(t)

	url, err := client.Upload(context.Background(), []byte("image-bytes"), "visits/a.jpg", "image/jpeg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := server.URL + "/file/bucket/visits/a.jpg"
	if url != want {
		t.Fatalf("expected url %q, got %q", want, url)
	}
}

func TestAuthorizationCoalescesConcurrentCallers(t *testing.T) {
	client, _, authCalls := newTestClient(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := client.Upload(context.Background(), []byte("x"), "visits/a.jpg", "image/jpeg")
			if err != nil {
				t.Errorf("upload failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if calls := atomic.LoadInt64(authCalls); calls < 1 || calls > 2 {
		t.Fatalf("expected 1-2 authorization calls, got %d", calls)
	}
}

func TestDeleteResolvesFileIDFromURL(t *testing.T) {
	client, server, _ := newTestClient(t)

	if err := client.Delete(context.Background(), server.URL+"/file/bucket/visits/a.jpg"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFileNameFromURLRejectsForeignURLs(t *testing.T) {
	client, _, _ := newTestClient(t)

	if _, err := client.fileNameFromURL("https://elsewhere.example.com/other/path.jpg"); err == nil {
		t.Fatalf("expected error for URL outside the bucket")
	}
	name, err := client.fileNameFromURL("visits/b.jpg")
	if err != nil || name != "visits/b.jpg" {
		t.Fatalf("expected bare key passthrough, got %q err %v", name, err)
	}
}

func TestUploadWithoutCredentials(t *testing.T) {
	client := NewB2Client(config.StorageConfig{}, zap.NewNop(), nil)
	_, err := client.Upload(context.Background(), []byte("x"), "a.jpg", "image/jpeg")
	if err == nil || !strings.Contains(err.Error(), "not configured") {
		t.Fatalf("expected not configured error, got %v", err)
	}
}
