package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"git.home.luguber.info/inful/exhibitpal/internal/config"
	"git.home.luguber.info/inful/exhibitpal/internal/foundation/errors"
	"git.home.luguber.info/inful/exhibitpal/internal/retry"
)

func fastPolicy() retry.Policy {
	return retry.NewPolicy(config.RetryBackoffExponential, time.Millisecond, 5*time.Millisecond, 3)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewClient(context.Background(), ClientOptions{Policy: fastPolicy()},
		option.WithEndpoint(srv.URL+"/"), option.WithoutAuthentication())
	require.NoError(t, err)
	return client
}

func writeValues(w http.ResponseWriter, values [][]any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"range":          "Exhibitions!A1:O3",
		"majorDimension": "ROWS",
		"values":         values,
	})
}

func TestClientValues(t *testing.T) {
	var gotPath, gotQuota string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuota = r.URL.Query().Get("quotaUser")
		writeValues(w, [][]any{{"展示会ID", " 展示会名 "}, {"ex-1", 42}})
	})

	values, err := client.Values(context.Background(), "exhibitions", "sheet-1", "Exhibitions!A:O", "exhibitpal-artworks")
	require.NoError(t, err)
	require.Equal(t, [][]string{{"展示会ID", "展示会名"}, {"ex-1", "42"}}, values)
	require.True(t, strings.HasPrefix(gotPath, "/v4/spreadsheets/sheet-1/values/"), gotPath)
	require.Equal(t, "exhibitpal-artworks", gotQuota)
}

func TestClientRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, `{"error":{"code":503,"message":"backend"}}`, http.StatusServiceUnavailable)
			return
		}
		writeValues(w, [][]any{{"h"}, {"v"}})
	})

	values, err := client.Values(context.Background(), "exhibitions", "sheet-1", "A:O", "")
	require.NoError(t, err)
	require.Len(t, values, 2)
	require.Equal(t, int32(3), calls.Load())
}

func TestClientPersistentServerErrorIsNetworkError(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"error":{"code":502,"message":"bad gateway"}}`, http.StatusBadGateway)
	})

	_, err := client.Values(context.Background(), "exhibitions", "sheet-1", "A:O", "")
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryNetwork))
	ce, ok := errors.AsClassified(err)
	require.True(t, ok)
	require.True(t, ce.CanRetry())
	require.Equal(t, int32(3), calls.Load())
}

func TestClientStopsOnAuthFailure(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"forbidden"}}`))
	})

	_, err := client.Values(context.Background(), "exhibitions", "sheet-1", "A:O", "")
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryAuth))
	require.Equal(t, int32(1), calls.Load())
}

func TestClientEmptyRangeExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeValues(w, nil)
	})

	_, err := client.Values(context.Background(), "artworks", "sheet-2", "A:N", "")
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategorySheets))
	require.Equal(t, int32(3), calls.Load())
}

func TestFixtureReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exhibitions.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"values":[["展示会ID","開始日"],["ex-1",null],["ex-2",2024]]}`), 0o600))

	values, err := FixtureReader{Path: path}.Read(context.Background())
	require.NoError(t, err)
	require.Equal(t, [][]string{{"展示会ID", "開始日"}, {"ex-1", ""}, {"ex-2", "2024"}}, values)

	_, err = FixtureReader{Path: filepath.Join(t.TempDir(), "missing.json")}.Read(context.Background())
	require.True(t, errors.HasCategory(err, errors.CategoryFileSystem))
}

func TestNewSourceUsesFixtures(t *testing.T) {
	dir := t.TempDir()
	ex := filepath.Join(dir, "ex.json")
	art := filepath.Join(dir, "art.json")
	require.NoError(t, os.WriteFile(ex, []byte(`{"values":[["a"],["1"]]}`), 0o600))
	require.NoError(t, os.WriteFile(art, []byte(`{"values":[["b"],["2"]]}`), 0o600))

	cfg := &config.Config{Sheets: config.SheetsConfig{ExhibitionsFixture: ex, ArtworksFixture: art}}
	src, err := NewSource(context.Background(), cfg, nil, nil)
	require.NoError(t, err)

	exValues, err := src.ReadExhibitions(context.Background())
	require.NoError(t, err)
	require.Equal(t, [][]string{{"a"}, {"1"}}, exValues)
	artValues, err := src.ReadArtworks(context.Background())
	require.NoError(t, err)
	require.Equal(t, [][]string{{"b"}, {"2"}}, artValues)
}

func TestNewSourceRequiresCredentials(t *testing.T) {
	cfg := &config.Config{Sheets: config.SheetsConfig{ExhibitionsFixture: "ex.json"}}
	_, err := NewSource(context.Background(), cfg, nil, nil)
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))
}
