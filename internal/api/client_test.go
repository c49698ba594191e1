package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"posterlang/internal/media"
)

func TestImageRequestItem(t *testing.T) {
	req := ImageRequest{Kind: "Movie", Name: "Fight Club", TMDBID: "550"}
	item, err := req.Item()
	if err != nil {
		t.Fatalf("Item returned error: %v", err)
	}
	if item.Kind != media.KindMovie || item.IDs.TMDB != "550" {
		t.Fatalf("item = %+v", item)
	}

	if _, err := (ImageRequest{Kind: "movie"}).Item(); err == nil {
		t.Error("movie without ids should fail")
	}
	if _, err := (ImageRequest{Kind: "nope", TMDBID: "1"}).Item(); err == nil {
		t.Error("unknown kind should fail")
	}

	season := ImageRequest{Kind: "season", SeasonNumber: 2, SeriesTMDBID: "1396"}
	item, err = season.Item()
	if err != nil {
		t.Fatalf("season Item returned error: %v", err)
	}
	if item.Kind != media.KindSeason || item.SeriesIDs.TMDB != "1396" || item.SeasonNumber != 2 {
		t.Fatalf("season item = %+v", item)
	}
	if _, err := (ImageRequest{Kind: "season", SeasonNumber: 2}).Item(); err == nil {
		t.Error("season without series ids should fail")
	}
}

func TestClientSendsBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(StatusResponse{Running: true, Enabled: true})
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret")
	status, err := client.Status(context.Background())
	if err != nil {
		t.Fatalf("Status returned error: %v", err)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if !status.Running || !status.Enabled {
		t.Fatalf("status = %+v", status)
	}
}

func TestClientDefaultsScheme(t *testing.T) {
	client := NewClient("127.0.0.1:7519", "")
	if client.baseURL != "http://127.0.0.1:7519" {
		t.Fatalf("baseURL = %q", client.baseURL)
	}
}

func TestClientSurfacesErrorPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "unknown item kind"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	_, err := client.Images(context.Background(), ImageRequest{Kind: "nope"})
	if err == nil || !strings.Contains(err.Error(), "unknown item kind") {
		t.Fatalf("error = %v", err)
	}
}
