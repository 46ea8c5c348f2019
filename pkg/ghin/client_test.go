package ghin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, tokenCalls *atomic.Int64) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls.Add(1)
		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		require.Equal(t, "admin@example.com", creds["email"])
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"token": "tok-1", "expires_in": 3600})
	})
	mux.HandleFunc("/golfers/search", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		if r.URL.Query().Get("ghin_number") == "0000000" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"golfers": []map[string]interface{}{{
				"ghin_number":    "1234567",
				"first_name":     "Jordan",
				"last_name":      "Baker",
				"handicap_index": 14.8,
				"club_name":      "Pine Hollow GC",
			}},
		})
	})
	mux.HandleFunc("/scores", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"scores": []map[string]interface{}{{
				"id":                   42,
				"played_on":            "2026-04-12",
				"course_name":          "Pine Hollow",
				"adjusted_gross_score": 88,
				"course_rating":        71.2,
				"slope_rating":         128,
				"differential":         14.8,
				"tee_name":             "White",
				"number_of_holes":      18,
				"hole_details": []map[string]interface{}{{
					"hole_number":                 1,
					"par":                         4,
					"raw_score":                   5,
					"putts":                       2,
					"fairway_hit":                 false,
					"drive_accuracy":              "right",
					"gir_flag":                    false,
					"approach_shot_miss_location": "short",
				}},
			}},
		})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := NewClient(Config{
		BaseURL:       baseURL,
		AdminEmail:    "admin@example.com",
		AdminPassword: "secret",
		Logger:        zerolog.Nop(),
	})
	require.NoError(t, err)
	return client
}

func TestLookupGolfer(t *testing.T) {
	var tokenCalls atomic.Int64
	server := newTestServer(t, &tokenCalls)
	client := newTestClient(t, server.URL)

	golfer, err := client.LookupGolfer(context.Background(), "1234567")
	require.NoError(t, err)
	require.Equal(t, "Jordan", golfer.FirstName)
	require.NotNil(t, golfer.HandicapIndex)
	require.InDelta(t, 14.8, *golfer.HandicapIndex, 0.001)

	_, err = client.LookupGolfer(context.Background(), "0000000")
	require.ErrorIs(t, err, ErrGolferNotFound)
}

func TestRecentScoresNormalization(t *testing.T) {
	var tokenCalls atomic.Int64
	server := newTestServer(t, &tokenCalls)
	client := newTestClient(t, server.URL)

	rounds, err := client.RecentScores(context.Background(), "1234567", 5)
	require.NoError(t, err)
	require.Len(t, rounds, 1)

	r := rounds[0]
	require.Equal(t, "Pine Hollow", r.CourseName)
	require.Equal(t, 88, *r.TotalScore)
	require.Equal(t, "2026-04-12", r.Date.Format("2006-01-02"))
	require.Len(t, r.Holes, 1)
	require.Equal(t, "miss_right", string(r.Holes[0].Fairway))
	require.Equal(t, "short", string(r.Holes[0].GreenMiss))
	require.Equal(t, 5, *r.Holes[0].Score)
}

func TestTokenCachedAcrossCalls(t *testing.T) {
	var tokenCalls atomic.Int64
	server := newTestServer(t, &tokenCalls)
	client := newTestClient(t, server.URL)

	_, err := client.LookupGolfer(context.Background(), "1234567")
	require.NoError(t, err)
	_, err = client.RecentScores(context.Background(), "1234567", 5)
	require.NoError(t, err)

	require.Equal(t, int64(1), tokenCalls.Load())
}

func TestTokenRefreshSingleFlight(t *testing.T) {
	var tokenCalls atomic.Int64
	server := newTestServer(t, &tokenCalls)
	client := newTestClient(t, server.URL)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := client.LookupGolfer(context.Background(), "1234567")
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	// Concurrent first-time callers share one refresh.
	require.Equal(t, int64(1), tokenCalls.Load())
}
