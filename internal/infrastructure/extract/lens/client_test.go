package lens

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hamaduzi123/ip/internal/config"
	"github.com/Hamaduzi123/ip/internal/domain/names"
	"github.com/Hamaduzi123/ip/internal/infrastructure/monitoring/logging"
	"github.com/Hamaduzi123/ip/internal/rules"
	"github.com/Hamaduzi123/ip/pkg/errors"
	"github.com/Hamaduzi123/ip/pkg/types/patent"
)

func testClassifier(t *testing.T) *names.Classifier {
	t.Helper()
	set := rules.Default()
	require.NoError(t, set.Compile())
	return names.NewClassifier(rules.NewHandle(set))
}

func testConfig(baseURL string) config.LensConfig {
	return config.LensConfig{
		BaseURL:     baseURL,
		APIToken:    "test-token",
		MaxResults:  10,
		BatchSize:   2,
		RatePerSec:  1000,
		RetryWait:   time.Millisecond,
		HTTPTimeout: time.Second,
	}
}

func testClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return New(testConfig(baseURL), testClassifier(t), logging.NewNop(),
		WithClock(func() time.Time { return fixed }))
}

// page builds a Lens search response body.
func page(total int, data ...map[string]any) []byte {
	body, _ := json.Marshal(map[string]any{"total": total, "data": data})
	return body
}

func applicant(name, residence string) map[string]any {
	return map[string]any{
		"extracted_name": map[string]any{"value": name},
		"residence":      residence,
	}
}

func owner(name, country string) map[string]any {
	return map[string]any{
		"extracted_name":    map[string]any{"value": name},
		"extracted_country": country,
	}
}

func inventor(name string) map[string]any {
	return map[string]any{"extracted_name": map[string]any{"value": name}}
}

var qatarPatent = map[string]any{
	"lens_id":        "021-585-864-309-724",
	"jurisdiction":   "QA",
	"doc_number":     "201900123",
	"kind":           "A",
	"date_published": "2019-03-12",
	"biblio": map[string]any{
		"invention_title": []map[string]any{
			{"lang": "ar", "text": "جهاز تحلية"},
			{"lang": "en", "text": "Solar Desalination Device"},
		},
		"parties": map[string]any{
			"applicants": []map[string]any{
				applicant("Qatar University", "QA"),
				applicant("Toyota Motor Corporation", "JP"),
			},
			"inventors": []map[string]any{
				inventor("Maryam Al-Kuwari"),
				inventor("John Smith"),
			},
			"owners_all": []map[string]any{
				owner("Toyota Motor Corporation", "JP"),
			},
		},
	},
	"abstract": []map[string]any{
		{"lang": "fr", "text": "Un dispositif"},
		{"lang": "en", "text": "A solar-powered desalination device."},
	},
	"legal_status": map[string]any{"patent_status": "PENDING"},
}

// Toyota-only applicants: must be filtered out before parsing.
var foreignPatent = map[string]any{
	"lens_id":        "100-000-000-000-001",
	"jurisdiction":   "US",
	"doc_number":     "999",
	"kind":           "B2",
	"date_published": "2020-01-01",
	"biblio": map[string]any{
		"invention_title": []map[string]any{{"lang": "en", "text": "Engine"}},
		"parties": map[string]any{
			"applicants": []map[string]any{applicant("Toyota Motor Corporation", "JP")},
		},
	},
}

// Qatar applicant but no English title: filtered during parse.
var nonEnglishPatent = map[string]any{
	"lens_id":        "100-000-000-000-002",
	"jurisdiction":   "QA",
	"doc_number":     "555",
	"kind":           "A",
	"date_published": "2021-05-05",
	"biblio": map[string]any{
		"invention_title": []map[string]any{{"lang": "ar", "text": "عنوان"}},
		"parties": map[string]any{
			"applicants": []map[string]any{applicant("Hamad Medical Corporation", "QA")},
		},
	},
}

func TestExtract_PaginatesFiltersAndParses(t *testing.T) {
	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req struct {
			From int `json:"from"`
			Size int `json:"size"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 2, req.Size)

		switch req.From {
		case 0:
			w.Write(page(3, qatarPatent, foreignPatent))
		case 2:
			w.Write(page(3, nonEnglishPatent))
		default:
			t.Errorf("unexpected offset %d", req.From)
		}
	}))
	defer srv.Close()

	records, err := testClient(t, srv.URL).Extract(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&requests))

	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, "QA 201900123 A", rec.ApplicationNumber)
	assert.Equal(t, "2019-03-12", rec.ApplicationDate)
	assert.Equal(t, "2019", rec.PatentYear)
	assert.Equal(t, "Solar Desalination Device", rec.Title)
	assert.Equal(t, "A solar-powered desalination device.", rec.Abstract)
	// Foreign co-applicant dropped from the name list.
	assert.Equal(t, "Qatar University", rec.Applicants)
	assert.Equal(t, "Maryam Al-Kuwari; John Smith", rec.Inventors)
	// Foreign owner filtered, so owners fall back to the kept applicants.
	assert.Equal(t, "Qatar University", rec.Owners)
	assert.Equal(t, "https://www.lens.org/lens/patent/021-585-864-309-724", rec.PatentURL)
	assert.Equal(t, "PENDING", rec.LegalStatusName)
	assert.Equal(t, patent.SourceLens, rec.Source)
	assert.Equal(t, "2025-06-01", rec.ExtractedDate)
}

func TestExtract_AuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := testClient(t, srv.URL).Extract(context.Background())
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrCodeExtractorAuthFailed, appErr.Code)
}

func TestExtract_RateLimitRetries(t *testing.T) {
	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&requests, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write(page(1, qatarPatent))
	}))
	defer srv.Close()

	records, err := testClient(t, srv.URL).Extract(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&requests))
	require.Len(t, records, 1)
	assert.Equal(t, "Solar Desalination Device", records[0].Title)
}

func TestExtract_KeepsPartialResultsOnMidRunFailure(t *testing.T) {
	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&requests, 1) == 1 {
			// Claim more results than we ever serve so pagination continues.
			w.Write(page(5, qatarPatent, nonEnglishPatent))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	records, err := testClient(t, srv.URL).Extract(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestExtract_EmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(page(0))
	}))
	defer srv.Close()

	records, err := testClient(t, srv.URL).Extract(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestExtract_HonorsMaxResults(t *testing.T) {
	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.Write(page(100, qatarPatent, qatarPatent))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.MaxResults = 4
	c := New(cfg, testClassifier(t), logging.NewNop())

	records, err := c.Extract(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&requests))
	assert.Len(t, records, 4)
}

func TestSource(t *testing.T) {
	c := New(testConfig("http://unused"), testClassifier(t), logging.NewNop())
	assert.Equal(t, patent.SourceLens, c.Source())
}
