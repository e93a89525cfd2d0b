// Package lens implements the Lens.org patent search client. It paginates
// the POST search endpoint, keeps only records with at least one Qatar
// organization applicant, and maps the Lens JSON shape onto patent.Record.
package lens

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/Hamaduzi123/ip/internal/config"
	"github.com/Hamaduzi123/ip/internal/domain/names"
	"github.com/Hamaduzi123/ip/internal/infrastructure/extract"
	"github.com/Hamaduzi123/ip/internal/infrastructure/monitoring/logging"
	"github.com/Hamaduzi123/ip/pkg/errors"
	"github.com/Hamaduzi123/ip/pkg/types/patent"
)

const maxAbstractLen = 2000

// defaultQuery matches patents with a Qatar applicant name, applicant
// residence, or inventor residence. It mirrors the curated query the data
// team runs in the Lens UI.
const defaultQuery = `{
  "bool": {
    "should": [
      {"query_string": {"query": "applicant.name:Qatar"}},
      {"query_string": {"query": "applicant.residence:QA"}},
      {"query_string": {"query": "inventor.residence:QA"}}
    ],
    "minimum_should_match": 1
  }
}`

// includeFields limits the response payload to the fields parsing reads.
var includeFields = []string{
	"lens_id",
	"jurisdiction",
	"doc_number",
	"kind",
	"date_published",
	"biblio",
	"abstract",
	"legal_status",
}

var _ extract.Extractor = (*Client)(nil)

// Client talks to the Lens.org patent API.
type Client struct {
	cfg        config.LensConfig
	classifier *names.Classifier
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     logging.Logger
	now        func() time.Time
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithClock overrides the extraction timestamp source.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// New builds a Lens client. classifier decides which applicant and owner
// names count as Qatar organizations.
func New(cfg config.LensConfig, classifier *names.Classifier, logger logging.Logger, opts ...Option) *Client {
	c := &Client{
		cfg:        cfg,
		classifier: classifier,
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RatePerSec), 1),
		logger:     logger.Named("lens"),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Source implements extract.Extractor.
func (c *Client) Source() patent.Source { return patent.SourceLens }

// ─────────────────────────────────────────────────────────────────────────────
// Wire types
// ─────────────────────────────────────────────────────────────────────────────

type searchRequest struct {
	Query   json.RawMessage `json:"query"`
	Size    int             `json:"size"`
	From    int             `json:"from"`
	Include []string        `json:"include"`
}

type searchResponse struct {
	Total int         `json:"total"`
	Data  []rawPatent `json:"data"`
}

type rawPatent struct {
	LensID        string      `json:"lens_id"`
	Jurisdiction  string      `json:"jurisdiction"`
	DocNumber     string      `json:"doc_number"`
	Kind          string      `json:"kind"`
	DatePublished string      `json:"date_published"`
	Biblio        biblio      `json:"biblio"`
	Abstract      []langText  `json:"abstract"`
	LegalStatus   legalStatus `json:"legal_status"`
}

type biblio struct {
	InventionTitle []langText `json:"invention_title"`
	Parties        parties    `json:"parties"`
}

type parties struct {
	Applicants []party `json:"applicants"`
	Inventors  []party `json:"inventors"`
	OwnersAll  []party `json:"owners_all"`
}

type party struct {
	ExtractedName    extractedName `json:"extracted_name"`
	Residence        string        `json:"residence"`
	ExtractedCountry string        `json:"extracted_country"`
}

type extractedName struct {
	Value string `json:"value"`
}

type langText struct {
	Lang string `json:"lang"`
	Text string `json:"text"`
}

type legalStatus struct {
	PatentStatus string `json:"patent_status"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Extraction
// ─────────────────────────────────────────────────────────────────────────────

// Extract implements extract.Extractor. It searches, filters to patents with
// at least one Qatar organization applicant, and parses the survivors.
// Non-English patents and patents without titles are dropped here because
// the rest of the pipeline cannot use them.
func (c *Client) Extract(ctx context.Context) ([]patent.Record, error) {
	raw, err := c.search(ctx)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		c.logger.Info("no patents found")
		return nil, nil
	}

	orgPatents := raw[:0:0]
	for _, p := range raw {
		if c.hasTargetApplicant(p) {
			orgPatents = append(orgPatents, p)
		}
	}
	c.logger.Info("filtered to organization patents",
		logging.Int("searched", len(raw)),
		logging.Int("kept", len(orgPatents)),
		logging.Int("skipped", len(raw)-len(orgPatents)))

	records := make([]patent.Record, 0, len(orgPatents))
	for _, p := range orgPatents {
		rec, ok := c.parse(p)
		if ok {
			records = append(records, rec)
		}
	}
	c.logger.Info("extraction complete", logging.Int("records", len(records)))
	return records, nil
}

// search paginates the POST endpoint until total is reached, max_results is
// hit, or the source returns an empty page. Transient upstream failures end
// pagination with whatever was collected; only an error on the first page
// (or an auth failure) is fatal.
func (c *Client) search(ctx context.Context) ([]rawPatent, error) {
	var all []rawPatent
	offset := 0

	for len(all) < c.cfg.MaxResults {
		if err := c.limiter.Wait(ctx); err != nil {
			return all, err
		}

		size := c.cfg.BatchSize
		if remaining := c.cfg.MaxResults - len(all); remaining < size {
			size = remaining
		}

		resp, err := c.searchPage(ctx, offset, size)
		if err != nil {
			if errors.IsRateLimited(err) {
				c.logger.Warn("rate limited, backing off", logging.Duration("wait", c.cfg.RetryWait))
				if werr := sleepCtx(ctx, c.cfg.RetryWait); werr != nil {
					return all, werr
				}
				continue
			}
			if len(all) > 0 {
				c.logger.Warn("pagination aborted, keeping partial results",
					logging.Int("collected", len(all)), logging.Err(err))
				return all, nil
			}
			return nil, err
		}

		if len(resp.Data) == 0 {
			break
		}
		all = append(all, resp.Data...)
		offset += len(resp.Data)
		c.logger.Debug("fetched page",
			logging.Int("collected", len(all)),
			logging.Int("total", resp.Total))

		if len(all) >= resp.Total {
			break
		}
	}
	return all, nil
}

func (c *Client) searchPage(ctx context.Context, from, size int) (*searchResponse, error) {
	body, err := json.Marshal(searchRequest{
		Query:   json.RawMessage(defaultQuery),
		Size:    size,
		From:    from,
		Include: includeFields,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeExtractorRequestError, "encode lens query")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeExtractorRequestError, "build lens request")
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeExtractorRequestError, "lens search request")
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, errors.New(errors.ErrCodeExtractorAuthFailed, "lens authentication failed, check API token")
	case http.StatusTooManyRequests:
		return nil, errors.New(errors.ErrCodeExtractorRateLimited, "lens rate limit exceeded")
	default:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return nil, errors.Newf(errors.ErrCodeExtractorRequestError,
			"lens search returned %d: %s", resp.StatusCode, snippet)
	}

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeExtractorParseError, "decode lens response")
	}
	return &out, nil
}

// hasTargetApplicant checks applicants only. Owners are too loose a signal:
// foreign assignees routinely appear as owners on locally filed patents.
func (c *Client) hasTargetApplicant(p rawPatent) bool {
	for _, app := range p.Biblio.Parties.Applicants {
		if c.classifier.IsTargetOrganization(app.ExtractedName.Value, app.Residence, "") {
			return true
		}
	}
	return false
}

// parse maps one Lens record onto patent.Record. It returns ok=false when
// the patent has no English title: downstream normalization would drop it
// anyway, and skipping here keeps the counters honest per source.
func (c *Client) parse(p rawPatent) (patent.Record, bool) {
	title := englishText(p.Biblio.InventionTitle)
	if title == "" {
		return patent.Record{}, false
	}

	abstract := englishText(p.Abstract)
	if abstract == "" && len(p.Abstract) > 0 {
		abstract = p.Abstract[0].Text
	}

	var applicants []string
	for _, app := range p.Biblio.Parties.Applicants {
		name := app.ExtractedName.Value
		if name != "" && c.classifier.IsTargetOrganization(name, app.Residence, "") {
			applicants = append(applicants, name)
		}
	}

	var inventors []string
	for _, inv := range p.Biblio.Parties.Inventors {
		if name := inv.ExtractedName.Value; name != "" {
			inventors = append(inventors, name)
		}
	}

	var owners []string
	for _, own := range p.Biblio.Parties.OwnersAll {
		name := own.ExtractedName.Value
		if name != "" && c.classifier.IsTargetOrganization(name, "", own.ExtractedCountry) {
			owners = append(owners, name)
		}
	}
	ownersJoined := patent.JoinNames(owners)
	if ownersJoined == "" {
		ownersJoined = patent.JoinNames(applicants)
	}

	year := ""
	if len(p.DatePublished) >= 4 {
		year = p.DatePublished[:4]
	}

	url := ""
	if p.LensID != "" {
		url = fmt.Sprintf("https://www.lens.org/lens/patent/%s", p.LensID)
	}

	return patent.Record{
		ApplicationNumber: strings.TrimSpace(fmt.Sprintf("%s %s %s", p.Jurisdiction, p.DocNumber, p.Kind)),
		ApplicationDate:   p.DatePublished,
		PatentYear:        year,
		Title:             title,
		Abstract:          patent.TruncateRunes(abstract, maxAbstractLen),
		Applicants:        patent.JoinNames(applicants),
		Inventors:         patent.JoinNames(inventors),
		Owners:            ownersJoined,
		PatentURL:         url,
		LegalStatusName:   p.LegalStatus.PatentStatus,
		Source:            patent.SourceLens,
		ExtractedDate:     c.now().Format("2006-01-02"),
	}, true
}

// englishText returns the first entry tagged "en", or "" when none exists.
func englishText(list []langText) string {
	for _, t := range list {
		if t.Lang == "en" {
			return t.Text
		}
	}
	return ""
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
