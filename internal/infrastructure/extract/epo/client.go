// Package epo implements the European Patent Office OPS client. It
// authenticates with OAuth client credentials, pages a CQL search for
// publication references, then fetches the bibliographic record of each
// publication and maps it onto patent.Record.
package epo

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/Hamaduzi123/ip/internal/config"
	"github.com/Hamaduzi123/ip/internal/infrastructure/extract"
	"github.com/Hamaduzi123/ip/internal/infrastructure/monitoring/logging"
	"github.com/Hamaduzi123/ip/pkg/errors"
	"github.com/Hamaduzi123/ip/pkg/types/patent"
)

const maxAbstractLen = 2000

var _ extract.Extractor = (*Client)(nil)

// Client talks to the EPO Open Patent Services API.
type Client struct {
	cfg        config.EPOConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     logging.Logger
	now        func() time.Time

	accessToken string
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

// New builds an EPO OPS client.
func New(cfg config.EPOConfig, logger logging.Logger, opts ...Option) *Client {
	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RatePerSec), 1),
		logger:     logger.Named("epo"),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Source implements extract.Extractor.
func (c *Client) Source() patent.Source { return patent.SourceEPO }

// ─────────────────────────────────────────────────────────────────────────────
// Wire types
// ─────────────────────────────────────────────────────────────────────────────

// docRef identifies one publication in the search results.
type docRef struct {
	Country   string
	DocNumber string
	Kind      string
}

func (d docRef) key() string { return d.Country + d.DocNumber }

// The OPS XML is namespaced; encoding/xml matches by local name, so the
// structs below work for both the ops: and exchange-document namespaces.

type searchResults struct {
	Refs []publicationRef `xml:"biblio-search>search-result>publication-reference"`
}

type publicationRef struct {
	DocumentIDs []documentID `xml:"document-id"`
}

type documentID struct {
	Type      string `xml:"document-id-type,attr"`
	Country   string `xml:"country"`
	DocNumber string `xml:"doc-number"`
	Kind      string `xml:"kind"`
	Date      string `xml:"date"`
}

type biblioResponse struct {
	Documents []exchangeDocument `xml:"exchange-documents>exchange-document"`
}

type exchangeDocument struct {
	Biblio    bibliographicData `xml:"bibliographic-data"`
	Abstracts []abstractText    `xml:"abstract"`
}

type bibliographicData struct {
	Titles          []inventionTitle `xml:"invention-title"`
	PublicationRefs []publicationRef `xml:"publication-reference"`
	Applicants      []applicantName  `xml:"parties>applicants>applicant"`
	Inventors       []inventorName   `xml:"parties>inventors>inventor"`
}

type inventionTitle struct {
	Lang string `xml:"lang,attr"`
	Text string `xml:",chardata"`
}

type applicantName struct {
	Name string `xml:"applicant-name>name"`
}

type inventorName struct {
	Name string `xml:"inventor-name>name"`
}

type abstractText struct {
	Lang       string   `xml:"lang,attr"`
	Paragraphs []string `xml:"p"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Authentication
// ─────────────────────────────────────────────────────────────────────────────

func (c *Client) authenticate(ctx context.Context) error {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.AuthURL, strings.NewReader(form.Encode()))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeExtractorRequestError, "build epo auth request")
	}
	req.SetBasicAuth(c.cfg.ConsumerKey, c.cfg.ConsumerSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeExtractorRequestError, "epo auth request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Newf(errors.ErrCodeExtractorAuthFailed, "epo authentication returned %d", resp.StatusCode)
	}

	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return errors.Wrap(err, errors.ErrCodeExtractorParseError, "decode epo auth response")
	}
	if out.AccessToken == "" {
		return errors.New(errors.ErrCodeExtractorAuthFailed, "epo auth response has no access token")
	}

	c.accessToken = out.AccessToken
	c.logger.Debug("epo authentication successful")
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Accept", "application/xml")
}

// ─────────────────────────────────────────────────────────────────────────────
// Extraction
// ─────────────────────────────────────────────────────────────────────────────

// Extract implements extract.Extractor.
func (c *Client) Extract(ctx context.Context) ([]patent.Record, error) {
	if err := c.authenticate(ctx); err != nil {
		return nil, err
	}

	refs, err := c.search(ctx)
	if err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		c.logger.Info("no publications found")
		return nil, nil
	}
	c.logger.Info("fetching bibliographic records", logging.Int("publications", len(refs)))

	records := make([]patent.Record, 0, len(refs))
	skipped := 0
	for _, ref := range refs {
		if err := c.limiter.Wait(ctx); err != nil {
			return records, err
		}
		rec, err := c.fetchBiblio(ctx, ref)
		if err != nil {
			skipped++
			c.logger.Debug("biblio fetch failed",
				logging.String("publication", ref.key()), logging.Err(err))
			continue
		}
		records = append(records, rec)
	}
	c.logger.Info("extraction complete",
		logging.Int("records", len(records)), logging.Int("skipped", skipped))
	return records, nil
}

// search pages the CQL query in Range windows until max_results is reached
// or the source runs out. A 403 mid-run means the token expired; the client
// re-authenticates once per window and retries. Duplicate publications
// (same country and number, different kind) collapse to the first seen.
func (c *Client) search(ctx context.Context) ([]docRef, error) {
	var all []docRef
	seen := make(map[string]bool)
	start := 1
	reauthed := false

	for len(all) < c.cfg.MaxResults {
		if err := c.limiter.Wait(ctx); err != nil {
			return all, err
		}

		end := start + c.cfg.BatchSize - 1
		if end > c.cfg.MaxResults {
			end = c.cfg.MaxResults
		}

		refs, status, err := c.searchPage(ctx, start, end)
		if err != nil {
			if len(all) > 0 {
				c.logger.Warn("search aborted, keeping partial results",
					logging.Int("collected", len(all)), logging.Err(err))
				return all, nil
			}
			return nil, err
		}

		switch status {
		case http.StatusOK:
			reauthed = false
		case http.StatusNotFound:
			// Range ran past the last result.
			return all, nil
		case http.StatusForbidden:
			if reauthed {
				return all, errors.New(errors.ErrCodeExtractorAuthFailed, "epo access denied after re-authentication")
			}
			c.logger.Warn("epo access denied, re-authenticating")
			if err := c.authenticate(ctx); err != nil {
				return all, err
			}
			reauthed = true
			continue
		default:
			if len(all) > 0 {
				c.logger.Warn("search aborted, keeping partial results",
					logging.Int("collected", len(all)), logging.Int("status", status))
				return all, nil
			}
			return nil, errors.Newf(errors.ErrCodeExtractorRequestError, "epo search returned %d", status)
		}

		if len(refs) == 0 {
			break
		}
		for _, ref := range refs {
			if !seen[ref.key()] {
				seen[ref.key()] = true
				all = append(all, ref)
			}
		}
		c.logger.Debug("fetched search window",
			logging.Int("start", start), logging.Int("end", end),
			logging.Int("collected", len(all)))
		start += c.cfg.BatchSize
	}
	return all, nil
}

// searchPage returns the parsed refs and the HTTP status; err is reserved
// for transport and parse failures so the caller can branch on status.
func (c *Client) searchPage(ctx context.Context, start, end int) ([]docRef, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.SearchURL, nil)
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeExtractorRequestError, "build epo search request")
	}
	q := req.URL.Query()
	q.Set("q", c.cfg.Query)
	q.Set("Range", fmt.Sprintf("%d-%d", start, end))
	req.URL.RawQuery = q.Encode()
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeExtractorRequestError, "epo search request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, resp.StatusCode, nil
	}

	var results searchResults
	if err := xml.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, resp.StatusCode, errors.Wrap(err, errors.ErrCodeExtractorParseError, "decode epo search results")
	}

	var refs []docRef
	for _, pub := range results.Refs {
		if ref, ok := pickDocRef(pub); ok {
			refs = append(refs, ref)
		}
	}
	return refs, resp.StatusCode, nil
}

// pickDocRef chooses the docdb document-id when present (it always carries
// country, number and kind) and otherwise falls back to the first id with a
// country and number.
func pickDocRef(pub publicationRef) (docRef, bool) {
	var fallback *documentID
	for i, id := range pub.DocumentIDs {
		if id.Country == "" || id.DocNumber == "" {
			continue
		}
		if id.Type == "docdb" {
			return docRef{Country: id.Country, DocNumber: id.DocNumber, Kind: id.Kind}, true
		}
		if fallback == nil {
			fallback = &pub.DocumentIDs[i]
		}
	}
	if fallback != nil {
		return docRef{Country: fallback.Country, DocNumber: fallback.DocNumber, Kind: fallback.Kind}, true
	}
	return docRef{}, false
}

// fetchBiblio retrieves and parses the bibliographic record of one
// publication.
func (c *Client) fetchBiblio(ctx context.Context, ref docRef) (patent.Record, error) {
	endpoint := fmt.Sprintf("%s/%s.%s.%s/biblio",
		strings.TrimRight(c.cfg.BiblioURL, "/"), ref.Country, ref.DocNumber, ref.Kind)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return patent.Record{}, errors.Wrap(err, errors.ErrCodeExtractorRequestError, "build epo biblio request")
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return patent.Record{}, errors.Wrap(err, errors.ErrCodeExtractorRequestError, "epo biblio request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return patent.Record{}, errors.Newf(errors.ErrCodeExtractorRequestError, "epo biblio returned %d", resp.StatusCode)
	}

	var doc biblioResponse
	if err := xml.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return patent.Record{}, errors.Wrap(err, errors.ErrCodeExtractorParseError, "decode epo biblio")
	}
	return c.parseBiblio(doc, ref), nil
}

// parseBiblio maps the first exchange document onto patent.Record. EPO does
// not distinguish owners from applicants, so Owners mirrors Applicants; the
// downstream classifier decides which names are Qatar organizations.
func (c *Client) parseBiblio(doc biblioResponse, ref docRef) patent.Record {
	rec := patent.Record{
		ApplicationNumber: strings.TrimSpace(fmt.Sprintf("%s %s %s", ref.Country, ref.DocNumber, ref.Kind)),
		PatentURL: fmt.Sprintf("https://worldwide.espacenet.com/patent/search?q=pn%%3D%s%s",
			ref.Country, ref.DocNumber),
		Source:        patent.SourceEPO,
		ExtractedDate: c.now().Format("2006-01-02"),
	}
	if len(doc.Documents) == 0 {
		return rec
	}
	first := doc.Documents[0]

	rec.Title = pickTitle(first.Biblio.Titles)

	rec.Applicants = joinUnique(applicantValues(first.Biblio.Applicants))
	rec.Owners = rec.Applicants
	rec.Inventors = joinUnique(inventorValues(first.Biblio.Inventors))

	if date := firstDate(first.Biblio.PublicationRefs); date != "" {
		rec.ApplicationDate = date
		if len(date) >= 4 {
			rec.PatentYear = date[:4]
		}
	}

	rec.Abstract = patent.TruncateRunes(pickAbstract(first.Abstracts), maxAbstractLen)
	return rec
}

func pickTitle(titles []inventionTitle) string {
	first := ""
	for _, t := range titles {
		text := strings.TrimSpace(t.Text)
		if text == "" {
			continue
		}
		if t.Lang == "en" {
			return text
		}
		if first == "" {
			first = text
		}
	}
	return first
}

func pickAbstract(abstracts []abstractText) string {
	pick := func(a abstractText) string {
		parts := make([]string, 0, len(a.Paragraphs))
		for _, p := range a.Paragraphs {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		return strings.Join(parts, " ")
	}
	first := ""
	for _, a := range abstracts {
		text := pick(a)
		if text == "" {
			continue
		}
		if a.Lang == "en" {
			return text
		}
		if first == "" {
			first = text
		}
	}
	return first
}

func firstDate(refs []publicationRef) string {
	for _, pub := range refs {
		for _, id := range pub.DocumentIDs {
			if id.Date != "" {
				return id.Date
			}
		}
	}
	return ""
}

func applicantValues(names []applicantName) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, n.Name)
	}
	return out
}

func inventorValues(names []inventorName) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, n.Name)
	}
	return out
}

// joinUnique trims, deduplicates preserving first occurrence, and joins with
// the semicolon convention every name list in the dataset uses.
func joinUnique(names []string) string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return strings.Join(out, "; ")
}
