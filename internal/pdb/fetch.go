// Package pdb fetches per-entry validation metadata from the RCSB data
// API. The metrics ride along in summary reports next to the computed
// pair scores; none of them feed into scoring.
package pdb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"

	"github.com/rnaq/rnaq/internal/util"
)

const entryURL = "https://data.rcsb.org/rest/v1/core/entry/"

// Metrics are the validation and experiment fields reported for a PDB
// entry. String fields stay empty and float pointers stay nil when the
// entry does not carry them, which is common for EM structures.
type Metrics struct {
	PDBID string `json:"pdb_id"`

	ExperimentalMethod  string `json:"experimental_method,omitempty"`
	DepositionDate      string `json:"deposition_date,omitempty"`
	DeterminationMethod string `json:"structure_determination_method,omitempty"`

	RefinementResolution *float64 `json:"refinement_resolution,omitempty"`
	RFree                *float64 `json:"r_free,omitempty"`
	RWork                *float64 `json:"r_work,omitempty"`

	Clashscore      *float64 `json:"clashscore,omitempty"`
	RNASuiteness    *float64 `json:"rnasuiteness,omitempty"`
	AnglesRMSZ      *float64 `json:"angles_rmsz,omitempty"`
	BondsRMSZ       *float64 `json:"bonds_rmsz,omitempty"`
	RamaOutliers    *float64 `json:"percent_ramachandran_outliers,omitempty"`
	RotamerOutliers *float64 `json:"percent_rotamer_outliers,omitempty"`
}

// Client fetches entry metadata with retries.
type Client struct {
	http *retryablehttp.Client
	base string
}

// NewClient returns a Client against the public RCSB data API.
func NewClient() *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.HTTPClient.Timeout = 30 * time.Second
	retryClient.Logger = nil
	return &Client{http: retryClient, base: entryURL}
}

// Fetch downloads the core-entry record for a PDB ID and extracts the
// validation metrics.
func (c *Client) Fetch(ctx context.Context, pdbID string) (*Metrics, error) {
	id := strings.ToUpper(strings.TrimSpace(pdbID))
	if id == "" {
		return nil, fmt.Errorf("empty PDB ID")
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.base+id, nil)
	if err != nil {
		return nil, err
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching entry %s: %w", id, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("entry %s not found", id)
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching entry %s: HTTP %d", id, res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	m := parseMetrics(id, body)
	util.Log.WithField("pdb_id", id).Debug("fetched entry metadata")
	return m, nil
}

func parseMetrics(id string, body []byte) *Metrics {
	doc := gjson.ParseBytes(body)
	m := &Metrics{PDBID: id}

	m.ExperimentalMethod = doc.Get("rcsb_entry_info.experimental_method").String()
	m.DepositionDate = doc.Get("rcsb_entry_info.deposition_date").String()
	m.DeterminationMethod = doc.Get("exptl.0.method").String()

	m.RefinementResolution = optFloat(doc.Get("refine.0.ls_d_res_high"))
	m.RFree = optFloat(doc.Get("refine.0.ls_R_free_R_factor"))
	m.RWork = optFloat(doc.Get("refine.0.ls_R_factor_R_work"))

	summary := doc.Get("pdbx_vrpt_summary.0")
	if !summary.Exists() {
		// some entries report the summary as an object, not a list
		summary = doc.Get("pdbx_vrpt_summary")
	}
	m.Clashscore = optFloat(summary.Get("clashscore"))
	m.RNASuiteness = optFloat(summary.Get("rnasuiteness"))
	m.AnglesRMSZ = optFloat(summary.Get("angles_rmsz"))
	m.BondsRMSZ = optFloat(summary.Get("bonds_rmsz"))
	m.RamaOutliers = optFloat(summary.Get("percent_ramachandran_outliers"))
	m.RotamerOutliers = optFloat(summary.Get("percent_rotamer_outliers"))

	return m
}

func optFloat(r gjson.Result) *float64 {
	if !r.Exists() {
		return nil
	}
	v := r.Float()
	return &v
}
