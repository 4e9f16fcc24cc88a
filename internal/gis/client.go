package gis

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"propertyscout/internal/models"
)

// DefaultParcelURL is the City of Rochester open tax parcel feature service.
const DefaultParcelURL = "https://maps.cityofrochester.gov/server/rest/services/Open_Data/Tax_Parcels_Open_Data/FeatureServer/0/query"

// OutFields are the parcel attributes requested from the feature service.
const OutFields = "SITEADDRESS,OWNERNME1,CURRENT_TOTAL_VALUE,SALE_PRICE,ZONING"

var (
	ErrEmptyAddress = errors.New("address is required")
	ErrLookupFailed = errors.New("parcel lookup failed")
)

type Options struct {
	BaseURL            string
	Timeout            time.Duration
	RequestsPerMinute  int
	MaxResults         int
	InsecureSkipVerify bool
}

// Client queries the parcel feature service.
type Client struct {
	baseURL    string
	maxResults int
	client     *http.Client
	limiter    *rate.Limiter
	logger     *logrus.Logger
}

func NewClient(logger *logrus.Logger, opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultParcelURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = 5
	}

	limit := rate.Inf
	if opts.RequestsPerMinute > 0 {
		limit = rate.Limit(float64(opts.RequestsPerMinute) / 60.0)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if opts.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &Client{
		baseURL:    opts.BaseURL,
		maxResults: opts.MaxResults,
		client:     &http.Client{Timeout: opts.Timeout, Transport: transport},
		limiter:    rate.NewLimiter(limit, 1),
		logger:     logger,
	}
}

// WhereClause builds the wildcard SITEADDRESS filter for address.
func WhereClause(address string) string {
	clean := strings.ToUpper(strings.TrimSpace(address))
	clean = strings.ReplaceAll(clean, "'", "''")
	return fmt.Sprintf("SITEADDRESS LIKE '%%%s%%'", clean)
}

type attributes struct {
	SiteAddress       string   `json:"SITEADDRESS"`
	OwnerName         string   `json:"OWNERNME1"`
	CurrentTotalValue *float64 `json:"CURRENT_TOTAL_VALUE"`
	SalePrice         *float64 `json:"SALE_PRICE"`
	Zoning            string   `json:"ZONING"`
}

type queryResponse struct {
	Features []struct {
		Attributes attributes `json:"attributes"`
	} `json:"features"`
	Error *struct {
		Code    int      `json:"code"`
		Message string   `json:"message"`
		Details []string `json:"details"`
	} `json:"error"`
}

// LookupParcels returns up to MaxResults parcels whose site address contains
// address. No match yields nil and no error.
func (c *Client) LookupParcels(ctx context.Context, address string) ([]models.Parcel, error) {
	if strings.TrimSpace(address) == "" {
		return nil, ErrEmptyAddress
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("where", WhereClause(address))
	params.Set("outFields", OutFields)
	params.Set("f", "json")
	params.Set("returnGeometry", "false")
	params.Set("resultRecordCount", strconv.Itoa(c.maxResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.URL.RawQuery = params.Encode()

	c.logger.WithField("address", address).Debug("Querying parcel feature service")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrLookupFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var result queryResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if result.Error != nil {
		return nil, fmt.Errorf("%w: %s (code %d)", ErrLookupFailed, result.Error.Message, result.Error.Code)
	}
	if len(result.Features) == 0 {
		return nil, nil
	}

	parcels := make([]models.Parcel, 0, len(result.Features))
	for _, f := range result.Features {
		parcels = append(parcels, models.Parcel{
			SiteAddress:       f.Attributes.SiteAddress,
			OwnerName:         f.Attributes.OwnerName,
			CurrentTotalValue: f.Attributes.CurrentTotalValue,
			SalePrice:         f.Attributes.SalePrice,
			Zoning:            f.Attributes.Zoning,
		})
	}

	c.logger.WithFields(logrus.Fields{
		"address": address,
		"matches": len(parcels),
	}).Info("Parcel lookup completed")
	return parcels, nil
}
