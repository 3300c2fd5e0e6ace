package gsquote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "github.com/navtracker/Fund-NAV-Tracker-Backend/internal/errors"
	"github.com/navtracker/Fund-NAV-Tracker-Backend/internal/model"
)

// navStatLabel is the quickStats label that carries the NAV quote.
const navStatLabel = "netAssetValue"

// requestTimeout bounds every round-trip to the funds endpoint. A refresh
// cycle that exceeds it fails and is retried on the next scheduled cycle.
const requestTimeout = 30 * time.Second

// Request defaults expected by the funds endpoint.
const (
	defaultCountry  = "ro"
	defaultLanguage = "ro"
	defaultAudience = "individual"
)

const fundDetailQuery = "query getFundsDetail($fundDetailRequest: FundDetailRequest) { " +
	"fundsDetail(fundDetailRequest: $fundDetailRequest) { " +
	"id: shareClassId fundName isin scBaseCurrency quickStats { " +
	"label asAtDate value currency upDownValue upDownPctValue } } }"

const fundFinderQuery = "query getFundFinderResults($fundFinderRequest: FundFinderRequest) { " +
	"fundFinderResults(fundFinderRequest: $fundFinderRequest) { " +
	"shareClassId pvNumber fundName } }"

// Client is the interface for querying the funds data source. It is satisfied
// by FundsClient and by test mocks.
type Client interface {
	FetchFundDetail(ctx context.Context, resourceURL, pvNumber, shareClassID string) (FundDetail, error)
	SearchShareClass(ctx context.Context, resourceURL, shareClassID string) ([]ShareClassCandidate, error)
}

// FundsClient queries the fund provider's GraphQL endpoint for share-class
// details and NAV quotes. It wraps a plain HTTP client with a fixed request
// timeout.
type FundsClient struct {
	httpClient *http.Client
}

// NewFundsClient creates a new funds client with default HTTP settings.
func NewFundsClient() *FundsClient {
	return &FundsClient{
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// FetchFundDetail fetches the detail record for one share class. Any
// transport error, non-200 status, GraphQL error, or absent fundsDetail
// payload is returned as an error; callers treat all of them as a failed
// refresh cycle, not a fatal condition.
func (c *FundsClient) FetchFundDetail(ctx context.Context, resourceURL, pvNumber, shareClassID string) (FundDetail, error) {
	payload := graphqlRequest{
		OperationName: "getFundsDetail",
		Variables: map[string]FundDetailRequest{
			"fundDetailRequest": {
				Country:      defaultCountry,
				Language:     defaultLanguage,
				Audience:     defaultAudience,
				PvNumber:     pvNumber,
				ShareClassID: shareClassID,
			},
		},
		Query: fundDetailQuery,
	}

	var response Response
	if err := c.post(ctx, resourceURL, payload, &response); err != nil {
		return FundDetail{}, err
	}
	if len(response.Errors) > 0 {
		return FundDetail{}, fmt.Errorf("funds endpoint error: %s", response.Errors[0].Message)
	}
	if response.Data == nil || response.Data.FundsDetail == nil {
		return FundDetail{}, apperrors.ErrFundDetailMissing
	}

	return *response.Data.FundsDetail, nil
}

// SearchShareClass looks up candidate records for a share-class identifier.
// It is used only during configuration, to resolve the pool number when the
// user did not supply one. An empty candidate list is a normal outcome
// ("not found"), not an error; errors indicate the lookup itself failed.
func (c *FundsClient) SearchShareClass(ctx context.Context, resourceURL, shareClassID string) ([]ShareClassCandidate, error) {
	payload := graphqlRequest{
		OperationName: "getFundFinderResults",
		Variables: map[string]FundFinderRequest{
			"fundFinderRequest": {
				Country:      defaultCountry,
				Language:     defaultLanguage,
				Audience:     defaultAudience,
				ShareClassID: shareClassID,
			},
		},
		Query: fundFinderQuery,
	}

	var response FinderResponse
	if err := c.post(ctx, resourceURL, payload, &response); err != nil {
		return nil, err
	}
	if len(response.Errors) > 0 {
		return nil, fmt.Errorf("funds endpoint error: %s", response.Errors[0].Message)
	}
	if response.Data == nil {
		return nil, nil
	}

	return response.Data.FundFinderResults, nil
}

// post executes one GraphQL request and decodes the response into out.
func (c *FundsClient) post(ctx context.Context, resourceURL string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, resourceURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// ParseNavQuote extracts the NAV quote from a fund detail record. The quote
// is the quickStats item labeled "netAssetValue"; an absent stat or a null
// value means the payload is unusable for this cycle.
func ParseNavQuote(detail FundDetail) (model.NavQuote, error) {
	for _, stat := range detail.QuickStats {
		if stat.Label != navStatLabel {
			continue
		}
		if stat.Value == nil {
			return model.NavQuote{}, apperrors.ErrNavMissing
		}
		return model.NavQuote{
			Value:        *stat.Value,
			AsAtDate:     stat.AsAtDate,
			Currency:     stat.Currency,
			UpDownValue:  stat.UpDownValue,
			UpDownPct:    stat.UpDownPctValue,
			FundName:     detail.FundName,
			BaseCurrency: detail.ScBaseCurrency,
			ShareClassID: detail.ID,
		}, nil
	}
	return model.NavQuote{}, apperrors.ErrNavMissing
}
