package testutil

import (
	"context"
	"time"

	"github.com/navtracker/Fund-NAV-Tracker-Backend/internal/gsquote"
)

// MockQuoteClient is a mock implementation of gsquote.Client for testing.
// It returns predefined test data instead of making actual API calls.
type MockQuoteClient struct {
	// MockDetail is the fund detail to return from FetchFundDetail
	MockDetail gsquote.FundDetail
	// MockError is the error to return from FetchFundDetail
	MockError error
	// SearchResults are the candidates to return from SearchShareClass
	SearchResults []gsquote.ShareClassCandidate
	// SearchErr is the error to return from SearchShareClass
	SearchErr error
	// FetchCount tracks how many times FetchFundDetail was called
	FetchCount int
}

// NewMockQuoteClient creates a new mock quote client with default test data.
// The default detail carries a NAV of 55.1234 in EUR.
func NewMockQuoteClient() *MockQuoteClient {
	return &MockQuoteClient{
		MockDetail: CreateMockFundDetail(55.1234),
	}
}

// FetchFundDetail mocks the fund-detail query with predefined test data.
func (m *MockQuoteClient) FetchFundDetail(_ context.Context, _, _, _ string) (gsquote.FundDetail, error) {
	m.FetchCount++
	if m.MockError != nil {
		return gsquote.FundDetail{}, m.MockError
	}
	return m.MockDetail, nil
}

// SearchShareClass mocks the share-class lookup with predefined candidates.
func (m *MockQuoteClient) SearchShareClass(_ context.Context, _, _ string) ([]gsquote.ShareClassCandidate, error) {
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	return m.SearchResults, nil
}

// WithError configures the mock to return the specified error from fetches.
func (m *MockQuoteClient) WithError(err error) *MockQuoteClient {
	m.MockError = err
	return m
}

// WithDetail configures the mock to return the specified fund detail.
func (m *MockQuoteClient) WithDetail(detail gsquote.FundDetail) *MockQuoteClient {
	m.MockDetail = detail
	return m
}

// WithNav configures the mock to return a detail carrying the given NAV.
func (m *MockQuoteClient) WithNav(nav float64) *MockQuoteClient {
	m.MockDetail = CreateMockFundDetail(nav)
	m.MockError = nil
	return m
}

// WithSearchResults configures the candidates returned by SearchShareClass.
func (m *MockQuoteClient) WithSearchResults(candidates ...gsquote.ShareClassCandidate) *MockQuoteClient {
	m.SearchResults = candidates
	return m
}

// CreateMockFundDetail creates a fund detail whose quick stats carry the given
// NAV, dated yesterday.
func CreateMockFundDetail(nav float64) gsquote.FundDetail {
	asAt := time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")

	return gsquote.FundDetail{
		ID:             "fund-1",
		FundName:       "Mock Global Equity Fund",
		Isin:           "LU0000000001",
		ScBaseCurrency: "EUR",
		QuickStats: []gsquote.QuickStat{
			{
				Label:          "netAssetValue",
				AsAtDate:       asAt,
				Value:          FloatPtr(nav),
				Currency:       "EUR",
				UpDownValue:    FloatPtr(0.12),
				UpDownPctValue: FloatPtr(0.22),
			},
			{
				Label:    "totalNetAssets",
				AsAtDate: asAt,
				Value:    FloatPtr(1234567.89),
				Currency: "EUR",
			},
		},
	}
}
