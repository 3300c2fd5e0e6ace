package gsquote

// FundDetailRequest identifies the share class to query, plus the audience
// fields the funds endpoint requires on every request.
type FundDetailRequest struct {
	Country      string `json:"country"`
	Language     string `json:"language"`
	Audience     string `json:"audience"`
	PvNumber     string `json:"pvNumber"`
	ShareClassID string `json:"shareClassId"`
}

// FundFinderRequest is the search request used to resolve a share-class
// identifier to its pool number during configuration.
type FundFinderRequest struct {
	Country      string `json:"country"`
	Language     string `json:"language"`
	Audience     string `json:"audience"`
	ShareClassID string `json:"shareClassId"`
}

// graphqlRequest is the envelope posted to the funds GraphQL endpoint.
type graphqlRequest struct {
	OperationName string `json:"operationName"`
	Variables     any    `json:"variables"`
	Query         string `json:"query"`
}

// Response is the raw GraphQL response envelope for fund detail queries.
type Response struct {
	Data   *DetailData    `json:"data"`
	Errors []GraphQLError `json:"errors,omitempty"`
}

// DetailData carries the fundsDetail payload of a getFundsDetail query.
type DetailData struct {
	FundsDetail *FundDetail `json:"fundsDetail"`
}

// FinderResponse is the raw GraphQL response envelope for share-class search.
type FinderResponse struct {
	Data   *FinderData    `json:"data"`
	Errors []GraphQLError `json:"errors,omitempty"`
}

// FinderData carries the fundFinderResults payload of a search query.
type FinderData struct {
	FundFinderResults []ShareClassCandidate `json:"fundFinderResults"`
}

// GraphQLError is a single error entry reported by the GraphQL endpoint.
type GraphQLError struct {
	Message string `json:"message"`
}

// FundDetail is the per-share-class detail record returned by the source.
// ID carries the share-class identifier (aliased in the query).
type FundDetail struct {
	ID             string      `json:"id"`
	FundName       string      `json:"fundName"`
	Isin           string      `json:"isin"`
	ScBaseCurrency string      `json:"scBaseCurrency"`
	QuickStats     []QuickStat `json:"quickStats"`
}

// QuickStat is one labeled statistic of a fund detail. The stat labeled
// "netAssetValue" carries the NAV quote.
type QuickStat struct {
	Label          string   `json:"label"`
	AsAtDate       string   `json:"asAtDate"`
	Value          *float64 `json:"value"`
	Currency       string   `json:"currency"`
	UpDownValue    *float64 `json:"upDownValue"`
	UpDownPctValue *float64 `json:"upDownPctValue"`
}

// ShareClassCandidate is one search result of the share-class lookup.
// PvNumber may be empty; callers accept the first candidate that carries one.
type ShareClassCandidate struct {
	ShareClassID string `json:"shareClassId"`
	PvNumber     string `json:"pvNumber"`
	FundName     string `json:"fundName"`
}
