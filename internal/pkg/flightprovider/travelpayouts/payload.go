package travelpayouts

import (
	"sort"
	"strconv"
)

// RedirectBaseURL prefixes a term's url fragment to form the public
// agency redirect link.
const RedirectBaseURL = "https://www.travelpayouts.com/redirect/"

// SearchPayload is the signed body of the search-initiating call. Field
// values feed the signature in a fixed order, see Sign.
type SearchPayload struct {
	Signature  string          `json:"signature"`
	Host       string          `json:"host"`
	Marker     string          `json:"marker"`
	UserIP     string          `json:"user_ip"`
	Locale     string          `json:"locale"`
	TripClass  string          `json:"trip_class"`
	Passengers Passengers      `json:"passengers"`
	Segments   []SearchSegment `json:"segments"`
}

type Passengers struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
	Infants  int `json:"infants"`
}

// SearchSegment is one direction of travel in the outgoing request.
type SearchSegment struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Date        string `json:"date"`
}

type initResponse struct {
	SearchID string `json:"search_id"`
	UUID     string `json:"uuid"`
}

func (r initResponse) sessionID() string {
	if r.SearchID != "" {
		return r.SearchID
	}

	return r.UUID
}

// SearchResult is one result group of the poll response. Groups carry
// proposals plus an echoed session id; the trailing group of a finished
// search may carry the session id alone.
type SearchResult struct {
	SearchID  string     `json:"search_id,omitempty"`
	UUID      string     `json:"uuid,omitempty"`
	Proposals []Proposal `json:"proposals,omitempty"`
}

func (r SearchResult) SessionID() string {
	if r.SearchID != "" {
		return r.SearchID
	}

	return r.UUID
}

// SessionID returns the session id echoed by the first result group.
func SessionID(results []SearchResult) string {
	if len(results) == 0 {
		return ""
	}

	return results[0].SessionID()
}

// CountProposals sums proposals over all result groups.
func CountProposals(results []SearchResult) int {
	total := 0
	for _, item := range results {
		total += len(item.Proposals)
	}

	return total
}

// Proposal is one priced itinerary offer, holding one segment per
// direction and a terms map keyed by agency.
type Proposal struct {
	Segment           []Segment       `json:"segment"`
	Terms             map[string]Term `json:"terms"`
	Carriers          []string        `json:"carriers"`
	ValidatingCarrier string          `json:"validating_carrier"`
}

// Airline resolves the displayed carrier: first listed carrier, then the
// validating carrier, then a placeholder.
func (p Proposal) Airline() string {
	if len(p.Carriers) > 0 {
		return p.Carriers[0]
	}

	if p.ValidatingCarrier != "" {
		return p.ValidatingCarrier
	}

	return "Unknown"
}

// FirstTerm picks a term deterministically. JSON object order does not
// survive decoding into a map, so the lexically first agency key is used.
func (p Proposal) FirstTerm() (string, Term, bool) {
	if len(p.Terms) == 0 {
		return "", Term{}, false
	}

	keys := make([]string, 0, len(p.Terms))
	for key := range p.Terms {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return keys[0], p.Terms[keys[0]], true
}

// Segment is one direction of travel composed of one or more flight legs.
type Segment struct {
	Flight []FlightLeg `json:"flight"`
}

// FlightLeg is a single operated flight inside a segment.
type FlightLeg struct {
	Departure         string `json:"departure"`
	Arrival           string `json:"arrival"`
	DepartureDate     string `json:"departure_date"`
	DepartureTime     string `json:"departure_time"`
	ArrivalDate       string `json:"arrival_date"`
	ArrivalTime       string `json:"arrival_time"`
	Number            string `json:"number"`
	DepartureTerminal string `json:"departure_terminal,omitempty"`
	ArrivalTerminal   string `json:"arrival_terminal,omitempty"`
	Aircraft          string `json:"aircraft,omitempty"`
	OperatingCarrier  string `json:"operating_carrier,omitempty"`
	FareBasis         string `json:"fare_basis,omitempty"`
	Duration          int    `json:"duration,omitempty"`
	SeatsRemaining    int    `json:"seats_remaining,omitempty"`
	Meal              string `json:"meal,omitempty"`
	Entertainment     string `json:"entertainment,omitempty"`
	Wifi              bool   `json:"wifi,omitempty"`
	PowerOutlets      bool   `json:"power_outlets,omitempty"`
}

// Term is an agency-specific offer for a proposal.
type Term struct {
	Currency           string     `json:"currency"`
	Price              float64    `json:"price"`
	UnifiedPrice       float64    `json:"unified_price,omitempty"`
	Multiplier         float64    `json:"multiplier,omitempty"`
	ProposalMultiplier float64    `json:"proposal_multiplier,omitempty"`
	URL                int64      `json:"url,omitempty"`
	FlightsHandbags    [][]string `json:"flights_handbags,omitempty"`
	BaggageInfo        string     `json:"baggage_info,omitempty"`
}

// URLFragment is the redirect-url path fragment for the clicks API,
// falling back to the term's map key when the term carries no url.
func (t Term) URLFragment(key string) string {
	if t.URL != 0 {
		return strconv.FormatInt(t.URL, 10)
	}

	return key
}
