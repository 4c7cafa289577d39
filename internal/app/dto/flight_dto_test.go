//go:build unit

package dto

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSearchCriteria_Validate(t *testing.T) {
	// Initialize validator for tests
	_ = InitValidator()

	validateRequest := func(req SearchCriteria, wantErr bool, wantMsg string) func(t *testing.T) {
		return func(t *testing.T) {
			err := req.Validate()
			if (err != nil) != wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, wantErr)
			}

			if wantErr && err != nil {
				if diff := cmp.Diff(wantMsg, err.Error()); diff != "" {
					t.Fatalf("Validate() error message mismatch (-want +got):\n%s", diff)
				}
			}
		}
	}

	validCriteria := SearchCriteria{
		Origin:        "DEL",
		Destination:   "BOM",
		DepartureDate: "2025-03-10",
		Adults:        1,
	}

	t.Run("valid_one_way", validateRequest(validCriteria, false, ""))

	t.Run("valid_round_trip", validateRequest(SearchCriteria{
		Origin:        "DEL",
		Destination:   "BOM",
		DepartureDate: "2025-03-10",
		ReturnDate:    "2025-03-17",
		Adults:        2,
	}, false, ""))

	t.Run("missing_origin", validateRequest(SearchCriteria{
		Destination:   "BOM",
		DepartureDate: "2025-03-10",
		Adults:        1,
	}, true, "origin is a required field"))

	t.Run("short_iata_code", validateRequest(SearchCriteria{
		Origin:        "DL",
		Destination:   "BOM",
		DepartureDate: "2025-03-10",
		Adults:        1,
	}, true, "origin must be exactly 3 characters in length"))

	t.Run("malformed_date", validateRequest(SearchCriteria{
		Origin:        "DEL",
		Destination:   "BOM",
		DepartureDate: "10-03-2025",
		Adults:        1,
	}, true, "departure_date does not match the 2006-01-02 format"))

	t.Run("too_many_adults", validateRequest(SearchCriteria{
		Origin:        "DEL",
		Destination:   "BOM",
		DepartureDate: "2025-03-10",
		Adults:        10,
	}, true, "adults must be 9 or less"))
}

func TestSearchCriteria_IsRoundTrip(t *testing.T) {
	oneWay := SearchCriteria{Origin: "DEL", Destination: "BOM", DepartureDate: "2025-03-10"}
	if oneWay.IsRoundTrip() {
		t.Fatal("criteria without return date must be one way")
	}

	roundTrip := oneWay
	roundTrip.ReturnDate = "2025-03-17"
	if !roundTrip.IsRoundTrip() {
		t.Fatal("criteria with return date must be a round trip")
	}
}

func TestSearchCriteriaFromQuery(t *testing.T) {
	_ = InitValidator()

	queryRequest := func(query string, want *SearchCriteria, wantErr bool) func(t *testing.T) {
		return func(t *testing.T) {
			values, err := url.ParseQuery(query)
			if err != nil {
				t.Fatalf("parse query: %v", err)
			}

			got, err := SearchCriteriaFromQuery(values)
			if (err != nil) != wantErr {
				t.Fatalf("SearchCriteriaFromQuery() error = %v, wantErr %v", err, wantErr)
			}

			if !wantErr {
				if diff := cmp.Diff(want, got); diff != "" {
					t.Fatalf("criteria mismatch (-want +got):\n%s", diff)
				}
			}
		}
	}

	t.Run("defaults_one_adult", queryRequest(
		"origin=DEL&destination=BOM&departure_date=2025-03-10",
		&SearchCriteria{Origin: "DEL", Destination: "BOM", DepartureDate: "2025-03-10", Adults: 1},
		false))

	t.Run("full_round_trip", queryRequest(
		"origin=DEL&destination=BOM&departure_date=2025-03-10&return_date=2025-03-17&adults=3",
		&SearchCriteria{
			Origin: "DEL", Destination: "BOM",
			DepartureDate: "2025-03-10", ReturnDate: "2025-03-17", Adults: 3,
		},
		false))

	t.Run("non_numeric_adults", queryRequest(
		"origin=DEL&destination=BOM&departure_date=2025-03-10&adults=many",
		nil, true))

	t.Run("missing_destination", queryRequest(
		"origin=DEL&departure_date=2025-03-10",
		nil, true))
}
