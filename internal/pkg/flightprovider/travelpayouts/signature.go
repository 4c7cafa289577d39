package travelpayouts

import (
	"crypto/md5" //nolint:gosec // digest dictated by the provider protocol
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// Sign computes the request signature the provider validates. Values are
// collected in a fixed order: host, locale, marker, passenger counts
// (adults, children, infants), then date, destination, origin per
// segment in array order, then trip class, then requester IP. The secret
// token leads, everything is joined with ':' and hashed with MD5.
//
// The signature is a pure function of the payload and the token; it must
// be recomputed whenever any field changes and is never reused across
// requests.
func Sign(payload SearchPayload, token string) (string, error) {
	if err := validateSignable(payload, token); err != nil {
		return "", err
	}

	values := []string{
		payload.Host,
		payload.Locale,
		payload.Marker,
		strconv.Itoa(payload.Passengers.Adults),
		strconv.Itoa(payload.Passengers.Children),
		strconv.Itoa(payload.Passengers.Infants),
	}

	for _, segment := range payload.Segments {
		values = append(values, segment.Date, segment.Destination, segment.Origin)
	}

	values = append(values, payload.TripClass, payload.UserIP)

	sum := md5.Sum([]byte(token + ":" + strings.Join(values, ":"))) //nolint:gosec

	return hex.EncodeToString(sum[:]), nil
}

// validateSignable fails fast on missing required fields, before any
// hashing or network call.
func validateSignable(payload SearchPayload, token string) error {
	switch {
	case token == "":
		return fmt.Errorf("sign search payload: %w", errMissingField("token"))
	case payload.Host == "":
		return fmt.Errorf("sign search payload: %w", errMissingField("host"))
	case payload.Locale == "":
		return fmt.Errorf("sign search payload: %w", errMissingField("locale"))
	case payload.Marker == "":
		return fmt.Errorf("sign search payload: %w", errMissingField("marker"))
	case payload.TripClass == "":
		return fmt.Errorf("sign search payload: %w", errMissingField("trip_class"))
	case payload.UserIP == "":
		return fmt.Errorf("sign search payload: %w", errMissingField("user_ip"))
	case len(payload.Segments) == 0:
		return fmt.Errorf("sign search payload: %w", errMissingField("segments"))
	}

	for i, segment := range payload.Segments {
		if segment.Origin == "" || segment.Destination == "" || segment.Date == "" {
			return fmt.Errorf("sign search payload: segment %d: %w", i, errMissingField("origin/destination/date"))
		}
	}

	return nil
}

func errMissingField(field string) error {
	return fmt.Errorf("missing required field %s", field)
}
