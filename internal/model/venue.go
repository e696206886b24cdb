package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// SquareFootage holds a size field exactly as the extractor returned it: free
// text ("1,200 sq ft"), a bare number, or nothing.
type SquareFootage struct {
	value any
}

// SqFt wraps a raw size value. Strings and float64 are kept as-is; other
// numeric types are widened to float64.
func SqFt(v any) SquareFootage {
	switch n := v.(type) {
	case int:
		return SquareFootage{value: float64(n)}
	case int64:
		return SquareFootage{value: float64(n)}
	case float32:
		return SquareFootage{value: float64(n)}
	}
	return SquareFootage{value: v}
}

// Value returns the raw value (string, float64 or nil).
func (s SquareFootage) Value() any { return s.value }

// IsZero reports whether no value was provided.
func (s SquareFootage) IsZero() bool {
	if s.value == nil {
		return true
	}
	str, ok := s.value.(string)
	return ok && str == ""
}

// String renders the value for display.
func (s SquareFootage) String() string {
	switch v := s.value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		b, _ := json.Marshal(v)
		return string(b)
	}
}

// MarshalJSON emits the raw value.
func (s SquareFootage) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.value)
}

// UnmarshalJSON accepts strings, numbers and null. Anything else is kept as
// its JSON text so the parser can still try it.
func (s *SquareFootage) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		s.value = nil
		return nil
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch v.(type) {
	case string, float64:
		s.value = v
	default:
		s.value = string(data)
	}
	return nil
}

// MarshalYAML emits the raw value.
func (s SquareFootage) MarshalYAML() (any, error) {
	return s.value, nil
}

// MeetingRoom is a meeting room, ballroom or other event space.
type MeetingRoom struct {
	Name          string        `json:"name" yaml:"name"`
	SquareFootage SquareFootage `json:"square_footage,omitzero" yaml:"square_footage,omitempty"`
}

// RoomType is a guest room category.
type RoomType struct {
	Name          string        `json:"name" yaml:"name"`
	Type          string        `json:"type,omitempty" yaml:"type,omitempty"`
	SquareFootage SquareFootage `json:"square_footage,omitzero" yaml:"square_footage,omitempty"`
}

// Outlet is a restaurant, bar, cafe or other F&B outlet.
type Outlet struct {
	Name          string        `json:"name" yaml:"name"`
	SquareFootage SquareFootage `json:"square_footage,omitzero" yaml:"square_footage,omitempty"`
}

// Amenity is a hotel facility such as a pool or spa.
type Amenity struct {
	Name            string `json:"name" yaml:"name"`
	IndoorOrOutdoor string `json:"indoor_or_outdoor,omitempty" yaml:"indoor_or_outdoor,omitempty"`
}

// ConnectingSpace is a pre-function area, foyer or terrace.
type ConnectingSpace struct {
	Name            string        `json:"name" yaml:"name"`
	SquareFootage   SquareFootage `json:"square_footage,omitzero" yaml:"square_footage,omitempty"`
	IndoorOrOutdoor string        `json:"indoor_or_outdoor,omitempty" yaml:"indoor_or_outdoor,omitempty"`
}

// ItemName implementations let the deduplicator work on every category.
func (m MeetingRoom) ItemName() string     { return m.Name }
func (r RoomType) ItemName() string        { return r.Name }
func (o Outlet) ItemName() string          { return o.Name }
func (a Amenity) ItemName() string         { return a.Name }
func (c ConnectingSpace) ItemName() string { return c.Name }

// ExtractionRecord is the structured result extracted from a single page.
type ExtractionRecord struct {
	HotelName          string            `json:"hotel_name,omitempty" yaml:"hotel_name,omitempty"`
	MeetingRooms       []MeetingRoom     `json:"meeting_rooms,omitempty" yaml:"meeting_rooms,omitempty"`
	HotelRoomTypes     []RoomType        `json:"hotel_room_types,omitempty" yaml:"hotel_room_types,omitempty"`
	RestaurantsOutlets []Outlet          `json:"restaurants_outlets,omitempty" yaml:"restaurants_outlets,omitempty"`
	Amenities          []Amenity         `json:"amenities,omitempty" yaml:"amenities,omitempty"`
	ConnectingSpaces   []ConnectingSpace `json:"connecting_spaces,omitempty" yaml:"connecting_spaces,omitempty"`
}

// IsEmpty reports whether the record carries no data at all.
func (r *ExtractionRecord) IsEmpty() bool {
	if r == nil {
		return true
	}
	return strings.TrimSpace(r.HotelName) == "" &&
		len(r.MeetingRooms) == 0 &&
		len(r.HotelRoomTypes) == 0 &&
		len(r.RestaurantsOutlets) == 0 &&
		len(r.Amenities) == 0 &&
		len(r.ConnectingSpaces) == 0
}

// AggregatedProfile is the merged, de-duplicated view over every page
// extracted for one site.
type AggregatedProfile struct {
	HotelName          string            `json:"hotel_name" yaml:"hotel_name"`
	SourceURL          string            `json:"source_url" yaml:"source_url"`
	PagesScraped       int               `json:"pages_scraped" yaml:"pages_scraped"`
	MeetingRooms       []MeetingRoom     `json:"meeting_rooms" yaml:"meeting_rooms"`
	HotelRoomTypes     []RoomType        `json:"hotel_room_types" yaml:"hotel_room_types"`
	RestaurantsOutlets []Outlet          `json:"restaurants_outlets" yaml:"restaurants_outlets"`
	Amenities          []Amenity         `json:"amenities" yaml:"amenities"`
	ConnectingSpaces   []ConnectingSpace `json:"connecting_spaces" yaml:"connecting_spaces"`
}

// Quote is the response for one site: the profile fields at the top level
// plus the derived pricing.
type Quote struct {
	AggregatedProfile `yaml:",inline"`
	Pricing           PricingQuote `json:"pricing" yaml:"pricing"`
}
