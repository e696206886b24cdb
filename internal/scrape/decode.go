package scrape

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/venue-quote/internal/model"
)

// decodeRecord turns raw extraction JSON into a record. null or empty input
// yields ErrNoExtract and a non-object payload is an error. Inside the
// object decoding is lenient: a category that is not an array is skipped,
// non-object items are skipped, and mistyped item fields are coerced so one
// bad field never drops the rest of the page.
func decodeRecord(raw []byte) (*model.ExtractionRecord, error) {
	text := bytes.TrimSpace(raw)
	if len(text) == 0 || bytes.Equal(text, []byte("null")) {
		return nil, ErrNoExtract
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(text, &top); err != nil {
		return nil, eris.Wrap(err, "scrape: decode extraction")
	}

	return &model.ExtractionRecord{
		HotelName: looseString(top["hotel_name"]),
		MeetingRooms: decodeItems(top["meeting_rooms"], func(f itemFields) model.MeetingRoom {
			return model.MeetingRoom{Name: f.str("name"), SquareFootage: f.sqft("square_footage")}
		}),
		HotelRoomTypes: decodeItems(top["hotel_room_types"], func(f itemFields) model.RoomType {
			return model.RoomType{Name: f.str("name"), Type: f.str("type"), SquareFootage: f.sqft("square_footage")}
		}),
		RestaurantsOutlets: decodeItems(top["restaurants_outlets"], func(f itemFields) model.Outlet {
			return model.Outlet{Name: f.str("name"), SquareFootage: f.sqft("square_footage")}
		}),
		Amenities: decodeItems(top["amenities"], func(f itemFields) model.Amenity {
			return model.Amenity{Name: f.str("name"), IndoorOrOutdoor: f.str("indoor_or_outdoor")}
		}),
		ConnectingSpaces: decodeItems(top["connecting_spaces"], func(f itemFields) model.ConnectingSpace {
			return model.ConnectingSpace{
				Name:            f.str("name"),
				SquareFootage:   f.sqft("square_footage"),
				IndoorOrOutdoor: f.str("indoor_or_outdoor"),
			}
		}),
	}, nil
}

type itemFields map[string]json.RawMessage

func (f itemFields) str(key string) string {
	return looseString(f[key])
}

func (f itemFields) sqft(key string) model.SquareFootage {
	var s model.SquareFootage
	if err := s.UnmarshalJSON(f[key]); err != nil {
		return model.SquareFootage{}
	}
	return s
}

// decodeItems decodes a category array. Anything other than an array yields
// nil, and elements that are not objects are dropped.
func decodeItems[T any](raw json.RawMessage, build func(itemFields) T) []T {
	var elems []json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &elems) != nil {
		return nil
	}
	out := make([]T, 0, len(elems))
	for _, elem := range elems {
		var fields itemFields
		if json.Unmarshal(elem, &fields) != nil || fields == nil {
			continue
		}
		out = append(out, build(fields))
	}
	return out
}

// looseString reads a JSON value as text. Numbers and booleans keep their
// literal form, arrays join their string elements, and objects or null
// give "".
func looseString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64, bool:
		return string(raw)
	case []any:
		parts := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok && strings.TrimSpace(s) != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}
