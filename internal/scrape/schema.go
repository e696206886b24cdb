package scrape

import "encoding/json"

// Schema is a JSON Schema document handed to the extraction service.
type Schema map[string]any

// JSON renders the schema for inclusion in a prompt.
func (s Schema) JSON() string {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}

// VenuePrompt is the extraction hint sent with VenueSchema.
const VenuePrompt = "Extract all hotel venue information including meeting rooms, event spaces, ballrooms, " +
	"guest room types, restaurants, amenities, and connecting spaces. Include square footage wherever mentioned."

func str(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

func list(description string, props map[string]any) map[string]any {
	return map[string]any{
		"type":        "array",
		"description": description,
		"items": map[string]any{
			"type":       "object",
			"properties": props,
		},
	}
}

// VenueSchema returns a fresh copy of the hotel venue extraction schema.
func VenueSchema() Schema {
	indoorOutdoor := `"Indoor", "Outdoor", or "Both"`
	return Schema{
		"type": "object",
		"properties": map[string]any{
			"hotel_name": str("Name of the hotel"),
			"meeting_rooms": list("List of meeting rooms, ballrooms, conference rooms, and event spaces", map[string]any{
				"name":           str("Name of the meeting room or event space"),
				"square_footage": str(`Square footage of the room (e.g., "1,200 sq ft" or "1200")`),
			}),
			"hotel_room_types": list("List of guest room types and accommodations", map[string]any{
				"name":           str(`Name of the room type (e.g., "Deluxe King Suite")`),
				"type":           str(`Category type (e.g., "Suite", "Standard", "Deluxe")`),
				"square_footage": str("Square footage of the room"),
			}),
			"restaurants_outlets": list("List of restaurants, bars, cafes, and F&B outlets", map[string]any{
				"name":           str("Name of the restaurant or outlet"),
				"square_footage": str("Square footage if available"),
			}),
			"amenities": list("List of hotel amenities and facilities", map[string]any{
				"name":              str(`Name of the amenity (e.g., "Pool", "Spa", "Fitness Center")`),
				"indoor_or_outdoor": str(indoorOutdoor),
			}),
			"connecting_spaces": list("List of pre-function areas, foyers, terraces, and connecting spaces", map[string]any{
				"name":              str(`Name of the connecting space (e.g., "Pre-function Area", "Foyer")`),
				"square_footage":    str("Square footage of the space"),
				"indoor_or_outdoor": str(indoorOutdoor),
			}),
		},
	}
}
