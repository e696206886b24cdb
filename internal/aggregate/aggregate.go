package aggregate

import (
	"strings"

	"github.com/sells-group/venue-quote/internal/model"
)

// Aggregate merges records in scrape order into one profile. Nil records
// (pages that failed) are skipped but still counted in PagesScraped, which
// therefore reports scrape attempts rather than successes.
//
// The first non-empty hotel name wins. Each category is concatenated across
// records and then de-duplicated by name.
func Aggregate(records []*model.ExtractionRecord, sourceURL string) *model.AggregatedProfile {
	p := &model.AggregatedProfile{
		SourceURL:    sourceURL,
		PagesScraped: len(records),
	}

	var (
		meeting    []model.MeetingRoom
		rooms      []model.RoomType
		outlets    []model.Outlet
		amenities  []model.Amenity
		connecting []model.ConnectingSpace
	)

	for _, rec := range records {
		if rec == nil {
			continue
		}
		if p.HotelName == "" && strings.TrimSpace(rec.HotelName) != "" {
			p.HotelName = rec.HotelName
		}
		meeting = append(meeting, rec.MeetingRooms...)
		rooms = append(rooms, rec.HotelRoomTypes...)
		outlets = append(outlets, rec.RestaurantsOutlets...)
		amenities = append(amenities, rec.Amenities...)
		connecting = append(connecting, rec.ConnectingSpaces...)
	}

	p.MeetingRooms = Dedupe(meeting)
	p.HotelRoomTypes = Dedupe(rooms)
	p.RestaurantsOutlets = Dedupe(outlets)
	p.Amenities = Dedupe(amenities)
	p.ConnectingSpaces = Dedupe(connecting)

	return p
}

// Succeeded counts the non-nil records.
func Succeeded(records []*model.ExtractionRecord) int {
	n := 0
	for _, rec := range records {
		if rec != nil {
			n++
		}
	}
	return n
}
