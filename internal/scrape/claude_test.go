package scrape

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/venue-quote/pkg/anthropic"
	"github.com/sells-group/venue-quote/pkg/jina"
)

func textResponse(text string) *anthropic.MessageResponse {
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: text}},
		Usage:   anthropic.TokenUsage{InputTokens: 100, OutputTokens: 20},
	}
}

func TestClaudeExtractor_Extract(t *testing.T) {
	jc := &mockJina{}
	jc.On("Read", mock.Anything, "https://hotel.com/meetings").Return(&jina.ReadResponse{
		Code: 200,
		Data: jina.ReadData{Title: "Meetings", Content: "## Grand Ballroom\n10,000 sq ft"},
	}, nil)

	ai := &mockAnthropic{}
	ai.On("CreateMessage", mock.Anything, mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		require.Len(t, req.Messages, 1)
		body := req.Messages[0].Content
		return req.Model == defaultClaudeModel &&
			req.System != "" &&
			strings.HasPrefix(body, VenuePrompt) &&
			strings.Contains(body, `"meeting_rooms"`) &&
			strings.Contains(body, "Page: https://hotel.com/meetings (Meetings)") &&
			strings.Contains(body, "Grand Ballroom")
	})).Return(textResponse("Here you go:\n```json\n{\"hotel_name\":\"Hotel X\",\"meeting_rooms\":[{\"name\":\"Grand Ballroom\",\"square_footage\":\"10,000 sq ft\"}]}\n```"), nil)

	e := NewClaudeExtractor(jc, ai)
	rec, err := e.Extract(context.Background(), "https://hotel.com/meetings", VenueSchema(), VenuePrompt)
	require.NoError(t, err)
	assert.Equal(t, "Hotel X", rec.HotelName)
	require.Len(t, rec.MeetingRooms, 1)
	assert.Equal(t, "10,000 sq ft", rec.MeetingRooms[0].SquareFootage.String())
	jc.AssertExpectations(t)
	ai.AssertExpectations(t)
}

func TestClaudeExtractor_EmptyPage(t *testing.T) {
	jc := &mockJina{}
	jc.On("Read", mock.Anything, mock.Anything).Return(&jina.ReadResponse{Data: jina.ReadData{Content: "   "}}, nil)
	ai := &mockAnthropic{}

	_, err := NewClaudeExtractor(jc, ai).Extract(context.Background(), "https://hotel.com", VenueSchema(), VenuePrompt)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoExtract)
	ai.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything)
}

func TestClaudeExtractor_ReaderRetriesTransient(t *testing.T) {
	jc := &mockJina{}
	jc.On("Read", mock.Anything, mock.Anything).Return(nil, &jina.StatusError{StatusCode: 429}).Once()
	jc.On("Read", mock.Anything, mock.Anything).Return(&jina.ReadResponse{Data: jina.ReadData{Content: "Spa"}}, nil).Once()

	ai := &mockAnthropic{}
	ai.On("CreateMessage", mock.Anything, mock.Anything).Return(textResponse(`{"amenities":[{"name":"Spa","indoor_or_outdoor":"Indoor"}]}`), nil)

	e := NewClaudeExtractor(jc, ai)
	e.Retry = fastRetry()

	rec, err := e.Extract(context.Background(), "https://hotel.com/spa", VenueSchema(), VenuePrompt)
	require.NoError(t, err)
	require.Len(t, rec.Amenities, 1)
	jc.AssertNumberOfCalls(t, "Read", 2)
}

func TestClaudeExtractor_BadReply(t *testing.T) {
	jc := &mockJina{}
	jc.On("Read", mock.Anything, mock.Anything).Return(&jina.ReadResponse{Data: jina.ReadData{Content: "page"}}, nil)
	ai := &mockAnthropic{}
	ai.On("CreateMessage", mock.Anything, mock.Anything).Return(textResponse("I could not find any venue data."), nil)

	_, err := NewClaudeExtractor(jc, ai).Extract(context.Background(), "https://hotel.com", VenueSchema(), VenuePrompt)
	require.Error(t, err)
}

func TestClaudeExtractor_TruncatesContent(t *testing.T) {
	jc := &mockJina{}
	jc.On("Read", mock.Anything, mock.Anything).Return(&jina.ReadResponse{Data: jina.ReadData{Content: strings.Repeat("a", 50) + "TAIL"}}, nil)

	ai := &mockAnthropic{}
	ai.On("CreateMessage", mock.Anything, mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		return !strings.Contains(req.Messages[0].Content, "TAIL")
	})).Return(textResponse(`{}`), nil)

	e := NewClaudeExtractor(jc, ai)
	e.MaxPageChars = 50

	rec, err := e.Extract(context.Background(), "https://hotel.com", VenueSchema(), VenuePrompt)
	require.NoError(t, err)
	assert.True(t, rec.IsEmpty())
}
