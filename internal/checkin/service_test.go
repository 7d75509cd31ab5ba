package checkin

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomdesk/pkg/client"
	apperrors "roomdesk/pkg/errors"
	"roomdesk/pkg/logger"
)

func TestExtractCode(t *testing.T) {
	tests := []struct {
		payload string
		want    string
		wantErr bool
	}{
		{payload: "ABC123", want: "ABC123"},
		{payload: "  ABC123\n", want: "ABC123"},
		{payload: "https://rooms.example.com/checkin?code=XYZ-9", want: "XYZ-9"},
		{payload: "https://rooms.example.com/checkin?lang=vi&checkinCode=Q1", want: "Q1"},
		{payload: "/checkin?code=rel", want: "rel"},
		{payload: "https://rooms.example.com/checkin", wantErr: true},
		{payload: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.payload, func(t *testing.T) {
			got, err := ExtractCode(tt.payload)
			if tt.wantErr {
				assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

type fakeBackend struct {
	codes []string
}

func (f *fakeBackend) CheckInQR(_ context.Context, code string) (*client.Meeting, error) {
	f.codes = append(f.codes, code)
	return &client.Meeting{ID: 4, Title: "Retro", CheckedIn: true}, nil
}

func (f *fakeBackend) GetMeeting(_ context.Context, id int64) (*client.Meeting, error) {
	return &client.Meeting{ID: id, CheckinCode: "CODE-" + string(rune('0'+id))}, nil
}

func TestCheckIn(t *testing.T) {
	api := &fakeBackend{}
	s := NewService("https://rooms.example.com/", logger.Nop())

	meeting, err := s.CheckIn(context.Background(), api, "https://rooms.example.com/checkin?code=K7")
	require.NoError(t, err)
	assert.True(t, meeting.CheckedIn)
	assert.Equal(t, []string{"K7"}, api.codes)

	_, err = s.CheckIn(context.Background(), api, "  ")
	assert.Error(t, err)
	assert.Len(t, api.codes, 1)
}

func TestRenderQR(t *testing.T) {
	s := NewService("https://rooms.example.com/", logger.Nop())
	assert.Equal(t, "https://rooms.example.com/checkin?code=A+B", s.Link("A B"))

	png, err := s.MeetingQR(context.Background(), &fakeBackend{}, 3)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	_, err = s.RenderQR("")
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
}
