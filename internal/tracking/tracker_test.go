package tracking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prismsignal/prism/internal/logger"
	"github.com/prismsignal/prism/internal/pdfconv"
)

type fakeMessageSender struct {
	chats []string
	texts []string
	err   error
}

func (f *fakeMessageSender) SendMessage(_ context.Context, chatID, text string) error {
	if f.err != nil {
		return f.err
	}
	f.chats = append(f.chats, chatID)
	f.texts = append(f.texts, text)
	return nil
}

func docs() []pdfconv.Artifact {
	return []pdfconv.Artifact{
		{Code: "005930", Name: "삼성전자", Path: "/pdf/005930.pdf"},
		{Code: "000660", Name: "SK하이닉스", Path: "/pdf/000660.pdf"},
	}
}

func TestTrack_SendsDigest(t *testing.T) {
	sender := &fakeMessageSender{}
	tracker := NewDigestTracker(sender, logger.Nop())
	tracker.now = func() time.Time { return time.Date(2026, 3, 2, 16, 30, 0, 0, time.UTC) }

	require.NoError(t, tracker.Track(context.Background(), docs(), "-100123"))

	require.Len(t, sender.texts, 1)
	assert.Equal(t, "-100123", sender.chats[0])
	assert.Contains(t, sender.texts[0], "트래킹 등록")
	assert.Contains(t, sender.texts[0], "삼성전자")
	assert.Contains(t, sender.texts[0], "000660")
}

func TestTrack_EmptyDocsIsNoop(t *testing.T) {
	sender := &fakeMessageSender{}
	tracker := NewDigestTracker(sender, logger.Nop())

	require.NoError(t, tracker.Track(context.Background(), nil, "-100123"))
	assert.Empty(t, sender.texts)
}

func TestTrack_NoChannelLogsOnly(t *testing.T) {
	sender := &fakeMessageSender{}
	tracker := NewDigestTracker(sender, logger.Nop())

	require.NoError(t, tracker.Track(context.Background(), docs(), ""))
	assert.Empty(t, sender.texts)
}

func TestTrack_NilSenderLogsOnly(t *testing.T) {
	tracker := NewDigestTracker(nil, logger.Nop())
	require.NoError(t, tracker.Track(context.Background(), docs(), "-100123"))
}

func TestTrack_SendFailureIsReturned(t *testing.T) {
	sender := &fakeMessageSender{err: errors.New("network down")}
	tracker := NewDigestTracker(sender, logger.Nop())

	err := tracker.Track(context.Background(), docs(), "-100123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tracking digest delivery failed")
}
