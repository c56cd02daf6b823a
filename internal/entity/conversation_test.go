package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveCounterpart_Direct(t *testing.T) {
	conv := &Conversation{
		IsGroup: false,
		Members: []string{"user-a", "user-b"},
	}

	peer, ok := conv.ResolveCounterpart("user-a")
	assert.True(t, ok)
	assert.Equal(t, "user-b", peer)

	peer, ok = conv.ResolveCounterpart("user-b")
	assert.True(t, ok)
	assert.Equal(t, "user-a", peer)
}

func TestResolveCounterpart_Group(t *testing.T) {
	conv := &Conversation{
		IsGroup: true,
		Members: []string{"user-a", "user-b", "user-c"},
	}

	_, ok := conv.ResolveCounterpart("user-a")
	assert.False(t, ok, "group conversations have no single counterpart")
}

func TestResolveCounterpart_NotAMember(t *testing.T) {
	conv := &Conversation{
		IsGroup: false,
		Members: []string{"user-a", "user-b"},
	}

	_, ok := conv.ResolveCounterpart("stranger")
	assert.False(t, ok)
}

func TestMarkerFor(t *testing.T) {
	seen := time.Now()
	conv := &Conversation{
		ReadBy: []ReadMarker{
			{UserID: "user-a", LastSeenAt: seen},
		},
	}

	marker, ok := conv.MarkerFor("user-a")
	assert.True(t, ok)
	assert.Equal(t, seen, marker.LastSeenAt)

	_, ok = conv.MarkerFor("user-b")
	assert.False(t, ok)
}

func TestMessagePreviewContent(t *testing.T) {
	assert.Equal(t, "hello", (&Message{Type: MessageTypeText, Content: "hello"}).PreviewContent())
	assert.Equal(t, "Sent an image", (&Message{Type: MessageTypeImage, Content: "https://cdn/x.png"}).PreviewContent())
	assert.Equal(t, "Sent a file", (&Message{Type: MessageTypeFile, Content: "report.pdf"}).PreviewContent())
}
