package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViewport_FollowsUntilScrolledAway(t *testing.T) {
	v := NewViewport(0)

	assert.True(t, v.Following())
	assert.True(t, v.autoScroll())
	assert.Equal(t, 1, v.ScrollRequests())

	// 1000 content, 400 visible, scrolled to 500: 100px from the bottom
	assert.False(t, v.Observe(500, 1000, 400))
	assert.False(t, v.autoScroll())
	assert.Equal(t, 1, v.ScrollRequests())

	// within the threshold again
	assert.True(t, v.Observe(570, 1000, 400))
	assert.True(t, v.autoScroll())
	assert.Equal(t, 2, v.ScrollRequests())
}

func TestViewport_JumpToBottom(t *testing.T) {
	v := NewViewport(50)
	v.Observe(0, 1000, 400)
	assert.False(t, v.Following())

	v.JumpToBottom()

	assert.True(t, v.Following())
	assert.Equal(t, 1, v.ScrollRequests())
}
