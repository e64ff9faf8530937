package chat

import "sync"

// DefaultScrollThreshold is how close to the bottom, in pixels, still counts as at-bottom
const DefaultScrollThreshold = 50

// Viewport tracks whether the chat view follows new content. Scrolling away
// from the bottom stops auto-scroll until the user scrolls back or jumps.
type Viewport struct {
	mu        sync.Mutex
	threshold float64
	following bool
	requests  int
}

func NewViewport(threshold float64) *Viewport {
	if threshold <= 0 {
		threshold = DefaultScrollThreshold
	}
	return &Viewport{threshold: threshold, following: true}
}

// Observe records a user scroll position
func (v *Viewport) Observe(offset, contentHeight, clientHeight float64) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.following = contentHeight-offset-clientHeight < v.threshold
	return v.following
}

// JumpToBottom resumes following and issues a scroll
func (v *Viewport) JumpToBottom() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.following = true
	v.requests++
}

// autoScroll issues a scroll only while following
func (v *Viewport) autoScroll() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.following {
		return false
	}
	v.requests++
	return true
}

// Following reports whether auto-scroll is active
func (v *Viewport) Following() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.following
}

// ScrollRequests counts scrolls issued so far, so a polling view can tell when to move
func (v *Viewport) ScrollRequests() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.requests
}
