package tracker

import "strings"

// Window ids arrive from the compositor as "class:resource:instance". The
// instance suffix is a per-process counter that changes across restarts, so
// persistence keys drop it. A stable id is not injective: two simultaneous
// windows of one application share it, which is why pending restores are
// queues rather than single entries.

// StableId strips the instance suffix from a window id when the suffix is
// entirely decimal digits. Ids in any other shape pass through unchanged.
func StableId(windowId string) string {
	idx := strings.LastIndexByte(windowId, ':')
	if idx <= 0 || idx == len(windowId)-1 {
		return windowId
	}
	if !allDigits(windowId[idx+1:]) {
		return windowId
	}
	return windowId[:idx]
}

// ClassOf returns the application class, the first colon-separated part.
func ClassOf(windowId string) string {
	if idx := strings.IndexByte(windowId, ':'); idx > 0 {
		return windowId[:idx]
	}
	return windowId
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
