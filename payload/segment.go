// Package payload defines the execution payload: the ordered conversational
// and working history threaded through a workflow run.
//
// The payload is append-only. The engine may replace an existing segment in
// place with validated content, but it never reorders, truncates, or drops
// segments. This makes the payload safe to serialize mid-run and re-inject
// later to resume from the same point.
package payload

import (
	"time"

	"github.com/google/uuid"
)

// SegmentType tags the origin of a context segment.
type SegmentType string

// Segment types.
const (
	TypeConversation SegmentType = "conversation"
	TypeStaticMemory SegmentType = "static_memory"
	TypeErrorReport  SegmentType = "error_report"
	TypeToolResult   SegmentType = "tool_result"
)

// Segment is a single immutable unit of run context.
type Segment struct {
	ID        string      `json:"id"`
	Type      SegmentType `json:"type"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewSegment creates a segment with a generated ID and the given timestamp.
func NewSegment(segType SegmentType, content string, ts time.Time) Segment {
	return Segment{
		ID:        uuid.NewString(),
		Type:      segType,
		Content:   content,
		Timestamp: ts,
	}
}
