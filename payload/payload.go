package payload

import (
	"errors"
	"fmt"
)

// ErrUnknownSegment is returned when replacing a segment that does not exist.
var ErrUnknownSegment = errors.New("unknown segment id")

// ErrEmptyContent is returned when a replacement segment carries no content.
var ErrEmptyContent = errors.New("segment content is empty")

// Payload is the ordered execution history of a run. The zero value is an
// empty payload ready for use.
type Payload struct {
	Segments []Segment `json:"segments"`
}

// Append adds segments to the end of the payload.
func (p *Payload) Append(segments ...Segment) {
	p.Segments = append(p.Segments, segments...)
}

// Replace swaps the segment with the given ID for the provided segment,
// keeping its position. The replacement must carry non-empty content; the
// payload never shrinks.
func (p *Payload) Replace(id string, seg Segment) error {
	if seg.Content == "" {
		return fmt.Errorf("replace %q: %w", id, ErrEmptyContent)
	}
	for i := range p.Segments {
		if p.Segments[i].ID == id {
			p.Segments[i] = seg
			return nil
		}
	}
	return fmt.Errorf("replace %q: %w", id, ErrUnknownSegment)
}

// Len returns the number of segments.
func (p *Payload) Len() int {
	return len(p.Segments)
}

// Last returns the most recent segment, or nil if the payload is empty.
func (p *Payload) Last() *Segment {
	if len(p.Segments) == 0 {
		return nil
	}
	s := p.Segments[len(p.Segments)-1]
	return &s
}

// Clone returns a deep copy of the payload.
func (p *Payload) Clone() *Payload {
	c := &Payload{}
	if p.Segments != nil {
		c.Segments = make([]Segment, len(p.Segments))
		copy(c.Segments, p.Segments)
	}
	return c
}
