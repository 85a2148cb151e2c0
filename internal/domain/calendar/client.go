// internal/domain/calendar/client.go
package calendar

import (
	"context"
	"errors"
	"time"
)

// ErrPublish wraps every failure returned by a Client implementation.
var ErrPublish = errors.New("publish failed")

// Event is a single calendar entry with a title and a start/end pair.
type Event struct {
	Title string
	Start time.Time
	End   time.Time
}

// BlockKind is the type of a document content block.
type BlockKind string

const (
	BlockHeading   BlockKind = "heading"
	BlockParagraph BlockKind = "paragraph"
)

// Block is one line of document content.
type Block struct {
	Kind BlockKind
	Text string
}

// Document is a titled page made of ordered content blocks.
type Document struct {
	Title  string
	Blocks []Block
}

// Client publishes events and documents to the external calendar/notes service.
// Where the items land (database, parent page) is adapter configuration.
// This keeps the application logic independent of the service SDK.
type Client interface {
	CreateEvent(ctx context.Context, event Event) error
	CreateDocument(ctx context.Context, doc Document) error
}
