// internal/infra/notion/client.go
package notion

import (
	"context"
	"fmt"
	"time"

	"bigben_scheduler/internal/domain/calendar"

	"github.com/jomei/notionapi"
)

// pageCreator is the part of notionapi.PageService the adapter uses.
type pageCreator interface {
	Create(ctx context.Context, request *notionapi.PageCreateRequest) (*notionapi.Page, error)
}

// Properties names the database columns events are written to.
type Properties struct {
	Title string // title column, e.g. "Name"
	Date  string // date column, e.g. "日付"
}

// NotionAdapter implements calendar.Client on top of github.com/jomei/notionapi.
// Events become rows of the calendar database; documents become child pages of the parent page.
type NotionAdapter struct {
	pages        pageCreator
	databaseID   notionapi.DatabaseID
	parentPageID notionapi.PageID
	props        Properties
}

// NewNotionAdapter creates an adapter authenticated with the integration token.
func NewNotionAdapter(token, databaseID, parentPageID string, props Properties) *NotionAdapter {
	client := notionapi.NewClient(notionapi.Token(token))
	return newAdapter(client.Page, databaseID, parentPageID, props)
}

func newAdapter(pages pageCreator, databaseID, parentPageID string, props Properties) *NotionAdapter {
	return &NotionAdapter{
		pages:        pages,
		databaseID:   notionapi.DatabaseID(databaseID),
		parentPageID: notionapi.PageID(parentPageID),
		props:        props,
	}
}

// CreateEvent creates one database page with a title and a start/end date range.
func (a *NotionAdapter) CreateEvent(ctx context.Context, ev calendar.Event) error {
	if _, err := a.pages.Create(ctx, a.eventRequest(ev)); err != nil {
		return fmt.Errorf("%w: event %q at %s: %w", calendar.ErrPublish, ev.Title, ev.Start.Format(time.RFC3339), err)
	}
	return nil
}

// CreateDocument creates a child page of the parent page, one block per document block.
func (a *NotionAdapter) CreateDocument(ctx context.Context, doc calendar.Document) error {
	if _, err := a.pages.Create(ctx, a.documentRequest(doc)); err != nil {
		return fmt.Errorf("%w: page %q: %w", calendar.ErrPublish, doc.Title, err)
	}
	return nil
}

func (a *NotionAdapter) eventRequest(ev calendar.Event) *notionapi.PageCreateRequest {
	start := notionapi.Date(ev.Start)
	end := notionapi.Date(ev.End)
	return &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: a.databaseID,
		},
		Properties: notionapi.Properties{
			a.props.Title: notionapi.TitleProperty{
				Title: richText(ev.Title),
			},
			a.props.Date: notionapi.DateProperty{
				Date: &notionapi.DateObject{Start: &start, End: &end},
			},
		},
	}
}

func (a *NotionAdapter) documentRequest(doc calendar.Document) *notionapi.PageCreateRequest {
	children := make([]notionapi.Block, 0, len(doc.Blocks))
	for _, b := range doc.Blocks {
		children = append(children, toBlock(b))
	}
	return &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:   notionapi.ParentTypePageID,
			PageID: a.parentPageID,
		},
		Properties: notionapi.Properties{
			"title": notionapi.TitleProperty{
				Title: richText(doc.Title),
			},
		},
		Children: children,
	}
}

func toBlock(b calendar.Block) notionapi.Block {
	if b.Kind == calendar.BlockHeading {
		return &notionapi.Heading2Block{
			BasicBlock: notionapi.BasicBlock{
				Object: notionapi.ObjectTypeBlock,
				Type:   notionapi.BlockTypeHeading2,
			},
			Heading2: notionapi.Heading{RichText: richText(b.Text)},
		}
	}
	return &notionapi.ParagraphBlock{
		BasicBlock: notionapi.BasicBlock{
			Object: notionapi.ObjectTypeBlock,
			Type:   notionapi.BlockTypeParagraph,
		},
		Paragraph: notionapi.Paragraph{RichText: richText(b.Text)},
	}
}

func richText(content string) []notionapi.RichText {
	return []notionapi.RichText{{
		Type: notionapi.ObjectTypeText,
		Text: &notionapi.Text{Content: content},
	}}
}
