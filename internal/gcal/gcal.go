// Package gcal wraps the Google Calendar API for reminder operations:
// installed-app OAuth with an on-disk token cache, event creation,
// windowed listing and deletion.
package gcal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"outage-reminder/internal/reconcile"
)

// Red, matching the urgency of an outage reminder.
const eventColorID = "11"

// Client wraps the Calendar service.
type Client struct {
	srv *calendar.Service
}

// New builds an authorized client. credentialsPath points at the OAuth
// client secrets JSON from the Google Cloud Console; the user token is
// cached at tokenPath. Without a cached token the user is walked through
// the consent flow on first run.
func New(ctx context.Context, credentialsPath, tokenPath string) (*Client, error) {
	b, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("reading client secrets: %w", err)
	}

	cfg, err := google.ConfigFromJSON(b, calendar.CalendarScope)
	if err != nil {
		return nil, fmt.Errorf("parsing client secrets: %w", err)
	}

	tok, err := tokenFromFile(tokenPath)
	if err != nil {
		tok, err = tokenFromWeb(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("obtaining token: %w", err)
		}
		// Best effort; a failed save only means re-consenting next run.
		_ = saveToken(tokenPath, tok)
	}

	srv, err := calendar.NewService(ctx, option.WithHTTPClient(cfg.Client(ctx, tok)))
	if err != nil {
		return nil, fmt.Errorf("creating calendar service: %w", err)
	}

	return &Client{srv: srv}, nil
}

// CreateEvent inserts a reminder event and returns the created resource.
func (c *Client) CreateEvent(ctx context.Context, calendarID string, ev reconcile.Event) (*calendar.Event, error) {
	body := &calendar.Event{
		Summary:     ev.Summary,
		Description: ev.Description,
		Start:       &calendar.EventDateTime{DateTime: ev.Start},
		End:         &calendar.EventDateTime{DateTime: ev.End},
		ColorId:     eventColorID,
	}

	created, err := c.srv.Events.Insert(calendarID, body).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("inserting event: %w", err)
	}
	return created, nil
}

// ListEvents returns all events in [timeMin, timeMax], ascending by start
// time, with pagination handled transparently. All-day events come back
// with an empty Start.
func (c *Client) ListEvents(ctx context.Context, calendarID, timeMin, timeMax string) ([]reconcile.ExistingEvent, error) {
	var events []reconcile.ExistingEvent

	call := c.srv.Events.List(calendarID).
		TimeMin(timeMin).
		TimeMax(timeMax).
		SingleEvents(true).
		ShowDeleted(false).
		OrderBy("startTime")

	err := call.Pages(ctx, func(page *calendar.Events) error {
		for _, item := range page.Items {
			ev := reconcile.ExistingEvent{
				ID:      item.Id,
				Summary: item.Summary,
				Link:    item.HtmlLink,
			}
			if item.Start != nil {
				ev.Start = item.Start.DateTime
			}
			if item.End != nil {
				ev.End = item.End.DateTime
			}
			events = append(events, ev)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}

	return events, nil
}

// DeleteEvent removes an event by id.
func (c *Client) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	if err := c.srv.Events.Delete(calendarID, eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("deleting event %s: %w", eventID, err)
	}
	return nil
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, err
	}
	return tok, nil
}

// tokenFromWeb runs the manual consent flow: the user opens the printed
// URL, grants access and pastes the authorization code back.
func tokenFromWeb(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error) {
	authURL := cfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("Open this link in your browser, then paste the authorization code:\n%v\n> ", authURL)

	var code string
	if _, err := fmt.Scan(&code); err != nil {
		return nil, fmt.Errorf("reading authorization code: %w", err)
	}

	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchanging authorization code: %w", err)
	}
	return tok, nil
}

func saveToken(path string, tok *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(tok)
}
