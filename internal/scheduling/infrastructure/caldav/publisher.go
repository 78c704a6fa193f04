// Package caldav writes expanded sessions to a CalDAV calendar (Apple Calendar,
// Fastmail, Nextcloud, ...).
package caldav

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav"
	"github.com/emersion/go-webdav/caldav"
	"github.com/felixgeelhaar/academia/internal/scheduling/application/services"
	"github.com/felixgeelhaar/academia/internal/scheduling/domain"
	"github.com/google/uuid"
)

var _ services.SessionPublisher = (*SessionPublisher)(nil)

// PropXAcademia marks events created by academia.
const PropXAcademia = "X-ACADEMIA"

// sessionNamespace scopes the deterministic event UIDs.
var sessionNamespace = uuid.MustParse("3a4c8d52-0e7b-4f55-9b1e-5b0f6f7a2c11")

// SessionPublisher writes concrete sessions as VEVENTs. Each session maps to a
// stable UID, so publishing the same expansion twice updates instead of duplicating.
type SessionPublisher struct {
	baseURL      string
	username     string
	password     string
	calendarPath string
	location     *time.Location
	logger       *slog.Logger
}

// NewSessionPublisher creates a CalDAV session publisher.
func NewSessionPublisher(baseURL, username, password string, logger *slog.Logger) *SessionPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionPublisher{
		baseURL:  baseURL,
		username: username,
		password: password,
		location: time.UTC,
		logger:   logger,
	}
}

// WithCalendarPath sets the calendar to write into instead of the first one found.
func (p *SessionPublisher) WithCalendarPath(path string) *SessionPublisher {
	p.calendarPath = path
	return p
}

// WithLocation sets the zone session wall-clock times are interpreted in.
func (p *SessionPublisher) WithLocation(loc *time.Location) *SessionPublisher {
	if loc != nil {
		p.location = loc
	}
	return p
}

// Publish implements services.SessionPublisher.
func (p *SessionPublisher) Publish(ctx context.Context, template *domain.ScheduleTemplate, sessions []domain.ConcreteSession) (int, error) {
	if len(sessions) == 0 {
		return 0, nil
	}

	client, err := p.getClient()
	if err != nil {
		return 0, err
	}

	calPath, err := p.findCalendarPath(ctx, client)
	if err != nil {
		return 0, fmt.Errorf("failed to find calendar: %w", err)
	}

	written := 0
	for _, session := range sessions {
		uid := SessionUID(session)
		cal := toICalendar(template, session, uid, p.location, time.Now())
		if _, err := client.PutCalendarObject(ctx, eventPath(calPath, uid), cal); err != nil {
			return written, fmt.Errorf("failed to write session %s: %w", session.Key(), err)
		}
		written++
	}

	p.logger.Info("sessions published to caldav",
		"template_id", template.ID(),
		"calendar", calPath,
		"count", written,
	)
	return written, nil
}

// SessionUID derives the calendar UID from the session's template, date and start.
func SessionUID(session domain.ConcreteSession) string {
	return uuid.NewSHA1(sessionNamespace, []byte(session.Key())).String()
}

func eventPath(calPath, uid string) string {
	if !strings.HasSuffix(calPath, "/") {
		calPath += "/"
	}
	return fmt.Sprintf("%s%s.ics", calPath, uid)
}

func (p *SessionPublisher) getClient() (*caldav.Client, error) {
	httpClient := &http.Client{Timeout: 30 * time.Second}
	client, err := caldav.NewClient(webdav.HTTPClientWithBasicAuth(httpClient, p.username, p.password), p.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create caldav client: %w", err)
	}
	return client, nil
}

func (p *SessionPublisher) findCalendarPath(ctx context.Context, client *caldav.Client) (string, error) {
	if p.calendarPath != "" {
		return p.calendarPath, nil
	}

	principal, err := client.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to find principal: %w", err)
	}

	homeSet, err := client.FindCalendarHomeSet(ctx, principal)
	if err != nil {
		return "", fmt.Errorf("failed to find calendar home set: %w", err)
	}

	cals, err := client.FindCalendars(ctx, homeSet)
	if err != nil {
		return "", fmt.Errorf("failed to find calendars: %w", err)
	}
	if len(cals) == 0 {
		return "", fmt.Errorf("no calendars found")
	}

	return cals[0].Path, nil
}

// toICalendar converts a session to a single-event calendar.
func toICalendar(template *domain.ScheduleTemplate, session domain.ConcreteSession, uid string, loc *time.Location, now time.Time) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//Academia//Scheduling//EN")

	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, uid)
	event.Props.SetDateTime(ical.PropDateTimeStamp, now.UTC())
	event.Props.SetDateTime(ical.PropDateTimeStart, session.StartsAt(loc).UTC())
	event.Props.SetDateTime(ical.PropDateTimeEnd, session.EndsAt(loc).UTC())
	event.Props.SetText(ical.PropSummary, template.Name())
	event.Props.SetText(ical.PropDescription, fmt.Sprintf(
		"Group session (%d min)\nResource: %s\n\nManaged by Academia",
		session.DurationMinutes, template.ResourceID(),
	))

	marker := ical.NewProp(PropXAcademia)
	marker.Value = session.TemplateID.String()
	event.Props[PropXAcademia] = []ical.Prop{*marker}

	cal.Children = append(cal.Children, event.Component)
	return cal
}
