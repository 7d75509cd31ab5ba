package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"

	"roomdesk/config"
	"roomdesk/internal/auth"
	"roomdesk/internal/calendar"
	"roomdesk/internal/checkin"
	"roomdesk/internal/common/utils"
	"roomdesk/internal/i18n"
	"roomdesk/internal/meeting"
	"roomdesk/internal/notify"
	"roomdesk/internal/room"
	"roomdesk/pkg/client"
	"roomdesk/pkg/logger"
)

// env is everything a command needs, built once per run.
type env struct {
	cfg      *config.Config
	log      *logger.Logger
	store    *fileStore
	auth     *auth.Service
	notifier *notify.Notifier
	lang     string
	rules    meeting.Rules
	out      io.Writer
}

func main() {
	app := &cli.App{
		Name:  "bookingctl",
		Usage: "Book meeting rooms and devices from the terminal.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "session-file", Value: defaultStorePath(), Usage: "where the login session is kept"},
			&cli.StringFlag{Name: "lang", Usage: "message language (en, vi)"},
			&cli.BoolFlag{Name: "verbose", Usage: "log backend calls"},
		},
		Commands: []*cli.Command{
			loginCommand(),
			logoutCommand(),
			roomsCommand(),
			meetingsCommand(),
			bookCommand(),
			cancelCommand(),
			checkinCommand(),
			exportCommand(),
			qrCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newEnv(c *cli.Context) (*env, error) {
	cfg := config.Load()

	log := logger.Nop()
	if c.Bool("verbose") {
		log = logger.NewWithWriter("development", os.Stderr)
	}

	bundle, err := i18n.Load()
	if err != nil {
		return nil, err
	}
	lang := c.String("lang")
	if lang == "" {
		lang = cfg.Locale.Default
	}

	store := newFileStore(c.String("session-file"))
	api := client.New(cfg.Backend.BaseURL, client.WithTimeout(cfg.Backend.Timeout))

	return &env{
		cfg:      cfg,
		log:      log,
		store:    store,
		auth:     auth.NewService(api, store, cfg.Session, log),
		notifier: notify.New(bundle, cfg.Calendar.BusinessHoursStart, cfg.Calendar.BusinessHoursEnd),
		lang:     i18n.Normalize(lang),
		rules: meeting.Rules{
			OpenHour:  cfg.Calendar.BusinessHoursStart,
			CloseHour: cfg.Calendar.BusinessHoursEnd,
			Location:  cfg.Calendar.Location(),
		},
		out: c.App.Writer,
	}, nil
}

// client returns a backend client for the stored session.
func (e *env) client(ctx context.Context) (*client.Client, *auth.Session, error) {
	current, err := e.store.Current(ctx)
	if err != nil {
		return nil, nil, e.explain(err)
	}
	session, err := e.auth.Restore(ctx, current.ID)
	if err != nil {
		return nil, nil, e.explain(err)
	}
	return e.auth.Client(session), session, nil
}

// explain turns err into the localised message a user of the portal would
// see, keeping err for the exit status.
func (e *env) explain(err error) error {
	if err == nil {
		return nil
	}
	var verr *meeting.ValidationError
	if errors.As(err, &verr) {
		lines := make([]string, 0, len(verr.Fields))
		for field, issue := range verr.Fields {
			lines = append(lines, field+": "+e.notifier.Text(e.lang, issue.Key, issue.Args...))
		}
		return cli.Exit(strings.Join(lines, "\n"), 2)
	}
	return cli.Exit(e.notifier.FromError(e.lang, err).Message, 1)
}

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Log in and remember the session.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Required: true},
			&cli.StringFlag{Name: "password", Aliases: []string{"p"}, EnvVars: []string{"ROOMDESK_PASSWORD"}},
		},
		Action: func(c *cli.Context) error {
			e, err := newEnv(c)
			if err != nil {
				return err
			}

			password := c.String("password")
			if password == "" {
				fmt.Fprint(e.out, "Password: ")
				reader := bufio.NewReader(c.App.Reader)
				password, _ = reader.ReadString('\n')
				password = strings.TrimSpace(password)
			}

			session, err := e.auth.Login(c.Context, auth.LoginRequest{Username: c.String("username"), Password: password})
			if err != nil {
				return e.explain(err)
			}
			fmt.Fprintf(e.out, "Logged in as %s (%s), session valid until %s\n",
				session.FullName, session.Username, session.ExpiresAt.In(e.rules.Location).Format(time.RFC1123))
			return nil
		},
	}
}

func logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "Forget the stored session.",
		Action: func(c *cli.Context) error {
			e, err := newEnv(c)
			if err != nil {
				return err
			}
			return e.store.Delete(c.Context, "")
		},
	}
}

func roomsCommand() *cli.Command {
	return &cli.Command{
		Name:  "rooms",
		Usage: "List rooms.",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "min-capacity"},
			&cli.BoolFlag{Name: "available", Usage: "hide rooms under maintenance"},
		},
		Action: func(c *cli.Context) error {
			e, err := newEnv(c)
			if err != nil {
				return err
			}
			api, _, err := e.client(c.Context)
			if err != nil {
				return err
			}

			rooms, err := api.ListRooms(c.Context)
			if err != nil {
				return e.explain(err)
			}
			rooms = room.FilterRooms(rooms, room.Filter{MinCapacity: c.Int("min-capacity"), AvailableOnly: c.Bool("available")})

			w := tabwriter.NewWriter(e.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCAPACITY\tSTATUS\tAPPROVAL")
			for _, r := range rooms {
				approval := ""
				if r.RequiresApproval {
					approval = "VIP"
				}
				fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\n", r.ID, r.Name, r.Capacity, r.Status, approval)
			}
			return w.Flush()
		},
	}
}

func meetingsCommand() *cli.Command {
	return &cli.Command{
		Name:  "meetings",
		Usage: "List my meetings.",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "page", Value: 1},
			&cli.IntFlag{Name: "size", Value: utils.DefaultPageSize},
		},
		Action: func(c *cli.Context) error {
			e, err := newEnv(c)
			if err != nil {
				return err
			}
			api, _, err := e.client(c.Context)
			if err != nil {
				return err
			}

			meetings, err := api.MyMeetings(c.Context, time.Time{}, time.Time{})
			if err != nil {
				return e.explain(err)
			}
			page := utils.NewPage(meetings, c.Int("page"), c.Int("size"))

			w := tabwriter.NewWriter(e.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSTART\tEND\tTITLE\tROOM\tSTATUS")
			for _, m := range page.Items {
				roomName := ""
				if m.Room != nil {
					roomName = m.Room.Name
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", m.ID,
					m.StartTime.In(e.rules.Location).Format("2006-01-02 15:04"),
					m.EndTime.In(e.rules.Location).Format("15:04"),
					m.Title, roomName, m.Status)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(e.out, "page %d/%d, %d meetings\n", page.Page, page.TotalPages, page.TotalItems)
			return nil
		},
	}
}

func bookCommand() *cli.Command {
	return &cli.Command{
		Name:  "book",
		Usage: "Book a room.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Required: true},
			&cli.Int64Flag{Name: "room", Required: true},
			&cli.StringFlag{Name: "start", Required: true, Usage: "local time, 2006-01-02 15:04"},
			&cli.StringFlag{Name: "end", Required: true, Usage: "local time, 15:04 or 2006-01-02 15:04"},
			&cli.StringFlag{Name: "description"},
			&cli.Int64SliceFlag{Name: "device"},
			&cli.Int64SliceFlag{Name: "participant"},
			&cli.StringSliceFlag{Name: "guest"},
			&cli.StringFlag{Name: "repeat", Usage: "DAILY, WEEKLY or MONTHLY"},
			&cli.IntFlag{Name: "interval", Value: 1},
			&cli.StringFlag{Name: "until", Usage: "last day of the series, 2006-01-02"},
			&cli.StringSliceFlag{Name: "days", Usage: "weekdays for WEEKLY, e.g. MONDAY"},
			&cli.BoolFlag{Name: "dry-run", Usage: "validate and list occurrences without booking"},
		},
		Action: func(c *cli.Context) error {
			e, err := newEnv(c)
			if err != nil {
				return err
			}

			form, err := e.bookingForm(c)
			if err != nil {
				return err
			}
			if err := e.rules.ValidateForm(form, time.Now()); err != nil {
				return e.explain(err)
			}

			if c.Bool("dry-run") {
				preview, err := e.rules.PreviewOccurrences(form.StartTime, form.EndTime, form.Recurrence, 0)
				if err != nil {
					return err
				}
				for _, o := range preview.Occurrences {
					fmt.Fprintf(e.out, "%s - %s\n", o.StartTime.In(e.rules.Location).Format("Mon 2006-01-02 15:04"), o.EndTime.In(e.rules.Location).Format("15:04"))
				}
				if preview.Truncated {
					fmt.Fprintln(e.out, "...")
				}
				return nil
			}

			api, _, err := e.client(c.Context)
			if err != nil {
				return err
			}
			svc := meeting.NewService(e.rules, nil, e.log)
			m, err := svc.Create(c.Context, api, form)
			if err != nil {
				return e.explain(err)
			}

			key := "booking.created"
			if m.Status == client.MeetingPendingApproval {
				key = "booking.pending_approval"
			}
			fmt.Fprintf(e.out, "%s (#%d)\n", e.notifier.Text(e.lang, key), m.ID)
			return nil
		},
	}
}

func (e *env) bookingForm(c *cli.Context) (*meeting.MeetingForm, error) {
	loc := e.rules.Location
	start, err := time.ParseInLocation("2006-01-02 15:04", c.String("start"), loc)
	if err != nil {
		return nil, fmt.Errorf("invalid --start: %w", err)
	}
	end, err := time.ParseInLocation("2006-01-02 15:04", c.String("end"), loc)
	if err != nil {
		clock, clockErr := time.ParseInLocation("15:04", c.String("end"), loc)
		if clockErr != nil {
			return nil, fmt.Errorf("invalid --end: %w", err)
		}
		end = time.Date(start.Year(), start.Month(), start.Day(), clock.Hour(), clock.Minute(), 0, 0, loc)
	}

	form := &meeting.MeetingForm{
		Title:          c.String("title"),
		Description:    c.String("description"),
		StartTime:      start,
		EndTime:        end,
		RoomID:         c.Int64("room"),
		DeviceIDs:      c.Int64Slice("device"),
		ParticipantIDs: c.Int64Slice("participant"),
		GuestEmails:    c.StringSlice("guest"),
	}
	if freq := strings.ToUpper(c.String("repeat")); freq != "" {
		days := c.StringSlice("days")
		for i := range days {
			days[i] = strings.ToUpper(days[i])
		}
		form.Recurrence = &meeting.RecurrenceForm{
			Frequency:   freq,
			Interval:    c.Int("interval"),
			RepeatUntil: c.String("until"),
			DaysOfWeek:  days,
		}
	}
	return form, nil
}

func cancelCommand() *cli.Command {
	return &cli.Command{
		Name:  "cancel",
		Usage: "Cancel a meeting or a whole series.",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "id"},
			&cli.StringFlag{Name: "series"},
			&cli.StringFlag{Name: "reason"},
		},
		Action: func(c *cli.Context) error {
			e, err := newEnv(c)
			if err != nil {
				return err
			}
			api, _, err := e.client(c.Context)
			if err != nil {
				return err
			}

			svc := meeting.NewService(e.rules, nil, e.log)
			key := "booking.cancelled"
			switch {
			case c.String("series") != "":
				err = svc.CancelSeries(c.Context, api, c.String("series"), c.String("reason"))
				key = "booking.series_cancelled"
			case c.Int64("id") > 0:
				err = svc.Cancel(c.Context, api, c.Int64("id"), c.String("reason"))
			default:
				return cli.Exit("either --id or --series is required", 2)
			}
			if err != nil {
				return e.explain(err)
			}
			fmt.Fprintln(e.out, e.notifier.Text(e.lang, key))
			return nil
		},
	}
}

func checkinCommand() *cli.Command {
	return &cli.Command{
		Name:      "checkin",
		Usage:     "Check in with a scanned code or link.",
		ArgsUsage: "<code or link>",
		Action: func(c *cli.Context) error {
			e, err := newEnv(c)
			if err != nil {
				return err
			}
			api, _, err := e.client(c.Context)
			if err != nil {
				return err
			}

			svc := checkin.NewService(e.cfg.PublicURL, e.log)
			m, err := svc.CheckIn(c.Context, api, c.Args().First())
			if err != nil {
				if _, ok := client.AsAPIError(err); !ok {
					return cli.Exit(e.notifier.Text(e.lang, "checkin.invalid_code"), 2)
				}
				return e.explain(err)
			}
			fmt.Fprintln(e.out, e.notifier.Text(e.lang, "checkin.success", m.Title))
			return nil
		},
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Write my meetings to an .ics file.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Value: "meetings.ics"},
		},
		Action: func(c *cli.Context) error {
			e, err := newEnv(c)
			if err != nil {
				return err
			}
			api, _, err := e.client(c.Context)
			if err != nil {
				return err
			}

			meetings, err := api.MyMeetings(c.Context, time.Time{}, time.Time{})
			if err != nil {
				return e.explain(err)
			}

			f, err := os.Create(c.String("out"))
			if err != nil {
				return err
			}
			defer f.Close()

			if err := calendar.ExportICS(f, meetings, time.Now()); err != nil {
				return err
			}
			fmt.Fprintf(e.out, "wrote %d meetings to %s\n", len(meetings), c.String("out"))
			return nil
		},
	}
}

func qrCommand() *cli.Command {
	return &cli.Command{
		Name:  "qr",
		Usage: "Save a meeting's check-in QR code as PNG.",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "id", Required: true},
			&cli.StringFlag{Name: "out", Value: "checkin.png"},
		},
		Action: func(c *cli.Context) error {
			e, err := newEnv(c)
			if err != nil {
				return err
			}
			api, _, err := e.client(c.Context)
			if err != nil {
				return err
			}

			png, err := checkin.NewService(e.cfg.PublicURL, e.log).MeetingQR(c.Context, api, c.Int64("id"))
			if err != nil {
				return e.explain(err)
			}
			return os.WriteFile(c.String("out"), png, 0o644)
		},
	}
}
