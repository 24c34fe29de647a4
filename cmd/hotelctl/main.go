package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"

	"hotelres/internal"
	"hotelres/internal/api"
	"hotelres/internal/auth"
	"hotelres/internal/certs"
	"hotelres/internal/models"
	"hotelres/internal/utils"
	"hotelres/internal/views"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := internal.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	key, err := internal.ReadSessionKey(cfg.SessionKey)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	logger := utils.Discard()
	if cfg.LogFile != "" {
		if l, err := utils.NewLogger(cfg.LogFile); err == nil {
			logger = l
			defer l.Close()
		}
	}
	env := environment{
		in:     os.Stdin,
		out:    os.Stdout,
		errOut: os.Stderr,
		store:  auth.NewFileStore(utils.SessionFile(cfg.StateDir), key),
		log:    logger,
	}
	if cfg.CADir != "" {
		if env.http, err = certs.NewCertManager(cfg.CADir).HTTPClient(); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
	}
	os.Exit(run(ctx, os.Args[1:], cfg.BaseURL, env))
}

type environment struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	store  auth.Store
	log    *utils.Logger
	http   *http.Client
}

type options struct {
	cmd, server                          string
	email, password, password2           string
	username, phone, address, city, role string
	image, code                          string
	id, room                             int64
	name, roomType, description          string
	price                                float64
	checkIn, checkOut                    string
	adults, children                     int
	query, filter, sortKey, dir          string
	page                                 int
	yes                                  bool
}

func parse(args []string, errOut io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("hotelctl", flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.StringVar(&o.cmd, "cmd", "rooms", "Command: "+strings.Join(commandNames(), "|"))
	fs.StringVar(&o.server, "server", "", "Override API base URL (e.g. http://localhost:4040/api)")
	fs.StringVar(&o.email, "email", "", "Email")
	fs.StringVar(&o.password, "password", "", "Password")
	fs.StringVar(&o.password2, "password2", "", "Password confirmation (reset)")
	fs.StringVar(&o.username, "username", "", "Username")
	fs.StringVar(&o.phone, "phone", "", "Phone")
	fs.StringVar(&o.address, "address", "", "Address")
	fs.StringVar(&o.city, "city", "", "City")
	fs.StringVar(&o.role, "role", "", "Role: USER|ADMIN")
	fs.StringVar(&o.image, "image", "", "Image file to upload")
	fs.StringVar(&o.code, "code", "", "Activation, reset or booking confirmation code")
	fs.Int64Var(&o.id, "id", 0, "User or booking ID")
	fs.Int64Var(&o.room, "room", 0, "Room ID")
	fs.StringVar(&o.name, "name", "", "Room name")
	fs.StringVar(&o.roomType, "type", "", "Room type")
	fs.StringVar(&o.description, "description", "", "Room description")
	fs.Float64Var(&o.price, "price", 0, "Room price per night")
	fs.StringVar(&o.checkIn, "checkin", "", "Check-in date YYYY-MM-DD")
	fs.StringVar(&o.checkOut, "checkout", "", "Check-out date YYYY-MM-DD")
	fs.IntVar(&o.adults, "adults", 1, "Number of adults")
	fs.IntVar(&o.children, "children", 0, "Number of children")
	fs.StringVar(&o.query, "q", "", "Search text")
	fs.StringVar(&o.filter, "filter", "", "Filter value (room type or role)")
	fs.StringVar(&o.sortKey, "sort", "", "Sort column")
	fs.StringVar(&o.dir, "dir", "asc", "Sort direction: asc|desc")
	fs.IntVar(&o.page, "page", 1, "Page number")
	fs.BoolVar(&o.yes, "yes", false, "Answer yes to confirmation prompts")
	err := fs.Parse(args)
	return o, err
}

// run executes one command and returns the exit code.
func run(ctx context.Context, args []string, baseURL string, env environment) int {
	o, err := parse(args, env.errOut)
	if err != nil {
		return 2
	}
	if o.server != "" {
		baseURL = strings.TrimRight(o.server, "/")
	}
	c, ok := commands[o.cmd]
	if !ok {
		fmt.Fprintln(env.errOut, "Unknown command:", o.cmd)
		return 1
	}
	if env.log == nil {
		env.log = utils.Discard()
	}

	session := auth.NewSession(env.store)
	if err := session.Init(); err != nil {
		fmt.Fprintln(env.errOut, "Error:", err)
		return 1
	}
	defer session.Close()
	// checked before any network call
	if d := auth.NewGuard(session, auth.Routes).Check(c.requires); !d.Allowed {
		fmt.Fprintf(env.errOut, "%s requires %s; redirect: %s\n", o.cmd, c.requires, d.Redirect)
		return 1
	}

	apiOpts := []api.Option{api.WithLogger(env.log)}
	if env.http != nil {
		apiOpts = append(apiOpts, api.WithHTTPClient(env.http))
	}
	notices := views.NewNotices(nil)
	notices.OnNotice(func(n views.Notice) {
		fmt.Fprintf(env.errOut, "[%s] %s\n", n.Kind, n.Text)
	})
	a := &app{
		opts: o,
		deps: views.Deps{
			API:     api.NewClient(baseURL, session, apiOpts...),
			Session: session,
			Notices: notices,
			Log:     env.log,
		},
		in:  bufio.NewReader(env.in),
		out: env.out,
	}
	if err := c.run(ctx, a); err != nil {
		if _, seen := notices.Last(views.KindError); !seen {
			fmt.Fprintln(env.errOut, "Error:", utils.Message(err))
		}
		return 1
	}
	return 0
}

type app struct {
	opts options
	deps views.Deps
	in   *bufio.Reader
	out  io.Writer
}

// confirm asks a y/N question on the terminal unless -yes was given.
func (a *app) confirm() auth.Confirmer {
	return auth.ConfirmFunc(func(prompt string) bool {
		if a.opts.yes {
			return true
		}
		fmt.Fprintf(a.out, "%s [y/N]: ", prompt)
		line, _ := a.in.ReadString('\n')
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes"
	})
}

func (a *app) print(v any) error {
	enc, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, string(enc))
	return nil
}

func (a *app) upload() (*models.Upload, error) {
	if a.opts.image == "" {
		return nil, nil
	}
	data, err := os.ReadFile(a.opts.image)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	return &models.Upload{Filename: filepath.Base(a.opts.image), Data: data}, nil
}

func (a *app) dates() (models.Date, models.Date, error) {
	var in, out models.Date
	var err error
	if a.opts.checkIn != "" {
		if in, err = models.ParseDate(a.opts.checkIn); err != nil {
			return in, out, utils.Invalid("checkin", err.Error())
		}
	}
	if a.opts.checkOut != "" {
		if out, err = models.ParseDate(a.opts.checkOut); err != nil {
			return in, out, utils.Invalid("checkout", err.Error())
		}
	}
	return in, out, nil
}

func (a *app) registerForm() models.RegisterForm {
	o := a.opts
	return models.RegisterForm{
		Username: o.username, Email: o.email, Password: o.password,
		Phone: o.phone, Address: o.address, City: o.city, Role: models.Role(strings.ToUpper(o.role)),
	}
}

func (a *app) roomForm() models.RoomForm {
	o := a.opts
	return models.RoomForm{Name: o.name, Type: o.roomType, Price: o.price, Description: o.description}
}

// merge overlays the flags that were given on an existing user form.
func (a *app) merge(f models.UserForm) models.UserForm {
	o := a.opts
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&f.Username, o.username)
	set(&f.Email, o.email)
	set(&f.Phone, o.phone)
	set(&f.Address, o.address)
	set(&f.City, o.city)
	set(&f.Password, o.password)
	if o.role != "" {
		f.Role = models.Role(strings.ToUpper(o.role))
	}
	return f
}

func commandNames() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
