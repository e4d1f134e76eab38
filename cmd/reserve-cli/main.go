package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/pe4924/ReserveEase/internal/calendar"
	"github.com/pe4924/ReserveEase/internal/client"
	"github.com/pe4924/ReserveEase/internal/schedule"
	"github.com/pe4924/ReserveEase/pkg/config"
	"github.com/pe4924/ReserveEase/pkg/logger"
)

const usage = `usage: reserve-cli <command> [flags]

commands:
  list      print the reservation calendar entries
  reserve   sign in and create a reservation
  signup    create an auth account and register profile details
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	backend := client.NewBackend(cfg.Backend, logr)
	auth := client.NewSupabase(cfg.Auth, logr)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch os.Args[1] {
	case "list":
		err = runList(ctx, backend)
	case "reserve":
		err = runReserve(ctx, os.Args[2:], backend, auth)
	case "signup":
		err = runSignup(ctx, os.Args[2:], backend, auth)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%s failed: %v", os.Args[1], err)
	}
}

func runList(ctx context.Context, backend *client.Backend) error {
	view := calendar.NewView(backend, nil)
	events := view.LoadEvents(ctx)
	if len(events) == 0 {
		fmt.Println("no reservations")
		return nil
	}
	for _, event := range events {
		details := view.EventClick(event)
		fmt.Printf("%s  %s - %s  (%s)  %s\n", details.Title, details.Start, details.End, details.Duration, details.Description)
		view.Dismiss()
	}
	return nil
}

func runReserve(ctx context.Context, args []string, backend *client.Backend, auth *client.Supabase) error {
	fs := flag.NewFlagSet("reserve", flag.ExitOnError)
	var (
		email    string
		password string
		at       string
		startH   int
		startM   int
		endH     int
		endM     int
	)
	fs.StringVar(&email, "email", os.Getenv("RESERVE_EMAIL"), "account email")
	fs.StringVar(&password, "password", os.Getenv("RESERVE_PASSWORD"), "account password")
	fs.StringVar(&at, "at", "", "anchor, 2006-01-02 for a day or 2006-01-02T15:04 for a slot")
	fs.IntVar(&startH, "start-hour", -1, "override start hour")
	fs.IntVar(&startM, "start-minute", -1, "override start minute")
	fs.IntVar(&endH, "end-hour", -1, "override end hour")
	fs.IntVar(&endM, "end-minute", -1, "override end minute")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if email == "" || password == "" || at == "" {
		return fmt.Errorf("email, password and at are required")
	}

	anchor, err := parseAnchor(at)
	if err != nil {
		return err
	}

	if _, err := auth.SignInWithPassword(ctx, email, password); err != nil {
		return err
	}
	defer auth.SignOut(ctx) //nolint:errcheck

	builder := calendar.NewBuilder(backend, auth, nil)
	window := builder.Receive(anchor)

	if startH >= 0 {
		window.StartHour = startH
	}
	if startM >= 0 {
		window.StartMinute = startM
	}
	if endH >= 0 {
		window.EndHour = endH
	}
	if endM >= 0 {
		window.EndMinute = endM
	}
	if err := builder.SetWindow(window); err != nil {
		return err
	}

	if err := builder.Submit(ctx); err != nil {
		return err
	}
	builder.Dismiss()

	fmt.Printf("reserved %s - %s\n", schedule.FormatJST(window.Start()), schedule.FormatJST(window.End()))

	// Refresh so the new reservation shows up in the printed list.
	return runList(ctx, backend)
}

func runSignup(ctx context.Context, args []string, backend *client.Backend, auth *client.Supabase) error {
	fs := flag.NewFlagSet("signup", flag.ExitOnError)
	var (
		email           string
		password        string
		passwordConfirm string
		firstName       string
		lastName        string
		phone           string
	)
	fs.StringVar(&email, "email", "", "account email")
	fs.StringVar(&password, "password", "", "account password")
	fs.StringVar(&passwordConfirm, "password-confirm", "", "retype the account password")
	fs.StringVar(&firstName, "first-name", "", "first name")
	fs.StringVar(&lastName, "last-name", "", "last name")
	fs.StringVar(&phone, "phone", "", "phone number")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if email == "" || password == "" || passwordConfirm == "" || firstName == "" || lastName == "" {
		return fmt.Errorf("email, password, password-confirm, first-name and last-name are required")
	}

	user, err := auth.SignUpWithConfirm(ctx, email, password, passwordConfirm)
	if err != nil {
		return err
	}

	if err := backend.RegisterUserInfo(ctx, client.RegisterUserRequest{
		SupabaseID:  user.ID,
		FirstName:   firstName,
		LastName:    lastName,
		Email:       email,
		PhoneNumber: phone,
	}); err != nil {
		return err
	}

	fmt.Printf("registered %s %s (%s)\n", lastName, firstName, user.ID)
	return nil
}

func parseAnchor(raw string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02T15:04", "2006-01-02"} {
		if anchor, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return anchor, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised anchor %q", raw)
}
