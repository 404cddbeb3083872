// Command smoke-booking exercises a running API end to end: it submits a
// booking through the workflow, logs in as the admin, and verifies the
// record shows up in the dashboard listing.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"buildpro.org/internal/booking"
	"buildpro.org/internal/booking/remote"
	"buildpro.org/internal/listing"
)

func main() {
	log.SetFlags(0)
	_ = godotenv.Load()

	var (
		base     = flag.String("base", envOr("BUILDPRO_SMOKE_BASE", "http://localhost:8080"), "API base URL")
		username = flag.String("username", envOr("BUILDPRO_ADMIN_LOGIN", "admin"), "Admin login")
		password = flag.String("password", os.Getenv("BUILDPRO_ADMIN_PASSWORD"), "Admin password")
	)
	flag.Parse()

	if *password == "" {
		log.Fatal("missing admin password: provide via -password or BUILDPRO_ADMIN_PASSWORD")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	public := remote.New(*base)
	if err := public.Ping(ctx); err != nil {
		log.Fatalf("api not ready: %v", err)
	}

	// Drive a quote-flow submission through the workflow.
	wf := booking.NewWorkflow(booking.FlowQuote, public)
	wf.Select("Consultation")
	wf.SetDetails(booking.Details{
		FullName: "Smoke Test",
		Email:    "smoke@example.com",
		Phone:    "+1 555 0100",
		Message:  fmt.Sprintf("smoke run %s", time.Now().UTC().Format(time.RFC3339)),
	})
	apt, err := wf.Submit(ctx)
	if err != nil {
		log.Fatalf("submit: %v", err)
	}
	log.Printf("submitted appointment %s (%s)", apt.ID, apt.Status)
	if n := wf.Notice(); n.Kind != booking.NoticeSucceeded {
		log.Fatalf("unexpected notice after submit: %+v", n)
	}

	token, err := login(ctx, *base, *username, *password)
	if err != nil {
		log.Fatalf("login: %v", err)
	}

	// Verify the record is visible in the dashboard read model.
	admin := remote.New(*base, remote.WithToken(token))
	view := listing.New(admin)
	if err := view.Refresh(ctx); err != nil {
		log.Fatalf("refresh listing: %v", err)
	}
	view.Toggle(apt.ID)

	found := false
	for _, row := range view.Rows() {
		if row.ID != apt.ID {
			continue
		}
		found = true
		if !row.Expanded || row.Detail == nil {
			log.Fatalf("row %s did not expand", apt.ID)
		}
		log.Printf("listed appointment %s booked on %s (service %q)",
			row.ID, row.BookedOn, row.Detail.Service)
	}
	if !found {
		log.Fatalf("appointment %s not found in listing of %d rows", apt.ID, view.Len())
	}

	log.Println("smoke-booking OK")
}

func login(ctx context.Context, base, username, password string) (string, error) {
	body, _ := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/v1/auth/login", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login returned %d", resp.StatusCode)
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.Token, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
