// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go holds the handler integration tests that run against
// PostgreSQL. They are skipped when the database is unavailable.
package handlers

import (
	"database/sql"
	"net/http"
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"

	"folio/internal/database"
	"folio/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "folio")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "folio")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if _, err := database.Migrate(t.Context(), db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func TestNewsletterSubscribeIntegration(t *testing.T) {
	db := testDB(t)
	email := "handler-newsletter@example.com"
	db.Exec("DELETE FROM subscribers WHERE email = $1", email)
	t.Cleanup(func() { db.Exec("DELETE FROM subscribers WHERE email = $1", email) })

	h := NewPublic(&fakeContent{}, store.NewArticleStore(db), store.NewCommentStore(db),
		store.NewSubscriberStore(db), store.NewApplicationStore(db), newFakeViews())

	rec := do(t, http.MethodPost, "/", "/", `{"email":"`+email+`"}`, h.Subscribe, nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "{\"success\":true}\n" {
		t.Fatalf("first subscribe: %d %s", rec.Code, rec.Body.String())
	}

	rec = do(t, http.MethodPost, "/", "/", `{"email":"Handler-Newsletter@Example.com"}`, h.Subscribe, nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "{\"success\":true,\"message\":\"Already subscribed\"}\n" {
		t.Fatalf("second subscribe: %d %s", rec.Code, rec.Body.String())
	}

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM subscribers WHERE email = $1", email).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("rows for %s = %d, want 1", email, n)
	}
}
