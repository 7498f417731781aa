package autoxliff

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/ZaguanLabs/autoxliff/catalog"
)

func TestSync(t *testing.T) {
	store := catalog.NewStore(catalog.Layout{Root: t.TempDir()})

	en, _, err := store.Open("Acme.Shop", "Main", "en")
	if err != nil {
		t.Fatal(err)
	}
	de, _, err := store.Open("Acme.Shop", "Main", "de")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := en.Append("shared", "Old wording"); err != nil {
		t.Fatal(err)
	}
	if _, err := en.Append("only-en", "English only"); err != nil {
		t.Fatal(err)
	}
	if _, err := de.Append("shared", "New wording", "Neue Formulierung"); err != nil {
		t.Fatal(err)
	}
	if _, err := de.Append("only-de", "German only", "Nur Deutsch"); err != nil {
		t.Fatal(err)
	}

	// de is the most recently modified file.
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(en.Path(), past, past); err != nil {
		t.Fatal(err)
	}

	result, err := Sync(context.Background(), store, "Acme.Shop", "Main")
	if err != nil {
		t.Fatalf("Sync failed: %v", err)
	}

	if result.Units != 3 {
		t.Errorf("Units = %d, want 3", result.Units)
	}
	if result.Added["en"] != 1 || result.Added["de"] != 1 {
		t.Errorf("Added = %v, want one unit per language", result.Added)
	}

	enAfter, err := store.Load("Acme.Shop", "Main", "en")
	if err != nil {
		t.Fatal(err)
	}
	u, ok := enAfter.Unit("only-de")
	if !ok {
		t.Fatal("only-de not synced into en")
	}
	if u.Source != "German only" || u.Target != "German only" {
		t.Errorf("synced unit should use the source as placeholder: %+v", u)
	}
	if shared, _ := enAfter.Unit("shared"); shared.Source != "Old wording" {
		t.Errorf("existing units are never overwritten: %+v", shared)
	}

	deAfter, err := store.Load("Acme.Shop", "Main", "de")
	if err != nil {
		t.Fatal(err)
	}
	if !deAfter.Has("only-en") {
		t.Error("only-en not synced into de")
	}
}

func TestSync_NewestWins(t *testing.T) {
	store := catalog.NewStore(catalog.Layout{Root: t.TempDir()})

	for _, lang := range []string{"de", "en", "fr"} {
		if _, _, err := store.Open("Acme.Shop", "Main", lang); err != nil {
			t.Fatal(err)
		}
	}
	en, _ := store.Load("Acme.Shop", "Main", "en")
	de, _ := store.Load("Acme.Shop", "Main", "de")
	if _, err := de.Append("title", "Older title"); err != nil {
		t.Fatal(err)
	}
	if _, err := en.Append("title", "Newer title"); err != nil {
		t.Fatal(err)
	}
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(de.Path(), past, past); err != nil {
		t.Fatal(err)
	}

	if _, err := Sync(context.Background(), store, "Acme.Shop", "Main"); err != nil {
		t.Fatal(err)
	}

	fr, err := store.Load("Acme.Shop", "Main", "fr")
	if err != nil {
		t.Fatal(err)
	}
	if u, _ := fr.Unit("title"); u.Source != "Newer title" {
		t.Errorf("fr got %q, want the newest file's text", u.Source)
	}
}

func TestSync_NoLanguages(t *testing.T) {
	store := catalog.NewStore(catalog.Layout{Root: t.TempDir()})

	result, err := Sync(context.Background(), store, "Empty", "Main")
	if err != nil {
		t.Fatal(err)
	}
	if result.Units != 0 || len(result.Added) != 0 {
		t.Errorf("unexpected result: %+v", result)
	}
}
