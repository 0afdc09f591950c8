package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/louisbranch/arbor.space/internal/services/genealogy/domain/person"
	"github.com/louisbranch/arbor.space/internal/services/genealogy/domain/tree"
	"github.com/louisbranch/arbor.space/internal/services/genealogy/storage"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(t.TempDir() + "/genealogy.db")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testTime() time.Time {
	return time.Date(2026, time.August, 30, 12, 0, 0, 0, time.UTC)
}

func ref(id string) *string { return &id }

func TestTreeRoundTrip(t *testing.T) {
	store := openTestStore(t)
	now := testTime()
	token := "sharetoken"

	record := tree.Tree{
		ID:          "t1",
		OwnerID:     "u1",
		Name:        "Branco Family",
		Description: "four generations",
		IsPublic:    true,
		HideLiving:  true,
		ShareToken:  &token,
		Language:    "pt-BR",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := store.PutTree(context.Background(), record); err != nil {
		t.Fatalf("put tree: %v", err)
	}

	got, err := store.GetTree(context.Background(), "t1")
	if err != nil {
		t.Fatalf("get tree: %v", err)
	}
	if got.Name != record.Name || got.Language != "pt-BR" || !got.IsPublic {
		t.Fatalf("got tree %+v, want %+v", got, record)
	}
	if got.ShareToken == nil || *got.ShareToken != token {
		t.Fatalf("share token = %v, want %q", got.ShareToken, token)
	}
	if !got.CreatedAt.Equal(now) {
		t.Fatalf("created at = %v, want %v", got.CreatedAt, now)
	}

	byToken, err := store.GetTreeByShareToken(context.Background(), token)
	if err != nil {
		t.Fatalf("get tree by share token: %v", err)
	}
	if byToken.ID != "t1" {
		t.Fatalf("tree by token = %q, want t1", byToken.ID)
	}

	if _, err := store.GetTree(context.Background(), "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("get missing tree: %v, want ErrNotFound", err)
	}
}

func TestListTreesByOwnerCountsPeople(t *testing.T) {
	store := openTestStore(t)
	now := testTime()

	if err := store.PutTree(context.Background(), tree.Tree{ID: "t1", OwnerID: "u1", Name: "One", CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("put tree: %v", err)
	}
	if err := store.PutTree(context.Background(), tree.Tree{ID: "t2", OwnerID: "u2", Name: "Other", CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("put tree: %v", err)
	}
	for _, id := range []string{"p1", "p2"} {
		err := store.PutPerson(context.Background(), person.Person{ID: id, TreeID: "t1", FirstName: "N", CreatedAt: now, UpdatedAt: now})
		if err != nil {
			t.Fatalf("put person %s: %v", id, err)
		}
	}

	summaries, err := store.ListTreesByOwner(context.Background(), "u1")
	if err != nil {
		t.Fatalf("list trees: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("got %d trees, want 1", len(summaries))
	}
	if summaries[0].Tree.ID != "t1" || summaries[0].PersonCount != 2 {
		t.Fatalf("summary = %+v, want t1 with 2 people", summaries[0])
	}
}

func TestDeleteTreeCascades(t *testing.T) {
	store := openTestStore(t)
	now := testTime()

	if err := store.PutTree(context.Background(), tree.Tree{ID: "t1", OwnerID: "u1", Name: "One", CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("put tree: %v", err)
	}
	if err := store.PutPerson(context.Background(), person.Person{ID: "p1", TreeID: "t1", FirstName: "N", CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("put person: %v", err)
	}
	if err := store.PutNote(context.Background(), person.Note{ID: "n1", PersonID: "p1", Content: "note", IsPrivate: true, CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("put note: %v", err)
	}
	if err := store.PutAccess(context.Background(), tree.Access{ID: "a1", TreeID: "t1", Email: "x@example.com", Level: tree.AccessView, CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("put access: %v", err)
	}

	if err := store.DeleteTree(context.Background(), "t1"); err != nil {
		t.Fatalf("delete tree: %v", err)
	}
	if _, err := store.GetPerson(context.Background(), "p1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("person survived tree delete: %v", err)
	}
	notes, err := store.ListNotes(context.Background(), "p1")
	if err != nil {
		t.Fatalf("list notes: %v", err)
	}
	if len(notes) != 0 {
		t.Fatalf("notes survived tree delete: %v", notes)
	}
	grants, err := store.ListAccess(context.Background(), "t1")
	if err != nil {
		t.Fatalf("list access: %v", err)
	}
	if len(grants) != 0 {
		t.Fatalf("grants survived tree delete: %v", grants)
	}
	if err := store.DeleteTree(context.Background(), "t1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("second delete: %v, want ErrNotFound", err)
	}
}

func TestPersonRoundTrip(t *testing.T) {
	store := openTestStore(t)
	now := testTime()
	birth := time.Date(1950, time.March, 1, 0, 0, 0, 0, time.UTC)

	if err := store.PutTree(context.Background(), tree.Tree{ID: "t1", OwnerID: "u1", Name: "One", CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("put tree: %v", err)
	}
	father := person.Person{ID: "father", TreeID: "t1", FirstName: "Jorge", Gender: person.GenderMale, BirthDate: &birth, IsLiving: false, IsPublic: true, CreatedAt: now, UpdatedAt: now}
	if err := store.PutPerson(context.Background(), father); err != nil {
		t.Fatalf("put father: %v", err)
	}
	child := person.Person{ID: "child", TreeID: "t1", FirstName: "Rita", FatherID: ref("father"), IsLiving: true, CreatedAt: now.Add(time.Second), UpdatedAt: now.Add(time.Second)}
	if err := store.PutPerson(context.Background(), child); err != nil {
		t.Fatalf("put child: %v", err)
	}

	got, err := store.GetPerson(context.Background(), "child")
	if err != nil {
		t.Fatalf("get person: %v", err)
	}
	if got.FatherID == nil || *got.FatherID != "father" {
		t.Fatalf("father id = %v, want father", got.FatherID)
	}
	if got.BirthDate != nil {
		t.Fatalf("birth date = %v, want nil", got.BirthDate)
	}

	people, err := store.ListPeople(context.Background(), "t1")
	if err != nil {
		t.Fatalf("list people: %v", err)
	}
	if len(people) != 2 || people[0].ID != "father" || people[1].ID != "child" {
		t.Fatalf("people order = %v, want [father child]", people)
	}
	if people[0].BirthDate == nil || !people[0].BirthDate.Equal(birth) {
		t.Fatalf("father birth date = %v, want %v", people[0].BirthDate, birth)
	}
}

func TestDeletePersonClearsReferences(t *testing.T) {
	store := openTestStore(t)
	now := testTime()

	if err := store.PutTree(context.Background(), tree.Tree{ID: "t1", OwnerID: "u1", Name: "One", CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("put tree: %v", err)
	}
	if err := store.PutPerson(context.Background(), person.Person{ID: "father", TreeID: "t1", FirstName: "Jorge", CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("put father: %v", err)
	}
	if err := store.PutPerson(context.Background(), person.Person{ID: "mother", TreeID: "t1", FirstName: "Ana", CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("put mother: %v", err)
	}
	if err := store.PutPerson(context.Background(), person.Person{ID: "child", TreeID: "t1", FirstName: "Rita", FatherID: ref("father"), MotherID: ref("mother"), CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("put child: %v", err)
	}
	if err := store.PutEvent(context.Background(), person.Event{ID: "e1", PersonID: "father", Type: person.EventBirth, CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("put event: %v", err)
	}
	if err := store.PutSpouse(context.Background(), person.Spouse{ID: "m1", PersonID: "father", SpouseID: "mother", IsCurrent: true, CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("put spouse: %v", err)
	}

	if err := store.DeletePerson(context.Background(), "father"); err != nil {
		t.Fatalf("delete person: %v", err)
	}

	child, err := store.GetPerson(context.Background(), "child")
	if err != nil {
		t.Fatalf("get child: %v", err)
	}
	if child.FatherID != nil {
		t.Fatalf("father reference survived delete: %v", *child.FatherID)
	}
	if child.MotherID == nil {
		t.Fatal("mother reference should survive")
	}
	events, err := store.ListEvents(context.Background(), "father")
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("events survived delete: %v", events)
	}
	spouses, err := store.ListSpouses(context.Background(), "mother")
	if err != nil {
		t.Fatalf("list spouses: %v", err)
	}
	if len(spouses) != 0 {
		t.Fatalf("spouse rows survived delete: %v", spouses)
	}
	if err := store.DeletePerson(context.Background(), "father"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("second delete: %v, want ErrNotFound", err)
	}
}

func TestSpouseListings(t *testing.T) {
	store := openTestStore(t)
	now := testTime()

	if err := store.PutTree(context.Background(), tree.Tree{ID: "t1", OwnerID: "u1", Name: "One", CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("put tree: %v", err)
	}
	for _, id := range []string{"a", "b"} {
		if err := store.PutPerson(context.Background(), person.Person{ID: id, TreeID: "t1", FirstName: id, CreatedAt: now, UpdatedAt: now}); err != nil {
			t.Fatalf("put person %s: %v", id, err)
		}
	}
	married := time.Date(1975, time.June, 14, 0, 0, 0, 0, time.UTC)
	if err := store.PutSpouse(context.Background(), person.Spouse{ID: "m1", PersonID: "a", SpouseID: "b", MarriageDate: &married, MarriageLocation: "Lisbon", IsCurrent: true, CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("put spouse: %v", err)
	}

	// A single row serves both directions.
	forB, err := store.ListSpouses(context.Background(), "b")
	if err != nil {
		t.Fatalf("list spouses for b: %v", err)
	}
	if len(forB) != 1 || forB[0].Other("b") != "a" {
		t.Fatalf("spouses for b = %v, want relation with a", forB)
	}
	if forB[0].MarriageDate == nil || !forB[0].MarriageDate.Equal(married) {
		t.Fatalf("marriage date = %v, want %v", forB[0].MarriageDate, married)
	}

	byTree, err := store.ListSpousesByTree(context.Background(), "t1")
	if err != nil {
		t.Fatalf("list spouses by tree: %v", err)
	}
	if len(byTree) != 1 {
		t.Fatalf("spouses by tree = %v, want one relation", byTree)
	}
}

func TestAccessGrantUniqueness(t *testing.T) {
	store := openTestStore(t)
	now := testTime()

	if err := store.PutTree(context.Background(), tree.Tree{ID: "t1", OwnerID: "u1", Name: "One", CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("put tree: %v", err)
	}
	first := tree.Access{ID: "a1", TreeID: "t1", Email: "Cousin@Example.com", Level: tree.AccessView, CreatedAt: now, UpdatedAt: now}
	if err := store.PutAccess(context.Background(), first); err != nil {
		t.Fatalf("put access: %v", err)
	}
	dup := tree.Access{ID: "a2", TreeID: "t1", Email: "cousin@example.com", Level: tree.AccessEdit, CreatedAt: now, UpdatedAt: now}
	if err := store.PutAccess(context.Background(), dup); !errors.Is(err, storage.ErrDuplicateGrant) {
		t.Fatalf("duplicate grant: %v, want ErrDuplicateGrant", err)
	}

	got, err := store.GetAccess(context.Background(), "a1")
	if err != nil {
		t.Fatalf("get access: %v", err)
	}
	if got.Email != "cousin@example.com" {
		t.Fatalf("stored email = %q, want normalized", got.Email)
	}

	if err := store.DeleteAccess(context.Background(), "a1"); err != nil {
		t.Fatalf("delete access: %v", err)
	}
	if err := store.DeleteAccess(context.Background(), "a1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("second delete: %v, want ErrNotFound", err)
	}
}
