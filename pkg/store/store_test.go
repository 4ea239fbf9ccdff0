package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/mccabe/pkg/column"
	"github.com/matzehuels/mccabe/pkg/equilibrium"
	"github.com/matzehuels/mccabe/pkg/errors"
)

func testRecord(t *testing.T, r float64) *Record {
	t.Helper()
	design := column.Design{Name: "benzene-toluene", Feed: 1000, XB: 0.15, XF: 0.65, XD: 0.9, Q: 0.5, R: r}
	spec := equilibrium.Spec{Model: equilibrium.ModelAlpha, Alpha: 2.8}
	curve, err := spec.Build()
	if err != nil {
		t.Fatal(err)
	}
	c, err := column.New(design, curve)
	if err != nil {
		t.Fatal(err)
	}
	return NewRecord(design, spec, c.Solve())
}

func TestMemoryStorePutGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	rec := testRecord(t, 1)
	if err := s.Put(ctx, rec); err != nil {
		t.Fatalf("Put error: %v", err)
	}
	if rec.ID == uuid.Nil {
		t.Fatal("Put should assign an ID")
	}
	if rec.CreatedAt.IsZero() {
		t.Fatal("Put should assign CreatedAt")
	}

	got, err := s.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.Report.Trays != 6 {
		t.Errorf("Report.Trays = %d, want 6", got.Report.Trays)
	}
	if got.Equilibrium.Alpha != 2.8 {
		t.Errorf("Equilibrium.Alpha = %v, want 2.8", got.Equilibrium.Alpha)
	}

	// Returned records are copies.
	got.Design.Name = "changed"
	again, _ := s.Get(ctx, rec.ID)
	if again.Design.Name != "benzene-toluene" {
		t.Errorf("stored record was mutated through Get result")
	}
}

func TestMemoryStoreKeepsGivenID(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	rec := testRecord(t, 1)
	id := uuid.New()
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	rec.ID, rec.CreatedAt = id, created

	if err := s.Put(ctx, rec); err != nil {
		t.Fatal(err)
	}
	if rec.ID != id || !rec.CreatedAt.Equal(created) {
		t.Errorf("Put overwrote ID/CreatedAt: %v %v", rec.ID, rec.CreatedAt)
	}
}

func TestMemoryStoreNotFound(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.Get(ctx, uuid.New())
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Get(missing) code = %v, want %v", errors.GetCode(err), errors.ErrCodeNotFound)
	}
	err = s.Delete(ctx, uuid.New())
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Delete(missing) code = %v, want %v", errors.GetCode(err), errors.ErrCodeNotFound)
	}
}

func TestMemoryStoreList(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, r := range []float64{1, 2, 3} {
		rec := testRecord(t, r)
		rec.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		if err := s.Put(ctx, rec); err != nil {
			t.Fatal(err)
		}
	}

	all, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("List len = %d, want 3", len(all))
	}
	for i, want := range []float64{3, 2, 1} {
		if all[i].Design.R != want {
			t.Errorf("List[%d].Design.R = %v, want %v (newest first)", i, all[i].Design.R, want)
		}
	}

	two, _ := s.List(ctx, 2)
	if len(two) != 2 {
		t.Errorf("List(2) len = %d, want 2", len(two))
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	rec := testRecord(t, 1)
	_ = s.Put(ctx, rec)
	if err := s.Delete(ctx, rec.ID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Len())
	}
}

func TestMemoryStoreCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewMemoryStore()

	if err := s.Put(ctx, testRecord(t, 1)); err == nil {
		t.Error("Put with canceled context should fail")
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Len())
	}
}

func TestParseID(t *testing.T) {
	id := uuid.New()
	got, err := ParseID(id.String())
	if err != nil || got != id {
		t.Errorf("ParseID(%q) = %v, %v", id, got, err)
	}

	_, err = ParseID("not-a-uuid")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("ParseID(invalid) code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidInput)
	}
}

func TestDocumentRecord(t *testing.T) {
	rec := testRecord(t, 1)
	prepare(rec)

	doc := toDocument(rec)
	if doc.ID != rec.ID.String() {
		t.Errorf("document ID = %q, want %q", doc.ID, rec.ID)
	}
	back, err := doc.record()
	if err != nil {
		t.Fatal(err)
	}
	if back.ID != rec.ID || back.Report.Trays != rec.Report.Trays {
		t.Errorf("record() = %+v", back)
	}

	doc.ID = "garbage"
	if _, err := doc.record(); err == nil {
		t.Error("record() with invalid id should fail")
	}
}
