package worker

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type fakeWorkerRepo struct {
	workers map[int64]*Worker
	nextID  int64
}

func newFakeWorkerRepo() *fakeWorkerRepo {
	return &fakeWorkerRepo{workers: make(map[int64]*Worker), nextID: 1}
}

func (r *fakeWorkerRepo) Create(_ context.Context, w *Worker) (*Worker, error) {
	clone := w.Clone()
	clone.ID = r.nextID
	r.nextID++
	r.workers[clone.ID] = clone
	return clone.Clone(), nil
}

func (r *fakeWorkerRepo) Update(_ context.Context, w *Worker) (*Worker, error) {
	if _, ok := r.workers[w.ID]; !ok {
		return nil, ErrWorkerNotFound
	}
	r.workers[w.ID] = w.Clone()
	return w.Clone(), nil
}

func (r *fakeWorkerRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.workers[id]; !ok {
		return ErrWorkerNotFound
	}
	delete(r.workers, id)
	return nil
}

func (r *fakeWorkerRepo) FindByID(_ context.Context, id int64) (*Worker, error) {
	w, ok := r.workers[id]
	if !ok {
		return nil, ErrWorkerNotFound
	}
	return w.Clone(), nil
}

func (r *fakeWorkerRepo) Count(_ context.Context) (int, error) {
	return len(r.workers), nil
}

type recordingTx struct {
	readOnly  int
	readWrite int
}

func (tx *recordingTx) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	tx.readOnly++
	return fn(ctx)
}

func (tx *recordingTx) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	tx.readWrite++
	return fn(ctx)
}

func seededService(t *testing.T) (*Service, *fakeWorkerRepo) {
	t.Helper()

	repo := newFakeWorkerRepo()
	if err := Seed(context.Background(), repo, SeedWorkers()); err != nil {
		t.Fatalf("Seed returned error: %v", err)
	}
	return NewService(repo, nil), repo
}

func TestSeed_AssignsSequentialIDs(t *testing.T) {
	t.Parallel()

	_, repo := seededService(t)

	for id, name := range map[int64]string{1: "Alice Johnson", 2: "Bob Smith", 3: "Catherine Green", 4: "David Lee"} {
		w, ok := repo.workers[id]
		if !ok {
			t.Fatalf("expected seed worker %d", id)
		}
		if w.Name != name {
			t.Fatalf("worker %d: want %s, got %s", id, name, w.Name)
		}
	}
}

func TestService_GetWorker_Success(t *testing.T) {
	t.Parallel()

	svc, repo := seededService(t)

	got, err := svc.GetWorker(context.Background(), GetWorkerInput{ID: 3})
	if err != nil {
		t.Fatalf("GetWorker returned error: %v", err)
	}
	if diff := cmp.Diff(repo.workers[3], got); diff != "" {
		t.Fatalf("unexpected worker (-want +got):\n%s", diff)
	}
}

func TestService_GetWorker_NotFound(t *testing.T) {
	t.Parallel()

	svc, _ := seededService(t)

	_, err := svc.GetWorker(context.Background(), GetWorkerInput{ID: 999})
	if !errors.Is(err, ErrWorkerNotFound) {
		t.Fatalf("expected ErrWorkerNotFound, got %v", err)
	}

	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected *NotFoundError, got %T", err)
	}
	if nf.Op != OpGet || nf.ID != 999 {
		t.Fatalf("unexpected not found error: %+v", nf)
	}
	if !strings.Contains(err.Error(), "999") {
		t.Fatalf("message should name the id: %s", err.Error())
	}
}

func TestService_CreateWorker_AssignsNextID(t *testing.T) {
	t.Parallel()

	svc, repo := seededService(t)
	in := SeedWorkers()[0]
	in.ID = 42
	in.Name = "Eve Adams"

	created, err := svc.CreateWorker(context.Background(), CreateWorkerInput{Worker: in})
	if err != nil {
		t.Fatalf("CreateWorker returned error: %v", err)
	}
	if created.ID != 5 {
		t.Fatalf("expected id 5, got %d", created.ID)
	}
	if len(repo.workers) != 5 {
		t.Fatalf("expected 5 workers, got %d", len(repo.workers))
	}

	want := in.Clone()
	want.ID = 5
	got, err := svc.GetWorker(context.Background(), GetWorkerInput{ID: 5})
	if err != nil {
		t.Fatalf("GetWorker returned error: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected worker (-want +got):\n%s", diff)
	}
	if in.ID != 42 {
		t.Fatalf("input must not be mutated, id became %d", in.ID)
	}
}

func TestService_CreateWorker_EmptyTableStartsAtOne(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeWorkerRepo(), nil)

	created, err := svc.CreateWorker(context.Background(), CreateWorkerInput{Worker: &Worker{Name: "First"}})
	if err != nil {
		t.Fatalf("CreateWorker returned error: %v", err)
	}
	if created.ID != 1 {
		t.Fatalf("expected id 1, got %d", created.ID)
	}
}

func TestService_CreateWorker_NilInput(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeWorkerRepo(), nil)

	if _, err := svc.CreateWorker(context.Background(), CreateWorkerInput{}); !errors.Is(err, ErrInvalidWorker) {
		t.Fatalf("expected ErrInvalidWorker, got %v", err)
	}
}

func TestService_ReplaceWorker_Success(t *testing.T) {
	t.Parallel()

	svc, repo := seededService(t)
	before := repo.workers[2].Clone()

	replacement := repo.workers[1].Clone()
	attendance := "99%"
	replacement.Attendance = &attendance
	replacement.ID = 77

	replaced, err := svc.ReplaceWorker(context.Background(), ReplaceWorkerInput{ID: 1, Worker: replacement})
	if err != nil {
		t.Fatalf("ReplaceWorker returned error: %v", err)
	}
	if replaced.ID != 1 {
		t.Fatalf("identity must be preserved, got id %d", replaced.ID)
	}
	if replaced.Attendance == nil || *replaced.Attendance != "99%" {
		t.Fatalf("unexpected attendance: %v", replaced.Attendance)
	}
	if len(repo.workers) != 4 {
		t.Fatalf("table size changed: %d", len(repo.workers))
	}
	if diff := cmp.Diff(before, repo.workers[2]); diff != "" {
		t.Fatalf("other worker changed (-want +got):\n%s", diff)
	}
}

func TestService_ReplaceWorker_IsFullReplace(t *testing.T) {
	t.Parallel()

	svc, _ := seededService(t)

	replaced, err := svc.ReplaceWorker(context.Background(), ReplaceWorkerInput{ID: 1, Worker: &Worker{Name: "Only Name"}})
	if err != nil {
		t.Fatalf("ReplaceWorker returned error: %v", err)
	}
	if replaced.Attendance != nil || replaced.EmploymentRecords != nil || replaced.SalaryDetails.SalaryAmount != nil {
		t.Fatalf("expected omitted fields to be cleared, got %+v", replaced)
	}
}

func TestService_ReplaceWorker_NotFound(t *testing.T) {
	t.Parallel()

	svc, repo := seededService(t)

	_, err := svc.ReplaceWorker(context.Background(), ReplaceWorkerInput{ID: 10, Worker: &Worker{Name: "x"}})
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Op != OpReplace {
		t.Fatalf("expected replace NotFoundError, got %v", err)
	}
	if len(repo.workers) != 4 {
		t.Fatalf("table size changed: %d", len(repo.workers))
	}
}

func TestService_DeleteWorker(t *testing.T) {
	t.Parallel()

	svc, repo := seededService(t)

	if err := svc.DeleteWorker(context.Background(), DeleteWorkerInput{ID: 2}); err != nil {
		t.Fatalf("DeleteWorker returned error: %v", err)
	}
	if len(repo.workers) != 3 {
		t.Fatalf("expected 3 workers, got %d", len(repo.workers))
	}
	if _, err := svc.GetWorker(context.Background(), GetWorkerInput{ID: 2}); !errors.Is(err, ErrWorkerNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}

	err := svc.DeleteWorker(context.Background(), DeleteWorkerInput{ID: 2})
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Op != OpDelete {
		t.Fatalf("expected delete NotFoundError, got %v", err)
	}
	if len(repo.workers) != 3 {
		t.Fatalf("table size changed on failed delete: %d", len(repo.workers))
	}
}

func TestService_UsesTransactions(t *testing.T) {
	t.Parallel()

	repo := newFakeWorkerRepo()
	tx := &recordingTx{}
	svc := NewService(repo, tx)
	ctx := context.Background()

	created, err := svc.CreateWorker(ctx, CreateWorkerInput{Worker: &Worker{Name: "a"}})
	if err != nil {
		t.Fatalf("CreateWorker returned error: %v", err)
	}
	if _, err := svc.GetWorker(ctx, GetWorkerInput{ID: created.ID}); err != nil {
		t.Fatalf("GetWorker returned error: %v", err)
	}
	if _, err := svc.ReplaceWorker(ctx, ReplaceWorkerInput{ID: created.ID, Worker: &Worker{Name: "b"}}); err != nil {
		t.Fatalf("ReplaceWorker returned error: %v", err)
	}
	if err := svc.DeleteWorker(ctx, DeleteWorkerInput{ID: created.ID}); err != nil {
		t.Fatalf("DeleteWorker returned error: %v", err)
	}

	if tx.readOnly != 1 || tx.readWrite != 3 {
		t.Fatalf("unexpected transaction usage: ro=%d rw=%d", tx.readOnly, tx.readWrite)
	}
}

func TestNotFoundError_Messages(t *testing.T) {
	t.Parallel()

	cases := map[Operation]string{
		OpGet:     "Worker with ID 7 not found. Please check the ID and try again.",
		OpReplace: "Worker with ID 7 not found. Unable to update non-existent record.",
		OpDelete:  "Worker with ID 7 not found. No record to delete.",
	}
	for op, want := range cases {
		if got := (&NotFoundError{ID: 7, Op: op}).Error(); got != want {
			t.Errorf("%s: want %q, got %q", op, want, got)
		}
	}
}

func TestWorker_Clone(t *testing.T) {
	t.Parallel()

	orig := SeedWorkers()[0]
	orig.SalaryDetails.SalarySlips = []string{}
	clone := orig.Clone()

	if diff := cmp.Diff(orig, clone); diff != "" {
		t.Fatalf("clone differs (-want +got):\n%s", diff)
	}
	if clone.SalaryDetails.SalarySlips == nil {
		t.Fatal("empty slice must stay non-nil")
	}

	clone.EmploymentRecords[0].Employer = "changed"
	*clone.Attendance = "0%"
	*clone.SalaryDetails.SalaryAmount = 1
	if orig.EmploymentRecords[0].Employer == "changed" || *orig.Attendance == "0%" || *orig.SalaryDetails.SalaryAmount == 1 {
		t.Fatal("clone shares memory with the original")
	}
}
