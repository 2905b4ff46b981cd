package crud

import (
	"context"
	"errors"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/guilhermemouraovc/cm-admin/internal/api"
	"github.com/guilhermemouraovc/cm-admin/internal/devapi"
	"github.com/guilhermemouraovc/cm-admin/internal/model"
	"github.com/guilhermemouraovc/cm-admin/internal/validate"
)

// fakeService records every call and serves an in-memory collection
type fakeService[T model.Record] struct {
	mu        sync.Mutex
	items     []T
	calls     []string
	updatedID int
	listErr   error
	createErr error
	deleteErr error

	// gates[i], when set, blocks the i-th List call until a value arrives
	gates     []chan []T
	listCalls int
	started   chan int
}

func (f *fakeService[T]) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeService[T]) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeService[T]) List(ctx context.Context) ([]T, error) {
	f.record("list")
	f.mu.Lock()
	n := f.listCalls
	f.listCalls++
	var gate chan []T
	if n < len(f.gates) {
		gate = f.gates[n]
	}
	f.mu.Unlock()
	if f.started != nil {
		f.started <- n
	}
	if gate != nil {
		return <-gate, nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]T, len(f.items))
	copy(out, f.items)
	return out, nil
}

func (f *fakeService[T]) Create(ctx context.Context, rec T) (T, error) {
	f.record("create")
	if f.createErr != nil {
		var zero T
		return zero, f.createErr
	}
	f.mu.Lock()
	f.items = append(f.items, rec)
	f.mu.Unlock()
	return rec, nil
}

func (f *fakeService[T]) Update(ctx context.Context, id int, rec T) (T, error) {
	f.record("update")
	f.mu.Lock()
	f.updatedID = id
	f.mu.Unlock()
	return rec, nil
}

func (f *fakeService[T]) Delete(ctx context.Context, id int) error {
	f.record("delete")
	return f.deleteErr
}

func validAluno() model.Aluno {
	return model.Aluno{Nome: "Pedro Lima", DataNasc: "2012-04-01", Sexo: "M", IDTurma: 1, IDResponsavel: 1}
}

func TestInvalidSubmitMakesNoNetworkCall(t *testing.T) {
	svc := &fakeService[model.Aluno]{}
	c := NewController[model.Aluno](model.MustLookup(model.KindAluno), svc, nil)

	c.OpenCreate()
	bad := validAluno()
	bad.Nome = ""
	res, err := c.Submit(context.Background(), bad)

	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("error = %v, want ErrInvalid", err)
	}
	if res.Valid || res.FieldErrors["nome"] == "" {
		t.Errorf("FieldErrors = %v, want nome", res.FieldErrors)
	}
	if n := svc.callCount(); n != 0 {
		t.Errorf("service called %d times, want 0", n)
	}
	if mode, _ := c.Form(); mode != FormCreating {
		t.Errorf("form mode = %v, want still creating", mode)
	}
	fieldErrs, _ := c.FormErrors()
	if fieldErrs["nome"] == "" {
		t.Errorf("field errors not surfaced: %v", fieldErrs)
	}
}

func TestCreateReloadsAndCloses(t *testing.T) {
	svc := &fakeService[model.Clube]{}
	c := NewController[model.Clube](model.MustLookup(model.KindClube), svc, nil)

	c.OpenCreate()
	if _, rec := c.Form(); rec.Ativo == nil || !*rec.Ativo {
		t.Errorf("create form should default ativo to true")
	}

	_, err := c.Submit(context.Background(), model.Clube{Nome: "Robótica", Descricao: "Clube de robótica"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if mode, _ := c.Form(); mode != FormClosed {
		t.Errorf("form mode = %v, want closed", mode)
	}
	rows := c.Rows()
	if len(rows) != 1 || rows[0].Nome != "Robótica" {
		t.Fatalf("rows = %+v", rows)
	}
	if rows[0].Ativo == nil || !*rows[0].Ativo {
		t.Errorf("created record missing ativo default")
	}
}

func TestEditSubmitCallsUpdate(t *testing.T) {
	existing := model.Clube{ID: 42, Nome: "Xadrez", Descricao: "Clube de xadrez"}
	svc := &fakeService[model.Clube]{items: []model.Clube{existing}}
	c := NewController[model.Clube](model.MustLookup(model.KindClube), svc, nil)

	c.OpenEdit(existing)
	edited := existing
	edited.Nome = "Xadrez Avançado"
	if _, err := c.Submit(context.Background(), edited); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if svc.calls[0] != "update" {
		t.Errorf("first call = %s, want update", svc.calls[0])
	}
	for _, call := range svc.calls {
		if call == "create" {
			t.Error("edit submit issued a create")
		}
	}
	if svc.updatedID != 42 {
		t.Errorf("updated id = %d, want 42", svc.updatedID)
	}
}

func TestServerFailureKeepsFormOpen(t *testing.T) {
	svc := &fakeService[model.Clube]{createErr: &api.Error{Kind: api.KindServer, Status: 400, Message: "Nome já existe"}}
	c := NewController[model.Clube](model.MustLookup(model.KindClube), svc, nil)

	c.OpenCreate()
	_, err := c.Submit(context.Background(), model.Clube{Nome: "Xadrez", Descricao: "Clube de xadrez"})
	if err == nil {
		t.Fatal("expected error")
	}
	if mode, _ := c.Form(); mode != FormCreating {
		t.Errorf("form closed after server error")
	}
	if _, msg := c.FormErrors(); msg != "Nome já existe" {
		t.Errorf("form error = %q", msg)
	}
}

func TestUnauthorizedSubmitClosesForm(t *testing.T) {
	svc := &fakeService[model.Clube]{createErr: &api.Error{Kind: api.KindUnauthorized, Status: 401, Message: "x"}}
	c := NewController[model.Clube](model.MustLookup(model.KindClube), svc, nil)

	c.OpenCreate()
	c.Submit(context.Background(), model.Clube{Nome: "Xadrez", Descricao: "Clube de xadrez"})
	if mode, _ := c.Form(); mode != FormClosed {
		t.Errorf("form mode = %v, want closed", mode)
	}
}

func TestSubmitWithClosedForm(t *testing.T) {
	svc := &fakeService[model.Clube]{}
	c := NewController[model.Clube](model.MustLookup(model.KindClube), svc, nil)
	if _, err := c.Submit(context.Background(), model.Clube{}); err == nil {
		t.Fatal("expected error submitting a closed form")
	}
}

func TestLoadError(t *testing.T) {
	svc := &fakeService[model.Nota]{listErr: &api.Error{Kind: api.KindTransport, Message: api.MsgFetchFailed}}
	c := NewController[model.Nota](model.MustLookup(model.KindNota), svc, nil)

	if err := c.Load(context.Background()); err == nil {
		t.Fatal("expected load error")
	}
	state, msg := c.State()
	if state != StateError || msg != api.MsgFetchFailed {
		t.Errorf("state = %v %q", state, msg)
	}
}

func TestStaleLoadIsDropped(t *testing.T) {
	first, second := make(chan []model.Nota), make(chan []model.Nota)
	svc := &fakeService[model.Nota]{gates: []chan []model.Nota{first, second}, started: make(chan int, 2)}
	c := NewController[model.Nota](model.MustLookup(model.KindNota), svc, nil)

	done := make(chan struct{}, 2)
	go func() {
		c.Load(context.Background())
		done <- struct{}{}
	}()
	<-svc.started
	go func() {
		c.Load(context.Background())
		done <- struct{}{}
	}()
	<-svc.started

	// the newer load answers first, then the older one arrives late
	second <- []model.Nota{{ID: 2, Descricao: "second"}}
	<-done
	first <- []model.Nota{{ID: 1, Descricao: "first"}}
	<-done

	rows := c.Records()
	if len(rows) != 1 || rows[0].Descricao != "second" {
		t.Fatalf("records = %+v, want only the newest load", rows)
	}
	if state, _ := c.State(); state != StateIdle {
		t.Errorf("state = %v, want idle", state)
	}
}

func TestLoadIssuedBeforeDeleteIsDropped(t *testing.T) {
	gate := make(chan []model.Clube)
	svc := &fakeService[model.Clube]{
		items:   []model.Clube{{ID: 1, Nome: "Xadrez"}, {ID: 2, Nome: "Robótica"}},
		gates:   []chan []model.Clube{nil, gate},
		started: make(chan int, 2),
	}
	c := NewController[model.Clube](model.MustLookup(model.KindClube), svc, nil)
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	<-svc.started

	done := make(chan struct{})
	go func() {
		c.Load(context.Background())
		close(done)
	}()
	<-svc.started

	c.RequestRemove(model.Clube{ID: 2, Nome: "Robótica"})
	if err := c.ConfirmRemove(context.Background()); err != nil {
		t.Fatalf("ConfirmRemove: %v", err)
	}

	// the reload answers with the list as it was before the delete
	gate <- []model.Clube{{ID: 1, Nome: "Xadrez"}, {ID: 2, Nome: "Robótica"}}
	<-done

	rows := c.Records()
	if len(rows) != 1 || rows[0].ID != 1 {
		t.Fatalf("records = %+v, want only id 1", rows)
	}
	if state, _ := c.State(); state != StateIdle {
		t.Errorf("state = %v, want idle", state)
	}
}

func TestDetachedLoadIsIgnored(t *testing.T) {
	svc := &fakeService[model.Nota]{items: []model.Nota{{ID: 1}}}
	c := NewController[model.Nota](model.MustLookup(model.KindNota), svc, nil)

	c.Detach()
	c.Load(context.Background())

	if len(c.Records()) != 0 {
		t.Error("detached controller applied a load")
	}
}

func TestDeleteIdempotence(t *testing.T) {
	seed := []model.Clube{{ID: 1, Nome: "A"}, {ID: 2, Nome: "B"}, {ID: 3, Nome: "C"}}

	tests := []struct {
		name      string
		deleteErr error
		wantErr   bool
		wantLen   int
	}{
		{name: "deleted", wantLen: 2},
		{name: "already absent", deleteErr: &api.Error{Kind: api.KindNotFound, Status: 404}, wantLen: 2},
		{name: "server failure", deleteErr: &api.Error{Kind: api.KindServer, Status: 500, Message: "boom"}, wantErr: true, wantLen: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService[model.Clube]{items: seed, deleteErr: tt.deleteErr}
			c := NewController[model.Clube](model.MustLookup(model.KindClube), svc, nil)
			c.Load(context.Background())

			c.RequestRemove(seed[1])
			if rec, ok := c.Pending(); !ok || rec.ID != 2 {
				t.Fatalf("pending = %+v, %v", rec, ok)
			}
			err := c.ConfirmRemove(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("ConfirmRemove error = %v, wantErr %v", err, tt.wantErr)
			}
			if got := len(c.Records()); got != tt.wantLen {
				t.Errorf("records = %d, want %d", got, tt.wantLen)
			}
			if tt.wantErr && c.RemoveError() != "boom" {
				t.Errorf("RemoveError = %q", c.RemoveError())
			}
			if _, ok := c.Pending(); ok {
				t.Error("confirmation still staged")
			}
		})
	}
}

func TestCancelRemove(t *testing.T) {
	svc := &fakeService[model.Clube]{items: []model.Clube{{ID: 1, Nome: "A"}}}
	c := NewController[model.Clube](model.MustLookup(model.KindClube), svc, nil)
	c.Load(context.Background())

	c.RequestRemove(model.Clube{ID: 1})
	c.CancelRemove()
	if err := c.ConfirmRemove(context.Background()); err != nil {
		t.Fatalf("ConfirmRemove: %v", err)
	}
	for _, call := range svc.calls {
		if call == "delete" {
			t.Error("cancelled remove still deleted")
		}
	}
}

func TestOptionsFeedValidation(t *testing.T) {
	svc := &fakeService[model.Aluno]{}
	c := NewController[model.Aluno](model.MustLookup(model.KindAluno), svc, nil)
	c.SetOptions(validate.Options{model.KindTurma: {model.Turma{ID: 7, AnoEscolar: "6º"}}})

	c.OpenCreate()
	_, err := c.Submit(context.Background(), validAluno()) // id_turma 1 is not an option
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("error = %v, want ErrInvalid", err)
	}
	if svc.callCount() != 0 {
		t.Error("invalid reference reached the service")
	}
}

func TestCreateThenListAgainstDevServer(t *testing.T) {
	srv := httptest.NewServer(devapi.NewServer(devapi.Config{}, nil).Handler())
	defer srv.Close()

	client := api.NewClient(srv.URL)
	token, _, err := client.Login(context.Background(), model.Credentials{Username: "admin", Password: "admin123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	client.UseSession(staticToken(token))

	res := api.NewResource[model.Diretor](client, model.KindDiretor.Endpoint())
	c := NewController[model.Diretor](model.MustLookup(model.KindDiretor), res, nil)
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	before := len(c.Records())

	c.OpenCreate()
	d := model.Diretor{Nome: "Maj. Castro", CargoMilitar: "Major", Telefone: "81988776655", Email: "castro@cm.br"}
	if _, err := c.Submit(context.Background(), d); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	rows := c.Records()
	if len(rows) != before+1 {
		t.Fatalf("records = %d, want %d", len(rows), before+1)
	}
	var found *model.Diretor
	for i := range rows {
		if rows[i].Email == "castro@cm.br" {
			found = &rows[i]
		}
	}
	if found == nil {
		t.Fatal("created director not listed")
	}
	if found.ID == 0 {
		t.Error("created director has no id")
	}
	if found.Ativo == nil || !*found.Ativo {
		t.Error("created director not active by default")
	}

	// deleting twice: the second delete hits a 404 and still succeeds
	c.RequestRemove(*found)
	if err := c.ConfirmRemove(context.Background()); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	c.RequestRemove(*found)
	if err := c.ConfirmRemove(context.Background()); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

type staticToken string

func (s staticToken) Token() string { return string(s) }
func (s staticToken) Invalidate()   {}
