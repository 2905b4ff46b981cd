package devapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/guilhermemouraovc/cm-admin/internal/model"
)

func setupServer(t *testing.T, cfg Config) (*httptest.Server, string) {
	t.Helper()
	srv := httptest.NewServer(NewServer(cfg, nil).Handler())
	t.Cleanup(srv.Close)

	body, _ := json.Marshal(model.Credentials{Username: "admin", Password: "admin123"})
	resp, err := http.Post(srv.URL+"/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}
	var out model.LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	return srv, out.Token
}

func do(t *testing.T, method, url, token, body string) (*http.Response, []byte) {
	t.Helper()
	req, _ := http.NewRequest(method, url, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	return resp, buf.Bytes()
}

func TestLoginRejectsBadPassword(t *testing.T) {
	srv := httptest.NewServer(NewServer(Config{}, nil).Handler())
	defer srv.Close()

	resp, body := do(t, http.MethodPost, srv.URL+"/auth/login", "", `{"username":"admin","password":"nope"}`)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
	if !strings.Contains(string(body), "inválidos") {
		t.Errorf("body = %s", body)
	}
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	srv, token := setupServer(t, Config{})

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{name: "no token", token: "", status: http.StatusUnauthorized},
		{name: "garbage token", token: "abc.def.ghi", status: http.StatusUnauthorized},
		{name: "valid token", token: token, status: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := do(t, http.MethodGet, srv.URL+"/auth/validate", tt.token, "")
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
		})
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	cfg := Config{}.withDefaults()
	tok, err := NewAccessToken(cfg.JWTSecret, -time.Minute, model.Profile{ID: 1, Username: "admin"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseToken(cfg.JWTSecret, tok); err == nil {
		t.Fatal("expired token parsed")
	}
	if _, err := ParseToken("other-secret", mustToken(t, cfg)); err == nil {
		t.Fatal("token with wrong secret parsed")
	}
}

func mustToken(t *testing.T, cfg Config) string {
	t.Helper()
	tok, err := NewAccessToken(cfg.JWTSecret, time.Hour, model.Profile{ID: 1, Username: "admin", Role: "ADMIN"})
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func TestCollectionRoundTrip(t *testing.T) {
	srv, token := setupServer(t, Config{})
	base := srv.URL + "/clubes"

	resp, body := do(t, http.MethodPost, base, token, `{"nome":"Robótica","descricao":"Clube de robótica educacional","ativo":true}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d: %s", resp.StatusCode, body)
	}
	var created model.Clube
	json.Unmarshal(body, &created)
	if created.ID != 1 {
		t.Errorf("created id = %d, want 1", created.ID)
	}

	resp, body = do(t, http.MethodGet, base, token, "")
	var all []model.Clube
	json.Unmarshal(body, &all)
	if resp.StatusCode != http.StatusOK || len(all) != 1 || all[0].Nome != "Robótica" {
		t.Fatalf("list = %d %s", resp.StatusCode, body)
	}

	resp, body = do(t, http.MethodPut, base+"/1", token, `{"nome":"Robótica II","descricao":"Clube de robótica avançada"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status = %d: %s", resp.StatusCode, body)
	}
	resp, body = do(t, http.MethodGet, base+"/1", token, "")
	var one model.Clube
	json.Unmarshal(body, &one)
	if one.Nome != "Robótica II" || one.ID != 1 {
		t.Errorf("after update = %+v", one)
	}

	if resp, _ := do(t, http.MethodDelete, base+"/1", token, ""); resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d", resp.StatusCode)
	}
	if resp, _ := do(t, http.MethodDelete, base+"/1", token, ""); resp.StatusCode != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", resp.StatusCode)
	}
	if resp, _ := do(t, http.MethodPut, base+"/1", token, `{"nome":"Xadrez","descricao":"Clube de xadrez"}`); resp.StatusCode != http.StatusNotFound {
		t.Errorf("update missing status = %d, want 404", resp.StatusCode)
	}
}

func TestCreateRejectsInvalidRecord(t *testing.T) {
	srv, token := setupServer(t, Config{})

	resp, body := do(t, http.MethodPost, srv.URL+"/notas", token, `{"descricao":"Prova","peso":1,"valor":11}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	var msg struct {
		Message string `json:"message"`
	}
	json.Unmarshal(body, &msg)
	if !strings.HasPrefix(msg.Message, "valor") {
		t.Errorf("message = %q, want it to name the field", msg.Message)
	}

	resp, _ = do(t, http.MethodGet, srv.URL+"/notas/abc", token, "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad id status = %d, want 400", resp.StatusCode)
	}
}

func TestCreateChecksReferences(t *testing.T) {
	srv, token := setupServer(t, Config{Seed: true})

	// turma 99 does not exist in the seeded data
	resp, _ := do(t, http.MethodPost, srv.URL+"/alunos", token,
		`{"nome":"Nova Aluna","data_nasc":"2014-01-01","sexo":"F","id_turma":99,"id_responsavel":1}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestDashboardAggregates(t *testing.T) {
	srv, token := setupServer(t, Config{Seed: true})

	_, body := do(t, http.MethodGet, srv.URL+"/dashboard/metrics", token, "")
	var m model.Metrics
	json.Unmarshal(body, &m)
	want := model.Metrics{TotalAlunos: 3, TotalProfessores: 1, TurmasAtivas: 2, NotasLancadas: 3, PresencasRegistradas: 3, FardamentosEntregues: 2}
	if m != want {
		t.Errorf("metrics = %+v, want %+v", m, want)
	}

	_, body = do(t, http.MethodGet, srv.URL+"/dashboard/top-students?limit=2", token, "")
	var top []model.TopStudent
	json.Unmarshal(body, &top)
	if len(top) != 2 || top[0].Nome != "Ana Alves" || top[0].Media != 9.5 || top[1].Nome != "Pedro Lima" {
		t.Errorf("top students = %+v", top)
	}

	_, body = do(t, http.MethodGet, srv.URL+"/dashboard/absences-by-class", token, "")
	var abs []model.ClassAbsences
	json.Unmarshal(body, &abs)
	if len(abs) != 2 || abs[0].IDTurma != 1 || abs[0].Faltas != 1 {
		t.Errorf("absences = %+v", abs)
	}

	_, body = do(t, http.MethodGet, srv.URL+"/dashboard/delivered-uniforms?limit=1", token, "")
	var du []model.DeliveredUniform
	json.Unmarshal(body, &du)
	if len(du) != 1 || du[0].DataEntrega != "2025-02-05" || du[0].Aluno != "Ana Alves" {
		t.Errorf("delivered uniforms = %+v", du)
	}
}

func TestRequestIDHeader(t *testing.T) {
	srv := httptest.NewServer(NewServer(Config{}, nil).Handler())
	defer srv.Close()

	resp, _ := do(t, http.MethodGet, srv.URL+"/health", "", "")
	if id := resp.Header.Get("X-Request-ID"); len(id) != 8 {
		t.Errorf("X-Request-ID = %q, want 8 chars", id)
	}
}
