package model

// Metrics are the headline counters shown on the dashboard
type Metrics struct {
	TotalAlunos          int `json:"totalAlunos"`
	TotalProfessores     int `json:"totalProfessores"`
	TurmasAtivas         int `json:"turmasAtivas"`
	NotasLancadas        int `json:"notasLancadas"`
	PresencasRegistradas int `json:"presencasRegistradas"`
	FardamentosEntregues int `json:"fardamentosEntregues"`
}

// TopStudent is one row of the best-average ranking
type TopStudent struct {
	IDAluno int     `json:"id_aluno"`
	Nome    string  `json:"nome"`
	Turma   string  `json:"turma"`
	Media   float64 `json:"media"`
}

// ClassAbsences counts absences for one class
type ClassAbsences struct {
	IDTurma int    `json:"id_turma"`
	Turma   string `json:"turma"`
	Faltas  int    `json:"faltas"`
}

// DeliveredUniform is one recent uniform delivery
type DeliveredUniform struct {
	IDFardaAluno int    `json:"id_farda_aluno"`
	Aluno        string `json:"aluno"`
	Fardamento   string `json:"fardamento"`
	DataEntrega  string `json:"data_entrega"`
}

// Profile describes the authenticated user
type Profile struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Nome     string `json:"nome"`
	Role     string `json:"role"`
}

// Credentials are what the login form submits
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the body returned by POST /auth/login
type LoginResponse struct {
	Token string  `json:"token"`
	User  Profile `json:"user"`
}
