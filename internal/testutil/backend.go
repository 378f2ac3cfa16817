// Package testutil provides an in-memory stand-in for the finance backend
// and fixtures for exercising the client end to end.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Veraticus/gastos/internal/model"
	"github.com/shopspring/decimal"
)

// Detail messages returned by the fake, matching the real backend.
const (
	DetailAlreadyRegistered = "El email ya está registrado"
	DetailBadCredentials    = "Email/Usuario o contraseña incorrectos"
	DetailUnauthorized      = "Could not validate credentials"
	DetailCategoryInUse     = "No se puede borrar la categoría porque tiene transacciones asociadas."
	DetailCategoryNotFound  = "Categoría no encontrada"
	DetailTxnNotFound       = "Transacción no encontrada o no pertenece al usuario"
	DetailKindMismatch      = "El tipo de la transacción no coincide con el de la categoría"
)

// RecordedRequest is one call seen by the fake.
type RecordedRequest struct {
	Method        string
	Path          string
	Authorization string
}

type user struct {
	email    string
	name     string
	password string
	id       int
}

type category struct {
	Name   string `json:"nombre"`
	Kind   string `json:"tipo"`
	ID     int    `json:"id"`
	UserID int    `json:"usuario_id"`
}

type transaction struct {
	Date        string          `json:"fecha"`
	Description string          `json:"descripcion"`
	Kind        string          `json:"tipo"`
	Amount      decimal.Decimal `json:"monto"`
	ID          int             `json:"id"`
	CategoryID  int             `json:"categoria_id"`
	UserID      int             `json:"usuario_id"`
	when        time.Time
}

// MarshalJSON sends monto as a bare number, as the backend does.
func (t transaction) MarshalJSON() ([]byte, error) {
	type alias transaction
	return json.Marshal(struct {
		alias
		Amount json.Number `json:"monto"`
	}{alias: alias(t), Amount: json.Number(t.Amount.String())})
}

// Backend is a thread-safe fake of the finance REST API.
type Backend struct {
	Now          func() time.Time
	server       *httptest.Server
	users        map[int]*user
	tokens       map[string]int
	categories   map[int]*category
	transactions map[int]*transaction
	requests     []RecordedRequest
	nextID       int
	mu           sync.Mutex
}

// NewBackend starts a fake backend that shuts down with the test.
func NewBackend(t *testing.T) *Backend {
	t.Helper()

	b := &Backend{
		Now:          time.Now,
		users:        make(map[int]*user),
		tokens:       make(map[string]int),
		categories:   make(map[int]*category),
		transactions: make(map[int]*transaction),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /token", b.handleToken)
	mux.HandleFunc("POST /usuarios/", b.handleRegister)
	mux.HandleFunc("GET /categorias/", b.authed(b.listCategories))
	mux.HandleFunc("POST /categorias/", b.authed(b.createCategory))
	mux.HandleFunc("PUT /categorias/{id}", b.authed(b.updateCategory))
	mux.HandleFunc("DELETE /categorias/{id}", b.authed(b.deleteCategory))
	mux.HandleFunc("GET /transacciones/", b.authed(b.listTransactions))
	mux.HandleFunc("POST /transacciones/", b.authed(b.createTransaction))
	mux.HandleFunc("PUT /transacciones/{id}", b.authed(b.updateTransaction))
	mux.HandleFunc("DELETE /transacciones/{id}", b.authed(b.deleteTransaction))
	mux.HandleFunc("GET /dashboard/summary", b.authed(b.summary))

	b.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.requests = append(b.requests, RecordedRequest{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
		})
		b.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(b.server.Close)

	return b
}

// URL is the fake's base URL.
func (b *Backend) URL() string {
	return b.server.URL
}

// Requests returns a copy of every request seen so far.
func (b *Backend) Requests() []RecordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]RecordedRequest, len(b.requests))
	copy(out, b.requests)
	return out
}

// RequestCount returns how many requests the fake has served.
func (b *Backend) RequestCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.requests)
}

// AddUser registers an account directly, bypassing the API.
func (b *Backend) AddUser(email, password, name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.users[b.nextID] = &user{id: b.nextID, email: strings.ToLower(email), name: strings.ToLower(name), password: password}
}

// IssueToken returns a valid token for email without going through /token.
func (b *Backend) IssueToken(email string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	u := b.findUser(email)
	if u == nil {
		return ""
	}
	return b.issue(u)
}

// RevokeAll invalidates every issued token, as an expiry would.
func (b *Backend) RevokeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokens = make(map[string]int)
}

// CategoryCount returns the number of categories stored for all users.
func (b *Backend) CategoryCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.categories)
}

// SeedCategory stores a category for the account identified by email.
func (b *Backend) SeedCategory(t *testing.T, email, name string, kind model.Kind) model.Category {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()

	u := b.findUser(email)
	if u == nil {
		t.Fatalf("no account for %q", email)
	}
	b.nextID++
	c := &category{ID: b.nextID, Name: name, Kind: kind.Wire(), UserID: u.id}
	b.categories[c.ID] = c
	return model.Category{ID: c.ID, Name: name, Kind: kind}
}

// SeedTransaction stores a transaction dated when for the account identified by email.
func (b *Backend) SeedTransaction(t *testing.T, email string, in model.TransactionInput, when time.Time) model.Transaction {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()

	u := b.findUser(email)
	if u == nil {
		t.Fatalf("no account for %q", email)
	}
	b.nextID++
	when = when.UTC()
	b.transactions[b.nextID] = &transaction{
		ID:          b.nextID,
		Amount:      in.Amount,
		Description: in.Description,
		Kind:        in.Kind.Wire(),
		CategoryID:  in.CategoryID,
		UserID:      u.id,
		when:        when,
		Date:        when.Format("2006-01-02T15:04:05.000000"),
	}
	return model.Transaction{
		ID:          b.nextID,
		Amount:      in.Amount,
		Description: in.Description,
		Kind:        in.Kind,
		CategoryID:  in.CategoryID,
		OccurredAt:  when,
	}
}

func (b *Backend) findUser(identifier string) *user {
	needle := strings.ToLower(identifier)
	for _, u := range b.users {
		if u.email == needle || u.name == needle {
			return u
		}
	}
	return nil
}

func (b *Backend) issue(u *user) string {
	b.nextID++
	token := fmt.Sprintf("token-%d-%d", u.id, b.nextID)
	b.tokens[token] = u.id
	return token
}

func (b *Backend) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	u := b.findUser(r.PostForm.Get("username"))
	if u == nil || u.password != r.PostForm.Get("password") {
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeDetail(w, http.StatusUnauthorized, DetailBadCredentials)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"access_token": b.issue(u),
		"token_type":   "bearer",
	})
}

func (b *Backend) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"nombre"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Email == "" || body.Password == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, u := range b.users {
		if u.email == strings.ToLower(body.Email) {
			writeDetail(w, http.StatusBadRequest, DetailAlreadyRegistered)
			return
		}
	}

	b.nextID++
	u := &user{id: b.nextID, email: strings.ToLower(body.Email), name: strings.ToLower(body.Name), password: body.Password}
	b.users[u.id] = u
	writeJSON(w, http.StatusOK, map[string]any{"id": u.id, "email": u.email, "nombre": u.name})
}

type authedHandler func(w http.ResponseWriter, r *http.Request, userID int)

func (b *Backend) authed(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")

		b.mu.Lock()
		userID, valid := b.tokens[token]
		b.mu.Unlock()

		if !ok || !valid {
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeDetail(w, http.StatusUnauthorized, DetailUnauthorized)
			return
		}
		next(w, r, userID)
	}
}

func (b *Backend) listCategories(w http.ResponseWriter, _ *http.Request, userID int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]category, 0)
	for _, c := range b.categories {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, http.StatusOK, out)
}

type categoryBody struct {
	Name string `json:"nombre"`
	Kind string `json:"tipo"`
}

func decodeCategory(r *http.Request) (categoryBody, bool) {
	var body categoryBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return body, false
	}
	return body, body.Name != "" && validKind(body.Kind)
}

func (b *Backend) createCategory(w http.ResponseWriter, r *http.Request, userID int) {
	body, ok := decodeCategory(r)
	if !ok {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid category")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	c := &category{ID: b.nextID, Name: body.Name, Kind: body.Kind, UserID: userID}
	b.categories[c.ID] = c
	writeJSON(w, http.StatusOK, c)
}

func (b *Backend) updateCategory(w http.ResponseWriter, r *http.Request, userID int) {
	id, err := strconv.Atoi(r.PathValue("id"))
	body, ok := decodeCategory(r)
	if err != nil || !ok {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid category")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	c, found := b.categories[id]
	if !found || c.UserID != userID {
		writeDetail(w, http.StatusNotFound, DetailCategoryNotFound)
		return
	}
	c.Name = body.Name
	c.Kind = body.Kind
	writeJSON(w, http.StatusOK, c)
}

func (b *Backend) deleteCategory(w http.ResponseWriter, r *http.Request, userID int) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid id")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	c, found := b.categories[id]
	if !found || c.UserID != userID {
		writeDetail(w, http.StatusNotFound, DetailCategoryNotFound)
		return
	}
	for _, t := range b.transactions {
		if t.CategoryID == id {
			writeDetail(w, http.StatusBadRequest, DetailCategoryInUse)
			return
		}
	}
	delete(b.categories, id)
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) listTransactions(w http.ResponseWriter, _ *http.Request, userID int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]transaction, 0)
	for _, t := range b.transactions {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	// Newest first, as the backend orders by date descending.
	sort.Slice(out, func(i, j int) bool {
		if out[i].when.Equal(out[j].when) {
			return out[i].ID > out[j].ID
		}
		return out[i].when.After(out[j].when)
	})
	writeJSON(w, http.StatusOK, out)
}

type transactionBody struct {
	Description *string         `json:"descripcion"`
	Kind        string          `json:"tipo"`
	Amount      decimal.Decimal `json:"monto"`
	CategoryID  int             `json:"categoria_id"`
}

// checkTransaction validates body against the user's categories. It must be
// called with b.mu held.
func (b *Backend) checkTransaction(w http.ResponseWriter, r *http.Request, userID int) (transactionBody, bool) {
	var body transactionBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || !validKind(body.Kind) {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid transaction")
		return body, false
	}

	c, found := b.categories[body.CategoryID]
	if !found || c.UserID != userID {
		writeDetail(w, http.StatusNotFound, "Categoría no encontrada o no pertenece al usuario")
		return body, false
	}
	if c.Kind != body.Kind {
		writeDetail(w, http.StatusBadRequest, DetailKindMismatch)
		return body, false
	}
	return body, true
}

func (b *Backend) createTransaction(w http.ResponseWriter, r *http.Request, userID int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	body, ok := b.checkTransaction(w, r, userID)
	if !ok {
		return
	}

	b.nextID++
	now := b.Now().UTC()
	t := &transaction{
		ID:         b.nextID,
		Amount:     body.Amount,
		Kind:       body.Kind,
		CategoryID: body.CategoryID,
		UserID:     userID,
		when:       now,
		Date:       now.Format("2006-01-02T15:04:05.000000"),
	}
	if body.Description != nil {
		t.Description = *body.Description
	}
	b.transactions[t.ID] = t
	writeJSON(w, http.StatusOK, t)
}

func (b *Backend) updateTransaction(w http.ResponseWriter, r *http.Request, userID int) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid id")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	t, found := b.transactions[id]
	if !found || t.UserID != userID {
		writeDetail(w, http.StatusNotFound, DetailTxnNotFound)
		return
	}

	body, ok := b.checkTransaction(w, r, userID)
	if !ok {
		return
	}
	t.Amount = body.Amount
	t.Kind = body.Kind
	t.CategoryID = body.CategoryID
	if body.Description != nil {
		t.Description = *body.Description
	}
	writeJSON(w, http.StatusOK, t)
}

func (b *Backend) deleteTransaction(w http.ResponseWriter, r *http.Request, userID int) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid id")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	t, found := b.transactions[id]
	if !found || t.UserID != userID {
		writeDetail(w, http.StatusNotFound, DetailTxnNotFound)
		return
	}
	delete(b.transactions, id)
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) summary(w http.ResponseWriter, _ *http.Request, userID int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.Now().UTC()
	income := decimal.Zero
	expenses := decimal.Zero
	byCategory := make(map[string]decimal.Decimal)
	var order []string

	for _, t := range b.transactions {
		if t.UserID != userID || t.when.Year() != now.Year() || t.when.Month() != now.Month() {
			continue
		}
		switch t.Kind {
		case "ingreso":
			income = income.Add(t.Amount)
		case "gasto":
			expenses = expenses.Add(t.Amount)
			name := b.categories[t.CategoryID].Name
			if _, seen := byCategory[name]; !seen {
				order = append(order, name)
			}
			byCategory[name] = byCategory[name].Add(t.Amount)
		}
	}

	sort.Strings(order)
	breakdown := make([]map[string]any, 0, len(order))
	for _, name := range order {
		value, _ := byCategory[name].Float64()
		breakdown = append(breakdown, map[string]any{"name": name, "value": value})
	}

	incomeF, _ := income.Float64()
	expensesF, _ := expenses.Float64()
	balanceF, _ := income.Sub(expenses).Float64()
	writeJSON(w, http.StatusOK, map[string]any{
		"total_ingresos":       incomeF,
		"total_gastos":         expensesF,
		"balance":              balanceF,
		"gastos_por_categoria": breakdown,
	})
}

func validKind(kind string) bool {
	return kind == "ingreso" || kind == "gasto"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
