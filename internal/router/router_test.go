package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"petcheck-dashboard/internal/adapters/vetapi"
	"petcheck-dashboard/internal/dashboard"
	"petcheck-dashboard/internal/domain/users"
	"petcheck-dashboard/internal/router"
	"petcheck-dashboard/internal/session"
	"petcheck-dashboard/internal/testutil/fakevetapi"
)

var clinicZone = time.FixedZone("UTC-3", -3*60*60)

type fixture struct {
	api  *fakevetapi.Server
	sess *session.Session
	url  string

	customerID string
	petID      string
	doctorID   string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	api := fakevetapi.New()
	t.Cleanup(api.Close)

	sess := session.New()
	client, err := vetapi.NewClient(vetapi.Config{BaseURL: api.BaseURL(), Timeout: 2 * time.Second, Credentials: sess})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	svc, err := dashboard.New(dashboard.Deps{API: client, Session: sess, Location: clinicZone})
	if err != nil {
		t.Fatalf("new dashboard: %v", err)
	}

	ts := httptest.NewServer(router.NewRouter(router.Options{Dashboard: svc, Session: sess}))
	t.Cleanup(ts.Close)

	api.AddUser("ana@vet.test", "secret", users.RoleEmployee)
	api.AddUser("boss@vet.test", "secret", users.RoleAdmin)
	c := api.AddCustomer("Ana", "Gómez")
	p := api.AddPet(c.ID, "Milo", "Perro")
	d := api.AddDoctor("House")

	return &fixture{api: api, sess: sess, url: ts.URL, customerID: c.ID, petID: p.ID, doctorID: d.ID}
}

func (f *fixture) login(t *testing.T, email string) {
	t.Helper()
	st, body := doReq(t, f.url, "POST", "/login", map[string]any{"email": email, "password": "secret"})
	if st != http.StatusNoContent {
		t.Fatalf("expected 204 login, got %d body=%s", st, string(body))
	}
}

func TestHTTP_DashboardWithoutSessionRedirects(t *testing.T) {
	f := newFixture(t)

	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }}
	res, err := client.Get(f.url + "/dashboard")
	if err != nil {
		t.Fatalf("get dashboard: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", res.StatusCode)
	}
	if loc := res.Header.Get("Location"); loc != "/login" {
		t.Fatalf("expected redirect to /login, got %q", loc)
	}

	st, body := doReq(t, f.url, "GET", "/appointments/future", nil)
	if st != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", st)
	}
	var out map[string]any
	mustJSON(t, body, &out)
	if out["redirect"] != "/login" {
		t.Fatalf("expected redirect hint, got %v", out)
	}
}

func TestHTTP_LoginFlow(t *testing.T) {
	f := newFixture(t)

	// campos vacíos: no sale a la red
	st, _ := doReq(t, f.url, "POST", "/login", map[string]any{"email": "", "password": ""})
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", st)
	}
	if n := f.api.Calls(fakevetapi.RouteLogin); n != 0 {
		t.Fatalf("expected no login call, got %d", n)
	}

	st, body := doReq(t, f.url, "POST", "/login", map[string]any{"email": "ana@vet.test", "password": "wrong"})
	if st != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", st)
	}
	if !strings.Contains(string(body), "Incorrect email or password") {
		t.Fatalf("expected api message, got %s", string(body))
	}
	if f.sess.Authenticated() {
		t.Fatal("session must stay empty")
	}

	f.login(t, "ana@vet.test")

	st, body = doReq(t, f.url, "GET", "/dashboard", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", st, string(body))
	}
	var o struct {
		User struct {
			Email string
		} `json:"user"`
		Collections map[string]struct {
			Loaded bool `json:"loaded"`
		} `json:"collections"`
	}
	mustJSON(t, body, &o)
	if o.User.Email != "ana@vet.test" {
		t.Fatalf("expected user in overview, got %+v", o.User)
	}
	if !o.Collections["customers"].Loaded {
		t.Fatalf("expected customers loaded, got %+v", o.Collections)
	}
	if n := f.api.Calls(fakevetapi.RouteListCustomers); n != 1 {
		t.Fatalf("expected customers fetched once, got %d", n)
	}

	st, _ = doReq(t, f.url, "POST", "/logout", nil)
	if st != http.StatusNoContent {
		t.Fatalf("expected 204 logout, got %d", st)
	}
	st, _ = doReq(t, f.url, "GET", "/customers", nil)
	if st != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", st)
	}
}

func TestHTTP_UpstreamUnauthorizedClearsSession(t *testing.T) {
	f := newFixture(t)
	f.login(t, "ana@vet.test")

	f.api.FailNext(fakevetapi.RouteGetPet, http.StatusUnauthorized, "Token expired")
	st, body := doReq(t, f.url, "GET", "/pets/"+f.petID, nil)
	if st != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", st, string(body))
	}
	if f.sess.Authenticated() {
		t.Fatal("expected session cleared")
	}
}

func TestHTTP_CreateUserRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	in := map[string]any{"email": "new@vet.test", "password": "longenough", "role": "employee"}

	f.login(t, "ana@vet.test")
	st, _ := doReq(t, f.url, "POST", "/users", in)
	if st != http.StatusForbidden {
		t.Fatalf("expected 403 for employee, got %d", st)
	}
	if n := f.api.Calls(fakevetapi.RouteCreateUser); n != 0 {
		t.Fatalf("expected no api call, got %d", n)
	}
	// sigue logueado: un 403 no es sesión vencida
	if !f.sess.Authenticated() {
		t.Fatal("session must survive a 403")
	}

	f.login(t, "boss@vet.test")
	st, body := doReq(t, f.url, "POST", "/users", in)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 for admin, got %d body=%s", st, string(body))
	}
}

func TestHTTP_AppointmentDraftLifecycle(t *testing.T) {
	f := newFixture(t)
	f.login(t, "ana@vet.test")

	st, body := doReq(t, f.url, "POST", "/appointments/drafts", nil)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 draft, got %d body=%s", st, string(body))
	}
	var d struct {
		ID   string `json:"id"`
		View struct {
			State       string            `json:"state"`
			CanSubmit   bool              `json:"can_submit"`
			Pets        []map[string]any  `json:"pets"`
			FieldErrors map[string]string `json:"field_errors"`
		} `json:"view"`
	}
	mustJSON(t, body, &d)
	if d.View.State != "composing" || d.View.CanSubmit {
		t.Fatalf("unexpected initial view: %+v", d.View)
	}
	draftPath := "/appointments/drafts/" + d.ID

	// submit vacío: errores de campo, nada a la red
	st, body = doReq(t, f.url, "POST", draftPath+"/submit", nil)
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", st, string(body))
	}
	if n := f.api.Calls(fakevetapi.RouteCreateAppointment); n != 0 {
		t.Fatalf("expected no create call, got %d", n)
	}

	st, body = doReq(t, f.url, "PATCH", draftPath, map[string]any{
		"customer_id": f.customerID,
		"pet_id":      f.petID,
		"doctor_id":   f.doctorID,
		"date":        "2030-06-01",
		"time":        "09:00",
		"diagnosis":   "control",
	})
	if st != http.StatusOK {
		t.Fatalf("expected 200 patch, got %d body=%s", st, string(body))
	}
	mustJSON(t, body, &d)
	if !d.View.CanSubmit || len(d.View.Pets) != 1 {
		t.Fatalf("expected submittable draft with pets, got %+v", d.View)
	}

	st, body = doReq(t, f.url, "POST", draftPath+"/submit", nil)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 submit, got %d body=%s", st, string(body))
	}
	bodies := f.api.Bodies(fakevetapi.RouteCreateAppointment)
	if len(bodies) != 1 || !strings.Contains(string(bodies[0]), `"2030-06-01T12:00:00Z"`) {
		t.Fatalf("expected UTC instant in create body, got %s", bodies)
	}

	// el draft se cerró con el submit
	st, _ = doReq(t, f.url, "GET", draftPath, nil)
	if st != http.StatusNotFound {
		t.Fatalf("expected 404 for closed draft, got %d", st)
	}

	st, body = doReq(t, f.url, "GET", "/appointments/future", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 future, got %d", st)
	}
	var rows []map[string]any
	mustJSON(t, body, &rows)
	if len(rows) != 1 || rows[0]["time"] != "09:00" || rows[0]["pet"] != "Milo" {
		t.Fatalf("unexpected rows: %v", rows)
	}

	st, _ = doReq(t, f.url, "DELETE", "/appointments/"+rows[0]["id"].(string), nil)
	if st != http.StatusNoContent {
		t.Fatalf("expected 204 delete, got %d", st)
	}
	_, body = doReq(t, f.url, "GET", "/appointments/future", nil)
	mustJSON(t, body, &rows)
	if len(rows) != 0 {
		t.Fatalf("expected empty list after delete, got %v", rows)
	}
}

func TestHTTP_CustomerValidationAndPets(t *testing.T) {
	f := newFixture(t)
	f.login(t, "ana@vet.test")

	st, body := doReq(t, f.url, "POST", "/customers", map[string]any{
		"firstName": "Luis", "lastName": "Paz", "email": "no-at", "phone": "12",
	})
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", st)
	}
	var e struct {
		Fields map[string]string `json:"fields"`
	}
	mustJSON(t, body, &e)
	if e.Fields["email"] == "" || e.Fields["phone"] == "" {
		t.Fatalf("expected email and phone field errors, got %v", e.Fields)
	}
	if n := f.api.Calls(fakevetapi.RouteCreateCustomer); n != 0 {
		t.Fatalf("expected no api call, got %d", n)
	}

	for range 2 {
		st, body = doReq(t, f.url, "GET", "/customers/"+f.customerID+"/pets", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 pets, got %d body=%s", st, string(body))
		}
	}
	if n := f.api.Calls(fakevetapi.RoutePetsByCustomer); n != 1 {
		t.Fatalf("expected pets fetched once, got %d", n)
	}

	st, _ = doReq(t, f.url, "GET", "/appointments/calendar?month=13", nil)
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad month, got %d", st)
	}
}

func doReq(t *testing.T, baseURL, method, path string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	out, _ := io.ReadAll(res.Body)
	return res.StatusCode, out
}

func mustJSON(t *testing.T, b []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(b, v); err != nil {
		t.Fatalf("unmarshal %s: %v", string(b), err)
	}
}
