package fakevetapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petcheck-dashboard/internal/domain/users"
)

func call(t *testing.T, s *Server, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, s.BaseURL()+path, rdr)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	out, _ := io.ReadAll(res.Body)
	return res.StatusCode, out
}

func TestServer_LoginAndAuth(t *testing.T) {
	s := New()
	defer s.Close()
	s.AddUser("ana@vet.test", "secret", users.RoleEmployee)

	st, body := call(t, s, http.MethodPost, "/login", "", map[string]string{"email": "ana@vet.test", "password": "secret"})
	require.Equal(t, http.StatusOK, st, string(body))
	var tok string
	require.NoError(t, json.Unmarshal(body, &tok))
	assert.NotEmpty(t, tok)

	st, _ = call(t, s, http.MethodPost, "/login", "", map[string]string{"email": "ana@vet.test", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, st)

	st, _ = call(t, s, http.MethodGet, "/customers", "", nil)
	assert.Equal(t, http.StatusUnauthorized, st)

	st, _ = call(t, s, http.MethodGet, "/customers", tok, nil)
	assert.Equal(t, http.StatusOK, st)
	assert.Equal(t, 2, s.Calls(RouteListCustomers))
}

func TestServer_WithNamesJoinsRecords(t *testing.T) {
	s := New()
	defer s.Close()
	c := s.AddCustomer("Ana", "Gómez")
	p := s.AddPet(c.ID, "Milo", "Perro")
	d := s.AddDoctor("House")
	s.AddAppointment(p.ID, d.ID, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC), "control")
	s.AddRawAppointment(p.ID, d.ID, "", "sin fecha")

	st, body := call(t, s, http.MethodGet, "/appointments/with-names", s.Token("ana@vet.test", users.RoleEmployee), nil)
	require.Equal(t, http.StatusOK, st)

	var list []map[string]any
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 2)
	assert.Equal(t, "2024-06-01T12:00:00Z", list[0]["date"])
	assert.Nil(t, list[1]["date"])
	pet := list[0]["pet"].(map[string]any)
	assert.Equal(t, "Milo", pet["name"])
	assert.Equal(t, "Ana", pet["owner"].(map[string]any)["firstName"])
}

func TestServer_DeleteCustomerCascades(t *testing.T) {
	s := New()
	defer s.Close()
	tok := s.Token("ana@vet.test", users.RoleEmployee)
	c := s.AddCustomer("Ana", "Gómez")
	p := s.AddPet(c.ID, "Milo", "Perro")
	d := s.AddDoctor("House")
	s.AddAppointment(p.ID, d.ID, time.Now(), "control")

	st, _ := call(t, s, http.MethodDelete, "/customers/"+c.ID, tok, nil)
	require.Equal(t, http.StatusNoContent, st)

	_, body := call(t, s, http.MethodGet, "/appointments/with-names", tok, nil)
	assert.JSONEq(t, `[]`, string(body))
	_, body = call(t, s, http.MethodGet, "/pets/by-customer/"+c.ID, tok, nil)
	assert.JSONEq(t, `[]`, string(body))
}

func TestServer_FailNextAndHold(t *testing.T) {
	s := New()
	defer s.Close()
	tok := s.Token("ana@vet.test", users.RoleEmployee)

	s.FailNext(RouteListDoctors, http.StatusInternalServerError, "boom")
	st, body := call(t, s, http.MethodGet, "/doctors", tok, nil)
	assert.Equal(t, http.StatusInternalServerError, st)
	assert.JSONEq(t, `{"detail":"boom"}`, string(body))

	release := s.Hold(RouteListDoctors)
	done := make(chan int, 1)
	go func() {
		st, _ := call(t, s, http.MethodGet, "/doctors", tok, nil)
		done <- st
	}()
	require.Eventually(t, func() bool { return s.Calls(RouteListDoctors) == 2 }, time.Second, time.Millisecond)
	select {
	case <-done:
		t.Fatal("request should be held")
	default:
	}
	release()
	assert.Equal(t, http.StatusOK, <-done)
}

func TestServer_CreateUserRequiresAdmin(t *testing.T) {
	s := New()
	defer s.Close()
	in := map[string]string{"email": "new@vet.test", "password": "x", "role": "employee"}

	st, _ := call(t, s, http.MethodPost, "/users", s.Token("emp@vet.test", users.RoleEmployee), in)
	assert.Equal(t, http.StatusForbidden, st)

	st, _ = call(t, s, http.MethodPost, "/users", s.Token("boss@vet.test", users.RoleAdmin), in)
	assert.Equal(t, http.StatusCreated, st)
	assert.Len(t, s.Bodies(RouteCreateUser), 2)
}
