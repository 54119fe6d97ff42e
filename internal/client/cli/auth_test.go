package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/client/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubInputs(t *testing.T, email string, password []byte) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) { return email, nil }
	getPassword = func(_ io.Writer) ([]byte, error) { return password, nil }
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}

type fakeAPI struct {
	gotEmail string
	gotPass  []byte
	token    string

	signupErr error
	loginErr  error
	meErr     error
	pingErr   error
}

func (f *fakeAPI) Signup(_ context.Context, email string, pass []byte) (*client.User, error) {
	f.gotEmail, f.gotPass = email, append([]byte(nil), pass...)
	if f.signupErr != nil {
		return nil, f.signupErr
	}
	return &client.User{ID: "u1", Email: email}, nil
}

func (f *fakeAPI) Login(_ context.Context, email string, pass []byte) error {
	f.gotEmail, f.gotPass = email, append([]byte(nil), pass...)
	if f.loginErr != nil {
		return f.loginErr
	}
	f.token = "tok"
	return nil
}

func (f *fakeAPI) Me(context.Context) (*client.User, error) {
	if f.meErr != nil {
		return nil, f.meErr
	}
	return &client.User{ID: "u1", Email: f.gotEmail}, nil
}

func (f *fakeAPI) Ping(context.Context) error { return f.pingErr }
func (f *fakeAPI) Logout()                    { f.token = "" }
func (f *fakeAPI) LoggedIn() bool             { return f.token != "" }

func newTestApp(api client.Client) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	return &App{config: &config.Config{ServerURL: "http://srv"}, api: api, out: &out}, &out
}

func TestSignup_Success(t *testing.T) {
	pw := []byte("secret")
	stubInputs(t, "alice@example.org", pw)
	api := &fakeAPI{}
	a, out := newTestApp(api)

	require.NoError(t, a.Signup(context.Background()))
	assert.Equal(t, "alice@example.org", api.gotEmail)
	assert.Equal(t, []byte("secret"), api.gotPass)
	assert.Equal(t, make([]byte, len(pw)), pw, "password must be wiped")
	assert.Contains(t, out.String(), "Account created: alice@example.org (id u1)")
}

func TestSignup_ServerMessage(t *testing.T) {
	stubInputs(t, "alice@example.org", []byte("secret"))
	a, out := newTestApp(&fakeAPI{signupErr: &client.APIError{StatusCode: 400, Message: "email already registered"}})

	require.Error(t, a.Signup(context.Background()))
	assert.Contains(t, out.String(), "Signup failed: email already registered")
}

func TestLogin_SuccessAndStatus(t *testing.T) {
	stubInputs(t, "bob@example.org", []byte("pw"))
	api := &fakeAPI{}
	a, out := newTestApp(api)

	require.NoError(t, a.Login(context.Background()))
	assert.True(t, a.isLoggedIn())
	assert.Equal(t, "(bob@example.org)", a.getStatus())
	assert.Contains(t, out.String(), "Login successful")

	require.NoError(t, a.Me(context.Background()))
	assert.Contains(t, out.String(), "Logged in as bob@example.org")

	require.NoError(t, a.Logout(context.Background()))
	assert.False(t, a.isLoggedIn())
	assert.Equal(t, "", a.getStatus())
}

func TestLogin_Failure(t *testing.T) {
	stubInputs(t, "bob@example.org", []byte("bad"))
	a, out := newTestApp(&fakeAPI{loginErr: &client.APIError{StatusCode: 401, Message: "invalid password"}})

	require.Error(t, a.Login(context.Background()))
	assert.False(t, a.isLoggedIn())
	assert.Contains(t, out.String(), "Login failed: invalid password")
}

func TestLogin_InputError(t *testing.T) {
	origST := getSimpleText
	getSimpleText = func(*bufio.Reader, string, io.Writer) (string, error) { return "", io.EOF }
	t.Cleanup(func() { getSimpleText = origST })

	a, _ := newTestApp(&fakeAPI{})
	assert.ErrorIs(t, a.Login(context.Background()), io.EOF)
}

func TestMe_ExpiredSessionLogsOut(t *testing.T) {
	api := &fakeAPI{token: "tok", meErr: &client.APIError{StatusCode: 401, Message: "unauthorized"}}
	a, out := newTestApp(api)
	a.email = "bob@example.org"

	assert.Error(t, a.Me(context.Background()))
	assert.False(t, a.isLoggedIn())
	assert.Contains(t, out.String(), "Session expired")
}

func TestStatus(t *testing.T) {
	a, out := newTestApp(&fakeAPI{})
	require.NoError(t, a.Status(context.Background()))
	assert.Contains(t, out.String(), "Server http://srv is up")

	a, out = newTestApp(&fakeAPI{pingErr: fmt.Errorf("%w: dial tcp", client.ErrUnavailable)})
	assert.Error(t, a.Status(context.Background()))
	assert.Contains(t, out.String(), "Server is not reachable: server unavailable")

	a, out = newTestApp(&fakeAPI{pingErr: errors.New("weird")})
	assert.Error(t, a.Status(context.Background()))
	assert.Contains(t, out.String(), "weird")
}
