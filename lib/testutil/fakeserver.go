package testutil

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
)

const (
	FakeUsername  = "tester"
	FakePassword  = "hunter2"
	fakeViewState = "dDwtMTI3OTMzNDM4NDs7Pg=="
	sessionCookie = "ASP.NET_SessionId"
)

// Request is a handler call received by a FakeServer.
type Request struct {
	Method string
	Path   string
	// query and form values combined
	Form  url.Values
	Files map[string][]byte
}

// Reply is what a registered handler sends back.
type Reply struct {
	Status int
	Body   string
	// if set, the reply is a 302 to this location
	Redirect string
}

type HandlerFunc func(req Request) Reply

// FakeServer emulates the back office's login form and session cookie, and
// serves replies registered with Handle.
type FakeServer struct {
	*httptest.Server

	// when set the login page is served without its hidden inputs
	MissingLoginForm bool

	lock     sync.Mutex
	handlers map[string]HandlerFunc
	sessions map[string]bool
	requests []Request
	logins   int
}

func NewFakeServer(t testing.TB) *FakeServer {
	s := &FakeServer{
		handlers: map[string]HandlerFunc{},
		sessions: map[string]bool{},
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// Handle registers fn to answer calls to path.
func (s *FakeServer) Handle(path string, fn HandlerFunc) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.handlers[strings.ToLower(path)] = fn
}

// Reply registers a fixed 200 reply for path.
func (s *FakeServer) Reply(path, body string) {
	s.Handle(path, func(Request) Reply {
		return Reply{Status: http.StatusOK, Body: body}
	})
}

// ExpireSessions forgets every issued session cookie.
func (s *FakeServer) ExpireSessions() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.sessions = map[string]bool{}
}

func (s *FakeServer) Logins() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.logins
}

// Requests returns the calls received on path in order.
func (s *FakeServer) Requests(path string) []Request {
	s.lock.Lock()
	defer s.lock.Unlock()
	var out []Request
	for _, req := range s.requests {
		if strings.EqualFold(req.Path, path) {
			out = append(out, req)
		}
	}
	return out
}

// Last returns the most recent call received on path.
func (s *FakeServer) Last(t testing.TB, path string) Request {
	requests := s.Requests(path)
	if len(requests) == 0 {
		t.Fatalf("no request was made to %s", path)
	}
	return requests[len(requests)-1]
}

func (s *FakeServer) loginPage(w http.ResponseWriter, message string) {
	hidden := fmt.Sprintf(`
		<input type="hidden" name="__VIEWSTATE" id="__VIEWSTATE" value="%s" />
		<input type="hidden" name="__VIEWSTATEGENERATOR" id="__VIEWSTATEGENERATOR" value="C2EE9ABB" />
		<input type="hidden" name="__EVENTVALIDATION" id="__EVENTVALIDATION" value="/wEdAAT1" />`,
		fakeViewState,
	)
	if s.MissingLoginForm {
		hidden = ""
	}
	w.Header().Set("content-type", "text/html; charset=utf-8")
	fmt.Fprintf(w, `<!DOCTYPE html>
<html><body>
<form method="post" action="./login.aspx" id="form1">
	%s
	<span class="error">%s</span>
	<input name="txtusername" type="text" id="txtusername" />
	<input name="txtpassword" type="password" id="txtpassword" />
	<input type="submit" name="btnlogin" value="Login" id="btnlogin" />
</form>
</body></html>`, hidden, message)
}

func (s *FakeServer) login(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		s.loginPage(w, "")
		return
	}

	err := r.ParseForm()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if r.PostForm.Get("__VIEWSTATE") != fakeViewState ||
		r.PostForm.Get("__EVENTVALIDATION") == "" ||
		r.PostForm.Get("btnlogin") == "" {
		http.Error(w, "invalid viewstate", http.StatusInternalServerError)
		return
	}
	if r.PostForm.Get("txtusername") != FakeUsername || r.PostForm.Get("txtpassword") != FakePassword {
		s.loginPage(w, "Invalid username or password")
		return
	}

	s.lock.Lock()
	s.logins++
	session := fmt.Sprintf("session-%d", s.logins)
	s.sessions[session] = true
	s.lock.Unlock()

	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: session, Path: "/"})
	http.Redirect(w, r, "/Dashboard.aspx", http.StatusFound)
}

func (s *FakeServer) authorized(r *http.Request) bool {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return false
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.sessions[cookie.Value]
}

func readRequest(r *http.Request) (Request, error) {
	req := Request{
		Method: r.Method,
		Path:   r.URL.Path,
		Files:  map[string][]byte{},
	}
	if strings.HasPrefix(r.Header.Get("content-type"), "multipart/form-data") {
		err := r.ParseMultipartForm(32 << 20)
		if err != nil {
			return req, err
		}
		for field, headers := range r.MultipartForm.File {
			file, err := headers[0].Open()
			if err != nil {
				return req, err
			}
			contents, err := io.ReadAll(file)
			file.Close()
			if err != nil {
				return req, err
			}
			req.Files[field] = contents
		}
	} else {
		err := r.ParseForm()
		if err != nil {
			return req, err
		}
	}
	req.Form = r.Form
	return req, nil
}

func (s *FakeServer) serve(w http.ResponseWriter, r *http.Request) {
	if strings.EqualFold(r.URL.Path, "/login.aspx") {
		s.login(w, r)
		return
	}
	if !s.authorized(r) {
		http.Redirect(w, r, "/login.aspx?ReturnUrl="+url.QueryEscape(r.URL.Path), http.StatusFound)
		return
	}

	req, err := readRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.lock.Lock()
	s.requests = append(s.requests, req)
	handler, ok := s.handlers[strings.ToLower(r.URL.Path)]
	s.lock.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	reply := handler(req)
	if reply.Redirect != "" {
		http.Redirect(w, r, reply.Redirect, http.StatusFound)
		return
	}
	if reply.Status == 0 {
		reply.Status = http.StatusOK
	}
	w.WriteHeader(reply.Status)
	io.WriteString(w, reply.Body)
}
