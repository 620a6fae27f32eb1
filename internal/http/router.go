package http

import (
	"net/http"
	"strings"
	"time"

	"admissions/internal/http/handlers"
	"admissions/internal/http/metrics"
	httpmw "admissions/internal/http/middleware"
)

type RouterDependencies struct {
	AuthHandler      *handlers.AuthHandler
	UserHandler      *handlers.UserHandler
	ApplicantHandler *handlers.ApplicantHandler
	SpecialtyHandler *handlers.SpecialtyHandler
	ExamHandler      *handlers.ExamHandler
	CommentHandler   *handlers.CommentHandler
	AuditLogHandler  *handlers.AuditLogHandler
	MetricsHandler   *handlers.MetricsHandler
	AuthMiddleware   *httpmw.AuthMiddleware
	Metrics          *metrics.Collector
	RequestTimeout   time.Duration
}

type Router struct {
	deps RouterDependencies
}

const maxBodyBytes = 1 << 20

func NewRouter(deps RouterDependencies) http.Handler {
	return &Router{deps: deps}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	handler := httpmw.Chain(r.baseHandler(), httpmw.RequestID, httpmw.Logging, httpmw.BodyLimit(maxBodyBytes), httpmw.Recover, httpmw.Metrics(r.deps.Metrics), httpmw.Timeout(r.deps.RequestTimeout))
	handler.ServeHTTP(w, req)
}

func (r *Router) baseHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		path := req.URL.Path

		switch {
		case req.Method == http.MethodGet && path == "/health":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		case req.Method == http.MethodGet && path == "/metrics":
			r.deps.MetricsHandler.Get(w, req)
			return
		case req.Method == http.MethodPost && path == "/auth/signup":
			r.deps.AuthHandler.SignUp(w, req)
			return
		case req.Method == http.MethodPost && path == "/auth/signin":
			r.deps.AuthHandler.SignIn(w, req)
			return
		case req.Method == http.MethodPost && path == "/auth/refresh":
			r.deps.AuthHandler.Refresh(w, req)
			return
		case req.Method == http.MethodPost && path == "/auth/logout":
			r.deps.AuthHandler.Logout(w, req)
			return
		}

		if strings.HasPrefix(path, "/applicants") || strings.HasPrefix(path, "/users") || strings.HasPrefix(path, "/specialties") || strings.HasPrefix(path, "/exams") || strings.HasPrefix(path, "/comments") || strings.HasPrefix(path, "/audit-logs") {
			protected := r.deps.AuthMiddleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				r.handleProtected(w, req)
			}))
			protected.ServeHTTP(w, req)
			return
		}

		http.NotFound(w, req)
	})
}

// handleProtected dispatches authenticated routes. Specialty and exam
// mutations are gated on the admin role here; user management ordering rules
// live in the user service so the role checks interleave with existence and
// self checks the way clients expect.
func (r *Router) handleProtected(w http.ResponseWriter, req *http.Request) {
	path := req.URL.Path
	segments := strings.Split(strings.Trim(path, "/"), "/")

	switch {
	case req.Method == http.MethodPost && path == "/applicants":
		r.deps.ApplicantHandler.Create(w, req)
		return
	case req.Method == http.MethodGet && path == "/applicants":
		r.deps.ApplicantHandler.List(w, req)
		return
	case req.Method == http.MethodGet && len(segments) == 2 && segments[0] == "applicants":
		r.deps.ApplicantHandler.Get(w, req)
		return
	case req.Method == http.MethodPatch && len(segments) == 2 && segments[0] == "applicants":
		r.deps.ApplicantHandler.Update(w, req)
		return
	case req.Method == http.MethodDelete && len(segments) == 2 && segments[0] == "applicants":
		r.deps.ApplicantHandler.Delete(w, req)
		return
	case req.Method == http.MethodGet && len(segments) == 3 && segments[0] == "applicants" && segments[2] == "specialties":
		r.deps.ApplicantHandler.ListSpecialties(w, req)
		return
	case req.Method == http.MethodPost && len(segments) == 3 && segments[0] == "applicants" && segments[2] == "specialties":
		r.deps.ApplicantHandler.AddSpecialty(w, req)
		return
	case req.Method == http.MethodDelete && len(segments) == 4 && segments[0] == "applicants" && segments[2] == "specialties":
		r.deps.ApplicantHandler.RemoveSpecialty(w, req)
		return
	case req.Method == http.MethodGet && len(segments) == 3 && segments[0] == "applicants" && segments[2] == "comments":
		r.deps.CommentHandler.ListByApplicant(w, req)
		return
	case req.Method == http.MethodGet && len(segments) == 3 && segments[0] == "applicants" && segments[2] == "audit-logs":
		r.deps.AuditLogHandler.ListByApplicant(w, req)
		return

	case req.Method == http.MethodPost && path == "/users":
		r.deps.UserHandler.Create(w, req)
		return
	case req.Method == http.MethodGet && path == "/users":
		r.deps.UserHandler.List(w, req)
		return
	case req.Method == http.MethodGet && len(segments) == 2 && segments[0] == "users":
		r.deps.UserHandler.Get(w, req)
		return
	case req.Method == http.MethodPatch && len(segments) == 3 && segments[0] == "users" && segments[2] == "role":
		r.deps.UserHandler.UpdateRole(w, req)
		return
	case req.Method == http.MethodPost && len(segments) == 3 && segments[0] == "users" && segments[2] == "deactivate":
		r.deps.UserHandler.Deactivate(w, req)
		return

	case req.Method == http.MethodGet && path == "/specialties":
		r.deps.SpecialtyHandler.List(w, req)
		return
	case req.Method == http.MethodGet && len(segments) == 2 && segments[0] == "specialties":
		r.deps.SpecialtyHandler.Get(w, req)
		return
	case req.Method == http.MethodPost && path == "/specialties":
		httpmw.RequireAdmin(http.HandlerFunc(r.deps.SpecialtyHandler.Create)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPatch && len(segments) == 2 && segments[0] == "specialties":
		httpmw.RequireAdmin(http.HandlerFunc(r.deps.SpecialtyHandler.Update)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodDelete && len(segments) == 2 && segments[0] == "specialties":
		httpmw.RequireAdmin(http.HandlerFunc(r.deps.SpecialtyHandler.Delete)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPost && len(segments) == 3 && segments[0] == "specialties" && segments[2] == "exams":
		httpmw.RequireAdmin(http.HandlerFunc(r.deps.SpecialtyHandler.AddExam)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodDelete && len(segments) == 4 && segments[0] == "specialties" && segments[2] == "exams":
		httpmw.RequireAdmin(http.HandlerFunc(r.deps.SpecialtyHandler.RemoveExam)).ServeHTTP(w, req)
		return

	case req.Method == http.MethodGet && path == "/exams":
		r.deps.ExamHandler.List(w, req)
		return
	case req.Method == http.MethodGet && len(segments) == 2 && segments[0] == "exams":
		r.deps.ExamHandler.Get(w, req)
		return
	case req.Method == http.MethodPost && path == "/exams":
		httpmw.RequireAdmin(http.HandlerFunc(r.deps.ExamHandler.Create)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPatch && len(segments) == 2 && segments[0] == "exams":
		httpmw.RequireAdmin(http.HandlerFunc(r.deps.ExamHandler.Update)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodDelete && len(segments) == 2 && segments[0] == "exams":
		httpmw.RequireAdmin(http.HandlerFunc(r.deps.ExamHandler.Delete)).ServeHTTP(w, req)
		return

	case req.Method == http.MethodPost && path == "/comments":
		r.deps.CommentHandler.Create(w, req)
		return
	case req.Method == http.MethodGet && len(segments) == 2 && segments[0] == "comments":
		r.deps.CommentHandler.Get(w, req)
		return
	case req.Method == http.MethodDelete && len(segments) == 2 && segments[0] == "comments":
		r.deps.CommentHandler.Delete(w, req)
		return

	case req.Method == http.MethodGet && len(segments) == 2 && segments[0] == "audit-logs":
		r.deps.AuditLogHandler.Get(w, req)
		return
	}

	http.NotFound(w, req)
}
