package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/google/uuid"

	"github.com/retinue-solutions/triage-engine/pkg/auth"
	"github.com/retinue-solutions/triage-engine/pkg/documents"
	"github.com/retinue-solutions/triage-engine/pkg/models"
	"github.com/retinue-solutions/triage-engine/pkg/services"
)

// mockTriageService is a configurable TriageService for handler tests.
type mockTriageService struct {
	req        *models.TriageRequest
	list       []*models.TriageRequest
	err        error
	gotTitle   string
	gotUser    string
	gotUpdate  *models.TriageUpdate
	gotListFor string
}

func (m *mockTriageService) Create(ctx context.Context, principal *models.Principal, title string) (*models.TriageRequest, error) {
	m.gotTitle = title
	m.gotUser = principal.ID()
	if m.err != nil {
		return nil, m.err
	}
	return m.req, nil
}

func (m *mockTriageService) Get(ctx context.Context, id uuid.UUID) (*models.TriageRequest, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.req, nil
}

func (m *mockTriageService) Update(ctx context.Context, id uuid.UUID, update *models.TriageUpdate) (*models.TriageRequest, error) {
	m.gotUpdate = update
	if m.err != nil {
		return nil, m.err
	}
	return m.req, nil
}

func (m *mockTriageService) List(ctx context.Context, userID string) ([]*models.TriageRequest, error) {
	m.gotListFor = userID
	if m.err != nil {
		return nil, m.err
	}
	return m.list, nil
}

func (m *mockTriageService) Complete(ctx context.Context, id uuid.UUID) (*models.TriageRequest, error) {
	return m.Get(ctx, id)
}

// mockChatService records what the handler passed through.
type mockChatService struct {
	chatResult   *services.ChatTurnResult
	docResult    *services.DocumentTurnResult
	err          error
	gotMessage   string
	gotPrincipal *models.Principal
	gotUpload    *documents.Upload
}

func (m *mockChatService) SendMessage(ctx context.Context, principal *models.Principal, id uuid.UUID, message string) (*services.ChatTurnResult, error) {
	m.gotPrincipal = principal
	m.gotMessage = message
	if m.err != nil {
		return nil, m.err
	}
	return m.chatResult, nil
}

func (m *mockChatService) UploadDocument(ctx context.Context, principal *models.Principal, id uuid.UUID, upload *documents.Upload) (*services.DocumentTurnResult, error) {
	m.gotPrincipal = principal
	m.gotUpload = upload
	if m.err != nil {
		return nil, m.err
	}
	return m.docResult, nil
}

type mockRecommendationService struct {
	rec *models.Recommendation
	err error
}

func (m *mockRecommendationService) Regenerate(ctx context.Context, id uuid.UUID) (*models.Recommendation, error) {
	return m.rec, m.err
}

type mockSpecificationService struct {
	spec       *models.Specification
	err        error
	gotContent string
}

func (m *mockSpecificationService) GetOrGenerate(ctx context.Context, id uuid.UUID) (*models.Specification, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.spec, nil
}

func (m *mockSpecificationService) Save(ctx context.Context, id uuid.UUID, content string) (*models.Specification, error) {
	m.gotContent = content
	if m.err != nil {
		return nil, m.err
	}
	return m.spec, nil
}

type mockSupplierService struct {
	suppliers   []*models.Supplier
	gotCategory string
}

func (m *mockSupplierService) List(ctx context.Context, category string) ([]*models.Supplier, error) {
	m.gotCategory = category
	return m.suppliers, nil
}

func (m *mockSupplierService) SeedIfEmpty(ctx context.Context) (int, error) {
	return 0, nil
}

type mockUserService struct {
	upserted []*models.User
	err      error
}

func (m *mockUserService) Upsert(ctx context.Context, user *models.User) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.upserted = append(m.upserted, user)
	return user, nil
}

func (m *mockUserService) Get(ctx context.Context, id string) (*models.User, error) {
	return nil, m.err
}

type routeRegistrar interface {
	RegisterRoutes(mux *http.ServeMux)
}

// serve routes a request through a fresh mux holding h's routes, with principal
// set the way the auth middleware would.
func serve(h routeRegistrar, req *http.Request, principal *models.Principal, authenticated bool) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	if principal != nil {
		req = req.WithContext(auth.WithPrincipal(req.Context(), principal, authenticated))
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// staticResolver is an auth.AuthService returning a fixed resolution.
type staticResolver struct {
	res *auth.Resolution
}

func (s staticResolver) Resolve(r *http.Request) *auth.Resolution { return s.res }

func (s staticResolver) Sessions() *auth.SessionStore { return nil }

func serveHandler(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
