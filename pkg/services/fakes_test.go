package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/retinue-solutions/triage-engine/pkg/apperrors"
	"github.com/retinue-solutions/triage-engine/pkg/models"
)

// In-memory repositories mirroring the Postgres implementations closely
// enough for orchestrator tests.

var fakeEpoch = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

type fakeTriageRepo struct {
	mu        sync.Mutex
	rows      map[uuid.UUID]*models.TriageRequest
	seq       int
	updates   []*models.TriageUpdate
	createErr error
	updateErr error
}

func newFakeTriageRepo() *fakeTriageRepo {
	return &fakeTriageRepo{rows: make(map[uuid.UUID]*models.TriageRequest)}
}

func cloneRequest(r *models.TriageRequest) *models.TriageRequest {
	c := *r
	c.Answers = r.Answers.Clone()
	if r.Recommendation != nil {
		rec := *r.Recommendation
		rec.Routes = append([]models.Route(nil), r.Recommendation.Routes...)
		c.Recommendation = &rec
	}
	return &c
}

func (f *fakeTriageRepo) tick() time.Time {
	f.seq++
	return fakeEpoch.Add(time.Duration(f.seq) * time.Second)
}

func (f *fakeTriageRepo) Create(ctx context.Context, req *models.TriageRequest) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	if req.Answers == nil {
		req.Answers = models.Answers{}
	}
	now := f.tick()
	req.CreatedAt, req.UpdatedAt = now, now
	f.rows[req.ID] = cloneRequest(req)
	return nil
}

func (f *fakeTriageRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.TriageRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return cloneRequest(r), nil
}

func (f *fakeTriageRepo) ListByUser(ctx context.Context, userID string) ([]*models.TriageRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.TriageRequest
	for _, r := range f.rows {
		if r.UserID == userID {
			out = append(out, cloneRequest(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeTriageRepo) Update(ctx context.Context, id uuid.UUID, u *models.TriageUpdate) (*models.TriageRequest, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	uc := *u
	f.updates = append(f.updates, &uc)
	if u.Title != nil {
		r.Title = *u.Title
	}
	if u.Status != nil {
		r.Status = *u.Status
	}
	if u.Answers != nil {
		r.Answers = u.Answers.Clone()
	}
	if u.Recommendation != nil {
		rec := *u.Recommendation
		r.Recommendation = &rec
	}
	r.UpdatedAt = f.tick()
	return cloneRequest(r), nil
}

// put stores a request directly, bypassing Create.
func (f *fakeTriageRepo) put(r *models.TriageRequest) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r.Answers == nil {
		r.Answers = models.Answers{}
	}
	f.rows[r.ID] = cloneRequest(r)
}

type fakeConversationRepo struct {
	mu        sync.Mutex
	convs     map[uuid.UUID]*models.Conversation
	messages  map[uuid.UUID][]*models.Message
	createErr error
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{
		convs:    make(map[uuid.UUID]*models.Conversation),
		messages: make(map[uuid.UUID][]*models.Message),
	}
}

func (f *fakeConversationRepo) Create(ctx context.Context, title string) (*models.Conversation, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	c := &models.Conversation{ID: uuid.New(), Title: title, CreatedAt: fakeEpoch}
	f.convs[c.ID] = c
	return c, nil
}

func (f *fakeConversationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.convs[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return c, nil
}

func (f *fakeConversationRepo) AddMessage(ctx context.Context, conversationID uuid.UUID, role models.ChatRole, content string) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.convs[conversationID]; !ok {
		return nil, errors.New("conversation does not exist")
	}
	m := &models.Message{ID: uuid.New(), ConversationID: conversationID, Role: role, Content: content}
	f.messages[conversationID] = append(f.messages[conversationID], m)
	return m, nil
}

func (f *fakeConversationRepo) ListMessages(ctx context.Context, conversationID uuid.UUID) ([]*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*models.Message(nil), f.messages[conversationID]...), nil
}

func (f *fakeConversationRepo) count(conversationID uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.messages[conversationID])
}

type fakeSpecificationRepo struct {
	mu      sync.Mutex
	specs   []*models.Specification
	creates int
}

func (f *fakeSpecificationRepo) GetByTriageRequest(ctx context.Context, triageRequestID uuid.UUID) (*models.Specification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.specs {
		if s.TriageRequestID == triageRequestID {
			c := *s
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeSpecificationRepo) Create(ctx context.Context, spec *models.Specification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	if spec.Version == 0 {
		spec.Version = models.InitialSpecificationVersion
	}
	spec.CreatedAt = fakeEpoch
	c := *spec
	f.specs = append(f.specs, &c)
	return nil
}

func (f *fakeSpecificationRepo) UpdateContent(ctx context.Context, id uuid.UUID, content string) (*models.Specification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.specs {
		if s.ID == id {
			s.Content = content
			c := *s
			return &c, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

type fakeSupplierRepo struct {
	suppliers []*models.Supplier
	batches   int
	countErr  error
}

func (f *fakeSupplierRepo) List(ctx context.Context, category string) ([]*models.Supplier, error) {
	var out []*models.Supplier
	for _, s := range f.suppliers {
		if category == "" || string(s.Category) == category {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSupplierRepo) Count(ctx context.Context) (int, error) {
	return len(f.suppliers), f.countErr
}

func (f *fakeSupplierRepo) CreateBatch(ctx context.Context, suppliers []*models.Supplier) error {
	f.batches++
	f.suppliers = append(f.suppliers, suppliers...)
	return nil
}

type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (f *fakeUserRepo) Upsert(ctx context.Context, user *models.User) (*models.User, error) {
	existing, ok := f.users[user.ID]
	if !ok {
		c := *user
		f.users[user.ID] = &c
		return &c, nil
	}
	keep := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	keep(&existing.Username, user.Username)
	keep(&existing.Email, user.Email)
	keep(&existing.FirstName, user.FirstName)
	keep(&existing.LastName, user.LastName)
	keep(&existing.ProfileImageURL, user.ProfileImageURL)
	c := *existing
	return &c, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	c := *u
	return &c, nil
}
