package app

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"

	"admissions/internal/common"
	"admissions/internal/domain/applicant"
	"admissions/internal/domain/audit"
	"admissions/internal/domain/auth"
	"admissions/internal/domain/comment"
	"admissions/internal/domain/exam"
	"admissions/internal/domain/specialty"
	"admissions/internal/domain/user"
)

type fakeStore struct {
	users         *fakeUserRepo
	applicants    *fakeApplicantRepo
	specialties   *fakeSpecialtyRepo
	exams         *fakeExamRepo
	comments      *fakeCommentRepo
	auditLogs     *fakeAuditRepo
	refreshTokens *fakeRefreshTokenRepo
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:         &fakeUserRepo{items: make(map[int64]user.User)},
		applicants:    &fakeApplicantRepo{items: make(map[int64]applicant.Applicant)},
		specialties:   &fakeSpecialtyRepo{items: make(map[int64]specialty.Specialty)},
		exams:         &fakeExamRepo{items: make(map[int64]exam.Exam)},
		comments:      &fakeCommentRepo{items: make(map[int64]comment.Comment)},
		auditLogs:     &fakeAuditRepo{},
		refreshTokens: &fakeRefreshTokenRepo{items: make(map[string]auth.RefreshToken)},
	}
}

func (s *fakeStore) Users() user.Repository                     { return s.users }
func (s *fakeStore) Applicants() applicant.Repository           { return s.applicants }
func (s *fakeStore) Specialties() specialty.Repository          { return s.specialties }
func (s *fakeStore) Exams() exam.Repository                     { return s.exams }
func (s *fakeStore) Comments() comment.Repository               { return s.comments }
func (s *fakeStore) AuditLogs() audit.Repository                { return s.auditLogs }
func (s *fakeStore) RefreshTokens() auth.RefreshTokenRepository { return s.refreshTokens }

// WithTx mirrors transaction semantics: every repository mutation made by fn
// is undone when fn returns an error. ID counters keep advancing like real
// sequences do.
func (s *fakeStore) WithTx(ctx context.Context, fn func(Store) error) error {
	snap := s.snapshot()
	if err := fn(s); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type storeSnapshot struct {
	users          map[int64]user.User
	applicants     map[int64]applicant.Applicant
	specialtyLinks []applicant.SpecialtyLink
	specialties    map[int64]specialty.Specialty
	examLinks      []specialty.ExamLink
	exams          map[int64]exam.Exam
	comments       map[int64]comment.Comment
	auditEntries   []audit.Entry
	tokens         map[string]auth.RefreshToken
}

func (s *fakeStore) snapshot() storeSnapshot {
	return storeSnapshot{
		users:          maps.Clone(s.users.items),
		applicants:     maps.Clone(s.applicants.items),
		specialtyLinks: slices.Clone(s.applicants.links),
		specialties:    maps.Clone(s.specialties.items),
		examLinks:      slices.Clone(s.specialties.links),
		exams:          maps.Clone(s.exams.items),
		comments:       maps.Clone(s.comments.items),
		auditEntries:   slices.Clone(s.auditLogs.entries),
		tokens:         maps.Clone(s.refreshTokens.items),
	}
}

func (s *fakeStore) restore(snap storeSnapshot) {
	s.users.items = snap.users
	s.applicants.items = snap.applicants
	s.applicants.links = snap.specialtyLinks
	s.specialties.items = snap.specialties
	s.specialties.links = snap.examLinks
	s.exams.items = snap.exams
	s.comments.items = snap.comments
	s.auditLogs.entries = snap.auditEntries
	s.refreshTokens.items = snap.tokens
}

func (s *fakeStore) seedUser(role user.Role) *user.User {
	s.users.mu.Lock()
	name := fmt.Sprintf("user%d", s.users.nextID+1)
	s.users.mu.Unlock()
	account, _ := s.users.Create(context.Background(), user.User{
		Username:     name,
		PasswordHash: "x",
		Role:         role,
		IsActive:     true,
	})
	return account
}

func specialtyFixture(name, code string) specialty.Specialty {
	return specialty.Specialty{Name: name, Code: code, Faculty: "Teknik", DegreeLevel: "S1"}
}

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]user.User
}

func (r *fakeUserRepo) Create(ctx context.Context, account user.User) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.Username == account.Username {
			return nil, common.NewError(common.CodeConflict, "username already exists", nil)
		}
	}
	r.nextID++
	account.ID = r.nextID
	account.CreatedAt = time.Now().UTC()
	r.items[account.ID] = account
	return &account, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.items[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "user not found", nil)
	}
	return &account, nil
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, account := range r.items {
		if account.Username == username {
			result := account
			return &result, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "user not found", nil)
}

func (r *fakeUserRepo) UpdateRole(ctx context.Context, id int64, role user.Role) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.items[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "user not found", nil)
	}
	account.Role = role
	r.items[id] = account
	return &account, nil
}

func (r *fakeUserRepo) Deactivate(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.items[id]
	if !ok {
		return common.NewError(common.CodeNotFound, "user not found", nil)
	}
	account.IsActive = false
	r.items[id] = account
	return nil
}

func (r *fakeUserRepo) List(ctx context.Context, offset, limit int) ([]user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return pageOf(r.items, offset, limit), nil
}

type fakeApplicantRepo struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]applicant.Applicant
	links  []applicant.SpecialtyLink
}

func (r *fakeApplicantRepo) Create(ctx context.Context, a applicant.Applicant) (*applicant.Applicant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	a.ID = r.nextID
	now := time.Now().UTC()
	a.RegistrationDate = now
	a.CreatedAt = now
	a.UpdatedAt = now
	r.items[a.ID] = a
	return &a, nil
}

func (r *fakeApplicantRepo) GetByID(ctx context.Context, id int64) (*applicant.Applicant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "applicant not found", nil)
	}
	return &a, nil
}

func (r *fakeApplicantRepo) Update(ctx context.Context, a applicant.Applicant) (*applicant.Applicant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[a.ID]; !ok {
		return nil, common.NewError(common.CodeNotFound, "applicant not found", nil)
	}
	a.UpdatedAt = time.Now().UTC()
	r.items[a.ID] = a
	return &a, nil
}

func (r *fakeApplicantRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return common.NewError(common.CodeNotFound, "applicant not found", nil)
	}
	delete(r.items, id)
	return nil
}

func (r *fakeApplicantRepo) List(ctx context.Context, offset, limit int) ([]applicant.Applicant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return pageOf(r.items, offset, limit), nil
}

func (r *fakeApplicantRepo) FindByIdentity(ctx context.Context, nationalID, passportNumber string) (*applicant.Applicant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.items {
		if (nationalID != "" && a.NationalID == nationalID) || (passportNumber != "" && a.PassportNumber == passportNumber) {
			result := a
			return &result, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "applicant not found", nil)
}

func (r *fakeApplicantRepo) AddSpecialty(ctx context.Context, link applicant.SpecialtyLink) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.links {
		if existing.ApplicantID == link.ApplicantID && existing.SpecialtyID == link.SpecialtyID {
			return common.NewError(common.CodeConflict, "applicant is already linked to this specialty", nil)
		}
	}
	r.links = append(r.links, link)
	return nil
}

func (r *fakeApplicantRepo) RemoveSpecialty(ctx context.Context, applicantID, specialtyID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.links {
		if existing.ApplicantID == applicantID && existing.SpecialtyID == specialtyID {
			r.links = append(r.links[:i], r.links[i+1:]...)
			return nil
		}
	}
	return common.NewError(common.CodeNotFound, "specialty link not found", nil)
}

func (r *fakeApplicantRepo) CountSpecialties(ctx context.Context, applicantID int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, existing := range r.links {
		if existing.ApplicantID == applicantID {
			count++
		}
	}
	return count, nil
}

func (r *fakeApplicantRepo) ListSpecialties(ctx context.Context, applicantID int64) ([]applicant.SpecialtyLink, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var links []applicant.SpecialtyLink
	for _, existing := range r.links {
		if existing.ApplicantID == applicantID {
			links = append(links, existing)
		}
	}
	return links, nil
}

type fakeSpecialtyRepo struct {
	mu                 sync.Mutex
	nextID             int64
	items              map[int64]specialty.Specialty
	links              []specialty.ExamLink
	applicantLinkCount int
}

func (r *fakeSpecialtyRepo) Create(ctx context.Context, s specialty.Specialty) (*specialty.Specialty, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.Name == s.Name || existing.Code == s.Code {
			return nil, common.NewError(common.CodeConflict, "specialty already exists", nil)
		}
	}
	r.nextID++
	s.ID = r.nextID
	r.items[s.ID] = s
	return &s, nil
}

func (r *fakeSpecialtyRepo) GetByID(ctx context.Context, id int64) (*specialty.Specialty, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.items[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "specialty not found", nil)
	}
	return &s, nil
}

func (r *fakeSpecialtyRepo) Update(ctx context.Context, s specialty.Specialty) (*specialty.Specialty, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[s.ID]; !ok {
		return nil, common.NewError(common.CodeNotFound, "specialty not found", nil)
	}
	r.items[s.ID] = s
	return &s, nil
}

func (r *fakeSpecialtyRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return common.NewError(common.CodeNotFound, "specialty not found", nil)
	}
	delete(r.items, id)
	return nil
}

func (r *fakeSpecialtyRepo) List(ctx context.Context, offset, limit int) ([]specialty.Specialty, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return pageOf(r.items, offset, limit), nil
}

func (r *fakeSpecialtyRepo) FindByNameOrCode(ctx context.Context, name, code string) (*specialty.Specialty, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.items {
		if s.Name == name || s.Code == code {
			result := s
			return &result, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "specialty not found", nil)
}

func (r *fakeSpecialtyRepo) AddExam(ctx context.Context, link specialty.ExamLink) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.links {
		if existing.SpecialtyID == link.SpecialtyID && existing.ExamID == link.ExamID {
			return common.NewError(common.CodeConflict, "specialty is already linked to this exam", nil)
		}
	}
	r.links = append(r.links, link)
	return nil
}

func (r *fakeSpecialtyRepo) RemoveExam(ctx context.Context, specialtyID, examID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.links {
		if existing.SpecialtyID == specialtyID && existing.ExamID == examID {
			r.links = append(r.links[:i], r.links[i+1:]...)
			return nil
		}
	}
	return common.NewError(common.CodeNotFound, "exam link not found", nil)
}

func (r *fakeSpecialtyRepo) CountApplicantLinks(ctx context.Context, id int64) (int, error) {
	return r.applicantLinkCount, nil
}

func (r *fakeSpecialtyRepo) CountExamLinks(ctx context.Context, id int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, existing := range r.links {
		if existing.SpecialtyID == id {
			count++
		}
	}
	return count, nil
}

type fakeExamRepo struct {
	mu        sync.Mutex
	nextID    int64
	items     map[int64]exam.Exam
	linkCount int
}

func (r *fakeExamRepo) Create(ctx context.Context, e exam.Exam) (*exam.Exam, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.Name == e.Name && existing.Type == e.Type {
			return nil, common.NewError(common.CodeConflict, "exam already exists", nil)
		}
	}
	r.nextID++
	e.ID = r.nextID
	r.items[e.ID] = e
	return &e, nil
}

func (r *fakeExamRepo) GetByID(ctx context.Context, id int64) (*exam.Exam, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.items[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "exam not found", nil)
	}
	return &e, nil
}

func (r *fakeExamRepo) Update(ctx context.Context, e exam.Exam) (*exam.Exam, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[e.ID]; !ok {
		return nil, common.NewError(common.CodeNotFound, "exam not found", nil)
	}
	r.items[e.ID] = e
	return &e, nil
}

func (r *fakeExamRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return common.NewError(common.CodeNotFound, "exam not found", nil)
	}
	delete(r.items, id)
	return nil
}

func (r *fakeExamRepo) List(ctx context.Context, offset, limit int) ([]exam.Exam, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return pageOf(r.items, offset, limit), nil
}

func (r *fakeExamRepo) FindByNameAndType(ctx context.Context, name string, examType exam.Type) (*exam.Exam, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.items {
		if e.Name == name && e.Type == examType {
			result := e
			return &result, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "exam not found", nil)
}

func (r *fakeExamRepo) CountSpecialtyLinks(ctx context.Context, id int64) (int, error) {
	return r.linkCount, nil
}

type fakeCommentRepo struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]comment.Comment
}

func (r *fakeCommentRepo) Create(ctx context.Context, c comment.Comment) (*comment.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	c.ID = r.nextID
	c.CreatedAt = time.Now().UTC()
	r.items[c.ID] = c
	return &c, nil
}

func (r *fakeCommentRepo) GetByID(ctx context.Context, id int64) (*comment.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "comment not found", nil)
	}
	return &c, nil
}

func (r *fakeCommentRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return common.NewError(common.CodeNotFound, "comment not found", nil)
	}
	delete(r.items, id)
	return nil
}

func (r *fakeCommentRepo) ListByApplicant(ctx context.Context, applicantID int64, offset, limit int) ([]comment.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []comment.Comment
	for _, c := range r.items {
		if c.ApplicantID == applicantID {
			all = append(all, c)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return window(all, offset, limit), nil
}

func (r *fakeCommentRepo) CountByApplicant(ctx context.Context, applicantID int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, c := range r.items {
		if c.ApplicantID == applicantID {
			count++
		}
	}
	return count, nil
}

type fakeAuditRepo struct {
	mu        sync.Mutex
	nextID    int64
	entries   []audit.Entry
	createErr error
}

func (r *fakeAuditRepo) Create(ctx context.Context, e audit.Entry) (*audit.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.nextID++
	e.ID = r.nextID
	e.ChangedAt = time.Now().UTC()
	r.entries = append(r.entries, e)
	return &e, nil
}

func (r *fakeAuditRepo) GetByID(ctx context.Context, id int64) (*audit.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.ID == id {
			result := e
			return &result, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "audit entry not found", nil)
}

func (r *fakeAuditRepo) ListByApplicant(ctx context.Context, applicantID int64, offset, limit int) ([]audit.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []audit.Entry
	for _, e := range r.entries {
		if e.ApplicantID == applicantID {
			all = append(all, e)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	return window(all, offset, limit), nil
}

func (r *fakeAuditRepo) byApplicant(applicantID int64) []audit.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []audit.Entry
	for _, e := range r.entries {
		if e.ApplicantID == applicantID {
			all = append(all, e)
		}
	}
	return all
}

type fakeRefreshTokenRepo struct {
	mu     sync.Mutex
	nextID int64
	items  map[string]auth.RefreshToken
}

func (r *fakeRefreshTokenRepo) Store(ctx context.Context, t auth.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	t.ID = r.nextID
	r.items[t.Token] = t
	return nil
}

func (r *fakeRefreshTokenRepo) GetByToken(ctx context.Context, token string) (*auth.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.items[token]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "refresh token not found", nil)
	}
	return &t, nil
}

func (r *fakeRefreshTokenRepo) Revoke(ctx context.Context, token string, revokedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.items[token]
	if !ok || t.RevokedAt != nil {
		return common.NewError(common.CodeNotFound, "refresh token not found", nil)
	}
	t.RevokedAt = &revokedAt
	r.items[token] = t
	return nil
}

func (r *fakeRefreshTokenRepo) RevokeAll(ctx context.Context, userID int64, revokedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for token, t := range r.items {
		if t.UserID == userID && t.RevokedAt == nil {
			t.RevokedAt = &revokedAt
			r.items[token] = t
		}
	}
	return nil
}

func pageOf[T any](items map[int64]T, offset, limit int) []T {
	ids := make([]int64, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	ordered := make([]T, 0, len(ids))
	for _, id := range ids {
		ordered = append(ordered, items[id])
	}
	return window(ordered, offset, limit)
}

func window[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit < len(items) {
		items = items[:limit]
	}
	return items
}
