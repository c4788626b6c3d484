package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/commitcritic/commitcritic/internal/contract"
	"github.com/commitcritic/commitcritic/schema"
)

// fakeChat answers every completion with canned responses.
type fakeChat struct {
	jsonResponse string
	textResponse string
	err          error

	lastSystem string
	lastUser   string
	calls      int
}

func (f *fakeChat) CompleteJSON(_ context.Context, system, user string) (string, error) {
	f.lastSystem, f.lastUser = system, user
	f.calls++
	return f.jsonResponse, f.err
}

func (f *fakeChat) CompleteText(_ context.Context, system, user string) (string, error) {
	f.lastSystem, f.lastUser = system, user
	f.calls++
	return f.textResponse, f.err
}

// scriptedChat returns responses in order, one per CompleteJSON call.
type scriptedChat struct {
	responses []string
	errs      []error
	calls     int
}

func (f *scriptedChat) CompleteJSON(_ context.Context, _, _ string) (string, error) {
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return "", errors.New("no scripted response")
}

func (f *scriptedChat) CompleteText(ctx context.Context, system, user string) (string, error) {
	return f.CompleteJSON(ctx, system, user)
}

// fakeEmbedder returns deterministic vectors, optionally shuffling the
// response order to exercise index-based reassembly.
type fakeEmbedder struct {
	dims     int
	shuffle  bool
	err      error
	batches  [][]string
	received int
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([]contract.IndexedEmbedding, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.batches = append(f.batches, texts)
	dims := f.dims
	if dims == 0 {
		dims = 4
	}
	out := make([]contract.IndexedEmbedding, len(texts))
	for i := range texts {
		vec := make([]float32, dims)
		vec[0] = float32(f.received + i + 1)
		out[i] = contract.IndexedEmbedding{Index: i, Vector: vec}
	}
	f.received += len(texts)
	if f.shuffle {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out, nil
}

// memStore is an in-memory contract.MemoryStore for pipeline tests.
type memStore struct {
	nextID        int64
	repos         map[int64]schema.Repository
	collaborators map[int64]schema.Collaborator
	exemplars     map[int64]schema.Exemplar
	antipatterns  map[int64]schema.Antipattern
	deletedRepos  []int64
}

func newMemStore() *memStore {
	return &memStore{
		repos:         make(map[int64]schema.Repository),
		collaborators: make(map[int64]schema.Collaborator),
		exemplars:     make(map[int64]schema.Exemplar),
		antipatterns:  make(map[int64]schema.Antipattern),
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) CreateRepository(rc schema.RepositoryCreate) (schema.Repository, error) {
	for _, r := range m.repos {
		if r.Name == rc.Name {
			return schema.Repository{}, fmt.Errorf("duplicate name %s", rc.Name)
		}
	}
	repo := schema.Repository{
		ID:              m.id(),
		URL:             rc.URL,
		Name:            rc.Name,
		SeededAt:        time.Now(),
		PrimaryLanguage: rc.DNA.PrimaryLanguage,
		Languages:       rc.DNA.Languages,
		Frameworks:      rc.DNA.Frameworks,
		ProjectType:     rc.DNA.ProjectType,
		StylePattern:    rc.Style.Pattern,
		UsesScopes:      rc.Style.UsesScopes,
		CommonScopes:    rc.Style.CommonScopes,
		TicketPattern:   rc.Style.TicketPattern,
	}
	m.repos[repo.ID] = repo
	return repo, nil
}

func (m *memStore) GetRepository(id int64) (schema.Repository, error) {
	repo, ok := m.repos[id]
	if !ok {
		return schema.Repository{}, contract.ErrNotFound
	}
	return repo, nil
}

func (m *memStore) GetRepositoryByName(name string) (schema.Repository, error) {
	for _, r := range m.repos {
		if r.Name == name {
			return r, nil
		}
	}
	return schema.Repository{}, contract.ErrNotFound
}

func (m *memStore) GetRepositoryByURL(url string) (schema.Repository, error) {
	for _, r := range m.repos {
		if r.URL != nil && *r.URL == url {
			return r, nil
		}
	}
	return schema.Repository{}, contract.ErrNotFound
}

func (m *memStore) ListRepositories() ([]schema.Repository, error) {
	var out []schema.Repository
	for _, r := range m.repos {
		out = append(out, r)
	}
	return out, nil
}

func (m *memStore) DeleteRepository(id int64) error {
	if _, ok := m.repos[id]; !ok {
		return contract.ErrNotFound
	}
	delete(m.repos, id)
	m.deletedRepos = append(m.deletedRepos, id)
	for cid, c := range m.collaborators {
		if c.RepoID == id {
			delete(m.collaborators, cid)
		}
	}
	for eid, e := range m.exemplars {
		if e.RepoID == id {
			delete(m.exemplars, eid)
		}
	}
	for aid, a := range m.antipatterns {
		if a.RepoID == id {
			delete(m.antipatterns, aid)
		}
	}
	return nil
}

func (m *memStore) UpdateRepositoryMarket(id int64, market schema.MarketPosition) error {
	repo, ok := m.repos[id]
	if !ok {
		return contract.ErrNotFound
	}
	repo.ComparisonRepos = market.ComparisonRepos
	pct := market.IndustryPercentile
	repo.IndustryPct = &pct
	m.repos[id] = repo
	return nil
}

func (m *memStore) CreateCollaborator(cc schema.CollaboratorCreate) (schema.Collaborator, error) {
	c := schema.Collaborator{
		ID:           m.id(),
		RepoID:       cc.RepoID,
		Name:         cc.Name,
		Email:        cc.Email,
		CommitCount:  cc.CommitCount,
		AvgScore:     cc.AvgScore,
		PrimaryAreas: cc.PrimaryAreas,
		AreaSummary:  cc.AreaSummary,
		RoastLines:   cc.RoastLines,
		Trend:        cc.Trend,
	}
	m.collaborators[c.ID] = c
	return c, nil
}

func (m *memStore) GetCollaborator(id int64) (schema.Collaborator, error) {
	c, ok := m.collaborators[id]
	if !ok {
		return schema.Collaborator{}, contract.ErrNotFound
	}
	return c, nil
}

func (m *memStore) GetCollaboratorByName(repoID int64, name string) (schema.Collaborator, error) {
	for _, c := range m.collaborators {
		if c.RepoID == repoID && c.Name == name {
			return c, nil
		}
	}
	return schema.Collaborator{}, contract.ErrNotFound
}

func (m *memStore) ListCollaborators(repoID int64) ([]schema.Collaborator, error) {
	var out []schema.Collaborator
	for _, c := range m.collaborators {
		if c.RepoID == repoID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memStore) DeleteCollaborator(id int64) error {
	if _, ok := m.collaborators[id]; !ok {
		return contract.ErrNotFound
	}
	delete(m.collaborators, id)
	for aid, a := range m.antipatterns {
		if a.CollaboratorID != nil && *a.CollaboratorID == id {
			a.CollaboratorID = nil
			m.antipatterns[aid] = a
		}
	}
	return nil
}

func (m *memStore) CreateExemplar(ec schema.ExemplarCreate) (schema.Exemplar, error) {
	e := schema.Exemplar{
		ID:             m.id(),
		RepoID:         ec.RepoID,
		CollaboratorID: ec.CollaboratorID,
		CommitHash:     ec.CommitHash,
		Message:        ec.Message,
		Score:          ec.Score,
		CommitType:     ec.CommitType,
		Scope:          ec.Scope,
		Embedding:      ec.Embedding,
		CreatedAt:      time.Now(),
	}
	m.exemplars[e.ID] = e
	return e, nil
}

func (m *memStore) GetExemplar(id int64) (schema.Exemplar, error) {
	e, ok := m.exemplars[id]
	if !ok {
		return schema.Exemplar{}, contract.ErrNotFound
	}
	return e, nil
}

func (m *memStore) ListExemplars(repoID int64) ([]schema.Exemplar, error) {
	var out []schema.Exemplar
	for _, e := range m.exemplars {
		if e.RepoID == repoID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memStore) DeleteExemplar(id int64) error {
	if _, ok := m.exemplars[id]; !ok {
		return contract.ErrNotFound
	}
	delete(m.exemplars, id)
	return nil
}

func (m *memStore) FindSimilarExemplars(repoID int64, query []float32, limit int) ([]schema.SimilarExemplar, error) {
	var out []schema.SimilarExemplar
	for _, e := range m.exemplars {
		if e.RepoID != repoID || e.Embedding == nil {
			continue
		}
		out = append(out, schema.SimilarExemplar{
			Exemplar:   e,
			Similarity: CosineSimilarity(query, e.Embedding),
		})
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) CreateAntipattern(ac schema.AntipatternCreate) (schema.Antipattern, error) {
	a := schema.Antipattern{
		ID:             m.id(),
		RepoID:         ac.RepoID,
		CollaboratorID: ac.CollaboratorID,
		PatternType:    ac.PatternType,
		ExampleMessage: ac.ExampleMessage,
		Frequency:      ac.Frequency,
		CreatedAt:      time.Now(),
	}
	m.antipatterns[a.ID] = a
	return a, nil
}

func (m *memStore) ListAntipatterns(repoID int64) ([]schema.Antipattern, error) {
	var out []schema.Antipattern
	for _, a := range m.antipatterns {
		if a.RepoID == repoID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memStore) ClearAll() error {
	m.repos = make(map[int64]schema.Repository)
	m.collaborators = make(map[int64]schema.Collaborator)
	m.exemplars = make(map[int64]schema.Exemplar)
	m.antipatterns = make(map[int64]schema.Antipattern)
	return nil
}

func (m *memStore) GetStatus() (schema.MemoryStatus, error) {
	return schema.MemoryStatus{
		Backend:           string(schema.NoneBackend),
		Connected:         true,
		RepositoryCount:   len(m.repos),
		CollaboratorCount: len(m.collaborators),
		ExemplarCount:     len(m.exemplars),
		AntipatternCount:  len(m.antipatterns),
	}, nil
}

func (m *memStore) Close() error { return nil }

// commit builds a minimal CommitInfo for tests.
func commit(hash, author, message string, files ...string) schema.CommitInfo {
	return schema.CommitInfo{
		Hash:         hash,
		ShortHash:    hash[:min(7, len(hash))],
		Message:      message,
		Author:       author,
		Date:         time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
		FilesChanged: files,
		FileCount:    len(files),
	}
}
