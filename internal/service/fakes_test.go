package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	pgvector "github.com/pgvector/pgvector-go"

	"resume-persona/internal/domain"
	"resume-persona/internal/repository"
	"resume-persona/internal/vector"
)

// fakeStoryRepo es un StoryRepository en memoria.
type fakeStoryRepo struct {
	mu        sync.Mutex
	stories   map[string]domain.Story
	order     []string
	searchErr error
	usageErr  error
	updateErr error
	searches  []repository.StorySearch
}

func newFakeStoryRepo(stories ...domain.Story) *fakeStoryRepo {
	r := &fakeStoryRepo{stories: map[string]domain.Story{}}
	for _, s := range stories {
		r.stories[s.ID] = s
		r.order = append(r.order, s.ID)
	}
	return r
}

func (r *fakeStoryRepo) Create(ctx context.Context, story domain.Story) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stories[story.ID] = story
	r.order = append(r.order, story.ID)
	return nil
}

func (r *fakeStoryRepo) GetByID(ctx context.Context, id string) (domain.Story, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stories[id]
	if !ok {
		return domain.Story{}, domain.ErrStoryNotFound
	}
	return s, nil
}

func (r *fakeStoryRepo) ListByUser(ctx context.Context, userID string) ([]domain.Story, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Story
	for _, id := range r.order {
		if s := r.stories[id]; s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeStoryRepo) ListByIDs(ctx context.Context, userID string, ids []string) ([]domain.Story, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	want := map[string]struct{}{}
	for _, id := range ids {
		want[id] = struct{}{}
	}
	var out []domain.Story
	for _, id := range r.order {
		s := r.stories[id]
		if _, ok := want[id]; ok && s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeStoryRepo) ListMissingEmbedding(ctx context.Context, userID string, limit int) ([]domain.Story, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Story
	for _, id := range r.order {
		s := r.stories[id]
		if s.Embedding == nil && s.Signal != nil && (userID == "" || s.UserID == userID) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeStoryRepo) UpdateAnalysis(ctx context.Context, story domain.Story) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	cur, ok := r.stories[story.ID]
	if !ok {
		return domain.ErrStoryNotFound
	}
	cur.Summary = story.Summary
	cur.Category = story.Category
	cur.Themes = story.Themes
	cur.Skills = story.Skills
	cur.Signal = story.Signal
	cur.Embedding = nil
	cur.UpdatedAt = story.UpdatedAt
	r.stories[story.ID] = cur
	return nil
}

func (r *fakeStoryRepo) UpdateEmbedding(ctx context.Context, id string, embedding pgvector.Vector, version time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.stories[id]
	if !ok || !cur.UpdatedAt.Equal(version) {
		return domain.ErrStoryChanged
	}
	cur.Embedding = &embedding
	r.stories[id] = cur
	return nil
}

func (r *fakeStoryRepo) SearchByEmbedding(ctx context.Context, userID string, query pgvector.Vector, search repository.StorySearch) ([]domain.Story, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.searches = append(r.searches, search)
	if r.searchErr != nil {
		return nil, r.searchErr
	}
	type scored struct {
		story domain.Story
		sim   float64
	}
	var all []scored
	for _, id := range r.order {
		s := r.stories[id]
		if s.UserID != userID || s.Embedding == nil {
			continue
		}
		if len(search.PromptTypes) > 0 && !contains(search.PromptTypes, s.PromptType) {
			continue
		}
		if len(search.Categories) > 0 && !contains(search.Categories, s.Category) {
			continue
		}
		sim, err := vector.Cosine(query.Slice(), s.Embedding.Slice())
		if err != nil {
			return nil, err
		}
		all = append(all, scored{story: s, sim: sim})
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].sim > all[j].sim })
	var out []domain.Story
	for i, sc := range all {
		if search.Limit > 0 && i >= search.Limit {
			break
		}
		out = append(out, sc.story)
	}
	return out, nil
}

func (r *fakeStoryRepo) IncrementUsage(ctx context.Context, id string, kind domain.UsageKind) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.usageErr != nil {
		return r.usageErr
	}
	cur, ok := r.stories[id]
	if !ok {
		return domain.ErrStoryNotFound
	}
	switch kind {
	case domain.UsageResume:
		cur.TimesUsedInResumes++
	case domain.UsageCoverLetter:
		cur.TimesUsedInCoverLetters++
	default:
		return errors.New("unknown usage kind")
	}
	r.stories[id] = cur
	return nil
}

func (r *fakeStoryRepo) get(id string) domain.Story {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stories[id]
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

type fakeProfileRepo struct {
	created []domain.PersonalityProfile
	err     error
}

func (r *fakeProfileRepo) CreateCompleted(ctx context.Context, profile domain.PersonalityProfile) error {
	if r.err != nil {
		return r.err
	}
	r.created = append(r.created, profile)
	return nil
}

func (r *fakeProfileRepo) GetLatestCompleted(ctx context.Context, userID string) (domain.PersonalityProfile, error) {
	for i := len(r.created) - 1; i >= 0; i-- {
		if r.created[i].UserID == userID {
			return r.created[i], nil
		}
	}
	return domain.PersonalityProfile{}, domain.ErrProfileNotFound
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func (r *fakeUserRepo) Create(ctx context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) IncrementResumesGenerated(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.ResumesGenerated++
	r.users[id] = u
	return nil
}

func (r *fakeUserRepo) TryReserveResume(ctx context.Context, id string) (domain.User, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.User{}, false, repository.ErrUserNotFound
	}
	if u.ResumesGenerated >= u.ResumeLimit {
		return u, false, nil
	}
	u.ResumesGenerated++
	r.users[id] = u
	return u, true, nil
}

// fakeQueryEmbedder devuelve vectores fijos por texto de consulta.
type fakeQueryEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (f *fakeQueryEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	v, ok := f.vectors[text]
	if !ok {
		return nil, errors.New("unknown query")
	}
	return v, nil
}

// basisVec arma un vector de 768 dimensiones con pesos en los indices dados.
func basisVec(weights map[int]float32) []float32 {
	v := make([]float32, domain.EmbeddingDimensions)
	for i, w := range weights {
		v[i] = w
	}
	return v
}

func embeddedStory(id, userID, promptType string, vec []float32) domain.Story {
	pv := pgvector.NewVector(vec)
	return domain.Story{
		ID:         id,
		UserID:     userID,
		PromptType: promptType,
		Category:   promptType,
		Text:       "story " + id,
		Embedding:  &pv,
	}
}
