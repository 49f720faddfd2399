package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"lessonbook/internal/domain"
)

// MemoryStore is an in-memory TermRepository, LessonRepository and
// NotebookRepository that enforces the same unique keys as the schema.
type MemoryStore struct {
	mu sync.Mutex

	nextID       int64
	terms        map[int64]*domain.Term
	translations map[int64]map[domain.Language]string
	lessons      map[int64]*domain.Lesson
	links        map[[2]int64]domain.LessonTerm
	notebooks    map[[2]int64]*domain.Notebook

	// FailOn is consulted before each operation with the operation name and
	// a key: the german text for term and link operations, the language for
	// translations and the lesson number or id for lessons. A non-nil result
	// is returned in place of doing the work.
	FailOn func(op, key string) error

	calls map[string]int
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		terms:        make(map[int64]*domain.Term),
		translations: make(map[int64]map[domain.Language]string),
		lessons:      make(map[int64]*domain.Lesson),
		links:        make(map[[2]int64]domain.LessonTerm),
		notebooks:    make(map[[2]int64]*domain.Notebook),
		calls:        make(map[string]int),
	}
}

func (s *MemoryStore) fail(op, key string) error {
	s.calls[op]++
	if s.FailOn == nil {
		return nil
	}
	return s.FailOn(op, key)
}

func (s *MemoryStore) id() int64 {
	s.nextID++
	return s.nextID
}

// Calls reports how many times an operation was invoked
func (s *MemoryStore) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

func (s *MemoryStore) FindTermByGerman(_ context.Context, ownerID int64, german string) (*domain.Term, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fail("FindTermByGerman", german); err != nil {
		return nil, err
	}
	for _, t := range s.terms {
		if t.OwnerID == ownerID && t.German == german {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) CreateTerm(_ context.Context, term *domain.Term) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fail("CreateTerm", term.German); err != nil {
		return 0, err
	}
	for _, t := range s.terms {
		if t.OwnerID == term.OwnerID && t.German == term.German {
			return 0, fmt.Errorf("term %q: %w", term.German, domain.ErrAlreadyExists)
		}
	}
	cp := *term
	cp.ID = s.id()
	cp.CreatedAt = time.Now()
	s.terms[cp.ID] = &cp
	return cp.ID, nil
}

func (s *MemoryStore) UpsertTranslation(_ context.Context, tr domain.Translation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fail("UpsertTranslation", string(tr.Language)); err != nil {
		return err
	}
	if _, ok := s.terms[tr.TermID]; !ok {
		return fmt.Errorf("term %d: %w", tr.TermID, domain.ErrNotFound)
	}
	if s.translations[tr.TermID] == nil {
		s.translations[tr.TermID] = make(map[domain.Language]string)
	}
	s.translations[tr.TermID][tr.Language] = tr.Text
	return nil
}

func (s *MemoryStore) ListTranslations(_ context.Context, termID int64) (map[domain.Language]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[domain.Language]string)
	for lang, text := range s.translations[termID] {
		out[lang] = text
	}
	return out, nil
}

func (s *MemoryStore) FindLessonByNumber(_ context.Context, ownerID int64, number int) (*domain.Lesson, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fail("FindLessonByNumber", fmt.Sprint(number)); err != nil {
		return nil, err
	}
	if l := s.lessonByNumber(ownerID, number); l != nil {
		cp := *l
		return &cp, nil
	}
	return nil, nil
}

func (s *MemoryStore) lessonByNumber(ownerID int64, number int) *domain.Lesson {
	for _, l := range s.lessons {
		if l.OwnerID == ownerID && l.Number == number {
			return l
		}
	}
	return nil
}

func (s *MemoryStore) CreateLesson(_ context.Context, lesson *domain.Lesson) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fail("CreateLesson", fmt.Sprint(lesson.Number)); err != nil {
		return 0, err
	}
	if s.lessonByNumber(lesson.OwnerID, lesson.Number) != nil {
		return 0, fmt.Errorf("lesson %d: %w", lesson.Number, domain.ErrAlreadyExists)
	}
	cp := *lesson
	cp.ID = s.id()
	cp.CreatedAt = time.Now()
	if cp.Topics == nil {
		cp.Topics = []string{}
	}
	s.lessons[cp.ID] = &cp
	return cp.ID, nil
}

func (s *MemoryStore) UpdateLessonMeta(_ context.Context, lessonID int64, name *string, topics []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fail("UpdateLessonMeta", fmt.Sprint(lessonID)); err != nil {
		return err
	}
	l, ok := s.lessons[lessonID]
	if !ok {
		return fmt.Errorf("lesson: %w", domain.ErrNotFound)
	}
	if name != nil {
		l.Name = *name
	}
	if topics != nil {
		l.Topics = append([]string(nil), topics...)
	}
	return nil
}

func (s *MemoryStore) UpsertLessonTerm(_ context.Context, link domain.LessonTerm) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := fmt.Sprint(link.TermID)
	if t, ok := s.terms[link.TermID]; ok {
		key = t.German
	}
	if err := s.fail("UpsertLessonTerm", key); err != nil {
		return err
	}
	lesson, ok := s.lessons[link.LessonID]
	if !ok {
		return fmt.Errorf("lesson %d: %w", link.LessonID, domain.ErrNotFound)
	}
	term, ok := s.terms[link.TermID]
	if !ok {
		return fmt.Errorf("term %d: %w", link.TermID, domain.ErrNotFound)
	}
	if lesson.OwnerID != term.OwnerID {
		return fmt.Errorf("term %d belongs to another owner: %w", link.TermID, domain.ErrValidation)
	}
	s.links[[2]int64{link.LessonID, link.TermID}] = link
	return nil
}

func (s *MemoryStore) ListLessons(_ context.Context, ownerID int64, limit, offset int) ([]domain.LessonSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var all []domain.LessonSummary
	for _, l := range s.lessons {
		if l.OwnerID != ownerID {
			continue
		}
		summary := domain.LessonSummary{Lesson: *l}
		for key := range s.links {
			if key[0] == l.ID {
				summary.TermCount++
			}
		}
		all = append(all, summary)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Number < all[j].Number })

	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (s *MemoryStore) CountLessons(_ context.Context, ownerID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, l := range s.lessons {
		if l.OwnerID == ownerID {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStore) ListLessonEntries(_ context.Context, lessonID int64) ([]domain.LessonEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var entries []domain.LessonEntry
	for _, link := range s.linksOf(lessonID) {
		tr := make(map[domain.Language]string)
		for lang, text := range s.translations[link.TermID] {
			tr[lang] = text
		}
		entries = append(entries, domain.LessonEntry{
			Term:         *s.terms[link.TermID],
			Category:     link.Category,
			Subcategory:  link.Subcategory,
			OrderIndex:   link.OrderIndex,
			Translations: tr,
		})
	}
	return entries, nil
}

func (s *MemoryStore) RenameLesson(_ context.Context, ownerID int64, number int, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.lessonByNumber(ownerID, number)
	if l == nil {
		return fmt.Errorf("lesson %d: %w", number, domain.ErrNotFound)
	}
	l.Name = name
	return nil
}

func (s *MemoryStore) DeleteLesson(_ context.Context, ownerID int64, number int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.lessonByNumber(ownerID, number)
	if l == nil {
		return fmt.Errorf("lesson %d: %w", number, domain.ErrNotFound)
	}
	for key := range s.links {
		if key[0] == l.ID {
			delete(s.links, key)
		}
	}
	delete(s.notebooks, [2]int64{ownerID, l.ID})
	delete(s.lessons, l.ID)
	return nil
}

func (s *MemoryStore) GetNotebook(_ context.Context, ownerID int64, lessonID *int64) (*domain.Notebook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	nb, ok := s.notebooks[notebookKey(ownerID, lessonID)]
	if !ok {
		return nil, nil
	}
	cp := *nb
	return &cp, nil
}

func (s *MemoryStore) SaveNotebook(_ context.Context, ownerID int64, lessonID *int64, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fail("SaveNotebook", content); err != nil {
		return err
	}
	nb := s.notebook(ownerID, lessonID)
	nb.Content = content
	nb.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) AppendNotebook(_ context.Context, ownerID int64, lessonID *int64, paragraph string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fail("AppendNotebook", paragraph); err != nil {
		return err
	}
	nb := s.notebook(ownerID, lessonID)
	if nb.Content == "" {
		nb.Content = paragraph
	} else {
		nb.Content += "\n\n" + paragraph
	}
	nb.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) notebook(ownerID int64, lessonID *int64) *domain.Notebook {
	key := notebookKey(ownerID, lessonID)
	nb, ok := s.notebooks[key]
	if !ok {
		nb = &domain.Notebook{ID: s.id(), OwnerID: ownerID, LessonID: lessonID}
		s.notebooks[key] = nb
	}
	return nb
}

func notebookKey(ownerID int64, lessonID *int64) [2]int64 {
	if lessonID == nil {
		return [2]int64{ownerID, 0}
	}
	return [2]int64{ownerID, *lessonID}
}

func (s *MemoryStore) linksOf(lessonID int64) []domain.LessonTerm {
	var out []domain.LessonTerm
	for key, link := range s.links {
		if key[0] == lessonID {
			out = append(out, link)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OrderIndex != out[j].OrderIndex {
			return out[i].OrderIndex < out[j].OrderIndex
		}
		return out[i].TermID < out[j].TermID
	})
	return out
}

// Terms returns every stored term of an owner ordered by id
func (s *MemoryStore) Terms(ownerID int64) []domain.Term {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Term
	for _, t := range s.terms {
		if t.OwnerID == ownerID {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Links returns the lesson's links ordered by order index
func (s *MemoryStore) Links(lessonID int64) []domain.LessonTerm {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.linksOf(lessonID)
}

// TranslationCount returns the number of stored translation rows
func (s *MemoryStore) TranslationCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, tr := range s.translations {
		n += len(tr)
	}
	return n
}
