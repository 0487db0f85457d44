package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"vtuber_wiki/internal/models"
)

// MemoryVTuberRepository 是以記憶體保存資料的 VTuberRepository，
// 查詢語意與 postgres 版本一致，用於測試與本機開發
type MemoryVTuberRepository struct {
	mu      sync.RWMutex
	vtubers map[uuid.UUID]models.VTuber
	// FailWith 不為 nil 時，所有寫入操作都回傳此錯誤
	FailWith error
}

func NewMemoryVTuberRepository() *MemoryVTuberRepository {
	return &MemoryVTuberRepository{vtubers: make(map[uuid.UUID]models.VTuber)}
}

func (r *MemoryVTuberRepository) List(ctx context.Context, params models.ListParams) ([]models.VTuber, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []models.VTuber
	for _, v := range r.vtubers {
		if params.Agency != "" && (v.Agency == nil || !strings.EqualFold(*v.Agency, params.Agency)) {
			continue
		}
		matched = append(matched, clone(v))
	}
	sortVTubers(matched, params.SortBy)

	return paginate(matched, params.Limit, params.Offset), int64(len(matched)), nil
}

func (r *MemoryVTuberRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.VTuber, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.vtubers[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := clone(v)
	return &c, nil
}

func (r *MemoryVTuberRepository) Search(ctx context.Context, query string, limit, offset int) ([]models.VTuber, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(query)
	var matched []models.VTuber
	for _, v := range r.vtubers {
		if strings.Contains(strings.ToLower(v.Name), needle) ||
			(v.Description != nil && strings.Contains(strings.ToLower(*v.Description), needle)) {
			matched = append(matched, clone(v))
		}
	}
	sortVTubers(matched, "name")

	return paginate(matched, limit, offset), nil
}

func (r *MemoryVTuberRepository) ListAgencies(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	agencies := []string{}
	for _, v := range r.vtubers {
		if v.Agency == nil || *v.Agency == "" {
			continue
		}
		if _, ok := seen[*v.Agency]; ok {
			continue
		}
		seen[*v.Agency] = struct{}{}
		agencies = append(agencies, *v.Agency)
	}
	sortText(agencies)
	return agencies, nil
}

func (r *MemoryVTuberRepository) Create(ctx context.Context, vtuber *models.VTuber) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailWith != nil {
		return r.FailWith
	}
	r.insert(vtuber)
	return nil
}

func (r *MemoryVTuberRepository) CreateBatch(ctx context.Context, vtubers []*models.VTuber) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailWith != nil {
		return r.FailWith
	}
	for _, v := range vtubers {
		r.insert(v)
	}
	return nil
}

func (r *MemoryVTuberRepository) insert(vtuber *models.VTuber) {
	if vtuber.ID == uuid.Nil {
		vtuber.ID = uuid.New()
	}
	r.vtubers[vtuber.ID] = clone(*vtuber)
}

func (r *MemoryVTuberRepository) Update(ctx context.Context, vtuber *models.VTuber) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailWith != nil {
		return r.FailWith
	}
	existing, ok := r.vtubers[vtuber.ID]
	if !ok {
		return ErrNotFound
	}
	updated := clone(*vtuber)
	updated.CreatedAt = existing.CreatedAt
	r.vtubers[vtuber.ID] = updated
	return nil
}

func (r *MemoryVTuberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailWith != nil {
		return r.FailWith
	}
	if _, ok := r.vtubers[id]; !ok {
		return ErrNotFound
	}
	delete(r.vtubers, id)
	return nil
}

func (r *MemoryVTuberRepository) Ping(ctx context.Context) error {
	return nil
}

// Count 回傳目前的紀錄數
func (r *MemoryVTuberRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.vtubers)
}

func clone(v models.VTuber) models.VTuber {
	if v.Tags != nil {
		v.Tags = append([]string{}, v.Tags...)
	}
	return v
}

func paginate(vtubers []models.VTuber, limit, offset int) []models.VTuber {
	if offset >= len(vtubers) {
		return []models.VTuber{}
	}
	end := len(vtubers)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return vtubers[offset:end]
}

// sortVTubers 依欄位遞增排序，NULL 排在最後，相同時以 id 決定順序
func sortVTubers(vtubers []models.VTuber, sortBy string) {
	sort.SliceStable(vtubers, func(i, j int) bool {
		a, b := vtubers[i], vtubers[j]
		if c := compareField(a, b, sortBy); c != 0 {
			return c < 0
		}
		return a.ID.String() < b.ID.String()
	})
}

func compareField(a, b models.VTuber, sortBy string) int {
	switch sortBy {
	case "agency":
		return compareOptional(a.Agency, b.Agency)
	case "debut_date":
		switch {
		case a.DebutDate == nil && b.DebutDate == nil:
			return 0
		case a.DebutDate == nil:
			return 1
		case b.DebutDate == nil:
			return -1
		}
		return a.DebutDate.Compare(b.DebutDate.Time)
	case "created_at":
		return a.CreatedAt.Compare(b.CreatedAt)
	case "updated_at":
		return a.UpdatedAt.Compare(b.UpdatedAt)
	default:
		return compareText(a.Name, b.Name)
	}
}

func compareOptional(a, b *string) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return compareText(*a, *b)
}
