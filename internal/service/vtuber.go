package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"vtuber_wiki/internal/metrics"
	"vtuber_wiki/internal/models"
	"vtuber_wiki/internal/repository"
)

// 分頁預設值與上限
const (
	DefaultListLimit   = 50
	MaxListLimit       = 100
	DefaultSearchLimit = 20
	MaxSearchLimit     = 50
	DefaultSortBy      = "name"
)

// sortableColumns 是 List 允許的排序欄位
var sortableColumns = map[string]bool{
	"name":       true,
	"agency":     true,
	"debut_date": true,
	"created_at": true,
	"updated_at": true,
}

// ListResult 是列表查詢結果與分頁資訊
type ListResult struct {
	VTubers []models.VTuber `json:"vtubers"`
	Total   int64           `json:"total"`
	Limit   int             `json:"limit"`
	Offset  int             `json:"offset"`
}

// VTuberService 負責驗證請求、呼叫 repository 並組合回應。
// 不做任何鎖定，並行請求的隔離性由資料庫保證。
type VTuberService struct {
	repo         repository.VTuberRepository
	notifier     Notifier
	validate     *validator.Validate
	maxBatchSize int
	now          func() time.Time
}

func NewVTuberService(repo repository.VTuberRepository, notifier Notifier, maxBatchSize int) *VTuberService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &VTuberService{
		repo:         repo,
		notifier:     notifier,
		validate:     newValidator(),
		maxBatchSize: maxBatchSize,
		now:          time.Now,
	}
}

// timestamp 回傳與資料庫精度 (微秒) 一致的 UTC 時間
func (s *VTuberService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// List 回傳分頁後的紀錄與符合條件的總數
func (s *VTuberService) List(ctx context.Context, params models.ListParams) (*ListResult, error) {
	if params.Limit < 1 {
		return nil, &ValidationError{Message: "Invalid pagination parameters", Fields: map[string]string{"limit": "Must be at least 1"}}
	}
	if params.Offset < 0 {
		return nil, &ValidationError{Message: "Invalid pagination parameters", Fields: map[string]string{"offset": "Must not be negative"}}
	}
	if params.Limit > MaxListLimit {
		params.Limit = MaxListLimit
	}
	if params.SortBy == "" {
		params.SortBy = DefaultSortBy
	}
	if !sortableColumns[params.SortBy] {
		return nil, &ValidationError{Message: "Invalid sort parameter", Fields: map[string]string{"sort_by": "Must be one of name, agency, debut_date, created_at, updated_at"}}
	}
	params.Agency = strings.TrimSpace(params.Agency)

	vtubers, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return &ListResult{VTubers: vtubers, Total: total, Limit: params.Limit, Offset: params.Offset}, nil
}

// Get 以 id 查詢；格式錯誤的 id 視為不存在
func (s *VTuberService) Get(ctx context.Context, rawID string) (*models.VTuber, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, ErrNotFound
	}
	vtuber, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return vtuber, nil
}

// Search 以不分大小寫的子字串比對 name 與 description，空字串回傳空結果
func (s *VTuberService) Search(ctx context.Context, query string, limit, offset int) ([]models.VTuber, error) {
	if limit < 1 {
		return nil, &ValidationError{Message: "Invalid pagination parameters", Fields: map[string]string{"limit": "Must be at least 1"}}
	}
	if offset < 0 {
		return nil, &ValidationError{Message: "Invalid pagination parameters", Fields: map[string]string{"offset": "Must not be negative"}}
	}
	if limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return []models.VTuber{}, nil
	}
	return s.repo.Search(ctx, query, limit, offset)
}

// ListAgencies 回傳不重複的經紀公司名稱
func (s *VTuberService) ListAgencies(ctx context.Context) ([]string, error) {
	return s.repo.ListAgencies(ctx)
}

// Create 驗證並新增單筆紀錄
func (s *VTuberService) Create(ctx context.Context, input models.VTuberInput) (*models.VTuber, error) {
	vtuber, fields := s.buildVTuber(input)
	if fields != nil {
		return nil, &ValidationError{Message: "Invalid VTuber data", Fields: fields}
	}

	now := s.timestamp()
	vtuber.CreatedAt, vtuber.UpdatedAt = now, now

	if err := s.repo.Create(ctx, vtuber); err != nil {
		return nil, err
	}

	metrics.VTuberMutations.WithLabelValues("create").Inc()
	s.notifier.Publish(newChangeEvent(EventCreated, vtuber.ID, vtuber, now))
	return vtuber, nil
}

// CreateMany 實作 bulk 與 batch 的共同語意：全有或全無。
// 先驗證每一筆，任一筆不合法則整批拒絕並回報各項錯誤；
// 全部合法時在單一交易中寫入。
func (s *VTuberService) CreateMany(ctx context.Context, inputs []models.VTuberInput) ([]models.VTuber, error) {
	if len(inputs) == 0 {
		return nil, newValidationError("At least one VTuber is required")
	}
	if len(inputs) > s.maxBatchSize {
		return nil, newValidationError(fmt.Sprintf("At most %d VTubers can be created per request", s.maxBatchSize))
	}

	vtubers := make([]*models.VTuber, 0, len(inputs))
	var itemErrors []ItemError
	for i, input := range inputs {
		vtuber, fields := s.buildVTuber(input)
		if fields != nil {
			itemErrors = append(itemErrors, ItemError{Index: i, Fields: fields})
			continue
		}
		vtubers = append(vtubers, vtuber)
	}
	if len(itemErrors) > 0 {
		return nil, &BatchValidationError{Items: itemErrors}
	}

	now := s.timestamp()
	for _, v := range vtubers {
		v.CreatedAt, v.UpdatedAt = now, now
	}

	if err := s.repo.CreateBatch(ctx, vtubers); err != nil {
		return nil, err
	}

	created := make([]models.VTuber, 0, len(vtubers))
	for _, v := range vtubers {
		created = append(created, *v)
		s.notifier.Publish(newChangeEvent(EventCreated, v.ID, v, now))
	}
	metrics.VTuberMutations.WithLabelValues("create").Add(float64(len(created)))
	return created, nil
}

// Update 只修改 patch 中非 null 的欄位；空的 patch 只會更新 updated_at
func (s *VTuberService) Update(ctx context.Context, rawID string, patch models.VTuberPatch) (*models.VTuber, error) {
	normalizePatch(&patch)
	fields := s.validateStruct(withoutClears(patch))
	if patch.Name != nil && *patch.Name == "" {
		if fields == nil {
			fields = map[string]string{}
		}
		fields["name"] = "Must not be empty"
	}
	if fields != nil {
		return nil, &ValidationError{Message: "Invalid VTuber data", Fields: fields}
	}

	existing, err := s.Get(ctx, rawID)
	if err != nil {
		return nil, err
	}

	applyPatch(existing, patch)

	next := s.timestamp()
	if !next.After(existing.UpdatedAt) {
		next = existing.UpdatedAt.Add(time.Microsecond)
	}
	existing.UpdatedAt = next

	if err := s.repo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	metrics.VTuberMutations.WithLabelValues("update").Inc()
	s.notifier.Publish(newChangeEvent(EventUpdated, existing.ID, existing, next))
	return existing, nil
}

// Delete 刪除紀錄；已刪除或不存在的 id 回傳 ErrNotFound
func (s *VTuberService) Delete(ctx context.Context, rawID string) error {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return ErrNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	metrics.VTuberMutations.WithLabelValues("delete").Inc()
	s.notifier.Publish(newChangeEvent(EventDeleted, id, nil, s.timestamp()))
	return nil
}

// Ping 檢查儲存層是否可用
func (s *VTuberService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// buildVTuber 正規化並驗證輸入，失敗時回傳欄位錯誤
func (s *VTuberService) buildVTuber(input models.VTuberInput) (*models.VTuber, map[string]string) {
	input.Name = strings.TrimSpace(input.Name)
	input.Agency = trimOptional(input.Agency)
	input.DebutDate = trimOptional(input.DebutDate)
	input.Description = trimOptional(input.Description)
	input.ImageURL = trimOptional(input.ImageURL)
	input.YoutubeChannel = trimOptional(input.YoutubeChannel)
	input.TwitterHandle = trimOptional(input.TwitterHandle)

	if fields := s.validateStruct(input); fields != nil {
		return nil, fields
	}

	vtuber := &models.VTuber{
		Name:           input.Name,
		Agency:         input.Agency,
		Description:    input.Description,
		ImageURL:       input.ImageURL,
		YoutubeChannel: input.YoutubeChannel,
		TwitterHandle:  input.TwitterHandle,
	}
	if input.DebutDate != nil {
		// 已由 calendar_date 驗證
		d, _ := models.ParseDate(*input.DebutDate)
		vtuber.DebutDate = &d
	}
	if input.Tags != nil {
		vtuber.Tags = pq.StringArray(append([]string{}, input.Tags...))
	}
	return vtuber, nil
}

func (s *VTuberService) validateStruct(v interface{}) map[string]string {
	if err := s.validate.Struct(v); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// trimOptional 去除前後空白，空字串視為未提供
func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// normalizePatch 去除前後空白；選填欄位的空字串保留，代表清除該欄位
func normalizePatch(p *models.VTuberPatch) {
	for _, field := range []**string{&p.Name, &p.Agency, &p.DebutDate, &p.Description, &p.ImageURL, &p.YoutubeChannel, &p.TwitterHandle} {
		if *field != nil {
			trimmed := strings.TrimSpace(**field)
			*field = &trimmed
		}
	}
}

// withoutClears 回傳把選填欄位的空字串換成 nil 的副本；
// 清除欄位不需通過 calendar_date、http_url 等格式規則
func withoutClears(p models.VTuberPatch) models.VTuberPatch {
	for _, field := range []**string{&p.Agency, &p.DebutDate, &p.Description, &p.ImageURL, &p.YoutubeChannel, &p.TwitterHandle} {
		if *field != nil && **field == "" {
			*field = nil
		}
	}
	return p
}

// applyPatch 套用已驗證的 patch；選填欄位給空字串時清為 NULL
func applyPatch(v *models.VTuber, p models.VTuberPatch) {
	if p.Name != nil {
		v.Name = *p.Name
	}
	if p.Agency != nil {
		v.Agency = emptyToNil(*p.Agency)
	}
	if p.DebutDate != nil {
		if *p.DebutDate == "" {
			v.DebutDate = nil
		} else {
			d, _ := models.ParseDate(*p.DebutDate)
			v.DebutDate = &d
		}
	}
	if p.Description != nil {
		v.Description = emptyToNil(*p.Description)
	}
	if p.ImageURL != nil {
		v.ImageURL = emptyToNil(*p.ImageURL)
	}
	if p.YoutubeChannel != nil {
		v.YoutubeChannel = emptyToNil(*p.YoutubeChannel)
	}
	if p.TwitterHandle != nil {
		v.TwitterHandle = emptyToNil(*p.TwitterHandle)
	}
	if p.Tags != nil {
		v.Tags = pq.StringArray(append([]string{}, (*p.Tags)...))
	}
}

func emptyToNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
