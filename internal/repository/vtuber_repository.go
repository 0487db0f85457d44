package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"vtuber_wiki/internal/models"
	"vtuber_wiki/internal/storage"
)

// VTuberRepository 定義 VTuber 資料表的存取操作。
// 實作不做任何鎖定，隔離性完全交給資料庫。
type VTuberRepository interface {
	List(ctx context.Context, params models.ListParams) ([]models.VTuber, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.VTuber, error)
	Search(ctx context.Context, query string, limit, offset int) ([]models.VTuber, error)
	ListAgencies(ctx context.Context) ([]string, error)
	Create(ctx context.Context, vtuber *models.VTuber) error
	// CreateBatch 在單一交易中寫入全部紀錄，任一失敗即全部回滾
	CreateBatch(ctx context.Context, vtubers []*models.VTuber) error
	// Update 覆寫 id 與 created_at 以外的所有欄位
	Update(ctx context.Context, vtuber *models.VTuber) error
	Delete(ctx context.Context, id uuid.UUID) error
	Ping(ctx context.Context) error
}

type vtuberRepository struct {
	db    *storage.PostgresDB
	table string
}

func NewVTuberRepository(db *storage.PostgresDB, table string) VTuberRepository {
	return &vtuberRepository{db: db, table: table}
}

func (r *vtuberRepository) session(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table(r.table)
}

func (r *vtuberRepository) List(ctx context.Context, params models.ListParams) ([]models.VTuber, int64, error) {
	query := r.session(ctx)
	if params.Agency != "" {
		query = query.Where("LOWER(agency) = LOWER(?)", params.Agency)
	}
	// 讓 Count 與 Find 各自使用乾淨的 statement
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count vtubers: %w", err)
	}

	vtubers := []models.VTuber{}
	err := query.
		Order(orderBy(params.SortBy)).
		Order("id ASC").
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&vtubers).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list vtubers: %w", err)
	}
	return vtubers, total, nil
}

func (r *vtuberRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.VTuber, error) {
	var vtuber models.VTuber
	err := r.session(ctx).Where("id = ?", id).First(&vtuber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find vtuber %s: %w", id, err)
	}
	return &vtuber, nil
}

func (r *vtuberRepository) Search(ctx context.Context, query string, limit, offset int) ([]models.VTuber, error) {
	pattern := "%" + escapeLike(query) + "%"

	vtubers := []models.VTuber{}
	err := r.session(ctx).
		Where("name ILIKE ? OR description ILIKE ?", pattern, pattern).
		Order(orderBy("name")).
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&vtubers).Error
	if err != nil {
		return nil, fmt.Errorf("search vtubers: %w", err)
	}
	return vtubers, nil
}

func (r *vtuberRepository) ListAgencies(ctx context.Context) ([]string, error) {
	agencies := []string{}
	err := r.session(ctx).
		Distinct("agency").
		Where("agency IS NOT NULL AND agency <> ''").
		Pluck("agency", &agencies).Error
	if err != nil {
		return nil, fmt.Errorf("list agencies: %w", err)
	}
	// DISTINCT 不能以 LOWER(agency) 排序，改在這裡排序
	sortText(agencies)
	return agencies, nil
}

func (r *vtuberRepository) Create(ctx context.Context, vtuber *models.VTuber) error {
	if err := r.session(ctx).Create(vtuber).Error; err != nil {
		return fmt.Errorf("create vtuber: %w", err)
	}
	return nil
}

func (r *vtuberRepository) CreateBatch(ctx context.Context, vtubers []*models.VTuber) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, v := range vtubers {
			if err := tx.Table(r.table).Create(v).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("create vtuber batch: %w", err)
	}
	return nil
}

func (r *vtuberRepository) Update(ctx context.Context, vtuber *models.VTuber) error {
	result := r.session(ctx).
		Model(vtuber).
		Select("*").
		Omit("id", "created_at").
		Updates(vtuber)
	if result.Error != nil {
		return fmt.Errorf("update vtuber %s: %w", vtuber.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *vtuberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.session(ctx).Where("id = ?", id).Delete(&models.VTuber{})
	if result.Error != nil {
		return fmt.Errorf("delete vtuber %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *vtuberRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

// escapeLike 讓 % _ \ 以字面值比對
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
