package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// VTuber 是資料庫中唯一的實體
type VTuber struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string         `gorm:"type:text;not null;index" json:"name"`
	Agency         *string        `gorm:"type:text;index" json:"agency"`
	DebutDate      *Date          `gorm:"type:date" json:"debut_date"`
	Description    *string        `gorm:"type:text" json:"description"`
	ImageURL       *string        `gorm:"type:text" json:"image_url"`
	YoutubeChannel *string        `gorm:"type:text" json:"youtube_channel"`
	TwitterHandle  *string        `gorm:"type:text" json:"twitter_handle"`
	Tags           pq.StringArray `gorm:"type:text[]" json:"tags"`
	// 時間戳由 service 層寫入，停用 gorm 的自動更新以保留寫入值
	CreatedAt time.Time `gorm:"type:timestamptz;not null;autoCreateTime:false" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamptz;not null;autoUpdateTime:false" json:"updated_at"`
}

// BeforeCreate 在寫入前產生主鍵
func (v *VTuber) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// AfterFind 把 pgx 以本地時區解出的 timestamptz 統一為 UTC
func (v *VTuber) AfterFind(tx *gorm.DB) error {
	v.CreatedAt = v.CreatedAt.UTC()
	v.UpdatedAt = v.UpdatedAt.UTC()
	return nil
}

// VTuberInput 是新增時的請求內容，name 以外皆為選填
type VTuberInput struct {
	Name           string   `json:"name" validate:"required,max=100"`
	Agency         *string  `json:"agency" validate:"omitempty,max=100"`
	DebutDate      *string  `json:"debut_date" validate:"omitempty,calendar_date"`
	Description    *string  `json:"description" validate:"omitempty,max=5000"`
	ImageURL       *string  `json:"image_url" validate:"omitempty,http_url"`
	YoutubeChannel *string  `json:"youtube_channel" validate:"omitempty,max=200"`
	TwitterHandle  *string  `json:"twitter_handle" validate:"omitempty,max=50"`
	Tags           []string `json:"tags" validate:"omitempty,max=30,dive,max=50"`
}

// VTuberPatch 是更新時的請求內容，只有非 null 的欄位會被修改
type VTuberPatch struct {
	Name           *string   `json:"name" validate:"omitempty,max=100"`
	Agency         *string   `json:"agency" validate:"omitempty,max=100"`
	DebutDate      *string   `json:"debut_date" validate:"omitempty,calendar_date"`
	Description    *string   `json:"description" validate:"omitempty,max=5000"`
	ImageURL       *string   `json:"image_url" validate:"omitempty,http_url"`
	YoutubeChannel *string   `json:"youtube_channel" validate:"omitempty,max=200"`
	TwitterHandle  *string   `json:"twitter_handle" validate:"omitempty,max=50"`
	Tags           *[]string `json:"tags" validate:"omitempty,max=30,dive,max=50"`
}

// BulkInput 是 /vtubers/bulk 的包裝格式
type BulkInput struct {
	VTubers []VTuberInput `json:"vtubers"`
}

// ListParams 描述列表查詢的分頁、篩選與排序
type ListParams struct {
	Limit  int
	Offset int
	Agency string
	SortBy string
}
