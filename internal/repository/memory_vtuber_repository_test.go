package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vtuber_wiki/internal/models"
)

func strPtr(s string) *string { return &s }

func seed(t *testing.T, repo VTuberRepository, vtubers ...*models.VTuber) {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	for _, v := range vtubers {
		v.CreatedAt, v.UpdatedAt = now, now
		require.NoError(t, repo.Create(context.Background(), v))
	}
}

func TestMemoryRepository_ListFiltersAndPaginates(t *testing.T) {
	repo := NewMemoryVTuberRepository()
	seed(t, repo,
		&models.VTuber{Name: "Mori Calliope", Agency: strPtr("hololive English")},
		&models.VTuber{Name: "Gawr Gura", Agency: strPtr("hololive English")},
		&models.VTuber{Name: "Kuzuha", Agency: strPtr("Nijisanji")},
		&models.VTuber{Name: "Ironmouse"},
	)
	ctx := context.Background()

	all, total, err := repo.List(ctx, models.ListParams{Limit: 50, SortBy: "name"})
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	require.Len(t, all, 4)
	assert.Equal(t, "Gawr Gura", all[0].Name)
	assert.Equal(t, "Mori Calliope", all[3].Name)

	holo, total, err := repo.List(ctx, models.ListParams{Limit: 50, Agency: "HOLOLIVE english", SortBy: "name"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, holo, 2)

	page, total, err := repo.List(ctx, models.ListParams{Limit: 2, Offset: 3, SortBy: "name"})
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	assert.Len(t, page, 1)

	empty, _, err := repo.List(ctx, models.ListParams{Limit: 2, Offset: 10, SortBy: "name"})
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestMemoryRepository_SortByAgencyPutsNullLast(t *testing.T) {
	repo := NewMemoryVTuberRepository()
	seed(t, repo,
		&models.VTuber{Name: "A"},
		&models.VTuber{Name: "B", Agency: strPtr("VShojo")},
		&models.VTuber{Name: "C", Agency: strPtr("Nijisanji")},
	)

	list, _, err := repo.List(context.Background(), models.ListParams{Limit: 10, SortBy: "agency"})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "C", list[0].Name)
	assert.Equal(t, "B", list[1].Name)
	assert.Equal(t, "A", list[2].Name)
}

func TestMemoryRepository_Search(t *testing.T) {
	repo := NewMemoryVTuberRepository()
	seed(t, repo,
		&models.VTuber{Name: "Gawr Gura", Description: strPtr("Shark girl")},
		&models.VTuber{Name: "Ninomae Ina'nis", Description: strPtr("Priestess of the Ancient Ones")},
	)
	ctx := context.Background()

	byName, err := repo.Search(ctx, "gura", 20, 0)
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Gawr Gura", byName[0].Name)

	byDescription, err := repo.Search(ctx, "ANCIENT", 20, 0)
	require.NoError(t, err)
	require.Len(t, byDescription, 1)

	none, err := repo.Search(ctx, "nobody", 20, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemoryRepository_ListAgencies(t *testing.T) {
	repo := NewMemoryVTuberRepository()
	seed(t, repo,
		&models.VTuber{Name: "a", Agency: strPtr("hololive English")},
		&models.VTuber{Name: "b", Agency: strPtr("Nijisanji")},
		&models.VTuber{Name: "c", Agency: strPtr("hololive English")},
		&models.VTuber{Name: "d"},
	)

	agencies, err := repo.ListAgencies(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"hololive English", "Nijisanji"}, agencies)
}

func TestMemoryRepository_UpdateAndDelete(t *testing.T) {
	repo := NewMemoryVTuberRepository()
	v := &models.VTuber{Name: "Gawr Gura"}
	seed(t, repo, v)
	ctx := context.Background()
	createdAt := v.CreatedAt

	changed := *v
	changed.Name = "Gura"
	changed.CreatedAt = time.Time{}
	require.NoError(t, repo.Update(ctx, &changed))

	got, err := repo.FindByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gura", got.Name)
	assert.Equal(t, createdAt, got.CreatedAt)

	require.NoError(t, repo.Delete(ctx, v.ID))
	assert.ErrorIs(t, repo.Delete(ctx, v.ID), ErrNotFound)

	_, err = repo.FindByID(ctx, v.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, repo.Update(ctx, &models.VTuber{ID: uuid.New(), Name: "ghost"}), ErrNotFound)
}

func TestMemoryRepository_ReturnsCopies(t *testing.T) {
	repo := NewMemoryVTuberRepository()
	v := &models.VTuber{Name: "Gawr Gura", Tags: []string{"shark"}}
	seed(t, repo, v)

	got, err := repo.FindByID(context.Background(), v.ID)
	require.NoError(t, err)
	got.Tags[0] = "changed"
	got.Name = "changed"

	again, err := repo.FindByID(context.Background(), v.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gawr Gura", again.Name)
	assert.Equal(t, "shark", again.Tags[0])
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, escapeLike("100%"))
	assert.Equal(t, `a\_b`, escapeLike("a_b"))
	assert.Equal(t, `c:\\dir`, escapeLike(`c:\dir`))
	assert.Equal(t, "Gura", escapeLike("Gura"))
}

func TestMemoryRepository_SortIgnoresCase(t *testing.T) {
	repo := NewMemoryVTuberRepository()
	seed(t, repo,
		&models.VTuber{Name: "kuzuha", Agency: strPtr("Nijisanji")},
		&models.VTuber{Name: "Gawr Gura", Agency: strPtr("hololive English")},
		&models.VTuber{Name: "Amelia", Agency: strPtr("hololive English")},
		&models.VTuber{Name: "amelia"},
	)

	list, _, err := repo.List(context.Background(), models.ListParams{Limit: 10, SortBy: "name"})
	require.NoError(t, err)
	var names []string
	for _, v := range list {
		names = append(names, v.Name)
	}
	assert.Equal(t, []string{"Amelia", "amelia", "Gawr Gura", "kuzuha"}, names)

	list, _, err = repo.List(context.Background(), models.ListParams{Limit: 10, SortBy: "agency"})
	require.NoError(t, err)
	assert.Equal(t, "hololive English", *list[0].Agency)
	assert.Equal(t, "Nijisanji", *list[2].Agency)
	assert.Nil(t, list[3].Agency)
}

func TestCompareText(t *testing.T) {
	assert.Negative(t, compareText("hololive English", "Nijisanji"))
	assert.Negative(t, compareText("Amelia", "amelia"))
	assert.Zero(t, compareText("Gura", "Gura"))
	assert.Positive(t, compareText("kuzuha", "Gawr Gura"))
}
