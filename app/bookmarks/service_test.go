package bookmarks

import (
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(NewStore(zap.NewNop()), zap.NewNop(), 100)
}

func TestService_CreateAndGet(t *testing.T) {
	svc := newTestService(t)

	b, err := svc.Create(CreateInput{
		URL:   "https://go.dev/blog",
		Title: "The Go Blog",
		Tags:  []string{"Go", "reading", "go"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, []string{"go", "reading"}, b.Tags, "tags are lowercased and de-duplicated")
	assert.False(t, b.CreatedAt.IsZero())

	got, err := svc.Get(b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)
	assert.Equal(t, "The Go Blog", got.Title)
}

func TestService_CreateValidation(t *testing.T) {
	svc := newTestService(t)

	cases := []struct {
		name  string
		in    CreateInput
		field string
	}{
		{"missing url", CreateInput{Title: "no url"}, "url"},
		{"bad url", CreateInput{URL: "not-a-url", Title: "bad"}, "url"},
		{"missing title", CreateInput{URL: "https://example.com"}, "title"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(tc.in)
			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			require.Len(t, verrs, 1)
			assert.Equal(t, tc.field, verrs[0].Field(), "errors report JSON field names")
		})
	}
}

func TestService_Update(t *testing.T) {
	svc := newTestService(t)

	b, err := svc.Create(CreateInput{URL: "https://example.com", Title: "Old"})
	require.NoError(t, err)

	title := "New"
	tags := []string{"Later"}
	updated, err := svc.Update(b.ID, UpdateInput{Title: &title, Tags: &tags})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Title)
	assert.Equal(t, "https://example.com", updated.URL, "unset fields stay unchanged")
	assert.Equal(t, []string{"later"}, updated.Tags)

	_, err = svc.Update("missing-id", UpdateInput{Title: &title})
	var nf NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "missing-id", nf.ID)
}

func TestService_Delete(t *testing.T) {
	svc := newTestService(t)

	b, err := svc.Create(CreateInput{URL: "https://example.com", Title: "X"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(b.ID))
	_, err = svc.Get(b.ID)
	var nf NotFoundError
	require.ErrorAs(t, err, &nf)

	err = svc.Delete(b.ID)
	require.ErrorAs(t, err, &nf)
}

func TestService_ListFiltersAndOrders(t *testing.T) {
	store := NewStore(zap.NewNop())
	svc := NewService(store, zap.NewNop(), 100)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	ticks := 0
	now = func() time.Time {
		ticks++
		return base.Add(time.Duration(ticks) * time.Minute)
	}
	defer func() { now = time.Now }()

	older, err := svc.Create(CreateInput{URL: "https://go.dev", Title: "Go", Tags: []string{"go"}})
	require.NoError(t, err)
	newer, err := svc.Create(CreateInput{URL: "https://pkg.go.dev", Title: "Packages", Tags: []string{"go", "docs"}})
	require.NoError(t, err)
	_, err = svc.Create(CreateInput{URL: "https://example.com", Title: "Unrelated"})
	require.NoError(t, err)

	all, err := svc.List("", "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Unrelated", all[0].Title, "newest first")

	byTag, err := svc.List("go", "")
	require.NoError(t, err)
	require.Len(t, byTag, 2)
	assert.Equal(t, newer.ID, byTag[0].ID)
	assert.Equal(t, older.ID, byTag[1].ID)

	byQuery, err := svc.List("", "packages")
	require.NoError(t, err)
	require.Len(t, byQuery, 1)
	assert.Equal(t, newer.ID, byQuery[0].ID)
}

func TestService_ListHonorsPageSize(t *testing.T) {
	svc := NewService(NewStore(zap.NewNop()), zap.NewNop(), 2)

	for i := 0; i < 5; i++ {
		_, err := svc.Create(CreateInput{URL: "https://example.com", Title: "T"})
		require.NoError(t, err)
	}
	list, err := svc.List("", "")
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestService_Tags(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Create(CreateInput{URL: "https://a.example", Title: "A", Tags: []string{"go", "web"}})
	require.NoError(t, err)
	_, err = svc.Create(CreateInput{URL: "https://b.example", Title: "B", Tags: []string{"go"}})
	require.NoError(t, err)

	tags, err := svc.Tags()
	require.NoError(t, err)
	assert.Equal(t, []TagCount{{Name: "go", Count: 2}, {Name: "web", Count: 1}}, tags)
}

func TestStore_ClosedStoreRejectsOperations(t *testing.T) {
	store := NewStore(zap.NewNop())
	svc := NewService(store, zap.NewNop(), 100)

	require.NoError(t, store.Close())
	require.NoError(t, store.Close(), "Close is idempotent")

	_, err := svc.Create(CreateInput{URL: "https://example.com", Title: "X"})
	require.ErrorIs(t, err, ErrStoreClosed)
	_, err = svc.List("", "")
	require.ErrorIs(t, err, ErrStoreClosed)
}
