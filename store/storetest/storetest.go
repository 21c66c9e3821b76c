// Package storetest checks that a store.Store implementation behaves like
// the reference memory store.
package storetest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/menudoc/model"
	"github.com/tsawler/menudoc/store"
)

// Factory returns an empty store that reads the time from clock
type Factory func(t *testing.T, clock store.Clock) store.Store

// Clock is a settable test clock
type Clock struct {
	mu sync.Mutex
	t  time.Time
}

// NewClock starts a clock at a fixed instant
func NewClock() *Clock {
	return &Clock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// Document returns a document holding one section of every kind
func Document() *model.Document {
	d := model.NewDocument("", "Trattoria")
	d.ShortDescription = "Italian food"
	d.Category = "restaurant"
	d.LogoRef = "logo.png"
	d.FooterNote = "Service not included"

	bruschetta := model.NewItem("i1", "Bruschetta", 2800)
	bruschetta.Tags = []string{"vegan"}
	soup := model.NewItem("i2", "Soup", 1500)
	soup.Order = 1
	soup.Available = false

	d.Sections = []model.Section{
		&model.Heading{SectionHeader: model.SectionHeader{ID: "s1", Order: 0, Title: "Menu"}},
		&model.ItemGroup{SectionHeader: model.SectionHeader{ID: "s2", Order: 1, Title: "Starters"}, Items: []model.Item{bruschetta, soup}},
		&model.RichText{SectionHeader: model.SectionHeader{ID: "s3", Order: 2}, HTML: "<p>Hello</p>"},
		&model.Image{SectionHeader: model.SectionHeader{ID: "s4", Order: 3}, ImageRef: "hero.jpg"},
		&model.List{SectionHeader: model.SectionHeader{ID: "s5", Order: 4}, Items: []string{"a", "b"}},
		&model.Divider{SectionHeader: model.SectionHeader{ID: "s6", Order: 5}},
		&model.Spacer{SectionHeader: model.SectionHeader{ID: "s7", Order: 6}, Height: 24},
		&model.Video{SectionHeader: model.SectionHeader{ID: "s8", Order: 7}, VideoRef: "https://video.example/x"},
		&model.Gallery{SectionHeader: model.SectionHeader{ID: "s9", Order: 8}, Images: []model.GalleryImage{
			{ID: "g1", ImageRef: "hero.jpg", Order: 0},
		}},
		&model.FAQ{SectionHeader: model.SectionHeader{ID: "s10", Order: 9}, Entries: []model.FaqEntry{
			{ID: "f1", Question: "Parking?", Answer: "Yes", Order: 0},
		}},
	}
	return d
}

// Run exercises the Store contract against stores built by newStore
func Run(t *testing.T, newStore Factory) {
	ctx := context.Background()

	t.Run("SaveAssignsID", func(t *testing.T) {
		clock := NewClock()
		s := newStore(t, clock.Now)

		saved, err := s.Save(ctx, Document())
		require.NoError(t, err)
		assert.NotEmpty(t, saved.ID)
		assert.True(t, saved.UpdatedAt.Equal(clock.Now()), "UpdatedAt = %v", saved.UpdatedAt)
		assert.Equal(t, model.StatusDraft, saved.Status)
	})

	t.Run("RoundTrip", func(t *testing.T) {
		s := newStore(t, NewClock().Now)
		in := Document()
		in.ID = "trattoria"
		in.Status = model.StatusPublished

		saved, err := s.Save(ctx, in)
		require.NoError(t, err)
		loaded, err := s.Load(ctx, "trattoria")
		require.NoError(t, err)
		assert.Equal(t, saved, loaded)

		loaded.UpdatedAt = in.UpdatedAt
		assert.Equal(t, in, loaded)
	})

	t.Run("ItemAvailableByDefault", func(t *testing.T) {
		s := newStore(t, NewClock().Now)
		raw := `{"kind":"itemGroup","id":"s1","order":0,"title":"Drinks","items":[` +
			`{"id":"i1","name":"Water","price":500,"tags":null,"allergens":null,"order":0}]}`
		sec, err := model.UnmarshalSection([]byte(raw))
		require.NoError(t, err)
		in := model.NewDocument("", "Bar")
		in.Sections = []model.Section{sec}

		saved, err := s.Save(ctx, in)
		require.NoError(t, err)
		loaded, err := s.Load(ctx, saved.ID)
		require.NoError(t, err)
		group, ok := loaded.ItemGroupByID("s1")
		require.True(t, ok)
		require.Len(t, group.Items, 1)
		assert.True(t, group.Items[0].Available)
	})

	t.Run("SaveDoesNotRetainInput", func(t *testing.T) {
		s := newStore(t, NewClock().Now)
		in := Document()
		in.ID = "d"
		_, err := s.Save(ctx, in)
		require.NoError(t, err)
		assert.True(t, in.UpdatedAt.IsZero(), "Save modified its argument")

		in.Name = "changed"
		in.Sections[0].Header().Title = "changed"
		loaded, err := s.Load(ctx, "d")
		require.NoError(t, err)
		assert.Equal(t, "Trattoria", loaded.Name)
		assert.Equal(t, "Menu", loaded.Sections[0].Header().Title)
	})

	t.Run("Replace", func(t *testing.T) {
		clock := NewClock()
		s := newStore(t, clock.Now)

		first, err := s.Save(ctx, Document())
		require.NoError(t, err)
		clock.Advance(time.Hour)

		first.Name = "Renamed"
		first.Sections = first.Sections[:1]
		second, err := s.Save(ctx, first)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.True(t, second.UpdatedAt.Equal(clock.Now()))

		loaded, err := s.Load(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", loaded.Name)
		assert.Len(t, loaded.Sections, 1)
	})

	t.Run("NotFound", func(t *testing.T) {
		s := newStore(t, NewClock().Now)

		_, err := s.Load(ctx, "missing")
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.ErrorIs(t, err, model.ErrNotFound)

		err = s.Delete(ctx, "missing")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		s := newStore(t, NewClock().Now)
		saved, err := s.Save(ctx, Document())
		require.NoError(t, err)

		require.NoError(t, s.Delete(ctx, saved.ID))
		_, err = s.Load(ctx, saved.ID)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("List", func(t *testing.T) {
		clock := NewClock()
		s := newStore(t, clock.Now)

		for _, st := range []model.Status{model.StatusDraft, model.StatusPublished, model.StatusPublished} {
			d := Document()
			d.Status = st
			_, err := s.Save(ctx, d)
			require.NoError(t, err)
			clock.Advance(time.Minute)
		}

		all, err := s.List(ctx, "")
		require.NoError(t, err)
		require.Len(t, all, 3)
		for i := 1; i < len(all); i++ {
			assert.False(t, all[i].UpdatedAt.After(all[i-1].UpdatedAt), "not newest first")
		}
		assert.Equal(t, "Trattoria", all[0].Name)
		assert.Equal(t, 10, all[0].Sections)

		published, err := s.List(ctx, model.StatusPublished)
		require.NoError(t, err)
		assert.Len(t, published, 2)

		inactive, err := s.List(ctx, model.StatusInactive)
		require.NoError(t, err)
		assert.Empty(t, inactive)
	})

	t.Run("Validation", func(t *testing.T) {
		s := newStore(t, NewClock().Now)

		bad := Document()
		bad.Status = "archived"
		_, err := s.Save(ctx, bad)
		ve, ok := model.AsValidation(err)
		require.True(t, ok, "err = %v", err)
		assert.True(t, ve.Has("status"))

		gap := Document()
		gap.Sections[1].Header().Order = 5
		_, err = s.Save(ctx, gap)
		ve, ok = model.AsValidation(err)
		require.True(t, ok, "err = %v", err)
		assert.True(t, ve.Has("sections"))

		bad = Document()
		bad.Currency = "ZZZ1"
		bad.Sections = append(bad.Sections, &model.Heading{SectionHeader: model.SectionHeader{ID: "s1", Order: 10, Title: " "}})
		starters := bad.Sections[1].(*model.ItemGroup)
		starters.Items[0].Name = "  "
		starters.Items[1].ID = "i1"
		bad.Sections[8].(*model.Gallery).Images[0].ImageRef = ""
		bad.Sections[9].(*model.FAQ).Entries[0].Question = ""
		_, err = s.Save(ctx, bad)
		ve, ok = model.AsValidation(err)
		require.True(t, ok, "err = %v", err)
		for _, field := range []string{
			"currency",
			"sections[10].id",
			"sections[10].title",
			"sections[1].items[0].name",
			"sections[1].items[1].id",
			"sections[8].images[0].imageRef",
			"sections[9].entries[0].question",
		} {
			assert.True(t, ve.Has(field), "missing %s in %v", field, ve)
		}

		_, err = s.Save(ctx, nil)
		assert.Error(t, err)

		all, err := s.List(ctx, "")
		require.NoError(t, err)
		assert.Empty(t, all)
	})
}
