package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelderman/listforge/internal/model"
)

func testCatalog() ([]model.Series, []model.CatalogItem) {
	series := []model.Series{
		{ID: 20, Name: "Eco Line", ManufacturerID: 1},
		{ID: 10, Name: "Pro Line", ManufacturerID: 1},
	}
	items := []model.CatalogItem{
		{ID: 3, Name: "Eco Shelf", SKU: "ECO-3", SeriesID: 20},
		{ID: 1, Name: "Pro Desk", SKU: "PRO-1", SeriesID: 10},
		{ID: 2, Name: "Pro Chair", SKU: "PRO-2", SeriesID: 10},
	}
	return series, items
}

func keyMsg(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	if s == "enter" {
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m PickerModel, keys ...string) PickerModel {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(keyMsg(k))
		var ok bool
		m, ok = next.(PickerModel)
		require.True(t, ok)
	}
	return m
}

func TestPickerRowsGroupedBySeriesID(t *testing.T) {
	series, items := testCatalog()
	m := NewPicker("Select items", series, items, nil)

	require.Len(t, m.rows, 3)
	// Series in ascending id order, items in ascending id order within each.
	assert.Equal(t, int64(1), m.rows[0].item.ID)
	assert.Equal(t, int64(2), m.rows[1].item.ID)
	assert.Equal(t, int64(3), m.rows[2].item.ID)
	assert.True(t, m.rows[0].firstOf)
	assert.False(t, m.rows[1].firstOf)
	assert.True(t, m.rows[2].firstOf)
}

func TestPickerToggleAndAccept(t *testing.T) {
	series, items := testCatalog()
	m := NewPicker("Select items", series, items, nil)

	m = update(t, m, " ", "j", "j", " ")
	m = update(t, m, "enter")

	assert.True(t, m.Accepted())
	assert.Equal(t, []int64{1, 3}, m.SelectedIDs())
}

func TestPickerSelectAllAndNone(t *testing.T) {
	series, items := testCatalog()
	m := NewPicker("Select items", series, items, nil)

	m = update(t, m, "a")
	assert.Equal(t, []int64{1, 2, 3}, m.SelectedIDs())

	m = update(t, m, "n")
	assert.Empty(t, m.SelectedIDs())
}

func TestPickerQuitDoesNotAccept(t *testing.T) {
	series, items := testCatalog()
	m := NewPicker("Select items", series, items, nil)

	m = update(t, m, "a", "q")
	assert.False(t, m.Accepted())
}

func TestPickerPreselection(t *testing.T) {
	series, items := testCatalog()
	m := NewPicker("Select items", series, items, []int64{2})

	assert.Equal(t, []int64{2}, m.SelectedIDs())
	assert.Contains(t, m.View(), "[x]")
}
