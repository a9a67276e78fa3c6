package cart

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/IzzulGod/dynamenu-ai/models"
)

func menuItem(id, name string, price int64) models.MenuItem {
	return models.MenuItem{ID: id, Name: name, Price: price, IsAvailable: true}
}

func TestAddItemMergesLines(t *testing.T) {
	c := &Cart{}
	nasi := menuItem("m1", "Nasi Goreng", 25000)

	c.AddItem(nasi, 1, "")
	c.AddItem(nasi, 2, "")

	lines := c.Lines()
	assert.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.Equal(t, 3, c.TotalItems())
	assert.Equal(t, int64(75000), c.TotalAmount())
}

func TestAddItemKeepsNotesUnlessGiven(t *testing.T) {
	c := &Cart{}
	nasi := menuItem("m1", "Nasi Goreng", 25000)

	c.AddItem(nasi, 1, "pedas")
	c.AddItem(nasi, 1, "")
	assert.Equal(t, "pedas", c.Lines()[0].Notes)

	c.AddItem(nasi, 1, "tidak pedas")
	assert.Equal(t, "tidak pedas", c.Lines()[0].Notes)
}

func TestUpdateQuantityZeroOrNegativeRemoves(t *testing.T) {
	for _, q := range []int{0, -1} {
		c := &Cart{}
		c.AddItem(menuItem("m1", "Es Teh", 8000), 2, "")
		c.UpdateQuantity("m1", q)
		assert.Empty(t, c.Lines())
		assert.Equal(t, 0, c.TotalItems())
	}
}

func TestUpdateQuantitySetsNotAdds(t *testing.T) {
	c := &Cart{}
	c.AddItem(menuItem("m1", "Es Teh", 8000), 2, "")
	c.UpdateQuantity("m1", 5)
	assert.Equal(t, 5, c.Lines()[0].Quantity)
}

func TestRemoveAndNotesOnAbsentLineAreNoOps(t *testing.T) {
	c := &Cart{}
	c.RemoveItem("nope")
	c.UpdateNotes("nope", "x")
	assert.Empty(t, c.Lines())
}

func TestAtMostOneLinePerItem(t *testing.T) {
	c := &Cart{}
	a := menuItem("m1", "Nasi Goreng", 25000)
	b := menuItem("m2", "Es Teh", 8000)

	c.AddItem(a, 1, "")
	c.AddItem(b, 1, "")
	c.AddItem(a, 1, "")
	c.UpdateQuantity("m2", 4)
	c.AddItem(b, 1, "")

	seen := map[string]bool{}
	total := 0
	for _, l := range c.Lines() {
		assert.False(t, seen[l.Item.ID], "baris ganda untuk %s", l.Item.ID)
		seen[l.Item.ID] = true
		total += l.Quantity
	}
	assert.Equal(t, total, c.TotalItems())
}

func TestClear(t *testing.T) {
	c := &Cart{}
	c.AddItem(menuItem("m1", "Es Teh", 8000), 2, "")
	c.Clear()
	assert.Empty(t, c.Lines())
	assert.Equal(t, int64(0), c.TotalAmount())
}

func TestFindLineByName(t *testing.T) {
	c := &Cart{}
	c.AddItem(menuItem("m1", "Nasi Goreng Spesial", 30000), 1, "")

	assert.NotNil(t, c.FindLineByName("nasi goreng"))
	assert.NotNil(t, c.FindLineByName("NASI GORENG SPESIAL ENAK"))
	assert.Nil(t, c.FindLineByName("es teh"))
	assert.Nil(t, c.FindLineByName("  "))
}

func TestStorePerSession(t *testing.T) {
	s := NewStore()
	s.WithCart("sesi-a", func(c *Cart) {
		c.AddItem(menuItem("m1", "Es Teh", 8000), 1, "")
	})

	assert.Equal(t, 1, s.Snapshot("sesi-a").TotalItems)
	assert.Equal(t, 0, s.Snapshot("sesi-b").TotalItems)

	s.Clear("sesi-a")
	assert.Equal(t, 0, s.Snapshot("sesi-a").TotalItems)
}

func TestStoreSnapshotConsistentUnderConcurrentWrites(t *testing.T) {
	s := NewStore()
	item := menuItem("m1", "Es Teh", 8000)

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				s.WithCart("sesi-a", func(c *Cart) {
					c.AddItem(item, 1, "")
				})
			}
		}()
	}

	// Pembaca berjalan bersamaan dengan penulis; setiap potret harus
	// konsisten di dalam dirinya sendiri (total cocok dengan barisnya).
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			snap := s.Snapshot("sesi-a")
			var total int64
			var items int
			for _, l := range snap.Lines {
				total += l.Subtotal()
				items += l.Quantity
			}
			assert.Equal(t, snap.TotalAmount, total)
			assert.Equal(t, snap.TotalItems, items)
		}
	}()

	wg.Wait()
	final := s.Snapshot("sesi-a")
	assert.Equal(t, 800, final.TotalItems)
	assert.Equal(t, int64(800*8000), final.TotalAmount)
}
