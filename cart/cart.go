// Package cart menyimpan keranjang belanja per sesi. Keranjang adalah state
// murni tanpa akses jaringan; dihapus setelah checkout berhasil.
package cart

import (
	"strings"

	"github.com/IzzulGod/dynamenu-ai/models"
)

// Line adalah satu baris keranjang: maksimal satu baris per menu item.
type Line struct {
	Item     models.MenuItem `json:"menu_item"`
	Quantity int             `json:"quantity"`
	Notes    string          `json:"notes,omitempty"`
}

func (l *Line) Subtotal() int64 {
	return l.Item.Price * int64(l.Quantity)
}

// Cart menjaga urutan baris sesuai urutan penambahan. Tidak tersinkronisasi
// sendiri; akses lintas goroutine dijaga oleh Store.
type Cart struct {
	lines []Line
}

// AddItem menambah kuantitas jika baris untuk item sudah ada, atau membuat
// baris baru. Catatan baris lama tidak disentuh kecuali notes diisi.
func (c *Cart) AddItem(item models.MenuItem, quantity int, notes string) {
	if quantity < 1 {
		quantity = 1
	}
	for i := range c.lines {
		if c.lines[i].Item.ID == item.ID {
			c.lines[i].Quantity += quantity
			if notes != "" {
				c.lines[i].Notes = notes
			}
			return
		}
	}
	c.lines = append(c.lines, Line{Item: item, Quantity: quantity, Notes: notes})
}

// RemoveItem menghapus baris; no-op jika tidak ada.
func (c *Cart) RemoveItem(itemID string) {
	for i := range c.lines {
		if c.lines[i].Item.ID == itemID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// UpdateQuantity mengganti kuantitas; kuantitas <= 0 berarti hapus baris.
func (c *Cart) UpdateQuantity(itemID string, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(itemID)
		return
	}
	for i := range c.lines {
		if c.lines[i].Item.ID == itemID {
			c.lines[i].Quantity = quantity
			return
		}
	}
}

// UpdateNotes mengganti catatan pada baris yang ada; no-op jika tidak ada.
func (c *Cart) UpdateNotes(itemID, notes string) {
	for i := range c.lines {
		if c.lines[i].Item.ID == itemID {
			c.lines[i].Notes = notes
			return
		}
	}
}

func (c *Cart) Clear() {
	c.lines = nil
}

// Lines mengembalikan salinan baris keranjang.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// FindLine mencari baris berdasarkan id item, atau nil.
func (c *Cart) FindLine(itemID string) *Line {
	for i := range c.lines {
		if c.lines[i].Item.ID == itemID {
			return &c.lines[i]
		}
	}
	return nil
}

// FindLineByName mencari baris dengan pencocokan nama fuzzy (substring dua
// arah, case-insensitive), untuk mengaitkan directive AI ke baris keranjang.
func (c *Cart) FindLineByName(name string) *Line {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil
	}
	for i := range c.lines {
		have := strings.ToLower(c.lines[i].Item.Name)
		if strings.Contains(have, needle) || strings.Contains(needle, have) {
			return &c.lines[i]
		}
	}
	return nil
}

func (c *Cart) TotalAmount() int64 {
	var total int64
	for i := range c.lines {
		total += c.lines[i].Subtotal()
	}
	return total
}

func (c *Cart) TotalItems() int {
	var n int
	for i := range c.lines {
		n += c.lines[i].Quantity
	}
	return n
}

// Snapshot memotret baris dan total dari keadaan yang sama.
func (c *Cart) Snapshot() Snapshot {
	return Snapshot{
		Lines:       c.Lines(),
		TotalAmount: c.TotalAmount(),
		TotalItems:  c.TotalItems(),
	}
}
