package ai

import (
	"fmt"
	"strings"

	"github.com/IzzulGod/dynamenu-ai/models"
	"github.com/IzzulGod/dynamenu-ai/utils"
)

// PromptCartLine adalah potret satu baris keranjang untuk konteks model.
type PromptCartLine struct {
	Name     string
	Quantity int
	Notes    string
}

// PromptOrder adalah ringkasan satu order lama untuk konteks model.
type PromptOrder struct {
	Status string
	Total  int64
	Items  string
}

// BuildSystemPrompt merakit instruksi sistem berbahasa Indonesia berisi
// snapshot menu, ringkasan order terakhir, dan isi keranjang saat ini.
func BuildSystemPrompt(menu []models.MenuItem, orders []PromptOrder, cartLines []PromptCartLine) string {
	var b strings.Builder

	b.WriteString(`Kamu adalah asisten AI ramah di restoran. Nama kamu "RestoAI".

TUGAS UTAMA:
1. Menyapa tamu dengan hangat
2. Memberikan rekomendasi menu berdasarkan preferensi
3. Menjawab pertanyaan tentang menu (bahan, alergi, porsi)
4. Membantu proses pemesanan via chat

`)

	b.WriteString("MENU TERSEDIA:\n")
	for _, item := range menu {
		rec := ""
		if item.IsRecommended {
			rec = " (recommended)"
		}
		fmt.Fprintf(&b, "- %s%s | %s | %s | %d menit\n",
			item.Name, rec, utils.FormatRupiah(item.Price),
			strings.Join(item.TagList(), ", "), item.PreparationTime)
	}

	b.WriteString("\nPESANAN TERBARU CUSTOMER INI:\n")
	if len(orders) == 0 {
		b.WriteString("- belum ada\n")
	}
	for _, o := range orders {
		fmt.Fprintf(&b, "- %s | %s | %s\n", o.Status, utils.FormatRupiah(o.Total), o.Items)
	}

	b.WriteString("\nKERANJANG SAAT INI:\n")
	if len(cartLines) == 0 {
		b.WriteString("- kosong\n")
	}
	for _, l := range cartLines {
		fmt.Fprintf(&b, "- %dx %s", l.Quantity, l.Name)
		if l.Notes != "" {
			fmt.Fprintf(&b, " (%s)", l.Notes)
		}
		b.WriteString("\n")
	}

	b.WriteString(`
MENGUBAH KERANJANG:
Kalau customer minta menambah, mengubah catatan, atau menghapus item,
sisipkan directive ini di dalam jawabanmu (boleh lebih dari satu):
[[ACTION:add_to_cart:<nama menu>:<jumlah>:<catatan>]]
[[ACTION:update_notes:<nama menu>::<catatan>]]
[[ACTION:remove_from_cart:<nama menu>]]
Gunakan nama menu persis seperti di daftar. Directive tidak akan terlihat
oleh customer.

ATURAN PENTING:
- Jawab dalam Bahasa Indonesia dengan santai tapi sopan
- Jika ditanya rekomendasi, lihat tags dan deskripsi menu
- Untuk diet/alergi, periksa tags (vegetarian, sehat, pedas, dll)
- Sebutkan harga jika relevan
- Respon singkat dan helpful, maksimal 2-3 kalimat
- Jangan pernah buat menu palsu yang tidak ada di daftar
- Jika tidak yakin, jujur saja dan tawarkan untuk panggil waiter`)

	return b.String()
}
