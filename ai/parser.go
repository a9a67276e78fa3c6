// Package ai berisi klien model percakapan dan parser directive keranjang.
//
// Assistant menyisipkan directive mesin di dalam teks balasannya dengan
// format [[ACTION:<type>:<nama menu>:<qty>?:<notes>?]]. Parser mengekstrak
// directive itu menjadi aksi keranjang dan membuang teksnya dari pesan yang
// ditampilkan. Directive yang rusak dibiarkan apa adanya sebagai teks biasa:
// sumbernya model non-deterministik, jadi parsing tidak pernah gagal keras.
package ai

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/IzzulGod/dynamenu-ai/models"
	"github.com/IzzulGod/dynamenu-ai/utils"
)

type ActionType string

const (
	ActionAddToCart      ActionType = "add_to_cart"
	ActionUpdateNotes    ActionType = "update_notes"
	ActionRemoveFromCart ActionType = "remove_from_cart"
)

// Action adalah satu mutasi keranjang hasil parsing, sudah ter-resolve ke
// item katalog. Transien: tidak pernah disimpan.
type Action struct {
	Type     ActionType
	Item     models.MenuItem
	Quantity int
	Notes    string
}

var directivePattern = regexp.MustCompile(`\[\[ACTION:[^\[\]]+\]\]`)

// ParseActions mengekstrak directive dari balasan assistant dan me-resolve
// nama menu terhadap snapshot katalog turn tersebut. Mengembalikan daftar
// aksi terurut sesuai posisi tekstual dan pesan bersih untuk ditampilkan.
// Nama yang tidak dikenal tetap di-strip tapi aksinya dibuang.
func ParseActions(reply string, menu []models.MenuItem) ([]Action, string) {
	matches := directivePattern.FindAllStringIndex(reply, -1)
	if len(matches) == 0 {
		return nil, strings.TrimSpace(reply)
	}

	var actions []Action
	var b strings.Builder
	last := 0
	for _, m := range matches {
		raw := reply[m[0]:m[1]]
		act, ok := parseDirective(raw)
		if !ok {
			// Grammar tidak cocok: biarkan sebagai teks biasa.
			continue
		}

		b.WriteString(reply[last:m[0]])
		last = m[1]

		item, found := ResolveMenuItem(menu, act.name)
		if !found {
			utils.InfoLogger.Printf("directive menunjuk menu tak dikenal: %q", act.name)
			continue
		}
		actions = append(actions, Action{
			Type:     act.typ,
			Item:     item,
			Quantity: act.quantity,
			Notes:    act.notes,
		})
	}
	b.WriteString(reply[last:])

	return actions, cleanMessage(b.String())
}

type rawDirective struct {
	typ      ActionType
	name     string
	quantity int
	notes    string
}

// parseDirective memecah isi satu kandidat directive. Tipe tak dikenal atau
// kuantitas non-numerik berarti bukan directive yang valid.
func parseDirective(raw string) (rawDirective, bool) {
	body := strings.TrimSuffix(strings.TrimPrefix(raw, "[[ACTION:"), "]]")
	parts := strings.SplitN(body, ":", 3)
	if len(parts) < 2 {
		return rawDirective{}, false
	}

	typ := ActionType(parts[0])
	switch typ {
	case ActionAddToCart, ActionUpdateNotes, ActionRemoveFromCart:
	default:
		return rawDirective{}, false
	}

	name := strings.TrimSpace(parts[1])
	if name == "" {
		return rawDirective{}, false
	}

	quantity := 1
	notes := ""
	if len(parts) == 3 {
		rest := strings.SplitN(parts[2], ":", 2)
		if q := strings.TrimSpace(rest[0]); q != "" {
			n, err := strconv.Atoi(q)
			if err != nil || n < 1 {
				return rawDirective{}, false
			}
			quantity = n
		}
		if len(rest) == 2 {
			notes = strings.TrimSpace(rest[1])
		}
	}

	return rawDirective{typ: typ, name: name, quantity: quantity, notes: notes}, true
}

// ResolveMenuItem mencocokkan nama dari directive ke item katalog.
// Urutan tie-break deterministik: match persis (case-insensitive) menang,
// lalu substring dua arah dengan nama katalog terpanjang, lalu urutan
// katalog.
func ResolveMenuItem(menu []models.MenuItem, name string) (models.MenuItem, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return models.MenuItem{}, false
	}

	for _, item := range menu {
		if strings.ToLower(item.Name) == needle {
			return item, true
		}
	}

	var best models.MenuItem
	found := false
	for _, item := range menu {
		have := strings.ToLower(item.Name)
		if !strings.Contains(have, needle) && !strings.Contains(needle, have) {
			continue
		}
		if !found || len(item.Name) > len(best.Name) {
			best = item
			found = true
		}
	}
	return best, found
}

var multiSpace = regexp.MustCompile(`[ \t]{2,}`)

func cleanMessage(s string) string {
	return strings.TrimSpace(multiSpace.ReplaceAllString(s, " "))
}
