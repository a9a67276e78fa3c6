// Package chat mengorkestrasi satu giliran percakapan dengan asisten AI:
// simpan pesan user, panggil model, terapkan directive keranjang, simpan
// balasan bersih. Satu sesi hanya boleh punya satu giliran in-flight.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/IzzulGod/dynamenu-ai/ai"
	"github.com/IzzulGod/dynamenu-ai/cart"
	"github.com/IzzulGod/dynamenu-ai/models"
	"github.com/IzzulGod/dynamenu-ai/services"
	"github.com/IzzulGod/dynamenu-ai/utils"
)

const (
	// SendCooldown adalah jeda minimum antar pesan yang diterima dari satu
	// sesi, dihitung dari awal panggilan yang diterima sebelumnya.
	SendCooldown = 2 * time.Second

	// DedupWindow: pesan identik beruntun dalam jendela ini dianggap tulisan
	// ganda dari turn yang di-retry dan dilipat saat dibaca.
	DedupWindow = 10 * time.Second

	// historyWindow membatasi riwayat yang dikirim ke model.
	historyWindow = 10

	// recentOrderLimit membatasi ringkasan order lama di prompt.
	recentOrderLimit = 3
)

// Placeholder dan fallback berbahasa Indonesia. Teks error provider mentah
// tidak pernah sampai ke customer.
const (
	replyBusy        = "Tunggu sebentar ya, pesan kamu yang tadi masih aku proses 😊"
	replySlowDown    = "Pelan-pelan ya, beri aku waktu sebentar sebelum pesan berikutnya 😊"
	replyRateLimited = "Maaf, aku lagi sibuk banget. Coba lagi beberapa saat ya! 😅"
	replyQuotaOut    = "Maaf, ada kendala teknis. Bisa lihat menu manual dulu ya!"
	replyUnavailable = "Waduh, ada masalah teknis nih. Coba lagi ya, atau langsung pilih dari menu! 😊"
	replyEmpty       = "Maaf, ada kendala. Coba lagi ya!"
)

var ErrEmptyMessage = errors.New("pesan kosong")

type sessionState struct {
	inFlight     bool
	lastAccepted time.Time
}

// Gateway menjalankan protokol giliran chat per sesi.
type Gateway struct {
	db        *gorm.DB
	completer ai.Completer
	carts     *cart.Store
	orders    *services.OrderService

	mu       sync.Mutex
	sessions map[string]*sessionState
}

func NewGateway(db *gorm.DB, completer ai.Completer, carts *cart.Store, orders *services.OrderService) *Gateway {
	return &Gateway{
		db:        db,
		completer: completer,
		carts:     carts,
		orders:    orders,
		sessions:  make(map[string]*sessionState),
	}
}

// SendMessage menjalankan satu giliran penuh dan mengembalikan balasan
// bersih. Panggilan saat giliran lain masih jalan, atau terlalu cepat
// setelah panggilan sebelumnya, langsung dijawab placeholder tanpa
// menyentuh log pesan maupun model.
func (g *Gateway) SendMessage(ctx context.Context, sessionID string, tableID *string, content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", ErrEmptyMessage
	}

	release, placeholder := g.acquire(sessionID)
	if release == nil {
		return placeholder, nil
	}
	defer release()

	// 1. Konteks model: menu + ringkasan order + keranjang + riwayat.
	// Riwayat dibaca sebelum pesan baru masuk log supaya tidak dobel.
	menu, err := g.availableMenu()
	if err != nil {
		return "", fmt.Errorf("muat menu: %w", err)
	}
	systemPrompt := ai.BuildSystemPrompt(menu, g.recentOrders(sessionID), g.cartSnapshot(sessionID))
	turns := append(g.history(sessionID), ai.Turn{Role: models.ChatRoleUser, Content: content})

	// 2. Pesan user harus tercatat sebelum model dipanggil.
	userMsg := models.ChatMessage{
		SessionID: sessionID,
		TableID:   tableID,
		Role:      models.ChatRoleUser,
		Content:   content,
	}
	if err := g.db.Create(&userMsg).Error; err != nil {
		return "", fmt.Errorf("simpan pesan user: %w", err)
	}

	// 3. Panggilan model. Sinyal rate-limit/kuota/provider mati menurunkan
	// giliran menjadi balasan kalengan, bukan error; kegagalan lain naik.
	reply, err := g.completer.Complete(ctx, systemPrompt, turns)
	clean := ""
	if err != nil {
		switch {
		case errors.Is(err, ai.ErrRateLimited):
			clean = replyRateLimited
		case errors.Is(err, ai.ErrQuotaExhausted):
			clean = replyQuotaOut
		case errors.Is(err, ai.ErrUnavailable):
			utils.ErrorLogger.Printf("provider AI tidak tersedia: %v", err)
			clean = replyUnavailable
		default:
			return "", fmt.Errorf("panggil model: %w", err)
		}
	} else {
		// 4. Ekstrak directive, terapkan ke keranjang sesi ini.
		var actions []ai.Action
		actions, clean = ai.ParseActions(reply, menu)
		if len(actions) > 0 {
			g.carts.WithCart(sessionID, func(c *cart.Cart) {
				applyActions(c, actions)
			})
		}
		if clean == "" {
			clean = replyEmpty
		}
	}

	// 5. Balasan bersih masuk log supaya percakapan tetap koheren.
	assistantMsg := models.ChatMessage{
		SessionID: sessionID,
		TableID:   tableID,
		Role:      models.ChatRoleAssistant,
		Content:   clean,
	}
	if err := g.db.Create(&assistantMsg).Error; err != nil {
		return "", fmt.Errorf("simpan balasan assistant: %w", err)
	}

	return clean, nil
}

// acquire memasang guard in-flight dan cooldown untuk satu sesi. Kalau
// ditolak, release nil dan placeholder berisi jawaban ramah untuk caller.
func (g *Gateway) acquire(sessionID string) (func(), string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	st, ok := g.sessions[sessionID]
	if !ok {
		st = &sessionState{}
		g.sessions[sessionID] = st
	}
	if st.inFlight {
		return nil, replyBusy
	}
	if !st.lastAccepted.IsZero() && time.Since(st.lastAccepted) < SendCooldown {
		return nil, replySlowDown
	}

	st.inFlight = true
	st.lastAccepted = time.Now()
	return func() {
		g.mu.Lock()
		st.inFlight = false
		g.mu.Unlock()
	}, ""
}

// ListMessages membaca log percakapan terurut waktu, melipat pesan identik
// beruntun yang jaraknya di bawah DedupWindow ke pesan yang lebih awal.
func (g *Gateway) ListMessages(sessionID string) ([]models.ChatMessage, error) {
	var msgs []models.ChatMessage
	if err := g.db.Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&msgs).Error; err != nil {
		return nil, err
	}

	out := msgs[:0]
	for _, m := range msgs {
		if len(out) > 0 {
			prev := out[len(out)-1]
			if prev.Role == m.Role && prev.Content == m.Content &&
				m.CreatedAt.Sub(prev.CreatedAt) < DedupWindow {
				continue
			}
		}
		out = append(out, m)
	}
	return out, nil
}

// applyActions menerapkan aksi hasil parsing secara berurutan. update_notes
// untuk item yang belum ada di keranjang diturunkan menjadi add_to_cart
// dengan catatan yang sama; remove untuk baris yang tidak ada adalah no-op.
func applyActions(c *cart.Cart, actions []ai.Action) {
	for _, a := range actions {
		switch a.Type {
		case ai.ActionAddToCart:
			c.AddItem(a.Item, a.Quantity, a.Notes)
		case ai.ActionUpdateNotes:
			line := c.FindLine(a.Item.ID)
			if line == nil {
				line = c.FindLineByName(a.Item.Name)
			}
			if line == nil {
				c.AddItem(a.Item, a.Quantity, a.Notes)
				continue
			}
			c.UpdateNotes(line.Item.ID, a.Notes)
		case ai.ActionRemoveFromCart:
			line := c.FindLine(a.Item.ID)
			if line == nil {
				line = c.FindLineByName(a.Item.Name)
			}
			if line != nil {
				c.RemoveItem(line.Item.ID)
			}
		}
	}
}

func (g *Gateway) availableMenu() ([]models.MenuItem, error) {
	var menu []models.MenuItem
	err := g.db.Where("is_available = ?", true).Order("name ASC").Find(&menu).Error
	return menu, err
}

func (g *Gateway) recentOrders(sessionID string) []ai.PromptOrder {
	orders, err := g.orders.RecentOrderSummaries(sessionID, recentOrderLimit)
	if err != nil {
		utils.ErrorLogger.Printf("muat ringkasan order untuk prompt: %v", err)
		return nil
	}
	out := make([]ai.PromptOrder, 0, len(orders))
	for _, o := range orders {
		var items []string
		for _, it := range o.Items {
			name := "Item"
			if it.MenuItem != nil {
				name = it.MenuItem.Name
			}
			items = append(items, fmt.Sprintf("%dx %s", it.Quantity, name))
		}
		out = append(out, ai.PromptOrder{
			Status: o.Status,
			Total:  o.TotalAmount,
			Items:  strings.Join(items, ", "),
		})
	}
	return out
}

func (g *Gateway) cartSnapshot(sessionID string) []ai.PromptCartLine {
	lines := g.carts.Snapshot(sessionID).Lines
	out := make([]ai.PromptCartLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, ai.PromptCartLine{
			Name:     l.Item.Name,
			Quantity: l.Quantity,
			Notes:    l.Notes,
		})
	}
	return out
}

// history mengambil jendela riwayat paling baru untuk konteks model.
func (g *Gateway) history(sessionID string) []ai.Turn {
	msgs, err := g.ListMessages(sessionID)
	if err != nil {
		utils.ErrorLogger.Printf("muat riwayat chat: %v", err)
		return nil
	}
	if len(msgs) > historyWindow {
		msgs = msgs[len(msgs)-historyWindow:]
	}
	turns := make([]ai.Turn, 0, len(msgs))
	for _, m := range msgs {
		turns = append(turns, ai.Turn{Role: m.Role, Content: m.Content})
	}
	return turns
}
