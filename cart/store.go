package cart

import "sync"

// Snapshot adalah potret konsisten isi keranjang, diambil di bawah lock
// Store dan aman dibaca setelahnya.
type Snapshot struct {
	Lines       []Line `json:"lines"`
	TotalAmount int64  `json:"total_amount"`
	TotalItems  int    `json:"total_items"`
}

// Store menampung keranjang per sesi. Cart sendiri tidak punya lock; semua
// akses, baca maupun tulis, harus lewat Store supaya aman dari banyak
// goroutine HTTP sekaligus.
type Store struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

func NewStore() *Store {
	return &Store{carts: make(map[string]*Cart)}
}

// get mengembalikan keranjang milik sesi, dibuat lazy bila belum ada.
// Caller harus memegang s.mu.
func (s *Store) get(sessionID string) *Cart {
	c, ok := s.carts[sessionID]
	if !ok {
		c = &Cart{}
		s.carts[sessionID] = c
	}
	return c
}

// Snapshot mengambil potret isi keranjang satu sesi: baris plus total dari
// saat yang sama, tidak tercampur mutasi dari request lain.
func (s *Store) Snapshot(sessionID string) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(sessionID).Snapshot()
}

// Clear mengosongkan keranjang sesi (dipanggil setelah pembayaran sukses).
func (s *Store) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.carts[sessionID]; ok {
		c.Clear()
	}
}

// WithCart menjalankan fn sambil memegang lock Store, supaya rangkaian
// mutasi dari satu chat turn diterapkan atomik terhadap request lain.
// fn tidak boleh menyimpan *Cart atau pointer barisnya keluar dari callback.
func (s *Store) WithCart(sessionID string, fn func(c *Cart)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.get(sessionID))
}
