// Package session mengelola identitas anonim per tab browser. Token dibuat
// di client dan dikirim lewat header X-Session-ID; server hanya memvalidasi
// formatnya. Generate dipakai oleh endpoint bootstrap dan oleh tooling.
package session

import (
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"
)

const HeaderName = "X-Session-ID"

var (
	// Format baru: session_<unix-millis>_<uuid>
	uuidPattern = regexp.MustCompile(`^session_\d+_[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
	// Format lama: session_<unix-millis>_<alnum>
	legacyPattern = regexp.MustCompile(`^session_\d+_[a-zA-Z0-9]+$`)
)

// Generate membuat token sesi baru.
func Generate() string {
	return fmt.Sprintf("session_%d_%s", time.Now().UnixMilli(), uuid.NewString())
}

// Validate memeriksa format token. Menerima format lama maupun baru.
func Validate(sessionID string) bool {
	if len(sessionID) < 10 || len(sessionID) > 150 {
		return false
	}
	return uuidPattern.MatchString(sessionID) || legacyPattern.MatchString(sessionID)
}

// cached adalah token proses ini sendiri, diinisialisasi lazy pada akses
// pertama dan hanya di-reset lewat Reset. Dipakai proses non-browser
// (skrip demo, smoke test) yang butuh identitas sesi yang stabil.
var (
	mu     sync.Mutex
	cached string
)

func Current() string {
	mu.Lock()
	defer mu.Unlock()
	if cached == "" {
		cached = Generate()
	}
	return cached
}

// Reset membuang token proses; akses berikutnya membuat token baru.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	cached = ""
}
