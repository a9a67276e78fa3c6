package chat

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/IzzulGod/dynamenu-ai/ai"
	"github.com/IzzulGod/dynamenu-ai/cart"
	"github.com/IzzulGod/dynamenu-ai/models"
	"github.com/IzzulGod/dynamenu-ai/services"
	"github.com/IzzulGod/dynamenu-ai/utils"
)

// fakeCompleter menghitung panggilan dan mengembalikan balasan (atau error)
// yang sudah di-set test.
type fakeCompleter struct {
	reply string
	err   error
	calls int
}

func (f *fakeCompleter) Complete(ctx context.Context, systemPrompt string, turns []ai.Turn) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func setupGatewayTest(t *testing.T, completer ai.Completer) (*Gateway, *gorm.DB, *cart.Store) {
	t.Helper()
	utils.InitLogger()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.MenuCategory{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.ChatMessage{},
	))

	require.NoError(t, db.Create(&models.MenuItem{Name: "Nasi Goreng", Price: 25000, IsAvailable: true}).Error)
	require.NoError(t, db.Create(&models.MenuItem{Name: "Es Teh", Price: 8000, IsAvailable: true}).Error)

	carts := cart.NewStore()
	return NewGateway(db, completer, carts, services.NewOrderService(db)), db, carts
}

func countMessages(t *testing.T, db *gorm.DB, sessionID, role string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.ChatMessage{}).
		Where("session_id = ? AND role = ?", sessionID, role).
		Count(&n).Error)
	return n
}

func TestSendMessagePersistsTurn(t *testing.T) {
	fake := &fakeCompleter{reply: "Halo! Mau pesan apa hari ini?"}
	g, db, _ := setupGatewayTest(t, fake)

	reply, err := g.SendMessage(context.Background(), "session_1_abc", nil, "halo")
	require.NoError(t, err)
	assert.Equal(t, "Halo! Mau pesan apa hari ini?", reply)
	assert.Equal(t, 1, fake.calls)
	assert.EqualValues(t, 1, countMessages(t, db, "session_1_abc", models.ChatRoleUser))
	assert.EqualValues(t, 1, countMessages(t, db, "session_1_abc", models.ChatRoleAssistant))
}

func TestSendMessageRejectsEmpty(t *testing.T) {
	g, _, _ := setupGatewayTest(t, &fakeCompleter{reply: "ok"})

	_, err := g.SendMessage(context.Background(), "session_1_abc", nil, "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestSendMessageCooldownSkipsModel(t *testing.T) {
	fake := &fakeCompleter{reply: "Siap!"}
	g, db, _ := setupGatewayTest(t, fake)

	_, err := g.SendMessage(context.Background(), "session_1_abc", nil, "halo")
	require.NoError(t, err)

	// Panggilan kedua datang di bawah 2 detik: placeholder, tanpa panggilan
	// model, tanpa pesan user kedua di log.
	reply, err := g.SendMessage(context.Background(), "session_1_abc", nil, "halo lagi")
	require.NoError(t, err)
	assert.Equal(t, replySlowDown, reply)
	assert.Equal(t, 1, fake.calls)
	assert.EqualValues(t, 1, countMessages(t, db, "session_1_abc", models.ChatRoleUser))
}

func TestSendMessageCooldownPerSession(t *testing.T) {
	fake := &fakeCompleter{reply: "Siap!"}
	g, _, _ := setupGatewayTest(t, fake)

	_, err := g.SendMessage(context.Background(), "session_1_abc", nil, "halo")
	require.NoError(t, err)
	reply, err := g.SendMessage(context.Background(), "session_2_def", nil, "halo")
	require.NoError(t, err)

	// Sesi lain tidak terkena cooldown sesi pertama.
	assert.Equal(t, "Siap!", reply)
	assert.Equal(t, 2, fake.calls)
}

// blockingCompleter menahan panggilan pertama sampai disuruh lanjut, untuk
// mensimulasikan giliran yang masih in-flight.
type blockingCompleter struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingCompleter) Complete(ctx context.Context, systemPrompt string, turns []ai.Turn) (string, error) {
	close(b.started)
	<-b.release
	return "Siap!", nil
}

func TestSendMessageWhileInFlightReturnsBusy(t *testing.T) {
	block := &blockingCompleter{started: make(chan struct{}), release: make(chan struct{})}
	g, _, _ := setupGatewayTest(t, block)

	done := make(chan string)
	go func() {
		reply, _ := g.SendMessage(context.Background(), "session_1_abc", nil, "halo")
		done <- reply
	}()

	<-block.started
	reply, err := g.SendMessage(context.Background(), "session_1_abc", nil, "halo lagi")
	require.NoError(t, err)
	assert.Equal(t, replyBusy, reply)

	close(block.release)
	assert.Equal(t, "Siap!", <-done)
}

func TestSendMessageAppliesCartActions(t *testing.T) {
	fake := &fakeCompleter{reply: "Siap! [[ACTION:add_to_cart:Nasi Goreng:2:]]"}
	g, _, carts := setupGatewayTest(t, fake)

	reply, err := g.SendMessage(context.Background(), "session_1_abc", nil, "nasi goreng dua")
	require.NoError(t, err)
	assert.Equal(t, "Siap!", reply)

	snap := carts.Snapshot("session_1_abc")
	require.Len(t, snap.Lines, 1)
	assert.Equal(t, "Nasi Goreng", snap.Lines[0].Item.Name)
	assert.Equal(t, 2, snap.Lines[0].Quantity)
}

func TestSendMessageRateLimitedFallsBackToCannedReply(t *testing.T) {
	fake := &fakeCompleter{err: ai.ErrRateLimited}
	g, db, _ := setupGatewayTest(t, fake)

	reply, err := g.SendMessage(context.Background(), "session_1_abc", nil, "halo")
	require.NoError(t, err)
	assert.Equal(t, replyRateLimited, reply)

	// Fallback tetap tercatat sebagai balasan assistant.
	var last models.ChatMessage
	require.NoError(t, db.Where("session_id = ? AND role = ?", "session_1_abc", models.ChatRoleAssistant).
		Order("created_at DESC").First(&last).Error)
	assert.Equal(t, replyRateLimited, last.Content)
}

func TestSendMessageUnavailableFallsBack(t *testing.T) {
	fake := &fakeCompleter{err: fmt.Errorf("dial: %w", ai.ErrUnavailable)}
	g, _, _ := setupGatewayTest(t, fake)

	reply, err := g.SendMessage(context.Background(), "session_1_abc", nil, "halo")
	require.NoError(t, err)
	assert.Equal(t, replyUnavailable, reply)
}

func TestSendMessageUnknownErrorPropagates(t *testing.T) {
	fake := &fakeCompleter{err: fmt.Errorf("boom")}
	g, _, _ := setupGatewayTest(t, fake)

	_, err := g.SendMessage(context.Background(), "session_1_abc", nil, "halo")
	assert.Error(t, err)
}

func TestListMessagesCollapsesNearbyDuplicates(t *testing.T) {
	g, db, _ := setupGatewayTest(t, &fakeCompleter{})

	base := time.Now().Add(-time.Minute)
	msgs := []models.ChatMessage{
		{SessionID: "session_1_abc", Role: models.ChatRoleAssistant, Content: "Siap!", CreatedAt: base},
		{SessionID: "session_1_abc", Role: models.ChatRoleAssistant, Content: "Siap!", CreatedAt: base.Add(3 * time.Second)},
		{SessionID: "session_1_abc", Role: models.ChatRoleAssistant, Content: "Siap!", CreatedAt: base.Add(23 * time.Second)},
	}
	for i := range msgs {
		require.NoError(t, db.Create(&msgs[i]).Error)
	}

	got, err := g.ListMessages("session_1_abc")
	require.NoError(t, err)

	// Duplikat 3 detik dilipat; yang 20 detik kemudian tetap berdiri sendiri.
	require.Len(t, got, 2)
	assert.Equal(t, base.Unix(), got[0].CreatedAt.Unix())
	assert.Equal(t, base.Add(23*time.Second).Unix(), got[1].CreatedAt.Unix())
}

func TestListMessagesKeepsDifferentRolesApart(t *testing.T) {
	g, db, _ := setupGatewayTest(t, &fakeCompleter{})

	base := time.Now().Add(-time.Minute)
	msgs := []models.ChatMessage{
		{SessionID: "session_1_abc", Role: models.ChatRoleUser, Content: "halo", CreatedAt: base},
		{SessionID: "session_1_abc", Role: models.ChatRoleAssistant, Content: "halo", CreatedAt: base.Add(time.Second)},
	}
	for i := range msgs {
		require.NoError(t, db.Create(&msgs[i]).Error)
	}

	got, err := g.ListMessages("session_1_abc")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
